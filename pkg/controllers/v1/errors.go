package v1

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/budget-app/backend/pkg/models"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type httpError struct {
	Error string `json:"error" example:"Make sure name and amount is valid"`
}

var (
	errSaveCategory       = errors.New("Unable to save category")
	errSaveTransaction    = errors.New("Unable to save transaction")
	errFetchCategories    = errors.New("Unable to fetch categories")
	errFetchTransactions  = errors.New("Unable to fetch transactions")
	errStreamNotSupported = errors.New("streaming is not supported by this connection")
)

// status returns the appropriate status for an error
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) || errors.Is(err, errStreamNotSupported) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	return http.StatusBadRequest
}

// message returns the text for an error that is shown to users.
//
// Server errors are logged and replaced with the fallback.
func message(c *gin.Context, err error, fallback error) string {
	if status(err) == http.StatusInternalServerError {
		log.Error().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err.Error())
		return fallback.Error()
	}

	return err.Error()
}

func isTypeError(err error) bool {
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &typeErr)
}
