package healthz

import (
	"net/http"

	"github.com/budget-app/backend/pkg/httputil"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Pinger verifies the connection to the database.
type Pinger interface {
	Ping() error
}

type httpError struct {
	Error string `json:"error" example:"the database is not reachable"`
}

func RegisterRoutes(r *gin.RouterGroup, p Pinger) {
	r.OPTIONS("", Options)
	r.GET("", Get(p))
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			General
// @Success		204
// @Router			/healthz [options]
func Options(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get health
// @Description	Returns the application health and, if not healthy, an error
// @Tags			General
// @Produce		json
// @Success		204
// @Failure		500	{object}	httpError
// @Router			/healthz [get]
func Get(p Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := p.Ping()
		if err != nil {
			log.Error().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err.Error())
			c.JSON(http.StatusInternalServerError, httpError{
				Error: "the database is not reachable",
			})
			return
		}

		c.Status(http.StatusNoContent)
	}
}
