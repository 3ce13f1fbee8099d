package v1

import (
	"net/http"

	"github.com/budget-app/backend/pkg/httputil"
	"github.com/budget-app/backend/pkg/models"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Names of the server-sent events.
const (
	EventCategories   = "categories"
	EventTransactions = "transactions"
)

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Categories
// @Success		204
// @Router			/v1/categories/stream [options]
func OptionsCategoryStream(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Stream categories
// @Description	Streams the list of categories as server-sent events. The current list is sent first, then the new list every time a category is created.
// @Tags			Categories
// @Produce		text/event-stream
// @Success		200	{array}		Category
// @Failure		500	{object}	httpError
// @Router			/v1/categories/stream [get]
func (co Controller) StreamCategories(c *gin.Context) {
	updates := make(chan []models.BudgetCategory, 1)

	categories, handle, err := co.Live.SubscribeCategories(func(categories []models.BudgetCategory) {
		offer(updates, categories)
	})
	if err != nil {
		c.JSON(status(err), httpError{
			Error: message(c, err, errFetchCategories),
		})
		return
	}
	defer co.Live.Unsubscribe(handle)

	stream[models.BudgetCategory](c, EventCategories, updates, categories, func(categories []models.BudgetCategory) any {
		return newCategories(c, categories)
	})
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/categories/{id}/transactions/stream [options]
func (co Controller) OptionsTransactionStream(c *gin.Context) {
	if !co.categoryExists(c) {
		return
	}

	httputil.OptionsGet(c)
}

// @Summary		Stream transactions
// @Description	Streams the transactions of a category as server-sent events. The current list is sent first, then the new list every time a transaction is created for the category.
// @Tags			Transactions
// @Produce		text/event-stream
// @Success		200	{array}		Transaction
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ID of the category"
// @Router			/v1/categories/{id}/transactions/stream [get]
func (co Controller) StreamTransactions(c *gin.Context) {
	categoryID, err := bindID(c)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	updates := make(chan []models.Transaction, 1)

	transactions, handle, err := co.Live.SubscribeTransactions(categoryID, func(transactions []models.Transaction) {
		offer(updates, transactions)
	})
	if err != nil {
		c.JSON(status(err), httpError{
			Error: message(c, err, errFetchTransactions),
		})
		return
	}
	defer co.Live.Unsubscribe(handle)

	stream[models.Transaction](c, EventTransactions, updates, transactions, func(transactions []models.Transaction) any {
		return newTransactions(c, transactions)
	})
}

// stream sends the initial list and every update as an event until the
// client goes away.
func stream[T any](c *gin.Context, event string, updates <-chan []T, initial []T, render func([]T) any) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(status(errStreamNotSupported), httpError{
			Error: errStreamNotSupported.Error(),
		})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	c.SSEvent(event, render(initial))
	flusher.Flush()

	requestID := requestid.Get(c)
	log.Debug().Str("request-id", requestID).Str("event", event).Msg("stream opened")

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("request-id", requestID).Str("event", event).Msg("stream closed")
			return
		case list := <-updates:
			c.SSEvent(event, render(list))
			flusher.Flush()
		}
	}
}

// offer puts the list into the channel. If the channel is full,
// the list waiting in it is replaced since it is outdated.
func offer[T any](ch chan []T, list []T) {
	for {
		select {
		case ch <- list:
			return
		default:
		}

		select {
		case <-ch:
		default:
		}
	}
}
