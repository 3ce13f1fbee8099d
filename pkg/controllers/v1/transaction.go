package v1

import (
	"net/http"

	"github.com/budget-app/backend/pkg/httputil"
	"github.com/gin-gonic/gin"
)

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/categories/{id}/transactions [options]
func (co Controller) OptionsTransactionList(c *gin.Context) {
	if !co.categoryExists(c) {
		return
	}

	httputil.OptionsGetPost(c)
}

// @Summary		Create transaction
// @Description	Creates a new transaction for the category. The creation date is set to the current time.
// @Tags			Transactions
// @Produce		json
// @Success		201			{object}	TransactionResponse
// @Failure		400			{object}	TransactionResponse
// @Failure		404			{object}	TransactionResponse
// @Failure		500			{object}	TransactionResponse
// @Param			id			path		URIID		true	"ID of the category"
// @Param			transaction	body		Editable	true	"Transaction"
// @Router			/v1/categories/{id}/transactions [post]
func (co Controller) CreateTransaction(c *gin.Context) {
	categoryID, err := bindID(c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{
			Error: &s,
		})
		return
	}

	f, err := bindForm(c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{
			Error: &s,
		})
		return
	}

	id, err := co.Store.CreateTransaction(categoryID, f.Name, f.Amount)
	if err != nil {
		s := message(c, err, errSaveTransaction)
		c.JSON(status(err), TransactionResponse{
			Error: &s,
		})
		return
	}

	transaction, err := co.Store.Transaction(id)
	if err != nil {
		s := message(c, err, errSaveTransaction)
		c.JSON(status(err), TransactionResponse{
			Error: &s,
		})
		return
	}

	data := newTransaction(c, transaction)
	c.JSON(http.StatusCreated, TransactionResponse{Data: &data})
}

// @Summary		Get transactions
// @Description	Returns the transactions of a category, most recent first
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	TransactionListResponse
// @Failure		400	{object}	TransactionListResponse
// @Failure		404	{object}	TransactionListResponse
// @Failure		500	{object}	TransactionListResponse
// @Param			id	path		URIID	true	"ID of the category"
// @Router			/v1/categories/{id}/transactions [get]
func (co Controller) GetTransactions(c *gin.Context) {
	categoryID, err := bindID(c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionListResponse{
			Error: &s,
		})
		return
	}

	transactions, err := co.Store.ListTransactions(categoryID)
	if err != nil {
		s := message(c, err, errFetchTransactions)
		c.JSON(status(err), TransactionListResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, TransactionListResponse{
		Data: newTransactions(c, transactions),
	})
}
