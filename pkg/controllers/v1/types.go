package v1

import (
	"fmt"
	"time"

	ez_uuid "github.com/budget-app/backend/internal/uuid"
	"github.com/budget-app/backend/pkg/format"
	"github.com/budget-app/backend/pkg/form"
	"github.com/budget-app/backend/pkg/httputil"
	"github.com/budget-app/backend/pkg/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type URIID struct {
	ID ez_uuid.UUID `uri:"id" binding:"required" format:"UUID"` // ID of the resource
}

// Editable is the request body for categories and transactions.
type Editable struct {
	Name   string `json:"name" example:"Groceries"` // Name of the resource
	Amount string `json:"amount" example:"250.00"`  // Amount as decimal text
}

// bindForm reads and validates the request body.
func bindForm(c *gin.Context) (form.Form, error) {
	var editable Editable
	err := httputil.BindData(c, &editable)
	if err != nil {
		if isTypeError(err) {
			return form.Form{}, form.ErrInvalid
		}
		return form.Form{}, err
	}

	return form.Parse(editable.Name, editable.Amount)
}

// bindID reads the ID from the path.
func bindID(c *gin.Context) (uuid.UUID, error) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		return uuid.Nil, httputil.ErrInvalidUUID
	}

	return uri.ID.UUID, nil
}

type CategoryLinks struct {
	Self               string `json:"self" example:"https://example.com/api/v1/categories/3b1ea324-d438-4419-882a-2fc91d71772f"`                                   // The category itself
	Transactions       string `json:"transactions" example:"https://example.com/api/v1/categories/3b1ea324-d438-4419-882a-2fc91d71772f/transactions"`              // Transactions of this category
	TransactionsStream string `json:"transactionsStream" example:"https://example.com/api/v1/categories/3b1ea324-d438-4419-882a-2fc91d71772f/transactions/stream"` // Live transactions of this category
}

// Category is a budget category as displayed to users.
type Category struct {
	ID              uuid.UUID       `json:"id" example:"3b1ea324-d438-4419-882a-2fc91d71772f"` // ID of the category
	Name            string          `json:"name" example:"Rent"`                               // Name of the category
	Amount          decimal.Decimal `json:"amount" example:"1000"`                             // Budgeted amount
	FormattedAmount string          `json:"formattedAmount" example:"$1,000.00"`               // Budgeted amount as currency for the configured locale
	Links           CategoryLinks   `json:"links"`
}

func newCategory(c *gin.Context, model models.BudgetCategory) Category {
	url := c.GetString(string(models.DBContextURL))
	self := fmt.Sprintf("%s/v1/categories/%s", url, model.ID)

	return Category{
		ID:              model.ID,
		Name:            model.Name,
		Amount:          model.Amount,
		FormattedAmount: format.Currency(model.Amount),
		Links: CategoryLinks{
			Self:               self,
			Transactions:       self + "/transactions",
			TransactionsStream: self + "/transactions/stream",
		},
	}
}

func newCategories(c *gin.Context, categories []models.BudgetCategory) []Category {
	data := make([]Category, 0, len(categories))
	for _, model := range categories {
		data = append(data, newCategory(c, model))
	}

	return data
}

type CategoryResponse struct {
	Data  *Category `json:"data"`                                                            // Data for the category
	Error *string   `json:"error" example:"there is no budget category matching your query"` // The error, if any occurred
}

type CategoryListResponse struct {
	Data  []Category `json:"data"`                                       // List of categories
	Error *string    `json:"error" example:"Unable to fetch categories"` // The error, if any occurred
}

type TransactionLinks struct {
	Category string `json:"category" example:"https://example.com/api/v1/categories/3b1ea324-d438-4419-882a-2fc91d71772f"` // The category of the transaction
}

// Transaction is a transaction as displayed to users.
type Transaction struct {
	ID              uuid.UUID        `json:"id" example:"9b3d2e6a-2a42-4f4b-b1f8-0a7a3a6d4b1e"`         // ID of the transaction
	Name            string           `json:"name" example:"Coffee"`                                     // Name of the transaction
	Amount          decimal.Decimal  `json:"amount" example:"4.5"`                                      // Amount spent
	FormattedAmount string           `json:"formattedAmount" example:"$4.50"`                           // Amount as currency for the configured locale
	DateCreated     time.Time        `json:"dateCreated" example:"2024-04-30T08:00:00Z"`                // Time the transaction was created
	CategoryID      uuid.UUID        `json:"categoryId" example:"3b1ea324-d438-4419-882a-2fc91d71772f"` // ID of the category
	Links           TransactionLinks `json:"links"`
}

func newTransaction(c *gin.Context, model models.Transaction) Transaction {
	url := c.GetString(string(models.DBContextURL))

	return Transaction{
		ID:              model.ID,
		Name:            model.Name,
		Amount:          model.Amount,
		FormattedAmount: format.Currency(model.Amount),
		DateCreated:     model.DateCreated,
		CategoryID:      model.CategoryID,
		Links: TransactionLinks{
			Category: fmt.Sprintf("%s/v1/categories/%s", url, model.CategoryID),
		},
	}
}

func newTransactions(c *gin.Context, transactions []models.Transaction) []Transaction {
	data := make([]Transaction, 0, len(transactions))
	for _, model := range transactions {
		data = append(data, newTransaction(c, model))
	}

	return data
}

type TransactionResponse struct {
	Data  *Transaction `json:"data"`                                               // Data for the transaction
	Error *string      `json:"error" example:"Make sure name and amount is valid"` // The error, if any occurred
}

type TransactionListResponse struct {
	Data  []Transaction `json:"data"`                                         // List of transactions
	Error *string       `json:"error" example:"Unable to fetch transactions"` // The error, if any occurred
}

type CategoryQueryFilter struct {
	Name string `form:"name"` // Glob pattern for the name, e.g. "Groc*"
}
