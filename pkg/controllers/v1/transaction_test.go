package v1_test

import (
	"net/http"
	"testing"
	"time"

	v1 "github.com/budget-app/backend/pkg/controllers/v1"
	"github.com/budget-app/backend/pkg/form"
	"github.com/budget-app/backend/pkg/httputil"
	"github.com/budget-app/backend/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestTransactionsCreate() {
	category := suite.createTestCategory("Food", "200")
	transaction := suite.createTestTransaction(category.ID, "Coffee", "4.5")

	assert.NotEqual(suite.T(), uuid.Nil, transaction.ID)
	assert.Equal(suite.T(), "Coffee", transaction.Name)
	assert.Equal(suite.T(), category.ID, transaction.CategoryID)
	assert.True(suite.T(), decimal.RequireFromString("4.5").Equal(transaction.Amount), "Amount is %s", transaction.Amount)
	assert.Contains(suite.T(), transaction.FormattedAmount, "4.50")
	assert.True(suite.T(), suite.clock.Now().Equal(transaction.DateCreated), "DateCreated is %s", transaction.DateCreated)
	assert.Equal(suite.T(), category.Links.Self, transaction.Links.Category)
}

func (suite *TestSuiteStandard) TestTransactionsGetMostRecentFirst() {
	category := suite.createTestCategory("Food", "200")

	suite.createTestTransaction(category.ID, "Coffee", "4.5")
	suite.clock.Advance(time.Hour)
	suite.createTestTransaction(category.ID, "Lunch", "12")

	other := suite.createTestCategory("Rent", "1000")
	suite.createTestTransaction(other.ID, "May", "1000")

	r := test.Request(suite.controller, suite.T(), http.MethodGet, category.Links.Transactions, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.TransactionListResponse
	test.DecodeResponse(suite.T(), &r, &response)

	names := make([]string, 0, len(response.Data))
	for _, t := range response.Data {
		names = append(names, t.Name)
	}
	assert.Equal(suite.T(), []string{"Lunch", "Coffee"}, names)
}

func (suite *TestSuiteStandard) TestTransactionsGetEmpty() {
	category := suite.createTestCategory("Food", "200")

	r := test.Request(suite.controller, suite.T(), http.MethodGet, category.Links.Transactions, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	assert.JSONEq(suite.T(), `{ "data": [], "error": null }`, r.Body.String())
}

func (suite *TestSuiteStandard) TestTransactionsCreateInvalid() {
	category := suite.createTestCategory("Food", "200")

	tests := []struct {
		name string
		body v1.Editable
	}{
		{"Empty name", v1.Editable{Name: "", Amount: "4.5"}},
		{"Amount not a number", v1.Editable{Name: "Coffee", Amount: "abc"}},
		{"Amount negative", v1.Editable{Name: "Coffee", Amount: "-4.5"}},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(suite.controller, t, http.MethodPost, category.Links.Transactions, tt.body)
			test.AssertHTTPStatus(t, &r, http.StatusBadRequest)
			assert.Equal(t, form.ErrInvalid.Error(), test.DecodeError(t, r.Body.Bytes()))
		})
	}

	transactions, err := suite.controller.Store.ListTransactions(category.ID)
	assert.Nil(suite.T(), err)
	assert.Len(suite.T(), transactions, 0)
}

func (suite *TestSuiteStandard) TestTransactionsUnknownCategory() {
	id := uuid.New()

	r := test.Request(suite.controller, suite.T(), http.MethodPost, transactionsURL(id), v1.Editable{Name: "Coffee", Amount: "4.5"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
	assert.Equal(suite.T(), "there is no budget category matching your query", test.DecodeError(suite.T(), r.Body.Bytes()))

	r = test.Request(suite.controller, suite.T(), http.MethodGet, transactionsURL(id), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
	assert.Equal(suite.T(), "there is no budget category matching your query", test.DecodeError(suite.T(), r.Body.Bytes()))
}

func (suite *TestSuiteStandard) TestTransactionsInvalidCategoryID() {
	r := test.Request(suite.controller, suite.T(), http.MethodPost, "http://example.com/v1/categories/nope/transactions", v1.Editable{Name: "Coffee", Amount: "4.5"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	assert.Equal(suite.T(), httputil.ErrInvalidUUID.Error(), test.DecodeError(suite.T(), r.Body.Bytes()))

	r = test.Request(suite.controller, suite.T(), http.MethodGet, "http://example.com/v1/categories/nope/transactions", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestTransactionsOptions() {
	category := suite.createTestCategory("Food", "200")

	r := test.Request(suite.controller, suite.T(), http.MethodOptions, category.Links.Transactions, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	assert.Equal(suite.T(), "OPTIONS, GET, POST", r.Header().Get("allow"))

	r = test.Request(suite.controller, suite.T(), http.MethodOptions, category.Links.TransactionsStream, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	assert.Equal(suite.T(), "OPTIONS, GET", r.Header().Get("allow"))

	r = test.Request(suite.controller, suite.T(), http.MethodOptions, transactionsURL(uuid.New()), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestTransactionsDatabaseClosed() {
	category := suite.createTestCategory("Food", "200")
	suite.CloseDB()

	r := test.Request(suite.controller, suite.T(), http.MethodPost, category.Links.Transactions, v1.Editable{Name: "Coffee", Amount: "4.5"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusInternalServerError)
	assert.Equal(suite.T(), "Unable to save transaction", test.DecodeError(suite.T(), r.Body.Bytes()))

	r = test.Request(suite.controller, suite.T(), http.MethodGet, category.Links.Transactions, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusInternalServerError)
	assert.Equal(suite.T(), "Unable to fetch transactions", test.DecodeError(suite.T(), r.Body.Bytes()))
}
