package v1_test

import (
	"net/http"
	"net/url"
	"testing"

	v1 "github.com/budget-app/backend/pkg/controllers/v1"
	"github.com/budget-app/backend/pkg/form"
	"github.com/budget-app/backend/pkg/httputil"
	"github.com/budget-app/backend/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestCategoriesCreate() {
	category := suite.createTestCategory("Groceries", "12.3")

	assert.NotEqual(suite.T(), uuid.Nil, category.ID)
	assert.Equal(suite.T(), "Groceries", category.Name)
	assert.True(suite.T(), decimal.RequireFromString("12.3").Equal(category.Amount), "Amount is %s", category.Amount)
	assert.Contains(suite.T(), category.FormattedAmount, "12.30")
	assert.Equal(suite.T(), categoryURL(category.ID), category.Links.Self)
	assert.Equal(suite.T(), transactionsURL(category.ID), category.Links.Transactions)
	assert.Equal(suite.T(), transactionsURL(category.ID)+"/stream", category.Links.TransactionsStream)
}

func (suite *TestSuiteStandard) TestCategoriesCreateTrimsName() {
	category := suite.createTestCategory("  Rent ", "1000")
	assert.Equal(suite.T(), "Rent", category.Name)
}

func (suite *TestSuiteStandard) TestCategoriesCreateInvalid() {
	tests := []struct {
		name string
		body any
	}{
		{"Empty name", v1.Editable{Name: "", Amount: "10"}},
		{"Whitespace name", v1.Editable{Name: "   ", Amount: "10"}},
		{"Empty amount", v1.Editable{Name: "Rent", Amount: ""}},
		{"Amount not a number", v1.Editable{Name: "Rent", Amount: "ten"}},
		{"Amount zero", v1.Editable{Name: "Rent", Amount: "0"}},
		{"Amount negative", v1.Editable{Name: "Rent", Amount: "-5"}},
		{"Amount as JSON number", `{ "name": "Rent", "amount": 10 }`},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(suite.controller, t, http.MethodPost, "http://example.com/v1/categories", tt.body)
			test.AssertHTTPStatus(t, &r, http.StatusBadRequest)
			assert.Equal(t, form.ErrInvalid.Error(), test.DecodeError(t, r.Body.Bytes()))
		})
	}

	categories, err := suite.controller.Store.ListCategories()
	assert.Nil(suite.T(), err)
	assert.Len(suite.T(), categories, 0, "Invalid input must not be stored")
}

func (suite *TestSuiteStandard) TestCategoriesCreateBodyErrors() {
	r := test.Request(suite.controller, suite.T(), http.MethodPost, "http://example.com/v1/categories", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	assert.Equal(suite.T(), httputil.ErrRequestBodyEmpty.Error(), test.DecodeError(suite.T(), r.Body.Bytes()))

	r = test.Request(suite.controller, suite.T(), http.MethodPost, "http://example.com/v1/categories", `{ "name": "Rent", `)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	assert.Equal(suite.T(), httputil.ErrInvalidBody.Error(), test.DecodeError(suite.T(), r.Body.Bytes()))
}

func (suite *TestSuiteStandard) TestCategoriesGetSorted() {
	for _, name := range []string{"Zoo", "Apple", "Mango"} {
		suite.createTestCategory(name, "10")
	}

	r := test.Request(suite.controller, suite.T(), http.MethodGet, "http://example.com/v1/categories", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.CategoryListResponse
	test.DecodeResponse(suite.T(), &r, &response)

	names := make([]string, 0, len(response.Data))
	for _, c := range response.Data {
		names = append(names, c.Name)
	}
	assert.Equal(suite.T(), []string{"Apple", "Mango", "Zoo"}, names)
}

func (suite *TestSuiteStandard) TestCategoriesGetEmpty() {
	r := test.Request(suite.controller, suite.T(), http.MethodGet, "http://example.com/v1/categories", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	assert.JSONEq(suite.T(), `{ "data": [], "error": null }`, r.Body.String())
}

func (suite *TestSuiteStandard) TestCategoriesGetFilter() {
	for _, name := range []string{"Groceries", "Gross Income", "Rent"} {
		suite.createTestCategory(name, "10")
	}

	tests := []struct {
		filter   string
		expected []string
	}{
		{"", []string{"Groceries", "Gross Income", "Rent"}},
		{"Groc*", []string{"Groceries"}},
		{"Gro*", []string{"Groceries", "Gross Income"}},
		{"*e*", []string{"Groceries", "Gross Income", "Rent"}},
		{"Rent", []string{"Rent"}},
		{"Nothing*", []string{}},
	}

	for _, tt := range tests {
		suite.T().Run(tt.filter, func(t *testing.T) {
			r := test.Request(suite.controller, t, http.MethodGet, "http://example.com/v1/categories?name="+url.QueryEscape(tt.filter), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.CategoryListResponse
			test.DecodeResponse(t, &r, &response)

			names := make([]string, 0, len(response.Data))
			for _, c := range response.Data {
				names = append(names, c.Name)
			}
			assert.Equal(t, tt.expected, names)
		})
	}
}

func (suite *TestSuiteStandard) TestCategoriesGetSingle() {
	category := suite.createTestCategory("Rent", "1000")

	r := test.Request(suite.controller, suite.T(), http.MethodGet, category.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.CategoryResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), category.ID, response.Data.ID)
	assert.Equal(suite.T(), "Rent", response.Data.Name)
	assert.Equal(suite.T(), category.FormattedAmount, response.Data.FormattedAmount)
}

func (suite *TestSuiteStandard) TestCategoriesGetSingleErrors() {
	tests := []struct {
		name   string
		id     string
		status int
		err    string
	}{
		{"Unknown ID", uuid.New().String(), http.StatusNotFound, "there is no budget category matching your query"},
		{"Invalid ID", "not-a-uuid", http.StatusBadRequest, httputil.ErrInvalidUUID.Error()},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(suite.controller, t, http.MethodGet, "http://example.com/v1/categories/"+tt.id, "")
			test.AssertHTTPStatus(t, &r, tt.status)
			assert.Equal(t, tt.err, test.DecodeError(t, r.Body.Bytes()))
		})
	}
}

func (suite *TestSuiteStandard) TestCategoriesOptions() {
	category := suite.createTestCategory("Rent", "1000")

	tests := []struct {
		path   string
		status int
		allow  string
	}{
		{"http://example.com/v1/categories", http.StatusNoContent, "OPTIONS, GET, POST"},
		{"http://example.com/v1/categories/stream", http.StatusNoContent, "OPTIONS, GET"},
		{category.Links.Self, http.StatusNoContent, "OPTIONS, GET"},
		{categoryURL(uuid.New()), http.StatusNotFound, ""},
		{"http://example.com/v1/categories/not-a-uuid", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		suite.T().Run(tt.path, func(t *testing.T) {
			r := test.Request(suite.controller, t, http.MethodOptions, tt.path, "")
			test.AssertHTTPStatus(t, &r, tt.status)
			assert.Equal(t, tt.allow, r.Header().Get("allow"))
		})
	}
}

func (suite *TestSuiteStandard) TestCategoriesDatabaseClosed() {
	category := suite.createTestCategory("Rent", "1000")
	suite.CloseDB()

	r := test.Request(suite.controller, suite.T(), http.MethodPost, "http://example.com/v1/categories", v1.Editable{Name: "Food", Amount: "200"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusInternalServerError)
	assert.Equal(suite.T(), "Unable to save category", test.DecodeError(suite.T(), r.Body.Bytes()))

	r = test.Request(suite.controller, suite.T(), http.MethodGet, "http://example.com/v1/categories", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusInternalServerError)
	assert.Equal(suite.T(), "Unable to fetch categories", test.DecodeError(suite.T(), r.Body.Bytes()))

	r = test.Request(suite.controller, suite.T(), http.MethodGet, category.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusInternalServerError)
}
