package v1_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	v1 "github.com/budget-app/backend/pkg/controllers/v1"
	"github.com/budget-app/backend/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readEvent reads the next server-sent event, decodes its data into target
// and returns the event name.
func readEvent(t *testing.T, r *bufio.Reader, target any) string {
	var event string
	for {
		line, err := r.ReadString('\n')
		require.Nil(t, err, "Reading the stream failed")

		line = strings.TrimRight(line, "\r\n")
		switch {
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			require.Nil(t, json.Unmarshal([]byte(data), target), "Event data is not valid JSON: %s", data)
		case line == "" && event != "":
			return event
		}
	}
}

// openStream connects to the stream at path and returns a reader for its events.
func (suite *TestSuiteStandard) openStream(ctx context.Context, server *httptest.Server, path string) *bufio.Reader {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+path, nil)
	require.Nil(suite.T(), err)

	resp, err := server.Client().Do(req)
	require.Nil(suite.T(), err)
	suite.T().Cleanup(func() { resp.Body.Close() })

	require.Equal(suite.T(), http.StatusOK, resp.StatusCode)
	assert.Contains(suite.T(), resp.Header.Get("Content-Type"), "text/event-stream")

	return bufio.NewReader(resp.Body)
}

func (suite *TestSuiteStandard) TestCategoriesStream() {
	suite.createTestCategory("Rent", "1000")

	server := httptest.NewServer(test.Router(suite.T(), suite.controller))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	reader := suite.openStream(ctx, server, "/v1/categories/stream")

	var categories []v1.Category
	assert.Equal(suite.T(), v1.EventCategories, readEvent(suite.T(), reader, &categories))
	require.Len(suite.T(), categories, 1)
	assert.Equal(suite.T(), "Rent", categories[0].Name)
	assert.Equal(suite.T(), 1, suite.controller.Live.Count())

	_, err := suite.controller.Store.CreateCategory("Food", decimal.NewFromInt(200))
	require.Nil(suite.T(), err)

	categories = nil
	assert.Equal(suite.T(), v1.EventCategories, readEvent(suite.T(), reader, &categories))
	require.Len(suite.T(), categories, 2)
	assert.Equal(suite.T(), "Food", categories[0].Name)
	assert.Equal(suite.T(), "Rent", categories[1].Name)

	// Closing the connection ends the subscription
	cancel()
	assert.Eventually(suite.T(), func() bool {
		return suite.controller.Live.Count() == 0
	}, 5*time.Second, 10*time.Millisecond)
}

func (suite *TestSuiteStandard) TestTransactionsStream() {
	category := suite.createTestCategory("Food", "200")
	other := suite.createTestCategory("Rent", "1000")
	suite.createTestTransaction(category.ID, "Coffee", "4.5")

	server := httptest.NewServer(test.Router(suite.T(), suite.controller))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	reader := suite.openStream(ctx, server, "/v1/categories/"+category.ID.String()+"/transactions/stream")

	var transactions []v1.Transaction
	assert.Equal(suite.T(), v1.EventTransactions, readEvent(suite.T(), reader, &transactions))
	require.Len(suite.T(), transactions, 1)
	assert.Equal(suite.T(), "Coffee", transactions[0].Name)

	// Transactions of other categories do not send an event
	_, err := suite.controller.Store.CreateTransaction(other.ID, "May", decimal.NewFromInt(1000))
	require.Nil(suite.T(), err)

	suite.clock.Advance(time.Minute)
	_, err = suite.controller.Store.CreateTransaction(category.ID, "Lunch", decimal.NewFromInt(12))
	require.Nil(suite.T(), err)

	transactions = nil
	assert.Equal(suite.T(), v1.EventTransactions, readEvent(suite.T(), reader, &transactions))
	require.Len(suite.T(), transactions, 2)
	assert.Equal(suite.T(), "Lunch", transactions[0].Name)
	assert.Equal(suite.T(), "Coffee", transactions[1].Name)

	cancel()
	assert.Eventually(suite.T(), func() bool {
		return suite.controller.Live.Count() == 0
	}, 5*time.Second, 10*time.Millisecond)
}

func (suite *TestSuiteStandard) TestTransactionsStreamErrors() {
	r := test.Request(suite.controller, suite.T(), http.MethodGet, transactionsURL(uuid.New())+"/stream", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
	assert.Equal(suite.T(), "there is no budget category matching your query", test.DecodeError(suite.T(), r.Body.Bytes()))

	r = test.Request(suite.controller, suite.T(), http.MethodGet, "http://example.com/v1/categories/nope/transactions/stream", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	assert.Equal(suite.T(), 0, suite.controller.Live.Count())
}

func (suite *TestSuiteStandard) TestCategoriesStreamDatabaseClosed() {
	suite.CloseDB()

	r := test.Request(suite.controller, suite.T(), http.MethodGet, "http://example.com/v1/categories/stream", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusInternalServerError)
	assert.Equal(suite.T(), "Unable to fetch categories", test.DecodeError(suite.T(), r.Body.Bytes()))
}
