// Package v1 contains the handlers for the v1 API.
package v1

import (
	"net/http"

	"github.com/budget-app/backend/pkg/httputil"
	"github.com/budget-app/backend/pkg/models"
	"github.com/budget-app/backend/pkg/query"
	"github.com/budget-app/backend/pkg/store"
	"github.com/gin-gonic/gin"
)

// Controller serves the v1 API from a store and its live queries.
type Controller struct {
	Store *store.Store
	Live  *query.Live
}

// RegisterRoutes registers the v1 routes with the RouterGroup that is passed.
func (co Controller) RegisterRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", Options)
	r.GET("", Get)

	co.RegisterCategoryRoutes(r.Group("/categories"))
}

type Response struct {
	Links Links `json:"links"` // Links for the v1 API
}

type Links struct {
	Categories       string `json:"categories" example:"https://example.com/api/v1/categories"`              // URL of category list endpoint
	CategoriesStream string `json:"categoriesStream" example:"https://example.com/api/v1/categories/stream"` // URL of the live category list
}

// @Summary		v1 API
// @Description	Returns general information about the v1 API
// @Tags			v1
// @Success		200	{object}	Response
// @Router			/v1 [get]
func Get(c *gin.Context) {
	url := c.GetString(string(models.DBContextURL))

	c.JSON(http.StatusOK, Response{
		Links: Links{
			Categories:       url + "/v1/categories",
			CategoriesStream: url + "/v1/categories/stream",
		},
	})
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			v1
// @Success		204
// @Router			/v1 [options]
func Options(c *gin.Context) {
	httputil.OptionsGet(c)
}
