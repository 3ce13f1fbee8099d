package v1

import (
	"net/http"

	"github.com/budget-app/backend/pkg/httputil"
	"github.com/budget-app/backend/pkg/models"
	"github.com/gin-gonic/gin"
	"github.com/ryanuber/go-glob"
	"golang.org/x/exp/slices"
)

// RegisterCategoryRoutes registers the routes for categories and their
// transactions with the RouterGroup that is passed.
func (co Controller) RegisterCategoryRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsCategoryList)
		r.GET("", co.GetCategories)
		r.POST("", co.CreateCategory)
		r.OPTIONS("/stream", OptionsCategoryStream)
		r.GET("/stream", co.StreamCategories)
	}

	// Category with ID
	{
		r.OPTIONS("/:id", co.OptionsCategoryDetail)
		r.GET("/:id", co.GetCategory)
	}

	// Transactions of the category
	{
		r.OPTIONS("/:id/transactions", co.OptionsTransactionList)
		r.GET("/:id/transactions", co.GetTransactions)
		r.POST("/:id/transactions", co.CreateTransaction)
		r.OPTIONS("/:id/transactions/stream", co.OptionsTransactionStream)
		r.GET("/:id/transactions/stream", co.StreamTransactions)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Categories
// @Success		204
// @Router			/v1/categories [options]
func OptionsCategoryList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Categories
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/categories/{id} [options]
func (co Controller) OptionsCategoryDetail(c *gin.Context) {
	if !co.categoryExists(c) {
		return
	}

	httputil.OptionsGet(c)
}

// @Summary		Create category
// @Description	Creates a new budget category
// @Tags			Categories
// @Produce		json
// @Success		201			{object}	CategoryResponse
// @Failure		400			{object}	CategoryResponse
// @Failure		500			{object}	CategoryResponse
// @Param			category	body		Editable	true	"Category"
// @Router			/v1/categories [post]
func (co Controller) CreateCategory(c *gin.Context) {
	f, err := bindForm(c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CategoryResponse{
			Error: &s,
		})
		return
	}

	id, err := co.Store.CreateCategory(f.Name, f.Amount)
	if err != nil {
		s := message(c, err, errSaveCategory)
		c.JSON(status(err), CategoryResponse{
			Error: &s,
		})
		return
	}

	category, err := co.Store.Category(id)
	if err != nil {
		s := message(c, err, errSaveCategory)
		c.JSON(status(err), CategoryResponse{
			Error: &s,
		})
		return
	}

	data := newCategory(c, category)
	c.JSON(http.StatusCreated, CategoryResponse{Data: &data})
}

// @Summary		Get categories
// @Description	Returns all budget categories sorted by name
// @Tags			Categories
// @Produce		json
// @Success		200		{object}	CategoryListResponse
// @Failure		500		{object}	CategoryListResponse
// @Param			name	query		string	false	"Filter by name, supports glob patterns like Groc*"
// @Router			/v1/categories [get]
func (co Controller) GetCategories(c *gin.Context) {
	var filter CategoryQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	categories, err := co.Store.ListCategories()
	if err != nil {
		s := message(c, err, errFetchCategories)
		c.JSON(status(err), CategoryListResponse{
			Error: &s,
		})
		return
	}

	if filter.Name != "" {
		categories = slices.DeleteFunc(categories, func(category models.BudgetCategory) bool {
			return !glob.Glob(filter.Name, category.Name)
		})
	}

	c.JSON(http.StatusOK, CategoryListResponse{
		Data: newCategories(c, categories),
	})
}

// @Summary		Get category
// @Description	Returns a specific budget category
// @Tags			Categories
// @Produce		json
// @Success		200	{object}	CategoryResponse
// @Failure		400	{object}	CategoryResponse
// @Failure		404	{object}	CategoryResponse
// @Failure		500	{object}	CategoryResponse
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/categories/{id} [get]
func (co Controller) GetCategory(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CategoryResponse{
			Error: &s,
		})
		return
	}

	category, err := co.Store.Category(id)
	if err != nil {
		s := message(c, err, errFetchCategories)
		c.JSON(status(err), CategoryResponse{
			Error: &s,
		})
		return
	}

	data := newCategory(c, category)
	c.JSON(http.StatusOK, CategoryResponse{Data: &data})
}

// categoryExists writes an error response and returns false if the
// category from the path does not exist.
func (co Controller) categoryExists(c *gin.Context) bool {
	id, err := bindID(c)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return false
	}

	_, err = co.Store.Category(id)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: message(c, err, errFetchCategories),
		})
		return false
	}

	return true
}
