package httputil

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
)

// Options returns a handler for OPTIONS requests that lists the methods
// in the "allow" header.
func Options(methods ...string) gin.HandlerFunc {
	allow := strings.Join(append([]string{http.MethodOptions}, methods...), ", ")

	return func(c *gin.Context) {
		c.Header("allow", allow)
		c.Render(http.StatusNoContent, render.JSON{})
	}
}

var (
	OptionsGet     = Options(http.MethodGet)
	OptionsGetPost = Options(http.MethodGet, http.MethodPost)
)
