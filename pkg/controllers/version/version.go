package version

import (
	"net/http"
	"runtime"
	"runtime/debug"

	"github.com/budget-app/backend/pkg/httputil"
	"github.com/gin-gonic/gin"
)

type Response struct {
	Data Object `json:"data"` // Data object for the version endpoint
}

type Object struct {
	Version string `json:"version" example:"1.1.0"`                                             // the running version of the budget backend
	Commit  string `json:"commit,omitempty" example:"4f1c2e9d8a7b6c5d4e3f2a1b0c9d8e7f6a5b4c3d"` // VCS revision the binary was built from
	Go      string `json:"go" example:"go1.25.5"`                                               // Go version the binary was built with
}

// RegisterRoutes serves the version on the group. version is set at build time with -ldflags.
func RegisterRoutes(r *gin.RouterGroup, version string) {
	info := Object{
		Version: version,
		Commit:  revision(),
		Go:      runtime.Version(),
	}

	r.GET("", Get(info))
	r.OPTIONS("", Options)
}

func revision() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}

	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}

	return ""
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			General
// @Success		204
// @Router			/version [options]
func Options(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		API version
// @Description	Returns the software version of the API
// @Tags			General
// @Success		200	{object}	Response
// @Router			/version [get]
func Get(info Object) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, Response{Data: info})
	}
}
