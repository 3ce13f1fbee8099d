package router

import (
	"net/http"

	docs "github.com/budget-app/backend/api"
	"github.com/budget-app/backend/pkg/config"
	"github.com/budget-app/backend/pkg/controllers/healthz"
	"github.com/budget-app/backend/pkg/controllers/root"
	v1 "github.com/budget-app/backend/pkg/controllers/v1"
	"github.com/budget-app/backend/pkg/controllers/version"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/logger"
	"github.com/gin-contrib/pprof"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// This is set at build time with -ldflags.
var buildVersion = "0.0.0"

type httpError struct {
	Error string `json:"error"`
}

// Config creates a router with all middlewares for the configuration.
func Config(cfg config.Config) (*gin.Engine, error) {
	url, err := cfg.URL()
	if err != nil {
		return nil, err
	}

	// Set up the router and middlewares
	r := gin.New()

	// Don’t process X-Forwarded-For header as we do not do anything with
	// client IPs
	r.ForwardedByClientIP = false

	// Send a HTTP 405 (Method not allowed) for all paths where there is
	// a handler, but not for the specific method used
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	r.Use(requestid.New())
	r.Use(URLMiddleware(url))
	r.Use(MetricsMiddleware())
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, httpError{
			Error: "this HTTP method is not allowed for the endpoint you called",
		})
	})
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, httpError{
			Error: "there is no resource for the path you requested",
		})
	})
	r.Use(logger.SetLogger(
		logger.WithDefaultLevel(zerolog.InfoLevel),
		logger.WithClientErrorLevel(zerolog.InfoLevel),
		logger.WithServerErrorLevel(zerolog.ErrorLevel),
		logger.WithLogger(func(c *gin.Context, logger zerolog.Logger) zerolog.Logger {
			return logger.With().
				Str("request-id", requestid.Get(c)).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Int("status", c.Writer.Status()).
				Int("size", c.Writer.Size()).
				Str("user-agent", c.Request.UserAgent()).
				Logger()
		})))

	// CORS settings
	if origins := cfg.Origins(); len(origins) > 0 {
		log.Debug().Strs("CORS Allowed Origins", origins).Msg("Router")

		r.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"OPTIONS", "GET", "POST"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type"},
			AllowCredentials: true,
		}))
	}

	// pprof performance profiles
	if cfg.Pprof {
		pprof.Register(r, "debug/pprof")
	}

	// Disable the gin debug route printing as it clutters logs (and test logs)
	gin.DebugPrintRouteFunc = func(_, _, _ string, _ int) {}

	// Don’t trust any proxy. We do not process any client IPs,
	// therefore we don’t need to trust anyone here.
	_ = r.SetTrustedProxies([]string{})

	log.Debug().Str("API Base URL", url.String()).Str("Host", url.Host).Str("Path", url.Path).Msg("Router")
	log.Info().Str("version", buildVersion).Msg("Router")

	docs.SwaggerInfo.Host = url.Host
	docs.SwaggerInfo.BasePath = url.Path
	docs.SwaggerInfo.Title = "Budget"
	docs.SwaggerInfo.Version = buildVersion
	docs.SwaggerInfo.Description = "Budget categories with a running log of transactions."

	return r, nil
}

// AttachRoutes attaches the API routes to the router group that is passed in.
func AttachRoutes(co v1.Controller, group *gin.RouterGroup) {
	root.RegisterRoutes(group.Group(""))
	version.RegisterRoutes(group.Group("/version"), buildVersion)
	healthz.RegisterRoutes(group.Group("/healthz"), co.Store)

	registry := prometheus.NewRegistry()
	registry.MustRegister(requestCount, requestDuration, subscriptions(co.Live))
	group.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	group.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	co.RegisterRoutes(group.Group("/v1"))
}
