package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/budget-app/backend/pkg/config"
	v1 "github.com/budget-app/backend/pkg/controllers/v1"
	"github.com/budget-app/backend/pkg/events"
	"github.com/budget-app/backend/pkg/format"
	"github.com/budget-app/backend/pkg/models"
	"github.com/budget-app/backend/pkg/query"
	"github.com/budget-app/backend/pkg/router"
	"github.com/budget-app/backend/pkg/store"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// A .env file is optional, real environment variables take precedence
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatal().Msg(err.Error())
	}

	path, ok := os.LookupEnv("BUDGET_CONFIG")
	if !ok {
		path = "config.yaml"
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	// gin uses debug as the default mode, we use release for
	// security reasons
	gin.SetMode(cfg.Gin.Mode)

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	output := io.Writer(os.Stdout)
	if (cfg.Log.Format == "" && gin.IsDebugging()) || cfg.Log.Format == "human" {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	tag, err := cfg.Language()
	if err != nil {
		log.Fatal().Msg(err.Error())
	}
	format.SetDefault(tag)

	// Create data directory
	err = os.MkdirAll(cfg.Data.Dir, os.ModePerm)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	// Connect to the database
	db, err := models.Connect(cfg.DSN())
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	// Migrate all models so that the schema is correct
	err = models.Migrate(db)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	bus := events.NewBus()
	s := store.New(db, bus)
	live := query.New(s, bus)

	r, err := router.Config(cfg)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}
	router.AttachRoutes(v1.Controller{Store: s, Live: live}, r.Group("/"))

	// Cancelling the base context ends open streams on shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		log.Info().Str("address", srv.Addr).Msg("Listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msg(err.Error())
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Msg(err.Error())
	}

	live.Close()
	if err := s.Close(); err != nil {
		log.Error().Msg(err.Error())
	}
}
