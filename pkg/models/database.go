package models

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	go_sqlite "github.com/glebarez/go-sqlite"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type ContextKey string

// DBContextURL is the key for the base URL of the API in the request context.
const DBContextURL ContextKey = "dbContextURL"

var pluralIes = regexp.MustCompile("ies$")

// Connect opens the SQLite database for the DSN and configures the connection pool
// and the error translation callbacks.
//
// Foreign keys are only enforced when the DSN enables them, e.g. with
// "data/budget.db?_pragma=foreign_keys(1)".
func Connect(dsn string) (*gorm.DB, error) {
	config := &gorm.Config{
		// Set generated timestamps in UTC
		NowFunc: func() time.Time {
			return time.Now().In(time.UTC)
		},
		Logger: newGormLogger(log.Logger),
	}

	db, err := gorm.Open(sqlite.Open(dsn), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}

	// Get new connections after one hour
	sqlDB.SetConnMaxLifetime(time.Hour)

	// A single connection prevents SQLITE_BUSY errors. It also keeps
	// in-memory databases alive, they only exist as long as their connection.
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	// Query callbacks
	err = db.Callback().Query().After("*").Register("budget:after_query", queryCallback)
	if err != nil {
		return nil, err
	}

	err = db.Callback().Query().After("*").Register("budget:after_query_general", generalCallback)
	if err != nil {
		return nil, err
	}

	// Create callbacks
	err = db.Callback().Create().After("*").Register("budget:after_create", createCallback)
	if err != nil {
		return nil, err
	}

	err = db.Callback().Create().After("*").Register("budget:after_create_general", generalCallback)
	if err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate migrates all models to the schema defined in the code.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(BudgetCategory{}, Transaction{})
	if err != nil {
		return fmt.Errorf("error during DB migration: %w", err)
	}

	return nil
}

// queryCallback replaces the generic "no record" error with a more user
// friendly one
func queryCallback(db *gorm.DB) {
	if errors.Is(db.Error, gorm.ErrRecordNotFound) {
		db.Error = fmt.Errorf("%w %s matching your query", ErrResourceNotFound, resourceName(db.Statement.Table))
	}
}

// createCallback replaces constraint violations for references with
// a not found error for the referenced resource
func createCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	if strings.Contains(db.Error.Error(), "FOREIGN KEY constraint failed") {
		db.Error = fmt.Errorf("%w budget category matching your query", ErrResourceNotFound)
	}
}

// generalCallback handles unspecified errors.
//
// For these errors, we cannot provide the user with a helpful message.
// Instead, the error is logged and we return a general message to users.
func generalCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	// "sql: database is closed" is hard-coded in the sql module, see
	// https://cs.opensource.google/go/go/+/master:src/database/sql/sql.go;l=1298;drc=0d018b49e33b1383dc0ae5cc968e800dffeeaf7d
	if db.Error.Error() == "sql: database is closed" || reflect.TypeOf(db.Error) == reflect.TypeOf(&go_sqlite.Error{}) {
		// We log the error and provide a general error message so that admins can debug
		log.Error().Msgf("%T: %v", db.Error, db.Error.Error())
		db.Error = ErrGeneral

		return
	}
}

// resourceName derives a human readable resource name from a table name,
// e.g. "budget_categories" becomes "budget category".
func resourceName(table string) string {
	name := strings.ReplaceAll(table, "_", " ")
	name = pluralIes.ReplaceAllString(name, "y")
	return strings.TrimSuffix(name, "s")
}
