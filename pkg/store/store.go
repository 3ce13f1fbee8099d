// Package store owns the persisted budget categories and transactions.
package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/budget-app/backend/pkg/events"
	"github.com/budget-app/backend/pkg/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Store creates and lists budget categories and their transactions.
//
// Writes are serialized, reads run concurrently with each other but never
// during a write. Every successful create publishes an event on the bus
// before it returns.
type Store struct {
	db       *gorm.DB
	bus      *events.Bus
	clock    Clock
	mu       sync.RWMutex
	revision Revision
}

// Revision counts the successful writes of a Store. A list read at a higher
// revision contains every write of a list read at a lower one.
type Revision uint64

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for the creation date of transactions.
func WithClock(c Clock) Option {
	return func(s *Store) {
		s.clock = c
	}
}

// New returns a Store for a migrated database.
func New(db *gorm.DB, bus *events.Bus, opts ...Option) *Store {
	s := &Store{
		db:    db,
		bus:   bus,
		clock: SystemClock{},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// CreateCategory persists a new category and returns its ID.
//
// Name and amount are stored as given, they need to be validated before.
func (s *Store) CreateCategory(name string, amount decimal.Decimal) (uuid.UUID, error) {
	category := models.BudgetCategory{
		Name:   name,
		Amount: amount,
	}

	s.mu.Lock()
	err := s.db.Create(&category).Error
	if err == nil {
		s.revision++
	}
	s.mu.Unlock()
	if err != nil {
		return uuid.Nil, wrap("creating category", err)
	}

	s.publish(events.New(events.CategoryCreated, events.Category{ID: category.ID}))
	return category.ID, nil
}

// CreateTransaction persists a new transaction for an existing category and returns its ID.
//
// The creation date is set to the current time.
func (s *Store) CreateTransaction(categoryID uuid.UUID, name string, amount decimal.Decimal) (uuid.UUID, error) {
	transaction := models.Transaction{
		Name:       name,
		Amount:     amount,
		CategoryID: categoryID,
	}

	s.mu.Lock()
	transaction.DateCreated = s.clock.Now().In(time.UTC)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.First(&models.BudgetCategory{}, "id = ?", categoryID).Error
		if err != nil {
			return err
		}

		return tx.Create(&transaction).Error
	})
	if err == nil {
		s.revision++
	}
	s.mu.Unlock()
	if err != nil {
		return uuid.Nil, wrap("creating transaction", err)
	}

	s.publish(events.New(events.TransactionCreated, events.Transaction{ID: transaction.ID, CategoryID: categoryID}))
	return transaction.ID, nil
}

// Category returns the category with the ID.
func (s *Store) Category(id uuid.UUID) (models.BudgetCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var category models.BudgetCategory
	err := s.db.First(&category, "id = ?", id).Error
	if err != nil {
		return models.BudgetCategory{}, persistenceError(err)
	}

	return category, nil
}

// Transaction returns the transaction with the ID.
func (s *Store) Transaction(id uuid.UUID) (models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var transaction models.Transaction
	err := s.db.First(&transaction, "id = ?", id).Error
	if err != nil {
		return models.Transaction{}, persistenceError(err)
	}

	return transaction, nil
}

// ListCategories returns all categories sorted by name in ascending byte order.
// This is case-sensitive, "Zoo" sorts before "apple".
func (s *Store) ListCategories() ([]models.BudgetCategory, error) {
	categories, _, err := s.SnapshotCategories()
	return categories, err
}

// SnapshotCategories is ListCategories together with the revision the list was read at.
func (s *Store) SnapshotCategories() ([]models.BudgetCategory, Revision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	categories := make([]models.BudgetCategory, 0)
	err := s.db.Order("name ASC").Order("created_at ASC").Find(&categories).Error
	if err != nil {
		return nil, 0, wrap("listing categories", err)
	}

	return categories, s.revision, nil
}

// ListTransactions returns all transactions of the category, most recent first.
func (s *Store) ListTransactions(categoryID uuid.UUID) ([]models.Transaction, error) {
	transactions, _, err := s.SnapshotTransactions(categoryID)
	return transactions, err
}

// SnapshotTransactions is ListTransactions together with the revision the list was read at.
func (s *Store) SnapshotTransactions(categoryID uuid.UUID) ([]models.Transaction, Revision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	transactions := make([]models.Transaction, 0)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.First(&models.BudgetCategory{}, "id = ?", categoryID).Error
		if err != nil {
			return err
		}

		return tx.
			Where("category_id = ?", categoryID).
			Order("date_created DESC").
			Order("created_at DESC").
			Find(&transactions).Error
	})
	if err != nil {
		return nil, 0, wrap("listing transactions", err)
	}

	return transactions, s.revision, nil
}

// Ping verifies that the database is reachable.
func (s *Store) Ping() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Ping()
}

// Close closes the database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

func (s *Store) publish(e events.Event) {
	// Handler errors are logged by the bus. The record is persisted
	// either way, so they are not returned to the caller.
	_ = s.bus.Publish(e)
}

// wrap adds the operation to persistence errors. Missing resources are
// returned as they are since their message is shown to users.
func wrap(op string, err error) error {
	err = persistenceError(err)
	if errors.Is(err, models.ErrResourceNotFound) {
		return err
	}

	return fmt.Errorf("%s: %w", op, err)
}

// persistenceError makes sure that every error that is not a
// missing resource is reported as a general error.
func persistenceError(err error) error {
	if errors.Is(err, models.ErrResourceNotFound) || errors.Is(err, models.ErrGeneral) {
		return err
	}

	return fmt.Errorf("%w: %w", models.ErrGeneral, err)
}
