package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction is a single dated expense attributed to exactly one BudgetCategory.
type Transaction struct {
	DefaultModel
	Name        string          `json:"name" gorm:"not null" example:"Coffee"`                                           // Name of the transaction
	Amount      decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)" example:"4.5"`                                  // Amount of the transaction
	DateCreated time.Time       `json:"dateCreated" gorm:"index" example:"2024-04-30T08:12:03.000000Z"`                  // Time the transaction was logged
	CategoryID  uuid.UUID       `json:"categoryId" gorm:"not null;index" example:"3b1ea324-d438-4419-882a-2fc91d71772f"` // ID of the owning category
	Category    BudgetCategory  `json:"-" gorm:"constraint:OnDelete:RESTRICT"`                                           // The owning category
}

// AfterFind updates the timestamps to use UTC as
// timezone, not +0000.
func (t *Transaction) AfterFind(tx *gorm.DB) (err error) {
	err = t.DefaultModel.AfterFind(tx)
	if err != nil {
		return err
	}

	t.DateCreated = t.DateCreated.In(time.UTC)
	return nil
}

// BeforeSave
//   - trims whitespace from the name
//   - sets DateCreated to now if it has not been set and enforces UTC
func (t *Transaction) BeforeSave(_ *gorm.DB) error {
	t.Name = strings.TrimSpace(t.Name)

	if t.DateCreated.IsZero() {
		t.DateCreated = time.Now().In(time.UTC)
	} else {
		t.DateCreated = t.DateCreated.In(time.UTC)
	}

	return nil
}
