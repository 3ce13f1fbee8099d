package models

import (
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BudgetCategory is a named budget bucket with a target amount.
type BudgetCategory struct {
	DefaultModel
	Name   string          `json:"name" gorm:"not null" example:"Groceries"`       // Name of the category
	Amount decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)" example:"150"` // The budgeted target
}

// BeforeSave trims whitespace from the name.
func (c *BudgetCategory) BeforeSave(_ *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	return nil
}
