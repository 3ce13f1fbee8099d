// Package form validates the free text a user enters into a creation form.
package form

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalid is returned when the name or amount of a form is not acceptable.
// Its message is meant to be shown to the user as is.
var ErrInvalid = errors.New("Make sure name and amount is valid")

// Form is a validated name and amount pair.
type Form struct {
	Name   string
	Amount decimal.Decimal
}

// Parse validates the name and amount and returns them as a Form.
//
// The name must not be empty or only consist of whitespace. The amount must be
// a decimal number strictly greater than zero.
func Parse(name, amount string) (Form, error) {
	name = strings.TrimSpace(name)
	if name == "" || amount == "" {
		return Form{}, ErrInvalid
	}

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Form{}, ErrInvalid
	}

	if !d.IsPositive() {
		return Form{}, ErrInvalid
	}

	return Form{Name: name, Amount: d}, nil
}

// IsValid reports whether name and amount form an acceptable pair.
func IsValid(name, amount string) bool {
	_, err := Parse(name, amount)
	return err == nil
}
