package contacts

import (
	"strings"
	"time"

	"github.com/go-playground/validator"
)

type Contact struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Relationship *string   `json:"relationship"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Draft is a contact the remote service hasn't assigned an id to yet
type Draft struct {
	Name         string  `json:"name" validate:"required"`
	Phone        string  `json:"phone" validate:"required,phone_number"`
	Relationship *string `json:"relationship,omitempty"`
}

// Patch holds the fields to change on an existing contact
type Patch struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Phone        *string `json:"phone,omitempty" validate:"omitempty,phone_number"`
	Relationship *string `json:"relationship,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("phone_number", func(fl validator.FieldLevel) bool {
		return isValidPhoneNumber(fl.Field().String())
	})
}

// isValidPhoneNumber accepts digits with an optional leading '+' and the
// usual separators e.g. "+91 98765-43210"
func isValidPhoneNumber(phone string) bool {
	digits := 0
	for i, r := range strings.TrimSpace(phone) {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' && i == 0:
		case r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return false
		}
	}

	return digits >= 3 && digits <= 15
}
