package checkout

import (
	"regexp"
	"strconv"
	"time"

	"github.com/corinapavel/atelier/internal/domain"
	"github.com/go-playground/validator/v10"
)

// Form carries everything the user submits at checkout. Card fields are
// validated for format only and never persisted raw; the order keeps just
// the method and last 4 digits.
type Form struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`

	AddressLine1 string `json:"addressLine1" validate:"required"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city" validate:"required"`
	County       string `json:"county"`
	PostalCode   string `json:"postalCode" validate:"required"`
	Country      string `json:"country"`

	// number, not numeric: the latter admits signs and decimal points.
	CardNumber string `json:"cardNumber" validate:"required,len=16,number"`
	CVV        string `json:"cvv" validate:"required,number,min=3,max=4"`
	Expiry     string `json:"expiry" validate:"required,cardexpiry"`
}

var expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/([0-9]{2})$`)

// NewValidator builds the form validator with the card expiry rule
// registered: MM/YY, not in the past.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("cardexpiry", func(fl validator.FieldLevel) bool {
		return expiryValid(fl.Field().String(), time.Now())
	})

	return v
}

// expiryValid reports whether s is a well-formed MM/YY expiry no earlier
// than the current month.
func expiryValid(s string, now time.Time) bool {
	m := expiryPattern.FindStringSubmatch(s)
	if m == nil {
		return false
	}

	month, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[2])
	year += 2000

	if year > now.Year() {
		return true
	}
	return year == now.Year() && time.Month(month) >= now.Month()
}

// fieldMessages maps struct fields to the user-facing message shown when
// they fail validation.
var fieldMessages = map[string]string{
	"FullName":     "Please enter the recipient's full name",
	"Email":        "Please enter a valid email address",
	"Phone":        "Please enter a contact phone number",
	"AddressLine1": "Please enter a street address",
	"City":         "Please enter a city",
	"PostalCode":   "Please enter a postal code",
	"CardNumber":   "Card number must be 16 digits",
	"CVV":          "Security code must be 3 or 4 digits",
	"Expiry":       "Expiry must be MM/YY and not in the past",
}

// validateForm checks the form and converts failures into a field-level
// domain.ValidationError. No I/O happens here or before this passes.
func validateForm(v *validator.Validate, form Form) error {
	err := v.Struct(form)
	if err == nil {
		return nil
	}

	invalid, ok := err.(validator.ValidationErrors)
	if !ok {
		return domain.Internal(err, "checkout.validate", "form validation failed")
	}

	fields := make(map[string]string, len(invalid))
	for _, fe := range invalid {
		msg, ok := fieldMessages[fe.StructField()]
		if !ok {
			msg = "Invalid value"
		}
		fields[fe.StructField()] = msg
	}

	return &domain.ValidationError{Op: "checkout.validate", Fields: fields}
}
