package invoices

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ErrAmountType is returned when a JSON amount is neither a number nor a string.
var ErrAmountType = errors.New("amount must be a number or a string")

// Amount is the submitted amount as text. JSON callers may send it as a number.
type Amount string

func (a *Amount) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: %s", ErrAmountType, data)
	}
	*a = Amount(n.String())
	return nil
}

// Form is the raw invoice form as submitted. Every value is kept as text so
// that coercion and its failures belong to validation.
type Form struct {
	CustomerID string `form:"customerId" json:"customerId" validate:"required"`
	Amount     Amount `form:"amount" json:"amount" validate:"amount_gt_zero"`
	Status     string `form:"status" json:"status" validate:"oneof=pending paid"`
}

var fieldMessages = map[string]string{
	"customerId": "Please select a customer.",
	"amount":     "Please enter an amount greater than $0",
	"status":     "Please select an invoice status.",
}

var (
	hundred  = decimal.NewFromInt(100)
	maxCents = decimal.NewFromInt(math.MaxInt64)
)

type validInvoice struct {
	CustomerID    string
	AmountInCents int64
	Status        string
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "amount_gt_zero", func(fl validator.FieldLevel) bool {
		return validAmount(fl.Field().String())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("invoices: register %q validation: %v", tag, err))
	}
}

// magnitude is the number of digits left of the decimal point, negative for
// values below 0.1. Computing it does not expand the exponent.
func magnitude(d decimal.Decimal) int {
	return d.NumDigits() + int(d.Exponent())
}

// validAmount accepts positive amounts whose cents fit in an int64.
func validAmount(raw string) bool {
	amount, err := parseAmount(raw)
	if err != nil || !amount.IsPositive() {
		return false
	}
	switch m := magnitude(amount); {
	case m > 17:
		// anything from 1e17 up overflows once scaled to cents
		return false
	case m < -2:
		return true
	}
	return amount.Mul(hundred).Round(0).LessThanOrEqual(maxCents)
}

// parseAmount coerces the submitted text to a number, tolerating surrounding
// whitespace.
func parseAmount(raw string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(raw))
}

// toCents rounds half away from zero to whole cents. The amount must already
// have passed validAmount.
func toCents(amount decimal.Decimal) int64 {
	if magnitude(amount) < -2 {
		return 0
	}
	return amount.Mul(hundred).Round(0).IntPart()
}

// PayloadError reports a body that could not be decoded into a Form. The
// field the decoder names is flagged, otherwise every field is.
func PayloadError(message string, err error) *ValidationError {
	verr := &ValidationError{Errors: make(map[string][]string), Message: message}

	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, ErrAmountType):
		verr.Errors["amount"] = []string{fieldMessages["amount"]}
	case errors.As(err, &typeErr) && fieldMessages[typeErr.Field] != "":
		verr.Errors[typeErr.Field] = []string{fieldMessages[typeErr.Field]}
	default:
		for field, msg := range fieldMessages {
			verr.Errors[field] = []string{msg}
		}
	}
	return verr
}

func (w *Writer) validate(form Form, message string) (validInvoice, error) {
	if err := w.validator.Struct(form); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return validInvoice{}, err
		}
		verr := &ValidationError{Errors: make(map[string][]string), Message: message}
		for _, fe := range fieldErrs {
			field := fe.Field()
			verr.Errors[field] = append(verr.Errors[field], fieldMessages[field])
		}
		return validInvoice{}, verr
	}

	amount, err := parseAmount(string(form.Amount))
	if err != nil {
		// already accepted by amount_gt_zero
		return validInvoice{}, err
	}
	return validInvoice{
		CustomerID:    form.CustomerID,
		AmountInCents: toCents(amount),
		Status:        form.Status,
	}, nil
}
