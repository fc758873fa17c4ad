package utils

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"innkeep/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var currencyPattern = regexp.MustCompile(`^[A-Za-z]{3}$`)

// RegisterValidators adds the domain rules to gin's validator. It is safe to call more than once.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}
	return registerRules(v)
}

func registerRules(v *validator.Validate) error {
	// Decimal amounts validate like float64 so gt/gte/lte work on them.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	rules := map[string]validator.Func{
		"unit_status": func(fl validator.FieldLevel) bool {
			return models.UnitStatus(fl.Field().String()).Valid()
		},
		"booking_status": func(fl validator.FieldLevel) bool {
			return models.BookingStatus(fl.Field().String()).Valid()
		},
		"booking_source": func(fl validator.FieldLevel) bool {
			return models.BookingSource(fl.Field().String()).Valid()
		},
		"manual_method": func(fl validator.FieldLevel) bool {
			m := models.PaymentMethod(fl.Field().String())
			return m == models.MethodCash || m == models.MethodBankTransfer
		},
		"currency_code": func(fl validator.FieldLevel) bool {
			return currencyPattern.MatchString(fl.Field().String())
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %s rule: %w", tag, err)
		}
	}
	return nil
}

// BindingDetails turns a binding error into a short, client-safe description.
func BindingDetails(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := toSnake(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "datetime":
			msgs = append(msgs, field+" must be a date formatted "+fe.Param())
		case "oneof":
			msgs = append(msgs, field+" must be one of "+fe.Param())
		case "credit_card":
			msgs = append(msgs, field+" is not a valid card number")
		case "unit_status", "booking_status", "booking_source", "manual_method", "currency_code":
			msgs = append(msgs, field+" has an unsupported value")
		default:
			if fe.Param() != "" {
				msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", field, fe.Tag(), fe.Param()))
			} else {
				msgs = append(msgs, fmt.Sprintf("%s failed %s", field, fe.Tag()))
			}
		}
	}
	return strings.Join(msgs, "; ")
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !(s[i-1] >= 'A' && s[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
