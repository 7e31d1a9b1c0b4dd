package materials

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxAmount — верхняя граница цены и количеств (0–999999.99, два знака).
var MaxAmount = decimal.RequireFromString("999999.99")

const (
	amountPlaces = 2

	// Сравнение decimal рескейлит big.Int до показателя степени, поэтому длина
	// и порядок проверяются раньше: "1e-2000000000" иначе не посчитается никогда.
	maxAmountLen = 32
	minExponent  = -amountPlaces - 16
	maxExponent  = 6
)

// RawInput — значения полей формы как их ввёл пользователь.
type RawInput struct {
	Name               string
	TypeID             string
	UnitPrice          string
	QuantityInStock    string
	MinQuantity        string
	QuantityPerPackage string
	Unit               string
}

type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string { return e.Field + ": " + e.Reason }

// ValidationErrors — все нарушения формы сразу.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, e := range v {
		parts = append(parts, e.Error())
	}
	return "invalid material: " + strings.Join(parts, "; ")
}

// ParseInput разбирает и проверяет форму. При ошибке возвращает ValidationErrors,
// и обращаться к складу нельзя.
func ParseInput(raw RawInput) (Input, error) {
	var errs ValidationErrors
	in := Input{
		Name: strings.TrimSpace(raw.Name),
		Unit: strings.TrimSpace(raw.Unit),
	}

	typeID, err := strconv.ParseInt(strings.TrimSpace(raw.TypeID), 10, 64)
	if err != nil {
		errs = append(errs, FieldError{Field: "type_id", Reason: "must be an integer"})
	}
	in.TypeID = typeID

	amount := func(field, s string) decimal.Decimal {
		d, err := ParseAmount(s)
		if err != nil {
			errs = append(errs, FieldError{Field: field, Reason: err.Error()})
		}
		return d
	}
	in.UnitPrice = amount("unit_price", raw.UnitPrice)
	in.QuantityInStock = amount("quantity_in_stock", raw.QuantityInStock)
	in.MinQuantity = amount("min_quantity", raw.MinQuantity)
	in.QuantityPerPackage = amount("quantity_per_package", raw.QuantityPerPackage)

	if verr := Validate(in); verr != nil {
		for _, e := range verr.(ValidationErrors) {
			if !errs.has(e.Field) {
				errs = append(errs, e)
			}
		}
	}
	if len(errs) > 0 {
		return Input{}, errs
	}
	return in, nil
}

// Validate проверяет уже разобранные значения.
func Validate(in Input) error {
	var errs ValidationErrors
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, FieldError{Field: "name", Reason: "required"})
	}
	if strings.TrimSpace(in.Unit) == "" {
		errs = append(errs, FieldError{Field: "unit", Reason: "required"})
	}
	if in.TypeID <= 0 {
		errs = append(errs, FieldError{Field: "type_id", Reason: "must be positive"})
	}
	for _, f := range []struct {
		name string
		v    decimal.Decimal
	}{
		{"unit_price", in.UnitPrice},
		{"quantity_in_stock", in.QuantityInStock},
		{"min_quantity", in.MinQuantity},
		{"quantity_per_package", in.QuantityPerPackage},
	} {
		if err := checkAmount(f.v); err != nil {
			errs = append(errs, FieldError{Field: f.name, Reason: err.Error()})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ParseAmount разбирает неотрицательное число с двумя знаками; допускает запятую.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("required")
	}
	if len(s) > maxAmountLen {
		return decimal.Zero, fmt.Errorf("too long")
	}
	d, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
	if err != nil {
		return decimal.Zero, fmt.Errorf("not a number: %q", s)
	}
	if d.IsZero() {
		return decimal.Zero, nil
	}
	if err := checkAmount(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

func checkAmount(d decimal.Decimal) error {
	if d.IsNegative() {
		return fmt.Errorf("must not be negative")
	}
	if d.IsZero() {
		return nil
	}
	if d.Exponent() > maxExponent {
		return fmt.Errorf("must not exceed %s", MaxAmount.StringFixed(amountPlaces))
	}
	if d.Exponent() < minExponent {
		return fmt.Errorf("at most %d decimal places", amountPlaces)
	}
	if d.GreaterThan(MaxAmount) {
		return fmt.Errorf("must not exceed %s", MaxAmount.StringFixed(amountPlaces))
	}
	if !d.Equal(d.Round(amountPlaces)) {
		return fmt.Errorf("at most %d decimal places", amountPlaces)
	}
	return nil
}

func (v ValidationErrors) has(field string) bool {
	for _, e := range v {
		if e.Field == field {
			return true
		}
	}
	return false
}
