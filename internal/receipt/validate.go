package receipt

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// ValidationError describes why a submitted receipt was rejected.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func invalid(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// parseAmount parses a wire-format dollar amount into an exact decimal.
// Amounts must be non-negative with at most two fractional digits.
func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%q is not a decimal amount", s)
	}
	if d.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("amount %q must not be negative", s)
	}
	if d.Exponent() < -2 {
		return decimal.Decimal{}, fmt.Errorf("amount %q has more than two fractional digits", s)
	}
	return d, nil
}

// Validate checks a submitted receipt for structural and semantic
// well-formedness. Checks run in order and the first failure wins; a nil
// return means the receipt is safe to store and score.
func Validate(r Receipt) error {
	if r.Retailer == "" {
		return invalid("retailer is required")
	}
	if r.PurchaseDate == "" {
		return invalid("purchaseDate is required")
	}
	if _, err := time.Parse(dateLayout, r.PurchaseDate); err != nil {
		return invalid("purchaseDate %q is not a valid date", r.PurchaseDate)
	}
	if r.PurchaseTime == "" {
		return invalid("purchaseTime is required")
	}
	if _, err := time.Parse(timeLayout, r.PurchaseTime); err != nil {
		return invalid("purchaseTime %q is not a valid time", r.PurchaseTime)
	}
	if len(r.Items) == 0 {
		return invalid("at least one item is required")
	}
	for i, item := range r.Items {
		if item.ShortDescription == "" {
			return invalid("item %d: shortDescription is required", i)
		}
		if item.Price == "" {
			return invalid("item %d: price is required", i)
		}
		if _, err := parseAmount(item.Price); err != nil {
			return invalid("item %d: %v", i, err)
		}
	}
	if r.Total == "" {
		return invalid("total is required")
	}
	if _, err := parseAmount(r.Total); err != nil {
		return invalid("total: %v", err)
	}
	return nil
}
