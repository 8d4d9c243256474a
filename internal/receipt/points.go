package receipt

import (
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

var (
	quarter = decimal.New(25, -2) // 0.25
	fifth   = decimal.New(2, -1)  // 0.2
)

// Points calculates the reward points earned by a receipt:
//   - +1 point for every alphanumeric character in the retailer name.
//   - +50 points if the total is a round dollar amount with no cents.
//   - +25 points if the total is a multiple of 0.25.
//   - +5 points for every two items on the receipt.
//   - If the trimmed length of an item's description is a multiple of 3,
//     the item price times 0.2, rounded up to the nearest integer.
//   - +6 points if the day of the purchase date is odd.
//   - +10 points if the purchase time is between 14:00 and 16:00.
//
// Points is a pure function over a validated receipt and never fails:
// Validate guarantees every amount, date, and time parses. Each rule only
// adds, so the result is always >= 0.
func Points(r Receipt) int64 {
	var points int64

	points += retailerPoints(r.Retailer)
	points += totalPoints(r.Total)
	points += int64(len(r.Items)/2) * 5
	for _, item := range r.Items {
		points += itemPoints(item)
	}
	points += datePoints(r.PurchaseDate)
	points += timePoints(r.PurchaseTime)

	return points
}

func retailerPoints(retailer string) int64 {
	var points int64
	for _, c := range retailer {
		if unicode.IsLetter(c) || unicode.IsDigit(c) {
			points++
		}
	}
	return points
}

// totalPoints awards the round-dollar and quarter-multiple bonuses. Both
// checks run on exact decimals: binary floats misjudge modulo arithmetic
// for some decimal inputs.
func totalPoints(total string) int64 {
	d, err := parseAmount(total)
	if err != nil {
		return 0
	}
	var points int64
	if d.IsInteger() {
		points += 50
	}
	if d.Mod(quarter).IsZero() {
		points += 25
	}
	return points
}

func itemPoints(item Item) int64 {
	trimmed := strings.TrimSpace(item.ShortDescription)
	if len(trimmed) == 0 || len(trimmed)%3 != 0 {
		return 0
	}
	price, err := parseAmount(item.Price)
	if err != nil {
		return 0
	}
	// Round any fractional remainder up.
	return price.Mul(fifth).Ceil().IntPart()
}

func datePoints(purchaseDate string) int64 {
	d, err := time.Parse(dateLayout, purchaseDate)
	if err != nil {
		return 0
	}
	if d.Day()%2 == 1 {
		return 6
	}
	return 0
}

// timePoints awards the afternoon bonus for purchases at or after 14:00
// and strictly before 16:00, compared at minute granularity as written,
// with no timezone interpretation.
func timePoints(purchaseTime string) int64 {
	t, err := time.Parse(timeLayout, purchaseTime)
	if err != nil {
		return 0
	}
	minute := t.Hour()*60 + t.Minute()
	if minute >= 14*60 && minute < 16*60 {
		return 10
	}
	return 0
}
