package service

import (
	"regexp"

	"github.com/shopspring/decimal"
)

var priceTokenPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// ParsePrice extracts the first numeric token from a spreadsheet price cell.
// Cells arrive in messy shapes ("10.5元", "￥10.5/个", "10.5"), so anything
// around the number is ignored. A cell with no numeric token parses as zero.
func ParsePrice(cell string) decimal.Decimal {
	token := priceTokenPattern.FindString(cell)
	if token == "" {
		return decimal.Zero
	}
	price, err := decimal.NewFromString(token)
	if err != nil {
		return decimal.Zero
	}
	return price
}

// ParseQuantity reads an integer quantity cell, tolerating decorated cells the
// same way ParsePrice does. Fractional tokens are truncated.
func ParseQuantity(cell string) int {
	token := priceTokenPattern.FindString(cell)
	if token == "" {
		return 0
	}
	qty, err := decimal.NewFromString(token)
	if err != nil {
		return 0
	}
	return int(qty.IntPart())
}
