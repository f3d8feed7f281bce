package product

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mabeldev/invoice-extractor/internal/llm"
)

const (
	maxIDLen          = 40
	maxReferenceLen   = 50
	maxDescriptionLen = 200
)

var (
	reNonPrice = regexp.MustCompile(`[^\d.,]`)
	reNonID    = regexp.MustCompile(`[^a-z0-9]`)
)

// Normalize maps loosely-typed candidates into validated product records.
// Non-product rows (headers, totals, noise) are silently dropped; one bad
// candidate never affects its siblings. Pure and idempotent.
func Normalize(candidates []llm.Candidate) []Record {
	records := make([]Record, 0, len(candidates))
	for i, c := range candidates {
		if c == nil {
			continue
		}

		name := strings.TrimSpace(coerceString(c["name"]))
		if len([]rune(name)) < 2 {
			continue
		}

		// Quantity first: unit prices divide by it.
		quantity := parseQuantity(firstTruthy(c, "quantity", "qty"))

		totalTTC, okTTC := parsePrice(firstTruthy(c, "totalTTC", "priceTTC", "price"))
		totalHT, okHT := parsePrice(firstTruthy(c, "totalHT", "priceHT"))

		rec := Record{
			ID:          deriveID(name, i),
			Name:        name,
			Description: truncateRunes(strings.TrimSpace(coerceString(c["description"])), maxDescriptionLen),
			Quantity:    quantity,
			Reference:   truncateRunes(strings.TrimSpace(coerceString(c["reference"])), maxReferenceLen),
		}

		qty := decimal.NewFromInt(int64(quantity))
		if okTTC {
			unit, _ := totalTTC.Div(qty).Round(2).Float64()
			rec.PriceTTC = &unit
		}
		if okHT {
			unit, _ := totalHT.Div(qty).Round(2).Float64()
			rec.PriceHT = &unit
		}

		records = append(records, rec)
	}
	return records
}

// parseQuantity accepts only values coercing to an integer strictly between
// 0 and 1000; anything else defaults to 1.
func parseQuantity(v any) int {
	q, ok := coerceInt(v)
	if ok && q > 0 && q < 1000 {
		return q
	}
	return 1
}

// parsePrice coerces a value to a positive 2-decimal amount. Every character
// that is not a digit, comma, or dot is stripped; a comma is treated as a
// decimal separator.
func parsePrice(v any) (decimal.Decimal, bool) {
	if v == nil {
		return decimal.Zero, false
	}
	s := reNonPrice.ReplaceAllString(coerceString(v), "")
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsPositive() {
		return decimal.Zero, false
	}
	return d.Round(2), true
}

// deriveID lowercases the name and strips it to [a-z0-9], capped at 40 chars.
// Names that strip to nothing get a positional fallback unique in the batch.
func deriveID(name string, index int) string {
	id := reNonID.ReplaceAllString(strings.ToLower(name), "")
	if len(id) > maxIDLen {
		id = id[:maxIDLen]
	}
	if id == "" {
		return fmt.Sprintf("prod_%d", index)
	}
	return id
}

// firstTruthy returns the first present, non-null, non-zero, non-empty value
// among the given keys. Alternate key names from the model are resolved here.
func firstTruthy(c llm.Candidate, keys ...string) any {
	for _, k := range keys {
		v, ok := c[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			if t == "" {
				continue
			}
		case float64:
			if t == 0 {
				continue
			}
		case bool:
			if !t {
				continue
			}
		}
		return v
	}
	return nil
}

func coerceString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func coerceInt(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		if t != float64(int(t)) {
			return 0, false
		}
		return int(t), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
