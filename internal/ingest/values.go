package ingest

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sellerdesk/reconcile-backend/pkg/enums"
)

// currencyTokens are symbols and codes stripped before numeric parsing.
var currencyTokens = []string{"sar", "aed", "usd", "sr", "ر.س", "د.إ", "$"}

// parseMoney converts a raw cell into a decimal amount, tolerating
// thousands separators and trailing currency symbols. Empty cells are
// zero, not an error; only genuinely malformed values fail.
func parseMoney(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return decimal.Zero, nil
	}

	lower := strings.ToLower(cleaned)
	for _, tok := range currencyTokens {
		lower = strings.ReplaceAll(lower, tok, "")
	}
	lower = strings.NewReplacer(",", "", `"`, "", "=", "", " ", "").Replace(lower)
	if lower == "" {
		return decimal.Zero, nil
	}

	return decimal.NewFromString(lower)
}

var dateFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04",
	"02/01/2006",
	"02-01-2006",
	"02.01.2006 15:04",
	"02.01.2006",
	"2006/01/02",
	"01/02/2006 03:04:05 PM",
	"2 Jan 2006",
}

// parseDate tries the formats the marketplaces actually emit. A cell
// that parses with none of them yields nil rather than failing the row;
// order/collection dates are not required columns.
func parseDate(raw string) *time.Time {
	cleaned := strings.NewReplacer(`"`, "", "=", "").Replace(strings.TrimSpace(raw))
	cleaned = strings.TrimSuffix(cleaned, " UTC")
	if cleaned == "" {
		return nil
	}
	for _, format := range dateFormats {
		if t, err := time.Parse(format, cleaned); err == nil {
			return &t
		}
	}
	return nil
}

// parseQuantity reads an integer quantity, defaulting to 1. Exports
// sometimes render quantities as floats ("2.0").
func parseQuantity(raw string) int {
	cleaned := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if cleaned == "" {
		return 1
	}
	if n, err := strconv.Atoi(cleaned); err == nil && n > 0 {
		return n
	}
	if f, err := strconv.ParseFloat(cleaned, 64); err == nil && f > 0 {
		return int(f)
	}
	return 1
}

var statusVocabulary = map[string]enums.OrderStatus{
	"delivered":    enums.OrderStatusDelivered,
	"completed":    enums.OrderStatusDelivered,
	"complete":     enums.OrderStatusDelivered,
	"تم التوصيل":   enums.OrderStatusDelivered,
	"منفذ":         enums.OrderStatusDelivered,
	"shipped":      enums.OrderStatusShipped,
	"in transit":   enums.OrderStatusShipped,
	"dispatched":   enums.OrderStatusShipped,
	"تم الشحن":     enums.OrderStatusShipped,
	"جاري التوصيل": enums.OrderStatusShipped,
	"returned":     enums.OrderStatusReturned,
	"return":       enums.OrderStatusReturned,
	"refund":       enums.OrderStatusReturned,
	"refunded":     enums.OrderStatusReturned,
	"مرتجع":        enums.OrderStatusReturned,
	"cancelled":    enums.OrderStatusCancelled,
	"canceled":     enums.OrderStatusCancelled,
	"ملغي":         enums.OrderStatusCancelled,
}

// normalizeStatus folds a platform's status vocabulary into the shared
// enum. Unknown or empty statuses are pending.
func normalizeStatus(raw string) enums.OrderStatus {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	if status, ok := statusVocabulary[cleaned]; ok {
		return status
	}
	for vocab, status := range statusVocabulary {
		if cleaned != "" && strings.Contains(cleaned, vocab) {
			return status
		}
	}
	return enums.OrderStatusPending
}

// cleanIdentifier strips the quoting noise marketplaces wrap around order
// and tracking numbers, and collapses float-rendered numerics ("12345.0").
func cleanIdentifier(raw string) string {
	cleaned := strings.NewReplacer(`"`, "", "=", "", "'", "").Replace(strings.TrimSpace(raw))
	if cleaned == "" || strings.EqualFold(cleaned, "nan") || strings.EqualFold(cleaned, "none") {
		return ""
	}
	if f, err := strconv.ParseFloat(cleaned, 64); err == nil && f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return cleaned
}
