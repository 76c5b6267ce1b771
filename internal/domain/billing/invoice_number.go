package billing

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// InvoiceNumberPrefix opens every invoice number
const InvoiceNumberPrefix = "INV"

// MonthPrefix builds the per-month invoice number prefix, e.g. "INV2602" for
// February 2026. Sequences restart under each prefix.
func MonthPrefix(periodEnd time.Time) string {
	return fmt.Sprintf("%s%02d%02d", InvoiceNumberPrefix, periodEnd.Year()%100, int(periodEnd.Month()))
}

// FormatInvoiceNumber renders a full invoice number from its month prefix and
// sequence, e.g. "INV26020007".
func FormatInvoiceNumber(prefix string, sequence int) string {
	return fmt.Sprintf("%s%04d", prefix, sequence)
}

// FormatPaymentTransactionID renders the generated transaction id for a
// non-cash payment when the caller does not supply an external reference.
func FormatPaymentTransactionID(year, customerNumber, sequence int) string {
	return fmt.Sprintf("%d_%d_%d", year, customerNumber, sequence)
}

// ParsePaymentTransactionID splits a transaction id back into its year,
// customer number and sequence parts. Returns ok=false for ids that do not
// follow the generated format, such as external gateway references.
func ParsePaymentTransactionID(id string) (year, customerNumber, sequence int, ok bool) {
	parts := strings.Split(id, "_")
	if len(parts) != 3 {
		return 0, 0, 0, false
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, false
	}
	customerNumber, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, false
	}
	sequence, err = strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, 0, false
	}
	return year, customerNumber, sequence, true
}
