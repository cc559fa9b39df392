package vedika

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Monetary amounts come back as floats of whole rupiah; comparisons
// tolerate sub-rupiah rounding noise.
const billingEpsilon = 0.5

var rupiahPrinter = message.NewPrinter(language.Indonesian)

// FormatRupiah renders an amount with Indonesian thousands separators,
// e.g. 1500000 becomes "Rp 1.500.000".
func FormatRupiah(amount float64) string {
	return rupiahPrinter.Sprintf("Rp %v", number.Decimal(math.Round(amount), number.MaxFractionDigits(0)))
}

// Verify checks the billing aggregate's arithmetic: category subtotals
// must add up to the grand total, and total minus discount must equal the
// amount paid. A mismatch means the upstream aggregate is corrupt and the
// verifier should not trust the breakdown.
func (b *BillingSummary) Verify() error {
	if b == nil {
		return nil
	}
	var sum float64
	for _, cat := range b.Categories {
		sum += cat.Subtotal
	}
	if math.Abs(sum-b.JumlahTotal) > billingEpsilon {
		return fmt.Errorf("billing subtotals sum to %.0f but jumlah_total is %.0f", sum, b.JumlahTotal)
	}
	if math.Abs(b.JumlahTotal-b.Potongan-b.JumlahBayar) > billingEpsilon {
		return fmt.Errorf("jumlah_total %.0f minus potongan %.0f does not equal jumlah_bayar %.0f",
			b.JumlahTotal, b.Potongan, b.JumlahBayar)
	}
	return nil
}

// CategoryTotal returns the recomputed subtotal for one category from its
// line items.
func (c BillingCategory) CategoryTotal() float64 {
	var sum float64
	for _, item := range c.Items {
		sum += item.TotalBiaya
	}
	return sum
}
