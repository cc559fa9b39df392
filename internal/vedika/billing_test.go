package vedika

import (
	"strings"
	"testing"
)

func validBilling() *BillingSummary {
	return &BillingSummary{
		Mode:   "bpjs",
		NoNota: "NT-2026-0001",
		Categories: []BillingCategory{
			{Kategori: "Kamar", Subtotal: 1_500_000, Items: []BillingItem{
				{No: 1, NamaPerawatan: "Kamar Kelas 2", Biaya: 500_000, Jumlah: 3, TotalBiaya: 1_500_000},
			}},
			{Kategori: "Obat", Subtotal: 320_500, Items: []BillingItem{
				{No: 1, NamaPerawatan: "Ceftriaxone inj", Biaya: 64_100, Jumlah: 5, TotalBiaya: 320_500},
			}},
			{Kategori: "Laboratorium", Subtotal: 179_500},
		},
		JumlahTotal: 2_000_000,
		Potongan:    150_000,
		JumlahBayar: 1_850_000,
	}
}

func TestBillingVerifyAcceptsConsistentSummary(t *testing.T) {
	if err := validBilling().Verify(); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestBillingVerifyRejectsSubtotalMismatch(t *testing.T) {
	b := validBilling()
	b.Categories[0].Subtotal += 10_000
	err := b.Verify()
	if err == nil {
		t.Fatal("Verify accepted mismatched subtotals")
	}
	if !strings.Contains(err.Error(), "jumlah_total") {
		t.Errorf("error %q should name the mismatched field", err)
	}
}

func TestBillingVerifyRejectsPaymentMismatch(t *testing.T) {
	b := validBilling()
	b.JumlahBayar = 2_000_000
	if err := b.Verify(); err == nil {
		t.Fatal("Verify accepted total minus discount != paid")
	}
}

func TestBillingVerifyToleratesRoundingNoise(t *testing.T) {
	b := validBilling()
	b.JumlahTotal += 0.3
	if err := b.Verify(); err != nil {
		t.Fatalf("sub-rupiah noise should pass: %v", err)
	}
}

func TestBillingVerifyNilIsOK(t *testing.T) {
	var b *BillingSummary
	if err := b.Verify(); err != nil {
		t.Fatalf("nil billing section should verify clean: %v", err)
	}
}

func TestCategoryTotal(t *testing.T) {
	cat := validBilling().Categories[0]
	if got := cat.CategoryTotal(); got != 1_500_000 {
		t.Errorf("CategoryTotal = %v, want 1500000", got)
	}
}

func TestFormatRupiah(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "Rp 0"},
		{950, "Rp 950"},
		{1_500_000, "Rp 1.500.000"},
		{2_000_000_000, "Rp 2.000.000.000"},
	}
	for _, tt := range tests {
		if got := FormatRupiah(tt.in); got != tt.want {
			t.Errorf("FormatRupiah(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
