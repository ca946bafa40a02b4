package receipt

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmalink/pos/domain"
)

func sampleSale() domain.Sale {
	return domain.Sale{
		SaleNumber: "SALE-0042",
		Items: []domain.SaleItem{
			{DrugName: "Paracetamol", Quantity: 2, UnitPrice: decimal.NewFromInt(50), TotalPrice: decimal.NewFromInt(100)},
			{DrugName: "Amoxicillin", Quantity: 1, UnitPrice: decimal.NewFromFloat(120.5), TotalPrice: decimal.NewFromFloat(120.5)},
		},
		// Deliberately not the sum of the lines; the server's figure wins.
		TotalAmount:   decimal.NewFromFloat(215.25),
		PaymentMethod: domain.PaymentCash,
		CustomerName:  "Jane Wanjiku",
		CustomerPhone: "+254 712 345 678",
		SoldBy:        &domain.Seller{Username: "amina"},
		CreatedAt:     time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestRenderUsesServerTotal(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, Render(&buf, sampleSale(), DefaultPharmacy))
	out := buf.String()

	assert.Contains(t, out, "Total Amount:   KSh 215.25")
	assert.NotContains(t, out, "220.50")
}

func TestRenderText(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, Render(&buf, sampleSale(), DefaultPharmacy))
	out := buf.String()

	assert.Contains(t, out, "PharmaLink Pharmacy")
	assert.Contains(t, out, "Receipt #: SALE-0042")
	assert.Contains(t, out, "Date:      14 Mar 2026")
	assert.Contains(t, out, "Customer:  Jane Wanjiku")
	assert.Contains(t, out, "Paracetamol")
	assert.Contains(t, out, "KSh 120.50")
	assert.Contains(t, out, "Payment Method: cash")
	assert.Contains(t, out, "Sold by: amina")
}

func TestRenderOmitsEmptyFields(t *testing.T) {
	sale := sampleSale()
	sale.SaleNumber = ""
	sale.CustomerName = ""
	sale.CustomerPhone = ""
	sale.SoldBy = nil

	var buf strings.Builder
	require.NoError(t, Render(&buf, sale, DefaultPharmacy))
	out := buf.String()

	assert.NotContains(t, out, "Receipt #")
	assert.NotContains(t, out, "Customer:")
	assert.NotContains(t, out, "Sold by:")
}

func TestRenderMissingTimestampFallsBackToNow(t *testing.T) {
	sale := sampleSale()
	sale.CreatedAt = time.Time{}

	var buf strings.Builder
	require.NoError(t, Render(&buf, sale, DefaultPharmacy))
	assert.Contains(t, buf.String(), time.Now().Format("02 Jan 2006"))
}

func TestRenderUnknownItemName(t *testing.T) {
	sale := sampleSale()
	sale.Items[0].DrugName = ""

	var buf strings.Builder
	require.NoError(t, Render(&buf, sale, DefaultPharmacy))
	assert.Contains(t, buf.String(), "Unknown Item")
}

func TestRenderHTML(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, RenderHTML(&buf, sampleSale(), DefaultPharmacy))
	out := buf.String()

	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, "<h3>PharmaLink Pharmacy</h3>")
	assert.Contains(t, out, "SALE-0042")
	assert.Contains(t, out, "KSh 215.25")
	assert.Contains(t, out, "Sold by: amina")
}

func TestRenderHTMLEscapesContent(t *testing.T) {
	sale := sampleSale()
	sale.CustomerName = `<script>alert("x")</script>`

	var buf strings.Builder
	require.NoError(t, RenderHTML(&buf, sale, DefaultPharmacy))
	out := buf.String()

	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
}
