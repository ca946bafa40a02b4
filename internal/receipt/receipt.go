// Package receipt formats a settled sale for the cashier. The grand total
// always comes straight from the server's record, never recomputed here.
package receipt

import (
	"fmt"
	"html/template"
	"io"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"pharmalink/pos/domain"
)

// Pharmacy identifies the business on the receipt header and footer.
type Pharmacy struct {
	Name    string
	Tagline string
	Phone   string
}

var DefaultPharmacy = Pharmacy{
	Name:    "PharmaLink Pharmacy",
	Tagline: "Quality Healthcare Solutions",
	Phone:   "+254 700 000 000",
}

func money(d decimal.Decimal) string {
	return "KSh " + d.StringFixed(2)
}

func saleTime(s domain.Sale) time.Time {
	if s.CreatedAt.IsZero() {
		return time.Now()
	}
	return s.CreatedAt
}

// Render writes a fixed-width text receipt.
func Render(w io.Writer, sale domain.Sale, ph Pharmacy) error {
	at := saleTime(sale)

	fmt.Fprintf(w, "%s\n%s\n\n", ph.Name, ph.Tagline)
	if sale.SaleNumber != "" {
		fmt.Fprintf(w, "Receipt #: %s\n", sale.SaleNumber)
	}
	fmt.Fprintf(w, "Date:      %s\n", at.Format("02 Jan 2006"))
	fmt.Fprintf(w, "Time:      %s\n", at.Format("15:04:05"))
	if sale.CustomerName != "" {
		fmt.Fprintf(w, "Customer:  %s\n", sale.CustomerName)
	}
	if sale.CustomerPhone != "" {
		fmt.Fprintf(w, "Phone:     %s\n", sale.CustomerPhone)
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Item\tQty\tPrice\tTotal")
	for _, item := range sale.Items {
		name := item.DrugName
		if name == "" {
			name = "Unknown Item"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", name, item.Quantity, money(item.UnitPrice), money(item.TotalPrice))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nPayment Method: %s\n", sale.PaymentMethod)
	fmt.Fprintf(w, "Total Amount:   %s\n", money(sale.TotalAmount))
	fmt.Fprintln(w, "\nThank you for your purchase!")
	if sale.SoldBy != nil && sale.SoldBy.Username != "" {
		fmt.Fprintf(w, "Sold by: %s\n", sale.SoldBy.Username)
	}
	fmt.Fprintf(w, "For inquiries: %s\n", ph.Phone)
	return nil
}

var htmlReceipt = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html>
<head>
<title>Receipt</title>
<style>
body { font-family: Arial, sans-serif; margin: 20px; }
.receipt { border: 1px solid #000; padding: 20px; }
.receipt-header { text-align: center; margin-bottom: 20px; }
.receipt-items { width: 100%; border-collapse: collapse; margin: 20px 0; }
.receipt-items th, .receipt-items td { padding: 8px; text-align: left; border-bottom: 1px solid #ddd; }
.receipt-total { margin-top: 20px; text-align: right; }
.thank-you { text-align: center; margin-top: 20px; font-style: italic; }
@media print { body { margin: 0; } }
</style>
</head>
<body>
<div class="receipt">
  <div class="receipt-header">
    <h3>{{.Pharmacy.Name}}</h3>
    <p>{{.Pharmacy.Tagline}}</p>
    {{if .Sale.SaleNumber}}<p><strong>Receipt #:</strong> {{.Sale.SaleNumber}}</p>{{end}}
    <p><strong>Date:</strong> {{.Date}} <strong>Time:</strong> {{.Time}}</p>
  </div>
  {{if .Sale.CustomerName}}<p><strong>Customer:</strong> {{.Sale.CustomerName}}</p>{{end}}
  {{if .Sale.CustomerPhone}}<p><strong>Phone:</strong> {{.Sale.CustomerPhone}}</p>{{end}}
  <table class="receipt-items">
    <tr><th>Item</th><th>Qty</th><th>Price</th><th>Total</th></tr>
    {{range .Items}}<tr><td>{{.Name}}</td><td>{{.Quantity}}</td><td>{{.UnitPrice}}</td><td>{{.TotalPrice}}</td></tr>
    {{end}}
  </table>
  <div class="receipt-total">
    <p><strong>Payment Method:</strong> {{.PaymentMethod}}</p>
    <p><strong>Total Amount:</strong> {{.Total}}</p>
  </div>
  <p class="thank-you">Thank you for your purchase!</p>
  {{if .SoldBy}}<p>Sold by: {{.SoldBy}}</p>{{end}}
  <p>Thank you for choosing {{.Pharmacy.Name}}</p>
  <p>For inquiries: {{.Pharmacy.Phone}}</p>
</div>
</body>
</html>
`))

type htmlItem struct {
	Name       string
	Quantity   int64
	UnitPrice  string
	TotalPrice string
}

// RenderHTML writes the printable document, the terminal's stand-in for the
// original print window.
func RenderHTML(w io.Writer, sale domain.Sale, ph Pharmacy) error {
	at := saleTime(sale)
	items := make([]htmlItem, len(sale.Items))
	for i, item := range sale.Items {
		name := item.DrugName
		if name == "" {
			name = "Unknown Item"
		}
		items[i] = htmlItem{
			Name:       name,
			Quantity:   item.Quantity,
			UnitPrice:  money(item.UnitPrice),
			TotalPrice: money(item.TotalPrice),
		}
	}
	soldBy := ""
	if sale.SoldBy != nil {
		soldBy = sale.SoldBy.Username
	}
	return htmlReceipt.Execute(w, map[string]any{
		"Pharmacy":      ph,
		"Sale":          sale,
		"Date":          at.Format("02 Jan 2006"),
		"Time":          at.Format("15:04:05"),
		"Items":         items,
		"PaymentMethod": sale.PaymentMethod,
		"Total":         money(sale.TotalAmount),
		"SoldBy":        soldBy,
	})
}
