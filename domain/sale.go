package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is the server's record of a settled checkout. The client treats it
// as read-only display data; totals are never recomputed locally.
type Sale struct {
	ID            string          `json:"_id"`
	SaleNumber    string          `json:"saleNumber"`
	Items         []SaleItem      `json:"items"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	PaymentMethod string          `json:"paymentMethod"`
	CustomerName  string          `json:"customerName,omitempty"`
	CustomerPhone string          `json:"customerPhone,omitempty"`
	SoldBy        *Seller         `json:"soldBy,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type SaleItem struct {
	DrugID     string          `json:"drugId"`
	DrugName   string          `json:"drugName"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

type Seller struct {
	ID       string `json:"_id,omitempty"`
	Username string `json:"username"`
}

// CustomerInfo is optional free-text attached to a checkout.
type CustomerInfo struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// SaleRequest is the checkout payload sent to POST /api/sales.
type SaleRequest struct {
	Items         []SaleLine      `json:"items"`
	PaymentMethod string          `json:"paymentMethod"`
	CustomerName  string          `json:"customerName"`
	CustomerPhone string          `json:"customerPhone"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
}

type SaleLine struct {
	DrugID    string          `json:"drugId"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// Payment methods accepted at the terminal.
const (
	PaymentCash        = "cash"
	PaymentCard        = "card"
	PaymentMobileMoney = "mobile_money"
)

func ValidPaymentMethod(m string) bool {
	return m == PaymentCash || m == PaymentCard || m == PaymentMobileMoney
}
