// Package cart holds the working set of items a cashier intends to sell,
// enforces locally-known stock ceilings, and runs the checkout cycle.
// All access happens on the terminal's single interactive loop, so the
// cart carries no locking.
package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"pharmalink/pos/domain"
	"pharmalink/pos/internal/api"
	"pharmalink/pos/internal/session"
)

// Status tracks the checkout cycle: idle -> submitting -> settled | failed.
type Status string

const (
	StatusIdle       Status = "IDLE"
	StatusSubmitting Status = "SUBMITTING"
	StatusSettled    Status = "SETTLED"
	StatusFailed     Status = "FAILED"
)

func (s Status) IsTerminal() bool {
	return s == StatusSettled || s == StatusFailed
}

func (s Status) String() string { return string(s) }

var (
	ErrEmptyCart        = errors.New("cart is empty, add items before completing a sale")
	ErrOutOfStock       = errors.New("item is out of stock")
	ErrNotInCart        = errors.New("item is not in the cart")
	ErrCheckoutInFlight = errors.New("a sale is already being processed")
)

// StockLimitError signals that a requested quantity exceeds the stock
// ceiling snapshotted when the item entered the cart.
type StockLimitError struct {
	Name string
	Max  int64
}

func (e *StockLimitError) Error() string {
	return fmt.Sprintf("only %d units of %s available in stock", e.Max, e.Name)
}

// Line is one cart entry. Name, batch and unit price are snapshots taken
// at add time; MaxQuantity is the stock ceiling known then, not re-checked
// until checkout.
type Line struct {
	DrugID      string
	Name        string
	BatchNo     string
	UnitPrice   decimal.Decimal
	Quantity    int64
	MaxQuantity int64
}

func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
}

// SaleSender submits a checkout request; satisfied by *api.Client.
type SaleSender interface {
	CreateSale(ctx context.Context, req domain.SaleRequest) (domain.Sale, error)
}

// SessionChecker reports whether a live session exists; satisfied by
// *session.Store.
type SessionChecker interface {
	Current() (session.Session, bool)
}

// Cart is the client-local, unsubmitted sale. Lines are ordered and unique
// by drug id. Never contains a line with quantity outside [1, MaxQuantity].
type Cart struct {
	lines         []Line
	customer      domain.CustomerInfo
	paymentMethod string
	status        Status
	lastSale      *domain.Sale
}

func New() *Cart {
	return &Cart{paymentMethod: domain.PaymentCash, status: StatusIdle}
}

// AddItem puts one unit of the catalog entry in the cart. A second add of
// the same drug increments the existing line instead of duplicating it;
// the increment is refused once the snapshotted ceiling is reached.
func (c *Cart) AddItem(drug domain.Drug) error {
	for i := range c.lines {
		if c.lines[i].DrugID == drug.ID {
			if c.lines[i].Quantity >= c.lines[i].MaxQuantity {
				return &StockLimitError{Name: c.lines[i].Name, Max: c.lines[i].MaxQuantity}
			}
			c.lines[i].Quantity++
			return nil
		}
	}
	if drug.Quantity <= 0 {
		return ErrOutOfStock
	}
	c.lines = append(c.lines, Line{
		DrugID:      drug.ID,
		Name:        drug.Name,
		BatchNo:     drug.BatchNo,
		UnitPrice:   drug.Price,
		Quantity:    1,
		MaxQuantity: drug.Quantity,
	})
	return nil
}

// UpdateQuantity replaces a line's quantity. Zero or less removes the line;
// a quantity above the ceiling is refused with the line left unchanged.
func (c *Cart) UpdateQuantity(drugID string, quantity int64) error {
	for i := range c.lines {
		if c.lines[i].DrugID != drugID {
			continue
		}
		if quantity <= 0 {
			c.RemoveItem(drugID)
			return nil
		}
		if quantity > c.lines[i].MaxQuantity {
			return &StockLimitError{Name: c.lines[i].Name, Max: c.lines[i].MaxQuantity}
		}
		c.lines[i].Quantity = quantity
		return nil
	}
	return ErrNotInCart
}

// RemoveItem drops a line unconditionally.
func (c *Cart) RemoveItem(drugID string) {
	for i := range c.lines {
		if c.lines[i].DrugID == drugID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Clear empties the cart and resets the customer fields. The caller owns
// the destructive-action confirmation.
func (c *Cart) Clear() {
	c.lines = nil
	c.customer = domain.CustomerInfo{}
}

// Lines returns a copy of the current line items.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int { return len(c.lines) }

// Total recomputes the amount due from the current lines on every call.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// ItemCount recomputes the unit count from the current lines on every call.
func (c *Cart) ItemCount() int64 {
	var n int64
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) Customer() domain.CustomerInfo { return c.customer }

func (c *Cart) SetCustomer(info domain.CustomerInfo) { c.customer = info }

func (c *Cart) PaymentMethod() string { return c.paymentMethod }

func (c *Cart) SetPaymentMethod(method string) error {
	if !domain.ValidPaymentMethod(method) {
		return fmt.Errorf("unknown payment method %q", method)
	}
	c.paymentMethod = method
	return nil
}

func (c *Cart) Status() Status { return c.status }

// LastSale returns the server's record of the most recent settled checkout,
// nil until one settles.
func (c *Cart) LastSale() *domain.Sale { return c.lastSale }

// Checkout converts the cart into a persisted sale. Guards run before any
// network call: an empty cart and a missing session are rejected locally,
// and a submission already in flight refuses a second trigger. On failure
// the cart is preserved exactly as it was; on success it is emptied, the
// customer fields reset, and the sale retained for the receipt.
func (c *Cart) Checkout(ctx context.Context, sess SessionChecker, sender SaleSender) (domain.Sale, error) {
	if c.status == StatusSubmitting {
		return domain.Sale{}, ErrCheckoutInFlight
	}
	if len(c.lines) == 0 {
		return domain.Sale{}, ErrEmptyCart
	}
	if _, ok := sess.Current(); !ok {
		return domain.Sale{}, api.ErrAuthRequired
	}

	c.status = StatusSubmitting

	req := domain.SaleRequest{
		Items:         make([]domain.SaleLine, len(c.lines)),
		PaymentMethod: c.paymentMethod,
		CustomerName:  c.customer.Name,
		CustomerPhone: c.customer.Phone,
		TotalAmount:   c.Total(),
	}
	for i, l := range c.lines {
		req.Items[i] = domain.SaleLine{DrugID: l.DrugID, Quantity: l.Quantity, UnitPrice: l.UnitPrice}
	}

	sale, err := sender.CreateSale(ctx, req)
	if err != nil {
		c.status = StatusFailed
		return domain.Sale{}, err
	}

	c.status = StatusSettled
	c.lastSale = &sale
	c.lines = nil
	c.customer = domain.CustomerInfo{}
	return sale, nil
}

// Reset returns a settled or failed cart to idle, dismissing any retained
// sale. Cart contents are untouched, so a failed checkout can retry.
func (c *Cart) Reset() {
	c.status = StatusIdle
	c.lastSale = nil
}
