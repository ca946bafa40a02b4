package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// The PharmaLink API speaks plain JSON numbers for money fields.
	decimal.MarshalJSONWithoutQuotes = true
}

type Drug struct {
	ID            string          `json:"_id"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	BatchNo       string          `json:"batchNo"`
	Quantity      int64           `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	CostPrice     decimal.Decimal `json:"costPrice"`
	ExpiryDate    string          `json:"expiryDate"`
	Supplier      string          `json:"supplier"`
	MinStockLevel int64           `json:"minStockLevel"`
}

// StockStatus buckets a drug's on-hand quantity against its minimum stock level.
type StockStatus string

const (
	StockOutOfStock StockStatus = "out-of-stock"
	StockLow        StockStatus = "low-stock"
	StockWarning    StockStatus = "warning"
	StockNormal     StockStatus = "normal"
)

func (d Drug) StockStatus() StockStatus {
	min := d.MinStockLevel
	if min <= 0 {
		min = 10
	}
	switch {
	case d.Quantity == 0:
		return StockOutOfStock
	case d.Quantity <= min:
		return StockLow
	case d.Quantity <= min*2:
		return StockWarning
	default:
		return StockNormal
	}
}

// Expired reports whether the drug's expiry date lies in the past. Dates
// arrive as RFC 3339 or bare YYYY-MM-DD strings; unparseable dates count
// as not expired.
func (d Drug) Expired() bool {
	raw := d.ExpiryDate
	if len(raw) >= 10 {
		raw = raw[:10]
	}
	exp, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return false
	}
	return exp.Before(time.Now())
}
