package domain

import "github.com/shopspring/decimal"

// Dashboard aggregate, GET /api/dashboard.

type DashboardData struct {
	Summary     DashboardSummary `json:"summary"`
	Alerts      DashboardAlerts  `json:"alerts"`
	RecentSales []Sale           `json:"recentSales"`
	TopSelling  []TopSeller      `json:"topSelling"`
}

type DashboardSummary struct {
	TotalDrugs      int64           `json:"totalDrugs"`
	TotalSales      int64           `json:"totalSales"`
	LowStock        int64           `json:"lowStock"`
	ExpiredDrugs    int64           `json:"expiredDrugs"`
	TodaySalesCount int64           `json:"todaySalesCount"`
	InventoryValue  decimal.Decimal `json:"inventoryValue"`
	MonthlyRevenue  decimal.Decimal `json:"monthlyRevenue"`
}

type DashboardAlerts struct {
	LowStock   []StockAlert `json:"lowStock"`
	NearExpiry []StockAlert `json:"nearExpiry"`
	Expired    []StockAlert `json:"expired"`
}

type StockAlert struct {
	DrugName     string `json:"drugName"`
	CurrentStock int64  `json:"currentStock,omitempty"`
	ExpiryDate   string `json:"expiryDate,omitempty"`
	Message      string `json:"message,omitempty"`
}

type TopSeller struct {
	DrugName string          `json:"drugName"`
	Quantity int64           `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// Report aggregates, GET /api/reports/{sales|stock|analytics}.

type SalesReport struct {
	Summary    SalesReportSummary `json:"summary"`
	DailyTrend []TrendPoint       `json:"dailyTrend"`
	TopSelling []TopSeller        `json:"topSelling"`
}

type SalesReportSummary struct {
	TotalSales   int64           `json:"totalSales"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TotalItems   int64           `json:"totalItems"`
	AverageSale  decimal.Decimal `json:"averageSale"`
}

type TrendPoint struct {
	Label   string          `json:"label"`
	Sales   int64           `json:"sales"`
	Revenue decimal.Decimal `json:"revenue"`
}

type StockReport struct {
	Summary    StockReportSummary  `json:"summary"`
	Categories []CategoryBreakdown `json:"categories"`
	LowStock   []Drug              `json:"lowStock"`
	Expired    []Drug              `json:"expired"`
}

type StockReportSummary struct {
	TotalDrugs int64           `json:"totalDrugs"`
	TotalValue decimal.Decimal `json:"totalValue"`
	LowStock   int64           `json:"lowStock"`
	Expired    int64           `json:"expired"`
}

type CategoryBreakdown struct {
	Category string          `json:"category"`
	Count    int64           `json:"count"`
	Value    decimal.Decimal `json:"value"`
}

type AnalyticsReport struct {
	Summary             AnalyticsSummary `json:"summary"`
	SalesTrend          []TrendPoint     `json:"salesTrend"`
	TopDrugs            []TopSeller      `json:"topDrugs"`
	PaymentDistribution []PaymentShare   `json:"paymentDistribution"`
}

type AnalyticsSummary struct {
	TotalPeriodSales   int64           `json:"totalPeriodSales"`
	TotalPeriodRevenue decimal.Decimal `json:"totalPeriodRevenue"`
	AverageDailySales  decimal.Decimal `json:"averageDailySales"`
	UniqueCustomers    int64           `json:"uniqueCustomers"`
}

type PaymentShare struct {
	Method string          `json:"method"`
	Count  int64           `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// ExportResult, POST /api/reports/export. Generation happens server-side;
// the client only relays the message and optional download location.
type ExportResult struct {
	Message     string `json:"message"`
	DownloadURL string `json:"downloadUrl,omitempty"`
}
