package cli

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"
)

func (a *App) reports(ctx context.Context, args []string) error {
	kind := "sales"
	if len(args) > 0 {
		kind = args[0]
		args = args[1:]
	}
	fs := flag.NewFlagSet("reports", flag.ContinueOnError)
	fs.SetOutput(a.Out)
	period := fs.String("period", "daily", "report period: daily, weekly or monthly")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch kind {
	case "sales":
		return a.salesReport(ctx, *period)
	case "stock":
		return a.stockReport(ctx)
	case "analytics":
		return a.analyticsReport(ctx, *period)
	default:
		return fmt.Errorf("unknown report %q, expected sales, stock or analytics", kind)
	}
}

func (a *App) salesReport(ctx context.Context, period string) error {
	report, err := a.Client.SalesReport(ctx, period)
	if err != nil {
		return fmt.Errorf("failed to load sales report: %w", err)
	}
	s := report.Summary
	a.printf("Sales report (%s)\n\n", period)
	a.printf("Total sales:   %d\n", s.TotalSales)
	a.printf("Total revenue: KSh %s\n", s.TotalRevenue.StringFixed(2))
	a.printf("Items sold:    %d\n", s.TotalItems)
	a.printf("Average sale:  KSh %s\n", s.AverageSale.StringFixed(2))

	if len(report.DailyTrend) > 0 {
		a.printf("\nTrend\n")
		tw := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "Period\tSales\tRevenue")
		for _, p := range report.DailyTrend {
			fmt.Fprintf(tw, "%s\t%d\tKSh %s\n", p.Label, p.Sales, p.Revenue.StringFixed(2))
		}
		tw.Flush()
	}
	if len(report.TopSelling) > 0 {
		a.printf("\nTop selling\n")
		tw := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "Drug\tQty\tRevenue")
		for _, t := range report.TopSelling {
			fmt.Fprintf(tw, "%s\t%d\tKSh %s\n", t.DrugName, t.Quantity, t.Revenue.StringFixed(2))
		}
		tw.Flush()
	}
	return nil
}

func (a *App) stockReport(ctx context.Context) error {
	report, err := a.Client.StockReport(ctx)
	if err != nil {
		return fmt.Errorf("failed to load stock report: %w", err)
	}
	s := report.Summary
	a.printf("Stock report\n\n")
	a.printf("Total drugs: %d\n", s.TotalDrugs)
	a.printf("Total value: KSh %s\n", s.TotalValue.StringFixed(2))
	a.printf("Low stock:   %d\n", s.LowStock)
	a.printf("Expired:     %d\n", s.Expired)

	if len(report.Categories) > 0 {
		a.printf("\nCategories\n")
		tw := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "Category\tCount\tValue")
		for _, c := range report.Categories {
			fmt.Fprintf(tw, "%s\t%d\tKSh %s\n", c.Category, c.Count, c.Value.StringFixed(2))
		}
		tw.Flush()
	}
	if len(report.LowStock) > 0 {
		a.printf("\nLow stock\n")
		tw := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "Drug\tQty\tMin level")
		for _, d := range report.LowStock {
			fmt.Fprintf(tw, "%s\t%d\t%d\n", d.Name, d.Quantity, d.MinStockLevel)
		}
		tw.Flush()
	}
	if len(report.Expired) > 0 {
		a.printf("\nExpired\n")
		tw := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "Drug\tBatch\tExpiry")
		for _, d := range report.Expired {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Name, d.BatchNo, d.ExpiryDate)
		}
		tw.Flush()
	}
	return nil
}

func (a *App) analyticsReport(ctx context.Context, period string) error {
	report, err := a.Client.AnalyticsReport(ctx, period)
	if err != nil {
		return fmt.Errorf("failed to load analytics report: %w", err)
	}
	s := report.Summary
	a.printf("Analytics (%s)\n\n", period)
	a.printf("Period sales:     %d\n", s.TotalPeriodSales)
	a.printf("Period revenue:   KSh %s\n", s.TotalPeriodRevenue.StringFixed(2))
	a.printf("Avg daily sales:  %s\n", s.AverageDailySales.StringFixed(2))
	a.printf("Unique customers: %d\n", s.UniqueCustomers)

	if len(report.PaymentDistribution) > 0 {
		a.printf("\nPayments\n")
		tw := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "Method\tCount\tAmount")
		for _, p := range report.PaymentDistribution {
			fmt.Fprintf(tw, "%s\t%d\tKSh %s\n", p.Method, p.Count, p.Amount.StringFixed(2))
		}
		tw.Flush()
	}
	if len(report.TopDrugs) > 0 {
		a.printf("\nTop drugs\n")
		tw := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "Drug\tQty\tRevenue")
		for _, t := range report.TopDrugs {
			fmt.Fprintf(tw, "%s\t%d\tKSh %s\n", t.DrugName, t.Quantity, t.Revenue.StringFixed(2))
		}
		tw.Flush()
	}
	return nil
}

func (a *App) export(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(a.Out)
	reportType := fs.String("type", "", "report to export: sales, stock or analytics")
	format := fs.String("format", "pdf", "export format: pdf or excel")
	period := fs.String("period", "daily", "report period")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *reportType == "" {
		return fmt.Errorf("usage: export -type sales|stock|analytics [-format pdf|excel] [-period PERIOD]")
	}

	result, err := a.Client.ExportReport(ctx, *reportType, *format, *period)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	a.printf("%s\n", result.Message)
	if result.DownloadURL != "" {
		a.printf("Download: %s\n", result.DownloadURL)
	}
	return nil
}
