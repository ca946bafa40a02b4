package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
)

func (a *App) dashboard(ctx context.Context) error {
	data, err := a.Client.Dashboard(ctx)
	if err != nil {
		return fmt.Errorf("failed to load dashboard: %w", err)
	}

	s := data.Summary
	a.printf("Dashboard\n=========\n\n")
	a.printf("Total drugs:      %d\n", s.TotalDrugs)
	a.printf("Total sales:      %d\n", s.TotalSales)
	a.printf("Sales today:      %d\n", s.TodaySalesCount)
	a.printf("Low stock:        %d\n", s.LowStock)
	a.printf("Expired drugs:    %d\n", s.ExpiredDrugs)
	a.printf("Inventory value:  KSh %s\n", s.InventoryValue.StringFixed(2))
	a.printf("Monthly revenue:  KSh %s\n", s.MonthlyRevenue.StringFixed(2))

	alerts := 0
	for _, alert := range data.Alerts.LowStock {
		msg := alert.Message
		if msg == "" {
			msg = fmt.Sprintf("Low stock: %s (%d remaining)", alert.DrugName, alert.CurrentStock)
		}
		a.printf("! %s\n", msg)
		alerts++
	}
	for _, alert := range data.Alerts.NearExpiry {
		msg := alert.Message
		if msg == "" {
			msg = fmt.Sprintf("Near expiry: %s (expires %s)", alert.DrugName, alert.ExpiryDate)
		}
		a.printf("! %s\n", msg)
		alerts++
	}
	for _, alert := range data.Alerts.Expired {
		msg := alert.Message
		if msg == "" {
			msg = fmt.Sprintf("Expired: %s", alert.DrugName)
		}
		a.printf("! %s\n", msg)
		alerts++
	}
	if alerts > 0 {
		a.printf("\n")
	}

	if len(data.RecentSales) > 0 {
		a.printf("Recent sales\n")
		tw := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "Receipt\tCustomer\tAmount\tPayment")
		for _, sale := range data.RecentSales {
			customer := sale.CustomerName
			if customer == "" {
				customer = "Walk-in"
			}
			fmt.Fprintf(tw, "%s\t%s\tKSh %s\t%s\n", sale.SaleNumber, customer, sale.TotalAmount.StringFixed(2), sale.PaymentMethod)
		}
		tw.Flush()
		a.printf("\n")
	}

	if len(data.TopSelling) > 0 {
		a.printf("Top selling\n")
		tw := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "Drug\tQty\tRevenue")
		for _, top := range data.TopSelling {
			fmt.Fprintf(tw, "%s\t%d\tKSh %s\n", top.DrugName, top.Quantity, top.Revenue.StringFixed(2))
		}
		tw.Flush()
	}
	return nil
}
