package cli

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"pharmalink/pos/domain"
	"pharmalink/pos/internal/api"
)

func (a *App) drugs(ctx context.Context, args []string) error {
	sub := "list"
	if len(args) > 0 {
		sub = args[0]
	}
	switch sub {
	case "list":
		return a.drugsList(ctx)
	case "add":
		return a.drugsAdd(ctx)
	case "edit":
		if len(args) < 2 {
			return fmt.Errorf("usage: drugs edit <id>")
		}
		return a.drugsEdit(ctx, args[1])
	case "delete":
		if len(args) < 2 {
			return fmt.Errorf("usage: drugs delete <id>")
		}
		return a.drugsDelete(ctx, args[1])
	default:
		return fmt.Errorf("unknown drugs command %q", sub)
	}
}

func (a *App) drugsList(ctx context.Context) error {
	drugs, err := a.Client.ListDrugs(ctx)
	if err != nil {
		return fmt.Errorf("failed to load drugs: %w", err)
	}

	tw := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tName\tCategory\tBatch\tQty\tPrice\tExpiry\tSupplier\tStatus")
	inventoryValue := decimal.Zero
	var lowStock, expired int
	for _, d := range drugs {
		status := string(d.StockStatus())
		if d.Expired() {
			status = "expired"
			expired++
		}
		if d.StockStatus() == domain.StockLow || d.StockStatus() == domain.StockOutOfStock {
			lowStock++
		}
		inventoryValue = inventoryValue.Add(d.Price.Mul(decimal.NewFromInt(d.Quantity)))
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\tKSh %s\t%s\t%s\t%s\n",
			d.ID, d.Name, d.Category, d.BatchNo, d.Quantity, d.Price.StringFixed(2), d.ExpiryDate, d.Supplier, status)
	}
	tw.Flush()
	a.printf("\n%d drugs  Inventory value: KSh %s  Low stock: %d  Expired: %d\n",
		len(drugs), inventoryValue.StringFixed(2), lowStock, expired)
	return nil
}

// promptDrugInput collects drug fields, coercing the numeric ones before
// any network call. Defaults come from the drug being edited, if any.
func (a *App) promptDrugInput(existing *domain.Drug) (api.DrugInput, error) {
	def := func(label, current string) string {
		if current != "" {
			label = fmt.Sprintf("%s [%s]: ", label, current)
		} else {
			label += ": "
		}
		value := a.prompt(label)
		if value == "" {
			return current
		}
		return value
	}

	var in api.DrugInput
	var cur domain.Drug
	if existing != nil {
		cur = *existing
	}

	in.Name = def("Name", cur.Name)
	in.Category = def("Category", cur.Category)
	in.BatchNo = def("Batch number", cur.BatchNo)

	qty := def("Quantity", strconv.FormatInt(cur.Quantity, 10))
	parsedQty, err := strconv.ParseInt(qty, 10, 64)
	if err != nil {
		return in, fmt.Errorf("quantity must be a whole number: %q", qty)
	}
	in.Quantity = parsedQty

	price := def("Price", cur.Price.String())
	in.Price, err = decimal.NewFromString(price)
	if err != nil {
		return in, fmt.Errorf("price must be a number: %q", price)
	}

	cost := def("Cost price", cur.CostPrice.String())
	in.CostPrice, err = decimal.NewFromString(cost)
	if err != nil {
		return in, fmt.Errorf("cost price must be a number: %q", cost)
	}

	in.ExpiryDate = def("Expiry date (YYYY-MM-DD)", cur.ExpiryDate)
	in.Supplier = def("Supplier", cur.Supplier)

	minLevel := cur.MinStockLevel
	if minLevel == 0 {
		minLevel = 10
	}
	level := def("Minimum stock level", strconv.FormatInt(minLevel, 10))
	in.MinStockLevel, err = strconv.ParseInt(level, 10, 64)
	if err != nil {
		return in, fmt.Errorf("minimum stock level must be a whole number: %q", level)
	}
	return in, nil
}

func (a *App) drugsAdd(ctx context.Context) error {
	in, err := a.promptDrugInput(nil)
	if err != nil {
		return err
	}
	drug, err := a.Client.CreateDrug(ctx, in)
	if err != nil {
		return fmt.Errorf("failed to save drug: %w", err)
	}
	a.printf("Added %s (id %s).\n", drug.Name, drug.ID)
	return nil
}

func (a *App) drugsEdit(ctx context.Context, id string) error {
	drugs, err := a.Client.ListDrugs(ctx)
	if err != nil {
		return fmt.Errorf("failed to load drugs: %w", err)
	}
	var existing *domain.Drug
	for i := range drugs {
		if drugs[i].ID == id {
			existing = &drugs[i]
			break
		}
	}
	if existing == nil {
		return fmt.Errorf("no drug with id %s", id)
	}

	in, err := a.promptDrugInput(existing)
	if err != nil {
		return err
	}
	drug, err := a.Client.UpdateDrug(ctx, id, in)
	if err != nil {
		return fmt.Errorf("failed to save drug: %w", err)
	}
	a.printf("Updated %s.\n", drug.Name)
	return nil
}

func (a *App) drugsDelete(ctx context.Context, id string) error {
	if !a.confirm("Are you sure you want to delete this drug?") {
		return nil
	}
	if err := a.Client.DeleteDrug(ctx, id); err != nil {
		return fmt.Errorf("failed to delete drug: %w", err)
	}
	a.printf("Deleted.\n")
	return nil
}
