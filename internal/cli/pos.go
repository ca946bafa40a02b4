package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"pharmalink/pos/domain"
	"pharmalink/pos/internal/cart"
	"pharmalink/pos/internal/receipt"
)

const posHelp = `Commands:
  list [term]        show in-stock drugs, optionally filtered by name
  add <n|id>         add one unit of catalog entry n to the cart
  qty <n> <q>        set cart line n to quantity q (0 removes it)
  rm <n>             remove cart line n
  cart               show the cart
  customer           set customer name and phone
  pay <method>       cash, card or mobile_money
  checkout           complete the sale
  print <file>       save the last receipt as printable HTML
  clear              empty the cart
  refresh            re-fetch the catalog
  quit               leave the point of sale
`

// pos runs the interactive sale loop. Errors never end the loop; they are
// shown inline and the cashier continues.
func (a *App) pos(ctx context.Context) error {
	if _, ok := a.Session.Current(); !ok {
		return fmt.Errorf("authentication required, please login first")
	}

	catalog, err := a.Client.ListDrugs(ctx)
	if err != nil {
		return fmt.Errorf("failed to load drugs: %w", err)
	}

	c := cart.New()
	a.printf("Point of Sale — %d drugs available. Type 'help' for commands.\n", len(catalog))

	for {
		a.printf("pos> ")
		line, ok := a.readLineOK()
		if !ok {
			return nil
		}
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "help":
			a.printf("%s", posHelp)
		case "list":
			term := strings.Join(args, " ")
			a.showCatalog(catalog, term)
		case "add":
			if len(args) != 1 {
				a.printf("usage: add <n|id>\n")
				continue
			}
			drug, ok := findCatalogEntry(catalog, args[0])
			if !ok {
				a.printf("no such catalog entry %q\n", args[0])
				continue
			}
			if err := c.AddItem(drug); err != nil {
				a.printf("Error: %v\n", err)
				continue
			}
			a.printf("Added %s. Items: %d, total: KSh %s\n", drug.Name, c.ItemCount(), c.Total().StringFixed(2))
		case "qty":
			if len(args) != 2 {
				a.printf("usage: qty <n> <q>\n")
				continue
			}
			l, ok := cartLine(c, args[0])
			if !ok {
				a.printf("no such cart line %q\n", args[0])
				continue
			}
			qty, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				a.printf("quantity must be a number\n")
				continue
			}
			if err := c.UpdateQuantity(l.DrugID, qty); err != nil {
				a.printf("Error: %v\n", err)
			}
		case "rm":
			if len(args) != 1 {
				a.printf("usage: rm <n>\n")
				continue
			}
			l, ok := cartLine(c, args[0])
			if !ok {
				a.printf("no such cart line %q\n", args[0])
				continue
			}
			c.RemoveItem(l.DrugID)
		case "cart":
			a.showCart(c)
		case "customer":
			info := domain.CustomerInfo{
				Name:  a.prompt("Customer name (optional): "),
				Phone: a.prompt("Phone number (optional): "),
			}
			c.SetCustomer(info)
		case "pay":
			if len(args) != 1 {
				a.printf("usage: pay cash|card|mobile_money\n")
				continue
			}
			if err := c.SetPaymentMethod(args[0]); err != nil {
				a.printf("Error: %v\n", err)
			}
		case "checkout":
			sale, err := c.Checkout(ctx, a.Session, a.Client)
			if err != nil {
				a.printf("Sale failed: %v\n", err)
				continue
			}
			a.printf("\nSale completed successfully!\n\n")
			if err := receipt.Render(a.Out, sale, receipt.DefaultPharmacy); err != nil {
				a.printf("receipt error: %v\n", err)
			}
			// Reflect the server-side stock decrement.
			if refreshed, err := a.Client.ListDrugs(ctx); err == nil {
				catalog = refreshed
			} else {
				a.printf("catalog refresh failed: %v\n", err)
			}
		case "print":
			if len(args) != 1 {
				a.printf("usage: print <file>\n")
				continue
			}
			sale := c.LastSale()
			if sale == nil {
				a.printf("no completed sale to print\n")
				continue
			}
			if err := a.writeReceiptHTML(args[0], *sale); err != nil {
				a.printf("Error: %v\n", err)
			} else {
				a.printf("Receipt written to %s\n", args[0])
			}
		case "clear":
			if c.Len() == 0 {
				continue
			}
			if a.confirm("Are you sure you want to clear the cart?") {
				c.Clear()
			}
		case "refresh":
			refreshed, err := a.Client.ListDrugs(ctx)
			if err != nil {
				a.printf("Error: %v\n", err)
				continue
			}
			catalog = refreshed
			a.printf("%d drugs available\n", len(catalog))
		case "quit", "exit", "done":
			return nil
		default:
			a.printf("unknown command %q, type 'help'\n", cmd)
		}
	}
}

func (a *App) showCatalog(catalog []domain.Drug, term string) {
	tw := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tName\tCategory\tBatch\tPrice\tStock\tStatus")
	shown := 0
	for i, d := range catalog {
		if d.Quantity == 0 {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(d.Name), strings.ToLower(term)) {
			continue
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\tKSh %s\t%d\t%s\n",
			i+1, d.Name, d.Category, d.BatchNo, d.Price.StringFixed(2), d.Quantity, d.StockStatus())
		shown++
	}
	tw.Flush()
	if shown == 0 {
		if term != "" {
			a.printf("No drugs found matching %q\n", term)
		} else {
			a.printf("No drugs available in stock\n")
		}
	}
}

func (a *App) showCart(c *cart.Cart) {
	lines := c.Lines()
	if len(lines) == 0 {
		a.printf("Your cart is empty\n")
		return
	}
	tw := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tName\tBatch\tQty\tPrice\tSubtotal")
	for i, l := range lines {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\tKSh %s\tKSh %s\n",
			i+1, l.Name, l.BatchNo, l.Quantity, l.UnitPrice.StringFixed(2), l.Subtotal().StringFixed(2))
	}
	tw.Flush()
	a.printf("Items: %d  Total: KSh %s  Payment: %s\n", c.ItemCount(), c.Total().StringFixed(2), c.PaymentMethod())
	if info := c.Customer(); info.Name != "" || info.Phone != "" {
		a.printf("Customer: %s %s\n", info.Name, info.Phone)
	}
}

// findCatalogEntry accepts a 1-based list index or a drug id.
func findCatalogEntry(catalog []domain.Drug, key string) (domain.Drug, bool) {
	if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(catalog) {
		return catalog[n-1], true
	}
	for _, d := range catalog {
		if d.ID == key {
			return d, true
		}
	}
	return domain.Drug{}, false
}

// cartLine accepts a 1-based cart index or a drug id.
func cartLine(c *cart.Cart, key string) (cart.Line, bool) {
	lines := c.Lines()
	if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(lines) {
		return lines[n-1], true
	}
	for _, l := range lines {
		if l.DrugID == key {
			return l, true
		}
	}
	return cart.Line{}, false
}

func (a *App) writeReceiptHTML(path string, sale domain.Sale) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return receipt.RenderHTML(f, sale, receipt.DefaultPharmacy)
}
