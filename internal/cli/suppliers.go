package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"pharmalink/pos/domain"
)

func (a *App) suppliersCmd(args []string) error {
	sub := "list"
	if len(args) > 0 {
		sub = args[0]
	}
	switch sub {
	case "list":
		return a.suppliersList()
	case "add":
		return a.suppliersAdd()
	case "edit":
		if len(args) < 2 {
			return fmt.Errorf("usage: suppliers edit <id>")
		}
		return a.suppliersEdit(args[1])
	case "delete":
		if len(args) < 2 {
			return fmt.Errorf("usage: suppliers delete <id>")
		}
		return a.suppliersDelete(args[1])
	default:
		return fmt.Errorf("unknown suppliers command %q", sub)
	}
}

func (a *App) suppliersList() error {
	list, err := a.Suppliers.List()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		a.printf("No suppliers recorded yet.\n")
		return nil
	}
	tw := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tName\tContact\tEmail\tAddress")
	for _, s := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", s.ID, s.Name, s.Contact, s.Email, s.Address)
	}
	return tw.Flush()
}

func (a *App) promptSupplier(existing domain.Supplier) domain.Supplier {
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
	return domain.Supplier{
		ID:      existing.ID,
		Name:    def("Supplier name", existing.Name),
		Contact: def("Contact number", existing.Contact),
		Email:   def("Email address", existing.Email),
		Address: def("Address", existing.Address),
	}
}

func (a *App) suppliersAdd() error {
	s := a.promptSupplier(domain.Supplier{})
	id, err := a.Suppliers.Create(s)
	if err != nil {
		return err
	}
	a.printf("Added supplier %s (id %d).\n", s.Name, id)
	return nil
}

func (a *App) suppliersEdit(rawID string) error {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid supplier id %q", rawID)
	}
	existing, err := a.Suppliers.Get(id)
	if err != nil {
		return err
	}
	updated := a.promptSupplier(existing)
	if err := a.Suppliers.Update(updated); err != nil {
		return err
	}
	a.printf("Updated supplier %s.\n", updated.Name)
	return nil
}

func (a *App) suppliersDelete(rawID string) error {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid supplier id %q", rawID)
	}
	if !a.confirm("Are you sure you want to delete this supplier?") {
		return nil
	}
	if err := a.Suppliers.Delete(id); err != nil {
		return err
	}
	a.printf("Deleted.\n")
	return nil
}
