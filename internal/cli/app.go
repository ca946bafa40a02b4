// Package cli implements the terminal screens: one subcommand per screen
// of the pharmacy front-end, all sharing the session store and API client.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"pharmalink/pos/internal/api"
	"pharmalink/pos/internal/session"
	"pharmalink/pos/internal/suppliers"
)

// App bundles dependencies for the terminal commands.
type App struct {
	Client    *api.Client
	Session   *session.Store
	Suppliers *suppliers.Repo
	In        io.Reader
	Out       io.Writer

	scanner *bufio.Scanner
}

const usage = `PharmaLink point of sale

Usage:
  pharmalink login                      sign in
  pharmalink register                   register a pharmacy
  pharmalink logout                     clear the stored session
  pharmalink pos                        interactive sale (cart and checkout)
  pharmalink drugs list|add|edit|delete drug inventory
  pharmalink suppliers list|add|edit|delete
  pharmalink dashboard                  summary, alerts, recent sales
  pharmalink reports sales|stock|analytics [-period daily|weekly|monthly]
  pharmalink export -type TYPE -format FORMAT [-period PERIOD]
  pharmalink profile [show|edit|password]
`

// Run dispatches a command. Errors are surfaced to the caller for display;
// none of them leave local state half-applied.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.Out, usage)
		return nil
	}

	switch args[0] {
	case "login":
		return a.login(ctx)
	case "register":
		return a.register(ctx)
	case "logout":
		return a.logout()
	case "pos":
		return a.pos(ctx)
	case "drugs":
		return a.drugs(ctx, args[1:])
	case "suppliers":
		return a.suppliersCmd(args[1:])
	case "dashboard":
		return a.dashboard(ctx)
	case "reports":
		return a.reports(ctx, args[1:])
	case "export":
		return a.export(ctx, args[1:])
	case "profile":
		return a.profile(ctx, args[1:])
	case "help", "-h", "--help":
		fmt.Fprint(a.Out, usage)
		return nil
	default:
		fmt.Fprint(a.Out, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.Out, format, args...)
}

// readLineOK returns false once input is closed.
func (a *App) readLineOK() (string, bool) {
	if a.scanner == nil {
		a.scanner = bufio.NewScanner(a.In)
	}
	if !a.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(a.scanner.Text()), true
}

func (a *App) readLine() string {
	line, _ := a.readLineOK()
	return line
}

func (a *App) prompt(label string) string {
	a.printf("%s", label)
	return a.readLine()
}

func (a *App) promptRequired(label string) (string, error) {
	value := a.prompt(label)
	if value == "" {
		return "", fmt.Errorf("%s is required", strings.TrimSuffix(strings.TrimSpace(label), ":"))
	}
	return value, nil
}

// confirm guards destructive actions; anything but y/yes declines.
func (a *App) confirm(label string) bool {
	answer := strings.ToLower(a.prompt(label + " [y/N] "))
	return answer == "y" || answer == "yes"
}
