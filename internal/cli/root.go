package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/farewatch/farewatch/internal/services"
)

func (a *App) getStatus() string {
	snap := a.identity.Snapshot()
	if snap.Email == "" {
		return "(no email)"
	}
	return fmt.Sprintf("(%s %s)", snap.Email, snap.State)
}

func (a *App) printHelp() {
	fmt.Fprintln(a.out, "Available commands:")
	fmt.Fprintln(a.out, "  email <address>      set the email used for subscriptions")
	fmt.Fprintln(a.out, "  register             register the current email on the server")
	fmt.Fprintln(a.out, "  notify on|off        toggle email notifications")
	fmt.Fprintln(a.out, "  status               show email and subscription state")
	fmt.Fprintln(a.out, "  search               search flights between home and away airports")
	fmt.Fprintln(a.out, "  list                 list your subscriptions")
	fmt.Fprintln(a.out, "  show <n>             show details of result n from the last search")
	fmt.Fprintln(a.out, "  subscribe            create a price alert for the shown flight")
	fmt.Fprintln(a.out, "  update               change the price alert for the shown flight")
	fmt.Fprintln(a.out, "  pause                deactivate the alert for the shown flight")
	fmt.Fprintln(a.out, "  unsubscribe          delete the alert for the shown flight")
	fmt.Fprintln(a.out, "  exit                 quit")
}

// Run starts the REPL. It restores the stored email, loads reference data and
// then reads commands until EOF or exit.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to farewatch (type 'help' for commands)")

	if err := a.search.LoadReferenceData(ctx); err != nil {
		fmt.Fprintf(a.out, "Could not load airports and airlines: %v\n", err)
	}
	a.restoreEmail(ctx)

	for {
		fmt.Fprintf(a.out, "farewatch %s> ", a.getStatus())
		// prompts inside commands share the same reader, so the loop must
		// not buffer ahead of them
		line, err := a.reader.ReadString('\n')
		if err != nil {
			break
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			a.printHelp()
		case "email":
			if len(args) != 1 {
				fmt.Fprintln(a.out, "Usage: email <address>")
				continue
			}
			a.setEmail(ctx, args[0])
		case "register":
			a.register(ctx)
		case "notify":
			if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
				fmt.Fprintln(a.out, "Usage: notify on|off")
				continue
			}
			a.setNotifications(ctx, args[0] == "on")
		case "status":
			a.status()
		case "search":
			a.runSearch(ctx)
		case "list":
			a.listSubscriptions(ctx)
		case "show":
			if len(args) != 1 {
				fmt.Fprintln(a.out, "Usage: show <n>")
				continue
			}
			a.showFlight(ctx, args[0])
		case "subscribe":
			a.subscribeCurrent(ctx)
		case "update":
			a.updateCurrent(ctx)
		case "pause":
			a.pauseCurrent(ctx)
		case "unsubscribe":
			a.unsubscribeCurrent(ctx)
		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return
		default:
			fmt.Fprintln(a.out, "Unknown command:", cmd)
		}
	}
}

// reportError prints validation errors field by field and everything else on
// one line.
func (a *App) reportError(err error) {
	var verrs services.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fmt.Fprintf(a.out, "  %s: %s\n", fe.Field, fe.Message)
		}
		return
	}
	fmt.Fprintf(a.out, "Error: %v\n", err)
}
