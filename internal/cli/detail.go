package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/farewatch/farewatch/internal/services"
)

func (a *App) showFlight(ctx context.Context, arg string) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(a.flatFlights) {
		if len(a.flatFlights) == 0 {
			fmt.Fprintln(a.out, "Run 'search' first")
		} else {
			fmt.Fprintf(a.out, "Expected a number between 1 and %d\n", len(a.flatFlights))
		}
		return
	}

	a.currentView = a.detail.Open(ctx, a.flatFlights[n-1])
	a.renderDetail(a.currentView)
}

func (a *App) subscribeCurrent(ctx context.Context) {
	view, ok := a.requireView()
	if !ok {
		return
	}

	price, err := GetFloat(a.reader, fmt.Sprintf("Alert when price drops below (current %s)", formatPrice(view.Flight.Price)), a.out)
	if err != nil {
		a.reportError(err)
		return
	}
	notify, err := GetYesNo(a.reader, "Send email notifications for this alert?", true, a.out)
	if err != nil {
		a.reportError(err)
		return
	}

	if err := a.detail.Subscribe(ctx, view, price, notify); err != nil {
		if errors.Is(err, services.ErrAlreadySubscribed) {
			fmt.Fprintln(a.out, "You already subscribe to this flight, use 'update' instead")
		} else {
			a.reportError(err)
		}
		return
	}
	fmt.Fprintf(a.out, "Subscribed with target %s\n", formatPrice(price))
}

func (a *App) updateCurrent(ctx context.Context) {
	view, ok := a.requireView()
	if !ok {
		return
	}
	if view.Existing == nil {
		fmt.Fprintln(a.out, "You do not subscribe to this flight, use 'subscribe' first")
		return
	}

	price, err := GetFloat(a.reader, fmt.Sprintf("New target price (currently %s)", formatPrice(view.Existing.TargetPrice)), a.out)
	if err != nil {
		a.reportError(err)
		return
	}
	active, err := GetYesNo(a.reader, "Keep the alert active?", view.Existing.IsActive, a.out)
	if err != nil {
		a.reportError(err)
		return
	}
	notify, err := GetYesNo(a.reader, "Send email notifications for this alert?", view.Existing.EnableEmailNotifications, a.out)
	if err != nil {
		a.reportError(err)
		return
	}

	if err := a.detail.UpdateAlert(ctx, view, price, active, notify); err != nil {
		a.reportError(err)
		return
	}
	fmt.Fprintln(a.out, "Alert updated")
}

func (a *App) pauseCurrent(ctx context.Context) {
	view, ok := a.requireView()
	if !ok {
		return
	}
	if err := a.detail.Deactivate(ctx, view); err != nil {
		if errors.Is(err, services.ErrNotSubscribed) {
			fmt.Fprintln(a.out, "You do not subscribe to this flight")
		} else {
			a.reportError(err)
		}
		return
	}
	fmt.Fprintln(a.out, "Alert paused, target price kept")
}

func (a *App) unsubscribeCurrent(ctx context.Context) {
	view, ok := a.requireView()
	if !ok {
		return
	}
	if view.Existing == nil {
		fmt.Fprintln(a.out, "You do not subscribe to this flight")
		return
	}
	if err := a.detail.Unsubscribe(ctx, view); err != nil {
		a.reportError(err)
		return
	}
	fmt.Fprintln(a.out, "Unsubscribed")
}

func (a *App) requireView() (*services.DetailView, bool) {
	if a.currentView == nil {
		fmt.Fprintln(a.out, "Use 'show <n>' to pick a flight first")
		return nil, false
	}
	return a.currentView, true
}
