package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/farewatch/farewatch/internal/services"
)

func (a *App) setEmail(ctx context.Context, email string) {
	if !services.ValidEmail(email) {
		fmt.Fprintf(a.out, "%q does not look like an email address\n", email)
		return
	}

	a.identity.SetEmail(ctx, email)
	if err := a.identity.Resolve(ctx); err != nil {
		fmt.Fprintf(a.out, "Could not check %s: %v\n", email, err)
		return
	}

	switch a.identity.State() {
	case services.StateKnown:
		fmt.Fprintf(a.out, "%s is registered, loading subscriptions\n", email)
		if err := a.subs.Load(ctx); err != nil {
			a.reportError(err)
		}
	case services.StateUnknown:
		fmt.Fprintf(a.out, "%s is not registered yet, run 'register' to create it\n", email)
	}
}

func (a *App) register(ctx context.Context) {
	snap := a.identity.Snapshot()
	if snap.Email == "" {
		fmt.Fprintln(a.out, "Set an email first: email <address>")
		return
	}
	if snap.State == services.StateKnown {
		fmt.Fprintf(a.out, "%s is already registered\n", snap.Email)
		return
	}

	notify, err := GetYesNo(a.reader, "Enable email notifications?", true, a.out)
	if err != nil {
		a.reportError(err)
		return
	}

	if err := a.identity.Save(ctx, notify); err != nil {
		if errors.Is(err, services.ErrAlreadyRegistered) {
			fmt.Fprintf(a.out, "%s was already registered, signed in\n", snap.Email)
		} else {
			a.reportError(err)
			return
		}
	} else {
		fmt.Fprintf(a.out, "Registered %s\n", snap.Email)
	}

	if err := a.subs.Load(ctx); err != nil {
		a.reportError(err)
	}
}

func (a *App) setNotifications(ctx context.Context, enabled bool) {
	if a.identity.State() != services.StateKnown {
		fmt.Fprintln(a.out, "Register your email first")
		return
	}
	a.identity.SetNotifications(ctx, enabled)
	if enabled {
		fmt.Fprintln(a.out, "Email notifications enabled")
	} else {
		fmt.Fprintln(a.out, "Email notifications disabled")
	}
}

func (a *App) status() {
	snap := a.identity.Snapshot()
	if snap.Email == "" {
		fmt.Fprintln(a.out, "No email set")
		return
	}
	fmt.Fprintf(a.out, "Email: %s (%s)\n", snap.Email, snap.State)
	if snap.State != services.StateKnown {
		return
	}
	if snap.NotificationsEnabled {
		fmt.Fprintln(a.out, "Email notifications: on")
	} else {
		fmt.Fprintln(a.out, "Email notifications: off")
	}
	fmt.Fprintf(a.out, "Subscriptions: %d\n", len(a.subs.Snapshot()))
}
