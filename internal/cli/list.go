package cli

import (
	"context"
	"fmt"

	"github.com/farewatch/farewatch/internal/services"
)

func (a *App) listSubscriptions(ctx context.Context) {
	if a.identity.State() != services.StateKnown {
		fmt.Fprintln(a.out, "Register your email first")
		return
	}
	if err := a.subs.Load(ctx); err != nil {
		a.reportError(err)
		return
	}
	a.renderSubscriptions(a.subs.Snapshot())
}
