package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/farewatch/farewatch/internal/api"
	"github.com/farewatch/farewatch/internal/logging"
	"github.com/farewatch/farewatch/internal/models"
)

// DetailView is the transient state of one opened flight: its price
// history and the identity's existing subscription, if any. The two loads
// fail independently; each carries its own error.
type DetailView struct {
	Flight models.Flight

	History    []models.PricePoint
	HistoryErr error

	Existing  *models.Subscription
	LookupErr error
}

// Trend returns the history compressed for display: interior points of a
// flat stretch are dropped, start and end anchors kept.
func (v *DetailView) Trend() []models.PricePoint {
	return models.CompressHistory(v.History)
}

// DetailService runs per-flight price-alert sessions. All subscription
// mutations delegate to the reconciler; after any action the view's
// existing-subscription state is re-fetched from the backend.
type DetailService struct {
	client   api.Client
	identity *IdentityService
	subs     *SubscriptionService
	log      logging.Logger
}

func NewDetailService(client api.Client, identity *IdentityService, subs *SubscriptionService, log logging.Logger) *DetailService {
	if log == nil {
		log = logging.NopLogger{}
	}
	return &DetailService{client: client, identity: identity, subs: subs, log: log}
}

// Open loads the view for a flight: price history and, when the identity
// is Known, the existing subscription. The loads run concurrently and a
// failure of one never blocks the other.
func (d *DetailService) Open(ctx context.Context, flight models.Flight) *DetailView {
	view := &DetailView{Flight: flight}

	var g errgroup.Group
	g.Go(func() error {
		points, err := d.client.PriceHistory(ctx, flight.ID)
		if err != nil {
			d.log.Warn(ctx, "price history load failed", "flightId", flight.ID, "err", err)
			view.HistoryErr = err
			return nil
		}
		models.SortHistory(points)
		view.History = points
		return nil
	})
	g.Go(func() error {
		sub, err := d.subs.FindForFlight(ctx, flight.ID)
		if err != nil {
			d.log.Warn(ctx, "subscription lookup failed", "flightId", flight.ID, "err", err)
			view.LookupErr = err
			return nil
		}
		view.Existing = sub
		return nil
	})
	_ = g.Wait()

	return view
}

// Subscribe creates an alert for the viewed flight. The create flow only
// runs when no subscription exists for (flight, email); otherwise callers
// must update or delete the existing one.
func (d *DetailService) Subscribe(ctx context.Context, view *DetailView, targetPrice float64, notify bool) error {
	if view.Existing != nil {
		return ErrAlreadySubscribed
	}
	if err := d.subs.Create(ctx, view.Flight.ID, targetPrice, notify); err != nil {
		return err
	}
	return d.refresh(ctx, view)
}

// UpdateAlert rewrites the existing subscription's target price, active
// flag and notification flag.
func (d *DetailService) UpdateAlert(ctx context.Context, view *DetailView, targetPrice float64, isActive, notify bool) error {
	if view.Existing == nil {
		return ErrNotSubscribed
	}
	if err := d.subs.Update(ctx, view.Existing.ID, targetPrice, isActive, notify); err != nil {
		return err
	}
	return d.refresh(ctx, view)
}

// Deactivate pauses the existing alert, keeping its target price.
func (d *DetailService) Deactivate(ctx context.Context, view *DetailView) error {
	if view.Existing == nil {
		return ErrNotSubscribed
	}
	return d.UpdateAlert(ctx, view, view.Existing.TargetPrice, false, view.Existing.EnableEmailNotifications)
}

// Unsubscribe deletes the existing alert.
func (d *DetailService) Unsubscribe(ctx context.Context, view *DetailView) error {
	if view.Existing == nil {
		return ErrNotSubscribed
	}
	if err := d.subs.Delete(ctx, view.Existing.ID); err != nil {
		return err
	}
	return d.refresh(ctx, view)
}

// refresh re-reads the point lookup so the view reflects backend-assigned
// state after a mutation.
func (d *DetailService) refresh(ctx context.Context, view *DetailView) error {
	sub, err := d.subs.FindForFlight(ctx, view.Flight.ID)
	if err != nil {
		view.LookupErr = err
		return err
	}
	view.Existing = sub
	view.LookupErr = nil
	return nil
}
