package services

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/farewatch/farewatch/internal/api"
	"github.com/farewatch/farewatch/internal/logging"
	"github.com/farewatch/farewatch/internal/models"
)

// SubscriptionService is the sole owner of the enriched subscription
// collection for the current identity. Mutations (create/update/delete) go
// through the backend and are followed by a full reload, never a local
// patch, so backend-assigned fields stay authoritative. Other components
// only read the collection via Snapshot, IsSubscribed and FindForFlight.
type SubscriptionService struct {
	client      api.Client
	identity    *IdentityService
	log         logging.Logger
	concurrency int

	mu    sync.Mutex
	epoch uint64
	items []models.EnrichedSubscription
}

// NewSubscriptionService wires the reconciler to the identity resolver; an
// email change immediately clears the published collection.
func NewSubscriptionService(client api.Client, identity *IdentityService, log logging.Logger, concurrency int) *SubscriptionService {
	if log == nil {
		log = logging.NopLogger{}
	}
	if concurrency <= 0 {
		concurrency = 8
	}
	s := &SubscriptionService{
		client:      client,
		identity:    identity,
		log:         log,
		concurrency: concurrency,
	}
	identity.OnReset(s.Clear)
	return s
}

// Clear empties the collection and invalidates any in-flight load.
func (s *SubscriptionService) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.items = nil
}

// Snapshot returns a copy of the published enriched collection.
func (s *SubscriptionService) Snapshot() []models.EnrichedSubscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.EnrichedSubscription(nil), s.items...)
}

// IsSubscribed reports whether the published collection holds a
// subscription for the flight. Used to mark search results.
func (s *SubscriptionService) IsSubscribed(flightID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.FlightID == flightID {
			return true
		}
	}
	return false
}

// Load fetches and enriches the subscriptions for the current identity and
// publishes the result. When the identity is not Known the published
// collection is emptied without any network call.
//
// Flight details are fetched concurrently; a per-item failure marks that
// item FlightMissing instead of failing the batch, and the combined result
// is published only after every fetch has settled. A load superseded by an
// email change is discarded rather than published.
func (s *SubscriptionService) Load(ctx context.Context) error {
	snap := s.identity.Snapshot()

	s.mu.Lock()
	epoch := s.epoch
	s.mu.Unlock()

	if snap.State != StateKnown || snap.Email == "" {
		s.publish(ctx, epoch, snap.Email, nil)
		return nil
	}

	raw, err := s.client.Subscriptions(ctx, snap.Email)
	if err != nil {
		return fmt.Errorf("loading subscriptions: %w", err)
	}

	enriched := make([]models.EnrichedSubscription, len(raw))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, sub := range raw {
		i, sub := i, sub
		g.Go(func() error {
			flight, ferr := s.client.Flight(gctx, sub.FlightID)
			if ferr != nil || flight == nil {
				s.log.Warn(gctx, "subscription enrichment failed",
					"subscriptionId", sub.ID, "flightId", sub.FlightID, "err", ferr)
				enriched[i] = models.EnrichedSubscription{Subscription: sub, FlightMissing: true}
				return nil
			}
			enriched[i] = models.EnrichedSubscription{
				Subscription:         sub,
				DepartureAirportCode: flight.DepartureAirportCode,
				ArrivalAirportCode:   flight.ArrivalAirportCode,
				DepartureDate:        flight.DepartureDate,
				AirlineCode:          flight.AirlineCode,
				CurrentPrice:         flight.Price,
			}
			return nil
		})
	}
	_ = g.Wait()

	s.publish(ctx, epoch, snap.Email, enriched)
	return nil
}

// publish installs items unless the load was superseded while in flight.
func (s *SubscriptionService) publish(ctx context.Context, epoch uint64, email string, items []models.EnrichedSubscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch || s.identity.Email() != email {
		s.log.Debug(ctx, "discarding stale subscription load", "email", email)
		return
	}
	s.items = items
}

func validateTargetPrice(targetPrice float64) ValidationErrors {
	if targetPrice <= 0 {
		return ValidationErrors{{Field: "targetPrice", Message: "must be greater than zero"}}
	}
	return nil
}

// Create registers a new price alert and reloads the collection. The
// target price must be positive; invalid input never reaches the network.
func (s *SubscriptionService) Create(ctx context.Context, flightID string, targetPrice float64, notify bool) error {
	if errs := validateTargetPrice(targetPrice); errs != nil {
		return errs
	}
	snap := s.identity.Snapshot()
	if snap.State != StateKnown {
		return ErrIdentityNotKnown
	}

	_, err := s.client.CreateSubscription(ctx, models.SubscriptionRequest{
		FlightID:                 flightID,
		Email:                    snap.Email,
		TargetPrice:              targetPrice,
		IsActive:                 true,
		EnableEmailNotifications: notify,
	})
	if err != nil {
		return fmt.Errorf("creating subscription: %w", err)
	}
	return s.Load(ctx)
}

// Update rewrites an existing subscription and reloads the collection.
// TargetPrice and isActive are independent, explicitly-passed fields.
func (s *SubscriptionService) Update(ctx context.Context, id string, targetPrice float64, isActive, notify bool) error {
	if errs := validateTargetPrice(targetPrice); errs != nil {
		return errs
	}
	if s.identity.State() != StateKnown {
		return ErrIdentityNotKnown
	}

	_, err := s.client.UpdateSubscription(ctx, id, models.SubscriptionUpdate{
		TargetPrice:              targetPrice,
		IsActive:                 isActive,
		EnableEmailNotifications: notify,
	})
	if err != nil {
		return fmt.Errorf("updating subscription: %w", err)
	}
	return s.Load(ctx)
}

// Delete removes a subscription. The item disappears locally right away
// for responsiveness; the follow-up reload is the source of truth.
func (s *SubscriptionService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	kept := s.items[:0:0]
	for _, item := range s.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	s.items = kept
	s.mu.Unlock()

	if err := s.client.DeleteSubscription(ctx, id); err != nil {
		// Restore truth; the optimistic removal may have been wrong.
		if lerr := s.Load(ctx); lerr != nil {
			s.log.Warn(ctx, "reload after failed delete also failed", "err", lerr)
		}
		return fmt.Errorf("deleting subscription: %w", err)
	}
	return s.Load(ctx)
}

// FindForFlight is the point lookup the detail session uses to decide
// between create, update and delete affordances. (nil, nil) means not
// subscribed, a valid non-error outcome.
func (s *SubscriptionService) FindForFlight(ctx context.Context, flightID string) (*models.Subscription, error) {
	snap := s.identity.Snapshot()
	if snap.State != StateKnown || snap.Email == "" {
		return nil, nil
	}
	return s.client.SubscriptionForFlight(ctx, flightID, snap.Email)
}
