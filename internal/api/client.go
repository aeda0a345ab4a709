// Package api wraps the flight tracking backend's REST surface. One method
// per resource; HTTP errors are normalized into a small taxonomy
// (ErrUnavailable, *RequestError), and 404 on lookup-style reads is
// returned as an absence value, not an error.
package api

import (
	"context"

	"github.com/farewatch/farewatch/internal/models"
)

// Client is the gateway to the backend.
//
// Lookup reads (User, PriceHistory, Subscriptions, SubscriptionForFlight)
// treat 404 as a valid, non-exceptional outcome: they return nil or an
// empty slice. Flight does not: a missing flight id is a *RequestError.
type Client interface {
	Airlines(ctx context.Context) ([]models.Airline, error)
	Airports(ctx context.Context) ([]models.Airport, error)

	SearchFlights(ctx context.Context, q models.SearchQuery) ([]models.Flight, error)
	Flight(ctx context.Context, id string) (*models.Flight, error)
	PriceHistory(ctx context.Context, flightID string) ([]models.PricePoint, error)

	User(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	UpdateUser(ctx context.Context, email string, enableNotifications bool) (*models.User, error)

	Subscriptions(ctx context.Context, email string) ([]models.Subscription, error)
	SubscriptionForFlight(ctx context.Context, flightID, email string) (*models.Subscription, error)
	CreateSubscription(ctx context.Context, req models.SubscriptionRequest) (*models.Subscription, error)
	UpdateSubscription(ctx context.Context, id string, upd models.SubscriptionUpdate) (*models.Subscription, error)
	DeleteSubscription(ctx context.Context, id string) error
}
