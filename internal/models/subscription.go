package models

import "time"

// Subscription is a price-drop alert owned by an email for one flight.
// The id is backend-assigned.
type Subscription struct {
	ID                       string  `json:"id"`
	FlightID                 string  `json:"flightId"`
	Email                    string  `json:"email"`
	TargetPrice              float64 `json:"targetPrice"`
	IsActive                 bool    `json:"isActive"`
	EnableEmailNotifications bool    `json:"enableEmailNotifications"`
}

// SubscriptionRequest is the create payload. IsActive is always sent
// explicitly rather than relying on a backend default.
type SubscriptionRequest struct {
	FlightID                 string  `json:"flightId"`
	Email                    string  `json:"email"`
	TargetPrice              float64 `json:"targetPrice"`
	IsActive                 bool    `json:"isActive"`
	EnableEmailNotifications bool    `json:"enableEmailNotifications"`
}

// SubscriptionUpdate is the update payload. TargetPrice and IsActive are
// independent fields; callers pass both explicitly.
type SubscriptionUpdate struct {
	TargetPrice              float64 `json:"targetPrice"`
	IsActive                 bool    `json:"isActive"`
	EnableEmailNotifications bool    `json:"enableEmailNotifications"`
}

// EnrichedSubscription joins a subscription with denormalized fields of the
// flight it tracks. When the flight could not be fetched, FlightMissing is
// set and the flight fields are zero; consumers render them as unavailable
// instead of failing the whole list.
type EnrichedSubscription struct {
	Subscription

	DepartureAirportCode string
	ArrivalAirportCode   string
	DepartureDate        time.Time
	AirlineCode          string
	CurrentPrice         float64
	FlightMissing        bool
}

// Route returns "DEP-ARR" for display, or an empty string when the flight
// details are missing.
func (e EnrichedSubscription) Route() string {
	if e.FlightMissing {
		return ""
	}
	return e.DepartureAirportCode + "-" + e.ArrivalAirportCode
}
