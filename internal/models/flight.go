package models

import "time"

// Flight is a single search result. Prices are EUR. Flights are immutable
// from the client's perspective within a session.
type Flight struct {
	ID                   string    `json:"id"`
	DepartureAirportCode string    `json:"departureAirportCode"`
	ArrivalAirportCode   string    `json:"arrivalAirportCode"`
	DepartureDate        time.Time `json:"departureDate"`
	AirlineCode          string    `json:"airlineCode"`
	Price                float64   `json:"price"`
	BookingURL           string    `json:"bookingUrl,omitempty"`
	MinPrice             *float64  `json:"minPrice,omitempty"`
	MaxPrice             *float64  `json:"maxPrice,omitempty"`
}

// Route returns the grouping key for this flight, e.g. "TUN-FRA".
func (f Flight) Route() string {
	return f.DepartureAirportCode + "-" + f.ArrivalAirportCode
}

// SearchQuery carries the flight search filters. Code slices map to
// repeatable query parameters; dates are sent date-only (yyyy-MM-dd).
type SearchQuery struct {
	DepartureAirportCodes []string
	ArrivalAirportCodes   []string
	StartDate             time.Time
	EndDate               time.Time
	AirlineCodes          []string
}
