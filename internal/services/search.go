package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/farewatch/farewatch/internal/api"
	"github.com/farewatch/farewatch/internal/logging"
	"github.com/farewatch/farewatch/internal/models"
)

// Direction selects which airport group departs.
type Direction int

const (
	// DirectionOutbound flies home country → away country.
	DirectionOutbound Direction = iota
	// DirectionInbound flies away country → home country.
	DirectionInbound
)

// RouteGroup is one display bucket of search results: all flights of one
// ordered (departure, arrival) airport pair, sorted by departure date.
type RouteGroup struct {
	Route   string
	Flights []models.Flight
}

// Criteria is the search form state.
type Criteria struct {
	DepartureAirportCodes []string
	ArrivalAirportCodes   []string
	StartDate             time.Time
	EndDate               time.Time
	AirlineCodes          []string
}

// SearchWindow returns the suggested bounds for the date pickers:
// [today, today+3 months].
func SearchWindow(now time.Time) (time.Time, time.Time) {
	today := truncateToDay(now)
	return today, today.AddDate(0, 3, 0)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SearchService owns search-criteria state and reference data. Reference
// data (airports, airlines) is immutable and fetched once per session.
type SearchService struct {
	client      api.Client
	identity    *IdentityService
	log         logging.Logger
	homeCountry string
	awayCountry string

	airports []models.Airport
	airlines []models.Airline
	loaded   bool
}

func NewSearchService(client api.Client, identity *IdentityService, log logging.Logger, homeCountry, awayCountry string) *SearchService {
	if log == nil {
		log = logging.NopLogger{}
	}
	return &SearchService{
		client:      client,
		identity:    identity,
		log:         log,
		homeCountry: homeCountry,
		awayCountry: awayCountry,
	}
}

// LoadReferenceData fetches airports and airlines concurrently. Subsequent
// calls are no-ops once both lists were loaded.
func (s *SearchService) LoadReferenceData(ctx context.Context) error {
	if s.loaded {
		return nil
	}

	var airports []models.Airport
	var airlines []models.Airline

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		airports, err = s.client.Airports(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		airlines, err = s.client.Airlines(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("loading reference data: %w", err)
	}

	s.airports = airports
	s.airlines = airlines
	s.loaded = true
	s.log.Debug(ctx, "reference data loaded", "airports", len(airports), "airlines", len(airlines))
	return nil
}

// Airlines returns the loaded airline list.
func (s *SearchService) Airlines() []models.Airline {
	return s.airlines
}

// AirlineName resolves an airline code for display, falling back to the
// code itself.
func (s *SearchService) AirlineName(code string) string {
	for _, a := range s.airlines {
		if a.Code == code {
			return a.Name
		}
	}
	return code
}

// HomeAirports returns the airports of the configured home country.
func (s *SearchService) HomeAirports() []models.Airport {
	return s.airportsByCountry(s.homeCountry)
}

// AwayAirports returns the airports of the configured away country.
func (s *SearchService) AwayAirports() []models.Airport {
	return s.airportsByCountry(s.awayCountry)
}

func (s *SearchService) airportsByCountry(country string) []models.Airport {
	var out []models.Airport
	for _, a := range s.airports {
		if a.Country == country {
			out = append(out, a)
		}
	}
	return out
}

// Routes builds the selectable route set for a direction: the cross-product
// of the departing group with the arriving group, as "DEP-ARR" keys.
func (s *SearchService) Routes(direction Direction) []string {
	departures := s.HomeAirports()
	arrivals := s.AwayAirports()
	if direction == DirectionInbound {
		departures, arrivals = arrivals, departures
	}

	routes := make([]string, 0, len(departures)*len(arrivals))
	for _, dep := range departures {
		for _, arr := range arrivals {
			routes = append(routes, dep.Code+"-"+arr.Code)
		}
	}
	return routes
}

// CriteriaFromRoutes derives the departure and arrival code lists from
// selected "DEP-ARR" routes.
func CriteriaFromRoutes(routes []string, start, end time.Time, airlineCodes []string) Criteria {
	c := Criteria{StartDate: start, EndDate: end, AirlineCodes: airlineCodes}
	for _, route := range routes {
		dep, arr, ok := strings.Cut(route, "-")
		if !ok {
			continue
		}
		c.DepartureAirportCodes = append(c.DepartureAirportCodes, dep)
		c.ArrivalAirportCodes = append(c.ArrivalAirportCodes, arr)
	}
	return c
}

// Validate checks the criteria against the current identity and the clock.
// All applicable errors are collected and reported together; a nil return
// means the search may run.
func (s *SearchService) Validate(c Criteria, now time.Time) ValidationErrors {
	var errs ValidationErrors

	snap := s.identity.Snapshot()
	if !ValidEmail(snap.Email) {
		errs = append(errs, FieldError{Field: "email", Message: "a valid email address is required"})
	} else if snap.State != StateKnown {
		errs = append(errs, FieldError{Field: "email", Message: "email must be registered before searching"})
	}

	if len(c.DepartureAirportCodes) == 0 {
		errs = append(errs, FieldError{Field: "departureAirports", Message: "select at least one departure airport"})
	}
	if len(c.ArrivalAirportCodes) == 0 {
		errs = append(errs, FieldError{Field: "arrivalAirports", Message: "select at least one arrival airport"})
	}

	switch {
	case c.StartDate.IsZero() || c.EndDate.IsZero():
		errs = append(errs, FieldError{Field: "dateRange", Message: "both start and end dates are required"})
	default:
		if c.EndDate.Before(c.StartDate) {
			errs = append(errs, FieldError{Field: "dateRange", Message: "end date cannot be before start date"})
		}
		if c.StartDate.Before(truncateToDay(now)) {
			errs = append(errs, FieldError{Field: "dateRange", Message: "start date cannot be before today"})
		}
	}

	return errs
}

// Search validates, runs the backend query (any departure from the set to
// any arrival in the set, constrained by the date range and the optional
// airline filter) and groups the flat result by route. Route groups come
// back sorted by route key, flights within a group by departure date
// ascending. An empty result is a valid outcome, not an error.
func (s *SearchService) Search(ctx context.Context, c Criteria, now time.Time) ([]RouteGroup, error) {
	if errs := s.Validate(c, now); len(errs) > 0 {
		return nil, errs
	}

	flights, err := s.client.SearchFlights(ctx, models.SearchQuery{
		DepartureAirportCodes: c.DepartureAirportCodes,
		ArrivalAirportCodes:   c.ArrivalAirportCodes,
		StartDate:             c.StartDate,
		EndDate:               c.EndDate,
		AirlineCodes:          c.AirlineCodes,
	})
	if err != nil {
		return nil, fmt.Errorf("searching flights: %w", err)
	}

	return GroupByRoute(flights), nil
}

// GroupByRoute buckets flights by "DEP-ARR", sorts each bucket by departure
// date ascending and orders the buckets lexicographically by route key.
func GroupByRoute(flights []models.Flight) []RouteGroup {
	buckets := map[string][]models.Flight{}
	for _, f := range flights {
		key := f.Route()
		buckets[key] = append(buckets[key], f)
	}

	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	groups := make([]RouteGroup, 0, len(keys))
	for _, key := range keys {
		flightsForRoute := buckets[key]
		sort.SliceStable(flightsForRoute, func(i, j int) bool {
			return flightsForRoute[i].DepartureDate.Before(flightsForRoute[j].DepartureDate)
		})
		groups = append(groups, RouteGroup{Route: key, Flights: flightsForRoute})
	}
	return groups
}
