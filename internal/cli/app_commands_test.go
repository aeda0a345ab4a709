package cli

import (
	"bufio"
	"bytes"
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/farewatch/farewatch/internal/api"
	"github.com/farewatch/farewatch/internal/config"
	"github.com/farewatch/farewatch/internal/logging"
	"github.com/farewatch/farewatch/internal/models"
	"github.com/farewatch/farewatch/internal/services"
)

// ------------ helpers ------------

func readerFromLines(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(append(lines, ""), "\n")))
}

// stubClient is an in-memory backend: creates, updates and deletes mutate
// its subscription list so reloads observe them.
type stubClient struct {
	mu sync.Mutex

	airlines []models.Airline
	airports []models.Airport
	flights  []models.Flight
	history  []models.PricePoint
	user     *models.User
	subs     []models.Subscription

	nextID  int
	deleted []string
}

var _ api.Client = (*stubClient)(nil)

func (c *stubClient) Airlines(context.Context) ([]models.Airline, error) { return c.airlines, nil }
func (c *stubClient) Airports(context.Context) ([]models.Airport, error) { return c.airports, nil }

func (c *stubClient) SearchFlights(context.Context, models.SearchQuery) ([]models.Flight, error) {
	return c.flights, nil
}

func (c *stubClient) Flight(ctx context.Context, id string) (*models.Flight, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, f := range c.flights {
		if f.ID == id {
			return &f, nil
		}
	}
	return nil, &api.RequestError{Status: 404, Detail: "flight not found"}
}

func (c *stubClient) PriceHistory(context.Context, string) ([]models.PricePoint, error) {
	return c.history, nil
}

func (c *stubClient) User(context.Context, string) (*models.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user, nil
}

func (c *stubClient) CreateUser(_ context.Context, user models.User) (*models.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.user = &user
	return &user, nil
}

func (c *stubClient) UpdateUser(_ context.Context, _ string, enable bool) (*models.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.user.EnableNotificationsSetting = enable
	return c.user, nil
}

func (c *stubClient) Subscriptions(context.Context, string) ([]models.Subscription, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Subscription, len(c.subs))
	copy(out, c.subs)
	return out, nil
}

func (c *stubClient) SubscriptionForFlight(_ context.Context, flightID, _ string) (*models.Subscription, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range c.subs {
		if s.FlightID == flightID {
			return &s, nil
		}
	}
	return nil, nil
}

func (c *stubClient) CreateSubscription(_ context.Context, req models.SubscriptionRequest) (*models.Subscription, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	sub := models.Subscription{
		ID:                       "sub-" + strconv.Itoa(c.nextID),
		FlightID:                 req.FlightID,
		Email:                    req.Email,
		TargetPrice:              req.TargetPrice,
		IsActive:                 req.IsActive,
		EnableEmailNotifications: req.EnableEmailNotifications,
	}
	c.subs = append(c.subs, sub)
	return &sub, nil
}

func (c *stubClient) UpdateSubscription(_ context.Context, id string, upd models.SubscriptionUpdate) (*models.Subscription, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.subs {
		if c.subs[i].ID == id {
			c.subs[i].TargetPrice = upd.TargetPrice
			c.subs[i].IsActive = upd.IsActive
			c.subs[i].EnableEmailNotifications = upd.EnableEmailNotifications
			return &c.subs[i], nil
		}
	}
	return nil, &api.RequestError{Status: 404, Detail: "subscription not found"}
}

func (c *stubClient) DeleteSubscription(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted = append(c.deleted, id)
	kept := c.subs[:0:0]
	for _, s := range c.subs {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	c.subs = kept
	return nil
}

type memStore struct {
	mu   sync.Mutex
	data map[string]string
}

func (m *memStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *memStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = map[string]string{}
	}
	m.data[key] = value
	return nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = map[string]string{}
	return nil
}

func defaultStub() *stubClient {
	return &stubClient{
		airlines: []models.Airline{
			{Code: "TU", Name: "Tunisair"},
			{Code: "LH", Name: "Lufthansa"},
		},
		airports: []models.Airport{
			{Code: "TUN", Name: "Tunis Carthage", Country: "TN"},
			{Code: "NBE", Name: "Enfidha", Country: "TN"},
			{Code: "FRA", Name: "Frankfurt", Country: "DE"},
		},
	}
}

func newTestApp(sc *stubClient, reader *bufio.Reader) (*App, *bytes.Buffer) {
	cfg := &config.Config{
		HomeCountry:           "TN",
		AwayCountry:           "DE",
		EnrichmentConcurrency: 4,
	}
	log := logging.NopLogger{}
	store := &memStore{}
	identity := services.NewIdentityService(sc, store, log)
	subs := services.NewSubscriptionService(sc, identity, log, cfg.EnrichmentConcurrency)
	search := services.NewSearchService(sc, identity, log, cfg.HomeCountry, cfg.AwayCountry)
	detail := services.NewDetailService(sc, identity, subs, log)

	var out bytes.Buffer
	return &App{
		config:   cfg,
		log:      log,
		store:    store,
		identity: identity,
		subs:     subs,
		search:   search,
		detail:   detail,
		reader:   reader,
		out:      &out,
	}, &out
}

func signIn(t *testing.T, app *App, sc *stubClient, email string) {
	t.Helper()
	sc.user = &models.User{Email: email, EnableNotificationsSetting: true}
	app.identity.SetEmail(context.Background(), email)
	require.NoError(t, app.identity.Resolve(context.Background()))
	require.Equal(t, services.StateKnown, app.identity.State())
}

func flightAt(id, dep, arr string, day int, airline string, price float64) models.Flight {
	return models.Flight{
		ID:                   id,
		DepartureAirportCode: dep,
		ArrivalAirportCode:   arr,
		DepartureDate:        time.Date(2026, 10, day, 8, 0, 0, 0, time.UTC),
		AirlineCode:          airline,
		Price:                price,
	}
}

// ------------ REPL loop ------------

func TestRunHelpAndExit(t *testing.T) {
	app, out := newTestApp(defaultStub(), readerFromLines("help", "exit"))

	app.Run(context.Background())

	s := out.String()
	require.Contains(t, s, "Welcome to farewatch")
	require.Contains(t, s, "Available commands")
	require.Contains(t, s, "Bye!")
}

func TestRunRestoresStoredEmail(t *testing.T) {
	sc := defaultStub()
	sc.user = &models.User{Email: "a@b.cd"}
	app, out := newTestApp(sc, readerFromLines("exit"))
	require.NoError(t, app.store.Set(context.Background(), "email", "a@b.cd"))

	app.Run(context.Background())

	require.Contains(t, out.String(), "Welcome back, a@b.cd")
	require.Equal(t, services.StateKnown, app.identity.State())
}

func TestRunUnknownCommand(t *testing.T) {
	app, out := newTestApp(defaultStub(), readerFromLines("frobnicate", "exit"))

	app.Run(context.Background())

	require.Contains(t, out.String(), "Unknown command: frobnicate")
}

// ------------ identity commands ------------

func TestSetEmailKnown(t *testing.T) {
	sc := defaultStub()
	sc.user = &models.User{Email: "a@b.cd"}
	app, out := newTestApp(sc, readerFromLines())

	app.setEmail(context.Background(), "a@b.cd")

	require.Contains(t, out.String(), "a@b.cd is registered")
	require.Equal(t, services.StateKnown, app.identity.State())
}

func TestSetEmailUnknown(t *testing.T) {
	sc := defaultStub()
	app, out := newTestApp(sc, readerFromLines())

	app.setEmail(context.Background(), "a@b.cd")

	require.Contains(t, out.String(), "not registered yet")
	require.Equal(t, services.StateUnknown, app.identity.State())
}

func TestSetEmailInvalid(t *testing.T) {
	app, out := newTestApp(defaultStub(), readerFromLines())

	app.setEmail(context.Background(), "nonsense")

	require.Contains(t, out.String(), "does not look like an email address")
}

func TestRegister(t *testing.T) {
	sc := defaultStub()
	app, out := newTestApp(sc, readerFromLines("y"))

	app.setEmail(context.Background(), "a@b.cd")
	app.register(context.Background())

	require.Contains(t, out.String(), "Registered a@b.cd")
	require.Equal(t, services.StateKnown, app.identity.State())
	require.NotNil(t, sc.user)
	require.True(t, sc.user.EnableNotificationsSetting)
}

func TestRegisterWithoutEmail(t *testing.T) {
	app, out := newTestApp(defaultStub(), readerFromLines())

	app.register(context.Background())

	require.Contains(t, out.String(), "Set an email first")
}

func TestStatus(t *testing.T) {
	sc := defaultStub()
	app, out := newTestApp(sc, readerFromLines())
	signIn(t, app, sc, "a@b.cd")

	app.status()

	require.Contains(t, out.String(), "a@b.cd")
	require.Contains(t, out.String(), "Email notifications: on")
	require.Contains(t, out.String(), "Subscriptions: 0")
}

// ------------ search ------------

func TestRunSearchRendersGroups(t *testing.T) {
	sc := defaultStub()
	sc.flights = []models.Flight{
		flightAt("f2", "TUN", "FRA", 20, "LH", 210),
		flightAt("f1", "TUN", "FRA", 5, "TU", 180),
		flightAt("f3", "NBE", "FRA", 7, "TU", 150),
	}
	app, out := newTestApp(sc, readerFromLines(
		"1",   // direction TN to DE
		"1,2", // routes TUN-FRA and NBE-FRA
		"",    // start date default
		"",    // end date default
		"",    // all airlines
	))
	signIn(t, app, sc, "a@b.cd")

	app.runSearch(context.Background())

	s := out.String()
	require.Contains(t, s, "TUN-FRA (2 flights)")
	require.Contains(t, s, "NBE-FRA (1 flights)")
	require.Contains(t, s, "Tunisair")
	require.Contains(t, s, "180.00 EUR")
	require.Len(t, app.flatFlights, 3)
	// groups come back route-sorted, flights within a group date-ordered
	require.Equal(t, "f3", app.flatFlights[0].ID)
	require.Equal(t, "f1", app.flatFlights[1].ID)
	require.Equal(t, "f2", app.flatFlights[2].ID)
}

func TestRunSearchNoFlights(t *testing.T) {
	sc := defaultStub()
	app, out := newTestApp(sc, readerFromLines("1", "1", "", "", ""))
	signIn(t, app, sc, "a@b.cd")

	app.runSearch(context.Background())

	require.Contains(t, out.String(), "No flights found")
}

func TestRunSearchUnresolvedEmail(t *testing.T) {
	sc := defaultStub()
	app, out := newTestApp(sc, readerFromLines("1", "1", "", "", ""))

	app.runSearch(context.Background())

	require.Contains(t, out.String(), "email")
}

func TestRunSearchMarksSubscribed(t *testing.T) {
	sc := defaultStub()
	sc.flights = []models.Flight{flightAt("f1", "TUN", "FRA", 5, "TU", 180)}
	sc.subs = []models.Subscription{{ID: "sub-1", FlightID: "f1", Email: "a@b.cd", TargetPrice: 150, IsActive: true}}
	app, out := newTestApp(sc, readerFromLines("1", "1", "", "", ""))
	signIn(t, app, sc, "a@b.cd")
	require.NoError(t, app.subs.Load(context.Background()))

	app.runSearch(context.Background())

	require.Contains(t, out.String(), "*   1. 2026-10-05")
}

// ------------ detail ------------

func TestShowFlightAndSubscribe(t *testing.T) {
	sc := defaultStub()
	sc.flights = []models.Flight{flightAt("f1", "TUN", "FRA", 5, "TU", 180)}
	sc.history = []models.PricePoint{
		{Timestamp: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), Price: 200},
		{Timestamp: time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC), Price: 180},
	}
	app, out := newTestApp(sc, readerFromLines("150", "y"))
	signIn(t, app, sc, "a@b.cd")
	app.flatFlights = sc.flights

	app.showFlight(context.Background(), "1")
	require.Contains(t, out.String(), "Current price: 180.00 EUR")
	require.Contains(t, out.String(), "Price history:")
	require.Contains(t, out.String(), "You do not subscribe to this flight")

	app.subscribeCurrent(context.Background())
	require.Contains(t, out.String(), "Subscribed with target 150.00 EUR")
	require.NotNil(t, app.currentView.Existing)
	require.True(t, app.subs.IsSubscribed("f1"))
}

func TestShowFlightSinglePricePoint(t *testing.T) {
	sc := defaultStub()
	sc.flights = []models.Flight{flightAt("f1", "TUN", "FRA", 5, "TU", 180)}
	sc.history = []models.PricePoint{
		{Timestamp: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), Price: 180},
	}
	app, out := newTestApp(sc, readerFromLines())
	signIn(t, app, sc, "a@b.cd")
	app.flatFlights = sc.flights

	app.showFlight(context.Background(), "1")

	require.Contains(t, out.String(), "Only one price recorded so far")
}

func TestShowWithoutSearch(t *testing.T) {
	app, out := newTestApp(defaultStub(), readerFromLines())

	app.showFlight(context.Background(), "1")

	require.Contains(t, out.String(), "Run 'search' first")
}

func TestSubscribeRejectsNonPositivePrice(t *testing.T) {
	sc := defaultStub()
	sc.flights = []models.Flight{flightAt("f1", "TUN", "FRA", 5, "TU", 180)}
	app, out := newTestApp(sc, readerFromLines("0", "y"))
	signIn(t, app, sc, "a@b.cd")
	app.flatFlights = sc.flights

	app.showFlight(context.Background(), "1")
	app.subscribeCurrent(context.Background())

	require.Contains(t, out.String(), "targetPrice")
	require.Empty(t, sc.subs)
}

func TestPauseKeepsTargetPrice(t *testing.T) {
	sc := defaultStub()
	sc.flights = []models.Flight{flightAt("f1", "TUN", "FRA", 5, "TU", 180)}
	sc.subs = []models.Subscription{{ID: "sub-1", FlightID: "f1", Email: "a@b.cd", TargetPrice: 150, IsActive: true, EnableEmailNotifications: true}}
	app, out := newTestApp(sc, readerFromLines())
	signIn(t, app, sc, "a@b.cd")
	app.flatFlights = sc.flights

	app.showFlight(context.Background(), "1")
	app.pauseCurrent(context.Background())

	require.Contains(t, out.String(), "Alert paused")
	require.False(t, sc.subs[0].IsActive)
	require.Equal(t, 150.0, sc.subs[0].TargetPrice)
	require.False(t, app.currentView.Existing.IsActive)
}

func TestUnsubscribe(t *testing.T) {
	sc := defaultStub()
	sc.flights = []models.Flight{flightAt("f1", "TUN", "FRA", 5, "TU", 180)}
	sc.subs = []models.Subscription{{ID: "sub-1", FlightID: "f1", Email: "a@b.cd", TargetPrice: 150, IsActive: true}}
	app, out := newTestApp(sc, readerFromLines())
	signIn(t, app, sc, "a@b.cd")
	app.flatFlights = sc.flights

	app.showFlight(context.Background(), "1")
	app.unsubscribeCurrent(context.Background())

	require.Contains(t, out.String(), "Unsubscribed")
	require.Equal(t, []string{"sub-1"}, sc.deleted)
	require.Nil(t, app.currentView.Existing)
	require.False(t, app.subs.IsSubscribed("f1"))
}

// ------------ list ------------

func TestListSubscriptions(t *testing.T) {
	sc := defaultStub()
	sc.flights = []models.Flight{flightAt("f1", "TUN", "FRA", 5, "TU", 165)}
	sc.subs = []models.Subscription{
		{ID: "sub-1", FlightID: "f1", Email: "a@b.cd", TargetPrice: 150, IsActive: true},
		{ID: "sub-2", FlightID: "gone", Email: "a@b.cd", TargetPrice: 99, IsActive: false},
	}
	app, out := newTestApp(sc, readerFromLines())
	signIn(t, app, sc, "a@b.cd")

	app.listSubscriptions(context.Background())

	s := out.String()
	require.Contains(t, s, "TUN-FRA")
	require.Contains(t, s, "now 165.00 EUR, target 150.00 EUR")
	require.Contains(t, s, "flight gone (details unavailable)")
	require.Contains(t, s, "paused")
}

func TestListSubscriptionsEmpty(t *testing.T) {
	sc := defaultStub()
	app, out := newTestApp(sc, readerFromLines())
	signIn(t, app, sc, "a@b.cd")

	app.listSubscriptions(context.Background())

	require.Contains(t, out.String(), "You have no subscriptions")
}

func TestListRequiresKnownIdentity(t *testing.T) {
	app, out := newTestApp(defaultStub(), readerFromLines())

	app.listSubscriptions(context.Background())

	require.Contains(t, out.String(), "Register your email first")
}
