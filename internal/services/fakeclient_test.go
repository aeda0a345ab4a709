package services

import (
	"context"
	"sync"

	"github.com/farewatch/farewatch/internal/api"
	"github.com/farewatch/farewatch/internal/localstate"
	"github.com/farewatch/farewatch/internal/models"
)

var (
	_ api.Client            = (*fakeClient)(nil)
	_ localstate.Repository = (*fakeStore)(nil)
)

// fakeClient implements api.Client for unit tests. Results and errors are
// configured per method; call counts allow asserting that invalid input
// never reaches the network. Hooks run inside calls to simulate events
// (like an email change) while a request is outstanding.
type fakeClient struct {
	mu sync.Mutex

	AirlinesRet []models.Airline
	AirlinesErr error

	AirportsRet []models.Airport
	AirportsErr error

	SearchRet  []models.Flight
	SearchErr  error
	LastSearch models.SearchQuery

	FlightRet map[string]*models.Flight
	FlightErr map[string]error

	HistoryRet []models.PricePoint
	HistoryErr error

	UserRet    *models.User
	UserErr    error
	UserHook   func()
	UserCalls  int
	LastUserID string

	CreateUserRet   *models.User
	CreateUserErr   error
	CreateUserCalls int
	LastCreatedUser models.User

	UpdateUserCalls int
	UpdateUserErr   error
	LastUpdateEmail string
	LastUpdateFlag  bool

	SubsRet   []models.Subscription
	SubsErr   error
	SubsCalls int
	SubsHook  func()

	SubForFlightRet   *models.Subscription
	SubForFlightErr   error
	SubForFlightCalls int

	CreateSubRet   *models.Subscription
	CreateSubErr   error
	CreateSubCalls int
	LastCreateSub  models.SubscriptionRequest

	UpdateSubRet   *models.Subscription
	UpdateSubErr   error
	UpdateSubCalls int
	LastUpdateSub  models.SubscriptionUpdate
	LastUpdateID   string

	DeleteSubErr   error
	DeleteSubCalls int
	LastDeleteID   string
}

func (f *fakeClient) Airlines(ctx context.Context) ([]models.Airline, error) {
	return f.AirlinesRet, f.AirlinesErr
}

func (f *fakeClient) Airports(ctx context.Context) ([]models.Airport, error) {
	return f.AirportsRet, f.AirportsErr
}

func (f *fakeClient) SearchFlights(ctx context.Context, q models.SearchQuery) ([]models.Flight, error) {
	f.mu.Lock()
	f.LastSearch = q
	f.mu.Unlock()
	return f.SearchRet, f.SearchErr
}

func (f *fakeClient) Flight(ctx context.Context, id string) (*models.Flight, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.FlightErr[id]; ok {
		return nil, err
	}
	if flight, ok := f.FlightRet[id]; ok {
		return flight, nil
	}
	return nil, nil
}

func (f *fakeClient) PriceHistory(ctx context.Context, flightID string) ([]models.PricePoint, error) {
	return f.HistoryRet, f.HistoryErr
}

func (f *fakeClient) User(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	f.UserCalls++
	f.LastUserID = email
	hook := f.UserHook
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return f.UserRet, f.UserErr
}

func (f *fakeClient) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateUserCalls++
	f.LastCreatedUser = user
	if f.CreateUserErr != nil {
		return nil, f.CreateUserErr
	}
	if f.CreateUserRet != nil {
		return f.CreateUserRet, nil
	}
	created := user
	return &created, nil
}

func (f *fakeClient) UpdateUser(ctx context.Context, email string, enableNotifications bool) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateUserCalls++
	f.LastUpdateEmail = email
	f.LastUpdateFlag = enableNotifications
	if f.UpdateUserErr != nil {
		return nil, f.UpdateUserErr
	}
	return &models.User{Email: email, EnableNotificationsSetting: enableNotifications}, nil
}

func (f *fakeClient) Subscriptions(ctx context.Context, email string) ([]models.Subscription, error) {
	f.mu.Lock()
	f.SubsCalls++
	hook := f.SubsHook
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return f.SubsRet, f.SubsErr
}

func (f *fakeClient) SubscriptionForFlight(ctx context.Context, flightID, email string) (*models.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SubForFlightCalls++
	return f.SubForFlightRet, f.SubForFlightErr
}

func (f *fakeClient) CreateSubscription(ctx context.Context, req models.SubscriptionRequest) (*models.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateSubCalls++
	f.LastCreateSub = req
	if f.CreateSubErr != nil {
		return nil, f.CreateSubErr
	}
	if f.CreateSubRet != nil {
		return f.CreateSubRet, nil
	}
	created := models.Subscription{
		ID:                       "assigned",
		FlightID:                 req.FlightID,
		Email:                    req.Email,
		TargetPrice:              req.TargetPrice,
		IsActive:                 req.IsActive,
		EnableEmailNotifications: req.EnableEmailNotifications,
	}
	return &created, nil
}

func (f *fakeClient) UpdateSubscription(ctx context.Context, id string, upd models.SubscriptionUpdate) (*models.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateSubCalls++
	f.LastUpdateID = id
	f.LastUpdateSub = upd
	if f.UpdateSubErr != nil {
		return nil, f.UpdateSubErr
	}
	return &models.Subscription{ID: id, TargetPrice: upd.TargetPrice, IsActive: upd.IsActive}, nil
}

func (f *fakeClient) DeleteSubscription(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteSubCalls++
	f.LastDeleteID = id
	return f.DeleteSubErr
}

// fakeStore is an in-memory localstate.Repository.
type fakeStore struct {
	mu     sync.Mutex
	values map[string]string
	SetErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string]string{}}
}

func (s *fakeStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key], nil
}

func (s *fakeStore) Set(ctx context.Context, key, value string) error {
	if s.SetErr != nil {
		return s.SetErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

func (s *fakeStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = map[string]string{}
	return nil
}
