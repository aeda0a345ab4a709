package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/farewatch/farewatch/internal/models"
)

// dateLayout is the date-only format for query parameters.
const dateLayout = "2006-01-02"

var _ Client = (*HTTPClient)(nil)

// HTTPClient implements Client over the backend's HTTP/JSON REST interface.
type HTTPClient struct {
	baseURL string
	httpc   *http.Client
}

// NewHTTPClient returns a gateway for the backend at baseURL. A trailing
// slash on baseURL is tolerated.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	for len(baseURL) > 0 && baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL[:len(baseURL)-1]
	}
	return &HTTPClient{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// errorBody is the backend's structured error payload.
type errorBody struct {
	Detail string `json:"detail"`
}

// do performs one request. A non-nil body is sent as JSON; a non-nil out
// receives the decoded response. Transport failures wrap ErrUnavailable,
// non-2xx statuses become *RequestError with the backend detail if the
// body carried one.
func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		reqErr := &RequestError{Status: resp.StatusCode}
		var eb errorBody
		if err := json.NewDecoder(resp.Body).Decode(&eb); err == nil {
			reqErr.Detail = eb.Detail
		}
		return reqErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// doLookup is do for reads where 404 means absence. It reports whether the
// resource was found.
func (c *HTTPClient) doLookup(ctx context.Context, path string, query url.Values, out any) (bool, error) {
	err := c.do(ctx, http.MethodGet, path, query, nil, out)
	if err != nil {
		if StatusOf(err) == http.StatusNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (c *HTTPClient) Airlines(ctx context.Context) ([]models.Airline, error) {
	var airlines []models.Airline
	if err := c.do(ctx, http.MethodGet, "/airlines/", nil, nil, &airlines); err != nil {
		return nil, err
	}
	return airlines, nil
}

func (c *HTTPClient) Airports(ctx context.Context) ([]models.Airport, error) {
	var airports []models.Airport
	if err := c.do(ctx, http.MethodGet, "/airports/", nil, nil, &airports); err != nil {
		return nil, err
	}
	return airports, nil
}

func (c *HTTPClient) SearchFlights(ctx context.Context, q models.SearchQuery) ([]models.Flight, error) {
	query := url.Values{}
	for _, code := range q.DepartureAirportCodes {
		query.Add("departureAirportCodes", code)
	}
	for _, code := range q.ArrivalAirportCodes {
		query.Add("arrivalAirportCodes", code)
	}
	if !q.StartDate.IsZero() {
		query.Set("startDate", q.StartDate.Format(dateLayout))
	}
	if !q.EndDate.IsZero() {
		query.Set("endDate", q.EndDate.Format(dateLayout))
	}
	for _, code := range q.AirlineCodes {
		query.Add("airlineCodes", code)
	}

	var flights []models.Flight
	if err := c.do(ctx, http.MethodGet, "/flights/", query, nil, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (c *HTTPClient) Flight(ctx context.Context, id string) (*models.Flight, error) {
	var flight models.Flight
	if err := c.do(ctx, http.MethodGet, "/flights/"+url.PathEscape(id), nil, nil, &flight); err != nil {
		return nil, err
	}
	return &flight, nil
}

// PriceHistory returns the recorded observations for a flight, oldest
// ordering not guaranteed by the backend. 404 means no history yet.
func (c *HTTPClient) PriceHistory(ctx context.Context, flightID string) ([]models.PricePoint, error) {
	var points []models.PricePoint
	found, err := c.doLookup(ctx, "/price-history/flight/"+url.PathEscape(flightID), nil, &points)
	if err != nil {
		return nil, err
	}
	if !found {
		return []models.PricePoint{}, nil
	}
	return points, nil
}

// User fetches the identity record for email. (nil, nil) means the email is
// not registered.
func (c *HTTPClient) User(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	found, err := c.doLookup(ctx, "/users/"+url.PathEscape(email), nil, &user)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &user, nil
}

func (c *HTTPClient) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	var created models.User
	if err := c.do(ctx, http.MethodPost, "/users/", nil, user, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *HTTPClient) UpdateUser(ctx context.Context, email string, enableNotifications bool) (*models.User, error) {
	body := struct {
		EnableNotificationsSetting bool `json:"enableNotificationsSetting"`
	}{EnableNotificationsSetting: enableNotifications}

	var updated models.User
	if err := c.do(ctx, http.MethodPut, "/users/"+url.PathEscape(email), nil, body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Subscriptions lists the raw subscriptions for email. 404 means none exist.
func (c *HTTPClient) Subscriptions(ctx context.Context, email string) ([]models.Subscription, error) {
	query := url.Values{}
	query.Set("email", email)

	var subs []models.Subscription
	found, err := c.doLookup(ctx, "/subscriptions/", query, &subs)
	if err != nil {
		return nil, err
	}
	if !found {
		return []models.Subscription{}, nil
	}
	return subs, nil
}

// SubscriptionForFlight is the point lookup used to decide between create,
// update and delete affordances. (nil, nil) means not subscribed.
func (c *HTTPClient) SubscriptionForFlight(ctx context.Context, flightID, email string) (*models.Subscription, error) {
	query := url.Values{}
	query.Set("email", email)

	var sub models.Subscription
	found, err := c.doLookup(ctx, "/subscriptions/flight/"+url.PathEscape(flightID), query, &sub)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &sub, nil
}

func (c *HTTPClient) CreateSubscription(ctx context.Context, req models.SubscriptionRequest) (*models.Subscription, error) {
	var created models.Subscription
	if err := c.do(ctx, http.MethodPost, "/subscriptions/", nil, req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *HTTPClient) UpdateSubscription(ctx context.Context, id string, upd models.SubscriptionUpdate) (*models.Subscription, error) {
	var updated models.Subscription
	if err := c.do(ctx, http.MethodPut, "/subscriptions/"+url.PathEscape(id), nil, upd, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *HTTPClient) DeleteSubscription(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/subscriptions/"+url.PathEscape(id), nil, nil, nil)
}
