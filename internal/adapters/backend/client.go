package backend

import (
	"bytes"
	"context"
	"disruption-replay-service/internal/domain"
	"disruption-replay-service/internal/dto"
	"disruption-replay-service/internal/platform/obs"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Client talks to the disruption backend over its JSON API.
//
// Requests are not retried: a failed fetch is reported to the caller, which
// stops that flow and leaves its state untouched.
type Client struct {
	session *http.Client
	baseURL string
}

// HTTPStatusError is returned for 4xx and 5xx responses.
type HTTPStatusError struct {
	Code int
	Body string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

func NewClient(baseURL string, session *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("backend client: base URL is empty")
	}
	if session == nil {
		session = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{session: session, baseURL: baseURL}, nil
}

func (c *Client) newRequest(
	ctx context.Context,
	method string,
	path string,
	body io.Reader,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &HTTPStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

// call sends one request and decodes the JSON response into out.
func (c *Client) call(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	resp, err := c.do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

// InitialState fetches the DCs, stores and shipments.
func (c *Client) InitialState(ctx context.Context) (res dto.InitialStateResponse, err error) {
	defer obs.Time(ctx, "backend.InitialState")(&err)

	if err := c.call(ctx, http.MethodGet, "/api/initial-state", nil, &res); err != nil {
		return dto.InitialStateResponse{}, fmt.Errorf("initial state: %w", err)
	}
	return res, nil
}

// RiskFeed fetches every risk event in feed order.
func (c *Client) RiskFeed(ctx context.Context) (res []dto.RiskEventResponse, err error) {
	defer obs.Time(ctx, "backend.RiskFeed")(&err)

	if err := c.call(ctx, http.MethodGet, "/api/risk-feed", nil, &res); err != nil {
		return nil, fmt.Errorf("risk feed: %w", err)
	}
	return res, nil
}

// TriggerDisruption asks the backend for the outcome of a scenario.
func (c *Client) TriggerDisruption(ctx context.Context, scenario string) (_ domain.DispatchOutcome, err error) {
	defer obs.Time(ctx, "backend.TriggerDisruption")(&err)

	var res dto.DispatchOutcomeResponse
	in := dto.TriggerDisruptionRequest{Scenario: scenario}
	if err := c.call(ctx, http.MethodPost, "/api/trigger-disruption", in, &res); err != nil {
		return domain.DispatchOutcome{}, fmt.Errorf("trigger disruption %q: %w", scenario, err)
	}
	return res.ToDomain(), nil
}

// LoadFixtures builds fixture tables from the initial state and the risk
// feed, so a client-side scene can be drawn from the backend's data.
func (c *Client) LoadFixtures(ctx context.Context) (domain.Fixtures, error) {
	state, err := c.InitialState(ctx)
	if err != nil {
		return domain.Fixtures{}, fmt.Errorf("load fixtures: %w", err)
	}
	risks, err := c.RiskFeed(ctx)
	if err != nil {
		return domain.Fixtures{}, fmt.Errorf("load fixtures: %w", err)
	}
	return state.ToFixtures(risks), nil
}

// SimulateRisk fetches the canned recommendation for a shipment.
func (c *Client) SimulateRisk(ctx context.Context, shipmentID int) (res dto.RecommendationResponse, err error) {
	defer obs.Time(ctx, "backend.SimulateRisk")(&err)

	path := "/simulate-risk/" + strconv.Itoa(shipmentID)
	if err := c.call(ctx, http.MethodGet, path, nil, &res); err != nil {
		return dto.RecommendationResponse{}, fmt.Errorf("simulate risk %d: %w", shipmentID, err)
	}
	return res, nil
}
