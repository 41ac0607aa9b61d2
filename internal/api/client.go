package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/casebridge/casebridge/internal/domain"
	"golang.org/x/time/rate"
)

// Client is the backend's appointment API. Every method issues exactly one
// request carrying the given bearer token.
type Client interface {
	List(ctx context.Context, token string, scope domain.Scope) ([]domain.Appointment, error)
	Create(ctx context.Context, token string, draft domain.Draft) (domain.Appointment, error)
	// Transition sends confirm, cancel or complete.
	Transition(ctx context.Context, token, id string, action domain.Action) (domain.Appointment, error)
	Reschedule(ctx context.Context, token, id string, date time.Time) (domain.Appointment, error)
	// ExportICS downloads the calendar file. The bytes are not parsed.
	ExportICS(ctx context.Context, token, id string) ([]byte, error)
}

// Options configures an httpClient.
type Options struct {
	BaseURL string
	// Timeout bounds each request. Zero leaves it to the transport.
	Timeout        time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
	HTTPClient     *http.Client
	Observer       Observer
}

type httpClient struct {
	base     string
	timeout  time.Duration
	http     *http.Client
	limiter  *rate.Limiter
	observer Observer
}

// NewClient creates a Client for the REST backend at opts.BaseURL.
func NewClient(opts Options) Client {
	observer := opts.Observer
	if observer == nil {
		observer = NoopObserver{}
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		}
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RateLimitRPS > 0 {
		burst := opts.RateLimitBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimitRPS), burst)
	}
	return &httpClient{
		base:     opts.BaseURL,
		timeout:  opts.Timeout,
		http:     hc,
		limiter:  limiter,
		observer: observer,
	}
}

func (c *httpClient) List(ctx context.Context, token string, scope domain.Scope) ([]domain.Appointment, error) {
	path := "/appointments"
	if scope.IsCase() {
		path = "/appointments/case/" + url.PathEscape(scope.CaseID)
	}
	var body []AppointmentJSON
	if err := c.doJSON(ctx, http.MethodGet, path, token, nil, &body); err != nil {
		return nil, err
	}
	out := make([]domain.Appointment, 0, len(body))
	for _, a := range body {
		appt, err := a.ToDomain()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		out = append(out, appt)
	}
	return out, nil
}

func (c *httpClient) Create(ctx context.Context, token string, draft domain.Draft) (domain.Appointment, error) {
	return c.doAppointment(ctx, http.MethodPost, "/appointments", token, NewCreateRequest(draft))
}

func (c *httpClient) Transition(ctx context.Context, token, id string, action domain.Action) (domain.Appointment, error) {
	if _, ok := action.TargetStatus(); !ok {
		return domain.Appointment{}, fmt.Errorf("action %q is not a status transition", action)
	}
	path := "/appointments/" + url.PathEscape(id) + "/" + string(action)
	return c.doAppointment(ctx, http.MethodPatch, path, token, nil)
}

func (c *httpClient) Reschedule(ctx context.Context, token, id string, date time.Time) (domain.Appointment, error) {
	path := "/appointments/" + url.PathEscape(id) + "/date"
	return c.doAppointment(ctx, http.MethodPatch, path, token, RescheduleRequest{Date: date.UTC().Format(time.RFC3339)})
}

func (c *httpClient) ExportICS(ctx context.Context, token, id string) ([]byte, error) {
	path := "/appointments/" + url.PathEscape(id) + "/ics"
	_, body, err := c.do(ctx, http.MethodGet, path, token, nil)
	return body, err
}

func (c *httpClient) doAppointment(ctx context.Context, method, path, token string, in any) (domain.Appointment, error) {
	var out AppointmentJSON
	if err := c.doJSON(ctx, method, path, token, in, &out); err != nil {
		return domain.Appointment{}, err
	}
	appt, err := out.ToDomain()
	if err != nil {
		return domain.Appointment{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return appt, nil
}

func (c *httpClient) doJSON(ctx context.Context, method, path, token string, in, out any) error {
	_, body, err := c.do(ctx, method, path, token, in)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// do sends one request and returns the body of a 2xx response. Nothing is
// retried.
func (c *httpClient) do(ctx context.Context, method, path, token string, in any) (int, []byte, error) {
	if token == "" {
		return 0, nil, &domain.AuthenticationError{}
	}

	start := time.Now()
	status, body, err := c.send(ctx, method, path, token, in)
	c.observer.OnCallComplete(CallEvent{
		Method:     method,
		Path:       path,
		StatusCode: status,
		LatencyMs:  time.Since(start).Milliseconds(),
		Success:    err == nil,
		ErrorCode:  errorCode(err),
	})
	return status, body, err
}

func (c *httpClient) send(ctx context.Context, method, path, token string, in any) (int, []byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return 0, nil, transportError(ctx, err)
	}

	var reader io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return 0, nil, fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, transportError(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, transportError(ctx, fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, nil, statusError(resp.StatusCode, body)
	}
	return resp.StatusCode, body, nil
}
