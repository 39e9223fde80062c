package labctl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"otlabs.dev/labgate/internal/clock"
	"otlabs.dev/labgate/internal/config"
	"otlabs.dev/labgate/internal/logging"
	"otlabs.dev/labgate/internal/metrics"
	"otlabs.dev/labgate/internal/protocol"
)

const authTokenHeader = "X-Auth-Token"

// HTTPClient talks to the lab controller over its REST API. Guest and
// authenticated traffic go to separate base URLs so the controller can
// apply its own rate limits per tier.
type HTTPClient struct {
	guestURL string
	adminURL string
	diagURL  string
	token    string
	http     *http.Client
	clk      clock.Clock
	logger   *logging.Logger
}

// Options configures an HTTPClient. Zero-value fields fall back to
// sensible defaults; unset URLs disable the corresponding calls.
type Options struct {
	GuestURL string
	AdminURL string
	DiagURL  string
	Token    string

	// Timeout bounds every controller request end to end. There are no
	// retries; a slow controller is treated the same as a dead one.
	Timeout time.Duration

	Transport http.RoundTripper
	Clock     clock.Clock
	Logger    *logging.Logger
}

// New creates a lab controller client from explicit options.
func New(opts Options) *HTTPClient {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.WithComponent("labctl")
	}
	return &HTTPClient{
		guestURL: opts.GuestURL,
		adminURL: opts.AdminURL,
		diagURL:  opts.DiagURL,
		token:    opts.Token,
		http: &http.Client{
			Timeout:   opts.Timeout,
			Transport: opts.Transport,
		},
		clk:    opts.Clock,
		logger: opts.Logger,
	}
}

// NewFromConfig creates a client from the lab section of the gateway
// config, reading the token from the environment when the file left it
// blank.
func NewFromConfig(cfg *config.Config) *HTTPClient {
	token := cfg.Lab.Token
	if token == "" {
		token = os.Getenv(config.EnvLabToken)
	}
	return New(Options{
		GuestURL: cfg.Lab.GuestURL,
		AdminURL: cfg.Lab.AdminURL,
		DiagURL:  cfg.Lab.DiagURL,
		Token:    token,
		Timeout:  cfg.LabTimeout(),
	})
}

// baseURL picks the controller endpoint for the caller's tier.
func (c *HTTPClient) baseURL(isAuthenticated bool) string {
	if isAuthenticated {
		return c.adminURL
	}
	return c.guestURL
}

// authorize applies the access policy. The API layer performs the same
// check before calling us; doing it again here means a future handler
// that forgets cannot widen access.
func (c *HTTPClient) authorize(p protocol.Protocol, isAuthenticated bool) (ok bool, message string) {
	if !protocol.Valid(string(p)) {
		return false, fmt.Sprintf("unknown protocol %q", string(p))
	}
	if !isAuthenticated && !protocol.IsGuestAllowed(p) {
		return false, "sign in to access this protocol"
	}
	for _, allowed := range protocol.Allowed(isAuthenticated) {
		if allowed == p {
			return true, ""
		}
	}
	return false, "you do not have access to this protocol"
}

// SwitchProtocol implements Client.
func (c *HTTPClient) SwitchProtocol(ctx context.Context, p protocol.Protocol, isAuthenticated bool) SwitchOutcome {
	if ok, msg := c.authorize(p, isAuthenticated); !ok {
		return SwitchOutcome{Success: false, Protocol: p, Message: msg}
	}

	base := c.baseURL(isAuthenticated)
	if base == "" {
		return SwitchOutcome{Success: false, Protocol: p, Message: "lab controller not configured"}
	}

	body, _ := json.Marshal(map[string]string{"protocol": string(p)})
	resp, err := c.do(ctx, http.MethodPost, base+"/switch", bytes.NewReader(body))
	if err != nil {
		c.logger.Warn("Protocol switch request failed", "protocol", string(p), "error", err)
		metrics.Get().UpstreamErrors.WithLabelValues("switch").Inc()
		return SwitchOutcome{Success: false, Protocol: p, Message: upstreamMessage(err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		c.logger.Warn("Protocol switch rejected upstream", "protocol", string(p), "status", resp.StatusCode)
		metrics.Get().UpstreamErrors.WithLabelValues("switch").Inc()
		return SwitchOutcome{
			Success:  false,
			Protocol: p,
			Message:  fmt.Sprintf("lab controller returned status %d", resp.StatusCode),
		}
	}

	var payload struct {
		HMIURL  string `json:"hmiUrl"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		metrics.Get().UpstreamErrors.WithLabelValues("switch").Inc()
		return SwitchOutcome{Success: false, Protocol: p, Message: "lab controller sent an invalid response"}
	}

	c.logger.Info("Protocol switched", "protocol", string(p), "authenticated", isAuthenticated)
	return SwitchOutcome{Success: true, Protocol: p, HMIURL: payload.HMIURL, Message: payload.Message}
}

// GetStatus implements Client. The status feed drives a polling UI, so
// any failure degrades to "nothing active" rather than surfacing an
// error.
func (c *HTTPClient) GetStatus(ctx context.Context) Status {
	empty := Status{Active: nil, Timestamp: c.clk.Now()}
	if c.diagURL == "" {
		return empty
	}

	resp, err := c.do(ctx, http.MethodGet, c.diagURL+"/status", nil)
	if err != nil {
		c.logger.Debug("Status request failed", "error", err)
		metrics.Get().UpstreamErrors.WithLabelValues("status").Inc()
		return empty
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		metrics.Get().UpstreamErrors.WithLabelValues("status").Inc()
		return empty
	}

	var payload struct {
		Active *string `json:"active"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		metrics.Get().UpstreamErrors.WithLabelValues("status").Inc()
		return empty
	}

	if payload.Active == nil {
		return empty
	}
	p, err := protocol.Parse(*payload.Active)
	if err != nil {
		// The controller claims a protocol we do not know about. Report
		// idle instead of passing garbage to clients.
		c.logger.Warn("Controller reported unknown protocol", "value", *payload.Active)
		return empty
	}
	return Status{Active: &p, Timestamp: c.clk.Now()}
}

// GetDiagnostics implements Client.
func (c *HTTPClient) GetDiagnostics(ctx context.Context) Diagnostics {
	empty := Diagnostics{Containers: []Container{}, Timestamp: c.clk.Now()}
	if c.diagURL == "" {
		return empty
	}

	resp, err := c.do(ctx, http.MethodGet, c.diagURL+"/containers", nil)
	if err != nil {
		c.logger.Debug("Diagnostics request failed", "error", err)
		metrics.Get().UpstreamErrors.WithLabelValues("diagnostics").Inc()
		return empty
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		metrics.Get().UpstreamErrors.WithLabelValues("diagnostics").Inc()
		return empty
	}

	var diag Diagnostics
	if err := json.NewDecoder(resp.Body).Decode(&diag); err != nil {
		metrics.Get().UpstreamErrors.WithLabelValues("diagnostics").Inc()
		return empty
	}
	if diag.Containers == nil {
		diag.Containers = []Container{}
	}
	if diag.Timestamp.IsZero() {
		diag.Timestamp = c.clk.Now()
	}
	return diag
}

// GetHMIURL implements Client. This is a second authorization checkpoint:
// even a caller that bypassed the switch endpoint cannot learn an HMI
// address for a protocol it may not use.
func (c *HTTPClient) GetHMIURL(ctx context.Context, p protocol.Protocol, isAuthenticated bool) string {
	if ok, _ := c.authorize(p, isAuthenticated); !ok {
		return ""
	}

	base := c.baseURL(isAuthenticated)
	if base == "" {
		return ""
	}

	resp, err := c.do(ctx, http.MethodGet, base+"/hmi/"+string(p), nil)
	if err != nil {
		c.logger.Debug("HMI URL request failed", "protocol", string(p), "error", err)
		metrics.Get().UpstreamErrors.WithLabelValues("hmi").Inc()
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return ""
	}

	var payload struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ""
	}
	return payload.URL
}

func (c *HTTPClient) do(ctx context.Context, method, url string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set(authTokenHeader, c.token)
	}
	return c.http.Do(req)
}

// upstreamMessage maps a transport error to a client-safe message. Raw
// error text can leak internal hostnames, so it never reaches callers.
func upstreamMessage(err error) string {
	var ne interface{ Timeout() bool }
	if errors.As(err, &ne) && ne.Timeout() {
		return "lab controller timed out"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "lab controller timed out"
	}
	return "lab controller unreachable"
}
