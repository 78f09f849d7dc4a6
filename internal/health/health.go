package health

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/quorumlabs/nodeops/internal/errdefs"
)

const (
	// DefaultTimeout bounds a single probe request.
	DefaultTimeout = 5 * time.Second

	healthPath   = "ext/health"
	livenessPath = "ext/health/liveness"
)

// CheckResult is one named check inside a health report. Message is kept raw
// because its shape varies per check.
type CheckResult struct {
	Message            json.RawMessage `json:"message,omitempty"`
	Error              string          `json:"error,omitempty"`
	Timestamp          string          `json:"timestamp,omitempty"`
	Duration           int64           `json:"duration,omitempty"`
	ContiguousFailures int64           `json:"contiguousFailures,omitempty"`
	TimeOfFirstFailure string          `json:"timeOfFirstFailure,omitempty"`
}

// Report is a node's full health report. Healthy is a pointer so an absent
// field is distinguishable from an explicit false.
type Report struct {
	Checks  map[string]CheckResult `json:"checks,omitempty"`
	Healthy *bool                  `json:"healthy,omitempty"`
}

// IsHealthy reports whether the node declared itself healthy.
func (r *Report) IsHealthy() bool {
	return r.Healthy != nil && *r.Healthy
}

// Client probes node health endpoints.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a prober. HTTPS endpoints in a cluster use self-signed
// staking certificates, so verification is skipped.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
	}
}

// Check probes a node's health endpoint. The endpoint is the node's HTTP
// base (scheme://host:port); liveness selects the liveness path. The report
// is returned even when the node reports unhealthy; only transport and
// decoding failures are errors.
func (c *Client) Check(ctx context.Context, endpoint string, liveness bool) (*Report, error) {
	p := healthPath
	if liveness {
		p = livenessPath
	}
	url := strings.TrimSuffix(endpoint, "/") + "/" + p

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build health request for %s: %w", url, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("health probe %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read health response from %s: %w", url, err)
	}

	var report Report
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, &errdefs.DecodeError{Stage: "json", Err: err}
	}
	return &report, nil
}

// Await polls a node's health endpoint until it reports healthy. Probe
// failures are retried; only the deadline ends the wait.
func (c *Client) Await(ctx context.Context, endpoint string, liveness bool, interval, timeout time.Duration) (*Report, error) {
	deadline := time.Now().Add(timeout)
	lastStatus := "unreachable"

	for {
		report, err := c.Check(ctx, endpoint, liveness)
		if err == nil && report.IsHealthy() {
			return report, nil
		}
		if err != nil {
			lastStatus = err.Error()
		} else {
			lastStatus = "unhealthy"
		}

		if time.Now().After(deadline) {
			return nil, &errdefs.TimeoutError{
				Name:       fmt.Sprintf("health of %s", endpoint),
				LastStatus: lastStatus,
				Elapsed:    timeout,
			}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}
	}
}
