// Package api talks to the ground-test data API: program listing and the paginated
// per-program record endpoints, with the retry behavior the flaky upstream requires.
package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gsy-tools/gsy/pkg/config"
	"github.com/gsy-tools/gsy/pkg/util"
	"github.com/gsy-tools/gsy/pkg/util/console"
)

const (
	retryBackoffBase   = 1.5
	retryBackoffJitter = 0.5
	maxRetryDelay      = 30 * time.Second
)

var (
	// ErrAuthenticationRequired means the server answered with an HTML page instead of
	// JSON, which is how it reports an unauthenticated (usually off-VPN) caller.
	ErrAuthenticationRequired = errors.New("received HTML response instead of JSON: connect to the corporate network by VPN")

	// ErrAPIKey means the API rejected the key, typically one issued for the other
	// environment.
	ErrAPIKey = errors.New("API returned an error message: check that the API key matches the environment")
)

// Record is one row of extracted data, all values rendered as strings.
type Record map[string]string

// Program is one entry of the program list.
type Program struct {
	ID          string
	Code        string
	Name        string
	Description string
}

// DisplayName prefers the short program name, falling back to the ID.
func (p Program) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

type Client struct {
	http       *http.Client
	baseURL    string
	sarBaseURL string
	apiKey     string
	dateIni    string
	dateEnd    string
	timeout    time.Duration
	maxRetries int

	// PageSize is the number of records the server returns per full page; a page of
	// exactly this size means another page may follow.
	PageSize int

	sleep func(time.Duration)
}

func NewClient(cfg *config.Config) (*Client, error) {
	base := http.RoundTripper(http.DefaultTransport)
	if cfg.CABundle != "" {
		pemData, err := os.ReadFile(cfg.CABundle)
		if err != nil {
			return nil, util.WrapError(err, "reading CA bundle")
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pemData) {
			return nil, fmt.Errorf("no certificates found in %s", cfg.CABundle)
		}
		base = &http.Transport{TLSClientConfig: &tls.Config{RootCAs: pool}}
	}

	return &Client{
		http: &http.Client{
			Transport: &Transport{
				headers: map[string]string{
					UserAgentHeader: UserAgent(),
					"Accept":        "application/json",
				},
				base: base,
			},
		},
		baseURL:    cfg.BaseURL,
		sarBaseURL: cfg.SARBaseURL(),
		apiKey:     cfg.APIKey,
		dateIni:    cfg.DateIni,
		dateEnd:    cfg.DateEnd,
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
		PageSize:   cfg.PageSize,
		sleep:      time.Sleep,
	}, nil
}

// Programs fetches the program list, the starting point of every extraction.
func (c *Client) Programs(ctx context.Context) ([]Program, error) {
	console.Info("Fetching program list...")
	body, err := c.get(ctx, c.ProgramListURL(), false)
	if err != nil {
		return nil, util.WrapError(err, "unable to retrieve program list")
	}
	if err := checkResponseBody(body); err != nil {
		return nil, err
	}

	var payload interface{}
	if err := DecodeJSON(body, &payload); err != nil {
		return nil, util.WrapError(err, "parsing program list")
	}

	var items []interface{}
	switch v := payload.(type) {
	case map[string]interface{}:
		list, ok := v["programs"].([]interface{})
		if !ok {
			return nil, fmt.Errorf("unexpected JSON structure in program list response")
		}
		items = list
	case []interface{}:
		items = v
	default:
		return nil, fmt.Errorf("unexpected JSON structure in program list response")
	}

	programs := make([]Program, 0, len(items))
	for _, item := range items {
		fields, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		programs = append(programs, Program{
			ID:          stringValue(fields["programID"]),
			Code:        stringValue(fields["programCode"]),
			Name:        stringValue(fields["programName"]),
			Description: stringValue(fields["program"]),
		})
	}
	console.Infof("Found %d programs", len(programs))
	return programs, nil
}

// FetchPage retrieves one page of records for a program. The raw response body is
// returned alongside the records so debug artifacts can be written by the caller.
func (c *Client) FetchPage(ctx context.Context, system System, programID string, page int, silent bool) ([]Record, []byte, error) {
	body, err := c.get(ctx, c.PageURL(system, programID, page), silent)
	if err != nil {
		return nil, nil, err
	}

	var payload interface{}
	if err := DecodeJSON(body, &payload); err != nil {
		return nil, body, util.WrapError(err, "parsing response")
	}

	records := extractRecords(payload, system.payloadKeys())
	return records, body, nil
}

// Ping probes the program list endpoint with the given settings, without logging
// failures. Used by the connectivity diagnostics.
func (c *Client) Ping(ctx context.Context, timeout time.Duration, retries int) error {
	probe := *c
	probe.timeout = timeout
	probe.maxRetries = retries
	_, err := probe.get(ctx, c.ProgramListURL(), true)
	return err
}

// Host returns the API host name, for diagnostics.
func (c *Client) Host() string {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return c.baseURL
	}
	return u.Host
}

func (c *Client) ProgramListURL() string {
	v := url.Values{}
	v.Set("method", "getProgramList")
	v.Set("key", c.apiKey)
	return c.baseURL + "/groundTestProposalAPI.cfc?" + v.Encode()
}

func (c *Client) PageURL(system System, programID string, page int) string {
	base := c.baseURL
	if system == SystemSAR {
		base = c.sarBaseURL
	}
	filter := fmt.Sprintf(`{"programID":%q,"dateini":%q,"dateEnd":%q}`, programID, c.dateIni, c.dateEnd)
	v := url.Values{}
	v.Set("method", system.method())
	v.Set("key", c.apiKey)
	v.Set("filter", filter)
	v.Set("page", strconv.Itoa(page))
	return base + "/" + system.component() + "?" + v.Encode()
}

// get performs a GET with exponential backoff. Retried attempts run with a stretched
// timeout since slow responses are the most common failure on this API.
func (c *Client) get(ctx context.Context, requestURL string, silent bool) ([]byte, error) {
	attempts := c.maxRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		timeout := c.timeout
		if attempt > 0 {
			scale := 1.0
			for i := 0; i < attempt; i++ {
				scale *= retryBackoffBase
			}
			// Jitter keeps parallel fetches from retrying in lockstep.
			jitter := 1 + (rand.Float64()*2-1)*retryBackoffJitter
			timeout = time.Duration(float64(c.timeout) * scale * jitter)
			if timeout < time.Second {
				timeout = time.Second
			}
			if !silent {
				console.Infof("Retry attempt %d/%d with timeout %.1fs...", attempt, attempts, timeout.Seconds())
			}

			delay := min(maxRetryDelay, time.Duration(1<<attempt)*time.Second)
			if err := c.wait(ctx, delay); err != nil {
				return nil, err
			}
		}

		body, err := c.doGet(ctx, requestURL, timeout)
		if err == nil {
			if attempt > 0 && !silent {
				console.Infof("Successfully retrieved data after %d attempts", attempt+1)
			}
			return body, nil
		}
		lastErr = err

		if !silent && (attempt == 0 || attempt == attempts-1) {
			console.Errorf("Error accessing URL: %s", requestURL)
			console.Errorf("Error details: %s", err)
			logErrorHints(err)
		}
		if !silent && attempt < attempts-1 {
			delay := min(maxRetryDelay, time.Duration(2<<attempt)*time.Second)
			console.Infof("Will retry in %s... (%d/%d)", delay, attempt+1, attempts)
		}
	}

	if !silent {
		console.Errorf("Failed to retrieve data after %d attempts", attempts)
	}
	return nil, fmt.Errorf("request failed after %d attempts: %w", attempts, lastErr)
}

func (c *Client) doGet(ctx context.Context, requestURL string, timeout time.Duration) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("HTTP status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) wait(ctx context.Context, d time.Duration) error {
	if c.sleep != nil {
		c.sleep(d)
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func logErrorHints(err error) {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "context deadline exceeded") || strings.Contains(msg, "timeout"):
		console.Error("Request timed out. The server is taking too long to respond.")
		console.Error("Consider increasing API_TIMEOUT in the .env file.")
	case strings.Contains(msg, "connection reset") || strings.Contains(msg, "EOF"):
		console.Error("Connection was interrupted by the server.")
		console.Error("Possible causes: network instability, server overload, or insufficient timeout.")
	case strings.Contains(msg, "connection refused") || strings.Contains(msg, "no such host"):
		console.Error("Connection error. Check network connectivity and VPN status.")
	}
}

func checkResponseBody(body []byte) error {
	if bytes.Contains(bytes.ToLower(body), []byte("<html")) {
		return ErrAuthenticationRequired
	}
	if bytes.Contains(body, []byte("ERROR")) {
		return fmt.Errorf("%w: %s", ErrAPIKey, strings.TrimSpace(string(body)))
	}
	return nil
}

// extractRecords pulls the record list out of the shapes this API is known to return:
// a list wrapping the payload, an object with one of the known keys, an object with a
// single unknown key, or a bare record.
func extractRecords(payload interface{}, keys []string) []Record {
	switch v := payload.(type) {
	case []interface{}:
		if len(v) == 0 {
			return nil
		}
		return asRecords(v[0])
	case map[string]interface{}:
		for _, key := range keys {
			if inner, ok := v[key]; ok {
				return asRecords(inner)
			}
		}
		if len(v) == 1 {
			for _, inner := range v {
				return asRecords(inner)
			}
		}
		return asRecords(v)
	default:
		return nil
	}
}

func asRecords(data interface{}) []Record {
	switch v := data.(type) {
	case []interface{}:
		records := make([]Record, 0, len(v))
		for _, item := range v {
			if fields, ok := item.(map[string]interface{}); ok {
				records = append(records, asRecord(fields))
			}
		}
		return records
	case map[string]interface{}:
		return []Record{asRecord(v)}
	default:
		return nil
	}
}

func asRecord(fields map[string]interface{}) Record {
	record := make(Record, len(fields))
	for k, v := range fields {
		record[k] = stringValue(v)
	}
	return record
}

func stringValue(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(encoded)
	}
}
