package gateways

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cenk/backoff"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/dnscache"
	circuit "github.com/rubyist/circuitbreaker"

	"github.com/ochairo/decant/internal/domain/entities"
	"github.com/ochairo/decant/internal/domain/interfaces/gateways"
)

func init() {
	factory := func(target entities.RepositoryTarget) (gateways.DeployGateway, error) {
		return NewHTTPDeployGateway(target)
	}
	RegisterDeployScheme("http", factory)
	RegisterDeployScheme("https", factory)
}

// ErrRepositoryFileNotFound is returned when a repository path does not
// exist on the remote
var ErrRepositoryFileNotFound = errors.New("repository file not found")

// ErrRepositoryUnavailable is returned when the circuit breaker has
// tripped for the repository host
var ErrRepositoryUnavailable = errors.New("repository unavailable")

// DeployHTTPError carries the status of a failed repository request so
// callers can branch on it
type DeployHTTPError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *DeployHTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.URL)
}

// IsAuth reports whether the failure was an authentication or
// authorization rejection
func (e *DeployHTTPError) IsAuth() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// DeployRateLimitError is returned when the repository rate limits
// requests
type DeployRateLimitError struct {
	RetryAfter int // seconds
}

func (e *DeployRateLimitError) Error() string {
	return fmt.Sprintf("rate limited, retry after %d seconds", e.RetryAfter)
}

// httpDeployGateway uploads repository files over HTTP PUT with basic
// auth, retrying transient failures and fast-failing through a per-host
// circuit breaker
type httpDeployGateway struct {
	target  entities.RepositoryTarget
	baseURL string
	client  *retryablehttp.Client
	breaker *circuit.Breaker
}

var (
	// One DNS cache and breaker per host, shared across gateways so
	// repeated deploys to the same registry reuse state
	dnsResolver     *dnscache.Resolver
	dnsResolverOnce sync.Once
	hostBreakers    = make(map[string]*circuit.Breaker)
	hostBreakersMu  sync.Mutex
)

// NewHTTPDeployGateway creates a deploy gateway for an HTTP(S) repository
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewHTTPDeployGateway(target entities.RepositoryTarget) (*httpDeployGateway, error) {
	parsed, err := url.Parse(target.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid repository URL %q: %w", target.URL, err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("repository URL %q has no host", target.URL)
	}

	client := retryablehttp.NewClient()
	client.Logger = nil
	client.RetryMax = 3
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 10 * time.Second
	client.HTTPClient.Timeout = 2 * time.Minute
	client.HTTPClient.Transport = cachedDNSTransport()
	client.CheckRetry = deployRetryPolicy

	return &httpDeployGateway{
		target:  target,
		baseURL: strings.TrimRight(target.URL, "/"),
		client:  client,
		breaker: breakerForHost(parsed.Host),
	}, nil
}

// deployRetryPolicy retries server errors and rate limits. Client errors,
// auth rejections in particular, are never retried: the credentials will
// not get better.
func deployRetryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return true, nil
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return true, nil
	}
	return false, nil
}

// cachedDNSTransport builds an HTTP transport that resolves hosts through
// a shared refreshing DNS cache
func cachedDNSTransport() *http.Transport {
	dnsResolverOnce.Do(func() {
		dnsResolver = &dnscache.Resolver{}
		go func() {
			ticker := time.NewTicker(5 * time.Minute)
			defer ticker.Stop()
			for range ticker.C {
				dnsResolver.Refresh(true)
			}
		}()
	})

	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	return &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			host, port, err := net.SplitHostPort(addr)
			if err != nil {
				return nil, err
			}
			ips, err := dnsResolver.LookupHost(ctx, host)
			if err != nil {
				return nil, err
			}
			for _, ip := range ips {
				conn, err := dialer.DialContext(ctx, network, net.JoinHostPort(ip, port))
				if err == nil {
					return conn, nil
				}
			}
			return nil, fmt.Errorf("failed to dial any resolved address for %s", host)
		},
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

// breakerForHost returns or creates the circuit breaker guarding one
// repository host. Trips after 5 consecutive failures; the reset window
// backs off exponentially.
func breakerForHost(host string) *circuit.Breaker {
	hostBreakersMu.Lock()
	defer hostBreakersMu.Unlock()

	if breaker, ok := hostBreakers[host]; ok {
		return breaker
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = 30 * time.Second
	expBackoff.MaxInterval = 5 * time.Minute
	expBackoff.Multiplier = 2.0
	expBackoff.Reset()

	breaker := circuit.NewBreakerWithOptions(&circuit.Options{
		BackOff:    expBackoff,
		ShouldTrip: circuit.ThresholdTripFunc(5),
	})
	hostBreakers[host] = breaker
	return breaker
}

// Put uploads one repository file
func (g *httpDeployGateway) Put(ctx context.Context, path string, content io.Reader, _ int64) error {
	if !g.breaker.Ready() {
		return fmt.Errorf("circuit breaker open for %s: %w", g.baseURL, ErrRepositoryUnavailable)
	}

	// The retryable client replays the body across attempts, so the
	// content must be buffered
	body, err := io.ReadAll(content)
	if err != nil {
		return fmt.Errorf("failed to read upload content: %w", err)
	}

	return g.breaker.Call(func() error {
		req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPut, g.fileURL(path), body)
		if err != nil {
			return fmt.Errorf("failed to create upload request: %w", err)
		}
		g.authorize(req)

		resp, err := g.client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to upload %s: %w", path, err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}
		return g.statusError(resp, path)
	}, 0)
}

// Get retrieves a deployed file, for post-publish verification
func (g *httpDeployGateway) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	if !g.breaker.Ready() {
		return nil, fmt.Errorf("circuit breaker open for %s: %w", g.baseURL, ErrRepositoryUnavailable)
	}

	var body io.ReadCloser
	err := g.breaker.Call(func() error {
		req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, g.fileURL(path), nil)
		if err != nil {
			return fmt.Errorf("failed to create download request: %w", err)
		}
		g.authorize(req)

		resp, err := g.client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to download %s: %w", path, err)
		}

		if resp.StatusCode == http.StatusOK {
			body = resp.Body
			return nil
		}
		defer func() { _ = resp.Body.Close() }()
		return g.statusError(resp, path)
	}, 0)
	if err != nil {
		return nil, err
	}
	return body, nil
}

// Exists reports whether a repository path is already present, via HEAD
func (g *httpDeployGateway) Exists(ctx context.Context, path string) (bool, error) {
	if !g.breaker.Ready() {
		return false, fmt.Errorf("circuit breaker open for %s: %w", g.baseURL, ErrRepositoryUnavailable)
	}

	exists := false
	err := g.breaker.Call(func() error {
		req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodHead, g.fileURL(path), nil)
		if err != nil {
			return fmt.Errorf("failed to create existence request: %w", err)
		}
		g.authorize(req)

		resp, err := g.client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to check %s: %w", path, err)
		}
		defer func() { _ = resp.Body.Close() }()

		switch {
		case resp.StatusCode == http.StatusOK:
			exists = true
			return nil
		case resp.StatusCode == http.StatusNotFound:
			return nil
		default:
			return g.statusError(resp, path)
		}
	}, 0)
	return exists, err
}

// Tripped reports whether the gateway's circuit breaker is open, for
// diagnostics
func (g *httpDeployGateway) Tripped() bool {
	return g.breaker.Tripped()
}

func (g *httpDeployGateway) fileURL(path string) string {
	return g.baseURL + "/" + strings.TrimLeft(path, "/")
}

func (g *httpDeployGateway) authorize(req *retryablehttp.Request) {
	if g.target.HasCredentials() {
		req.SetBasicAuth(g.target.Credentials.Username, g.target.Credentials.Password)
	}
}

func (g *httpDeployGateway) statusError(resp *http.Response, path string) error {
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", path, ErrRepositoryFileNotFound)
	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		return &DeployRateLimitError{RetryAfter: retryAfter}
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &DeployHTTPError{
			StatusCode: resp.StatusCode,
			URL:        g.fileURL(path),
			Body:       string(body),
		}
	}
}
