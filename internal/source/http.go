package source

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-logr/logr"

	"github.com/ppiankov/chronicle/internal/model"
	"github.com/ppiankov/chronicle/internal/util"
	"github.com/ppiankov/chronicle/internal/worker"
)

// fetchSleepFunc is swapped out by tests to skip backoff
var fetchSleepFunc = time.Sleep

// StatusError is returned for non-2xx responses
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d %s", e.Code, e.Status)
}

// HTTPSource downloads a dataset over HTTP(S)
type HTTPSource struct {
	url        string
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	maxRetries int
	robots     *util.RobotsChecker
	limiter    *worker.Limiter
	log        logr.Logger
}

// HTTPOption configures an HTTPSource
type HTTPOption func(*HTTPSource)

// WithLimiter paces requests through a shared per-host limiter
func WithLimiter(l *worker.Limiter) HTTPOption {
	return func(s *HTTPSource) {
		s.limiter = l
	}
}

// WithLogger sets the logger used for retry and robots messages
func WithLogger(log logr.Logger) HTTPOption {
	return func(s *HTTPSource) {
		if log.GetSink() != nil {
			s.log = log
		}
	}
}

// WithHTTPClient replaces the client built from the config
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPSource) {
		s.httpClient = c
	}
}

// NewHTTPSource creates a source for rawURL using the source config section
func NewHTTPSource(rawURL string, cfg model.SourceConfig, opts ...HTTPOption) (*HTTPSource, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse URL: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("parse URL: missing host in %q", rawURL)
	}

	transport := &http.Transport{
		Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
	}
	if cfg.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} // #nosec G402
	}

	s := &HTTPSource{
		url: rawURL,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent:  cfg.UserAgent,
		maxBytes:   cfg.MaxBodyBytes,
		maxRetries: cfg.MaxRetries,
		log:        logr.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if cfg.RespectRobots {
		s.robots = util.NewRobotsChecker(cfg.UserAgent, s.httpClient, cfg.Timeout)
	}
	if s.maxRetries <= 0 {
		s.maxRetries = 1
	}

	return s, nil
}

func (s *HTTPSource) Name() string { return s.url }

// FetchRawText downloads the dataset, retrying transient failures
func (s *HTTPSource) FetchRawText(ctx context.Context) (string, error) {
	var delay time.Duration
	if s.robots != nil {
		d, err := s.robots.Check(ctx, s.url)
		if err != nil {
			return "", err
		}
		delay = d
	}

	if s.limiter != nil {
		if err := s.limiter.WaitWithDelay(ctx, s.url, delay); err != nil {
			return "", fmt.Errorf("rate limit: %w", err)
		}
	}

	return s.FetchWithRetry(ctx)
}

// FetchWithRetry performs the GET with exponential backoff on 5xx, 429
// and network errors
func (s *HTTPSource) FetchWithRetry(ctx context.Context) (string, error) {
	backoff := 500 * time.Millisecond

	var lastErr error
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		body, err := s.fetch(ctx)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if !isRetryableFetchError(err) || attempt == s.maxRetries || ctx.Err() != nil {
			break
		}

		s.log.V(1).Info("retrying dataset fetch", "url", s.url, "attempt", attempt, "error", err.Error())
		fetchSleepFunc(backoff)
		backoff *= 2
	}

	return "", lastErr
}

func (s *HTTPSource) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/csv,text/plain,text/html;q=0.9,*/*;q=0.8")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	reader := io.Reader(resp.Body)
	if s.maxBytes > 0 {
		// One extra byte tells a body at the limit from one over it
		reader = io.LimitReader(resp.Body, s.maxBytes+1)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if s.maxBytes > 0 && int64(len(body)) > s.maxBytes {
		return "", fmt.Errorf("%w: more than %d bytes", ErrTooLarge, s.maxBytes)
	}

	return string(body), nil
}

// isRetryableFetchError reports whether another attempt may succeed
func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= 500 || statusErr.Code == http.StatusTooManyRequests
	}

	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
