// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/sprowk/company-finder/internal/config"
	"github.com/sprowk/company-finder/internal/logging"
	"github.com/sprowk/company-finder/internal/metrics"
	"github.com/sprowk/company-finder/internal/models"
)

// maxErrorBodySize limits how much of an error response is kept for diagnostics.
const maxErrorBodySize = 4 * 1024

// maxRetryDelay caps a single backoff wait, whatever Retry-After asks for.
const maxRetryDelay = time.Minute

// statusError is a non-200 upstream response.
type statusError struct {
	Status int
	Body   string
}

func (e *statusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.Status)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Status, e.Body)
}

// contentEntry is one item of the GitHub contents API listing.
type contentEntry struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Type        string `json:"type"`
	Size        int64  `json:"size"`
	DownloadURL string `json:"download_url"`
}

// GitHubSource reads a snapshot published in a GitHub repository.
//
// Parts are listed with
//
//	GET {api}/repos/{owner}/{repo}/contents/snapshots?ref={branch}
//
// and downloaded either from StaticBaseURL (the published site, as the
// browser client does) or from each entry's download_url.
//
// Thread Safety: safe for concurrent use.
type GitHubSource struct {
	apiBaseURL    string
	staticBaseURL string
	owner         string
	repo          string
	branch        string
	token         string

	client         *http.Client
	limiter        *rate.Limiter
	maxRetries     int
	retryBaseDelay time.Duration
	breaker        *breaker

	mu             sync.Mutex
	lastUpdatedURL string
}

// NewGitHubSource creates a GitHub backed source from configuration.
func NewGitHubSource(cfg *config.SourceConfig) *GitHubSource {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	retryBaseDelay := cfg.RetryBaseDelay
	if retryBaseDelay <= 0 {
		retryBaseDelay = time.Second
	}
	staticBase := strings.TrimSpace(cfg.StaticBaseURL)
	if staticBase != "" && !strings.HasSuffix(staticBase, "/") {
		staticBase += "/"
	}

	return &GitHubSource{
		apiBaseURL:     strings.TrimRight(cfg.APIBaseURL, "/"),
		staticBaseURL:  staticBase,
		owner:          cfg.Owner,
		repo:           cfg.Repo,
		branch:         cfg.Branch,
		token:          cfg.Token,
		client:         &http.Client{Timeout: timeout},
		limiter:        rate.NewLimiter(limit, burst),
		maxRetries:     cfg.MaxRetries,
		retryBaseDelay: retryBaseDelay,
		breaker:        newBreaker("github-snapshot", DefaultBreakerSettings()),
	}
}

// BreakerState reports the upstream circuit breaker state.
func (s *GitHubSource) BreakerState() string {
	return s.breaker.State()
}

func (s *GitHubSource) listingURL() string {
	return fmt.Sprintf("%s/repos/%s/%s/contents/snapshots?ref=%s",
		s.apiBaseURL, url.PathEscape(s.owner), url.PathEscape(s.repo), url.QueryEscape(s.branch))
}

// ListParts implements RecordSource.
func (s *GitHubSource) ListParts(ctx context.Context) ([]PartDescriptor, error) {
	body, err := s.get(ctx, "list", s.listingURL(), true)
	if err != nil {
		return nil, &models.DiscoveryError{Err: err}
	}

	var entries []contentEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, &models.DiscoveryError{Err: fmt.Errorf("decode contents listing: %w", err)}
	}

	parts := make([]PartDescriptor, 0, len(entries))
	lastUpdatedURL := ""
	for _, e := range entries {
		if e.Type != "" && e.Type != "file" {
			continue
		}
		switch {
		case e.Name == LastUpdatedFile:
			lastUpdatedURL = e.DownloadURL
		case IsPartName(e.Name):
			parts = append(parts, PartDescriptor{Name: e.Name, URL: s.partURL(e), Size: e.Size})
		}
	}

	s.mu.Lock()
	s.lastUpdatedURL = lastUpdatedURL
	s.mu.Unlock()

	if len(parts) == 0 {
		return nil, &models.DiscoveryError{Err: models.ErrNoData}
	}
	SortParts(parts)

	logging.Debug().Int("parts", len(parts)).Str("repo", s.owner+"/"+s.repo).Msg("Listed snapshot parts")
	return parts, nil
}

func (s *GitHubSource) partURL(e contentEntry) string {
	if s.staticBaseURL != "" {
		return s.staticBaseURL + url.PathEscape(e.Name)
	}
	return e.DownloadURL
}

// FetchPart implements RecordSource.
func (s *GitHubSource) FetchPart(ctx context.Context, part PartDescriptor) ([]byte, error) {
	if part.URL == "" {
		return nil, &models.FetchError{PartIndex: part.Index, Part: part.Name, Err: errors.New("part has no download URL")}
	}
	data, err := s.get(ctx, "fetch", part.URL, false)
	if err != nil {
		fe := &models.FetchError{PartIndex: part.Index, Part: part.Name, Err: err}
		var se *statusError
		if errors.As(err, &se) {
			fe.Status = se.Status
		}
		return nil, fe
	}
	return data, nil
}

// LastUpdated implements RecordSource. The file is looked up on the static
// base when configured, else through the URL of the last listing.
func (s *GitHubSource) LastUpdated(ctx context.Context) (string, error) {
	target := ""
	if s.staticBaseURL != "" {
		target = s.staticBaseURL + LastUpdatedFile
	} else {
		s.mu.Lock()
		target = s.lastUpdatedURL
		s.mu.Unlock()
	}
	if target == "" {
		return "", nil
	}

	body, err := s.get(ctx, "last_updated", target, false)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) && se.Status == http.StatusNotFound {
			return "", nil
		}
		return "", fmt.Errorf("fetch %s: %w", LastUpdatedFile, err)
	}
	return strings.TrimSpace(string(body)), nil
}

// get performs a breaker protected GET and returns the body of a 200 response.
func (s *GitHubSource) get(ctx context.Context, op, reqURL string, api bool) ([]byte, error) {
	return s.breaker.execute(func() ([]byte, error) {
		resp, err := s.doRequestWithRateLimit(ctx, op, reqURL, api)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, &statusError{Status: resp.StatusCode, Body: readBodyForError(resp.Body)}
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read %s response: %w", op, err)
		}
		return body, nil
	})
}

// doRequestWithRateLimit paces requests through the limiter and retries
// rate-limited responses with exponential backoff (base, 2x, 4x, ...),
// honoring Retry-After. Waits are cancelled with ctx.
func (s *GitHubSource) doRequestWithRateLimit(ctx context.Context, op, reqURL string, api bool) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		if api {
			req.Header.Set("Accept", "application/vnd.github+json")
			if s.token != "" {
				req.Header.Set("Authorization", "Bearer "+s.token)
			}
		}

		resp, err := s.client.Do(req)
		if err != nil {
			metrics.RecordSourceRequest(op, 0)
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}
		metrics.RecordSourceRequest(op, resp.StatusCode)

		if !isRateLimited(resp) {
			return resp, nil
		}
		metrics.SourceRateLimited.Inc()
		_ = resp.Body.Close()

		if attempt >= s.maxRetries {
			return nil, &statusError{Status: resp.StatusCode, Body: fmt.Sprintf("rate limit exceeded after %d retries", s.maxRetries)}
		}

		delay := s.retryBaseDelay * time.Duration(1<<uint(attempt))
		if d, ok := retryAfter(resp.Header.Get("Retry-After"), time.Now()); ok {
			delay = d
		}
		if delay > maxRetryDelay {
			delay = maxRetryDelay
		}

		logging.Warn().Str("operation", op).Int("attempt", attempt+1).Dur("delay", delay).Msg("Upstream rate limited, backing off")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// isRateLimited recognizes HTTP 429 and GitHub's exhausted-quota 403.
func isRateLimited(resp *http.Response) bool {
	if resp.StatusCode == http.StatusTooManyRequests {
		return true
	}
	return resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0"
}

// retryAfter parses a Retry-After header given as seconds or as an HTTP date.
func retryAfter(value string, now time.Time) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second, true
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(now); d > 0 {
			return d, true
		}
		return 0, true
	}
	return 0, false
}

// readBodyForError reads at most maxErrorBodySize bytes for error reporting.
func readBodyForError(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return "(failed to read response body)"
	}
	return strings.TrimSpace(string(body))
}
