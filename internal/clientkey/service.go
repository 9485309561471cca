// Package clientkey obtains the avatar service's client key, reusing a
// recently acquired one when possible.
package clientkey

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/denis-hade/hade-avatar-server/internal/api"
	"github.com/denis-hade/hade-avatar-server/internal/domain"
	"github.com/denis-hade/hade-avatar-server/internal/metrics"
)

// NoteFetchedAfterExists marks a key read back after the create call reported
// that one already exists.
const NoteFetchedAfterExists = "fetched_after_exists"

// DefaultExistsMarker is matched against the create call's error description.
const DefaultExistsMarker = "already exists"

// keyFields lists the spellings the key may be returned under, in priority order.
var keyFields = []string{"client_key", "clientKey", "key"}

// descriptionFields lists where the upstream puts its error text.
var descriptionFields = []string{"description", "message", "error"}

// Upstream is the avatar service's client-key resource.
type Upstream interface {
	GetClientKey(ctx context.Context) (*api.Response, error)
	CreateClientKey(ctx context.Context, allowedDomains []string) (*api.Response, error)
}

// ExistsPredicate reports whether a failed create call's description means
// the key already exists.
//
// The upstream does not document its error vocabulary, so this is a wording
// heuristic and may need adjusting if the service rephrases its messages.
type ExistsPredicate func(description string) bool

// ContainsMarker matches descriptions containing marker, ignoring case. An
// empty marker selects DefaultExistsMarker.
func ContainsMarker(marker string) ExistsPredicate {
	if marker == "" {
		marker = DefaultExistsMarker
	}
	marker = strings.ToLower(marker)
	return func(description string) bool {
		return strings.Contains(strings.ToLower(description), marker)
	}
}

// Result is an acquired key and how it was obtained.
type Result struct {
	ClientKey string `json:"clientKey"`
	Cached    bool   `json:"cached,omitempty"`
	Note      string `json:"note,omitempty"`
}

// Option configures a Service.
type Option func(*Service)

// WithCache replaces the default cache.
func WithCache(cache *Cache) Option {
	return func(s *Service) {
		if cache != nil {
			s.cache = cache
		}
	}
}

// WithExistsPredicate overrides how "already exists" failures are detected.
func WithExistsPredicate(p ExistsPredicate) Option {
	return func(s *Service) {
		if p != nil {
			s.exists = p
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Service runs the acquisition protocol and owns the key cache.
type Service struct {
	upstream       Upstream
	allowedDomains []string
	cache          *Cache
	exists         ExistsPredicate
	logger         *slog.Logger
}

// NewService creates a Service. allowedDomains is sent when a key has to be created.
func NewService(upstream Upstream, allowedDomains []string, opts ...Option) *Service {
	s := &Service{
		upstream:       upstream,
		allowedDomains: allowedDomains,
		cache:          NewCache(DefaultTTL, nil),
		exists:         ContainsMarker(DefaultExistsMarker),
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Acquire returns a usable client key. In order it tries the cache, a read of
// the existing key, and a create call; when the create call reports that a
// key already exists, the key is read one more time. Nothing is retried
// beyond that.
func (s *Service) Acquire(ctx context.Context) (*Result, error) {
	if key, ok := s.cache.Get(); ok {
		metrics.ObserveClientKey("cache_hit")
		return &Result{ClientKey: key, Cached: true}, nil
	}

	res, err := s.acquire(ctx)
	if err != nil {
		metrics.ObserveClientKey("error")
		return nil, err
	}
	s.cache.Set(res.ClientKey)
	return res, nil
}

func (s *Service) acquire(ctx context.Context) (*Result, error) {
	read, err := s.upstream.GetClientKey(ctx)
	if err != nil {
		return nil, transportError("read client key", err)
	}
	if read.OK() {
		if key := extractKey(read); key != "" {
			metrics.ObserveClientKey("fetched")
			return &Result{ClientKey: key}, nil
		}
	}
	s.logger.Info("client key not readable, creating one",
		slog.Int("status", read.StatusCode),
	)

	if len(s.allowedDomains) == 0 {
		return nil, domain.ErrConfig("avatar service allowed domain is not configured")
	}

	created, err := s.upstream.CreateClientKey(ctx, s.allowedDomains)
	if err != nil {
		return nil, transportError("create client key", err)
	}

	if created.OK() {
		key := extractKey(created)
		if key == "" {
			return nil, domain.ErrUpstream("no client key returned").
				WithCode(domain.ErrorCodeDID).
				WithDetails(created.Payload())
		}
		metrics.ObserveClientKey("created")
		return &Result{ClientKey: key}, nil
	}

	description := api.String(created.Object(), descriptionFields...)
	if !s.exists(description) {
		return nil, domain.ErrUpstream(fmt.Sprintf("create client key failed with status %d", created.StatusCode)).
			WithCode(domain.ErrorCodeDID).
			WithUpstreamStatus(created.StatusCode).
			WithDetails(created.Payload())
	}

	s.logger.Warn("client key already exists, reading it back",
		slog.Int("status", created.StatusCode),
		slog.String("description", description),
	)

	recovery, err := s.upstream.GetClientKey(ctx)
	if err != nil {
		return nil, transportError("read existing client key", err)
	}
	key := ""
	if recovery.OK() {
		key = extractKey(recovery)
	}
	if key == "" {
		return nil, domain.ErrUpstream("client key exists but could not be fetched").
			WithCode(domain.ErrorCodeDID).
			WithDetails(recovery.Payload())
	}

	metrics.ObserveClientKey(NoteFetchedAfterExists)
	return &Result{ClientKey: key, Note: NoteFetchedAfterExists}, nil
}

// extractKey looks for the key at the top level of the body, then inside a
// "data" object.
func extractKey(resp *api.Response) string {
	obj := resp.Object()
	if key := api.String(obj, keyFields...); key != "" {
		return key
	}
	if data, ok := obj["data"].(map[string]any); ok {
		return api.String(data, keyFields...)
	}
	return ""
}

func transportError(op string, err error) error {
	return domain.ErrServer(fmt.Sprintf("%s: %v", op, err)).WithCause(err)
}
