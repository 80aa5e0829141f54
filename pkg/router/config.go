// Package router provides the HTTP dispatch pipeline: route-table compilation
// and matching, the ordered cross-cutting stages (CORS, request identification,
// authentication, input validation), and uniform response rendering.
package router

import (
	"context"
	"time"

	"github.com/calder-io/dispatch/pkg/common"
	"github.com/calder-io/dispatch/pkg/metrics"
	"github.com/calder-io/dispatch/pkg/scontext"
	"github.com/calder-io/dispatch/pkg/validation"
	"go.uber.org/zap"
)

// AuthRequirement defines the per-route authentication policy.
type AuthRequirement int

const (
	// NoAuth indicates that no authentication is attempted for the route.
	// The authentication capability is never invoked; the principal stays anonymous.
	NoAuth AuthRequirement = iota

	// AuthOptional indicates that authentication is attempted but not enforced.
	// The resolved principal (authenticated or anonymous) is attached to the
	// request and the handler runs either way.
	AuthOptional

	// AuthRequired indicates that an authenticated principal is mandatory.
	// If the resolved principal is anonymous the request is rejected with a
	// 401 and the handler is never invoked.
	AuthRequired
)

// CORSConfig defines the Cross-Origin Resource Sharing headers attached to
// every response. The configuration is read once at construction time and is
// immutable for the process lifetime.
// With a single entry (or "*") the Allow-Origin header is static; with
// several entries the request's Origin is echoed back when it is in the list,
// since the header itself admits only one origin.
type CORSConfig struct {
	AllowOrigin  []string      // Allowed origins (e.g., "https://example.com", "*")
	AllowHeaders []string      // Allowed request headers
	AllowMethods []string      // Allowed methods
	MaxAge       time.Duration // How long preflight results may be cached (0 omits the header)
}

// DefaultCORSConfig returns the CORS policy used when none is configured:
// any origin, the common verbs, and the headers the pipeline itself relies on.
func DefaultCORSConfig() *CORSConfig {
	return &CORSConfig{
		AllowOrigin:  []string{"*"},
		AllowHeaders: []string{"Content-Type", "Authorization", "X-Request-ID"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		MaxAge:       24 * time.Hour,
	}
}

// AuthService is the external authentication capability. The dispatcher
// invokes it with normalized request headers (lower-cased keys, multi-values
// joined) and the request's cookies. Implementations signal "no identity" by
// returning the anonymous principal; returned errors and panics are treated
// as anonymous rather than propagated.
type AuthService[T comparable] interface {
	Authenticate(ctx context.Context, headers map[string]string, cookies map[string]string) (scontext.Principal[T], error)
}

// AuthServiceFunc adapts a plain function to the AuthService interface.
type AuthServiceFunc[T comparable] func(ctx context.Context, headers map[string]string, cookies map[string]string) (scontext.Principal[T], error)

// Authenticate implements AuthService.
func (f AuthServiceFunc[T]) Authenticate(ctx context.Context, headers map[string]string, cookies map[string]string) (scontext.Principal[T], error) {
	return f(ctx, headers, cookies)
}

// ResponseHook may rewrite a handler response (status, body, headers) before
// it is written. Returning nil leaves the response unchanged.
type ResponseHook[T comparable] func(req Request[T], resp *Response) *Response

// Config defines the dispatcher configuration. It is consumed once by New;
// the resulting router shares no mutable state across requests.
type Config[T comparable] struct {
	// ServiceName tags logs and metrics.
	ServiceName string

	// Logger receives all pipeline logs. A production logger is created when nil.
	Logger *zap.Logger

	// BasePath is prefixed to every route template and to the reserved health path.
	BasePath string

	// CORS is the CORS policy applied to every response.
	// DefaultCORSConfig() is used when nil.
	CORS *CORSConfig

	// Auth is the external authentication capability. Routes declaring
	// AuthOptional or AuthRequired resolve their principal through it.
	Auth AuthService[T]

	// Debug enables structured per-request trace logging. It has no
	// behavioral effect on dispatch.
	Debug bool

	// RequestIDHeader is the header used to propagate the request's
	// correlation identifier. Defaults to "X-Request-ID".
	RequestIDHeader string

	// RequestIDBufferSize sizes the pre-generated request-ID pool.
	// Defaults to 1024.
	RequestIDBufferSize int

	// Metrics, when set, receives one fire-and-forget observation per request.
	Metrics metrics.Collector

	// ResponseHook, when set, may rewrite handler responses before writing.
	ResponseHook ResponseHook[T]

	// Middlewares are applied around the whole pipeline, outermost first.
	// The stage order inside the pipeline is fixed and unaffected.
	Middlewares []common.Middleware

	// Routes is the ordered route table. Declaration order is part of the
	// public contract: overlapping templates resolve to the first match.
	Routes []Route[T]
}

// Route binds one (method, path template, auth requirement) triple to a
// use-case handler. Path templates use ":name" segments as parameter markers;
// every other segment matches literally.
type Route[T comparable] struct {
	Method    string
	Path      string
	AuthLevel AuthRequirement

	// Schema, when set, validates the combined request input
	// ({body, params, query}) before the handler runs.
	Schema validation.Validator

	Handler HandlerFunc[T]
}
