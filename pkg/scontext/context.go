// Package scontext stores per-request pipeline state in a request context.
//
// All values the pipeline attaches to a request live in a single wrapper
// struct under one context key, avoiding deep nesting of context values.
// The type parameter T is the principal's external-ID type.
package scontext

import (
	"context"
	"net/http"

	"gorm.io/gorm"
)

// dispatchContextKey is a private type for the context key to avoid collisions.
type dispatchContextKey struct{}

// Params holds path parameters extracted by the router, keyed by the
// parameter names that appeared in the route template.
type Params map[string]string

// Principal is the identity attached to a request. It is either an
// authenticated identity carrying an opaque external ID, or the anonymous
// sentinel. The pipeline never represents "no principal" as a nil value:
// "no auth attempted" and "anonymous" are the same Principal.
type Principal[T comparable] struct {
	ID        T
	Anonymous bool
}

// Anonymous returns the anonymous principal sentinel.
func Anonymous[T comparable]() Principal[T] {
	return Principal[T]{Anonymous: true}
}

// Authenticated returns a principal for the given external ID.
func Authenticated[T comparable](id T) Principal[T] {
	return Principal[T]{ID: id}
}

// DatabaseTransaction defines essential transaction control methods.
// It abstracts gorm transactions so handlers and tests can substitute fakes.
type DatabaseTransaction interface {
	Commit() error
	Rollback() error
	SavePoint(name string) error
	RollbackTo(name string) error
	// GetDB returns the underlying GORM DB instance for direct use when needed.
	GetDB() *gorm.DB
}

// DispatchContext holds all values the pipeline adds to request contexts.
// T is the principal's external-ID type (comparable).
type DispatchContext[T comparable] struct {
	RequestID string
	Principal Principal[T]

	// Route information, populated once a route has matched.
	RouteTemplate string
	PathParams    Params

	// ValidatedInput is the candidate accepted by the validation stage.
	ValidatedInput map[string]any

	Transaction DatabaseTransaction

	RequestIDSet     bool
	PrincipalSet     bool
	RouteTemplateSet bool
	InputSet         bool
	TransactionSet   bool
}

// NewDispatchContext creates an empty per-request context wrapper.
func NewDispatchContext[T comparable]() *DispatchContext[T] {
	return &DispatchContext[T]{}
}

// GetDispatchContext retrieves the wrapper from a request context.
func GetDispatchContext[T comparable](ctx context.Context) (*DispatchContext[T], bool) {
	dc, ok := ctx.Value(dispatchContextKey{}).(*DispatchContext[T])
	return dc, ok
}

// WithDispatchContext adds or replaces the wrapper in the request context.
func WithDispatchContext[T comparable](ctx context.Context, dc *DispatchContext[T]) context.Context {
	return context.WithValue(ctx, dispatchContextKey{}, dc)
}

// EnsureDispatchContext retrieves the wrapper, creating it if absent.
func EnsureDispatchContext[T comparable](ctx context.Context) (*DispatchContext[T], context.Context) {
	dc, ok := GetDispatchContext[T](ctx)
	if !ok {
		dc = NewDispatchContext[T]()
		ctx = WithDispatchContext(ctx, dc)
	}
	return dc, ctx
}

// WithRequestID records the request's correlation identifier. An identifier
// that is already set is not overwritten; the value is fixed for the lifetime
// of the request.
func WithRequestID[T comparable](ctx context.Context, requestID string) context.Context {
	dc, ctx := EnsureDispatchContext[T](ctx)
	if dc.RequestIDSet {
		return ctx
	}
	dc.RequestID = requestID
	dc.RequestIDSet = true
	return ctx
}

// GetRequestID retrieves the request's correlation identifier.
// Returns an empty string if none has been assigned yet.
func GetRequestID[T comparable](ctx context.Context) string {
	dc, ok := GetDispatchContext[T](ctx)
	if !ok || !dc.RequestIDSet {
		return ""
	}
	return dc.RequestID
}

// GetRequestIDFromRequest is a convenience function to get the request ID from a request.
func GetRequestIDFromRequest[T comparable](r *http.Request) string {
	return GetRequestID[T](r.Context())
}

// WithPrincipal attaches the resolved principal to the context.
func WithPrincipal[T comparable](ctx context.Context, p Principal[T]) context.Context {
	dc, ctx := EnsureDispatchContext[T](ctx)
	dc.Principal = p
	dc.PrincipalSet = true
	return ctx
}

// GetPrincipal retrieves the principal from the context. If the auth stage has
// not run, the anonymous sentinel is returned.
func GetPrincipal[T comparable](ctx context.Context) Principal[T] {
	dc, ok := GetDispatchContext[T](ctx)
	if !ok || !dc.PrincipalSet {
		return Anonymous[T]()
	}
	return dc.Principal
}

// GetPrincipalFromRequest is a convenience function to get the principal from a request.
func GetPrincipalFromRequest[T comparable](r *http.Request) Principal[T] {
	return GetPrincipal[T](r.Context())
}

// WithRouteInfo records the matched route template and extracted path parameters.
func WithRouteInfo[T comparable](ctx context.Context, template string, params Params) context.Context {
	dc, ctx := EnsureDispatchContext[T](ctx)
	dc.RouteTemplate = template
	dc.PathParams = params
	dc.RouteTemplateSet = true
	return ctx
}

// GetRouteTemplate retrieves the matched route template from the context.
func GetRouteTemplate[T comparable](ctx context.Context) (string, bool) {
	dc, ok := GetDispatchContext[T](ctx)
	if !ok || !dc.RouteTemplateSet {
		return "", false
	}
	return dc.RouteTemplate, true
}

// GetPathParams retrieves the extracted path parameters from the context.
func GetPathParams[T comparable](ctx context.Context) (Params, bool) {
	dc, ok := GetDispatchContext[T](ctx)
	if !ok || !dc.RouteTemplateSet {
		return nil, false
	}
	return dc.PathParams, true
}

// GetPathParamsFromRequest is a convenience function to get the path parameters from a request.
func GetPathParamsFromRequest[T comparable](r *http.Request) (Params, bool) {
	return GetPathParams[T](r.Context())
}

// WithValidatedInput records the input accepted by the validation stage.
func WithValidatedInput[T comparable](ctx context.Context, input map[string]any) context.Context {
	dc, ctx := EnsureDispatchContext[T](ctx)
	dc.ValidatedInput = input
	dc.InputSet = true
	return ctx
}

// GetValidatedInput retrieves the validated input from the context.
func GetValidatedInput[T comparable](ctx context.Context) (map[string]any, bool) {
	dc, ok := GetDispatchContext[T](ctx)
	if !ok || !dc.InputSet {
		return nil, false
	}
	return dc.ValidatedInput, true
}

// WithTransaction adds a database transaction to the context.
func WithTransaction[T comparable](ctx context.Context, tx DatabaseTransaction) context.Context {
	dc, ctx := EnsureDispatchContext[T](ctx)
	dc.Transaction = tx
	dc.TransactionSet = true
	return ctx
}

// GetTransaction retrieves the database transaction from the context.
func GetTransaction[T comparable](ctx context.Context) (DatabaseTransaction, bool) {
	dc, ok := GetDispatchContext[T](ctx)
	if !ok || !dc.TransactionSet {
		return nil, false
	}
	return dc.Transaction, true
}

// GetTransactionFromRequest is a convenience function to get the transaction from a request.
func GetTransactionFromRequest[T comparable](r *http.Request) (DatabaseTransaction, bool) {
	return GetTransaction[T](r.Context())
}
