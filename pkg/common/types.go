// Package common provides shared types used across the dispatch framework.
package common

import "net/http"

// Middleware defines the type for HTTP middleware functions.
// It takes an http.Handler and returns an http.Handler.
type Middleware func(http.Handler) http.Handler

// MiddlewareChain is an ordered collection of middlewares that can be applied
// to a handler as a single unit. The first middleware in the chain is the
// outermost wrapper (the first to see the request, the last to see the response).
type MiddlewareChain struct {
	middlewares []Middleware
}

// NewMiddlewareChain creates a new, empty middleware chain.
func NewMiddlewareChain(middlewares ...Middleware) MiddlewareChain {
	return MiddlewareChain{middlewares: middlewares}
}

// Append returns a new chain with the given middlewares added to the end.
// The receiver is not modified.
func (c MiddlewareChain) Append(middlewares ...Middleware) MiddlewareChain {
	combined := make([]Middleware, 0, len(c.middlewares)+len(middlewares))
	combined = append(combined, c.middlewares...)
	combined = append(combined, middlewares...)
	return MiddlewareChain{middlewares: combined}
}

// Then applies the chain to the given handler and returns the wrapped handler.
func (c MiddlewareChain) Then(h http.Handler) http.Handler {
	for i := len(c.middlewares) - 1; i >= 0; i-- {
		h = c.middlewares[i](h)
	}
	return h
}
