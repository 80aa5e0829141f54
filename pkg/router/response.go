package router

import (
	"net/http"

	"github.com/calder-io/dispatch/pkg/scontext"
)

// Request carries the inputs a use-case handler receives: the validated
// input, the resolved principal, and the request's correlation identifier.
type Request[T comparable] struct {
	Input     map[string]any
	Principal scontext.Principal[T]
	RequestID string
}

// HandlerFunc is the external use-case capability bound to a route. Domain
// failures are returned as error values (typically *apperr.Error) and routed
// through the taxonomy mapper; only unexpected panics cross the pipeline's
// exception boundary.
type HandlerFunc[T comparable] func(r *http.Request, req Request[T]) (*Response, error)

// Response is a handler's successful result. Headers are applied after the
// CORS and request-id headers, so handler-declared values win where they overlap.
type Response struct {
	Status  int
	Body    any
	Headers map[string]string
}

// Pagination describes the page window of a list response.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
}

type dataEnvelope struct {
	Data any `json:"data"`
}

type listEnvelope struct {
	Items      any        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// OK returns a 200 response with the payload wrapped in the {data} envelope.
func OK(v any) *Response {
	return &Response{Status: http.StatusOK, Body: dataEnvelope{Data: v}}
}

// Created returns a 201 response with the payload wrapped in the {data} envelope.
func Created(v any) *Response {
	return &Response{Status: http.StatusCreated, Body: dataEnvelope{Data: v}}
}

// NoContent returns a 204 response with no body.
func NoContent() *Response {
	return &Response{Status: http.StatusNoContent}
}

// List returns a 200 response with the {items, pagination} envelope.
func List(items any, p Pagination) *Response {
	return &Response{Status: http.StatusOK, Body: listEnvelope{Items: items, Pagination: p}}
}

// Raw returns a response with the given status and body, bypassing the
// success envelopes. The body is still JSON-encoded.
func Raw(status int, body any) *Response {
	return &Response{Status: status, Body: body}
}
