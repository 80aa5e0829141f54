package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/calder-io/dispatch/pkg/apperr"
	"github.com/calder-io/dispatch/pkg/common"
	"github.com/calder-io/dispatch/pkg/metrics"
	"github.com/calder-io/dispatch/pkg/middleware"
	"github.com/calder-io/dispatch/pkg/scontext"
	"go.uber.org/zap"
)

const defaultRequestIDHeader = "X-Request-ID"

// Router is the dispatch pipeline. It implements http.Handler and executes a
// fixed ordered sequence of stages for every inbound request: CORS preflight,
// request identification, built-in health check, route resolution, the
// authentication gate, the validation gate, use-case invocation, and response
// assembly — under a single top-level exception boundary.
//
// The compiled route table, CORS headers, and configuration are computed once
// in New and never mutated, so a Router is safe for concurrent use without
// locking; all per-request state lives in the request context.
type Router[T comparable] struct {
	config     Config[T]
	table      *routeTable[T]
	logger     *zap.Logger
	cors       *corsPolicy
	healthPath string
	idHeader   string
	idGen      *middleware.IDGenerator
	handler    http.Handler

	wg         sync.WaitGroup
	shutdown   bool
	shutdownMu sync.RWMutex
}

// New compiles the route table and builds the pipeline. The configuration is
// treated as immutable from this point on.
func New[T comparable](config Config[T]) (*Router[T], error) {
	logger := config.Logger
	if logger == nil {
		var err error
		logger, err = zap.NewProduction()
		if err != nil {
			logger = zap.NewNop()
		}
	}

	table, err := newRouteTable(config.BasePath, config.Routes)
	if err != nil {
		return nil, err
	}

	cors := config.CORS
	if cors == nil {
		cors = DefaultCORSConfig()
	}

	idHeader := config.RequestIDHeader
	if idHeader == "" {
		idHeader = defaultRequestIDHeader
	}

	bufferSize := config.RequestIDBufferSize
	if bufferSize <= 0 {
		bufferSize = 1024
	}

	r := &Router[T]{
		config:     config,
		table:      table,
		logger:     logger.Named("dispatch"),
		cors:       buildCORSPolicy(cors),
		healthPath: config.BasePath + "/health",
		idHeader:   idHeader,
		idGen:      middleware.NewIDGenerator(bufferSize),
	}

	chain := common.NewMiddlewareChain(config.Middlewares...)
	r.handler = chain.Then(http.HandlerFunc(r.dispatch))

	return r, nil
}

// ServeHTTP implements the http.Handler interface.
func (r *Router[T]) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

// dispatch runs the stage sequence for one request.
func (r *Router[T]) dispatch(w http.ResponseWriter, req *http.Request) {
	r.wg.Add(1)
	defer r.wg.Done()

	r.shutdownMu.RLock()
	isShutdown := r.shutdown
	r.shutdownMu.RUnlock()
	if isShutdown {
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}

	start := time.Now()
	sw := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}

	// Request identification. The identifier is fixed here for the remainder
	// of the request and echoed on every response, including preflight and
	// panic responses.
	requestID := req.Header.Get(r.idHeader)
	if requestID == "" {
		requestID = r.idGen.GetIDNonBlocking()
	}
	req = req.WithContext(scontext.WithRequestID[T](req.Context(), requestID))

	sw.Header().Set(r.idHeader, requestID)
	r.cors.apply(sw.Header(), req)

	// Top-level exception boundary: any panic from the remaining stages or
	// the handler becomes a uniform 500 envelope.
	defer func() {
		if rec := recover(); rec != nil {
			fields := append(r.requestFields(req), zap.Any("panic", rec))
			r.logger.Error("Panic recovered", fields...)
			r.writeError(sw, req, panicError(rec))
		}
		r.finish(sw, req, start)
	}()

	// CORS preflight short-circuit: no further stage runs.
	if req.Method == http.MethodOptions {
		sw.Header().Set("Content-Type", "text/plain; charset=utf-8")
		sw.WriteHeader(http.StatusOK)
		_, _ = sw.Write([]byte("ok"))
		return
	}

	// Built-in health check, bypassing routing entirely.
	if req.URL.Path == r.healthPath {
		r.writeJSON(sw, http.StatusOK, healthBody{
			Status:    "healthy",
			Timestamp: apperr.Timestamp(time.Now()),
			RequestID: requestID,
		})
		return
	}

	// Route resolution.
	cr, params, ok := r.table.match(req.Method, req.URL.Path)
	if !ok {
		err := apperr.NotFound("route", req.Method+" "+req.URL.Path)
		err.Message = fmt.Sprintf("Route %s %s not found", req.Method, req.URL.Path)
		r.writeError(sw, req, err)
		return
	}
	req = req.WithContext(scontext.WithRouteInfo[T](req.Context(), cr.template, params))

	// Authentication gate. For NoAuth routes the capability is never invoked.
	principal := scontext.Anonymous[T]()
	if cr.route.AuthLevel != NoAuth {
		principal = r.authenticate(req)
		if cr.route.AuthLevel == AuthRequired && principal.Anonymous {
			r.writeError(sw, req, apperr.Unauthorized("Authentication required"))
			return
		}
	}
	req = req.WithContext(scontext.WithPrincipal[T](req.Context(), principal))

	// Input validation against the combined {body, params, query} candidate.
	candidate, err := r.buildCandidate(req, params, cr.route.Schema != nil)
	if err != nil {
		r.writeError(sw, req, err)
		return
	}
	input := candidate
	if cr.route.Schema != nil {
		result := cr.route.Schema.Validate(candidate)
		if !result.Success {
			r.writeError(sw, req, apperr.Validation("Request validation failed", result.Errors))
			return
		}
		if result.Data != nil {
			input = result.Data
		}
	}
	req = req.WithContext(scontext.WithValidatedInput[T](req.Context(), input))

	// Use-case invocation.
	resp, handlerErr := cr.route.Handler(req, Request[T]{
		Input:     input,
		Principal: principal,
		RequestID: requestID,
	})
	if handlerErr != nil {
		r.writeError(sw, req, handlerErr)
		return
	}
	if resp == nil {
		r.writeError(sw, req, errors.New("handler returned no response"))
		return
	}

	// Response assembly: CORS and request-id headers are already set; the
	// hook may rewrite the response; handler headers are applied last.
	if r.config.ResponseHook != nil {
		if rewritten := r.config.ResponseHook(Request[T]{Input: input, Principal: principal, RequestID: requestID}, resp); rewritten != nil {
			resp = rewritten
		}
	}
	for name, value := range resp.Headers {
		sw.Header().Set(name, value)
	}
	r.writeJSON(sw, resp.Status, resp.Body)
}

// healthBody is the static payload of the reserved health path.
type healthBody struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	RequestID string `json:"requestId"`
}

// authenticate resolves the request's principal through the external
// authentication capability. Failures never propagate: errors and panics from
// the capability resolve to the anonymous principal.
func (r *Router[T]) authenticate(req *http.Request) (principal scontext.Principal[T]) {
	principal = scontext.Anonymous[T]()
	if r.config.Auth == nil {
		return principal
	}

	defer func() {
		if rec := recover(); rec != nil {
			fields := append(r.requestFields(req), zap.Any("panic", rec))
			r.logger.Warn("Authentication capability panicked", fields...)
			principal = scontext.Anonymous[T]()
		}
	}()

	resolved, err := r.config.Auth.Authenticate(req.Context(), normalizeHeaders(req.Header), map[string]string{})
	if err != nil {
		fields := append(r.requestFields(req), zap.Error(err))
		r.logger.Debug("Authentication failed", fields...)
		return principal
	}
	return resolved
}

// buildCandidate assembles the validation candidate from the parsed body,
// extracted path parameters, and parsed query parameters.
//
// An empty or absent body validates as an empty object. A non-empty body that
// fails to parse is surfaced as a validation issue when the route declares a
// schema, and silently substituted with an empty object when it does not.
func (r *Router[T]) buildCandidate(req *http.Request, params scontext.Params, hasSchema bool) (map[string]any, error) {
	body, parseErr := parseBody(req)
	if parseErr != nil {
		if hasSchema {
			return nil, apperr.Validation("Request validation failed", []apperr.Issue{{
				Field:   "body",
				Message: "request body is not valid JSON",
				Code:    "invalid_json",
			}})
		}
		body = map[string]any{}
	}

	query := map[string]any{}
	for name, values := range req.URL.Query() {
		if len(values) > 0 {
			query[name] = values[0]
		}
	}

	paramsAny := make(map[string]any, len(params))
	for name, value := range params {
		paramsAny[name] = value
	}

	return map[string]any{
		"body":   body,
		"params": paramsAny,
		"query":  query,
	}, nil
}

// parseBody decodes the request body as a JSON object. Absent and empty
// bodies decode to an empty object.
func parseBody(req *http.Request) (map[string]any, error) {
	if req.Body == nil {
		return map[string]any{}, nil
	}
	raw, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, err
	}
	defer req.Body.Close()

	if len(raw) == 0 {
		return map[string]any{}, nil
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, err
	}
	if body == nil {
		body = map[string]any{}
	}
	return body, nil
}

// panicError converts a recovered panic value to an error, preserving the
// original message for the details.originalMessage field.
func panicError(rec any) error {
	if err, ok := rec.(error); ok {
		return err
	}
	return fmt.Errorf("%v", rec)
}

// writeError renders any error through the taxonomy mapper and logs it at a
// level matching the mapped status.
func (r *Router[T]) writeError(w http.ResponseWriter, req *http.Request, err error) {
	requestID := scontext.GetRequestIDFromRequest[T](req)
	status, envelope := apperr.ToHTTP(err, requestID)

	fields := append(r.requestFields(req),
		zap.Error(err),
		zap.Int("status", status),
	)
	if status >= 500 {
		r.logger.Error("Request failed", fields...)
	} else {
		r.logger.Warn("Request rejected", fields...)
	}

	r.writeJSON(w, status, envelope)
}

// writeJSON writes a JSON response body with the given status. A nil body
// writes the status code only.
func (r *Router[T]) writeJSON(w http.ResponseWriter, status int, body any) {
	if body == nil {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		r.logger.Error("Failed to write JSON response",
			zap.Error(err),
			zap.Int("status", status),
		)
	}
}

// finish emits the per-request debug trace and the fire-and-forget metrics
// observation. Neither affects the response.
func (r *Router[T]) finish(sw *statusWriter, req *http.Request, start time.Time) {
	duration := time.Since(start)

	if r.config.Metrics != nil {
		route, _ := scontext.GetRouteTemplate[T](req.Context())
		metrics.Notify(r.config.Metrics, metrics.RequestLabels{
			Method: req.Method,
			Route:  route,
			Status: sw.statusCode,
		}, duration)
	}

	if !r.config.Debug {
		return
	}

	fields := append(r.requestFields(req),
		zap.Int("status", sw.statusCode),
		zap.Duration("duration", duration),
		zap.Int64("bytes", sw.bytesWritten),
	)
	switch {
	case sw.statusCode >= 500:
		r.logger.Error("Request trace", fields...)
	case sw.statusCode >= 400 || duration > 1*time.Second:
		r.logger.Warn("Request trace", fields...)
	default:
		r.logger.Debug("Request trace", fields...)
	}
}

// requestFields builds the base log fields for a request, including the
// request id when one has been assigned.
func (r *Router[T]) requestFields(req *http.Request) []zap.Field {
	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
	}
	if r.config.ServiceName != "" {
		fields = append(fields, zap.String("service", r.config.ServiceName))
	}
	if requestID := scontext.GetRequestIDFromRequest[T](req); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	return fields
}

// Shutdown gracefully shuts down the router. It stops accepting new requests
// and waits for in-flight requests to complete or the context to expire.
func (r *Router[T]) Shutdown(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	r.shutdownMu.Lock()
	r.shutdown = true
	r.shutdownMu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// statusWriter is a wrapper around http.ResponseWriter that captures the
// status code and bytes written for tracing and metrics.
type statusWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int64
}

// WriteHeader captures the status code and calls the underlying ResponseWriter.WriteHeader.
func (sw *statusWriter) WriteHeader(statusCode int) {
	sw.statusCode = statusCode
	sw.ResponseWriter.WriteHeader(statusCode)
}

// Write captures the number of bytes written and calls the underlying ResponseWriter.Write.
func (sw *statusWriter) Write(b []byte) (int, error) {
	n, err := sw.ResponseWriter.Write(b)
	sw.bytesWritten += int64(n)
	return n, err
}

// Flush calls the underlying ResponseWriter.Flush if it implements http.Flusher.
func (sw *statusWriter) Flush() {
	if f, ok := sw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
