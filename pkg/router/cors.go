package router

import (
	"net/http"
	"strconv"
	"strings"
)

// corsPolicy is the precomputed, immutable form of a CORSConfig. The
// Allow-Headers/Methods/Max-Age headers are static; Allow-Origin admits only
// a single origin or "*" on the wire, so a multi-origin allow-list is
// resolved per request by echoing the request's Origin when it is allowed.
type corsPolicy struct {
	static  map[string]string
	origin  string          // non-empty when no per-request resolution is needed
	allowed map[string]bool // consulted when origin is empty
}

// buildCORSPolicy compiles the CORS configuration once at construction time.
// The result is read-only and safe to share across concurrent requests.
func buildCORSPolicy(cfg *CORSConfig) *corsPolicy {
	p := &corsPolicy{static: make(map[string]string, 3)}
	if len(cfg.AllowHeaders) > 0 {
		p.static["Access-Control-Allow-Headers"] = strings.Join(cfg.AllowHeaders, ", ")
	}
	if len(cfg.AllowMethods) > 0 {
		p.static["Access-Control-Allow-Methods"] = strings.Join(cfg.AllowMethods, ", ")
	}
	if cfg.MaxAge > 0 {
		p.static["Access-Control-Max-Age"] = strconv.Itoa(int(cfg.MaxAge.Seconds()))
	}

	switch {
	case len(cfg.AllowOrigin) == 1:
		p.origin = cfg.AllowOrigin[0]
	case len(cfg.AllowOrigin) > 1:
		p.allowed = make(map[string]bool, len(cfg.AllowOrigin))
		for _, origin := range cfg.AllowOrigin {
			if origin == "*" {
				p.origin = "*"
				p.allowed = nil
				break
			}
			p.allowed[origin] = true
		}
	}
	return p
}

// apply sets the CORS headers for one request. With a multi-origin allow-list
// the response varies by Origin, so Vary is set whether or not the request's
// origin is allowed; a disallowed origin gets no Allow-Origin header at all.
func (p *corsPolicy) apply(h http.Header, req *http.Request) {
	for name, value := range p.static {
		h.Set(name, value)
	}
	if p.origin != "" {
		h.Set("Access-Control-Allow-Origin", p.origin)
		return
	}
	if p.allowed == nil {
		return
	}
	h.Set("Vary", "Origin")
	if origin := req.Header.Get("Origin"); p.allowed[origin] {
		h.Set("Access-Control-Allow-Origin", origin)
	}
}

// normalizeHeaders lower-cases header names and joins multi-valued headers,
// producing the shape the authentication capability expects.
func normalizeHeaders(h http.Header) map[string]string {
	normalized := make(map[string]string, len(h))
	for name, values := range h {
		normalized[strings.ToLower(name)] = strings.Join(values, ", ")
	}
	return normalized
}
