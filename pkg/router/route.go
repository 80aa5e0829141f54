package router

import (
	"fmt"
	"strings"

	"github.com/calder-io/dispatch/pkg/scontext"
)

// segment is one compiled element of a path template. Either literal matches
// the path segment text exactly, or param names a capturing wildcard that
// matches exactly one non-empty path segment.
type segment struct {
	literal string
	param   string
}

// compiledRoute is the immutable build-time derivation of one Route. The
// matcher is anchored: it requires an exact total segment count and matches
// the full path, never a prefix.
type compiledRoute[T comparable] struct {
	method     string
	template   string
	segments   []segment
	paramNames []string
	route      Route[T]
}

// routeTable holds compiled routes in declaration order. Lookup is a linear
// scan returning the first structural and method match: overlapping templates
// resolve by declaration order, deliberately, not by specificity.
type routeTable[T comparable] struct {
	routes []*compiledRoute[T]
}

// newRouteTable compiles the declared routes, prefixing each template with
// basePath. Declaration order is preserved exactly.
func newRouteTable[T comparable](basePath string, routes []Route[T]) (*routeTable[T], error) {
	table := &routeTable[T]{routes: make([]*compiledRoute[T], 0, len(routes))}
	for i, route := range routes {
		compiled, err := compileRoute(basePath, route)
		if err != nil {
			return nil, fmt.Errorf("route %d (%s %s): %w", i, route.Method, route.Path, err)
		}
		table.routes = append(table.routes, compiled)
	}
	return table, nil
}

func compileRoute[T comparable](basePath string, route Route[T]) (*compiledRoute[T], error) {
	if route.Method == "" {
		return nil, fmt.Errorf("method must not be empty")
	}
	if !strings.HasPrefix(route.Path, "/") {
		return nil, fmt.Errorf("path must begin with %q", "/")
	}
	if route.Handler == nil {
		return nil, fmt.Errorf("handler must not be nil")
	}

	template := basePath + route.Path
	parts := strings.Split(template, "/")
	segments := make([]segment, 0, len(parts))
	var paramNames []string
	for _, part := range parts {
		if strings.HasPrefix(part, ":") {
			name := part[1:]
			if name == "" {
				return nil, fmt.Errorf("parameter segment in %q has no name", template)
			}
			segments = append(segments, segment{param: name})
			paramNames = append(paramNames, name)
			continue
		}
		segments = append(segments, segment{literal: part})
	}

	return &compiledRoute[T]{
		method:     strings.ToUpper(route.Method),
		template:   template,
		segments:   segments,
		paramNames: paramNames,
		route:      route,
	}, nil
}

// match resolves (method, pathname) to the first compiled route whose method
// and segment structure both match, along with the extracted parameters.
// Matching is case-insensitive on method only; parameter values are the raw
// path segment text. Returns false for a wrong method, wrong segment count,
// unmatched literal, or an empty table.
func (t *routeTable[T]) match(method, pathname string) (*compiledRoute[T], scontext.Params, bool) {
	method = strings.ToUpper(method)
	parts := strings.Split(pathname, "/")

	for _, cr := range t.routes {
		if cr.method != method {
			continue
		}
		params, ok := cr.matchSegments(parts)
		if ok {
			return cr, params, true
		}
	}
	return nil, nil, false
}

// matchSegments checks one route against the split path. Parameters bind to
// names positionally, in template order.
func (cr *compiledRoute[T]) matchSegments(parts []string) (scontext.Params, bool) {
	if len(parts) != len(cr.segments) {
		return nil, false
	}

	var params scontext.Params
	for i, seg := range cr.segments {
		if seg.param != "" {
			// A wildcard consumes exactly one non-empty segment.
			if parts[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(scontext.Params, len(cr.paramNames))
			}
			params[seg.param] = parts[i]
			continue
		}
		if seg.literal != parts[i] {
			return nil, false
		}
	}
	if params == nil {
		params = scontext.Params{}
	}
	return params, true
}
