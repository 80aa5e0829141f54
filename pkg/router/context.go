package router

import (
	"net/http"

	"github.com/calder-io/dispatch/pkg/scontext"
)

// GetParams returns the path parameters extracted for the matched route.
// Returns an empty set when no route has matched.
func GetParams[T comparable](r *http.Request) scontext.Params {
	params, ok := scontext.GetPathParamsFromRequest[T](r)
	if !ok {
		return scontext.Params{}
	}
	return params
}

// GetParam returns the named path parameter, or an empty string when the
// parameter is absent.
func GetParam[T comparable](r *http.Request, name string) string {
	return GetParams[T](r)[name]
}
