package router_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/calder-io/dispatch/pkg/apperr"
	"github.com/calder-io/dispatch/pkg/common"
	"github.com/calder-io/dispatch/pkg/router"
	"github.com/calder-io/dispatch/pkg/scontext"
	"github.com/calder-io/dispatch/pkg/validation"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type errorEnvelope struct {
	Error struct {
		Code      string         `json:"code"`
		Message   string         `json:"message"`
		Details   map[string]any `json:"details"`
		RequestID string         `json:"requestId"`
		Timestamp string         `json:"timestamp"`
	} `json:"error"`
}

func newTestRouter(t *testing.T, cfg router.Config[string]) *router.Router[string] {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	r, err := router.New(cfg)
	require.NoError(t, err)
	return r
}

func perform(r http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for name, value := range headers {
		req.Header.Set(name, value)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func okHandler(r *http.Request, req router.Request[string]) (*router.Response, error) {
	return router.OK(map[string]any{"handled": true}), nil
}

// staticAuth returns a fixed principal for every request.
func staticAuth(p scontext.Principal[string]) router.AuthServiceFunc[string] {
	return func(ctx context.Context, headers, cookies map[string]string) (scontext.Principal[string], error) {
		return p, nil
	}
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t, router.Config[string]{BasePath: "/api"})

	rec := perform(r, http.MethodGet, "/api/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var body struct {
		Status    string `json:"status"`
		Timestamp string `json:"timestamp"`
		RequestID string `json:"requestId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.NotEmpty(t, body.Timestamp)
	assert.Equal(t, rec.Header().Get("X-Request-ID"), body.RequestID)
}

func TestNotFound(t *testing.T) {
	r := newTestRouter(t, router.Config[string]{BasePath: "/api"})

	rec := perform(r, http.MethodGet, "/api/unknown", "", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	env := decodeError(t, rec)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
	assert.Contains(t, env.Error.Message, "GET")
	assert.Contains(t, env.Error.Message, "/api/unknown")
	assert.NotEmpty(t, env.Error.RequestID)
}

func TestRequestIDPropagatedVerbatim(t *testing.T) {
	r := newTestRouter(t, router.Config[string]{
		Routes: []router.Route[string]{{Method: "GET", Path: "/ping", Handler: okHandler}},
	})

	headers := map[string]string{"X-Request-ID": "existing-id-123"}

	rec := perform(r, http.MethodGet, "/ping", "", headers)
	assert.Equal(t, "existing-id-123", rec.Header().Get("X-Request-ID"))

	// Error responses carry the same inbound identifier.
	rec = perform(r, http.MethodGet, "/missing", "", headers)
	assert.Equal(t, "existing-id-123", rec.Header().Get("X-Request-ID"))
	env := decodeError(t, rec)
	assert.Equal(t, "existing-id-123", env.Error.RequestID)
}

func TestRequestIDGenerated(t *testing.T) {
	r := newTestRouter(t, router.Config[string]{
		Routes: []router.Route[string]{{Method: "GET", Path: "/ping", Handler: okHandler}},
	})

	first := perform(r, http.MethodGet, "/ping", "", nil).Header().Get("X-Request-ID")
	second := perform(r, http.MethodGet, "/ping", "", nil).Header().Get("X-Request-ID")

	require.NotEmpty(t, first)
	_, err := uuid.Parse(first)
	assert.NoError(t, err, "generated request id must be a valid UUID")
	assert.NotEqual(t, first, second)
}

func TestRequestIDUniqueAcrossConcurrentRequests(t *testing.T) {
	r := newTestRouter(t, router.Config[string]{
		Routes: []router.Route[string]{{Method: "GET", Path: "/ping", Handler: okHandler}},
	})

	const n = 50
	var mu sync.Mutex
	seen := make(map[string]bool, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := perform(r, http.MethodGet, "/ping", "", nil).Header().Get("X-Request-ID")
			mu.Lock()
			seen[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, n, "no two requests may share a generated id")
}

func TestAuthRequiredRejectsAnonymous(t *testing.T) {
	var handlerCalls atomic.Int32
	r := newTestRouter(t, router.Config[string]{
		BasePath: "/api",
		Auth:     staticAuth(scontext.Anonymous[string]()),
		Routes: []router.Route[string]{{
			Method:    "DELETE",
			Path:      "/organizations/:orgId/members/:userId",
			AuthLevel: router.AuthRequired,
			Handler: func(r *http.Request, req router.Request[string]) (*router.Response, error) {
				handlerCalls.Add(1)
				return router.NoContent(), nil
			},
		}},
	})

	rec := perform(r, http.MethodDelete, "/api/organizations/org-1/members/user-1", "", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	env := decodeError(t, rec)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
	assert.NotEmpty(t, env.Error.RequestID)
	assert.Equal(t, int32(0), handlerCalls.Load(), "handler must not run when auth is required and anonymous")
}

func TestAuthNoneNeverInvokesCapability(t *testing.T) {
	var authCalls atomic.Int32
	auth := router.AuthServiceFunc[string](func(ctx context.Context, headers, cookies map[string]string) (scontext.Principal[string], error) {
		authCalls.Add(1)
		return scontext.Authenticated("user-1"), nil
	})

	r := newTestRouter(t, router.Config[string]{
		Auth: auth,
		Routes: []router.Route[string]{{
			Method: "GET", Path: "/public", AuthLevel: router.NoAuth, Handler: okHandler,
		}},
	})

	rec := perform(r, http.MethodGet, "/public", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int32(0), authCalls.Load())
}

func TestAuthOptionalProceedsAnonymously(t *testing.T) {
	failing := router.AuthServiceFunc[string](func(ctx context.Context, headers, cookies map[string]string) (scontext.Principal[string], error) {
		return scontext.Principal[string]{}, errors.New("token verification unavailable")
	})

	var sawAnonymous bool
	r := newTestRouter(t, router.Config[string]{
		Auth: failing,
		Routes: []router.Route[string]{{
			Method: "GET", Path: "/feed", AuthLevel: router.AuthOptional,
			Handler: func(r *http.Request, req router.Request[string]) (*router.Response, error) {
				sawAnonymous = req.Principal.Anonymous
				return router.OK(nil), nil
			},
		}},
	})

	rec := perform(r, http.MethodGet, "/feed", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, sawAnonymous, "auth capability errors resolve to the anonymous principal")
}

func TestAuthCapabilityPanicTreatedAsAnonymous(t *testing.T) {
	panicking := router.AuthServiceFunc[string](func(ctx context.Context, headers, cookies map[string]string) (scontext.Principal[string], error) {
		panic("verifier blew up")
	})

	r := newTestRouter(t, router.Config[string]{
		Auth: panicking,
		Routes: []router.Route[string]{{
			Method: "GET", Path: "/secure", AuthLevel: router.AuthRequired, Handler: okHandler,
		}},
	})

	rec := perform(r, http.MethodGet, "/secure", "", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthReceivesNormalizedHeadersAndEmptyCookies(t *testing.T) {
	var gotHeaders map[string]string
	var gotCookies map[string]string
	auth := router.AuthServiceFunc[string](func(ctx context.Context, headers, cookies map[string]string) (scontext.Principal[string], error) {
		gotHeaders = headers
		gotCookies = cookies
		return scontext.Authenticated("user-7"), nil
	})

	var gotPrincipal scontext.Principal[string]
	r := newTestRouter(t, router.Config[string]{
		Auth: auth,
		Routes: []router.Route[string]{{
			Method: "GET", Path: "/me", AuthLevel: router.AuthRequired,
			Handler: func(r *http.Request, req router.Request[string]) (*router.Response, error) {
				gotPrincipal = req.Principal
				return router.OK(nil), nil
			},
		}},
	})

	rec := perform(r, http.MethodGet, "/me", "", map[string]string{"Authorization": "Bearer tok"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bearer tok", gotHeaders["authorization"], "header keys are lower-cased")
	assert.Empty(t, gotCookies)
	assert.False(t, gotPrincipal.Anonymous)
	assert.Equal(t, "user-7", gotPrincipal.ID)
}

func TestValidationFailureAggregatesIssues(t *testing.T) {
	var handlerCalls atomic.Int32
	r := newTestRouter(t, router.Config[string]{
		BasePath: "/api",
		Routes: []router.Route[string]{{
			Method: "POST", Path: "/users",
			Schema: &validation.Schema{Body: map[string]validation.Field{
				"email": {Required: true, Email: true},
				"name":  {Required: true},
			}},
			Handler: func(r *http.Request, req router.Request[string]) (*router.Response, error) {
				handlerCalls.Add(1)
				return router.Created(nil), nil
			},
		}},
	})

	rec := perform(r, http.MethodPost, "/api/users", `{"email":"invalid"}`, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeError(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Equal(t, int32(0), handlerCalls.Load())

	issues, ok := env.Error.Details["issues"].([]any)
	require.True(t, ok)

	fields := make([]string, 0, len(issues))
	for _, raw := range issues {
		issue := raw.(map[string]any)
		fields = append(fields, issue["field"].(string))
	}
	assert.Contains(t, fields, "body.email")
	assert.Contains(t, fields, "body.name")
}

func TestValidationRejectsNonStringEmail(t *testing.T) {
	var handlerCalls atomic.Int32
	r := newTestRouter(t, router.Config[string]{
		Routes: []router.Route[string]{{
			Method: "POST", Path: "/users",
			Schema: &validation.Schema{Body: map[string]validation.Field{
				"email": {Required: true, Email: true},
			}},
			Handler: func(rq *http.Request, req router.Request[string]) (*router.Response, error) {
				handlerCalls.Add(1)
				body := req.Input["body"].(map[string]any)
				// The type assertion handlers rely on; it must never see
				// a non-string value behind a string-constrained field.
				return router.Created(map[string]any{"email": body["email"].(string)}), nil
			},
		}},
	})

	rec := perform(r, http.MethodPost, "/users", `{"email": 12345}`, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeError(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Equal(t, int32(0), handlerCalls.Load())

	issues, ok := env.Error.Details["issues"].([]any)
	require.True(t, ok)
	issue := issues[0].(map[string]any)
	assert.Equal(t, "body.email", issue["field"])
	assert.Equal(t, "invalid_type", issue["code"])
}

func TestMalformedBodyWithSchema(t *testing.T) {
	r := newTestRouter(t, router.Config[string]{
		Routes: []router.Route[string]{{
			Method: "POST", Path: "/users",
			Schema:  &validation.Schema{},
			Handler: okHandler,
		}},
	})

	rec := perform(r, http.MethodPost, "/users", `{"broken":`, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeError(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	issues := env.Error.Details["issues"].([]any)
	issue := issues[0].(map[string]any)
	assert.Equal(t, "body", issue["field"])
	assert.Equal(t, "invalid_json", issue["code"])
}

func TestMalformedBodyWithoutSchemaSubstitutesEmptyObject(t *testing.T) {
	var gotInput map[string]any
	r := newTestRouter(t, router.Config[string]{
		Routes: []router.Route[string]{{
			Method: "POST", Path: "/loose",
			Handler: func(r *http.Request, req router.Request[string]) (*router.Response, error) {
				gotInput = req.Input
				return router.OK(nil), nil
			},
		}},
	})

	rec := perform(r, http.MethodPost, "/loose", `not json at all`, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	body, ok := gotInput["body"].(map[string]any)
	require.True(t, ok)
	assert.Empty(t, body)
}

func TestHandlerReceivesCombinedInput(t *testing.T) {
	var gotInput map[string]any
	r := newTestRouter(t, router.Config[string]{
		BasePath: "/api",
		Routes: []router.Route[string]{{
			Method: "PUT", Path: "/users/:userId",
			Handler: func(r *http.Request, req router.Request[string]) (*router.Response, error) {
				gotInput = req.Input
				return router.OK(nil), nil
			},
		}},
	})

	rec := perform(r, http.MethodPut, "/api/users/u-5?dryRun=true", `{"name":"Ada"}`, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := gotInput["body"].(map[string]any)
	params := gotInput["params"].(map[string]any)
	query := gotInput["query"].(map[string]any)
	assert.Equal(t, "Ada", body["name"])
	assert.Equal(t, "u-5", params["userId"])
	assert.Equal(t, "true", query["dryRun"])
}

func TestHandlerDomainErrorMapsThroughTaxonomy(t *testing.T) {
	r := newTestRouter(t, router.Config[string]{
		Routes: []router.Route[string]{{
			Method: "POST", Path: "/users",
			Handler: func(r *http.Request, req router.Request[string]) (*router.Response, error) {
				return nil, apperr.Conflict("email already registered", map[string]any{"field": "email"})
			},
		}},
	})

	rec := perform(r, http.MethodPost, "/users", `{}`, nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
	env := decodeError(t, rec)
	assert.Equal(t, "CONFLICT", env.Error.Code)
	assert.Equal(t, "email already registered", env.Error.Message)
	assert.Equal(t, "email", env.Error.Details["field"])
}

func TestHandlerGenericError(t *testing.T) {
	r := newTestRouter(t, router.Config[string]{
		Routes: []router.Route[string]{{
			Method: "GET", Path: "/flaky",
			Handler: func(r *http.Request, req router.Request[string]) (*router.Response, error) {
				return nil, errors.New("Database connection lost")
			},
		}},
	})

	rec := perform(r, http.MethodGet, "/flaky", "", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	env := decodeError(t, rec)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", env.Error.Code)
	assert.Equal(t, "Database connection lost", env.Error.Details["originalMessage"])
}

func TestHandlerPanicCrossesExceptionBoundary(t *testing.T) {
	r := newTestRouter(t, router.Config[string]{
		Routes: []router.Route[string]{{
			Method: "GET", Path: "/boom",
			Handler: func(r *http.Request, req router.Request[string]) (*router.Response, error) {
				panic(errors.New("Database connection lost"))
			},
		}},
	})

	rec := perform(r, http.MethodGet, "/boom", "", map[string]string{"X-Request-ID": "inbound-9"})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "inbound-9", rec.Header().Get("X-Request-ID"))
	env := decodeError(t, rec)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", env.Error.Code)
	assert.Equal(t, "Database connection lost", env.Error.Details["originalMessage"])
	assert.Equal(t, "inbound-9", env.Error.RequestID)
}

func TestSuccessEnvelopes(t *testing.T) {
	r := newTestRouter(t, router.Config[string]{
		Routes: []router.Route[string]{
			{Method: "GET", Path: "/one", Handler: func(r *http.Request, req router.Request[string]) (*router.Response, error) {
				return router.OK(map[string]any{"id": "u-1"}), nil
			}},
			{Method: "GET", Path: "/many", Handler: func(r *http.Request, req router.Request[string]) (*router.Response, error) {
				return router.List([]string{"a", "b"}, router.Pagination{Total: 2, Page: 1, PageSize: 20, TotalPages: 1}), nil
			}},
		},
	})

	rec := perform(r, http.MethodGet, "/one", "", nil)
	var single struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &single))
	assert.Equal(t, "u-1", single.Data["id"])

	rec = perform(r, http.MethodGet, "/many", "", nil)
	var list struct {
		Items      []string          `json:"items"`
		Pagination router.Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, []string{"a", "b"}, list.Items)
	assert.Equal(t, 2, list.Pagination.Total)
	assert.Equal(t, 1, list.Pagination.TotalPages)
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	var authCalls, handlerCalls atomic.Int32
	auth := router.AuthServiceFunc[string](func(ctx context.Context, headers, cookies map[string]string) (scontext.Principal[string], error) {
		authCalls.Add(1)
		return scontext.Anonymous[string](), nil
	})

	r := newTestRouter(t, router.Config[string]{
		BasePath: "/api",
		Auth:     auth,
		CORS: &router.CORSConfig{
			AllowOrigin:  []string{"https://app.example.com"},
			AllowHeaders: []string{"Content-Type", "Authorization"},
			AllowMethods: []string{"GET", "POST", "DELETE"},
		},
		Routes: []router.Route[string]{{
			Method: "POST", Path: "/users", AuthLevel: router.AuthRequired,
			Handler: func(r *http.Request, req router.Request[string]) (*router.Response, error) {
				handlerCalls.Add(1)
				return router.Created(nil), nil
			},
		}},
	})

	rec := perform(r, http.MethodOptions, "/api/users", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"), "preflight responses carry a request id too")
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Content-Type, Authorization", rec.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "GET, POST, DELETE", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, int32(0), authCalls.Load())
	assert.Equal(t, int32(0), handlerCalls.Load())
}

func TestCORSHeadersPresentOnEveryResponse(t *testing.T) {
	r := newTestRouter(t, router.Config[string]{
		Routes: []router.Route[string]{{Method: "GET", Path: "/ping", Handler: okHandler}},
	})

	// Default policy applies when no CORS config is given.
	rec := perform(r, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = perform(r, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSMultipleOriginsEchoRequestOrigin(t *testing.T) {
	r := newTestRouter(t, router.Config[string]{
		CORS: &router.CORSConfig{
			AllowOrigin:  []string{"https://app.example.com", "https://admin.example.com"},
			AllowMethods: []string{"GET"},
		},
		Routes: []router.Route[string]{{Method: "GET", Path: "/ping", Handler: okHandler}},
	})

	rec := perform(r, http.MethodGet, "/ping", "", map[string]string{"Origin": "https://admin.example.com"})
	assert.Equal(t, "https://admin.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", rec.Header().Get("Vary"))

	// A disallowed origin gets no Allow-Origin header, never a joined list.
	rec = perform(r, http.MethodGet, "/ping", "", map[string]string{"Origin": "https://evil.example.com"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", rec.Header().Get("Vary"))
}

func TestHandlerCustomHeadersAppliedLast(t *testing.T) {
	r := newTestRouter(t, router.Config[string]{
		Routes: []router.Route[string]{{
			Method: "GET", Path: "/export",
			Handler: func(r *http.Request, req router.Request[string]) (*router.Response, error) {
				return &router.Response{
					Status:  http.StatusOK,
					Body:    map[string]any{"done": true},
					Headers: map[string]string{"X-Total-Count": "42", "Access-Control-Allow-Origin": "https://override.example.com"},
				}, nil
			},
		}},
	})

	rec := perform(r, http.MethodGet, "/export", "", nil)

	assert.Equal(t, "42", rec.Header().Get("X-Total-Count"))
	assert.Equal(t, "https://override.example.com", rec.Header().Get("Access-Control-Allow-Origin"),
		"handler headers override earlier pipeline headers")
}

func TestResponseHookRewritesResponse(t *testing.T) {
	r := newTestRouter(t, router.Config[string]{
		ResponseHook: func(req router.Request[string], resp *router.Response) *router.Response {
			resp.Status = http.StatusTeapot
			if resp.Headers == nil {
				resp.Headers = map[string]string{}
			}
			resp.Headers["X-Hooked"] = "yes"
			return resp
		},
		Routes: []router.Route[string]{{Method: "GET", Path: "/ping", Handler: okHandler}},
	})

	rec := perform(r, http.MethodGet, "/ping", "", nil)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "yes", rec.Header().Get("X-Hooked"))
}

func TestOuterMiddlewaresWrapPipeline(t *testing.T) {
	var order []string
	var mu sync.Mutex
	record := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				mu.Lock()
				order = append(order, name)
				mu.Unlock()
				next.ServeHTTP(w, r)
			})
		}
	}

	r := newTestRouter(t, router.Config[string]{
		Middlewares: []common.Middleware{record("outer"), record("inner")},
		Routes:      []router.Route[string]{{Method: "GET", Path: "/ping", Handler: okHandler}},
	})

	rec := perform(r, http.MethodGet, "/ping", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestShutdownRejectsNewRequests(t *testing.T) {
	r := newTestRouter(t, router.Config[string]{
		Routes: []router.Route[string]{{Method: "GET", Path: "/ping", Handler: okHandler}},
	})

	require.NoError(t, r.Shutdown(context.Background()))

	rec := perform(r, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
