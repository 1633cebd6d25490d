package command

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// mockServer creates a test HTTP server with custom handlers.
type mockServer struct {
	*httptest.Server
	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	requests []*http.Request
}

// newMockServer creates a new mock server.
func newMockServer(t *testing.T) *mockServer {
	t.Helper()
	m := &mockServer{
		handlers: make(map[string]http.HandlerFunc),
	}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		m.requests = append(m.requests, r.Clone(context.Background()))
		handler, ok := m.handlers[r.URL.Path]
		m.mu.Unlock()

		if !ok {
			http.NotFound(w, r)
			return
		}
		handler(w, r)
	}))
	t.Cleanup(m.Close)
	return m
}

// handle registers a handler for an exact path.
func (m *mockServer) handle(path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// requestsTo returns the recorded requests for path.
func (m *mockServer) requestsTo(path string) []*http.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*http.Request
	for _, r := range m.requests {
		if r.URL.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// jsonResponse writes a JSON response.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// resources writes a 200 {"resources": ...} envelope.
func resources(w http.ResponseWriter, items any) {
	jsonResponse(w, http.StatusOK, map[string]any{
		"meta":      map[string]any{"trace_id": "trace-ok"},
		"resources": items,
	})
}

// errorResponse writes a Falcon error envelope.
func errorResponse(w http.ResponseWriter, status int, message, traceID string) {
	jsonResponse(w, status, map[string]any{
		"meta":   map[string]any{"trace_id": traceID},
		"errors": []map[string]any{{"code": status, "message": message}},
	})
}

// bearerIs reports whether r carries the given bearer token.
func bearerIs(r *http.Request, tok string) bool {
	return r.Header.Get("Authorization") == "Bearer "+tok
}

// isProbe reports whether r is the token probe rather than a real list call.
func isProbe(r *http.Request) bool {
	q := r.URL.Query()
	return q.Get("limit") == "1" && q.Get("sort") == ""
}

// cliEnv is a configured invocation environment.
type cliEnv struct {
	t         *testing.T
	server    *mockServer
	dir       string
	tokenPath string
	base      []string
}

// newCLI isolates HOME and the FALCON_ environment and points the CLI at a
// fresh mock server with a file token store in a temp dir.
func newCLI(t *testing.T) *cliEnv {
	t.Helper()

	for _, kv := range os.Environ() {
		if k, _, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(k, "FALCON_") {
			t.Setenv(k, "")
			os.Unsetenv(k)
		}
	}
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	server := newMockServer(t)
	tokenPath := filepath.Join(dir, ".falcon-speak", "token")

	return &cliEnv{
		t:         t,
		server:    server,
		dir:       dir,
		tokenPath: tokenPath,
		base: []string{
			"falcon-speak",
			"--env-file", filepath.Join(dir, "missing.env"),
			"--base-url", server.URL,
			"--token-path", tokenPath,
		},
	}
}

// withCredentials adds client credentials to every invocation.
func (e *cliEnv) withCredentials() *cliEnv {
	e.base = append(e.base, "--client-id", "test-id", "--client-secret", "test-secret")
	return e
}

// writeToken seeds the token cache.
func (e *cliEnv) writeToken(tok string) {
	e.t.Helper()
	if err := os.MkdirAll(filepath.Dir(e.tokenPath), 0700); err != nil {
		e.t.Fatal(err)
	}
	if err := os.WriteFile(e.tokenPath, []byte(tok), 0600); err != nil {
		e.t.Fatal(err)
	}
}

// cachedToken reads the token cache.
func (e *cliEnv) cachedToken() string {
	e.t.Helper()
	b, err := os.ReadFile(e.tokenPath)
	if err != nil {
		e.t.Fatalf("read token: %v", err)
	}
	return strings.TrimSpace(string(b))
}

// run executes the CLI and returns stdout, stderr and the exit code.
func (e *cliEnv) run(args ...string) (string, string, int) {
	e.t.Helper()
	var stdout, stderr bytes.Buffer
	full := append(append([]string{}, e.base...), args...)
	code := Run(context.Background(), full, &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

// fixture is a stateful Falcon API installed on a mockServer.
type fixture struct {
	mu sync.Mutex

	valid string // bearer the API accepts
	issue string // token handed out by /oauth2/token

	authCalls  int
	probeCalls int
	hydrateIDs [][]string
}

// installFalcon routes the token endpoint and every family's list and
// hydrate paths. lists maps list path to ids; entities maps hydrate path
// to the resources returned.
func installFalcon(m *mockServer, f *fixture, lists map[string][]string, entities map[string][]map[string]any) {
	m.handle("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.authCalls++
		if r.FormValue("client_id") == "" || r.FormValue("client_secret") == "" {
			errorResponse(w, http.StatusBadRequest, "missing client credentials", "trace-auth")
			return
		}
		f.valid = f.issue
		jsonResponse(w, http.StatusCreated, map[string]any{
			"access_token": f.issue,
			"token_type":   "bearer",
			"expires_in":   1799,
		})
	})

	listPaths := []string{
		"/detects/queries/detects/v1",
		"/incidents/queries/incidents/v1",
		"/incidents/queries/behaviors/v1",
		"/devices/queries/devices/v1",
	}
	for _, p := range listPaths {
		path := p
		m.handle(path, func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			defer f.mu.Unlock()
			if !bearerIs(r, f.valid) {
				errorResponse(w, http.StatusForbidden, "access denied, authorization failed", "trace-403")
				return
			}
			if path == "/detects/queries/detects/v1" && isProbe(r) {
				f.probeCalls++
				resources(w, []string{})
				return
			}
			ids := lists[path]
			if ids == nil {
				ids = []string{}
			}
			resources(w, ids)
		})
	}

	for p, items := range entities {
		path, items := p, items
		m.handle(path, func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			defer f.mu.Unlock()
			if !bearerIs(r, f.valid) {
				errorResponse(w, http.StatusForbidden, "access denied", "trace-403")
				return
			}
			var ids []string
			if r.Method == http.MethodPost {
				var body struct {
					IDs []string `json:"ids"`
				}
				json.NewDecoder(r.Body).Decode(&body)
				ids = body.IDs
			} else {
				ids = r.URL.Query()["ids"]
			}
			f.hydrateIDs = append(f.hydrateIDs, ids)
			resources(w, items)
		})
	}
}

// Sample records.

func sampleDetection(id, host string) map[string]any {
	return map[string]any{
		"detection_id":  id,
		"status":        "new",
		"last_behavior": "2026-10-01T10:00:00Z",
		"device":        map[string]any{"device_id": "dev-1", "hostname": host},
		"behaviors": []map[string]any{{
			"technique": "Masquerading",
			"filename":  "evil.exe",
			"cmdline":   "evil.exe --quiet",
			"parent_details": map[string]any{
				"parent_cmdline": "explorer.exe",
			},
		}},
	}
}

func sampleDevice(id, host string) map[string]any {
	return map[string]any{
		"device_id":           id,
		"hostname":            host,
		"os_version":          "Windows 11",
		"external_ip":         "203.0.113.7",
		"last_seen":           "2026-10-17T08:00:00Z",
		"system_product_name": "ThinkPad",
	}
}
