// httpclient/testing_helpers_test.go
package httpclient

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/deploymenttheory/go-api-session-client/credentialstore"
	"github.com/deploymenttheory/go-api-session-client/logger"
	"github.com/deploymenttheory/go-api-session-client/refreshgroup"
	"github.com/stretchr/testify/require"
)

type seenRequest struct {
	Method        string
	Path          string
	Authorization string
	Body          string
	StoredToken   string
}

// fakeAPI accepts requests carrying the current token and answers 401 otherwise.
// POST /refresh rotates the current token to nextToken.
type fakeAPI struct {
	mu        sync.Mutex
	current   string
	nextToken string
	seen      []seenRequest

	refreshStatus  int
	refreshGate    chan struct{}
	refreshCookie  string
	refreshCalls   atomic.Int32
	alwaysReject   map[string]bool
	forbiddenPaths map[string]bool

	// store is read when a request arrives so tests can check what was persisted
	// before the request was dispatched.
	store credentialstore.Store

	server *httptest.Server
}

func newFakeAPI(t *testing.T, current, next string) *fakeAPI {
	t.Helper()
	api := &fakeAPI{
		current:        current,
		nextToken:      next,
		alwaysReject:   map[string]bool{},
		forbiddenPaths: map[string]bool{},
	}
	api.server = httptest.NewServer(http.HandlerFunc(api.handle))
	t.Cleanup(api.server.Close)
	return api
}

func (api *fakeAPI) handle(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/refresh" {
		api.handleRefresh(w, r)
		return
	}

	body, _ := io.ReadAll(r.Body)
	stored := ""
	if store := api.credentialStore(); store != nil {
		stored, _ = store.Get()
	}

	api.mu.Lock()
	forbidden := api.forbiddenPaths[r.URL.Path]
	reject := api.alwaysReject[r.URL.Path]
	api.seen = append(api.seen, seenRequest{
		Method:        r.Method,
		Path:          r.URL.Path,
		Authorization: r.Header.Get("Authorization"),
		Body:          string(body),
		StoredToken:   stored,
	})
	current := api.current
	api.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case forbidden:
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"account disabled"}`))
	case reject, r.Header.Get("Authorization") != "Bearer "+current:
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"token expired"}`))
	default:
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": 1, "path": r.URL.Path})
	}
}

func (api *fakeAPI) handleRefresh(w http.ResponseWriter, r *http.Request) {
	api.refreshCalls.Add(1)

	api.mu.Lock()
	gate, wantCookie, refreshStatus := api.refreshGate, api.refreshCookie, api.refreshStatus
	api.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if wantCookie != "" {
		if c, err := r.Cookie("refresh_token"); err != nil || c.Value != wantCookie {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
	}
	if refreshStatus != 0 && refreshStatus != http.StatusOK {
		w.WriteHeader(refreshStatus)
		return
	}

	api.mu.Lock()
	api.current = api.nextToken
	token := api.nextToken
	api.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"access_token": token})
}

// update changes the API's behaviour under its lock.
func (api *fakeAPI) update(fn func(api *fakeAPI)) {
	api.mu.Lock()
	defer api.mu.Unlock()
	fn(api)
}

// holdRefresh makes POST /refresh block until the returned channel is closed.
func (api *fakeAPI) holdRefresh() chan struct{} {
	gate := make(chan struct{})
	api.update(func(api *fakeAPI) { api.refreshGate = gate })
	return gate
}

func (api *fakeAPI) credentialStore() credentialstore.Store {
	api.mu.Lock()
	defer api.mu.Unlock()
	return api.store
}

func (api *fakeAPI) requests(path string) []seenRequest {
	api.mu.Lock()
	defer api.mu.Unlock()
	var out []seenRequest
	for _, s := range api.seen {
		if s.Path == path {
			out = append(out, s)
		}
	}
	return out
}

// countingStore counts Clear calls on top of a MemoryStore.
type countingStore struct {
	*credentialstore.MemoryStore
	clears atomic.Int32
}

func (s *countingStore) Clear() error {
	s.clears.Add(1)
	return s.MemoryStore.Clear()
}

type testClient struct {
	*Client
	api          *fakeAPI
	store        *countingStore
	group        *refreshgroup.Group
	teardownRuns *atomic.Int32
}

func newTestClient(t *testing.T, api *fakeAPI, initial string, mutate func(*ClientConfig)) *testClient {
	t.Helper()

	store := &countingStore{MemoryStore: credentialstore.NewMemoryStore(initial)}
	api.update(func(api *fakeAPI) { api.store = store })
	group := &refreshgroup.Group{}
	var teardownRuns atomic.Int32

	config := ClientConfig{
		BaseURL:               api.server.URL,
		MaxConcurrentRequests: 50,
		Store:                 store,
		RefreshGroup:          group,
		Logger:                logger.NewNopLogger(),
		OnSessionTerminated:   func() { teardownRuns.Add(1) },
	}
	if mutate != nil {
		mutate(&config)
	}

	client, err := BuildClient(config, true)
	require.NoError(t, err)

	return &testClient{Client: client, api: api, store: store, group: group, teardownRuns: &teardownRuns}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return strings.TrimSpace(string(data))
}
