package providers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstittsworth/mlb-dfs-projections/internal/dfs"
)

type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *mapCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = make(map[string][]byte)
	}
	m.data[key] = b
	return nil
}

func (m *mapCache) Get(_ context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[key]
	if !ok {
		return errors.New("key not found")
	}
	return json.Unmarshal(b, dest)
}

type recorded struct {
	mu      sync.Mutex
	results []string
}

func (r *recorded) observe(_, result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, result)
}

func newTestClient(cache dfs.CacheProvider, rec *recorded) *Client {
	logger, _ := test.NewNullLogger()
	return NewClient(Config{Name: "test", RequestsPerSecond: 1000, BreakerThreshold: 2, BreakerTimeout: time.Minute}, cache, logger, WithObserver(rec.observe))
}

func TestGetJSONCachesResponses(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(`{"name":"Yankee Stadium","id":3313}`))
	}))
	defer srv.Close()

	rec := &recorded{}
	c := newTestClient(&mapCache{}, rec)

	var first, second struct {
		Name string `json:"name"`
		ID   int    `json:"id"`
	}
	require.NoError(t, c.GetJSON(context.Background(), srv.URL, "venue:3313", time.Hour, &first))
	require.NoError(t, c.GetJSON(context.Background(), srv.URL, "venue:3313", time.Hour, &second))

	assert.Equal(t, 3313, second.ID)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	assert.Equal(t, []string{ResultSuccess, ResultHit}, rec.results)
}

func TestGetJSONClassifiesFailures(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/garbled", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"stats": [`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	rec := &recorded{}
	c := newTestClient(nil, rec)
	var out map[string]interface{}

	err := c.GetJSON(context.Background(), srv.URL+"/missing", "", 0, &out)
	assert.ErrorIs(t, err, dfs.ErrNotFound)

	err = c.GetJSON(context.Background(), srv.URL+"/garbled", "", 0, &out)
	assert.ErrorIs(t, err, dfs.ErrShapeMismatch)
	assert.Equal(t, "shape_mismatch", dfs.FailureReason(err))

	assert.Equal(t, []string{ResultNotFound, ResultShape}, rec.results)
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	rec := &recorded{}
	c := newTestClient(nil, rec)
	var out map[string]interface{}

	for i := 0; i < 2; i++ {
		err := c.GetJSON(context.Background(), srv.URL, "", 0, &out)
		assert.ErrorIs(t, err, dfs.ErrProviderUnavailable)
	}
	err := c.GetJSON(context.Background(), srv.URL, "", 0, &out)
	assert.ErrorIs(t, err, dfs.ErrProviderUnavailable)
	assert.Equal(t, "provider_failure", dfs.FailureReason(err))

	// third call short-circuited by the open breaker
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestNotFoundDoesNotTripBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := newTestClient(nil, &recorded{})
	var out map[string]interface{}
	for i := 0; i < 5; i++ {
		err := c.GetJSON(context.Background(), srv.URL, "", 0, &out)
		assert.ErrorIs(t, err, dfs.ErrNotFound)
	}
}
