package lemma

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ppiankov/railvoice/internal/cache"
	"github.com/ppiankov/railvoice/internal/model"
)

func TestIdentityAndFunc(t *testing.T) {
	assert.Equal(t, "вагон", Identity.Lemmatize("  Вагон "))

	upper := Func(func(w string) string { return w + "!" })
	assert.Equal(t, "стоп!", upper.Lemmatize("стоп"))
}

func TestDictionary_Default(t *testing.T) {
	d := Default()

	tests := map[string]string{
		"двух":      "два",
		"Две":       "два",
		"сорока":    "сорок",
		"ста":       "сто",
		"пятисот":   "пятьсот",
		"одну":      "один",
		"трем":      "три",
		"сорок":     "сорок",
		"вагонов":   "вагонов",
		"осадить":   "осадить",
		"девяноста": "девяносто",
	}

	for word, want := range tests {
		assert.Equal(t, want, d.Lemmatize(word), "word %q", word)
	}
	assert.Greater(t, d.Len(), 100)
}

func TestNewDictionary_LemmaMapsToItself(t *testing.T) {
	d := NewDictionary(map[string][]string{"Пять": {"пяти"}})
	assert.Equal(t, "пять", d.Lemmatize("пять"))
	assert.Equal(t, "пять", d.Lemmatize("ПЯТИ"))
	assert.Equal(t, 2, d.Len())
}

func newMorphServer(t *testing.T, calls *int32, table map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		if r.URL.Path != "/lemmatize" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}

		var req lemmatizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		lemma, ok := table[req.Word]
		if !ok {
			http.Error(w, "unknown word", http.StatusUnprocessableEntity)
			return
		}
		_ = json.NewEncoder(w).Encode(lemmatizeResponse{Lemma: lemma})
	}))
}

func TestHTTPLemmatizer(t *testing.T) {
	var calls int32
	server := newMorphServer(t, &calls, map[string]string{"двух": "два", "вагонов": "вагон"})
	defer server.Close()

	l, err := NewHTTPLemmatizer(HTTPConfig{BaseURL: server.URL + "/", Timeout: time.Second}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "два", l.Lemmatize("Двух"))
	assert.Equal(t, "вагон", l.Lemmatize("вагонов"))

	// server rejects the word: surface form comes back
	assert.Equal(t, "осадить", l.Lemmatize("осадить"))

	_, err = l.Resolve("осадить")
	assert.Error(t, err)

	got, err := l.Resolve("")
	assert.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestHTTPLemmatizer_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	l, err := NewHTTPLemmatizer(HTTPConfig{BaseURL: url, Timeout: 200 * time.Millisecond}, nil)
	require.NoError(t, err)
	assert.Equal(t, "двух", l.Lemmatize("двух"))
}

func TestHTTPLemmatizer_BadPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"lemma": ""}`))
	}))
	defer server.Close()

	l, err := NewHTTPLemmatizer(HTTPConfig{BaseURL: server.URL}, nil)
	require.NoError(t, err)

	_, err = l.Resolve("двух")
	assert.Error(t, err)
}

func newSlowServer(t *testing.T, calls *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		select {
		case <-r.Context().Done():
		case <-time.After(3 * time.Second):
		}
		_ = json.NewEncoder(w).Encode(lemmatizeResponse{Lemma: "два"})
	}))
}

func TestHTTPLemmatizer_ContextCancelStopsLookup(t *testing.T) {
	var calls int32
	server := newSlowServer(t, &calls)
	defer server.Close()

	l, err := NewHTTPLemmatizer(HTTPConfig{BaseURL: server.URL, Timeout: 5 * time.Second}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	assert.Equal(t, "двух", l.LemmatizeContext(ctx, "двух"))
	assert.Less(t, time.Since(start), 2*time.Second)

	// a done context never reaches the service
	before := atomic.LoadInt32(&calls)
	_, err = l.ResolveContext(ctx, "двух")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, before, atomic.LoadInt32(&calls))
}

func TestCached_PassesContext(t *testing.T) {
	var calls int32
	server := newSlowServer(t, &calls)
	defer server.Close()

	backend, err := NewHTTPLemmatizer(HTTPConfig{BaseURL: server.URL, Timeout: 5 * time.Second}, nil)
	require.NoError(t, err)
	c := NewCached(backend, cache.NewMemoryCache(time.Minute, time.Minute), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bound := WithContext(ctx, c)
	assert.Equal(t, "двух", bound.Lemmatize("двух"))
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))

	// plain lemmatizers pass through unchanged
	assert.Equal(t, "пять", WithContext(ctx, Default()).Lemmatize("пяти"))
}

func TestNewHTTPLemmatizer_RequiresURL(t *testing.T) {
	_, err := NewHTTPLemmatizer(HTTPConfig{}, nil)
	assert.Error(t, err)
}

func TestCached_MemoizesSuccessOnly(t *testing.T) {
	var calls int32
	server := newMorphServer(t, &calls, map[string]string{"двух": "два"})
	defer server.Close()

	backend, err := NewHTTPLemmatizer(HTTPConfig{BaseURL: server.URL}, nil)
	require.NoError(t, err)
	c := NewCached(backend, cache.NewMemoryCache(time.Minute, time.Minute), nil)

	assert.Equal(t, "два", c.Lemmatize("двух"))
	assert.Equal(t, "два", c.Lemmatize("ДВУХ"))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	assert.Equal(t, "вагонов", c.Lemmatize("вагонов"))
	assert.Equal(t, "вагонов", c.Lemmatize("вагонов"))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls), "failed lookups must not be cached")
}

func TestCached_PlainLemmatizer(t *testing.T) {
	var calls int32
	counting := Func(func(w string) string {
		atomic.AddInt32(&calls, 1)
		return Default().Lemmatize(w)
	})

	c := NewCached(counting, cache.NewMemoryCache(time.Minute, time.Minute), zap.NewNop())
	for i := 0; i < 5; i++ {
		assert.Equal(t, "пять", c.Lemmatize("пяти"))
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestNew_Factory(t *testing.T) {
	cfg := model.DefaultConfig()

	l, err := New(cfg.Lemmatizer, cfg.HTTP, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &Dictionary{}, l)

	cfg.Lemmatizer.Provider = "http"
	cfg.Lemmatizer.BaseURL = "http://127.0.0.1:1"
	l, err = New(cfg.Lemmatizer, cfg.HTTP, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &Cached{}, l)

	cfg.Lemmatizer.Cache.Enabled = false
	l, err = New(cfg.Lemmatizer, cfg.HTTP, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &HTTPLemmatizer{}, l)

	cfg.Lemmatizer.BaseURL = ""
	_, err = New(cfg.Lemmatizer, cfg.HTTP, zap.NewNop())
	assert.Error(t, err)

	cfg.Lemmatizer.Provider = "pymorphy"
	_, err = New(cfg.Lemmatizer, cfg.HTTP, zap.NewNop())
	assert.Error(t, err)
}
