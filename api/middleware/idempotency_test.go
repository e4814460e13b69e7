package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shopworks/catalog-backend/pkg/logger"
)

type memoryStore struct {
	values map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: map[string]string{}}
}

func (s *memoryStore) Get(_ context.Context, key string) (string, error) {
	return s.values[key], nil
}

func (s *memoryStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := s.values[key]; ok {
		return false, nil
	}
	s.values[key] = value.(string)
	return true, nil
}

func (s *memoryStore) IdempotencyKey(scope, id string) string {
	return "idempotency:" + scope + ":" + id
}

func (s *memoryStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.values, key)
	}
	return nil
}

func newIdempotentRouter(store *memoryStore, calls *int) http.Handler {
	r := chi.NewRouter()
	r.Use(Idempotency(store, logger.New(logger.Options{ServiceName: "test"})))
	r.Post("/api/v1/orders", func(w http.ResponseWriter, _ *http.Request) {
		*calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{"number":"ORD-1"}}`))
	})
	return r
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	store := newMemoryStore()
	calls := 0
	router := newIdempotentRouter(store, &calls)

	body := `{"cart_id":"x","email":"sam@example.com"}`

	first := httptest.NewRequest("POST", "/api/v1/orders", strings.NewReader(body))
	first.Header.Set("Idempotency-Key", "key-1")
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, first)
	if rec1.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec1.Code)
	}

	second := httptest.NewRequest("POST", "/api/v1/orders", strings.NewReader(body))
	second.Header.Set("Idempotency-Key", "key-1")
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, second)

	if calls != 1 {
		t.Fatalf("expected handler to run once, ran %d times", calls)
	}
	if rec2.Code != http.StatusCreated {
		t.Fatalf("expected replayed 201, got %d", rec2.Code)
	}
	if rec2.Body.String() != rec1.Body.String() {
		t.Fatalf("replayed body mismatch: %q vs %q", rec2.Body.String(), rec1.Body.String())
	}
}

func TestIdempotencyRejectsKeyReuseWithDifferentBody(t *testing.T) {
	store := newMemoryStore()
	calls := 0
	router := newIdempotentRouter(store, &calls)

	first := httptest.NewRequest("POST", "/api/v1/orders", strings.NewReader(`{"cart_id":"a"}`))
	first.Header.Set("Idempotency-Key", "key-1")
	router.ServeHTTP(httptest.NewRecorder(), first)

	second := httptest.NewRequest("POST", "/api/v1/orders", strings.NewReader(`{"cart_id":"b"}`))
	second.Header.Set("Idempotency-Key", "key-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, second)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on body mismatch, got %d", rec.Code)
	}
	if calls != 1 {
		t.Fatalf("expected handler to run once, ran %d times", calls)
	}
}

func TestIdempotencyRequiresHeaderOnCoveredRoutes(t *testing.T) {
	store := newMemoryStore()
	calls := 0
	router := newIdempotentRouter(store, &calls)

	req := httptest.NewRequest("POST", "/api/v1/orders", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without Idempotency-Key, got %d", rec.Code)
	}
	if calls != 0 {
		t.Fatalf("handler should not run, ran %d times", calls)
	}
}

func TestIdempotencySkipsUncoveredRoutes(t *testing.T) {
	store := newMemoryStore()
	r := chi.NewRouter()
	r.Use(Idempotency(store, nil))
	called := false
	r.Get("/api/v1/products", func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/api/v1/products", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if !called {
		t.Fatal("handler should run without idempotency key on uncovered routes")
	}
	if len(store.values) != 0 {
		t.Fatalf("nothing should be stored, got %d entries", len(store.values))
	}
}
