package handlers_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/serroba/url-shortener-go/internal/analytics"
	"github.com/serroba/url-shortener-go/internal/handlers"
	"github.com/serroba/url-shortener-go/internal/messaging"
	"github.com/serroba/url-shortener-go/internal/shortener"
	"github.com/serroba/url-shortener-go/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recordingPublish returns a publish function that keeps every event it receives.
func recordingPublish[T any]() (messaging.Publish[T], func() []*T) {
	var (
		mu     sync.Mutex
		events []*T
	)

	publish := func(_ context.Context, event *T) error {
		mu.Lock()
		defer mu.Unlock()

		events = append(events, event)

		return nil
	}

	return publish, func() []*T {
		mu.Lock()
		defer mu.Unlock()

		return events
	}
}

// errorPublish returns a publish function that always fails.
func errorPublish[T any](err error) messaging.Publish[T] {
	return func(context.Context, *T) error { return err }
}

func newService() *shortener.Service {
	cache := store.NewMemoryCache()

	return shortener.NewService(cache, store.NewMemoryStore(), cache,
		shortener.WithBaseURL("http://localhost:8888"))
}

func newTestHandler(service handlers.URLService, doubleCount bool) *handlers.URLHandler {
	return handlers.NewURLHandler(
		service,
		messaging.Discard[analytics.URLCreatedEvent](),
		messaging.Discard[analytics.URLAccessedEvent](),
		doubleCount,
		zap.NewNop(),
	)
}

func statusOf(t *testing.T, err error) int {
	t.Helper()

	var se huma.StatusError
	require.ErrorAs(t, err, &se)

	return se.GetStatus()
}

func createRequest(url string) *handlers.CreateShortURLRequest {
	req := &handlers.CreateShortURLRequest{}
	req.Body.URL = url

	return req
}

func TestCreateShortURL(t *testing.T) {
	t.Run("creates short url successfully", func(t *testing.T) {
		handler := newTestHandler(newService(), true)

		resp, err := handler.CreateShortURL(context.Background(), createRequest("https://example.com/very/long/path"))

		require.NoError(t, err)
		assert.Equal(t, "1", resp.Body.Code)
		assert.Equal(t, "https://example.com/very/long/path", resp.Body.OriginalURL)
		assert.Equal(t, "http://localhost:8888/1", resp.Body.ShortURL)
		assert.Equal(t, resp.Body.ShortURL, resp.Location)
		assert.False(t, resp.Body.CreatedAt.IsZero())
	})

	t.Run("same URL twice gets two codes", func(t *testing.T) {
		handler := newTestHandler(newService(), true)

		resp1, err1 := handler.CreateShortURL(context.Background(), createRequest(testURL))
		resp2, err2 := handler.CreateShortURL(context.Background(), createRequest(testURL))

		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.NotEqual(t, resp1.Body.Code, resp2.Body.Code)
	})

	invalid := []string{"", "example.com", "/relative/path", "ftp://example.com/file", "https://", "mailto:someone@example.com"}
	for _, raw := range invalid {
		t.Run("rejects "+raw, func(t *testing.T) {
			handler := newTestHandler(newService(), true)

			resp, err := handler.CreateShortURL(context.Background(), createRequest(raw))

			assert.Nil(t, resp)
			assert.Equal(t, http.StatusUnprocessableEntity, statusOf(t, err))
		})
	}

	errorCases := []struct {
		name   string
		err    error
		status int
	}{
		{name: "allocator unavailable", err: shortener.ErrAllocatorUnavailable, status: http.StatusServiceUnavailable},
		{name: "record creation", err: shortener.ErrRecordCreation, status: http.StatusInternalServerError},
		{name: "unexpected", err: errMock, status: http.StatusInternalServerError},
	}

	for _, tt := range errorCases {
		t.Run("maps "+tt.name, func(t *testing.T) {
			handler := newTestHandler(&mockService{createErr: tt.err}, true)

			resp, err := handler.CreateShortURL(context.Background(), createRequest(testURL))

			assert.Nil(t, resp)
			assert.Equal(t, tt.status, statusOf(t, err))
		})
	}

	t.Run("publishes created event with request metadata", func(t *testing.T) {
		publish, events := recordingPublish[analytics.URLCreatedEvent]()
		handler := handlers.NewURLHandler(newService(), publish,
			messaging.Discard[analytics.URLAccessedEvent](), true, zap.NewNop())

		ctx := handlers.ContextWithRequestMeta(context.Background(), handlers.RequestMeta{
			ClientIP:  "192.168.1.1",
			UserAgent: "TestAgent/1.0",
		})

		resp, err := handler.CreateShortURL(ctx, createRequest(testURL))

		require.NoError(t, err)
		require.Len(t, events(), 1)

		event := events()[0]
		assert.Equal(t, resp.Body.Code, event.Code)
		assert.Equal(t, resp.Body.ShortURL, event.ShortURL)
		assert.Equal(t, "192.168.1.1", event.ClientIP)
		assert.Equal(t, "TestAgent/1.0", event.UserAgent)
	})

	t.Run("succeeds even when publish fails", func(t *testing.T) {
		handler := handlers.NewURLHandler(newService(),
			errorPublish[analytics.URLCreatedEvent](errors.New("publish error")),
			errorPublish[analytics.URLAccessedEvent](errors.New("publish error")),
			true, zap.NewNop())

		resp, err := handler.CreateShortURL(context.Background(), createRequest(testURL))

		require.NoError(t, err)
		assert.NotEmpty(t, resp.Body.Code)
	})
}

func TestRedirectToURL(t *testing.T) {
	t.Run("redirects with 302 and counts two clicks", func(t *testing.T) {
		service := newService()
		handler := newTestHandler(service, true)
		created, _ := service.Create(context.Background(), testURL)

		resp, err := handler.RedirectToURL(context.Background(), &handlers.CodeRequest{Code: string(created.Code)})

		require.NoError(t, err)
		assert.Equal(t, http.StatusFound, resp.Status)
		assert.Equal(t, testURL, resp.Location)

		stats, _ := service.Stats(context.Background(), created.Code)
		assert.Equal(t, int64(2), stats.ClickCount)
	})

	t.Run("counts one click without double counting", func(t *testing.T) {
		service := newService()
		handler := newTestHandler(service, false)
		created, _ := service.Create(context.Background(), testURL)

		_, err := handler.RedirectToURL(context.Background(), &handlers.CodeRequest{Code: string(created.Code)})
		require.NoError(t, err)

		stats, _ := service.Stats(context.Background(), created.Code)
		assert.Equal(t, int64(1), stats.ClickCount)
	})

	t.Run("returns 404 when code not found", func(t *testing.T) {
		handler := newTestHandler(newService(), true)

		resp, err := handler.RedirectToURL(context.Background(), &handlers.CodeRequest{Code: "notfound"})

		assert.Nil(t, resp)
		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	})

	t.Run("returns 404 for malformed code without resolving", func(t *testing.T) {
		service := &mockService{resolveErr: errMock}
		handler := newTestHandler(service, true)

		resp, err := handler.RedirectToURL(context.Background(), &handlers.CodeRequest{Code: "no-dashes"})

		assert.Nil(t, resp)
		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	})

	t.Run("returns 503 when the store is unavailable", func(t *testing.T) {
		handler := newTestHandler(&mockService{
			resolveErr: fmt.Errorf("%w: %w", shortener.ErrStoreUnavailable, context.DeadlineExceeded),
		}, true)

		resp, err := handler.RedirectToURL(context.Background(), &handlers.CodeRequest{Code: "abc123"})

		assert.Nil(t, resp)
		assert.Equal(t, http.StatusServiceUnavailable, statusOf(t, err))
	})

	t.Run("returns 500 on unexpected error", func(t *testing.T) {
		handler := newTestHandler(&mockService{resolveErr: errMock}, true)

		resp, err := handler.RedirectToURL(context.Background(), &handlers.CodeRequest{Code: "abc123"})

		assert.Nil(t, resp)
		assert.Equal(t, http.StatusInternalServerError, statusOf(t, err))
	})

	t.Run("still redirects when second count fails", func(t *testing.T) {
		service := &mockService{incrementErr: errMock}
		handler := newTestHandler(service, true)

		resp, err := handler.RedirectToURL(context.Background(), &handlers.CodeRequest{Code: "abc123"})

		require.NoError(t, err)
		assert.Equal(t, http.StatusFound, resp.Status)
		assert.Equal(t, 1, service.increments)
	})

	t.Run("publishes access event with request metadata", func(t *testing.T) {
		service := newService()
		publish, events := recordingPublish[analytics.URLAccessedEvent]()
		handler := handlers.NewURLHandler(service,
			messaging.Discard[analytics.URLCreatedEvent](), publish, true, zap.NewNop())
		created, _ := service.Create(context.Background(), testURL)

		ctx := handlers.ContextWithRequestMeta(context.Background(), handlers.RequestMeta{
			ClientIP:  "192.168.1.1",
			UserAgent: "TestAgent/1.0",
			Referrer:  "https://referrer.com",
		})

		_, err := handler.RedirectToURL(ctx, &handlers.CodeRequest{Code: string(created.Code)})

		require.NoError(t, err)
		require.Len(t, events(), 1)
		assert.Equal(t, string(created.Code), events()[0].Code)
		assert.Equal(t, "https://referrer.com", events()[0].Referrer)
		assert.True(t, events()[0].CacheHit)
	})

	t.Run("succeeds even when publish fails", func(t *testing.T) {
		handler := handlers.NewURLHandler(&mockService{},
			messaging.Discard[analytics.URLCreatedEvent](),
			errorPublish[analytics.URLAccessedEvent](errors.New("publish error")),
			true, zap.NewNop())

		resp, err := handler.RedirectToURL(context.Background(), &handlers.CodeRequest{Code: "abc123"})

		require.NoError(t, err)
		assert.Equal(t, http.StatusFound, resp.Status)
	})
}

func TestResolveURL(t *testing.T) {
	t.Run("resolves and counts one click", func(t *testing.T) {
		service := newService()
		handler := newTestHandler(service, true)
		created, _ := service.Create(context.Background(), testURL)

		resp, err := handler.ResolveURL(context.Background(), &handlers.CodeRequest{Code: string(created.Code)})

		require.NoError(t, err)
		assert.Equal(t, testURL, resp.Body.OriginalURL)

		stats, _ := service.Stats(context.Background(), created.Code)
		assert.Equal(t, int64(1), stats.ClickCount)
	})

	t.Run("maps unavailable cache to 503", func(t *testing.T) {
		handler := newTestHandler(&mockService{resolveErr: shortener.ErrCacheUnavailable}, true)

		_, err := handler.ResolveURL(context.Background(), &handlers.CodeRequest{Code: "abc"})

		assert.Equal(t, http.StatusServiceUnavailable, statusOf(t, err))
	})
}

func TestGetStats(t *testing.T) {
	t.Run("returns click count", func(t *testing.T) {
		service := newService()
		handler := newTestHandler(service, false)
		created, _ := service.Create(context.Background(), testURL)
		_, _ = service.Resolve(context.Background(), created.Code)

		resp, err := handler.GetStats(context.Background(), &handlers.CodeRequest{Code: string(created.Code)})

		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.Body.ClickCount)
		assert.Equal(t, created.FullURL, resp.Body.ShortURL)
		assert.Equal(t, testURL, resp.Body.OriginalURL)
	})

	t.Run("returns 404 when code not found", func(t *testing.T) {
		handler := newTestHandler(newService(), false)

		_, err := handler.GetStats(context.Background(), &handlers.CodeRequest{Code: "zz"})

		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	})
}

func TestRegisterRoutes(t *testing.T) {
	router := chi.NewMux()
	api := humachi.New(router, huma.DefaultConfig("Test", "1.0.0"))
	handlers.RegisterRoutes(api, newTestHandler(newService(), true))

	serve := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		if body != "" {
			req.Header.Set("Content-Type", "application/json")
		}

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		return w
	}

	t.Run("shorten then follow", func(t *testing.T) {
		w := serve(http.MethodPost, "/shorten", `{"url":"https://example.com/path"}`)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "http://localhost:8888/1", w.Header().Get("Location"))
		assert.Contains(t, w.Body.String(), `"code":"1"`)

		w = serve(http.MethodGet, "/1", "")

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "https://example.com/path", w.Header().Get("Location"))

		w = serve(http.MethodGet, "/urls/1/stats", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"clickCount":2`)
	})

	t.Run("rejects non-http url", func(t *testing.T) {
		w := serve(http.MethodPost, "/shorten", `{"url":"ftp://example.com"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("unknown code is 404", func(t *testing.T) {
		w := serve(http.MethodGet, "/urls/zzzz", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestContextWithRequestMeta(t *testing.T) {
	t.Run("adds and retrieves request metadata from context", func(t *testing.T) {
		meta := handlers.RequestMeta{
			ClientIP:  "192.168.1.1",
			UserAgent: "TestAgent/1.0",
			Referrer:  "https://referrer.com",
		}
		ctx := handlers.ContextWithRequestMeta(context.Background(), meta)

		retrieved := handlers.RequestMetaFromContext(ctx)
		assert.Equal(t, meta, retrieved)
	})

	t.Run("returns empty metadata when absent", func(t *testing.T) {
		assert.Equal(t, handlers.RequestMeta{}, handlers.RequestMetaFromContext(context.Background()))
	})
}
