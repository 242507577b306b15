package mealdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/athebyme/recipe-catalog/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu       sync.Mutex
	statuses []string
}

func (o *recordingObserver) ObserveFetch(status string, duration time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.statuses = append(o.statuses, status)
}

func (o *recordingObserver) Statuses() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.statuses...)
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Client, *recordingObserver) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	observer := &recordingObserver{}
	opts = append([]Option{
		WithBaseURL(server.URL + "/api/json/v1/1"),
		WithHTTPClient(server.Client()),
		WithMetrics(observer),
	}, opts...)

	client, err := NewClient(opts...)
	require.NoError(t, err)
	return client, observer
}

func TestClient_FetchCategories(t *testing.T) {
	client, observer := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/json/v1/1/categories.php", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"categories":[
			{"idCategory":"1","strCategory":"Beef","strCategoryThumb":"https://x/beef.png","strCategoryDescription":"Beef"},
			{"idCategory":"2","strCategory":"Chicken","strCategoryThumb":"https://x/chicken.png"}
		]}`))
	})

	categories, err := client.FetchCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)

	assert.Equal(t, "Beef", categories[0].Name)
	assert.Equal(t, "Chicken", categories[1].Name)
	assert.Nil(t, categories[1].Description)
	assert.Equal(t, []string{"success"}, observer.Statuses())
}

func TestClient_NonSuccessStatus(t *testing.T) {
	client, observer := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	})

	categories, err := client.FetchCategories(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrUnexpectedStatus)
	assert.Contains(t, err.Error(), "503")
	assert.Nil(t, categories)
	assert.Equal(t, []string{"error"}, observer.Statuses())
}

func TestClient_MalformedBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	})

	_, err := client.FetchCategories(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrMalformedResponse)
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	client, observer := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, WithTimeout(50*time.Millisecond))
	defer close(release)

	_, err := client.FetchCategories(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch categories")
	assert.Equal(t, []string{StatusTimeout}, observer.Statuses())
}

func TestFetchStatus(t *testing.T) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
		err  error
		want string
	}{
		{name: "success", ctx: context.Background(), want: StatusSuccess},
		{name: "plain error", ctx: context.Background(), err: errors.New("connection refused"), want: StatusError},
		{name: "client timeout", ctx: context.Background(), err: fmt.Errorf("failed to fetch categories: %w", context.DeadlineExceeded), want: StatusTimeout},
		{name: "caller canceled", ctx: canceled, err: context.Canceled, want: StatusCanceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fetchStatus(tt.ctx, tt.err))
		})
	}
}

func TestClient_ContextCanceled(t *testing.T) {
	client, observer := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchCategories(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"canceled"}, observer.Statuses())
}

func TestNewClient_Defaults(t *testing.T) {
	client, err := NewClient()
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, client.BaseURL())
	assert.Equal(t, DefaultTimeout, client.httpClient.Timeout)
}

func TestNewClient_EmptyBaseURL(t *testing.T) {
	_, err := NewClient(WithBaseURL("  "))
	assert.ErrorIs(t, err, utils.ErrEmptyBaseURL)
}

func TestNewClient_TimeoutDoesNotMutateSharedClient(t *testing.T) {
	shared := &http.Client{}
	client, err := NewClient(WithHTTPClient(shared), WithTimeout(time.Second))
	require.NoError(t, err)

	assert.Equal(t, time.Duration(0), shared.Timeout)
	assert.Equal(t, time.Second, client.httpClient.Timeout)
}
