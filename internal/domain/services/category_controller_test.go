package services

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/athebyme/recipe-catalog/internal/domain/models"
	"github.com/athebyme/recipe-catalog/internal/domain/ports"
	"github.com/athebyme/recipe-catalog/internal/utils"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatedSource отдает результат только после release
type gatedSource struct {
	release    chan struct{}
	categories []models.Category
	err        error
	calls      int
	mu         sync.Mutex
}

func newGatedSource(categories []models.Category, err error) *gatedSource {
	return &gatedSource{release: make(chan struct{}), categories: categories, err: err}
}

func (s *gatedSource) FetchCategories(ctx context.Context) ([]models.Category, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	<-s.release
	return s.categories, s.err
}

func (s *gatedSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func waitDone(t *testing.T, c *CategoryController) {
	t.Helper()
	select {
	case <-c.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("controller did not finish in time")
	}
}

func staticSource(categories []models.Category, err error) ports.CategorySourceFunc {
	return func(ctx context.Context) ([]models.Category, error) {
		return categories, err
	}
}

func TestCategoryController_InitialStateIsLoading(t *testing.T) {
	source := newGatedSource(nil, nil)
	c := NewCategoryController(source, nil)
	defer c.Dispose()

	assert.True(t, c.State().Equal(models.LoadingState()))

	require.NoError(t, c.Start(context.Background()))

	// загрузка еще не завершилась
	state := c.State()
	assert.True(t, state.Loading)
	assert.Empty(t, state.Categories)
	assert.Nil(t, state.Error)
}

func TestCategoryController_ConstructionDoesNotFetch(t *testing.T) {
	source := newGatedSource(nil, nil)
	c := NewCategoryController(source, nil)
	defer c.Dispose()

	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 0, source.Calls())
}

func TestCategoryController_SuccessPreservesOrder(t *testing.T) {
	categories := []models.Category{
		{ID: "3", Name: "Chicken"},
		{ID: "1", Name: "Beef"},
		{ID: "2", Name: "Dessert"},
	}
	c := NewCategoryController(staticSource(categories, nil), nil)
	require.NoError(t, c.Start(context.Background()))
	waitDone(t, c)

	want := models.SuccessState(categories)
	if diff := cmp.Diff(want, c.State()); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, models.PhaseReady, c.State().Phase())
}

func TestCategoryController_Failure(t *testing.T) {
	c := NewCategoryController(staticSource(nil, errors.New("connection refused")), nil)
	require.NoError(t, c.Start(context.Background()))
	waitDone(t, c)

	state := c.State()
	assert.False(t, state.Loading)
	assert.Empty(t, state.Categories)
	require.NotNil(t, state.Error)
	assert.Equal(t, "Error fetching categories: connection refused", *state.Error)
}

func TestCategoryController_StateReturnsIndependentCopy(t *testing.T) {
	desc := "Fish and shellfish."
	categories := []models.Category{{ID: "1", Name: "Seafood", Description: &desc}}
	c := NewCategoryController(staticSource(categories, nil), nil)
	require.NoError(t, c.Start(context.Background()))
	waitDone(t, c)

	observed := c.State()
	observed.Categories[0].Name = "Mutated"
	*observed.Categories[0].Description = "Mutated"
	observed.Categories = append(observed.Categories, models.Category{Name: "Extra"})

	// исходный срез источника тоже не связан со снимком
	categories[0].Name = "Mutated at source"

	again := c.State()
	require.Len(t, again.Categories, 1)
	assert.Equal(t, "Seafood", again.Categories[0].Name)
	assert.Equal(t, "Fish and shellfish.", *again.Categories[0].Description)
}

func TestCategoryController_FailureMessageIsCopied(t *testing.T) {
	c := NewCategoryController(staticSource(nil, errors.New("connection refused")), nil)
	require.NoError(t, c.Start(context.Background()))
	waitDone(t, c)

	observed := c.State()
	*observed.Error = "Mutated"

	assert.Equal(t, "Error fetching categories: connection refused", c.State().ErrorMessage())
}

func TestCategoryController_DeadlineOnStartContextKeepsLoading(t *testing.T) {
	source := ports.CategorySourceFunc(func(ctx context.Context) ([]models.Category, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	c := NewCategoryController(source, nil)
	defer c.Dispose()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	require.NoError(t, c.Start(ctx))
	waitDone(t, c)

	assert.Equal(t, models.PhaseLoading, c.State().Phase())
}

func TestCategoryController_ObserverEndsWithTerminalState(t *testing.T) {
	for i := 0; i < 50; i++ {
		c := NewCategoryController(staticSource([]models.Category{{Name: "Beef"}}, nil), nil)

		var (
			mu     sync.Mutex
			phases []models.Phase
		)
		require.NoError(t, c.Start(context.Background()))
		c.OnStateChange(func(state models.ViewState) {
			mu.Lock()
			phases = append(phases, state.Phase())
			mu.Unlock()
		})
		waitDone(t, c)

		mu.Lock()
		require.NotEmpty(t, phases)
		assert.Equal(t, models.PhaseReady, phases[len(phases)-1], "iteration %d: %v", i, phases)
		mu.Unlock()
		c.Dispose()
	}
}

func TestCategoryController_FailureWithPartialResultDropsCategories(t *testing.T) {
	partial := []models.Category{{Name: "Beef"}}
	c := NewCategoryController(staticSource(partial, errors.New("broken pipe")), nil)
	require.NoError(t, c.Start(context.Background()))
	waitDone(t, c)

	assert.Empty(t, c.State().Categories)
	assert.Equal(t, models.PhaseFailed, c.State().Phase())
}

func TestCategoryController_PanicBecomesFailure(t *testing.T) {
	source := ports.CategorySourceFunc(func(ctx context.Context) ([]models.Category, error) {
		panic("decoder exploded")
	})
	c := NewCategoryController(source, nil)
	require.NoError(t, c.Start(context.Background()))
	waitDone(t, c)

	assert.Contains(t, c.State().ErrorMessage(), "decoder exploded")
}

func TestCategoryController_ObserveIsIdempotent(t *testing.T) {
	c := NewCategoryController(staticSource([]models.Category{{Name: "Lamb"}}, nil), nil)

	assert.True(t, c.State().Equal(c.State()))

	require.NoError(t, c.Start(context.Background()))
	waitDone(t, c)

	first := c.State()
	second := c.State()
	assert.True(t, first.Equal(second))
}

func TestCategoryController_StartOnlyOnce(t *testing.T) {
	source := newGatedSource([]models.Category{{Name: "Pasta"}}, nil)
	c := NewCategoryController(source, nil)

	require.NoError(t, c.Start(context.Background()))
	assert.ErrorIs(t, c.Start(context.Background()), utils.ErrControllerStarted)

	close(source.release)
	waitDone(t, c)

	assert.Equal(t, 1, source.Calls())
	assert.Len(t, c.State().Categories, 1)
}

func TestCategoryController_StartAfterDispose(t *testing.T) {
	c := NewCategoryController(staticSource(nil, nil), nil)
	c.Dispose()

	assert.ErrorIs(t, c.Start(context.Background()), utils.ErrControllerDisposed)
	assert.True(t, c.State().Loading)
}

func TestCategoryController_NilSource(t *testing.T) {
	c := NewCategoryController(nil, nil)
	assert.ErrorIs(t, c.Start(context.Background()), utils.ErrNilCategorySource)
}

func TestCategoryController_NoTransitionAfterDispose(t *testing.T) {
	source := newGatedSource([]models.Category{{Name: "Seafood"}}, nil)
	c := NewCategoryController(source, nil)

	var observed []models.ViewState
	var mu sync.Mutex
	c.OnStateChange(func(state models.ViewState) {
		mu.Lock()
		observed = append(observed, state)
		mu.Unlock()
	})

	require.NoError(t, c.Start(context.Background()))
	c.Dispose()
	c.Dispose()

	close(source.release)
	time.Sleep(20 * time.Millisecond)

	assert.True(t, c.State().Equal(models.LoadingState()))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, observed, 1)
	assert.True(t, observed[0].Loading)
}

func TestCategoryController_ParentContextCanceled(t *testing.T) {
	source := newGatedSource([]models.Category{{Name: "Seafood"}}, nil)
	c := NewCategoryController(source, nil)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, c.Start(ctx))
	cancel()
	close(source.release)
	waitDone(t, c)

	assert.True(t, c.State().Loading)
}

func TestCategoryController_ObserverSeesLoadingBeforeTerminal(t *testing.T) {
	source := newGatedSource([]models.Category{{Name: "Breakfast"}}, nil)
	c := NewCategoryController(source, nil)

	var phases []models.Phase
	var mu sync.Mutex
	c.OnStateChange(func(state models.ViewState) {
		mu.Lock()
		phases = append(phases, state.Phase())
		mu.Unlock()
	})

	require.NoError(t, c.Start(context.Background()))
	close(source.release)
	waitDone(t, c)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []models.Phase{models.PhaseLoading, models.PhaseReady}, phases)
}

func TestCategoryController_EndToEndScenarios(t *testing.T) {
	timeoutErr := &net.OpError{Op: "read", Net: "tcp", Err: timeoutError{}}

	tests := []struct {
		name   string
		source ports.CategorySourcePort
		check  func(t *testing.T, s models.ViewState)
	}{
		{
			name: "single seafood category",
			source: ports.CategorySourceFunc(func(ctx context.Context) ([]models.Category, error) {
				return models.DecodeCategories([]byte(`{"categories":[{"strCategory":"Seafood","strCategoryThumb":"http://x/seafood.png"}]}`))
			}),
			check: func(t *testing.T, s models.ViewState) {
				require.Len(t, s.Categories, 1)
				assert.Equal(t, "Seafood", s.Categories[0].Name)
				assert.Equal(t, "http://x/seafood.png", s.Categories[0].ThumbnailURL)
				assert.Nil(t, s.Error)
				assert.False(t, s.Loading)
			},
		},
		{
			name: "empty list",
			source: ports.CategorySourceFunc(func(ctx context.Context) ([]models.Category, error) {
				return models.DecodeCategories([]byte(`{"categories":[]}`))
			}),
			check: func(t *testing.T, s models.ViewState) {
				assert.Empty(t, s.Categories)
				assert.False(t, s.Loading)
				assert.Nil(t, s.Error)
				assert.Equal(t, models.PhaseReady, s.Phase())
			},
		},
		{
			name:   "network timeout",
			source: staticSource(nil, timeoutErr),
			check: func(t *testing.T, s models.ViewState) {
				assert.Empty(t, s.Categories)
				assert.False(t, s.Loading)
				require.NotNil(t, s.Error)
				assert.NotEmpty(t, *s.Error)
				assert.Contains(t, *s.Error, "timeout")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCategoryController(tt.source, nil)
			require.NoError(t, c.Start(context.Background()))
			waitDone(t, c)
			tt.check(t, c.State())
		})
	}
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }
