package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/athebyme/recipe-catalog/internal/adapters/logger"
	"github.com/athebyme/recipe-catalog/internal/domain/models"
	"github.com/athebyme/recipe-catalog/internal/domain/ports"
	"github.com/athebyme/recipe-catalog/internal/utils"
	"github.com/athebyme/recipe-catalog/pkg/interfaces"
)

// failurePrefix добавляется к тексту ошибки в состоянии представления
const failurePrefix = "Error fetching categories: "

// StateObserver получает каждый зафиксированный снимок (метрики, подписчики)
type StateObserver func(state models.ViewState)

// CategoryControllerInterface то, что нужно слою представления
type CategoryControllerInterface interface {
	State() models.ViewState
	Done() <-chan struct{}
}

// CategoryController владеет единственным слотом ViewState и выполняет
// ровно одну загрузку категорий за время жизни.
type CategoryController struct {
	source   ports.CategorySourcePort
	logger   interfaces.LoggerPort
	observer StateObserver

	state atomic.Pointer[models.ViewState]

	mu       sync.Mutex
	started  bool
	disposed bool
	cancel   context.CancelFunc

	done     chan struct{}
	doneOnce sync.Once
}

var _ CategoryControllerInterface = (*CategoryController)(nil)

// NewCategoryController создает контроллер в состоянии загрузки.
// Запрос не выполняется до вызова Start.
func NewCategoryController(source ports.CategorySourcePort, log interfaces.LoggerPort) *CategoryController {
	if log == nil {
		log = logger.NewNopLogger()
	}

	c := &CategoryController{
		source: source,
		logger: log,
		done:   make(chan struct{}),
	}

	initial := models.LoadingState()
	c.state.Store(&initial)

	return c
}

// OnStateChange задает наблюдателя; вызывается до Start.
// Наблюдатель сразу получает текущий снимок. Снимок читается и отдается под
// тем же мьютексом, что и в commit, поэтому последним наблюдатель всегда
// видит итоговое состояние. Наблюдатель не должен вызывать Start, Dispose
// и OnStateChange.
func (c *CategoryController) OnStateChange(observer StateObserver) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.observer = observer
	if observer != nil {
		observer(c.State())
	}
}

// Start запускает единственную загрузку категорий и сразу возвращает управление.
// Отмена ctx равнозначна Dispose для результата загрузки: состояние остается
// loading, Done закрывается. Это касается и дедлайна ctx, поэтому ограничение
// времени запроса задается у источника (mealdb.WithTimeout), а не здесь.
func (c *CategoryController) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return utils.ErrControllerDisposed
	}
	if c.started {
		return utils.ErrControllerStarted
	}
	if c.source == nil {
		return utils.ErrNilCategorySource
	}
	c.started = true

	fetchCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.logger.Debug("Запуск загрузки категорий")
	go c.run(fetchCtx)

	return nil
}

// State возвращает копию последнего зафиксированного снимка.
// Изменения копии не видны контроллеру и другим читателям.
func (c *CategoryController) State() models.ViewState {
	return c.state.Load().Clone()
}

// Done закрывается после фиксации итогового состояния или после Dispose
func (c *CategoryController) Done() <-chan struct{} {
	return c.done
}

// Dispose завершает жизнь контроллера. Результат загрузки, пришедший
// после Dispose, отбрасывается. Повторные вызовы ничего не делают.
func (c *CategoryController) Dispose() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	cancel := c.cancel
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.closeDone()

	c.logger.Debug("Контроллер категорий остановлен")
}

func (c *CategoryController) run(ctx context.Context) {
	categories, err := c.fetch(ctx)

	if err != nil {
		c.commit(ctx, models.FailureState(failurePrefix+err.Error()), err)
		return
	}
	c.commit(ctx, models.SuccessState(categories), nil)
}

// fetch вызывает источник и превращает панику в ошибку
func (c *CategoryController) fetch(ctx context.Context) (categories []models.Category, err error) {
	defer func() {
		if rvr := recover(); rvr != nil {
			err = fmt.Errorf("category source panicked: %v", rvr)
		}
	}()

	return c.source.FetchCategories(ctx)
}

func (c *CategoryController) commit(ctx context.Context, next models.ViewState, cause error) {
	c.mu.Lock()
	if c.disposed || ctx.Err() != nil {
		c.mu.Unlock()
		c.logger.Debug("Результат загрузки отброшен: контроллер остановлен")
		c.closeDone()
		return
	}
	c.state.Store(&next)
	observer := c.observer
	c.mu.Unlock()

	if cause != nil {
		c.logger.Error("Не удалось загрузить категории",
			interfaces.LogField{Key: "error", Value: cause.Error()})
	} else {
		c.logger.Info("Категории загружены",
			interfaces.LogField{Key: "count", Value: len(next.Categories)})
	}

	if observer != nil {
		observer(next.Clone())
	}
	c.closeDone()
}

func (c *CategoryController) closeDone() {
	c.doneOnce.Do(func() {
		close(c.done)
	})
}
