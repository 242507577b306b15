package handlers

import (
	"net/http"
	"net/url"

	"github.com/athebyme/recipe-catalog/internal/domain/models"
	"github.com/athebyme/recipe-catalog/internal/domain/services"
	"github.com/athebyme/recipe-catalog/internal/utils"
	"github.com/athebyme/recipe-catalog/pkg/interfaces"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// CategoryHandler отдает текущее состояние категорий и карточку категории
type CategoryHandler struct {
	controller services.CategoryControllerInterface
	logger     interfaces.LoggerPort
}

// NewCategoryHandler создает новый обработчик категорий
func NewCategoryHandler(controller services.CategoryControllerInterface, logger interfaces.LoggerPort) *CategoryHandler {
	return &CategoryHandler{
		controller: controller,
		logger:     logger,
	}
}

// errorResponse представляет структуру ответа с ошибкой
type errorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

// response представляет структуру успешного ответа
type response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

// viewStateDTO сериализованный снимок ViewState
type viewStateDTO struct {
	Status     models.Phase      `json:"status"`
	Loading    bool              `json:"loading"`
	Categories []models.Category `json:"categories"`
	Error      *string           `json:"error,omitempty"`
}

// categoryDetailDTO карточка категории для экрана деталей
type categoryDetailDTO struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	ThumbnailURL   string `json:"thumbnail_url"`
	Description    string `json:"description"`
	HasDescription bool   `json:"has_description"`
}

func newViewStateDTO(state models.ViewState) viewStateDTO {
	return viewStateDTO{
		Status:     state.Phase(),
		Loading:    state.Loading,
		Categories: state.CategoriesCopy(),
		Error:      state.Error,
	}
}

func newCategoryDetailDTO(category models.Category) categoryDetailDTO {
	return categoryDetailDTO{
		ID:             category.ID,
		Name:           category.Name,
		ThumbnailURL:   category.ThumbnailURL,
		Description:    category.DescriptionOr(models.MissingDescription),
		HasDescription: category.HasDescription(),
	}
}

// ListCategories отдает текущий снимок: загрузка, ошибка или список
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	state := h.controller.State()
	dto := newViewStateDTO(state)
	meta := map[string]interface{}{"count": len(dto.Categories)}

	if state.Phase() == models.PhaseFailed {
		render.Status(r, http.StatusBadGateway)
		render.JSON(w, r, response{
			Success: false,
			Data:    dto,
			Meta:    meta,
		})
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, response{
		Success: true,
		Data:    dto,
		Meta:    meta,
	})
}

// GetCategory отдает карточку выбранной категории
func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	key, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil || key == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errorResponse{
			Error:   "bad_request",
			Code:    http.StatusBadRequest,
			Message: "Category name is not specified",
		})
		return
	}

	state := h.controller.State()
	switch state.Phase() {
	case models.PhaseLoading:
		w.Header().Set("Retry-After", "1")
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, errorResponse{
			Error:   "loading",
			Code:    http.StatusServiceUnavailable,
			Message: "Categories are still loading",
		})
		return
	case models.PhaseFailed:
		render.Status(r, http.StatusBadGateway)
		render.JSON(w, r, errorResponse{
			Error:   "fetch_failed",
			Code:    http.StatusBadGateway,
			Message: state.ErrorMessage(),
		})
		return
	}

	category, ok := state.Find(key)
	if !ok {
		h.logger.DebugWithContext(r.Context(), "Категория не найдена",
			interfaces.LogField{Key: "category", Value: key})
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, errorResponse{
			Error:   "not_found",
			Code:    http.StatusNotFound,
			Message: utils.ErrCategoryNotFound.Error(),
		})
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, response{
		Success: true,
		Data:    newCategoryDetailDTO(category),
	})
}
