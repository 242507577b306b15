package ports

import (
	"context"

	"github.com/athebyme/recipe-catalog/internal/domain/models"
)

// CategorySourcePort определяет источник категорий рецептов.
// Реализация может ходить в HTTP API, читать фикстуры в тестах и т.д.
type CategorySourcePort interface {
	// FetchCategories возвращает категории в порядке источника либо ошибку
	FetchCategories(ctx context.Context) ([]models.Category, error)
}

// CategorySourceFunc позволяет использовать функцию как CategorySourcePort
type CategorySourceFunc func(ctx context.Context) ([]models.Category, error)

// FetchCategories вызывает f(ctx)
func (f CategorySourceFunc) FetchCategories(ctx context.Context) ([]models.Category, error) {
	return f(ctx)
}
