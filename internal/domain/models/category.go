package models

import (
	"fmt"

	"github.com/athebyme/recipe-catalog/internal/utils"
	"github.com/tidwall/gjson"
)

// Имена полей в ответе TheMealDB
const (
	fieldCategories  = "categories"
	fieldID          = "idCategory"
	fieldName        = "strCategory"
	fieldThumbnail   = "strCategoryThumb"
	fieldDescription = "strCategoryDescription"
)

// MissingDescription текст, который слои представления показывают вместо
// отсутствующего описания. Сама модель ничего не подставляет.
const MissingDescription = "Category description is not available."

// Category представляет категорию рецептов, полученную из удаленного источника.
// Значение неизменяемо после создания.
type Category struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	ThumbnailURL string  `json:"thumbnail_url"`
	Description  *string `json:"description,omitempty"`
}

// Equal сравнивает категории по значениям полей
func (c Category) Equal(other Category) bool {
	if c.ID != other.ID || c.Name != other.Name || c.ThumbnailURL != other.ThumbnailURL {
		return false
	}
	if c.Description == nil || other.Description == nil {
		return c.Description == nil && other.Description == nil
	}
	return *c.Description == *other.Description
}

// HasDescription сообщает, пришло ли описание в ответе
func (c Category) HasDescription() bool {
	return c.Description != nil
}

// Clone возвращает копию, не разделяющую память с исходной категорией
func (c Category) Clone() Category {
	if c.Description != nil {
		text := *c.Description
		c.Description = &text
	}
	return c
}

// DescriptionOr возвращает описание или fallback, если описания нет
func (c Category) DescriptionOr(fallback string) string {
	if c.Description == nil {
		return fallback
	}
	return *c.Description
}

// DecodeCategories преобразует тело ответа categories.php в список категорий.
// Порядок элементов совпадает с порядком в документе.
func DecodeCategories(body []byte) ([]Category, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid json", utils.ErrMalformedResponse)
	}

	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: document is not an object", utils.ErrMalformedResponse)
	}

	list := root.Get(fieldCategories)
	if !list.Exists() {
		return nil, fmt.Errorf("%w: %q is missing", utils.ErrMalformedResponse, fieldCategories)
	}
	// TheMealDB отдает null вместо пустого массива
	if list.Type == gjson.Null {
		return []Category{}, nil
	}
	if !list.IsArray() {
		return nil, fmt.Errorf("%w: %q is not an array", utils.ErrMalformedResponse, fieldCategories)
	}

	elements := list.Array()
	categories := make([]Category, 0, len(elements))
	for i, element := range elements {
		category, err := categoryFromJSON(element)
		if err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", utils.ErrMalformedResponse, i, err)
		}
		categories = append(categories, category)
	}

	return categories, nil
}

func categoryFromJSON(element gjson.Result) (Category, error) {
	if !element.IsObject() {
		return Category{}, fmt.Errorf("expected object, got %s", element.Type)
	}

	category := Category{
		ID:           stringField(element, fieldID),
		Name:         stringField(element, fieldName),
		ThumbnailURL: stringField(element, fieldThumbnail),
	}

	if description := element.Get(fieldDescription); description.Exists() && description.Type != gjson.Null {
		text := description.String()
		category.Description = &text
	}

	return category, nil
}

// stringField возвращает пустую строку для отсутствующего или null поля
func stringField(element gjson.Result, name string) string {
	value := element.Get(name)
	if !value.Exists() || value.Type == gjson.Null {
		return ""
	}
	return value.String()
}
