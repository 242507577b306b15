package models

import "strings"

// Phase описывает, какую из трех форм принимает ViewState
type Phase string

const (
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
	PhaseFailed  Phase = "error"
)

// DefaultFailureMessage используется, если причина ошибки пуста
const DefaultFailureMessage = "Error fetching categories"

// ViewState неизменяемый снимок того, что должен показать слой представления.
// Создается только через LoadingState, SuccessState и FailureState.
// Владелец снимка отдает наружу только Clone.
type ViewState struct {
	Loading    bool
	Categories []Category
	Error      *string
}

// LoadingState возвращает начальное состояние до завершения загрузки
func LoadingState() ViewState {
	return ViewState{
		Loading:    true,
		Categories: []Category{},
	}
}

// SuccessState возвращает состояние успешной загрузки (список может быть пустым)
func SuccessState(categories []Category) ViewState {
	return ViewState{
		Loading:    false,
		Categories: cloneCategories(categories),
	}
}

// FailureState возвращает состояние ошибки загрузки
func FailureState(message string) ViewState {
	if message == "" {
		message = DefaultFailureMessage
	}

	return ViewState{
		Loading:    false,
		Categories: []Category{},
		Error:      &message,
	}
}

// Phase возвращает форму состояния
func (s ViewState) Phase() Phase {
	switch {
	case s.Loading:
		return PhaseLoading
	case s.Error != nil:
		return PhaseFailed
	default:
		return PhaseReady
	}
}

// ErrorMessage возвращает текст ошибки или пустую строку
func (s ViewState) ErrorMessage() string {
	if s.Error == nil {
		return ""
	}
	return *s.Error
}

// CategoriesCopy возвращает копию списка, которую можно безопасно изменять
func (s ViewState) CategoriesCopy() []Category {
	return cloneCategories(s.Categories)
}

// Clone возвращает глубокую копию снимка: список, категории и текст ошибки
func (s ViewState) Clone() ViewState {
	clone := ViewState{
		Loading:    s.Loading,
		Categories: cloneCategories(s.Categories),
	}
	if s.Error != nil {
		message := *s.Error
		clone.Error = &message
	}
	return clone
}

func cloneCategories(categories []Category) []Category {
	list := make([]Category, len(categories))
	for i, category := range categories {
		list[i] = category.Clone()
	}
	return list
}

// Equal выполняет структурное сравнение двух снимков
func (s ViewState) Equal(other ViewState) bool {
	if s.Loading != other.Loading {
		return false
	}
	if (s.Error == nil) != (other.Error == nil) {
		return false
	}
	if s.Error != nil && *s.Error != *other.Error {
		return false
	}
	if len(s.Categories) != len(other.Categories) {
		return false
	}
	for i := range s.Categories {
		if !s.Categories[i].Equal(other.Categories[i]) {
			return false
		}
	}
	return true
}

// Find ищет категорию по имени (без учета регистра) или по идентификатору
func (s ViewState) Find(key string) (Category, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return Category{}, false
	}
	for _, category := range s.Categories {
		if strings.EqualFold(category.Name, key) {
			return category, true
		}
	}
	for _, category := range s.Categories {
		if category.ID != "" && category.ID == key {
			return category, true
		}
	}
	return Category{}, false
}
