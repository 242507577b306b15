package tui

import (
	"fmt"
	"strings"

	"github.com/athebyme/recipe-catalog/internal/domain/models"
	"github.com/athebyme/recipe-catalog/internal/domain/services"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	// Columns число колонок в сетке категорий
	Columns = 2

	minCellWidth = 16
)

// Screen экран, который сейчас показан
type Screen int

const (
	GridScreen Screen = iota
	DetailScreen
)

// stateMsg приходит, когда контроллер зафиксировал итоговое состояние
type stateMsg struct {
	state models.ViewState
}

type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Open  key.Binding
	Back  key.Binding
	Quit  key.Binding
}

var keys = keyMap{
	Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
	Right: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
	Open:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	Back:  key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
	Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// Model терминальный экран категорий поверх CategoryController
type Model struct {
	controller services.CategoryControllerInterface
	state      models.ViewState
	spinner    spinner.Model
	screen     Screen
	cursor     int
	selected   models.Category
	width      int
}

// NewModel создает модель; состояние берется из контроллера
func NewModel(controller services.CategoryControllerInterface) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(accentColor)

	return Model{
		controller: controller,
		state:      controller.State(),
		spinner:    s,
		screen:     GridScreen,
	}
}

// Init запускает спиннер и ожидание результата загрузки
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForState(m.controller))
}

func waitForState(controller services.CategoryControllerInterface) tea.Cmd {
	return func() tea.Msg {
		<-controller.Done()
		return stateMsg{state: controller.State()}
	}
}

// Update обрабатывает сообщения
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		m.state = msg.state
		m.cursor = 0
		return m, nil

	case spinner.TickMsg:
		if !m.state.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Quit) {
		return m, tea.Quit
	}

	if m.screen == DetailScreen {
		if key.Matches(msg, keys.Back) {
			m.screen = GridScreen
		}
		return m, nil
	}

	count := len(m.state.Categories)
	if m.state.Phase() != models.PhaseReady || count == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor-Columns >= 0 {
			m.cursor -= Columns
		}
	case key.Matches(msg, keys.Down):
		if m.cursor+Columns < count {
			m.cursor += Columns
		}
	case key.Matches(msg, keys.Left):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Right):
		if m.cursor < count-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Open):
		m.selected = m.state.Categories[m.cursor]
		m.screen = DetailScreen
	}

	return m, nil
}

// Screen возвращает текущий экран
func (m Model) Screen() Screen { return m.screen }

// Cursor возвращает индекс выбранной ячейки
func (m Model) Cursor() int { return m.cursor }

// Selected возвращает категорию, открытую на экране деталей
func (m Model) Selected() models.Category { return m.selected }

// View отрисовывает текущий экран
func (m Model) View() string {
	switch m.state.Phase() {
	case models.PhaseLoading:
		return fmt.Sprintf("%s Loading categories...\n", m.spinner.View())
	case models.PhaseFailed:
		return ErrorStyle.Render("Error occurred: "+m.state.ErrorMessage()) + "\n" +
			MutedStyle.Render("q: quit") + "\n"
	}

	if m.screen == DetailScreen {
		return renderDetail(m.selected)
	}
	return m.renderGrid()
}

func (m Model) renderGrid() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Recipe categories"))
	b.WriteString("\n")

	if len(m.state.Categories) == 0 {
		b.WriteString(MutedStyle.Render("No categories found."))
		b.WriteString("\n")
		return b.String()
	}

	width := cellWidth(m.width, m.state.Categories)
	for row := 0; row*Columns < len(m.state.Categories); row++ {
		cells := make([]string, 0, Columns)
		for col := 0; col < Columns; col++ {
			i := row*Columns + col
			if i >= len(m.state.Categories) {
				break
			}
			style := CellStyle
			if i == m.cursor {
				style = SelectedCellStyle
			}
			cells = append(cells, style.Width(width).Render(m.state.Categories[i].Name))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(MutedStyle.Render("arrows: move • enter: open • q: quit"))
	b.WriteString("\n")
	return b.String()
}

func renderDetail(category models.Category) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(category.Name))
	b.WriteString("\n")
	b.WriteString(MutedStyle.Render(category.ThumbnailURL))
	b.WriteString("\n")
	b.WriteString(DescriptionStyle.Render(category.DescriptionOr(models.MissingDescription)))
	b.WriteString("\n\n")
	b.WriteString(MutedStyle.Render("esc: back • q: quit"))
	b.WriteString("\n")
	return b.String()
}

// cellWidth делит ширину окна на колонки, но не меньше самого длинного имени
func cellWidth(total int, categories []models.Category) int {
	width := minCellWidth
	for _, c := range categories {
		if w := lipgloss.Width(c.Name) + 2; w > width {
			width = w
		}
	}
	if total > 0 && total/Columns > width {
		width = total / Columns
	}
	return width
}

// RenderPlain выводит состояние без терминальных стилей (stdout не терминал)
func RenderPlain(state models.ViewState) string {
	switch state.Phase() {
	case models.PhaseLoading:
		return "Loading categories...\n"
	case models.PhaseFailed:
		return "Error occurred: " + state.ErrorMessage() + "\n"
	}

	if len(state.Categories) == 0 {
		return "No categories found.\n"
	}

	var b strings.Builder
	for _, c := range state.Categories {
		fmt.Fprintf(&b, "%s\t%s\n", c.Name, c.ThumbnailURL)
	}
	return b.String()
}
