package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/athebyme/recipe-catalog/config"
	"github.com/athebyme/recipe-catalog/internal/adapters/logger"
	"github.com/athebyme/recipe-catalog/internal/adapters/mealdb"
	"github.com/athebyme/recipe-catalog/internal/domain/services"
	"github.com/athebyme/recipe-catalog/internal/tui"
	"github.com/athebyme/recipe-catalog/pkg/interfaces"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

func main() {
	configPath := flag.String("config", "", "имя файла конфигурации")
	plain := flag.Bool("plain", false, "вывести список без интерактивного интерфейса")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка загрузки конфигурации: %v\n", err)
		os.Exit(1)
	}

	// stdout занят интерфейсом, поэтому логи уходят в файл
	log, err := logger.NewFileLogger(cfg.LogLevel, cfg.TUI.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка инициализации логгера: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	client, err := mealdb.NewClient(
		mealdb.WithBaseURL(cfg.MealDB.BaseURL),
		mealdb.WithTimeout(cfg.MealDB.Timeout),
		mealdb.WithLogger(log),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка инициализации клиента TheMealDB: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	controller := services.NewCategoryController(client, log)
	defer controller.Dispose()

	if err := controller.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка запуска загрузки категорий: %v\n", err)
		os.Exit(1)
	}

	interactive := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	if *plain || !interactive {
		code := runPlain(ctx, controller, log)
		controller.Dispose()
		log.Sync()
		os.Exit(code)
	}

	program := tea.NewProgram(tui.NewModel(controller), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		log.Error("Ошибка терминального интерфейса", interfaces.LogField{Key: "error", Value: err.Error()})
		fmt.Fprintf(os.Stderr, "Ошибка терминального интерфейса: %v\n", err)
		os.Exit(1)
	}
}

// runPlain дожидается результата загрузки и печатает его построчно
func runPlain(ctx context.Context, controller *services.CategoryController, log interfaces.LoggerPort) int {
	select {
	case <-controller.Done():
	case <-ctx.Done():
		log.Info("Загрузка прервана")
		return 130
	}

	state := controller.State()
	fmt.Print(tui.RenderPlain(state))
	if state.Error != nil {
		return 1
	}
	return 0
}
