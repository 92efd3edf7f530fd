package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/tarefas-api/internal/config"
	"github.com/BuzzLyutic/tarefas-api/internal/database"
	"github.com/BuzzLyutic/tarefas-api/internal/handler"
	"github.com/BuzzLyutic/tarefas-api/internal/service"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Подключаем логгер
	logger, err := newLogger(cfg.App)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	// Подключаем БД
	db, err := database.Open(context.Background(), cfg.DB, logger)
	if err != nil {
		logger.Fatal("Failed to connect to Database", zap.String("driver", cfg.DB.Driver), zap.Error(err)) // дальнейшая работа теряет смысл
	}
	logger.Info("Successfully connected to the Database!", zap.String("driver", db.Driver()))

	taskService := service.NewTaskService(db.Tasks())
	taskHandler := handler.NewTaskHandler(taskService, logger)
	router := handler.NewRouter(taskHandler, db, logger)

	srv := &http.Server{ // Создаем сервер
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() { // Запуск сервера и обработка ошибок
		logger.Info("Server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown: сначала сервер, потом БД
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.HTTP.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				logger.Info("Shutting down server...")
				if err := srv.Shutdown(ctx); err != nil {
					return err
				}
				return db.Close()
			},
		},
	)

	exitCode := <-wait
	logger.Info("Server stopped", zap.Int("exit_code", exitCode))
	logger.Sync()
	os.Exit(exitCode)
}

func newLogger(cfg config.AppConfig) (*zap.Logger, error) {
	if cfg.IsDev() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
