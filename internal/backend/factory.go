package backend

import (
	"fmt"
	"log/slog"

	"github.com/Shakib-IO/food-expense-tracker/internal/amqp"
	"github.com/Shakib-IO/food-expense-tracker/internal/services"
	"github.com/Shakib-IO/food-expense-tracker/internal/store/memory"
	"github.com/Shakib-IO/food-expense-tracker/internal/store/sqlite"
)

// CleanupFunc releases the resources a backend holds.
type CleanupFunc func() error

// Result contains the ready-to-use expense service and its cleanup.
type Result struct {
	Service *services.ExpenseService
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// CreateBackend builds the expense service for the configured backend.
func (f *Factory) CreateBackend(cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(cfg)
	case MemoryBackend:
		return f.createMemoryBackend()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}

func (f *Factory) createSQLiteBackend(cfg Config) (*Result, error) {
	repo, err := sqlite.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize SQLite repository: %w", err)
	}

	// AMQP is optional: without it expenses are still recorded, just
	// not mirrored to the shared sheet.
	var publisher services.EventPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without export events", "error", err)
		} else {
			publisher = amqpClient
			f.logger.Info("Initialized AMQP client",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	service := services.NewExpenseService(repo, publisher)

	f.logger.Info("Initialized SQLite backend",
		"db_path", cfg.SQLiteDBPath,
		"amqp_enabled", publisher != nil)

	return &Result{
		Service: service,
		Cleanup: service.Close,
	}, nil
}

func (f *Factory) createMemoryBackend() (*Result, error) {
	service := services.NewExpenseService(memory.New(), nil)

	f.logger.Info("Initialized memory backend")

	return &Result{
		Service: service,
		Cleanup: nil,
	}, nil
}
