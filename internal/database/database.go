package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/BuzzLyutic/tarefas-api/internal/config"
	"github.com/BuzzLyutic/tarefas-api/internal/repo"
)

// DB держит соединение выбранного драйвера и репозиторий задач поверх него
type DB struct {
	driver string
	orm    *gorm.DB
	pool   *pgxpool.Pool
	tasks  repo.TaskRepository
}

func Open(ctx context.Context, cfg config.DBConfig, logger *zap.Logger) (*DB, error) {
	switch cfg.Driver {
	case config.DriverPgx:
		return openPgx(ctx, cfg)
	case config.DriverPostgres:
		return openGorm(ctx, cfg, postgres.Open(cfg.URL), logger)
	case config.DriverSQLite:
		return openGorm(ctx, cfg, sqlite.Open(cfg.URL), logger)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

func openPgx(ctx context.Context, cfg config.DBConfig) (*DB, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("pg parse config: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("pg connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}

	return &DB{
		driver: config.DriverPgx,
		pool:   pool,
		tasks:  repo.NewTaskRepo(pool),
	}, nil
}

func openGorm(ctx context.Context, cfg config.DBConfig, dialector gorm.Dialector, logger *zap.Logger) (*DB, error) {
	orm, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 repo.NewGormLogger(logger, cfg.Debug),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := orm.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if cfg.Driver == config.DriverSQLite {
		// sqlite допускает одного писателя; для ":memory:" база живет, пока живо соединение
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(min(cfg.MaxIdleConns, cfg.MaxOpenConns))
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := repo.AutoMigrate(orm.WithContext(ctx)); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return &DB{
		driver: cfg.Driver,
		orm:    orm,
		tasks:  repo.NewGormTaskRepo(orm),
	}, nil
}

func (d *DB) Driver() string {
	return d.driver
}

func (d *DB) Tasks() repo.TaskRepository {
	return d.tasks
}

func (d *DB) Ping(ctx context.Context) error {
	if d.pool != nil {
		return d.pool.Ping(ctx)
	}
	if d.orm == nil {
		return errors.New("database connection is nil")
	}

	sqlDB, err := d.orm.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *DB) Close() error {
	if d.pool != nil {
		d.pool.Close()
		return nil
	}
	if d.orm == nil {
		return nil
	}

	sqlDB, err := d.orm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
