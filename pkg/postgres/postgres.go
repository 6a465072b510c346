package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for goose
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

type DB struct {
	Host     string `yaml:"host" envconfig:"DB_HOST" default:"localhost"`
	Port     string `yaml:"port" envconfig:"DB_PORT" default:"5432"`
	User     string `yaml:"user" envconfig:"DB_USER" default:"postgres"`
	Password string `yaml:"password" envconfig:"DB_PASSWORD"`
	DBName   string `yaml:"dbname" envconfig:"DB_NAME" default:"library"`
	SSLMode  string `yaml:"sslmode" envconfig:"DB_SSLMODE" default:"disable"`
}

func (d *DB) dsn() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode)
}

func NewPostgresDB(ctx context.Context, cfg *DB, migrationFiles embed.FS) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.dsn())
	if err != nil {
		return nil, errors.Wrap(err, "pgxpool.New")
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, errors.Wrap(err, "ping db")
	}
	if err := migrate(cfg, migrationFiles); err != nil {
		return nil, errors.Wrap(err, "migrate")
	}
	return pool, nil
}

func migrate(cfg *DB, migrationFiles embed.FS) error {
	goose.SetBaseFS(migrationFiles)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	db, err := sql.Open("pgx", cfg.dsn())
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck

	return goose.Up(db, ".")
}
