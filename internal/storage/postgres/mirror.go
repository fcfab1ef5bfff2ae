package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
	"time"

	pq "github.com/lib/pq"

	"github.com/julianstephens/lifelog/internal/constants"
	"github.com/julianstephens/lifelog/internal/logger"
	"github.com/julianstephens/lifelog/internal/migration"
	"github.com/julianstephens/lifelog/internal/remote"
	"github.com/julianstephens/lifelog/migrations"
)

// Mirror stores each collection as a table of JSONB rows keyed by
// (user_id, id) in the lifelog schema.
type Mirror struct {
	connStr string
	db      *sql.DB
}

var _ remote.Mirror = (*Mirror)(nil)

func New(connStr string) *Mirror {
	return &Mirror{
		connStr: withSearchPath(connStr),
	}
}

// Connect opens the pool, provisions the schema and applies migrations.
func (m *Mirror) Connect(ctx context.Context) error {
	if m.db != nil {
		return nil
	}

	db, err := sql.Open("postgres", m.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		if strings.Contains(err.Error(), "SSL is not enabled on the server") && !hasSSLMode(m.connStr) {
			return fmt.Errorf("failed to connect to database: %w (hint: try adding ?sslmode=disable to your connection string)", err)
		}
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS "+pq.QuoteIdentifier(constants.AppName)); err != nil {
		db.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}
	m.db = db

	if err := m.runMigrations(); err != nil {
		m.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (m *Mirror) runMigrations() error {
	subFS, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		return fmt.Errorf("failed to access postgres migrations: %w", err)
	}

	runner, err := migration.NewRunner(m.db, subFS, migration.DriverPostgres)
	if err != nil {
		return err
	}
	_, err = runner.ApplyMigrations(func(msg string) {
		logger.Debug(msg, "remote", "postgres")
	})
	return err
}

func (m *Mirror) ready(table string) error {
	if m.db == nil {
		return fmt.Errorf("postgres mirror not connected")
	}
	if table == "" {
		return nil
	}
	return remote.ValidateTable(table)
}

func (m *Mirror) WhoAmI(ctx context.Context) (string, error) {
	if err := m.ready(""); err != nil {
		return "", err
	}
	var user string
	if err := m.db.QueryRowContext(ctx, "SELECT session_user").Scan(&user); err != nil {
		return "", fmt.Errorf("failed to query session user: %w", err)
	}
	return user, nil
}

func (m *Mirror) FetchAll(ctx context.Context, table, owner string) ([]json.RawMessage, error) {
	if err := m.ready(table); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT data FROM %s WHERE user_id = $1 ORDER BY updated_at, id", pq.QuoteIdentifier(table))
	rows, err := m.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", table, err)
	}
	defer rows.Close()

	var out []json.RawMessage
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		out = append(out, json.RawMessage(data))
	}
	return out, rows.Err()
}

func (m *Mirror) Upsert(ctx context.Context, table, owner, id string, data json.RawMessage) error {
	if err := m.ready(table); err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, id, data, updated_at) VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
		pq.QuoteIdentifier(table))
	if _, err := m.db.ExecContext(ctx, query, owner, id, []byte(data)); err != nil {
		return fmt.Errorf("failed to upsert %s/%s: %w", table, id, err)
	}
	return nil
}

func (m *Mirror) Delete(ctx context.Context, table, owner, id string) error {
	if err := m.ready(table); err != nil {
		return err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE user_id = $1 AND id = $2", pq.QuoteIdentifier(table))
	if _, err := m.db.ExecContext(ctx, query, owner, id); err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", table, id, err)
	}
	return nil
}

func (m *Mirror) Close() error {
	if m.db != nil {
		err := m.db.Close()
		m.db = nil
		return err
	}
	return nil
}
