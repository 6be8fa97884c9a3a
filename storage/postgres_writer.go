package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"member-etl/models"
	"member-etl/utils"
)

const (
	memberColumnCount = 13
	insertBatchSize   = 50
)

// PostgresWriter mirrors each run's output into the members table.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, waits for it with the
// given retry policy, runs schema migrations and returns a ready writer.
func NewPostgresWriter(ctx context.Context, dsn string, retry *utils.RetryConfig) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := retry.Do(ctx, "postgres ping", func() error { return db.PingContext(ctx) }); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate(ctx context.Context) error {
	_, err := pw.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS members (
			id            SERIAL PRIMARY KEY,
			full_name     TEXT          NOT NULL,
			company       TEXT          NOT NULL DEFAULT '',
			birth_date    TEXT          NOT NULL DEFAULT '',
			salary        TEXT,
			salary_amount NUMERIC(14,2),
			salary_bucket CHAR(1)       NOT NULL DEFAULT '',
			address       TEXT          NOT NULL DEFAULT '',
			suburb        TEXT          NOT NULL DEFAULT '',
			state         TEXT          NOT NULL DEFAULT '',
			post          BIGINT        NOT NULL,
			phone         BIGINT        NOT NULL,
			mobile        BIGINT        NOT NULL,
			email         TEXT          NOT NULL DEFAULT '',
			loaded_at     TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_members_salary_bucket ON members(salary_bucket);
		CREATE INDEX IF NOT EXISTS idx_members_state         ON members(state);
	`)
	return err
}

// Write replaces the table contents with members inside one transaction.
func (pw *PostgresWriter) Write(members []*models.Member) error {
	ctx := context.Background()

	tx, err := pw.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM members"); err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}

	for i := 0; i < len(members); i += insertBatchSize {
		end := i + insertBatchSize
		if end > len(members) {
			end = len(members)
		}
		query, args := buildInsert(members[i:end])
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("postgres: insert batch at %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

func buildInsert(batch []*models.Member) (string, []interface{}) {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*memberColumnCount)

	for idx, m := range batch {
		base := idx * memberColumnCount
		placeholders := make([]string, memberColumnCount)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			m.FullName, m.Company, m.BirthDate, m.Salary, m.SalaryAmount, string(m.SalaryBucket),
			m.Address, m.Suburb, m.State, m.Post, m.Phone, m.Mobile, m.Email)
	}

	query := fmt.Sprintf(`
		INSERT INTO members (full_name, company, birth_date, salary, salary_amount, salary_bucket,
			address, suburb, state, post, phone, mobile, email)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	return query, valueArgs
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
