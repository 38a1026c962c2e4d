package runs

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ghanse/dlt-workshop/internal/domain"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// PostgresRepository keeps run history in a shared database, useful when a
// whole class runs the workshop against one warehouse. Timestamps are stored
// as RFC3339 text so both backends scan identically.
type PostgresRepository struct {
	dsn string
	db  *sql.DB
}

func NewPostgresRepository(dsn string) *PostgresRepository {
	return &PostgresRepository{dsn: strings.TrimSpace(dsn)}
}

func (r *PostgresRepository) Init() error {
	if r.dsn == "" {
		return fmt.Errorf("runs db dsn is required")
	}
	db, err := sql.Open("postgres", r.dsn)
	if err != nil {
		return err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return err
	}
	r.db = db

	_, err = r.db.Exec(`
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		namespace TEXT NOT NULL,
		catalog TEXT NOT NULL,
		seed BIGINT NOT NULL,
		config_hash TEXT NOT NULL,
		status TEXT NOT NULL,
		started_at TEXT NOT NULL,
		completed_at TEXT,
		stats TEXT,
		error TEXT
	)`)
	return err
}

func (r *PostgresRepository) DB() *sql.DB { return r.db }

func (r *PostgresRepository) Create(run *domain.Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}

	var completedAt interface{}
	if run.CompletedAt != nil {
		completedAt = run.CompletedAt.Format(time.RFC3339)
	}

	query := `
		INSERT INTO runs (
			id, namespace, catalog, seed, config_hash,
			status, started_at, completed_at, stats, error
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(query,
		run.ID, run.Namespace, run.Catalog, run.Seed, run.ConfigHash,
		run.Status, run.StartedAt.Format(time.RFC3339), completedAt,
		string(run.Stats), run.Error,
	)
	return err
}

func (r *PostgresRepository) Update(run *domain.Run) error {
	var completedAt interface{}
	if run.CompletedAt != nil {
		completedAt = run.CompletedAt.Format(time.RFC3339)
	}

	query := `
		UPDATE runs SET
			status = $1, completed_at = $2, stats = $3, error = $4
		WHERE id = $5
	`

	_, err := r.db.Exec(query, run.Status, completedAt, string(run.Stats), run.Error, run.ID)
	return err
}

func (r *PostgresRepository) Get(id string) (*domain.Run, error) {
	query := `
		SELECT id, namespace, catalog, seed, config_hash,
		       status, started_at, completed_at, stats, error
		FROM runs WHERE id = $1
	`
	return scanRun(r.db.QueryRow(query, id))
}

func (r *PostgresRepository) List(limit int, status string) ([]*domain.Run, error) {
	query := `
		SELECT id, namespace, catalog, seed, config_hash,
		       status, started_at, completed_at, stats, error
		FROM runs
	`

	args := make([]interface{}, 0)
	if status != "" {
		query += " WHERE status = $1"
		args = append(args, status)
	}

	query += " ORDER BY started_at DESC"

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, run)
	}
	return list, rows.Err()
}

func (r *PostgresRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}
