package runs

import (
	"strings"

	"github.com/ghanse/dlt-workshop/internal/domain"
)

// Repository stores run metadata so attendees can inspect what the setup
// tool generated and when.
type Repository interface {
	Init() error
	Create(run *domain.Run) error
	Update(run *domain.Run) error
	Get(id string) (*domain.Run, error)
	List(limit int, status string) ([]*domain.Run, error)
	Close() error
}

// NewRepository picks a backend by DSN: postgres URLs go to Postgres,
// anything else is treated as a SQLite file path.
func NewRepository(dsn string) Repository {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return NewPostgresRepository(dsn)
	}
	return NewSQLiteRepository(dsn)
}
