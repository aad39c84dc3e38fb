package directory

import (
	"context"
	"database/sql"
	"fmt"

	errx "github.com/deskbot-poc/server/internal/core/error"
	logx "github.com/deskbot-poc/server/pkg/logger"
	"github.com/lib/pq"
)

// PostgresStore reads the contact directory from a Postgres table with
// columns (id, name, email, phone, role). Rows are returned in id order so
// "first match" semantics stay deterministic across reads.
type PostgresStore struct {
	db    *sql.DB
	table string
}

func NewPostgresStore(db *sql.DB, table string) *PostgresStore {
	return &PostgresStore{db: db, table: table}
}

func (s *PostgresStore) List(ctx context.Context) ([]Record, error) {
	query := fmt.Sprintf(
		"SELECT name, email, phone, role FROM %s ORDER BY id",
		pq.QuoteIdentifier(s.table),
	)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		logx.Error().Err(err).Str("table", s.table).Msg("failed to read contact directory")
		return nil, errx.WrapDirectory(err)
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Name, &r.Email, &r.Phone, &r.Role); err != nil {
			logx.Error().Err(err).Str("table", s.table).Msg("failed to scan directory row")
			return nil, errx.WrapDirectory(err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errx.WrapDirectory(err)
	}

	return records, nil
}

var _ Store = (*PostgresStore)(nil)
