package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"wecom-bot/internal/auth"
)

const credentialsTable = "credentials"

// credentialName keys the single row the bot maintains. The table is
// keyed by name so a second upstream account needs no schema change.
const credentialName = "layant"

var credentialRowFields = fields(credentialRow{})

type credentialRow struct {
	Name      string    `db:"name"`
	Token     string    `db:"token"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (s *storageImpl) Load(ctx context.Context) (string, error) {
	q, args, err := s.stmpBuilder().
		Select(credentialRowFields).
		From(credentialsTable).
		Where(sq.Eq{"name": credentialName}).
		Limit(1).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build sql query: %w", err)
	}

	var row credentialRow
	err = s.db.QueryRowContext(ctx, q, args...).Scan(&row.Name, &row.Token, &row.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", auth.ErrNoCredential
		}
		return "", fmt.Errorf("row.Scan: %w", err)
	}
	if row.Token == "" {
		return "", auth.ErrNoCredential
	}

	return row.Token, nil
}

func (s *storageImpl) Save(ctx context.Context, token string) error {
	q, args, err := s.stmpBuilder().
		Replace(credentialsTable).
		SetMap(map[string]interface{}{
			"name":       credentialName,
			"token":      token,
			"updated_at": s.now(),
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build sql query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("db.ExecContext: %w", err)
	}

	return nil
}
