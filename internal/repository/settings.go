package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/templui/ahorros/internal/model"
)

var (
	ErrSettingsNotFound = errors.New("settings not found")
)

type SettingsRepository interface {
	ByUserID(ctx context.Context, userID string) (*model.Settings, error)
	// Upsert stores settings and stamps UpdatedAt.
	Upsert(ctx context.Context, settings *model.Settings) error
}

type settingsRepository struct {
	db  *sqlx.DB
	now Clock
}

func NewSettingsRepository(db *sqlx.DB) SettingsRepository {
	return &settingsRepository{db: db, now: utcNow}
}

func (r *settingsRepository) ByUserID(ctx context.Context, userID string) (*model.Settings, error) {
	var s model.Settings
	err := r.db.GetContext(ctx, &s, `SELECT * FROM user_settings WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *settingsRepository) Upsert(ctx context.Context, s *model.Settings) error {
	s.UpdatedAt = r.now()

	query := `INSERT INTO user_settings (user_id, conservative_monthly, ambitious_monthly, updated_at)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (user_id) DO UPDATE
	          SET conservative_monthly = excluded.conservative_monthly,
	              ambitious_monthly = excluded.ambitious_monthly,
	              updated_at = excluded.updated_at`

	_, err := r.db.ExecContext(ctx, query, s.UserID, s.ConservativeMonthly, s.AmbitiousMonthly, s.UpdatedAt)
	return err
}
