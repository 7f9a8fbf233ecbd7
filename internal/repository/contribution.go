package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/templui/ahorros/internal/model"
)

var (
	ErrContributionNotFound = errors.New("contribution not found")
)

type ContributionRepository interface {
	Create(ctx context.Context, c *model.Contribution) error
	ByID(ctx context.Context, id string) (*model.Contribution, error)
	// OwnedBy returns the contributions of ownerID, newest first.
	OwnedBy(ctx context.Context, ownerID string) ([]*model.Contribution, error)
	Update(ctx context.Context, actor model.Principal, id string, patch model.ContributionPatch) error
	// Delete removes the contribution if actor owns it. Missing ids are not an error.
	Delete(ctx context.Context, actor model.Principal, id string) error
}

type contributionRepository struct {
	db  *sqlx.DB
	now Clock
}

func NewContributionRepository(db *sqlx.DB) ContributionRepository {
	return &contributionRepository{db: db, now: utcNow}
}

func (r *contributionRepository) Create(ctx context.Context, c *model.Contribution) error {
	c.CreatedAt = r.now()

	query := `INSERT INTO contributions (id, contributed_on, amount, note, owner_id, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.Date,
		c.Amount,
		c.Note,
		c.OwnerID,
		c.CreatedAt,
	)

	return err
}

func (r *contributionRepository) ByID(ctx context.Context, id string) (*model.Contribution, error) {
	c := &model.Contribution{}
	err := r.db.GetContext(ctx, c, `SELECT * FROM contributions WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrContributionNotFound
	}
	if err != nil {
		return nil, err
	}

	return c, nil
}

func (r *contributionRepository) OwnedBy(ctx context.Context, ownerID string) ([]*model.Contribution, error) {
	var out []*model.Contribution
	query := `SELECT * FROM contributions WHERE owner_id = $1 ORDER BY created_at DESC, id DESC`

	err := r.db.SelectContext(ctx, &out, query, ownerID)
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *contributionRepository) Update(ctx context.Context, actor model.Principal, id string, patch model.ContributionPatch) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var ownerID string
		err := tx.GetContext(ctx, &ownerID, `SELECT owner_id FROM contributions WHERE id = $1`, id)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrContributionNotFound
		}
		if err != nil {
			return err
		}

		if ownerID != actor.ID {
			return ErrPermissionDenied
		}

		query := `UPDATE contributions
		          SET contributed_on = COALESCE($1, contributed_on),
		              amount = COALESCE($2, amount),
		              note = COALESCE($3, note)
		          WHERE id = $4`

		_, err = tx.ExecContext(ctx, query,
			nullString(patch.Date),
			nullFloat(patch.Amount),
			nullString(patch.Note),
			id,
		)
		return err
	})
}

func (r *contributionRepository) Delete(ctx context.Context, actor model.Principal, id string) error {
	query := `DELETE FROM contributions WHERE id = $1 AND owner_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, actor.ID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		// Either already gone or owned by someone else
		_, err = r.ByID(ctx, id)
		if errors.Is(err, ErrContributionNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return ErrPermissionDenied
	}

	return nil
}
