package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/templui/ahorros/internal/model"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
)

type GoalRepository interface {
	// Create stores goal and stamps its CreatedAt.
	Create(ctx context.Context, goal *model.Goal) error
	ByID(ctx context.Context, goalID string) (*model.Goal, error)
	// OwnedBy returns the goals owned by ownerID, newest first.
	OwnedBy(ctx context.Context, ownerID string) ([]*model.Goal, error)
	// SharedWith returns the goals holding a grant for email, newest first.
	SharedWith(ctx context.Context, email string) ([]*model.Goal, error)
	// Update applies patch if actor is the owner or holds an edit grant.
	Update(ctx context.Context, actor model.Principal, goalID string, patch model.GoalPatch) error
	// Delete removes the goal if actor owns it. Missing goals are not an error.
	Delete(ctx context.Context, actor model.Principal, goalID string) error
	// PutShare adds or replaces the grant for grant.Email. Owner only.
	// added is false when an existing grant was replaced.
	PutShare(ctx context.Context, actor model.Principal, goalID string, grant model.ShareGrant) (added bool, err error)
	// RemoveShare drops the grant for email, if any. Owner only.
	RemoveShare(ctx context.Context, actor model.Principal, goalID, email string) error
}

type goalRepository struct {
	db  *sqlx.DB
	now Clock
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db, now: utcNow}
}

func (r *goalRepository) Create(ctx context.Context, goal *model.Goal) error {
	goal.CreatedAt = r.now()

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `INSERT INTO goals (id, name, target, owner_id, owner_email, created_at)
		          VALUES ($1, $2, $3, $4, $5, $6)`

		_, err := tx.ExecContext(ctx, query,
			goal.ID,
			goal.Name,
			goal.Target,
			goal.OwnerID,
			goal.OwnerEmail,
			goal.CreatedAt,
		)
		if err != nil {
			return err
		}

		for _, s := range goal.Shares {
			err = insertShare(ctx, tx, goal.ID, s)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *goalRepository) ByID(ctx context.Context, goalID string) (*model.Goal, error) {
	return goalByID(ctx, r.db, goalID)
}

func (r *goalRepository) OwnedBy(ctx context.Context, ownerID string) ([]*model.Goal, error) {
	var goals []*model.Goal
	query := `SELECT * FROM goals WHERE owner_id = $1 ORDER BY created_at DESC, id DESC`

	err := r.db.SelectContext(ctx, &goals, query, ownerID)
	if err != nil {
		return nil, err
	}

	err = loadShares(ctx, r.db, goals)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *goalRepository) SharedWith(ctx context.Context, email string) ([]*model.Goal, error) {
	var goals []*model.Goal
	query := `SELECT g.* FROM goals g
	          JOIN goal_shares s ON s.goal_id = g.id
	          WHERE s.email = $1
	          ORDER BY g.created_at DESC, g.id DESC`

	err := r.db.SelectContext(ctx, &goals, query, model.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}

	err = loadShares(ctx, r.db, goals)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *goalRepository) Update(ctx context.Context, actor model.Principal, goalID string, patch model.GoalPatch) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		goal, err := goalByID(ctx, tx, goalID)
		if err != nil {
			return err
		}

		if !model.ResolveCapability(goal, actor).CanEdit() {
			return ErrPermissionDenied
		}

		query := `UPDATE goals
		          SET name = COALESCE($1, name), target = COALESCE($2, target)
		          WHERE id = $3`

		_, err = tx.ExecContext(ctx, query, nullString(patch.Name), nullFloat(patch.Target), goalID)
		return err
	})
}

func (r *goalRepository) Delete(ctx context.Context, actor model.Principal, goalID string) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		goal, err := goalByID(ctx, tx, goalID)
		if errors.Is(err, ErrGoalNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if !model.ResolveCapability(goal, actor).CanManage() {
			return ErrPermissionDenied
		}

		_, err = tx.ExecContext(ctx, `DELETE FROM goal_shares WHERE goal_id = $1`, goalID)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `DELETE FROM goals WHERE id = $1`, goalID)
		return err
	})
}

func (r *goalRepository) PutShare(ctx context.Context, actor model.Principal, goalID string, grant model.ShareGrant) (bool, error) {
	grant.Email = model.NormalizeEmail(grant.Email)

	var added bool
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := requireOwner(ctx, tx, actor, goalID)
		if err != nil {
			return err
		}

		replaced, err := deleteShare(ctx, tx, goalID, grant.Email)
		if err != nil {
			return err
		}
		added = replaced == 0

		return insertShare(ctx, tx, goalID, grant)
	})
	if err != nil {
		return false, err
	}
	return added, nil
}

func (r *goalRepository) RemoveShare(ctx context.Context, actor model.Principal, goalID, email string) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := requireOwner(ctx, tx, actor, goalID)
		if err != nil {
			return err
		}

		_, err = deleteShare(ctx, tx, goalID, model.NormalizeEmail(email))
		return err
	})
}

type queryer interface {
	sqlx.QueryerContext
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	Rebind(query string) string
}

func goalByID(ctx context.Context, q queryer, goalID string) (*model.Goal, error) {
	goal := &model.Goal{}
	err := q.GetContext(ctx, goal, `SELECT * FROM goals WHERE id = $1`, goalID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	err = loadShares(ctx, q, []*model.Goal{goal})
	if err != nil {
		return nil, err
	}

	return goal, nil
}

func requireOwner(ctx context.Context, q queryer, actor model.Principal, goalID string) error {
	goal, err := goalByID(ctx, q, goalID)
	if err != nil {
		return err
	}
	if !model.ResolveCapability(goal, actor).CanManage() {
		return ErrPermissionDenied
	}
	return nil
}

type shareRow struct {
	GoalID  string `db:"goal_id"`
	Email   string `db:"email"`
	CanEdit bool   `db:"can_edit"`
}

// loadShares fills the Shares of every goal with a single IN query.
func loadShares(ctx context.Context, q queryer, goals []*model.Goal) error {
	if len(goals) == 0 {
		return nil
	}

	byID := make(map[string]*model.Goal, len(goals))
	ids := make([]string, 0, len(goals))
	for _, g := range goals {
		g.Shares = []model.ShareGrant{}
		byID[g.ID] = g
		ids = append(ids, g.ID)
	}

	query, args, err := sqlx.In(`SELECT goal_id, email, can_edit FROM goal_shares WHERE goal_id IN (?) ORDER BY email`, ids)
	if err != nil {
		return fmt.Errorf("failed to build share query: %w", err)
	}

	var rows []shareRow
	err = q.SelectContext(ctx, &rows, q.Rebind(query), args...)
	if err != nil {
		return err
	}

	for _, row := range rows {
		g := byID[row.GoalID]
		g.Shares = append(g.Shares, model.ShareGrant{Email: row.Email, CanEdit: row.CanEdit})
	}
	return nil
}

func insertShare(ctx context.Context, tx *sqlx.Tx, goalID string, grant model.ShareGrant) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO goal_shares (goal_id, email, can_edit) VALUES ($1, $2, $3)`,
		goalID, model.NormalizeEmail(grant.Email), grant.CanEdit,
	)
	return err
}

func deleteShare(ctx context.Context, tx *sqlx.Tx, goalID, email string) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM goal_shares WHERE goal_id = $1 AND email = $2`, goalID, email)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
