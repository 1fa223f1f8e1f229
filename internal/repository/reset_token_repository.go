package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/osmapp/osm-backend/internal/model"
	"github.com/osmapp/osm-backend/internal/utils"
)

// ResetTokenRepo persists and redeems password reset tokens. A token is
// valid for a fixed window after issuance and may be redeemed at most
// once: redemption deletes the row under a row lock in the same
// transaction that rewrites the password hash, so two racing attempts
// cannot both succeed. Expired rows are never swept; they simply stop
// matching the expiry guard.
type ResetTokenRepo struct{ DB *sql.DB }

func NewResetTokenRepo(db *sql.DB) *ResetTokenRepo { return &ResetTokenRepo{DB: db} }

// Store inserts a reset token row bound to an actor. The token column
// carries a unique index, so a generator collision fails loudly instead
// of silently attaching one token to two actors.
func (r *ResetTokenRepo) Store(ctx context.Context, actorRole string, actorID uint64, token string, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO password_reset_tokens (actor_role, actor_id, token, expires_at) VALUES (?,?,?,?)",
		actorRole, actorID, token, expiresAt)
	return err
}

// Redeem consumes a reset token and replaces the owning actor's
// password hash. The whole operation runs in one transaction:
//
//  1. lock the non-expired row matching the token (FOR UPDATE),
//  2. delete it, requiring exactly one affected row,
//  3. update the actor's password_hash in the role's table.
//
// Any miss (unknown token, expired token, or a concurrent redemption
// that got the lock first) surfaces as ErrResetTokenInvalid with no
// indication of which case occurred.
func (r *ResetTokenRepo) Redeem(ctx context.Context, token, newPassword string, cost int) error {
	hash, err := utils.HashPassword(newPassword, cost)
	if err != nil {
		return err
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var rec model.PasswordResetToken
	err = tx.QueryRowContext(ctx,
		"SELECT id, actor_role, actor_id FROM password_reset_tokens WHERE token=? AND expires_at > UTC_TIMESTAMP() LIMIT 1 FOR UPDATE",
		token).Scan(&rec.ID, &rec.ActorRole, &rec.ActorID)
	if err == sql.ErrNoRows {
		return ErrResetTokenInvalid
	}
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM password_reset_tokens WHERE id=?", rec.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n != 1 {
		return ErrResetTokenInvalid
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE "+tableFor(rec.ActorRole)+" SET password_hash=? WHERE id=?",
		hash, rec.ActorID); err != nil {
		return err
	}

	return tx.Commit()
}
