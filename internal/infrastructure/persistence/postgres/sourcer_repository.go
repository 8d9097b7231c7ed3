package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/splits-network/splits-sub003/internal/application/ports"
	"github.com/splits-network/splits-sub003/internal/domain"
	domerrors "github.com/splits-network/splits-sub003/internal/domain/errors"
)

// SourcerRepository persists candidate ownership records. An exclusion
// constraint on (candidate_id, protection window) guarantees at most one
// active sourcer per candidate; a losing concurrent insert surfaces as
// ErrAlreadyOwned.
type SourcerRepository struct {
	db Queryer
}

func NewSourcerRepository(db Queryer) *SourcerRepository {
	return &SourcerRepository{db: db}
}

const (
	createSourcerSQL = `INSERT INTO candidate_sourcers (id, candidate_id, sourcer_actor_id, sourcer_type, sourced_at, protection_window_days, protection_expires_at, notes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	getActiveSourcerSQL = `SELECT id, candidate_id, sourcer_actor_id, sourcer_type, sourced_at, protection_window_days, protection_expires_at, notes
FROM candidate_sourcers WHERE candidate_id = $1 AND protection_expires_at > $2 ORDER BY sourced_at DESC LIMIT 1`
	updateSourcerNotesSQL = `UPDATE candidate_sourcers SET notes = $2 WHERE id = $1`
)

func (r *SourcerRepository) Create(ctx context.Context, s *domain.CandidateSourcer) error {
	_, err := r.db.Exec(ctx, createSourcerSQL,
		s.ID, s.CandidateID.UUID, s.SourcerActorID.String(), s.SourcerType,
		s.SourcedAt, s.ProtectionWindowDays, s.ProtectionExpiresAt, s.Notes)
	if err != nil {
		if isConstraintViolation(err) {
			return domerrors.ErrAlreadyOwned
		}
		return err
	}
	return nil
}

func (r *SourcerRepository) GetActive(ctx context.Context, candidateID domain.CandidateID, now time.Time) (*domain.CandidateSourcer, error) {
	row := r.db.QueryRow(ctx, getActiveSourcerSQL, candidateID.UUID, now)
	s, err := scanSourcer(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

func (r *SourcerRepository) UpdateNotes(ctx context.Context, id string, notes string) error {
	tag, err := r.db.Exec(ctx, updateSourcerNotesSQL, id, notes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domerrors.ErrNotFound
	}
	return nil
}

func scanSourcer(row pgx.Row) (*domain.CandidateSourcer, error) {
	var (
		s         domain.CandidateSourcer
		candidate domain.CandidateID
		actor     string
	)
	err := row.Scan(&s.ID, &candidate.UUID, &actor, &s.SourcerType,
		&s.SourcedAt, &s.ProtectionWindowDays, &s.ProtectionExpiresAt, &s.Notes)
	if err != nil {
		return nil, err
	}
	s.CandidateID = candidate
	s.SourcerActorID = domain.ActorID(actor)
	return &s, nil
}

var _ ports.SourcerRepository = (*SourcerRepository)(nil)
