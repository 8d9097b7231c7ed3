package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/splits-network/splits-sub003/internal/application/ports"
	"github.com/splits-network/splits-sub003/internal/domain"
)

// IdentityDirectory reads the identity tables maintained by the auth
// gateway. All lookups are read-only; a missing identity is nil, nil.
type IdentityDirectory struct {
	db Queryer
}

func NewIdentityDirectory(db Queryer) *IdentityDirectory {
	return &IdentityDirectory{db: db}
}

const (
	findRecruiterByActorSQL = `SELECT id, status FROM recruiters WHERE actor_id = $1`
	findMembershipSQL       = `SELECT company_id, role FROM company_members WHERE actor_id = $1 AND company_id = $2`
	findCandidateByActorSQL = `SELECT candidate_id FROM candidate_actors WHERE actor_id = $1`
	isPlatformAdminSQL      = `SELECT EXISTS(SELECT 1 FROM platform_admins WHERE actor_id = $1)`
)

func (d *IdentityDirectory) FindRecruiterByActor(ctx context.Context, actorID domain.ActorID) (*domain.Recruiter, error) {
	var (
		id     uuid.UUID
		status string
	)
	err := d.db.QueryRow(ctx, findRecruiterByActorSQL, actorID.String()).Scan(&id, &status)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &domain.Recruiter{ID: domain.NewRecruiterID(id), Status: status}, nil
}

func (d *IdentityDirectory) FindMembership(ctx context.Context, actorID domain.ActorID, companyID domain.CompanyID) (*domain.CompanyMembership, error) {
	var (
		id   uuid.UUID
		role string
	)
	err := d.db.QueryRow(ctx, findMembershipSQL, actorID.String(), companyID.UUID).Scan(&id, &role)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &domain.CompanyMembership{CompanyID: domain.NewCompanyID(id), Role: role}, nil
}

func (d *IdentityDirectory) FindCandidateByActor(ctx context.Context, actorID domain.ActorID) (*domain.CandidateID, error) {
	var id uuid.UUID
	err := d.db.QueryRow(ctx, findCandidateByActorSQL, actorID.String()).Scan(&id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	cid := domain.NewCandidateID(id)
	return &cid, nil
}

func (d *IdentityDirectory) IsPlatformAdmin(ctx context.Context, actorID domain.ActorID) (bool, error) {
	var admin bool
	if err := d.db.QueryRow(ctx, isPlatformAdminSQL, actorID.String()).Scan(&admin); err != nil {
		return false, err
	}
	return admin, nil
}

var _ ports.IdentityDirectory = (*IdentityDirectory)(nil)
