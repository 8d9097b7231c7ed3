package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"

	"github.com/splits-network/splits-sub003/internal/application/ports"
	"github.com/splits-network/splits-sub003/internal/domain"
)

func TestBindPlaceholders(t *testing.T) {
	t.Parallel()

	got := bindPlaceholders("company_id = ? AND LOWER(title) LIKE ?", 1)
	want := "company_id = $1 AND LOWER(title) LIKE $2"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	if got := bindPlaceholders("", 1); got != "" {
		t.Errorf("empty expr: got %q", got)
	}
}

func TestRenderListSQLSharesPredicate(t *testing.T) {
	t.Parallel()

	companyID := uuid.New()
	q := ports.ListQuery{
		Predicate: ports.Predicate{Expr: "company_id = ?", Args: []any{companyID}},
		OrderBy:   "created_at",
		Desc:      true,
		Limit:     50,
		Offset:    100,
	}

	dataSQL, countSQL, dataArgs, countArgs := renderListSQL("jobs", jobColumns, q)

	if dataSQL != "SELECT "+jobColumns+" FROM jobs WHERE company_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3" {
		t.Errorf("dataSQL = %q", dataSQL)
	}
	if countSQL != "SELECT COUNT(*) FROM jobs WHERE company_id = $1" {
		t.Errorf("countSQL = %q", countSQL)
	}
	if len(dataArgs) != 3 || dataArgs[1] != 50 || dataArgs[2] != 100 {
		t.Errorf("dataArgs = %v", dataArgs)
	}
	if len(countArgs) != 1 || countArgs[0] != dataArgs[0] {
		t.Error("count must run with the same predicate args as the page")
	}
}

func TestRenderListSQLNoPredicate(t *testing.T) {
	t.Parallel()

	q := ports.ListQuery{OrderBy: "created_at", Limit: 50, Offset: 0}
	dataSQL, countSQL, dataArgs, _ := renderListSQL("companies", companyColumns, q)

	if dataSQL != "SELECT "+companyColumns+" FROM companies ORDER BY created_at ASC LIMIT $1 OFFSET $2" {
		t.Errorf("dataSQL = %q", dataSQL)
	}
	if countSQL != "SELECT COUNT(*) FROM companies" {
		t.Errorf("countSQL = %q", countSQL)
	}
	if len(dataArgs) != 2 {
		t.Errorf("dataArgs = %v", dataArgs)
	}
}

func TestAcceptedCandidateIDs(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewListingRepository(mock)
	companyID := domain.NewCompanyID(uuid.New())
	accepted := domain.NewCandidateID(uuid.New())
	pending := domain.NewCandidateID(uuid.New())

	mock.ExpectQuery(regexp.QuoteMeta(acceptedCandidateIDsSQL)).
		WithArgs(companyID.UUID, []string{accepted.String(), pending.String()}).
		WillReturnRows(pgxmock.NewRows([]string{"candidate_id"}).AddRow(accepted.UUID))

	got, err := repo.AcceptedCandidateIDs(context.Background(), companyID, []domain.CandidateID{accepted, pending})
	if err != nil {
		t.Fatal(err)
	}
	if !got[accepted] || got[pending] {
		t.Fatalf("accepted set = %v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAcceptedCandidateIDsEmptyInputSkipsQuery(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewListingRepository(mock)
	got, err := repo.AcceptedCandidateIDs(context.Background(), domain.NewCompanyID(uuid.New()), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("accepted set = %v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListCompaniesReturnsPageAndTotal(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewListingRepository(mock)
	companyID := uuid.New()
	q := ports.ListQuery{
		Predicate: ports.Predicate{Expr: "id = ?", Args: []any{companyID}},
		OrderBy:   "created_at",
		Limit:     50,
		Offset:    0,
	}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM companies WHERE id = $1`)).
		WithArgs(companyID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT `+companyColumns+` FROM companies WHERE id = $1 ORDER BY created_at ASC LIMIT $2 OFFSET $3`)).
		WithArgs(companyID, 50, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "website", "created_at", "updated_at"}).
			AddRow(companyID, "Acme", "https://acme.test", now, now))

	rows, total, err := repo.ListCompanies(context.Background(), q)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || len(rows) != 1 || rows[0].Name != "Acme" {
		t.Fatalf("rows = %+v, total = %d", rows, total)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
