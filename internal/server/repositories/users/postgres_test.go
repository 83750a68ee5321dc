package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const (
	insertQ = `(?s)^INSERT\s+INTO\s+users\s*\(id,\s*name,\s*email,\s*password_hash,\s*email_verified,\s*created_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6\)\s*$`
	byEmailQ = `(?s)^SELECT\s+id,\s*name,\s*email,\s*password_hash,\s*email_verified,\s*created_at\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1\s*$`
	byIDQ    = `(?s)^SELECT\s+id,\s*name,\s*email,\s*password_hash,\s*email_verified,\s*created_at\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1\s*$`
	existsQ  = `(?s)^SELECT\s+EXISTS\s*\(SELECT\s+1\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1\)$`
	verifyQ  = `(?s)^UPDATE\s+users\s+SET\s+email_verified\s*=\s*TRUE\s+WHERE\s+id\s*=\s*\$1\s*$`
)

var userCols = []string{"id", "name", "email", "password_hash", "email_verified", "created_at"}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectExec(insertQ).
		WithArgs("u-1", "Alice", "a@x.io", "digest", false, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	u := &models.User{ID: "u-1", Name: "Alice", Email: "a@x.io", PasswordHash: "digest", CreatedAt: now}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_UniqueViolation(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertQ).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	err := repo.Create(context.Background(), &models.User{ID: "u-1", Email: "a@x.io"})
	if !errors.Is(err, common.ErrAlreadyExists) {
		t.Fatalf("want common.ErrAlreadyExists, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertQ).
		WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), &models.User{ID: "u-1", Email: "a@x.io"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestFindByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	rows := sqlmock.NewRows(userCols).
		AddRow("u-1", "Alice", "a@x.io", "digest", true, created)
	mock.ExpectQuery(byEmailQ).
		WithArgs("a@x.io").
		WillReturnRows(rows)

	got, err := repo.FindByEmail(context.Background(), "a@x.io")
	if err != nil {
		t.Fatalf("FindByEmail error: %v", err)
	}
	if got.ID != "u-1" || got.Name != "Alice" || got.PasswordHash != "digest" || !got.EmailVerified || !got.CreatedAt.Equal(created) {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestFindByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(byEmailQ).
		WithArgs("ghost@x.io").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "ghost@x.io")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestFindByID_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(byIDQ).
		WithArgs("u-1").
		WillReturnError(errors.New("db err"))

	_, err := repo.FindByID(context.Background(), "u-1")
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestExistsByEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(existsQ).
		WithArgs("a@x.io").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(existsQ).
		WithArgs("b@x.io").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(existsQ).
		WithArgs("c@x.io").
		WillReturnError(errors.New("db err"))

	ok, err := repo.ExistsByEmail(context.Background(), "a@x.io")
	if err != nil || !ok {
		t.Fatalf("want true, got %v %v", ok, err)
	}
	ok, err = repo.ExistsByEmail(context.Background(), "b@x.io")
	if err != nil || ok {
		t.Fatalf("want false, got %v %v", ok, err)
	}
	if _, err = repo.ExistsByEmail(context.Background(), "c@x.io"); err == nil {
		t.Fatal("expected error")
	}
}

func TestSetEmailVerified(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(verifyQ).
		WithArgs("u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(verifyQ).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.SetEmailVerified(context.Background(), "u-1"); err != nil {
		t.Fatalf("SetEmailVerified error: %v", err)
	}
	if err := repo.SetEmailVerified(context.Background(), "ghost"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}
