package user

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func newMock(t *testing.T) (*PGStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPGStore(db), mock
}

func userRows(u *User) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "email", "password_hash", "class_code", "coalesce", "created_at", "updated_at",
	}).AddRow(u.ID, u.Name, u.Email, u.PasswordHash, u.ClassCode, u.Avatar, u.CreatedAt, u.UpdatedAt)
}

func TestPGCreateLowercasesEmail(t *testing.T) {
	store, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(`insert into users(id, name, email, password_hash, class_code) values($1,$2,$3,$4,$5)`)).
		WithArgs(sqlmock.AnyArg(), "Dina", "dina@example.com", "hash", "TI-3A").
		WillReturnResult(sqlmock.NewResult(0, 1))

	u := &User{Name: "Dina", Email: "  DINA@Example.Com ", PasswordHash: "hash", ClassCode: "TI-3A"}
	if err := store.Create(context.Background(), u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID == "" {
		t.Fatal("expected generated id")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPGCreateDuplicateEmail(t *testing.T) {
	store, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(`insert into users`)).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := store.Create(context.Background(), &User{Name: "Dina", Email: "dina@example.com", PasswordHash: "h", ClassCode: "TI-3A"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("Create = %v, want ErrEmailTaken", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPGFindByEmail(t *testing.T) {
	store, mock := newMock(t)
	now := time.Now().UTC()
	want := &User{ID: "u1", Name: "Dina", Email: "dina@example.com", PasswordHash: "h", ClassCode: "TI-3A", Avatar: "a.png", CreatedAt: now, UpdatedAt: now}
	mock.ExpectQuery(`select .+ from users where email=\$1`).
		WithArgs("dina@example.com").
		WillReturnRows(userRows(want))

	got, err := store.FindByEmail(context.Background(), " DINA@example.com ")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if got.ID != want.ID || got.Avatar != "a.png" {
		t.Fatalf("got %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPGFindMissing(t *testing.T) {
	store, mock := newMock(t)
	mock.ExpectQuery(`select .+ from users where id=\$1`).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := store.Find(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Find = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPGUpdateNameMissing(t *testing.T) {
	store, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(`update users set name=$2, updated_at=now() where id=$1`)).
		WithArgs("nope", "New Name").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := store.UpdateName(context.Background(), "nope", "New Name"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("UpdateName = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
