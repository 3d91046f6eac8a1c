package repository

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestQueryFilterPositions(t *testing.T) {
	f := &queryFilter{}
	f.raw("is_available = TRUE")
	f.add("category_id = $%d", "c1")
	f.add("(name ILIKE $%[1]d OR description ILIKE $%[1]d)", "%soup%")

	want := " WHERE is_available = TRUE AND category_id = $1 AND (name ILIKE $2 OR description ILIKE $2)"
	if got := f.where(); got != want {
		t.Fatalf("where() = %q\nwant %q", got, want)
	}

	clause, args := f.page(10, 20)
	if clause != " LIMIT $3 OFFSET $4" {
		t.Fatalf("page clause = %q", clause)
	}
	if len(args) != 4 || args[2] != 10 || args[3] != 20 {
		t.Fatalf("page args = %v", args)
	}
	if len(f.args) != 2 {
		t.Fatal("page must not mutate the filter arguments")
	}
}

func TestEmptyQueryFilter(t *testing.T) {
	f := &queryFilter{}
	if f.where() != "" {
		t.Fatal("empty filter should render no WHERE clause")
	}
	clause, _ := f.page(5, 0)
	if clause != " LIMIT $1 OFFSET $2" {
		t.Fatalf("page clause = %q", clause)
	}
}

func TestTranslateConstraintErrors(t *testing.T) {
	overlap := translate(&pgconn.PgError{Code: "23P01"}, "insert reservation")
	if !errors.Is(overlap, ErrReservationOverlap) {
		t.Fatalf("exclusion violation = %v", overlap)
	}

	dup := translate(&pgconn.PgError{Code: "23505"}, "insert order %s", "ORD-1")
	if !errors.Is(dup, ErrDuplicate) {
		t.Fatalf("unique violation = %v", dup)
	}

	inUse := translate(&pgconn.PgError{Code: "23503"}, "delete dish %s", "x")
	if !errors.Is(inUse, ErrInUse) {
		t.Fatalf("foreign key violation = %v", inUse)
	}

	cause := errors.New("connection reset")
	other := translate(cause, "update table %s", "t1")
	if !errors.Is(other, cause) || other.Error() != "update table t1: connection reset" {
		t.Fatalf("generic error = %v", other)
	}
}
