package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Oracle answers whether a listing is already taken for a range of dates.
type Oracle interface {
	// HasConflict reports whether any confirmed booking of the listing
	// overlaps dates under DateRange.Overlaps.
	HasConflict(ctx context.Context, listingID string, dates DateRange) (bool, error)
}

type Repository interface {
	Oracle
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	UpdateStatus(ctx context.Context, b *Booking) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

// mapWriteError turns constraint violations into domain errors.
// bookings_no_overlap is the exclusion constraint on confirmed date ranges.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.ExclusionViolation:
		return ErrDateConflict
	case pgerrcode.ForeignKeyViolation:
		return ErrListingNotFound
	case pgerrcode.CheckViolation:
		return ErrInvalidDateRange
	}
	return err
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.bookings").
		Columns("listing_id", "user_id", "start_date", "end_date", "status").
		Values(b.ListingID, b.UserID, b.Dates.Start, b.Dates.End, string(b.Status)).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if mapped := mapWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("create booking failed: %w", err)
	}
	return nil
}

func selectBookings(psql squirrel.StatementBuilderType, extra ...string) squirrel.SelectBuilder {
	cols := []string{
		"b.id", "b.listing_id", "b.user_id", "l.owner_id",
		"b.start_date", "b.end_date", "b.status", "b.created_at", "b.updated_at",
	}
	return psql.Select(append(cols, extra...)...).
		From("public.bookings b").
		Join("public.listings l ON b.listing_id = l.id")
}

func scanBooking(row pgx.Row, extra ...any) (*Booking, error) {
	var b Booking
	var status string
	dest := []any{
		&b.ID, &b.ListingID, &b.UserID, &b.OwnerID,
		&b.Dates.Start, &b.Dates.End, &status, &b.CreatedAt, &b.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	b.Status = Status(status)
	if !b.Status.Valid() {
		return nil, fmt.Errorf("booking %s has unknown status %q", b.ID, status)
	}
	b.Dates = NewDateRange(b.Dates.Start, b.Dates.End)
	return &b, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := selectBookings(psql).
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

var sortableColumns = map[string]string{
	"start_date": "b.start_date",
	"end_date":   "b.end_date",
	"created_at": "b.created_at",
	"status":     "b.status",
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := selectBookings(psql, "count(*) OVER() as total_count")

	// A caller that is both renter and owner sees both sides.
	switch {
	case filter.UserID != "" && filter.OwnerID != "":
		query = query.Where(squirrel.Or{
			squirrel.Eq{"b.user_id": filter.UserID},
			squirrel.Eq{"l.owner_id": filter.OwnerID},
		})
	case filter.UserID != "":
		query = query.Where(squirrel.Eq{"b.user_id": filter.UserID})
	case filter.OwnerID != "":
		query = query.Where(squirrel.Eq{"l.owner_id": filter.OwnerID})
	}
	if filter.ListingID != "" {
		query = query.Where(squirrel.Eq{"b.listing_id": filter.ListingID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"b.status": string(filter.Status)})
	}
	// Same closed-interval predicate as DateRange.Overlaps.
	if filter.Overlaps != nil {
		query = query.
			Where(squirrel.LtOrEq{"b.start_date": filter.Overlaps.End}).
			Where(squirrel.GtOrEq{"b.end_date": filter.Overlaps.Start})
	}

	orderBy := "b.start_date"
	if col, ok := sortableColumns[filter.SortBy]; ok {
		orderBy = col
	}
	orderDir := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		orderDir = "ASC"
	}
	query = query.OrderBy(orderBy + " " + orderDir)

	// Pagination
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	var total int
	for rows.Next() {
		b, err := scanBooking(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate bookings failed: %w", err)
	}

	return bookings, total, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("status", string(b.Status)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": b.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if mapped := mapWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("update booking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) HasConflict(ctx context.Context, listingID string, dates DateRange) (bool, error) {
	// Conflict when a confirmed booking of the listing shares a day with dates:
	// existing.start <= dates.end AND existing.end >= dates.start
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	subQuery := psql.Select("1").
		From("public.bookings").
		Where(squirrel.Eq{"listing_id": listingID}).
		Where(squirrel.Eq{"status": string(StatusConfirmed)}).
		Where(squirrel.LtOrEq{"start_date": dates.End}).
		Where(squirrel.GtOrEq{"end_date": dates.Start})

	sql, args, err := subQuery.ToSql()
	if err != nil {
		return false, fmt.Errorf("build check conflict query failed: %w", err)
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, "SELECT EXISTS ("+sql+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check conflict failed: %w", err)
	}
	return exists, nil
}
