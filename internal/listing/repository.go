package listing

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Catalog supplies the searchable listing set.
type Catalog interface {
	// ListApproved returns every approved listing. There is no pagination;
	// the whole catalog is loaded at once.
	ListApproved(ctx context.Context) ([]*Listing, error)
}

type Repository interface {
	Catalog
	Create(ctx context.Context, l *Listing) error
	GetByID(ctx context.Context, id string) (*Listing, error)
	List(ctx context.Context, filter Filter) ([]*Listing, int, error)
	Update(ctx context.Context, l *Listing) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var listingColumns = []string{
	"id", "owner_id", "title", "location", "category", "price_per_day", "status", "created_at", "updated_at",
}

// row mirrors the listings table with every loosely typed column nullable.
type row struct {
	ID        string
	OwnerID   string
	Title     *string
	Location  *string
	Category  *string
	Price     *float64
	Status    *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r *row) targets() []any {
	return []any{&r.ID, &r.OwnerID, &r.Title, &r.Location, &r.Category, &r.Price, &r.Status, &r.CreatedAt, &r.UpdatedAt}
}

var errMalformedRow = errors.New("malformed listing row")

// fromRow validates a stored row and fills defaults for missing optional fields.
// Rows whose category, price or status cannot be trusted are rejected.
func fromRow(r row) (*Listing, error) {
	l := &Listing{
		ID:        r.ID,
		OwnerID:   r.OwnerID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.Title != nil {
		l.Title = strings.TrimSpace(*r.Title)
	}
	if r.Location != nil {
		l.Location = strings.TrimSpace(*r.Location)
	}

	if r.Category == nil {
		return nil, fmt.Errorf("%w: listing %s has no category", errMalformedRow, r.ID)
	}
	cat, ok := ParseCategory(*r.Category)
	if !ok {
		return nil, fmt.Errorf("%w: listing %s has unknown category %q", errMalformedRow, r.ID, *r.Category)
	}
	l.Category = cat

	if r.Price == nil || *r.Price < 0 {
		return nil, fmt.Errorf("%w: listing %s has no valid price", errMalformedRow, r.ID)
	}
	l.PricePerDay = *r.Price

	l.Status = StatusPending
	if r.Status != nil {
		st := ApprovalStatus(strings.ToLower(strings.TrimSpace(*r.Status)))
		if !st.Valid() {
			return nil, fmt.Errorf("%w: listing %s has unknown status %q", errMalformedRow, r.ID, *r.Status)
		}
		l.Status = st
	}
	return l, nil
}

func (r *pgxRepository) Create(ctx context.Context, l *Listing) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.listings").
		Columns("owner_id", "title", "location", "category", "price_per_day", "status").
		Values(l.OwnerID, l.Title, l.Location, string(l.Category), l.PricePerDay, string(l.Status)).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create listing query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.CheckViolation {
			return ErrInvalidPrice
		}
		return fmt.Errorf("create listing failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Listing, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(listingColumns...).
		From("public.listings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get listing query failed: %w", err)
	}

	var rw row
	if err := r.pool.QueryRow(ctx, query, args...).Scan(rw.targets()...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get listing failed: %w", err)
	}

	l, err := fromRow(rw)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *pgxRepository) ListApproved(ctx context.Context) ([]*Listing, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(listingColumns...).
		From("public.listings").
		Where(squirrel.Eq{"status": string(StatusApproved)}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list approved listings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list approved listings failed: %w", err)
	}
	defer rows.Close()

	var result []*Listing
	for rows.Next() {
		var rw row
		if err := rows.Scan(rw.targets()...); err != nil {
			return nil, fmt.Errorf("scan listing failed: %w", err)
		}
		l, err := fromRow(rw)
		if err != nil {
			log.Printf("catalog: skipping listing: %v", err)
			continue
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listings failed: %w", err)
	}

	return result, nil
}

var sortableColumns = map[string]bool{
	"created_at":    true,
	"price_per_day": true,
	"title":         true,
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Listing, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(append(listingColumns, "count(*) OVER() as total_count")...).
		From("public.listings")

	if filter.OwnerID != "" {
		query = query.Where(squirrel.Eq{"owner_id": filter.OwnerID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": string(filter.Status)})
	}

	orderBy := "created_at"
	if sortableColumns[filter.SortBy] {
		orderBy = filter.SortBy
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
		return nil, 0, fmt.Errorf("build list listings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list listings failed: %w", err)
	}
	defer rows.Close()

	var result []*Listing
	var total int
	for rows.Next() {
		var rw row
		if err := rows.Scan(append(rw.targets(), &total)...); err != nil {
			return nil, 0, fmt.Errorf("scan listing failed: %w", err)
		}
		l, err := fromRow(rw)
		if err != nil {
			log.Printf("listing: skipping row: %v", err)
			continue
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate listings failed: %w", err)
	}

	return result, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, l *Listing) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.listings").
		Set("title", l.Title).
		Set("location", l.Location).
		Set("category", string(l.Category)).
		Set("price_per_day", l.PricePerDay).
		Set("status", string(l.Status)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": l.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update listing query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&l.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update listing failed: %w", err)
	}
	return nil
}
