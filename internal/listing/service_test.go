package listing

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	listings map[string]*Listing
	seq      int
}

func newMemRepo() *memRepo {
	return &memRepo{listings: map[string]*Listing{}}
}

func (r *memRepo) ListApproved(context.Context) ([]*Listing, error) {
	var out []*Listing
	for _, l := range r.listings {
		if l.Searchable() {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *memRepo) Create(_ context.Context, l *Listing) error {
	r.seq++
	l.ID = fmt.Sprintf("l%d", r.seq)
	cp := *l
	r.listings[l.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*Listing, error) {
	l, ok := r.listings[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *memRepo) List(_ context.Context, f Filter) ([]*Listing, int, error) {
	var out []*Listing
	for _, l := range r.listings {
		if f.OwnerID != "" && l.OwnerID != f.OwnerID {
			continue
		}
		if f.Status != "" && l.Status != f.Status {
			continue
		}
		out = append(out, l)
	}
	return out, len(out), nil
}

func (r *memRepo) Update(_ context.Context, l *Listing) error {
	if _, ok := r.listings[l.ID]; !ok {
		return ErrNotFound
	}
	cp := *l
	r.listings[l.ID] = &cp
	return nil
}

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate(context.Context) { c.calls++ }

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemRepo(), nil)

	t.Run("Create Listing: Success", func(t *testing.T) {
		l, err := svc.Create(ctx, CreateRequest{OwnerID: "o1", Title: " Mustang ", Category: "convertible", PricePerDay: 120})
		require.NoError(t, err)
		assert.Equal(t, "Mustang", l.Title)
		assert.Equal(t, CategoryConvertible, l.Category)
		assert.Equal(t, StatusPending, l.Status, "new listings wait for moderation")
	})

	cases := []struct {
		name string
		req  CreateRequest
		want error
	}{
		{"Blank title", CreateRequest{Title: "  ", Category: "Sedan"}, ErrEmptyTitle},
		{"Unknown category", CreateRequest{Title: "Boat", Category: "Yacht"}, ErrInvalidCategory},
		{"Negative price", CreateRequest{Title: "Civic", Category: "Sedan", PricePerDay: -1}, ErrInvalidPrice},
		{"Infinite price", CreateRequest{Title: "Civic", Category: "Sedan", PricePerDay: math.Inf(1)}, ErrInvalidPrice},
	}
	for _, tc := range cases {
		t.Run("Create Listing: "+tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()

	seed := func(status ApprovalStatus) (*memRepo, *countingInvalidator, Service) {
		repo := newMemRepo()
		repo.listings["l1"] = &Listing{ID: "l1", OwnerID: "o1", Title: "Civic", Category: CategorySedan, PricePerDay: 40, Status: status}
		inv := &countingInvalidator{}
		return repo, inv, NewService(repo, inv)
	}

	t.Run("Owner edit sends an approved listing back to moderation", func(t *testing.T) {
		repo, inv, svc := seed(StatusApproved)
		price := 55.0
		l, err := svc.Update(ctx, "l1", UpdateRequest{PricePerDay: &price}, "o1")
		require.NoError(t, err)
		assert.Equal(t, 55.0, l.PricePerDay)
		assert.Equal(t, StatusPending, repo.listings["l1"].Status)
		assert.Equal(t, 1, inv.calls)
	})

	t.Run("Editing a pending listing leaves the catalog alone", func(t *testing.T) {
		_, inv, svc := seed(StatusPending)
		title := "Civic Si"
		_, err := svc.Update(ctx, "l1", UpdateRequest{Title: &title}, "o1")
		require.NoError(t, err)
		assert.Zero(t, inv.calls)
	})

	t.Run("Only the owner may edit", func(t *testing.T) {
		_, _, svc := seed(StatusApproved)
		title := "Mine now"
		_, err := svc.Update(ctx, "l1", UpdateRequest{Title: &title}, "o2")
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("Invalid fields are rejected", func(t *testing.T) {
		_, _, svc := seed(StatusApproved)
		blank, bad, neg := " ", "Blimp", -3.0
		_, err := svc.Update(ctx, "l1", UpdateRequest{Title: &blank}, "o1")
		assert.ErrorIs(t, err, ErrEmptyTitle)
		_, err = svc.Update(ctx, "l1", UpdateRequest{Category: &bad}, "o1")
		assert.ErrorIs(t, err, ErrInvalidCategory)
		_, err = svc.Update(ctx, "l1", UpdateRequest{PricePerDay: &neg}, "o1")
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})
}
