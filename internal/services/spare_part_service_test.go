package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cmms-backend/internal/entities"
	apperrors "cmms-backend/pkg/errors"
	"cmms-backend/pkg/types"
)

type fakeSparePartRepo struct {
	parts map[int64]*entities.SparePart
}

func (r *fakeSparePartRepo) GetSpareParts(ctx context.Context, filter types.Filter) ([]entities.SparePart, uint64, error) {
	out := make([]entities.SparePart, 0, len(r.parts))
	for _, p := range r.parts {
		out = append(out, *p)
	}
	return out, uint64(len(out)), nil
}

func (r *fakeSparePartRepo) FindSparePart(ctx context.Context, id int64) (*entities.SparePart, error) {
	p, ok := r.parts[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeSparePartRepo) CreateSparePart(ctx context.Context, part entities.SparePart) (int64, error) {
	part.ID = int64(len(r.parts) + 1)
	part.CreatedAt = time.Now()
	r.parts[part.ID] = &part
	return part.ID, nil
}

func (r *fakeSparePartRepo) UpdateSparePart(ctx context.Context, part entities.SparePart) error {
	if _, ok := r.parts[part.ID]; !ok {
		return apperrors.ErrNotFound
	}
	r.parts[part.ID] = &part
	return nil
}

// Контракт хранилища: нет позиции — ErrNotFound, не хватает остатка —
// ErrBadRequest.
func (r *fakeSparePartRepo) AdjustQuantity(ctx context.Context, id int64, delta int) error {
	p, ok := r.parts[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if p.Quantity+delta < 0 {
		return apperrors.ErrBadRequest
	}
	p.Quantity += delta
	return nil
}

func (r *fakeSparePartRepo) DeleteSparePart(ctx context.Context, id int64) error {
	if _, ok := r.parts[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.parts, id)
	return nil
}

func newSparePartFixture() (*fakeSparePartRepo, SparePartServiceInterface) {
	part := &entities.SparePart{ID: 1, PartName: "Подшипник 6204", Category: "Подшипники", PricePerUnit: 350, Quantity: 10}
	part.CreatedAt = time.Now()
	repo := &fakeSparePartRepo{parts: map[int64]*entities.SparePart{1: part}}
	return repo, NewSparePartService(repo, zap.NewNop())
}

func TestSparePartService_AdjustQuantity(t *testing.T) {
	_, svc := newSparePartFixture()

	part, err := svc.AdjustQuantity(context.Background(), 1, -4)
	require.NoError(t, err)
	assert.Equal(t, 6, part.Quantity)

	part, err = svc.AdjustQuantity(context.Background(), 1, 14)
	require.NoError(t, err)
	assert.Equal(t, 20, part.Quantity)
}

// Несуществующая позиция и уход остатка в минус — разные ошибки:
// первая — 404, вторая — 400.
func TestSparePartService_AdjustQuantity_Errors(t *testing.T) {
	_, svc := newSparePartFixture()

	_, err := svc.AdjustQuantity(context.Background(), 999, -1)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = svc.AdjustQuantity(context.Background(), 1, -11)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}
