package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cmms-backend/internal/entities"
	apperrors "cmms-backend/pkg/errors"
	"cmms-backend/pkg/types"
	"cmms-backend/pkg/utils"
)

// fakeAssetRepo — репозиторий в памяти для тестов сервиса.
type fakeAssetRepo struct {
	assets []entities.Asset
}

func (f *fakeAssetRepo) GetAssets(ctx context.Context, filter types.Filter) ([]entities.Asset, uint64, error) {
	return f.assets, uint64(len(f.assets)), nil
}

func (f *fakeAssetRepo) GetAllAssets(ctx context.Context) ([]entities.Asset, error) {
	return f.assets, nil
}

func (f *fakeAssetRepo) FindAsset(ctx context.Context, id string) (*entities.Asset, error) {
	for i := range f.assets {
		if f.assets[i].ID == id {
			return &f.assets[i], nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeAssetRepo) CreateAsset(ctx context.Context, asset entities.Asset) error {
	asset.CreatedAt = time.Now()
	f.assets = append(f.assets, asset)
	return nil
}

func (f *fakeAssetRepo) UpdateAsset(ctx context.Context, asset entities.Asset) error { return nil }
func (f *fakeAssetRepo) UpdateAssetLocation(ctx context.Context, id string, lat, lon float64, updatedBy string) error {
	return nil
}
func (f *fakeAssetRepo) DeleteAsset(ctx context.Context, id string) error      { return nil }
func (f *fakeAssetRepo) CountChildren(ctx context.Context, id string) (int, error) { return 0, nil }
func (f *fakeAssetRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	return nil, nil
}

func newTestAsset(id, name, assetType string, parentID *string) entities.Asset {
	return entities.Asset{
		ID:          id,
		Name:        name,
		Type:        assetType,
		Status:      "Operational",
		HealthScore: 100,
		Criticality: "Medium",
		ParentID:    parentID,
	}
}

func TestAssetService_GetAssetTree(t *testing.T) {
	repo := &fakeAssetRepo{assets: []entities.Asset{
		newTestAsset("SITE-1", "Завод", "Site", nil),
		newTestAsset("LINE-1", "Линия 1", "Line", utils.ToPtr("SITE-1")),
		newTestAsset("LINE-2", "Линия 2", "Line", utils.ToPtr("SITE-1")),
		newTestAsset("MCH-1", "Пресс", "Machine", utils.ToPtr("LINE-1")),
		// Узел с потерянным родителем должен подняться в корень.
		newTestAsset("EQP-9", "Датчик", "Equipment", utils.ToPtr("MISSING")),
	}}
	svc := NewAssetService(repo, zap.NewNop())

	tree, err := svc.GetAssetTree(context.Background())
	require.NoError(t, err)
	require.Len(t, tree, 2)

	var site, orphan string
	for _, root := range tree {
		if root.ID == "SITE-1" {
			site = root.ID
			require.Len(t, root.Children, 2)
			var line1 []string
			for _, child := range root.Children {
				if child.ID == "LINE-1" {
					for _, g := range child.Children {
						line1 = append(line1, g.ID)
					}
				}
			}
			assert.Equal(t, []string{"MCH-1"}, line1)
		}
		if root.ID == "EQP-9" {
			orphan = root.ID
			assert.Empty(t, root.Children)
		}
	}
	assert.Equal(t, "SITE-1", site)
	assert.Equal(t, "EQP-9", orphan)
}

func TestAssetService_GetStatistics(t *testing.T) {
	a1 := newTestAsset("SITE-1", "Завод", "Site", nil)
	a1.HealthScore = 80
	a2 := newTestAsset("MCH-1", "Пресс", "Machine", nil)
	a2.HealthScore = 60
	a2.Criticality = "Critical"
	a2.Status = "Downtime"

	repo := &fakeAssetRepo{assets: []entities.Asset{a1, a2}}
	svc := NewAssetService(repo, zap.NewNop())

	stats, err := svc.GetStatistics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.ByType["Site"])
	assert.Equal(t, 1, stats.ByType["Machine"])
	assert.Equal(t, 1, stats.ByStatus["Downtime"])
	assert.InDelta(t, 70.0, stats.AvgHealth, 0.001)
	assert.Equal(t, 1, stats.CriticalCount)
}

func TestNewAssetID_Prefixes(t *testing.T) {
	testCases := map[string]string{
		"Site":      "SITE-",
		"Line":      "LINE-",
		"Facility":  "FAC-",
		"Machine":   "MCH-",
		"Equipment": "EQP-",
		"Unknown":   "AST-",
	}

	for assetType, prefix := range testCases {
		id := newAssetID(assetType)
		assert.True(t, strings.HasPrefix(id, prefix), "тип %s: id=%s", assetType, id)
		// Суффикс — 6 hex-символов в верхнем регистре.
		suffix := strings.TrimPrefix(id, prefix)
		assert.Len(t, suffix, 6)
		assert.Equal(t, strings.ToUpper(suffix), suffix)
	}
}

func TestNewWorkOrderID_Format(t *testing.T) {
	id := newWorkOrderID()
	assert.True(t, strings.HasPrefix(id, "WO-"))
	assert.Len(t, id, len("WO-")+8)

	// Идентификаторы не повторяются.
	assert.NotEqual(t, id, newWorkOrderID())
}
