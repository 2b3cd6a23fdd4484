package usecase

import (
	"context"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MenuCacheMock struct{ mock.Mock }

func (m *MenuCacheMock) GetMenu(ctx context.Context, category string) ([]model.MenuItem, bool, error) {
	args := m.Called(ctx, category)
	items, _ := args.Get(0).([]model.MenuItem)
	return items, args.Bool(1), args.Error(2)
}

func (m *MenuCacheMock) SetMenu(ctx context.Context, category string, items []model.MenuItem) error {
	args := m.Called(ctx, category, items)
	return args.Error(0)
}

func TestMenuUsecase_List_CacheHitSkipsDB(t *testing.T) {
	menuRepo := new(MenuItemRepoMock)
	cache := new(MenuCacheMock)
	uc := NewMenuUsecase(menuRepo, cache)

	cache.On("GetMenu", mock.Anything, "Mains").Return([]model.MenuItem{
		{ID: 1, Name: "Truffle Risotto", PriceCents: 2800, Category: "Mains"},
	}, true, nil)

	out, err := uc.List(context.Background(), "Mains")
	assert.NoError(t, err)
	assert.Len(t, out, 1)
	assert.Equal(t, int64(2800), out[0].PriceCents)
	menuRepo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestMenuUsecase_List_CacheMissReadsDBAndFills(t *testing.T) {
	menuRepo := new(MenuItemRepoMock)
	cache := new(MenuCacheMock)
	uc := NewMenuUsecase(menuRepo, cache)

	items := []model.MenuItem{{ID: 2, Name: "Wagyu Steak", PriceCents: 4500}}
	cache.On("GetMenu", mock.Anything, "").Return([]model.MenuItem(nil), false, nil)
	menuRepo.On("List", mock.Anything, "").Return(items, nil)
	cache.On("SetMenu", mock.Anything, "", items).Return(nil)

	out, err := uc.List(context.Background(), "")
	assert.NoError(t, err)
	assert.Len(t, out, 1)
	cache.AssertExpectations(t)
}

func TestMenuUsecase_List_NoCacheGoesStraightToDB(t *testing.T) {
	menuRepo := new(MenuItemRepoMock)
	uc := NewMenuUsecase(menuRepo, nil)

	menuRepo.On("List", mock.Anything, "").Return([]model.MenuItem{{ID: 1}}, nil)

	out, err := uc.List(context.Background(), "")
	assert.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestMenuUsecase_Detail_NotFound(t *testing.T) {
	menuRepo := new(MenuItemRepoMock)
	uc := NewMenuUsecase(menuRepo, nil)

	menuRepo.On("FindByID", mock.Anything, int64(9)).Return(model.MenuItem{}, repo.ErrNotFound)

	_, err := uc.Detail(context.Background(), 9)
	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 404, he.Status)
}
