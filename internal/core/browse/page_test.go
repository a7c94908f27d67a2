package browse

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinford/prodcat/internal/core/catalog"
)

type mockCatalogService struct {
	mu         sync.Mutex
	listFunc   func(ctx context.Context) ([]catalog.Product, error)
	deleteFunc func(ctx context.Context, id string) (string, error)
	listCalls  int
}

func (m *mockCatalogService) List(ctx context.Context) ([]catalog.Product, error) {
	m.mu.Lock()
	m.listCalls++
	m.mu.Unlock()
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockCatalogService) Delete(ctx context.Context, id string) (string, error) {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return "", nil
}

func (m *mockCatalogService) listCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listCalls
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPage_Load_Success(t *testing.T) {
	service := &mockCatalogService{
		listFunc: func(ctx context.Context) ([]catalog.Product, error) {
			return sampleProducts(), nil
		},
	}
	page := NewPage(service, WithPageLogger(discardLogger()))
	defer page.Close()

	require.NoError(t, page.Load(context.Background()))

	assert.False(t, page.Loading())
	assert.Empty(t, page.ErrorMessage())
	assert.Len(t, page.Products(), 2)
	assert.Len(t, page.Filtered(), 2)
	assert.Len(t, page.List().Visible(), 2)
}

func TestPage_Load_Failure(t *testing.T) {
	service := &mockCatalogService{
		listFunc: func(ctx context.Context) ([]catalog.Product, error) {
			return nil, errors.New("サーバーに接続できません。バックエンドが http://localhost:3002/bp で起動しているか確認してください")
		},
	}
	page := NewPage(service, WithPageLogger(discardLogger()))
	defer page.Close()

	err := page.Load(context.Background())

	require.Error(t, err)
	assert.False(t, page.Loading())
	assert.Contains(t, page.ErrorMessage(), "サーバーに接続できません")
	assert.Empty(t, page.Products())
}

func TestPage_OnSearch_DebouncedFilter(t *testing.T) {
	service := &mockCatalogService{
		listFunc: func(ctx context.Context) ([]catalog.Product, error) {
			return sampleProducts(), nil
		},
	}
	page := NewPage(service,
		WithPageLogger(discardLogger()),
		WithSearchDebounce(10*time.Millisecond))
	defer page.Close()

	require.NoError(t, page.Load(context.Background()))

	page.OnSearch("another")

	// デバウンス経過まで絞り込みは変化しない
	assert.Len(t, page.Filtered(), 2)

	require.Eventually(t, func() bool {
		return len(page.Filtered()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "test-2", page.Filtered()[0].ID)
}

func TestPage_OnSearch_BlankRestoresFullList(t *testing.T) {
	service := &mockCatalogService{
		listFunc: func(ctx context.Context) ([]catalog.Product, error) {
			return sampleProducts(), nil
		},
	}
	page := NewPage(service, WithPageLogger(discardLogger()))
	defer page.Close()

	require.NoError(t, page.Load(context.Background()))

	page.Filter("another")
	require.Len(t, page.Filtered(), 1)

	page.Filter("   ")
	assert.Len(t, page.Filtered(), 2)
}

func TestPage_StageDelete(t *testing.T) {
	page := NewPage(&mockCatalogService{}, WithPageLogger(discardLogger()))
	defer page.Close()

	page.StageDelete(sampleProducts()[0])

	staged, ok := page.StagedProduct().Get()
	require.True(t, ok)
	assert.Equal(t, "test-1", staged.ID)
	assert.Equal(t, "プロダクト Test Product 1 を削除してもよろしいですか?", page.DeleteMessage())
}

func TestPage_CancelDelete(t *testing.T) {
	page := NewPage(&mockCatalogService{}, WithPageLogger(discardLogger()))
	defer page.Close()

	page.StageDelete(sampleProducts()[0])
	page.CancelDelete()

	assert.True(t, page.StagedProduct().IsAbsent())
	assert.Empty(t, page.DeleteMessage())
}

func TestPage_ConfirmDelete_SuccessReloads(t *testing.T) {
	deleted := false
	service := &mockCatalogService{
		listFunc: func(ctx context.Context) ([]catalog.Product, error) {
			if deleted {
				return sampleProducts()[1:], nil
			}
			return sampleProducts(), nil
		},
		deleteFunc: func(ctx context.Context, id string) (string, error) {
			assert.Equal(t, "test-1", id)
			deleted = true
			return "Product removed successfully", nil
		},
	}
	page := NewPage(service, WithPageLogger(discardLogger()))
	defer page.Close()

	require.NoError(t, page.Load(context.Background()))

	page.StageDelete(sampleProducts()[0])
	require.NoError(t, page.ConfirmDelete(context.Background()))

	assert.True(t, page.StagedProduct().IsAbsent())
	require.Len(t, page.Products(), 1)
	assert.Equal(t, "test-2", page.Products()[0].ID)
}

func TestPage_ConfirmDelete_FailureKeepsListAndShowsError(t *testing.T) {
	service := &mockCatalogService{
		listFunc: func(ctx context.Context) ([]catalog.Product, error) {
			return sampleProducts(), nil
		},
		deleteFunc: func(ctx context.Context, id string) (string, error) {
			return "", errors.New("プロダクトが見つかりません")
		},
	}
	page := NewPage(service, WithPageLogger(discardLogger()))
	defer page.Close()

	require.NoError(t, page.Load(context.Background()))
	before := service.listCallCount()

	page.StageDelete(sampleProducts()[0])
	err := page.ConfirmDelete(context.Background())

	require.Error(t, err)
	// 失敗時は確認待ちのみ解除し、一覧は再読込しない
	assert.True(t, page.StagedProduct().IsAbsent())
	assert.Equal(t, "プロダクトが見つかりません", page.ErrorMessage())
	assert.Equal(t, before, service.listCallCount())
	assert.Len(t, page.Products(), 2)
}

func TestPage_ConfirmDelete_NoStagedProductIsNoop(t *testing.T) {
	service := &mockCatalogService{}
	page := NewPage(service, WithPageLogger(discardLogger()))
	defer page.Close()

	require.NoError(t, page.ConfirmDelete(context.Background()))
	assert.Equal(t, 0, service.listCallCount())
}
