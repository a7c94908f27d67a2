package catalog

import (
	"context"
	"log/slog"

	"github.com/samber/mo"
)

// Service はプロダクトカタログのデータアクセスを提供します。
// 更新系の操作は成功時に一覧を再取得してスナップショットを置き換えます
// （ローカルパッチではなく再読込。失敗時はスナップショットに触れない）。
type Service struct {
	repo  Repository
	store *Store
	log   *slog.Logger
}

// ServiceOption はService構築時のオプション
type ServiceOption func(*Service)

// WithServiceLogger はロガーを差し替える
func WithServiceLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.log = log
	}
}

// NewService は新しいServiceを作成します
func NewService(repo Repository, store *Store, opts ...ServiceOption) *Service {
	s := &Service{
		repo:  repo,
		store: store,
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store はサービスが保持するスナップショットストアを返します
func (s *Service) Store() *Store {
	return s.store
}

// List はカタログ全体を取得し、成功時にスナップショットを置き換えます
func (s *Service) List(ctx context.Context) ([]Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error("Failed to list products", "error", err)
		return nil, err
	}

	s.store.Replace(products)

	return products, nil
}

// Create はプロダクトを新規作成します。成功時は一覧を再取得します
func (s *Service) Create(ctx context.Context, product Product) (Product, error) {
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		s.log.Error("Failed to create product", "id", product.ID, "error", err)
		return Product{}, err
	}

	s.refresh(ctx)

	s.log.Info("Product created", "id", created.ID)

	return created, nil
}

// Update はID以外の全項目を更新します。成功時は一覧を再取得します
func (s *Service) Update(ctx context.Context, id string, data ProductData) (ProductData, error) {
	updated, err := s.repo.Update(ctx, id, data)
	if err != nil {
		s.log.Error("Failed to update product", "id", id, "error", err)
		return ProductData{}, err
	}

	s.refresh(ctx)

	s.log.Info("Product updated", "id", id)

	return updated, nil
}

// Delete はプロダクトを削除し、確認メッセージを返します。
// 成功時は一覧を再取得します
func (s *Service) Delete(ctx context.Context, id string) (string, error) {
	message, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.log.Error("Failed to delete product", "id", id, "error", err)
		return "", err
	}

	s.refresh(ctx)

	s.log.Info("Product deleted", "id", id)

	return message, nil
}

// VerifyID はIDがバックエンドに既に存在するかを確認します
func (s *Service) VerifyID(ctx context.Context, id string) (bool, error) {
	exists, err := s.repo.VerifyID(ctx, id)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// GetByID は現在のスナップショットからプロダクトを検索します
func (s *Service) GetByID(id string) mo.Option[Product] {
	return s.store.GetByID(id)
}

// refresh は更新系操作の成功後に一覧を再取得します。
// 再取得自体の失敗はスナップショットを変えずにログのみ残します
func (s *Service) refresh(ctx context.Context) {
	if _, err := s.List(ctx); err != nil {
		s.log.Warn("Failed to refresh product list after mutation", "error", err)
	}
}
