package container

import (
	"log/slog"

	"github.com/jinford/prodcat/internal/core/catalog"
	"github.com/jinford/prodcat/internal/infra/rest"
	"github.com/jinford/prodcat/internal/platform/config"
)

// ServiceContainer はアプリケーションの依存関係を保持します
type ServiceContainer struct {
	Catalog *catalog.Service

	logger *slog.Logger
	client *rest.Client
}

type containerOptions struct {
	logger     *slog.Logger
	repository catalog.Repository
}

// ContainerOption はServiceContainer構築時のオプション
type ContainerOption func(*containerOptions)

// WithContainerLogger はロガーを差し替える
func WithContainerLogger(logger *slog.Logger) ContainerOption {
	return func(opts *containerOptions) {
		opts.logger = logger
	}
}

// WithContainerRepository はカタログのリポジトリを差し替える（テスト用）
func WithContainerRepository(repo catalog.Repository) ContainerOption {
	return func(opts *containerOptions) {
		opts.repository = repo
	}
}

// NewContainer は設定からコンテナを生成します
func NewContainer(cfg *config.Config, opts ...ContainerOption) (*ServiceContainer, error) {
	options := containerOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	var client *rest.Client
	repo := options.repository
	if repo == nil {
		client = rest.NewClient(
			cfg.API.BaseURL,
			rest.WithTimeout(cfg.API.Timeout),
			rest.WithClientLogger(options.logger),
		)
		repo = client
	}

	store := catalog.NewStore()
	service := catalog.NewService(repo, store, catalog.WithServiceLogger(options.logger))

	return &ServiceContainer{
		Catalog: service,
		logger:  options.logger,
		client:  client,
	}, nil
}

// Logger はコンテナのロガーを返します
func (c *ServiceContainer) Logger() *slog.Logger {
	return c.logger
}

// Close はコンテナが保持するリソースをクリーンアップします
func (c *ServiceContainer) Close() {
	if c.client != nil {
		c.client.Close()
	}
}
