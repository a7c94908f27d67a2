package browse

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/mo"

	"github.com/jinford/prodcat/internal/core/catalog"
)

// CatalogService は一覧ページが必要とするデータアクセス操作です
type CatalogService interface {
	List(ctx context.Context) ([]catalog.Product, error)
	Delete(ctx context.Context, id string) (string, error)
}

// Page はプロダクト一覧ページの状態を統括します。全件のコピーと
// 絞り込み後のコピーを保持し、検索入力はデバウンスパイプライン経由で
// 絞り込みを再計算します。削除は確認付きの2段階フローです
type Page struct {
	service CatalogService
	list    *List
	search  *SearchPipeline
	log     *slog.Logger

	mu           sync.Mutex
	products     []catalog.Product
	filtered     []catalog.Product
	searchTerm   string
	loading      bool
	errorMessage string
	staged       mo.Option[catalog.Product]
	deleteMsg    string
}

// PageOption はPage構築時のオプション
type PageOption func(*pageOptions)

type pageOptions struct {
	searchDebounce time.Duration
	itemsPerPage   int
	log            *slog.Logger
}

// WithSearchDebounce は検索デバウンス間隔を指定する
func WithSearchDebounce(d time.Duration) PageOption {
	return func(opts *pageOptions) {
		opts.searchDebounce = d
	}
}

// WithItemsPerPage は一覧の表示件数を指定する
func WithItemsPerPage(n int) PageOption {
	return func(opts *pageOptions) {
		opts.itemsPerPage = n
	}
}

// WithPageLogger はロガーを差し替える
func WithPageLogger(log *slog.Logger) PageOption {
	return func(opts *pageOptions) {
		opts.log = log
	}
}

// NewPage は新しいPageを作成します
func NewPage(service CatalogService, opts ...PageOption) *Page {
	options := pageOptions{
		searchDebounce: 300 * time.Millisecond,
		itemsPerPage:   5,
		log:            slog.Default(),
	}
	for _, opt := range opts {
		opt(&options)
	}

	p := &Page{
		service: service,
		log:     options.log,
		loading: true,
		staged:  mo.None[catalog.Product](),
	}
	p.list = NewList(options.itemsPerPage, WithSizeChangeHandler(p.onItemsPerPageChange))
	p.search = NewSearchPipeline(options.searchDebounce, p.Filter)

	return p
}

// List はページが保持する一覧表示状態を返します
func (p *Page) List() *List {
	return p.list
}

// Load はカタログ全体を取得し、全件・絞り込みの両コピーを初期化します
func (p *Page) Load(ctx context.Context) error {
	p.mu.Lock()
	p.loading = true
	p.errorMessage = ""
	p.mu.Unlock()

	products, err := p.service.List(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()

	p.loading = false
	if err != nil {
		p.errorMessage = err.Error()
		return err
	}

	p.products = products
	p.filtered = products
	p.list.SetProducts(products)
	return nil
}

// OnSearch は検索入力をデバウンスパイプラインへ送ります
func (p *Page) OnSearch(term string) {
	p.mu.Lock()
	p.searchTerm = term
	p.mu.Unlock()

	p.search.Push(term)
}

// Filter は検索語で絞り込みを即時に再計算します。
// 空白のみの検索語は全件に戻します
func (p *Page) Filter(term string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.filtered = FilterProducts(p.products, term)
	p.list.SetProducts(p.filtered)
}

// Products は全件のコピーを返します
func (p *Page) Products() []catalog.Product {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.products
}

// Filtered は絞り込み後のコピーを返します
func (p *Page) Filtered() []catalog.Product {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.filtered
}

// Loading は読込中かを返します
func (p *Page) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// ErrorMessage はページレベルのエラーメッセージを返します
func (p *Page) ErrorMessage() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.errorMessage
}

// StageDelete はプロダクトを削除対象として確認待ちにします
func (p *Page) StageDelete(product catalog.Product) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.staged = mo.Some(product)
	p.deleteMsg = fmt.Sprintf("プロダクト %s を削除してもよろしいですか?", product.Name)
}

// StagedProduct は確認待ちの削除対象を返します
func (p *Page) StagedProduct() mo.Option[catalog.Product] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.staged
}

// DeleteMessage は削除確認のメッセージを返します
func (p *Page) DeleteMessage() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.deleteMsg
}

// ConfirmDelete は確認待ちの削除を実行します。成功時は確認待ちを解除して
// 一覧を再読込し、失敗時はエラーメッセージを表示して確認待ちのみ解除
// します（自動リトライはしない）
func (p *Page) ConfirmDelete(ctx context.Context) error {
	p.mu.Lock()
	staged, ok := p.staged.Get()
	p.mu.Unlock()

	if !ok {
		return nil
	}

	_, err := p.service.Delete(ctx, staged.ID)

	p.mu.Lock()
	p.staged = mo.None[catalog.Product]()
	p.deleteMsg = ""
	if err != nil {
		p.errorMessage = err.Error()
	}
	p.mu.Unlock()

	if err != nil {
		return err
	}

	return p.Load(ctx)
}

// CancelDelete は確認待ちを解除します。ネットワークアクセスは行いません
func (p *Page) CancelDelete() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.staged = mo.None[catalog.Product]()
	p.deleteMsg = ""
}

// Close はページが保持する購読とタイマーを破棄します
func (p *Page) Close() {
	p.search.Close()
}

// onItemsPerPageChange は一覧からの表示件数変更通知を受け取ります
func (p *Page) onItemsPerPageChange(n int) {
	p.log.Debug("Items per page changed", "itemsPerPage", n)
}
