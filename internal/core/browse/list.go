package browse

import (
	"sync"
	"time"

	"github.com/samber/mo"

	"github.com/jinford/prodcat/internal/core/catalog"
	"github.com/jinford/prodcat/internal/core/validation"
)

// List はプロダクト一覧の表示状態です。表示対象は常に現在の一覧の
// 先頭N件（表示件数キャップ）で、行メニューの開閉は排他です
type List struct {
	mu           sync.Mutex
	products     []catalog.Product
	itemsPerPage int
	openMenuID   mo.Option[string]
	onSizeChange func(int)
}

// ListOption はList構築時のオプション
type ListOption func(*List)

// WithSizeChangeHandler は表示件数変更の通知コールバックを登録する
func WithSizeChangeHandler(fn func(int)) ListOption {
	return func(l *List) {
		l.onSizeChange = fn
	}
}

// NewList は新しいListを作成します
func NewList(itemsPerPage int, opts ...ListOption) *List {
	l := &List{
		itemsPerPage: itemsPerPage,
		openMenuID:   mo.None[string](),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// SetProducts は表示対象の一覧を差し替えます
func (l *List) SetProducts(products []catalog.Product) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.products = products
}

// SetItemsPerPage は表示件数を変更し、親へ通知します
func (l *List) SetItemsPerPage(n int) {
	l.mu.Lock()
	l.itemsPerPage = n
	fn := l.onSizeChange
	l.mu.Unlock()

	if fn != nil {
		fn(n)
	}
}

// Visible は現在の一覧の先頭N件を返します
func (l *List) Visible() []catalog.Product {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := l.itemsPerPage
	if n < 0 {
		n = 0
	}
	if n > len(l.products) {
		n = len(l.products)
	}

	visible := make([]catalog.Product, n)
	copy(visible, l.products[:n])
	return visible
}

// TotalResults は絞り込み後の総件数を返します
func (l *List) TotalResults() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.products)
}

// ToggleMenu は行メニューの開閉を切り替えます。別の行のメニューが
// 開いていた場合は閉じられます（排他）
func (l *List) ToggleMenu(productID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if open, ok := l.openMenuID.Get(); ok && open == productID {
		l.openMenuID = mo.None[string]()
		return
	}
	l.openMenuID = mo.Some(productID)
}

// OpenMenuID は開いている行メニューのプロダクトIDを返します
func (l *List) OpenMenuID() mo.Option[string] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.openMenuID
}

// CloseMenus は開いている行メニューを閉じます（行外クリック相当）
func (l *List) CloseMenus() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.openMenuID = mo.None[string]()
}

// FormatDate は一覧表示用にYYYY-MM-DDをDD/MM/YYYYへ整形します。
// パースできない値はそのまま返します
func FormatDate(date string) string {
	t, err := time.ParseInLocation(validation.DateLayout, date, time.Local)
	if err != nil {
		return date
	}
	return t.Format("02/01/2006")
}
