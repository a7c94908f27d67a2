package browse

import (
	"strings"
	"sync"
	"time"

	"github.com/samber/mo"

	"github.com/jinford/prodcat/internal/core/catalog"
)

// SearchPipeline は検索入力のデバウンスパイプラインです。
// 静止期間内の連続入力は最後の1件だけが確定し、直前に確定した値と
// 同じ値は再通知されません。Closeでタイマーを破棄します
type SearchPipeline struct {
	delay time.Duration
	apply func(term string)

	mu      sync.Mutex
	timer   *time.Timer
	pending string
	last    mo.Option[string]
	closed  bool
}

// NewSearchPipeline は新しいSearchPipelineを作成します。
// applyはデバウンス経過後に確定した検索語で呼び出されます
func NewSearchPipeline(delay time.Duration, apply func(term string)) *SearchPipeline {
	return &SearchPipeline{
		delay: delay,
		apply: apply,
		last:  mo.None[string](),
	}
}

// Push は検索語をパイプラインへ送ります。静止期間が経過するまでは
// 確定せず、後続のPushが先行の未確定値を破棄します
func (p *SearchPipeline) Push(term string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}

	p.pending = term
	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(p.delay, p.fire)
}

// Close はパイプラインを停止し、未確定の入力を破棄します
func (p *SearchPipeline) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

// fire はデバウンス経過時に最後の入力を確定させます
func (p *SearchPipeline) fire() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}

	term := p.pending
	if last, ok := p.last.Get(); ok && last == term {
		// 直前に確定した値と同じ入力は通知しない
		p.mu.Unlock()
		return
	}
	p.last = mo.Some(term)
	p.mu.Unlock()

	p.apply(term)
}

// FilterProducts は検索語で一覧を絞り込みます。名前・説明・IDのいずれかに
// 検索語が部分一致（大文字小文字無視）するものを返し、空白のみの検索語は
// 全件をそのまま返します
func FilterProducts(products []catalog.Product, term string) []catalog.Product {
	if strings.TrimSpace(term) == "" {
		return products
	}

	lower := strings.ToLower(term)

	filtered := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), lower) ||
			strings.Contains(strings.ToLower(p.Description), lower) ||
			strings.Contains(strings.ToLower(p.ID), lower) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
