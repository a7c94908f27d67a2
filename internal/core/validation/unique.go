package validation

import (
	"context"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/samber/mo"
)

// ExistenceChecker はIDがバックエンドに既に存在するかを確認します
type ExistenceChecker interface {
	VerifyID(ctx context.Context, id string) (bool, error)
}

// UniqueChecker はID重複の非同期チェックを提供します。
// Scheduleはデバウンス間隔の経過後にバックエンド照会を実行し、
// 後続のScheduleが未確定の先行チェックを破棄します（デバウンスが
// キャンセル境界）。照会自体の失敗は有効扱い（フェイルオープン）です。
type UniqueChecker struct {
	checker    ExistenceChecker
	delay      time.Duration
	editMode   bool
	originalID string
	log        *slog.Logger

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	pending bool
}

// UniqueCheckerOption はUniqueChecker構築時のオプション
type UniqueCheckerOption func(*UniqueChecker)

// ForEdit は編集モードにし、元のIDと同じ値をチェック対象外にする
func ForEdit(originalID string) UniqueCheckerOption {
	return func(c *UniqueChecker) {
		c.editMode = true
		c.originalID = originalID
	}
}

// WithUniqueCheckerLogger はロガーを差し替える
func WithUniqueCheckerLogger(log *slog.Logger) UniqueCheckerOption {
	return func(c *UniqueChecker) {
		c.log = log
	}
}

// NewUniqueChecker は新しいUniqueCheckerを作成します
func NewUniqueChecker(checker ExistenceChecker, delay time.Duration, opts ...UniqueCheckerOption) *UniqueChecker {
	c := &UniqueChecker{
		checker: checker,
		delay:   delay,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Schedule はデバウンス後に重複チェックを実行し、結果をapplyに渡します。
// 空値、3文字未満、編集モードで元のIDと同値の場合はバックエンドを
// 呼ばずに即座に有効として確定します。
func (c *UniqueChecker) Schedule(ctx context.Context, id string, apply func(mo.Option[FieldError])) {
	c.mu.Lock()

	// 先行する未確定のチェックを破棄する
	c.gen++
	gen := c.gen
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}

	if c.skip(id) {
		c.pending = false
		c.mu.Unlock()
		apply(mo.None[FieldError]())
		return
	}

	c.pending = true
	c.timer = time.AfterFunc(c.delay, func() {
		c.run(ctx, gen, id, apply)
	})
	c.mu.Unlock()
}

// Flush は保留中のチェックをデバウンスを待たずに即時実行します
func (c *UniqueChecker) Flush(ctx context.Context, id string, apply func(mo.Option[FieldError])) {
	c.mu.Lock()

	c.gen++
	gen := c.gen
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}

	if c.skip(id) {
		c.pending = false
		c.mu.Unlock()
		apply(mo.None[FieldError]())
		return
	}

	c.pending = true
	c.mu.Unlock()

	c.run(ctx, gen, id, apply)
}

// Pending は未確定のチェックが残っているかを返します
func (c *UniqueChecker) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Stop は保留中のチェックを破棄します（コンポーネント破棄時に呼ぶ）
func (c *UniqueChecker) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.pending = false
}

// skip はバックエンド照会なしで有効と確定できる値かを判定します
func (c *UniqueChecker) skip(id string) bool {
	if id == "" || utf8.RuneCountInString(id) < 3 {
		return true
	}
	if c.editMode && id == c.originalID {
		return true
	}
	return false
}

// run はバックエンド照会を実行し、確定していればapplyに渡します
func (c *UniqueChecker) run(ctx context.Context, gen uint64, id string, apply func(mo.Option[FieldError])) {
	exists, err := c.checker.VerifyID(ctx, id)

	result := mo.None[FieldError]()
	if err != nil {
		// フェイルオープン: 照会失敗で入力をブロックしない
		c.log.Debug("ID verification failed, treating as valid", "id", id, "error", err)
	} else if exists {
		result = mo.Some(FieldError{Rule: RuleUniqueID, Value: id})
	}

	c.mu.Lock()
	if c.gen != gen {
		// 後続のScheduleに追い越された結果は適用しない
		c.mu.Unlock()
		return
	}
	c.pending = false
	c.mu.Unlock()

	apply(result)
}
