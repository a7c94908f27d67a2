package catalog

import (
	"sync"

	"github.com/samber/mo"
)

// Store は最後に取得したプロダクト一覧のスナップショットを保持します。
// 書き込みはReplaceのみ、読み取りは何件でも可能です。購読者には
// 置き換えのたびに新しいスナップショットが通知されます。
type Store struct {
	mu       sync.RWMutex
	products []Product
	subs     map[int]func([]Product)
	nextSub  int
}

// NewStore は空のスナップショットを持つStoreを作成します
func NewStore() *Store {
	return &Store{
		subs: make(map[int]func([]Product)),
	}
}

// Replace はスナップショットを丸ごと置き換え、購読者に通知します
func (s *Store) Replace(products []Product) {
	snapshot := make([]Product, len(products))
	copy(snapshot, products)

	s.mu.Lock()
	s.products = snapshot
	subs := make([]func([]Product), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}

// Snapshot は現在のスナップショットのコピーを返します
func (s *Store) Snapshot() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]Product, len(s.products))
	copy(snapshot, s.products)
	return snapshot
}

// GetByID は現在のスナップショットからプロダクトを検索します。
// ネットワークアクセスは行わず、未取得の場合はNoneを返します。
func (s *Store) GetByID(id string) mo.Option[Product] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID == id {
			return mo.Some(p)
		}
	}
	return mo.None[Product]()
}

// Subscribe はスナップショット置き換え時のコールバックを登録し、
// 購読解除用の関数を返します
func (s *Store) Subscribe(fn func([]Product)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}
