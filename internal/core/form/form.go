package form

import (
	"context"
	"sync"
	"time"

	"github.com/samber/mo"

	"github.com/jinford/prodcat/internal/core/catalog"
	"github.com/jinford/prodcat/internal/core/validation"
)

// Mode はフォームの動作モードです。生成時に固定され、以後変化しません
type Mode int

const (
	// ModeCreate は新規作成（ID編集可、初期値なし）
	ModeCreate Mode = iota
	// ModeEdit は編集（ID編集不可、既存プロダクトで初期化）
	ModeEdit
)

// fieldNames はフォームを構成するフィールドの一覧
var fieldNames = []string{
	validation.FieldID,
	validation.FieldName,
	validation.FieldDescription,
	validation.FieldLogo,
	validation.FieldDateRelease,
	validation.FieldDateRevision,
}

// field はフィールド単位のフォーム状態
type field struct {
	value    string
	touched  bool
	dirty    bool
	errs     []validation.FieldError
	asyncErr mo.Option[validation.FieldError]
}

// Submission は送信時にフォームから上位へ渡される値です。
// EditモードではIDを含みません
type Submission struct {
	ID   mo.Option[string]
	Data catalog.ProductData
}

// Form はプロダクトフォームの状態機械です。
// フィールド編集で同期ルールを即時再評価し、IDの重複チェックは
// デバウンス後に非同期で確定します
type Form struct {
	mu         sync.Mutex
	mode       Mode
	original   mo.Option[catalog.Product]
	fields     map[string]*field
	rules      map[string][]validation.Rule
	unique     *validation.UniqueChecker
	submitting bool
	onCancel   func()
}

// Option はForm構築時のオプション
type Option func(*Form)

// WithCancelHandler はキャンセル通知のコールバックを登録する
func WithCancelHandler(fn func()) Option {
	return func(f *Form) {
		f.onCancel = fn
	}
}

// New は新しいFormを作成します。
// checkerはID重複チェックに使用し、Createモードでのみ配線されます。
// Editモードではinitialの値で初期化され、IDフィールドは編集不可です
func New(mode Mode, initial mo.Option[catalog.Product], checker validation.ExistenceChecker, asyncDelay time.Duration, opts ...Option) *Form {
	f := &Form{
		mode:     mode,
		original: initial,
		fields:   make(map[string]*field, len(fieldNames)),
		rules:    validation.ProductRules(),
	}
	for _, name := range fieldNames {
		f.fields[name] = &field{asyncErr: mo.None[validation.FieldError]()}
	}
	for _, opt := range opts {
		opt(f)
	}

	if mode == ModeCreate {
		f.unique = validation.NewUniqueChecker(checker, asyncDelay)
	}

	if initial, ok := initial.Get(); ok {
		f.populate(initial)
	}

	return f
}

// Mode はフォームのモードを返します
func (f *Form) Mode() Mode {
	return f.mode
}

// SetValue はフィールドを編集します。同期ルールを即時に再評価し、
// CreateモードのID編集は重複チェックをデバウンス付きで予約します。
// リリース日の編集は改訂日を自動導出（+1年）してフォームへ書き込みます。
// EditモードのIDは編集不可のため無視されます
func (f *Form) SetValue(ctx context.Context, name, value string) {
	fld, ok := f.fieldByName(name)
	if !ok {
		return
	}

	if name == validation.FieldID && f.mode == ModeEdit {
		return
	}

	f.mu.Lock()
	fld.value = value
	fld.dirty = true
	f.revalidateLocked(name)
	if name == validation.FieldDateRelease {
		// 改訂日の整合ルールはリリース日に依存する
		f.revalidateLocked(validation.FieldDateRevision)
	}
	f.mu.Unlock()

	if name == validation.FieldID && f.unique != nil {
		f.unique.Schedule(ctx, value, f.applyUniqueResult)
	}

	if name == validation.FieldDateRelease && value != "" {
		f.deriveRevisionDate(value)
	}
}

// Value はフィールドの現在値を返します
func (f *Form) Value(name string) string {
	fld, ok := f.fieldByName(name)
	if !ok {
		return ""
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return fld.value
}

// Values は全フィールドの現在値を返します
func (f *Form) Values() validation.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.valuesLocked()
}

// Touch はフィールドをタッチ済みにします
func (f *Form) Touch(name string) {
	fld, ok := f.fieldByName(name)
	if !ok {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	fld.touched = true
}

// FieldErrors はフィールドの同期・非同期エラーをまとめて返します
func (f *Form) FieldErrors(name string) []validation.FieldError {
	fld, ok := f.fieldByName(name)
	if !ok {
		return nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	errs := make([]validation.FieldError, len(fld.errs))
	copy(errs, fld.errs)
	if asyncErr, ok := fld.asyncErr.Get(); ok {
		errs = append(errs, asyncErr)
	}
	return errs
}

// IsFieldInvalid はフィールドが無効で、かつユーザーが触れた
// （dirtyまたはtouched）場合にtrueを返します
func (f *Form) IsFieldInvalid(name string) bool {
	fld, ok := f.fieldByName(name)
	if !ok {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	invalid := len(fld.errs) > 0 || fld.asyncErr.IsPresent()
	return invalid && (fld.dirty || fld.touched)
}

// Valid は全フィールドが有効で、未確定の非同期チェックがないことを返します
func (f *Form) Valid() bool {
	if f.unique != nil && f.unique.Pending() {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, fld := range f.fields {
		if len(fld.errs) > 0 || fld.asyncErr.IsPresent() {
			return false
		}
	}
	return true
}

// Submit は全フィールドが有効で送信中でない場合に現在の値を返します。
// EditモードではIDを省きます。無効な場合は全フィールドをタッチ済みに
// して検証メッセージを表示させ、Noneを返します。送信完了後はDoneを
// 呼んで再送信を許可します
func (f *Form) Submit() mo.Option[Submission] {
	if f.isSubmitting() {
		return mo.None[Submission]()
	}
	if !f.Valid() {
		f.touchAll()
		return mo.None[Submission]()
	}

	f.mu.Lock()
	f.submitting = true
	values := f.valuesLocked()
	f.mu.Unlock()

	sub := Submission{
		ID: mo.None[string](),
		Data: catalog.ProductData{
			Name:         values[validation.FieldName],
			Description:  values[validation.FieldDescription],
			Logo:         values[validation.FieldLogo],
			DateRelease:  values[validation.FieldDateRelease],
			DateRevision: values[validation.FieldDateRevision],
		},
	}
	if f.mode == ModeCreate {
		sub.ID = mo.Some(values[validation.FieldID])
	}

	return mo.Some(sub)
}

// Done は送信の完了を通知し、再送信を許可します
func (f *Form) Done() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false
}

// Reset はフォームを初期状態へ戻します。Editモードでは元のデータを
// 復元し、Createモードでは全フィールドを空にします。どちらの場合も
// タッチ状態は解除されます
func (f *Form) Reset() {
	if original, ok := f.original.Get(); ok && f.mode == ModeEdit {
		f.populate(original)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for name, fld := range f.fields {
		fld.value = ""
		fld.touched = false
		fld.dirty = false
		fld.asyncErr = mo.None[validation.FieldError]()
		f.revalidateLocked(name)
	}
}

// Cancel は上位へキャンセルを通知します。ペイロードは持ちません
func (f *Form) Cancel() {
	if f.onCancel != nil {
		f.onCancel()
	}
}

// Flush は保留中のID重複チェックをデバウンスを待たずに確定させます
func (f *Form) Flush(ctx context.Context) {
	if f.unique == nil {
		return
	}
	f.unique.Flush(ctx, f.Value(validation.FieldID), f.applyUniqueResult)
}

// Close はフォームが保持する非同期リソースを破棄します
func (f *Form) Close() {
	if f.unique != nil {
		f.unique.Stop()
	}
}

// populate は既存プロダクトの値でフォームを満たし、タッチ状態を解除します
func (f *Form) populate(p catalog.Product) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values := map[string]string{
		validation.FieldID:           p.ID,
		validation.FieldName:         p.Name,
		validation.FieldDescription:  p.Description,
		validation.FieldLogo:         p.Logo,
		validation.FieldDateRelease:  p.DateRelease,
		validation.FieldDateRevision: p.DateRevision,
	}
	for name, value := range values {
		fld := f.fields[name]
		fld.value = value
		fld.touched = false
		fld.dirty = false
		fld.asyncErr = mo.None[validation.FieldError]()
	}
	for name := range f.fields {
		f.revalidateLocked(name)
	}
}

// deriveRevisionDate はリリース日+1年を改訂日としてフォームへ書き込みます
func (f *Form) deriveRevisionDate(release string) {
	releaseDate, err := time.ParseInLocation(validation.DateLayout, release, time.Local)
	if err != nil {
		return
	}

	revision := releaseDate.AddDate(1, 0, 0).Format(validation.DateLayout)

	f.mu.Lock()
	defer f.mu.Unlock()

	fld := f.fields[validation.FieldDateRevision]
	fld.value = revision
	f.revalidateLocked(validation.FieldDateRevision)
}

// applyUniqueResult は重複チェックの確定結果をIDフィールドへ反映します
func (f *Form) applyUniqueResult(result mo.Option[validation.FieldError]) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields[validation.FieldID].asyncErr = result
}

// revalidateLocked はフィールドの同期ルールを再評価します。要ロック
func (f *Form) revalidateLocked(name string) {
	fld := f.fields[name]
	fld.errs = validation.Apply(f.rules[name], fld.value, f.valuesLocked())
}

// valuesLocked は全フィールドの現在値を返します。要ロック
func (f *Form) valuesLocked() validation.Values {
	values := make(validation.Values, len(f.fields))
	for name, fld := range f.fields {
		values[name] = fld.value
	}
	return values
}

// touchAll は全フィールドをタッチ済みにします
func (f *Form) touchAll() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, fld := range f.fields {
		fld.touched = true
	}
}

func (f *Form) isSubmitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

func (f *Form) fieldByName(name string) (*field, bool) {
	fld, ok := f.fields[name]
	return fld, ok
}
