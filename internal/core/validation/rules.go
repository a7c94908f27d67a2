package validation

import (
	"fmt"
	"net/url"
	"time"
	"unicode/utf8"
)

// フォームのフィールド名
const (
	FieldID           = "id"
	FieldName         = "name"
	FieldDescription  = "description"
	FieldLogo         = "logo"
	FieldDateRelease  = "date_release"
	FieldDateRevision = "date_revision"
)

// ルール名
const (
	RuleRequired     = "required"
	RuleMinLength    = "minLength"
	RuleMaxLength    = "maxLength"
	RuleInvalidURL   = "invalidUrl"
	RuleMinDate      = "minDate"
	RuleDateRevision = "dateRevision"
	RuleUniqueID     = "uniqueId"
)

// DateLayout はフォーム上の日付表現
const DateLayout = "2006-01-02"

// FieldError はフィールド単位のバリデーションエラーを表します
type FieldError struct {
	Rule     string // 違反したルール名
	Value    string // 実際の値
	Required string // 要求される値（長さ、最小日付など）
}

// Error はエラーメッセージを返します
func (e FieldError) Error() string {
	if e.Required != "" {
		return fmt.Sprintf("%s: value %q does not satisfy required %q", e.Rule, e.Value, e.Required)
	}
	return fmt.Sprintf("%s: value %q is not valid", e.Rule, e.Value)
}

// Values はルール評価時に参照できる兄弟フィールドの値です。
// フォームに属さない単独評価ではnilを渡します。
type Values map[string]string

// Rule は単一フィールドの同期バリデーションルールです。
// 違反がない場合はnilを返します。
type Rule func(value string, form Values) *FieldError

// Required は空値を拒否します
func Required(value string, _ Values) *FieldError {
	if value == "" {
		return &FieldError{Rule: RuleRequired, Value: value}
	}
	return nil
}

// MinLength は最小文字数のルールを作成します。空値は有効です
func MinLength(min int) Rule {
	return func(value string, _ Values) *FieldError {
		if value == "" {
			return nil
		}
		if utf8.RuneCountInString(value) < min {
			return &FieldError{
				Rule:     RuleMinLength,
				Value:    value,
				Required: fmt.Sprintf("%d", min),
			}
		}
		return nil
	}
}

// MaxLength は最大文字数のルールを作成します
func MaxLength(max int) Rule {
	return func(value string, _ Values) *FieldError {
		if utf8.RuneCountInString(value) > max {
			return &FieldError{
				Rule:     RuleMaxLength,
				Value:    value,
				Required: fmt.Sprintf("%d", max),
			}
		}
		return nil
	}
}

// URL は絶対URLとしてパースできることを要求します。空値は有効です
func URL(value string, _ Values) *FieldError {
	if value == "" {
		return nil
	}

	u, err := url.Parse(value)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return &FieldError{Rule: RuleInvalidURL, Value: value}
	}
	return nil
}

// MinDate は日付が今日（ローカルの0時）以降であることを要求します。
// 空値は有効（必須チェックに委ねる）です
func MinDate(value string, _ Values) *FieldError {
	if value == "" {
		return nil
	}

	input, err := time.ParseInLocation(DateLayout, value, time.Local)
	if err != nil {
		return nil
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)

	if input.Before(today) {
		return &FieldError{
			Rule:     RuleMinDate,
			Value:    value,
			Required: today.Format(DateLayout),
		}
	}
	return nil
}

// DateRevision は改訂日がリリース日のちょうど1年後であることを要求する
// ルールを作成します。どちらかが空、またはフォーム外での評価は有効です
func DateRevision(releaseField string) Rule {
	return func(value string, form Values) *FieldError {
		if form == nil {
			return nil
		}

		release := form[releaseField]
		if release == "" || value == "" {
			return nil
		}

		releaseDate, err := time.ParseInLocation(DateLayout, release, time.Local)
		if err != nil {
			return nil
		}
		revisionDate, err := time.ParseInLocation(DateLayout, value, time.Local)
		if err != nil {
			return nil
		}

		expected := releaseDate.AddDate(1, 0, 0)
		if !revisionDate.Equal(expected) {
			return &FieldError{
				Rule:     RuleDateRevision,
				Value:    value,
				Required: expected.Format(DateLayout),
			}
		}
		return nil
	}
}

// ProductRules はプロダクトフォームのフィールド名→同期ルールの静的テーブルです
func ProductRules() map[string][]Rule {
	return map[string][]Rule{
		FieldID:           {Required, MinLength(3), MaxLength(10)},
		FieldName:         {Required, MinLength(5), MaxLength(100)},
		FieldDescription:  {Required, MinLength(10), MaxLength(200)},
		FieldLogo:         {Required, URL},
		FieldDateRelease:  {Required, MinDate},
		FieldDateRevision: {Required, DateRevision(FieldDateRelease)},
	}
}

// Apply はルールを順に評価し、違反をすべて返します
func Apply(rules []Rule, value string, form Values) []FieldError {
	var errs []FieldError
	for _, rule := range rules {
		if err := rule(value, form); err != nil {
			errs = append(errs, *err)
		}
	}
	return errs
}
