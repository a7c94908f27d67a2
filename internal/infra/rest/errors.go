package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ユーザー提示用の固定メッセージ
const (
	msgUnexpected = "予期しないエラーが発生しました"
	msgNotFound   = "プロダクトが見つかりません"
)

// APIError はデータアクセス境界で変換された、表示可能なメッセージのみを
// 持つエラーです。HTTPステータスなどの構造化情報はこの境界を越えません
type APIError struct {
	Message string
}

// Error はエラーメッセージを返します
func (e *APIError) Error() string {
	return e.Message
}

// errorBody はバックエンドが返すエラーレスポンス
type errorBody struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// mapStatusError はHTTPステータスをユーザー提示用メッセージへ変換します。
// 400はサーバー提供のメッセージをそのまま、404は固定メッセージ、
// それ以外は汎用メッセージになります
func mapStatusError(status int, body []byte) *APIError {
	switch status {
	case http.StatusBadRequest:
		var apiErr errorBody
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
			return &APIError{Message: apiErr.Message}
		}
		return &APIError{Message: msgUnexpected}
	case http.StatusNotFound:
		return &APIError{Message: msgNotFound}
	default:
		return &APIError{Message: msgUnexpected}
	}
}

// mapTransportError はリクエスト自体が失敗した場合（接続不可など）の
// エラーを変換します。メッセージには期待するバックエンドの場所を含めます
func mapTransportError(baseURL string) *APIError {
	return &APIError{
		Message: fmt.Sprintf("サーバーに接続できません。バックエンドが %s で起動しているか確認してください", baseURL),
	}
}
