package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jinford/prodcat/internal/core/catalog"
)

// Client はプロダクトAPIへのHTTPクライアントです。
// catalog.Repositoryを実装し、すべての失敗を表示可能なメッセージを
// 持つエラーへ変換して返します
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// ClientOption はClient構築時のオプション
type ClientOption func(*Client)

// WithHTTPClient はHTTPクライアントを差し替える
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout はリクエストのタイムアウトを指定する
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithClientLogger はロガーを差し替える
func WithClientLogger(log *slog.Logger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient は新しいClientを作成します。
// baseURLは /products を含まないAPIルート（例: http://localhost:3002/bp）です
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close はアイドル状態の接続を閉じます
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

type listResponse struct {
	Data []catalog.Product `json:"data"`
}

type createResponse struct {
	Message string          `json:"message"`
	Data    catalog.Product `json:"data"`
}

type updateResponse struct {
	Message string              `json:"message"`
	Data    catalog.ProductData `json:"data"`
}

type deleteResponse struct {
	Message string `json:"message"`
}

// List はカタログ全体を取得します
func (c *Client) List(ctx context.Context) ([]catalog.Product, error) {
	var resp listResponse
	if err := c.do(ctx, http.MethodGet, c.productsURL(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Create はプロダクトを新規作成します
func (c *Client) Create(ctx context.Context, product catalog.Product) (catalog.Product, error) {
	var resp createResponse
	if err := c.do(ctx, http.MethodPost, c.productsURL(), product, &resp); err != nil {
		return catalog.Product{}, err
	}
	return resp.Data, nil
}

// Update はID以外の全項目を更新します
func (c *Client) Update(ctx context.Context, id string, data catalog.ProductData) (catalog.ProductData, error) {
	var resp updateResponse
	if err := c.do(ctx, http.MethodPut, c.productsURL()+"/"+id, data, &resp); err != nil {
		return catalog.ProductData{}, err
	}
	return resp.Data, nil
}

// Delete はプロダクトを削除し、バックエンドの確認メッセージを返します
func (c *Client) Delete(ctx context.Context, id string) (string, error) {
	var resp deleteResponse
	if err := c.do(ctx, http.MethodDelete, c.productsURL()+"/"+id, nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// VerifyID はIDがバックエンドに既に存在するかを返します
func (c *Client) VerifyID(ctx context.Context, id string) (bool, error) {
	var exists bool
	if err := c.do(ctx, http.MethodGet, c.productsURL()+"/verification/"+id, nil, &exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (c *Client) productsURL() string {
	return c.baseURL + "/products"
}

// do はJSONリクエストを実行し、レスポンスをoutへデコードします。
// 失敗はすべて表示可能なAPIErrorへ変換されます
func (c *Client) do(ctx context.Context, method, url string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug("Request failed", "method", method, "url", url, "error", err)
		return mapTransportError(c.baseURL)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Message: msgUnexpected}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Debug("Request returned error status",
			"method", method,
			"url", url,
			"status", resp.StatusCode,
		)
		return mapStatusError(resp.StatusCode, respBody)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return &APIError{Message: msgUnexpected}
		}
	}

	return nil
}
