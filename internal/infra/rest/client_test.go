package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinford/prodcat/internal/core/catalog"
)

func testProducts() []catalog.Product {
	return []catalog.Product{
		{
			ID:           "test-1",
			Name:         "Test Product 1",
			Description:  "Test Description 1",
			Logo:         "https://example.com/test-1.png",
			DateRelease:  "2025-01-01",
			DateRevision: "2026-01-01",
		},
		{
			ID:           "test-2",
			Name:         "Another Product",
			Description:  "Another Description",
			Logo:         "https://example.com/test-2.png",
			DateRelease:  "2025-06-15",
			DateRevision: "2026-06-15",
		},
	}
}

func TestClient_List(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/bp/products", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		w.Header().Set("Content-Type", "application/json")
		err := json.NewEncoder(w).Encode(map[string]any{"data": testProducts()})
		require.NoError(t, err)
	}))
	defer server.Close()

	client := NewClient(server.URL + "/bp")
	defer client.Close()

	products, err := client.List(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "test-1", products[0].ID)
	assert.Equal(t, "Test Product 1", products[0].Name)
	assert.Equal(t, "2025-01-01", products[0].DateRelease)
}

func TestClient_Create(t *testing.T) {
	product := testProducts()[0]

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/bp/products", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var received catalog.Product
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		assert.Equal(t, product, received)

		w.WriteHeader(http.StatusCreated)
		err := json.NewEncoder(w).Encode(map[string]any{
			"message": "Product added successfully",
			"data":    received,
		})
		require.NoError(t, err)
	}))
	defer server.Close()

	client := NewClient(server.URL + "/bp")
	defer client.Close()

	created, err := client.Create(context.Background(), product)

	require.NoError(t, err)
	assert.Equal(t, product, created)
}

func TestClient_Create_DuplicateIDReturnsServerMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		err := json.NewEncoder(w).Encode(map[string]string{
			"name":    "BadRequestError",
			"message": "Duplicate product identifier found in the database",
		})
		require.NoError(t, err)
	}))
	defer server.Close()

	client := NewClient(server.URL + "/bp")
	defer client.Close()

	_, err := client.Create(context.Background(), testProducts()[0])

	// 400はサーバー提供のメッセージをそのまま伝える
	require.Error(t, err)
	assert.Equal(t, "Duplicate product identifier found in the database", err.Error())
}

func TestClient_Update(t *testing.T) {
	data := testProducts()[0].Data()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/bp/products/test-1", r.URL.Path)

		err := json.NewEncoder(w).Encode(map[string]any{
			"message": "Product updated successfully",
			"data":    data,
		})
		require.NoError(t, err)
	}))
	defer server.Close()

	client := NewClient(server.URL + "/bp")
	defer client.Close()

	updated, err := client.Update(context.Background(), "test-1", data)

	require.NoError(t, err)
	assert.Equal(t, data, updated)
}

func TestClient_Update_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL + "/bp")
	defer client.Close()

	_, err := client.Update(context.Background(), "missing-id", testProducts()[0].Data())

	require.Error(t, err)
	assert.Equal(t, "プロダクトが見つかりません", err.Error())
}

func TestClient_Delete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/bp/products/test-1", r.URL.Path)

		err := json.NewEncoder(w).Encode(map[string]string{
			"message": "Product removed successfully",
		})
		require.NoError(t, err)
	}))
	defer server.Close()

	client := NewClient(server.URL + "/bp")
	defer client.Close()

	message, err := client.Delete(context.Background(), "test-1")

	require.NoError(t, err)
	assert.Equal(t, "Product removed successfully", message)
}

func TestClient_VerifyID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)

		switch r.URL.Path {
		case "/bp/products/verification/test-1":
			_, err := w.Write([]byte("true"))
			require.NoError(t, err)
		case "/bp/products/verification/fresh-id":
			_, err := w.Write([]byte("false"))
			require.NoError(t, err)
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL + "/bp")
	defer client.Close()

	exists, err := client.VerifyID(context.Background(), "test-1")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = client.VerifyID(context.Background(), "fresh-id")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestClient_TransportErrorMentionsBaseURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL + "/bp"
	server.Close()

	client := NewClient(baseURL)
	defer client.Close()

	_, err := client.List(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "サーバーに接続できません")
	assert.Contains(t, err.Error(), baseURL)
}

func TestClient_ServerErrorReturnsGenericMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL + "/bp")
	defer client.Close()

	_, err := client.List(context.Background())

	require.Error(t, err)
	assert.Equal(t, "予期しないエラーが発生しました", err.Error())
}

func TestClient_MalformedResponseReturnsGenericMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := w.Write([]byte("not json"))
		require.NoError(t, err)
	}))
	defer server.Close()

	client := NewClient(server.URL + "/bp")
	defer client.Close()

	_, err := client.List(context.Background())

	require.Error(t, err)
	assert.Equal(t, "予期しないエラーが発生しました", err.Error())
}
