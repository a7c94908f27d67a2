package catalog

import "context"

// Repository はバックエンドAPIへのプロダクト操作を提供します。
// すべての失敗は表示可能なメッセージを持つエラーとして返されます。
type Repository interface {
	// List はカタログ全体を取得する
	List(ctx context.Context) ([]Product, error)

	// Create はプロダクトを新規作成する（IDは呼び出し側が指定）
	Create(ctx context.Context, product Product) (Product, error)

	// Update はID以外の全項目を更新する
	Update(ctx context.Context, id string, data ProductData) (ProductData, error)

	// Delete はプロダクトを削除し、確認メッセージを返す
	Delete(ctx context.Context, id string) (string, error)

	// VerifyID はIDがバックエンドに既に存在するかを返す
	VerifyID(ctx context.Context, id string) (bool, error)
}
