package catalog

// Product は金融プロダクトを表します
type Product struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Logo         string `json:"logo"`
	DateRelease  string `json:"date_release"`  // YYYY-MM-DD
	DateRevision string `json:"date_revision"` // YYYY-MM-DD
}

// ProductData はID以外のプロダクト項目を表します（更新APIのボディ）
type ProductData struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Logo         string `json:"logo"`
	DateRelease  string `json:"date_release"`
	DateRevision string `json:"date_revision"`
}

// Data はプロダクトからID以外の項目を取り出します
func (p Product) Data() ProductData {
	return ProductData{
		Name:         p.Name,
		Description:  p.Description,
		Logo:         p.Logo,
		DateRelease:  p.DateRelease,
		DateRevision: p.DateRevision,
	}
}
