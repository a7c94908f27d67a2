package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/mo"
	"github.com/urfave/cli/v3"

	"github.com/jinford/prodcat/internal/core/browse"
	"github.com/jinford/prodcat/internal/core/catalog"
	"github.com/jinford/prodcat/internal/core/form"
	"github.com/jinford/prodcat/internal/core/validation"
	"github.com/jinford/prodcat/internal/infra/excel"
)

// ProductListAction はプロダクト一覧を表示するコマンドのアクション
func ProductListAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")
	search := cmd.String("search")
	limit := cmd.Int("limit")
	interactive := cmd.Bool("interactive")

	// 共通コンテキストの初期化
	appCtx, err := NewAppContext(envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	page := newProductsPage(appCtx)
	defer page.Close()

	if err := page.Load(ctx); err != nil {
		return fmt.Errorf("一覧の取得に失敗: %w", err)
	}

	if limit > 0 {
		page.List().SetItemsPerPage(limit)
	}

	if interactive {
		return runInteractiveSearch(ctx, appCtx, page)
	}

	if search != "" {
		page.Filter(search)
	}

	renderProductsPage(page)

	return nil
}

// ProductShowAction はプロダクト詳細を表示するコマンドのアクション
func ProductShowAction(ctx context.Context, cmd *cli.Command) error {
	id := cmd.String("id")
	envFile := cmd.String("env")

	if id == "" {
		return fmt.Errorf("--id は必須です")
	}

	// 共通コンテキストの初期化
	appCtx, err := NewAppContext(envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	svc := appCtx.Container.Catalog

	// スナップショットを満たしてからIDで検索する
	if _, err := svc.List(ctx); err != nil {
		return fmt.Errorf("一覧の取得に失敗: %w", err)
	}

	product, ok := svc.GetByID(id).Get()
	if !ok {
		return fmt.Errorf("プロダクトが見つかりません: %s", id)
	}

	renderProductDetail(product)

	return nil
}

// ProductCreateAction はプロダクトを新規作成するコマンドのアクション
func ProductCreateAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")
	interactive := cmd.Bool("interactive")

	// 共通コンテキストの初期化
	appCtx, err := NewAppContext(envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	svc := appCtx.Container.Catalog

	f := form.New(
		form.ModeCreate,
		mo.None[catalog.Product](),
		svc,
		appCtx.Config.UI.UniqueCheckDebounce,
	)
	defer f.Close()

	if interactive {
		// インタラクティブモード
		if err := promptProductForm(ctx, f); err != nil {
			return fmt.Errorf("入力エラー: %w", err)
		}
	} else {
		// フラグベースモード
		if err := fillFormFromFlags(ctx, f, cmd); err != nil {
			return err
		}
	}

	// 保留中のID重複チェックを確定させてから送信する
	f.Flush(ctx)

	sub, ok := f.Submit().Get()
	if !ok {
		printFormErrors(f)
		return fmt.Errorf("入力内容が有効ではありません")
	}
	defer f.Done()

	id, _ := sub.ID.Get()
	product := catalog.Product{
		ID:           id,
		Name:         sub.Data.Name,
		Description:  sub.Data.Description,
		Logo:         sub.Data.Logo,
		DateRelease:  sub.Data.DateRelease,
		DateRevision: sub.Data.DateRevision,
	}

	created, err := svc.Create(ctx, product)
	if err != nil {
		return fmt.Errorf("プロダクトの作成に失敗: %w", err)
	}

	fmt.Printf("\n✓ プロダクトを作成しました\n")
	fmt.Printf("  ID:   %s\n", created.ID)
	fmt.Printf("  Name: %s\n", created.Name)

	return nil
}

// ProductUpdateAction はプロダクトを更新するコマンドのアクション
func ProductUpdateAction(ctx context.Context, cmd *cli.Command) error {
	id := cmd.String("id")
	envFile := cmd.String("env")
	interactive := cmd.Bool("interactive")

	if id == "" {
		return fmt.Errorf("--id は必須です")
	}

	// 共通コンテキストの初期化
	appCtx, err := NewAppContext(envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	svc := appCtx.Container.Catalog

	// スナップショットを満たしてから編集対象を検索する
	if _, err := svc.List(ctx); err != nil {
		return fmt.Errorf("一覧の取得に失敗: %w", err)
	}

	product, ok := svc.GetByID(id).Get()
	if !ok {
		return fmt.Errorf("プロダクトが見つかりません: %s", id)
	}

	f := form.New(
		form.ModeEdit,
		mo.Some(product),
		svc,
		appCtx.Config.UI.UniqueCheckDebounce,
	)
	defer f.Close()

	if interactive {
		// インタラクティブモード（現在値をデフォルト表示）
		if err := promptProductForm(ctx, f); err != nil {
			return fmt.Errorf("入力エラー: %w", err)
		}
	} else {
		// フラグベースモード（指定された項目のみ上書き）
		if err := fillFormFromFlags(ctx, f, cmd); err != nil {
			return err
		}
	}

	sub, ok := f.Submit().Get()
	if !ok {
		printFormErrors(f)
		return fmt.Errorf("入力内容が有効ではありません")
	}
	defer f.Done()

	if _, err := svc.Update(ctx, id, sub.Data); err != nil {
		return fmt.Errorf("プロダクトの更新に失敗: %w", err)
	}

	fmt.Printf("\n✓ プロダクトを更新しました\n")
	fmt.Printf("  ID: %s\n", id)

	return nil
}

// ProductDeleteAction はプロダクトを削除するコマンドのアクション。
// 削除は確認付きの2段階フローで、確認の拒否はネットワークアクセスなしで
// 取り消されます
func ProductDeleteAction(ctx context.Context, cmd *cli.Command) error {
	id := cmd.String("id")
	envFile := cmd.String("env")
	skipConfirm := cmd.Bool("yes")

	if id == "" {
		return fmt.Errorf("--id は必須です")
	}

	// 共通コンテキストの初期化
	appCtx, err := NewAppContext(envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	page := newProductsPage(appCtx)
	defer page.Close()

	if err := page.Load(ctx); err != nil {
		return fmt.Errorf("一覧の取得に失敗: %w", err)
	}

	product, ok := appCtx.Container.Catalog.GetByID(id).Get()
	if !ok {
		return fmt.Errorf("プロダクトが見つかりません: %s", id)
	}

	page.StageDelete(product)

	if !skipConfirm {
		prompt := promptui.Prompt{
			Label:     page.DeleteMessage(),
			IsConfirm: true,
		}
		if _, err := prompt.Run(); err != nil {
			page.CancelDelete()
			fmt.Println("削除をキャンセルしました")
			return nil
		}
	}

	if err := page.ConfirmDelete(ctx); err != nil {
		return fmt.Errorf("プロダクトの削除に失敗: %w", err)
	}

	fmt.Printf("\n✓ プロダクトを削除しました\n")
	fmt.Printf("  ID: %s\n", id)

	return nil
}

// ProductExportAction はカタログをExcelファイルへ出力するコマンドのアクション
func ProductExportAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")
	output := cmd.String("output")
	search := cmd.String("search")

	// 共通コンテキストの初期化
	appCtx, err := NewAppContext(envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	products, err := appCtx.Container.Catalog.List(ctx)
	if err != nil {
		return fmt.Errorf("一覧の取得に失敗: %w", err)
	}

	if search != "" {
		products = browse.FilterProducts(products, search)
	}

	if err := excel.Export(products, output); err != nil {
		return fmt.Errorf("エクスポートに失敗: %w", err)
	}

	fmt.Printf("\n✓ カタログをエクスポートしました\n")
	fmt.Printf("  File:  %s\n", output)
	fmt.Printf("  Count: %d件\n", len(products))

	return nil
}

// === ヘルパー関数 ===

// newProductsPage はアプリ設定で一覧ページを組み立てます
func newProductsPage(appCtx *AppContext) *browse.Page {
	return browse.NewPage(
		appCtx.Container.Catalog,
		browse.WithSearchDebounce(appCtx.Config.UI.SearchDebounce),
		browse.WithItemsPerPage(appCtx.Config.UI.ItemsPerPage),
		browse.WithPageLogger(appCtx.Logger()),
	)
}

// runInteractiveSearch は検索語の入力を受け付けながら一覧を表示し続けます。
// 入力はデバウンスパイプラインへ流れ、静止期間の経過後に絞り込みが確定します
func runInteractiveSearch(ctx context.Context, appCtx *AppContext, page *browse.Page) error {
	renderProductsPage(page)

	for {
		prompt := promptui.Prompt{
			Label:     "検索語（空で全件、qで終了）",
			AllowEdit: true,
		}
		term, err := prompt.Run()
		if err != nil {
			return nil
		}
		if term == "q" {
			return nil
		}

		page.OnSearch(term)

		// デバウンスの静止期間が経過して絞り込みが確定するのを待つ
		time.Sleep(appCtx.Config.UI.SearchDebounce + 50*time.Millisecond)

		renderProductsPage(page)
	}
}

// promptProductForm はフォームの各フィールドをインタラクティブに入力させます。
// Editモードでは現在値がデフォルトとして表示され、IDは入力対象外です
func promptProductForm(ctx context.Context, f *form.Form) error {
	fields := []struct {
		name  string
		label string
	}{
		{validation.FieldID, "ID (3〜10文字)"},
		{validation.FieldName, "名前 (5〜100文字)"},
		{validation.FieldDescription, "説明 (10〜200文字)"},
		{validation.FieldLogo, "ロゴURL"},
		{validation.FieldDateRelease, "リリース日 (YYYY-MM-DD)"},
		{validation.FieldDateRevision, "改訂日 (リリース日+1年、自動計算)"},
	}

	rules := validation.ProductRules()

	for _, fld := range fields {
		if fld.name == validation.FieldID && f.Mode() == form.ModeEdit {
			// 編集モードではIDは変更できない
			continue
		}

		name := fld.name
		prompt := promptui.Prompt{
			Label:     fld.label,
			Default:   f.Value(name),
			AllowEdit: true,
			Validate: func(input string) error {
				if errs := validation.Apply(rules[name], input, f.Values()); len(errs) > 0 {
					return fieldErrorMessage(errs[0])
				}
				return nil
			},
		}

		value, err := prompt.Run()
		if err != nil {
			return err
		}

		f.SetValue(ctx, name, value)
	}

	return nil
}

// fillFormFromFlags はコマンドラインフラグの値をフォームへ反映します
func fillFormFromFlags(ctx context.Context, f *form.Form, cmd *cli.Command) error {
	flags := map[string]string{
		validation.FieldID:           "id",
		validation.FieldName:         "name",
		validation.FieldDescription:  "description",
		validation.FieldLogo:         "logo",
		validation.FieldDateRelease:  "date-release",
		validation.FieldDateRevision: "date-revision",
	}

	// リリース日を先に反映し、改訂日の自動導出を明示指定で上書きできるようにする
	order := []string{
		validation.FieldID,
		validation.FieldName,
		validation.FieldDescription,
		validation.FieldLogo,
		validation.FieldDateRelease,
		validation.FieldDateRevision,
	}

	for _, name := range order {
		if name == validation.FieldID && f.Mode() == form.ModeEdit {
			continue
		}
		if !cmd.IsSet(flags[name]) {
			continue
		}
		f.SetValue(ctx, name, cmd.String(flags[name]))
	}

	return nil
}

// printFormErrors はフォームの検証エラーを一覧表示します
func printFormErrors(f *form.Form) {
	names := []string{
		validation.FieldID,
		validation.FieldName,
		validation.FieldDescription,
		validation.FieldLogo,
		validation.FieldDateRelease,
		validation.FieldDateRevision,
	}

	for _, name := range names {
		for _, fieldErr := range f.FieldErrors(name) {
			fmt.Printf("⚠ %s: %v\n", name, fieldErrorMessage(fieldErr))
		}
	}
}

// fieldErrorMessage は構造化エラーをユーザー提示用メッセージへ変換します
func fieldErrorMessage(e validation.FieldError) error {
	switch e.Rule {
	case validation.RuleRequired:
		return fmt.Errorf("必須項目です")
	case validation.RuleMinLength:
		return fmt.Errorf("%s文字以上で入力してください", e.Required)
	case validation.RuleMaxLength:
		return fmt.Errorf("%s文字以下で入力してください", e.Required)
	case validation.RuleInvalidURL:
		return fmt.Errorf("URLの形式が正しくありません: %s", e.Value)
	case validation.RuleMinDate:
		return fmt.Errorf("本日（%s）以降の日付を指定してください", e.Required)
	case validation.RuleDateRevision:
		return fmt.Errorf("リリース日の1年後（%s）を指定してください", e.Required)
	case validation.RuleUniqueID:
		return fmt.Errorf("ID %s は既に使用されています", e.Value)
	default:
		return fmt.Errorf("入力値が正しくありません")
	}
}

// renderProductsPage は一覧ページの表示状態をテーブル表示します
func renderProductsPage(page *browse.Page) {
	visible := page.List().Visible()

	if len(visible) == 0 {
		fmt.Println("プロダクトはありません")
		return
	}

	renderProductsTable(visible)
	fmt.Printf("%d件中%d件を表示\n", page.List().TotalResults(), len(visible))
}

// renderProductsTable はプロダクト一覧をテーブル表示します
func renderProductsTable(products []catalog.Product) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Name", "Description", "Logo", "Release", "Revision")

	for _, p := range products {
		logo := p.Logo
		if validation.URL(logo, nil) != nil {
			// 壊れたロゴURLはプレースホルダ表示にする
			logo = "-"
		}

		table.Append(
			p.ID,
			p.Name,
			p.Description,
			logo,
			browse.FormatDate(p.DateRelease),
			browse.FormatDate(p.DateRevision),
		)
	}

	table.Render()
}

// renderProductDetail はプロダクトの詳細を表示します
func renderProductDetail(p catalog.Product) {
	fmt.Printf("\n=== プロダクト詳細 ===\n\n")
	fmt.Printf("ID:            %s\n", p.ID)
	fmt.Printf("Name:          %s\n", p.Name)
	fmt.Printf("Description:   %s\n", p.Description)
	fmt.Printf("Logo:          %s\n", p.Logo)
	fmt.Printf("Date Release:  %s\n", browse.FormatDate(p.DateRelease))
	fmt.Printf("Date Revision: %s\n", browse.FormatDate(p.DateRevision))
}
