package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jinford/prodcat/cmd/prodcat/commands"
	"github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 構造化ログの設定
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	app := &cli.Command{
		Name:  "prodcat",
		Usage: "金融プロダクトカタログ管理CLI",
		Commands: []*cli.Command{
			{
				Name:  "product",
				Usage: "プロダクト管理コマンド",
				Commands: []*cli.Command{
					{
						Name:  "list",
						Usage: "プロダクト一覧を表示",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "env",
								Usage: "環境変数ファイルパス",
								Value: ".env",
							},
							&cli.StringFlag{
								Name:  "search",
								Usage: "検索語（名前・説明・IDの部分一致）",
							},
							&cli.IntFlag{
								Name:  "limit",
								Usage: "表示件数（省略時は設定値）",
							},
							&cli.BoolFlag{
								Name:  "interactive",
								Usage: "検索語を対話的に入力しながら一覧を表示",
							},
						},
						Action: commands.ProductListAction,
					},
					{
						Name:  "show",
						Usage: "プロダクト詳細を表示",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "env",
								Usage: "環境変数ファイルパス",
								Value: ".env",
							},
							&cli.StringFlag{
								Name:     "id",
								Usage:    "プロダクトID",
								Required: true,
							},
						},
						Action: commands.ProductShowAction,
					},
					{
						Name:  "create",
						Usage: "プロダクトを新規作成",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "env",
								Usage: "環境変数ファイルパス",
								Value: ".env",
							},
							&cli.BoolFlag{
								Name:  "interactive",
								Usage: "インタラクティブモードで入力",
							},
							&cli.StringFlag{
								Name:  "id",
								Usage: "プロダクトID (3〜10文字、重複不可)",
							},
							&cli.StringFlag{
								Name:  "name",
								Usage: "名前 (5〜100文字)",
							},
							&cli.StringFlag{
								Name:  "description",
								Usage: "説明 (10〜200文字)",
							},
							&cli.StringFlag{
								Name:  "logo",
								Usage: "ロゴURL",
							},
							&cli.StringFlag{
								Name:  "date-release",
								Usage: "リリース日 (YYYY-MM-DD、本日以降)",
							},
							&cli.StringFlag{
								Name:  "date-revision",
								Usage: "改訂日 (省略時はリリース日+1年)",
							},
						},
						Action: commands.ProductCreateAction,
					},
					{
						Name:  "update",
						Usage: "プロダクトを更新",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "env",
								Usage: "環境変数ファイルパス",
								Value: ".env",
							},
							&cli.StringFlag{
								Name:     "id",
								Usage:    "プロダクトID（変更不可）",
								Required: true,
							},
							&cli.BoolFlag{
								Name:  "interactive",
								Usage: "インタラクティブモードで入力",
							},
							&cli.StringFlag{
								Name:  "name",
								Usage: "名前 (5〜100文字)",
							},
							&cli.StringFlag{
								Name:  "description",
								Usage: "説明 (10〜200文字)",
							},
							&cli.StringFlag{
								Name:  "logo",
								Usage: "ロゴURL",
							},
							&cli.StringFlag{
								Name:  "date-release",
								Usage: "リリース日 (YYYY-MM-DD)",
							},
							&cli.StringFlag{
								Name:  "date-revision",
								Usage: "改訂日 (省略時はリリース日+1年)",
							},
						},
						Action: commands.ProductUpdateAction,
					},
					{
						Name:  "delete",
						Usage: "プロダクトを削除",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "env",
								Usage: "環境変数ファイルパス",
								Value: ".env",
							},
							&cli.StringFlag{
								Name:     "id",
								Usage:    "プロダクトID",
								Required: true,
							},
							&cli.BoolFlag{
								Name:  "yes",
								Usage: "確認プロンプトを省略",
							},
						},
						Action: commands.ProductDeleteAction,
					},
					{
						Name:  "export",
						Usage: "カタログをExcelファイルへ出力",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "env",
								Usage: "環境変数ファイルパス",
								Value: ".env",
							},
							&cli.StringFlag{
								Name:  "output",
								Usage: "出力ファイルパス",
								Value: "products.xlsx",
							},
							&cli.StringFlag{
								Name:  "search",
								Usage: "検索語で絞り込んでから出力",
							},
						},
						Action: commands.ProductExportAction,
					},
				},
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
