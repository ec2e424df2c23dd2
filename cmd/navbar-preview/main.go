package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/navbar/internal/domain"
	"github.com/MrSnakeDoc/navbar/internal/logger"
	"github.com/MrSnakeDoc/navbar/internal/sources/navfile"
	"github.com/MrSnakeDoc/navbar/internal/tui"
	"github.com/MrSnakeDoc/navbar/internal/version"
)

type previewFlags struct {
	catalog string
	layout  string
	noAnim  bool
	logFile string
	level   string
}

func main() {
	_ = godotenv.Load()

	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var f previewFlags

	root := &cobra.Command{
		Use:           "navbar-preview",
		Short:         "Preview the navbar in the terminal",
		Long:          "navbar-preview draws the navigation bar in the terminal. Move the pointer over the bar to open dropdowns; press m to toggle the mobile menu.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := tui.ParseLayout(f.layout)
			if err != nil {
				return err
			}

			log := logger.Nop()
			if f.logFile != "" {
				log = logger.NewFile(f.level, false, f.logFile)
				defer func() { _ = log.Sync() }()
			}

			cat, err := loadCatalog(f.catalog, log)
			if err != nil {
				return err
			}

			return tui.Run(tui.Options{
				Catalog: cat,
				Layout:  layout,
				Animate: !f.noAnim,
				Logger:  log,
			})
		},
	}

	root.Flags().StringVar(&f.catalog, "catalog", os.Getenv("NAVBAR_CATALOG_FILE"), "navbar YAML file (default: built-in catalog)")
	root.Flags().StringVar(&f.layout, "layout", "auto", "layout to draw (auto|desktop|mobile)")
	root.Flags().BoolVar(&f.noAnim, "no-anim", false, "disable enter/exit animations")
	root.Flags().StringVar(&f.logFile, "log-file", "", "write debug logs to this file (the terminal is busy drawing)")
	root.Flags().StringVar(&f.level, "log-level", "debug", "log level for --log-file")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	})
	return root
}

func loadCatalog(path string, log logger.Logger) (domain.Catalog, error) {
	if path == "" {
		return domain.DefaultCatalog(), nil
	}
	cat, err := navfile.NewLoader(path).LoadCatalog()
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("load catalog %s: %w", path, err)
	}
	log.Info("catalog loaded", logger.String("path", path), logger.Int("entries", cat.Len()))
	return cat, nil
}
