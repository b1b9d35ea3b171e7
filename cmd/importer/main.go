package main

import (
	"context"
	"fmt"
	"os"

	"address-reconciler/internal/config"
	"address-reconciler/internal/position"
	"address-reconciler/internal/repository"
	"address-reconciler/internal/service"
	"address-reconciler/internal/spreadsheet"
	"address-reconciler/internal/store"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var configPath string

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd := &cobra.Command{
		Use:   "importer",
		Short: "Import address spreadsheets into the persisted record store",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "configs", "directory containing app.env")

	rootCmd.AddCommand(createImportCmd())
	rootCmd.AddCommand(createExportCmd())
	rootCmd.AddCommand(createVerifyCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func connect(ctx context.Context) (*repository.Repository, func(), error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	zerolog.SetGlobalLevel(level)

	conn, err := pgxpool.New(ctx, cfg.DBSource)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	repo := repository.NewRepository(conn)
	if err := repo.Migrate(ctx); err != nil {
		conn.Close()
		return nil, nil, err
	}
	return repo, conn.Close, nil
}

// createImportCmd creates the import subcommand
func createImportCmd() *cobra.Command {
	var (
		file    string
		sheet   string
		replace bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Merge an xlsx or csv file into the stored records",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			rows, err := spreadsheet.ReadFile(file)
			if err != nil {
				return err
			}
			log.Info().Str("file", file).Int("rows", len(rows)).Msg("parsed spreadsheet")

			repo, closeDB, err := connect(ctx)
			if err != nil {
				return err
			}
			defer closeDB()

			records := store.New()
			if !replace {
				existing, err := repo.LoadRecords(ctx)
				if err != nil {
					return err
				}
				records.Load(existing)
			}

			svc := service.NewReconcileService(records, position.New(), nil, service.Options{})
			delta := svc.Import(rows, sheet)

			if replace {
				err = repo.ReplaceRecords(ctx, svc.Snapshot())
			} else {
				err = repo.SaveRecords(ctx, delta)
			}
			if err != nil {
				return err
			}

			log.Info().Int("changed", len(delta)).Int("total", records.Len()).Bool("replace", replace).Msg("import finished")
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "path to the xlsx or csv file to import")
	cmd.Flags().StringVar(&sheet, "sheet", "", "sheet name stored on rows without one")
	cmd.Flags().BoolVar(&replace, "replace", false, "replace the stored records instead of merging")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// createExportCmd creates the export subcommand
func createExportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the stored records to an xlsx file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			repo, closeDB, err := connect(ctx)
			if err != nil {
				return err
			}
			defer closeDB()

			records, err := repo.LoadRecords(ctx)
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			defer f.Close()

			if err := spreadsheet.WriteXLSX(f, records); err != nil {
				return err
			}
			log.Info().Str("file", out).Int("records", len(records)).Msg("export finished")
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "records.xlsx", "output file")
	return cmd
}

// createVerifyCmd creates a command reporting what is stored
func createVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Report stored record and position counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			repo, closeDB, err := connect(ctx)
			if err != nil {
				return err
			}
			defer closeDB()

			records, err := repo.LoadRecords(ctx)
			if err != nil {
				return err
			}
			positions, err := repo.LoadPositions(ctx)
			if err != nil {
				return err
			}

			geocoded := 0
			for _, r := range records {
				if r.Geocoded() {
					geocoded++
				}
			}
			fmt.Printf("Records: %d (geocoded: %d)\n", len(records), geocoded)
			fmt.Printf("Positions: %d\n", len(positions))
			return nil
		},
	}
}
