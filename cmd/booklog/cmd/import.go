package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"booklog/internal/amqp"
	"booklog/internal/books/jsonfile"
	"booklog/internal/cli"
	"booklog/internal/log"
)

var importFrom string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a JSON reading log into SQLite",
	Long: `Import a JSON reading log into the SQLite mirror (SQLITE_DB_PATH),
replacing its contents and keeping the file order. When AMQP_URL is set a
reload message is published so running servers pick up the change.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		l := logger.WithComponent(log.ComponentImport)

		records, err := jsonfile.New(importFrom).LoadBooks(ctx)
		if err != nil {
			return err
		}

		repo, err := cli.InitSQLite(cfg.SQLiteDBPath, logger)
		if err != nil {
			return err
		}
		defer repo.Close()

		n, err := repo.UpsertBooks(ctx, records)
		if err != nil {
			return fmt.Errorf("import into %s: %w", cfg.SQLiteDBPath, err)
		}
		l.Info("Import complete", "from", importFrom, log.FieldBooks, n)
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d books into %s\n", n, cfg.SQLiteDBPath)

		if !cfg.AMQPEnabled() {
			return nil
		}
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, logger)
		if err != nil {
			l.Warn("AMQP unavailable, reload message not sent", log.FieldError, err)
			return nil
		}
		defer client.Close()
		if err := client.PublishReload(ctx, "import", n); err != nil {
			l.Warn("Failed to publish reload message", log.FieldError, err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringVar(&importFrom, "from", "data/books.json", "JSON file to import")
}
