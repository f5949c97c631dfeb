package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"booklog/internal/books"
	"booklog/internal/core"
	"booklog/internal/log"

	_ "modernc.org/sqlite"
)

// SQLiteRepository mirrors the reading log in a local database.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	logger  *log.Logger
}

var (
	_ books.Source = (*SQLiteRepository)(nil)
	_ books.Writer = (*SQLiteRepository)(nil)
)

func NewSQLiteRepository(dbPath string, logger *log.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = log.Discard()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
		logger:  logger.WithComponent(log.ComponentStorage),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Name() string { return "sqlite" }

// LoadBooks returns the stored records in import order.
func (r *SQLiteRepository) LoadBooks(ctx context.Context) ([]core.RawBook, error) {
	rows, err := r.queries.ListBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	records := make([]core.RawBook, 0, len(rows))
	for _, row := range rows {
		records = append(records, core.RawBook{
			ID:           row.ID,
			Title:        row.Title,
			Writer:       row.Writer,
			Date:         row.ReadDate,
			PartOfSeries: row.PartOfSeries,
			SeriesNumber: core.NumericString(row.SeriesNumber),
			PrintLength:  core.NumericString(row.PrintLength),
		})
	}
	return records, nil
}

// UpsertBooks replaces the stored log with records in one transaction.
// A record whose ID repeats takes the later record's position and fields.
func (r *SQLiteRepository) UpsertBooks(ctx context.Context, records []core.RawBook) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	if err := q.DeleteAllBooks(ctx); err != nil {
		return 0, fmt.Errorf("clear books: %w", err)
	}
	for i, rec := range records {
		err := q.UpsertBook(ctx, BookRow{
			ID:           rec.ID,
			Position:     int64(i),
			Title:        rec.Title,
			Writer:       rec.Writer,
			ReadDate:     rec.Date,
			PartOfSeries: rec.PartOfSeries,
			SeriesNumber: string(rec.SeriesNumber),
			PrintLength:  string(rec.PrintLength),
		})
		if err != nil {
			return 0, fmt.Errorf("upsert book %s: %w", rec.ID, err)
		}
	}

	count, err := q.CountBooks(ctx)
	if err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	r.logger.InfoContext(ctx, "Books saved to SQLite",
		log.FieldOperation, log.OpImport,
		"records", len(records),
		log.FieldBooks, count)
	return int(count), nil
}
