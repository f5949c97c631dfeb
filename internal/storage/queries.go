package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type BookRow struct {
	ID           string
	Position     int64
	Title        string
	Writer       string
	ReadDate     string
	PartOfSeries string
	SeriesNumber string
	PrintLength  string
}

const listBooks = `SELECT id, position, title, writer, read_date, part_of_series, series_number, print_length
FROM books
ORDER BY position ASC`

func (q *Queries) ListBooks(ctx context.Context) ([]BookRow, error) {
	rows, err := q.db.QueryContext(ctx, listBooks)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []BookRow
	for rows.Next() {
		var i BookRow
		if err := rows.Scan(
			&i.ID,
			&i.Position,
			&i.Title,
			&i.Writer,
			&i.ReadDate,
			&i.PartOfSeries,
			&i.SeriesNumber,
			&i.PrintLength,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const upsertBook = `INSERT INTO books (id, position, title, writer, read_date, part_of_series, series_number, print_length, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(id) DO UPDATE SET
    position = excluded.position,
    title = excluded.title,
    writer = excluded.writer,
    read_date = excluded.read_date,
    part_of_series = excluded.part_of_series,
    series_number = excluded.series_number,
    print_length = excluded.print_length,
    updated_at = CURRENT_TIMESTAMP`

func (q *Queries) UpsertBook(ctx context.Context, arg BookRow) error {
	_, err := q.db.ExecContext(ctx, upsertBook,
		arg.ID,
		arg.Position,
		arg.Title,
		arg.Writer,
		arg.ReadDate,
		arg.PartOfSeries,
		arg.SeriesNumber,
		arg.PrintLength,
	)
	return err
}

const deleteAllBooks = `DELETE FROM books`

func (q *Queries) DeleteAllBooks(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllBooks)
	return err
}

const countBooks = `SELECT COUNT(*) FROM books`

func (q *Queries) CountBooks(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countBooks)
	var count int64
	err := row.Scan(&count)
	return count, err
}
