package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"weblibrary/internal/domains/book/model"
	"weblibrary/internal/infrastructure/database"
	pkgdb "weblibrary/pkg/database"
)

const booksTable = "books"

// sqlRepository - squirrel over database/sql, shared by the postgres and sqlite backends
type sqlRepository struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

// NewSQLRepository - Constructor
func NewSQLRepository(db *sql.DB, dialect database.Dialect) RepositoryInterface {
	return &sqlRepository{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(dialect.Placeholder()),
	}
}

// ============================================
// LIST / FILTER OPTIONS
// ============================================

func (r *sqlRepository) List(ctx context.Context, filter model.Filter) ([]model.Book, error) {
	q := r.sb.Select(model.Columns...).From(booksTable).OrderBy("id")

	if conds := predicates(filter); len(conds) > 0 {
		q = q.Where(conds)
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error().Err(err).Msg("[Repository] list books failed")
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	books := make([]model.Book, 0)
	for rows.Next() {
		var b model.Book
		if err := rows.Scan(b.ScanTargets()...); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return books, nil
}

// predicates turns the filter into an AND chain.
// Order: author, year, genre, language, pagesFrom, pagesTo, isAvailable.
func predicates(f model.Filter) sq.And {
	conds := sq.And{}
	if f.Author != nil {
		conds = append(conds, sq.Eq{"author": *f.Author})
	}
	if f.Year != nil {
		conds = append(conds, sq.Eq{"year": *f.Year})
	}
	if f.Genre != nil {
		conds = append(conds, sq.Eq{"genre": *f.Genre})
	}
	if f.Language != nil {
		conds = append(conds, sq.Eq{"language": *f.Language})
	}
	if f.PagesFrom != nil {
		conds = append(conds, sq.GtOrEq{"pages": *f.PagesFrom})
	}
	if f.PagesTo != nil {
		conds = append(conds, sq.LtOrEq{"pages": *f.PagesTo})
	}
	if f.IsAvailable != nil {
		conds = append(conds, sq.Eq{"is_available": *f.IsAvailable})
	}
	return conds
}

func (r *sqlRepository) FilterOptions(ctx context.Context) (*model.FilterOptions, error) {
	opts := &model.FilterOptions{}
	var err error

	if opts.Authors, err = r.distinctStrings(ctx, "author", "ASC", false); err != nil {
		return nil, err
	}
	if opts.Genres, err = r.distinctStrings(ctx, "genre", "ASC", true); err != nil {
		return nil, err
	}
	if opts.Languages, err = r.distinctStrings(ctx, "language", "ASC", true); err != nil {
		return nil, err
	}

	query, args, err := r.sb.Select("year").Distinct().From(booksTable).OrderBy("year DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build years query: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list years: %w", err)
	}
	defer rows.Close()

	opts.Years = make([]int, 0)
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, fmt.Errorf("scan year: %w", err)
		}
		opts.Years = append(opts.Years, y)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return opts, nil
}

func (r *sqlRepository) distinctStrings(ctx context.Context, column, dir string, skipEmpty bool) ([]string, error) {
	q := r.sb.Select(column).Distinct().From(booksTable).OrderBy(column + " " + dir)
	if skipEmpty {
		q = q.Where(sq.NotEq{column: ""})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", column, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s values: %w", column, err)
	}
	defer rows.Close()

	values := make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan %s: %w", column, err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// ============================================
// SINGLE RECORD
// ============================================

func (r *sqlRepository) GetByID(ctx context.Context, id int64) (*model.Book, error) {
	query, args, err := r.sb.Select(model.Columns...).From(booksTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get query: %w", err)
	}

	var b model.Book
	err = r.db.QueryRowContext(ctx, query, args...).Scan(b.ScanTargets()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get book %d: %w", id, err)
	}
	return &b, nil
}

func (r *sqlRepository) Create(ctx context.Context, book model.Book) (*model.Book, error) {
	query, args, err := r.sb.Insert(booksTable).
		Columns(model.Columns[1:]...).
		Values(book.Title, book.Author, book.Year, book.Genre, book.Language,
			book.Pages, book.Description, book.Image, book.IsAvailable).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}

	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&book.ID); err != nil {
		log.Error().Err(err).Str("title", book.Title).Msg("[Repository] insert book failed")
		return nil, fmt.Errorf("insert book: %w", err)
	}
	return &book, nil
}

// Update writes inside a transaction. When no row changes it re-checks
// existence in the same transaction: a missing row is ErrBookNotFound, a row
// that exists but took no write is ErrUpdateConflict. Under READ COMMITTED a
// concurrent delete surfaces as not found; the conflict path is reached when
// the write is skipped with the row still present (for example by a trigger).
func (r *sqlRepository) Update(ctx context.Context, book model.Book) error {
	query, args, err := r.sb.Update(booksTable).SetMap(map[string]interface{}{
		"title":        book.Title,
		"author":       book.Author,
		"year":         book.Year,
		"genre":        book.Genre,
		"language":     book.Language,
		"pages":        book.Pages,
		"description":  book.Description,
		"image":        book.Image,
		"is_available": book.IsAvailable,
	}).Where(sq.Eq{"id": book.ID}).ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	return pkgdb.WithTransaction(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("update book %d: %w", book.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if n > 0 {
			return nil
		}

		exists, err := r.existsTx(ctx, tx, book.ID)
		if err != nil {
			return err
		}
		if !exists {
			return model.ErrBookNotFound
		}
		return model.ErrUpdateConflict
	})
}

func (r *sqlRepository) existsTx(ctx context.Context, tx *sql.Tx, id int64) (bool, error) {
	query, args, err := r.sb.Select("1").From(booksTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists query: %w", err)
	}

	var one int
	err = tx.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check book %d: %w", id, err)
	}
	return true, nil
}

// ============================================
// BATCH DELETE
// ============================================

func (r *sqlRepository) DeleteMany(ctx context.Context, ids []int64) (int64, error) {
	ids = lo.Uniq(ids)
	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := r.sb.Delete(booksTable).Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}

	return pkgdb.WithTransactionResult(ctx, r.db, func(tx *sql.Tx) (int64, error) {
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			log.Error().Err(err).Ints64("ids", ids).Msg("[Repository] delete books failed")
			return 0, fmt.Errorf("delete books: %w", err)
		}
		return res.RowsAffected()
	})
}
