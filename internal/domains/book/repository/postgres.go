package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"bookshelf-backend/internal/domains/book/model"
	"bookshelf-backend/internal/shared/apperr"
	"bookshelf-backend/pkg/database"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) List(ctx context.Context, filter model.BookFilter) ([]model.Book, int64, error) {
	conds := buildConditions(filter)

	var total int64
	if err := r.pool.QueryRow(ctx, bookCount+" "+conds.Where(), conds.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count books: %w", err)
	}

	query := bookSelect + " " + conds.Where() + " " + buildOrderBy(filter.Ordering)
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %s OFFSET %s", conds.Arg(filter.Limit), conds.Arg(filter.Offset))
	}

	books, err := r.selectBooks(ctx, r.pool, query, conds.Args()...)
	if err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*model.Book, error) {
	books, err := r.selectBooks(ctx, r.pool, bookSelect+" WHERE b.id = $1", id)
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, apperr.NotFound(model.ResourceName, id)
	}
	return &books[0], nil
}

func (r *postgresRepository) selectBooks(ctx context.Context, q database.Querier, query string, args ...any) ([]model.Book, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	books, err := pgx.CollectRows(rows, scanBook)
	if err != nil {
		return nil, fmt.Errorf("failed to scan books: %w", err)
	}
	if err := loadCategories(ctx, q, books); err != nil {
		return nil, err
	}
	return books, nil
}

func scanBook(row pgx.CollectableRow) (model.Book, error) {
	var (
		b          model.Book
		hasDetails bool
		d          model.Details
	)
	err := row.Scan(
		&b.ID, &b.Title, &b.AuthorID, &b.AuthorFirstName, &b.AuthorLastName, &b.Description,
		&b.Price, &b.PublicationDate, &b.Format, &b.CoverImage,
		&hasDetails, &d.ISBN, &d.NumberOfPages, &d.Language, &d.Publisher,
	)
	if err != nil {
		return b, err
	}
	if hasDetails {
		b.Details = &d
	}
	return b, nil
}

// loadCategories fills category ids and names, ordered by name, for all
// books in one query.
func loadCategories(ctx context.Context, q database.Querier, books []model.Book) error {
	if len(books) == 0 {
		return nil
	}

	ids := make([]int64, len(books))
	index := make(map[int64]int, len(books))
	for i, b := range books {
		ids[i] = b.ID
		index[b.ID] = i
	}

	rows, err := q.Query(ctx, `
		SELECT bc.book_id, c.id, c.name
		FROM book_categories bc
		JOIN categories c ON c.id = bc.category_id
		WHERE bc.book_id = ANY($1)
		ORDER BY c.name, c.id`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load book categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			bookID, categoryID int64
			name               string
		)
		if err := rows.Scan(&bookID, &categoryID, &name); err != nil {
			return fmt.Errorf("failed to scan book category: %w", err)
		}
		b := &books[index[bookID]]
		b.CategoryIDs = append(b.CategoryIDs, categoryID)
		b.CategoryNames = append(b.CategoryNames, name)
	}
	return rows.Err()
}

func (r *postgresRepository) AuthorExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM authors WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check author: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) MissingCategoryIDs(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx, `SELECT id FROM categories WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to check categories: %w", err)
	}
	found, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("failed to scan category ids: %w", err)
	}

	known := make(map[int64]bool, len(found))
	for _, id := range found {
		known[id] = true
	}
	var missing []int64
	for _, id := range ids {
		if !known[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (r *postgresRepository) TitleTaken(ctx context.Context, title string, authorID, excludeID int64) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM books WHERE title = $1 AND author_id = $2 AND id <> $3)`,
		title, authorID, excludeID,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("failed to check book title: %w", err)
	}
	return taken, nil
}

func (r *postgresRepository) ISBNTaken(ctx context.Context, isbn string, excludeBookID int64) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM book_details WHERE isbn = $1 AND book_id <> $2)`,
		isbn, excludeBookID,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("failed to check isbn: %w", err)
	}
	return taken, nil
}

func (r *postgresRepository) Create(ctx context.Context, b *model.Book) error {
	err := database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO books (title, author_id, description, price, publication_date, book_format, cover_image)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			b.Title, b.AuthorID, b.Description, b.Price, b.PublicationDate, b.Format, b.CoverImage,
		).Scan(&b.ID)
		if err != nil {
			return err
		}
		if err := replaceCategories(ctx, tx, b.ID, b.CategoryIDs); err != nil {
			return err
		}
		return upsertDetails(ctx, tx, b.ID, b.Details)
	})
	if err != nil {
		return translateWriteError(err, "create")
	}
	return nil
}

func (r *postgresRepository) Update(ctx context.Context, b *model.Book) error {
	err := database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE books
			SET title = $1, author_id = $2, description = $3, price = $4,
			    publication_date = $5, book_format = $6, cover_image = $7
			WHERE id = $8`,
			b.Title, b.AuthorID, b.Description, b.Price, b.PublicationDate, b.Format, b.CoverImage, b.ID,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFound(model.ResourceName, b.ID)
		}
		if err := replaceCategories(ctx, tx, b.ID, b.CategoryIDs); err != nil {
			return err
		}
		return upsertDetails(ctx, tx, b.ID, b.Details)
	})
	if err != nil {
		return translateWriteError(err, "update")
	}
	return nil
}

func replaceCategories(ctx context.Context, tx pgx.Tx, bookID int64, categoryIDs []int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM book_categories WHERE book_id = $1`, bookID); err != nil {
		return err
	}
	if len(categoryIDs) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO book_categories (book_id, category_id)
		SELECT $1, unnest($2::bigint[])
		ON CONFLICT DO NOTHING`, bookID, pq.Array(categoryIDs))
	return err
}

// upsertDetails writes the details row. A nil details value leaves any
// stored row untouched.
func upsertDetails(ctx context.Context, tx pgx.Tx, bookID int64, d *model.Details) error {
	if d == nil {
		return nil
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO book_details (book_id, isbn, number_of_pages, language, publisher)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (book_id) DO UPDATE
		SET isbn = EXCLUDED.isbn,
		    number_of_pages = EXCLUDED.number_of_pages,
		    language = EXCLUDED.language,
		    publisher = EXCLUDED.publisher`,
		bookID, d.ISBN, d.NumberOfPages, d.Language, d.Publisher,
	)
	return err
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) (*string, error) {
	var cover *string
	err := r.pool.QueryRow(ctx, `DELETE FROM books WHERE id = $1 RETURNING cover_image`, id).Scan(&cover)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(model.ResourceName, id)
		}
		return nil, fmt.Errorf("failed to delete book: %w", err)
	}
	return cover, nil
}

func (r *postgresRepository) Statistics(ctx context.Context) (*model.Statistics, error) {
	var stats model.Statistics
	err := r.pool.QueryRow(ctx,
		`SELECT AVG(price), COUNT(id), MIN(price), MAX(price) FROM books`,
	).Scan(&stats.AveragePrice, &stats.TotalBooks, &stats.MinPrice, &stats.MaxPrice)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate books: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT a.first_name, a.last_name, COUNT(b.id)
		FROM authors a
		LEFT JOIN books b ON b.author_id = a.id
		GROUP BY a.id, a.first_name, a.last_name
		ORDER BY a.last_name, a.first_name, a.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to count books per author: %w", err)
	}
	stats.BooksPerAuthor, err = pgx.CollectRows(rows, pgx.RowToStructByPos[model.AuthorBookCount])
	if err != nil {
		return nil, fmt.Errorf("failed to scan books per author: %w", err)
	}
	return &stats, nil
}

// translateWriteError maps constraint violations raised under concurrent
// writes to the errors the service pre-checks report.
func translateWriteError(err error, op string) error {
	if apperr.IsNotFound(err) {
		return err
	}
	if constraint, ok := database.UniqueViolation(err); ok {
		switch constraint {
		case model.ConstraintTitleAuthor:
			return apperr.Conflict(apperr.NonFieldErrors, model.MsgDuplicateTitle)
		case model.ConstraintISBN:
			return apperr.Conflict("details.isbn", model.MsgDuplicateISBN)
		}
	}
	if constraint, ok := database.ForeignKeyViolation(err); ok {
		switch constraint {
		case model.ConstraintAuthorFK:
			return apperr.Validation("author", "Invalid pk - object does not exist.")
		case model.ConstraintCategoryFK:
			return apperr.Validation("categories", "Invalid pk - object does not exist.")
		}
	}
	return fmt.Errorf("failed to %s book: %w", op, err)
}
