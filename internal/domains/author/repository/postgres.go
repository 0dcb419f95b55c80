package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookshelf-backend/internal/domains/author/model"
	"bookshelf-backend/internal/shared/apperr"
	"bookshelf-backend/internal/shared/utils"
	"bookshelf-backend/pkg/database"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const authorColumns = `id, first_name, last_name`

// buildListConditions translates the filter into a WHERE clause.
func buildListConditions(filter model.AuthorFilter) *utils.Conditions {
	conds := &utils.Conditions{}
	if filter.Search != "" {
		pattern := utils.Contains(filter.Search)
		conds.Add(`(first_name ILIKE ? OR last_name ILIKE ?)`, pattern, pattern)
	}
	if filter.FirstName != "" {
		conds.Add(`first_name = ?`, filter.FirstName)
	}
	if filter.LastName != "" {
		conds.Add(`last_name = ?`, filter.LastName)
	}
	return conds
}

func (r *postgresRepository) List(ctx context.Context, filter model.AuthorFilter) ([]model.Author, int64, error) {
	conds := buildListConditions(filter)

	var total int64
	countQuery := `SELECT COUNT(*) FROM authors ` + conds.Where()
	if err := r.pool.QueryRow(ctx, countQuery, conds.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count authors: %w", err)
	}

	query := `SELECT ` + authorColumns + ` FROM authors ` + conds.Where() +
		` ORDER BY last_name, first_name, id`
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %s OFFSET %s", conds.Arg(filter.Limit), conds.Arg(filter.Offset))
	}

	rows, err := r.pool.Query(ctx, query, conds.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list authors: %w", err)
	}
	authors, err := pgx.CollectRows(rows, scanAuthor)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan authors: %w", err)
	}
	return authors, total, nil
}

func scanAuthor(row pgx.CollectableRow) (model.Author, error) {
	var a model.Author
	err := row.Scan(&a.ID, &a.FirstName, &a.LastName)
	return a, err
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*model.Author, error) {
	var a model.Author
	err := r.pool.QueryRow(ctx, `SELECT `+authorColumns+` FROM authors WHERE id = $1`, id).
		Scan(&a.ID, &a.FirstName, &a.LastName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(model.ResourceName, id)
		}
		return nil, fmt.Errorf("failed to get author by id: %w", err)
	}
	return &a, nil
}

func (r *postgresRepository) FullNameTaken(ctx context.Context, firstName, lastName string, excludeID int64) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM authors WHERE first_name = $1 AND last_name = $2 AND id <> $3)`,
		firstName, lastName, excludeID,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("failed to check author name: %w", err)
	}
	return taken, nil
}

func (r *postgresRepository) Create(ctx context.Context, a *model.Author) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO authors (first_name, last_name) VALUES ($1, $2) RETURNING id`,
		a.FirstName, a.LastName,
	).Scan(&a.ID)
	if err != nil {
		return translateWriteError(err, "create")
	}
	return nil
}

func (r *postgresRepository) Update(ctx context.Context, a *model.Author) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE authors SET first_name = $1, last_name = $2 WHERE id = $3`,
		a.FirstName, a.LastName, a.ID,
	)
	if err != nil {
		return translateWriteError(err, "update")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(model.ResourceName, a.ID)
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) ([]string, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) ([]string, error) {
		rows, err := tx.Query(ctx,
			`SELECT cover_image FROM books WHERE author_id = $1 AND cover_image IS NOT NULL`, id)
		if err != nil {
			return nil, fmt.Errorf("failed to list author covers: %w", err)
		}
		covers, err := pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return nil, fmt.Errorf("failed to scan author covers: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM authors WHERE id = $1`, id)
		if err != nil {
			return nil, fmt.Errorf("failed to delete author: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil, apperr.NotFound(model.ResourceName, id)
		}
		return covers, nil
	})
}

// translateWriteError maps the full-name constraint to the same conflict
// the service pre-check reports.
func translateWriteError(err error, op string) error {
	if constraint, ok := database.UniqueViolation(err); ok && constraint == model.ConstraintFullName {
		return apperr.Conflict(apperr.NonFieldErrors, model.MsgDuplicateAuthor)
	}
	return fmt.Errorf("failed to %s author: %w", op, err)
}
