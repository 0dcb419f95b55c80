package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookshelf-backend/internal/domains/category/model"
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

const categoryColumns = `id, name, description`

func buildListConditions(filter model.CategoryFilter) *utils.Conditions {
	conds := &utils.Conditions{}
	if filter.Search != "" {
		conds.Add(`name ILIKE ?`, utils.Contains(filter.Search))
	}
	if filter.Name != "" {
		conds.Add(`name = ?`, filter.Name)
	}
	if filter.NameContains != "" {
		conds.Add(`name ILIKE ?`, utils.Contains(filter.NameContains))
	}
	if filter.BookID != nil {
		conds.Add(`EXISTS (SELECT 1 FROM book_categories bc
			WHERE bc.category_id = categories.id AND bc.book_id = ?)`, *filter.BookID)
	}
	return conds
}

func (r *postgresRepository) List(ctx context.Context, filter model.CategoryFilter) ([]model.Category, int64, error) {
	conds := buildListConditions(filter)

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM categories `+conds.Where(), conds.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count categories: %w", err)
	}

	query := `SELECT ` + categoryColumns + ` FROM categories ` + conds.Where() + ` ORDER BY name, id`
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %s OFFSET %s", conds.Arg(filter.Limit), conds.Arg(filter.Offset))
	}

	rows, err := r.pool.Query(ctx, query, conds.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list categories: %w", err)
	}
	categories, err := pgx.CollectRows(rows, pgx.RowToStructByPos[model.Category])
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan categories: %w", err)
	}
	return categories, total, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*model.Category, error) {
	var c model.Category
	err := r.pool.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(model.ResourceName, id)
		}
		return nil, fmt.Errorf("failed to get category by id: %w", err)
	}
	return &c, nil
}

func (r *postgresRepository) NameTaken(ctx context.Context, name string, excludeID int64) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM categories WHERE name = $1 AND id <> $2)`, name, excludeID,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("failed to check category name: %w", err)
	}
	return taken, nil
}

func (r *postgresRepository) Create(ctx context.Context, c *model.Category) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO categories (name, description) VALUES ($1, $2) RETURNING id`,
		c.Name, c.Description,
	).Scan(&c.ID)
	if err != nil {
		return translateWriteError(err, "create")
	}
	return nil
}

func (r *postgresRepository) Update(ctx context.Context, c *model.Category) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE categories SET name = $1, description = $2 WHERE id = $3`,
		c.Name, c.Description, c.ID,
	)
	if err != nil {
		return translateWriteError(err, "update")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(model.ResourceName, c.ID)
	}
	return nil
}

// Delete removes the category; book memberships go with it through the
// book_categories cascade.
func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(model.ResourceName, id)
	}
	return nil
}

func translateWriteError(err error, op string) error {
	if constraint, ok := database.UniqueViolation(err); ok && constraint == model.ConstraintName {
		return apperr.Conflict("name", model.MsgDuplicateName)
	}
	return fmt.Errorf("failed to %s category: %w", op, err)
}
