package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"careers-portal-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const careerUserColumns = `id, user_id, name, email, mobile, resume_url, is_active, created_at, updated_at`

type careerUserRepository struct {
	db *pgxpool.Pool
}

func NewCareerUserRepository(db *pgxpool.Pool) domain.CareerUserRepository {
	return &careerUserRepository{db: db}
}

func scanCareerUser(row pgx.Row) (*domain.CareerUser, error) {
	var u domain.CareerUser
	err := row.Scan(
		&u.ID, &u.UserID, &u.Name, &u.Email, &u.Mobile,
		&u.ResumeURL, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// GetByEmailAndMobile matches on both fields together. A record sharing
// only one of the two is not considered a match here; the unique indexes
// catch that case at insert time instead.
func (r *careerUserRepository) GetByEmailAndMobile(ctx context.Context, email, mobile string) (*domain.CareerUser, error) {
	query := `SELECT ` + careerUserColumns + ` FROM career_users WHERE email = $1 AND mobile = $2`
	return scanCareerUser(r.db.QueryRow(ctx, query, email, mobile))
}

func (r *careerUserRepository) GetByID(ctx context.Context, id int64) (*domain.CareerUser, error) {
	query := `SELECT ` + careerUserColumns + ` FROM career_users WHERE id = $1`
	return scanCareerUser(r.db.QueryRow(ctx, query, id))
}

// GetLatest returns the most recently inserted record by primary key.
func (r *careerUserRepository) GetLatest(ctx context.Context) (*domain.CareerUser, error) {
	query := `SELECT ` + careerUserColumns + ` FROM career_users ORDER BY id DESC LIMIT 1`
	return scanCareerUser(r.db.QueryRow(ctx, query))
}

func (r *careerUserRepository) FetchActive(ctx context.Context, limit, offset int) ([]domain.CareerUser, int64, error) {
	query := `SELECT ` + careerUserColumns + ` FROM career_users
              WHERE is_active = TRUE ORDER BY id DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []domain.CareerUser
	for rows.Next() {
		var u domain.CareerUser
		if err := rows.Scan(
			&u.ID, &u.UserID, &u.Name, &u.Email, &u.Mobile,
			&u.ResumeURL, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	total, err := r.countActive(ctx)
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *careerUserRepository) countActive(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(id) FROM career_users WHERE is_active = TRUE`).Scan(&total)
	return total, err
}

func (r *careerUserRepository) Create(ctx context.Context, user *domain.CareerUser) error {
	query := `INSERT INTO career_users (user_id, name, email, mobile, resume_url, is_active, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, NOW())
              RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query,
		user.UserID, user.Name, user.Email, user.Mobile, user.ResumeURL, user.IsActive,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %v", domain.ErrDuplicate, err)
		}
		return err
	}
	return nil
}

// Update applies the staged field changes in a single statement so the
// resume URL and field edits commit together or not at all.
func (r *careerUserRepository) Update(ctx context.Context, id int64, changes domain.CareerUserChanges) error {
	var (
		sets []string
		args []interface{}
	)

	add := func(column string, value *string) {
		if value != nil {
			args = append(args, *value)
			sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
		}
	}
	add("name", changes.Name)
	add("email", changes.Email)
	add("mobile", changes.Mobile)
	add("resume_url", changes.ResumeURL)

	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = NOW()")

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE career_users SET %s WHERE id = $%d`,
		strings.Join(sets, ", "), len(args))

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %v", domain.ErrDuplicate, err)
		}
		return err
	}
	return nil
}

func (r *careerUserRepository) SetActive(ctx context.Context, id int64, active bool) error {
	query := `UPDATE career_users SET is_active = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, active, id)
	return err
}

// isUniqueViolation reports whether err is a postgres unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
