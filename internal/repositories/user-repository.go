package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"cmms-backend/internal/entities"
	bd "cmms-backend/internal/infrastructure/bd"
	apperrors "cmms-backend/pkg/errors"
	"cmms-backend/pkg/types"
)

const userTable = "users"

const userFields = `id, email, password_hash, name, phone, avatar_url, employee_id,
	job_title, role, user_role, status, last_login_at, created_at, updated_at`

var userMap = map[string]string{
	"id":        "id",
	"email":     "email",
	"name":      "name",
	"user_role": "user_role",
	"status":    "status",
}

type UserRepositoryInterface interface {
	GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error)
	FindUser(ctx context.Context, id string) (*entities.User, error)
	FindUserByEmail(ctx context.Context, email string) (*entities.User, error)
	GetUsersByRole(ctx context.Context, userRole string) ([]entities.User, error)
	CreateUser(ctx context.Context, user entities.User) error
	UpdateUser(ctx context.Context, user entities.User) error
	UpsertOAuthUser(ctx context.Context, user entities.User) (*entities.User, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	DeleteUser(ctx context.Context, id string) error
}

type UserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{storage: storage, logger: logger}
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	var phone, avatarURL, employeeID, jobTitle, role sql.NullString
	var lastLoginAt, updatedAt sql.NullTime

	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &phone, &avatarURL, &employeeID,
		&jobTitle, &role, &u.UserRole, &u.Status, &lastLoginAt, &u.CreatedAt, &updatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования user: %w", err)
	}

	if phone.Valid {
		u.Phone = &phone.String
	}
	if avatarURL.Valid {
		u.AvatarURL = &avatarURL.String
	}
	if employeeID.Valid {
		u.EmployeeID = &employeeID.String
	}
	if jobTitle.Valid {
		u.JobTitle = &jobTitle.String
	}
	if role.Valid {
		u.Role = &role.String
	}
	if lastLoginAt.Valid {
		u.LastLoginAt = &lastLoginAt.Time
	}
	if updatedAt.Valid {
		u.UpdatedAt = &updatedAt.Time
	}
	return &u, nil
}

func (r *UserRepository) GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	applySearch := func(b sq.SelectBuilder) sq.SelectBuilder {
		if filter.Search != "" {
			pat := "%" + filter.Search + "%"
			return b.Where(sq.Or{
				sq.ILike{"name": pat},
				sq.ILike{"email": pat},
				sq.ILike{"employee_id": pat},
			})
		}
		return b
	}

	countBuilder := applySearch(psql.Select("COUNT(*)").From(userTable))
	countBuilder = bd.ApplyListParams(countBuilder, types.Filter{Filter: filter.Filter}, userMap)
	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.User{}, 0, nil
	}

	listBuilder := applySearch(psql.Select(userFields).From(userTable))
	listBuilder = bd.ApplyListParams(listBuilder, filter, userMap)
	if len(filter.Sort) == 0 {
		listBuilder = listBuilder.OrderBy("name ASC")
	}

	query, args, err := listBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := make([]entities.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *u)
	}
	return users, total, rows.Err()
}

func (r *UserRepository) FindUser(ctx context.Context, id string) (*entities.User, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", userFields, userTable)
	return scanUser(r.storage.QueryRow(ctx, query, id))
}

func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE LOWER(email) = LOWER($1)", userFields, userTable)
	return scanUser(r.storage.QueryRow(ctx, query, email))
}

// GetUsersByRole — адресаты уведомлений по системной роли.
func (r *UserRepository) GetUsersByRole(ctx context.Context, userRole string) ([]entities.User, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE user_role = $1 AND status = 'Active'", userFields, userTable)
	rows, err := r.storage.Query(ctx, query, userRole)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]entities.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *UserRepository) CreateUser(ctx context.Context, user entities.User) error {
	query := fmt.Sprintf(`INSERT INTO %s
		(id, email, password_hash, name, phone, avatar_url, employee_id, job_title, role, user_role, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`, userTable)

	_, err := r.storage.Exec(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.Name, user.Phone, user.AvatarURL,
		user.EmployeeID, user.JobTitle, user.Role, user.UserRole, user.Status,
	)
	if err != nil {
		r.logger.Error("не удалось создать пользователя", zap.String("email", user.Email), zap.Error(err))
	}
	return err
}

func (r *UserRepository) UpdateUser(ctx context.Context, user entities.User) error {
	query := fmt.Sprintf(`UPDATE %s SET
		name = $2, phone = $3, avatar_url = $4, employee_id = $5, job_title = $6,
		role = $7, user_role = $8, status = $9, updated_at = NOW()
		WHERE id = $1`, userTable)

	tag, err := r.storage.Exec(ctx, query,
		user.ID, user.Name, user.Phone, user.AvatarURL, user.EmployeeID,
		user.JobTitle, user.Role, user.UserRole, user.Status,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpsertOAuthUser создаёт пользователя при первом OAuth-входе,
// при повторном — обновляет имя и аватар из профиля провайдера.
func (r *UserRepository) UpsertOAuthUser(ctx context.Context, user entities.User) (*entities.User, error) {
	query := fmt.Sprintf(`INSERT INTO %s
		(id, email, password_hash, name, avatar_url, user_role, status)
		VALUES ($1, $2, '', $3, $4, $5, 'Active')
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, avatar_url = EXCLUDED.avatar_url
		RETURNING %s`, userTable, userFields)

	return scanUser(r.storage.QueryRow(ctx, query,
		user.ID, user.Email, user.Name, user.AvatarURL, user.UserRole))
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.storage.Exec(ctx,
		fmt.Sprintf("UPDATE %s SET last_login_at = $2 WHERE id = $1", userTable), id, at)
	return err
}

func (r *UserRepository) DeleteUser(ctx context.Context, id string) error {
	tag, err := r.storage.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", userTable), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
