package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cmms-backend/internal/dto"
	"cmms-backend/internal/entities"
	"cmms-backend/internal/repositories"
	"cmms-backend/internal/workflow"
	apperrors "cmms-backend/pkg/errors"
	"cmms-backend/pkg/types"
	"cmms-backend/pkg/utils"
)

type UserServiceInterface interface {
	GetUsers(ctx context.Context, filter types.Filter) ([]dto.UserDTO, uint64, error)
	GetTechnicians(ctx context.Context) ([]dto.UserDTO, error)
	FindUser(ctx context.Context, id string) (*dto.UserDTO, error)
	CreateUser(ctx context.Context, payload dto.CreateUserDTO) (*dto.UserDTO, error)
	UpdateUser(ctx context.Context, id string, payload dto.UpdateUserDTO) (*dto.UserDTO, error)
	DeleteUser(ctx context.Context, id string) error
}

type UserService struct {
	userRepo repositories.UserRepositoryInterface
	logger   *zap.Logger
}

func NewUserService(userRepo repositories.UserRepositoryInterface, logger *zap.Logger) UserServiceInterface {
	return &UserService{userRepo: userRepo, logger: logger}
}

func (s *UserService) GetUsers(ctx context.Context, filter types.Filter) ([]dto.UserDTO, uint64, error) {
	users, total, err := s.userRepo.GetUsers(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]dto.UserDTO, 0, len(users))
	for i := range users {
		dtos = append(dtos, toUserDTO(&users[i]))
	}
	return dtos, total, nil
}

// GetTechnicians — список для выпадашки «назначить на».
func (s *UserService) GetTechnicians(ctx context.Context) ([]dto.UserDTO, error) {
	users, err := s.userRepo.GetUsersByRole(ctx, string(workflow.RoleTechnician))
	if err != nil {
		return nil, err
	}

	dtos := make([]dto.UserDTO, 0, len(users))
	for i := range users {
		dtos = append(dtos, toUserDTO(&users[i]))
	}
	return dtos, nil
}

func (s *UserService) FindUser(ctx context.Context, id string) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindUser(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toUserDTO(user)
	return &out, nil
}

func (s *UserService) CreateUser(ctx context.Context, payload dto.CreateUserDTO) (*dto.UserDTO, error) {
	role, _, err := actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if role != workflow.RoleAdmin {
		return nil, apperrors.ErrForbidden
	}

	if existing, _ := s.userRepo.FindUserByEmail(ctx, payload.Email); existing != nil {
		return nil, apperrors.NewHttpError(409, "пользователь с таким email уже существует", nil, nil)
	}

	hash, err := utils.HashPassword(payload.Password)
	if err != nil {
		return nil, err
	}

	user := entities.User{
		ID:           uuid.New().String(),
		Email:        payload.Email,
		PasswordHash: hash,
		Name:         payload.Name,
		Phone:        payload.Phone,
		EmployeeID:   payload.EmployeeID,
		JobTitle:     payload.JobTitle,
		Role:         payload.Role,
		UserRole:     payload.UserRole,
		Status:       "Active",
	}

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("пользователь создан",
		zap.String("id", user.ID),
		zap.String("user_role", user.UserRole),
	)

	out := toUserDTO(&user)
	return &out, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id string, payload dto.UpdateUserDTO) (*dto.UserDTO, error) {
	role, _, err := actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	// Системную роль и статус меняет только администратор.
	if (payload.UserRole.Valid || payload.Status.Valid) && role != workflow.RoleAdmin {
		return nil, apperrors.ErrForbidden
	}

	user, err := s.userRepo.FindUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload.Name.Valid {
		user.Name = payload.Name.String
	}
	if payload.Phone.Valid {
		user.Phone = &payload.Phone.String
	}
	if payload.AvatarURL.Valid {
		user.AvatarURL = &payload.AvatarURL.String
	}
	if payload.EmployeeID.Valid {
		user.EmployeeID = &payload.EmployeeID.String
	}
	if payload.JobTitle.Valid {
		user.JobTitle = &payload.JobTitle.String
	}
	if payload.Role.Valid {
		user.Role = &payload.Role.String
	}
	if payload.UserRole.Valid {
		if workflow.ParseRole(payload.UserRole.String) == "" {
			return nil, apperrors.NewInvalidInputError("неизвестная роль: %s", payload.UserRole.String)
		}
		user.UserRole = payload.UserRole.String
	}
	if payload.Status.Valid {
		user.Status = payload.Status.String
	}

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return nil, err
	}

	out := toUserDTO(user)
	return &out, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	role, _, err := actorFromCtx(ctx)
	if err != nil {
		return err
	}
	if role != workflow.RoleAdmin {
		return apperrors.ErrForbidden
	}
	return s.userRepo.DeleteUser(ctx, id)
}

func toUserDTO(u *entities.User) dto.UserDTO {
	out := dto.UserDTO{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Phone:      u.Phone,
		AvatarURL:  u.AvatarURL,
		EmployeeID: u.EmployeeID,
		JobTitle:   u.JobTitle,
		Role:       u.Role,
		UserRole:   u.UserRole,
		Status:     u.Status,
		CreatedAt:  u.CreatedAt.Format(timeFormat),
	}
	if u.LastLoginAt != nil {
		out.LastLoginAt = u.LastLoginAt.Format(timeFormat)
	}
	return out
}
