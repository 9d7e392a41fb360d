package services

import (
	"context"

	"subtrack_backend/internal/auth"
	"subtrack_backend/internal/config"
	"subtrack_backend/internal/dto"
	"subtrack_backend/internal/logger"
	"subtrack_backend/internal/models"
	"subtrack_backend/internal/repositories"
	"subtrack_backend/pkg/apperrors"
)

type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Me(ctx context.Context, userID string) (*dto.UserResponse, error)
	ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error

	// SeedFirstAdmin создает организацию и первого администратора,
	// если в системе еще нет ни одного пользователя.
	SeedFirstAdmin(ctx context.Context, cfg *config.Config) error
}

type AuthServiceImpl struct {
	userRepo repositories.UserRepository
	activity ActivityService
}

func NewAuthService(userRepo repositories.UserRepository, activity ActivityService) AuthService {
	return &AuthServiceImpl{userRepo: userRepo, activity: activity}
}

// Login - аутентификация пользователя
func (s *AuthServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			// Ответ не раскрывает, существует ли email
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.StorageError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.activity.Log(ctx, user.OrganizationID, &user.ID, ActionUserLoggedIn, models.EntityTypeUser, &user.ID, nil)

	return &dto.LoginResponse{
		Token: token,
		User:  toUserResponse(user),
	}, nil
}

func (s *AuthServiceImpl) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewUnauthorizedError("User not found")
		}
		return nil, apperrors.StorageError(err)
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *AuthServiceImpl) ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.NewUnauthorizedError("User not found")
		}
		return apperrors.StorageError(err)
	}

	if !auth.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		return apperrors.ErrInvalidCredentials
	}

	if err := auth.ValidatePassword(req.NewPassword); err != nil {
		return apperrors.NewBadRequestError(err.Error())
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return apperrors.StorageError(err)
	}

	return nil
}

func (s *AuthServiceImpl) SeedFirstAdmin(ctx context.Context, cfg *config.Config) error {
	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		logger.CtxWarn(ctx, "No users exist and admin credentials are not configured, skipping seed")
		return nil
	}

	orgName := cfg.Admin.Organization
	if orgName == "" {
		orgName = "Default Organization"
	}

	org := &models.Organization{Name: orgName, IsActive: true}
	if err := s.userRepo.CreateOrganization(ctx, org); err != nil {
		return err
	}

	hash, err := auth.HashPassword(cfg.Admin.Password)
	if err != nil {
		return err
	}

	admin := &models.User{
		OrganizationID: org.ID,
		Email:          cfg.Admin.Email,
		PasswordHash:   hash,
		Role:           models.UserRoleAdmin,
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return err
	}

	logger.CtxInfo(ctx, "Seeded first admin user", "email", admin.Email, "organization", org.Name)
	return nil
}

func toUserResponse(user *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:             user.ID,
		Email:          user.Email,
		Role:           string(user.Role),
		OrganizationID: user.OrganizationID,
	}
}
