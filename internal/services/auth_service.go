package services

import (
	"time"

	"github.com/jafrydeep2/offmarket-sub000/internal/auth"
	"github.com/jafrydeep2/offmarket-sub000/internal/models"
	"github.com/jafrydeep2/offmarket-sub000/internal/repositories"
	"github.com/jafrydeep2/offmarket-sub000/internal/services/dto"
	"github.com/jafrydeep2/offmarket-sub000/pkg/apperrors"
)

type AuthService interface {
	Register(req dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(req dto.LoginRequest) (*dto.AuthResponse, error)
	Profile(userID string) (*dto.UserResponse, error)
	UpdatePreferences(userID string, req dto.UpdatePreferencesRequest) (*dto.UserResponse, error)
}

type AuthServiceImpl struct {
	userRepo repositories.UserRepository
}

func NewAuthService(userRepo repositories.UserRepository) AuthService {
	return &AuthServiceImpl{userRepo: userRepo}
}

func (s *AuthServiceImpl) Register(req dto.RegisterRequest) (*dto.AuthResponse, error) {
	if _, err := s.userRepo.FindByEmail(req.Email); err == nil {
		return nil, apperrors.ErrEmailAlreadyExists
	} else if err != repositories.ErrUserNotFound {
		return nil, apperrors.PersistenceFailure(err)
	}

	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         models.UserRoleUser,
		Status:       models.UserStatusActive,
		IsActive:     true,
		Preferences:  models.DefaultNotificationPreferences(),
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, apperrors.PersistenceFailure(err)
	}

	return s.issueToken(user)
}

func (s *AuthServiceImpl) Login(req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err == repositories.ErrUserNotFound {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, apperrors.PersistenceFailure(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive || user.Status == models.UserStatusSuspended || user.Status == models.UserStatusBanned {
		return nil, apperrors.ErrUserSuspended
	}

	return s.issueToken(user)
}

func (s *AuthServiceImpl) Profile(userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err == repositories.ErrUserNotFound {
		return nil, apperrors.ErrNotFound(err)
	}
	if err != nil {
		return nil, apperrors.PersistenceFailure(err)
	}

	resp := dto.ToUserResponse(user)
	state, _ := user.SubscriptionStateAt(time.Now().UTC())
	resp.State = string(state)
	return &resp, nil
}

func (s *AuthServiceImpl) UpdatePreferences(userID string, req dto.UpdatePreferencesRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err == repositories.ErrUserNotFound {
		return nil, apperrors.ErrNotFound(err)
	}
	if err != nil {
		return nil, apperrors.PersistenceFailure(err)
	}

	prefs := user.Preferences
	if req.Email != nil {
		prefs.Email = *req.Email
	}
	if req.Push != nil {
		prefs.Push = *req.Push
	}
	if req.SMS != nil {
		prefs.SMS = *req.SMS
	}
	if req.PropertyAlerts != nil {
		prefs.PropertyAlerts = *req.PropertyAlerts
	}
	if req.PriceUpdates != nil {
		prefs.PriceUpdates = *req.PriceUpdates
	}
	if req.NewProperties != nil {
		prefs.NewProperties = *req.NewProperties
	}
	if req.WeeklyDigest != nil {
		prefs.WeeklyDigest = *req.WeeklyDigest
	}

	if err := s.userRepo.UpdatePreferences(userID, prefs); err != nil {
		return nil, apperrors.PersistenceFailure(err)
	}

	user.Preferences = prefs
	resp := dto.ToUserResponse(user)
	return &resp, nil
}

func (s *AuthServiceImpl) issueToken(user *models.User) (*dto.AuthResponse, error) {
	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.AuthResponse{
		Token: token,
		User:  dto.ToUserResponse(user),
	}, nil
}
