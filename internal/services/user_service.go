package services

import (
	"context"
	"errors"
	"log"

	"orderflow-backend/internal/auth"
	"orderflow-backend/internal/models"
	"orderflow-backend/internal/repositories"
)

type UserService struct {
	Repo       *repositories.UserRepository
	LoginLogs  *repositories.LoginLogRepository
	JWTManager *auth.JWTManager
}

func NewUserService(repo *repositories.UserRepository, loginLogs *repositories.LoginLogRepository, jwtManager *auth.JWTManager) *UserService {
	return &UserService{
		Repo:       repo,
		LoginLogs:  loginLogs,
		JWTManager: jwtManager,
	}
}

func (s *UserService) CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return nil, errors.New("name, email, and password are required")
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Role:         req.Role,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id int) (*models.User, error) {
	return s.Repo.Get(ctx, id)
}

// ListUsers returns all users
func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.Repo.List(ctx)
}

// UpdateUser updates an existing user
func (s *UserService) UpdateUser(ctx context.Context, id int, req *models.UpdateUserRequest) (*models.User, error) {
	user, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Role != "" {
		user.Role = req.Role
	}

	// If password is provided, hash it
	user.PasswordHash = ""
	if req.Password != "" {
		hashedPassword, err := auth.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hashedPassword
	}

	if err := s.Repo.Update(ctx, user); err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		if err := s.Repo.ToggleActiveStatus(ctx, id, *req.IsActive); err != nil {
			return nil, err
		}
		user.IsActive = *req.IsActive
	}
	return s.Repo.Get(ctx, id)
}

// DeleteUser deletes a user
func (s *UserService) DeleteUser(ctx context.Context, id int) error {
	return s.Repo.Delete(ctx, id)
}

// Signup creates a new user with hashed password
func (s *UserService) Signup(ctx context.Context, req *models.SignupRequest) (*models.AuthResponse, error) {
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return nil, errors.New("name, email, and password are required")
	}

	// Check if user already exists
	existingUser, _ := s.Repo.GetByEmail(ctx, req.Email)
	if existingUser != nil {
		return nil, errors.New("user with this email already exists")
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashedPassword,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Token: token,
		User:  user,
	}, nil
}

// Login authenticates a user and returns a JWT token. Every attempt is
// recorded, successful or not.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest, ipAddress, userAgent string) (*models.AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, errors.New("email and password are required")
	}

	user, err := s.Repo.GetByEmail(ctx, req.Email)
	if err != nil {
		s.recordLogin(ctx, nil, req.Email, false, ipAddress, userAgent)
		return nil, errors.New("invalid email or password")
	}

	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		s.recordLogin(ctx, &user.ID, req.Email, false, ipAddress, userAgent)
		return nil, errors.New("invalid email or password")
	}

	if !user.IsActive {
		s.recordLogin(ctx, &user.ID, req.Email, false, ipAddress, userAgent)
		return nil, errors.New("account is disabled")
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	s.recordLogin(ctx, &user.ID, req.Email, true, ipAddress, userAgent)

	return &models.AuthResponse{
		Token: token,
		User:  user,
	}, nil
}

func (s *UserService) recordLogin(ctx context.Context, userID *int, email string, success bool, ipAddress, userAgent string) {
	l := &models.LoginLog{
		UserID:    userID,
		Email:     email,
		Success:   success,
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
	if err := s.LoginLogs.Create(ctx, l); err != nil {
		log.Printf("[Auth] Failed to record login attempt for %s: %v", email, err)
	}
}

// LoginHistory returns recent login attempts, newest first.
func (s *UserService) LoginHistory(ctx context.Context, limit int) ([]*models.LoginLog, error) {
	return s.LoginLogs.List(ctx, limit)
}
