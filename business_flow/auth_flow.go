package businessflow

import (
	"context"
	"fmt"

	"github.com/rentalworks/quoting/app/dto"
	"github.com/rentalworks/quoting/app/services"
	"github.com/rentalworks/quoting/repository"
	"github.com/rentalworks/quoting/utils"
	"golang.org/x/crypto/bcrypt"
)

// AuthFlow handles staff authentication
type AuthFlow interface {
	Login(ctx context.Context, req *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error)
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest, metadata *ClientMetadata) (*dto.RefreshTokenResponse, error)
}

// AuthFlowImpl implements the staff authentication flow
type AuthFlowImpl struct {
	staffRepo    repository.StaffRepository
	tokenService services.TokenService
}

// NewAuthFlow creates a new auth flow instance
func NewAuthFlow(staffRepo repository.StaffRepository, tokenService services.TokenService) AuthFlow {
	return &AuthFlowImpl{
		staffRepo:    staffRepo,
		tokenService: tokenService,
	}
}

// Login authenticates a staff member by email and password and issues a token pair
func (s *AuthFlowImpl) Login(ctx context.Context, req *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error) {
	staff, err := s.staffRepo.ByEmail(ctx, req.Email)
	if err != nil {
		return nil, NewBusinessError("STAFF_LOOKUP_FAILED", "Failed to lookup staff account", err)
	}
	if staff == nil {
		return nil, NewBusinessError("INVALID_CREDENTIALS", "Invalid email or password", ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(req.Password)); err != nil {
		return nil, NewBusinessError("INVALID_CREDENTIALS", "Invalid email or password", ErrInvalidCredentials)
	}

	if !utils.IsTrue(staff.IsActive) {
		return nil, NewBusinessError("STAFF_INACTIVE", "Staff account is inactive", ErrStaffInactive)
	}

	accessToken, refreshToken, err := s.tokenService.GenerateTokens(staff.ID)
	if err != nil {
		return nil, NewBusinessError("TOKEN_GENERATION_FAILED", "Failed to generate tokens", err)
	}

	now := utils.UTCNow()
	staff.LastLoginAt = &now
	if err := s.staffRepo.Update(ctx, *staff); err != nil {
		return nil, NewBusinessError("STAFF_UPDATE_FAILED", "Failed to record login", err)
	}

	return &dto.LoginResponse{
		Message: "Login successful",
		Staff: dto.StaffDTO{
			UUID:        staff.UUID.String(),
			FullName:    staff.FullName,
			Email:       staff.Email,
			LastLoginAt: staff.LastLoginAt,
		},
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// RefreshToken exchanges a valid refresh token for a new token pair
func (s *AuthFlowImpl) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest, metadata *ClientMetadata) (*dto.RefreshTokenResponse, error) {
	accessToken, refreshToken, err := s.tokenService.RefreshToken(req.RefreshToken)
	if err != nil {
		return nil, NewBusinessError("TOKEN_REFRESH_FAILED", "Failed to refresh token", fmt.Errorf("refresh token rejected: %w", err))
	}

	return &dto.RefreshTokenResponse{
		Message:      "Token refreshed successfully",
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// HashPassword hashes a staff password for storage
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
