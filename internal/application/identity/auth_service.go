package identity

import (
	"context"

	"github.com/estatecrm/backend/internal/domain/identity"
	"github.com/estatecrm/backend/internal/domain/shared"
	"github.com/estatecrm/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// Login authenticates a user and issues a token pair. The error is the
// same for an unknown username and a wrong password so the endpoint does
// not leak which usernames exist.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		s.logger.Warn("login failed, unknown username", zap.String("username", req.Username))
		return nil, shared.NewAuthorizationError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	if !user.CheckPassword(req.Password) {
		s.logger.Warn("login failed, wrong password", zap.String("username", user.Username))
		return nil, shared.NewAuthorizationError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	if !user.IsActive() {
		s.logger.Warn("login attempt for inactive account", zap.String("username", user.Username))
		return nil, shared.NewAuthorizationError("ACCOUNT_INACTIVE", "Account has been deactivated")
	}

	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role.String(),
	})
	if err != nil {
		return nil, err
	}

	user.RecordLogin()
	if err := s.userRepo.Save(ctx, user); err != nil {
		// Login already succeeded; a failed last-login write is not fatal
		s.logger.Warn("failed to record login time",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
	}

	s.logger.Info("user logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	return &LoginResponse{
		User:  ToUserResponse(user),
		Token: toTokenResponse(pair),
	}, nil
}

// Refresh exchanges a valid refresh token for a new token pair. The role
// is re-read from the user store so role changes take effect on refresh.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*TokenResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, shared.NewAuthorizationError("INVALID_TOKEN", "Refresh token is invalid or expired")
	}

	if err := s.checkBlacklist(ctx, claims); err != nil {
		return nil, err
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewAuthorizationError("INVALID_TOKEN", "Refresh token is invalid or expired")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.NewAuthorizationError("INVALID_TOKEN", "Refresh token is invalid or expired")
	}
	if !user.IsActive() {
		return nil, shared.NewAuthorizationError("ACCOUNT_INACTIVE", "Account has been deactivated")
	}

	pair, err := s.jwtService.RefreshTokenPair(req.RefreshToken, user.Username, user.Role.String())
	if err != nil {
		return nil, shared.NewAuthorizationError("INVALID_TOKEN", "Refresh token is invalid or expired")
	}

	response := toTokenResponse(pair)
	return &response, nil
}

// Logout revokes the presented access token for its remaining lifetime
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.jwtService.ValidateAccessToken(accessToken)
	if err != nil {
		// Already invalid; nothing to revoke
		return nil
	}

	ttl := claims.GetRemainingTTL()
	if ttl <= 0 {
		return nil
	}

	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("failed to blacklist token",
			zap.String("user_id", claims.UserID),
			zap.Error(err))
		return err
	}

	s.logger.Info("user logged out", zap.String("user_id", claims.UserID))
	return nil
}

// LogoutAll revokes every outstanding token for a user by invalidating all
// tokens issued before now
func (s *AuthService) LogoutAll(ctx context.Context, accessToken string) error {
	claims, err := s.jwtService.ValidateAccessToken(accessToken)
	if err != nil {
		return nil
	}

	ttl := s.jwtService.GetRefreshTokenExpiration()
	if err := s.blacklist.AddUserTokensToBlacklist(ctx, claims.UserID, ttl); err != nil {
		s.logger.Error("failed to invalidate user tokens",
			zap.String("user_id", claims.UserID),
			zap.Error(err))
		return err
	}

	s.logger.Info("all sessions revoked", zap.String("user_id", claims.UserID))
	return nil
}

// checkBlacklist rejects revoked tokens
func (s *AuthService) checkBlacklist(ctx context.Context, claims *auth.Claims) error {
	revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return err
	}
	if revoked {
		return shared.NewAuthorizationError("TOKEN_REVOKED", "Token has been revoked")
	}

	invalidated, err := s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime())
	if err != nil {
		return err
	}
	if invalidated {
		return shared.NewAuthorizationError("TOKEN_REVOKED", "Token has been revoked")
	}
	return nil
}

func toTokenResponse(pair *auth.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}
}
