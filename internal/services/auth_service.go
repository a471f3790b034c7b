package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cmms-backend/internal/dto"
	"cmms-backend/internal/entities"
	"cmms-backend/internal/repositories"
	"cmms-backend/internal/workflow"
	"cmms-backend/pkg/config"
	apperrors "cmms-backend/pkg/errors"
	"cmms-backend/pkg/service"
	"cmms-backend/pkg/utils"
)

const (
	oauthStatePrefix   = "oauth:state:"
	revokedTokenPrefix = "auth:revoked:"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, payload dto.LoginDTO) (*dto.TokenPairDTO, error)
	Refresh(ctx context.Context, payload dto.RefreshDTO) (*dto.TokenPairDTO, error)
	Logout(ctx context.Context, accessToken string) error
	IsTokenRevoked(ctx context.Context, token string) bool
	OAuthLoginURL(ctx context.Context) (*dto.OAuthLoginURLDTO, error)
	OAuthCallback(ctx context.Context, state, code string) (*dto.TokenPairDTO, error)
	Me(ctx context.Context) (*dto.MeDTO, error)
}

// AuthService объединяет парольный вход и OAuth с PKCE. State и
// code_verifier живут в Redis не дольше OAuth.StateTTL; туда же
// складываются отозванные при выходе токены.
type AuthService struct {
	userRepo   repositories.UserRepositoryInterface
	cacheRepo  repositories.CacheRepositoryInterface
	jwtService service.JWTService
	oauthCfg   config.OAuthConfig
	httpClient *http.Client
	logger     *zap.Logger
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	jwtService service.JWTService,
	oauthCfg config.OAuthConfig,
	logger *zap.Logger,
) AuthServiceInterface {
	return &AuthService{
		userRepo:   userRepo,
		cacheRepo:  cacheRepo,
		jwtService: jwtService,
		oauthCfg:   oauthCfg,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.TokenPairDTO, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, payload.Email)
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if user.PasswordHash == "" {
		// Пользователь создан через OAuth, пароля нет.
		return nil, apperrors.ErrInvalidCredentials
	}
	if err := utils.ComparePasswords(user.PasswordHash, payload.Password); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if user.Status != "Active" {
		return nil, apperrors.ErrForbidden
	}

	return s.issueTokens(ctx, user)
}

func (s *AuthService) Refresh(ctx context.Context, payload dto.RefreshDTO) (*dto.TokenPairDTO, error) {
	claims, err := s.jwtService.ValidateToken(payload.RefreshToken)
	if err != nil {
		return nil, err
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.ErrTokenIsNotRefresh
	}
	if s.IsTokenRevoked(ctx, payload.RefreshToken) {
		return nil, apperrors.ErrSessionRevoked
	}

	user, err := s.userRepo.FindUser(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	// Старый refresh-токен отзывается, пара выдается заново.
	if err := s.revoke(ctx, payload.RefreshToken, s.jwtService.GetRefreshTokenTTL()); err != nil {
		s.logger.Warn("не удалось отозвать refresh-токен", zap.Error(err))
	}

	return s.issueTokens(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	return s.revoke(ctx, accessToken, s.jwtService.GetAccessTokenTTL())
}

func (s *AuthService) IsTokenRevoked(ctx context.Context, token string) bool {
	_, err := s.cacheRepo.Get(ctx, revokedTokenPrefix+tokenFingerprint(token))
	return err == nil
}

func (s *AuthService) revoke(ctx context.Context, token string, ttl time.Duration) error {
	return s.cacheRepo.Set(ctx, revokedTokenPrefix+tokenFingerprint(token), "1", ttl)
}

func tokenFingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// OAuthLoginURL готовит ссылку на провайдера: state и PKCE-verifier
// сохраняются в Redis, в URL уходит только S256-challenge.
func (s *AuthService) OAuthLoginURL(ctx context.Context) (*dto.OAuthLoginURLDTO, error) {
	state, err := randomToken(32)
	if err != nil {
		return nil, err
	}
	verifier, err := randomToken(64)
	if err != nil {
		return nil, err
	}

	if err := s.cacheRepo.Set(ctx, oauthStatePrefix+state, verifier, s.oauthCfg.StateTTL); err != nil {
		return nil, fmt.Errorf("не удалось сохранить oauth state: %w", err)
	}

	challenge := sha256.Sum256([]byte(verifier))

	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", s.oauthCfg.ClientID)
	q.Set("redirect_uri", s.oauthCfg.RedirectURL)
	q.Set("scope", "openid email profile")
	q.Set("state", state)
	q.Set("code_challenge", base64.RawURLEncoding.EncodeToString(challenge[:]))
	q.Set("code_challenge_method", "S256")

	return &dto.OAuthLoginURLDTO{
		AuthURL: s.oauthCfg.AuthURL + "?" + q.Encode(),
		State:   state,
	}, nil
}

func (s *AuthService) OAuthCallback(ctx context.Context, state, code string) (*dto.TokenPairDTO, error) {
	verifier, err := s.cacheRepo.Get(ctx, oauthStatePrefix+state)
	if err != nil {
		return nil, apperrors.NewHttpError(400, "неизвестный или истёкший state", nil, nil)
	}
	// State одноразовый.
	if err := s.cacheRepo.Del(ctx, oauthStatePrefix+state); err != nil {
		s.logger.Warn("не удалось удалить oauth state", zap.Error(err))
	}

	accessToken, err := s.exchangeCode(ctx, code, verifier)
	if err != nil {
		return nil, err
	}

	profile, err := s.fetchUserInfo(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.UpsertOAuthUser(ctx, entities.User{
		ID:        uuid.New().String(),
		Email:     profile.Email,
		Name:      profile.Name,
		AvatarURL: profile.Picture,
		UserRole:  string(workflow.RoleRequester),
	})
	if err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

type oauthProfile struct {
	Email   string  `json:"email"`
	Name    string  `json:"name"`
	Picture *string `json:"picture"`
}

func (s *AuthService) exchangeCode(ctx context.Context, code, verifier string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", s.oauthCfg.ClientID)
	form.Set("client_secret", s.oauthCfg.ClientSecret)
	form.Set("redirect_uri", s.oauthCfg.RedirectURL)
	form.Set("code_verifier", verifier)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.oauthCfg.TokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("обмен кода на токен не удался: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apperrors.NewHttpError(401, "провайдер отклонил код авторизации", nil, nil)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if body.AccessToken == "" {
		return "", apperrors.ErrInvalidToken
	}
	return body.AccessToken, nil
}

func (s *AuthService) fetchUserInfo(ctx context.Context, accessToken string) (*oauthProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.oauthCfg.UserInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("не удалось получить профиль пользователя: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.ErrUnauthorized
	}

	var profile oauthProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, err
	}
	if profile.Email == "" {
		return nil, apperrors.NewHttpError(400, "провайдер не вернул email", nil, nil)
	}
	return &profile, nil
}

func (s *AuthService) Me(ctx context.Context) (*dto.MeDTO, error) {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := dto.MeDTO{User: toUserDTO(user)}
	if user.Role != nil {
		out.DisplayRole = *user.Role
	}
	return &out, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *entities.User) (*dto.TokenPairDTO, error) {
	access, refresh, err := s.jwtService.GenerateTokens(user.ID, user.Name, user.UserRole)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.TouchLastLogin(ctx, user.ID, time.Now()); err != nil {
		s.logger.Warn("не удалось обновить last_login_at", zap.String("user_id", user.ID), zap.Error(err))
	}

	return &dto.TokenPairDTO{AccessToken: access, RefreshToken: refresh}, nil
}

func randomToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
