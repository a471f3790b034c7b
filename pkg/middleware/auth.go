package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"cmms-backend/pkg/contextkeys"
	apperrors "cmms-backend/pkg/errors"
	"cmms-backend/pkg/service"
	"cmms-backend/pkg/utils"
)

// RevocationChecker проверяет, не отозван ли токен при выходе.
type RevocationChecker interface {
	IsTokenRevoked(ctx context.Context, token string) bool
}

// AuthMiddleware проверяет Bearer-токен и кладёт ID, имя и роль
// пользователя в context.Context запроса. Дальше сервисы читают их
// через utils.Get*FromCtx и не доверяют ничему из тела запроса.
func AuthMiddleware(jwtService service.JWTService, revocations RevocationChecker, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := extractBearerToken(c)
			if err != nil {
				return utils.ErrorResponse(c, err, logger)
			}

			claims, err := jwtService.ValidateToken(token)
			if err != nil {
				return utils.ErrorResponse(c, err, logger)
			}
			if claims.IsRefreshToken {
				return utils.ErrorResponse(c, apperrors.ErrTokenIsNotAccess, logger)
			}
			if revocations != nil && revocations.IsTokenRevoked(c.Request().Context(), token) {
				return utils.ErrorResponse(c, apperrors.ErrSessionRevoked, logger)
			}

			ctx := c.Request().Context()
			ctx = context.WithValue(ctx, contextkeys.UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, contextkeys.UserNameKey, claims.UserName)
			ctx = context.WithValue(ctx, contextkeys.UserRoleKey, claims.UserRole)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

func extractBearerToken(c echo.Context) (string, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", apperrors.ErrEmptyAuthHeader
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", apperrors.ErrInvalidAuthHeader
	}
	return parts[1], nil
}
