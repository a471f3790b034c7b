package utils

import (
	"context"

	"cmms-backend/pkg/contextkeys"
	apperrors "cmms-backend/pkg/errors"
)

func GetUserIDFromCtx(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(contextkeys.UserIDKey).(string)
	if !ok || userID == "" {
		return "", apperrors.ErrUserNotFoundInContext
	}
	return userID, nil
}

func GetUserNameFromCtx(ctx context.Context) (string, error) {
	name, ok := ctx.Value(contextkeys.UserNameKey).(string)
	if !ok || name == "" {
		return "", apperrors.ErrUserNotFoundInContext
	}
	return name, nil
}

func GetUserRoleFromCtx(ctx context.Context) (string, error) {
	role, ok := ctx.Value(contextkeys.UserRoleKey).(string)
	if !ok || role == "" {
		return "", apperrors.ErrUserNotFoundInContext
	}
	return role, nil
}
