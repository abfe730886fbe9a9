package services

import (
	"context"

	"github.com/custodia-labs/medmart-cli/internal/core/domain"
	"github.com/custodia-labs/medmart-cli/internal/core/ports/driving"
)

// RequireAuth fails with domain.ErrAuthRequired unless a valid session exists.
func RequireAuth(ctx context.Context, auth driving.AuthService) error {
	if auth == nil || !auth.IsTokenValid(ctx) {
		return domain.ErrAuthRequired
	}
	return nil
}

// RequireDoctor fails unless a valid session belongs to a doctor.
func RequireDoctor(ctx context.Context, auth driving.AuthService) error {
	if err := RequireAuth(ctx, auth); err != nil {
		return err
	}
	if !auth.HasDoctorRole(ctx) {
		return domain.ErrForbidden
	}
	return nil
}
