package auth

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
)

// IdentityFromContext reads the verified JWT claims placed on ctx by
// jwtauth.Verifier and returns the caller.
func IdentityFromContext(ctx context.Context) (user.Identity, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return user.Identity{}, fmt.Errorf("failed to extract claims from context: %w", ErrInvalidToken)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return user.Identity{}, fmt.Errorf("user_id claim is missing or invalid: %w", ErrMissingClaim)
	}

	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return user.Identity{}, fmt.Errorf("role claim is missing or invalid: %w", ErrMissingClaim)
	}

	return user.Identity{UserID: userID, Role: user.Role(role)}, nil
}
