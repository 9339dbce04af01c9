package timer

import (
	"context"
	"fmt"

	"github.com/go-chi/jwtauth/v5"
)

// callerFromContext extracts the authenticated user and tenant from the JWT
// claims the auth middleware verified.
func callerFromContext(ctx context.Context) (userID string, companyID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", "", fmt.Errorf("user_id claim is missing or invalid")
	}

	companyID, ok = claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", "", fmt.Errorf("company_id claim is missing or invalid")
	}

	return userID, companyID, nil
}
