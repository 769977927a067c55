package ports

import (
	"context"

	"github.com/seu-repo/voice-profile-skill/internal/domain"
)

// ProfileClient looks up the recognized speaker's profile.
// An unset value is returned as "" (names) or nil (number) with a nil error.
// Non-2xx answers from the API fail with a *domain.ServiceError.
type ProfileClient interface {
	FullName(ctx context.Context, access domain.APIAccess) (string, error)
	GivenName(ctx context.Context, access domain.APIAccess) (string, error)
	MobileNumber(ctx context.Context, access domain.APIAccess) (*domain.MobileNumber, error)
}
