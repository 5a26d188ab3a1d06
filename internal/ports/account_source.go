package ports

import (
	"context"

	"github.com/bnema/usahome-cli/internal/domain"
)

// AccountSource reads account records from the USA Home backend. A missing or
// malformed services array is reported through Account.ServiceCategories being
// nil or through domain.ErrMalformedPayload.
type AccountSource interface {
	FetchAccount(ctx context.Context, identity domain.Identity, token string) (domain.Account, error)
}

type ServicePublisher interface {
	PublishServices(ctx context.Context, identity domain.Identity, token string, services []domain.ServiceName) error
}

type Authenticator interface {
	Login(ctx context.Context, identity domain.Identity, password string) (domain.Session, error)
	Logout(ctx context.Context, session domain.Session) error
}
