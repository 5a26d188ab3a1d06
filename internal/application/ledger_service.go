package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/usahome-cli/internal/domain"
	"github.com/bnema/usahome-cli/internal/logging"
	"github.com/bnema/usahome-cli/internal/ports"
)

const DefaultRemoteTimeout = 5 * time.Second

type LedgerOptions struct {
	// RemoteTimeout bounds every backend call; zero disables the bound.
	RemoteTimeout time.Duration
	// StrictCatalog rejects names that are not in the service catalog.
	StrictCatalog bool
}

// LedgerService owns the list of services each identity has added. Reads
// trust the backend when it answers with a well-formed record and fall back
// to the local cache otherwise. Mutations are serialized per identity.
type LedgerService struct {
	source    ports.AccountSource
	publisher ports.ServicePublisher
	cache     ports.CacheStore
	sessions  ports.SessionRepository
	log       logging.Logger
	opts      LedgerOptions
	locks     *keyedLocks
}

// NewLedgerService accepts a nil source (cache only), a nil publisher (no
// remote push) and a nil session repository (anonymous backend reads).
func NewLedgerService(
	source ports.AccountSource,
	publisher ports.ServicePublisher,
	cache ports.CacheStore,
	sessions ports.SessionRepository,
	log logging.Logger,
	opts LedgerOptions,
) *LedgerService {
	if log == nil {
		log = logging.Discard()
	}

	return &LedgerService{
		source:    source,
		publisher: publisher,
		cache:     cache,
		sessions:  sessions,
		log:       log.With("component", "ledger"),
		opts:      opts,
		locks:     newKeyedLocks(),
	}
}

// GetAll never fails because of the backend or the cache; the worst case is
// an empty list served from LOCAL_FALLBACK. A context cancelled mid-read is
// returned instead of an empty snapshot.
func (s *LedgerService) GetAll(ctx context.Context, identity domain.Identity) (Snapshot, error) {
	if err := validateIdentity(identity); err != nil {
		return Snapshot{}, err
	}
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}

	unlock := s.locks.lock(identity)
	defer unlock()

	// A failed cache read is already logged and reads as empty here.
	snapshot, _ := s.readLocked(ctx, identity)
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	return snapshot, nil
}

func (s *LedgerService) Add(ctx context.Context, identity domain.Identity, rawName string) (Mutation, error) {
	name, err := s.validateName(rawName)
	if err != nil {
		return Mutation{}, err
	}
	if err := validateIdentity(identity); err != nil {
		return Mutation{}, err
	}
	if err := ctx.Err(); err != nil {
		return Mutation{}, err
	}

	unlock := s.locks.lock(identity)
	defer unlock()

	current, err := s.readLocked(ctx, identity)
	if err != nil {
		return Mutation{Identity: identity}, err
	}
	updated, changed := current.Services.With(name)
	if !changed {
		return Mutation{Identity: identity, Services: updated}, nil
	}

	if err := s.writeServices(ctx, identity, updated); err != nil {
		return Mutation{Identity: identity, Services: current.Services}, err
	}
	lastAddedErr := s.cache.Put(ctx, cacheKey(identity, lastAddedCacheKey), string(name))

	// The list is stored by now, so the backend gets it even when the
	// last-added marker could not be written.
	mutation := Mutation{
		Identity:  identity,
		Services:  updated,
		Changed:   true,
		Published: s.publish(ctx, identity, updated),
	}
	if lastAddedErr != nil {
		return mutation, fmt.Errorf("%w: record last added service (services list saved): %w", domain.ErrPersistence, lastAddedErr)
	}
	return mutation, nil
}

func (s *LedgerService) Remove(ctx context.Context, identity domain.Identity, rawName string) (Mutation, error) {
	name, err := s.validateName(rawName)
	if err != nil {
		return Mutation{}, err
	}
	if err := validateIdentity(identity); err != nil {
		return Mutation{}, err
	}
	if err := ctx.Err(); err != nil {
		return Mutation{}, err
	}

	unlock := s.locks.lock(identity)
	defer unlock()

	current, err := s.readLocked(ctx, identity)
	if err != nil {
		return Mutation{Identity: identity}, err
	}
	updated, changed := current.Services.Without(name)
	if !changed {
		return Mutation{Identity: identity, Services: updated}, nil
	}

	if err := s.writeServices(ctx, identity, updated); err != nil {
		return Mutation{Identity: identity, Services: current.Services}, err
	}

	return Mutation{
		Identity:  identity,
		Services:  updated,
		Changed:   true,
		Published: s.publish(ctx, identity, updated),
	}, nil
}

// LastAdded returns the most recently added service recorded for identity.
func (s *LedgerService) LastAdded(ctx context.Context, identity domain.Identity) (domain.ServiceName, bool) {
	raw, err := s.cache.Get(ctx, cacheKey(identity, lastAddedCacheKey))
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			s.log.Warn(ctx, "read last added service", "identity", identity, "err", err)
		}
		return "", false
	}
	if domain.IsCorruptServiceName(raw) {
		return "", false
	}

	return domain.ServiceName(strings.TrimSpace(raw)), true
}

// readLocked returns an error only when the cache itself could not be read.
// Absent or corrupt entries read as an empty list.
func (s *LedgerService) readLocked(ctx context.Context, identity domain.Identity) (Snapshot, error) {
	services, err := s.fetchRemote(ctx, identity)
	if err == nil {
		if err := s.writeServices(ctx, identity, services); err != nil {
			s.log.Warn(ctx, "cache remote services", "identity", identity, "err", err)
		}
		return Snapshot{Identity: identity, Services: services, Source: domain.SourceRemoteTrusted}, nil
	}

	if s.source != nil {
		s.log.Warn(ctx, "remote services unavailable, using local cache", "identity", identity, "err", err)
	}
	cached, err := s.readCachedServices(ctx, identity)
	return Snapshot{Identity: identity, Services: cached, Source: domain.SourceLocalFallback}, err
}

func (s *LedgerService) fetchRemote(ctx context.Context, identity domain.Identity) (domain.ServiceList, error) {
	if s.source == nil {
		return nil, domain.ErrRemoteUnavailable
	}

	requestCtx, cancel := s.remoteContext(ctx)
	defer cancel()

	account, err := s.source.FetchAccount(requestCtx, identity, s.tokenFor(ctx, identity))
	if err != nil {
		return nil, fmt.Errorf("fetch account: %w", err)
	}
	if account.Identity != "" && account.Identity != identity {
		return nil, fmt.Errorf("%w: record belongs to %s", domain.ErrMalformedPayload, account.Identity)
	}
	if !account.HasServiceCategories() {
		return nil, fmt.Errorf("%w: service_categories missing", domain.ErrMalformedPayload)
	}

	return domain.NormalizeServiceNames(account.ServiceCategories), nil
}

func (s *LedgerService) readCachedServices(ctx context.Context, identity domain.Identity) (domain.ServiceList, error) {
	raw, err := s.cache.Get(ctx, cacheKey(identity, servicesCacheKey))
	if err != nil {
		if errors.Is(err, domain.ErrKeyNotFound) {
			return domain.ServiceList{}, nil
		}
		s.log.Warn(ctx, "read cached services", "identity", identity, "err", err)
		return domain.ServiceList{}, fmt.Errorf("%w: read cached services: %w", domain.ErrPersistence, err)
	}

	services, err := decodeServiceList(raw)
	if err != nil {
		s.log.Warn(ctx, "discard corrupt cached services", "identity", identity, "err", err)
		return domain.ServiceList{}, nil
	}

	return services, nil
}

func (s *LedgerService) writeServices(ctx context.Context, identity domain.Identity, services domain.ServiceList) error {
	encoded, err := encodeServiceList(services)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	if err := s.cache.Put(ctx, cacheKey(identity, servicesCacheKey), encoded); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return nil
}

func (s *LedgerService) publish(ctx context.Context, identity domain.Identity, services domain.ServiceList) bool {
	if s.publisher == nil {
		return false
	}

	requestCtx, cancel := s.remoteContext(ctx)
	defer cancel()

	if err := s.publisher.PublishServices(requestCtx, identity, s.tokenFor(ctx, identity), services.Clone()); err != nil {
		s.log.Warn(ctx, "publish services to backend", "identity", identity, "err", err)
		return false
	}
	return true
}

func (s *LedgerService) tokenFor(ctx context.Context, identity domain.Identity) string {
	if s.sessions == nil {
		return ""
	}

	session, err := s.sessions.Current(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) {
			s.log.Warn(ctx, "load session", "err", err)
		}
		return ""
	}
	if session.Identity != identity {
		return ""
	}
	return session.Token
}

func (s *LedgerService) remoteContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.RemoteTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.opts.RemoteTimeout)
}

func (s *LedgerService) validateName(raw string) (domain.ServiceName, error) {
	if domain.IsCorruptServiceName(raw) {
		return "", domain.ErrEmptyServiceName
	}

	name := domain.ServiceName(strings.TrimSpace(raw))
	if s.opts.StrictCatalog && !domain.InCatalog(name) {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownService, name)
	}
	return name, nil
}

func validateIdentity(identity domain.Identity) error {
	if strings.TrimSpace(string(identity)) == "" {
		return fmt.Errorf("%w: identity is required", domain.ErrInvalidIdentity)
	}
	return nil
}
