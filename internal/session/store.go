package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MyResellApp/MyResell/internal/subscriptions"
	"github.com/MyResellApp/MyResell/internal/users"
	"github.com/MyResellApp/MyResell/pkg/db/models"
	pkgerrors "github.com/MyResellApp/MyResell/pkg/errors"
	"github.com/MyResellApp/MyResell/pkg/logger"
)

// Snapshot is the session view handed to guards and controllers: the user
// plus the newest active subscription at resolve time.
type Snapshot struct {
	User         *users.UserDTO                 `json:"user"`
	Subscription *subscriptions.SubscriptionDTO `json:"subscription,omitempty"`
	IsAdmin      bool                           `json:"is_admin"`
	ResolvedAt   time.Time                      `json:"resolved_at"`
}

// HasActiveSubscription reports whether the snapshot carries a live subscription.
func (s *Snapshot) HasActiveSubscription() bool {
	return s != nil && s.Subscription != nil
}

// PlanName returns the subscribed plan's name, empty when unsubscribed.
func (s *Snapshot) PlanName() string {
	if s == nil || s.Subscription == nil || s.Subscription.Plan == nil {
		return ""
	}
	return s.Subscription.Plan.Name
}

type userFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type subscriptionFinder interface {
	FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.Subscription, error)
}

type adminChecker interface {
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
}

type invalidationBus interface {
	PublishSessionInvalidation(ctx context.Context, userID string) error
	SubscribeSessionInvalidation(ctx context.Context) (<-chan string, error)
}

// Store resolves and caches per-user session snapshots. Lookup failures are
// returned to callers so guards deny rather than guess; a user with no active
// subscription resolves cleanly with a nil Subscription.
type Store struct {
	users  userFinder
	subs   subscriptionFinder
	admins adminChecker
	bus    invalidationBus
	logg   *logger.Logger

	mu        sync.RWMutex
	cache     map[uuid.UUID]*Snapshot
	listeners []func(uuid.UUID)
}

// StoreParams bundles the dependencies required to build a session store.
type StoreParams struct {
	Users         userFinder
	Subscriptions subscriptionFinder
	Admins        adminChecker
	Bus           invalidationBus
	Logger        *logger.Logger
}

// NewStore constructs a session store with the provided dependencies.
func NewStore(params StoreParams) (*Store, error) {
	if params.Users == nil {
		return nil, fmt.Errorf("users repository is required")
	}
	if params.Subscriptions == nil {
		return nil, fmt.Errorf("subscriptions repository is required")
	}
	if params.Admins == nil {
		return nil, fmt.Errorf("admin repository is required")
	}
	return &Store{
		users:  params.Users,
		subs:   params.Subscriptions,
		admins: params.Admins,
		bus:    params.Bus,
		logg:   params.Logger,
		cache:  make(map[uuid.UUID]*Snapshot),
	}, nil
}

// SubscribeInvalidation registers fn to run whenever a user's snapshot is
// refreshed or invalidated, on this instance or via the bus. Register before
// Run; fn must not call back into the store.
func (s *Store) SubscribeInvalidation(fn func(userID uuid.UUID)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Resolve returns the cached snapshot for the user, loading it when absent.
func (s *Store) Resolve(ctx context.Context, userID uuid.UUID) (*Snapshot, error) {
	s.mu.RLock()
	cached, ok := s.cache[userID]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}
	return s.load(ctx, userID)
}

// RefreshSubscription re-reads the user's subscription state, replacing any
// cached snapshot. Call after settlement so new entitlements apply immediately.
func (s *Store) RefreshSubscription(ctx context.Context, userID uuid.UUID) (*Snapshot, error) {
	snapshot, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.notify(userID)
	s.broadcast(ctx, userID)
	return snapshot, nil
}

// Invalidate drops the cached snapshot so the next Resolve hits storage.
func (s *Store) Invalidate(ctx context.Context, userID uuid.UUID) {
	s.evict(userID)
	s.broadcast(ctx, userID)
}

// Run consumes cross-instance invalidation events until ctx is cancelled.
func (s *Store) Run(ctx context.Context) error {
	if s.bus == nil {
		<-ctx.Done()
		return ctx.Err()
	}
	events, err := s.bus.SubscribeSessionInvalidation(ctx)
	if err != nil {
		return fmt.Errorf("subscribing to session invalidation: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case raw, ok := <-events:
			if !ok {
				return nil
			}
			userID, err := uuid.Parse(raw)
			if err != nil {
				if s.logg != nil {
					s.logg.Warn(ctx, fmt.Sprintf("ignoring malformed invalidation payload %q", raw))
				}
				continue
			}
			s.evict(userID)
		}
	}
}

func (s *Store) load(ctx context.Context, userID uuid.UUID) (*Snapshot, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "resolve session user")
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account is deactivated")
	}

	sub, err := s.subs.FindActiveByUser(ctx, userID)
	if err != nil {
		// Entitlement checks fail closed on an empty subscription; the
		// session itself stays usable.
		if s.logg != nil {
			s.logg.Error(ctx, "subscription lookup failed, resolving without entitlements", err)
		}
		sub = nil
	}

	isAdmin, err := s.admins.IsAdmin(ctx, userID)
	if err != nil {
		// Fail closed on the admin bit but keep the session usable.
		if s.logg != nil {
			s.logg.Error(ctx, "admin lookup failed, treating as non-admin", err)
		}
		isAdmin = false
	}

	snapshot := &Snapshot{
		User:         users.FromModel(user),
		Subscription: subscriptions.FromModel(sub),
		IsAdmin:      isAdmin,
		ResolvedAt:   time.Now().UTC(),
	}

	s.mu.Lock()
	s.cache[userID] = snapshot
	s.mu.Unlock()

	return snapshot, nil
}

func (s *Store) evict(userID uuid.UUID) {
	s.mu.Lock()
	delete(s.cache, userID)
	s.mu.Unlock()
	s.notify(userID)
}

func (s *Store) notify(userID uuid.UUID) {
	s.mu.RLock()
	listeners := make([]func(uuid.UUID), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(userID)
	}
}

func (s *Store) broadcast(ctx context.Context, userID uuid.UUID) {
	if s.bus == nil {
		return
	}
	if err := s.bus.PublishSessionInvalidation(ctx, userID.String()); err != nil && s.logg != nil {
		s.logg.Warn(ctx, fmt.Sprintf("publish session invalidation for %s: %v", userID, err))
	}
}
