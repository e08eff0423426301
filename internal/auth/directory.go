// Package auth keeps the user registry and the current-session marker, and
// issues bearer tokens bound to that session.
package auth

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/GoldSenseiBoi/iTunesSeeker/internal/apperr"
	"github.com/GoldSenseiBoi/iTunesSeeker/internal/kv"
	"github.com/GoldSenseiBoi/iTunesSeeker/internal/viewsync"
)

var (
	ErrDuplicateUser      = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Directory is what the rest of the app depends on for sign-up, sign-in and
// session state.
type Directory interface {
	Register(ctx context.Context, email, password string) error
	Authenticate(ctx context.Context, email, password string) error
	EndSession(ctx context.Context) error
	CurrentSession(ctx context.Context) (string, bool, error)
}

// Users maps email (case-sensitive, as entered) to the stored password.
type Users map[string]string

// Service is the kv-backed Directory.
type Service struct {
	store  kv.Store
	queue  *kv.Queue
	users  *kv.Collection[Users]
	scheme PasswordScheme
	notify viewsync.Notifier
	log    *zap.Logger
}

type Option func(*Service)

func WithScheme(s PasswordScheme) Option { return func(svc *Service) { svc.scheme = s } }

func WithNotifier(n viewsync.Notifier) Option { return func(svc *Service) { svc.notify = n } }

func WithLogger(l *zap.Logger) Option { return func(svc *Service) { svc.log = l } }

func NewService(store kv.Store, queue *kv.Queue, opts ...Option) *Service {
	s := &Service{
		store:  store,
		queue:  queue,
		users:  kv.NewCollection(store, queue, kv.KeyUsers, func() Users { return Users{} }),
		scheme: PlainScheme{},
		notify: viewsync.Discard,
		log:    zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) Register(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return apperr.Validation("email and password are required")
	}
	stored, err := s.scheme.Hash(password)
	if err != nil {
		return fmt.Errorf("register: hash: %w", err)
	}
	_, err = s.users.Update(ctx, func(u *Users) (bool, error) {
		if _, exists := (*u)[email]; exists {
			return false, ErrDuplicateUser
		}
		(*u)[email] = stored
		return true, nil
	})
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	s.log.Info("user registered", zap.String("email", email), zap.String("scheme", s.scheme.Name()))
	return nil
}

func (s *Service) Authenticate(ctx context.Context, email, password string) error {
	users, err := s.users.Load(ctx)
	if err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}
	stored, ok := users[email]
	if !ok || !s.scheme.Matches(stored, password) {
		return ErrInvalidCredentials
	}
	err = s.queue.Do(ctx, kv.KeyUserToken, func(ctx context.Context) error {
		return s.store.Set(ctx, kv.KeyUserToken, email)
	})
	if err != nil {
		return fmt.Errorf("authenticate: save session: %w", err)
	}
	s.notify.Mutated(viewsync.SessionChanged)
	return nil
}

func (s *Service) EndSession(ctx context.Context) error {
	err := s.queue.Do(ctx, kv.KeyUserToken, func(ctx context.Context) error {
		return s.store.Remove(ctx, kv.KeyUserToken)
	})
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	s.notify.Mutated(viewsync.SessionChanged)
	return nil
}

func (s *Service) CurrentSession(ctx context.Context) (string, bool, error) {
	email, ok, err := s.store.Get(ctx, kv.KeyUserToken)
	if err != nil {
		return "", false, fmt.Errorf("current session: %w", err)
	}
	if !ok || email == "" {
		return "", false, nil
	}
	return email, true, nil
}
