package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/color"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/domain"
	domainerrors "github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/errors"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/search"
)

// UserStore is the persistence the user directory needs.
type UserStore interface {
	UpsertUser(ctx context.Context, identity domain.Identity) (*domain.User, bool, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
}

// UserIndex is the search index over display names.
type UserIndex interface {
	IndexUser(doc *search.UserDocument) error
	IndexUsers(docs []*search.UserDocument) error
	Search(ctx context.Context, params search.SearchParams) ([]search.SearchHit, error)
}

// maxDisplayNameLength bounds names asserted by the identity provider.
const maxDisplayNameLength = 100

// UserService records identity-provider users and lets users find each other.
type UserService struct {
	store  UserStore
	index  UserIndex
	logger *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(store UserStore, index UserIndex, logger *slog.Logger) *UserService {
	return &UserService{
		store:  store,
		index:  index,
		logger: loggerOrDiscard(logger),
	}
}

// Touch records the caller as asserted by a verified token. A new or renamed
// user is (re)indexed for search; index failures are logged, not returned.
func (s *UserService) Touch(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	if err := requireUser(identity.UserID); err != nil {
		return nil, err
	}
	identity.DisplayName = normalizeDisplayName(identity.DisplayName)

	user, written, err := s.store.UpsertUser(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("record user: %w", err)
	}

	if written {
		if err := s.index.IndexUser(search.NewUserDocument(user)); err != nil {
			requestLogger(ctx, s.logger).Warn("failed to index user", "user_id", user.ID, "error", err)
		}
	}
	return withAvatar(user), nil
}

// GetUser returns a user by id.
func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return withAvatar(user), nil
}

func withAvatar(u *domain.User) *domain.User {
	u.AvatarColor = color.ForUser(u.ID)
	return u
}

// SearchUsers finds users by display name for friend discovery. The caller
// is never part of the results.
func (s *UserService) SearchUsers(ctx context.Context, callerID, query string, limit int) ([]search.SearchHit, error) {
	if err := requireUser(callerID); err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domainerrors.Validation("search query is required")
	}

	hits, err := s.index.Search(ctx, search.SearchParams{
		Query:      query,
		ExcludeIDs: []string{callerID},
		Limit:      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return hits, nil
}

// Reindex loads every user from the store into the search index.
func (s *UserService) Reindex(ctx context.Context) (int, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}

	docs := make([]*search.UserDocument, len(users))
	for i, u := range users {
		docs[i] = search.NewUserDocument(u)
	}
	if err := s.index.IndexUsers(docs); err != nil {
		return 0, fmt.Errorf("index users: %w", err)
	}

	requestLogger(ctx, s.logger).Info("user search index rebuilt", "users", len(docs))
	return len(docs), nil
}

// normalizeDisplayName collapses whitespace and caps the length in runes.
func normalizeDisplayName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if r := []rune(name); len(r) > maxDisplayNameLength {
		name = string(r[:maxDisplayNameLength])
	}
	return name
}
