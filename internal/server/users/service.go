package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/proxy201/nexus-auth/internal/common"
	"github.com/proxy201/nexus-auth/internal/server/models"
)

// Hasher abstracts the password hashing scheme. Satisfied by
// auth.PasswordHasher.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
	// VerifyDummy burns a full verification against a dummy hash and always
	// reports a mismatch; called when the username does not resolve.
	VerifyDummy(plaintext string) bool
}

// Service provides the credential operations behind the auth endpoints:
//   - SignUp: create a user from a name and plaintext password
//   - Authenticate: verify credentials for login
//   - GetByID: resolve the public record behind a session
type Service struct {
	repo   Repository
	hasher Hasher
}

func NewService(repo Repository, hasher Hasher) *Service {
	return &Service{repo: repo, hasher: hasher}
}

// SignUp hashes the password and creates the user. A taken name fails with
// common.ErrorAlreadyExists, whether caught by the availability check or by
// the store's unique constraint when two signups race.
func (s *Service) SignUp(ctx context.Context, name, password string) (*models.User, error) {
	_, err := s.repo.GetByName(ctx, name)
	if err == nil {
		return nil, common.ErrorAlreadyExists
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("checking name availability: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user, err := s.repo.Create(ctx, name, hash)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return user, nil
}

// Authenticate verifies a username/password pair. Unknown names and wrong
// passwords both return common.ErrorUnauthorized, and the unknown-name path
// still runs a full hash verification so the two are indistinguishable by
// latency as well as by result.
func (s *Service) Authenticate(ctx context.Context, name, password string) (*models.User, error) {
	user, err := s.repo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.VerifyDummy(password)
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}

	return user, nil
}

// GetByID resolves the public projection of a user, e.g. behind a verified
// session token. Returns common.ErrorNotFound when the id no longer resolves.
func (s *Service) GetByID(ctx context.Context, id int64) (*models.PublicUser, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}
