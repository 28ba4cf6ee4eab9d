package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/dbx"
	"github.com/dmitrijs2005/tasktracker/internal/server/auth"
	"github.com/dmitrijs2005/tasktracker/internal/server/config"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/repomanager"
)

// UserService provides authentication-related operations:
// - Register: create users and mint a token
// - Login: verify credentials and mint a token
// - Authenticate: resolve a bearer token to a stored identity
type UserService struct {
	pool        *dbx.Pool
	repomanager repomanager.RepositoryManager
	tokens      *auth.TokenService
	hasher      *auth.PasswordHasher

	// dummyHash is compared against when the email is unknown, so a miss
	// costs the same bcrypt work as a wrong password.
	dummyHash string
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(pool *dbx.Pool, m repomanager.RepositoryManager, cfg *config.Config) (*UserService, error) {
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)

	dummy, err := hasher.Hash("dummy-password-for-unknown-users")
	if err != nil {
		return nil, err
	}

	return &UserService{
		pool:        pool,
		repomanager: m,
		tokens:      auth.NewTokenService([]byte(cfg.SecretKey), cfg.TokenValidityDuration),
		hasher:      hasher,
		dummyHash:   dummy,
	}, nil
}

// NormalizeEmail is the canonical form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user and returns a session for it. A taken email yields
// common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.Session, error) {
	email = NormalizeEmail(email)
	if len(password) > auth.MaxPasswordBytes {
		return nil, common.ErrorValidation
	}

	// the lookup and the insert share one transaction; the unique index on
	// users.email still decides concurrent registrations.
	var user *models.User
	err := s.pool.WithTx(ctx, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		_, err := repo.GetUserByEmail(ctx, email)
		if err == nil {
			return common.ErrorAlreadyExists
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("error searching user: %w", err)
		}

		hash, err := s.hasher.Hash(password)
		if err != nil {
			return err
		}

		user, err = repo.Create(ctx, email, hash)
		if err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				return err
			}
			return fmt.Errorf("error creating user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.newSession(user)
}

// Login checks the credentials and returns a fresh session. Unknown email and
// wrong password are both common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.Session, error) {
	email = NormalizeEmail(email)

	user, err := dbx.Do(ctx, s.pool, func(ctx context.Context, conn dbx.DBTX) (*models.User, error) {
		return s.repomanager.Users(conn).GetUserByEmail(ctx, email)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}

	return s.newSession(user)
}

// Authenticate verifies token and loads the user it names. Token failures
// surface as common.ErrInvalidToken or common.ErrTokenExpired; a token for a
// user that no longer exists is common.ErrorUnauthorized.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.Identity, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := dbx.Do(ctx, s.pool, func(ctx context.Context, conn dbx.DBTX) (*models.User, error) {
		return s.repomanager.Users(conn).GetUserByID(ctx, userID)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	identity := user.Identity()
	return &identity, nil
}

func (s *UserService) newSession(user *models.User) (*models.Session, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("error issuing token: %w", err)
	}
	return &models.Session{Token: token, User: user.Identity()}, nil
}
