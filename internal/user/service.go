package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	tokenentity "github.com/riadaman/sanctrum-rest-api/internal/token/entity"
	"github.com/riadaman/sanctrum-rest-api/internal/user/entity"
	userrepo "github.com/riadaman/sanctrum-rest-api/internal/user/repo"
	"github.com/riadaman/sanctrum-rest-api/pkg/utilities"
)

// LoginTokenName names tokens minted by a password login.
const LoginTokenName = "auth_token"

var (
	ErrValidationFailed   = errors.New("validation failed")
	ErrRegistrationFailed = errors.New("registration failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")

	// ErrPasswordTooLong is returned when the password exceeds bcrypt's 72 byte input.
	ErrPasswordTooLong = fmt.Errorf("%w: password too long", ErrValidationFailed)
)

// Store is the credential store backing the service.
type Store interface {
	Create(ctx context.Context, u *entity.User) error
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByID(ctx context.Context, id int64) (*entity.User, error)
}

// TokenIssuer mints and revokes bearer tokens.
type TokenIssuer interface {
	Issue(ctx context.Context, u *entity.User, name string) (string, error)
	Revoke(ctx context.Context, tokenID string) error
}

// RegisterInput is an already validated registration request.
type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	PhoneNumber string
}

// LoginResult is returned by a successful Authenticate.
type LoginResult struct {
	User  *entity.User `json:"user"`
	Token string       `json:"token"`
}

// Service orchestrates registration, login and session flows.
type Service struct {
	store  Store
	hasher PasswordHasher
	tokens TokenIssuer
	newID  func() int64
}

func NewService(store Store, hasher PasswordHasher, tokens TokenIssuer) *Service {
	if hasher == nil {
		hasher = NewBcryptHasher(12)
	}
	return &Service{store: store, hasher: hasher, tokens: tokens, newID: utilities.NewSnowflakeID}
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register hashes the password and persists a new user. A storage
// constraint violation (duplicate email) yields ErrRegistrationFailed.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, ErrPasswordTooLong
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &entity.User{
		ID:          s.newID(),
		Name:        strings.TrimSpace(in.Name),
		Email:       NormalizeEmail(in.Email),
		Password:    hash,
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
	}
	if err := s.store.Create(ctx, u); err != nil {
		if errors.Is(err, userrepo.ErrConstraint) {
			return nil, fmt.Errorf("%w: %v", ErrRegistrationFailed, err)
		}
		return nil, err
	}
	return u, nil
}

// Authenticate verifies email and password and issues a login token.
// Unknown email and wrong password both return ErrInvalidCredentials after
// exactly one bcrypt comparison.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.store.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			s.hasher.VerifyDummy(password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.hasher.Verify(u.Password, password) {
		return nil, ErrInvalidCredentials
	}

	tok, err := s.tokens.Issue(ctx, u, LoginTokenName)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &LoginResult{User: u, Token: tok}, nil
}

// Profile returns the user behind an authenticated identity.
func (s *Service) Profile(ctx context.Context, id tokenentity.Identity) (*entity.User, error) {
	u, err := s.store.GetByID(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// Logout revokes the token the caller authenticated with.
func (s *Service) Logout(ctx context.Context, id tokenentity.Identity) error {
	return s.tokens.Revoke(ctx, id.TokenID)
}
