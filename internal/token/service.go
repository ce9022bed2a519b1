package token

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/riadaman/sanctrum-rest-api/internal/token/entity"
	tokenrepo "github.com/riadaman/sanctrum-rest-api/internal/token/repo"
	userentity "github.com/riadaman/sanctrum-rest-api/internal/user/entity"
	"github.com/riadaman/sanctrum-rest-api/pkg/utilities"
)

// ErrInvalidToken covers every way a bearer token can fail to resolve.
var ErrInvalidToken = errors.New("invalid token")

// Store persists issued tokens.
type Store interface {
	Save(ctx context.Context, t *entity.AccessToken) error
	Get(ctx context.Context, id string) (*entity.AccessToken, error)
	Touch(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type Config struct {
	Secret []byte
}

// ConfigFromEnv reads TOKEN_SECRET. An empty secret is left for the caller to fill.
func ConfigFromEnv() Config {
	return Config{Secret: []byte(os.Getenv("TOKEN_SECRET"))}
}

// RandomSecret returns a fresh 32-byte HMAC key.
func RandomSecret() ([]byte, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// Claims carried by a bearer token. ID (jti) is the personal_access_tokens row id.
type Claims struct {
	jwt.RegisteredClaims
	Name  string `json:"name"`
	Nonce string `json:"nonce"`
}

// Service issues and resolves bearer tokens. Tokens are HS256 JWTs without
// expiry; a token stays valid while its row exists.
type Service struct {
	store  Store
	secret []byte
	now    func() time.Time
}

func NewService(store Store, cfg Config) (*Service, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token secret is empty")
	}
	return &Service{store: store, secret: cfg.Secret, now: time.Now}, nil
}

// Issue mints a token bound to u and persists its hash under name.
func (s *Service) Issue(ctx context.Context, u *userentity.User, name string) (string, error) {
	nonce := make([]byte, 32)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("token nonce: %w", err)
	}
	id := utilities.NewKSUID()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       id,
			Subject:  strconv.FormatInt(u.ID, 10),
			IssuedAt: jwt.NewNumericDate(s.now()),
		},
		Name:  name,
		Nonce: base64.RawURLEncoding.EncodeToString(nonce),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	rec := &entity.AccessToken{ID: id, UserID: u.ID, Name: name, TokenHash: hashToken(signed)}
	if err := s.store.Save(ctx, rec); err != nil {
		return "", err
	}
	return signed, nil
}

// Resolve maps a bearer string back to the identity it was issued for.
func (s *Service) Resolve(ctx context.Context, bearer string) (entity.Identity, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(bearer, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return entity.Identity{}, ErrInvalidToken
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || claims.ID == "" {
		return entity.Identity{}, ErrInvalidToken
	}

	rec, err := s.store.Get(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, tokenrepo.ErrNotFound) {
			return entity.Identity{}, ErrInvalidToken
		}
		return entity.Identity{}, err
	}
	if subtle.ConstantTimeCompare([]byte(rec.TokenHash), []byte(hashToken(bearer))) != 1 || rec.UserID != userID {
		return entity.Identity{}, ErrInvalidToken
	}

	// last_used_at is informational only
	_ = s.store.Touch(ctx, rec.ID)
	return entity.Identity{UserID: rec.UserID, TokenID: rec.ID}, nil
}

// Revoke deletes the token row so the bearer stops resolving.
func (s *Service) Revoke(ctx context.Context, tokenID string) error {
	if err := s.store.Delete(ctx, tokenID); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func hashToken(t string) string {
	sum := sha256.Sum256([]byte(t))
	return hex.EncodeToString(sum[:])
}
