package service

import (
	"context"
	"encoding/hex"
	"errors"
	"time"

	"cookbook/internal/model"
	"cookbook/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	// AccessTokenLifetime bounds how long a changed permission set can lag
	// behind: the bitmask is baked into the token at issuance.
	AccessTokenLifetime  = 15 * time.Minute
	RefreshTokenLifetime = 365 * 24 * time.Hour
	// TokenLeeway is the clock skew tolerated when validating expiry.
	TokenLeeway = 10 * time.Second
)

// Permission is a named capability. The bit table below fixes the wire
// encoding of each name inside the access token's scopes claim; entries
// must never be renumbered.
type Permission string

const PermissionAdmin Permission = "admin"

var permissionBits = []struct {
	Name Permission
	Bit  int64
}{
	{PermissionAdmin, 1 << 0},
}

// PermissionBitmask folds named permissions into their bitmask. Unknown
// names contribute nothing.
func PermissionBitmask(permissions ...Permission) int64 {
	var mask int64
	for _, permission := range permissions {
		for _, entry := range permissionBits {
			if entry.Name == permission {
				mask |= entry.Bit
			}
		}
	}
	return mask
}

// PermissionNames derives the named set back from a bitmask by testing
// each table entry.
func PermissionNames(mask int64) []Permission {
	names := []Permission{}
	for _, entry := range permissionBits {
		if mask&entry.Bit == entry.Bit {
			names = append(names, entry.Name)
		}
	}
	return names
}

// AccessClaims is the payload of a short-lived access token.
type AccessClaims struct {
	Scopes int64 `json:"scopes"`
	jwt.RegisteredClaims
}

// RefreshClaims is the payload of a refresh token; RegisteredClaims.ID
// carries the jti that is also persisted.
type RefreshClaims struct {
	jwt.RegisteredClaims
}

// TokenPair is the result of a login or refresh exchange. The refresh
// token travels in an HTTP-only cookie, so it is excluded from the JSON
// body.
type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	TokenType        string    `json:"token_type"`
	RefreshToken     string    `json:"-"`
	RefreshExpiresAt time.Time `json:"-"`
}

// ParseAccessToken verifies signature and expiry (with leeway) and returns
// the claims. All failures wrap ErrUnauthenticated.
func ParseAccessToken(secret []byte, tokenString string) (*AccessClaims, error) {
	var claims AccessClaims
	if err := parseToken(secret, tokenString, &claims); err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, errorOf(ErrUnauthenticated, "invalid token")
	}
	return &claims, nil
}

func parseToken(secret []byte, tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	}, jwt.WithLeeway(TokenLeeway))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return errorOf(ErrUnauthenticated, "expired token")
		}
		return errorOf(ErrUnauthenticated, "invalid token")
	}
	if !token.Valid {
		return errorOf(ErrUnauthenticated, "invalid token")
	}
	return nil
}

// AuthService authenticates users and manages the access/refresh token
// pair.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}

type authService struct {
	txm    repository.TransactionManager
	users  repository.UserRepository
	tokens repository.RefreshTokenRepository
	secret []byte
}

func NewAuthService(txm repository.TransactionManager, users repository.UserRepository, tokens repository.RefreshTokenRepository, secret []byte) AuthService {
	return &authService{txm: txm, users: users, tokens: tokens, secret: secret}
}

// Login verifies the credentials and issues a fresh token pair. Unknown
// username, wrong password and disabled account all fail with the same
// generic error.
func (s *authService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if user.Disabled {
		return nil, ErrInvalidCredentials
	}

	var pair *TokenPair
	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		pair, err = s.issue(txCtx, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Refresh exchanges a valid refresh token for a brand-new pair. The
// consumed jti row is deliberately left in place; a presented jti with no
// row means the token was rotated away (or forged) and every refresh token
// of the claimed subject is revoked before the request fails.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	var claims RefreshClaims
	if err := parseToken(s.secret, refreshToken, &claims); err != nil {
		return nil, err
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, errorOf(ErrForbidden, "invalid token")
	}

	if _, err := s.tokens.GetByID(ctx, claims.ID); err != nil {
		// Revoke-all must commit even though the request fails, so it
		// runs in its own transaction.
		revokeErr := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
			return s.tokens.DeleteAllForUser(txCtx, claims.Subject)
		})
		if revokeErr != nil {
			return nil, revokeErr
		}
		return nil, errorOf(ErrForbidden, "invalid token")
	}

	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil || user.Disabled {
		return nil, ErrInvalidCredentials
	}

	var pair *TokenPair
	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		pair, err = s.issue(txCtx, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

func (s *authService) issue(ctx context.Context, user *model.User) (*TokenPair, error) {
	now := time.Now().UTC()

	accessClaims := AccessClaims{
		Scopes: user.Permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenLifetime)),
		},
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	jti := hex.EncodeToString(id[:])
	refreshExpires := now.Add(RefreshTokenLifetime)
	refreshClaims := RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(refreshExpires),
		},
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	row := model.RefreshToken{ID: jti, UserID: user.ID, ExpiresAt: refreshExpires}
	if err := s.tokens.Create(ctx, &row); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:      accessToken,
		TokenType:        "bearer",
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExpires,
	}, nil
}
