package service

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	authDomain "github.com/allisson/legacyvault/internal/auth/domain"
	apperrors "github.com/allisson/legacyvault/internal/errors"
	userDomain "github.com/allisson/legacyvault/internal/user/domain"
)

// accessClaims is the JWT payload. The subject is the numeric user id.
type accessClaims struct {
	Email  string `json:"email,omitempty"`
	Wallet string `json:"wallet,omitempty"`
	jwt.RegisteredClaims
}

// jwtTokenService implements TokenService with HS256 signed JWTs.
type jwtTokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTTokenService creates a TokenService signing with secret. Tokens expire after ttl.
func NewJWTTokenService(secret []byte, ttl time.Duration) TokenService {
	return &jwtTokenService{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *jwtTokenService) Issue(user *userDomain.User) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)

	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	if user.Email != nil {
		claims.Email = *user.Email
	}
	if user.WalletAddress != nil {
		claims.Wallet = *user.WalletAddress
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, apperrors.Wrap(err, "failed to sign access token")
	}
	return token, expiresAt, nil
}

func (s *jwtTokenService) Parse(token string) (*authDomain.Principal, error) {
	claims := &accessClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, authDomain.ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return nil, authDomain.ErrInvalidToken
	}

	return &authDomain.Principal{
		UserID: userID,
		Email:  claims.Email,
		Wallet: claims.Wallet,
	}, nil
}
