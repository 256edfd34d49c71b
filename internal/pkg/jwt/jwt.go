package jwt

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TokenTypeAccess = "access"
	TokenTypeSSE    = "sse"

	sseTokenLifetime = 5 * time.Minute
)

type Service interface {
	GenerateAccessToken(userID string, role user.Role) (token string, expiresAt int64, err error)
	// GenerateSSEToken mints a short-lived token that EventSource clients
	// pass as a query parameter, since they cannot set headers.
	GenerateSSEToken(userID string, role user.Role) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (user.Identity, error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpiration time.Duration
	tokenAuth             *jwtauth.JWTAuth
	now                   func() time.Time
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) (Service, error) {
	exp, err := time.ParseDuration(accessTokenExpirationTime)
	if err != nil {
		return nil, fmt.Errorf("invalid access token expiration %q: %w", accessTokenExpirationTime, err)
	}
	return &JWTService{
		accessTokenExpiration: exp,
		tokenAuth:             jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                   time.Now,
	}, nil
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(userID string, role user.Role) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.accessTokenExpiration).Unix()
	_, token, err = j.tokenAuth.Encode(map[string]any{
		"user_id": userID,
		"role":    string(role),
		"type":    TokenTypeAccess,
		"exp":     expiresAt,
	})
	return token, expiresAt, err
}

func (j *JWTService) GenerateSSEToken(userID string, role user.Role) (token string, expiresIn int, err error) {
	_, token, err = j.tokenAuth.Encode(map[string]any{
		"user_id": userID,
		"role":    string(role),
		"type":    TokenTypeSSE,
		"exp":     j.now().Add(sseTokenLifetime).Unix(),
	})
	if err != nil {
		return "", 0, err
	}
	return token, int(sseTokenLifetime.Seconds()), nil
}

// ValidateSSEToken checks signature, expiry and token type and returns the caller.
func (j *JWTService) ValidateSSEToken(tokenString string) (user.Identity, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return user.Identity{}, err
	}

	if tokenType, ok := token.Get("type"); !ok || tokenType != TokenTypeSSE {
		return user.Identity{}, jwt.ErrInvalidJWT()
	}

	userIDVal, _ := token.Get("user_id")
	userID, ok := userIDVal.(string)
	if !ok || userID == "" {
		return user.Identity{}, jwt.ErrInvalidJWT()
	}
	roleVal, _ := token.Get("role")
	role, ok := roleVal.(string)
	if !ok || role == "" {
		return user.Identity{}, jwt.ErrInvalidJWT()
	}

	return user.Identity{UserID: userID, Role: user.Role(role)}, nil
}
