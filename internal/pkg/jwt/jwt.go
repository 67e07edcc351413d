package jwt

import (
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/employee"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const TokenTypeAccess = "access"

type Service interface {
	GenerateAccessToken(employeeID string, email string, name string, role employee.Role) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
	RevokeToken(token string, expiresAt int64)
	IsTokenRevoked(token string) bool
}

type JWTService struct {
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
	revokedTokens             map[string]int64
	now                       func() time.Time
	mu                        sync.RWMutex
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revokedTokens:             make(map[string]int64),
		now:                       time.Now,
	}
}

func (j *JWTService) GenerateAccessToken(employeeID string, email string, name string, role employee.Role) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = j.now().Add(expDuration).Unix()

	claims := map[string]interface{}{
		"employee_id": employeeID,
		"email":       email,
		"name":        name,
		"role":        string(role),
		"type":        TokenTypeAccess,
		"exp":         expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// RevokeToken blacklists token until expiresAt, after which the signature check rejects it anyway.
func (j *JWTService) RevokeToken(token string, expiresAt int64) {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now().Unix()
	for t, exp := range j.revokedTokens {
		if exp <= now {
			delete(j.revokedTokens, t)
		}
	}
	j.revokedTokens[token] = expiresAt
}

func (j *JWTService) IsTokenRevoked(token string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, revoked := j.revokedTokens[token]
	return revoked
}
