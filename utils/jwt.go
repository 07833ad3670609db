package utils

import (
	"errors"
	"time"

	"lokai/config"

	"github.com/golang-jwt/jwt"
)

// Identity is what the external identity provider vouches for: who the
// caller is and which role they act in.
type Identity struct {
	UserID string
	Role   string
}

const (
	RoleBuyer  = "buyer"
	RoleVendor = "vendor"
	RoleAdmin  = "admin"
)

var ErrInvalidToken = errors.New("invalid token")

func secretKey() []byte {
	return []byte(config.AppConfig.JWTSecret)
}

// GenerateToken creates a signed JWT carrying the subject and role claims.
func GenerateToken(subject, role string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
}

// ExtractIdentity validates the token and returns the identity it carries.
// Tokens without a role claim are treated as buyers.
func ExtractIdentity(tokenString string) (Identity, error) {
	if len(secretKey()) == 0 {
		return Identity{}, errors.New("jwt secret not configured")
	}
	token, err := ValidateToken(tokenString)
	if err != nil {
		return Identity{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return Identity{}, errors.New("token does not contain a valid 'sub' claim")
	}

	role, _ := claims["role"].(string)
	switch role {
	case RoleBuyer, RoleVendor, RoleAdmin:
	case "":
		role = RoleBuyer
	default:
		return Identity{}, ErrInvalidToken
	}
	return Identity{UserID: sub, Role: role}, nil
}
