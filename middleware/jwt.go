package middleware

import (
	"docport/config"
	"docport/session"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// SessionClaims carries the full session assertion inside the token so the
// permission gate never needs a database round trip.
type SessionClaims struct {
	Session session.Assertion `json:"session"`
	jwt.RegisteredClaims
}

// GenerateJWT signs a session assertion into a bearer token
func GenerateJWT(assertion *session.Assertion) (string, error) {
	claims := SessionClaims{
		Session: *assertion,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)), // expiry 24h
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	jwtSecret := []byte(config.AppConfig.JWTKey)

	return token.SignedString(jwtSecret)
}

// JWTMiddleware is a middleware to check for valid JWT token in the request
func JWTMiddleware(c *fiber.Ctx) error {
	// Get the token from the Authorization header
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status":  false,
			"message": "Missing or invalid Authorization header",
			"data":    fiber.Map{"redirect": "/login"},
		})
	}

	// The token should be prefixed with "Bearer "
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status":  false,
			"message": "Invalid Authorization header format",
			"data":    fiber.Map{"redirect": "/login"},
		})
	}

	// Extract the token part
	tokenString := authHeader[len("Bearer "):]

	assertion, err := ParseSessionToken(tokenString)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status":  false,
			"message": "Invalid or expired token",
			"data":    fiber.Map{"redirect": "/login"},
		})
	}

	// Stash the embedded assertion so handlers never re-derive identity
	c.Locals("session", assertion)

	// If valid, continue to the next handler
	return c.Next()
}

// ParseSessionToken validates a signed session token and returns the embedded
// assertion.
func ParseSessionToken(tokenString string) (*session.Assertion, error) {
	claims := new(SessionClaims)
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		jwtSecret := []byte(config.AppConfig.JWTKey)
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return &claims.Session, nil
}

// SessionFromCtx returns the assertion stored by JWTMiddleware, or nil when
// the request is unauthenticated.
func SessionFromCtx(c *fiber.Ctx) *session.Assertion {
	assertion, ok := c.Locals("session").(*session.Assertion)
	if !ok {
		return nil
	}
	return assertion
}

func JsonResponse(c *fiber.Ctx, statusCode int, status bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Validation failed!", errors)
}
