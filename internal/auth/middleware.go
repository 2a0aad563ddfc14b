package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const UserIDKey contextKey = "user_id"

// Middleware validates the JWT token and adds the UserID to the context.
// Authentication failures are the one error class this service surfaces
// to callers: silently returning empty data here would mask a missing
// onboarding precondition.
func Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
		}

		userID, err := userIDFromHeader(authHeader)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}

		c.Set(string(UserIDKey), userID)
		return next(c)
	}
}

// OptionalMiddleware resolves a user when a valid token is supplied but
// lets anonymous requests through. The feed endpoint uses it to
// personalize scoring without requiring a session.
func OptionalMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if authHeader := c.Request().Header.Get("Authorization"); authHeader != "" {
			if userID, err := userIDFromHeader(authHeader); err == nil {
				c.Set(string(UserIDKey), userID)
			}
		}
		return next(c)
	}
}

func userIDFromHeader(authHeader string) (uuid.UUID, error) {
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return uuid.Nil, errors.New("Invalid Authorization header format")
	}

	secretKey, err := jwtSecretFromEnv()
	if err != nil {
		return uuid.Nil, errors.New("Server auth configuration error")
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secretKey, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, errors.New("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("Invalid token claims")
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return uuid.Nil, errors.New("Invalid token subject")
	}

	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, errors.New("Invalid user ID in token")
	}

	return userID, nil
}

// GetUserIDFromContext helper to retrieve the user ID.
func GetUserIDFromContext(c echo.Context) (uuid.UUID, error) {
	val := c.Get(string(UserIDKey))
	id, ok := val.(uuid.UUID)
	if !ok {
		return uuid.Nil, errors.New("user ID not found in context")
	}
	return id, nil
}
