// Package session derives the acting user for a request from its
// verified JWT claims. Identity is always per-request; there is no
// process-wide current user.
package session

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var ErrNoSession = errors.New("no authenticated user in request context")

// Actor is the identity attached to a mutating operation.
type Actor struct {
	ID       uint
	Username string
	Role     string
}

// CurrentActor extracts the acting user from the JWT the auth
// middleware stored in context locals.
func CurrentActor(c *fiber.Ctx) (Actor, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return Actor{}, ErrNoSession
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Actor{}, ErrNoSession
	}

	sub, _ := claims["sub"].(string)
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return Actor{}, ErrNoSession
	}

	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)

	return Actor{ID: uint(id), Username: username, Role: role}, nil
}
