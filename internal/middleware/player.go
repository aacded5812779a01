package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// PlayerKeyLocal is the fiber.Ctx local that carries the caller's public key.
const PlayerKeyLocal = "publicKey"

// EnsurePlayerKey reads the caller's public key from the X-Player-Key header
// or the playerKey query parameter. The key identifies a seat; moves are
// still authorized by their proofs.
func EnsurePlayerKey() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Check if the key is already set
		if c.Locals(PlayerKeyLocal) != nil {
			return c.Next()
		}

		// Check header first
		publicKey := c.Get("X-Player-Key")
		if publicKey == "" {
			publicKey = c.Query("playerKey")
		}

		if publicKey == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Player key is required. Send X-Player-Key or playerKey.",
			})
		}

		// Store in context for this request
		c.Locals(PlayerKeyLocal, publicKey)
		return c.Next()
	}
}

// PlayerKey returns the key stored by EnsurePlayerKey.
func PlayerKey(c interface{ Locals(key interface{}, value ...interface{}) interface{} }) string {
	key, _ := c.Locals(PlayerKeyLocal).(string)
	return key
}
