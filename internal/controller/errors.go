package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Tejaaswini/zeroking/internal/errors"
)

var errorStatuses = []struct {
	err    error
	status int
}{
	{errors.ErrAuthorizationFailed, fiber.StatusUnauthorized},
	{errors.ErrIllegalMove, fiber.StatusUnprocessableEntity},
	{errors.ErrIllegalCastle, fiber.StatusConflict},
	{errors.ErrMalformedInput, fiber.StatusBadRequest},
	{errors.ErrGameNotFound, fiber.StatusNotFound},
	{errors.ErrNotParticipant, fiber.StatusForbidden},
	{errors.ErrGameOver, fiber.StatusConflict},
	{errors.ErrNoDrawOffer, fiber.StatusConflict},
	{errors.ErrDrawPending, fiber.StatusConflict},
	{errors.ErrAlreadyQueued, fiber.StatusConflict},
}

func errorStatus(err error) int {
	for _, es := range errorStatuses {
		if errors.Is(err, es.err) {
			return es.status
		}
	}
	return fiber.StatusInternalServerError
}

func sendError(c *fiber.Ctx, err error) error {
	status := errorStatus(err)
	body := fiber.Map{"error": err.Error()}
	if kind := errors.KindOf(err); kind != errors.KindNone {
		body["reason"] = kind
	}
	if status == fiber.StatusInternalServerError {
		body["error"] = "internal error"
	}
	return c.Status(status).JSON(body)
}
