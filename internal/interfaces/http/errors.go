package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/hospital-api/internal/application/dto"
	"github.com/jhoicas/hospital-api/internal/domain"
)

// Códigos de error de la API.
const (
	CodeValidation        = "VALIDATION"
	CodeInvalidBody       = "INVALID_BODY"
	CodeNotFound          = "NOT_FOUND"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeConflict          = "CONFLICT"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeInternal          = "INTERNAL"
)

// writeError traduce errores de dominio a status HTTP. Lo que no es de dominio es 500 y se registra.
func writeError(c *fiber.Ctx, err error) error {
	var (
		ve *domain.ValidationError
		is *domain.InsufficientStockError
		nf *domain.NotFoundError
		ce *domain.ConflictError
	)
	switch {
	case errors.As(err, &ve):
		return respondError(c, fiber.StatusBadRequest, CodeValidation, ve.Message)
	case errors.As(err, &is):
		return respondError(c, fiber.StatusBadRequest, CodeInsufficientStock, is.Error())
	case errors.As(err, &nf):
		return respondError(c, fiber.StatusNotFound, CodeNotFound, nf.Error())
	case errors.As(err, &ce):
		return respondError(c, fiber.StatusConflict, CodeConflict, ce.Error())
	case errors.Is(err, domain.ErrDuplicate):
		return respondError(c, fiber.StatusConflict, CodeConflict, "resource already exists")
	case errors.Is(err, domain.ErrNotFound):
		return respondError(c, fiber.StatusNotFound, CodeNotFound, "resource not found")
	case errors.Is(err, domain.ErrUnauthorized):
		return respondError(c, fiber.StatusUnauthorized, CodeUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		return respondError(c, fiber.StatusForbidden, CodeForbidden, "forbidden")
	}
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
	return respondError(c, fiber.StatusInternalServerError, CodeInternal, "internal server error")
}

func respondError(c *fiber.Ctx, status int, code, msg string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: msg, Code: code})
}

// parseBody decodifica el JSON del cuerpo. Un número mal formado responde "<valor> must be a number".
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		var ne *dto.NumberError
		if errors.As(err, &ne) {
			return &domain.ValidationError{Message: ne.Error()}
		}
		return &domain.ValidationError{Message: "invalid request body"}
	}
	return nil
}
