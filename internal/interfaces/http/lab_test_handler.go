package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/hospital-api/internal/application/billing"
	"github.com/jhoicas/hospital-api/internal/application/dto"
)

// LabTestHandler catálogo de exámenes de laboratorio.
type LabTestHandler struct {
	uc       *billing.LabTestUseCase
	validate *requestValidator
}

func NewLabTestHandler(uc *billing.LabTestUseCase, v *requestValidator) *LabTestHandler {
	return &LabTestHandler{uc: uc, validate: v}
}

// List godoc
// @Summary      Listar exámenes
// @Tags         labtests
// @Security     Bearer
// @Produce      json
// @Param        q    query  string  false  "Búsqueda por código o nombre"
// @Success      200  {array}  dto.LabTestResponse
// @Router       /api/v1/labtests [get]
func (h *LabTestHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), c.Query("q"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear examen
// @Tags         labtests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLabTestRequest  true  "code, name, price"
// @Success      201   {object}  dto.LabTestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/labtests [post]
func (h *LabTestHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLabTestRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	if err := h.validate.Struct(in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
