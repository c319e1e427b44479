package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/hospital-api/internal/application/analytics"
	"github.com/jhoicas/hospital-api/internal/application/dto"
	"github.com/jhoicas/hospital-api/internal/application/patient"
)

// PatientHandler registro de pacientes, búsqueda y estadísticas IPD/OPD.
type PatientHandler struct {
	uc       *patient.UseCase
	revenue  *analytics.RevenueUseCase
	validate *requestValidator
}

// NewPatientHandler construye el handler.
func NewPatientHandler(uc *patient.UseCase, rev *analytics.RevenueUseCase, v *requestValidator) *PatientHandler {
	return &PatientHandler{uc: uc, revenue: rev, validate: v}
}

// Create godoc
// @Summary      Registrar paciente
// @Tags         patients
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PatientRequest  true  "Paciente"
// @Success      201   {object}  dto.PatientResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/patients [post]
func (h *PatientHandler) Create(c *fiber.Ctx) error {
	var in dto.PatientRequest
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

// List godoc
// @Summary      Listar pacientes
// @Description  Incluye los ingresos diarios, mensuales y anuales del registro.
// @Tags         patients
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.PatientListResponse
// @Router       /api/v1/patients [get]
func (h *PatientHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener paciente
// @Tags         patients
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del paciente"
// @Success      200  {object}  dto.PatientResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/patients/{id} [get]
func (h *PatientHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar paciente
// @Tags         patients
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del paciente"
// @Param        body  body  dto.PatientRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.PatientResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/patients/{id} [put]
func (h *PatientHandler) Update(c *fiber.Ctx) error {
	var in dto.PatientRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	if err := h.validate.Struct(in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar paciente
// @Tags         patients
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del paciente"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/patients/{id} [delete]
func (h *PatientHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Patient deleted"})
}

// Stats godoc
// @Summary      Estadísticas de pacientes
// @Description  Ingresos y conteos por día, mes y año, separados en IPD y OPD.
// @Tags         patients
// @Security     Bearer
// @Produce      json
// @Param        tz   query  string  false  "Zona horaria IANA"
// @Success      200  {object}  dto.PatientStatsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/v1/patients/stats [get]
func (h *PatientHandler) Stats(c *fiber.Ctx) error {
	out, err := h.revenue.PatientStats(c.UserContext(), c.Query("tz"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Filter godoc
// @Summary      Buscar paciente
// @Description  Primer registro (por fecha) que coincide con ipd, contact o q.
// @Tags         patients
// @Security     Bearer
// @Produce      json
// @Param        ipd      query  string  false  "Número IPD"
// @Param        contact  query  string  false  "Contacto"
// @Param        q        query  string  false  "Texto libre"
// @Success      200      {object}  dto.PatientResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      404      {object}  dto.ErrorResponse
// @Router       /api/v1/patients/filter [get]
func (h *PatientHandler) Filter(c *fiber.Ctx) error {
	out, err := h.uc.Filter(c.UserContext(), c.Query("ipd"), c.Query("contact"), c.Query("q"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
