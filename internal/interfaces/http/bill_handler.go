package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/hospital-api/internal/application/analytics"
	"github.com/jhoicas/hospital-api/internal/application/billing"
	"github.com/jhoicas/hospital-api/internal/application/dto"
	"github.com/jhoicas/hospital-api/internal/domain/entity"
	"github.com/jhoicas/hospital-api/internal/domain/revenue"
)

// BillHandler CRUD de facturas de un tipo (caja, laboratorio o farmacia).
// Se instancia una vez por tipo; las rutas son idénticas salvo el prefijo.
type BillHandler struct {
	uc       *billing.BillUseCase
	revenue  *analytics.RevenueUseCase
	source   revenue.Source
	validate *requestValidator
}

// NewBillHandler construye el handler para el tipo de factura de uc.
func NewBillHandler(uc *billing.BillUseCase, rev *analytics.RevenueUseCase, v *requestValidator) *BillHandler {
	return &BillHandler{uc: uc, revenue: rev, source: billSource(uc.Kind()), validate: v}
}

func billSource(kind entity.BillKind) revenue.Source {
	switch kind {
	case entity.BillKindLab:
		return revenue.SourceLabBills
	case entity.BillKindMedical:
		return revenue.SourceMedicalBills
	default:
		return revenue.SourceCashBills
	}
}

// Create godoc
// @Summary      Crear factura
// @Description  Facturas de farmacia descuentan stock (salvo skipStock). Las de caja reconcilian el paciente y responden {bill, patient}.
// @Tags         bills
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBillRequest  true  "Factura"
// @Success      201   {object}  dto.BillResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/v1/cashbills [post]
// @Router       /api/v1/labbills [post]
// @Router       /api/v1/medicalbills [post]
func (h *BillHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBillRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	bill, patient, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	if h.uc.Kind() == entity.BillKindCash {
		return c.Status(fiber.StatusCreated).JSON(dto.CashBillCreatedResponse{Bill: bill, Patient: patient})
	}
	return c.Status(fiber.StatusCreated).JSON(bill)
}

// List godoc
// @Summary      Listar facturas
// @Tags         bills
// @Security     Bearer
// @Produce      json
// @Param        contact  query  string  false  "Filtro por contacto (subcadena, sin distinguir mayúsculas)"
// @Success      200      {array}  dto.BillResponse
// @Router       /api/v1/cashbills [get]
// @Router       /api/v1/labbills [get]
// @Router       /api/v1/medicalbills [get]
func (h *BillHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), c.Query("contact"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener factura
// @Tags         bills
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.BillResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/cashbills/{id} [get]
func (h *BillHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar factura
// @Description  Parcial; no afecta stock. En caja, un contacto presente re-ejecuta la reconciliación.
// @Tags         bills
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la factura"
// @Param        body  body  dto.UpdateBillRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.BillResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/v1/cashbills/{id} [put]
func (h *BillHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateBillRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar factura
// @Tags         bills
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/cashbills/{id} [delete]
func (h *BillHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Bill deleted"})
}

// Stats godoc
// @Summary      Ingresos del tipo de factura
// @Tags         bills
// @Security     Bearer
// @Produce      json
// @Param        tz   query  string  false  "Zona horaria IANA"
// @Success      200  {object}  dto.RevenueStatsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/v1/cashbills/revenue/stats [get]
// @Router       /api/v1/labbills/revenue/stats [get]
// @Router       /api/v1/medicalbills/revenue/stats [get]
func (h *BillHandler) Stats(c *fiber.Ctx) error {
	out, err := h.revenue.Stats(c.UserContext(), h.source, c.Query("tz"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
