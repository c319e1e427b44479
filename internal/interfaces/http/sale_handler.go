package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/hospital-api/internal/application/analytics"
	"github.com/jhoicas/hospital-api/internal/application/dto"
	"github.com/jhoicas/hospital-api/internal/application/inventory"
	"github.com/jhoicas/hospital-api/internal/domain/revenue"
)

// SaleHandler ventas de farmacia y sus ingresos.
type SaleHandler struct {
	uc       *inventory.SaleUseCase
	revenue  *analytics.RevenueUseCase
	validate *requestValidator
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *inventory.SaleUseCase, rev *analytics.RevenueUseCase, v *requestValidator) *SaleHandler {
	return &SaleHandler{uc: uc, revenue: rev, validate: v}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Descuenta stock de cada línea en una transacción. Stock insuficiente → 400 sin cambios.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "items"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/v1/sale/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
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
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.SaleResponse
// @Router       /api/v1/sale/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Revenue godoc
// @Summary      Ingresos por ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        tz   query  string  false  "Zona horaria IANA (por defecto STATS_TZ)"
// @Success      200  {object}  dto.RevenueStatsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/v1/sale/sales/revenue [get]
func (h *SaleHandler) Revenue(c *fiber.Ctx) error {
	out, err := h.revenue.Stats(c.UserContext(), revenue.SourceSales, c.Query("tz"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
