package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/valuation"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/pdf"
)

// ValuationHandler maneja las consultas de valoración del almacén (protegido).
type ValuationHandler struct {
	uc     *valuation.ValuationUseCase
	report *pdf.StockReportGenerator
}

// NewValuationHandler construye el handler.
func NewValuationHandler(uc *valuation.ValuationUseCase, report *pdf.StockReportGenerator) *ValuationHandler {
	return &ValuationHandler{uc: uc, report: report}
}

func valuationError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

// TotalValue godoc
// @Summary      Valor total del almacén
// @Description  Suma de remaining_qty * unit_cost sobre todos los lotes abiertos.
// @Tags         warehouse
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/warehouse/value [get]
func (h *ValuationHandler) TotalValue(c *fiber.Ctx) error {
	total, err := h.uc.TotalValue(c.Context())
	if err != nil {
		return valuationError(c, err)
	}
	return c.JSON(fiber.Map{"total_value": total.StringFixed(2)})
}

// Summary godoc
// @Summary      Resumen por producto
// @Description  Giacencia y valor FIFO de cada producto con stock; acepta filtro por producto.
// @Tags         warehouse
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Filtrar a un solo producto"
// @Success      200  {object}  dto.ValuationReportDTO
// @Router       /api/warehouse/summary [get]
func (h *ValuationHandler) Summary(c *fiber.Ctx) error {
	report, err := h.uc.CurrentValuation(c.Context(), c.Query("product_id"))
	if err != nil {
		return valuationError(c, err)
	}
	return c.JSON(report)
}

// ProductLots godoc
// @Summary      Lotes abiertos de un producto
// @Description  Lotes con remaining_qty > 0 en orden FIFO (el primero es el próximo en consumirse).
// @Tags         warehouse
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {array}   dto.LotDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/lots [get]
func (h *ValuationHandler) ProductLots(c *fiber.Ctx) error {
	lots, err := h.uc.ListOpenLots(c.Context(), c.Params("id"))
	if err != nil {
		return valuationError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(lots), "lots": lots})
}

// History godoc
// @Summary      Valoración histórica a una fecha
// @Description  Reconstruye el estado de lotes reproduciendo cargas y descargas hasta la
//
//	fecha, en orden de registro, y valora los lotes supervivientes.
//
// @Tags         warehouse
// @Security     Bearer
// @Produce      json
// @Param        date  path  string  true  "Fecha de corte (YYYY-MM-DD)"
// @Success      200  {object}  dto.ValuationReportDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/warehouse/history/{date} [get]
func (h *ValuationHandler) History(c *fiber.Ctx) error {
	report, err := h.uc.ValuationAsOf(c.Context(), c.Params("date"))
	if err != nil {
		return valuationError(c, err)
	}
	return c.JSON(report)
}

// SummaryPDF godoc
// @Summary      Resumen del almacén en PDF
// @Description  Mismo contenido que /warehouse/summary, renderizado como PDF descargable.
//
//	Con ?date=YYYY-MM-DD genera la valoración histórica a esa fecha.
//
// @Tags         warehouse
// @Security     Bearer
// @Produce      application/pdf
// @Param        date  query  string  false  "Fecha de corte (YYYY-MM-DD); vacío = actual"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/warehouse/summary/pdf [get]
func (h *ValuationHandler) SummaryPDF(c *fiber.Ctx) error {
	var (
		report *dto.ValuationReportDTO
		err    error
	)
	if date := c.Query("date"); date != "" {
		report, err = h.uc.ValuationAsOf(c.Context(), date)
	} else {
		report, err = h.uc.CurrentValuation(c.Context(), "")
	}
	if err != nil {
		return valuationError(c, err)
	}

	bytes, err := h.report.GenerateSummaryPDF(report)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "PDF_GENERATION", Message: err.Error()})
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `attachment; filename="resumen-almacen.pdf"`)
	return c.Send(bytes)
}
