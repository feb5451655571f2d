package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// LedgerHandler maneja las peticiones HTTP del libro de movimientos (protegido).
type LedgerHandler struct {
	uc *ledger.LedgerUseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(uc *ledger.LedgerUseCase) *LedgerHandler {
	return &LedgerHandler{uc: uc}
}

// ledgerError traduce los errores del motor a respuestas HTTP. La escalera distingue
// los errores tipados (faltante, conflicto de consumo) de los centinelas planos.
func ledgerError(c *fiber.Ctx, err error) error {
	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:      "INSUFFICIENT_STOCK",
			Message:   stockErr.Error(),
			Shortfall: stockErr.Shortfall.StringFixed(2),
		})
	}
	var conflictErr *domain.ConflictError
	if errors.As(err, &conflictErr) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: conflictErr.Error()})
	}
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_MOVEMENT", Message: "ya existe una carga idéntica para ese documento"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

// RecordMovement godoc
// @Summary      Registrar movimiento (carga o descarga)
// @Description  kind=load crea un lote nuevo; kind=unload consume lotes FIFO con
//
//	fecha de carga <= business_date y devuelve el costo FIFO.
//
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "kind, product_id, quantity, business_date; unit_price y document_ref para cargas"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *LedgerHandler) RecordMovement(c *fiber.Ctx) error {
	var in dto.RecordMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	switch in.Kind {
	case entity.MovementKindLoad:
		if in.UnitPrice == nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "unit_price es requerido para cargas"})
		}
		out, err := h.uc.RecordLoad(c.Context(), ledger.LoadInput{
			ProductID:       in.ProductID,
			Quantity:        in.Quantity,
			UnitPrice:       *in.UnitPrice,
			BusinessDate:    in.BusinessDate,
			DocumentRef:     in.DocumentRef,
			CounterpartyRef: in.CounterpartyRef,
		})
		if err != nil {
			return ledgerError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(dto.MovementResponse{MovementID: out.MovementID, LotID: out.LotID})
	case entity.MovementKindUnload:
		out, err := h.uc.RecordUnload(c.Context(), ledger.UnloadInput{
			ProductID:       in.ProductID,
			Quantity:        in.Quantity,
			BusinessDate:    in.BusinessDate,
			DocumentRef:     in.DocumentRef,
			CounterpartyRef: in.CounterpartyRef,
		})
		if err != nil {
			return ledgerError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(dto.MovementResponse{MovementID: out.MovementID, TotalCost: out.TotalCost.StringFixed(2)})
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "kind debe ser load o unload"})
	}
}

// EditMovement godoc
// @Summary      Editar movimiento
// @Description  Revierte el efecto original y reaplica con los nuevos valores en una
//
//	sola transacción; si la reasignación FIFO no alcanza, nada cambia.
//
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del movimiento"
// @Param        body  body  dto.EditMovementRequest  true  "quantity, business_date; unit_price para cargas"
// @Success      200   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [put]
func (h *LedgerHandler) EditMovement(c *fiber.Ctx) error {
	var in dto.EditMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.EditMovement(c.Context(), ledger.EditInput{
		MovementID:      c.Params("id"),
		Quantity:        in.Quantity,
		UnitPrice:       in.UnitPrice,
		BusinessDate:    in.BusinessDate,
		DocumentRef:     in.DocumentRef,
		CounterpartyRef: in.CounterpartyRef,
	})
	if err != nil {
		return ledgerError(c, err)
	}
	resp := dto.MovementResponse{MovementID: c.Params("id")}
	if out.TotalCost != nil {
		resp.TotalCost = out.TotalCost.StringFixed(2)
	}
	return c.JSON(resp)
}

// DeleteMovement godoc
// @Summary      Anular movimiento
// @Description  Cargas: solo si el lote está intacto. Descargas: restaura las
//
//	cantidades consumidas en sus lotes de origen.
//
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del movimiento"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [delete]
func (h *LedgerHandler) DeleteMovement(c *fiber.Ctx) error {
	if err := h.uc.DeleteMovement(c.Context(), c.Params("id")); err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(fiber.Map{"message": "movimiento anulado"})
}

// ListMovements godoc
// @Summary      Historial de movimientos
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int     false  "máximo de filas (default 50)"
// @Param        offset  query  int     false  "desplazamiento"
// @Param        up_to   query  string  false  "solo movimientos con business_date <= esta fecha (YYYY-MM-DD)"
// @Success      200  {array}   dto.MovementDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements [get]
func (h *LedgerHandler) ListMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	var (
		movements []*entity.Movement
		err       error
	)
	if upTo := c.Query("up_to"); upTo != "" {
		movements, err = h.uc.ListMovementsUpTo(c.Context(), upTo, page.Limit, page.Offset)
	} else {
		movements, err = h.uc.ListMovements(c.Context(), page.Limit, page.Offset)
	}
	if err != nil {
		return ledgerError(c, err)
	}

	items := make([]dto.MovementDTO, 0, len(movements))
	for _, m := range movements {
		items = append(items, toMovementDTO(m))
	}
	return c.JSON(fiber.Map{"total": len(items), "movements": items})
}

func toMovementDTO(m *entity.Movement) dto.MovementDTO {
	out := dto.MovementDTO{
		ID:              m.ID,
		ProductID:       m.ProductID,
		ProductName:     m.ProductName,
		Kind:            m.Kind,
		Quantity:        m.Quantity.StringFixed(2),
		TotalValue:      m.TotalValue.StringFixed(2),
		BusinessDate:    m.BusinessDate.Format("2006-01-02"),
		RegisteredAt:    m.RegisteredAt.Format("2006-01-02 15:04:05"),
		DocumentRef:     m.DocumentRef,
		CounterpartyRef: m.CounterpartyRef,
	}
	if m.UnitPrice != nil {
		s := m.UnitPrice.StringFixed(2)
		out.UnitPrice = &s
	}
	if m.Kind == entity.MovementKindUnload {
		s := m.UnloadUnitCost().StringFixed(2)
		out.UnloadUnitCost = &s
	}
	return out
}
