package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
)

// BrandHandler maneja el catálogo de marcas (protegido).
type BrandHandler struct {
	uc *usecase.BrandUseCase
}

// NewBrandHandler construye el handler.
func NewBrandHandler(uc *usecase.BrandUseCase) *BrandHandler {
	return &BrandHandler{uc: uc}
}

// List godoc
// @Summary      Listar marcas con conteo de productos
// @Tags         brands
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.BrandDTO
// @Router       /api/brands [get]
func (h *BrandHandler) List(c *fiber.Ctx) error {
	brands, err := h.uc.List(c.Context())
	if err != nil {
		return catalogError(c, err)
	}
	items := make([]dto.BrandDTO, 0, len(brands))
	for _, b := range brands {
		items = append(items, dto.BrandDTO{
			ID:           b.ID,
			Name:         b.Name,
			ProductCount: b.ProductCount,
			CreatedAt:    b.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return c.JSON(fiber.Map{"total": len(items), "brands": items})
}

// Create godoc
// @Summary      Crear marca
// @Tags         brands
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBrandRequest  true  "name"
// @Success      201   {object}  map[string]string
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/brands [post]
func (h *BrandHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBrandRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	brand, err := h.uc.Create(c.Context(), in.Name)
	if err != nil {
		return catalogError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": brand.ID, "name": brand.Name})
}

// Update godoc
// @Summary      Renombrar marca
// @Tags         brands
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la marca"
// @Param        body  body  dto.CreateBrandRequest  true  "name"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/brands/{id} [put]
func (h *BrandHandler) Update(c *fiber.Ctx) error {
	var in dto.CreateBrandRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.Rename(c.Context(), c.Params("id"), in.Name); err != nil {
		return catalogError(c, err)
	}
	return c.JSON(fiber.Map{"message": "marca actualizada"})
}

// Delete godoc
// @Summary      Eliminar marca
// @Description  Rechaza con 409 si la marca todavía tiene productos asociados.
// @Tags         brands
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la marca"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/brands/{id} [delete]
func (h *BrandHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return catalogError(c, err)
	}
	return c.JSON(fiber.Map{"message": "marca eliminada"})
}
