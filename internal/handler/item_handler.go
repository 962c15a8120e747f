package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"garage/internal/errors"
	"garage/internal/model"
	"garage/internal/service"
)

// ItemHandler handles item catalogue endpoints.
type ItemHandler struct {
	itemService service.ItemService
}

// NewItemHandler creates a new item handler.
func NewItemHandler(itemService service.ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

// ItemRequest carries item fields. Omitted fields are kept on update.
type ItemRequest struct {
	Name        *string             `json:"name" validate:"omitempty,max=255" example:"Brake pad"`
	Description *string             `json:"description" example:"Front axle, ceramic"`
	Category    *model.ItemCategory `json:"category" validate:"omitempty,oneof=part tool" swaggertype:"string" enums:"part,tool"`
	Price       *decimal.Decimal    `json:"price" swaggertype:"string" example:"49.90"`
	Quantity    *int                `json:"quantity" validate:"omitempty,min=0" example:"4"`
}

func (r ItemRequest) input() service.ItemInput {
	return service.ItemInput{
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Price:       r.Price,
		Quantity:    r.Quantity,
	}
}

// Create godoc
// @Summary Create an item
// @Tags items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ItemRequest true "Item"
// @Success 200 {object} model.Item
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /items/create [post]
func (h *ItemHandler) Create(c echo.Context) error {
	var req ItemRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}

	if err := c.Validate(&req); err != nil {
		return invalidFields(err)
	}

	item, err := h.itemService.Create(c.Request().Context(), req.input())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, item)
}

// List godoc
// @Summary List items
// @Tags items
// @Produce json
// @Param offset query int false "Rows to skip" default(0)
// @Param limit query int false "Page size, at most 100" default(100)
// @Success 200 {array} model.Item
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /items [get]
func (h *ItemHandler) List(c echo.Context) error {
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return fail(err)
	}
	limit, err := queryInt(c, "limit", service.DefaultListLimit)
	if err != nil {
		return fail(err)
	}

	items, err := h.itemService.List(c.Request().Context(), offset, limit)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, items)
}

// Get godoc
// @Summary Get item by id
// @Tags items
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} model.Item
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /items/{id} [get]
func (h *ItemHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(err)
	}

	item, err := h.itemService.Get(c.Request().Context(), id)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, item)
}

// Update godoc
// @Summary Update an item
// @Tags items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Item ID"
// @Param request body ItemRequest true "Fields to change"
// @Success 200 {object} model.Item
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /items/{id} [put]
func (h *ItemHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(err)
	}

	var req ItemRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}

	if err := c.Validate(&req); err != nil {
		return invalidFields(err)
	}

	item, err := h.itemService.Update(c.Request().Context(), id, req.input())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, item)
}

// Delete godoc
// @Summary Delete an item
// @Tags items
// @Produce json
// @Security BearerAuth
// @Param id path int true "Item ID"
// @Success 200 {object} OKResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /items/{id} [delete]
func (h *ItemHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(err)
	}

	if err := h.itemService.Delete(c.Request().Context(), id); err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, OKResponse{OK: true})
}

func pathID(c echo.Context) (uint, error) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("id %q: %w", raw, errors.ErrInvalidID)
	}
	return uint(id), nil
}

func queryInt(c echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", name, raw, errors.ErrInvalidPaging)
	}
	return v, nil
}
