package http

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pyme-erp/internal/application/catalog"
	"github.com/jhoicas/pyme-erp/internal/application/dto"
	"github.com/jhoicas/pyme-erp/internal/domain"
	"github.com/jhoicas/pyme-erp/internal/domain/entity"
)

// CatalogHandler CRUD genérico de los conjuntos registrados (Customers, Suppliers, Employees...).
type CatalogHandler struct {
	svc *catalog.Service
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(svc *catalog.Service) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

func (h *CatalogHandler) set(c *fiber.Ctx) (*entity.EntitySet, error) {
	name := c.Params("set")
	set, ok := h.svc.Set(name)
	if !ok {
		return nil, fmt.Errorf("%w: conjunto %s", domain.ErrNotFound, name)
	}
	return set, nil
}

// decodeRecord decodifica el body como objeto JSON conservando los números como json.Number.
func decodeRecord(c *fiber.Ctx) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.UseNumber()
	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		return nil, errBody(err)
	}
	if body == nil {
		return nil, domain.InvalidField("body", "se esperaba un objeto JSON")
	}
	return body, nil
}

// List godoc
// @Summary      Listar registros de un conjunto
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        set       path   string  true   "Customers, Suppliers, Employees, Contracts, Payrolls, CompanySettings, Currencies"
// @Param        $filter   query  string  false  "p. ej. isActive eq true"
// @Param        $orderby  query  string  false  "p. ej. name asc"
// @Param        $top      query  int     false  "Límite"
// @Param        $skip     query  int     false  "Offset"
// @Success      200  {object}  dto.ListResponse[entity.Record]
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /catalog/{set} [get]
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	set, err := h.set(c)
	if err != nil {
		return err
	}
	q, err := ParseListQuery(c, set.Schema())
	if err != nil {
		return err
	}
	out, err := h.svc.List(c.UserContext(), set, q)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewList(out))
}

// Get godoc
// @Summary      Obtener registro
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        set  path  string  true  "Conjunto"
// @Param        id   path  string  true  "Clave"
// @Success      200  {object}  entity.Record
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /catalog/{set}/{id} [get]
func (h *CatalogHandler) Get(c *fiber.Ctx) error {
	set, err := h.set(c)
	if err != nil {
		return err
	}
	out, err := h.svc.Get(c.UserContext(), set, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear registro
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        set   path  string  true  "Conjunto"
// @Param        body  body  entity.Record  true  "Campos del registro"
// @Success      201   {object}  entity.Record
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /catalog/{set} [post]
func (h *CatalogHandler) Create(c *fiber.Ctx) error {
	set, err := h.set(c)
	if err != nil {
		return err
	}
	body, err := decodeRecord(c)
	if err != nil {
		return err
	}
	out, err := h.svc.Create(c.UserContext(), set, body)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Modificar registro
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        set   path  string  true  "Conjunto"
// @Param        id    path  string  true  "Clave"
// @Param        body  body  entity.Record  true  "Campos a modificar"
// @Success      200   {object}  entity.Record
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /catalog/{set}/{id} [patch]
func (h *CatalogHandler) Update(c *fiber.Ctx) error {
	set, err := h.set(c)
	if err != nil {
		return err
	}
	body, err := decodeRecord(c)
	if err != nil {
		return err
	}
	out, err := h.svc.Update(c.UserContext(), set, c.Params("id"), body)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar registro
// @Tags         catalog
// @Security     Bearer
// @Param        set  path  string  true  "Conjunto"
// @Param        id   path  string  true  "Clave"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /catalog/{set}/{id} [delete]
func (h *CatalogHandler) Delete(c *fiber.Ctx) error {
	set, err := h.set(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.UserContext(), set, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
