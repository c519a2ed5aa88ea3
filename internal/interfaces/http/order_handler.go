package http

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pyme-erp/internal/application/dto"
	"github.com/jhoicas/pyme-erp/internal/application/orders"
	"github.com/jhoicas/pyme-erp/internal/domain"
	"github.com/jhoicas/pyme-erp/internal/domain/entity"
	"github.com/jhoicas/pyme-erp/internal/domain/query"
	"github.com/shopspring/decimal"
)

// expandItems navegación de cabecera a líneas.
const expandItems = "items"

// OrderHandler cabeceras de SalesOrders o PurchaseOrders según kind.
type OrderHandler struct {
	kind entity.OrderKind
	uc   *orders.OrderUseCase
}

// NewOrderHandler construye el handler para un tipo de pedido.
func NewOrderHandler(kind entity.OrderKind, uc *orders.OrderUseCase) *OrderHandler {
	return &OrderHandler{kind: kind, uc: uc}
}

// orderFields valida que el body use los nombres del tipo y los traduce a la forma canónica.
func orderFields(kind entity.OrderKind, in dto.OrderRequest) (counterparty, responsible *string, date *time.Time, err error) {
	switch kind {
	case entity.KindSales:
		if in.SupplierID != nil || in.BuyerID != nil {
			return nil, nil, nil, domain.InvalidField("supplier_ID/buyer_ID", "no aplica a pedidos de venta")
		}
		counterparty, responsible = in.CustomerID, in.SalesPersonID
	case entity.KindPurchase:
		if in.CustomerID != nil || in.SalesPersonID != nil {
			return nil, nil, nil, domain.InvalidField("customer_ID/salesPerson_ID", "no aplica a pedidos de compra")
		}
		counterparty, responsible = in.SupplierID, in.BuyerID
	}
	if in.OrderDate != nil {
		v, cerr := query.Coerce(query.Time, *in.OrderDate)
		if cerr != nil {
			return nil, nil, nil, domain.InvalidField("orderDate", cerr.Error())
		}
		t := v.(time.Time)
		date = &t
	}
	return counterparty, responsible, date, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Create godoc
// @Summary      Crear pedido
// @Description  Nace en OPEN (venta) o CREATED (compra) con total 0; orderNo se genera si no viene.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OrderRequest  true  "Cabecera"
// @Success      201   {object}  dto.SalesOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /catalog/SalesOrders [post]
// @Router       /catalog/PurchaseOrders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.OrderRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	counterparty, responsible, date, err := orderFields(h.kind, in)
	if err != nil {
		return err
	}
	order, err := h.uc.Create(c.UserContext(), h.kind, orders.OrderInput{
		OrderNo:        deref(in.OrderNo),
		CounterpartyID: deref(counterparty),
		ResponsibleID:  deref(responsible),
		OrderDate:      date,
		CurrencyCode:   deref(in.CurrencyCode),
		Notes:          deref(in.Notes),
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(orderResponse(order, nil))
}

// Get godoc
// @Summary      Obtener pedido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id       path   string  true   "ID del pedido"
// @Param        $expand  query  string  false  "items"
// @Success      200  {object}  dto.SalesOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /catalog/SalesOrders/{id} [get]
// @Router       /catalog/PurchaseOrders/{id} [get]
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	expand, err := parseExpand(c, expandItems)
	if err != nil {
		return err
	}
	out, err := h.uc.Get(c.UserContext(), h.kind, c.Params("id"), expand[expandItems])
	if err != nil {
		return err
	}
	return c.JSON(orderResponse(out.Order, out.Items))
}

// List godoc
// @Summary      Listar pedidos
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        $filter   query  string  false  "p. ej. status eq 'OPEN'"
// @Param        $orderby  query  string  false  "p. ej. orderDate desc"
// @Param        $top      query  int     false  "Límite"
// @Param        $skip     query  int     false  "Offset"
// @Param        $expand   query  string  false  "items"
// @Success      200  {object}  dto.ListResponse[dto.SalesOrderResponse]
// @Router       /catalog/SalesOrders [get]
// @Router       /catalog/PurchaseOrders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	q, err := ParseListQuery(c, entity.OrderSchema(h.kind))
	if err != nil {
		return err
	}
	expand, err := parseExpand(c, expandItems)
	if err != nil {
		return err
	}
	list, err := h.uc.List(c.UserContext(), h.kind, q, expand[expandItems])
	if err != nil {
		return err
	}
	out := make([]any, 0, len(list))
	for _, row := range list {
		out = append(out, orderResponse(row.Order, row.Items))
	}
	return c.JSON(dto.NewList(out))
}

// Update godoc
// @Summary      Modificar cabecera de pedido
// @Description  status solo admite OPEN/CREATED -> CANCELLED y CONFIRMED/RECEIVED -> CLOSED.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del pedido"
// @Param        body  body  dto.OrderRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.SalesOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /catalog/SalesOrders/{id} [patch]
// @Router       /catalog/PurchaseOrders/{id} [patch]
func (h *OrderHandler) Update(c *fiber.Ctx) error {
	var in dto.OrderRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	counterparty, responsible, date, err := orderFields(h.kind, in)
	if err != nil {
		return err
	}
	order, err := h.uc.Update(c.UserContext(), h.kind, c.Params("id"), orders.OrderPatch{
		OrderNo:        in.OrderNo,
		CounterpartyID: counterparty,
		ResponsibleID:  responsible,
		OrderDate:      date,
		CurrencyCode:   in.CurrencyCode,
		Notes:          in.Notes,
		Status:         in.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(orderResponse(order, nil))
}

// Delete godoc
// @Summary      Eliminar pedido (con sus líneas)
// @Tags         orders
// @Security     Bearer
// @Param        id   path  string  true  "ID del pedido"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /catalog/SalesOrders/{id} [delete]
// @Router       /catalog/PurchaseOrders/{id} [delete]
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), h.kind, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ItemHandler líneas de SalesOrderItems o PurchaseOrderItems según kind.
type ItemHandler struct {
	kind entity.OrderKind
	uc   *orders.ItemUseCase
}

// NewItemHandler construye el handler de líneas.
func NewItemHandler(kind entity.OrderKind, uc *orders.ItemUseCase) *ItemHandler {
	return &ItemHandler{kind: kind, uc: uc}
}

// unitPrice precio unitario con el nombre del tipo (unitPrice en venta, unitCost en compra).
func unitPrice(kind entity.OrderKind, in dto.OrderItemRequest) (*decimal.Decimal, error) {
	if kind == entity.KindSales {
		if in.UnitCost != nil {
			return nil, domain.InvalidField("unitCost", "no aplica a líneas de venta")
		}
		return in.UnitPrice, nil
	}
	if in.UnitPrice != nil {
		return nil, domain.InvalidField("unitPrice", "no aplica a líneas de compra")
	}
	return in.UnitCost, nil
}

func (h *ItemHandler) toInput(in dto.OrderItemRequest) (orders.ItemInput, error) {
	price, err := unitPrice(h.kind, in)
	if err != nil {
		return orders.ItemInput{}, err
	}
	out := orders.ItemInput{OrderID: deref(in.OrderID), ProductID: deref(in.ProductID), UnitPrice: price}
	if in.Quantity != nil {
		out.Quantity = *in.Quantity
	}
	return out, nil
}

// Create godoc
// @Summary      Crear línea(s) de pedido
// @Description  Acepta un objeto o un arreglo (lote atómico). El total del pedido se recalcula una vez por pedido.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OrderItemRequest  true  "Línea o arreglo de líneas"
// @Success      201   {object}  dto.SalesOrderItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /catalog/SalesOrderItems [post]
// @Router       /catalog/PurchaseOrderItems [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	body := bytes.TrimSpace(c.Body())
	batch := len(body) > 0 && body[0] == '['
	var reqs []dto.OrderItemRequest
	if batch {
		if err := json.Unmarshal(body, &reqs); err != nil {
			return errBody(err)
		}
		if len(reqs) == 0 {
			return domain.InvalidField("body", "lote vacío")
		}
	} else {
		var one dto.OrderItemRequest
		if err := c.BodyParser(&one); err != nil {
			return errBody(err)
		}
		reqs = append(reqs, one)
	}
	inputs := make([]orders.ItemInput, 0, len(reqs))
	for _, r := range reqs {
		in, err := h.toInput(r)
		if err != nil {
			return err
		}
		inputs = append(inputs, in)
	}
	items, err := h.uc.CreateItems(c.UserContext(), h.kind, inputs)
	if err != nil {
		return err
	}
	if !batch {
		return c.Status(fiber.StatusCreated).JSON(itemResponse(h.kind, items[0]))
	}
	out := make([]any, 0, len(items))
	for _, it := range items {
		out = append(out, itemResponse(h.kind, it))
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewList(out))
}

// Get godoc
// @Summary      Obtener línea de pedido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la línea"
// @Success      200  {object}  dto.SalesOrderItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /catalog/SalesOrderItems/{id} [get]
// @Router       /catalog/PurchaseOrderItems/{id} [get]
func (h *ItemHandler) Get(c *fiber.Ctx) error {
	item, err := h.uc.Get(c.UserContext(), h.kind, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(itemResponse(h.kind, item))
}

// List godoc
// @Summary      Listar líneas de pedido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        $filter   query  string  false  "p. ej. order_ID eq '...'"
// @Param        $orderby  query  string  false  "p. ej. createdAt asc"
// @Param        $top      query  int     false  "Límite"
// @Param        $skip     query  int     false  "Offset"
// @Success      200  {object}  dto.ListResponse[dto.SalesOrderItemResponse]
// @Router       /catalog/SalesOrderItems [get]
// @Router       /catalog/PurchaseOrderItems [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	q, err := ParseListQuery(c, entity.OrderItemSchema(h.kind))
	if err != nil {
		return err
	}
	items, err := h.uc.List(c.UserContext(), h.kind, q)
	if err != nil {
		return err
	}
	out := make([]any, 0, len(items))
	for _, it := range items {
		out = append(out, itemResponse(h.kind, it))
	}
	return c.JSON(dto.NewList(out))
}

// Update godoc
// @Summary      Modificar línea de pedido
// @Description  Recalcula el importe de la línea y el total del pedido. order_ID no es editable.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la línea"
// @Param        body  body  dto.OrderItemRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.SalesOrderItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /catalog/SalesOrderItems/{id} [patch]
// @Router       /catalog/PurchaseOrderItems/{id} [patch]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	var in dto.OrderItemRequest
	if err := c.BodyParser(&in); err != nil {
		return errBody(err)
	}
	if in.OrderID != nil {
		return domain.InvalidField("order_ID", "una línea no cambia de pedido")
	}
	price, err := unitPrice(h.kind, in)
	if err != nil {
		return err
	}
	item, err := h.uc.UpdateItem(c.UserContext(), h.kind, c.Params("id"), orders.ItemPatch{
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		UnitPrice: price,
	})
	if err != nil {
		return err
	}
	return c.JSON(itemResponse(h.kind, item))
}

// Delete godoc
// @Summary      Eliminar línea de pedido
// @Tags         orders
// @Security     Bearer
// @Param        id   path  string  true  "ID de la línea"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /catalog/SalesOrderItems/{id} [delete]
// @Router       /catalog/PurchaseOrderItems/{id} [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteItem(c.UserContext(), h.kind, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
