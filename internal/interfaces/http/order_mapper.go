package http

import (
	"github.com/jhoicas/pyme-erp/internal/application/dto"
	"github.com/jhoicas/pyme-erp/internal/domain/entity"
)

// orderResponse serializa la cabecera con los nombres públicos de su tipo.
func orderResponse(o *entity.Order, items []*entity.OrderItem) any {
	if o.Kind == entity.KindPurchase {
		out := dto.PurchaseOrderResponse{
			ID: o.ID, OrderNo: o.OrderNo, SupplierID: o.CounterpartyID, BuyerID: o.ResponsibleID,
			OrderDate: o.OrderDate, CurrencyCode: o.CurrencyCode, Status: o.Status,
			TotalAmount: o.TotalAmount, Notes: o.Notes, CreatedAt: o.CreatedAt, ModifiedAt: o.UpdatedAt,
		}
		for _, it := range items {
			out.Items = append(out.Items, purchaseItemResponse(it))
		}
		return out
	}
	out := dto.SalesOrderResponse{
		ID: o.ID, OrderNo: o.OrderNo, CustomerID: o.CounterpartyID, SalesPersonID: o.ResponsibleID,
		OrderDate: o.OrderDate, CurrencyCode: o.CurrencyCode, Status: o.Status,
		TotalAmount: o.TotalAmount, Notes: o.Notes, CreatedAt: o.CreatedAt, ModifiedAt: o.UpdatedAt,
	}
	for _, it := range items {
		out.Items = append(out.Items, salesItemResponse(it))
	}
	return out
}

func itemResponse(kind entity.OrderKind, it *entity.OrderItem) any {
	if kind == entity.KindPurchase {
		return purchaseItemResponse(it)
	}
	return salesItemResponse(it)
}

func salesItemResponse(it *entity.OrderItem) dto.SalesOrderItemResponse {
	return dto.SalesOrderItemResponse{
		ID: it.ID, OrderID: it.OrderID, ProductID: it.ProductID, Quantity: it.Quantity,
		UnitPrice: it.UnitPrice, LineAmount: it.LineTotal, CreatedAt: it.CreatedAt,
	}
}

func purchaseItemResponse(it *entity.OrderItem) dto.PurchaseOrderItemResponse {
	return dto.PurchaseOrderItemResponse{
		ID: it.ID, OrderID: it.OrderID, ProductID: it.ProductID, Quantity: it.Quantity,
		UnitCost: it.UnitPrice, LineTotal: it.LineTotal, CreatedAt: it.CreatedAt,
	}
}
