package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/pyme-erp/internal/application/dto"
	"github.com/jhoicas/pyme-erp/internal/domain"
	"github.com/jhoicas/pyme-erp/internal/domain/entity"
	"github.com/jhoicas/pyme-erp/internal/domain/pricing"
	"github.com/jhoicas/pyme-erp/internal/domain/query"
	"github.com/jhoicas/pyme-erp/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. Stock se maneja vía movimientos.
type ProductUseCase struct {
	tx repository.TxRunner
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(tx repository.TxRunner) *ProductUseCase {
	return &ProductUseCase{tx: tx}
}

// Create crea un nuevo producto: precio > 0 obligatorio, isActive por defecto true y stock 0.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := pricing.ValidateProductPrice(in.Price); err != nil {
		return nil, &domain.FieldError{Field: "price", Err: err}
	}
	isActive := true
	if in.IsActive != nil {
		isActive = *in.IsActive
	}
	stock := 0
	if in.Stock != nil {
		if *in.Stock < 0 {
			return nil, domain.InvalidField("stock", "no puede ser negativo")
		}
		stock = *in.Stock
	}
	now := time.Now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		SKU:          strings.TrimSpace(in.SKU),
		Description:  in.Description,
		Price:        *in.Price,
		CurrencyCode: strings.ToUpper(in.CurrencyCode),
		IsActive:     isActive,
		Stock:        stock,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if product.Name == "" {
		return nil, domain.InvalidField("name", "obligatorio")
	}
	err := uc.tx.Run(ctx, func(uow repository.UnitOfWork) error {
		return uow.Products().Create(ctx, product)
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	var product *entity.Product
	err := uc.tx.Run(ctx, func(uow repository.UnitOfWork) (err error) {
		product, err = uow.Products().GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto. No permite modificar Stock (se maneja vía movimientos).
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if in.Stock != nil {
		return nil, domain.InvalidField("stock", "solo cambia mediante movimientos de inventario")
	}
	if in.Price != nil {
		if err := pricing.ValidateProductPrice(in.Price); err != nil {
			return nil, &domain.FieldError{Field: "price", Err: err}
		}
	}
	var product *entity.Product
	err := uc.tx.Run(ctx, func(uow repository.UnitOfWork) error {
		repo := uow.Products()
		p, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if in.Name != nil {
			if strings.TrimSpace(*in.Name) == "" {
				return domain.InvalidField("name", "obligatorio")
			}
			p.Name = strings.TrimSpace(*in.Name)
		}
		if in.SKU != nil {
			p.SKU = strings.TrimSpace(*in.SKU)
		}
		if in.Description != nil {
			p.Description = *in.Description
		}
		if in.Price != nil {
			p.Price = *in.Price
		}
		if in.CurrencyCode != nil {
			p.CurrencyCode = strings.ToUpper(*in.CurrencyCode)
		}
		if in.IsActive != nil {
			p.IsActive = *in.IsActive
		}
		p.UpdatedAt = time.Now()
		if err := repo.Update(ctx, p); err != nil {
			return err
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos con las opciones de consulta.
func (uc *ProductUseCase) List(ctx context.Context, q query.ListQuery) ([]dto.ProductResponse, error) {
	var list []*entity.Product
	err := uc.tx.Run(ctx, func(uow repository.UnitOfWork) (err error) {
		list, err = uow.Products().List(ctx, q)
		return err
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items, nil
}

// Delete elimina un producto por ID.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.tx.Run(ctx, func(uow repository.UnitOfWork) error {
		ok, err := uow.Products().Delete(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrNotFound
		}
		return nil
	})
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		SKU:          p.SKU,
		Description:  p.Description,
		Price:        p.Price,
		CurrencyCode: p.CurrencyCode,
		IsActive:     p.IsActive,
		Stock:        p.Stock,
		CreatedAt:    p.CreatedAt,
		ModifiedAt:   p.UpdatedAt,
	}
}
