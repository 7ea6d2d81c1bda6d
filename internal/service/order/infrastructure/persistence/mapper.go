// internal/service/order/infrastructure/persistence/mapper.go
package persistence

import "tienda/internal/service/order/domain"

// --- 数据库模型与领域模型的转换函数 ---

func toDomainOrder(model *OrderModel) *domain.Order {
	if model == nil {
		return nil
	}
	return &domain.Order{
		ID:        model.ID,
		Status:    domain.Status(model.Status),
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func fromDomainOrder(order *domain.Order) *OrderModel {
	return &OrderModel{
		ID:        order.ID,
		Status:    int(order.Status),
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
	}
}

func toDomainDetail(model *OrderDetailModel) *domain.OrderDetail {
	if model == nil {
		return nil
	}
	return &domain.OrderDetail{
		ID:        model.ID,
		OrderID:   model.OrderID,
		ProductID: model.ProductID,
		Quantity:  model.Quantity,
		Price:     model.Price,
		CreatedAt: model.CreatedAt,
	}
}

func fromDomainDetail(detail *domain.OrderDetail) *OrderDetailModel {
	return &OrderDetailModel{
		ID:        detail.ID,
		OrderID:   detail.OrderID,
		ProductID: detail.ProductID,
		Quantity:  detail.Quantity,
		Price:     detail.Price,
		CreatedAt: detail.CreatedAt,
	}
}

func toDomainProduct(model *ProductModel) *domain.Product {
	if model == nil {
		return nil
	}
	return &domain.Product{
		ID:        model.ID,
		Name:      model.Name,
		Stock:     model.Stock,
		Price:     model.Price,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func fromDomainProduct(product *domain.Product) *ProductModel {
	return &ProductModel{
		ID:        product.ID,
		Name:      product.Name,
		Stock:     product.Stock,
		Price:     product.Price,
		CreatedAt: product.CreatedAt,
		UpdatedAt: product.UpdatedAt,
	}
}
