package mapper

import (
	"time"

	"github.com/vibast-solutions/ms-go-storefront/app/entity"
	"github.com/vibast-solutions/ms-go-storefront/app/provider"
	"github.com/vibast-solutions/ms-go-storefront/app/types"
)

func OrderToResponse(item *entity.Order) *types.Order {
	if item == nil {
		return nil
	}

	items := make([]types.OrderItem, 0, len(item.Items))
	for _, line := range item.Items {
		items = append(items, types.OrderItem{
			ProductID:       line.ProductID,
			ProductName:     line.ProductName,
			Size:            line.Size,
			Color:           line.Color,
			Style:           line.Style,
			CustomText:      line.CustomText,
			Pattern:         line.Pattern,
			Quantity:        line.Quantity,
			PriceAtPurchase: line.PriceAtPurchase.StringFixed(2),
		})
	}

	s := item.Shipping
	return &types.Order{
		ID:      item.ID,
		OrderID: item.OrderID,
		UserID:  item.UserID,
		Items:   items,
		ShippingDetails: types.ShippingDetails{
			Name:    s.Name,
			Street:  s.Street,
			City:    s.City,
			State:   s.State,
			Zip:     s.Zip,
			Country: s.Country,
			Phone:   s.Phone,
		},
		TotalAmount:   item.TotalAmount.StringFixed(2),
		PaymentStatus: string(item.PaymentStatus),
		OrderStatus:   string(item.OrderStatus),
		TransactionID: derefString(item.TransactionID),
		AuthCode:      derefString(item.AuthCode),
		PaidAt:        formatTimePtr(item.PaidAt),
		CreatedAt:     formatTime(item.CreatedAt),
		UpdatedAt:     formatTime(item.UpdatedAt),
	}
}

func OrdersToResponse(items []*entity.Order) []*types.Order {
	result := make([]*types.Order, 0, len(items))
	for _, item := range items {
		result = append(result, OrderToResponse(item))
	}
	return result
}

func OrderStatusToResponse(item *entity.Order) *types.OrderStatusResponse {
	return &types.OrderStatusResponse{
		OrderID:       item.OrderID,
		PaymentStatus: string(item.PaymentStatus),
		TotalAmount:   item.TotalAmount.StringFixed(2),
		CreatedAt:     formatTime(item.CreatedAt),
	}
}

func IntentToBankPayment(intent *provider.Intent) *types.BankPayment {
	if intent == nil {
		return nil
	}
	return &types.BankPayment{
		BankURL: intent.GatewayURL,
		Params:  intent.Params.Clone(),
	}
}

func CartToResponse(item *entity.Cart) *types.Cart {
	if item == nil {
		return &types.Cart{Items: []types.CartItem{}, Total: "0.00"}
	}

	items := make([]types.CartItem, 0, len(item.Items))
	for _, line := range item.Items {
		items = append(items, types.CartItem{
			ID:              line.ID,
			ProductID:       line.ProductID,
			ProductName:     line.ProductName,
			Size:            line.Size,
			Color:           line.Color,
			Style:           line.Style,
			CustomText:      line.CustomText,
			Pattern:         line.Pattern,
			Quantity:        line.Quantity,
			PriceAtAddition: line.PriceAtAddition.StringFixed(2),
		})
	}

	return &types.Cart{Items: items, Total: item.Total.StringFixed(2)}
}

func ProductToResponse(item *entity.Product) *types.Product {
	if item == nil {
		return nil
	}

	return &types.Product{
		ID:              item.ID,
		Name:            item.Name,
		Description:     item.Description,
		Price:           item.Price.StringFixed(2),
		AvailableSizes:  cloneStrings(item.AvailableSizes),
		AvailableColors: cloneStrings(item.AvailableColors),
		Style:           item.Style,
		CreatedAt:       formatTime(item.CreatedAt),
		UpdatedAt:       formatTime(item.UpdatedAt),
	}
}

func ProductsToResponse(items []*entity.Product) []*types.Product {
	result := make([]*types.Product, 0, len(items))
	for _, item := range items {
		result = append(result, ProductToResponse(item))
	}
	return result
}

func DirectAuthToResponse(result *provider.DirectAuthResult) *types.DirectPaymentResponse {
	return &types.DirectPaymentResponse{
		OrderID:        result.OrderID,
		Approved:       result.Approved(),
		Response:       result.Response,
		AuthCode:       result.AuthCode,
		ProcReturnCode: result.ProcReturnCode,
		TransID:        result.TransID,
		ErrMsg:         result.ErrMsg,
	}
}

func PaymentCallbacksToResponse(items []*entity.PaymentCallback) []*types.PaymentCallback {
	result := make([]*types.PaymentCallback, 0, len(items))
	for _, item := range items {
		status := "processed"
		if item.Status == entity.PaymentCallbackRejected {
			status = "rejected"
		}
		result = append(result, &types.PaymentCallback{
			ID:        item.ID,
			ReturnOid: item.ReturnOid,
			Gateway:   item.Gateway,
			Response:  item.Response,
			Status:    status,
			Error:     derefString(item.Error),
			CreatedAt: formatTime(item.CreatedAt),
		})
	}
	return result
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func cloneStrings(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	return out
}
