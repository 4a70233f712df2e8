package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/appetiteclub/frontdesk/pkg/enums/orderstatus"
)

// OrderDataAccess wraps the /orders endpoints.
type OrderDataAccess struct {
	client *Client
}

func (da *OrderDataAccess) List(ctx context.Context) ([]Order, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("order client not configured")
	}

	var orders []Order
	err := da.client.do(ctx, call{op: "list orders", method: http.MethodGet, path: "/orders", protected: true}, &orders)
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (da *OrderDataAccess) Get(ctx context.Context, id string) (*Order, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("order client not configured")
	}
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	var order Order
	err := da.client.do(ctx, call{op: "get order", method: http.MethodGet, path: "/orders/" + id, protected: true}, &order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (da *OrderDataAccess) ByTable(ctx context.Context, tableID string) ([]Order, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("order client not configured")
	}
	if err := ValidateID(tableID); err != nil {
		return nil, err
	}

	var orders []Order
	err := da.client.do(ctx, call{op: "orders by table", method: http.MethodGet, path: "/orders/table/" + tableID, protected: true}, &orders)
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (da *OrderDataAccess) ByCustomer(ctx context.Context, phone string) ([]Order, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("order client not configured")
	}
	if phone == "" {
		return nil, Errorf("orders by customer", ErrValidation, "missing phone")
	}

	var orders []Order
	cl := call{op: "orders by customer", method: http.MethodGet, path: "/orders/customer/" + url.PathEscape(phone), protected: true}
	if err := da.client.do(ctx, cl, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (da *OrderDataAccess) Statistics(ctx context.Context) (Statistics, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("order client not configured")
	}

	var stats Statistics
	err := da.client.do(ctx, call{op: "order statistics", method: http.MethodGet, path: "/orders/statistics", protected: true}, &stats)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (da *OrderDataAccess) Create(ctx context.Context, in OrderInput) (*Order, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("order client not configured")
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var order Order
	err := da.client.do(ctx, call{op: "create order", method: http.MethodPost, path: "/orders", body: in, protected: true}, &order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (da *OrderDataAccess) UpdateStatus(ctx context.Context, id string, status orderstatus.Status) (*Order, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("order client not configured")
	}
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	var order Order
	body := map[string]string{"status": status.Code()}
	err := da.client.do(ctx, call{op: "update order status", method: http.MethodPatch, path: "/orders/" + id + "/status", body: body, protected: true}, &order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (da *OrderDataAccess) AddItems(ctx context.Context, id string, items []OrderLineInput) (*Order, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("order client not configured")
	}
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, Errorf("add order items", ErrValidation, "no items to add")
	}
	if err := validateLines(items); err != nil {
		return nil, err
	}

	var order Order
	body := map[string]any{"items": items}
	err := da.client.do(ctx, call{op: "add order items", method: http.MethodPost, path: "/orders/" + id + "/items", body: body, protected: true}, &order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (da *OrderDataAccess) Cancel(ctx context.Context, id, reason string) (*Order, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("order client not configured")
	}
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	var order Order
	body := map[string]string{"cancelReason": reason}
	err := da.client.do(ctx, call{op: "cancel order", method: http.MethodPost, path: "/orders/" + id + "/cancel", body: body, protected: true}, &order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (da *OrderDataAccess) Delete(ctx context.Context, id string) error {
	if da == nil || da.client == nil {
		return fmt.Errorf("order client not configured")
	}
	if err := ValidateID(id); err != nil {
		return err
	}

	return da.client.do(ctx, call{op: "delete order", method: http.MethodDelete, path: "/orders/" + id, protected: true}, nil)
}
