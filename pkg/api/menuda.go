package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// MenuDataAccess wraps the /menu endpoints. Reads are public.
type MenuDataAccess struct {
	client *Client
}

func (da *MenuDataAccess) List(ctx context.Context) ([]MenuItem, error) {
	return da.list(ctx, "list menu", "/menu", nil)
}

func (da *MenuDataAccess) Popular(ctx context.Context) ([]MenuItem, error) {
	return da.list(ctx, "popular menu items", "/menu/popular", nil)
}

func (da *MenuDataAccess) Specials(ctx context.Context) ([]MenuItem, error) {
	return da.list(ctx, "menu specials", "/menu/specials", nil)
}

func (da *MenuDataAccess) Search(ctx context.Context, query string) ([]MenuItem, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, Errorf("search menu", ErrValidation, "empty query")
	}
	return da.list(ctx, "search menu", "/menu/search", url.Values{"query": {query}})
}

func (da *MenuDataAccess) list(ctx context.Context, op, path string, query url.Values) ([]MenuItem, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("menu client not configured")
	}

	var items []MenuItem
	if err := da.client.do(ctx, call{op: op, method: http.MethodGet, path: path, query: query}, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (da *MenuDataAccess) Get(ctx context.Context, id string) (*MenuItem, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("menu client not configured")
	}
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	var item MenuItem
	if err := da.client.do(ctx, call{op: "get menu item", method: http.MethodGet, path: "/menu/" + id}, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (da *MenuDataAccess) Categories(ctx context.Context) ([]MenuCategory, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("menu client not configured")
	}

	var categories []MenuCategory
	if err := da.client.do(ctx, call{op: "menu categories", method: http.MethodGet, path: "/menu/categories"}, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (da *MenuDataAccess) Statistics(ctx context.Context) (Statistics, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("menu client not configured")
	}

	var stats Statistics
	if err := da.client.do(ctx, call{op: "menu statistics", method: http.MethodGet, path: "/menu/statistics"}, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (da *MenuDataAccess) Create(ctx context.Context, in MenuItemInput) (*MenuItem, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("menu client not configured")
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var item MenuItem
	err := da.client.do(ctx, call{op: "create menu item", method: http.MethodPost, path: "/menu", body: in, protected: true}, &item)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (da *MenuDataAccess) Update(ctx context.Context, id string, in MenuItemInput) (*MenuItem, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("menu client not configured")
	}
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var item MenuItem
	err := da.client.do(ctx, call{op: "update menu item", method: http.MethodPut, path: "/menu/" + id, body: in, protected: true}, &item)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (da *MenuDataAccess) Delete(ctx context.Context, id string) error {
	if da == nil || da.client == nil {
		return fmt.Errorf("menu client not configured")
	}
	if err := ValidateID(id); err != nil {
		return err
	}

	return da.client.do(ctx, call{op: "delete menu item", method: http.MethodDelete, path: "/menu/" + id, protected: true}, nil)
}

// ToggleAvailability flips the item's available flag server-side.
func (da *MenuDataAccess) ToggleAvailability(ctx context.Context, id string) (*MenuItem, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("menu client not configured")
	}
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	var item MenuItem
	err := da.client.do(ctx, call{op: "toggle menu availability", method: http.MethodPatch, path: "/menu/" + id + "/availability", protected: true}, &item)
	if err != nil {
		return nil, err
	}
	return &item, nil
}
