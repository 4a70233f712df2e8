package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/appetiteclub/frontdesk/pkg/enums/tablestatus"
)

// TableDataAccess wraps the /tables endpoints.
type TableDataAccess struct {
	client *Client
}

// AvailabilityQuery narrows GET /tables/available. Zero fields are omitted.
type AvailabilityQuery struct {
	Guests   int
	Date     Date
	Time     string
	Location string
}

func (q AvailabilityQuery) values() url.Values {
	v := url.Values{}
	if q.Guests > 0 {
		v.Set("capacity", strconv.Itoa(q.Guests))
	}
	if !q.Date.IsZero() {
		v.Set("date", q.Date.String())
	}
	if q.Time != "" {
		v.Set("time", q.Time)
	}
	if q.Location != "" {
		v.Set("location", q.Location)
	}
	return v
}

func (da *TableDataAccess) List(ctx context.Context) ([]Table, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("table client not configured")
	}

	var tables []Table
	err := da.client.do(ctx, call{op: "list tables", method: http.MethodGet, path: "/tables", protected: true}, &tables)
	if err != nil {
		return nil, err
	}
	return tables, nil
}

func (da *TableDataAccess) Get(ctx context.Context, id string) (*Table, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("table client not configured")
	}
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	var table Table
	err := da.client.do(ctx, call{op: "get table", method: http.MethodGet, path: "/tables/" + id, protected: true}, &table)
	if err != nil {
		return nil, err
	}
	return &table, nil
}

func (da *TableDataAccess) Available(ctx context.Context, q AvailabilityQuery) ([]Table, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("table client not configured")
	}

	var tables []Table
	cl := call{op: "available tables", method: http.MethodGet, path: "/tables/available", query: q.values(), protected: true}
	if err := da.client.do(ctx, cl, &tables); err != nil {
		return nil, err
	}
	return tables, nil
}

func (da *TableDataAccess) FloorPlan(ctx context.Context) (FloorPlan, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("table client not configured")
	}

	var plan FloorPlan
	err := da.client.do(ctx, call{op: "floor plan", method: http.MethodGet, path: "/tables/floor-plan", protected: true}, &plan)
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (da *TableDataAccess) Statistics(ctx context.Context) (Statistics, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("table client not configured")
	}

	var stats Statistics
	err := da.client.do(ctx, call{op: "table statistics", method: http.MethodGet, path: "/tables/statistics", protected: true}, &stats)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (da *TableDataAccess) Create(ctx context.Context, in TableInput) (*Table, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("table client not configured")
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var table Table
	err := da.client.do(ctx, call{op: "create table", method: http.MethodPost, path: "/tables", body: in, protected: true}, &table)
	if err != nil {
		return nil, err
	}
	return &table, nil
}

func (da *TableDataAccess) Update(ctx context.Context, id string, in TableInput) (*Table, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("table client not configured")
	}
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var table Table
	err := da.client.do(ctx, call{op: "update table", method: http.MethodPut, path: "/tables/" + id, body: in, protected: true}, &table)
	if err != nil {
		return nil, err
	}
	return &table, nil
}

func (da *TableDataAccess) Delete(ctx context.Context, id string) error {
	if da == nil || da.client == nil {
		return fmt.Errorf("table client not configured")
	}
	if err := ValidateID(id); err != nil {
		return err
	}

	return da.client.do(ctx, call{op: "delete table", method: http.MethodDelete, path: "/tables/" + id, protected: true}, nil)
}

// UpdateStatus sends PATCH /tables/:id/status. Transition checks belong to
// the caller; this method only shapes the request.
func (da *TableDataAccess) UpdateStatus(ctx context.Context, id string, status tablestatus.Status) (*Table, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("table client not configured")
	}
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	var table Table
	body := map[string]string{"status": status.Code()}
	cl := call{op: "update table status", method: http.MethodPatch, path: "/tables/" + id + "/status", body: body, protected: true}
	if err := da.client.do(ctx, cl, &table); err != nil {
		return nil, err
	}
	return &table, nil
}
