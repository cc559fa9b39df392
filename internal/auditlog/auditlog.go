// Package auditlog is the client for the audit trail viewer.
package auditlog

import (
	"context"
	"net/url"
	"strconv"

	"github.com/clinova/vedika-workbench/internal/httpx"
)

// Actor identifies who performed the logged action.
type Actor struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// EntityRef points at the affected row.
type EntityRef struct {
	Table      string            `json:"table"`
	PrimaryKey map[string]string `json:"primary_key"`
}

// ColumnChange holds the before and after value of one column.
type ColumnChange struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// SQLContext carries the row-level change captured with the entry.
type SQLContext struct {
	Operation      string                  `json:"operation"`
	ChangedColumns map[string]ColumnChange `json:"changed_columns,omitempty"`
	InsertedData   map[string]any          `json:"inserted_data,omitempty"`
	DeletedData    map[string]any          `json:"deleted_data,omitempty"`
	Where          map[string]any          `json:"where,omitempty"`
}

// Entry is one audit trail record.
type Entry struct {
	ID          string      `json:"id"`
	TS          string      `json:"ts"`
	Level       string      `json:"level"`
	Module      string      `json:"module"`
	Action      string      `json:"action"`
	Entity      EntityRef   `json:"entity"`
	SQLContext  *SQLContext `json:"sql_context,omitempty"`
	BusinessKey string      `json:"business_key"`
	Actor       Actor       `json:"actor"`
	IP          string      `json:"ip"`
	Summary     string      `json:"summary"`
}

// Filter narrows the audit log listing. All fields combine as AND.
type Filter struct {
	From        string
	To          string
	Module      string
	User        string
	Action      string
	BusinessKey string
	Page        int
	Limit       int
}

const defaultLimit = 25

func (f Filter) query() url.Values {
	q := url.Values{}
	if f.From != "" {
		q.Set("from", f.From)
	}
	if f.To != "" {
		q.Set("to", f.To)
	}
	if f.Module != "" {
		q.Set("module", f.Module)
	}
	if f.User != "" {
		q.Set("user", f.User)
	}
	if f.Action != "" {
		q.Set("action", f.Action)
	}
	if f.BusinessKey != "" {
		q.Set("business_key", f.BusinessKey)
	}
	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 {
		limit = defaultLimit
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	return q
}

// Page is one page of audit entries.
type Page struct {
	Logs  []Entry `json:"logs"`
	Total int     `json:"total"`
	Page  int     `json:"page"`
	Limit int     `json:"limit"`
}

// Client calls the audit log endpoints.
type Client struct {
	http *httpx.Client
}

func NewClient(http *httpx.Client) *Client {
	return &Client{http: http}
}

// List fetches one page of the audit trail.
func (c *Client) List(ctx context.Context, filter Filter) (*Page, error) {
	var resp struct {
		Success bool `json:"success"`
		Data    Page `json:"data"`
	}
	if err := c.http.Get(ctx, "/admin/audit-logs", filter.query(), &resp, httpx.WithoutLoading()); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// Detail fetches one entry with its full SQL context.
func (c *Client) Detail(ctx context.Context, id string) (*Entry, error) {
	var resp struct {
		Success bool  `json:"success"`
		Data    Entry `json:"data"`
	}
	if err := c.http.Get(ctx, "/admin/audit-logs/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// Modules lists the module names present in the trail, for the filter
// dropdown.
func (c *Client) Modules(ctx context.Context) ([]string, error) {
	var resp struct {
		Success bool     `json:"success"`
		Data    []string `json:"data"`
	}
	if err := c.http.Get(ctx, "/admin/audit-logs/modules", nil, &resp, httpx.WithoutLoading()); err != nil {
		return nil, err
	}
	return resp.Data, nil
}
