package vedika

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/go-playground/validator/v10"

	"github.com/clinova/vedika-workbench/internal/httpx"
	"github.com/clinova/vedika-workbench/internal/shared/metrics"
)

// ClaimCount splits a count by service type.
type ClaimCount struct {
	Ralan int `json:"ralan"`
	Ranap int `json:"ranap"`
}

// MaturasiPersen is the claim maturation percentage by service type.
type MaturasiPersen struct {
	Ralan float64 `json:"ralan"`
	Ranap float64 `json:"ranap"`
}

// DashboardSummary is the active period's claim counts.
type DashboardSummary struct {
	Period    string         `json:"period"`
	Rencana   ClaimCount     `json:"rencana"`
	Pengajuan ClaimCount     `json:"pengajuan"`
	Maturasi  MaturasiPersen `json:"maturasi"`
}

// TrendItem is one day of the dashboard trend series.
type TrendItem struct {
	Date      string     `json:"date"`
	Rencana   ClaimCount `json:"rencana"`
	Pengajuan ClaimCount `json:"pengajuan"`
}

// Client calls the vedika endpoints. Requests are validated locally
// before they leave the process so obviously malformed mutations never
// reach the backend.
type Client struct {
	http     *httpx.Client
	validate *validator.Validate
}

func NewClient(http *httpx.Client) *Client {
	return &Client{
		http:     http,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func claimPath(noRawat, suffix string) string {
	return "/admin/vedika/claim/" + url.PathEscape(noRawat) + suffix
}

// Dashboard fetches the active period summary. The period itself is
// backend policy; a missing configured period surfaces as
// VEDIKA_SETTINGS_MISSING.
func (c *Client) Dashboard(ctx context.Context) (*DashboardSummary, error) {
	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Period  string           `json:"period"`
			Summary DashboardSummary `json:"summary"`
		} `json:"data"`
	}
	if err := c.http.Get(ctx, "/admin/vedika/dashboard", nil, &resp, httpx.WithoutLoading()); err != nil {
		return nil, err
	}
	summary := resp.Data.Summary
	if summary.Period == "" {
		summary.Period = resp.Data.Period
	}
	return &summary, nil
}

// DashboardTrend fetches the daily trend for the active period.
func (c *Client) DashboardTrend(ctx context.Context) ([]TrendItem, error) {
	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Trend []TrendItem `json:"trend"`
		} `json:"data"`
	}
	if err := c.http.Get(ctx, "/admin/vedika/dashboard/trend", nil, &resp, httpx.WithoutLoading()); err != nil {
		return nil, err
	}
	return resp.Data.Trend, nil
}

// Index fetches one page of the claim listing. The list renders its own
// skeleton so the call stays off the global loading overlay.
func (c *Client) Index(ctx context.Context, filter IndexFilter) (*IndexPage, error) {
	if err := c.validate.Struct(filter); err != nil {
		return nil, fmt.Errorf("invalid index filter: %w", err)
	}
	var resp struct {
		Success bool      `json:"success"`
		Data    IndexPage `json:"data"`
	}
	if err := c.http.Get(ctx, "/admin/vedika/index", filter.Query(), &resp, httpx.WithoutLoading()); err != nil {
		return nil, err
	}
	for i, item := range resp.Data.Items {
		if status, err := ParseStatus(string(item.Status)); err == nil {
			resp.Data.Items[i].Status = status
		}
	}
	return &resp.Data, nil
}

// ClaimDetail fetches the row-expansion payload for one episode.
func (c *Client) ClaimDetail(ctx context.Context, noRawat string) (*ClaimDetail, error) {
	var resp struct {
		Success bool        `json:"success"`
		Data    ClaimDetail `json:"data"`
	}
	if err := c.http.Get(ctx, claimPath(noRawat, ""), nil, &resp); err != nil {
		return nil, err
	}
	if status, err := ParseStatus(string(resp.Data.Status)); err == nil {
		resp.Data.Status = status
	}
	return &resp.Data, nil
}

// ClaimFullDetail fetches the complete aggregate for one episode.
func (c *Client) ClaimFullDetail(ctx context.Context, noRawat string) (*ClaimFullDetail, error) {
	var resp struct {
		Success bool            `json:"success"`
		Data    ClaimFullDetail `json:"data"`
	}
	if err := c.http.Get(ctx, "/admin/vedika/claim/full/"+url.PathEscape(noRawat), nil, &resp); err != nil {
		return nil, err
	}
	if status, err := ParseStatus(string(resp.Data.ClaimStatus)); err == nil {
		resp.Data.ClaimStatus = status
	}
	return &resp.Data, nil
}

// UpdateStatus moves one claim to a new workflow stage. The caller
// refetches after this returns; nothing is mutated locally beforehand.
func (c *Client) UpdateStatus(ctx context.Context, noRawat string, req StatusUpdateRequest) error {
	if err := c.validate.Struct(req); err != nil {
		return fmt.Errorf("invalid status update: %w", err)
	}
	return c.http.Post(ctx, claimPath(noRawat, "/status"), req, nil)
}

// BatchUpdateStatus moves many claims in one call and returns per-item
// counts. Partial failure comes back as a result, not an error.
func (c *Client) BatchUpdateStatus(ctx context.Context, req BatchStatusUpdateRequest) (*BatchUpdateResult, error) {
	if err := c.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid batch update: %w", err)
	}
	var resp struct {
		Success bool              `json:"success"`
		Data    BatchUpdateResult `json:"data"`
	}
	if err := c.http.Post(ctx, "/admin/vedika/claim/batch-status", req, &resp); err != nil {
		return nil, err
	}
	metrics.RecordBatchUpdate(resp.Data.Updated, resp.Data.Failed)
	return &resp.Data, nil
}

// UpdateDiagnosis adds or corrects one diagnosis code on the claim.
func (c *Client) UpdateDiagnosis(ctx context.Context, noRawat string, req DiagnosisUpdateRequest) error {
	if err := c.validate.Struct(req); err != nil {
		return fmt.Errorf("invalid diagnosis update: %w", err)
	}
	return c.http.Post(ctx, claimPath(noRawat, "/diagnosis"), req, nil)
}

// UpdateProcedure adds or corrects one procedure code on the claim.
func (c *Client) UpdateProcedure(ctx context.Context, noRawat string, req ProcedureUpdateRequest) error {
	if err := c.validate.Struct(req); err != nil {
		return fmt.Errorf("invalid procedure update: %w", err)
	}
	return c.http.Post(ctx, claimPath(noRawat, "/procedure"), req, nil)
}

// Resume fetches the short medical resume for printing.
func (c *Client) Resume(ctx context.Context, noRawat string) (*MedicalResume, error) {
	var resp struct {
		Success bool          `json:"success"`
		Data    MedicalResume `json:"data"`
	}
	if err := c.http.Get(ctx, claimPath(noRawat, "/resume"), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// ListDocuments returns the claim's uploaded attachments.
func (c *Client) ListDocuments(ctx context.Context, noRawat string) ([]DigitalDocument, error) {
	var resp struct {
		Success bool              `json:"success"`
		Data    []DigitalDocument `json:"data"`
	}
	if err := c.http.Get(ctx, claimPath(noRawat, "/documents"), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// UploadDocument attaches a file to the claim under a document category.
func (c *Client) UploadDocument(ctx context.Context, noRawat, kode, filename string, file io.Reader) (*DigitalDocument, error) {
	var resp struct {
		Success bool            `json:"success"`
		Data    DigitalDocument `json:"data"`
	}
	fields := map[string]string{"kode": kode}
	if err := c.http.Upload(ctx, claimPath(noRawat, "/documents"), fields, filename, file, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// DeleteDocument removes one uploaded attachment by id.
func (c *Client) DeleteDocument(ctx context.Context, noRawat, id string) error {
	query := url.Values{}
	query.Set("id", id)
	return c.http.Delete(ctx, claimPath(noRawat, "/documents"), query, nil)
}

// SearchICD10 looks up diagnosis codes by code or name fragment.
func (c *Client) SearchICD10(ctx context.Context, q string) ([]ICDItem, error) {
	return c.searchICD(ctx, "/admin/vedika/icd10", q)
}

// SearchICD9 looks up procedure codes by code or name fragment.
func (c *Client) SearchICD9(ctx context.Context, q string) ([]ICDItem, error) {
	return c.searchICD(ctx, "/admin/vedika/icd9", q)
}

func (c *Client) searchICD(ctx context.Context, path, q string) ([]ICDItem, error) {
	query := url.Values{}
	query.Set("q", q)
	var resp struct {
		Success bool      `json:"success"`
		Data    []ICDItem `json:"data"`
	}
	if err := c.http.Get(ctx, path, query, &resp, httpx.WithoutLoading()); err != nil {
		return nil, err
	}
	return resp.Data, nil
}
