// Package vedika is the client for the hospital's BPJS claim verification
// API: dashboard, claim index, claim detail, status workflow, and the
// ICD code lookups used while correcting diagnoses and procedures.
package vedika

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ClaimStatus is the claim workflow stage. Any status may transition to
// any other via explicit user action; there is no enforced order.
type ClaimStatus string

const (
	StatusRencana   ClaimStatus = "RENCANA"
	StatusPengajuan ClaimStatus = "PENGAJUAN"
	StatusPerbaikan ClaimStatus = "PERBAIKAN"
	StatusLengkap   ClaimStatus = "LENGKAP"
	StatusSetuju    ClaimStatus = "SETUJU"
)

// AllStatuses lists every workflow stage in display order.
var AllStatuses = []ClaimStatus{
	StatusRencana,
	StatusPengajuan,
	StatusPerbaikan,
	StatusLengkap,
	StatusSetuju,
}

// ParseStatus resolves a status string case-insensitively. Different
// endpoints return inconsistent casing, so normalization happens here at
// the boundary, once.
func ParseStatus(s string) (ClaimStatus, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "RENCANA":
		return StatusRencana, nil
	case "PENGAJUAN":
		return StatusPengajuan, nil
	case "PERBAIKAN":
		return StatusPerbaikan, nil
	case "LENGKAP":
		return StatusLengkap, nil
	case "SETUJU":
		return StatusSetuju, nil
	default:
		return "", fmt.Errorf("unknown claim status %q", s)
	}
}

// StatusConfig describes how one workflow stage is displayed.
type StatusConfig struct {
	Label string
	Color string
}

var statusConfigs = map[ClaimStatus]StatusConfig{
	StatusRencana:   {Label: "Rencana", Color: "slate"},
	StatusPengajuan: {Label: "Pengajuan", Color: "blue"},
	StatusPerbaikan: {Label: "Perbaikan", Color: "amber"},
	StatusLengkap:   {Label: "Lengkap", Color: "green"},
	StatusSetuju:    {Label: "Setuju", Color: "emerald"},
}

// DisplayConfig returns the display configuration for a status string in
// any casing. Unknown statuses get a neutral fallback showing the raw
// value rather than nothing.
func DisplayConfig(s string) StatusConfig {
	status, err := ParseStatus(s)
	if err != nil {
		return StatusConfig{Label: s, Color: "gray"}
	}
	return statusConfigs[status]
}

// JenisPelayanan is the service type: outpatient or inpatient.
type JenisPelayanan string

const (
	JenisRalan JenisPelayanan = "ralan"
	JenisRanap JenisPelayanan = "ranap"
)

// IndexEpisode is one row of the claim workbench listing.
type IndexEpisode struct {
	NoRawat      string         `json:"no_rawat"`
	NoRM         string         `json:"no_rm"`
	NamaPasien   string         `json:"nama_pasien"`
	Jenis        JenisPelayanan `json:"jenis"`
	TglPelayanan string         `json:"tgl_pelayanan"`
	Unit         string         `json:"unit"`
	Dokter       string         `json:"dokter"`
	CaraBayar    string         `json:"cara_bayar"`
	Status       ClaimStatus    `json:"status"`
}

// IndexFilter is the query the workbench sends for one page.
type IndexFilter struct {
	DateFrom string         `json:"date_from" validate:"required"`
	DateTo   string         `json:"date_to" validate:"required"`
	Status   ClaimStatus    `json:"status" validate:"required"`
	Jenis    JenisPelayanan `json:"jenis,omitempty"`
	Page     int            `json:"page,omitempty"`
	Limit    int            `json:"limit,omitempty"`
	Search   string         `json:"search,omitempty"`
}

// Query renders the filter as URL query parameters. Zero-valued optional
// fields are omitted so the server applies its defaults.
func (f IndexFilter) Query() url.Values {
	q := url.Values{}
	q.Set("date_from", f.DateFrom)
	q.Set("date_to", f.DateTo)
	q.Set("status", string(f.Status))
	if f.Jenis != "" {
		q.Set("jenis", string(f.Jenis))
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	return q
}

// Pagination is the server's page metadata. Total may lag the true row
// count right after a mutation; it converges on the next fetch.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// IndexPage is one fetched page of the workbench listing.
type IndexPage struct {
	Filter     IndexFilter    `json:"filter"`
	Pagination Pagination     `json:"pagination"`
	Items      []IndexEpisode `json:"items"`
}

// DiagnosisItem is a single diagnosis entry on a claim.
type DiagnosisItem struct {
	KodePenyakit string `json:"kode_penyakit"`
	NamaPenyakit string `json:"nama_penyakit"`
	StatusDx     string `json:"status_dx"`
	Prioritas    int    `json:"prioritas"`
}

// ProcedureItem is a single procedure entry on a claim.
type ProcedureItem struct {
	Kode      string `json:"kode"`
	Nama      string `json:"nama"`
	Prioritas int    `json:"prioritas"`
}

// DocumentItem is uploaded document metadata on the claim detail view.
type DocumentItem struct {
	ID       string    `json:"id"`
	Nama     string    `json:"nama"`
	Kategori string    `json:"kategori"`
	FilePath string    `json:"file_path"`
	UploadAt time.Time `json:"upload_at"`
	UploadBy string    `json:"upload_by"`
}

// ClaimDetail is the per-row expansion payload: enough to verify codes
// without loading the full aggregate.
type ClaimDetail struct {
	NoRawat       string          `json:"no_rawat"`
	NoRM          string          `json:"no_rm"`
	NamaPasien    string          `json:"nama_pasien"`
	Umur          string          `json:"umur"`
	JenisKelamin  string          `json:"jenis_kelamin"`
	Alamat        string          `json:"alamat"`
	Jenis         JenisPelayanan  `json:"jenis"`
	TglRegistrasi string          `json:"tgl_registrasi"`
	TglKeluar     *string         `json:"tgl_keluar"`
	Unit          string          `json:"unit"`
	Dokter        string          `json:"dokter"`
	CaraBayar     string          `json:"cara_bayar"`
	NoSEP         string          `json:"no_sep,omitempty"`
	NoKartu       string          `json:"no_kartu,omitempty"`
	Diagnoses     []DiagnosisItem `json:"diagnoses"`
	Procedures    []ProcedureItem `json:"procedures"`
	Documents     []DocumentItem  `json:"documents"`
	Status        ClaimStatus     `json:"status"`
}

// MedicalResume is the short resume used when printing claim bundles.
type MedicalResume struct {
	NoRawat          string         `json:"no_rawat"`
	Jenis            JenisPelayanan `json:"jenis"`
	KeluhanUtama     string         `json:"keluhan_utama"`
	PemeriksaanFisik string         `json:"pemeriksaan_fisik"`
	DiagnosaAkhir    string         `json:"diagnosa_akhir"`
	Terapi           string         `json:"terapi"`
	Anjuran          string         `json:"anjuran"`
	DokterPJ         string         `json:"dokter_pj"`
}

// ICDItem is one master ICD-9-CM or ICD-10 code entry.
type ICDItem struct {
	Kode string `json:"kode"`
	Nama string `json:"nama"`
}

// StatusUpdateRequest moves a single claim to a new workflow stage.
type StatusUpdateRequest struct {
	Status  ClaimStatus `json:"status" validate:"required"`
	Catatan string      `json:"catatan,omitempty"`
}

// BatchStatusUpdateRequest moves many claims in one call.
type BatchStatusUpdateRequest struct {
	NoRawatList []string    `json:"no_rawat_list" validate:"required,min=1"`
	Status      ClaimStatus `json:"status" validate:"required"`
	Catatan     string      `json:"catatan,omitempty"`
}

// BatchUpdateResult reports per-item outcome counts. Partial failure is a
// valid outcome, not an error: Updated+Failed always equals the number of
// keys submitted.
type BatchUpdateResult struct {
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

// DiagnosisUpdateRequest adds or corrects one diagnosis code.
type DiagnosisUpdateRequest struct {
	KodePenyakit string `json:"kode_penyakit" validate:"required"`
	StatusDx     string `json:"status_dx,omitempty" validate:"omitempty,oneof=Utama Sekunder"`
	Prioritas    int    `json:"prioritas,omitempty"`
}

// ProcedureUpdateRequest adds or corrects one procedure code.
type ProcedureUpdateRequest struct {
	Kode      string `json:"kode" validate:"required"`
	Prioritas int    `json:"prioritas,omitempty"`
}
