// Package detail composes the full claim aggregate into ordered,
// independently-optional sections. An absent sub-record renders a muted
// placeholder line, never an error.
package detail

import (
	"fmt"
	"strings"

	"github.com/clinova/vedika-workbench/internal/vedika"
)

// Placeholder is the line shown for a section with no data.
const Placeholder = "Tidak ada data untuk episode ini"

// Section is one rendered block of the claim detail page.
type Section struct {
	Key     string
	Title   string
	Present bool
	Lines   []string
}

// descriptor pairs a presence check with a renderer over the aggregate.
type descriptor struct {
	key     string
	title   string
	present func(*vedika.ClaimFullDetail) bool
	render  func(*vedika.ClaimFullDetail) []string
}

var descriptors = []descriptor{
	{
		key:     "sep",
		title:   "SEP",
		present: func(d *vedika.ClaimFullDetail) bool { return d.SEP != nil },
		render: func(d *vedika.ClaimFullDetail) []string {
			s := d.SEP
			return []string{
				fmt.Sprintf("No. SEP %s (%s)", s.NoSEP, s.TglSEP),
				fmt.Sprintf("Peserta %s, kartu %s", s.NamaPeserta, s.NoKartu),
				fmt.Sprintf("Poli %s, DPJP %s", s.PoliTujuan, s.DPJP),
				fmt.Sprintf("Diagnosa awal %s", s.DiagnosaAwal),
			}
		},
	},
	{
		key:     "patient",
		title:   "Pasien & Registrasi",
		present: func(d *vedika.ClaimFullDetail) bool { return d.Patient.NoRM != "" },
		render: func(d *vedika.ClaimFullDetail) []string {
			p := d.Patient
			return []string{
				fmt.Sprintf("%s (RM %s), %s, %s", p.NamaPasien, p.NoRM, p.JenisKelamin, p.Umur),
				fmt.Sprintf("Registrasi %s %s, unit %s", p.TglRegistrasi, p.JamReg, p.Unit),
				fmt.Sprintf("Dokter %s, cara bayar %s", p.Dokter, p.CaraBayar),
			}
		},
	},
	{
		key:     "diagnoses",
		title:   "Diagnosa",
		present: func(d *vedika.ClaimFullDetail) bool { return len(d.Diagnoses) > 0 },
		render: func(d *vedika.ClaimFullDetail) []string {
			lines := make([]string, len(d.Diagnoses))
			for i, dx := range d.Diagnoses {
				lines[i] = fmt.Sprintf("%s %s (%s, prioritas %d)", dx.KodePenyakit, dx.NamaPenyakit, dx.StatusDx, dx.Prioritas)
			}
			return lines
		},
	},
	{
		key:     "procedures",
		title:   "Prosedur",
		present: func(d *vedika.ClaimFullDetail) bool { return len(d.Procedures) > 0 },
		render: func(d *vedika.ClaimFullDetail) []string {
			lines := make([]string, len(d.Procedures))
			for i, p := range d.Procedures {
				lines[i] = fmt.Sprintf("%s %s (prioritas %d)", p.Kode, p.Nama, p.Prioritas)
			}
			return lines
		},
	},
	{
		key:     "soap",
		title:   "Pemeriksaan & SOAP",
		present: func(d *vedika.ClaimFullDetail) bool { return len(d.SOAPExams) > 0 },
		render: func(d *vedika.ClaimFullDetail) []string {
			lines := make([]string, 0, len(d.SOAPExams)*2)
			for _, e := range d.SOAPExams {
				lines = append(lines,
					fmt.Sprintf("%s %s: TD %s, nadi %s, suhu %s", e.TglPerawatan, e.JamRawat, e.Tensi, e.Nadi, e.SuhuTubuh),
					fmt.Sprintf("  S: %s | O: %s | A: %s | P: %s", e.Keluhan, e.Pemeriksaan, e.Penilaian, e.RTL),
				)
			}
			return lines
		},
	},
	{
		key:     "actions",
		title:   "Tindakan Medis",
		present: func(d *vedika.ClaimFullDetail) bool { return len(d.Actions) > 0 },
		render: func(d *vedika.ClaimFullDetail) []string {
			lines := make([]string, len(d.Actions))
			for i, a := range d.Actions {
				lines[i] = fmt.Sprintf("%s %s %s (%s)", a.Tanggal, a.Jam, a.Nama, a.Dokter)
			}
			return lines
		},
	},
	{
		key:     "room_stays",
		title:   "Kamar Inap",
		present: func(d *vedika.ClaimFullDetail) bool { return len(d.RoomStays) > 0 },
		render: func(d *vedika.ClaimFullDetail) []string {
			lines := make([]string, len(d.RoomStays))
			for i, r := range d.RoomStays {
				lines[i] = fmt.Sprintf("%s s/d %s, %s/%s, %d hari, %s",
					r.TglMasuk, r.TglKeluar, r.Bangsal, r.Kamar, r.LamaInap, vedika.FormatRupiah(r.TotalBiaya))
			}
			return lines
		},
	},
	{
		key:     "operations",
		title:   "Operasi",
		present: func(d *vedika.ClaimFullDetail) bool { return len(d.Operations) > 0 },
		render: func(d *vedika.ClaimFullDetail) []string {
			lines := make([]string, len(d.Operations))
			for i, op := range d.Operations {
				lines[i] = fmt.Sprintf("%s %s (%s)", op.TglOperasi, op.NamaTindakan, op.JenisAnastesi)
			}
			return lines
		},
	},
	{
		key:     "op_reports",
		title:   "Laporan Operasi",
		present: func(d *vedika.ClaimFullDetail) bool { return len(d.OpReports) > 0 },
		render: func(d *vedika.ClaimFullDetail) []string {
			lines := make([]string, len(d.OpReports))
			for i, r := range d.OpReports {
				lines[i] = fmt.Sprintf("%s: pre %s, post %s (%s)", r.Tanggal, r.DiagnosaPreop, r.DiagnosaPostop, r.DokterOperator)
			}
			return lines
		},
	},
	{
		key:   "radiology",
		title: "Radiologi",
		present: func(d *vedika.ClaimFullDetail) bool {
			return len(d.Radiology.Exams) > 0 || len(d.Radiology.Results) > 0
		},
		render: func(d *vedika.ClaimFullDetail) []string {
			var lines []string
			for _, e := range d.Radiology.Exams {
				lines = append(lines, fmt.Sprintf("%s %s %s", e.TglPeriksa, e.Jam, e.Nama))
			}
			for _, r := range d.Radiology.Results {
				lines = append(lines, fmt.Sprintf("Kesan: %s", r.Kesan))
			}
			return lines
		},
	},
	{
		key:     "lab",
		title:   "Laboratorium",
		present: func(d *vedika.ClaimFullDetail) bool { return len(d.LabExams) > 0 },
		render: func(d *vedika.ClaimFullDetail) []string {
			var lines []string
			for _, e := range d.LabExams {
				lines = append(lines, fmt.Sprintf("%s %s %s", e.TglPeriksa, e.Jam, e.NamaTindakan))
				for _, det := range e.Details {
					lines = append(lines, fmt.Sprintf("  %s: %s %s (rujukan %s)", det.Pemeriksaan, det.Nilai, det.Satuan, det.NilaiRujukan))
				}
			}
			return lines
		},
	},
	{
		key:     "medicines",
		title:   "Obat",
		present: func(d *vedika.ClaimFullDetail) bool { return len(d.Medicines) > 0 },
		render: func(d *vedika.ClaimFullDetail) []string {
			lines := make([]string, len(d.Medicines))
			for i, m := range d.Medicines {
				lines[i] = fmt.Sprintf("%s %s %v %s (%s)", m.TglPerawatan, m.NamaObat, m.Jumlah, m.Satuan, m.Dosis)
			}
			return lines
		},
	},
	{
		key:   "resume",
		title: "Resume Medis",
		present: func(d *vedika.ClaimFullDetail) bool {
			return d.ResumeRalan != nil || d.ResumeRanap != nil
		},
		render: func(d *vedika.ClaimFullDetail) []string {
			if r := d.ResumeRalan; r != nil {
				return []string{
					fmt.Sprintf("Rawat jalan, dokter %s", r.NamaDokter),
					fmt.Sprintf("Diagnosa utama %s", r.DiagnosaUtama),
					fmt.Sprintf("Keluhan %s", r.KeluhanUtama),
				}
			}
			r := d.ResumeRanap
			return []string{
				fmt.Sprintf("Rawat inap, dokter %s", r.NamaDokter),
				fmt.Sprintf("Diagnosa utama %s", r.DiagnosaUtama),
				fmt.Sprintf("Kondisi pulang %s", r.KondisiPulang),
			}
		},
	},
	{
		key:     "billing",
		title:   "Rincian Biaya",
		present: func(d *vedika.ClaimFullDetail) bool { return d.Billing != nil },
		render: func(d *vedika.ClaimFullDetail) []string {
			b := d.Billing
			lines := make([]string, 0, len(b.Categories)+3)
			for _, cat := range b.Categories {
				lines = append(lines, fmt.Sprintf("%s: %s", cat.Kategori, vedika.FormatRupiah(cat.Subtotal)))
			}
			lines = append(lines,
				fmt.Sprintf("Total: %s", vedika.FormatRupiah(b.JumlahTotal)),
				fmt.Sprintf("Potongan: %s", vedika.FormatRupiah(b.Potongan)),
				fmt.Sprintf("Dibayar: %s", vedika.FormatRupiah(b.JumlahBayar)),
			)
			return lines
		},
	},
	{
		key:     "spri",
		title:   "SPRI",
		present: func(d *vedika.ClaimFullDetail) bool { return d.SPRI != nil },
		render: func(d *vedika.ClaimFullDetail) []string {
			s := d.SPRI
			return []string{
				fmt.Sprintf("Surat %s (%s)", s.NoSurat, s.TglSurat),
				fmt.Sprintf("Rencana %s, poli %s, dokter %s", s.TglRencana, s.NamaPoli, s.NamaDokter),
			}
		},
	},
	{
		key:     "documents",
		title:   "Dokumen Digital",
		present: func(d *vedika.ClaimFullDetail) bool { return len(d.Documents) > 0 },
		render: func(d *vedika.ClaimFullDetail) []string {
			lines := make([]string, len(d.Documents))
			for i, doc := range d.Documents {
				lines[i] = fmt.Sprintf("%s (%s), diunggah %s", doc.Kategori, doc.Kode, doc.UploadedAt)
			}
			return lines
		},
	},
}

// Sections renders the aggregate into its display blocks in page order.
// Every descriptor yields a section; absent ones carry the placeholder.
func Sections(d *vedika.ClaimFullDetail) []Section {
	out := make([]Section, len(descriptors))
	for i, desc := range descriptors {
		s := Section{Key: desc.key, Title: desc.title}
		if desc.present(d) {
			s.Present = true
			s.Lines = desc.render(d)
		} else {
			s.Lines = []string{Placeholder}
		}
		out[i] = s
	}
	return out
}

// Render flattens the sections into printable text.
func Render(d *vedika.ClaimFullDetail) string {
	var sb strings.Builder
	for _, s := range Sections(d) {
		sb.WriteString("== " + s.Title + " ==\n")
		for _, line := range s.Lines {
			sb.WriteString(line + "\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
