package vedika

// Full claim aggregate: one fetch returns every section the verifier
// reviews. Each section is independently optional; an absent sub-record
// (no operations, no lab results) is expected for most episodes.

// SEPDetail is the insurance eligibility letter tied to the episode.
type SEPDetail struct {
	NoSEP          string `json:"no_sep"`
	TglSEP         string `json:"tgl_sep"`
	NoKartu        string `json:"no_kartu"`
	NoRM           string `json:"no_rm"`
	NamaPeserta    string `json:"nama_peserta"`
	Peserta        string `json:"peserta"`
	TglLahir       string `json:"tgl_lahir"`
	JenisKelamin   string `json:"jenis_kelamin"`
	JenisPelayanan string `json:"jenis_pelayanan"`
	NoTelp         string `json:"no_telp"`
	KelasRawat     string `json:"kelas_rawat"`
	KelasHak       string `json:"kelas_hak"`
	PoliTujuan     string `json:"poli_tujuan"`
	DPJP           string `json:"dpjp"`
	FaskesPerujuk  string `json:"faskes_perujuk"`
	DiagnosaAwal   string `json:"diagnosa_awal"`
	Catatan        string `json:"catatan"`
	TglRujukan     string `json:"tgl_rujukan"`
	COB            string `json:"cob"`
	PRBStatus      string `json:"prb_status"`
}

// PatientRegistration is the demographics and registration section.
type PatientRegistration struct {
	NoRM             string   `json:"no_rm"`
	NamaPasien       string   `json:"nama_pasien"`
	Alamat           string   `json:"alamat"`
	Umur             string   `json:"umur"`
	JenisKelamin     string   `json:"jenis_kelamin"`
	TempatLahir      string   `json:"tempat_lahir"`
	TglLahir         string   `json:"tgl_lahir"`
	IbuKandung       string   `json:"ibu_kandung"`
	GolDarah         string   `json:"gol_darah"`
	StatusNikah      string   `json:"status_nikah"`
	Agama            string   `json:"agama"`
	Pendidikan       string   `json:"pendidikan"`
	TglPertamaDaftar string   `json:"tgl_pertama_daftar"`
	Kecamatan        string   `json:"kecamatan"`
	Kabupaten        string   `json:"kabupaten"`
	NoRawat          string   `json:"no_rawat"`
	NoReg            string   `json:"no_reg"`
	TglRegistrasi    string   `json:"tgl_registrasi"`
	JamReg           string   `json:"jam_reg"`
	Unit             string   `json:"unit"`
	KdDokter         string   `json:"kd_dokter"`
	Dokter           string   `json:"dokter"`
	DPJPList         []string `json:"dpjp_list"`
	CaraBayar        string   `json:"cara_bayar"`
	PenanggungJawab  string   `json:"penanggung_jawab"`
	AlamatPJ         string   `json:"alamat_pj"`
	HubunganPJ       string   `json:"hubungan_pj"`
	StatusLanjut     string   `json:"status_lanjut"`
}

// SOAPExamination is one vitals/SOAP note entry.
type SOAPExamination struct {
	TglPerawatan string `json:"tgl_perawatan"`
	JamRawat     string `json:"jam_rawat"`
	SuhuTubuh    string `json:"suhu_tubuh"`
	Tensi        string `json:"tensi"`
	Nadi         string `json:"nadi"`
	Respirasi    string `json:"respirasi"`
	Tinggi       string `json:"tinggi"`
	Berat        string `json:"berat"`
	GCS          string `json:"gcs"`
	Kesadaran    string `json:"kesadaran"`
	Keluhan      string `json:"keluhan"`
	Pemeriksaan  string `json:"pemeriksaan"`
	Penilaian    string `json:"penilaian"`
	RTL          string `json:"rtl"`
	Instruksi    string `json:"instruksi"`
	Evaluasi     string `json:"evaluasi"`
	Alergi       string `json:"alergi"`
}

// MedicalAction is one performed medical action entry.
type MedicalAction struct {
	Tanggal  string `json:"tanggal"`
	Jam      string `json:"jam"`
	Kode     string `json:"kode"`
	Nama     string `json:"nama"`
	Dokter   string `json:"dokter"`
	Petugas  string `json:"petugas"`
	Kategori string `json:"kategori"`
}

// RoomStay is one inpatient room occupancy record.
type RoomStay struct {
	TglMasuk     string  `json:"tgl_masuk"`
	JamMasuk     string  `json:"jam_masuk"`
	TglKeluar    string  `json:"tgl_keluar"`
	JamKeluar    string  `json:"jam_keluar"`
	LamaInap     int     `json:"lama_inap"`
	Kamar        string  `json:"kamar"`
	Bangsal      string  `json:"bangsal"`
	Tarif        float64 `json:"tarif"`
	TotalBiaya   float64 `json:"total_biaya"`
	StatusPulang string  `json:"status_pulang"`
}

// OperationItem is one scheduled or performed operation.
type OperationItem struct {
	TglOperasi    string `json:"tgl_operasi"`
	KodePaket     string `json:"kode_paket"`
	NamaTindakan  string `json:"nama_tindakan"`
	JenisAnastesi string `json:"jenis_anastesi"`
	Status        string `json:"status"`
}

// OperationReport is the surgeon's report for one operation.
type OperationReport struct {
	NoRawat           string `json:"no_rawat"`
	Tanggal           string `json:"tanggal"`
	SelesaiOperasi    string `json:"selesai_operasi"`
	DiagnosaPreop     string `json:"diagnosa_preop"`
	DiagnosaPostop    string `json:"diagnosa_postop"`
	JaringanDieksekusi string `json:"jaringan_dieksekusi"`
	PermintaanPA      string `json:"permintaan_pa"`
	LaporanOperasi    string `json:"laporan_operasi"`
	DokterOperator    string `json:"dokter_operator"`
}

// RadiologyExam is one ordered radiology examination.
type RadiologyExam struct {
	TglPeriksa string  `json:"tgl_periksa"`
	Jam        string  `json:"jam"`
	Kode       string  `json:"kode"`
	Nama       string  `json:"nama"`
	Dokter     string  `json:"dokter"`
	Petugas    string  `json:"petugas"`
	Biaya      float64 `json:"biaya"`
}

// RadiologyResult is the radiologist's reading.
type RadiologyResult struct {
	TglPeriksa string   `json:"tgl_periksa"`
	Jam        string   `json:"jam"`
	Hasil      string   `json:"hasil"`
	Klinis     string   `json:"klinis"`
	Judul      string   `json:"judul"`
	Kesan      string   `json:"kesan"`
	Saran      string   `json:"saran"`
	Gambar     []string `json:"gambar"`
}

// RadiologyData pairs exams with their results.
type RadiologyData struct {
	Exams   []RadiologyExam   `json:"exams"`
	Results []RadiologyResult `json:"results"`
}

// LabDetail is one analyte row within a lab examination.
type LabDetail struct {
	Pemeriksaan  string `json:"pemeriksaan"`
	Nilai        string `json:"nilai"`
	Satuan       string `json:"satuan"`
	NilaiRujukan string `json:"nilai_rujukan"`
	Keterangan   string `json:"keterangan"`
}

// LabExam is one laboratory examination with its detail rows.
type LabExam struct {
	TglPeriksa   string      `json:"tgl_periksa"`
	Jam          string      `json:"jam"`
	Kode         string      `json:"kode"`
	NamaTindakan string      `json:"nama_tindakan"`
	Dokter       string      `json:"dokter"`
	Biaya        float64     `json:"biaya"`
	Details      []LabDetail `json:"details"`
}

// MedicineItem is one dispensed medication entry.
type MedicineItem struct {
	TglPerawatan string  `json:"tgl_perawatan"`
	Jam          string  `json:"jam"`
	KodeBrng     string  `json:"kode_brng"`
	NamaObat     string  `json:"nama_obat"`
	Jumlah       float64 `json:"jumlah"`
	Satuan       string  `json:"satuan"`
	Dosis        string  `json:"dosis"`
	Biaya        float64 `json:"biaya"`
	Kategori     string  `json:"kategori"`
}

// MedicalResumeRalan is the outpatient discharge resume.
type MedicalResumeRalan struct {
	NoRawat           string `json:"no_rawat"`
	KdDokter          string `json:"kd_dokter"`
	NamaDokter        string `json:"nama_dokter"`
	DiagnosaUtama     string `json:"diagnosa_utama"`
	DiagnosaSekunder1 string `json:"diagnosa_sekunder1"`
	DiagnosaSekunder2 string `json:"diagnosa_sekunder2"`
	DiagnosaSekunder3 string `json:"diagnosa_sekunder3"`
	DiagnosaSekunder4 string `json:"diagnosa_sekunder4"`
	ProsedurUtama     string `json:"prosedur_utama"`
	ProsedurSekunder1 string `json:"prosedur_sekunder1"`
	ProsedurSekunder2 string `json:"prosedur_sekunder2"`
	ProsedurSekunder3 string `json:"prosedur_sekunder3"`
	KeluhanUtama      string `json:"keluhan_utama"`
	Pemeriksaan       string `json:"pemeriksaan"`
	Tensi             string `json:"tensi"`
	Respirasi         string `json:"respirasi"`
	Nadi              string `json:"nadi"`
	DirawatInapkan    string `json:"dirawat_inapkan"`
	KunjunganAwal     string `json:"kunjungan_awal"`
	KunjunganLanjutan string `json:"kunjungan_lanjutan"`
	Observasi         string `json:"observasi"`
	PostOperasi       string `json:"post_operasi"`
}

// MedicalResumeRanap is the inpatient discharge resume.
type MedicalResumeRanap struct {
	NoRawat              string `json:"no_rawat"`
	KdDokter             string `json:"kd_dokter"`
	NamaDokter           string `json:"nama_dokter"`
	DiagnosaAwal         string `json:"diagnosa_awal"`
	KeluhanUtama         string `json:"keluhan_utama"`
	JalannyaPenyakit     string `json:"jalannya_penyakit"`
	PemeriksaanFisik     string `json:"pemeriksaan_fisik"`
	PemeriksaanPenunjang string `json:"pemeriksaan_penunjang"`
	HasilLaborat         string `json:"hasil_laborat"`
	DiagnosaUtama        string `json:"diagnosa_utama"`
	DiagnosaSekunder1    string `json:"diagnosa_sekunder1"`
	DiagnosaSekunder2    string `json:"diagnosa_sekunder2"`
	DiagnosaSekunder3    string `json:"diagnosa_sekunder3"`
	DiagnosaSekunder4    string `json:"diagnosa_sekunder4"`
	ProsedurUtama        string `json:"prosedur_utama"`
	ProsedurSekunder1    string `json:"prosedur_sekunder1"`
	ProsedurSekunder2    string `json:"prosedur_sekunder2"`
	ProsedurSekunder3    string `json:"prosedur_sekunder3"`
	ObatPulang           string `json:"obat_pulang"`
	KondisiPulang        string `json:"kondisi_pulang"`
}

// BillingItem is one charged line within a billing category.
type BillingItem struct {
	No            int     `json:"no"`
	NamaPerawatan string  `json:"nama_perawatan"`
	Pemisah       string  `json:"pemisah"`
	Biaya         float64 `json:"biaya"`
	Jumlah        float64 `json:"jumlah"`
	Tambahan      float64 `json:"tambahan"`
	TotalBiaya    float64 `json:"total_biaya"`
}

// BillingCategory groups billing items with their subtotal.
type BillingCategory struct {
	Kategori string        `json:"kategori"`
	Items    []BillingItem `json:"items"`
	Subtotal float64       `json:"subtotal"`
}

// BillingSummary is the billing breakdown for the episode.
type BillingSummary struct {
	Mode        string            `json:"mode"`
	NoNota      string            `json:"no_nota"`
	TglBayar    string            `json:"tgl_bayar"`
	Kasir       string            `json:"kasir"`
	Categories  []BillingCategory `json:"categories"`
	JumlahTotal float64           `json:"jumlah_total"`
	Potongan    float64           `json:"potongan"`
	JumlahBayar float64           `json:"jumlah_bayar"`
	Terbilang   string            `json:"terbilang"`
}

// SPRIDetail is the inpatient referral letter.
type SPRIDetail struct {
	NoSurat      string `json:"no_surat"`
	TglSurat     string `json:"tgl_surat"`
	NoKartu      string `json:"no_kartu"`
	NamaPasien   string `json:"nama_pasien"`
	JenisKelamin string `json:"jenis_kelamin"`
	TglLahir     string `json:"tgl_lahir"`
	DiagnosaAwal string `json:"diagnosa_awal"`
	TglRencana   string `json:"tgl_rencana"`
	NamaDokter   string `json:"nama_dokter"`
	NamaPoli     string `json:"nama_poli"`
}

// DigitalDocument is one uploaded claim attachment.
type DigitalDocument struct {
	ID         string `json:"id"`
	NoRawat    string `json:"no_rawat"`
	Kode       string `json:"kode"`
	Kategori   string `json:"kategori"`
	LokasiFile string `json:"lokasi_file"`
	UploadedAt string `json:"uploaded_at"`
	FileURL    string `json:"file_url"`
}

// ClaimFullDetail is the whole aggregate the verifier reviews. The fetch
// is all-or-nothing: either every section arrives or the call fails.
type ClaimFullDetail struct {
	SEP          *SEPDetail          `json:"sep"`
	Patient      PatientRegistration `json:"patient"`
	Diagnoses    []DiagnosisItem     `json:"diagnoses"`
	Procedures   []ProcedureItem     `json:"procedures"`
	SOAPExams    []SOAPExamination   `json:"soap_exams"`
	Actions      []MedicalAction     `json:"actions"`
	RoomStays    []RoomStay          `json:"room_stays"`
	Operations   []OperationItem     `json:"operations"`
	OpReports    []OperationReport   `json:"op_reports"`
	Radiology    RadiologyData       `json:"radiology"`
	LabExams     []LabExam           `json:"lab_exams"`
	Medicines    []MedicineItem      `json:"medicines"`
	ResumeRalan  *MedicalResumeRalan `json:"resume_ralan"`
	ResumeRanap  *MedicalResumeRanap `json:"resume_ranap"`
	Billing      *BillingSummary     `json:"billing"`
	SPRI         *SPRIDetail         `json:"spri"`
	Documents    []DigitalDocument   `json:"documents"`
	StatusLanjut string              `json:"status_lanjut"`
	ClaimStatus  ClaimStatus         `json:"claim_status"`
}
