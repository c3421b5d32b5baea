package model

import "time"

// ReportKind selects which spreadsheet report the backend renders.
type ReportKind string

const (
	ReportCategory   ReportKind = "category"
	ReportDepartment ReportKind = "department"
)

// Valid reports whether k is a known report.
func (k ReportKind) Valid() bool {
	return k == ReportCategory || k == ReportDepartment
}

// Report is a rendered report together with its archived copy.
type Report struct {
	Kind        ReportKind
	Range       DateRange
	FileName    string
	ContentType string
	Data        []byte
	ArchiveKey  string
	ArchiveURL  string
	URLExpires  time.Time
}
