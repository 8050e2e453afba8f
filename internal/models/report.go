package models

// EmployerPlacementCount is one row of the placements-per-employer report.
type EmployerPlacementCount struct {
	CompanyName    string `db:"company_name" json:"company_name"`
	PlacementCount int    `db:"placement_count" json:"placement_count"`
}

// ReportFormat enumerates supported report renderings.
type ReportFormat string

const (
	ReportFormatJSON ReportFormat = "json"
	ReportFormatCSV  ReportFormat = "csv"
	ReportFormatPDF  ReportFormat = "pdf"
)

// ReportFile carries a rendered report export.
type ReportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}
