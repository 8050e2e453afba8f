package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/internship-api/internal/models"
	appErrors "github.com/noah-isme/internship-api/pkg/errors"
	"github.com/noah-isme/internship-api/pkg/export"
)

type reportRepository interface {
	PlacementsPerEmployer(ctx context.Context) ([]models.EmployerPlacementCount, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

const placementsPerEmployerTitle = "Placements per employer"

// ReportService builds aggregate reports and their file exports.
type ReportService struct {
	repo    reportRepository
	csv     csvRenderer
	pdf     pdfRenderer
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewReportService constructs a ReportService.
func NewReportService(repo reportRepository, metrics *MetricsService, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ReportService{repo: repo, csv: csv, pdf: pdf, metrics: metrics, logger: logger, now: time.Now}
}

// ParseReportFormat validates the requested format, defaulting to JSON.
func ParseReportFormat(raw string) (models.ReportFormat, error) {
	switch models.ReportFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case "", models.ReportFormatJSON:
		return models.ReportFormatJSON, nil
	case models.ReportFormatCSV:
		return models.ReportFormatCSV, nil
	case models.ReportFormatPDF:
		return models.ReportFormatPDF, nil
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported report format %q", raw))
	}
}

// PlacementsPerEmployer returns placement counts per employer. An empty result
// is reported as NotFound.
func (s *ReportService) PlacementsPerEmployer(ctx context.Context) ([]models.EmployerPlacementCount, error) {
	start := time.Now()
	rows, err := s.repo.PlacementsPerEmployer(ctx)
	s.metrics.ObserveDBQuery("report_placements_per_employer", time.Since(start))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to build placements report")
	}
	if len(rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no placements found")
	}
	return rows, nil
}

// ExportPlacementsPerEmployer renders the placements-per-employer report as CSV or PDF.
func (s *ReportService) ExportPlacementsPerEmployer(ctx context.Context, format models.ReportFormat) (*models.ReportFile, error) {
	rows, err := s.PlacementsPerEmployer(ctx)
	if err != nil {
		return nil, err
	}
	dataset := placementsDataset(rows)
	stamp := s.now().UTC().Format("20060102-150405")

	var (
		content     []byte
		contentType string
	)
	switch format {
	case models.ReportFormatCSV:
		content, err = s.csv.Render(dataset)
		contentType = "text/csv"
	case models.ReportFormatPDF:
		content, err = s.pdf.Render(dataset, placementsPerEmployerTitle)
		contentType = "application/pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render report")
	}
	s.logger.Debug("report exported", zap.String("format", string(format)), zap.Int("rows", len(rows)))
	return &models.ReportFile{
		Filename:    fmt.Sprintf("placements-per-employer-%s.%s", stamp, format),
		ContentType: contentType,
		Content:     content,
	}, nil
}

func placementsDataset(rows []models.EmployerPlacementCount) export.Dataset {
	headers := []string{"Company", "Placements"}
	data := export.Dataset{Headers: headers, Rows: make([]map[string]string, 0, len(rows))}
	for _, row := range rows {
		data.Rows = append(data.Rows, map[string]string{
			"Company":    row.CompanyName,
			"Placements": strconv.Itoa(row.PlacementCount),
		})
	}
	return data
}
