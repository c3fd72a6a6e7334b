package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dkazarov/fleet-reports/internal/model"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) CreateReport(ctx context.Context, report *model.Report) error {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Raw(`
		INSERT INTO reports (id, name, report_type, start_date, end_date, period, result)
		VALUES (?, ?, ?, ?, ?, ?, ?::jsonb)
		RETURNING created_at
	`, report.ID, report.Name, string(report.ReportType), report.StartDate, report.EndDate,
		report.Period, string(report.Result)).Scan(&report.CreatedAt).Error
}

func (r *ReportRepository) GetReport(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	var report model.Report
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, report_type, start_date, end_date, period,
			result::text AS result, created_at
		FROM reports
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&report).Error; err != nil {
		return nil, err
	}
	if report.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &report, nil
}

func (r *ReportRepository) ListReports(ctx context.Context) ([]model.Report, error) {
	var reports []model.Report
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, report_type, start_date, end_date, period,
			result::text AS result, created_at
		FROM reports
		ORDER BY created_at DESC
	`).Scan(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}
