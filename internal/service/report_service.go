package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/dkazarov/fleet-reports/internal/model"
	"github.com/dkazarov/fleet-reports/internal/timebucket"
)

const dateLayout = "2006-01-02"

// ReportService orchestrates the three report generators. Each generation
// is an independent, stateless computation: it validates input, fetches
// trips for the window, aggregates, persists one immutable Report row and
// returns it. Concurrent generations of identical parameters each write
// their own row; reports are idempotent in content, not deduplicated.
type ReportService struct {
	vehicles    VehicleStore
	drivers     DriverStore
	enterprises EnterpriseStore
	trips       TripStore
	reports     ReportStore
	aggregator  *MileageAggregator
	log         zerolog.Logger
}

func NewReportService(
	vehicles VehicleStore,
	drivers DriverStore,
	enterprises EnterpriseStore,
	trips TripStore,
	tracks TrackStore,
	reports ReportStore,
	log zerolog.Logger,
) *ReportService {
	return &ReportService{
		vehicles:    vehicles,
		drivers:     drivers,
		enterprises: enterprises,
		trips:       trips,
		reports:     reports,
		aggregator:  NewMileageAggregator(tracks),
		log:         log,
	}
}

type GenerateReportInput struct {
	ReportType   string
	VehicleID    *int64
	DriverID     *int64
	EnterpriseID *int64
	StartDate    string
	EndDate      string
	Period       string
}

// Generate dispatches on report type. All per-request failures surface as
// ErrInvalidInput or ErrNotFound; nothing is persisted on failure.
func (s *ReportService) Generate(ctx context.Context, input GenerateReportInput) (*model.Report, error) {
	start, err := time.Parse(dateLayout, input.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: bad start_date %q", ErrInvalidInput, input.StartDate)
	}
	end, err := time.Parse(dateLayout, input.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: bad end_date %q", ErrInvalidInput, input.EndDate)
	}
	if start.After(end) {
		return nil, fmt.Errorf("%w: start_date is after end_date", ErrInvalidInput)
	}
	period := timebucket.ParsePeriod(input.Period)

	switch model.ReportType(input.ReportType) {
	case model.ReportTypeCarMileage:
		if input.VehicleID == nil {
			return nil, fmt.Errorf("%w: vehicle_id is required", ErrInvalidInput)
		}
		return s.generateCarMileage(ctx, *input.VehicleID, start, end, period)
	case model.ReportTypeDriverTime:
		if input.DriverID == nil {
			return nil, fmt.Errorf("%w: driver_id is required", ErrInvalidInput)
		}
		return s.generateDriverTime(ctx, *input.DriverID, start, end, period)
	case model.ReportTypeEnterpriseActiveCars:
		if input.EnterpriseID == nil {
			return nil, fmt.Errorf("%w: enterprise_id is required", ErrInvalidInput)
		}
		return s.generateEnterpriseActiveCars(ctx, *input.EnterpriseID, start, end, period)
	default:
		return nil, fmt.Errorf("%w: unknown report type %q", ErrInvalidInput, input.ReportType)
	}
}

func (s *ReportService) generateCarMileage(ctx context.Context, vehicleID int64, start, end time.Time, period timebucket.Period) (*model.Report, error) {
	vehicle, err := s.vehicles.GetVehicle(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: vehicle %d", ErrNotFound, vehicleID)
		}
		return nil, err
	}

	loc, err := s.vehicleLocation(ctx, vehicle)
	if err != nil {
		return nil, err
	}

	series, err := s.mileageSeries(ctx, vehicle.ID, start, end, loc, period)
	if err != nil {
		return nil, err
	}

	result := model.MileageResult{Data: series, Unit: "km"}
	name := fmt.Sprintf("Vehicle %d mileage %s..%s", vehicleID, start.Format(dateLayout), end.Format(dateLayout))
	return s.persist(ctx, name, model.ReportTypeCarMileage, start, end, period, result)
}

func (s *ReportService) generateDriverTime(ctx context.Context, driverID int64, start, end time.Time, period timebucket.Period) (*model.Report, error) {
	driver, err := s.drivers.GetDriver(ctx, driverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: driver %d", ErrNotFound, driverID)
		}
		return nil, err
	}

	loc, err := s.enterpriseLocation(ctx, driver.EnterpriseID)
	if err != nil {
		return nil, err
	}

	from, to := localWindow(start, end, loc)
	trips, err := s.trips.TripsForActiveDriver(ctx, driver.ID, from, to)
	if err != nil {
		return nil, err
	}

	result := model.DriveTimeResult{Data: AggregateDriveTime(trips, loc, period), Unit: "hours"}
	name := fmt.Sprintf("Driver %d time %s..%s", driverID, start.Format(dateLayout), end.Format(dateLayout))
	return s.persist(ctx, name, model.ReportTypeDriverTime, start, end, period, result)
}

func (s *ReportService) generateEnterpriseActiveCars(ctx context.Context, enterpriseID int64, start, end time.Time, period timebucket.Period) (*model.Report, error) {
	enterprise, err := s.enterprises.GetEnterprise(ctx, enterpriseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: enterprise %d", ErrNotFound, enterpriseID)
		}
		return nil, err
	}

	loc, err := timebucket.LoadZone(enterprise.Timezone)
	if err != nil {
		return nil, err
	}

	vehicles, err := s.vehicles.ListActiveVehicles(ctx, enterpriseID)
	if err != nil {
		return nil, err
	}

	cars := make([]model.EnterpriseCarMileage, 0, len(vehicles))
	for _, vehicle := range vehicles {
		series, err := s.mileageSeries(ctx, vehicle.ID, start, end, loc, period)
		if err != nil {
			return nil, err
		}
		if len(series) == 0 {
			// vehicles without mileage in the window are omitted, not
			// reported as zero
			continue
		}

		driver, err := s.drivers.GetDriver(ctx, *vehicle.ActiveDriverID)
		if err != nil {
			return nil, err
		}
		cars = append(cars, model.EnterpriseCarMileage{
			CarID:       vehicle.ID,
			DriverName:  driver.Name,
			MileageData: series,
		})
	}

	result := model.EnterpriseMileageResult{
		Cars: cars,
		Info: model.EnterpriseReportInfo{
			EnterpriseID: enterpriseID,
			StartDate:    start.Format(dateLayout),
			EndDate:      end.Format(dateLayout),
			Period:       string(period),
		},
	}
	name := fmt.Sprintf("Enterprise %d active vehicles %s..%s", enterpriseID, start.Format(dateLayout), end.Format(dateLayout))
	return s.persist(ctx, name, model.ReportTypeEnterpriseActiveCars, start, end, period, result)
}

func (s *ReportService) mileageSeries(ctx context.Context, vehicleID int64, start, end time.Time, loc *time.Location, period timebucket.Period) ([]model.MileagePoint, error) {
	from, to := localWindow(start, end, loc)
	trips, err := s.trips.TripsForVehicle(ctx, vehicleID, from, to)
	if err != nil {
		return nil, err
	}
	return s.aggregator.Aggregate(ctx, trips, loc, period)
}

func (s *ReportService) persist(ctx context.Context, name string, reportType model.ReportType, start, end time.Time, period timebucket.Period, result any) (*model.Report, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	report := &model.Report{
		Name:       name,
		ReportType: reportType,
		StartDate:  start,
		EndDate:    end,
		Period:     string(period),
		Result:     payload,
	}
	if err := s.reports.CreateReport(ctx, report); err != nil {
		return nil, err
	}
	s.log.Info().
		Str("report_type", string(reportType)).
		Str("report_id", report.ID.String()).
		Msg("report generated")
	return report, nil
}

// vehicleLocation resolves the zone of the vehicle's owning enterprise.
// A vehicle outside any enterprise falls back to UTC.
func (s *ReportService) vehicleLocation(ctx context.Context, vehicle *model.Vehicle) (*time.Location, error) {
	return s.enterpriseLocation(ctx, vehicle.EnterpriseID)
}

func (s *ReportService) enterpriseLocation(ctx context.Context, enterpriseID *int64) (*time.Location, error) {
	if enterpriseID == nil {
		return time.UTC, nil
	}
	enterprise, err := s.enterprises.GetEnterprise(ctx, *enterpriseID)
	if err != nil {
		return nil, err
	}
	return timebucket.LoadZone(enterprise.Timezone)
}

// localWindow converts an inclusive local calendar date range into the
// half-open UTC instant window [start 00:00 local, end+1d 00:00 local).
// Trips count when fully contained in the window.
func localWindow(start, end time.Time, loc *time.Location) (time.Time, time.Time) {
	from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	to := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
	return from.UTC(), to.UTC()
}

// GetReport and ListReports expose persisted results to the web layer.

func (s *ReportService) GetReport(ctx context.Context, id string) (*model.Report, error) {
	reportID, err := parseReportID(id)
	if err != nil {
		return nil, err
	}
	report, err := s.reports.GetReport(ctx, reportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: report %s", ErrNotFound, id)
		}
		return nil, err
	}
	return report, nil
}

func (s *ReportService) ListReports(ctx context.Context) ([]model.Report, error) {
	return s.reports.ListReports(ctx)
}

func parseReportID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: bad report id %q", ErrInvalidInput, raw)
	}
	return id, nil
}
