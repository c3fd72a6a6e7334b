package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type ReportType string

const (
	ReportTypeCarMileage           ReportType = "car_mileage"
	ReportTypeDriverTime           ReportType = "driver_time"
	ReportTypeEnterpriseActiveCars ReportType = "enterprise_active_cars"
)

// Report is a persisted generation result. Immutable after creation;
// repeated generations with the same parameters create new rows.
type Report struct {
	ID         uuid.UUID
	Name       string
	ReportType ReportType
	StartDate  time.Time
	EndDate    time.Time
	Period     string
	Result     json.RawMessage
	CreatedAt  time.Time
}

// MileagePoint is one bucket of a mileage series. The time string is the
// bucket key (YYYY-MM-DD, YYYY-MM or YYYY) in the enterprise's local zone.
type MileagePoint struct {
	Time  string  `json:"time"`
	Value float64 `json:"value"`
}

type DriveTimePoint struct {
	Time  string  `json:"time"`
	Hours float64 `json:"hours"`
}

// The three result payloads below are the wire contract consumed by the
// web and bot layers; field names and nesting must stay stable.

type MileageResult struct {
	Data []MileagePoint `json:"data"`
	Unit string         `json:"unit"`
}

type DriveTimeResult struct {
	Data []DriveTimePoint `json:"data"`
	Unit string           `json:"unit"`
}

type EnterpriseCarMileage struct {
	CarID       int64          `json:"car_id"`
	DriverName  string         `json:"driver_name"`
	MileageData []MileagePoint `json:"mileage_data"`
}

type EnterpriseReportInfo struct {
	EnterpriseID int64  `json:"enterprise_id"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Period       string `json:"period"`
}

type EnterpriseMileageResult struct {
	Cars []EnterpriseCarMileage `json:"cars"`
	Info EnterpriseReportInfo   `json:"info"`
}
