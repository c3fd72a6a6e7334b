package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/dkazarov/fleet-reports/internal/model"
	"github.com/dkazarov/fleet-reports/internal/service"
)

// ReportExporter renders a persisted report into a downloadable document.
type ReportExporter interface {
	Generate(report model.Report) ([]byte, error)
}

type Handler struct {
	reports  *service.ReportService
	tracks   *service.TrackService
	trips    *service.TripService
	vehicles *service.VehicleService
	excel    ReportExporter
	pdf      ReportExporter
	log      zerolog.Logger
}

func NewHandler(
	reports *service.ReportService,
	tracks *service.TrackService,
	trips *service.TripService,
	vehicles *service.VehicleService,
	excel ReportExporter,
	pdf ReportExporter,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		reports:  reports,
		tracks:   tracks,
		trips:    trips,
		vehicles: vehicles,
		excel:    excel,
		pdf:      pdf,
		log:      log,
	}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	api := router.Group("/api")
	api.Use(authMiddleware)

	api.GET("/reports", h.generateReport)
	api.GET("/reports/list", h.listReports)
	api.GET("/reports/:id", h.getReport)
	api.GET("/reports/:id/xlsx", h.exportReportXLSX)
	api.GET("/reports/:id/pdf", h.exportReportPDF)

	api.GET("/vehicles/:id/track", h.getTrack)
	api.GET("/vehicles/:id/trips", h.getTripSummaries)
	api.POST("/vehicles/:id/trips", h.uploadTrip)

	api.POST("/vehicles", h.createVehicle)
	api.PUT("/vehicles/:id", h.updateVehicle)
	api.DELETE("/vehicles/:id", h.deleteVehicle)
}

func (h *Handler) generateReport(c *gin.Context) {
	input := service.GenerateReportInput{
		ReportType: c.Query("report_type"),
		StartDate:  c.Query("start_date"),
		EndDate:    c.Query("end_date"),
		Period:     c.DefaultQuery("period", "day"),
	}

	var err error
	if input.VehicleID, err = optionalID(c.Query("vehicle_id")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle_id"})
		return
	}
	if input.DriverID, err = optionalID(c.Query("driver_id")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid driver_id"})
		return
	}
	if input.EnterpriseID, err = optionalID(c.Query("enterprise_id")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid enterprise_id"})
		return
	}

	report, err := h.reports.Generate(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", report.Result)
}

type reportListItem struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ReportType string `json:"report_type"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Period     string `json:"period"`
	CreatedAt  string `json:"created_at"`
}

func (h *Handler) listReports(c *gin.Context) {
	reports, err := h.reports.ListReports(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	items := make([]reportListItem, 0, len(reports))
	for _, report := range reports {
		items = append(items, reportListItem{
			ID:         report.ID.String(),
			Name:       report.Name,
			ReportType: string(report.ReportType),
			StartDate:  report.StartDate.Format("2006-01-02"),
			EndDate:    report.EndDate.Format("2006-01-02"),
			Period:     report.Period,
			CreatedAt:  report.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) getReport(c *gin.Context) {
	report, err := h.reports.GetReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", report.Result)
}

func (h *Handler) exportReportXLSX(c *gin.Context) {
	report, err := h.reports.GetReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	content, err := h.excel.Generate(*report)
	if err != nil {
		h.handleError(c, err)
		return
	}

	fileName := report.ID.String() + ".xlsx"
	c.Header("Content-Disposition", "attachment; filename=\""+fileName+"\"")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
}

func (h *Handler) exportReportPDF(c *gin.Context) {
	report, err := h.reports.GetReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	content, err := h.pdf.Generate(*report)
	if err != nil {
		h.handleError(c, err)
		return
	}

	fileName := report.ID.String() + ".pdf"
	c.Header("Content-Disposition", "attachment; filename=\""+fileName+"\"")
	c.Data(http.StatusOK, "application/pdf", content)
}

func (h *Handler) getTrack(c *gin.Context) {
	vehicleID, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle id"})
		return
	}

	start, err := parseDateTime(c.Query("start_time"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_time"})
		return
	}
	end, err := parseDateTime(c.Query("end_time"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_time"})
		return
	}

	result, err := h.tracks.GetTrackPoints(c.Request.Context(), vehicleID, start, end, c.DefaultQuery("f", "json"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) getTripSummaries(c *gin.Context) {
	vehicleID, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle id"})
		return
	}

	start, err := parseDateTime(c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start"})
		return
	}
	end, err := parseDateTime(c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end"})
		return
	}

	summaries, err := h.trips.Summaries(c.Request.Context(), vehicleID, start, end)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, summaries)
}

type uploadTripRequest struct {
	StartTime time.Time                 `json:"start_time" binding:"required"`
	EndTime   time.Time                 `json:"end_time" binding:"required"`
	Points    []service.TrackPointInput `json:"points"`
}

func (h *Handler) uploadTrip(c *gin.Context) {
	vehicleID, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle id"})
		return
	}

	var req uploadTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trip, err := h.trips.UploadTrip(c.Request.Context(), vehicleID, req.StartTime, req.EndTime, req.Points)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"trip_id": trip.ID})
}

type vehicleRequest struct {
	Plate          string `json:"plate"`
	ModelName      string `json:"model_name"`
	Color          string `json:"color"`
	EnterpriseID   *int64 `json:"enterprise_id"`
	ActiveDriverID *int64 `json:"active_driver_id"`
}

func (h *Handler) createVehicle(c *gin.Context) {
	var req vehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vehicle := model.Vehicle{
		Plate:          req.Plate,
		ModelName:      req.ModelName,
		Color:          req.Color,
		EnterpriseID:   req.EnterpriseID,
		ActiveDriverID: req.ActiveDriverID,
	}
	if err := h.vehicles.CreateVehicle(c.Request.Context(), &vehicle); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": vehicle.ID})
}

func (h *Handler) updateVehicle(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle id"})
		return
	}

	var req vehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vehicle := model.Vehicle{
		ID:             id,
		Plate:          req.Plate,
		ModelName:      req.ModelName,
		Color:          req.Color,
		EnterpriseID:   req.EnterpriseID,
		ActiveDriverID: req.ActiveDriverID,
	}
	if err := h.vehicles.UpdateVehicle(c.Request.Context(), &vehicle); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) deleteVehicle(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle id"})
		return
	}
	if err := h.vehicles.DeleteVehicle(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrTripOverlap):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func pathID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func optionalID(raw string) (*int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseDateTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, service.ErrInvalidInput
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, service.ErrInvalidInput
}
