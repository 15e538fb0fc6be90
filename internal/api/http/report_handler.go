package http

import (
	"net/http"
	"time"

	"evstation-backend/internal/domain"
	"evstation-backend/internal/service"
)

type ReportHandler struct {
	reportSvc service.ReportService
}

func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// reportWindow parses the from/to query parameters; to defaults to now,
// from defaults to 30 days before to.
func reportWindow(r *http.Request) (time.Time, time.Time, error) {
	q := r.URL.Query()

	end := time.Now()
	if raw := q.Get("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, time.Time{}, domain.ValidationError("invalid to date %q", raw)
		}
		end = parsed.Add(24 * time.Hour)
	}

	start := end.AddDate(0, 0, -30)
	if raw := q.Get("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, time.Time{}, domain.ValidationError("invalid from date %q", raw)
		}
		start = parsed
	}
	return start, end, nil
}

func (h *ReportHandler) Revenue(w http.ResponseWriter, r *http.Request) {
	start, end, err := reportWindow(r)
	if err != nil {
		writeError(w, err)
		return
	}
	rows, err := h.reportSvc.RevenueByStation(r.Context(), start, end)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *ReportHandler) Utilization(w http.ResponseWriter, r *http.Request) {
	start, end, err := reportWindow(r)
	if err != nil {
		writeError(w, err)
		return
	}
	report, err := h.reportSvc.Utilization(r.Context(), start, end, stationIDQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *ReportHandler) PeakHours(w http.ResponseWriter, r *http.Request) {
	start, end, err := reportWindow(r)
	if err != nil {
		writeError(w, err)
		return
	}
	hours, err := h.reportSvc.PeakHours(r.Context(), start, end)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hours)
}

func (h *ReportHandler) MyAnalytics(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	analytics, err := h.reportSvc.RenterAnalytics(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics)
}
