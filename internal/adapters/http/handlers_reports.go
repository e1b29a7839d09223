package web

import (
	"encoding/csv"
	"errors"
	"log/slog"
	"net/http"

	"messhall/internal/application/filterlink"
	"messhall/internal/application/projections"
	"messhall/internal/domain/report"
)

// reportFilterFromQuery reads type, start_date and end_date.
func reportFilterFromQuery(r *http.Request) report.Filter {
	q := r.URL.Query()
	return report.Filter{
		Type:      q.Get("type"),
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
	}
}

func runReport(r *http.Request) (projections.Report, error) {
	deps := projections.GetReportDeps{
		AccountStore: stores.AccountStore,
		MealStore:    stores.MealStore,
		PaymentStore: stores.PaymentStore,
		MealCost:     settings.MealCost,
	}
	return projections.QueryGetReport(r.Context(), reportFilterFromQuery(r), deps, timeNow())
}

func isFilterError(err error) bool {
	return errors.Is(err, report.ErrInvalidType) || errors.Is(err, report.ErrInvalidDate) || errors.Is(err, report.ErrInvertedSpan)
}

// handleAdminReports handles GET /admin/reports.
func handleAdminReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	rep, err := runReport(r)
	if err != nil {
		if !isFilterError(err) {
			internalError(w, err)
			return
		}
		renderTemplateStatus(w, r, http.StatusBadRequest, "admin_reports.html", map[string]any{
			"Filter": reportFilterFromQuery(r).WithDefaults(timeNow()),
			"Error":  err.Error(),
		})
		return
	}

	links := filterlink.ReportFilter{
		Type:      rep.Filter.Type,
		StartDate: rep.Filter.StartDate,
		EndDate:   rep.Filter.EndDate,
	}
	renderTemplate(w, r, "admin_reports.html", map[string]any{
		"Filter":      rep.Filter,
		"Report":      rep,
		"DownloadURL": links.DownloadURL(""),
	})
}

// handleAdminReportsExport handles GET /admin/reports/export as a CSV attachment.
func handleAdminReportsExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	rep, err := runReport(r)
	if err != nil {
		if isFilterError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		internalError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+rep.Filter.Filename())
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rep.CSVRecords(settings.Currency)); err != nil {
		slog.Error("csv_export_failed", "type", rep.Filter.Type, "error", err.Error())
	}
}
