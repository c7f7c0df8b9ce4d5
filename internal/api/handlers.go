package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/smartsite-ai/sitectl/internal/metrics"
	"github.com/smartsite-ai/sitectl/internal/report"
)

// formFile is the multipart field carrying the spreadsheet.
const formFile = "file"

// createReport handles POST /v1/reports.
func (s *Server) createReport(w http.ResponseWriter, r *http.Request) {
	limit := s.cfg.Server.MaxUploadBytes
	if r.ContentLength > limit {
		metrics.ObserveUpload(metrics.ResultRejected)
		writeError(w, r, http.StatusRequestEntityTooLarge, "too_large",
			fmt.Sprintf("upload exceeds %d bytes", limit))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(limit); err != nil {
		metrics.ObserveUpload(metrics.ResultRejected)
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "too_large",
				fmt.Sprintf("upload exceeds %d bytes", limit))
			return
		}
		writeError(w, r, http.StatusBadRequest, "bad_request", "expected a multipart form with a file field")
		return
	}

	file, header, err := r.FormFile(formFile)
	if err != nil {
		metrics.ObserveUpload(metrics.ResultRejected)
		writeError(w, r, http.StatusBadRequest, "bad_request", "missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		metrics.ObserveUpload(metrics.ResultRejected)
		writeError(w, r, http.StatusBadRequest, "bad_request", "could not read upload")
		return
	}

	opts, err := s.optionsFromForm(r)
	if err != nil {
		metrics.ObserveUpload(metrics.ResultRejected)
		writeError(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	upload := report.Upload{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}

	start := time.Now()
	rep, cached, err := s.store.GetOrBuild(r.Context(), s.builder, upload, opts)
	if err != nil {
		metrics.ObserveUpload(metrics.ResultInvalid)
		s.logger.Info("upload rejected",
			zap.String("request_id", RequestID(r.Context())),
			zap.String("file", upload.Name),
			zap.Error(err),
		)
		writeBuildError(w, r, err)
		return
	}

	if cached {
		metrics.ObserveUpload(metrics.ResultCached)
	} else {
		metrics.ObserveUpload(metrics.ResultCreated)
		metrics.ObserveReport(len(rep.Items), len(rep.Alerts.Alerts), time.Since(start))
		metrics.SetReportsStored(s.store.Len())
		s.logger.Info("report created",
			zap.String("request_id", RequestID(r.Context())),
			zap.String("report_id", rep.ID),
			zap.String("file", upload.Name),
			zap.Float64("size_kb", rep.Source.SizeKB()),
			zap.Int("items", len(rep.Items)),
			zap.Int("alerts", len(rep.Alerts.Alerts)),
			zap.Int("zero_quantity", len(rep.Summary.Warnings)),
		)
	}

	w.Header().Set("Location", "/v1/reports/"+rep.ID)
	w.Header().Set("X-Report-Cached", fmt.Sprint(cached))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, rep)
}

// optionsFromForm reads threshold and schedule fields, falling back to config.
func (s *Server) optionsFromForm(r *http.Request) (report.Options, error) {
	opts := report.Options{
		Threshold:      s.cfg.Alert.Threshold,
		Weighted:       s.cfg.Aggregation.Weighted,
		CriticalMargin: s.cfg.Schedule.CriticalMargin,
	}
	if s.cfg.Schedule.HasSchedule() {
		opts.Schedule = &report.Schedule{
			ElapsedDays: s.cfg.Schedule.ElapsedDays,
			PlannedDays: s.cfg.Schedule.PlannedDays,
		}
	}

	if v := strings.TrimSpace(r.FormValue("threshold")); v != "" {
		threshold, err := cast.ToFloat64E(v)
		if err != nil {
			return opts, fmt.Errorf("threshold must be a number")
		}
		opts.Threshold = threshold
	}

	if v := strings.TrimSpace(r.FormValue("weighted")); v != "" {
		weighted, err := cast.ToBoolE(v)
		if err != nil {
			return opts, fmt.Errorf("weighted must be true or false")
		}
		opts.Weighted = weighted
	}

	elapsed := strings.TrimSpace(r.FormValue("elapsed_days"))
	planned := strings.TrimSpace(r.FormValue("planned_days"))
	if elapsed != "" || planned != "" {
		if elapsed == "" || planned == "" {
			return opts, fmt.Errorf("elapsed_days and planned_days must be given together")
		}
		e, err := cast.ToFloat64E(elapsed)
		if err != nil {
			return opts, fmt.Errorf("elapsed_days must be a number")
		}
		p, err := cast.ToFloat64E(planned)
		if err != nil {
			return opts, fmt.Errorf("planned_days must be a number")
		}
		opts.Schedule = &report.Schedule{ElapsedDays: e, PlannedDays: p}
	}

	return opts, nil
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*report.Report, bool) {
	id := chi.URLParam(r, "id")
	rep, ok := s.store.Get(id)
	if !ok {
		writeError(w, r, http.StatusNotFound, "not_found", "report not found")
		return nil, false
	}
	return rep, true
}

// getReport handles GET /v1/reports/{id}.
func (s *Server) getReport(w http.ResponseWriter, r *http.Request) {
	if rep, ok := s.lookup(w, r); ok {
		render.JSON(w, r, rep)
	}
}

// getAlerts handles GET /v1/reports/{id}/alerts.
func (s *Server) getAlerts(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.lookup(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, map[string]any{
		"state":     rep.Alerts.State(),
		"threshold": rep.Alerts.Threshold,
		"alerts":    rep.Alerts.Alerts,
	})
}

// exportReport handles GET /v1/reports/{id}/export.csv.
func (s *Server) exportReport(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeCSV(w, exportName(rep, "summary"), rep.Export, s.logger)
}

// exportGroups handles GET /v1/reports/{id}/groups.csv.
func (s *Server) exportGroups(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeCSV(w, exportName(rep, "groups"), rep.ExportGroups, s.logger)
}

func exportName(rep *report.Report, kind string) string {
	base := rep.Source.Name
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	if base == "" {
		base = rep.ID
	}
	return base + "_" + kind + ".csv"
}

func writeCSV(w http.ResponseWriter, filename string, write func(io.Writer) error, logger *zap.Logger) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if err := write(w); err != nil {
		logger.Error("csv export failed", zap.Error(err))
	}
}
