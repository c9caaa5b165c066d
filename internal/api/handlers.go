package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/mux"

	"github.com/piwi3910/SiteTakeoff/internal/engine"
	"github.com/piwi3910/SiteTakeoff/internal/export"
	"github.com/piwi3910/SiteTakeoff/internal/importer"
	"github.com/piwi3910/SiteTakeoff/internal/model"
)

// Response statuses of the calculator endpoints.
const (
	StatusOK            = "ok"
	StatusAwaitingInput = "awaiting_input"
)

// CalcResponse is the body of a calculator response. Result is null while
// the configuration is missing its dimensions.
type CalcResponse struct {
	Status   string           `json:"status"`
	Result   *model.BomResult `json:"result"`
	Warnings []string         `json:"warnings,omitempty"`
}

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

type exportFormat struct {
	ext         string
	contentType string
}

var exportFormats = map[string]exportFormat{
	"pdf":    {".pdf", "application/pdf"},
	"labels": {".pdf", "application/pdf"},
	"xlsx":   {".xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
	"dxf":    {".dxf", "application/dxf"},
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	writeJSON(w, code, ErrorResponse{Error: msg, RequestID: requestIDFrom(r.Context())})
}

// methodNotAllowed answers 405 for a route that only accepts allow.
func methodNotAllowed(allow string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", allow)
		writeError(w, r, http.StatusMethodNotAllowed, r.Method+" is not allowed, use "+allow)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleCalculate runs the calculator named in the path.
func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	calc, cfg, warnings, err := s.decodeConfig(w, r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.engine.Calculate(cfg)
	if err != nil {
		s.metrics.calculations.WithLabelValues(string(calc), outcomeError).Inc()
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	if result == nil {
		s.metrics.calculations.WithLabelValues(string(calc), outcomeAwaitingInput).Inc()
		writeJSON(w, http.StatusOK, CalcResponse{Status: StatusAwaitingInput, Warnings: warnings})
		return
	}

	s.metrics.calculations.WithLabelValues(string(calc), outcomeOK).Inc()
	writeJSON(w, http.StatusOK, CalcResponse{Status: StatusOK, Result: result, Warnings: warnings})
}

// handleExport runs the calculator and answers with the result written in
// the format named in the path.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	calc, cfg, _, err := s.decodeConfig(w, r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	result, err := s.engine.Calculate(cfg)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	if result == nil {
		writeError(w, r, http.StatusUnprocessableEntity, "awaiting input: plan dimensions are missing")
		return
	}

	name := mux.Vars(r)["format"]
	format := exportFormats[name]
	data, err := s.render(result, name, format, r)
	if err != nil {
		s.logger.Error("Export failed", "format", name, "err", err, "request_id", requestIDFrom(r.Context()))
		writeError(w, r, http.StatusInternalServerError, "export failed")
		return
	}
	s.metrics.exports.WithLabelValues(name).Inc()

	filename := string(calc)
	if name == "labels" {
		filename += "-labels"
	}
	w.Header().Set("Content-Type", format.contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+format.ext))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// render writes result to a temporary file in the named format and returns
// its contents.
func (s *Server) render(result *model.BomResult, name string, format exportFormat, r *http.Request) ([]byte, error) {
	dir, err := os.MkdirTemp("", "sitetakeoff-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "export"+format.ext)
	query := r.URL.Query()
	switch name {
	case "pdf":
		err = export.ExportPDF(path, result, query.Get("title"))
	case "labels":
		err = export.ExportLabels(path, result, query.Get("job"))
	case "xlsx":
		err = export.ExportXLSX(path, result)
	case "dxf":
		err = export.ExportDXF(path, result)
	default:
		err = fmt.Errorf("unknown export format %q", name)
	}
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// decodeConfig builds the configuration of the calculator named in the
// path from the server defaults and the request body. Form bodies go
// through the same field names and locking as imported sheets.
func (s *Server) decodeConfig(w http.ResponseWriter, r *http.Request) (model.Calculator, any, []string, error) {
	calc, err := model.ParseCalculator(mux.Vars(r)["calculator"])
	if err != nil {
		return "", nil, nil, err
	}
	cfg, err := model.NewConfig(calc)
	if err != nil {
		return "", nil, nil, err
	}
	s.defaults.ApplyToCommon(model.CommonOf(cfg))

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			return "", nil, nil, fmt.Errorf("invalid form: %w", err)
		}
		values := make(map[string]string, len(r.PostForm))
		for k := range r.PostForm {
			values[k] = r.PostForm.Get(k)
		}
		res := importer.ParseForm(values)
		res.Apply(cfg)
		return calc, cfg, res.Warnings, nil
	}

	if err := json.NewDecoder(r.Body).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return "", nil, nil, fmt.Errorf("invalid %s configuration: %w", calc, err)
	}
	return calc, cfg, nil, nil
}

// handleTier answers with the structural defaults of the tier in the query.
func (s *Server) handleTier(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	spec := model.TierSpec{Skill: model.SkillTier(q.Get("skill")), Budget: model.BudgetTier(q.Get("budget"))}
	if spec.Skill == "" {
		spec.Skill = s.defaults.DefaultSkill
	}
	if spec.Budget == "" {
		spec.Budget = s.defaults.DefaultBudget
	}
	height := model.ParseNumber(q.Get("height")).Float()
	writeJSON(w, http.StatusOK, engine.ResolveTierDefaults(spec, height))
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Catalog())
}
