package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/koustreak/colmeta/internal/errs"
	"github.com/koustreak/colmeta/internal/typemeta"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type tablesResponse struct {
	Tables []string `json:"tables"`
}

type keysResponse struct {
	Prefix      string               `json:"prefix"`
	PrimaryKey  typemeta.KeyColumns  `json:"primary_key"`
	Constraints []constraintResponse `json:"constraints,omitempty"`
}

type constraintResponse struct {
	typemeta.Constraint
	Columns typemeta.KeyColumns `json:"columns"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(r.Context()); err != nil {
		s.log.ErrorWith("health check failed", err, nil)
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: errs.KindOf(err).String(), Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	tables, err := s.insp.ListTables(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tablesResponse{Tables: tables})
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	md, err := s.insp.InspectTable(r.Context(), chi.URLParam(r, "table"), s.systemFields)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, md)
}

func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	cols, err := s.insp.FetchMetadata(r.Context(), chi.URLParam(r, "table"), s.systemFields)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cols)
}

// handleKeys resolves the primary key for a prefix. ?all=true also lists
// every matching constraint in resolver order.
func (s *Server) handleKeys(w http.ResponseWriter, r *http.Request) {
	prefix := chi.URLParam(r, "prefix")

	all := false
	if v := r.URL.Query().Get("all"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			s.writeError(w, r, errs.Wrap(errs.ErrKindInvalidInput, "invalid all parameter", err))
			return
		}
		all = b
	}

	cs, err := s.insp.Constraints(r.Context(), prefix)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := keysResponse{Prefix: prefix, PrimaryKey: typemeta.SelectKey(cs)}
	if all {
		resp.Constraints = make([]constraintResponse, len(cs))
		for i, c := range cs {
			resp.Constraints[i] = constraintResponse{Constraint: c, Columns: c.Columns()}
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// statusFor maps an error kind to an HTTP status. Catalog failures are the
// upstream database's fault, hence 502.
func statusFor(err error) int {
	switch errs.KindOf(err) {
	case errs.ErrKindNotFound:
		return http.StatusNotFound
	case errs.ErrKindInvalidInput:
		return http.StatusBadRequest
	case errs.ErrKindParseFailed:
		return http.StatusUnprocessableEntity
	case errs.ErrKindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.ErrorWith("request failed", err, map[string]interface{}{"path": r.URL.Path})
	}
	writeJSON(w, status, errorResponse{Error: errs.KindOf(err).String(), Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
