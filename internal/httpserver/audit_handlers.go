package httpserver

import (
	"net/http"

	"go.uber.org/zap"

	"go-catalog-cache/internal/utils"
)

// handleAuditRecords lists audit records filtered by user, action and after
func (s *Server) handleAuditRecords(w http.ResponseWriter, r *http.Request) {
	if s.audit == nil {
		s.writeErrorResponse(w, "audit sink does not store records", http.StatusNotImplemented)
		return
	}

	query := r.URL.Query()
	filter, err := utils.ParseAuditFilter(query.Get("user"), query.Get("action"), query.Get("after"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	records, err := s.audit.Records(r.Context(), filter)
	if err != nil {
		s.logger.Error("Failed to read audit records", zap.Error(err))
		s.writeErrorResponse(w, "failed to read audit records", http.StatusBadGateway)
		return
	}
	s.writeResponse(w, records)
}

// handleAuditCount returns the number of stored audit records
func (s *Server) handleAuditCount(w http.ResponseWriter, r *http.Request) {
	if s.audit == nil {
		s.writeErrorResponse(w, "audit sink does not store records", http.StatusNotImplemented)
		return
	}

	count, err := s.audit.Count(r.Context())
	if err != nil {
		s.logger.Error("Failed to count audit records", zap.Error(err))
		s.writeErrorResponse(w, "failed to count audit records", http.StatusBadGateway)
		return
	}
	s.writeResponse(w, &AuditCountResponse{Count: count})
}
