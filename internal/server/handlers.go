package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/agbru/chebgo/internal/config"
	"github.com/agbru/chebgo/internal/core"
	apperrors "github.com/agbru/chebgo/internal/errors"
	"github.com/agbru/chebgo/internal/logging"
	"github.com/agbru/chebgo/internal/service"
	"github.com/agbru/chebgo/pkg/models"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, r, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.writeJSONResponse(w, http.StatusOK, models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Unix(),
		Version:   s.version,
	})
}

func (s *Server) handleFunctions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, r, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.writeJSONResponse(w, http.StatusOK, map[string]any{"functions": s.service.Functions()})
}

func (s *Server) handleStrategies(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, r, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.writeJSONResponse(w, http.StatusOK, map[string]any{"strategies": s.service.Strategies()})
}

// handleConstruct builds the requested catalog function and returns its
// report. Bad parameters give 400, a construction that outlives
// RequestTimeout gives 504.
func (s *Server) handleConstruct(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, r, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	req, err := s.parseConstructParams(r.URL.Query())
	if err != nil {
		s.writeErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(logging.WithContext(r.Context(), s.logger), s.timeouts.RequestTimeout)
	defer cancel()

	report, err := s.service.Construct(ctx, req)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			s.logger.Error("construction failed", err,
				logging.String("function", req.Function),
				logging.String("request_id", RequestID(r.Context())))
		}
		s.writeErrorResponse(w, r, status, err.Error())
		return
	}
	report.RequestID = RequestID(r.Context())
	s.writeJSONResponse(w, http.StatusOK, report)
}

// statusFor maps a service error to an HTTP status.
func statusFor(err error) int {
	var verr apperrors.ValidationError
	switch {
	case errors.As(err, &verr), apperrors.IsUserError(err):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// parseConstructParams turns the query into a service request. The grid
// size defaults to the server cap.
func (s *Server) parseConstructParams(q url.Values) (service.Request, error) {
	req := service.Request{
		Function: q.Get("fn"),
		Tech:     q.Get("tech"),
	}
	if req.Function == "" {
		return req, fmt.Errorf("missing 'fn' parameter")
	}

	p := core.DefaultPreferences()
	p.MaxLength = min(p.MaxLength, s.maxLength)
	if v := q.Get("strategy"); v != "" {
		p.HappinessCheck = v
	}
	if v := q.Get("eps"); v != "" {
		eps, err := strconv.ParseFloat(v, 64)
		if err != nil || !(eps > 0) {
			return req, fmt.Errorf("invalid 'eps' parameter: must be a positive number")
		}
		p.Eps = eps
	}
	if v := q.Get("max_length"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return req, fmt.Errorf("invalid 'max_length' parameter: must be a positive integer")
		}
		p.MaxLength = n
	}
	if v := q.Get("splitting"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return req, fmt.Errorf("invalid 'splitting' parameter: must be a boolean")
		}
		p.Splitting = b
	}
	req.Preferences = p

	if v := q.Get("domain"); v != "" {
		d, err := config.ParseFloats(v)
		if err != nil {
			return req, fmt.Errorf("invalid 'domain' parameter: %v", err)
		}
		req.Domain = d
	}
	if v := q.Get("eval"); v != "" {
		xs, err := config.ParseFloats(v)
		if err != nil {
			return req, fmt.Errorf("invalid 'eval' parameter: %v", err)
		}
		req.Eval = xs
	}
	if v := q.Get("coeffs"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return req, fmt.Errorf("invalid 'coeffs' parameter: must be a non-negative integer")
		}
		req.Coefficients = n
	}
	return req, nil
}

func (s *Server) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encoding JSON response", err)
	}
}

func (s *Server) writeErrorResponse(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	s.writeJSONResponse(w, statusCode, models.ErrorResponse{
		Error:     http.StatusText(statusCode),
		Message:   message,
		RequestID: RequestID(r.Context()),
	})
}
