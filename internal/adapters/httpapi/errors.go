package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"holma/internal/core"
	"holma/pkg/domain"
)

type errorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
	Rule        string `json:"rule,omitempty"`
}

// badRequestError marks malformed input detected by the adapter.
type badRequestError struct {
	msg string
	err error
}

func (e badRequestError) Error() string { return e.msg }

func (e badRequestError) Unwrap() error { return e.err }

func badRequest(format string, args ...any) error {
	return badRequestError{msg: fmt.Sprintf(format, args...)}
}

// statusFor maps the failure taxonomy onto HTTP status and error code.
func statusFor(err error) (int, string) {
	var bad badRequestError
	switch {
	case errors.As(err, &bad):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrHasDependents):
		return http.StatusConflict, "has_dependents"
	case errors.Is(err, domain.ErrReferenceNotFound):
		return http.StatusUnprocessableEntity, "reference_not_found"
	case errors.Is(err, domain.ErrInvariantViolation):
		return http.StatusUnprocessableEntity, "invariant_violation"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// writeError renders err; internal failures never leak their message.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	resp := errorResponse{Error: code}
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed",
			"error", err,
			"request_id", RequestID(r.Context()),
		)
	} else {
		resp.Description = err.Error()
		if v, ok := domain.ViolationOf(err); ok {
			resp.Rule = v.Rule
		}
	}
	writeJSON(w, status, resp)
}

// writeWarnings exposes non-blocking rule outcomes as Warning headers.
func writeWarnings(w http.ResponseWriter, res core.Result) {
	for _, v := range res.Warnings() {
		w.Header().Add("Warning", fmt.Sprintf("199 holma %q", v.Rule+": "+v.Message))
	}
}

func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return badRequestError{msg: fmt.Sprintf("invalid request body: %v", err), err: err}
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("invalid %s %q", name, raw)
	}
	return id, nil
}

func deleteOptions(r *http.Request) ([]core.DeleteOption, error) {
	raw := r.URL.Query().Get("detach")
	if raw == "" {
		return nil, nil
	}
	detach, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, badRequest("invalid detach %q", raw)
	}
	return []core.DeleteOption{core.Detach(detach)}, nil
}
