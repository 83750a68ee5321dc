package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

// problem is the error body returned for every failed request.
type problem struct {
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

var errorStatuses = []struct {
	err    error
	status int
}{
	{common.ErrInvalidPassword, http.StatusBadRequest},
	{common.ErrExpiredVerificationToken, http.StatusBadRequest},
	{common.ErrDuplicateEmail, http.StatusConflict},
	{common.ErrInvalidVerificationToken, http.StatusNotFound},
	{common.ErrUserNotFound, http.StatusNotFound},
	{common.ErrInvalidCredentials, http.StatusUnauthorized},
	{common.ErrInvalidRefreshToken, http.StatusUnauthorized},
	{common.ErrExpiredRefreshToken, http.StatusUnauthorized},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeProblem(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, problem{Title: http.StatusText(status), Status: status, Detail: detail})
}

func (s *Server) writeError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			s.logger.Warn(ctx, "request rejected", "op", op, "error", err.Error())
			writeProblem(w, e.status, e.err.Error())
			return
		}
	}
	s.logger.Error(ctx, "request failed", "op", op, "error", err.Error())
	writeProblem(w, http.StatusInternalServerError, common.ErrorInternal.Error())
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}
