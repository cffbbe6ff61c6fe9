// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

package api

import (
	"errors"
	"net/http"

	"github.com/sprowk/company-finder/internal/logging"
	"github.com/sprowk/company-finder/internal/session"
)

// respondSessionError maps session errors onto the envelope error codes.
func respondSessionError(w http.ResponseWriter, r *http.Request, err error) {
	rw := NewResponseWriter(w, r)

	var verr *session.ValidationError
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		rw.NotFound("Session not found")
	case errors.Is(err, session.ErrSessionExpired):
		rw.NotFound("Session expired")
	case errors.Is(err, session.ErrTooManySessions):
		rw.Conflict("Too many active sessions")
	case errors.Is(err, session.ErrInvalidPage):
		rw.ValidationError(err.Error(), map[string]interface{}{"field": "page"})
	case errors.As(err, &verr):
		rw.ValidationError(verr.Message, map[string]interface{}{"field": verr.Field})
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("Session operation failed")
		rw.InternalError("Internal error")
	}
}
