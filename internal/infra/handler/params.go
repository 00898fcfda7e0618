package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"carcare/internal/platform/server"
)

var errMissingIdentity = errors.New("missing caller identity")

// callerID returns the authenticated user id placed in the context by the
// bearer-auth middleware.
func callerID(r *http.Request) (uuid.UUID, error) {
	id, ok := server.UserIDFromContext(r.Context())
	if !ok || id == uuid.Nil {
		return uuid.Nil, errMissingIdentity
	}
	return id, nil
}

func readPathID(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s must be a valid id", name)
	}
	return id, nil
}

func readQueryInt(r *http.Request, key string, min, max, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	return parseInt(key, raw, min, max)
}

func parseInt(name, value string, min, max int) (int, error) {
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	if v < min {
		return 0, fmt.Errorf("%s must be >= %d", name, min)
	}
	if max > 0 && v > max {
		return 0, fmt.Errorf("%s must be <= %d", name, max)
	}
	return v, nil
}
