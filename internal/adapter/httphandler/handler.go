// Package httphandler exposes the storefront over a JSON HTTP API.
package httphandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/service"
)

const maxBodyBytes = 25 << 20

type Catalog interface {
	Products() []domain.Product
	Product(id string) (domain.Product, bool)
	Add(draft domain.ProductDraft) domain.Product
	Update(p domain.Product) bool
	Remove(id string)
}

type Session interface {
	Login(username, password string) bool
	Logout()
	Authenticated() bool
	Username() string
	UpdateCredentials(username, password string)
}

type Settings interface {
	ContactNumber() string
	SetContactNumber(v string)
}

type Notifications interface {
	Current() domain.Notification
	Hide()
}

type TryOnStarter interface {
	Start(ctx context.Context, productID string, person domain.Image) *service.TryOnTask
}

// Register mounts every route on mux. Mutating routes are wrapped with
// [RequireAuth].
func Register(mux *http.ServeMux, s *service.Store) {
	auth := RequireAuth(s.Session)

	RegisterProducts(mux, s.Catalog, s.Settings, auth)
	RegisterSession(mux, s.Session, auth)
	RegisterSettings(mux, s.Settings, auth)
	RegisterNotification(mux, s.Notifier)
	RegisterTryOn(mux, s.Catalog, s.TryOn)
}

func writeJSON(w http.ResponseWriter, status int, v any, log *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// badJSON answers a request whose body could not be decoded.
func badJSON(w http.ResponseWriter, err error, log *slog.Logger) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}
	http.Error(w, "invalid JSON data", http.StatusBadRequest)
	log.Warn("failed to parse JSON", "err", err)
}
