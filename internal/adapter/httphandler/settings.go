package httphandler

import (
	"log/slog"
	"net/http"
)

// GET v1/settings/contact (200 OK)
// PUT v1/settings/contact JSON Contact, auth (200 OK)
// GET v1/notification (200 OK)
// DELETE v1/notification (204 No content)

type SettingsHandler struct {
	settings Settings
}

func RegisterSettings(mux *http.ServeMux, s Settings, auth Middleware) {
	h := SettingsHandler{s}
	mux.HandleFunc("GET /v1/settings/contact", h.GetContact)
	mux.Handle("PUT /v1/settings/contact", auth(http.HandlerFunc(h.PutContact)))
}

func (h SettingsHandler) GetContact(w http.ResponseWriter, r *http.Request) {
	log := slog.With("op", "SettingsHandler.GetContact")
	writeJSON(w, http.StatusOK, Contact{h.settings.ContactNumber()}, log)
}

func (h SettingsHandler) PutContact(w http.ResponseWriter, r *http.Request) {
	const op = "SettingsHandler.PutContact"
	log := slog.With("op", op)

	var in Contact
	if err := readJSON(w, r, &in); err != nil {
		badJSON(w, err, log)
		return
	}

	h.settings.SetContactNumber(in.Number)
	writeJSON(w, http.StatusOK, Contact{h.settings.ContactNumber()}, log)
}

type NotificationHandler struct {
	notifications Notifications
}

func RegisterNotification(mux *http.ServeMux, n Notifications) {
	h := NotificationHandler{n}
	mux.HandleFunc("GET /v1/notification", h.Get)
	mux.HandleFunc("DELETE /v1/notification", h.Dismiss)
}

func (h NotificationHandler) Get(w http.ResponseWriter, r *http.Request) {
	log := slog.With("op", "NotificationHandler.Get")
	writeJSON(w, http.StatusOK, notificationView(h.notifications.Current()), log)
}

func (h NotificationHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	h.notifications.Hide()
	w.WriteHeader(http.StatusNoContent)
}
