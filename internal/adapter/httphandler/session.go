package httphandler

import (
	"log/slog"
	"net/http"
)

const msgPasswordMismatch = "As senhas não coincidem."

// POST v1/session JSON Credentials (200 OK, 401 Unauthorized)
// DELETE v1/session (204 No content)
// GET v1/session (200 OK)
// PUT v1/admin/credentials JSON CredentialsUpdate, auth (204, 422)

type SessionHandler struct {
	session Session
}

func RegisterSession(mux *http.ServeMux, s Session, auth Middleware) {
	h := SessionHandler{s}
	mux.HandleFunc("POST /v1/session", h.Login)
	mux.HandleFunc("DELETE /v1/session", h.Logout)
	mux.HandleFunc("GET /v1/session", h.State)
	mux.Handle(
		"PUT /v1/admin/credentials", auth(http.HandlerFunc(h.UpdateCredentials)),
	)
}

func (h SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	const op = "SessionHandler.Login"
	log := slog.With("op", op)

	var in Credentials
	if err := readJSON(w, r, &in); err != nil {
		badJSON(w, err, log)
		return
	}

	if !h.session.Login(in.Username, in.Password) {
		log.Info("login rejected")
		http.Error(w, "Usuário ou senha inválidos.", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, h.state(), log)
}

func (h SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.session.Logout()
	w.WriteHeader(http.StatusNoContent)
}

func (h SessionHandler) State(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.state(), slog.With("op", "SessionHandler.State"))
}

func (h SessionHandler) UpdateCredentials(w http.ResponseWriter, r *http.Request) {
	const op = "SessionHandler.UpdateCredentials"
	log := slog.With("op", op)

	var in CredentialsUpdate
	if err := readJSON(w, r, &in); err != nil {
		badJSON(w, err, log)
		return
	}

	if in.Password != in.ConfirmPassword {
		http.Error(w, msgPasswordMismatch, http.StatusUnprocessableEntity)
		return
	}

	h.session.UpdateCredentials(in.Username, in.Password)
	w.WriteHeader(http.StatusNoContent)
}

func (h SessionHandler) state() SessionState {
	if !h.session.Authenticated() {
		return SessionState{}
	}
	return SessionState{Authenticated: true, Username: h.session.Username()}
}
