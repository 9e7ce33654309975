package httphandler

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/service"
	"github.com/niksmo/storefront/pkg/imageref"
)

// POST v1/tryon JSON TryOnRequest (202 Accepted, 400, 404, 409 Conflict, 422)
// GET v1/tryon/{id} (200 OK, 202 Accepted while pending, 404, 422, 500, 502)

const taskHistory = 32

const msgTryOnNotConfigured = "O provador virtual não está configurado."

type TryOnHandler struct {
	catalog Catalog
	tryOn   TryOnStarter
	tasks   *taskRegistry
}

func RegisterTryOn(mux *http.ServeMux, c Catalog, t TryOnStarter) {
	h := TryOnHandler{c, t, newTaskRegistry(taskHistory)}
	mux.HandleFunc("POST /v1/tryon", h.Start)
	mux.HandleFunc("GET /v1/tryon/{id}", h.Get)
}

func (h TryOnHandler) Start(w http.ResponseWriter, r *http.Request) {
	const op = "TryOnHandler.Start"
	log := slog.With("op", op)

	var in TryOnRequest
	if err := readJSON(w, r, &in); err != nil {
		badJSON(w, err, log)
		return
	}

	if in.PersonImage == "" {
		http.Error(w, domain.ErrNoPersonImage.Error(), http.StatusBadRequest)
		return
	}

	p, ok := h.catalog.Product(in.ProductID)
	if !ok {
		http.Error(w, domain.ErrProductNotFound.Error(), http.StatusNotFound)
		return
	}
	if _, ok := p.FirstImage(); !ok {
		http.Error(
			w, domain.ErrNoGarmentImage.Error(), http.StatusUnprocessableEntity,
		)
		return
	}

	person := domain.Image{Data: in.PersonImage, MIMEType: in.MIMEType}
	task, err := h.tasks.start(func() *service.TryOnTask {
		return h.tryOn.Start(r.Context(), in.ProductID, person)
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	log.Info("try-on started", "task_id", task.ID, "product_id", in.ProductID)
	writeJSON(w, http.StatusAccepted, taskView(task), log)
}

func (h TryOnHandler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "TryOnHandler.Get"
	log := slog.With("op", op)

	task, ok := h.tasks.get(r.PathValue("id"))
	if !ok {
		http.Error(w, "try-on task not found", http.StatusNotFound)
		return
	}

	view := taskView(task)
	writeJSON(w, taskStatus(task), view, log)
}

func taskView(t *service.TryOnTask) TryOnTask {
	v := TryOnTask{
		ID:        t.ID,
		ProductID: t.ProductID,
		Outcome:   string(t.Outcome()),
	}
	img, err := t.Result()
	switch {
	case t.Pending():
	case err != nil:
		v.Error = tryOnMessage(err)
	default:
		v.Image = imageref.DataURI(img.MIMEType, img.Data)
	}
	return v
}

func taskStatus(t *service.TryOnTask) int {
	if t.Pending() {
		return http.StatusAccepted
	}
	_, err := t.Result()
	switch {
	case err == nil:
		return http.StatusOK
	case domain.IsConfigError(err):
		return http.StatusInternalServerError
	case errors.Is(err, domain.ErrInvalidImage),
		errors.Is(err, domain.ErrNoPersonImage),
		errors.Is(err, domain.ErrNoGarmentImage),
		errors.Is(err, domain.ErrProductNotFound):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

// tryOnMessage gives every failure its own user facing text.
func tryOnMessage(err error) string {
	switch {
	case domain.IsConfigError(err):
		return msgTryOnNotConfigured
	case errors.Is(err, domain.ErrNoImageGenerated):
		return "Nenhuma imagem foi gerada. Tente outra foto."
	case errors.Is(err, domain.ErrGarmentUnavailable):
		return "Falha ao carregar a imagem da peça."
	case errors.Is(err, domain.ErrInvalidImage):
		return "A foto enviada não é uma imagem válida."
	case errors.Is(err, domain.ErrNoPersonImage):
		return "Por favor, carregue sua foto."
	case errors.Is(err, domain.ErrNoGarmentImage):
		return "Esta peça não tem imagem para experimentar."
	case errors.Is(err, domain.ErrProductNotFound):
		return "A peça não está mais disponível."
	default:
		return "Não foi possível gerar a imagem. Tente novamente mais tarde."
	}
}

// taskRegistry keeps the last few tasks for polling and admits one
// pending task at a time.
type taskRegistry struct {
	mu    sync.Mutex
	limit int
	order []string
	tasks map[string]*service.TryOnTask
}

func newTaskRegistry(limit int) *taskRegistry {
	return &taskRegistry{
		limit: limit,
		tasks: make(map[string]*service.TryOnTask, limit),
	}
}

func (tr *taskRegistry) start(
	run func() *service.TryOnTask,
) (*service.TryOnTask, error) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	for _, t := range tr.tasks {
		if t.Pending() {
			return nil, service.ErrTaskPending
		}
	}

	t := run()
	tr.tasks[t.ID] = t
	tr.order = append(tr.order, t.ID)
	if len(tr.order) > tr.limit {
		delete(tr.tasks, tr.order[0])
		tr.order = tr.order[1:]
	}
	return t, nil
}

func (tr *taskRegistry) get(id string) (*service.TryOnTask, bool) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	t, ok := tr.tasks[id]
	return t, ok
}
