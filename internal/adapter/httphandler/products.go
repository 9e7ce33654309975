package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/niksmo/storefront/internal/core/domain"
)

// GET v1/products (200 OK)
// GET v1/products/{id} (200 OK, 404 Not found)
// POST v1/products JSON ProductInput, auth (201 Created, 400 Bad request)
// PUT v1/products/{id} JSON ProductInput, auth (200 OK, 400, 404)
// DELETE v1/products/{id}, auth (204 No content)

type ProductsHandler struct {
	catalog  Catalog
	settings Settings
}

func RegisterProducts(
	mux *http.ServeMux, c Catalog, s Settings, auth Middleware,
) {
	h := ProductsHandler{c, s}
	mux.HandleFunc("GET /v1/products", h.GetProducts)
	mux.HandleFunc("GET /v1/products/{id}", h.GetProduct)
	mux.Handle("POST /v1/products", auth(http.HandlerFunc(h.PostProduct)))
	mux.Handle("PUT /v1/products/{id}", auth(http.HandlerFunc(h.PutProduct)))
	mux.Handle("DELETE /v1/products/{id}", auth(http.HandlerFunc(h.DeleteProduct)))
}

func (h ProductsHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.GetProducts"
	log := slog.With("op", op)

	number := h.settings.ContactNumber()
	ps := h.catalog.Products()
	views := make([]Product, len(ps))
	for i, p := range ps {
		views[i] = productView(p, number)
	}
	writeJSON(w, http.StatusOK, views, log)
}

func (h ProductsHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.GetProduct"
	log := slog.With("op", op)

	p, ok := h.catalog.Product(r.PathValue("id"))
	if !ok {
		http.Error(w, domain.ErrProductNotFound.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, productView(p, h.settings.ContactNumber()), log)
}

func (h ProductsHandler) PostProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.PostProduct"
	log := slog.With("op", op)

	var in ProductInput
	if err := readJSON(w, r, &in); err != nil {
		badJSON(w, err, log)
		return
	}

	draft := in.Draft()
	if err := draft.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p := h.catalog.Add(draft)
	log.Info("product added", "id", p.ID)
	writeJSON(w, http.StatusCreated, productView(p, h.settings.ContactNumber()), log)
}

func (h ProductsHandler) PutProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.PutProduct"
	log := slog.With("op", op)

	var in ProductInput
	if err := readJSON(w, r, &in); err != nil {
		badJSON(w, err, log)
		return
	}

	draft := in.Draft()
	if err := draft.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p := draft.WithID(r.PathValue("id"))
	if !h.catalog.Update(p) {
		http.Error(w, domain.ErrProductNotFound.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, productView(p, h.settings.ContactNumber()), log)
}

func (h ProductsHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	h.catalog.Remove(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}
