package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, req.URL.Path+"/dashboard", http.StatusSeeOther)
	})
	r.Get("/dashboard", h.ServeDashboard)
	return r
}
