package stays

import (
	"context"
	"html/template"
	"net/http"
	"strings"

	uierrors "github.com/asilitravel/safarihub/internal/app/features/errors"
	staystore "github.com/asilitravel/safarihub/internal/app/store/stays"
	"github.com/asilitravel/safarihub/internal/app/system/timeouts"
	"github.com/asilitravel/safarihub/internal/app/system/viewdata"
	"github.com/asilitravel/safarihub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the public stays catalog.
type Handler struct {
	Store  *staystore.Store
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Store:  staystore.New(db),
		ErrLog: errLog,
		Log:    logger,
	}
}

type listData struct {
	viewdata.BaseVM
	Stays  []models.Stay
	Region string
}

type detailData struct {
	viewdata.BaseVM
	Stay models.Stay
	Body template.HTML // sanitized at write time by the store
}

// ServeList handles GET /{locale}/stays.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	all, err := h.Store.ListActive(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list stays", err, "Unable to load stays right now.", "")
		return
	}

	region := strings.TrimSpace(query.Get(r, "region"))
	if region != "" {
		filtered := all[:0]
		for _, s := range all {
			if strings.EqualFold(s.Region, region) {
				filtered = append(filtered, s)
			}
		}
		all = filtered
	}

	templates.Render(w, r, "stays_list", listData{
		BaseVM: viewdata.NewBaseVM(r, "Stays", "/"),
		Stays:  all,
		Region: region,
	})
}

// ServeDetail handles GET /{locale}/stays/{slug}.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	slug := chi.URLParam(r, "slug")
	s, err := h.Store.GetBySlug(ctx, slug)
	if err == mongo.ErrNoDocuments {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load stay", err, "Unable to load this stay right now.", "")
		return
	}

	templates.Render(w, r, "stays_detail", detailData{
		BaseVM: viewdata.NewBaseVM(r, s.Name, "/stays"),
		Stay:   *s,
		Body:   template.HTML(s.BodyHTML),
	})
}
