package tours

import (
	"context"
	"html/template"
	"net/http"
	"strings"

	uierrors "github.com/asilitravel/safarihub/internal/app/features/errors"
	tourstore "github.com/asilitravel/safarihub/internal/app/store/tours"
	"github.com/asilitravel/safarihub/internal/app/system/timeouts"
	"github.com/asilitravel/safarihub/internal/app/system/viewdata"
	"github.com/asilitravel/safarihub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the public tour catalog.
type Handler struct {
	Store  *tourstore.Store
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Store:  tourstore.New(db),
		ErrLog: errLog,
		Log:    logger,
	}
}

type listData struct {
	viewdata.BaseVM
	Tours  []models.Tour
	Region string
}

type detailData struct {
	viewdata.BaseVM
	Tour models.Tour
	Body template.HTML // sanitized at write time by the store
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /{locale}/tours                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	all, err := h.Store.ListActive(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list tours", err, "Unable to load tours right now.", "")
		return
	}

	region := strings.TrimSpace(query.Get(r, "region"))
	if region != "" {
		filtered := all[:0]
		for _, t := range all {
			if strings.EqualFold(t.Region, region) {
				filtered = append(filtered, t)
			}
		}
		all = filtered
	}

	templates.Render(w, r, "tours_list", listData{
		BaseVM: viewdata.NewBaseVM(r, "Tours", "/"),
		Tours:  all,
		Region: region,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /{locale}/tours/{slug}                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	slug := chi.URLParam(r, "slug")
	t, err := h.Store.GetBySlug(ctx, slug)
	if err == mongo.ErrNoDocuments {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load tour", err, "Unable to load this tour right now.", "")
		return
	}

	templates.Render(w, r, "tours_detail", detailData{
		BaseVM: viewdata.NewBaseVM(r, t.Title, "/tours"),
		Tour:   *t,
		Body:   template.HTML(t.BodyHTML),
	})
}
