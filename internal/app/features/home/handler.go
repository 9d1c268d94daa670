package home

import (
	"context"
	"net/http"

	"github.com/asilitravel/safarihub/internal/app/store/stays"
	"github.com/asilitravel/safarihub/internal/app/store/tours"
	"github.com/asilitravel/safarihub/internal/app/system/timeouts"
	"github.com/asilitravel/safarihub/internal/app/system/viewdata"
	"github.com/asilitravel/safarihub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler holds dependencies needed to serve the landing page.
type Handler struct {
	Tours *tours.Store
	Stays *stays.Store
	Log   *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Tours: tours.New(db),
		Stays: stays.New(db),
		Log:   logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /{locale} – landing                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	data := struct {
		viewdata.BaseVM
		FeaturedTours []models.Tour
		FeaturedStays []models.Stay
	}{
		BaseVM: viewdata.NewBaseVM(r, "Welcome", "/"),
	}

	if ts, err := h.Tours.ListActive(ctx); err != nil {
		h.Log.Warn("home: list tours failed", zap.Error(err))
	} else {
		data.FeaturedTours = firstTours(ts, 3)
	}
	if ss, err := h.Stays.ListActive(ctx); err != nil {
		h.Log.Warn("home: list stays failed", zap.Error(err))
	} else {
		data.FeaturedStays = firstStays(ss, 3)
	}

	templates.Render(w, r, "home", data)
}

func firstTours(ts []models.Tour, n int) []models.Tour {
	if len(ts) > n {
		return ts[:n]
	}
	return ts
}

func firstStays(ss []models.Stay, n int) []models.Stay {
	if len(ss) > n {
		return ss[:n]
	}
	return ss
}
