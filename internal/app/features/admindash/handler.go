package admindash

import (
	"context"
	"net/http"

	uierrors "github.com/asilitravel/safarihub/internal/app/features/errors"
	bookingstore "github.com/asilitravel/safarihub/internal/app/store/bookings"
	"github.com/asilitravel/safarihub/internal/app/store/profiles"
	staystore "github.com/asilitravel/safarihub/internal/app/store/stays"
	tourstore "github.com/asilitravel/safarihub/internal/app/store/tours"
	"github.com/asilitravel/safarihub/internal/app/system/authz"
	"github.com/asilitravel/safarihub/internal/app/system/timeouts"
	"github.com/asilitravel/safarihub/internal/app/system/viewdata"
	"github.com/asilitravel/safarihub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the administrator dashboard.
type Handler struct {
	Profiles     *profiles.Store
	Tours        *tourstore.Store
	Stays        *staystore.Store
	Bookings     *bookingstore.Store
	AdminDomains []string
	ErrLog       *uierrors.ErrorLogger
	Log          *zap.Logger
}

func NewHandler(db *mongo.Database, adminDomains []string, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Profiles:     profiles.New(db),
		Tours:        tourstore.New(db),
		Stays:        staystore.New(db),
		Bookings:     bookingstore.New(db),
		AdminDomains: adminDomains,
		ErrLog:       errLog,
		Log:          logger,
	}
}

type dashboardData struct {
	viewdata.BaseVM
	ProfileCount int64
	TourCount    int64
	StayCount    int64
	BookingCount int64
	Recent       []models.Booking
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /{locale}/admin/dashboard                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	if !authz.IsAdmin(r, h.AdminDomains) {
		uierrors.RenderForbidden(w, r, "Administrator access required.", "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	data := dashboardData{
		BaseVM: viewdata.NewBaseVM(r, "Admin dashboard", "/"),
	}

	var err error
	if data.ProfileCount, err = h.Profiles.Count(ctx); err != nil {
		h.ErrLog.LogServerError(w, r, "count profiles", err, "Unable to load the dashboard right now.", "")
		return
	}
	if data.TourCount, err = h.Tours.Count(ctx); err != nil {
		h.ErrLog.LogServerError(w, r, "count tours", err, "Unable to load the dashboard right now.", "")
		return
	}
	if data.StayCount, err = h.Stays.Count(ctx); err != nil {
		h.ErrLog.LogServerError(w, r, "count stays", err, "Unable to load the dashboard right now.", "")
		return
	}
	if data.BookingCount, err = h.Bookings.Count(ctx); err != nil {
		h.ErrLog.LogServerError(w, r, "count bookings", err, "Unable to load the dashboard right now.", "")
		return
	}
	if data.Recent, err = h.Bookings.ListRecent(ctx, 10); err != nil {
		h.ErrLog.LogServerError(w, r, "list recent bookings", err, "Unable to load the dashboard right now.", "")
		return
	}

	templates.Render(w, r, "admin_dashboard", data)
}
