package account

import (
	"context"
	"net/http"

	uierrors "github.com/asilitravel/safarihub/internal/app/features/errors"
	bookingstore "github.com/asilitravel/safarihub/internal/app/store/bookings"
	"github.com/asilitravel/safarihub/internal/app/store/profiles"
	"github.com/asilitravel/safarihub/internal/app/system/auth"
	"github.com/asilitravel/safarihub/internal/app/system/timeouts"
	"github.com/asilitravel/safarihub/internal/app/system/viewdata"
	"github.com/asilitravel/safarihub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the member account area.
type Handler struct {
	Profiles *profiles.Store
	Bookings *bookingstore.Store
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Profiles: profiles.New(db),
		Bookings: bookingstore.New(db),
		ErrLog:   errLog,
		Log:      logger,
	}
}

type dashboardData struct {
	viewdata.BaseVM
	Profile  models.Profile
	Recent   []models.Booking
	Upcoming int
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /{locale}/account/dashboard                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/"+viewdata.Locale(r)+"/auth/signin", http.StatusSeeOther)
		return
	}
	oid, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		http.Redirect(w, r, "/"+viewdata.Locale(r)+"/auth/signin", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Profiles.GetByID(ctx, oid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load profile", err, "Unable to load your account right now.", "")
		return
	}

	list, err := h.Bookings.ListByProfile(ctx, oid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load bookings", err, "Unable to load your account right now.", "")
		return
	}

	upcoming := 0
	for _, b := range list {
		if b.Status != models.BookingCancelled {
			upcoming++
		}
	}
	if len(list) > 5 {
		list = list[:5]
	}

	templates.Render(w, r, "account_dashboard", dashboardData{
		BaseVM:   viewdata.NewBaseVM(r, "My account", "/"),
		Profile:  *p,
		Recent:   list,
		Upcoming: upcoming,
	})
}
