package bookings

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	uierrors "github.com/asilitravel/safarihub/internal/app/features/errors"
	bookingstore "github.com/asilitravel/safarihub/internal/app/store/bookings"
	staystore "github.com/asilitravel/safarihub/internal/app/store/stays"
	tourstore "github.com/asilitravel/safarihub/internal/app/store/tours"
	"github.com/asilitravel/safarihub/internal/app/system/auth"
	"github.com/asilitravel/safarihub/internal/app/system/timeouts"
	"github.com/asilitravel/safarihub/internal/app/system/viewdata"
	"github.com/asilitravel/safarihub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the member booking pages.
type Handler struct {
	Bookings *bookingstore.Store
	Tours    *tourstore.Store
	Stays    *staystore.Store
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Bookings: bookingstore.New(db),
		Tours:    tourstore.New(db),
		Stays:    staystore.New(db),
		ErrLog:   errLog,
		Log:      logger,
	}
}

type listData struct {
	viewdata.BaseVM
	Bookings []models.Booking
}

type formData struct {
	viewdata.BaseVM
	Error    string
	Kind     string
	Slug     string
	ItemName string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /{locale}/bookings                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	profileID, ok := currentProfileID(r)
	if !ok {
		http.Redirect(w, r, "/"+viewdata.Locale(r)+"/auth/signin", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	list, err := h.Bookings.ListByProfile(ctx, profileID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list bookings", err, "Unable to load your bookings right now.", "")
		return
	}

	templates.Render(w, r, "bookings_list", listData{
		BaseVM:   viewdata.NewBaseVM(r, "My bookings", "/"),
		Bookings: list,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /{locale}/bookings/new?kind=tour&slug=…                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	kind := query.Get(r, "kind")
	slug := query.Get(r, "slug")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	name, err := h.itemName(ctx, kind, slug)
	if err == mongo.ErrNoDocuments || name == "" {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load booking item", err, "Unable to start a booking right now.", "")
		return
	}

	templates.Render(w, r, "bookings_new", formData{
		BaseVM:   viewdata.NewBaseVM(r, "New booking", "/"),
		Kind:     kind,
		Slug:     slug,
		ItemName: name,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /{locale}/bookings                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	profileID, ok := currentProfileID(r)
	if !ok {
		http.Redirect(w, r, "/"+viewdata.Locale(r)+"/auth/signin", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse booking form", err, "Invalid form data.", "")
		return
	}

	kind := strings.TrimSpace(r.FormValue("kind"))
	slug := strings.TrimSpace(r.FormValue("slug"))
	travelers, _ := strconv.Atoi(r.FormValue("travelers"))
	startDate, dateErr := time.Parse("2006-01-02", r.FormValue("start_date"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	itemID, itemName, err := h.itemRef(ctx, kind, slug)
	if err == mongo.ErrNoDocuments {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load booking item", err, "Unable to create this booking right now.", "")
		return
	}

	if dateErr != nil {
		h.renderFormWithError(w, r, "Please pick a valid start date.", kind, slug, itemName)
		return
	}

	b, err := h.Bookings.Create(ctx, models.Booking{
		ProfileID: profileID,
		Kind:      kind,
		ItemID:    itemID,
		ItemName:  itemName,
		Travelers: travelers,
		StartDate: startDate,
	})
	if err != nil {
		h.renderFormWithError(w, r, err.Error(), kind, slug, itemName)
		return
	}

	h.Log.Info("booking created",
		zap.String("reference", b.Reference),
		zap.String("profile_id", profileID.Hex()),
		zap.String("kind", kind))

	http.Redirect(w, r, "/"+viewdata.Locale(r)+"/bookings", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /{locale}/bookings/{reference}/cancel                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	profileID, ok := currentProfileID(r)
	if !ok {
		http.Redirect(w, r, "/"+viewdata.Locale(r)+"/auth/signin", http.StatusSeeOther)
		return
	}

	ref := chi.URLParam(r, "reference")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err := h.Bookings.Cancel(ctx, profileID, ref)
	if err == mongo.ErrNoDocuments {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "cancel booking", err, "Unable to cancel this booking right now.", "")
		return
	}

	http.Redirect(w, r, "/"+viewdata.Locale(r)+"/bookings", http.StatusSeeOther)
}

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, msg, kind, slug, itemName string) {
	templates.Render(w, r, "bookings_new", formData{
		BaseVM:   viewdata.NewBaseVM(r, "New booking", "/"),
		Error:    msg,
		Kind:     kind,
		Slug:     slug,
		ItemName: itemName,
	})
}

func (h *Handler) itemName(ctx context.Context, kind, slug string) (string, error) {
	_, name, err := h.itemRef(ctx, kind, slug)
	return name, err
}

// itemRef resolves a kind+slug pair to the catalog item's id and name.
func (h *Handler) itemRef(ctx context.Context, kind, slug string) (primitive.ObjectID, string, error) {
	switch kind {
	case models.BookingKindTour:
		t, err := h.Tours.GetBySlug(ctx, slug)
		if err != nil {
			return primitive.NilObjectID, "", err
		}
		return t.ID, t.Title, nil
	case models.BookingKindStay:
		s, err := h.Stays.GetBySlug(ctx, slug)
		if err != nil {
			return primitive.NilObjectID, "", err
		}
		return s.ID, s.Name, nil
	}
	return primitive.NilObjectID, "", mongo.ErrNoDocuments
}

// currentProfileID extracts the signed-in profile's ObjectID from the
// session user.
func currentProfileID(r *http.Request) (primitive.ObjectID, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return primitive.NilObjectID, false
	}
	oid, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}
