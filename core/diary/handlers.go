package diary

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"pm-backoffice/core"
	"pm-backoffice/core/calendar"
	"pm-backoffice/core/forms"
	"pm-backoffice/pkg/resources"
)

type Handlers interface {
	ListEvents(gctx *gin.Context)
	GetWeek(gctx *gin.Context)
	GetCalendar(gctx *gin.Context)
	GetEvent(gctx *gin.Context)
	PostEvent(gctx *gin.Context)
	PutEvent(gctx *gin.Context)
	DeleteEvent(gctx *gin.Context)

	GetSettings(gctx *gin.Context)
	PutSettings(gctx *gin.Context)
	ListStaff(gctx *gin.Context)

	ListKinds(gctx *gin.Context)
	GetKind(gctx *gin.Context)
	OpenForm(gctx *gin.Context)
	OpenEditForm(gctx *gin.Context)
	GetForm(gctx *gin.Context)
	SelectKind(gctx *gin.Context)
	SetTimes(gctx *gin.Context)
	PatchFields(gctx *gin.Context)
	SubmitForm(gctx *gin.Context)
	CloseForm(gctx *gin.Context)
}

type handlers struct {
	service  *Service
	sessions SessionStore
	lockTTL  time.Duration
}

func NewHandlers(service *Service, sessions SessionStore) Handlers {
	return &handlers{service: service, sessions: sessions, lockTTL: 30 * time.Second}
}

// Register mounts the diary routes on group.
func Register(group gin.IRoutes, h Handlers) {
	group.GET("/events/diary/:staffId/events", h.ListEvents)
	group.GET("/events/diary/:staffId/week", h.GetWeek)
	group.GET("/events/diary/:staffId/calendar.ics", h.GetCalendar)
	group.GET("/events/:id", h.GetEvent)
	group.POST("/events", h.PostEvent)
	group.PUT("/events/:id", h.PutEvent)
	group.DELETE("/events/:id", h.DeleteEvent)

	group.GET("/diary-settings/:staffId", h.GetSettings)
	group.PUT("/diary-settings/:staffId", h.PutSettings)
	group.GET("/staff", h.ListStaff)

	group.GET("/forms/kinds", h.ListKinds)
	group.GET("/forms/kinds/:kind", h.GetKind)
	group.POST("/forms", h.OpenForm)
	group.POST("/forms/edit/:eventId", h.OpenEditForm)
	group.GET("/forms/:id", h.GetForm)
	group.PUT("/forms/:id/kind", h.SelectKind)
	group.PUT("/forms/:id/times", h.SetTimes)
	group.PATCH("/forms/:id/fields", h.PatchFields)
	group.POST("/forms/:id/submit", h.SubmitForm)
	group.DELETE("/forms/:id", h.CloseForm)
}

// status maps a domain error to its HTTP status.
func status(err error) int {
	var verr *forms.ValidationError

	switch {
	case errors.As(err, &verr),
		errors.Is(err, ErrInvalidEvent),
		errors.Is(err, forms.ErrUnsupportedKind),
		errors.Is(err, forms.ErrInvalidEventData),
		errors.Is(err, calendar.ErrInvalidClock),
		errors.Is(err, calendar.ErrInvalidDate):
		return http.StatusBadRequest
	case errors.Is(err, ErrEventNotFound),
		errors.Is(err, ErrSettingsNotFound),
		errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, forms.ErrInvalidTransition),
		errors.Is(err, forms.ErrSubmitInFlight):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// abort answers a read with a core.Error body. Missing fields are listed one per entry.
func abort(gctx *gin.Context, message string, err error) {
	ctx := gctx.Request.Context()
	code := status(err)

	if code >= http.StatusInternalServerError {
		log.Ctx(ctx).Error().Err(err).Msg(message)
	} else {
		log.Ctx(ctx).Info().Err(err).Msg(message)
	}

	var verr *forms.ValidationError
	if errors.As(err, &verr) {
		gctx.AbortWithStatusJSON(code, &core.Error{Message: message, Err: verr.Missing})
		return
	}

	gctx.AbortWithStatusJSON(code, core.NewError(message, err))
}

// fail answers a mutation: client errors as core.Error, store failures as a failed core.Result.
func fail(gctx *gin.Context, message string, err error) {
	if status(err) < http.StatusInternalServerError {
		abort(gctx, message, err)
		return
	}

	log.Ctx(gctx.Request.Context()).Error().Err(err).Msg(message)
	gctx.AbortWithStatusJSON(http.StatusInternalServerError, core.Fail(message, err))
}

func dateParam(gctx *gin.Context, name string, fallback calendar.Date) (calendar.Date, error) {
	raw := gctx.Query(name)
	if raw == "" {
		return fallback, nil
	}

	// ISO timestamps are accepted; only their date part counts.
	if len(raw) > len(calendar.DateLayout) {
		raw = raw[:len(calendar.DateLayout)]
	}

	return calendar.ParseDate(raw)
}

func (h *handlers) today() calendar.Date {
	return calendar.DateOf(time.Now().In(h.service.Location()))
}

func (h *handlers) ListEvents(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	staffID := gctx.Param("staffId")

	week := calendar.WeekOf(h.today())

	from, err := dateParam(gctx, "start_date", week.Start)
	if err != nil {
		abort(gctx, "invalid start_date", err)
		return
	}

	to, err := dateParam(gctx, "end_date", from.AddDays(calendar.DaysPerWeek-1))
	if err != nil {
		abort(gctx, "invalid end_date", err)
		return
	}

	if to.Before(from) {
		abort(gctx, "end_date is before start_date", ErrInvalidEvent)
		return
	}

	events, err := h.service.ListEvents(ctx, staffID, from, to)
	if err != nil {
		abort(gctx, "listing events failed", err)
		return
	}

	gctx.JSON(http.StatusOK, events)
}

func (h *handlers) GetWeek(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	pivot, err := dateParam(gctx, "date", h.today())
	if err != nil {
		abort(gctx, "invalid date", err)
		return
	}

	view, err := h.service.Week(ctx, gctx.Param("staffId"), pivot)
	if err != nil {
		abort(gctx, "loading week failed", err)
		return
	}

	gctx.JSON(http.StatusOK, view)
}

func (h *handlers) GetCalendar(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	pivot, err := dateParam(gctx, "date", h.today())
	if err != nil {
		abort(gctx, "invalid date", err)
		return
	}

	feed, err := h.service.ExportCalendar(ctx, gctx.Param("staffId"), pivot)
	if err != nil {
		abort(gctx, "exporting calendar failed", err)
		return
	}

	gctx.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(feed))
}

func (h *handlers) GetEvent(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	event, err := h.service.GetEvent(ctx, gctx.Param("id"))
	if err != nil {
		abort(gctx, "getting event failed", err)
		return
	}

	gctx.JSON(http.StatusOK, event)
}

func (h *handlers) PostEvent(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var event Event

	err := gctx.ShouldBindJSON(&event)
	if err != nil {
		log.Ctx(ctx).Info().Err(err).Msg("failed to bind JSON")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, core.NewError("failed to bind JSON", err))

		return
	}

	actor, _ := resources.StaffID(ctx)
	if event.StaffID == "" {
		event.StaffID = actor
	}

	saved, err := h.service.CreateEvent(ctx, event, actor)
	if err != nil {
		fail(gctx, "failed to create event", err)
		return
	}

	gctx.JSON(http.StatusCreated, core.Ok("event created", saved))
}

func (h *handlers) PutEvent(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var event Event

	err := gctx.ShouldBindJSON(&event)
	if err != nil {
		log.Ctx(ctx).Info().Err(err).Msg("failed to bind JSON")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, core.NewError("failed to bind JSON", err))

		return
	}

	saved, err := h.service.UpdateEvent(ctx, gctx.Param("id"), event)
	if err != nil {
		fail(gctx, "failed to update event", err)
		return
	}

	gctx.JSON(http.StatusOK, core.Ok("event updated", saved))
}

func (h *handlers) DeleteEvent(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	err := h.service.DeleteEvent(ctx, gctx.Param("id"))
	if err != nil {
		fail(gctx, "failed to delete event", err)
		return
	}

	gctx.JSON(http.StatusOK, core.Ok("event deleted", nil))
}

func (h *handlers) GetSettings(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	settings, err := h.service.GetSettings(ctx, gctx.Param("staffId"))
	if err != nil {
		abort(gctx, "getting diary settings failed", err)
		return
	}

	gctx.JSON(http.StatusOK, settings)
}

func (h *handlers) PutSettings(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var settings Settings

	err := gctx.ShouldBindJSON(&settings)
	if err != nil {
		log.Ctx(ctx).Info().Err(err).Msg("failed to bind JSON")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, core.NewError("failed to bind JSON", err))

		return
	}

	saved, err := h.service.SaveSettings(ctx, gctx.Param("staffId"), settings)
	if err != nil {
		fail(gctx, "failed to save diary settings", err)
		return
	}

	gctx.JSON(http.StatusOK, core.Ok("diary settings saved", saved))
}

func (h *handlers) ListStaff(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	staff, err := h.service.ListStaff(ctx)
	if err != nil {
		abort(gctx, "listing staff failed", err)
		return
	}

	gctx.JSON(http.StatusOK, staff)
}
