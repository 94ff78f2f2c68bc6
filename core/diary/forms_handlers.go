package diary

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"pm-backoffice/core"
	"pm-backoffice/core/calendar"
	"pm-backoffice/core/forms"
	"pm-backoffice/pkg/resources"
)

type KindInfo struct {
	Kind            forms.Kind `json:"kind"`
	DurationMinutes int        `json:"duration_minutes"`
}

type OpenFormRequest struct {
	StaffID string         `json:"staff_id"`
	Date    calendar.Date  `json:"date"`
	Slot    calendar.Clock `json:"slot"`
}

type SelectKindRequest struct {
	Kind forms.Kind `json:"kind"`
}

type SetTimesRequest struct {
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
}

type SubmitResponse struct {
	Session *forms.Session `json:"session"`
	Event   *Event         `json:"event"`
}

func (h *handlers) ListKinds(gctx *gin.Context) {
	kinds := make([]KindInfo, 0, len(forms.Kinds))
	for _, kind := range forms.Kinds {
		kinds = append(kinds, KindInfo{Kind: kind, DurationMinutes: int(kind.Duration().Minutes())})
	}

	gctx.JSON(http.StatusOK, kinds)
}

func (h *handlers) GetKind(gctx *gin.Context) {
	kind, err := forms.ParseKind(gctx.Param("kind"))
	if err != nil {
		abort(gctx, "unknown event type", err)
		return
	}

	data, err := forms.NewEventData(kind)
	if err != nil {
		abort(gctx, "unknown event type", err)
		return
	}

	raw, err := forms.Encode(data)
	if err != nil {
		abort(gctx, "encoding defaults failed", err)
		return
	}

	gctx.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}

func (h *handlers) OpenForm(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var request OpenFormRequest

	err := gctx.ShouldBindJSON(&request)
	if err != nil {
		log.Ctx(ctx).Info().Err(err).Msg("failed to bind JSON")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, core.NewError("failed to bind JSON", err))

		return
	}

	if request.StaffID == "" {
		request.StaffID, _ = resources.StaffID(ctx)
	}

	if request.StaffID == "" || request.Date.IsZero() || !request.Slot.Valid() {
		abort(gctx, "staff_id, date and slot are required", invalid("incomplete form request"))
		return
	}

	session := forms.NewSession(h.service.newID(), request.StaffID, request.Date, request.Slot)

	err = h.sessions.Put(ctx, session)
	if err != nil {
		fail(gctx, "failed to open form", err)
		return
	}

	gctx.JSON(http.StatusCreated, session)
}

func (h *handlers) OpenEditForm(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	event, err := h.service.GetEvent(ctx, gctx.Param("eventId"))
	if err != nil {
		abort(gctx, "getting event failed", err)
		return
	}

	if event.Data == nil {
		abort(gctx, "event has no form data", invalid("event %s has no payload", event.ID))
		return
	}

	session := forms.EditSession(h.service.newID(), event.StaffID, event.ID, event.Date, event.Data)

	err = h.sessions.Put(ctx, session)
	if err != nil {
		fail(gctx, "failed to open form", err)
		return
	}

	gctx.JSON(http.StatusCreated, session)
}

func (h *handlers) GetForm(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	session, err := h.sessions.Get(ctx, gctx.Param("id"))
	if err != nil {
		abort(gctx, "getting form failed", err)
		return
	}

	gctx.JSON(http.StatusOK, session)
}

// update loads a session, applies fn and stores the result.
func (h *handlers) update(gctx *gin.Context, message string, fn func(*forms.Session) error) {
	ctx := gctx.Request.Context()

	session, err := h.sessions.Get(ctx, gctx.Param("id"))
	if err != nil {
		abort(gctx, "getting form failed", err)
		return
	}

	err = fn(session)
	if err != nil {
		abort(gctx, message, err)
		return
	}

	err = h.sessions.Put(ctx, session)
	if err != nil {
		fail(gctx, message, err)
		return
	}

	gctx.JSON(http.StatusOK, session)
}

func (h *handlers) SelectKind(gctx *gin.Context) {
	var request SelectKindRequest

	err := gctx.ShouldBindJSON(&request)
	if err != nil {
		gctx.AbortWithStatusJSON(http.StatusBadRequest, core.NewError("failed to bind JSON", err))
		return
	}

	h.update(gctx, "failed to select event type", func(session *forms.Session) error {
		return session.SelectKind(request.Kind)
	})
}

func (h *handlers) SetTimes(gctx *gin.Context) {
	var request SetTimesRequest

	err := gctx.ShouldBindJSON(&request)
	if err != nil {
		gctx.AbortWithStatusJSON(http.StatusBadRequest, core.NewError("failed to bind JSON", err))
		return
	}

	h.update(gctx, "failed to set times", func(session *forms.Session) error {
		if request.StartTime != "" {
			err := session.SetStartTime(request.StartTime)
			if err != nil {
				return err
			}
		}

		if request.EndTime != "" {
			return session.SetEndTime(request.EndTime)
		}

		return nil
	})
}

func (h *handlers) PatchFields(gctx *gin.Context) {
	raw, err := gctx.GetRawData()
	if err != nil {
		gctx.AbortWithStatusJSON(http.StatusBadRequest, core.NewError("failed to read body", err))
		return
	}

	h.update(gctx, "failed to edit fields", func(session *forms.Session) error {
		return session.ApplyFields(raw)
	})
}

// SubmitForm stores the form's event. A second submit of the same form while the first is
// running is answered with 409.
func (h *handlers) SubmitForm(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	id := gctx.Param("id")

	err := h.sessions.Lock(ctx, id, h.lockTTL)
	if err != nil {
		abort(gctx, "form submission rejected", err)
		return
	}

	defer func() {
		uerr := h.sessions.Unlock(context.WithoutCancel(ctx), id)
		if uerr != nil {
			log.Ctx(ctx).Warn().Err(uerr).Str("session_id", id).Msg("failed to unlock form")
		}
	}()

	session, err := h.sessions.Get(ctx, id)
	if err != nil {
		abort(gctx, "getting form failed", err)
		return
	}

	err = session.BeginSubmit()
	if err != nil {
		abort(gctx, "form submission rejected", err)
		return
	}

	err = h.sessions.Put(ctx, session)
	if err != nil {
		fail(gctx, "failed to submit form", err)
		return
	}

	actor, _ := resources.StaffID(ctx)

	event, err := h.submit(ctx, session, actor)
	if err != nil {
		fail(gctx, "failed to submit form", err)
		return
	}

	code := http.StatusCreated
	if session.EventID != "" {
		code = http.StatusOK
	}

	gctx.JSON(code, core.Ok("form submitted", SubmitResponse{Session: session, Event: event}))
}

func (h *handlers) submit(ctx context.Context, session *forms.Session, actor string) (event *Event, err error) {
	defer func() {
		session.FinishSubmit(err)

		perr := h.sessions.Put(context.WithoutCancel(ctx), session)
		if perr != nil {
			log.Ctx(ctx).Error().Err(perr).Str("session_id", session.ID).Msg("failed to store submitted form")
		}
	}()

	return h.service.SubmitForm(ctx, session, actor)
}

func (h *handlers) CloseForm(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	id := gctx.Param("id")

	session, err := h.sessions.Get(ctx, id)
	if err != nil {
		abort(gctx, "getting form failed", err)
		return
	}

	err = session.Cancel()
	if errors.Is(err, forms.ErrSubmitInFlight) {
		abort(gctx, "form submission in flight", err)
		return
	}

	err = h.sessions.Delete(ctx, id)
	if err != nil {
		fail(gctx, "failed to close form", err)
		return
	}

	gctx.JSON(http.StatusOK, core.Ok("form closed", nil))
}
