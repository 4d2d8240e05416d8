package dashboard

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	core "github.com/nfrund/carmasy/internal/dashboard"
	"github.com/nfrund/carmasy/internal/dashboard/views"
	"github.com/nfrund/carmasy/internal/middleware"
	"github.com/nfrund/carmasy/internal/rendering"
	"github.com/nfrund/carmasy/internal/view"
)

// Handler serves the dashboard page, its htmx event endpoint and the JSON API.
type Handler struct {
	store    *core.Store
	renderer rendering.Renderer
	assets   AssetResolver
}

// NewHandler creates a handler backed by store.
func NewHandler(store *core.Store, renderer rendering.Renderer, assets AssetResolver) *Handler {
	return &Handler{store: store, renderer: renderer, assets: assets}
}

// stateResponse is the JSON shape of a session's state.
type stateResponse struct {
	State  core.State        `json:"state"`
	Errors map[string]string `json:"errors,omitempty"`
}

// Page renders the full dashboard document.
func (h *Handler) Page(c echo.Context) error {
	snap, err := h.store.Snapshot(middleware.SessionID(c))
	if err != nil {
		return err
	}

	return h.renderer.RenderPage(c, http.StatusOK, views.Page(views.PageProps{
		State:  snap,
		Assets: h.assets,
		Flash:  view.GetFlashData(c),
	}))
}

// Event applies the event named in the path and responds with the
// re-rendered dashboard fragment. Browsers without htmx are redirected back
// to the page, with validation messages carried as flashes.
func (h *Handler) Event(c echo.Context) error {
	form, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	ev := eventFromForm(c.Param("event"), form)

	ctx := c.Request().Context()
	snap, err := h.store.Apply(ctx, middleware.SessionID(c), ev)

	var verr *core.ValidationError
	if err != nil && !errors.As(err, &verr) {
		return rejectEvent(c, err)
	}
	if verr != nil {
		middleware.FromContext(ctx).Debug("Registration form rejected", "fields", verr.Map())
	}

	if c.Request().Header.Get("HX-Request") != "true" {
		if verr != nil {
			for _, f := range verr.Fields {
				if err := view.SetFlashError(c, f.Message); err != nil {
					return err
				}
			}
		}
		return c.Redirect(http.StatusSeeOther, "/")
	}

	return h.renderer.RenderPage(c, http.StatusOK, views.Dashboard(snap, verr))
}

// State returns the session's state as JSON.
func (h *Handler) State(c echo.Context) error {
	snap, err := h.store.Snapshot(middleware.SessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stateResponse{State: snap})
}

// APIEvent applies an event whose arguments arrive as a JSON object.
// Validation failures answer 422 with the messages keyed by field.
func (h *Handler) APIEvent(c echo.Context) error {
	body := make(map[string]any)
	if c.Request().ContentLength != 0 {
		if err := c.Echo().JSONSerializer.Deserialize(c, &body); err != nil {
			return err
		}
	}
	args, err := argsFromJSON(body)
	if err != nil {
		return rejectEvent(c, err)
	}

	ev := core.Event{Name: core.EventName(c.Param("event")), Args: args}
	snap, err := h.store.Apply(c.Request().Context(), middleware.SessionID(c), ev)

	var verr *core.ValidationError
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, stateResponse{State: snap})
	case errors.As(err, &verr):
		return c.JSON(http.StatusUnprocessableEntity, stateResponse{State: snap, Errors: verr.Map()})
	default:
		return rejectEvent(c, err)
	}
}

// rejectEvent maps dispatch errors to 400; anything else is a server fault.
func rejectEvent(c echo.Context, err error) error {
	switch {
	case errors.Is(err, core.ErrUnknownEvent),
		errors.Is(err, core.ErrInvalidArgument),
		errors.Is(err, core.ErrUnknownField):
		middleware.FromContext(c.Request().Context()).Info("Rejected dashboard event", "event", c.Param("event"), "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return err
	}
}
