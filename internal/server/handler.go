package server

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/chrisdamba/seatyield/internal/models"
	"github.com/chrisdamba/seatyield/internal/repositories"
	"github.com/chrisdamba/seatyield/internal/seatyield"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Handler serves the planning endpoints. State may be nil, in which case the
// state endpoints answer 503.
type Handler struct {
	Service  *seatyield.Service
	State    repositories.StateRepository
	StateKey string
	Defaults models.Settings
}

func NewHandler(service *seatyield.Service, state repositories.StateRepository, stateKey string, defaults models.Settings) *Handler {
	return &Handler{Service: service, State: state, StateKey: stateKey, Defaults: defaults}
}

// planRequest is the body shared by the compute endpoints. Settings default to
// the configured ones when omitted.
type planRequest struct {
	ScenarioID      string           `json:"scenarioId" binding:"required"`
	Settings        *models.Settings `json:"settings"`
	ActiveActions   map[string]bool  `json:"activeActions"`
	ActiveActionIDs []string         `json:"activeActionIds"`
}

type scenarioSummary struct {
	ID      string                 `json:"id"`
	Name    string                 `json:"name"`
	City    string                 `json:"city"`
	Context models.ScenarioContext `json:"context"`
}

func RespondError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// respondServiceError maps service errors onto status codes.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, seatyield.ErrUnknownScenario):
		RespondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrInvalidSettings):
		RespondError(c, http.StatusBadRequest, err.Error())
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		RespondError(c, http.StatusInternalServerError, "internal error")
	}
}

func (h *Handler) bind(c *gin.Context) (planRequest, models.Settings, bool) {
	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return req, models.Settings{}, false
	}
	settings := h.Defaults
	if req.Settings != nil {
		settings = *req.Settings
	}
	if err := settings.Validate(); err != nil {
		respondServiceError(c, err)
		return req, settings, false
	}
	return req, settings, true
}

// activeIDs merges both accepted forms of the toggle list.
func (r planRequest) activeIDs() []string {
	ids := append([]string(nil), r.ActiveActionIDs...)
	for id, on := range r.ActiveActions {
		if on {
			ids = append(ids, id)
		}
	}
	return ids
}

// toggles merges both forms into persisted-style flags. Listed ids are on
// regardless of the map.
func (r planRequest) toggles() map[string]bool {
	if len(r.ActiveActionIDs) == 0 {
		return r.ActiveActions
	}
	flags := make(map[string]bool, len(r.ActiveActions)+len(r.ActiveActionIDs))
	for id, on := range r.ActiveActions {
		flags[id] = on
	}
	for _, id := range r.ActiveActionIDs {
		flags[id] = true
	}
	return flags
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "scenarios": h.Service.Catalog().Len()})
}

func (h *Handler) ListScenarios(c *gin.Context) {
	all := h.Service.Catalog().All()
	out := make([]scenarioSummary, 0, len(all))
	for _, sc := range all {
		out = append(out, scenarioSummary{ID: sc.ID, Name: sc.Name, City: sc.City, Context: sc.Context})
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) GetScenario(c *gin.Context) {
	sc, ok := h.Service.Catalog().Get(c.Param("id"))
	if !ok {
		RespondError(c, http.StatusNotFound, "unknown scenario: "+c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, sc)
}

func (h *Handler) Forecast(c *gin.Context) {
	req, settings, ok := h.bind(c)
	if !ok {
		return
	}
	forecast, err := h.Service.Forecast(req.ScenarioID, settings)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, forecast)
}

func (h *Handler) Actions(c *gin.Context) {
	req, settings, ok := h.bind(c)
	if !ok {
		return
	}
	actions, err := h.Service.Actions(req.ScenarioID, settings)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, actions)
}

func (h *Handler) Impact(c *gin.Context) {
	req, settings, ok := h.bind(c)
	if !ok {
		return
	}
	impact, err := h.Service.Impact(req.ScenarioID, settings, req.activeIDs())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, impact)
}

// Plan treats activeActions and activeActionIds as persisted toggles: ids
// neither mentions keep their default.
func (h *Handler) Plan(c *gin.Context) {
	req, settings, ok := h.bind(c)
	if !ok {
		return
	}
	plan, err := h.Service.Plan(req.ScenarioID, settings, req.toggles())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

var stateKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// stateKey returns the ?key= override or the configured key. It answers 400
// and reports false for keys that are not a plain identifier.
func (h *Handler) stateKey(c *gin.Context) (string, bool) {
	key := c.Query("key")
	if key == "" {
		key = h.StateKey
	}
	if !stateKeyPattern.MatchString(key) {
		RespondError(c, http.StatusBadRequest, "invalid state key")
		return "", false
	}
	return key, true
}

func (h *Handler) GetState(c *gin.Context) {
	if h.State == nil {
		RespondError(c, http.StatusServiceUnavailable, "state store not configured")
		return
	}
	key, ok := h.stateKey(c)
	if !ok {
		return
	}
	state, err := h.State.Load(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, repositories.ErrStateCorrupt) {
			RespondError(c, http.StatusInternalServerError, "saved state is corrupt")
			return
		}
		respondServiceError(c, err)
		return
	}
	if state == nil {
		RespondError(c, http.StatusNotFound, "no saved state")
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *Handler) PutState(c *gin.Context) {
	if h.State == nil {
		RespondError(c, http.StatusServiceUnavailable, "state store not configured")
		return
	}
	key, ok := h.stateKey(c)
	if !ok {
		return
	}
	var state models.PersistedState
	if err := c.ShouldBindJSON(&state); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := state.Settings.Validate(); err != nil {
		respondServiceError(c, err)
		return
	}
	if state.ActiveActions == nil {
		state.ActiveActions = map[string]bool{}
	}
	if err := h.State.Save(c.Request.Context(), key, state); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}
