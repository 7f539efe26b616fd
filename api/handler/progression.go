package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/disciplinehub/backend/api/transport"
	"github.com/disciplinehub/backend/domain"
	"github.com/disciplinehub/backend/pkg/httpcontext"
	"github.com/disciplinehub/backend/repository"
	progressionUC "github.com/disciplinehub/backend/usecase/progression"
)

type ProgressionHandler struct {
	baseHandler
	uc *progressionUC.UseCase
}

func NewProgressionHandler(uc *progressionUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ProgressionHandler {
	return &ProgressionHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Get progression stats
// @Tags progression
// @Router /api/v1/stats [get]
func (h *ProgressionHandler) GetStats(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.uc.UserStats(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, user)
}

// @Summary Leaderboard
// @Tags progression
// @Router /api/v1/leaderboard [get]
func (h *ProgressionHandler) GetLeaderboard(ctx *fasthttp.RequestCtx) {
	sortBy := repository.LeaderboardSort(ctx.QueryArgs().Peek("sort"))
	count := parseInt(string(ctx.QueryArgs().Peek("count")), 10)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	users, err := h.uc.Leaderboard(stdCtx, sortBy, count)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, users)
}

// @Summary Activity heatmap data
// @Tags progression
// @Router /api/v1/activity [get]
func (h *ProgressionHandler) GetActivity(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	since := time.Now().UTC().AddDate(0, 0, -30)
	if raw := string(ctx.QueryArgs().Peek("since")); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid date", nil))
			return
		}
		since = parsed
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	activity, err := h.uc.ActivityData(stdCtx, userID, since)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	// Map keys become RFC3339 strings in JSON; flatten to date strings instead.
	flat := make(map[string]int, len(activity))
	for day, count := range activity {
		flat[day.Format("2006-01-02")] = count
	}
	h.respondSuccess(ctx, http.StatusOK, flat)
}

// @Summary Focus minutes over the last seven days
// @Tags focus
// @Router /api/v1/focus/weekly [get]
func (h *ProgressionHandler) GetWeeklyFocus(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	minutes, err := h.uc.WeeklyFocusMinutes(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]float64{"minutes": minutes})
}

// @Summary Per-day focus minutes
// @Tags focus
// @Router /api/v1/focus/daily [get]
func (h *ProgressionHandler) GetDailyFocus(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	days := parseInt(string(ctx.QueryArgs().Peek("days")), 7)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	activity, err := h.uc.DailyFocusActivity(stdCtx, userID, days)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	flat := make(map[string]float64, len(activity))
	for day, minutes := range activity {
		flat[day.Format("2006-01-02")] = minutes
	}
	h.respondSuccess(ctx, http.StatusOK, flat)
}

// @Summary Record a focus session
// @Tags focus
// @Router /api/v1/focus-sessions [post]
func (h *ProgressionHandler) RecordFocusSession(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.FocusSessionRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Minutes <= 0 {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	reward, err := h.uc.RecordFocusSession(stdCtx, userID, req.Minutes, req.TaskTag, req.IsPomodoro)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, reward)
}

// @Summary List focus sessions
// @Tags focus
// @Router /api/v1/focus-sessions [get]
func (h *ProgressionHandler) ListFocusSessions(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	limit := parseInt(string(ctx.QueryArgs().Peek("limit")), 20)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	sessions, err := h.uc.ListFocusSessions(stdCtx, userID, limit)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, sessions)
}

// @Summary Delete a focus session
// @Tags focus
// @Router /api/v1/focus-sessions/{id} [delete]
func (h *ProgressionHandler) DeleteFocusSession(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing session id", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteFocusSession(stdCtx, id, userID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}
