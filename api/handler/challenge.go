package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/disciplinehub/backend/api/transport"
	"github.com/disciplinehub/backend/domain"
	"github.com/disciplinehub/backend/pkg/httpcontext"
	challengeUC "github.com/disciplinehub/backend/usecase/challenge"
)

type ChallengeHandler struct {
	baseHandler
	uc *challengeUC.UseCase
}

func NewChallengeHandler(uc *challengeUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ChallengeHandler {
	return &ChallengeHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Create a challenge
// @Tags challenges
// @Router /api/v1/challenges [post]
func (h *ChallengeHandler) CreateChallenge(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.ChallengeCreateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	challenge, err := h.uc.Create(stdCtx, userID, req.UserName, req.Type)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, challenge)
}

// @Summary List own challenges
// @Tags challenges
// @Router /api/v1/challenges [get]
func (h *ChallengeHandler) ListChallenges(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	challenges, err := h.uc.ListCreatedBy(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, challenges)
}

// @Summary Resolve a challenge by share token
// @Tags challenges
// @Router /api/v1/challenges/token/{token} [get]
func (h *ChallengeHandler) GetByToken(ctx *fasthttp.RequestCtx) {
	token, _ := ctx.UserValue("token").(string)
	if token == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing token", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	challenge, err := h.uc.ByToken(stdCtx, token)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, challenge)
}

// @Summary Accept a challenge
// @Tags challenges
// @Router /api/v1/challenges/token/{token}/accept [post]
func (h *ChallengeHandler) AcceptChallenge(ctx *fasthttp.RequestCtx) {
	token, _ := ctx.UserValue("token").(string)
	if token == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing token", nil))
		return
	}

	// Anonymous acceptors are allowed; they become guests.
	userID := string(ctx.Request.Header.Peek("X-User-ID"))

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	accepted, err := h.uc.Accept(stdCtx, token, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]bool{"accepted": accepted})
}

// @Summary Evaluate challenge completion
// @Tags challenges
// @Router /api/v1/challenges/{id}/check [post]
func (h *ChallengeHandler) CheckCompletion(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing challenge id", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	completed, err := h.uc.CheckCompletion(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]bool{"completed": completed})
}
