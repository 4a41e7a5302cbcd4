package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/osse101/CrashRound_Go/internal/history"
	"github.com/osse101/CrashRound_Go/internal/logger"
	"github.com/osse101/CrashRound_Go/internal/round"
)

// maxParticipantIDLength bounds participant IDs accepted over HTTP
const maxParticipantIDLength = 64

// CrashHandler serves the round's request/response endpoints
type CrashHandler struct {
	engine  round.Service
	history history.Service
}

// NewCrashHandler creates a new CrashHandler
func NewCrashHandler(engine round.Service, historySvc history.Service) *CrashHandler {
	return &CrashHandler{
		engine:  engine,
		history: historySvc,
	}
}

// PlaceBetRequest is the body of POST /crash/bet
type PlaceBetRequest struct {
	ParticipantID         string   `json:"participant_id" validate:"participant"`
	Stake                 int64    `json:"stake" validate:"gt=0"`
	AutoCashoutMultiplier *float64 `json:"auto_cashout_multiplier,omitempty" validate:"omitempty,gt=1"`
}

// CashOutRequest is the body of POST /crash/cashout
type CashOutRequest struct {
	ParticipantID string `json:"participant_id" validate:"participant"`
}

// HandleState returns the current round snapshot
func (h *CrashHandler) HandleState(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.engine.Snapshot())
}

// HandlePlaceBet joins the next round
func (h *CrashHandler) HandlePlaceBet(w http.ResponseWriter, r *http.Request) {
	var req PlaceBetRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Place bet"); err != nil {
		return
	}

	bet, err := h.engine.PlaceBet(r.Context(), round.BetRequest{
		ParticipantID:         req.ParticipantID,
		Stake:                 req.Stake,
		AutoCashoutMultiplier: req.AutoCashoutMultiplier,
	})
	if err != nil {
		respondServiceError(w, r, ErrMsgPlaceBetFailed, err)
		return
	}

	logger.FromContext(r.Context()).Info(LogMsgBetPlaced,
		"participant_id", bet.ParticipantID,
		"bet_id", bet.ID,
		"stake", bet.Stake)
	respondJSON(w, http.StatusCreated, bet)
}

// HandleCashOut settles the participant's bet at the live multiplier
func (h *CrashHandler) HandleCashOut(w http.ResponseWriter, r *http.Request) {
	var req CashOutRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Cash out"); err != nil {
		return
	}

	result, err := h.engine.CashOut(r.Context(), req.ParticipantID)
	if err != nil {
		respondServiceError(w, r, ErrMsgCashOutFailed, err)
		return
	}

	logger.FromContext(r.Context()).Info(LogMsgCashedOut,
		"participant_id", req.ParticipantID,
		"multiplier", result.Multiplier,
		"payout", result.Payout)
	respondJSON(w, http.StatusOK, result)
}

// HandleHistory lists recently completed rounds, newest first
func (h *CrashHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	limit, ok := GetOptionalIntParam(r, w, "limit", history.DefaultRecentLimit)
	if !ok {
		return
	}

	records, err := h.history.Recent(r.Context(), limit)
	if err != nil {
		respondServiceError(w, r, ErrMsgGetHistoryFailed, err)
		return
	}

	respondJSON(w, http.StatusOK, DataResponse{Data: records})
}

// HandleVerify recomputes a completed round's crash point from its seed
func (h *CrashHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	raw, ok := GetQueryParam(r, w, "round_id")
	if !ok {
		return
	}
	roundID, err := uuid.Parse(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRoundID)
		return
	}

	v, err := h.history.Verify(r.Context(), roundID)
	if err != nil {
		respondServiceError(w, r, ErrMsgVerifyFailed, err)
		return
	}

	respondJSON(w, http.StatusOK, v)
}
