package round

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/CrashRound_Go/internal/crash"
	"github.com/osse101/CrashRound_Go/internal/domain"
	"github.com/osse101/CrashRound_Go/internal/event"
	"github.com/osse101/CrashRound_Go/internal/logger"
	"github.com/osse101/CrashRound_Go/internal/repository"
)

// Service defines the interface for the round engine
type Service interface {
	PlaceBet(ctx context.Context, req BetRequest) (domain.BetView, error)
	CashOut(ctx context.Context, participantID string) (domain.CashoutResult, error)
	Snapshot() domain.RoundSnapshot
	Tick(ctx context.Context, now time.Time)
	Shutdown(ctx context.Context) error
}

// Settler hands completed rounds and payouts to durable storage. It must
// return without waiting on storage.
type Settler interface {
	RecordRound(ctx context.Context, record domain.RoundRecord)
	Credit(ctx context.Context, credit domain.Credit)
}

// Broadcaster receives every state change. Publish must not block.
type Broadcaster interface {
	Publish(snapshot domain.RoundSnapshot)
}

// BetRequest is a participant's request to join the next round
type BetRequest struct {
	ParticipantID         string
	Stake                 int64
	AutoCashoutMultiplier *float64
}

// Config holds the engine's tunables
type Config struct {
	MinBet               int64
	MaxBet               int64 // 0 caps only at what MaxMultiplier can pay out
	MaxMultiplier        float64
	WaitingDuration      time.Duration
	CrashDisplayDuration time.Duration
	MinCashoutMultiplier float64
}

func (c Config) validate() error {
	switch {
	case c.MinBet <= 0:
		return errors.New(ErrMsgInvalidMinBet)
	case c.MaxBet != 0 && c.MaxBet < c.MinBet:
		return errors.New(ErrMsgInvalidMaxBet)
	case c.WaitingDuration <= 0:
		return errors.New(ErrMsgInvalidWaiting)
	case c.CrashDisplayDuration < 0:
		return errors.New(ErrMsgInvalidDisplay)
	case c.MinCashoutMultiplier < domain.BaseMultiplier:
		return errors.New(ErrMsgInvalidMinCashout)
	case c.MaxMultiplier != 0 && !(c.MaxMultiplier > crash.MinCrashPoint):
		return errors.New(ErrMsgInvalidMaxMultiplier)
	}
	return nil
}

// effects are collected under the engine lock and applied after it is released
type effects struct {
	records []domain.RoundRecord
	credits []domain.Credit
	events  []event.Event
}

type engine struct {
	mu sync.Mutex

	cfg         Config
	clock       Clock
	curve       crash.Curve
	source      crash.Source
	balance     repository.Balance
	settler     Settler
	broadcaster Broadcaster
	bus         event.Bus

	state    domain.RoundState
	ledger   *Ledger
	epoch    uint64 // bumped on every entry into Waiting
	lastTick time.Time
	stopped  bool
}

// NewService creates the round engine in the Waiting phase. bus may be nil.
func NewService(cfg Config, curve crash.Curve, source crash.Source, balance repository.Balance, settler Settler, broadcaster Broadcaster, bus event.Bus, clock Clock) (Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if source == nil || balance == nil || settler == nil || broadcaster == nil {
		return nil, errors.New(ErrMsgMissingDependency)
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if cfg.MaxMultiplier == 0 {
		cfg.MaxMultiplier = crash.DefaultMaxMultiplier
	}

	e := &engine{
		cfg:         cfg,
		clock:       clock,
		curve:       curve,
		source:      source,
		balance:     balance,
		settler:     settler,
		broadcaster: broadcaster,
		bus:         bus,
		ledger:      NewLedger(),
	}

	now := clock.Now()
	e.lastTick = now
	e.enterWaiting(now)
	return e, nil
}

// Tick advances the round to now and broadcasts the resulting state. Ticks
// are idempotent with respect to the clock: a late tick catches up on every
// transition it missed, and a tick with an earlier time than the last one
// changes nothing.
func (e *engine) Tick(ctx context.Context, now time.Time) {
	fx := &effects{}

	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.advance(now, fx)
	e.publishLocked()
	e.mu.Unlock()

	e.apply(ctx, fx)
}

// Snapshot returns the current state without advancing it
func (e *engine) Snapshot() domain.RoundSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked(e.clock.Now())
}

// PlaceBet debits the stake and enters the bet into the upcoming round. The
// participant's slot is reserved before the debit so a second request fails
// fast; the debit itself runs without the engine lock held.
func (e *engine) PlaceBet(ctx context.Context, req BetRequest) (domain.BetView, error) {
	log := logger.FromContext(ctx)

	if err := e.validateBet(req); err != nil {
		log.Debug(LogMsgBetRejected, "participant_id", req.ParticipantID, "error", err)
		return domain.BetView{}, err
	}

	fx := &effects{}
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return domain.BetView{}, domain.ErrEngineStopped
	}
	e.advance(e.clock.Now(), fx)

	if e.state.Status != domain.RoundStatusWaiting {
		e.mu.Unlock()
		e.apply(ctx, fx)
		return domain.BetView{}, domain.ErrInvalidState
	}
	if err := e.ledger.Reserve(req.ParticipantID); err != nil {
		e.mu.Unlock()
		e.apply(ctx, fx)
		return domain.BetView{}, err
	}
	epoch := e.epoch
	e.mu.Unlock()
	e.apply(ctx, fx)

	bet := &domain.Bet{
		ID:                    uuid.New(),
		ParticipantID:         req.ParticipantID,
		Stake:                 req.Stake,
		AutoCashoutMultiplier: copyFloat(req.AutoCashoutMultiplier),
	}

	if err := e.balance.Debit(ctx, bet.ParticipantID, bet.Stake, debitKey(bet.ID)); err != nil {
		e.mu.Lock()
		if e.epoch == epoch {
			e.ledger.Release(bet.ParticipantID)
		}
		e.mu.Unlock()

		log.Info(LogMsgBetRejected, "participant_id", bet.ParticipantID, "stake", bet.Stake, "error", err)
		if domain.IsClientError(err) {
			return domain.BetView{}, err
		}
		return domain.BetView{}, fmt.Errorf("%w: %w", domain.ErrPersistenceFailure, err)
	}

	fx = &effects{}
	e.mu.Lock()
	now := e.clock.Now()
	if !e.stopped {
		e.advance(now, fx)
	}

	if e.stopped || e.epoch != epoch || e.state.Status != domain.RoundStatusWaiting {
		stopped := e.stopped
		if e.epoch == epoch {
			e.ledger.Release(bet.ParticipantID)
		}
		fx.credits = append(fx.credits, domain.Credit{
			Key:           refundKey(bet.ID),
			ParticipantID: bet.ParticipantID,
			Amount:        bet.Stake,
			Reason:        RefundReasonLateBet,
		})
		e.mu.Unlock()
		e.apply(ctx, fx)

		log.Warn(LogMsgBetRefundedLate, "participant_id", bet.ParticipantID, "bet_id", bet.ID, "stake", bet.Stake)
		if stopped {
			return domain.BetView{}, domain.ErrEngineStopped
		}
		return domain.BetView{}, domain.ErrInvalidState
	}

	bet.PlacedAt = now
	e.ledger.Add(bet)
	view := bet.View()
	fx.events = append(fx.events, event.NewBetPlacedEvent(view.ID, bet.ParticipantID, bet.Stake))
	e.publishLocked()
	e.mu.Unlock()
	e.apply(ctx, fx)

	log.Info(LogMsgBetPlaced,
		"participant_id", bet.ParticipantID,
		"bet_id", view.ID,
		"stake", bet.Stake,
		"auto_cashout", req.AutoCashoutMultiplier)
	return view, nil
}

// CashOut settles the participant's bet at the current multiplier. The round
// is advanced first, so a request that arrives after the crash moment is
// rejected even if no tick has observed the crash yet.
func (e *engine) CashOut(ctx context.Context, participantID string) (domain.CashoutResult, error) {
	log := logger.FromContext(ctx)

	fx := &effects{}
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return domain.CashoutResult{}, domain.ErrEngineStopped
	}
	e.advance(e.clock.Now(), fx)
	result, err := e.cashOutLocked(participantID, fx)
	if err == nil {
		e.publishLocked()
	}
	e.mu.Unlock()
	e.apply(ctx, fx)

	if err != nil {
		log.Debug(LogMsgCashoutRejected, "participant_id", participantID, "error", err)
		return domain.CashoutResult{}, err
	}

	log.Info(LogMsgCashedOut,
		"participant_id", participantID,
		"round_id", result.RoundID,
		"multiplier", result.Multiplier,
		"payout", result.Payout)
	return result, nil
}

// Shutdown stops the engine. Bets in a round that has not crashed are
// settled at 1.0x and their stakes refunded; no history record is written
// for a voided round.
func (e *engine) Shutdown(ctx context.Context) error {
	fx := &effects{}

	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return nil
	}
	e.stopped = true

	now := e.lastTick
	if e.state.Status != domain.RoundStatusCrashed {
		open := e.ledger.Unsettled()
		if len(open) > 0 {
			slog.Warn(LogMsgRoundVoided,
				"status", e.state.Status,
				"round_id", e.state.RoundID,
				"open_bets", len(open))
		}
		for _, b := range open {
			if err := b.Settle(domain.BaseMultiplier, b.Stake, now); err != nil {
				continue
			}
			fx.credits = append(fx.credits, domain.Credit{
				Key:           refundKey(b.ID),
				ParticipantID: b.ParticipantID,
				Amount:        b.Stake,
				Reason:        RefundReasonShutdown,
			})
		}
	}
	e.mu.Unlock()

	e.apply(ctx, fx)
	slog.Info(LogMsgEngineStopped)
	return nil
}

func (e *engine) validateBet(req BetRequest) error {
	if req.ParticipantID == "" {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgParticipantIDRequired)
	}
	if req.Stake < e.cfg.MinBet {
		return fmt.Errorf("%w: "+ErrMsgStakeBelowMin, domain.ErrInvalidStake, e.cfg.MinBet)
	}
	if limit := e.maxStake(); req.Stake > limit {
		return fmt.Errorf("%w: "+ErrMsgStakeAboveMax, domain.ErrInvalidStake, limit)
	}
	if a := req.AutoCashoutMultiplier; a != nil {
		if math.IsNaN(*a) || math.IsInf(*a, 0) || *a <= domain.BaseMultiplier {
			return domain.ErrInvalidAutoCashout
		}
		if *a < e.cfg.MinCashoutMultiplier {
			return fmt.Errorf("%w: "+ErrMsgAutoCashoutBelowMin, domain.ErrInvalidAutoCashout, e.cfg.MinCashoutMultiplier)
		}
	}
	return nil
}

// maxStake is the configured cap, never above what the top crash point can pay
func (e *engine) maxStake() int64 {
	limit := crash.MaxStake(e.cfg.MaxMultiplier)
	if e.cfg.MaxBet > 0 && e.cfg.MaxBet < limit {
		return e.cfg.MaxBet
	}
	return limit
}

func (e *engine) cashOutLocked(participantID string, fx *effects) (domain.CashoutResult, error) {
	if e.state.Status != domain.RoundStatusRunning {
		return domain.CashoutResult{}, domain.ErrInvalidState
	}

	bet := e.ledger.Get(participantID)
	if bet == nil {
		return domain.CashoutResult{}, domain.ErrBetNotFound
	}
	if bet.Settled {
		return domain.CashoutResult{}, domain.ErrAlreadySettled
	}

	m := e.state.Multiplier
	if m < e.cfg.MinCashoutMultiplier {
		return domain.CashoutResult{}, domain.ErrCashoutBelowMin
	}

	payout := crash.Payout(bet.Stake, m)
	if err := bet.Settle(m, payout, e.lastTick); err != nil {
		return domain.CashoutResult{}, err
	}
	e.settled(bet, domain.SettleReasonCashout, fx)

	return domain.CashoutResult{
		BetID:      bet.ID.String(),
		RoundID:    e.state.RoundID.String(),
		Multiplier: m,
		Payout:     payout,
	}, nil
}

// advance runs every transition due at or before now
func (e *engine) advance(now time.Time, fx *effects) {
	if now.Before(e.lastTick) {
		now = e.lastTick
	}
	e.lastTick = now

	for {
		switch e.state.Status {
		case domain.RoundStatusWaiting:
			if now.Before(e.state.NextTransitionAt) {
				return
			}
			if !e.start(now, fx) {
				return
			}

		case domain.RoundStatusRunning:
			crashAt := e.state.StartTime.Add(e.curve.TimeToReach(e.state.CrashPoint))
			horizon := now
			if crashAt.Before(horizon) {
				horizon = crashAt
			}

			m := e.multiplierAt(horizon)
			e.settleAutoCashouts(m, fx)

			if now.Before(crashAt) {
				if m > e.state.Multiplier {
					e.state.Multiplier = m
				}
				return
			}
			e.crash(crashAt, fx)

		case domain.RoundStatusCrashed:
			if now.Before(e.state.NextTransitionAt) {
				return
			}
			e.enterWaiting(now)
			return
		}
	}
}

func (e *engine) start(now time.Time, fx *effects) bool {
	roundID := uuid.New()
	draw, err := e.source.Next(roundID)
	if err != nil {
		slog.Error(LogMsgDrawFailed, "error", err, "retry_in", DrawRetryDelay)
		e.state.NextTransitionAt = now.Add(DrawRetryDelay)
		return false
	}

	e.state.Status = domain.RoundStatusRunning
	e.state.RoundID = roundID
	e.state.CrashPoint = draw.CrashPoint
	e.state.ServerSeed = draw.ServerSeed
	e.state.ServerSeedHash = draw.ServerSeedHash
	e.state.StartTime = now
	e.state.Multiplier = domain.BaseMultiplier
	e.state.NextTransitionAt = time.Time{}

	for _, b := range e.ledger.Bets() {
		b.RoundID = roundID
	}

	fx.events = append(fx.events, event.NewRoundStartedEvent(roundID.String(), draw.ServerSeedHash, now, e.ledger.Len()))
	slog.Info(LogMsgRoundStarted,
		"round_id", roundID,
		"bets", e.ledger.Len(),
		"server_seed_hash", draw.ServerSeedHash)
	return true
}

func (e *engine) crash(at time.Time, fx *effects) {
	e.state.Status = domain.RoundStatusCrashed
	e.state.Multiplier = e.state.CrashPoint
	e.state.CrashedAt = at
	e.state.NextTransitionAt = at.Add(e.cfg.CrashDisplayDuration)

	for _, b := range e.ledger.Unsettled() {
		if err := b.Forfeit(at); err != nil {
			continue
		}
		e.settled(b, domain.SettleReasonCrash, fx)
	}

	fx.records = append(fx.records, domain.RoundRecord{
		ID:             uuid.New(),
		RoundID:        e.state.RoundID,
		GameType:       e.state.GameType,
		Result:         e.state.CrashPoint,
		ServerSeed:     e.state.ServerSeed,
		ServerSeedHash: e.state.ServerSeedHash,
		CrashedAt:      at,
	})

	stake, paid, winners := e.ledger.Totals()
	fx.events = append(fx.events, event.NewRoundCrashedEvent(domain.RoundCrashedPayload{
		RoundID:    e.state.RoundID.String(),
		CrashPoint: e.state.CrashPoint,
		CrashedAt:  at,
		BetCount:   e.ledger.Len(),
		Winners:    winners,
		TotalStake: stake,
		TotalPaid:  paid,
	}))

	slog.Info(LogMsgRoundCrashed,
		"round_id", e.state.RoundID,
		"crash_point", e.state.CrashPoint,
		"bets", e.ledger.Len(),
		"winners", winners,
		"total_stake", stake,
		"total_paid", paid)
}

func (e *engine) enterWaiting(now time.Time) {
	e.state = domain.RoundState{
		GameType:         domain.GameTypeCrash,
		Status:           domain.RoundStatusWaiting,
		Multiplier:       domain.BaseMultiplier,
		NextTransitionAt: now.Add(e.cfg.WaitingDuration),
	}
	e.ledger.Clear()
	e.epoch++

	slog.Debug(LogMsgRoundWaiting, "next_transition_at", e.state.NextTransitionAt)
}

// settleAutoCashouts settles every bet whose threshold the curve has reached.
// A bet pays exactly its threshold, at the moment the curve crossed it.
func (e *engine) settleAutoCashouts(m float64, fx *effects) {
	for _, b := range e.ledger.DueAutoCashouts(m) {
		target := *b.AutoCashoutMultiplier
		at := e.state.StartTime.Add(e.curve.TimeToReach(target))
		if err := b.Settle(target, crash.Payout(b.Stake, target), at); err != nil {
			continue
		}
		e.settled(b, domain.SettleReasonAutoCashout, fx)

		slog.Info(LogMsgAutoCashedOut,
			"participant_id", b.ParticipantID,
			"round_id", e.state.RoundID,
			"multiplier", target,
			"payout", *b.Payout)
	}
}

// settled queues the credit and event for a bet that just settled
func (e *engine) settled(b *domain.Bet, reason string, fx *effects) {
	var payout int64
	if b.Payout != nil {
		payout = *b.Payout
	}
	var multiplier float64
	if b.CashoutMultiplier != nil {
		multiplier = *b.CashoutMultiplier
	}

	if payout > 0 {
		fx.credits = append(fx.credits, domain.Credit{
			Key:           payoutKey(b.ID),
			ParticipantID: b.ParticipantID,
			Amount:        payout,
			Reason:        reason,
		})
	}

	fx.events = append(fx.events, event.NewBetSettledEvent(domain.BetSettledPayload{
		BetID:         b.ID.String(),
		RoundID:       e.state.RoundID.String(),
		ParticipantID: b.ParticipantID,
		Stake:         b.Stake,
		Payout:        payout,
		Multiplier:    multiplier,
		Reason:        reason,
	}))
}

func (e *engine) multiplierAt(t time.Time) float64 {
	m := e.curve.At(t.Sub(e.state.StartTime))
	if m > e.state.CrashPoint {
		return e.state.CrashPoint
	}
	return m
}

func (e *engine) snapshotLocked(now time.Time) domain.RoundSnapshot {
	e.state.Participants = e.ledger.Bets()
	return e.state.Snapshot(now)
}

func (e *engine) publishLocked() {
	e.broadcaster.Publish(e.snapshotLocked(e.lastTick))
}

func (e *engine) apply(ctx context.Context, fx *effects) {
	for _, rec := range fx.records {
		e.settler.RecordRound(ctx, rec)
	}
	for _, c := range fx.credits {
		e.settler.Credit(ctx, c)
	}
	if e.bus == nil {
		return
	}
	for _, evt := range fx.events {
		if err := e.bus.Publish(ctx, evt); err != nil {
			logger.FromContext(ctx).Warn(LogMsgEventPublishFailed, "type", evt.Type, "error", err)
		}
	}
}

func debitKey(betID uuid.UUID) string  { return fmt.Sprintf(keyPrefixDebit, betID) }
func payoutKey(betID uuid.UUID) string { return fmt.Sprintf(keyPrefixPayout, betID) }
func refundKey(betID uuid.UUID) string { return fmt.Sprintf(keyPrefixRefund, betID) }

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
