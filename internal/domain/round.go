package domain

import (
	"time"

	"github.com/google/uuid"
)

// GameType identifies a game in the history table
type GameType string

const GameTypeCrash GameType = "crash"

// RoundStatus represents the phase of a round
type RoundStatus string

const (
	RoundStatusWaiting RoundStatus = "waiting"
	RoundStatusRunning RoundStatus = "running"
	RoundStatusCrashed RoundStatus = "crashed"
)

// BaseMultiplier is the multiplier every round starts at
const BaseMultiplier = 1.0

// RoundState is the authoritative state of the live round. It is owned by the
// round engine and only mutated under the engine lock.
type RoundState struct {
	GameType         GameType
	Status           RoundStatus
	RoundID          uuid.UUID
	Multiplier       float64
	CrashPoint       float64
	ServerSeed       string
	ServerSeedHash   string
	StartTime        time.Time
	CrashedAt        time.Time
	NextTransitionAt time.Time
	Participants     []*Bet
}

// FindBet returns the participant's bet for this round, or nil
func (s *RoundState) FindBet(participantID string) *Bet {
	for _, b := range s.Participants {
		if b.ParticipantID == participantID {
			return b
		}
	}
	return nil
}

// Snapshot builds the client-facing view of the round. The crash point and
// server seed are withheld until the round has crashed.
func (s *RoundState) Snapshot(now time.Time) RoundSnapshot {
	snap := RoundSnapshot{
		GameType:     s.GameType,
		Status:       s.Status,
		Multiplier:   s.Multiplier,
		ServerTime:   now,
		Participants: make([]BetView, 0, len(s.Participants)),
	}

	if !s.NextTransitionAt.IsZero() {
		next := s.NextTransitionAt
		snap.NextTransitionAt = &next
	}

	if s.Status != RoundStatusWaiting {
		snap.RoundID = s.RoundID.String()
		start := s.StartTime
		snap.StartTime = &start
		snap.ServerSeedHash = s.ServerSeedHash
	}

	if s.Status == RoundStatusCrashed {
		cp := s.CrashPoint
		snap.CrashPoint = &cp
		snap.ServerSeed = s.ServerSeed
		crashedAt := s.CrashedAt
		snap.CrashedAt = &crashedAt
	}

	for _, b := range s.Participants {
		snap.Participants = append(snap.Participants, b.View())
	}

	return snap
}

// RoundSnapshot is the full state object sent to subscribers on every tick
type RoundSnapshot struct {
	GameType         GameType    `json:"game_type"`
	Status           RoundStatus `json:"status"`
	RoundID          string      `json:"round_id,omitempty"`
	Multiplier       float64     `json:"multiplier"`
	CrashPoint       *float64    `json:"crash_point,omitempty"`
	ServerSeedHash   string      `json:"server_seed_hash,omitempty"`
	ServerSeed       string      `json:"server_seed,omitempty"`
	StartTime        *time.Time  `json:"start_time,omitempty"`
	CrashedAt        *time.Time  `json:"crashed_at,omitempty"`
	NextTransitionAt *time.Time  `json:"next_transition_at,omitempty"`
	ServerTime       time.Time   `json:"server_time"`
	Participants     []BetView   `json:"participants"`
}
