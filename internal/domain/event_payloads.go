package domain

import "time"

// RoundStartedPayload is carried by round.started events
type RoundStartedPayload struct {
	RoundID        string    `json:"round_id"`
	ServerSeedHash string    `json:"server_seed_hash"`
	StartTime      time.Time `json:"start_time"`
	BetCount       int       `json:"bet_count"`
}

// RoundCrashedPayload is carried by round.crashed events
type RoundCrashedPayload struct {
	RoundID    string    `json:"round_id"`
	CrashPoint float64   `json:"crash_point"`
	CrashedAt  time.Time `json:"crashed_at"`
	BetCount   int       `json:"bet_count"`
	Winners    int       `json:"winners"`
	TotalStake int64     `json:"total_stake"`
	TotalPaid  int64     `json:"total_paid"`
}

// BetPlacedPayload is carried by bet.placed events
type BetPlacedPayload struct {
	BetID         string `json:"bet_id"`
	ParticipantID string `json:"participant_id"`
	Stake         int64  `json:"stake"`
}

// BetSettledPayload is carried by bet.settled events
type BetSettledPayload struct {
	BetID         string  `json:"bet_id"`
	RoundID       string  `json:"round_id"`
	ParticipantID string  `json:"participant_id"`
	Stake         int64   `json:"stake"`
	Payout        int64   `json:"payout"`
	Multiplier    float64 `json:"multiplier"`
	Reason        string  `json:"reason"`
}

// PersistenceFailedPayload is carried by persistence.failed and persistence.recovered events
type PersistenceFailedPayload struct {
	JobKind  string `json:"job_kind"`
	JobKey   string `json:"job_key"`
	Attempts int    `json:"attempts"`
	Error    string `json:"error,omitempty"`
}
