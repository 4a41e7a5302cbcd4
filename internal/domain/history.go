package domain

import (
	"time"

	"github.com/google/uuid"
)

// RoundRecord is a completed round as stored in the history sink
type RoundRecord struct {
	ID             uuid.UUID `json:"id"`
	RoundID        uuid.UUID `json:"round_id"`
	GameType       GameType  `json:"game_type"`
	Result         float64   `json:"result"`
	ServerSeed     string    `json:"server_seed,omitempty"`
	ServerSeedHash string    `json:"server_seed_hash,omitempty"`
	CrashedAt      time.Time `json:"crashed_at"`
}

// Verification is the outcome of recomputing a crash point from its seed
type Verification struct {
	RoundID        string  `json:"round_id"`
	ServerSeed     string  `json:"server_seed"`
	ServerSeedHash string  `json:"server_seed_hash"`
	Recorded       float64 `json:"recorded"`
	Computed       float64 `json:"computed"`
	Valid          bool    `json:"valid"`
}
