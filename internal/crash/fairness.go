package crash

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/google/uuid"

	"github.com/osse101/CrashRound_Go/internal/domain"
)

// Draw is the outcome fixed for a round when it is armed
type Draw struct {
	CrashPoint     float64
	ServerSeed     string
	ServerSeedHash string
}

// Source produces the draw for a new round
type Source interface {
	Next(roundID uuid.UUID) (Draw, error)
}

// FairSource draws crash points from a fresh random server seed per round.
// The uniform value is HMAC-SHA256(seed, roundID), so anyone holding the
// revealed seed can recompute the crash point.
type FairSource struct {
	gen *Generator
}

// NewFairSource creates a provably fair source
func NewFairSource(gen *Generator) *FairSource {
	return &FairSource{gen: gen}
}

// Next generates a new server seed and derives the round's crash point
func (s *FairSource) Next(roundID uuid.UUID) (Draw, error) {
	seed := make([]byte, ServerSeedBytes)
	if _, err := rand.Read(seed); err != nil {
		return Draw{}, fmt.Errorf("%s: %w", ErrMsgSeedGeneration, err)
	}

	serverSeed := hex.EncodeToString(seed)
	return Draw{
		CrashPoint:     s.gen.CrashPoint(Uniform(seed, roundID)),
		ServerSeed:     serverSeed,
		ServerSeedHash: HashSeed(serverSeed),
	}, nil
}

// Verify recomputes the crash point of a recorded round
func (s *FairSource) Verify(record domain.RoundRecord) (domain.Verification, error) {
	seed, err := hex.DecodeString(record.ServerSeed)
	if err != nil || len(seed) == 0 {
		return domain.Verification{}, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgInvalidServerSeed)
	}

	computed := s.gen.CrashPoint(Uniform(seed, record.RoundID))
	hash := HashSeed(record.ServerSeed)

	return domain.Verification{
		RoundID:        record.RoundID.String(),
		ServerSeed:     record.ServerSeed,
		ServerSeedHash: hash,
		Recorded:       record.Result,
		Computed:       computed,
		Valid:          computed == record.Result && (record.ServerSeedHash == "" || record.ServerSeedHash == hash),
	}, nil
}

// Uniform maps (seed, roundID) to a value in [0, 1) using the top 52 bits of
// HMAC-SHA256(seed, roundID).
func Uniform(seed []byte, roundID uuid.UUID) float64 {
	mac := hmac.New(sha256.New, seed)
	mac.Write([]byte(roundID.String()))
	sum := mac.Sum(nil)

	v := binary.BigEndian.Uint64(sum[:8]) >> (64 - uniformBits)
	return float64(v) / math.Exp2(uniformBits)
}

// HashSeed returns the public commitment for a server seed
func HashSeed(serverSeed string) string {
	sum := sha256.Sum256([]byte(serverSeed))
	return hex.EncodeToString(sum[:])
}

// SequenceSource replays a fixed list of crash points. It is used for
// deterministic scenarios (tests, load rehearsals).
type SequenceSource struct {
	mu     sync.Mutex
	points []float64
	next   int
	repeat bool
}

// NewSequenceSource returns a source yielding points in order. With repeat
// set it cycles; otherwise Next fails once the list is exhausted.
func NewSequenceSource(repeat bool, points ...float64) *SequenceSource {
	return &SequenceSource{points: points, repeat: repeat}
}

// Next returns the next crash point in the sequence
func (s *SequenceSource) Next(_ uuid.UUID) (Draw, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.next >= len(s.points) {
		if !s.repeat || len(s.points) == 0 {
			return Draw{}, errors.New(ErrMsgSequenceExhausted)
		}
		s.next = 0
	}

	cp := s.points[s.next]
	s.next++

	seed := fmt.Sprintf("sequence-%d", s.next)
	return Draw{
		CrashPoint:     cp,
		ServerSeed:     seed,
		ServerSeedHash: HashSeed(seed),
	}, nil
}
