package crash

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGenerator_Validation(t *testing.T) {
	tests := []struct {
		name      string
		houseEdge float64
		max       float64
		wantErr   string
	}{
		{"valid", 0.95, 1000, ""},
		{"zero edge", 0, 1000, ErrMsgInvalidHouseEdge},
		{"edge of one", 1, 1000, ErrMsgInvalidHouseEdge},
		{"negative edge", -0.5, 1000, ErrMsgInvalidHouseEdge},
		{"cap of one", 0.95, 1, ErrMsgInvalidMaxMultiplier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, err := NewGenerator(tt.houseEdge, tt.max)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, gen)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.houseEdge, gen.HouseEdge())
			assert.Equal(t, tt.max, gen.MaxMultiplier())
		})
	}
}

func TestCrashPoint_Formula(t *testing.T) {
	gen, err := NewGenerator(0.95, 1000)
	require.NoError(t, err)

	tests := []struct {
		name string
		e    float64
		want float64
	}{
		{"instant crash floor", 0, 1.0},
		{"below one clamps", 0.04, 1.0},
		{"half", 0.5, 1.9},
		{"ninety percent", 0.9, 9.5},
		{"truncates to cents", 0.7, 3.16},
		{"capped", 0.99999999, 1000},
		{"out of range high", 1, 1000},
		{"out of range low", -1, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, gen.CrashPoint(tt.e), 1e-9)
		})
	}
}

func TestCrashPoint_NeverBelowOne(t *testing.T) {
	gen, err := NewGenerator(0.95, 1000)
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 100000; i++ {
		cp := gen.CrashPoint(rng.Float64())
		require.GreaterOrEqual(t, cp, MinCrashPoint)
		require.LessOrEqual(t, cp, 1000.0)
	}
}

// For any fixed cashout target m a player is paid m when the round reaches m
// and nothing otherwise. With houseEdge 0.95 the mean return stays below 1.
func TestCrashPoint_HouseEdgeHolds(t *testing.T) {
	const draws = 100000
	gen, err := NewGenerator(0.95, 1000)
	require.NoError(t, err)

	targets := []float64{1.01, 1.5, 2, 3, 10}
	totals := make([]float64, len(targets))

	rng := rand.New(rand.NewPCG(42, 1337))
	for i := 0; i < draws; i++ {
		cp := gen.CrashPoint(rng.Float64())
		for j, m := range targets {
			if cp >= m {
				totals[j] += m
			}
		}
	}

	for j, m := range targets {
		mean := totals[j] / draws
		assert.Less(t, mean, 1.0, "target %.2f mean payout %.4f", m, mean)
		assert.InDelta(t, 0.95, mean, 0.05, "target %.2f mean payout %.4f", m, mean)
	}
}

func TestFairSource_Deterministic(t *testing.T) {
	gen, err := NewGenerator(0.95, 1000)
	require.NoError(t, err)
	src := NewFairSource(gen)

	draw, err := src.Next(testRoundID)
	require.NoError(t, err)
	assert.Len(t, draw.ServerSeed, ServerSeedBytes*2)
	assert.Equal(t, HashSeed(draw.ServerSeed), draw.ServerSeedHash)
	assert.GreaterOrEqual(t, draw.CrashPoint, 1.0)

	v, err := src.Verify(recordFor(draw))
	require.NoError(t, err)
	assert.True(t, v.Valid)
	assert.Equal(t, draw.CrashPoint, v.Computed)
}

func TestFairSource_VerifyDetectsTampering(t *testing.T) {
	gen, err := NewGenerator(0.95, 1000)
	require.NoError(t, err)
	src := NewFairSource(gen)

	draw, err := src.Next(testRoundID)
	require.NoError(t, err)

	rec := recordFor(draw)
	rec.Result = draw.CrashPoint + 1
	v, err := src.Verify(rec)
	require.NoError(t, err)
	assert.False(t, v.Valid)

	rec = recordFor(draw)
	rec.ServerSeed = "not-hex"
	_, err = src.Verify(rec)
	assert.Error(t, err)
}

func TestSequenceSource(t *testing.T) {
	src := NewSequenceSource(false, 2.0, 3.5)

	d, err := src.Next(testRoundID)
	require.NoError(t, err)
	assert.Equal(t, 2.0, d.CrashPoint)

	d, err = src.Next(testRoundID)
	require.NoError(t, err)
	assert.Equal(t, 3.5, d.CrashPoint)

	_, err = src.Next(testRoundID)
	assert.EqualError(t, err, ErrMsgSequenceExhausted)

	looping := NewSequenceSource(true, 1.5)
	for i := 0; i < 3; i++ {
		d, err := looping.Next(testRoundID)
		require.NoError(t, err)
		assert.Equal(t, 1.5, d.CrashPoint)
	}
}
