package animation

import (
	"math"
	"math/rand"
	"testing"

	vmath "github.com/Faultbox/orbit-vignette/pkg/math"
)

const eps = 1e-9

func TestFloatHeightSamples(t *testing.T) {
	tests := []struct {
		elapsed float64
		want    float64
	}{
		{0, 0},
		{1.25, 10},
		{2.5, 0},
		{3.75, -10},
		{5, 0},
	}

	for _, tt := range tests {
		got := FloatHeight(tt.elapsed, 0, 0.2, 10)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("FloatHeight(%v) = %v, want %v", tt.elapsed, got, tt.want)
		}
	}
}

func TestFloatIndependentOfTickGranularity(t *testing.T) {
	f := Float{Frequency: 0.2, Amplitude: 10}

	for _, fps := range []float64{24, 60, 144, 7} {
		c := NewCharacterState(3, 0)
		steps := int(1.25 * fps)
		for i := 1; i <= steps; i++ {
			f.Apply(c, float64(i)/fps)
		}
		// Land exactly on the quarter period.
		f.Apply(c, 1.25)
		if math.Abs(c.CurrentHeight-13) > 1e-9 {
			t.Errorf("fps %v: height = %v, want 13", fps, c.CurrentHeight)
		}
		if c.BaseHeight != 3 {
			t.Errorf("fps %v: base height drifted to %v", fps, c.BaseHeight)
		}
	}
}

func TestFloatNilStateNoop(t *testing.T) {
	var c *CharacterState
	Float{Frequency: 1, Amplitude: 1}.Apply(c, 1)
	Spin{Rate: 1}.Apply(c, 1)
}

func TestOrbitIdempotent(t *testing.T) {
	o := Orbit{Rate: 0.2}
	var s OrbitState

	o.Apply(&s, 7.5)
	first := s.GroupRotationY

	// Many unrelated ticks in between must not matter.
	for i := 0; i < 1000; i++ {
		o.Apply(&s, float64(i)*0.016)
	}
	o.Apply(&s, 7.5)
	o.Apply(&s, 7.5)

	if s.GroupRotationY != first {
		t.Errorf("orbit angle changed: %v != %v", s.GroupRotationY, first)
	}
	if math.Abs(first-1.5) > eps {
		t.Errorf("OrbitAngle(7.5, 0.2) = %v, want 1.5", first)
	}
}

func TestOrbitWraps(t *testing.T) {
	got := OrbitAngle(100, 0.2)
	want := math.Mod(20, 2*math.Pi)
	if math.Abs(got-want) > eps {
		t.Errorf("OrbitAngle(100, 0.2) = %v, want %v", got, want)
	}
	if got < 0 || got >= 2*math.Pi {
		t.Errorf("OrbitAngle out of [0, 2π): %v", got)
	}
}

func TestSpinFrameRateIndependent(t *testing.T) {
	const total = 3.0
	rate := math.Pi * 0.5
	want := rate * total

	splits := map[string][]float64{
		"one step":  {total},
		"three 1s":  {1, 1, 1},
		"60 fps":    repeat(1.0/60, 180),
		"uneven":    {0.5, 0.001, 1.2, 0.299, 1.0},
		"randomish": randomSplit(total, 97),
	}

	for name, deltas := range splits {
		t.Run(name, func(t *testing.T) {
			c := NewCharacterState(0, 0)
			sp := Spin{Rate: rate}
			for _, d := range deltas {
				sp.Apply(c, d)
			}
			if math.Abs(c.SelfRotationY-want) > 1e-9 {
				t.Errorf("rotation = %v, want %v", c.SelfRotationY, want)
			}
		})
	}
}

func TestSpinWrapsLongSessions(t *testing.T) {
	c := NewCharacterState(0, 0)
	sp := Spin{Rate: math.Pi * 0.5}
	for i := 0; i < 60*600; i++ {
		sp.Apply(c, 1.0/60)
	}
	want := vmath.WrapAngle(math.Pi * 0.5 * 600)
	diff := math.Abs(c.SelfRotationY - want)
	if diff > 1e-6 && math.Abs(diff-2*math.Pi) > 1e-6 {
		t.Errorf("rotation after 600s = %v, want %v", c.SelfRotationY, want)
	}
	if c.SelfRotationY < 0 || c.SelfRotationY >= 2*math.Pi {
		t.Errorf("rotation not wrapped: %v", c.SelfRotationY)
	}
}

func TestSpinIgnoresBadDeltas(t *testing.T) {
	for _, d := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if got := SpinAngle(1, 2, d); got != 1 {
			t.Errorf("SpinAngle(1, 2, %v) = %v, want 1", d, got)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	bad := []Config{
		{OrbitRate: math.NaN()},
		{SpinRate: math.Inf(1)},
		{FloatFrequency: -1},
		{FloatAmplitude: -2},
	}
	for i, c := range bad {
		if err := c.Validate(); err == nil {
			t.Errorf("case %d: expected error for %+v", i, c)
		}
	}
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func randomSplit(total float64, n int) []float64 {
	rng := rand.New(rand.NewSource(42))
	weights := make([]float64, n)
	sum := 0.0
	for i := range weights {
		weights[i] = rng.Float64() + 0.01
		sum += weights[i]
	}
	for i := range weights {
		weights[i] = weights[i] / sum * total
	}
	return weights
}
