package gmarch

import "github.com/soypat/geometry/ms3"

// Ray is a sphere tracing query through a field.
type Ray struct {
	// Origin is the ray start point in world space.
	Origin ms3.Vec
	// Direction must be unit length. A null direction misses immediately.
	Direction ms3.Vec
	// TravelMin offsets the first field evaluation along the ray.
	TravelMin float32
	// TravelMax bounds the total travel. Marching past it reports a miss.
	// Zero means unbounded.
	TravelMax float32
}

func (r Ray) point(t float32) ms3.Vec {
	return ms3.Add(r.Origin, ms3.Scale(t, r.Direction))
}

// MarchConfig bounds the sphere tracing loop. The zero value selects
// defaults suited to unit-scale scenes.
type MarchConfig struct {
	// MaxSteps caps field evaluations per ray. Default 100.
	MaxSteps int
	// MinStep is the advance below which the surface counts as hit.
	// Default 1e-3.
	MinStep float32
	// NormalEpsilon is the sampling offset for the hit normal estimate.
	// Default 1e-3.
	NormalEpsilon float32
}

func (cfg MarchConfig) withDefaults() MarchConfig {
	if cfg.MaxSteps == 0 {
		cfg.MaxSteps = 100
	}
	if cfg.MinStep == 0 {
		cfg.MinStep = 1e-3
	}
	if cfg.NormalEpsilon == 0 {
		cfg.NormalEpsilon = defaultNormalEps
	}
	return cfg
}

// Validate returns a non-nil error if the configuration cannot drive the
// tracing loop. Zero fields are valid since they select defaults.
func (cfg MarchConfig) Validate() error {
	if cfg.MaxSteps < 0 {
		return configErrorf("negative march step limit %d", cfg.MaxSteps)
	} else if cfg.MinStep < 0 || !isfinite(cfg.MinStep) {
		return configErrorf("negative or non-finite march hit threshold %v", cfg.MinStep)
	} else if cfg.NormalEpsilon < 0 || !isfinite(cfg.NormalEpsilon) {
		return configErrorf("negative or non-finite normal epsilon %v", cfg.NormalEpsilon)
	}
	return nil
}

// MarchState is the terminal state of a sphere tracing loop.
type MarchState uint8

const (
	// StateMarching is the in-flight state. March never returns it.
	StateMarching MarchState = iota
	// StateHit terminates on a surface.
	StateHit
	// StateMiss terminates by exhausting steps or the travel window.
	StateMiss
)

func (s MarchState) String() (str string) {
	switch s {
	case StateMarching:
		str = "marching"
	case StateHit:
		str = "hit"
	case StateMiss:
		str = "miss"
	default:
		str = "MarchState(" + string('0'+rune(s)) + ")"
	}
	return str
}

// Trace is the outcome of marching one ray. A miss is a valid outcome, not
// an error: its geometric fields are zero and ID is [IDBackground].
type Trace struct {
	// State is the terminal loop state, never StateMarching.
	State MarchState
	// Steps is the number of field evaluations spent on the ray.
	Steps int
	// Distance is the travel along the ray at termination.
	Distance float32
	// Normal is the estimated unit surface normal at the hit point.
	Normal ms3.Vec
	// Albedo and Specular carry the material of the hit surface.
	Albedo   ms3.Vec
	Specular float32
	// ID attributes the hit surface, or [IDBackground] on a miss.
	ID SurfaceID
}

// Hit reports whether the trace terminated on a surface.
func (t Trace) Hit() bool { return t.State == StateHit }

// March sphere-traces ray through f: each iteration evaluates the field at
// the current point and advances by the returned distance, which can never
// step over a surface. The loop terminates on a hit when the field distance
// falls below the hit threshold, or on a miss when the travel window or the
// step budget is exhausted. Rays starting inside a surface hit immediately
// since the field is negative there.
func March(f Field, ray Ray, cfg MarchConfig) Trace {
	cfg = cfg.withDefaults()
	if ms3.Dot(ray.Direction, ray.Direction) < epstol*epstol {
		return Trace{State: StateMiss, ID: IDBackground}
	}
	tmax := ray.TravelMax
	if tmax <= 0 {
		tmax = largenum
	}
	t := ray.TravelMin
	steps := 0
	for steps < cfg.MaxSteps {
		p := ray.point(t)
		res := f.At(p)
		steps++
		if res.Distance < cfg.MinStep {
			return Trace{
				State:    StateHit,
				Steps:    steps,
				Distance: t,
				Normal:   Normal(f, p, cfg.NormalEpsilon),
				Albedo:   res.Albedo,
				Specular: res.Specular,
				ID:       res.ID,
			}
		}
		t += res.Distance
		if t >= tmax {
			break
		}
	}
	return Trace{State: StateMiss, Steps: steps, Distance: t, ID: IDBackground}
}
