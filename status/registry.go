package status

import (
	"log/slog"
	"sync/atomic"
)

// Metric names published by the runtime
const (
	FramesTotal       = "engine.frames"
	FrameOverruns     = "engine.frame_overruns"
	FrameMaxDelta     = "engine.max_dt_ms"
	AssetsResident    = "asset.resident"
	AssetLoads        = "asset.loads"
	AssetRetries      = "asset.retries"
	AssetEvictions    = "asset.evictions"
	SessionLoads      = "session.loads"
	SessionFailures   = "session.load_failures"
	SessionRecovered  = "session.recovered_panics"
	SessionCurrent    = "session.current_game"
	SessionPhase      = "session.phase"
	OutcomePrefix     = "outcome."
	PlaybackRate      = "progress.playback_rate"
	ProgressLives     = "progress.lives"
	ProgressGamesPlay = "progress.games"
	SoundsPlayed      = "audio.sounds_played"
	RecordsWritten    = "store.records"
	RecordsFailed     = "store.record_failures"
)

// Registry is the central metrics facade
// Components cache pointers at construction; frame code writes the atomics directly
type Registry struct {
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Ints.Len() + r.Floats.Len() + r.Strings.Len()
}

// Outcomes returns the outcome counters keyed by result name
func (r *Registry) Outcomes() []slog.Attr {
	return r.Ints.Attrs(OutcomePrefix, intValue)
}

// LogValue implements slog.LogValuer so the registry can be dumped as one attribute group
func (r *Registry) LogValue() slog.Value {
	attrs := r.Ints.Attrs("", intValue)
	attrs = append(attrs, r.Floats.Attrs("", func(v *AtomicFloat) slog.Value {
		return slog.Float64Value(v.Get())
	})...)
	attrs = append(attrs, r.Strings.Attrs("", func(v *AtomicString) slog.Value {
		return slog.StringValue(v.Load())
	})...)
	return slog.GroupValue(attrs...)
}

func intValue(v *atomic.Int64) slog.Value {
	return slog.Int64Value(v.Load())
}

// Or returns r, or a private registry when r is nil
// Lets components treat metrics as optional without nil checks on every write
func Or(r *Registry) *Registry {
	if r == nil {
		return NewRegistry()
	}
	return r
}
