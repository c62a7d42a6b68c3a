package sand

import (
	"strconv"

	"sandfall/internal/core"
	"sandfall/pkg/sandbox"
)

func (w *World) Parameters() core.ParameterSnapshot {
	cfg := w.sb.Config()
	census := w.sb.Census()
	counts := make([]core.Parameter, 0, len(census))
	for _, k := range sandbox.Kinds() {
		if k == sandbox.KindEmpty {
			continue
		}
		counts = append(counts, intParam("count_"+k.String(), k.String(), census[k]))
	}
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				intParam("w", "Width", w.sb.Width()),
				intParam("h", "Height", w.sb.Height()),
				int64Param("seed", "Seed", cfg.Seed),
				stringParam("motion", "Motion", cfg.Motion.String()),
				stringParam("scenario", "Scenario", w.scenarioName()),
			},
		},
		{
			Name: "Physics",
			Params: []core.Parameter{
				floatParam("gravity", "Gravity", float64(cfg.Gravity)),
				floatParam("max_velocity", "Max velocity", float64(cfg.MaxVelocity)),
				floatParam("depletion", "Depletion threshold", float64(cfg.DepletionThreshold)),
			},
		},
		{Name: "Census", Params: counts},
	}}
}

func (w *World) scenarioName() string {
	if w.sc == nil {
		return "-"
	}
	return w.sc.Name
}

// ParameterControls lists the physics tunables adjustable from the HUD.
func (w *World) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "gravity", Label: "Gravity", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, Max: 2, HasMin: true, HasMax: true},
		{Key: "max_velocity", Label: "Max velocity", Type: core.ParamTypeFloat, Step: 1, Min: 1, Max: 32, HasMin: true, HasMax: true},
		{Key: "depletion", Label: "Depletion threshold", Type: core.ParamTypeFloat, Step: 0.01, Min: 0, Max: 1, HasMin: true, HasMax: true},
	}
}

// SetFloatParameter updates a physics tunable in place.
func (w *World) SetFloatParameter(key string, value float64) bool {
	for _, ctrl := range w.ParameterControls() {
		if ctrl.Key != key {
			continue
		}
		v := float32(ctrl.Clamp(value))
		switch key {
		case "gravity":
			w.sb.SetGravity(v)
			w.cfg.Engine.Gravity = v
		case "max_velocity":
			w.sb.SetMaxVelocity(v)
			w.cfg.Engine.MaxVelocity = v
		case "depletion":
			w.sb.SetDepletionThreshold(v)
			w.cfg.Engine.DepletionThreshold = v
		}
		return true
	}
	return false
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeInt, Value: strconv.Itoa(value)}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeInt, Value: strconv.FormatInt(value, 10)}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeFloat, Value: strconv.FormatFloat(value, 'f', -1, 32)}
}

func stringParam(key, label, value string) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeString, Value: value}
}
