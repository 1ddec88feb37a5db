package climatecontroller

import (
	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/homenode/internal/model"
)

// Deadband is the tolerance in degrees on either side of the target.
const Deadband float64 = 1

// Off is the de-energized output pair, also used as the fallback when the
// temperature cannot be read.
var Off = model.ClimateOutputs{}

// ComputeOutputs returns the heat/cool relay outputs for the climate unit.
//
// Inside the deadband (boundaries included) both outputs are asserted. This
// mirrors the behavior of the firmware this node replaced and is pending
// product confirmation; see DESIGN.md.
func ComputeOutputs(armed bool, target float64, current float64) model.ClimateOutputs {
	if !armed {
		return Off
	}

	var (
		coolAbove = target + Deadband
		heatBelow = target - Deadband
	)

	log.Debug().
		Float64("target", target).
		Float64("temp", current).
		Float64("cool_above", coolAbove).
		Float64("heat_below", heatBelow).
		Msg("Evaluating climate thresholds")

	if current > coolAbove {
		return model.ClimateOutputs{Heat: false, Cool: true}
	}
	if current < heatBelow {
		return model.ClimateOutputs{Heat: true, Cool: false}
	}
	return model.ClimateOutputs{Heat: true, Cool: true}
}
