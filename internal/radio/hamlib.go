package radio

import (
	"github.com/xylo04/goHamlib"

	"github.com/rs1729go/sondedecode/internal/errs"
)

// HamlibTuner is a thin client over xylo04/goHamlib (SPEC_FULL.md
// §4.10): OpenHamlibTuner opens a rig by model number, Tune sets its
// frequency and mode, and Close closes it. internal/cli opens a tuner
// when --rig-model is set and calls neither Tune nor Close; with
// --rig-model unset there is no rig interaction.
type HamlibTuner struct {
	rig *hamlib.Rig
}

// OpenHamlibTuner opens the named rig model (Hamlib numeric model ID)
// on the given device path.
func OpenHamlibTuner(model int, device string) (*HamlibTuner, error) {
	rig := hamlib.RigInit(model)
	if rig == nil {
		return nil, errs.New(errs.KindConfig, "hamlib: unknown rig model")
	}
	rig.SetConf("rig_pathname", device)
	if err := rig.Open(); err != nil {
		return nil, errs.Wrap(errs.KindConfig, "hamlib: opening rig", err)
	}
	return &HamlibTuner{rig: rig}, nil
}

// Tune sets the rig frequency (Hz) and, when mode is non-empty, the
// mode.
func (h *HamlibTuner) Tune(freqHz float64, mode string) error {
	if err := h.rig.SetFreq(hamlib.VFOCurrent, freqHz); err != nil {
		return errs.Wrap(errs.KindConfig, "hamlib: set frequency", err)
	}
	if mode != "" {
		if err := h.rig.SetMode(hamlib.VFOCurrent, mode, hamlib.PassbandNormal); err != nil {
			return errs.Wrap(errs.KindConfig, "hamlib: set mode", err)
		}
	}
	return nil
}

// Close closes the rig connection.
func (h *HamlibTuner) Close() error {
	return h.rig.Close()
}
