// Package config implements the configuration layer of SPEC_FULL.md
// §4.9: a pflag-based CLI surface matching spec.md §6's normative
// flags exactly, plus an optional YAML defaults file.
package config

import (
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/rs1729go/sondedecode/internal/errs"
)

// Mode selects the demodulation variant spec.md §6's --iq0/2/3 select.
type Mode int

const (
	ModeFM Mode = iota
	ModeIQCorrelate
	ModeIQNoCorrelate
)

// Config is the fully-resolved set of run parameters, built from
// defaults, an optional YAML file, and CLI flags (flags win).
type Config struct {
	Mode Mode

	IQFreq float64 // --IQ <fq>

	LowPass    bool
	LowPassBW  float64 // --lpbw <kHz>
	LowPassIQ  bool
	LowPassFM  bool

	DCTrack bool // --dc

	Threshold  float64 // --ths
	BitOffset  int     // -d <shift>

	ECC  bool // --ecc
	ECC2 bool
	ECC3 bool
	ECC4 bool
	Vit  bool // --vit
	Vit2 bool

	JSON        bool
	JSONConfFreq float64
	JSONSubframe1 bool
	JSONSubframe2 bool

	SoftIn    bool
	SoftInInv bool

	RawHex bool
	XorHex string

	HeadlessSampleRate int
	HeadlessBitsPerSample int

	// SPEC_FULL.md §4.9/§6 additive flags.
	ConfigFile string
	RigModel   string
	RigDevice  string
	GPIOLine   string
	DNSSD      bool
	AudioDevice string

	InputPath string
	Family    string
}

// yamlDefaults mirrors the subset of Config a --config file may
// override, per SPEC_FULL.md §4.9 ("per-sonde-family defaults").
type yamlDefaults struct {
	Threshold float64 `yaml:"threshold"`
	LowPassBW float64 `yaml:"lp_bw_khz"`
	BitOffset int     `yaml:"bit_offset"`
}

// Parse builds a Config from CLI args (spec.md §6's normative flag
// set), applying an optional YAML defaults file first so flags always
// win, per SPEC_FULL.md §4.9.
func Parse(args []string) (*Config, error) {
	fs := pflag.NewFlagSet("sondedecode", pflag.ContinueOnError)

	cfg := &Config{Threshold: 0.7, BitOffset: 0, LowPassBW: 12.0, HeadlessSampleRate: 48000, HeadlessBitsPerSample: 16}

	iq0 := fs.Bool("iq0", false, "FM-demod mode")
	iq2 := fs.Bool("iq2", false, "IQ-FM with correlation")
	iq3 := fs.Bool("iq3", false, "IQ-FM without correlation")
	iqFreq := fs.Float64("IQ", 0, "baseband rotation fraction of sample rate")
	lp := fs.Bool("lp", false, "enable low-pass")
	lpbw := fs.Float64("lpbw", 12.0, "low-pass bandwidth kHz")
	lpIQ := fs.Bool("lpIQ", false, "enable IQ low-pass")
	lpFM := fs.Bool("lpFM", false, "enable FM audio low-pass")
	dc := fs.Bool("dc", false, "enable DC tracking")
	ths := fs.Float64("ths", 0.7, "correlation threshold")
	bitOfs := fs.IntP("d", "d", 0, "bit-offset shift [-4,4]")
	ecc := fs.Bool("ecc", false, "enable FEC level 1")
	ecc2 := fs.Bool("ecc2", false, "enable FEC level 2")
	ecc3 := fs.Bool("ecc3", false, "enable FEC level 3")
	ecc4 := fs.Bool("ecc4", false, "enable FEC level 4")
	vit := fs.Bool("vit", false, "enable Viterbi")
	vit2 := fs.Bool("vit2", false, "enable Viterbi escalated")
	jsonOut := fs.Bool("json", false, "emit JSON records")
	jsnCfq := fs.Float64("jsn_cfq", 0, "JSON carrier-frequency field Hz")
	jsnSub1 := fs.Bool("jsn_subfrm1", false, "include subframe1 in JSON")
	jsnSub2 := fs.Bool("jsn_subfrm2", false, "include subframe2 in JSON")
	softIn := fs.Bool("softin", false, "consume float32 soft-bit stream on stdin")
	softInv := fs.Bool("softinv", false, "invert soft-bit sign on ingestion")
	rawHex := fs.Bool("rawhex", false, "consume pre-decoded hex frames on stdin")
	xorHex := fs.String("xorhex", "", "XOR de-whitening mask (hex) for --rawhex")

	configFile := fs.String("config", "", "YAML defaults file")
	rigModel := fs.String("rig-model", "", "Hamlib rig model number")
	rigDevice := fs.String("rig-device", "", "Hamlib rig device path")
	gpioLine := fs.String("gpio-line", "", "GPIO status line chip:offset")
	dnssd := fs.Bool("dns-sd", false, "announce JSON sink via mDNS/DNS-SD")
	audioDevice := fs.String("audio-device", "", "live portaudio input device name")

	if err := fs.Parse(args); err != nil {
		return nil, errs.Wrap(errs.KindConfig, "flag parse failed", err)
	}

	if *configFile != "" {
		if err := applyYAMLDefaults(cfg, *configFile); err != nil {
			return nil, err
		}
	}

	switch {
	case *iq2:
		cfg.Mode = ModeIQCorrelate
	case *iq3:
		cfg.Mode = ModeIQNoCorrelate
	case *iq0:
		cfg.Mode = ModeFM
	}

	cfg.IQFreq = *iqFreq
	if cfg.IQFreq <= -0.5 || cfg.IQFreq >= 0.5 {
		return nil, errs.New(errs.KindConfig, "--IQ must satisfy -0.5 < fq < 0.5")
	}

	cfg.LowPass = *lp
	if fs.Changed("lpbw") {
		cfg.LowPassBW = *lpbw
	}
	cfg.LowPassIQ = *lpIQ
	cfg.LowPassFM = *lpFM
	cfg.DCTrack = *dc
	if fs.Changed("ths") {
		cfg.Threshold = *ths
	}
	if cfg.Threshold < 0 || cfg.Threshold > 1 {
		return nil, errs.New(errs.KindConfig, "--ths must be in [0,1]")
	}
	if fs.Changed("d") {
		cfg.BitOffset = *bitOfs
	}
	if cfg.BitOffset < -4 || cfg.BitOffset > 4 {
		return nil, errs.New(errs.KindConfig, "-d must be in [-4,4]")
	}
	cfg.ECC, cfg.ECC2, cfg.ECC3, cfg.ECC4 = *ecc, *ecc2, *ecc3, *ecc4
	cfg.Vit, cfg.Vit2 = *vit, *vit2
	cfg.JSON = *jsonOut
	cfg.JSONConfFreq = *jsnCfq
	cfg.JSONSubframe1, cfg.JSONSubframe2 = *jsnSub1, *jsnSub2
	cfg.SoftIn, cfg.SoftInInv = *softIn, *softInv
	cfg.RawHex, cfg.XorHex = *rawHex, *xorHex
	cfg.ConfigFile = *configFile
	cfg.RigModel, cfg.RigDevice = *rigModel, *rigDevice
	cfg.GPIOLine = *gpioLine
	cfg.DNSSD = *dnssd
	cfg.AudioDevice = *audioDevice

	rest := fs.Args()
	if len(rest) >= 1 {
		cfg.InputPath = rest[0]
	}
	if len(rest) >= 3 && rest[0] == "-" {
		cfg.InputPath = "-"
	}

	return cfg, nil
}

func applyYAMLDefaults(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errs.Wrap(errs.KindConfig, "reading --config file", err)
	}
	var y yamlDefaults
	if err := yaml.Unmarshal(data, &y); err != nil {
		return errs.Wrap(errs.KindConfig, "parsing --config YAML", err)
	}
	if y.Threshold != 0 {
		cfg.Threshold = y.Threshold
	}
	if y.LowPassBW != 0 {
		cfg.LowPassBW = y.LowPassBW
	}
	cfg.BitOffset = y.BitOffset
	return nil
}
