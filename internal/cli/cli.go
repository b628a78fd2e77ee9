// Package cli holds the shared command-line entry point used by
// cmd/sondedecode and each thin per-family wrapper binary
// (cmd/rs41, cmd/dfm09, ...), mirroring the teacher's pattern of
// small main.go files over a shared library.
package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/rs1729go/sondedecode/internal/config"
	"github.com/rs1729go/sondedecode/internal/errs"
	"github.com/rs1729go/sondedecode/internal/logx"
	"github.com/rs1729go/sondedecode/internal/pipeline"
	"github.com/rs1729go/sondedecode/internal/radio"
	"github.com/rs1729go/sondedecode/internal/sample"
	"github.com/rs1729go/sondedecode/internal/sink"
	"github.com/rs1729go/sondedecode/internal/sonde"
)

// Run parses args, builds the pipeline for defaultFamily (overridable
// with `-f NAME`), and runs it to completion, returning the process
// exit code per spec.md §6 (0 on clean EOF, -1 on fatal error).
func Run(defaultFamily string, args []string) int {
	family, rest := extractFamily(args)

	cfg, err := config.Parse(rest)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return -1
	}
	cfg.Family = family
	if cfg.Family == "" {
		cfg.Family = defaultFamily
	}

	if cfg.RawHex {
		return runRawHex(cfg)
	}

	src, closeSrc, err := buildSource(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return -1
	}
	defer closeSrc()

	w, err := buildSink(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return -1
	}

	if cfg.RigModel != "" {
		model, err := strconv.Atoi(cfg.RigModel)
		if err == nil {
			_, err = radio.OpenHamlibTuner(model, cfg.RigDevice)
		}
		if err != nil {
			logx.Stage(logx.ClassError, "radio", "hamlib tune skipped", "err", err)
		}
	}

	profile, ok := pipeline.FamilyProfiles[cfg.Family]
	if !ok {
		fmt.Fprintf(os.Stderr, "config: unknown sonde family %q\n", cfg.Family)
		return -1
	}

	sps := int(float64(src.SampleRate()) / profile.BaudRate)
	if sps < 1 {
		fmt.Fprintln(os.Stderr, "config: sample rate too low for this family's baud rate")
		return -1
	}

	opts := pipeline.Options{
		Threshold:  cfg.Threshold,
		MaxBitErrs: maxBitErrs(cfg),
		BitOffset:  cfg.BitOffset,
		K:          1,
		DCTrack:    cfg.DCTrack,
		UseLUT:     true,
		MixFreq:    cfg.IQFreq * float64(src.SampleRate()),
		IFCutoff:   cfg.LowPassBW * 1000,
		TransBW:    4000,
		FMLowPass:  cfg.LowPassFM,
		FMCutoff:   cfg.LowPassBW * 1000,
	}

	p, err := pipeline.New(src, cfg.Family, profile.Header, sps, opts, w)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return -1
	}

	fmt.Fprintf(os.Stderr, "sondedecode: family=%s rate=%d sps=%d ths=%.2f\n",
		cfg.Family, src.SampleRate(), sps, cfg.Threshold)

	if err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return -1
	}
	return 0
}

// extractFamily pulls a leading "-f NAME" override out of args before
// the rest of the flag set is parsed, since config.Parse doesn't
// itself know about sonde families.
func extractFamily(args []string) (string, []string) {
	out := make([]string, 0, len(args))
	family := ""
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "-f" && i+1 < len(args) {
			family = args[i+1]
			i++
			continue
		}
		out = append(out, a)
	}
	return family, out
}

func maxBitErrs(cfg *config.Config) int {
	switch {
	case cfg.ECC4:
		return 4
	case cfg.ECC3:
		return 3
	case cfg.ECC2:
		return 2
	case cfg.ECC:
		return 1
	default:
		return 0
	}
}

func buildSource(cfg *config.Config) (sample.Source, func() error, error) {
	noop := func() error { return nil }

	if cfg.AudioDevice != "" {
		src, err := radio.OpenPortAudioSource(cfg.AudioDevice, cfg.HeadlessSampleRate, cfg.Mode != config.ModeFM)
		if err != nil {
			return nil, noop, err
		}
		return src, src.Close, nil
	}

	if cfg.SoftIn {
		r, closeFn, err := openInput(cfg.InputPath)
		if err != nil {
			return nil, noop, err
		}
		return sample.NewSoftBitSource(r, cfg.HeadlessSampleRate, cfg.SoftInInv), closeFn, nil
	}

	r, closeFn, err := openInput(cfg.InputPath)
	if err != nil {
		return nil, noop, err
	}

	complexMode := cfg.Mode != config.ModeFM
	if src, err := sample.NewWAVSource(r, 0, complexMode); err == nil {
		return src, closeFn, nil
	}

	format := headlessFormat(cfg.HeadlessBitsPerSample)
	channels := 1
	if complexMode {
		channels = 2
	}
	return sample.NewPCMSource(r, cfg.HeadlessSampleRate, format, channels, 0, complexMode), closeFn, nil
}

func headlessFormat(bitsPerSample int) sample.Format {
	switch bitsPerSample {
	case 8:
		return sample.FormatU8
	case 32:
		return sample.FormatF32LE
	default:
		return sample.FormatI16LE
	}
}

func openInput(path string) (*os.File, func() error, error) {
	if path == "" || path == "-" {
		if err := sample.SetBinaryStdin(); err != nil {
			logx.Stage(logx.ClassDebug, "stdin", "binary-mode setup failed", "err", err)
		}
		return os.Stdin, func() error { return nil }, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, func() error { return nil }, errs.Wrap(errs.KindConfig, "opening input file", err)
	}
	return f, f.Close, nil
}

func buildSink(cfg *config.Config) (sink.Writer, error) {
	var writers []sink.Writer

	if cfg.JSON {
		writers = append(writers, sink.NewJSONWriter(os.Stdout))
	} else {
		tw, err := sink.NewTextWriter(os.Stdout, "")
		if err != nil {
			return nil, err
		}
		writers = append(writers, tw)
	}

	if cfg.DNSSD {
		if _, err := sink.NewDNSSDAnnouncer("sondedecode", 0); err != nil {
			logx.Stage(logx.ClassError, "dns-sd", "announce failed", "err", err)
		}
	}

	return sink.NewMultiWriter(writers...), nil
}

// runRawHex bypasses the DSP/correlator/slicer/framer stages entirely,
// per spec.md §6's `--rawhex`: each stdin line is a pre-decoded frame,
// optionally de-whitened with `--xorhex`, interpreted directly.
func runRawHex(cfg *config.Config) int {
	interp, err := sonde.Lookup(cfg.Family)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return -1
	}

	r, closeFn, err := openInput(cfg.InputPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return -1
	}
	defer closeFn()

	w, err := buildSink(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return -1
	}

	reader := sample.NewRawHexReader(r)
	for {
		frame, err := reader.Next()
		if err != nil {
			if errs.Is(err, errs.KindIoEnd) {
				return 0
			}
			fmt.Fprintln(os.Stderr, err)
			return -1
		}
		if cfg.XorHex != "" {
			frame, err = sample.XorHex(frame, cfg.XorHex)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				continue
			}
		}
		rec, err := interp.Interpret(frame, nil)
		if err != nil && !errs.Is(err, errs.KindCrcFail) && !errs.Is(err, errs.KindFecUncorrectable) {
			logx.Stage(logx.ClassError, "rawhex", "interpreter error", "err", err)
			continue
		}
		if err := w.Write(rec); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return -1
		}
	}
}
