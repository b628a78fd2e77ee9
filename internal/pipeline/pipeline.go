// Package pipeline wires the core stages of spec.md §5 together:
// Sample Source -> DSP front end -> Correlator -> Slicer -> Framer ->
// Sonde Interpreter -> Sink, as one strictly single-threaded,
// cooperative loop whose only suspension point is the blocking sample
// read.
package pipeline

import (
	"github.com/rs1729go/sondedecode/internal/correlator"
	"github.com/rs1729go/sondedecode/internal/dsp"
	"github.com/rs1729go/sondedecode/internal/errs"
	"github.com/rs1729go/sondedecode/internal/framer"
	"github.com/rs1729go/sondedecode/internal/header"
	"github.com/rs1729go/sondedecode/internal/logx"
	"github.com/rs1729go/sondedecode/internal/sample"
	"github.com/rs1729go/sondedecode/internal/sink"
	"github.com/rs1729go/sondedecode/internal/slicer"
	"github.com/rs1729go/sondedecode/internal/sonde"
)

// Options configures one pipeline run; it is the resolved subset of
// internal/config.Config the core actually consumes, kept separate so
// internal/pipeline never imports the flags package.
type Options struct {
	Threshold   float64
	MaxBitErrs  int
	BitOffset   int
	K           int // correlator scan stride
	DCTrack     bool
	UseLUT      bool
	MixFreq     float64
	IFCutoff    float64
	TransBW     float64
	FMLowPass   bool
	FMCutoff    float64
}

// Pipeline owns every stage for one sonde family's decode run, per
// spec.md §3's ownership rules (DSP State lives for the whole run;
// no two components mutate the same buffer).
type Pipeline struct {
	src      sample.Source
	state    *dsp.State
	corr     *correlator.Correlator
	tracker  *correlator.CarrierTracker
	hdr      *header.Descriptor
	slCfg    slicer.Config
	frCfg    framer.Config
	interp   sonde.Interpreter
	sink     sink.Writer
	opts     Options
	lastPos  uint32
	sps      int
}

// New builds a pipeline for the named sonde family reading from src.
func New(src sample.Source, family string, hdrBits []int, sps int, opts Options, w sink.Writer) (*Pipeline, error) {
	interp, err := sonde.Lookup(family)
	if err != nil {
		return nil, err
	}

	hdr := header.New(hdrBits, sps, 0.5)
	state := dsp.NewState(src.SampleRate(), len(hdrBits), sps, opts.IFCutoff, opts.TransBW, opts.MixFreq, opts.UseLUT, opts.DCTrack)
	if opts.FMLowPass {
		state.SetFMLowPass(float64(src.SampleRate()), opts.FMCutoff, opts.TransBW)
	}

	corr := correlator.New(hdr, opts.K, opts.DCTrack)
	tracker := correlator.NewCarrierTracker(float64(src.SampleRate()))

	frCfg := interp.FrameConfig()
	slCfg := slicer.Config{SamplesPerBit: sps, SymLen: 1, Central: 0, SpikeFilter: false}
	if frCfg.Manchester {
		slCfg.SymLen = 2
	}

	return &Pipeline{
		src: src, state: state, corr: corr, tracker: tracker, hdr: hdr,
		slCfg: slCfg, frCfg: frCfg, interp: interp, sink: w, opts: opts,
		sps: sps,
	}, nil
}

// Run drives the pipeline to completion, per spec.md §5: it
// terminates cleanly when the Sample Source returns Eof, and every
// frame reported to the sink corresponds to a monotonically
// non-decreasing mv_pos.
func (p *Pipeline) Run() error {
	for {
		val, err := p.src.NextSample()
		if err != nil {
			if errs.Is(err, errs.KindIoEnd) {
				return nil
			}
			return err
		}

		if p.src.IsComplex() {
			p.state.PushIQ(val.IQ)
		} else {
			p.state.PushReal(val.Real)
		}

		if !p.corr.Feed() {
			continue
		}

		hit, err := p.corr.Scan(p.state.Real, p.state.SampleOut, p.opts.Threshold, p.opts.MaxBitErrs, p.opts.BitOffset)
		if err != nil {
			logx.Stage(logx.ClassDebug, "correlator", "no header hit", "err", err)
			continue
		}
		if hit.Position < p.lastPos {
			// spec.md §5's monotonic mv_pos guarantee; stale hit, ignore.
			continue
		}
		p.lastPos = hit.Position

		logx.Stage(logx.ClassRec, "correlator", "header hit", "pos", hit.Position, "score", hit.Score)

		if p.src.IsComplex() {
			dDf := p.tracker.Estimate(p.state.Energy.Mean())
			applied := p.tracker.Correct(p.state.IQ, p.state.SampleIn-1, p.sps, dDf)
			p.state.SetLocked(p.tracker.Locked(dDf))
			logx.Stage(logx.ClassDebug, "carrier", "tracked", "dDf", dDf, "applied", applied, "locked", p.state.Locked)
		}

		if err := p.decodeFrame(hit); err != nil {
			logx.Stage(logx.ClassDebug, "frame", "decode skipped", "err", err)
		}
	}
}

func (p *Pipeline) decodeFrame(hit correlator.Hit) error {
	hdrEnd := hit.Position + uint32(p.hdr.Len*p.hdr.SamplesPerBit)
	// BitFrameLen already counts decoded output bits; the slicer's
	// SymLen=2 Manchester path consumes 2*sps samples per decoded bit
	// internally, so nSymbols is the decoded bit count directly.
	nSymbols := p.frCfg.BitFrameLen

	// The slicer's SymLen=2 path already performs the Manchester
	// decode (two sub-symbol integrations combined into one hard bit),
	// so the framer stage packs those decoded bits directly without
	// re-running DeManchester.
	packCfg := p.frCfg
	packCfg.Manchester = false

	bits := slicer.SliceFromRing(p.state.Real, hdrEnd, p.slCfg, nSymbols)
	collector := framer.NewCollector(packCfg)
	var scores []float64
	for _, sb := range bits {
		scores = append(scores, sb.Soft)
		collector.Push(sb)
	}

	frame := framer.BuildFrame(packCfg, collector.Bits())
	frameLen := p.frCfg.FrameLength(frame)
	if frameLen > 0 && frameLen < len(frame) {
		frame = frame[:frameLen]
	}

	rec, err := p.interp.Interpret(frame, scores)
	if err != nil {
		logx.Stage(logx.ClassError, "frame", "interpreter error", "family", p.interp.Family(), "err", err)
		if !errs.Is(err, errs.KindCrcFail) && !errs.Is(err, errs.KindFecUncorrectable) {
			return err
		}
	}

	logx.Stage(logx.ClassDecoded, "frame", "accepted", "family", rec.Family, "frame", rec.FrameNumber, "id", rec.ID)
	return p.sink.Write(rec)
}
