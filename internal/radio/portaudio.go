// Package radio implements the live-acquisition domain stack of
// SPEC_FULL.md §4.10: a portaudio-backed Sample Source, an optional
// Hamlib rig-tuning client, and an optional GPIO frame-sync status
// line. None of these affect file/stdin-driven runs; they are purely
// additive external collaborators per spec.md §1.
package radio

import (
	"github.com/gordonklaus/portaudio"

	"github.com/rs1729go/sondedecode/internal/dsp"
	"github.com/rs1729go/sondedecode/internal/errs"
	"github.com/rs1729go/sondedecode/internal/sample"
)

// PortAudioSource implements the sample.Source contract (spec.md
// §4.1) reading from a live audio input device via
// gordonklaus/portaudio, for FM-discriminator-audio capture or an
// I/Q-capable sound card's two channels.
type PortAudioSource struct {
	stream     *portaudio.Stream
	sampleRate int
	complex    bool
	buf        []float32
	pos        int
	closed     bool
}

// OpenPortAudioSource opens the named input device (or the default
// device if name is empty) at sampleRate, with 2 channels when
// complex is true (channel 0 = I, channel 1 = Q) or 1 otherwise.
func OpenPortAudioSource(name string, sampleRate int, complex bool) (*PortAudioSource, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, errs.Wrap(errs.KindConfig, "portaudio init failed", err)
	}

	channels := 1
	if complex {
		channels = 2
	}

	dev, err := resolveInputDevice(name)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, err
	}

	const framesPerBuffer = 1024
	src := &PortAudioSource{sampleRate: sampleRate, complex: complex, buf: make([]float32, framesPerBuffer*channels)}

	params := portaudio.LowLatencyParameters(dev, nil)
	params.Input.Channels = channels
	params.SampleRate = float64(sampleRate)
	params.FramesPerBuffer = framesPerBuffer

	stream, err := portaudio.OpenStream(params, src.buf)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, errs.Wrap(errs.KindConfig, "opening portaudio stream", err)
	}
	src.stream = stream

	if err := stream.Start(); err != nil {
		return nil, errs.Wrap(errs.KindConfig, "starting portaudio stream", err)
	}

	return src, nil
}

func resolveInputDevice(name string) (*portaudio.DeviceInfo, error) {
	if name == "" {
		dev, err := portaudio.DefaultInputDevice()
		if err != nil {
			return nil, errs.Wrap(errs.KindConfig, "no default input device", err)
		}
		return dev, nil
	}
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, errs.Wrap(errs.KindConfig, "enumerating audio devices", err)
	}
	for _, d := range devices {
		if d.Name == name && d.MaxInputChannels > 0 {
			return d, nil
		}
	}
	return nil, errs.New(errs.KindConfig, "no input device named "+name)
}

func (p *PortAudioSource) SampleRate() int { return p.sampleRate }
func (p *PortAudioSource) IsComplex() bool { return p.complex }

// NextSample reads one sample (or I/Q pair), refilling the device
// buffer via the stream when exhausted.
func (p *PortAudioSource) NextSample() (sample.Value, error) {
	if p.closed {
		return sample.Value{}, errs.EOF
	}
	channels := 1
	if p.complex {
		channels = 2
	}
	if p.pos >= len(p.buf) {
		if err := p.stream.Read(); err != nil {
			return sample.Value{}, errs.Wrap(errs.KindIoEnd, "portaudio read failed", err)
		}
		p.pos = 0
	}
	var v sample.Value
	if p.complex {
		v.IQ = dsp.Complex{I: float64(p.buf[p.pos]), Q: float64(p.buf[p.pos+1])}
	} else {
		v.Real = float64(p.buf[p.pos])
	}
	p.pos += channels
	return v, nil
}

// Close stops the stream and releases portaudio resources.
func (p *PortAudioSource) Close() error {
	p.closed = true
	if p.stream != nil {
		_ = p.stream.Stop()
		_ = p.stream.Close()
	}
	return portaudio.Terminate()
}
