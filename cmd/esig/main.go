package main

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"github.com/cwbudde/algo-esig/dsp/core"
	"github.com/cwbudde/algo-esig/dsp/signal"
	"github.com/cwbudde/algo-esig/esig"
	"github.com/cwbudde/algo-esig/internal/audio"
	"github.com/cwbudde/algo-esig/internal/cli"
	"github.com/cwbudde/algo-esig/plot"
)

// version is set via ldflags at build time.
var version = "dev"

type segmenterFlags struct {
	Extent     float64 `help:"Max deviation from event average in cents" default:"40"`
	Inaccuracy float64 `help:"Smoothed drift bound as fraction of extent" default:"0.5"`
	MinEvent   float64 `help:"Minimum event length in seconds" default:"0.1"`
}

func (f segmenterFlags) options() []esig.Option {
	return []esig.Option{
		esig.WithMaxVibratoExtent(f.Extent),
		esig.WithMaxVibratoInaccuracy(f.Inaccuracy),
		esig.WithMinEventLength(f.MinEvent),
	}
}

type ShiftCmd struct {
	Input  string `arg:"" help:"Input audio file (wav, mp3 or flac)"`
	Output string `arg:"" help:"Output WAV file"`

	Factor float64 `help:"Pitch shift factor (2.0 = up an octave)" required:""`
	Start  int     `help:"First contour frame to shift" default:"0"`
	End    int     `help:"One past the last contour frame (0 = full length)" default:"0"`
	Plot   string  `help:"Write a contour plot PNG to this path"`

	segmenterFlags
}

func (c *ShiftCmd) Run() error {
	started := time.Now()

	buf, err := audio.ReadFile(c.Input)
	if err != nil {
		return err
	}
	cli.PrintInfo("Input", fmt.Sprintf("%s (%.1fs, %d ch, %.0f Hz)",
		c.Input, buf.Duration(), buf.Channels, buf.SampleRate))

	e, err := esig.New(buf, c.options()...)
	if err != nil {
		return err
	}

	p, err := e.PitchPlot()
	if err != nil {
		return err
	}
	end := c.End
	if end == 0 {
		end = len(p.Pitch)
	}

	if err := e.ChangePitch(c.Start, end, c.Factor); err != nil {
		return err
	}
	if err := audio.WriteWAV(c.Output, e.Signal()); err != nil {
		return err
	}

	if c.Plot != "" {
		shifted, err := e.PitchPlot()
		if err != nil {
			return err
		}
		if err := plot.WritePNG(c.Plot, shifted); err != nil {
			return err
		}
		cli.PrintInfo("Plot", c.Plot)
	}

	cli.PrintSuccess(fmt.Sprintf("Shifted [%d, %d) by %.3fx into %s (%s)",
		c.Start, end, c.Factor, c.Output, cli.FormatDuration(time.Since(started))))
	return nil
}

type EventsCmd struct {
	Input string `arg:"" help:"Input audio file (wav, mp3 or flac)"`
	Plot  string `help:"Write a contour plot PNG to this path"`

	segmenterFlags
}

func (c *EventsCmd) Run() error {
	buf, err := audio.ReadFile(c.Input)
	if err != nil {
		return err
	}

	e, err := esig.New(buf, c.options()...)
	if err != nil {
		return err
	}
	p, err := e.PitchPlot()
	if err != nil {
		return err
	}

	cli.PrintSection(fmt.Sprintf("%d events in %s", len(p.Events), c.Input))
	for i, ev := range p.Events {
		avg := esig.MeanPitch(p.Pitch, ev)
		cli.PrintInfo(fmt.Sprintf("  %2d", i),
			fmt.Sprintf("frames [%4d, %4d)  %6.2fs .. %6.2fs  avg %7.1f Hz (%s)",
				ev.Start, ev.End,
				float64(ev.Start)/p.PitchRate, float64(ev.End)/p.PitchRate,
				avg, noteName(avg)))
	}

	if c.Plot != "" {
		if err := plot.WritePNG(c.Plot, p); err != nil {
			return err
		}
		cli.PrintInfo("Plot", c.Plot)
	}
	return nil
}

var noteNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// noteName returns the nearest equal-tempered note, e.g. "A3" for 220 Hz.
func noteName(hz float64) string {
	midi := core.HzToMidi(hz)
	if math.IsNaN(midi) {
		return "-"
	}

	n := int(math.Round(midi))
	if n < 0 {
		return "-"
	}
	return fmt.Sprintf("%s%d", noteNames[n%12], n/12-1)
}

type SynthCmd struct {
	Output string `arg:"" help:"Output WAV file"`

	Freq     float64 `help:"Carrier frequency in Hz" default:"220"`
	Duration float64 `help:"Duration in seconds" default:"2"`
	Rate     float64 `help:"Sample rate in Hz" default:"44100"`

	VibratoCents float64 `help:"Vibrato extent in cents (0 = steady tone)" default:"0"`
	VibratoRate  float64 `help:"Vibrato rate in Hz" default:"5"`

	Noise float64 `help:"White-noise floor amplitude mixed into the tone" default:"0"`
	Seed  int64   `help:"Noise generator seed" default:"1"`
}

func (c *SynthCmd) Run() error {
	gen := signal.NewGenerator(core.WithSampleRate(c.Rate))
	samples := int(c.Duration * c.Rate)

	var buf signal.Buffer
	var err error
	if c.VibratoCents > 0 {
		buf, err = gen.VibratoSine(c.Freq, 0.8, c.VibratoRate, c.VibratoCents, samples)
	} else {
		buf, err = gen.Sine(c.Freq, 0.8, samples)
	}
	if err != nil {
		return err
	}

	if c.Noise > 0 {
		ngen := signal.NewGeneratorWithOptions(
			[]core.ProcessorOption{core.WithSampleRate(c.Rate)},
			signal.WithSeed(c.Seed))
		noise, err := ngen.WhiteNoise(c.Noise, samples)
		if err != nil {
			return err
		}
		for i := range buf.Data {
			buf.Data[i] += noise.Data[i]
		}
	}

	if err := audio.WriteWAV(c.Output, buf); err != nil {
		return err
	}
	cli.PrintSuccess(fmt.Sprintf("Wrote %.1fs test tone to %s", c.Duration, c.Output))
	return nil
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(cli.TitleStyle.Render("esig"))
	cli.PrintInfo("Version", version)
	return nil
}

var CLI struct {
	Shift   ShiftCmd   `cmd:"" help:"Pitch-shift a contour range and write the result"`
	Events  EventsCmd  `cmd:"" help:"Detect and list pitch events"`
	Synth   SynthCmd   `cmd:"" help:"Generate a test tone WAV"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("esig"),
		kong.Description("Non-destructive pitch editing for audio signals."),
		kong.UsageOnError(),
	)

	if err := ctx.Run(); err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
}
