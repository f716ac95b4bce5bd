// Command getpitch estimates f0 for every recording named in a list file.
//
// Usage:
//
//	getpitch [flags] FILELIST
//
// For each basename in FILELIST it reads <data-dir>/<name>.wav and writes
// one estimate per frame to <data-dir>/<name>.f0 (0 = unvoiced). The method
// name is written to algorithm.info next to the first recording.
//
// Examples:
//
//	getpitch -m autocorrelation train.gui
//	getpitch -w 30 -f 10 -d corpus --workers 8 train.gui
//	getpitch --config pitch.yaml -m cepstrum --seed 7 train.gui
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/cwbudde/algo-pitch/internal/batch"
	"github.com/cwbudde/algo-pitch/internal/cli"
	"github.com/cwbudde/algo-pitch/internal/config"
	"github.com/cwbudde/algo-pitch/internal/corpus"
)

// CLI defines the command-line interface. Flag names match the YAML keys of
// the configuration file with '-' for '_'.
type CLI struct {
	Config kong.ConfigFlag `short:"c" help:"YAML configuration file; its values become flag defaults."`

	WindowLength  float64 `short:"w" name:"window-length" default:"32" help:"Window length (ms)."`
	FrameShift    float64 `short:"f" name:"frame-shift" default:"15" help:"Frame shift (ms)."`
	Padding       float64 `short:"p" default:"16" help:"Zero padding at both ends (ms)."`
	DataDir       string  `short:"d" name:"data-dir" default:"data" help:"Data folder."`
	Method        string  `short:"m" default:"amdf" help:"Pitch detection method: autocorrelation, amdf (mdf) or cepstrum."`
	VoicingPolicy string  `name:"voicing-policy" aliases:"policy" default:"correlation" help:"Voicing rule for amdf and cepstrum: correlation or energy."`
	Workers       int     `default:"0" help:"Recordings analysed in parallel (0 = GOMAXPROCS)."`
	Seed          uint64  `default:"0" help:"Base seed for cepstrum dither."`
	LogLevel      string  `name:"log-level" default:"info" help:"Log level: debug, info, warn or error."`

	FileList string `arg:"" name:"filelist" type:"existingfile" help:"File with one recording basename per line."`
}

func (c *CLI) settings() config.Config {
	return config.Config{
		WindowLength:  c.WindowLength,
		FrameShift:    c.FrameShift,
		Padding:       c.Padding,
		DataDir:       c.DataDir,
		Method:        c.Method,
		VoicingPolicy: c.VoicingPolicy,
		Workers:       c.Workers,
		Seed:          c.Seed,
		LogLevel:      config.LogLevel(c.LogLevel),
	}
}

func main() {
	cliArgs := &CLI{}
	kong.Parse(cliArgs,
		kong.Name("getpitch"),
		kong.Description("Frame-wise fundamental frequency estimation for WAV corpora."),
		kong.UsageOnError(),
		kong.Configuration(config.YAMLResolver),
	)

	if err := run(cliArgs); err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
}

func run(c *CLI) error {
	cfg := c.settings()
	if err := config.Validate(&cfg); err != nil {
		return fmt.Errorf("invalid configuration:\n%w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel.SlogLevel()}))

	runner, err := batch.NewRunner(cfg, batch.WithLogger(logger))
	if err != nil {
		return err
	}

	entries, err := corpus.ReadList(c.FileList, cfg.DataDir)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := runner.Run(ctx, entries)
	if err != nil {
		return err
	}

	var faults int
	for _, rec := range report.Recordings {
		faults += rec.Faults
	}

	out := os.Stdout
	cli.FprintTitle(out, "getpitch "+report.Method.String())
	cli.FprintKV(out, "Recordings:", fmt.Sprint(len(report.Recordings)))
	cli.FprintKV(out, "Frames:", fmt.Sprint(report.Frames()))
	if faults > 0 {
		cli.FprintKV(out, "Frame faults:", fmt.Sprint(faults))
	}
	cli.FprintKV(out, "Marker:", report.Marker)
	cli.FprintKV(out, "Run ID:", report.RunID)

	return nil
}
