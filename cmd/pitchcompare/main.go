// Command pitchcompare scores pitch tracks against reference tracks.
//
// Usage:
//
//	pitchcompare [flags] FILELIST
//
// For each basename in FILELIST it compares <data-dir>/<name>.f0ref with
// <data-dir>/<name>.f0 and reports voicing confusions, gross errors (more
// than 20 % off) and the RMS of the remaining relative errors. A summary
// follows when more than one file is compared.
//
// Exit status: 1 for an unreadable file list, 2 for an unreadable reference
// track, 3 for an unreadable estimated track and 4 when the frame counts
// differ by more than five.
package main

import (
	"errors"
	"os"

	"github.com/alecthomas/kong"

	"github.com/cwbudde/algo-pitch/internal/cli"
	"github.com/cwbudde/algo-pitch/internal/corpus"
	"github.com/cwbudde/algo-pitch/internal/evaluate"
)

// CLI defines the command-line interface.
type CLI struct {
	DataDir  string `short:"d" name:"data-dir" default:"data" help:"Folder holding .f0ref and .f0 files."`
	FileList string `arg:"" name:"filelist" type:"existingfile" help:"File with one recording basename per line."`
}

func main() {
	cliArgs := &CLI{}
	kong.Parse(cliArgs,
		kong.Name("pitchcompare"),
		kong.Description("Compare estimated pitch tracks with reference tracks."),
		kong.UsageOnError(),
	)

	entries, err := corpus.ReadList(cliArgs.FileList, cliArgs.DataDir)
	if err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}

	results, summary, err := evaluate.Run(entries)
	if err != nil {
		// Per-file results up to the failure, without a summary.
		evaluate.WriteReport(os.Stdout, results, evaluate.Summary{})
		cli.PrintError(err.Error())
		os.Exit(exitCode(err))
	}
	evaluate.WriteReport(os.Stdout, results, summary)
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, evaluate.ErrTrack):
		return 3
	case errors.Is(err, evaluate.ErrFrameCount):
		return 4
	default:
		return 2
	}
}
