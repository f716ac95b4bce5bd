package evaluate

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/cwbudde/algo-pitch/internal/cli"
	"github.com/cwbudde/algo-pitch/internal/corpus"
	"github.com/cwbudde/algo-pitch/internal/wavio"
)

// FileResult is the comparison of one recording.
type FileResult struct {
	Reference string
	Test      string
	Stats     Stats
}

// Run compares the tracks of every entry. It stops at the first unreadable
// or misaligned pair.
func Run(entries []corpus.Entry) ([]FileResult, Summary, error) {
	var (
		results []FileResult
		sum     Summary
	)

	for _, e := range entries {
		refPath, testPath := e.ReferencePath(), e.TrackPath()

		ref, err := wavio.ReadF0(refPath)
		if err != nil {
			return results, sum, fmt.Errorf("%w: %w", ErrReference, err)
		}
		test, err := wavio.ReadF0(testPath)
		if err != nil {
			return results, sum, fmt.Errorf("%w: %w", ErrTrack, err)
		}

		ref, test, err = Align(ref, test)
		if err != nil {
			return results, sum, fmt.Errorf("%s: %w", e.Name, err)
		}

		st := Compare(ref, test)
		sum.Add(st)
		results = append(results, FileResult{Reference: refPath, Test: testPath, Stats: st})
	}

	return results, sum, nil
}

// WriteReport renders per-file results, and a summary when more than one
// file was compared.
func WriteReport(w io.Writer, results []FileResult, sum Summary) {
	for _, r := range results {
		cli.FprintTitle(w, fmt.Sprintf("### Compare %s and %s", r.Reference, r.Test))
		writeStats(w, r.Stats)
		cli.FprintRule(w)
	}

	if sum.Files > 1 {
		cli.FprintTitle(w, "### Summary")
		writeStats(w, sum.Stats)
		cli.FprintRule(w)
	}
}

func writeStats(w io.Writer, s Stats) {
	cli.FprintKV(w, "Num. frames:", fmt.Sprintf("%d = %d unvoiced + %d voiced", s.Frames, s.Unvoiced, s.Voiced))
	cli.FprintKV(w, "Unvoiced frames as voiced:",
		fmt.Sprintf("%d/%d (%s%%)", s.UnvoicedAsVoiced, s.Unvoiced, percent(s.UnvoicedAsVoicedRate())))
	cli.FprintKV(w, "Voiced frames as unvoiced:",
		fmt.Sprintf("%d/%d (%s%%)", s.VoicedAsUnvoiced, s.Voiced, percent(s.VoicedAsUnvoicedRate())))
	cli.FprintKV(w, fmt.Sprintf("Gross voiced errors (+%g%%):", 100*GrossThreshold),
		fmt.Sprintf("%d/%d (%s%%)", s.GrossErrors, s.VoicedVoiced, percent(s.GrossErrorRate())))
	cli.FprintKV(w, "MSE of fine errors:", percent(s.FineError)+"%")
}

// percent formats a fraction as a percentage with two significant digits.
func percent(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return strconv.FormatFloat(100*v, 'g', 2, 64)
}
