package conv_test

import (
	"fmt"

	"github.com/cwbudde/algo-pitch/dsp/conv"
)

func ExampleAutoCorrelateOneSided() {
	corr, err := conv.AutoCorrelateOneSided([]float64{1, -1, 1, -1, 1, -1})
	if err != nil {
		panic(err)
	}

	fmt.Println(corr)
	// Output:
	// [6 -5 4 -3 2 -1]
}

func ExampleFirstRise() {
	corr := []float64{6, 1, -2, 0.5, 3, 1}
	rmin := conv.FirstRise(corr)
	peak, _ := conv.FindPeakFrom(corr, rmin)

	fmt.Println(rmin, peak)
	// Output:
	// 2 4
}
