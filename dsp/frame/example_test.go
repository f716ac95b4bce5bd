package frame_test

import (
	"fmt"

	"github.com/cwbudde/algo-pitch/dsp/frame"
)

func ExampleSegmenter_Count() {
	seg, err := frame.NewSegmenter(frame.DefaultConfig(), 16000)
	if err != nil {
		panic(err)
	}

	// One second of audio.
	fmt.Println(seg.Count(16000))
	// Output:
	// 67
}

func ExamplePreprocess() {
	out, err := frame.Preprocess([]float64{1, 3, 5, 3})
	if err != nil {
		panic(err)
	}

	fmt.Println(out)
	// Output:
	// [-1 0 1 0]
}
