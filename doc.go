// SPDX-License-Identifier: EPL-2.0

/*
Package mixdown renders spatial audio tracks into channel or object
output files in one synchronous pass.

Export is the whole surface: it resolves the target layout, picks the
output format, decodes the input, configures the render engine and
streams every tick into the sink, reporting progress along the way.

	opts := mixdown.ProcessingOptions{
		InputPath:  "scene.osf",
		OutputPath: "mix.wav",
		Layout:     "5.1",
		Format:     "wav",
	}
	err := mixdown.Export(opts, func(percent int) {
		fmt.Printf("Progress: %d%%\n", percent)
	}, nil)

Inputs are picked by file extension from the decoders in
DefaultDecoders; outputs by format tag from DefaultSinks. The heavy
lifting lives in the subpackages: layout resolves speaker sets, render
drives the engine and the export loops, sinks serializes the result.
*/
package mixdown
