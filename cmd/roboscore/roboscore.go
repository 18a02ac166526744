package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/akamensky/argparse"
	"github.com/bmharper/cimg/v2"
	"github.com/cyclopcam/logs"
	"github.com/evanwboyle/roboscore/pkg/annotation"
	"github.com/evanwboyle/roboscore/pkg/balls"
	"github.com/evanwboyle/roboscore/pkg/counts"
	"github.com/evanwboyle/roboscore/pkg/field"
	"github.com/evanwboyle/roboscore/pkg/gen"
	"github.com/evanwboyle/roboscore/pkg/nn"
	"github.com/evanwboyle/roboscore/pkg/track"
	"github.com/evanwboyle/roboscore/server"
	"github.com/evanwboyle/roboscore/server/pipeline"
)

func check(err error) {
	if err != nil {
		panic(err)
	}
}

func main() {
	parser := argparse.NewParser("roboscore", "Score balls in robotics goal images")

	scoreCmd := parser.NewCommand("score", "Score still images")
	scoreInputs := scoreCmd.StringList("i", "input", &argparse.Options{Help: "Image file(s) to score", Required: true})
	scorePipe := scoreCmd.Selector("p", "pipe", []string{"long", "short"}, &argparse.Options{Help: "Goal pipe type", Default: "long"})
	redThreshold := scoreCmd.Int("", "red", &argparse.Options{Help: "Red classifier threshold override", Default: 0})
	blueThreshold := scoreCmd.Int("", "blue", &argparse.Options{Help: "Blue classifier threshold override", Default: 0})
	whiteThreshold := scoreCmd.Int("", "white", &argparse.Options{Help: "White classifier threshold override", Default: 0})
	annotatedDir := scoreCmd.String("a", "annotated", &argparse.Options{Help: "Write annotated JPEGs into this directory", Default: ""})

	serveCmd := parser.NewCommand("serve", "Run the scoring HTTP service")
	servePort := serveCmd.String("", "port", &argparse.Options{Help: "Listen address", Default: ":8080"})
	serveAnnotation := serveCmd.String("", "annotation", &argparse.Options{Help: "Field annotation JSON file", Default: ""})
	serveModelConfig := serveCmd.String("", "model-config", &argparse.Options{Help: "Detector model config JSON, checked for the goal leg class", Default: ""})

	err := parser.Parse(os.Args)
	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	logger, _ := logs.NewLog()

	switch {
	case scoreCmd.Happened():
		pipe := balls.PipeLong
		if *scorePipe == "short" {
			pipe = balls.PipeShort
		}
		params := balls.DefaultParams(pipe)
		if *redThreshold > 0 {
			params.Thresholds.Red = float32(*redThreshold)
		}
		if *blueThreshold > 0 {
			params.Thresholds.Blue = float32(*blueThreshold)
		}
		if *whiteThreshold > 0 {
			params.Thresholds.White = float32(*whiteThreshold)
		}
		runScore(logger, *scoreInputs, params, *annotatedDir)
	case serveCmd.Happened():
		runServe(logger, *servePort, *serveAnnotation, *serveModelConfig)
	}
}

func runScore(logger logs.Log, inputs []string, params balls.Params, annotatedDir string) {
	detector := balls.NewDetector(params)
	nChecked := 0
	totalDelta := 0

	for _, input := range inputs {
		img, err := cimg.ReadFile(input)
		if err != nil {
			logger.Errorf("Failed to read %v: %v", input, err)
			continue
		}
		result := detector.Detect(img)
		total := result.Counts.Total()
		fmt.Printf("%v: red %v, blue %v (middle %v/%v, outside %v/%v)\n",
			filepath.Base(input), total.Red, total.Blue,
			result.Counts.Middle.Red, result.Counts.Middle.Blue,
			result.Counts.Outside.Red, result.Counts.Outside.Blue)

		// Filenames like "3B_2R.jpg" carry the hand-counted truth
		if expected, ok := parseExpectedCounts(input); ok {
			delta := gen.Abs(total.Red-expected.Red) + gen.Abs(total.Blue-expected.Blue)
			fmt.Printf("  expected red %v, blue %v (delta %v)\n", expected.Red, expected.Blue, delta)
			nChecked++
			totalDelta += delta
		}

		if annotatedDir != "" {
			annotated := balls.RenderAnnotated(&result)
			jpg, err := cimg.Compress(annotated, cimg.MakeCompressParams(cimg.Sampling420, 85, 0))
			check(err)
			outFile := filepath.Join(annotatedDir, filepath.Base(input)+".annotated.jpg")
			check(os.WriteFile(outFile, jpg, 0644))
		}
	}

	if nChecked > 0 {
		fmt.Printf("%v labelled images, total miscount %v\n", nChecked, totalDelta)
	}
}

func runServe(logger logs.Log, port, annotationFile, modelConfigFile string) {
	// Preflight the detector model config, so a model missing the goal leg
	// class is caught at startup rather than showing up as an empty field
	if modelConfigFile != "" {
		modelConfig, err := nn.LoadModelConfig(modelConfigFile)
		check(err)
		if modelConfig.ClassIndex(pipeline.LegClassName) == -1 {
			logger.Warnf("Model %v has no %q class (classes: %v); leg tracking will see no detections",
				modelConfigFile, pipeline.LegClassName, modelConfig.Classes)
		}
	}

	fieldConfig := field.Config{}
	if annotationFile != "" {
		ann, err := annotation.Load(annotationFile)
		if err != nil {
			// Live detection works without a reference; only segment mapping degrades
			logger.Warnf("Running without field annotation: %v", err)
		} else {
			fieldConfig = ann.FieldConfig()
		}
	}

	// The object detector is platform-provided (eg CoreML on iOS). This
	// service scores still uploads and republishes whatever a platform
	// frontend feeds into the session.
	session := pipeline.NewSession(logger, nil, track.NewCentroidTracker(100), fieldConfig)
	session.Start()
	defer session.Close()

	srv := server.NewServer(logger, session)
	if err := srv.SetupHTTP(port); err != nil {
		logger.Errorf("HTTP server failed: %v", err)
		os.Exit(1)
	}
}

var expectedCountsRe = regexp.MustCompile(`(\d+)B_(\d+)R`)

// parseExpectedCounts reads the "<blue>B_<red>R" convention out of a filename
func parseExpectedCounts(filename string) (counts.ColorCount, bool) {
	m := expectedCountsRe.FindStringSubmatch(filepath.Base(filename))
	if m == nil {
		return counts.ColorCount{}, false
	}
	blue, _ := strconv.Atoi(m[1])
	red, _ := strconv.Atoi(m[2])
	return counts.ColorCount{Red: red, Blue: blue}, true
}
