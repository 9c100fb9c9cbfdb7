package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"

	"github.com/alitto/pond"
	"github.com/urfave/cli/v2"

	fmask "github.com/sixy6e/go-fmask"
	"github.com/sixy6e/go-fmask/potentialcloud"
	"github.com/sixy6e/go-fmask/search"
)

// classifyScene handles the end-to-end classification of a single scene:
// open, run the six-pass potential-cloud classifier, summarise, and write
// the masks and statistics out.
func classifyScene(sceneUri, configUri, outdirUri string, inMemory bool, cloudProbThreshold float64, verbose bool, workers int) error {
	log.Println("Processing scene:", sceneUri)
	src, err := fmask.OpenScene(sceneUri, configUri, inMemory)
	if err != nil {
		return err
	}
	defer src.Close()

	log.Println("Running potential-cloud classification")
	result, err := potentialcloud.Classify(src, float32(cloudProbThreshold), verbose, workers)
	if err != nil {
		return err
	}

	stats := fmask.Summarize(result.PixelMask, result.ConfMask)
	log.Printf("Clear: %.2f%% Cloud: %.2f%% Shadow: %.2f%% Snow: %.2f%% Water: %.2f%%",
		stats.ClearPct, stats.CloudPct, stats.ShadowPct, stats.SnowPct, stats.WaterPct)

	if outdirUri == "" {
		outdirUri = sceneUri
	}
	_, file := filepath.Split(sceneUri)

	log.Println("Writing statistics")
	statsUri := filepath.Join(outdirUri, file+"-statistics.json")
	if _, err := fmask.WriteJson(statsUri, configUri, stats); err != nil {
		return err
	}

	log.Println("Writing masks")
	store := fmask.NewStore(configUri)
	maskUri := filepath.Join(outdirUri, file+"-masks.tiledb")
	if err := store.WriteMasks(maskUri, src.Metadata.Size.L, src.Metadata.Size.S, result.PixelMask, result.ConfMask); err != nil {
		return err
	}
	if err := store.WriteStatistics(maskUri, stats); err != nil {
		return err
	}

	log.Println("Finished scene:", sceneUri)

	return nil
}

// classifySceneList submits every scene found under uri to a processing
// pool that classifies each scene concurrently, 2*n_CPUs workers deep.
func classifySceneList(uri, configUri, outdirUri string, inMemory bool, cloudProbThreshold float64, verbose bool) error {
	log.Println("Searching uri:", uri)
	items, err := search.FindScenes(uri, configUri)
	if err != nil {
		return err
	}
	log.Println("Number of scenes to process:", len(items))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	n := runtime.NumCPU() * 2
	pool := pond.New(n, 0, pond.MinWorkers(n), pond.Context(ctx))
	defer pool.StopAndWait()

	for _, name := range items {
		sceneUri := name
		pool.Submit(func() {
			// each scene already gets its own pool slot here, so rows within
			// a scene run sequentially rather than competing for the same cores.
			if err := classifyScene(sceneUri, configUri, outdirUri, inMemory, cloudProbThreshold, verbose, 1); err != nil {
				log.Println("Error processing scene:", sceneUri, err)
			}
		})
	}

	return nil
}

func main() {
	app := &cli.App{
		Commands: []*cli.Command{
			{
				Name: "classify",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "scene-uri",
						Usage: "URI or pathname to a scene directory.",
					},
					&cli.StringFlag{
						Name:  "config-uri",
						Usage: "URI or pathname to a TileDB config file.",
					},
					&cli.StringFlag{
						Name:  "outdir-uri",
						Usage: "URI or pathname to an output directory.",
					},
					&cli.BoolFlag{
						Name:  "in-memory",
						Usage: "Read each band's full raster into memory before processing.",
					},
					&cli.Float64Flag{
						Name:  "cloud-prob-threshold",
						Usage: "Offset added to the 82.5th percentile cloud probability threshold.",
						Value: 22.5,
					},
					&cli.BoolFlag{
						Name:  "verbose",
						Usage: "Log intermediate scene statistics for each pass.",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Row-level concurrency for Pass 1 and Pass 3. 1 runs sequentially.",
						Value: 1,
					},
				},
				Action: func(cCtx *cli.Context) error {
					return classifyScene(
						cCtx.String("scene-uri"),
						cCtx.String("config-uri"),
						cCtx.String("outdir-uri"),
						cCtx.Bool("in-memory"),
						cCtx.Float64("cloud-prob-threshold"),
						cCtx.Bool("verbose"),
						cCtx.Int("workers"),
					)
				},
			},
			{
				Name: "classify-trawl",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "uri",
						Usage: "URI or pathname to a directory containing scene directories.",
					},
					&cli.StringFlag{
						Name:  "config-uri",
						Usage: "URI or pathname to a TileDB config file.",
					},
					&cli.StringFlag{
						Name:  "outdir-uri",
						Usage: "URI or pathname to an output directory.",
					},
					&cli.BoolFlag{
						Name:  "in-memory",
						Usage: "Read each band's full raster into memory before processing.",
					},
					&cli.Float64Flag{
						Name:  "cloud-prob-threshold",
						Usage: "Offset added to the 82.5th percentile cloud probability threshold.",
						Value: 22.5,
					},
					&cli.BoolFlag{
						Name:  "verbose",
						Usage: "Log intermediate scene statistics for each pass.",
					},
				},
				Action: func(cCtx *cli.Context) error {
					return classifySceneList(
						cCtx.String("uri"),
						cCtx.String("config-uri"),
						cCtx.String("outdir-uri"),
						cCtx.Bool("in-memory"),
						cCtx.Float64("cloud-prob-threshold"),
						cCtx.Bool("verbose"),
					)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
