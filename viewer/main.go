package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-weekend-raytracer/viewer/ui"
)

func main() {
	var job ui.Job
	flag.StringVar(&job.Scene, "scene", "default", "Scene selected at startup")
	flag.IntVar(&job.Width, "width", 400, "Image width in pixels (0 = scene default)")
	flag.IntVar(&job.Samples, "samples", 10, "Samples per pixel (0 = scene default)")
	flag.IntVar(&job.Depth, "depth", 0, "Maximum ray bounces (0 = scene default)")
	flag.Int64Var(&job.Seed, "seed", 0, "Random seed (0 = scene default)")
	flag.Parse()

	if err := ui.Run(job); err != nil {
		log.Printf("Viewer error: %v", err)
		os.Exit(1)
	}
}
