// Command fabrik-plot solves the legs of a rig file against a sweep of targets
// and plots end-effector distance per relaxation pass, once with backward-only
// clamping and once with forward clamping, to compare convergence.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"github.com/dustin/go-humanize"
	"github.com/phanxgames/fabrik"
	"github.com/remeh/sizedwaitgroup"
)

// Config holds command-line configuration.
type Config struct {
	RigFile    string
	OutputDir  string
	Targets    int
	Iterations int
	Workers    int
	Verbose    bool
}

func parseFlags() Config {
	var cfg Config
	flag.StringVar(&cfg.RigFile, "rig", fabrik.DefaultRigPath, "Rig JSON file")
	flag.StringVar(&cfg.OutputDir, "out", "plots", "Output directory for PNG files")
	flag.IntVar(&cfg.Targets, "targets", 12, "Number of targets swept around each leg's rest end effector")
	flag.IntVar(&cfg.Iterations, "iterations", 0, "Relaxation budget (0 uses the rig's)")
	flag.IntVar(&cfg.Workers, "workers", runtime.NumCPU(), "Legs plotted concurrently")
	flag.BoolVar(&cfg.Verbose, "v", false, "Log per-solve solver stats")
	flag.Parse()
	return cfg
}

func main() {
	cfg := parseFlags()

	rig, err := fabrik.LoadRigConfig(cfg.RigFile)
	if err != nil {
		log.Fatalf("load rig: %v", err)
	}
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		log.Fatalf("create output directory: %v", err)
	}

	files, err := run(rig, cfg)
	if err != nil {
		log.Fatal(err)
	}
	var total int64
	for _, f := range files {
		if info, err := os.Stat(f); err == nil {
			total += info.Size()
		}
	}
	log.Printf("wrote %d plots (%s) to %s", len(files), humanize.Bytes(uint64(total)), cfg.OutputDir)
}

// run writes two plots per leg of rig and returns the files written. Legs are
// plotted concurrently, each worker checking a solver out of a pool.
func run(rig *fabrik.RigConfig, cfg Config) ([]string, error) {
	legs, err := rig.BuildLegs()
	if err != nil {
		return nil, fmt.Errorf("build legs: %w", err)
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	pool := fabrik.NewSolverPool(cfg.Verbose)

	files := make([][]string, len(legs))
	errs := make([]error, len(legs))
	wg := sizedwaitgroup.New(workers)
	for i, leg := range legs {
		wg.Add()
		go func(i int, leg *fabrik.Leg) {
			defer wg.Done()
			s := pool.Get()
			defer pool.Put(s)
			files[i], errs[i] = plotLeg(leg, s, cfg)
		}(i, leg)
	}
	wg.Wait()

	var out []string
	for i := range legs {
		if errs[i] != nil {
			return out, errs[i]
		}
		out = append(out, files[i]...)
	}
	return out, nil
}

// plotLeg writes the backward and forward clamping plots of one leg.
func plotLeg(leg *fabrik.Leg, s *fabrik.Solver, cfg Config) ([]string, error) {
	defer leg.Reset()
	if cfg.Iterations > 0 {
		leg.Options.Iterations = cfg.Iterations
	}
	targets := sweepTargets(leg, cfg.Targets)

	var files []string
	for _, forward := range []bool{false, true} {
		leg.Options.ConstrainForward = forward
		curves, err := convergenceCurves(leg, s, targets)
		if err != nil {
			return files, fmt.Errorf("leg %q: %w", leg.Name, err)
		}
		mode := "backward"
		if forward {
			mode = "forward"
		}
		title := fmt.Sprintf("%s - %s clamping", leg.Name, mode)
		file := filepath.Join(cfg.OutputDir, fmt.Sprintf("%s_%s.png", leg.Name, mode))
		if err := savePlot(title, curves, file); err != nil {
			return files, err
		}
		files = append(files, file)
	}
	return files, nil
}
