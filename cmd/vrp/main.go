// Command vrp plans routes for a load catalog file and prints one route per line.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"loadplan/internal/buildinfo"
	"loadplan/internal/catalog"
	"loadplan/internal/config"
	"loadplan/internal/opt"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.SetFlags(0)
		log.Fatalf("vrp: %v", err)
	}
}

type jsonOutput struct {
	Routes         [][]int        `json:"routes"`
	Order          []int          `json:"order"`
	Cost           float64        `json:"cost"`
	TotalRouteCost float64        `json:"totalRouteCost"`
	Overflow       int            `json:"overflowCount"`
	Generations    int            `json:"generations"`
	Evaluations    int            `json:"evaluations"`
	Seed           int64          `json:"seed"`
	Snapshots      []opt.Snapshot `json:"snapshots,omitempty"`
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("vrp", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath   = fs.String("config", "", "YAML solver config file")
		seed         = fs.Int64("seed", 0, "random seed (0 = time-seeded)")
		generations  = fs.Int("generations", 0, "number of generations")
		population   = fs.Int("population", 0, "population size")
		mutationRate = fs.Float64("mutation-rate", 0, "per-gene swap probability")
		maxRouteTime = fs.Float64("max-route-time", 0, "route time budget")
		stats        = fs.Bool("stats", false, "print a cost summary to stderr")
		asJSON       = fs.Bool("json", false, "print the solution as JSON")
		version      = fs.Bool("version", false, "print version and exit")
	)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: vrp [flags] <catalog file>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *version {
		info := buildinfo.Info()
		fmt.Fprintf(stdout, "vrp %s %s %s\n", info["version"], info["commit"], info["builtAt"])
		return nil
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("expected exactly one catalog file, got %d", fs.NArg())
	}

	config.LoadDotenv()
	cfg, err := config.Solver(*configPath)
	if err != nil {
		return err
	}
	// explicit flags win over file and environment
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			cfg.Seed = *seed
		case "generations":
			cfg.Generations = *generations
		case "population":
			cfg.PopulationSize = *population
		case "mutation-rate":
			cfg.MutationRate = *mutationRate
		case "max-route-time":
			cfg.MaxRouteTime = *maxRouteTime
		}
	})
	if cfg.Seed == 0 {
		cfg.Seed = opt.NewRand(0).Int63()
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	loads, err := catalog.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	sol, m, err := opt.Solve(ctx, loads, cfg)
	if err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(jsonOutput{
			Routes:         sol.RouteIDs(),
			Order:          sol.Order.IDs(),
			Cost:           sol.Cost,
			TotalRouteCost: sol.TotalRouteCost(),
			Overflow:       sol.OverflowCount(cfg.MaxRouteTime),
			Generations:    m.Generations,
			Evaluations:    m.Evaluations,
			Seed:           cfg.Seed,
			Snapshots:      m.Snapshots,
		})
	}
	for _, r := range sol.RouteIDs() {
		fmt.Fprintln(stdout, formatRoute(r))
	}
	if *stats {
		fmt.Fprintf(stderr, "seed=%d generations=%d evaluations=%d initial_cost=%.3f best_cost=%.3f routes=%d route_cost=%.3f overflow=%d dur=%dms\n",
			cfg.Seed, m.Generations, m.Evaluations, m.InitialCost, m.BestCost,
			len(sol.Routes), sol.TotalRouteCost(), sol.OverflowCount(cfg.MaxRouteTime), m.Duration.Milliseconds())
	}
	return nil
}

// formatRoute renders ids as [1,2,3].
func formatRoute(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
