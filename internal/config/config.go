// Package config assembles solver and server settings from .env, an optional
// YAML file and VRP_* environment variables, in that order of precedence
// (later wins).
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"loadplan/internal/catalog"
	"loadplan/internal/opt"
)

// Server holds the HTTP service settings.
type Server struct {
	Port               string
	DatabaseURL        string
	RedisURL           string
	RateRPS            float64
	RateBurst          int
	SolveTimeout       time.Duration
	WebhookMaxAttempts int
	// Upper bounds on request solver settings; 0 disables the check.
	MaxPopulation  int
	MaxGenerations int
}

// File is the YAML document shape. Only the solver section is read.
type File struct {
	Solver opt.Config `yaml:"solver"`
}

// LoadDotenv loads .env into the process environment when present.
func LoadDotenv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}
}

// Solver returns the solver configuration: defaults, then the YAML file at path
// (or VRP_CONFIG when path is empty), then VRP_* overrides. The result is validated.
func Solver(path string) (opt.Config, error) {
	cfg := opt.DefaultConfig()
	if path == "" {
		path = os.Getenv("VRP_CONFIG")
	}
	if path != "" {
		if err := mergeFile(&cfg, path); err != nil {
			return opt.Config{}, err
		}
	}
	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return opt.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return opt.Config{}, fmt.Errorf("solver config: %w", err)
	}
	return cfg, nil
}

func mergeFile(cfg *opt.Config, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	f := File{Solver: *cfg}
	if err := yaml.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	*cfg = f.Solver
	return nil
}

// ApplyEnv overrides cfg fields from VRP_* variables found by lookup.
func ApplyEnv(cfg *opt.Config, lookup func(string) (string, bool)) error {
	ints := []struct {
		key string
		dst *int
	}{
		{"VRP_POPULATION_SIZE", &cfg.PopulationSize},
		{"VRP_GENERATIONS", &cfg.Generations},
		{"VRP_ELITE_COUNT", &cfg.EliteCount},
		{"VRP_TOURNAMENT_POOL_SIZE", &cfg.TournamentPoolSize},
		{"VRP_WORKERS", &cfg.Workers},
		{"VRP_POLISH_ITERATIONS", &cfg.PolishIterations},
	}
	for _, e := range ints {
		if v, ok := lookup(e.key); ok && strings.TrimSpace(v) != "" {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%s=%q: %w", e.key, v, opt.ErrInvalidConfiguration)
			}
			*e.dst = n
		}
	}
	floats := []struct {
		key string
		dst *float64
	}{
		{"VRP_MUTATION_RATE", &cfg.MutationRate},
		{"VRP_MAX_ROUTE_TIME", &cfg.MaxRouteTime},
	}
	for _, e := range floats {
		if v, ok := lookup(e.key); ok && strings.TrimSpace(v) != "" {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return fmt.Errorf("%s=%q: %w", e.key, v, opt.ErrInvalidConfiguration)
			}
			*e.dst = f
		}
	}
	if v, ok := lookup("VRP_SEED"); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("VRP_SEED=%q: %w", v, opt.ErrInvalidConfiguration)
		}
		cfg.Seed = n
	}
	if v, ok := lookup("VRP_DEPOT"); ok && strings.TrimSpace(v) != "" {
		p, err := catalog.ParsePoint(v)
		if err != nil {
			return fmt.Errorf("VRP_DEPOT=%q: %w", v, opt.ErrInvalidConfiguration)
		}
		cfg.Depot = p
	}
	return nil
}

// ServerFromEnv reads the HTTP service settings.
func ServerFromEnv() Server {
	return Server{
		Port:               Get("PORT", "8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisURL:           os.Getenv("REDIS_URL"),
		RateRPS:            GetFloat("RATE_RPS", 5),
		RateBurst:          GetInt("RATE_BURST", 10),
		SolveTimeout:       GetDuration("SOLVE_TIMEOUT", 60*time.Second),
		WebhookMaxAttempts: GetInt("WEBHOOK_MAX_ATTEMPTS", 8),
		MaxPopulation:      GetInt("MAX_POPULATION", 5000),
		MaxGenerations:     GetInt("MAX_GENERATIONS", 20000),
	}
}

// Get returns the trimmed value of key, or def when unset or blank.
func Get(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func GetInt(key string, def int) int {
	if n, err := strconv.Atoi(Get(key, "")); err == nil {
		return n
	}
	return def
}

func GetFloat(key string, def float64) float64 {
	if f, err := strconv.ParseFloat(Get(key, ""), 64); err == nil {
		return f
	}
	return def
}

func GetDuration(key string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(Get(key, "")); err == nil {
		return d
	}
	return def
}
