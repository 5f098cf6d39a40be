// config.go
package main

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the runtime settings of the dashboard.
type Config struct {
	Port        string
	Mode        string
	DataPath    string
	SchemaPath  string
	CORSOrigins []string
	Trees       int
	Seed        int64

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// LoadConfig reads the environment and then lets command-line flags
// override it.
func LoadConfig(fs *flag.FlagSet, args []string) (*Config, *CLI, error) {
	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		Mode:         getEnv("GIN_MODE", "release"),
		DataPath:     getEnv("DATA_PATH", "data/data.csv"),
		SchemaPath:   getEnv("SCHEMA_PATH", "data/schema.json"),
		CORSOrigins:  splitList(getEnv("CORS_ORIGINS", "*")),
		Trees:        getEnvInt("ANALYSIS_TREES", 200),
		Seed:         int64(getEnvInt("ANALYSIS_SEED", 42)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	cli := &CLI{}
	fs.StringVar(&cfg.Port, "port", cfg.Port, "HTTP port")
	fs.StringVar(&cfg.DataPath, "data", cfg.DataPath, "dataset file (.csv or .xlsx)")
	fs.StringVar(&cfg.SchemaPath, "schema", cfg.SchemaPath, "schema descriptor (JSON)")
	fs.IntVar(&cfg.Trees, "trees", cfg.Trees, "number of trees in the feature analysis forest")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed of the feature analysis forest")
	fs.BoolVar(&cli.Discover, "discover", false, "print a schema descriptor for -data and exit")
	fs.BoolVar(&cli.Analyze, "analyze", false, "run the feature analysis on -data and exit")
	fs.BoolVar(&cli.JSON, "json", false, "print the -analyze report as JSON")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return cfg, cli, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
