package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/eonlabs/eonparse/internal/httpserver"
	"github.com/eonlabs/eonparse/internal/pipeline"
)

// Build variables - set by ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	var (
		configPath  string
		showVersion bool
		serve       bool
		queryText   string
		dirPath     string
	)

	flag.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/eonparse/config.yml)")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.BoolVar(&serve, "serve", false, "start the HTTP API instead of a one-shot analysis")
	flag.StringVar(&queryText, "query", "", "free-text search query")
	flag.StringVar(&dirPath, "dir", "", "ingest every log file in a directory")
	flag.Parse()

	if showVersion {
		fmt.Printf("eonparse - Log Analysis Pipeline\n")
		fmt.Printf("  Version: %s\n", version)
		fmt.Printf("  Commit:  %s\n", commit)
		return
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)

	session := pipeline.NewSession(pipeline.Options{
		DownsampleThreshold: cfg.DownsampleThreshold,
		DefaultResultsLimit: cfg.ResultsLimit,
		Parallel:            cfg.Parallel,
	}, log)

	if err := ingestInputs(session, dirPath, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if serve {
		if err := runServer(cfg, session, log); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if session.FileCount() == 0 {
		fmt.Fprintln(os.Stderr, "Error: no input files (pass file paths, -dir, or \"-\" for stdin)")
		os.Exit(1)
	}

	result := session.SearchText(queryText, time.Now().UTC())
	out, err := json.MarshalIndent(searchOutput(result), "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func ingestInputs(session *pipeline.Session, dirPath string, files []string) error {
	if dirPath != "" {
		if _, err := session.IngestDir(dirPath); err != nil {
			return err
		}
	}
	for _, path := range files {
		if path == "-" {
			if _, err := session.IngestReader("stdin", os.Stdin); err != nil {
				return err
			}
			continue
		}
		if _, err := session.IngestFile(path); err != nil {
			return err
		}
	}
	return nil
}

func searchOutput(result *pipeline.Result) map[string]any {
	rows := result.Rows()
	records := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		rec := make(map[string]any, len(row))
		for k, v := range row {
			rec[k] = v.Native()
		}
		records = append(records, rec)
	}
	return map[string]any{
		"spec":          result.Spec,
		"summary":       result.Summary,
		"visualization": result.Visualization,
		"rows":          records,
	}
}

func runServer(cfg appConfig, session *pipeline.Session, log zerolog.Logger) error {
	srv := httpserver.NewServer(cfg.APIAddr, session, log)
	if err := srv.Start(); err != nil {
		return err
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")
	return srv.Stop()
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).
		With().Timestamp().Logger()
}

func loadConfig(configPath string) (appConfig, error) {
	var cfg appConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("EONPARSE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("downsample-threshold", defaultDownsampleThreshold())
	v.SetDefault("results-limit", defaultResultsLimit)
	v.SetDefault("parallel", true)
	v.SetDefault("api-port", defaultAPIPort)
	v.SetDefault("log-level", defaultLogLevel)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(home, ".config", "eonparse", "config.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	cfg.ConfigPath = v.ConfigFileUsed()

	if cfg.APIPort <= 0 || cfg.APIPort > 65535 {
		return cfg, fmt.Errorf("invalid api-port: %d", cfg.APIPort)
	}
	if cfg.APIAddr == "" {
		cfg.APIAddr = net.JoinHostPort(defaultBindHost, strconv.Itoa(cfg.APIPort))
	}

	return cfg, nil
}
