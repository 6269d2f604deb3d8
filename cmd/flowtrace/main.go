package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/flowtrace/flowtrace/internal/config"
	"github.com/flowtrace/flowtrace/internal/logutil"
	"github.com/flowtrace/flowtrace/internal/render"
	"github.com/flowtrace/flowtrace/internal/tracker"
)

var version = "dev"

func fatal(a ...interface{}) {
	fmt.Fprintln(os.Stderr, a...)
	os.Exit(1)
}

func main() {
	logutil.ConfigureLogger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	flagparser := flags.NewParser(&opts, flags.PassDoubleDash|flags.PrintErrors)
	flagparser.Usage = "[OPTIONS] GRAPH"
	args, err := flagparser.Parse()
	if err != nil {
		os.Exit(1)
	}

	if opts.Version {
		fmt.Println("flowtrace version", version)
		os.Exit(0)
	}
	if opts.Help || len(args) != 1 {
		flagparser.WriteHelp(os.Stdout)
		os.Exit(0)
	}
	if opts.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg, err := loadConfig()
	if err != nil {
		fatal("reading configuration:", err)
	}
	if opts.Strict {
		cfg.StrictLoad = true
	}

	ctx := context.Background()
	t := tracker.New(cfg, nil, log.Logger)
	if err := t.Load(ctx, args[0]); err != nil {
		fatal(err)
	}

	// flags win over the settings block restored from the export
	cfg = t.Config()
	cfg.VerifyThreshold = opts.Threshold
	t.SetConfig(cfg)

	if opts.Baseline != "" {
		if err := t.ApplyBaselineTimes(ctx, opts.Baseline); err != nil {
			fatal(err)
		}
	}

	if opts.Summary {
		render.WriteTable(os.Stdout, t.Nodes())
	}

	if opts.Dot != "" {
		f, err := os.Create(opts.Dot)
		if err != nil {
			fatal("creating dot output:", err)
		}
		if err := render.WriteDOT(f, t.Nodes(), t.Config()); err != nil {
			fatal("rendering graph:", err)
		}
		if err := f.Close(); err != nil {
			fatal(err)
		}
	}

	if opts.Verify != "" {
		ok, offenders, err := t.Verify(ctx, opts.Verify)
		if err != nil {
			fatal(err)
		}
		for _, d := range offenders {
			log.Warn().
				Str("id", d.ID).
				Float64("baseline", d.Baseline).
				Float64("current", d.Current).
				Float64("deviation", d.Relative).
				Msg("timing drifted beyond threshold")
		}
		if !ok {
			fmt.Println("not verified")
			os.Exit(1)
		}
		fmt.Println("verified")
	}
}

func loadConfig() (config.Config, error) {
	if opts.Config != "" {
		return config.Load(opts.Config)
	}
	return config.FromEnv()
}
