// Command eventbook-report prints the dashboard report for a date range as
// JSON, reading the same backend as the server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"eventbook/internal/backend"
	"eventbook/internal/cli"
	"eventbook/internal/config"
	"eventbook/internal/daterange"
	"eventbook/internal/log"
	"eventbook/internal/services"
)

func main() {
	preset := flag.String("preset", string(daterange.AllTime), "date range preset (last30days, last90days, thisMonth, lastMonth, thisYear, allTime, custom)")
	start := flag.String("start", "", "custom range start, YYYY-MM-DD")
	end := flag.String("end", "", "custom range end, YYYY-MM-DD")
	from := flag.String("from", "", "compare months from YYYY-MM (requires -to)")
	to := flag.String("to", "", "compare months to YYYY-MM (requires -from)")
	flag.Parse()

	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(cli.SetupLogger(nil))
	// Logs go to stderr so stdout stays valid JSON.
	lc := log.DefaultConfig()
	lc.Level = cfg.Level()
	lc.Output = os.Stderr
	lc.Component = log.ComponentReport
	logger := log.New(lc)
	log.SetDefault(logger)

	if err := run(cfg, logger, *preset, *start, *end, *from, *to); err != nil {
		logger.Error("Report failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *log.Logger, preset, start, end, from, to string) error {
	p, ok := daterange.ParsePreset(preset)
	if !ok {
		return fmt.Errorf("%w: %q", daterange.ErrUnknownPreset, preset)
	}
	q := daterange.Query{Preset: p, CustomStart: start, CustomEnd: end}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	backendCfg, err := backend.FromAppConfig(cfg, cli.InstanceSource())
	if err != nil {
		return err
	}
	// A one-shot report never joins the change feed.
	backendCfg.AMQPURL = ""
	res, err := backend.NewFactory(logger.WithComponent(log.ComponentBackend).Logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		return err
	}
	defer res.Close()

	dashboard := services.NewDashboardService(res.Store, res.Store,
		services.WithClock(func() time.Time { return time.Now().In(cfg.Location()) }),
		services.WithLogger(logger))

	var out any
	if from != "" || to != "" {
		out, err = dashboard.Compare(ctx, q, from, to)
	} else {
		out, err = dashboard.Report(ctx, q)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
