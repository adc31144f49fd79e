// replay прогоняет записанную историю через свежего бота окнами снапшотов,
// как это делал бы коллектор, и печатает статистику по стратегиям.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	bootstrap "signal_bot/internal/modules/bootstrap/service"
	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/strategy/service"
	"signal_bot/internal/runner"
	"signal_bot/pkg/logger"
)

const defaultConfigName = "replay"

type options struct {
	HistoryFile     string
	Window          int
	Reverse         bool
	Mode            string
	ConfluenceWhite int
	ConfluenceColor int
	Risk            string
	Source          string
	Seed            int64
	OutCSV          string
}

func readOptions(path string) (options, error) {
	v := viper.New()
	v.SetDefault("window", 20)
	v.SetDefault("mode", "CORES")
	v.SetDefault("confluence_white", 2)
	v.SetDefault("confluence_color", 2)
	v.SetDefault("risk", "conservador")
	v.SetDefault("source", "confluence")
	v.SetDefault("seed", 1)
	v.SetEnvPrefix("REPLAY")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(defaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("configs")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return options{}, errors.Wrap(err, "read replay config")
		}
	}

	o := options{
		HistoryFile:     v.GetString("history_file"),
		Window:          v.GetInt("window"),
		Reverse:         v.GetBool("reverse"),
		Mode:            v.GetString("mode"),
		ConfluenceWhite: v.GetInt("confluence_white"),
		ConfluenceColor: v.GetInt("confluence_color"),
		Risk:            v.GetString("risk"),
		Source:          v.GetString("source"),
		Seed:            v.GetInt64("seed"),
		OutCSV:          v.GetString("out_csv"),
	}
	if o.HistoryFile == "" {
		return options{}, errors.New("history_file is required")
	}
	if o.Window < 1 {
		return options{}, errors.Errorf("window must be positive, got %d", o.Window)
	}
	return o, nil
}

func replay(ctx context.Context, o options) (*runner.Bot, error) {
	outcomes, err := bootstrap.LoadHistory(o.HistoryFile)
	if err != nil {
		return nil, errors.Wrap(err, "load history")
	}
	if len(outcomes) == 0 {
		return nil, errors.Errorf("%s: no valid outcomes", o.HistoryFile)
	}

	cfg := config.Default()
	cfg.Strategy.Source = o.Source
	cfg.Bot.StartOn = true
	cfg.Bot.Mode = o.Mode
	cfg.Bot.ConfluenceWhite = o.ConfluenceWhite
	cfg.Bot.ConfluenceColor = o.ConfluenceColor
	cfg.Bot.Risk = o.Risk
	cfg.Feed.Source = "replay"
	// в прогоне время не идёт, пауза гварда только мешает
	cfg.Guard.LossStreak = 0

	src := service.NewSourceWithRand(&cfg, rand.New(rand.NewSource(o.Seed)))
	bot := runner.NewBot(&cfg, src)

	for i := 1; i <= len(outcomes); i++ {
		snap := slices.Clone(outcomes[max(0, i-o.Window):i])
		if o.Reverse {
			slices.Reverse(snap)
		}
		bot.IngestSnapshot(ctx, snap)
	}
	return bot, nil
}

func writeCSV(bot *runner.Bot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create csv")
	}
	if err := bot.ExportCSV(f); err != nil {
		_ = f.Close()
		return errors.Wrap(err, "write csv")
	}
	return errors.Wrap(f.Close(), "close csv")
}

func printStats(bot *runner.Bot) {
	v := bot.State()
	w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
	fmt.Fprintf(w, "rounds\t%d\n", v.RoundID)
	fmt.Fprintf(w, "signals\t%d\n", len(bot.Signals()))
	fmt.Fprintf(w, "winrate\t%.3f\n\n", v.Regime.Winrate)
	fmt.Fprintln(w, "STRATEGY\tENTRIES\tWIN\tLOSS\tACC%\tP&L")
	for _, s := range v.Stats {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%.1f\t%s\n", s.Strategy, s.Entries, s.Win, s.Loss, s.Acc, s.PL.StringFixed(2))
	}
	_ = w.Flush()
}

func main() {
	cfgPath := flag.String("config", "", "path to replay yaml (default: ./replay.yaml or ./configs/replay.yaml)")
	flag.Parse()

	if _, err := logger.Init(logger.Config{Level: "warn"}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	o, err := readOptions(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "replay: %+v\n", err)
		os.Exit(1)
	}
	bot, err := replay(context.Background(), o)
	if err != nil {
		fmt.Fprintf(os.Stderr, "replay: %+v\n", err)
		os.Exit(1)
	}

	printStats(bot)
	if o.OutCSV != "" {
		if err := writeCSV(bot, o.OutCSV); err != nil {
			fmt.Fprintf(os.Stderr, "replay: %+v\n", err)
			os.Exit(1)
		}
	}
}
