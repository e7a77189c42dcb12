package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fsnotify/fsnotify"

	"github.com/robinvdvleuten/flex2ledger/compile"
	"github.com/robinvdvleuten/flex2ledger/config"
	"github.com/robinvdvleuten/flex2ledger/flex"
	"github.com/robinvdvleuten/flex2ledger/hledger"
	"github.com/robinvdvleuten/flex2ledger/telemetry"
)

type ConvertCmd struct {
	FlexFile string `help:"Flex statement XML filename." arg:"" type:"existingfile"`
	Config   string `help:"Configuration filename." required:"" type:"existingfile"`
	Output   string `help:"Write ledger output to a file instead of stdout." short:"o" type:"path"`

	NewOnly                   bool `help:"Drop records at or before the newest transaction already in hledger."`
	IgnoreDepositsWithdrawals bool `help:"Skip Deposits/Withdrawals cash transactions."`
	Watch                     bool `help:"Re-run the conversion when the statement or config changes (requires --output)."`

	// temporal is the cutoff source for --new-only; tests inject a fake.
	temporal compile.TemporalSource
}

func (cmd *ConvertCmd) Run(ctx *kong.Context, globals *Globals) error {
	if cmd.Watch && cmd.Output == "" {
		return fmt.Errorf("--watch requires --output")
	}
	if cmd.temporal == nil {
		cmd.temporal = &hledger.Source{}
	}

	runCtx := context.Background()

	var collector telemetry.Collector
	if globals.Telemetry {
		collector = telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)
		defer func() {
			_, _ = fmt.Fprintln(ctx.Stderr)
			collector.Report(ctx.Stderr)
		}()
	}

	if err := cmd.convert(runCtx, ctx, false); err != nil {
		return err
	}
	if !cmd.Watch {
		return nil
	}
	return cmd.watch(runCtx, ctx)
}

// convert runs one full parse-classify-emit pass.
func (cmd *ConvertCmd) convert(runCtx context.Context, ctx *kong.Context, force bool) error {
	timer := telemetry.FromContext(runCtx).Start(fmt.Sprintf("convert %s", filepath.Base(cmd.FlexFile)))
	defer timer.End()

	cfg, err := config.Load(cmd.Config)
	if err != nil {
		return err
	}

	parseTimer := timer.Child("parse")
	f, err := os.Open(cmd.FlexFile)
	if err != nil {
		return err
	}
	response, err := flex.Parse(f)
	_ = f.Close()
	parseTimer.End()
	if err != nil {
		return err
	}

	statement, err := response.FirstStatement()
	if err != nil {
		return err
	}

	printInfof(ctx.Stderr, "Trades for %s, account %s", statement.AccountInformation.Name, statement.AccountID)
	printInfof(ctx.Stderr, "Period %s to %s", statement.FromDate, statement.ToDate)

	opts := []compile.Option{compile.WithDiagnostics(ctx.Stderr)}
	if cmd.IgnoreDepositsWithdrawals {
		opts = append(opts, compile.WithIgnoreDepositsWithdrawals())
	}
	if cmd.NewOnly {
		cutoffTimer := timer.Child("hledger cutoff")
		cutoff := cmd.temporal.LatestTransactionDate(runCtx, cfg.StockAccount)
		cutoffTimer.End()

		if cutoff.IsZero() {
			printInfof(ctx.Stderr, "No previous transactions found, keeping everything")
		} else {
			printInfof(ctx.Stderr, "Dropping transactions on or before %s", cutoff)
			opts = append(opts, compile.WithCutoff(cutoff))
		}
	}

	out, owned, err := openOutput(ctx, cmd.Output, force)
	if err != nil {
		return err
	}

	compileTimer := timer.Child("compile")
	err = compile.New(cfg, opts...).Compile(statement, out)
	compileTimer.End()
	if owned {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	if err != nil {
		return err
	}

	if cmd.Output != "" {
		printSuccess(ctx.Stderr, fmt.Sprintf("Ledger written to %s", cmd.Output))
	}
	return nil
}

// watch re-runs the conversion whenever the statement or config file
// changes, until interrupted.
func (cmd *ConvertCmd) watch(runCtx context.Context, ctx *kong.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	for _, file := range []string{cmd.FlexFile, cmd.Config} {
		if err := watcher.Add(file); err != nil {
			return fmt.Errorf("failed to watch %s: %w", file, err)
		}
	}

	runCtx, stop := signal.NotifyContext(runCtx, os.Interrupt)
	defer stop()

	printInfof(ctx.Stderr, "Watching %s and %s for changes", cmd.FlexFile, cmd.Config)

	// Editors often write files in multiple steps; debounce events.
	const debounceDelay = 100 * time.Millisecond
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	rerun := make(chan struct{}, 1)

	for {
		select {
		case <-runCtx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			// Atomic saves replace the file; re-add the path so further
			// changes keep arriving.
			if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				_ = watcher.Add(event.Name)
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, func() {
				select {
				case rerun <- struct{}{}:
				default:
				}
			})

		case <-rerun:
			if err := cmd.convert(runCtx, ctx, true); err != nil {
				printError(ctx.Stderr, err.Error())
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			printError(ctx.Stderr, fmt.Sprintf("file watcher error: %v", err))
		}
	}
}
