package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/flex2ledger/config"
	"github.com/robinvdvleuten/flex2ledger/flex"
	"github.com/robinvdvleuten/flex2ledger/telemetry"
)

type RetrieveCmd struct {
	Config      string `help:"Configuration filename." required:"" type:"existingfile"`
	WaitSeconds int    `help:"Seconds to wait for the statement to finish generating." default:"5"`
	Output      string `help:"Write the statement to a file instead of stdout." short:"o" type:"path"`

	// client overrides the web service client; tests point it at a stub.
	client *flex.Client
}

func (cmd *RetrieveCmd) Run(ctx *kong.Context, globals *Globals) error {
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

	cfg, err := config.Load(cmd.Config)
	if err != nil {
		return err
	}

	timer := telemetry.FromContext(runCtx).Start("retrieve statement")
	defer timer.End()

	client := cmd.client
	if client == nil {
		client = flex.NewClient(flex.WithWait(time.Duration(cmd.WaitSeconds) * time.Second))
	}

	printInfof(ctx.Stderr, "Executing statement generation...")
	sendTimer := timer.Child("SendRequest")
	referenceCode, err := client.SendRequest(runCtx, cfg.APIToken, cfg.QueryID)
	sendTimer.End()
	if err != nil {
		var statusErr *flex.StatusError
		if errors.As(err, &statusErr) {
			printError(ctx.Stderr, statusErr.Error())
			return NewCommandError(1)
		}
		return err
	}
	printInfof(ctx.Stderr, "Statement generation accepted: %s", referenceCode)

	printInfof(ctx.Stderr, "Waiting %s for statement to finish generating...", client.Wait())
	select {
	case <-time.After(client.Wait()):
	case <-runCtx.Done():
		return runCtx.Err()
	}

	printInfof(ctx.Stderr, "Retrieving generated statement...")
	getTimer := timer.Child("GetStatement")
	statement, err := client.GetStatement(runCtx, cfg.APIToken, referenceCode)
	getTimer.End()
	if err != nil {
		return err
	}

	out, owned, err := openOutput(ctx, cmd.Output, false)
	if err != nil {
		return err
	}
	if _, err := out.Write(statement); err != nil {
		if owned {
			_ = out.Close()
		}
		return fmt.Errorf("failed to write statement: %w", err)
	}
	if owned {
		if err := out.Close(); err != nil {
			return fmt.Errorf("failed to write statement: %w", err)
		}
		printSuccess(ctx.Stderr, fmt.Sprintf("Statement written to %s", cmd.Output))
	}

	return nil
}
