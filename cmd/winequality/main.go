package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	arg "github.com/alexflint/go-arg"
	"github.com/fatih/color"

	"github.com/Naveen06725/wine-prediction/internal/app"
	"github.com/Naveen06725/wine-prediction/internal/config"
	"github.com/Naveen06725/wine-prediction/internal/engine"
	"github.com/Naveen06725/wine-prediction/internal/errs"
	"github.com/Naveen06725/wine-prediction/internal/logging"
	"github.com/Naveen06725/wine-prediction/internal/report"
)

const usage = "Usage: winequality <test-file>"

type cliArgs struct {
	TestFile string `arg:"positional,required" placeholder:"TEST-FILE" help:"semicolon-delimited file with the training header"`
	Config   string `arg:"--config,env:WINE_CONFIG" help:"YAML config file"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// parseArgs reads the command line. Anything but exactly one test file is
// a *errs.UsageError; a help request returns arg.ErrHelp.
func parseArgs(argv []string) (cliArgs, *arg.Parser, error) {
	var args cliArgs
	parser, err := arg.NewParser(arg.Config{Program: "winequality"}, &args)
	if err != nil {
		return args, nil, err
	}
	if err := parser.Parse(argv); err != nil {
		if err == arg.ErrHelp {
			return args, parser, err
		}
		return args, parser, &errs.UsageError{Msg: usage}
	}
	return args, parser, nil
}

func run(argv []string, stdout, stderr io.Writer) int {
	args, parser, err := parseArgs(argv)
	var usageErr *errs.UsageError
	switch {
	case err == arg.ErrHelp:
		parser.WriteHelp(stdout)
		return 0
	case errors.As(err, &usageErr):
		fmt.Fprintln(stdout, usageErr.Error())
		return 1
	case err != nil:
		fmt.Fprintln(stderr, err)
		return 1
	}

	cfg, err := config.Load(args.Config)
	if err != nil {
		fmt.Fprintf(stderr, "%s %v\n", color.RedString("Error:"), err)
		return 1
	}

	logger, err := logging.New(cfg.Log.Level, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "%s %v\n", color.RedString("Error:"), err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	eng := engine.Open(logger, cfg.Engine.Workers)
	defer eng.Close()

	runner := app.NewRunner(cfg, eng, report.NewReporter(stdout), logger)
	if err := runner.Run(ctx, args.TestFile); err != nil {
		fmt.Fprintf(stderr, "%s %v\n", color.RedString("Error:"), err)
		return 1
	}
	return 0
}
