package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/outofforest/logger"
	"github.com/outofforest/parallel"
	"github.com/outofforest/spiral/session"
)

func main() {
	config, count, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	log := logger.New(logger.DefaultConfig)
	ctx, cancel := signal.NotifyContext(logger.WithLogger(context.Background(), log), os.Interrupt,
		syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, config, count); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Application failed", zap.Error(err))
		cancel()
		os.Exit(1)
	}
}

// parseFlags returns session config and the number of nodes for single cycle.
func parseFlags(args []string) (session.Config, int, error) {
	var (
		config session.Config
		count  int
	)

	flags := pflag.NewFlagSet("spiral", pflag.ContinueOnError)
	flags.IntVar(&count, "nodes", 0, "number of nodes for single cycle, numbers are read from stdin if not set")
	flags.Uint64Var(&config.NumOfNodes, "arena-nodes", 1<<16, "number of node slots in the arena")
	flags.BoolVar(&config.UseHugePages, "huge-pages", false, "allocate arena using huge pages")
	flags.BoolVar(&config.Verify, "verify", false, "verify list links after each modification")
	if err := flags.Parse(args); err != nil {
		return session.Config{}, 0, errors.WithStack(err)
	}
	return config, count, nil
}

func run(ctx context.Context, config session.Config, count int) error {
	// Blocking read from stdin can't be interrupted, so it is done outside the task group.
	inReader, inWriter := io.Pipe()
	go func() {
		_, err := io.Copy(inWriter, os.Stdin)
		_ = inWriter.CloseWithError(err)
	}()

	config.In = inReader
	config.Out = os.Stdout

	s, sessionDeallocFunc, err := session.New(config)
	if err != nil {
		return err
	}
	defer sessionDeallocFunc()

	return parallel.Run(ctx, func(ctx context.Context, spawn parallel.SpawnFn) error {
		spawn("session", parallel.Exit, func(ctx context.Context) error {
			if count > 0 {
				return s.RunCycle(ctx, count)
			}
			return s.Run(ctx)
		})
		spawn("input", parallel.Fail, func(ctx context.Context) error {
			<-ctx.Done()
			_ = inReader.CloseWithError(ctx.Err())
			return errors.WithStack(ctx.Err())
		})
		return nil
	})
}
