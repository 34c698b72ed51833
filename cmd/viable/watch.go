package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/viable-project/viable/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Recompile a Viable source file whenever it changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer log.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		w, err := watch.New(log)
		if err != nil {
			return err
		}
		defer w.Close()

		path := args[0]
		if err := w.Add(path); err != nil {
			return err
		}

		recompile := func(changed string) {
			if err := compileOne(path, flagOutput); err != nil {
				log.Warn("compilation failed", zap.String("source", path))
				return
			}
			log.Info("compiled", zap.String("source", path))
		}

		// Compile once up front so the watcher starts from a known state.
		recompile(path)

		log.Info("watching", zap.String("source", path))
		err = w.Run(ctx, recompile)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}
