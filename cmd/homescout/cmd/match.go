package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/homescout/homescout/internal/config"
	"github.com/homescout/homescout/internal/engine"
	"github.com/homescout/homescout/internal/store"
	"github.com/homescout/homescout/pkg/logger"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Run a single match cycle and exit",
	Long: `Evaluates every enabled saved search against the active inventory once,
creating alerts for new matches and dispatching pending notifications,
then exits. Useful for cron-driven deployments without the scheduler.`,
	RunE: runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx := cmd.Context()

	st, err := store.NewPostgresStoreWithPoolSize(ctx, cfg.Database.DSN(), cfg.Database.PoolSize)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer st.Close()

	eng := engine.NewEngine(st, buildNotifier(cfg, log), engineOptions(cfg, log)...)

	if err := eng.RunMatchCycle(ctx); err != nil {
		return fmt.Errorf("running match cycle: %w", err)
	}

	log.Info("match cycle complete")
	return nil
}
