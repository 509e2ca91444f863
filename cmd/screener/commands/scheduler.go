package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/screener/internal/scheduler"
	"github.com/wonny/screener/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the scheduled screening daemon",
	Long: `Starts the job scheduler. The screening job runs on
SCREEN_SCHEDULE (weekday mornings by default) and persists its ranked
output when a database is configured.

Example:
  go run ./cmd/screener scheduler
  go run ./cmd/screener scheduler --run-now`,
	RunE: runScheduler,
}

var runNow bool

func init() {
	rootCmd.AddCommand(schedulerCmd)

	schedulerCmd.Flags().BoolVar(&runNow, "run-now", false, "trigger the screening job immediately on start")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	sched := scheduler.New(a.log)

	screenJob := jobs.NewScreenJob(a.universe, a.orchestrator, a.sessions, a.results, a.cfg, a.log)
	if err := sched.AddJob(screenJob); err != nil {
		return fmt.Errorf("register screen job: %w", err)
	}

	sched.Start()
	defer sched.Stop()

	if runNow {
		if err := sched.RunJob(screenJob.Name()); err != nil {
			return err
		}
	}

	fmt.Printf("Scheduler running (screen job: %s)\n", screenJob.Schedule())
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	return nil
}
