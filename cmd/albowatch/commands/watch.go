package commands

import (
	"log/slog"

	"albowatch-backend/lib/osutil"
	"albowatch-backend/lib/telemetry"
	"albowatch-backend/lib/timezone"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

const defaultSchedule = "*/30 * * * *"

type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	slog.Info(msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	slog.Error(msg, append([]interface{}{"err", err}, keysAndValues...)...)
}

// a check that outlasts the schedule interval must not overlap the
// next one, the snapshot is loaded and saved without locking
var skipOverlapping = cron.SkipIfStillRunning(cronLogger{})

func init() {
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Runs the check on a cron schedule until interrupted.",
	Run: func(cmd *cobra.Command, args []string) {
		config := mustConfig()
		service, cleanup := mustService(config)
		defer cleanup()

		ctx := cmd.Context()
		telemetry.InstrumentPerfStats(ctx)

		schedule := config.Schedule
		if schedule == "" {
			schedule = defaultSchedule
		}

		cronner := cron.New(
			cron.WithLocation(timezone.Location),
			cron.WithChain(skipOverlapping),
		)
		_, err := cronner.AddFunc(schedule, func() {
			service.Run(ctx)
		})
		if err != nil {
			osutil.Fatal("invalid cron schedule", err)
		}

		slog.Info("watching board", "schedule", schedule)
		cronner.Start()
		<-ctx.Done()

		// let an in-flight run finish before exiting
		<-cronner.Stop().Done()
	},
}
