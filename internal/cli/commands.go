package cli

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/shaiso/Notifyd/internal/scheduler"
)

// NewTriggerCmd создаёт команду ручного запуска цикла.
func NewTriggerCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "trigger",
		Short: "Run one notification cycle now",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			resp, err := clientFn().Trigger()
			if err != nil {
				return err
			}

			if resp.Report == nil {
				out.Success(resp.Message)
				return nil
			}

			r := resp.Report
			out.Fields([][2]string{
				{"Cycle", r.CycleID},
				{"Slot", r.Slot},
				{"Fetched", strconv.Itoa(r.Fetched)},
				{"Matched", strconv.Itoa(r.Matched)},
				{"Succeeded", strconv.Itoa(r.Succeeded)},
				{"Failed", strconv.Itoa(r.Failed)},
			}, resp)
			return nil
		},
	}
}

// NewHealthCmd создаёт команду проверки /health.
func NewHealthCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := clientFn().Health()
			if err != nil {
				return err
			}

			outputFn().Fields([][2]string{
				{"Status", resp.Status},
				{"Server", resp.Server},
				{"Timezone", resp.Timezone},
				{"Timestamp", resp.Timestamp},
			}, resp)
			return nil
		},
	}
}

// NewStatusCmd создаёт команду просмотра primary/backup статуса.
func NewStatusCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show primary/backup liveness status",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := clientFn().Status()
			if err != nil {
				return err
			}

			checked := resp.Liveness.CheckedAt
			if checked == "" {
				checked = "-"
			}

			outputFn().Fields([][2]string{
				{"Primary", strconv.FormatBool(resp.IsPrimary)},
				{"Mode", resp.Liveness.Mode},
				{"Checked", checked},
				{"Primary URL", orDash(resp.PrimaryServer)},
				{"Backup URL", orDash(resp.BackupServer)},
			}, resp)
			return nil
		},
	}
}

// NewSlotCmd создаёт команду, печатающую текущий слот для часового пояса.
// Работает локально, без обращения к серверу.
func NewSlotCmd(outputFn func() *Output) *cobra.Command {
	var tz, cronExpr string

	cmd := &cobra.Command{
		Use:   "slot",
		Short: "Print the current HH:MM slot for a timezone",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := scheduler.NewNormalizer(tz)
			if err != nil {
				return err
			}

			now, slot := n.Now()
			next, err := scheduler.NextRun(cronExpr, now, n.Location())
			if err != nil {
				return err
			}

			outputFn().Fields([][2]string{
				{"Timezone", tz},
				{"Slot", slot.String()},
				{"Local", now.In(n.Location()).Format(time.DateTime)},
				{"Next cycle", next.Format(time.DateTime)},
			}, map[string]string{
				"timezone":   tz,
				"slot":       slot.String(),
				"next_cycle": next.Format(time.RFC3339),
			})
			return nil
		},
	}

	cmd.Flags().StringVar(&tz, "tz", "Asia/Jerusalem", "IANA timezone")
	cmd.Flags().StringVar(&cronExpr, "cron", "* * * * *", "Notification cadence (cron expression)")
	return cmd
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
