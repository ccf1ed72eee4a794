package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"grocery.GO/cron"
)

var jobName string

var cronStartCmd = &cobra.Command{
	Use:   "cron:start",
	Short: "Start the cron scheduler or run a single job by name",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if jobName != "" {
			name := strings.ToLower(jobName)
			j, ok := cron.All(a)[name]
			if !ok {
				return fmt.Errorf("unknown job: %s", jobName)
			}
			fmt.Printf("Running cron job: %s\n", name)
			return cron.RunNow(cmd.Context(), j, args...)
		}

		fmt.Println("Starting cron scheduler...")
		c, err := cron.StartCron(a)
		if err != nil {
			return err
		}
		defer c.Stop()
		fmt.Println("Cron scheduler started. Press Ctrl+C to exit.")
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		return nil
	},
}

var cronListCmd = &cobra.Command{
	Use:   "cron:list",
	Short: "List cron jobs and their schedules",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		jobs := cron.All(a)
		names := make([]string, 0, len(jobs))
		for n := range jobs {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			sched := jobs[n].Schedule
			if sched == "" {
				sched = "(disabled)"
			}
			fmt.Printf("%-20s %s\n", n, sched)
		}
		return nil
	},
}

func init() {
	cronStartCmd.Flags().StringVarP(&jobName, "job", "j", "", "Run a single cron job by name and exit")
	rootCmd.AddCommand(cronStartCmd)
	rootCmd.AddCommand(cronListCmd)
}
