package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var programsCmd = &cobra.Command{
	Use:   "programs",
	Short: "Print live seat availability for every program",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		programs, err := a.workflow.Programs(ctx)
		if err != nil {
			return fmt.Errorf("failed to read programs: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "PROGRAM\tCAPACITY\tRESERVED\tAVAILABLE\tOFFERABLE")
		for _, p := range programs {
			offerable := "no"
			if p.Offerable() {
				offerable = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.Name, p.Capacity, p.Reserved, p.Available, offerable)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(programsCmd)
}
