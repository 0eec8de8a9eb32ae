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

var ledgerProgram string

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Print the submission ledger",
	Long: `Ledger reads the submission log from the store and prints it in
insertion order.

Examples:
  # Print every submission
  ./programselect ledger

  # Only submissions for one program
  ./programselect ledger --program Science`,
	RunE: runLedger,
}

func init() {
	rootCmd.AddCommand(ledgerCmd)
	ledgerCmd.Flags().StringVarP(&ledgerProgram, "program", "P", "", "Only show submissions for this program")
}

func runLedger(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	records, err := a.workflow.Submissions(ctx, ledgerProgram)
	if err != nil {
		return fmt.Errorf("failed to read ledger: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIMESTAMP\tSTUDENT ID\tTITLE\tNAME\tSURNAME\tPROGRAM")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Timestamp, r.StudentID, r.Title, r.GivenName, r.Surname, r.Program)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d submission(s)\n", len(records))
	return nil
}
