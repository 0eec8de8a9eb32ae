package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jjenkins/programselect/internal/service"
	"github.com/spf13/cobra"
)

var (
	enrollStudent string
	enrollProgram string
	enrollYes     bool
)

var enrollCmd = &cobra.Command{
	Use:   "enroll",
	Short: "Look up a student and record a program choice",
	Long: `Enroll walks through the same steps as the web page: search the student,
list the programs that still have seats, pick one, confirm.

Capacity is read again right before the row is written. If the chosen
program filled in the meantime nothing is written and the command fails.

Examples:
  # Interactive
  ./programselect enroll --student S1001

  # Non-interactive
  ./programselect enroll --student S1001 --program Science --yes`,
	RunE: runEnroll,
}

func init() {
	rootCmd.AddCommand(enrollCmd)
	enrollCmd.Flags().StringVarP(&enrollStudent, "student", "s", "", "Student ID to look up")
	enrollCmd.Flags().StringVarP(&enrollProgram, "program", "P", "", "Program to choose (prompted when empty)")
	enrollCmd.Flags().BoolVarP(&enrollYes, "yes", "y", false, "Confirm without prompting")
	_ = enrollCmd.MarkFlagRequired("student")
}

func runEnroll(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	in := bufio.NewReader(os.Stdin)
	session := a.workflow.NewSession()

	switch err := session.Search(ctx, enrollStudent); {
	case errors.Is(err, service.ErrStudentNotFound):
		return fmt.Errorf("student %s not found, check the ID", enrollStudent)
	case errors.Is(err, service.ErrNoCapacity):
		return fmt.Errorf("all programs are full")
	case err != nil:
		return err
	}

	id := session.Identity()
	fmt.Printf("%s %s%s %s\n\nPrograms with seats:\n", id.StudentID, id.Title, id.GivenName, id.Surname)
	for i, p := range session.Offerable() {
		fmt.Printf("  %d) %s (%s available)\n", i+1, p.Name, p.Available)
	}

	program := enrollProgram
	if program == "" {
		program, err = prompt(in, "\nProgram: ")
		if err != nil {
			return err
		}
	}
	if err := session.Choose(program); err != nil {
		return err
	}

	if !enrollYes {
		answer, err := prompt(in, fmt.Sprintf("Record %s %s%s %s in %s? [y/N] ",
			id.StudentID, id.Title, id.GivenName, id.Surname, program))
		if err != nil {
			return err
		}
		if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
			fmt.Println("Cancelled")
			return nil
		}
	}

	rec, err := session.Confirm(ctx)
	switch {
	case errors.Is(err, service.ErrSeatFilled):
		return fmt.Errorf("%s has just filled, search again and pick another program", program)
	case err != nil:
		return fmt.Errorf("submission failed, it may or may not have been recorded: %w", err)
	}

	fmt.Printf("Recorded at %s\n", rec.Timestamp)
	return nil
}

func prompt(in *bufio.Reader, label string) (string, error) {
	fmt.Print(label)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
