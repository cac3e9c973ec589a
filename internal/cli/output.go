package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/SAP-F-2025/student-service/internal/client"
	"github.com/SAP-F-2025/student-service/internal/models"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // the API answered with a non-2xx status
	ExitCommandError = 2 // bad flags or the API could not be reached
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter renders API replies in the configured format.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// Render writes the reply. Lists are rendered as a table in table mode.
func (f *OutputFormatter) Render(resp *client.Response) error {
	switch f.Format {
	case "json":
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(resp.Envelope)
	case "yaml":
		enc := yaml.NewEncoder(f.Writer)
		defer enc.Close()
		return enc.Encode(resp.Envelope)
	default:
		return f.renderTable(resp)
	}
}

func (f *OutputFormatter) renderTable(resp *client.Response) error {
	if !resp.OK() {
		_, err := fmt.Fprintf(f.Writer, "Error (HTTP %d): %s\n", resp.StatusCode, resp.Envelope.Message)
		return err
	}

	if resp.Envelope.Message != "" {
		if _, err := fmt.Fprintln(f.Writer, resp.Envelope.Message); err != nil {
			return err
		}
	}

	switch data := resp.Envelope.Data.(type) {
	case nil:
		return nil
	case []interface{}:
		students, err := resp.Students()
		if err != nil {
			return err
		}
		if err := writeStudentTable(f.Writer, students); err != nil {
			return err
		}
		_, err = fmt.Fprintf(f.Writer, "\n%d student(s)\n", len(data))
		return err
	default:
		student, err := resp.Student()
		if err != nil {
			return err
		}
		return writeStudentTable(f.Writer, []models.Student{*student})
	}
}

func writeStudentTable(w io.Writer, students []models.Student) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STUDENT ID\tNAME\tYEARS\tCOMPANY")
	for _, s := range students {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", s.StudentID, s.StudentName, s.YearsOfExperience, s.CompanyName)
	}
	return tw.Flush()
}
