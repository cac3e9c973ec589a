package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SAP-F-2025/student-service/internal/client"
	"github.com/SAP-F-2025/student-service/internal/models"
)

// NewListCommand creates the list command.
func NewListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all students",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := opts.NewClient().List(cmd.Context())
			return finish(cmd, opts, resp, err)
		},
	}
}

// NewGetCommand creates the get command.
func NewGetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <student-id>",
		Short: "Show one student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := opts.NewClient().Get(cmd.Context(), args[0])
			return finish(cmd, opts, resp, err)
		},
	}
}

// CreateOptions holds flags for the create command.
type CreateOptions struct {
	*RootOptions
	ID      string
	Name    string
	Years   int
	Company string
}

// NewCreateCommand creates the create command.
func NewCreateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CreateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a student",
		Long: `Create a student.

Example:
  studentctl create --id STU006 --name "Meera Nair" --years 2 --company HCL`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			student := models.Student{
				StudentID:         opts.ID,
				StudentName:       opts.Name,
				YearsOfExperience: opts.Years,
				CompanyName:       opts.Company,
			}
			resp, err := opts.NewClient().Create(cmd.Context(), student)
			return finish(cmd, opts.RootOptions, resp, err)
		},
	}

	cmd.Flags().StringVar(&opts.ID, "id", "", "student id")
	cmd.Flags().StringVar(&opts.Name, "name", "", "student name")
	cmd.Flags().IntVar(&opts.Years, "years", 0, "years of experience")
	cmd.Flags().StringVar(&opts.Company, "company", "", "company name")
	for _, name := range []string{"id", "name", "years", "company"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

// UpdateOptions holds flags for the update command.
type UpdateOptions struct {
	*RootOptions
	Name    string
	Years   int
	Company string
}

// NewUpdateCommand creates the update command. Only flags that were set are sent.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UpdateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "update <student-id>",
		Short: "Update fields of a student",
		Long: `Update fields of a student. Fields that are not given keep their value.

Example:
  studentctl update STU001 --company Acme`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := map[string]interface{}{}
			if cmd.Flags().Changed("name") {
				fields["student_name"] = opts.Name
			}
			if cmd.Flags().Changed("years") {
				fields["years_of_experience"] = opts.Years
			}
			if cmd.Flags().Changed("company") {
				fields["company_name"] = opts.Company
			}
			if len(fields) == 0 {
				return NewExitError(ExitCommandError, "nothing to update: set at least one of --name, --years, --company")
			}

			resp, err := opts.NewClient().Update(cmd.Context(), args[0], fields)
			return finish(cmd, opts.RootOptions, resp, err)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "new student name")
	cmd.Flags().IntVar(&opts.Years, "years", 0, "new years of experience")
	cmd.Flags().StringVar(&opts.Company, "company", "", "new company name")

	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <student-id>",
		Short: "Delete a student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := opts.NewClient().Delete(cmd.Context(), args[0])
			return finish(cmd, opts, resp, err)
		},
	}
}

// NewHealthCommand creates the health command.
func NewHealthCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the API is running",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := opts.NewClient().Health(cmd.Context())
			return finish(cmd, opts, resp, err)
		},
	}
}

// finish renders the reply and turns transport and HTTP failures into exit codes.
func finish(cmd *cobra.Command, opts *RootOptions, resp *client.Response, err error) error {
	if err != nil {
		var connErr *client.ConnectionError
		if errors.As(err, &connErr) {
			return WrapExitError(ExitCommandError, connErr.Error(), nil)
		}
		var timeoutErr *client.TimeoutError
		if errors.As(err, &timeoutErr) {
			return WrapExitError(ExitCommandError, timeoutErr.Error()+". Try a larger --timeout.", nil)
		}
		return WrapExitError(ExitFailure, "request failed", err)
	}

	formatter := &OutputFormatter{Format: opts.Output, Writer: cmd.OutOrStdout()}
	if err := formatter.Render(resp); err != nil {
		return WrapExitError(ExitFailure, "failed to render response", err)
	}

	if !resp.OK() {
		return NewExitError(ExitFailure, fmt.Sprintf("%s %s returned HTTP %d", cmd.Name(), resp.URL, resp.StatusCode))
	}
	return nil
}
