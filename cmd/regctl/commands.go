package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"registration/internal/client"
	"registration/internal/student"
)

func bindForm(cmd *cobra.Command, f *client.Form) {
	cmd.Flags().StringVar(&f.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&f.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&f.Email, "email", "", "email address")
	cmd.Flags().StringVar(&f.DOB, "dob", "", "date of birth (YYYY-MM-DD or DD/MM/YYYY)")
	cmd.Flags().StringVar(&f.RollNumber, "roll-number", "", "roll number")
}

func newRegisterCmd(opts *rootOptions) *cobra.Command {
	var form client.Form
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new student",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			id, err := opts.client().Register(ctx, form)
			if err != nil {
				return describe(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "registered student %d\n", id)
			return nil
		},
	}
	bindForm(cmd, &form)
	return cmd
}

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered students",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			students, err := opts.client().List(ctx)
			if err != nil {
				return describe(err)
			}
			printStudents(cmd.OutOrStdout(), students)
			return nil
		},
	}
}

// newUpdateCmd pre-fills the form from the current record, applies the
// flags that were set, and sends all five fields.
func newUpdateCmd(opts *rootOptions) *cobra.Command {
	var patch client.Form
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Edit a student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := student.ParseID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := opts.context(cmd)
			defer cancel()

			c := opts.client()
			students, err := c.List(ctx)
			if err != nil {
				return describe(err)
			}
			view := &client.Roster{Students: students}
			current, ok := view.Find(id)
			if !ok {
				return fmt.Errorf("student %d not found", id)
			}

			form := client.EditForm(current)
			flags := cmd.Flags()
			if flags.Changed("first-name") {
				form.FirstName = patch.FirstName
			}
			if flags.Changed("last-name") {
				form.LastName = patch.LastName
			}
			if flags.Changed("email") {
				form.Email = patch.Email
			}
			if flags.Changed("dob") {
				form.DOB = patch.DOB
			}
			if flags.Changed("roll-number") {
				form.RollNumber = patch.RollNumber
			}

			payload, err := c.Update(ctx, id, form)
			if err != nil {
				return describe(err)
			}
			if err := view.Apply(id, payload); err != nil {
				return err
			}
			printStudents(cmd.OutOrStdout(), view.Students)
			return nil
		},
	}
	bindForm(cmd, &patch)
	return cmd
}

// newDeleteCmd removes a student and prints the remaining rows without
// fetching the list again.
func newDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := student.ParseID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := opts.context(cmd)
			defer cancel()

			c := opts.client()
			students, err := c.List(ctx)
			if err != nil {
				return describe(err)
			}
			if err := c.Delete(ctx, id); err != nil {
				return describe(err)
			}
			view := &client.Roster{Students: students}
			view.Remove(id)
			printStudents(cmd.OutOrStdout(), view.Students)
			return nil
		},
	}
}

func newTokenCmd(opts *rootOptions) *cobra.Command {
	var apiKey string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Exchange the admin API key for a bearer token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			tok, err := opts.client().Token(ctx, apiKey)
			if err != nil {
				return describe(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&apiKey, "api-key", "", "admin API key")
	_ = cmd.MarkFlagRequired("api-key")
	return cmd
}

func printStudents(w io.Writer, students []student.Student) {
	if len(students) == 0 {
		fmt.Fprintln(w, "no students registered")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tDOB\tROLL")
	for _, s := range students {
		fmt.Fprintf(tw, "%d\t%s %s\t%s\t%s\t%s\n", s.ID, s.FirstName, s.LastName, s.Email, client.DisplayDate(s.DOB), s.RollNumber)
	}
	_ = tw.Flush()
}
