package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"registration/internal/client"
)

type rootOptions struct {
	server  string
	token   string
	timeout time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "regctl",
		Short:         "Manage student registrations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.server, "server", envOr("REGCTL_SERVER", "http://localhost:5001"), "registration service base URL")
	cmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("REGCTL_TOKEN"), "bearer token for write operations")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "request timeout")

	cmd.AddCommand(
		newRegisterCmd(opts),
		newListCmd(opts),
		newUpdateCmd(opts),
		newDeleteCmd(opts),
		newTokenCmd(opts),
	)
	return cmd
}

func (o *rootOptions) client() *client.Client {
	return client.New(o.server, client.WithToken(o.token))
}

func (o *rootOptions) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), o.timeout)
}

// describe turns client errors into what the user should read.
func describe(err error) error {
	var ferrs client.FieldErrors
	if errors.As(err, &ferrs) {
		return fmt.Errorf("invalid input: %s", ferrs.Error())
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return errors.New(apiErr.Message)
	}
	return err
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
