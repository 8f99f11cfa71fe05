// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/odahub/renku-aqs/internal/secrets"
	aqserr "github.com/odahub/renku-aqs/pkg/errors"
)

func newSecretCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Manage endpoint credentials in the OS keyring",
		Long: "Store and delete secrets under the renku-aqs keyring service. Reference a stored " +
			"secret from the config as keyring://renku-aqs/<name>.",
	}
	cmd.AddCommand(newSecretSetCmd(), newSecretDeleteCmd())
	return cmd
}

func newSecretSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <name>",
		Short: "Store a secret read from the first line of stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			value := strings.TrimRight(line, "\r\n")
			if value == "" {
				if err != nil {
					return aqserr.Wrap(err, aqserr.CodeCLIInputInvalid, "reading secret from stdin")
				}
				return aqserr.New(aqserr.CodeCLIInputInvalid, "secret must not be empty")
			}
			if err := secretStoreFactory().Set(secrets.DefaultService, args[0], value); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Stored secret: %s\n",
				secrets.URI(secrets.DefaultService, args[0]))
			return err
		},
	}
}

func newSecretDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a secret by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := secretStoreFactory().Delete(secrets.DefaultService, name); err != nil {
				if aqserr.HasCode(err, aqserr.CodeSecretNotFound) {
					return aqserr.Errorf(aqserr.CodeSecretNotFound, "secret %q not found", name)
				}
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Deleted secret: %s\n", name)
			return err
		},
	}
}
