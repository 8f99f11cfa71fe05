// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odahub/renku-aqs/internal/hooks/goplugin"
	aqserr "github.com/odahub/renku-aqs/pkg/errors"
	"github.com/odahub/renku-aqs/pkg/plugin"
)

func newHooksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hooks",
		Short: "Host hook callbacks",
		Long:  "Serve the pre-run and process-run-annotations hooks to the host, or run them by hand.",
	}
	cmd.AddCommand(
		newHooksServeCmd(),
		newHooksPreRunCmd(),
		newHooksProcessCmd(),
		newHooksManifestCmd(),
	)
	return cmd
}

func newHooksServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the hooks over the plugin protocol (started by the host)",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			goplugin.Serve(newHooks(cfg))
			return nil
		},
	}
}

func newHooksPreRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pre-run [-- command...]",
		Short: "Install the astroquery interception shim",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			h := newHooks(cfg)
			if err := h.PreRun(cmd.Context(), plugin.Tool{Command: args}); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "shim written to %s\n", h.ShimPath())
			return err
		},
	}
}

func newHooksProcessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process-annotations",
		Short: "Collect the annotations left by the last tracked command",
		Long: "Remove the shim and turn the JSON-LD files in the annotations directory into " +
			"annotations, printed as JSON. Malformed files are reported and left in place.",
		Args: cobra.NoArgs,
		RunE: runHooksProcess,
	}
	cmd.Flags().String("activity", "", "activity IRI the annotations belong to")
	cmd.Flags().String("renku-home", "", "renku metadata directory (default from config)")
	_ = cmd.MarkFlagRequired("activity")
	return cmd
}

func runHooksProcess(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	activity, _ := cmd.Flags().GetString("activity")
	home, _ := cmd.Flags().GetString("renku-home")

	annotations, procErr := newHooks(cfg).ProcessRunAnnotations(cmd.Context(),
		plugin.Run{ActivityID: activity, RenkuHome: home})
	if annotations == nil {
		annotations = []plugin.Annotation{}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(annotations); err != nil {
		return aqserr.Wrap(err, aqserr.CodeInternalFailure, "encoding annotations")
	}
	return procErr
}

func newHooksManifestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "manifest",
		Short: "Print the plugin manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m := plugin.DefaultManifest(version)
			if err := m.Validate(); err != nil {
				return err
			}
			data, err := m.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
