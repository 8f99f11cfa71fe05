// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package main

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/odahub/renku-aqs/internal/config"
	aqserr "github.com/odahub/renku-aqs/pkg/errors"
)

// NewRootCmd creates the root renku-aqs command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "renku-aqs",
		Short: "Astroquery provenance for renku projects",
		Long: "renku-aqs records astroquery calls made by tracked renku commands and " +
			"builds leaderboards, parameter tables and graph views from the project's provenance graph.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initViper(cmd); err != nil {
				return err
			}
			setupLogging(cmd)
			return nil
		},
	}

	root.PersistentFlags().StringP("config", "c", "", "path to config file")
	root.PersistentFlags().StringP("project", "p", "", "path to the renku project")
	root.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newLeaderboardCmd(),
		newParamsCmd(),
		newDisplayCmd(),
		newHooksCmd(),
		newSecretCmd(),
		newDoctorCmd(),
		newVersionCmd(),
	)

	return root
}

// initViper sets up the global Viper with defaults, env bindings, flag
// bindings, and optional config file so the standard precedence
// (flag > env > file > defaults) is handled uniformly.
func initViper(cmd *cobra.Command) error {
	v := viper.GetViper()

	config.SetDefaults(v)
	config.SetupEnv(v)

	if cfgFile, _ := cmd.Flags().GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return aqserr.Errorf(aqserr.CodeConfigLoadReadFailure, "reading config file: %w", err)
		}
	} else {
		// SetConfigType is left unset: Viper would otherwise also try the
		// bare name, which is the renku-aqs binary itself.
		v.SetConfigName("renku-aqs")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/renku-aqs")
		v.AddConfigPath("/etc/renku-aqs")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return aqserr.Errorf(aqserr.CodeConfigLoadReadFailure, "reading config: %w", err)
			}
			if path, err := config.DefaultConfigPath(); err == nil {
				if written := config.BootstrapConfig(path); written != "" {
					v.SetConfigFile(written)
					if err := v.ReadInConfig(); err != nil {
						return aqserr.Errorf(aqserr.CodeConfigLoadReadFailure, "reading bootstrapped config: %w", err)
					}
				}
			}
		}
	}

	if err := v.BindPFlag("project.path", cmd.Root().PersistentFlags().Lookup("project")); err != nil {
		return aqserr.Errorf(aqserr.CodeCLISetupFailure, "binding project flag: %w", err)
	}
	if err := v.BindPFlag("verbose", cmd.Root().PersistentFlags().Lookup("verbose")); err != nil {
		return aqserr.Errorf(aqserr.CodeCLISetupFailure, "binding verbose flag: %w", err)
	}

	return nil
}

func setupLogging(cmd *cobra.Command) {
	level := slog.LevelInfo
	switch strings.ToLower(viper.GetString("log.level")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
}
