// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/odahub/renku-aqs/internal/config"
	"github.com/odahub/renku-aqs/internal/hooks"
	"github.com/odahub/renku-aqs/internal/provenance"
	"github.com/odahub/renku-aqs/internal/render"
	"github.com/odahub/renku-aqs/internal/secrets"
	"github.com/odahub/renku-aqs/internal/store"
	_ "github.com/odahub/renku-aqs/internal/store/sqlite" // register sqlite backend
	aqserr "github.com/odahub/renku-aqs/pkg/errors"
)

// Factories are package-level variables so tests can substitute fakes.
var (
	secretStoreFactory = func() secrets.Store {
		return secrets.NewKeyringStore()
	}

	openGraph = func(cfg *config.Config, revision string) (provenance.Graph, error) {
		c, err := provenance.Open(provenanceConfig(cfg, revision))
		if err != nil {
			return nil, err
		}
		return c, nil
	}

	rendererFactory = func() render.Renderer {
		return render.NewGraphviz()
	}
)

// loadConfig decodes the global viper state and resolves the endpoint
// password from the keyring when it is a keyring:// reference.
func loadConfig() (*config.Config, error) {
	cfg, err := config.FromViper(viper.GetViper())
	if err != nil {
		return nil, err
	}
	config.WarnInsecurePermissions(viper.ConfigFileUsed(), cfg)

	if secrets.IsURI(cfg.Provenance.Password) {
		pw, err := secrets.Resolve(secretStoreFactory(), cfg.Provenance.Password)
		if err != nil {
			return nil, err
		}
		cfg.Provenance.Password = pw
	}
	return cfg, nil
}

func provenanceConfig(cfg *config.Config, revision string) provenance.Config {
	return provenance.Config{
		GraphPath: cfg.Provenance.GraphPath,
		Endpoint:  cfg.Provenance.Endpoint,
		Username:  cfg.Provenance.Username,
		Password:  cfg.Provenance.Password,
		Timeout:   cfg.Provenance.Timeout,
		Revision:  revision,
	}
}

func storageConfig(cfg *config.Config) *store.StorageConfig {
	return &store.StorageConfig{Backend: cfg.Storage.Backend, Path: cfg.Storage.Path}
}

func newHooks(cfg *config.Config) *hooks.Hooks {
	return hooks.New(hooks.Options{
		ShimPath:       cfg.Annotations.ShimPath,
		AnnotationsDir: cfg.Annotations.Dir,
	})
}

// addGraphFlags registers the flags shared by the graph commands.
func addGraphFlags(cmd *cobra.Command) {
	cmd.Flags().String("revision", provenance.HeadRevision, "revision of the provenance graph to query")
}

// rejectPaths fails when paths are given to a command that cannot filter
// by them.
func rejectPaths(cmd *cobra.Command, paths []string) error {
	if len(paths) > 0 {
		return aqserr.Errorf(aqserr.CodeCLIInputInvalid,
			"%s does not filter by paths (got %s)", cmd.Name(), strings.Join(paths, ", "))
	}
	return nil
}
