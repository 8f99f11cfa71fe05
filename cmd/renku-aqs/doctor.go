// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sys/unix"

	"github.com/odahub/renku-aqs/internal/config"
	"github.com/odahub/renku-aqs/internal/provenance"
	"github.com/odahub/renku-aqs/pkg/health"
	"github.com/odahub/renku-aqs/pkg/types"
)

// minFreeBytes is the free space below which the disk check warns.
const minFreeBytes = 100 * 1024 * 1024

var (
	nameStyle   = lipgloss.NewStyle().Width(20)
	statusStyle = map[health.Status]lipgloss.Style{
		health.StatusOK:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		health.StatusWarn: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		health.StatusFail: lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Run diagnostics",
		Long: "Check the configuration, the provenance graph and its endpoint, the graph renderer, " +
			"the annotations directory and free disk space.",
		Args: cobra.NoArgs,
		RunE: runDoctor,
	}
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	cfg, cfgErr := loadConfig()
	checks := []health.Check{
		{Name: "Binary", Run: checkBinary},
		{Name: "Config", Run: func(context.Context) (health.Status, string) { return checkConfig(cfgErr) }},
	}
	if cfg != nil {
		checks = append(checks,
			health.Check{Name: "Provenance graph", Run: func(context.Context) (health.Status, string) {
				return checkGraph(cfg)
			}},
			health.Check{Name: "Endpoint", Run: func(ctx context.Context) (health.Status, string) {
				return checkEndpoint(ctx, cfg)
			}},
			health.Check{Name: "Renderer", Run: checkRenderer},
			health.Check{Name: "Annotations", Run: func(context.Context) (health.Status, string) {
				return checkAnnotations(cfg.Annotations.Dir)
			}},
			health.Check{Name: "Disk Space", Run: func(context.Context) (health.Status, string) {
				return checkDiskSpace(filepath.Dir(cfg.Display.Filename))
			}},
		)
	}

	report := health.Run(cmd.Context(), checks)
	w := cmd.OutOrStdout()
	for _, r := range report.Results {
		status := statusStyle[r.Status].Render(string(r.Status))
		if _, err := fmt.Fprintf(w, "%s %-4s  %s\n", nameStyle.Render(r.Name+":"), status, r.Detail); err != nil {
			return err
		}
	}
	return nil
}

func checkBinary(context.Context) (health.Status, string) {
	return health.StatusOK, fmt.Sprintf("renku-aqs %s (%s/%s, %s)", version, runtime.GOOS, runtime.GOARCH, runtime.Version())
}

func checkConfig(err error) (health.Status, string) {
	if err != nil {
		return health.StatusFail, err.Error()
	}
	if f := viper.ConfigFileUsed(); f != "" {
		return health.StatusOK, "loaded from " + f
	}
	return health.StatusOK, "using defaults (no config file found)"
}

func checkGraph(cfg *config.Config) (health.Status, string) {
	if _, err := os.Stat(cfg.Provenance.GraphPath); err != nil {
		return health.StatusFail, fmt.Sprintf("%s missing: run 'renku graph generate'", cfg.Provenance.GraphPath)
	}
	return health.StatusOK, cfg.Provenance.GraphPath
}

func checkEndpoint(ctx context.Context, cfg *config.Config) (health.Status, string) {
	if cfg.Provenance.Endpoint == "" {
		return health.StatusFail, "provenance.endpoint is not set"
	}
	var opts []provenance.ClientOption
	if cfg.Provenance.Username != "" {
		opts = append(opts, provenance.WithBasicAuth(cfg.Provenance.Username, cfg.Provenance.Password))
	}
	c := provenance.NewClient(cfg.Provenance.Endpoint, append(opts, provenance.WithTimeout(cfg.Provenance.Timeout))...)
	if err := c.Ping(ctx); err != nil {
		return health.StatusFail, err.Error()
	}
	return health.StatusOK, "reachable at " + c.Endpoint()
}

func checkRenderer(ctx context.Context) (health.Status, string) {
	dir, err := os.MkdirTemp("", "renku-aqs-doctor")
	if err != nil {
		return health.StatusWarn, "unable to check: " + err.Error()
	}
	defer func() { _ = os.RemoveAll(dir) }()

	path := filepath.Join(dir, "probe.svg")
	if err := rendererFactory().Render(ctx, []byte("digraph { a -> b }"), types.ImageFormatSVG, path); err != nil {
		return health.StatusFail, err.Error()
	}
	return health.StatusOK, "graphviz available"
}

func checkAnnotations(dir string) (health.Status, string) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return health.StatusWarn, fmt.Sprintf("no annotations directory at %s", dir)
	}
	if err != nil {
		return health.StatusFail, err.Error()
	}
	pending := 0
	for _, e := range entries {
		if !e.IsDir() {
			pending++
		}
	}
	return health.StatusOK, fmt.Sprintf("%d pending file(s) in %s", pending, dir)
}

func checkDiskSpace(dir string) (health.Status, string) {
	var stat unix.Statfs_t
	if err := unix.Statfs(dir, &stat); err != nil {
		return health.StatusWarn, "unable to check: " + err.Error()
	}
	avail := stat.Bavail * uint64(stat.Bsize)
	if avail < minFreeBytes {
		return health.StatusWarn, formatBytes(avail) + " available"
	}
	return health.StatusOK, formatBytes(avail) + " available"
}

// formatBytes formats a byte count as a human-readable string.
func formatBytes(b uint64) string {
	const (
		gb = 1024 * 1024 * 1024
		mb = 1024 * 1024
	)
	switch {
	case b >= gb:
		return fmt.Sprintf("%.1f GB", float64(b)/float64(gb))
	case b >= mb:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(mb))
	default:
		return fmt.Sprintf("%d bytes", b)
	}
}
