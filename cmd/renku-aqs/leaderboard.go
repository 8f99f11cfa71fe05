// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/odahub/renku-aqs/internal/query"
	"github.com/odahub/renku-aqs/internal/report"
	"github.com/odahub/renku-aqs/pkg/types"
)

func newLeaderboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leaderboard [paths...]",
		Short: "Rank astroquery runs by a metric",
		Long: "List the astro objects requested per module, then rank runs by the value " +
			"they recorded for the metric, highest first.",
		RunE: runLeaderboard,
	}
	addGraphFlags(cmd)
	cmd.Flags().String("format", string(types.TableFormatASCII), "output format: ascii, json or markdown")
	cmd.Flags().String("metric", "accuracy", "metric to rank runs by")
	return cmd
}

func runLeaderboard(cmd *cobra.Command, args []string) error {
	if err := rejectPaths(cmd, args); err != nil {
		return err
	}
	formatFlag, _ := cmd.Flags().GetString("format")
	format, err := types.ParseTableFormat(formatFlag)
	if err != nil {
		return err
	}
	metric, _ := cmd.Flags().GetString("metric")
	lbQuery, err := query.LeaderboardQuery(metric)
	if err != nil {
		return err
	}
	pairsQuery, err := query.Named(query.AstroPairs)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	revision, _ := cmd.Flags().GetString("revision")
	g, err := openGraph(cfg, revision)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	pairs, err := g.Select(ctx, pairsQuery)
	if err != nil {
		return err
	}
	sols, err := g.Select(ctx, lbQuery)
	if err != nil {
		return err
	}

	entries := report.BuildLeaderboard(sols)
	return report.Write(cmd.OutOrStdout(), format, []report.Table{
		report.PairsTable(pairs),
		report.LeaderboardTable(entries, metric),
	})
}
