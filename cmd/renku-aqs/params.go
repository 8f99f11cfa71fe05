// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/odahub/renku-aqs/internal/query"
	"github.com/odahub/renku-aqs/internal/report"
	aqserr "github.com/odahub/renku-aqs/pkg/errors"
	"github.com/odahub/renku-aqs/pkg/types"
)

func newParamsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params [paths...]",
		Short: "List the astro objects and regions requested by each run",
		RunE:  runParams,
	}
	addGraphFlags(cmd)
	cmd.Flags().String("format", string(types.TableFormatASCII), "output format: ascii, json or markdown")
	cmd.Flags().StringSlice("diff", nil, "two run ids whose requested targets are compared")
	cmd.Flags().String("subgraph", "subgraph.ttl", "file the requested-parameters subgraph is written to; empty skips it")
	return cmd
}

func runParams(cmd *cobra.Command, args []string) error {
	if err := rejectPaths(cmd, args); err != nil {
		return err
	}
	formatFlag, _ := cmd.Flags().GetString("format")
	format, err := types.ParseTableFormat(formatFlag)
	if err != nil {
		return err
	}
	diff, _ := cmd.Flags().GetStringSlice("diff")
	if len(diff) != 0 && len(diff) != 2 {
		return aqserr.Errorf(aqserr.CodeCLIInputInvalid, "--diff takes exactly two run ids, got %d", len(diff))
	}
	subgraphPath, _ := cmd.Flags().GetString("subgraph")

	queries := make(map[string]string)
	for _, name := range []string{query.ParamsObjects, query.ParamsRegions, query.ParamsSubgraph} {
		q, err := query.Named(name)
		if err != nil {
			return err
		}
		queries[name] = q
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
	objects, err := g.Select(ctx, queries[query.ParamsObjects])
	if err != nil {
		return err
	}
	regions, err := g.Select(ctx, queries[query.ParamsRegions])
	if err != nil {
		return err
	}
	p := report.BuildParams(objects, regions)

	tables := p.Tables()
	if len(diff) == 2 {
		tables = append(tables, p.Diff(diff[0], diff[1]))
	}
	out := cmd.OutOrStdout()
	if err := report.Write(out, format, tables, p.Notes()...); err != nil {
		return err
	}

	triples, err := g.Construct(ctx, queries[query.ParamsSubgraph])
	if err != nil {
		return err
	}
	var ttl bytes.Buffer
	if err := report.WriteSubgraph(&ttl, triples, report.SubgraphNamespaces(cfg.RenkuPath())); err != nil {
		return err
	}
	if format != types.TableFormatJSON {
		if _, err := out.Write(ttl.Bytes()); err != nil {
			return err
		}
	}
	if subgraphPath == "" {
		return nil
	}
	if err := os.WriteFile(subgraphPath, ttl.Bytes(), 0o644); err != nil {
		return aqserr.Wrap(err, aqserr.CodeInternalFailure, "writing subgraph", aqserr.FieldPath(subgraphPath))
	}
	if format != types.TableFormatJSON {
		_, err = fmt.Fprintf(out, "subgraph written to %s\n", subgraphPath)
	}
	return err
}
