// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/odahub/renku-aqs/internal/inference"
	"github.com/odahub/renku-aqs/internal/query"
	"github.com/odahub/renku-aqs/internal/rdfgraph"
	"github.com/odahub/renku-aqs/internal/render"
	"github.com/odahub/renku-aqs/internal/store"
	"github.com/odahub/renku-aqs/internal/visual"
	aqserr "github.com/odahub/renku-aqs/pkg/errors"
	"github.com/odahub/renku-aqs/pkg/types"
)

func newDisplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "display [paths...]",
		Short: "Draw the project's workflow graph",
		Long: "Draw actions with their inputs, arguments and outputs, and the astroquery " +
			"modules and targets each run used. Paths (doublestar globs) keep only the " +
			"actions touching matching files.",
		RunE: runDisplay,
	}
	addGraphFlags(cmd)
	cmd.Flags().String("filename", "", "output file (default from display.filename)")
	cmd.Flags().String("format", "", "output format: png, svg or dot (default from display.format)")
	cmd.Flags().String("input-notebook", "", "only show actions reading this notebook")
	cmd.Flags().Bool("no-oda-info", false, "leave out astroquery modules and targets")
	return cmd
}

func runDisplay(cmd *cobra.Command, paths []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	filename := cfg.Display.Filename
	if f, _ := cmd.Flags().GetString("filename"); f != "" {
		filename = f
	}
	formatName := cfg.Display.Format
	if f, _ := cmd.Flags().GetString("format"); f != "" {
		formatName = f
	}
	format, err := types.ParseImageFormat(formatName)
	if err != nil {
		return err
	}
	inputNotebook, _ := cmd.Flags().GetString("input-notebook")
	noODAInfo, _ := cmd.Flags().GetBool("no-oda-info")

	q, err := query.Display(query.Options{InputNotebook: inputNotebook, NoODAInfo: noODAInfo})
	if err != nil {
		return err
	}
	revision, _ := cmd.Flags().GetString("revision")
	g, err := openGraph(cfg, revision)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	start := time.Now()
	triples, err := g.Construct(ctx, q)
	if err != nil {
		return err
	}
	slog.Info("provenance query completed", "triples", len(triples), "duration", time.Since(start))

	st, err := store.NewGraphStore(storageConfig(cfg))
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()
	rdfgraph.AddAll(st, triples)
	if err := st.Err(); err != nil {
		return err
	}

	ns := displayNamespaces(cfg.RenkuPath())
	res, err := inference.Default(inference.Options{
		NoODAInfo: noODAInfo,
		Paths:     paths,
		Logger:    slog.Default(),
	}).Run(ctx, st, ns)
	if err != nil {
		return err
	}

	vg := visual.FromStore(st, ns)
	visual.Transform(vg, res.TypeLabels)
	if err := render.Graph(ctx, rendererFactory(), vg, format, filename); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "graph written to %s (%d nodes, %d edges)\n",
		filename, len(vg.Nodes), len(vg.Edges))
	if err != nil {
		return aqserr.Wrap(err, aqserr.CodeInternalFailure, "writing summary")
	}
	return nil
}

func displayNamespaces(renkuPath string) *rdfgraph.Namespaces {
	ns := rdfgraph.NewNamespaces()
	ns.Bind("local-renku", "file://"+strings.TrimSuffix(renkuPath, "/")+"/")
	return ns
}
