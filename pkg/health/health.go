// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

// Package health runs the environment checks reported by `renku-aqs doctor`.
package health

import (
	"context"
	"time"
)

type Status string

const (
	StatusOK   Status = "ok"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// Result is the outcome of one check. It is safe to serialize to JSON.
type Result struct {
	Name     string        `json:"name"`
	Status   Status        `json:"status"`
	Detail   string        `json:"detail"`
	Duration time.Duration `json:"duration"`
}

// Check inspects one part of the environment. Detail is shown to the user
// whatever the status.
type Check struct {
	Name string
	Run  func(ctx context.Context) (Status, string)
}

// Report is the set of results of one doctor run.
type Report struct {
	Results []Result `json:"results"`
}

// Run executes checks in order. A cancelled context fails the checks that
// have not run yet.
func Run(ctx context.Context, checks []Check) Report {
	var r Report
	for _, c := range checks {
		if err := ctx.Err(); err != nil {
			r.Results = append(r.Results, Result{Name: c.Name, Status: StatusFail, Detail: err.Error()})
			continue
		}
		start := time.Now()
		status, detail := c.Run(ctx)
		r.Results = append(r.Results, Result{
			Name:     c.Name,
			Status:   status,
			Detail:   detail,
			Duration: time.Since(start),
		})
	}
	return r
}

// Healthy reports whether no check failed. Warnings do not count.
func (r Report) Healthy() bool {
	for _, res := range r.Results {
		if res.Status == StatusFail {
			return false
		}
	}
	return true
}
