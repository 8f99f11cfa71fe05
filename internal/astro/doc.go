// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

// Package astro parses the sky coordinate and angle strings recorded by
// astroquery annotations and renders them in normalized units.
package astro
