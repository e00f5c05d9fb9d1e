// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build gpu

package main

import (
	_ "github.com/gogpu/gg/gpu" // Register GPU accelerator (SDF + MSAA 4x + MSDF text)
)
