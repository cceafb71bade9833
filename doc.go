// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package expanders is a container for GPIO expander drivers.
//
// See package pca9505 for the NXP PCA9505 40-bit I²C GPIO expander.
package expanders
