// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package thresh

import (
	"rescribe.xyz/thresh/window"
)

// These are the errors returned by the package, wrapped with more
// detail; test for them with errors.Is.
var (
	ErrInvalidParameter  = window.ErrInvalidParameter
	ErrEmptyImage        = window.ErrEmptyImage
	ErrDimensionMismatch = window.ErrDimensionMismatch
)
