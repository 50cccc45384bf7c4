// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package vartype provides the concrete graph.Type implementations used by
// shared values.
//
//   - Generic accepts any Go value as-is. It backs the fallback shared value
//     constructor and never rejects input.
//   - Value is backed by a cty.Type. Its filter is cty conversion: strict mode
//     demands an exact type match, otherwise safe conversions always apply and
//     unsafe (lossy) conversions are gated by allowDowncast.
//
// Plain Go values handed to a Value type are converted with gocty, so a
// []float64 can be stored in a list(number) slot without the caller building
// a cty.Value by hand.
package vartype
