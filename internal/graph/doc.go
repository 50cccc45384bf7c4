// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package graph provides the minimal value-flow graph that persisted state
// plugs into.
//
// # Why Graph Package Exists
//
// Shared values live on the boundary between a pure computation graph and the
// host program. The graph side only needs a handful of capabilities from this
// package:
//   - **Type:** a descriptor with a Filter rule that accepts or rejects raw
//     host values (see internal/vartype for the concrete implementations)
//   - **Variable:** identity, type, name and a mutable Tag bag; every graph
//     value and every shared value is built on top of it
//   - **Apply:** an Op applied to input expressions, producing output Variables
//   - **Constant:** a leaf holding an already-filtered value
//
// Graphs are described, never executed, by this package. Evaluation of a
// graph together with its state bindings lives in internal/function.
//
// # Identity
//
// Every Variable carries a random UUID. Two Variables with the same name and
// type are still different graph nodes; cloning a shared value yields a new
// identity that reads and writes the same storage.
package graph
