// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package shared implements persisted, mutable state that crosses the
// boundary between a compiled graph and the host program.
//
// # Core Concepts
//
//   - Container: a single typed slot. Every write goes through the owning
//     type's Filter unless it is explicitly unchecked; readonly containers
//     refuse writes.
//
//   - Shared: a graph node (it embeds *graph.Variable) that is also a handle
//     to a Container. Graphs treat it as a value-producing leaf, host code
//     treats it as a mutable cell that survives across executions.
//
//   - Registry: an ordered list of constructors. Given an arbitrary host
//     value, constructors are tried most-recently-registered first until one
//     accepts it. New payload kinds (cty values, random generators) plug in
//     by registering a narrow constructor; the generic fallback is always
//     registered first so it is tried last.
//
// # Borrowing
//
// GetValue and SetValue copy by default, so a caller can never corrupt
// stored state through an object it still holds. Passing borrow=true skips
// the copy and aliases the stored value; the caller then guarantees that
// nobody mutates the object behind the container's back. This is the only
// aliasing discipline: nothing here takes a lock.
//
// Clone is the one documented way two graph nodes share a Container.
package shared
