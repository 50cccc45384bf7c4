// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package randomstreams manages deterministic pseudo-random streams for
// graphs, built entirely on shared values.
//
// Every stream is a RandomState: a shared value whose payload is a Generator.
// Drawing a sample is a pure graph operation: it consumes the generator state
// and produces both the sample and the next generator state. The Manager
// records each (state, next state) pair; an executor writes the next state
// back into the shared value after every run, so successive runs draw fresh
// numbers.
//
// # Determinism
//
// A Manager owns a seed source. Each new stream takes the next seed from it,
// and Seed replays the same seed sequence over the streams in the order they
// were created. Two managers built with the same seed and asked for the same
// streams therefore hold bit-identical generators, and reseeding restores
// every stream to the state it had right after creation.
package randomstreams
