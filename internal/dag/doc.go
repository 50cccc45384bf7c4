// Package dag is a small dependency graph keyed by string IDs. It detects
// cycles and produces a deterministic topological order, which is what the
// function compiler uses to schedule graph nodes.
package dag
