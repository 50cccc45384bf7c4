// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package shared

import "fmt"

// Container is the storage cell behind a shared value.
//
// It is created together with its owning Shared and only ever aliased by
// clones of that Shared. There is no locking: a single logical owner at a
// time is the caller's contract.
type Container struct {
	owner         *Shared
	value         any
	readonly      bool
	strict        bool
	allowDowncast *bool
}

func newContainer(owner *Shared, readonly, strict bool, allowDowncast *bool) *Container {
	return &Container{
		owner:         owner,
		readonly:      readonly,
		strict:        strict,
		allowDowncast: allowDowncast,
	}
}

// Owner returns the shared value the container was created for.
func (c *Container) Owner() *Shared {
	return c.owner
}

// Read returns the stored value without copying it.
func (c *Container) Read() any {
	return c.value
}

// Write stores v. Unless skipFilter is set, v first passes through the
// owner's type filter with the container's strict and allowDowncast
// settings. On failure the stored value is left untouched.
func (c *Container) Write(v any, skipFilter bool) error {
	if c.readonly {
		return fmt.Errorf("%w: %s", ErrReadOnly, c.owner)
	}
	if !skipFilter {
		filtered, err := c.owner.Type().Filter(v, c.strict, c.allowDowncast)
		if err != nil {
			return err
		}
		v = filtered
	}
	c.value = v
	return nil
}

func (c *Container) Readonly() bool {
	return c.readonly
}

func (c *Container) Strict() bool {
	return c.strict
}

func (c *Container) AllowDowncast() *bool {
	return c.allowDowncast
}
