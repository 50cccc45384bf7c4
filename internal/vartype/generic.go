// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package vartype

import "github.com/specialistvlad/gridstate/internal/graph"

// Generic is the type of values the module knows nothing about.
type Generic struct{}

var _ graph.Type = Generic{}

// Filter returns raw unchanged.
func (Generic) Filter(raw any, strict bool, allowDowncast *bool) (any, error) {
	return raw, nil
}

func (Generic) Equal(other graph.Type) bool {
	_, ok := other.(Generic)
	return ok
}

func (Generic) String() string {
	return "generic"
}
