// This file contains the gohcl decoding targets for workspace files.

package hcl

import "github.com/hashicorp/hcl/v2"

// hclWorkspaceFile represents the top-level structure of a workspace file.
type hclWorkspaceFile struct {
	Streams []*hclStreams `hcl:"streams,block"`
	Shared  []*hclShared  `hcl:"shared,block"`
	Draws   []*hclDraw    `hcl:"draw,block"`
}

type hclStreams struct {
	Seed *int64 `hcl:"seed,optional"`
}

type hclShared struct {
	Name   string         `hcl:"name,label"`
	Type   hcl.Expression `hcl:"type"`
	Value  hcl.Expression `hcl:"value"`
	Strict *bool          `hcl:"strict,optional"`
	Update *hcl.Attribute `hcl:"update,optional"`
}

// hclDraw keeps distribution parameters in the remaining body because each
// distribution takes a different set.
type hclDraw struct {
	Name         string   `hcl:"name,label"`
	Distribution string   `hcl:"distribution"`
	Size         *int     `hcl:"size,optional"`
	Params       hcl.Body `hcl:",remain"`
}
