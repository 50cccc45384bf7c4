package hcl

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/gridstate/internal/config"
	"github.com/specialistvlad/gridstate/internal/ctxlog"
	"github.com/specialistvlad/gridstate/internal/fsutil"
)

// Loader is the HCL implementation of config.Loader.
type Loader struct{}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new HCL loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file found under paths and merges them into one
// workspace model.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	if len(paths) == 0 {
		return nil, errors.New("no workspace path given")
	}

	var files []string
	for _, p := range paths {
		found, err := fsutil.FindFilesByExtension(p, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("failed to find workspace files in %s: %w", p, err)
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		logger.Warn("No .hcl workspace files found, returning empty workspace.", "paths", paths)
		return &config.Model{}, nil
	}

	parser := hclparse.NewParser()
	model := &config.Model{}
	for _, file := range files {
		logger.Debug("Loading workspace file.", "path", file)
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var parsed hclWorkspaceFile
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &parsed); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}
		if err := l.translate(ctx, &parsed, model); err != nil {
			return nil, fmt.Errorf("in %s: %w", file, err)
		}
	}

	logger.Debug("Workspace loaded.", "files", len(files), "shared", len(model.Shared), "draws", len(model.Draws))
	return model, nil
}
