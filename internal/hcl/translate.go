// This file contains the logic for translating decoded HCL blocks into the
// format-agnostic configuration model.

package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/ext/typeexpr"
	"github.com/specialistvlad/gridstate/internal/config"
	"github.com/specialistvlad/gridstate/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// translate merges one decoded file into model.
func (l *Loader) translate(ctx context.Context, f *hclWorkspaceFile, model *config.Model) error {
	for _, s := range f.Streams {
		if model.Streams != nil {
			return fmt.Errorf("duplicate \"streams\" block: only one is allowed per workspace")
		}
		model.Streams = &config.Streams{Seed: s.Seed}
	}

	names := make(map[string]bool, len(model.Shared)+len(model.Draws))
	for _, s := range model.Shared {
		names[s.Name] = true
	}
	for _, d := range model.Draws {
		names[d.Name] = true
	}
	claim := func(kind, name string) error {
		if names[name] {
			return fmt.Errorf("%s %q: name is already declared in the workspace", kind, name)
		}
		names[name] = true
		return nil
	}

	for _, s := range f.Shared {
		if err := claim("shared", s.Name); err != nil {
			return err
		}
		shared, err := translateShared(ctx, s)
		if err != nil {
			return err
		}
		model.Shared = append(model.Shared, shared)
	}
	for _, d := range f.Draws {
		if err := claim("draw", d.Name); err != nil {
			return err
		}
		draw, err := translateDraw(ctx, d)
		if err != nil {
			return err
		}
		model.Draws = append(model.Draws, draw)
	}
	return nil
}

// translateShared parses the type expression and evaluates the initial value
// against it. The update expression is kept unevaluated because it refers to
// the value of the previous run.
func translateShared(ctx context.Context, s *hclShared) (*config.Shared, error) {
	logger := ctxlog.FromContext(ctx)

	ty, diags := typeexpr.TypeConstraint(s.Type)
	if diags.HasErrors() {
		return nil, fmt.Errorf("shared %q: invalid type: %w", s.Name, diags)
	}

	val, diags := s.Value.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("shared %q: invalid value: %w", s.Name, diags)
	}
	if val.IsNull() {
		return nil, fmt.Errorf("shared %q: value must not be null", s.Name)
	}
	converted, err := convert.Convert(val, ty)
	if err != nil {
		return nil, fmt.Errorf("shared %q: value of type %s does not match %s: %w",
			s.Name, val.Type().FriendlyName(), typeexpr.TypeString(ty), err)
	}
	logger.Debug("Translated shared value.", "name", s.Name, "type", typeexpr.TypeString(ty))

	out := &config.Shared{
		Name:   s.Name,
		Type:   ty,
		Value:  converted,
		Strict: s.Strict != nil && *s.Strict,
	}
	if s.Update != nil {
		out.Update = s.Update.Expr
	}
	return out, nil
}

func translateDraw(ctx context.Context, d *hclDraw) (*config.Draw, error) {
	size := 1
	if d.Size != nil {
		size = *d.Size
	}
	if size < 0 {
		return nil, fmt.Errorf("draw %q: size must not be negative, got %d", d.Name, size)
	}

	attrs, diags := d.Params.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("draw %q: %w", d.Name, diags)
	}
	params := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("draw %q: parameter %q: %w", d.Name, name, diags)
		}
		num, err := convert.Convert(val, cty.Number)
		if err != nil || num.IsNull() {
			return nil, fmt.Errorf("draw %q: parameter %q must be a number, got %s", d.Name, name, val.Type().FriendlyName())
		}
		params[name] = num
	}
	ctxlog.FromContext(ctx).Debug("Translated draw.", "name", d.Name, "distribution", d.Distribution, "size", size)

	return &config.Draw{
		Name:         d.Name,
		Distribution: d.Distribution,
		Size:         size,
		Params:       params,
	}, nil
}
