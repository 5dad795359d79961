package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rs/zerolog"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// LoadLayer reads and parses a configuration layer from the given path.
// The format is determined by the file extension:
// - .yaml or .yml for YAML
// - .json for JSON (parsed by the YAML decoder, JSON being a YAML subset)
// - .hcl for HCL attribute bodies
// - bare .renamerc will try YAML first, then HCL
// A missing file is not an error: it yields an empty layer. A file that
// exists but does not parse yields an empty layer and an ErrParse-wrapped
// error so the caller can warn and fall through to lower layers.
func LoadLayer(ctx context.Context, path string, source Source) (Layer, error) {
	empty := Layer{Source: source}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return empty, nil
		}
		return empty, errors.Errorf("reading config file %s: %w", path, err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Str("source", string(source)).Msg("loading config layer")

	values, err := parseDocument(data, path)
	if err != nil {
		return empty, errors.Errorf("%s: %w: %w", path, ErrParse, err)
	}

	return Layer{Source: source, Values: values}, nil
}

func parseDocument(data []byte, path string) (map[string]any, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return parseYAML(data)
	case ".hcl":
		return parseHCL(data, path)
	default:
		values, yamlErr := parseYAML(data)
		if yamlErr == nil {
			return values, nil
		}
		values, hclErr := parseHCL(data, path)
		if hclErr == nil {
			return values, nil
		}
		return nil, errors.Errorf("not parseable as YAML (%w) or HCL (%w)", yamlErr, hclErr)
	}
}

func parseYAML(data []byte) (map[string]any, error) {
	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return values, nil
}

// parseHCL reads a flat attribute body, with nested sections expressed as
// object values, e.g. rename_config = { auto_backup = false }.
func parseHCL(data []byte, path string) (map[string]any, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, path)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	attrs, diags := hclFile.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, errors.Errorf("reading HCL attributes: %s", diags.Error())
	}

	values := make(map[string]any, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(&hcl.EvalContext{})
		if diags.HasErrors() {
			return nil, errors.Errorf("evaluating HCL attribute %q: %s", name, diags.Error())
		}
		goVal, err := ctyToGo(val)
		if err != nil {
			return nil, errors.Errorf("attribute %q: %w", name, err)
		}
		values[name] = goVal
	}
	return values, nil
}

func ctyToGo(val cty.Value) (any, error) {
	if val.IsNull() {
		return nil, nil
	}

	ty := val.Type()
	switch {
	case ty == cty.String:
		return val.AsString(), nil
	case ty == cty.Bool:
		return val.True(), nil
	case ty == cty.Number:
		bf := val.AsBigFloat()
		if i, acc := bf.Int64(); acc == 0 {
			return int(i), nil
		}
		f, _ := bf.Float64()
		return f, nil
	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any)
		for key, elem := range val.AsValueMap() {
			goVal, err := ctyToGo(elem)
			if err != nil {
				return nil, err
			}
			out[key] = goVal
		}
		return out, nil
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		var out []any
		for _, elem := range val.AsValueSlice() {
			goVal, err := ctyToGo(elem)
			if err != nil {
				return nil, err
			}
			out = append(out, goVal)
		}
		return out, nil
	default:
		return nil, errors.Errorf("unsupported HCL value type %s", ty.FriendlyName())
	}
}
