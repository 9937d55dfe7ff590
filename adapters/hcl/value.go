// Package hcl scans photonic circuit definition files.
//
// Circuit files use HCL syntax with three block types:
//
//	device "<kind>" "<name>" { ...geometry attributes... }
//	sweep "<name>"           { start/stop/points or band }
//	model "<name>"           { pack = "<coefficient pack path>" }
package hcl

import (
	"github.com/zclconf/go-cty/cty"

	"photonic-sparam/core/types"
	"photonic-sparam/internal/errors"
)

// GoValue converts a cty value to a plain Go value. Unknown values are
// rejected rather than silently passed through.
func GoValue(val cty.Value) (interface{}, error) {
	if !val.IsKnown() {
		return nil, errors.Parsing("value is not known at scan time", nil)
	}
	if val.IsNull() {
		return nil, nil
	}

	ty := val.Type()
	switch {
	case ty == cty.String:
		return val.AsString(), nil

	case ty == cty.Number:
		f, _ := val.AsBigFloat().Float64()
		return f, nil

	case ty == cty.Bool:
		return val.True(), nil

	case ty.IsListType() || ty.IsSetType() || ty.IsTupleType():
		return goSlice(val)

	case ty.IsMapType() || ty.IsObjectType():
		return goMap(val)

	default:
		return nil, errors.Newf(errors.TypeParsing, "unhandled value type: %s", ty.FriendlyName())
	}
}

// Attribute converts a cty value into a typed attribute, recording the
// friendly cty type name alongside the value.
func Attribute(val cty.Value) (types.Attribute, error) {
	v, err := GoValue(val)
	if err != nil {
		return types.Attribute{}, err
	}
	return types.Attribute{
		Value: v,
		Type:  val.Type().FriendlyName(),
	}, nil
}

func goSlice(val cty.Value) ([]interface{}, error) {
	out := make([]interface{}, 0, val.LengthInt())
	for iter := val.ElementIterator(); iter.Next(); {
		_, elem := iter.Element()
		v, err := GoValue(elem)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func goMap(val cty.Value) (map[string]interface{}, error) {
	out := make(map[string]interface{})
	for iter := val.ElementIterator(); iter.Next(); {
		key, elem := iter.Element()
		v, err := GoValue(elem)
		if err != nil {
			return nil, err
		}
		out[key.AsString()] = v
	}
	return out, nil
}
