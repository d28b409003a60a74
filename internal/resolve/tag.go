package resolve

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/malphas-lang/bespon-go/internal/ast"
	"github.com/malphas-lang/bespon-go/internal/options"
	"github.com/malphas-lang/bespon-go/internal/values"
)

// builtinTypes are the registered type names spec.md §4.4 rule 3 names
// directly; anything else must come from custom_types or custom_parsers.
var builtinTypes = map[string]bool{
	"set": true, "list": true, "odict": true, "dict": true,
	"bytes": true, "base16": true, "base64": true,
}

func (r *resolver) customParser(name string) func(string) (any, error) {
	if r.opts.CustomParsers == nil {
		return nil
	}
	return r.opts.CustomParsers[name]
}

func (r *resolver) customType(name string) (options.CustomType, bool) {
	if r.opts.CustomTypes == nil {
		return options.CustomType{}, false
	}
	ct, ok := r.opts.CustomTypes[name]
	return ct, ok
}

// knownTypeName validates a tag's type name against the registry, per
// spec.md §4.4 rule 3. Parser-stage typeCompatible already checked
// shape; this is the remaining name-validity check.
func (r *resolver) knownTypeName(name string) bool {
	if name == "" {
		return true
	}
	if builtinTypes[name] {
		return true
	}
	if _, ok := r.customType(name); ok {
		return true
	}
	if r.customParser(name) != nil {
		return true
	}
	return false
}

// resolveTag resolves a Tag node: explicit-type validation, `init=`
// inheritance, and label/placeholder bookkeeping, per spec.md §4.4.
func (r *resolver) resolveTag(node *ast.Tag, depth int) *Value {
	if !r.knownTypeName(node.TypeName) {
		return r.fail(ErrUnknownType, "unknown explicit type '"+node.TypeName+"'", node.Span())
	}

	var slot *Value
	if node.Label != "" && r.opts.CircularReferences {
		slot = r.placeholders[node.Label]
	}

	var v *Value
	switch {
	case node.TypeName == "bytes" || node.TypeName == "base16" || node.TypeName == "base64":
		v = r.resolveEncodedBytes(node)
	case node.TypeName == "set":
		v = r.resolveSetList(node, depth)
	case node.Init != "":
		v = r.resolveDictWithInit(node, depth)
	case node.TypeName != "" && r.customParser(node.TypeName) != nil:
		v = r.resolveCustomParsed(node)
	default:
		v = r.resolveNode(node.Target, depth)
		if v != nil {
			switch node.TypeName {
			case "":
			case "odict", "dict":
				v.TypeName = "odict"
			default:
				v.TypeName = node.TypeName
			}
		}
	}
	if r.failed() {
		return nil
	}

	if node.Label != "" {
		if slot != nil {
			*slot = *v
			v = slot
		}
		r.completed[node.Label] = v
	}
	return v
}

// resolveEncodedBytes decodes a bytes/base16/base64-tagged string scalar,
// per spec.md §4.4 rule 3. There is no pack dependency specializing in
// hex/base64 codecs, so this uses the standard library (see DESIGN.md).
func (r *resolver) resolveEncodedBytes(node *ast.Tag) *Value {
	scalar, ok := node.Target.(*ast.Scalar)
	if !ok || scalar.Kind != ast.ScalarString {
		return r.fail(ErrIncompatibleType, "'"+node.TypeName+"' requires a string value", node.Span())
	}
	raw, _ := scalar.Value.(string)

	if parse := r.customParser(node.TypeName); parse != nil {
		out, err := parse(raw)
		if err != nil {
			return r.fail(ErrIncompatibleType, err.Error(), node.Span())
		}
		return &Value{Kind: KindBytes, Bytes: toBytes(out), TypeName: node.TypeName}
	}

	var data []byte
	var err error
	switch node.TypeName {
	case "bytes":
		data = []byte(raw)
	case "base16":
		data, err = hex.DecodeString(raw)
	case "base64":
		data, err = base64.StdEncoding.DecodeString(raw)
	}
	if err != nil {
		return r.fail(ErrIncompatibleType, "malformed "+node.TypeName+" literal: "+err.Error(), node.Span())
	}
	return &Value{Kind: KindBytes, Bytes: data, TypeName: node.TypeName}
}

func toBytes(x any) []byte {
	switch t := x.(type) {
	case []byte:
		return t
	case string:
		return []byte(t)
	default:
		return []byte(fmt.Sprint(t))
	}
}

// resolveSetList resolves a `(set)>`-tagged list and deduplicates it in
// first-occurrence order; spec.md §4.4 rule 3 only fixes the shape
// requirement, the dedup behavior itself follows the "set" name.
func (r *resolver) resolveSetList(node *ast.Tag, depth int) *Value {
	v := r.resolveNode(node.Target, depth)
	if r.failed() {
		return nil
	}
	unique := make([]*Value, 0, len(v.List))
	for _, item := range v.List {
		dup := false
		for _, seen := range unique {
			if equalValue(seen, item) {
				dup = true
				break
			}
		}
		if !dup {
			unique = append(unique, item)
		}
	}
	v.List = unique
	v.TypeName = "set"
	return v
}

// resolveCustomParsed hands a scalar's raw text to a registered
// custom_parsers replacement, per spec.md §6 `custom_parsers`.
func (r *resolver) resolveCustomParsed(node *ast.Tag) *Value {
	scalar, ok := node.Target.(*ast.Scalar)
	if !ok {
		return r.fail(ErrIncompatibleType, "custom parser for '"+node.TypeName+"' requires a scalar value", node.Span())
	}
	parse := r.customParser(node.TypeName)
	out, err := parse(scalar.Raw)
	if err != nil {
		return r.fail(ErrIncompatibleType, err.Error(), node.Span())
	}
	v := valueFromAny(out)
	v.TypeName = node.TypeName
	return v
}

func valueFromAny(x any) *Value {
	switch t := x.(type) {
	case string:
		return &Value{Kind: KindString, Str: t}
	case bool:
		return &Value{Kind: KindBool, Bool: t}
	case []byte:
		return &Value{Kind: KindBytes, Bytes: t}
	case *big.Int:
		return &Value{Kind: KindInt, Int: t, Base: values.Base10}
	case int:
		return &Value{Kind: KindInt, Int: big.NewInt(int64(t)), Base: values.Base10}
	case float64:
		return &Value{Kind: KindFloat, Float: t}
	case nil:
		return &Value{Kind: KindNone}
	default:
		return &Value{Kind: KindString, Str: fmt.Sprint(t)}
	}
}

// resolveDictWithInit resolves a `(init=$other)>`-tagged dict: a shallow
// copy of $other's entries (in order), then the tag's own entries merged
// on top under the same overwrite policy as ordinary duplicate-key
// detection, per spec.md §4.4 rule 5. Per the recorded Open Question
// decision (spec.md §9), a collision with an inherited key requires the
// tag to also carry `overwrite=true`; otherwise it's DuplicateKey.
func (r *resolver) resolveDictWithInit(node *ast.Tag, depth int) *Value {
	targetDict, ok := node.Target.(*ast.Dict)
	if !ok {
		return r.fail(ErrIncompatibleType, "'init=' requires a dict-shaped value", node.Span())
	}
	other := r.resolveAliasByName(node.Init, node.Span())
	if r.failed() {
		return nil
	}
	if other.Kind != KindDict {
		return r.fail(ErrIncompatibleType, "'init=$"+node.Init+"' does not resolve to a dict", node.Span())
	}

	dict := NewDict()
	for _, e := range other.Dict.Entries {
		dict.set(e.Key, e.Value, true)
	}
	for _, e := range targetDict.Entries {
		v := r.resolveNode(e.Value, depth+1)
		if r.failed() {
			return nil
		}
		if !dict.set(e.Key, v, targetDict.Overwrite) {
			return r.fail(ErrDuplicateKey, "key '"+e.Key+"' collides with 'init=' inheritance", e.Span())
		}
	}
	return &Value{Kind: KindDict, Dict: dict}
}
