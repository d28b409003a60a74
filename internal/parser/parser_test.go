package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/malphas-lang/bespon-go/internal/ast"
	"github.com/malphas-lang/bespon-go/internal/parser"
)

func parseDict(t *testing.T, src string) *ast.Dict {
	t.Helper()
	p := parser.New(src)
	doc := p.ParseDocument()
	require.Empty(t, p.Errors(), "unexpected parse errors for %q", src)
	dict, ok := doc.Root.(*ast.Dict)
	require.True(t, ok, "expected root Dict, got %T", doc.Root)
	return dict
}

func TestParseSimpleLoad(t *testing.T) {
	t.Parallel()

	dict := parseDict(t, "k = 1\n")
	entry, ok := dict.Get("k")
	require.True(t, ok)
	scalar, ok := entry.Value.(*ast.Scalar)
	require.True(t, ok)
	assert.Equal(t, ast.ScalarInt, scalar.Kind)
}

func TestParseKeypathAssembly(t *testing.T) {
	t.Parallel()

	dict := parseDict(t, "a.b.c = 1\n")
	a, ok := dict.Get("a")
	require.True(t, ok)
	aDict := a.Value.(*ast.Dict)
	b, ok := aDict.Get("b")
	require.True(t, ok)
	bDict := b.Value.(*ast.Dict)
	c, ok := bDict.Get("c")
	require.True(t, ok)
	assert.Equal(t, ast.ScalarInt, c.Value.(*ast.Scalar).Kind)
}

func TestParseKeypathMerge(t *testing.T) {
	t.Parallel()

	dict := parseDict(t, "a.b.first = 1\na.b.second = 2\n")
	a, _ := dict.Get("a")
	b, _ := a.Value.(*ast.Dict).Get("b")
	bDict := b.Value.(*ast.Dict)
	assert.Len(t, bDict.Entries, 2)
}

func TestParseKeypathAndInlineEquivalent(t *testing.T) {
	t.Parallel()

	d1 := parseDict(t, "a.b.c = 1\n")
	d2 := parseDict(t, "a = {b = {c = 1}}\n")

	get := func(d *ast.Dict, path ...string) *ast.Scalar {
		cur := d
		var last *ast.DictEntry
		for _, seg := range path {
			e, ok := cur.Get(seg)
			if !ok {
				t.Fatalf("missing segment %q", seg)
			}
			last = e
			if child, ok := e.Value.(*ast.Dict); ok {
				cur = child
			}
		}
		return last.Value.(*ast.Scalar)
	}
	s1 := get(d1, "a", "b", "c")
	s2 := get(d2, "a", "b", "c")
	assert.Equal(t, s1.Kind, s2.Kind)
	assert.Equal(t, s1.Raw, s2.Raw)
}

func TestParseInlineTrailingComma(t *testing.T) {
	t.Parallel()

	dict := parseDict(t, "d = {a = 1, b = 2,}\n")
	d, ok := dict.Get("d")
	require.True(t, ok)
	inner := d.Value.(*ast.Dict)
	assert.True(t, inner.TrailingComma)
	assert.Len(t, inner.Entries, 2)
}

func TestParseSectionEquivalence(t *testing.T) {
	t.Parallel()

	d1 := parseDict(t, "section.subsection.key = value\n")
	d2 := parseDict(t, "|=== section.subsection\nkey = value\n|===/\n")

	sub1, _ := d1.Get("section")
	k1, _ := sub1.Value.(*ast.Dict).Get("subsection")
	v1 := k1.Value.(*ast.Dict)
	e1, _ := v1.Get("key")

	sub2, _ := d2.Get("section")
	k2, _ := sub2.Value.(*ast.Dict).Get("subsection")
	v2 := k2.Value.(*ast.Dict)
	e2, _ := v2.Get("key")

	assert.Equal(t, e1.Value.(*ast.Scalar).Raw, e2.Value.(*ast.Scalar).Raw)
}

func TestParseNestedIndentDict(t *testing.T) {
	t.Parallel()

	src := "outer =\n  inner = 1\n  other = 2\n"
	dict := parseDict(t, src)
	outer, ok := dict.Get("outer")
	require.True(t, ok)
	inner := outer.Value.(*ast.Dict)
	assert.Len(t, inner.Entries, 2)
}

func TestParseIndentList(t *testing.T) {
	t.Parallel()

	src := "items =\n  * 1\n  * 2\n  * 3\n"
	dict := parseDict(t, src)
	items, ok := dict.Get("items")
	require.True(t, ok)
	list := items.Value.(*ast.List)
	assert.Len(t, list.Items, 3)
}

func TestParseDuplicateKeyFails(t *testing.T) {
	t.Parallel()

	p := parser.New("k = 1\nk = 2\n")
	p.ParseDocument()
	errs := p.Errors()
	require.NotEmpty(t, errs)
	assert.Equal(t, parser.ErrDuplicateKey, errs[len(errs)-1].Kind)
}

func TestParseOverwriteTagAllowsDuplicateKey(t *testing.T) {
	t.Parallel()

	dict := parseDict(t, "d = (overwrite=true)> {a = 1, a = 2}\n")
	d, _ := dict.Get("d")
	tag := d.Value.(*ast.Tag)
	inner := tag.Target.(*ast.Dict)
	a, _ := inner.Get("a")
	assert.Equal(t, "2", a.Value.(*ast.Scalar).Raw)
}

func TestParseAliasReference(t *testing.T) {
	t.Parallel()

	dict := parseDict(t, "a = (label=x)> 1\nb = $x\n")
	b, ok := dict.Get("b")
	require.True(t, ok)
	ref, ok := b.Value.(*ast.AliasRef)
	require.True(t, ok)
	assert.Equal(t, "x", ref.Name)
}

func TestParseTagExplicitType(t *testing.T) {
	t.Parallel()

	dict := parseDict(t, "s = (set)> [1, 2]\n")
	s, ok := dict.Get("s")
	require.True(t, ok)
	tag := s.Value.(*ast.Tag)
	assert.Equal(t, "set", tag.TypeName)
}

func TestParseTagTypeMismatchFails(t *testing.T) {
	t.Parallel()

	p := parser.New("s = (set)> 1\n")
	p.ParseDocument()
	errs := p.Errors()
	require.NotEmpty(t, errs)
	assert.Equal(t, parser.ErrTagMismatch, errs[len(errs)-1].Kind)
}

func TestParseDepthExceeded(t *testing.T) {
	t.Parallel()

	src := "a =\n  b =\n    c = 1\n"
	p := parser.New(src, parser.WithMaxNestingDepth(1))
	p.ParseDocument()
	errs := p.Errors()
	require.NotEmpty(t, errs)
	assert.Equal(t, parser.ErrDepthExceeded, errs[len(errs)-1].Kind)
}

func TestParseDocComment(t *testing.T) {
	t.Parallel()

	dict := parseDict(t, "### a doc comment\nk = 1\n")
	entry, ok := dict.Get("k")
	require.True(t, ok)
	require.NotNil(t, entry.KeyAttachments.DocComment)
	assert.Equal(t, "a doc comment", entry.KeyAttachments.DocComment.Text)
}

func TestParseTrailingComment(t *testing.T) {
	t.Parallel()

	dict := parseDict(t, "k = 1   # trailing\n")
	entry, ok := dict.Get("k")
	require.True(t, ok)
	require.NotNil(t, entry.ValueAttachments.TrailingComment)
	assert.Equal(t, "trailing", entry.ValueAttachments.TrailingComment.Text)
}
