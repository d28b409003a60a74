package dump_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/malphas-lang/bespon-go/internal/dump"
	"github.com/malphas-lang/bespon-go/internal/options"
	"github.com/malphas-lang/bespon-go/internal/parser"
	"github.com/malphas-lang/bespon-go/internal/resolve"
)

func mustResolve(t *testing.T, src string, opts options.Load) *resolve.Value {
	t.Helper()
	p := parser.New(src)
	doc := p.ParseDocument()
	require.Empty(t, p.Errors(), "unexpected parse errors for %q", src)
	v, rerr := resolve.Resolve(doc, opts)
	require.Nil(t, rerr, "unexpected resolve error for %q: %v", src, rerr)
	return v
}

func TestSerializeIndentationStyleDict(t *testing.T) {
	t.Parallel()

	v := mustResolve(t, "a = 1\nb = hello\nc = true\n", options.NewLoad())
	out, err := dump.Serialize(v, options.NewDump())
	require.NoError(t, err)
	assert.Equal(t, "a = 1\nb = hello\nc = true\n", out)
}

func TestSerializeNestedDictIndents(t *testing.T) {
	t.Parallel()

	v := mustResolve(t, "outer =\n  inner = 1\n", options.NewLoad())
	out, err := dump.Serialize(v, options.NewDump())
	require.NoError(t, err)
	assert.Equal(t, "outer =\n    inner = 1\n", out)
}

func TestSerializeSwitchesToInlineAtDepth(t *testing.T) {
	t.Parallel()

	v := mustResolve(t, "outer =\n  inner = 1\n  other = 2\n", options.NewLoad())
	out, err := dump.Serialize(v, options.NewDump(options.WithInlineDepth(0)))
	require.NoError(t, err)
	assert.Equal(t, "outer = {inner = 1, other = 2}\n", out)
}

func TestSerializeList(t *testing.T) {
	t.Parallel()

	v := mustResolve(t, "items =\n  * 1\n  * 2\n  * 3\n", options.NewLoad())
	out, err := dump.Serialize(v, options.NewDump())
	require.NoError(t, err)
	want := "items =\n" +
		"    " + "  * " + "1\n" +
		"    " + "  * " + "2\n" +
		"    " + "  * " + "3\n"
	assert.Equal(t, want, out)
}

func TestSerializeQuotesNonIdentKeys(t *testing.T) {
	t.Parallel()

	v := mustResolve(t, `"a key" = 1`+"\n", options.NewLoad())
	out, err := dump.Serialize(v, options.NewDump())
	require.NoError(t, err)
	assert.Equal(t, "\"a key\" = 1\n", out)
}

func TestSerializeAliasSharingEmitsLabelOnce(t *testing.T) {
	t.Parallel()

	v := mustResolve(t, "a = (label=x)> {n = 1}\nb = $x\n", options.NewLoad())
	out, err := dump.Serialize(v, options.NewDump(options.WithInlineDepth(0)))
	require.NoError(t, err)
	assert.Equal(t, "a = (label=L1)> {n = 1}\nb = $L1\n", out)
}

func TestSerializeWithAliasesOffDuplicatesSharedContent(t *testing.T) {
	t.Parallel()

	v := mustResolve(t, "a = (label=x)> {n = 1}\nb = $x\n", options.NewLoad())
	out, err := dump.Serialize(v, options.NewDump(
		options.WithDumpAliases(false),
		options.WithInlineDepth(0),
	))
	require.NoError(t, err)
	assert.Equal(t, "a = {n = 1}\nb = {n = 1}\n", out)
}

func TestSerializeCyclicValueWithAliasesOffFails(t *testing.T) {
	t.Parallel()

	src := "a = (label=x)> {b = $x}\n"
	v := mustResolve(t, src, options.NewLoad(options.WithCircularReferences(true)))

	_, err := dump.Serialize(v, options.NewDump(options.WithDumpAliases(false)))
	require.Error(t, err)

	var derr *dump.Error
	require.ErrorAs(t, err, &derr)
}

func TestSerializeCyclicValueWithAliasesOnLabelsItself(t *testing.T) {
	t.Parallel()

	src := "a = (label=x)> {b = $x}\n"
	v := mustResolve(t, src, options.NewLoad(options.WithCircularReferences(true)))

	out, err := dump.Serialize(v, options.NewDump())
	require.NoError(t, err)
	assert.Equal(t, "a = (label=L1)>\n    b = $L1\n", out)
}

func TestSerializeTrailingCommaOnInline(t *testing.T) {
	t.Parallel()

	v := mustResolve(t, "outer =\n  a = 1\n  b = 2\n", options.NewLoad())
	out, err := dump.Serialize(v, options.NewDump(
		options.WithInlineDepth(0),
		options.WithTrailingCommas(true),
	))
	require.NoError(t, err)
	assert.Equal(t, "outer = {a = 1, b = 2,}\n", out)
}

func TestSerializeHexFloat(t *testing.T) {
	t.Parallel()

	v := mustResolve(t, "x = 1.5\n", options.NewLoad())
	out, err := dump.Serialize(v, options.NewDump(options.WithHexFloats(true)))
	require.NoError(t, err)
	assert.Contains(t, out, "0x1.8p+00")
}

func TestSerializeBase64BytesTagsOnce(t *testing.T) {
	t.Parallel()

	v := mustResolve(t, `x = (base64)> "aGVsbG8="`+"\n", options.NewLoad())
	out, err := dump.Serialize(v, options.NewDump())
	require.NoError(t, err)
	assert.Equal(t, "x = (base64)> \"aGVsbG8=\"\n", out)
}

func TestSerializeBase16BytesReencodesAsHex(t *testing.T) {
	t.Parallel()

	v := mustResolve(t, `x = (base16)> "68656c6c6f"`+"\n", options.NewLoad())
	out, err := dump.Serialize(v, options.NewDump())
	require.NoError(t, err)
	assert.Equal(t, "x = (base16)> \"68656c6c6f\"\n", out)
}

func TestSerializeNilValueIsNone(t *testing.T) {
	t.Parallel()

	out, err := dump.Serialize(nil, options.NewDump())
	require.NoError(t, err)
	assert.Equal(t, "none\n", out)
}
