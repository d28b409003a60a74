package rtast_test

import (
	"math/big"
	"testing"

	"github.com/kylelemons/godebug/pretty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/malphas-lang/bespon-go/internal/ast"
	"github.com/malphas-lang/bespon-go/internal/options"
	"github.com/malphas-lang/bespon-go/internal/rtast"
)

func mustParseRoundTrip(t *testing.T, src string) *rtast.Document {
	t.Helper()
	doc, err := rtast.ParseRoundTrip(src, options.NewRoundTrip(options.NewLoad()))
	require.Nil(t, err, "unexpected parse error for %q: %v", src, err)
	return doc
}

func TestDumpsEditFreeRoundTripsByteForByte(t *testing.T) {
	t.Parallel()

	src := "key.subkey.first = 123   # Comment\nkey.subkey.second = 0b1101\nkey.subkey.third = `literal \\string`\n"
	doc := mustParseRoundTrip(t, src)
	assert.Equal(t, src, doc.Dumps())
}

func TestRenameAndReplaceScenario(t *testing.T) {
	t.Parallel()

	src := "key.subkey.first = 123   # Comment\n" +
		"key.subkey.second = 0b1101\n" +
		"key.subkey.third = `literal \\string`\n"
	doc := mustParseRoundTrip(t, src)

	require.NoError(t, doc.ReplaceKey(rtast.Path{rtast.K("key"), rtast.K("subkey")}, "sk"))
	require.NoError(t, doc.ReplaceVal(rtast.Path{rtast.K("key"), rtast.K("sk"), rtast.K("second")}, big.NewInt(7)))
	require.NoError(t, doc.ReplaceVal(rtast.Path{rtast.K("key"), rtast.K("sk"), rtast.K("third")}, "\\another \\literal"))
	require.NoError(t, doc.ReplaceKey(rtast.Path{rtast.K("key"), rtast.K("sk"), rtast.K("third")}, "fourth"))

	want := "key.sk.first = 123   # Comment\n" +
		"key.sk.second = 0b111\n" +
		"key.sk.fourth = `\\another \\literal`\n"

	got := doc.Dumps()
	if diff := pretty.Compare(want, got); diff != "" {
		t.Fatalf("dumps() mismatch (-want +got):\n%s", diff)
	}
}

func TestReplaceValTypeMismatchFails(t *testing.T) {
	t.Parallel()

	doc := mustParseRoundTrip(t, "k = 1\n")
	err := doc.ReplaceVal(rtast.Path{rtast.K("k")}, "not a number")
	require.Error(t, err)
	rerr, ok := err.(*rtast.Error)
	require.True(t, ok)
	assert.Equal(t, rtast.ErrTypeMismatch, rerr.Kind)
}

func TestReplaceKeyCollisionFails(t *testing.T) {
	t.Parallel()

	doc := mustParseRoundTrip(t, "a = 1\nb = 2\n")
	err := doc.ReplaceKey(rtast.Path{rtast.K("a")}, "b")
	require.Error(t, err)
	rerr, ok := err.(*rtast.Error)
	require.True(t, ok)
	assert.Equal(t, rtast.ErrKeyCollision, rerr.Kind)
}

func TestDumpsPreservesTrailingCommaOnUntouchedInlineDict(t *testing.T) {
	t.Parallel()

	src := "d = {a = 1, b = 2,}\n"
	doc := mustParseRoundTrip(t, src)
	assert.Equal(t, src, doc.Dumps())
}

func TestWalkVisitsEveryPath(t *testing.T) {
	t.Parallel()

	doc := mustParseRoundTrip(t, "a = 1\nb =\n  c = 2\n  d = 3\n")
	var paths []rtast.Path
	doc.Walk(func(p rtast.Path, _ ast.Node) bool {
		if len(p) > 0 {
			paths = append(paths, p)
		}
		return true
	})
	assert.Len(t, paths, 4) // a, b, b.c, b.d
}
