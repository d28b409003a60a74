package resolve_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

func TestResolveSimpleLoad(t *testing.T) {
	t.Parallel()

	v := mustResolve(t, "k = 1\n", options.NewLoad())
	require.Equal(t, resolve.KindDict, v.Kind)
	entry, ok := v.Dict.Get("k")
	require.True(t, ok)
	assert.Equal(t, resolve.KindInt, entry.Kind)
	assert.Equal(t, int64(1), entry.Int.Int64())
}

func TestResolveAlias(t *testing.T) {
	t.Parallel()

	v := mustResolve(t, "a = (label=x)> 1\nb = $x\n", options.NewLoad())
	a, _ := v.Dict.Get("a")
	b, _ := v.Dict.Get("b")
	assert.Equal(t, a.Int.Int64(), b.Int.Int64())
}

func TestResolveLabelRedefinitionFails(t *testing.T) {
	t.Parallel()

	p := parser.New("a = (label=x)> 1\nb = (label=x)> 2\n")
	doc := p.ParseDocument()
	require.Empty(t, p.Errors())
	_, rerr := resolve.Resolve(doc, options.NewLoad())
	require.NotNil(t, rerr)
	assert.Equal(t, resolve.ErrLabelRedefinition, rerr.Kind)
}

func TestResolveUndefinedAliasFails(t *testing.T) {
	t.Parallel()

	p := parser.New("a = $nope\n")
	doc := p.ParseDocument()
	require.Empty(t, p.Errors())
	_, rerr := resolve.Resolve(doc, options.NewLoad())
	require.NotNil(t, rerr)
	assert.Equal(t, resolve.ErrUndefinedAlias, rerr.Kind)
}

func TestResolveCyclicAliasFailsWhenDisabled(t *testing.T) {
	t.Parallel()

	src := "a = (label=x)> {b = $x}\n"
	p := parser.New(src)
	doc := p.ParseDocument()
	require.Empty(t, p.Errors())
	opts := options.NewLoad(options.WithCircularReferences(false))
	_, rerr := resolve.Resolve(doc, opts)
	require.NotNil(t, rerr)
	assert.Equal(t, resolve.ErrCircularReference, rerr.Kind)
}

func TestResolveCyclicAliasSucceedsWhenEnabled(t *testing.T) {
	t.Parallel()

	src := "a = (label=x)> {b = $x}\n"
	opts := options.NewLoad(options.WithCircularReferences(true))
	v := mustResolve(t, src, opts)
	a, _ := v.Dict.Get("a")
	require.Equal(t, resolve.KindDict, a.Kind)
	b, ok := a.Dict.Get("b")
	require.True(t, ok)
	assert.Same(t, a, b)
}

func TestResolveInitInheritance(t *testing.T) {
	t.Parallel()

	src := "base = (label=b)> {x = 1, y = 2}\nchild = (init=$b, overwrite=true)> {y = 3, z = 4}\n"
	v := mustResolve(t, src, options.NewLoad())
	child, ok := v.Dict.Get("child")
	require.True(t, ok)
	x, ok := child.Dict.Get("x")
	require.True(t, ok)
	assert.Equal(t, int64(1), x.Int.Int64())
	y, _ := child.Dict.Get("y")
	assert.Equal(t, int64(3), y.Int.Int64())
	z, _ := child.Dict.Get("z")
	assert.Equal(t, int64(4), z.Int.Int64())
}

func TestResolveInitInheritanceCollisionFailsWithoutOverwrite(t *testing.T) {
	t.Parallel()

	src := "base = (label=b)> {x = 1}\nchild = (init=$b)> {x = 2}\n"
	p := parser.New(src)
	doc := p.ParseDocument()
	require.Empty(t, p.Errors())
	_, rerr := resolve.Resolve(doc, options.NewLoad())
	require.NotNil(t, rerr)
	assert.Equal(t, resolve.ErrDuplicateKey, rerr.Kind)
}

func TestResolveSetDedup(t *testing.T) {
	t.Parallel()

	v := mustResolve(t, "s = (set)> [1, 2, 1, 3]\n", options.NewLoad())
	s, ok := v.Dict.Get("s")
	require.True(t, ok)
	assert.Equal(t, "set", s.TypeName)
	assert.Len(t, s.List, 3)
}

func TestResolveBase64Bytes(t *testing.T) {
	t.Parallel()

	v := mustResolve(t, `b = (base64)> "aGk="`+"\n", options.NewLoad())
	b, ok := v.Dict.Get("b")
	require.True(t, ok)
	assert.Equal(t, resolve.KindBytes, b.Kind)
	assert.Equal(t, []byte("hi"), b.Bytes)
}

func TestResolveUnknownTypeFails(t *testing.T) {
	t.Parallel()

	p := parser.New("a = (nonsense)> 1\n")
	doc := p.ParseDocument()
	require.Empty(t, p.Errors())
	_, rerr := resolve.Resolve(doc, options.NewLoad())
	require.NotNil(t, rerr)
	assert.Equal(t, resolve.ErrUnknownType, rerr.Kind)
}
