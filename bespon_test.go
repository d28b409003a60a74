package bespon_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/malphas-lang/bespon-go"
)

func TestParseResolvesSimpleDocument(t *testing.T) {
	t.Parallel()

	v, err := bespon.Parse("a = 1\nb = hello\n")
	require.NoError(t, err)
	entry, ok := v.Dict.Get("a")
	require.True(t, ok)
	assert.Equal(t, int64(1), entry.Int.Int64())
}

func TestParseReportsParseError(t *testing.T) {
	t.Parallel()

	_, err := bespon.Parse("a = {unterminated\n")
	require.Error(t, err)

	var perr *bespon.ParseError
	assert.True(t, errors.As(err, &perr))
}

func TestParseReportsResolveError(t *testing.T) {
	t.Parallel()

	_, err := bespon.Parse("a = $nope\n")
	require.Error(t, err)

	var rerr *bespon.ResolveError
	assert.True(t, errors.As(err, &rerr))
}

func TestParseRoundTripEditThenDumps(t *testing.T) {
	t.Parallel()

	src := "key.subkey.first = 123   # Comment\n" +
		"key.subkey.second = 0b1101\n"
	doc, err := bespon.ParseRoundTrip(src)
	require.NoError(t, err)

	require.NoError(t, doc.ReplaceVal(bespon.Path{bespon.K("key"), bespon.K("subkey"), bespon.K("second")}, big.NewInt(7)))

	want := "key.subkey.first = 123   # Comment\n" +
		"key.subkey.second = 0b111\n"
	assert.Equal(t, want, doc.Dumps())
}

func TestSerializeRoundTripsParsedValue(t *testing.T) {
	t.Parallel()

	v, err := bespon.Parse("a = 1\nb = hello\n")
	require.NoError(t, err)

	out, err := bespon.Serialize(v)
	require.NoError(t, err)
	assert.Equal(t, "a = 1\nb = hello\n", out)
}

func TestParseNormalizesCRLFLineEndings(t *testing.T) {
	t.Parallel()

	v, err := bespon.Parse("a = 1\r\nb = 2\r\n")
	require.NoError(t, err)
	a, ok := v.Dict.Get("a")
	require.True(t, ok)
	b, ok := v.Dict.Get("b")
	require.True(t, ok)
	assert.Equal(t, int64(1), a.Int.Int64())
	assert.Equal(t, int64(2), b.Int.Int64())
}

func TestParseRespectsAliasesLoadOption(t *testing.T) {
	t.Parallel()

	_, err := bespon.Parse("a = (label=x)> 1\nb = $x\nc = $x\n", bespon.WithAliases(true))
	require.NoError(t, err)
}
