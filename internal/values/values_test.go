package values_test

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/malphas-lang/bespon-go/internal/values"
)

func TestParseNumber_Integers(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		src  string
		want int64
		base values.Base
	}{
		"decimal":  {"123", 123, values.Base10},
		"negative": {"-123", -123, values.Base10},
		"hex":      {"0x1F", 31, values.Base16},
		"octal":    {"0o17", 15, values.Base8},
		"binary":   {"0b1101", 13, values.Base2},
	}
	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			v, err := values.ParseNumber(tc.src, false)
			assert.NoError(t, err)
			assert.Equal(t, values.KindInt, v.Kind)
			assert.Equal(t, tc.base, v.Base)
			assert.Equal(t, big.NewInt(tc.want).String(), v.Int.String())
		})
	}
}

func TestParseNumber_Underscores(t *testing.T) {
	t.Parallel()

	v, err := values.ParseNumber("1_000_000", false)
	assert.NoError(t, err)
	assert.Equal(t, "1000000", v.Int.String())
	assert.True(t, v.HadUnderscores)
}

func TestParseNumber_Floats(t *testing.T) {
	t.Parallel()

	v, err := values.ParseNumber("3.14", false)
	assert.NoError(t, err)
	assert.Equal(t, values.KindFloat, v.Kind)
	assert.InDelta(t, 3.14, v.Float, 1e-9)
}

func TestParseNumber_HexFloat(t *testing.T) {
	t.Parallel()

	v, err := values.ParseNumber("0x4.3p2", false)
	assert.NoError(t, err)
	assert.Equal(t, values.KindFloat, v.Kind)
	assert.True(t, v.HexFloat)
	assert.InDelta(t, 16.75, v.Float, 1e-9)
}

func TestParseNumber_InfAndNaN(t *testing.T) {
	t.Parallel()

	v, err := values.ParseNumber("-inf", false)
	assert.NoError(t, err)
	assert.True(t, math.IsInf(v.Float, -1))

	v, err = values.ParseNumber("nan", false)
	assert.NoError(t, err)
	assert.True(t, math.IsNaN(v.Float))
}

func TestParseNumber_Rational(t *testing.T) {
	t.Parallel()

	v, err := values.ParseNumber("3/4", false)
	assert.NoError(t, err)
	assert.Equal(t, values.KindRational, v.Kind)
	assert.Equal(t, "3", v.Rational.Num.String())
	assert.Equal(t, "4", v.Rational.Den.String())
}

func TestParseNumber_RationalZeroDenominator(t *testing.T) {
	t.Parallel()

	_, err := values.ParseNumber("3/0", false)
	assert.ErrorIs(t, err, values.ErrBadNumber)
}

func TestParseNumber_Complex(t *testing.T) {
	t.Parallel()

	v, err := values.ParseNumber("1+2i", false)
	assert.NoError(t, err)
	assert.Equal(t, values.KindComplex, v.Kind)
	assert.InDelta(t, 1.0, v.Complex.Real, 1e-9)
	assert.InDelta(t, 2.0, v.Complex.Imag, 1e-9)
}

func TestParseNumber_ComplexBareImaginary(t *testing.T) {
	t.Parallel()

	v, err := values.ParseNumber("2i", false)
	assert.NoError(t, err)
	assert.InDelta(t, 0.0, v.Complex.Real, 1e-9)
	assert.InDelta(t, 2.0, v.Complex.Imag, 1e-9)
}

func TestParseBool(t *testing.T) {
	t.Parallel()

	v, ok := values.ParseBool("true")
	assert.True(t, ok)
	assert.True(t, v.Bool)

	v, ok = values.ParseBool("false")
	assert.True(t, ok)
	assert.False(t, v.Bool)

	_, ok = values.ParseBool("maybe")
	assert.False(t, ok)
}

func TestIsNone(t *testing.T) {
	t.Parallel()

	assert.True(t, values.IsNone("none"))
	assert.False(t, values.IsNone("None"))
}
