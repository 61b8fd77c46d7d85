package calc

import (
	"math"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstantTable(t *testing.T) {
	for name, c := range constants {
		assert.Equal(t, name, c.String())
		tok, err := lex(strings.NewReader(name)).next()
		require.NoError(t, err)
		assert.Equal(t, lexToken{kind: tokenConst, text: name, c: c, pos: 1}, tok)
		_, isFunc := functions[name]
		assert.False(t, isFunc, "%s is both a constant and a function", name)
	}
	assert.Len(t, constants, len(constInfos)-1)
}

func TestFunctionTable(t *testing.T) {
	for name, fn := range functions {
		assert.Equal(t, name, fn.String())
		tok, err := lex(strings.NewReader(name)).next()
		require.NoError(t, err)
		assert.Equal(t, lexToken{kind: tokenFunc, text: name, fn: fn, pos: 1}, tok)
		assert.NotNil(t, funcInfos[fn].f, "%s has no float implementation", name)
	}
	assert.Len(t, functions, len(funcInfos)-1)
}

// TestBigConstants checks that constants computed to arbitrary precision
// agree with their float64 values.
func TestBigConstants(t *testing.T) {
	for name, c := range constants {
		r := new(big.Float).SetPrec(128)
		c.bigValue(r)
		f, _ := r.Float64()
		assert.Equal(t, c.value(), f, "constant %s", name)
	}
}

// TestBigFunctions checks that functions computed to arbitrary precision
// agree with their float64 implementations.
func TestBigFunctions(t *testing.T) {
	args := []float64{0, 0.25, 1, 2, 10, 123.5}
	for name, fn := range functions {
		for _, x := range args {
			want := fn.call(x)
			r := new(big.Float).SetPrec(128)
			err := fn.bigCall(r, new(big.Float).SetPrec(128).SetFloat64(x))
			require.NoError(t, err, "%s(%g)", name, x)
			got, _ := r.Float64()
			if math.IsInf(want, 0) {
				assert.Equal(t, want, got, "%s(%g)", name, x)
				continue
			}
			assert.InEpsilon(t, want, got, 1e-12, "%s(%g)", name, x)
		}
	}
}

func TestDomainErrorMessage(t *testing.T) {
	err := &DomainError{X: -1, Func: "ln"}
	assert.Equal(t, "-1 outside domain of ln", err.Error())
	err = &DomainError{X: 2.5}
	assert.Equal(t, "2.5 outside domain", err.Error())
}
