package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeHashDeterministic(t *testing.T) {
	a := ComputeHash("correct horse battery staple")
	b := ComputeHash("correct horse battery staple")
	assert.Equal(t, a, b)
}

func TestComputeHashCarriesVersionTag(t *testing.T) {
	h := ComputeHash("secret")
	assert.True(t, strings.HasPrefix(h, "$1$"))

	v, ok := Version(h)
	require.True(t, ok)
	assert.Equal(t, "1", v)
}

func TestComputeHashDistinguishesPlaintexts(t *testing.T) {
	assert.NotEqual(t, ComputeHash("secret"), ComputeHash("Secret"))
	assert.NotEqual(t, ComputeHash("a"), ComputeHash("b"))
}

func TestVersion(t *testing.T) {
	tests := []struct {
		name string
		hash string
		want string
		ok   bool
	}{
		{"version 1", "$1$deadbeef", "1", true},
		{"multi digit", "$12$deadbeef", "12", true},
		{"no tag", "deadbeef", "", false},
		{"empty", "", "", false},
		{"tag only", "$1$", "", false},
		{"missing digits", "$$abc", "", false},
		{"not leading", "x$1$abc", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := Version(tt.hash)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestNewNonce(t *testing.T) {
	a, err := NewNonce()
	require.NoError(t, err)
	b, err := NewNonce()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)

	_, ok := Version(a)
	assert.True(t, ok)
}
