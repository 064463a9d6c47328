package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewHasher_CostBounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cost int
		want int
	}{
		{"min cost", bcrypt.MinCost, bcrypt.MinCost},
		{"default cost", bcrypt.DefaultCost, bcrypt.DefaultCost},
		{"below min", 1, bcrypt.DefaultCost},
		{"above max", 99, bcrypt.DefaultCost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, NewHasher(tt.cost).cost)
		})
	}
}

func TestHasher_HashAndCompare(t *testing.T) {
	t.Parallel()

	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, "secret1", hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$"), "expected a bcrypt hash, got %q", hash)
	assert.True(t, h.Compare(hash, "secret1"))
	assert.False(t, h.Compare(hash, "secret2"))
	assert.False(t, h.Compare(hash, ""))
}

func TestHasher_Hash_FreshSalt(t *testing.T) {
	t.Parallel()

	h := NewHasher(bcrypt.MinCost)

	a, err := h.Hash("same-password")
	require.NoError(t, err)
	b, err := h.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "two hashes of the same password must differ")
	assert.True(t, h.Compare(a, "same-password"))
	assert.True(t, h.Compare(b, "same-password"))
}

func TestHasher_Compare_EmptyHash(t *testing.T) {
	t.Parallel()

	h := NewHasher(bcrypt.MinCost)
	assert.False(t, h.Compare("", "anything"))
}

func TestHasher_Hash_TooLong(t *testing.T) {
	t.Parallel()

	h := NewHasher(bcrypt.MinCost)
	_, err := h.Hash(strings.Repeat("a", 73))
	assert.Error(t, err, "bcrypt rejects passwords over 72 bytes")
}

func TestNewHasher_DummyHashMatchesCost(t *testing.T) {
	t.Parallel()

	for _, cost := range []int{bcrypt.MinCost, bcrypt.MinCost + 2, 99} {
		h := NewHasher(cost)

		got, err := bcrypt.Cost(h.dummy)
		require.NoError(t, err)
		assert.Equal(t, h.cost, got, "dummy hash cost for configured cost %d", cost)
	}
}
