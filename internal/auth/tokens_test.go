package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/db/models"
)

func TestNewTokenSet(t *testing.T) {
	testCases := []struct {
		name          string
		tokens        []string
		expectedError error
		expected      []string
	}{
		{
			name:     "empty input",
			tokens:   nil,
			expected: nil,
		},
		{
			name:     "base tokens",
			tokens:   []string{"crear", "editar", "eliminar"},
			expected: []string{"crear", "editar", "eliminar"},
		},
		{
			name:     "extra token with underscore",
			tokens:   []string{"crear", "aprobar_solicitud"},
			expected: []string{"crear", "aprobar_solicitud"},
		},
		{
			name:          "uppercase rejected",
			tokens:        []string{"Crear"},
			expectedError: ErrInvalidToken,
		},
		{
			name:          "digits rejected",
			tokens:        []string{"crear2"},
			expectedError: ErrInvalidToken,
		},
		{
			name:          "empty token rejected",
			tokens:        []string{""},
			expectedError: ErrInvalidToken,
		},
		{
			name:          "whitespace rejected",
			tokens:        []string{"crear editar"},
			expectedError: ErrInvalidToken,
		},
		{
			name:          "duplicate rejected",
			tokens:        []string{"crear", "crear"},
			expectedError: ErrDuplicateToken,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			set, err := NewTokenSet(tc.tokens)

			if tc.expectedError != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tc.expectedError)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, set.Strings())
			assert.Equal(t, len(tc.expected), set.Len())
		})
	}
}

func TestTokenSetHas(t *testing.T) {
	set, err := NewTokenSet([]string{"crear", "editar"})
	require.NoError(t, err)

	assert.True(t, set.Has(TokenCreate))
	assert.True(t, set.Has(TokenEdit))
	assert.False(t, set.Has(TokenDelete))
	assert.False(t, TokenSet{}.Has(TokenCreate))
}

func TestTokenSetStringsEmptyIsNil(t *testing.T) {
	// a nil Strings() result maps to SQL NULL on the edge
	assert.Nil(t, TokenSet{}.Strings())

	set, err := NewTokenSet(nil)
	require.NoError(t, err)
	assert.Nil(t, set.Strings())
}

func TestTokenSetEqual(t *testing.T) {
	a, err := NewTokenSet([]string{"crear", "editar"})
	require.NoError(t, err)

	b, err := NewTokenSet([]string{"crear", "editar"})
	require.NoError(t, err)

	c, err := NewTokenSet([]string{"editar", "crear"})
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c)) // order matters
	assert.False(t, a.Equal(TokenSet{}))
	assert.True(t, TokenSet{}.Equal(TokenSet{}))
}

func TestStoredTokenSet(t *testing.T) {
	assert.Equal(t, 0, storedTokenSet(nil).Len())
	assert.Equal(t, 0, storedTokenSet(models.StringList{}).Len())

	set := storedTokenSet(models.StringList{"crear"})
	assert.True(t, set.Has(TokenCreate))
	assert.Equal(t, 1, set.Len())
}

func TestBaseTokens(t *testing.T) {
	assert.Equal(t, []string{"crear", "editar", "eliminar"}, BaseTokens())
}
