package auth

import (
	"regexp"

	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/db/models"
)

// Base permission tokens. These three are always offered at every node,
// next to whatever extra tokens the node itself declares.
const (
	// TokenCreate allows creating records behind a node.
	TokenCreate = "crear"
	// TokenEdit allows editing records behind a node.
	TokenEdit = "editar"
	// TokenDelete allows deleting records behind a node.
	TokenDelete = "eliminar"
)

// tokenPattern is the only shape a permission token may have: lower-case
// letters and underscores.
var tokenPattern = regexp.MustCompile(`^[a-z_]+$`)

// BaseTokens returns the three well-known tokens offered at every node.
func BaseTokens() []string {
	return []string{TokenCreate, TokenEdit, TokenDelete}
}

// TokenSet is an ordered, duplicate-free set of validated permission
// tokens. The zero value is the empty set. Build one through NewTokenSet
// so validation happens exactly once instead of ad hoc at call sites.
type TokenSet struct {
	tokens []string
}

// NewTokenSet validates the given tokens and returns them as a set,
// preserving first-seen order. It rejects tokens not matching the token
// pattern and duplicated tokens.
func NewTokenSet(tokens []string) (TokenSet, error) {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))

	for _, t := range tokens {
		if !tokenPattern.MatchString(t) {
			return TokenSet{}, ErrInvalidToken
		}

		if _, dup := seen[t]; dup {
			return TokenSet{}, ErrDuplicateToken
		}

		seen[t] = struct{}{}
		out = append(out, t)
	}

	return TokenSet{tokens: out}, nil
}

// storedTokenSet wraps an already-persisted permission list without
// re-validation. Stored lists were validated on their way in.
func storedTokenSet(stored models.StringList) TokenSet {
	if len(stored) == 0 {
		return TokenSet{}
	}

	return TokenSet{tokens: []string(stored)}
}

// Has reports whether the set contains the given token.
func (s TokenSet) Has(token string) bool {
	for _, t := range s.tokens {
		if t == token {
			return true
		}
	}

	return false
}

// Len returns the number of tokens in the set.
func (s TokenSet) Len() int {
	return len(s.tokens)
}

// Strings returns the tokens in set order. The empty set returns nil.
func (s TokenSet) Strings() []string {
	if len(s.tokens) == 0 {
		return nil
	}

	out := make([]string, len(s.tokens))
	copy(out, s.tokens)

	return out
}

// Equal reports whether both sets hold the same tokens in the same order.
func (s TokenSet) Equal(other TokenSet) bool {
	if len(s.tokens) != len(other.tokens) {
		return false
	}

	for i, t := range s.tokens {
		if other.tokens[i] != t {
			return false
		}
	}

	return true
}
