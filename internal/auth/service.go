package auth

import (
	"errors"

	"gorm.io/gorm"

	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/db/controller/assignment"
	rolectl "github.com/GoIntranet-Admin/GoIntranet-Admin/internal/db/controller/role"
)

// Service resolves the effective permissions of a role at a navigation
// node. It is a pure read layer: a cheap point lookup per call, no caching
// and no side effects, safe to call many times per request.
type Service struct {
	db *gorm.DB
}

// NewService creates a new permission resolver.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ModulePermissions returns the token set granted to the role at the given
// module. A missing edge resolves to the empty set.
func (s *Service) ModulePermissions(roleID, moduleID uint) (TokenSet, error) {
	return modulePermissions(s.db, roleID, moduleID)
}

// TabPermissions returns the token set granted to the role at the given
// tab. A missing edge resolves to the empty set.
func (s *Service) TabPermissions(roleID, tabID uint) (TokenSet, error) {
	return tabPermissions(s.db, roleID, tabID)
}

// HasTabToken reports whether the role holds the given token at the tab.
func (s *Service) HasTabToken(roleID, tabID uint, token string) (bool, error) {
	perms, err := s.TabPermissions(roleID, tabID)
	if err != nil {
		return false, err
	}

	return perms.Has(token), nil
}

// modulePermissions is the transaction-scoped resolver used by the engine
// so authorization reads see the same snapshot as the mutation.
func modulePermissions(db *gorm.DB, roleID, moduleID uint) (TokenSet, error) {
	ok, err := roleResolves(db, roleID)
	if err != nil {
		return TokenSet{}, err
	}

	if !ok {
		return TokenSet{}, nil
	}

	edge, err := assignment.GetModuleEdge(db, roleID, moduleID)
	if err != nil {
		if errors.Is(err, assignment.ErrEdgeNotFound) {
			return TokenSet{}, nil
		}

		return TokenSet{}, err
	}

	return storedTokenSet(edge.Permissions), nil
}

func tabPermissions(db *gorm.DB, roleID, tabID uint) (TokenSet, error) {
	ok, err := roleResolves(db, roleID)
	if err != nil {
		return TokenSet{}, err
	}

	if !ok {
		return TokenSet{}, nil
	}

	edge, err := assignment.GetTabEdge(db, roleID, tabID)
	if err != nil {
		if errors.Is(err, assignment.ErrEdgeNotFound) {
			return TokenSet{}, nil
		}

		return TokenSet{}, err
	}

	return storedTokenSet(edge.Permissions), nil
}

// roleResolves guards the resolver against roles that no longer exist.
// Edges of a soft-deleted role are kept in the database, but the role must
// stop resolving: its permissions collapse to the empty set.
func roleResolves(db *gorm.DB, roleID uint) (bool, error) {
	_, err := rolectl.GetByID(db, roleID)
	if err != nil {
		if errors.Is(err, rolectl.ErrRoleNotFound) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}
