package auth

import (
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/db/controller/assignment"
	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/db/controller/audit"
	modulectl "github.com/GoIntranet-Admin/GoIntranet-Admin/internal/db/controller/module"
	rolectl "github.com/GoIntranet-Admin/GoIntranet-Admin/internal/db/controller/role"
	tabctl "github.com/GoIntranet-Admin/GoIntranet-Admin/internal/db/controller/tab"
	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/db/models"
)

// Actor identifies who is performing an assignment mutation. UserID feeds
// the audit trail and may be nil outside an authenticated context; RoleID
// is the role whose permissions gate the mutation.
type Actor struct {
	UserID *uint64
	RoleID uint
}

// Gates holds the ids of the two management tabs that gate assignment
// mutations: module assignments require tokens on the modules-management
// tab, tab assignments on the tabs-management tab.
type Gates struct {
	ModulesTabID uint
	TabsTabID    uint
}

// TreeInvalidator evicts cached navigation trees after a committed
// mutation. Satisfied by tree.Cache.
type TreeInvalidator interface {
	InvalidateModules()
	InvalidateTabs()
}

// Engine applies assignment mutations while preserving the reachability
// invariant of the navigation tree: a child module is assigned to a role
// only while its parent is, and a parent edge exists only while at least
// one child edge does. Each call runs in a single transaction; the audit
// records of a mutation commit or roll back together with it.
type Engine struct {
	db    *gorm.DB
	cache TreeInvalidator
	gates Gates
}

// NewEngine creates a cascade assignment engine. cache may be nil when no
// tree cache is wired (tests).
func NewEngine(db *gorm.DB, cache TreeInvalidator, gates Gates) *Engine {
	return &Engine{db: db, cache: cache, gates: gates}
}

// AssignModule grants the module to the target role with the given
// permissions. Creating a new edge requires the "crear" token on the
// modules-management tab, overwriting an existing one requires "editar".
// When the module hangs below a parent that the role cannot reach yet, the
// parent edge is created alongside with a NULL permission list so the
// child stays reachable.
func (e *Engine) AssignModule(actor Actor, targetRoleID, moduleID uint, perms TokenSet) error {
	err := e.db.Transaction(func(tx *gorm.DB) error {
		if _, err := rolectl.GetByID(tx, targetRoleID); err != nil {
			return err
		}

		existing, err := assignment.GetModuleEdge(tx, targetRoleID, moduleID)
		if err != nil && !errors.Is(err, assignment.ErrEdgeNotFound) {
			return err
		}

		required := TokenCreate
		if existing != nil {
			required = TokenEdit
		}

		if err = e.authorize(tx, actor, e.gates.ModulesTabID, required); err != nil {
			return err
		}

		mod, err := modulectl.GetByID(tx, moduleID)
		if err != nil {
			return err
		}

		// Cascade up: a directly granted parent module never cascades,
		// only children pull their parent in.
		if mod.ParentID != nil {
			if err = e.ensureParentEdge(tx, actor, targetRoleID, *mod.ParentID); err != nil {
				return err
			}
		}

		if err = assignment.UpsertModuleEdge(tx, targetRoleID, moduleID, perms.Strings()); err != nil {
			return err
		}

		key := audit.EdgeKey(targetRoleID, moduleID)
		if existing == nil {
			return audit.Record(tx, models.RoleModule{}.TableName(), key, models.AuditInsert, actor.UserID, nil)
		}

		return audit.Record(tx, models.RoleModule{}.TableName(), key, models.AuditUpdate, actor.UserID,
			permissionDiff(existing.Permissions, perms.Strings()))
	})
	if err != nil {
		return err
	}

	e.invalidate()

	return nil
}

// UnassignModule revokes the module from the target role. Requires the
// "eliminar" token on the modules-management tab. When the removed module
// was the last assigned child of its parent, the parent edge is removed in
// the same transaction. The parent edge row is locked before the child
// edge is deleted and the sibling count is a locking read, so two
// concurrent unassigns of the last two siblings serialize instead of each
// seeing the other edge and both leaving the parent behind.
func (e *Engine) UnassignModule(actor Actor, targetRoleID, moduleID uint) error {
	err := e.db.Transaction(func(tx *gorm.DB) error {
		if _, err := rolectl.GetByID(tx, targetRoleID); err != nil {
			return err
		}

		if err := e.authorize(tx, actor, e.gates.ModulesTabID, TokenDelete); err != nil {
			return err
		}

		mod, err := modulectl.GetByID(tx, moduleID)
		if err != nil {
			return err
		}

		_, err = assignment.GetModuleEdge(tx, targetRoleID, moduleID)
		if errors.Is(err, assignment.ErrEdgeNotFound) {
			return nil // already unassigned, no-op
		}

		if err != nil {
			return err
		}

		// serialize concurrent cascade decisions on the same parent edge
		if mod.ParentID != nil {
			if _, err = assignment.GetModuleEdgeLocked(tx, targetRoleID, *mod.ParentID); err != nil &&
				!errors.Is(err, assignment.ErrEdgeNotFound) {
				return err
			}
		}

		if err = assignment.RemoveModuleEdge(tx, targetRoleID, moduleID); err != nil {
			return err
		}

		key := audit.EdgeKey(targetRoleID, moduleID)
		if err = audit.Record(tx, models.RoleModule{}.TableName(), key, models.AuditDelete, actor.UserID, nil); err != nil {
			return err
		}

		if mod.ParentID == nil {
			return nil
		}

		// Cascade down: drop the parent edge once no sibling keeps it alive.
		return e.dropOrphanedParentEdge(tx, actor, targetRoleID, *mod.ParentID, moduleID)
	})
	if err != nil {
		return err
	}

	e.invalidate()

	return nil
}

// AssignTab grants the tab to the target role with the given permissions.
// Tabs have no children, so no cascade applies; the gate is the
// tabs-management tab.
func (e *Engine) AssignTab(actor Actor, targetRoleID, tabID uint, perms TokenSet) error {
	err := e.db.Transaction(func(tx *gorm.DB) error {
		if _, err := rolectl.GetByID(tx, targetRoleID); err != nil {
			return err
		}

		existing, err := assignment.GetTabEdge(tx, targetRoleID, tabID)
		if err != nil && !errors.Is(err, assignment.ErrEdgeNotFound) {
			return err
		}

		required := TokenCreate
		if existing != nil {
			required = TokenEdit
		}

		if err = e.authorize(tx, actor, e.gates.TabsTabID, required); err != nil {
			return err
		}

		if _, err = tabctl.GetByID(tx, tabID); err != nil {
			return err
		}

		if err = assignment.UpsertTabEdge(tx, targetRoleID, tabID, perms.Strings()); err != nil {
			return err
		}

		key := audit.EdgeKey(targetRoleID, tabID)
		if existing == nil {
			return audit.Record(tx, models.RoleTab{}.TableName(), key, models.AuditInsert, actor.UserID, nil)
		}

		return audit.Record(tx, models.RoleTab{}.TableName(), key, models.AuditUpdate, actor.UserID,
			permissionDiff(existing.Permissions, perms.Strings()))
	})
	if err != nil {
		return err
	}

	e.invalidate()

	return nil
}

// UnassignTab revokes the tab from the target role. Requires the
// "eliminar" token on the tabs-management tab.
func (e *Engine) UnassignTab(actor Actor, targetRoleID, tabID uint) error {
	err := e.db.Transaction(func(tx *gorm.DB) error {
		if _, err := rolectl.GetByID(tx, targetRoleID); err != nil {
			return err
		}

		if err := e.authorize(tx, actor, e.gates.TabsTabID, TokenDelete); err != nil {
			return err
		}

		if _, err := tabctl.GetByID(tx, tabID); err != nil {
			return err
		}

		_, err := assignment.GetTabEdge(tx, targetRoleID, tabID)
		if errors.Is(err, assignment.ErrEdgeNotFound) {
			return nil // already unassigned, no-op
		}

		if err != nil {
			return err
		}

		if err = assignment.RemoveTabEdge(tx, targetRoleID, tabID); err != nil {
			return err
		}

		key := audit.EdgeKey(targetRoleID, tabID)

		return audit.Record(tx, models.RoleTab{}.TableName(), key, models.AuditDelete, actor.UserID, nil)
	})
	if err != nil {
		return err
	}

	e.invalidate()

	return nil
}

// authorize checks one base token of the actor's role on a management tab
// and fails closed.
func (e *Engine) authorize(tx *gorm.DB, actor Actor, gateTabID uint, token string) error {
	perms, err := tabPermissions(tx, actor.RoleID, gateTabID)
	if err != nil {
		return err
	}

	if !perms.Has(token) {
		log.Warn().
			Uint("actor_role_id", actor.RoleID).
			Uint("gate_tab_id", gateTabID).
			Str("token", token).
			Msg("assignment mutation denied")

		return ErrNotAuthorized
	}

	return nil
}

// ensureParentEdge creates the parent edge with a NULL permission list
// when the role cannot reach the parent yet. An existing parent edge is
// left untouched. A dangling parent reference skips the cascade: the tree
// layer already degrades the child to its own route, an edge to a missing
// module would serve nothing.
func (e *Engine) ensureParentEdge(tx *gorm.DB, actor Actor, targetRoleID, parentID uint) error {
	if _, err := modulectl.GetByID(tx, parentID); err != nil {
		if errors.Is(err, modulectl.ErrModuleNotFound) {
			return nil
		}

		return err
	}

	_, err := assignment.GetModuleEdge(tx, targetRoleID, parentID)
	if err == nil {
		return nil
	}

	if !errors.Is(err, assignment.ErrEdgeNotFound) {
		return err
	}

	if err = assignment.UpsertModuleEdge(tx, targetRoleID, parentID, nil); err != nil {
		return err
	}

	key := audit.EdgeKey(targetRoleID, parentID)

	return audit.Record(tx, models.RoleModule{}.TableName(), key, models.AuditInsert, actor.UserID, nil)
}

// dropOrphanedParentEdge removes the parent edge when the just-removed
// child was the last assigned sibling.
func (e *Engine) dropOrphanedParentEdge(tx *gorm.DB, actor Actor, targetRoleID, parentID, removedModuleID uint) error {
	siblings, err := assignment.CountAssignedSiblings(tx, targetRoleID, parentID, removedModuleID)
	if err != nil {
		return err
	}

	if siblings > 0 {
		return nil
	}

	_, err = assignment.GetModuleEdge(tx, targetRoleID, parentID)
	if errors.Is(err, assignment.ErrEdgeNotFound) {
		return nil
	}

	if err != nil {
		return err
	}

	if err = assignment.RemoveModuleEdge(tx, targetRoleID, parentID); err != nil {
		return err
	}

	key := audit.EdgeKey(targetRoleID, parentID)

	return audit.Record(tx, models.RoleModule{}.TableName(), key, models.AuditDelete, actor.UserID, nil)
}

func (e *Engine) invalidate() {
	if e.cache == nil {
		return
	}

	e.cache.InvalidateModules()
	e.cache.InvalidateTabs()
}

// permissionDiff builds the audit change list for an UPDATE. It returns
// nil when the permission list did not change, so an idempotent re-assign
// records an UPDATE with no changes.
func permissionDiff(before models.StringList, after []string) models.FieldChangeList {
	if equalStrings([]string(before), after) {
		return nil
	}

	return models.FieldChangeList{{
		Field:  "permissions",
		Before: []string(before),
		After:  after,
	}}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
