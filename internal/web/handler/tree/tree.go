// Package tree provides the HTTP endpoints serving the navigation trees,
// annotated with the assignment state of a role.
package tree

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/auth"
	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/config"
	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/db/controller/assignment"
	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/db/models"
	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/tree"
	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/web/handler"
)

const (
	// Path is the base path for tree reads.
	Path = handler.RootPath + "tree"

	// RouteModules serves the annotated module tree.
	RouteModules = Path + "/modules"
	// RouteTabs serves the annotated tab tree.
	RouteTabs = Path + "/tabs"

	// QueryRoleID is the query parameter selecting the role whose
	// assignments annotate the tree.
	QueryRoleID = "role_id"
)

// Module is a module tree node annotated with one role's assignment state.
type Module struct {
	tree.ModuleNode
	Assigned            bool     `json:"assigned"`
	PermissionsAssigned []string `json:"permissions_assigned"`
	AnnotatedChildren   []Module `json:"children,omitempty"`
	AnnotatedTabs       []Tab    `json:"tabs,omitempty"`
}

// Tab is a tab tree node annotated with one role's assignment state.
type Tab struct {
	tree.TabNode
	Assigned            bool     `json:"assigned"`
	PermissionsAssigned []string `json:"permissions_assigned"`
}

// Service exposes the tree endpoints. Reads go through the tree cache;
// the per-role annotation is applied on top of the cached payload.
type Service struct {
	cfg   *config.Config
	db    *gorm.DB
	cache *tree.Cache
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, cache *tree.Cache) {
	if app == nil || cfg == nil || db == nil || cache == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db
	s.cache = cache

	app.Get(RouteModules, auth.ResolveActor(), s.Modules)
	app.Get(RouteTabs, auth.ResolveActor(), s.Tabs)
}

// Modules serves the module tree annotated with the given role's
// assignments. Without a role_id every node reports unassigned defaults.
func (s *Service) Modules(c *fiber.Ctx) error {
	roleID := uint(c.QueryInt(QueryRoleID, 0))

	nodes, err := s.cache.ModuleTree()
	if err != nil {
		log.Error().Err(err).Msg("failed to load module tree")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": handler.ErrMsgInternal})
	}

	moduleEdges, tabEdges, err := s.roleEdges(roleID)
	if err != nil {
		log.Error().Err(err).Uint("role_id", roleID).Msg("failed to load role edges")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": handler.ErrMsgInternal})
	}

	out := make([]Module, 0, len(nodes))
	for _, node := range nodes {
		out = append(out, annotate(node, moduleEdges, tabEdges))
	}

	return c.JSON(fiber.Map{"tree": out})
}

// Tabs serves the tabs of the modules already assigned to the role,
// grouped under their owning module and parent. A role without module
// assignments gets an empty tree: tabs only ever show up below reachable
// modules.
func (s *Service) Tabs(c *fiber.Ctx) error {
	roleID := uint(c.QueryInt(QueryRoleID, 0))

	nodes, err := s.cache.ModuleTree()
	if err != nil {
		log.Error().Err(err).Msg("failed to load module tree")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": handler.ErrMsgInternal})
	}

	moduleEdges, tabEdges, err := s.roleEdges(roleID)
	if err != nil {
		log.Error().Err(err).Uint("role_id", roleID).Msg("failed to load role edges")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": handler.ErrMsgInternal})
	}

	out := make([]Module, 0)

	for _, node := range nodes {
		annotated := annotate(node, moduleEdges, tabEdges)
		pruned, keep := pruneUnassigned(annotated)

		if keep {
			out = append(out, pruned)
		}
	}

	return c.JSON(fiber.Map{"tree": out})
}

func (s *Service) roleEdges(roleID uint) (map[uint]models.RoleModule, map[uint]models.RoleTab, error) {
	if roleID == 0 {
		return nil, nil, nil
	}

	moduleEdges, err := assignment.GetModuleEdgesByRole(s.db, roleID)
	if err != nil {
		return nil, nil, err
	}

	tabEdges, err := assignment.GetTabEdgesByRole(s.db, roleID)
	if err != nil {
		return nil, nil, err
	}

	return moduleEdges, tabEdges, nil
}

// annotate recursively marks a cached tree node with the role's
// assignment state without mutating the cached payload.
func annotate(node tree.ModuleNode, moduleEdges map[uint]models.RoleModule, tabEdges map[uint]models.RoleTab) Module {
	out := Module{
		ModuleNode:          node,
		PermissionsAssigned: []string{},
	}

	// children/tab slices of the embedded node are re-rendered annotated
	out.Children = nil
	out.Tabs = nil

	if edge, ok := moduleEdges[node.ID]; ok {
		out.Assigned = true
		out.PermissionsAssigned = permissionsOrEmpty(edge.Permissions)
	}

	for _, child := range node.Children {
		out.AnnotatedChildren = append(out.AnnotatedChildren, annotate(child, moduleEdges, tabEdges))
	}

	for _, t := range node.Tabs {
		annotatedTab := Tab{
			TabNode:             t,
			PermissionsAssigned: []string{},
		}

		if edge, ok := tabEdges[t.ID]; ok {
			annotatedTab.Assigned = true
			annotatedTab.PermissionsAssigned = permissionsOrEmpty(edge.Permissions)
		}

		out.AnnotatedTabs = append(out.AnnotatedTabs, annotatedTab)
	}

	return out
}

// pruneUnassigned drops every subtree the role cannot reach, keeping only
// assigned modules and their tabs.
func pruneUnassigned(node Module) (Module, bool) {
	kept := make([]Module, 0, len(node.AnnotatedChildren))

	for _, child := range node.AnnotatedChildren {
		if pruned, keep := pruneUnassigned(child); keep {
			kept = append(kept, pruned)
		}
	}

	node.AnnotatedChildren = kept

	if node.Assigned || len(kept) > 0 {
		return node, true
	}

	return Module{}, false
}

func permissionsOrEmpty(perms models.StringList) []string {
	if perms == nil {
		return []string{}
	}

	return perms
}
