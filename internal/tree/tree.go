// Package tree builds the navigation tree views served to the frontend:
// the two-level module tree with attached tabs, and the flattened list of
// modules that can host tabs, each annotated with its full route. Route
// concatenation tolerates dangling parent references so the navigation
// stays usable even after an out-of-band parent deletion.
package tree

import (
	"gorm.io/gorm"

	modulectl "github.com/GoIntranet-Admin/GoIntranet-Admin/internal/db/controller/module"
	tabctl "github.com/GoIntranet-Admin/GoIntranet-Admin/internal/db/controller/tab"
	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/db/models"
)

// TabNode is a tab inside a tree view.
type TabNode struct {
	ID               uint     `json:"id"`
	Name             string   `json:"name"`
	Route            string   `json:"route"`
	FullRoute        string   `json:"full_route"`
	ExtraPermissions []string `json:"extra_permissions,omitempty"`
}

// ModuleNode is a module inside a tree view, with resolved children and
// attached tabs.
type ModuleNode struct {
	ID               uint         `json:"id"`
	Name             string       `json:"name"`
	Icon             string       `json:"icon"`
	Route            string       `json:"route"`
	FullRoute        string       `json:"full_route"`
	IsParent         bool         `json:"is_parent"`
	ParentID         *uint        `json:"parent_id,omitempty"`
	ParentMissing    bool         `json:"parent_missing,omitempty"`
	ExtraPermissions []string     `json:"extra_permissions,omitempty"`
	Children         []ModuleNode `json:"children,omitempty"`
	Tabs             []TabNode    `json:"tabs,omitempty"`
}

// TabHost is a non-parent module offered as attachment point for tabs.
type TabHost struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	FullRoute     string `json:"full_route"`
	ParentMissing bool   `json:"parent_missing,omitempty"`
}

// FullRoute computes the full navigation route of a module by prefixing
// the parent's route fragment when the parent resolves. A set ParentID
// whose parent row is gone degrades to the module's own route and reports
// the dangling reference instead of failing.
func FullRoute(mod models.Module, parents map[uint]models.Module) (route string, parentMissing bool) {
	if mod.ParentID == nil {
		return mod.Route, false
	}

	parent, ok := parents[*mod.ParentID]
	if !ok {
		return mod.Route, true
	}

	return parent.Route + mod.Route, false
}

// ModuleTree loads the full module tree: parent modules with their
// children first, then the non-parent modules that stand on their own,
// each with its attached tabs. Children whose parent no longer resolves
// appear as standalone nodes flagged ParentMissing.
func ModuleTree(db *gorm.DB) ([]ModuleNode, error) {
	modules, err := modulectl.GetAll(db)
	if err != nil {
		return nil, err
	}

	tabs, err := tabctl.GetAll(db)
	if err != nil {
		return nil, err
	}

	parents := parentIndex(modules)
	tabsByModule := make(map[uint][]models.Tab)

	for _, t := range tabs {
		tabsByModule[t.ModuleID] = append(tabsByModule[t.ModuleID], t)
	}

	var roots []ModuleNode

	childrenByParent := make(map[uint][]ModuleNode)

	for _, mod := range modules {
		if mod.IsParent {
			continue
		}

		node := buildNode(mod, parents, tabsByModule)

		if mod.ParentID != nil && !node.ParentMissing {
			childrenByParent[*mod.ParentID] = append(childrenByParent[*mod.ParentID], node)
			continue
		}

		roots = append(roots, node)
	}

	for _, mod := range modules {
		if !mod.IsParent {
			continue
		}

		node := buildNode(mod, parents, tabsByModule)
		node.Children = childrenByParent[mod.ID]
		roots = append(roots, node)
	}

	return roots, nil
}

// TabHosts returns the modules a tab may attach to: all non-parent
// modules, annotated with their full route.
func TabHosts(db *gorm.DB) ([]TabHost, error) {
	modules, err := modulectl.GetAll(db)
	if err != nil {
		return nil, err
	}

	parents := parentIndex(modules)

	var hosts []TabHost

	for _, mod := range modules {
		if mod.IsParent {
			continue
		}

		route, missing := FullRoute(mod, parents)
		hosts = append(hosts, TabHost{
			ID:            mod.ID,
			Name:          mod.Name,
			FullRoute:     route,
			ParentMissing: missing,
		})
	}

	return hosts, nil
}

func parentIndex(modules []models.Module) map[uint]models.Module {
	parents := make(map[uint]models.Module)

	for _, mod := range modules {
		if mod.IsParent {
			parents[mod.ID] = mod
		}
	}

	return parents
}

func buildNode(mod models.Module, parents map[uint]models.Module, tabsByModule map[uint][]models.Tab) ModuleNode {
	route, missing := FullRoute(mod, parents)

	node := ModuleNode{
		ID:               mod.ID,
		Name:             mod.Name,
		Icon:             mod.Icon,
		Route:            mod.Route,
		FullRoute:        route,
		IsParent:         mod.IsParent,
		ParentID:         mod.ParentID,
		ParentMissing:    missing,
		ExtraPermissions: mod.ExtraPermissions,
	}

	for _, t := range tabsByModule[mod.ID] {
		node.Tabs = append(node.Tabs, TabNode{
			ID:               t.ID,
			Name:             t.Name,
			Route:            t.Route,
			FullRoute:        route + t.Route,
			ExtraPermissions: t.ExtraPermissions,
		})
	}

	return node
}
