// Package auth implements the access-control core of the intranet admin
// backend: validated permission tokens, the per-node permission resolver,
// and the cascade assignment engine that grants or revokes parts of the
// navigation tree to a role.
//
// # Permission model
//
// Access is granted per role and per navigation node (module or tab)
// through assignment edges. Every edge optionally carries a set of
// permission tokens; the three base tokens "crear", "editar" and
// "eliminar" exist at every node and nodes may declare extra free-form
// tokens. A token is a lower-case, underscore-separated string; TokenSet
// is the validated set type used everywhere above the storage layer.
//
// # Resolver
//
// Service.ModulePermissions and Service.TabPermissions resolve the
// effective token set of a role at one node. They are cheap point lookups
// with no side effects and return the empty set when no edge exists. The
// rest of the system gates every feature on these lookups, e.g. "may this
// role create tabs" is TokenCreate on the tabs-management tab.
//
// # Cascade engine
//
// Engine mutates assignment edges inside one transaction per request while
// keeping the tree reachable: assigning a child module creates the parent
// edge when missing (with no operational permission), and unassigning the
// last child of a parent removes the parent edge as well. Every edge
// mutation is recorded in the audit trail within the same transaction.
// The acting user and role are threaded explicitly into each call; the
// engine never reads ambient session state.
//
// # Middleware
//
// RequireToken protects admin routes by resolving the session actor and
// checking one base token on a management tab before the handler runs.
package auth
