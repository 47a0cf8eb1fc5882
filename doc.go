// Package main provides the entry point for the intranet administration
// backend. It runs a web server using the Fiber framework that exposes the
// role/module/tab assignment engine, the annotated navigation trees and the
// admin CRUD endpoints around them. The application uses gorm for data
// persistence and records every assignment mutation in an append-only
// audit table.
package main
