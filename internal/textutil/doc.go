// Package textutil holds small text helpers shared by the planner and the
// CLI, chiefly filename sanitization for generated track files.
package textutil
