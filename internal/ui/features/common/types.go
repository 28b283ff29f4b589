// Package common provides shared types and utilities for UI features.
package common

// TreeNode is a node of the file tree: a folder or a file key.
type TreeNode struct {
	Name     string
	Path     string
	Type     string // "folder" or "file"
	Children []TreeNode
}

// SidebarData is what the model sidebar shows.
type SidebarData struct {
	ModelID      string
	Topics       []string
	Views        []TreeNode
	Other        []string
	Model        string
	Relationship string
	CurrentKey   string
}

// LenStr formats a count as "(n)".
func LenStr[T any](items []T) string {
	return "(" + Itoa(len(items)) + ")"
}
