// Package models provides the model page and its file and topic views.
package models

// Route patterns. File keys may contain "/", so they are matched by the
// trailing wildcard.
const (
	modelPath  = "/models/{id}"
	filesPath  = modelPath + "/files/*"
	topicsPath = modelPath + "/topics/*"
)
