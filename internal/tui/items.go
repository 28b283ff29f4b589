package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/leapstack-labs/omnicatalog/internal/catalog"
	"github.com/leapstack-labs/omnicatalog/internal/omni"
)

// modelItem is a row of the model list.
type modelItem struct {
	model omni.Model
}

func (i modelItem) Title() string { return i.model.Name }

func (i modelItem) Description() string {
	if i.model.UpdatedAt == "" {
		return i.model.ID
	}
	return fmt.Sprintf("%s, updated %s", i.model.ID, i.model.UpdatedAt)
}

func (i modelItem) FilterValue() string { return i.model.Name + " " + i.model.ID }

// fileRole says how a file is opened.
type fileRole string

const (
	roleTopic        fileRole = "topic"
	roleView         fileRole = "view"
	roleModel        fileRole = "model"
	roleRelationship fileRole = "relationships"
	roleOther        fileRole = "file"
)

// fileItem is a row of the file list.
type fileItem struct {
	key  string
	role fileRole
}

func (i fileItem) Title() string       { return i.key }
func (i fileItem) Description() string { return string(i.role) }
func (i fileItem) FilterValue() string { return i.key }

func modelItems(models []omni.Model) []list.Item {
	items := make([]list.Item, len(models))
	for i, m := range models {
		items[i] = modelItem{model: m}
	}
	return items
}

// fileItems lists the model file, relationships, topics, views and the
// rest, in that order.
func fileItems(files *catalog.FileList) []list.Item {
	var items []list.Item
	if files.Model != "" {
		items = append(items, fileItem{key: files.Model, role: roleModel})
	}
	if files.Relationship != "" {
		items = append(items, fileItem{key: files.Relationship, role: roleRelationship})
	}
	for _, key := range files.Topics {
		items = append(items, fileItem{key: key, role: roleTopic})
	}
	for _, key := range files.Views {
		items = append(items, fileItem{key: key, role: roleView})
	}
	for _, key := range files.Other() {
		items = append(items, fileItem{key: key, role: roleOther})
	}
	return items
}
