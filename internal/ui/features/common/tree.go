package common

import (
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/leapstack-labs/omnicatalog/internal/catalog"
)

// rootFolder holds view keys that carry no schema prefix.
const rootFolder = "(no schema)"

// BuildFileTree groups keys into one folder per schema prefix.
// e.g., "PUBLIC/orders.view" goes under "PUBLIC".
func BuildFileTree(keys []string) []TreeNode {
	folders := make(map[string]*TreeNode)

	for _, key := range keys {
		folder := ExtractFolder(key)

		if _, ok := folders[folder]; !ok {
			folders[folder] = &TreeNode{
				Name:     folder,
				Path:     folder,
				Type:     "folder",
				Children: []TreeNode{},
			}
		}

		folders[folder].Children = append(folders[folder].Children, TreeNode{
			Name: path.Base(key),
			Path: key,
			Type: "file",
		})
	}

	result := make([]TreeNode, 0, len(folders))
	for _, node := range folders {
		sort.Slice(node.Children, func(i, j int) bool {
			return node.Children[i].Name < node.Children[j].Name
		})
		result = append(result, *node)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// ExtractFolder returns the schema part of a file key.
// e.g., "PUBLIC/orders.view" -> "PUBLIC"
// e.g., "a/b/orders.view" -> "a/b"
func ExtractFolder(key string) string {
	i := strings.LastIndex(key, "/")
	if i <= 0 {
		return rootFolder
	}
	return key[:i]
}

// Itoa formats n in base 10.
func Itoa(n int) string {
	return strconv.Itoa(n)
}

// BuildSidebar lays out a model's files for the sidebar.
func BuildSidebar(files *catalog.FileList, currentKey string) SidebarData {
	return SidebarData{
		ModelID:      files.ModelID,
		Topics:       files.Topics,
		Views:        BuildFileTree(files.Views),
		Other:        files.Other(),
		Model:        files.Model,
		Relationship: files.Relationship,
		CurrentKey:   currentKey,
	}
}
