package search

import (
	"github.com/sahilm/fuzzy"

	"github.com/nikbrunner/bmtree/internal/tree"
)

// FolderResult represents a fuzzy search match.
type FolderResult struct {
	Folder         tree.FolderEntry
	MatchedIndexes []int
	Score          int
}

// folderPaths implements fuzzy.Source for folder entries.
type folderPaths []tree.FolderEntry

func (fp folderPaths) String(i int) string {
	return fp[i].Path
}

func (fp folderPaths) Len() int {
	return len(fp)
}

// FilterFolders matches folders by their path using fuzzy matching.
// Results are sorted by match score (best first); an empty query returns
// every folder in its original order.
func FilterFolders(folders []tree.FolderEntry, query string) []FolderResult {
	if query == "" {
		results := make([]FolderResult, len(folders))
		for i, f := range folders {
			results[i] = FolderResult{Folder: f}
		}
		return results
	}

	matches := fuzzy.FindFrom(query, folderPaths(folders))

	results := make([]FolderResult, len(matches))
	for i, m := range matches {
		results[i] = FolderResult{
			Folder:         folders[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}

	return results
}
