package codetree

import (
	"strings"
)

// BuildDiffMap records every changed file and rolls its additions, deletions and a
// change count up into each of its ancestor folders. Only sums are accumulated, so
// the result does not depend on the order of files.
func BuildDiffMap(files []ChangedFile) DiffMap {
	diff := make(DiffMap)
	for _, file := range files {
		diff[file.Filename] = &DiffInfo{
			Action:    file.Status,
			Filename:  file.Filename,
			SHA:       file.SHA,
			Additions: file.Additions,
			Deletions: file.Deletions,
		}

		idx := strings.LastIndex(file.Filename, "/")
		if idx <= 0 {
			// top level files have no folder to roll up into
			continue
		}

		var folder string
		for _, segment := range strings.Split(file.Filename[:idx], "/") {
			if folder == "" {
				folder = segment
			} else {
				folder = folder + "/" + segment
			}

			if info, ok := diff[folder]; ok {
				info.Additions += file.Additions
				info.Deletions += file.Deletions
				info.Changes++
				continue
			}
			diff[folder] = &DiffInfo{
				Additions: file.Additions,
				Deletions: file.Deletions,
				Changes:   1,
			}
		}
	}
	return diff
}

// FilterTree keeps the entries present in diff, annotating each with its DiffInfo.
// Input order is preserved and entries are copied, never modified in place.
func FilterTree(entries []TreeEntry, diff DiffMap) []TreeEntry {
	var filtered []TreeEntry
	for _, entry := range entries {
		info, ok := diff[entry.Path]
		if !ok {
			continue
		}
		entry.Patch = info
		filtered = append(filtered, entry)
	}
	return filtered
}
