package filters

import "github.com/pescuma/cvschanges/lib/model"

// FileFilter returns true for the files that match it.
type FileFilter func(*model.File) bool

// Exclude returns the files that do not match the filter.
func Exclude(files []*model.File, filter FileFilter) []*model.File {
	result := make([]*model.File, 0, len(files))
	for _, f := range files {
		if !filter(f) {
			result = append(result, f)
		}
	}
	return result
}
