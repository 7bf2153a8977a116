package constants

import "strings"

// PageFileExtensions holds the allowed extensions for extracted page text.
var PageFileExtensions = map[string]struct{}{
	"txt": {},
}

// ReferenceFileExtensions holds the allowed extensions for reference tables.
var ReferenceFileExtensions = map[string]struct{}{
	"csv":  {},
	"xlsx": {},
	"xlsm": {},
}

// OutputCSVName is the default name for the combined export in a session
// or output directory.
const OutputCSVName = "combined_data.csv"

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
