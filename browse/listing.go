// Package browse supplies flat directory listings for the file browser
// panel. Only recognized video files are flagged playable; everything else
// is listed but not clickable.
package browse

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// videoExtensions is the fixed set of file extensions treated as playable.
var videoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".avi":  true,
	".mkv":  true,
	".wmv":  true,
	".flv":  true,
	".webm": true,
	".m4v":  true,
	".3gp":  true,
}

// Entry is one row of a directory listing.
type Entry struct {
	Name  string
	Path  string
	Size  int64
	IsDir bool
	// Video marks entries loadable into a grid slot.
	Video bool
}

// IsVideoFile reports whether the file name has a recognized video extension.
func IsVideoFile(name string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(name))]
}

// List returns the entries of dir, directories first, each group sorted by
// name case-insensitively. Hidden files are skipped.
func List(dir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var dirs, files []Entry
	for _, e := range dirEntries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		entry := Entry{
			Name:  name,
			Path:  filepath.Join(dir, name),
			IsDir: e.IsDir(),
		}
		if e.IsDir() {
			dirs = append(dirs, entry)
			continue
		}
		if info, err := e.Info(); err == nil {
			entry.Size = info.Size()
		}
		entry.Video = IsVideoFile(name)
		files = append(files, entry)
	}

	byName := func(entries []Entry) func(i, j int) bool {
		return func(i, j int) bool {
			return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
		}
	}
	sort.Slice(dirs, byName(dirs))
	sort.Slice(files, byName(files))

	return append(dirs, files...), nil
}

// Parent returns the parent directory of dir, or dir itself at the
// filesystem root.
func Parent(dir string) string {
	parent := filepath.Dir(dir)
	if parent == dir {
		return dir
	}
	return parent
}
