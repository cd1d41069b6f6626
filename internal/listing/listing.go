// Package listing implements the ls output: a column-major name grid by
// default, or one metadata line per entry in long format.
package listing

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"sort"
	"strings"

	"github.com/stackvity/joshbox/internal/apperr"
	"github.com/stackvity/joshbox/internal/cache"
	"github.com/stackvity/joshbox/internal/config"
	"github.com/stackvity/joshbox/internal/filesystem"
)

// readBatch is how many names are pulled from the directory per call.
const readBatch = 256

// Entry is one name in a listing. Info is filled in only for long format.
type Entry struct {
	Name string
	Info fs.FileInfo
}

// Lister prints directory listings.
type Lister struct {
	FS         filesystem.FileSystem
	Names      cache.NameResolver
	Out        io.Writer
	Width      func() int
	MaxEntries int
	Logger     *slog.Logger
}

// NewLister creates a Lister. width is consulted once per grid listing.
func NewLister(fsys filesystem.FileSystem, names cache.NameResolver, out io.Writer, width func() int, maxEntries int, logger *slog.Logger) *Lister {
	return &Lister{
		FS:         fsys,
		Names:      names,
		Out:        out,
		Width:      width,
		MaxEntries: maxEntries,
		Logger:     logger,
	}
}

// List prints the contents of the directory at path. Nothing is written if
// the directory cannot be read.
func (l *Lister) List(path string, opts config.ListingOptions) error {
	names, err := l.ReadNames(path, opts.All)
	if err != nil {
		return err
	}
	sort.Strings(names)

	w := bufio.NewWriter(l.Out)
	if opts.Long {
		for _, name := range names {
			l.writeLong(w, path, name, opts.HumanReadable)
		}
	} else {
		l.writeGrid(w, names)
	}
	return w.Flush()
}

// ReadNames returns the unsorted names in the directory at path. Names
// starting with '.' are skipped unless all is set, in which case "." and
// ".." are included as well. At most MaxEntries names are returned.
func (l *Lister) ReadNames(path string, all bool) ([]string, error) {
	f, err := l.FS.Open(path)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindNotFoundOrAccess, err, "cannot open directory '%s'", path)
	}
	defer f.Close()

	limit := l.MaxEntries
	if limit <= 0 {
		limit = config.DefaultMaxEntries
	}

	names := make([]string, 0, 64)
	if all {
		names = append(names, ".", "..")
		if len(names) > limit {
			names = names[:limit]
		}
	}
	for len(names) < limit {
		batch, err := f.Readdirnames(readBatch)
		for _, name := range batch {
			if !all && strings.HasPrefix(name, ".") {
				continue
			}
			if len(names) >= limit {
				break
			}
			names = append(names, name)
		}
		if err == io.EOF || (err == nil && len(batch) == 0) {
			return names, nil
		}
		if err != nil {
			return nil, apperr.Wrap(apperr.KindNotFoundOrAccess, err, "cannot open directory '%s'", path)
		}
	}
	l.Logger.Debug("Listing reached the entry cap, remaining names dropped", "path", path, "maxEntries", limit)
	return names, nil
}

func (l *Lister) writeGrid(w io.Writer, names []string) {
	if len(names) == 0 {
		return
	}
	maxLen := 0
	for _, name := range names {
		if len(name) > maxLen {
			maxLen = len(name)
		}
	}
	rows, cols, colWidth := Layout(len(names), maxLen, l.Width())

	var line strings.Builder
	for row := 0; row < rows; row++ {
		line.Reset()
		for col := 0; col < cols; col++ {
			i := row + col*rows
			if i < len(names) {
				line.WriteString(padRight(names[i], colWidth))
			}
		}
		line.WriteByte('\n')
		io.WriteString(w, line.String())
	}
}

// writeLong prints one long-format line. Entries that cannot be stat'ed are
// skipped.
func (l *Lister) writeLong(w io.Writer, dir, name string, human bool) {
	full := joinEntry(dir, name)
	info, err := l.FS.Lstat(full)
	if err != nil {
		l.Logger.Debug("Skipping entry that cannot be stat'ed", "path", full, "error", err)
		return
	}
	fmt.Fprintln(w, l.FormatLong(Entry{Name: name, Info: info}, full, human))
}

// FormatLong renders the long-format line for e, without a trailing newline.
// full is the path used to read a symlink target.
func (l *Lister) FormatLong(e Entry, full string, human bool) string {
	owner, group := Placeholder, Placeholder
	nlink, uid, gid, ok := ownership(e.Info)
	if ok {
		if name, found := l.Names.UserName(uid); found {
			owner = name
		}
		if name, found := l.Names.GroupName(gid); found {
			group = name
		}
	}

	line := fmt.Sprintf("%s %3d %-8s %-8s %8s %s %s",
		FormatPermissions(e.Info.Mode()),
		nlink,
		owner,
		group,
		FormatSize(e.Info.Size(), human),
		e.Info.ModTime().Local().Format(TimeLayout),
		e.Name)

	if e.Info.Mode()&fs.ModeSymlink != 0 {
		if target, err := l.FS.Readlink(full); err == nil {
			line += " -> " + target
		}
	}
	return line
}

func joinEntry(dir, name string) string {
	if strings.HasSuffix(dir, "/") {
		return dir + name
	}
	return dir + "/" + name
}
