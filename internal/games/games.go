// Package games discovers the games hosted by the server: the immediate
// subdirectories of a games root directory.
package games

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
)

// ErrRoot indicates that the games root itself could not be read. The server
// cannot start without it.
var ErrRoot = errors.New("games root is not a readable directory")

// Game is a directory discovered under the games root.
type Game struct {
	// Name is the directory name, which is also the first segment of the URL
	// path the game is served under.
	Name string
	// Path is the absolute filesystem path of the directory.
	Path string
}

// Href returns the URL path of the game's root.
func (g Game) Href() string {
	return "/" + url.PathEscape(g.Name)
}

// Scan returns the games found in root, sorted by name.
//
// Only directories are games. Symbolic links are followed, so a link to a
// directory counts as a game, while a dangling link is skipped. Names are not
// filtered otherwise; a directory named ".cache" is a game like any other.
func Scan(root string) ([]Game, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRoot, err)
	}

	// os.ReadDir sorts by filename, which gives the index page a stable order.
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRoot, err)
	}

	var games []Game
	for _, entry := range entries {
		ok, err := isDir(root, entry)
		if err != nil {
			return nil, err
		}
		if ok {
			games = append(games, Game{
				Name: entry.Name(),
				Path: filepath.Join(root, entry.Name()),
			})
		}
	}
	return games, nil
}

func isDir(root string, entry fs.DirEntry) (bool, error) {
	if entry.Type()&fs.ModeSymlink == 0 {
		return entry.IsDir(), nil
	}

	fi, err := os.Stat(filepath.Join(root, entry.Name()))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("resolving %s: %w", entry.Name(), err)
	default:
		return fi.IsDir(), nil
	}
}
