package games

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestScan(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "snake", "chess", ".hidden")
	writeFile(t, filepath.Join(root, "README.md"), "not a game")
	writeFile(t, filepath.Join(root, ".DS_Store"), "")

	got, err := Scan(root)
	if err != nil {
		t.Fatalf("Scan(%q) failed: %v", root, err)
	}

	want := []Game{
		{Name: ".hidden", Path: filepath.Join(root, ".hidden")},
		{Name: "chess", Path: filepath.Join(root, "chess")},
		{Name: "snake", Path: filepath.Join(root, "snake")},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("wrong games (-want +got)\n%s", diff)
	}
}

func TestScanOnlyGames(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "chess", "snake")

	got, err := Scan(root)
	if err != nil {
		t.Fatalf("Scan(%q) failed: %v", root, err)
	}

	names := make([]string, len(got))
	for i, g := range got {
		names[i] = g.Name
	}
	if diff := cmp.Diff([]string{"chess", "snake"}, names); diff != "" {
		t.Errorf("wrong game names (-want +got)\n%s", diff)
	}
}

func TestScanEmptyRoot(t *testing.T) {
	got, err := Scan(t.TempDir())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if diff := cmp.Diff([]Game{}, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("wrong games (-want +got)\n%s", diff)
	}
}

func TestScanSymlinks(t *testing.T) {
	root := t.TempDir()
	elsewhere := t.TempDir()
	mkdirs(t, elsewhere, "tetris")

	if err := os.Symlink(filepath.Join(elsewhere, "tetris"), filepath.Join(root, "tetris")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	if err := os.Symlink(filepath.Join(elsewhere, "missing"), filepath.Join(root, "dangling")); err != nil {
		t.Fatal(err)
	}

	got, err := Scan(root)
	if err != nil {
		t.Fatalf("Scan(%q) failed: %v", root, err)
	}

	want := []Game{{Name: "tetris", Path: filepath.Join(root, "tetris")}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("wrong games (-want +got)\n%s", diff)
	}
}

func TestScanBadRoot(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	writeFile(t, file, "")

	testCases := []struct {
		name string
		root string
	}{
		{"missing", filepath.Join(dir, "missing")},
		{"regular file", file},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Scan(tc.root)
			if !errors.Is(err, ErrRoot) {
				t.Errorf("Scan(%q) returned %v, want ErrRoot", tc.root, err)
			}
		})
	}
}

func TestGameHref(t *testing.T) {
	testCases := []struct {
		name string
		want string
	}{
		{"chess", "/chess"},
		{"space invaders", "/space%20invaders"},
		{"a?b#c", "/a%3Fb%23c"},
	}

	for _, tc := range testCases {
		if got := (Game{Name: tc.name}).Href(); got != tc.want {
			t.Errorf("Game{Name: %q}.Href() = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func mkdirs(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.Mkdir(filepath.Join(root, name), 0o755); err != nil {
			t.Fatal(err)
		}
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
