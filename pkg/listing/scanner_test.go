package listing_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-yadex/yadex/pkg/listing"
	"github.com/spf13/afero"
)

func newTestFs(t *testing.T) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	if err := fsys.MkdirAll("/srv/www/docs/c", 0o755); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fsys, "/srv/www/docs/a.txt", make([]byte, 10), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fsys, "/srv/www/docs/b.txt", make([]byte, 20), 0o644); err != nil {
		t.Fatal(err)
	}
	return fsys
}

var docsLoc = listing.Resolved{FSPath: "/srv/www/docs", HrefPrefix: "/docs/"}

func TestScanListsAllEntries(t *testing.T) {
	scanner := listing.NewScanner(newTestFs(t))

	result, err := scanner.Scan(context.Background(), docsLoc, 10)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if result.MaybeTruncated {
		t.Error("MaybeTruncated = true; want false")
	}
	if len(result.Entries) != 3 {
		t.Fatalf("got %d entries; want 3", len(result.Entries))
	}

	want := map[string]listing.Entry{
		"a.txt": {Name: "a.txt", IsDir: false, Size: 10, Href: "/docs/a.txt"},
		"b.txt": {Name: "b.txt", IsDir: false, Size: 20, Href: "/docs/b.txt"},
		"c":     {Name: "c", IsDir: true, Href: "/docs/c/"},
	}
	for _, e := range result.Entries {
		w, ok := want[e.Name]
		if !ok {
			t.Errorf("unexpected entry %q", e.Name)
			continue
		}
		if e.IsDir != w.IsDir || e.Href != w.Href {
			t.Errorf("entry %q = %+v; want is_dir=%v href=%q", e.Name, e, w.IsDir, w.Href)
		}
		if !e.IsDir && e.Size != w.Size {
			t.Errorf("entry %q size = %d; want %d", e.Name, e.Size, w.Size)
		}
		delete(want, e.Name)
	}
	for name := range want {
		t.Errorf("entry %q missing from result", name)
	}
}

func TestScanTruncation(t *testing.T) {
	scanner := listing.NewScanner(newTestFs(t))
	valid := map[string]struct{}{"a.txt": {}, "b.txt": {}, "c": {}}

	tests := []struct {
		name          string
		limit         int
		wantLen       int
		wantTruncated bool
	}{
		{"limit above size", 10, 3, false},
		{"limit below size", 2, 2, true},
		{"limit equal to size", 3, 3, false},
		{"limit one", 1, 1, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := scanner.Scan(context.Background(), docsLoc, tc.limit)
			if err != nil {
				t.Fatalf("Scan failed: %v", err)
			}
			if len(result.Entries) != tc.wantLen {
				t.Errorf("got %d entries; want %d", len(result.Entries), tc.wantLen)
			}
			if result.MaybeTruncated != tc.wantTruncated {
				t.Errorf("MaybeTruncated = %v; want %v", result.MaybeTruncated, tc.wantTruncated)
			}
			for _, e := range result.Entries {
				if _, ok := valid[e.Name]; !ok {
					t.Errorf("unexpected entry %q", e.Name)
				}
			}
		})
	}
}

func TestScanHrefSlashProperty(t *testing.T) {
	scanner := listing.NewScanner(newTestFs(t))

	result, err := scanner.Scan(context.Background(), docsLoc, 10)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	for _, e := range result.Entries {
		if e.IsDir != strings.HasSuffix(e.Href, "/") {
			t.Errorf("entry %q: is_dir=%v but href=%q", e.Name, e.IsDir, e.Href)
		}
	}
}

func TestScanDatetime(t *testing.T) {
	fsys := newTestFs(t)
	mtime := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	if err := fsys.Chtimes("/srv/www/docs/a.txt", mtime, mtime); err != nil {
		t.Fatal(err)
	}
	scanner := listing.NewScanner(fsys)

	result, err := scanner.Scan(context.Background(), docsLoc, 10)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	for _, e := range result.Entries {
		if e.Datetime < 0 {
			t.Errorf("entry %q has negative datetime %d", e.Name, e.Datetime)
		}
		if e.Name == "a.txt" && e.Datetime != mtime.Unix() {
			t.Errorf("a.txt datetime = %d; want %d", e.Datetime, mtime.Unix())
		}
	}
}

func TestScanEscapesHrefNames(t *testing.T) {
	fsys := newTestFs(t)
	if err := afero.WriteFile(fsys, "/srv/www/docs/with space.txt", []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	scanner := listing.NewScanner(fsys)

	result, err := scanner.Scan(context.Background(), docsLoc, 10)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	for _, e := range result.Entries {
		if e.Name == "with space.txt" {
			if e.Href != "/docs/with%20space.txt" {
				t.Errorf("href = %q; want %q", e.Href, "/docs/with%20space.txt")
			}
			return
		}
	}
	t.Error("entry \"with space.txt\" missing from result")
}

func TestScanMissingDirectory(t *testing.T) {
	scanner := listing.NewScanner(newTestFs(t))

	loc := listing.Resolved{FSPath: "/srv/www/nope", HrefPrefix: "/nope/"}
	if _, err := scanner.Scan(context.Background(), loc, 10); !errors.Is(err, listing.ErrNotFound) {
		t.Errorf("Scan on missing directory error = %v; want ErrNotFound", err)
	}
}

func TestScanRejectsNonPositiveLimit(t *testing.T) {
	scanner := listing.NewScanner(newTestFs(t))
	for _, limit := range []int{0, -1} {
		if _, err := scanner.Scan(context.Background(), docsLoc, limit); err == nil {
			t.Errorf("Scan with limit %d succeeded; want error", limit)
		}
	}
}

func TestScanCanceledContext(t *testing.T) {
	scanner := listing.NewScanner(newTestFs(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := scanner.Scan(ctx, docsLoc, 10); !errors.Is(err, context.Canceled) {
		t.Errorf("Scan with canceled context error = %v; want context.Canceled", err)
	}
}

// flakyFs fails Stat for a single name, standing in for an entry
// removed between enumeration and stat.
type flakyFs struct {
	afero.Fs
	fail string
}

func (f flakyFs) Stat(name string) (os.FileInfo, error) {
	if strings.HasSuffix(name, f.fail) {
		return nil, os.ErrPermission
	}
	return f.Fs.Stat(name)
}

func TestScanSkipsUnreadableEntry(t *testing.T) {
	scanner := listing.NewScanner(flakyFs{Fs: newTestFs(t), fail: "b.txt"})

	result, err := scanner.Scan(context.Background(), docsLoc, 10)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(result.Entries) != 2 {
		t.Fatalf("got %d entries; want 2 (b.txt skipped)", len(result.Entries))
	}
	for _, e := range result.Entries {
		if e.Name == "b.txt" {
			t.Error("unreadable entry b.txt present in result")
		}
	}
}
