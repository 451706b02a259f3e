package render

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-yadex/yadex/pkg/listing"
	"github.com/spf13/afero"
)

// Templates holds the parsed index and error page templates. Template
// files are configured relative to the config file's directory and
// loaded once at startup.
type Templates struct {
	index *template.Template
	error *template.Template
}

// IndexData is what the index template renders: the listing of one
// directory plus the request path it was produced for.
type IndexData struct {
	Path           string
	Entries        []listing.Entry
	MaybeTruncated bool
}

// ErrorData feeds the error template. Message never contains resolved
// filesystem paths.
type ErrorData struct {
	Status  int
	Message string
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"humansize":  humanSize,
		"mtimestamp": mtimestamp,
	}
}

func humanSize(n int64) string {
	if n < 0 {
		return "0 B"
	}
	return humanize.IBytes(uint64(n))
}

func mtimestamp(ts int64) string {
	return time.Unix(ts, 0).UTC().Format("2006-01-02 15:04:05")
}

// Load parses the index and error templates from fsys. A nil fsys
// reads from the host filesystem.
func Load(fsys afero.Fs, indexPath, errorPath string) (*Templates, error) {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	index, err := parseOne(fsys, "index", indexPath)
	if err != nil {
		return nil, err
	}
	errTpl, err := parseOne(fsys, "error", errorPath)
	if err != nil {
		return nil, err
	}
	return &Templates{index: index, error: errTpl}, nil
}

func parseOne(fsys afero.Fs, name, path string) (*template.Template, error) {
	raw, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("load %s template from %s: %w", name, path, err)
	}
	tpl, err := template.New(name).Funcs(funcMap()).Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parse %s template: %w", name, err)
	}
	return tpl, nil
}

func (t *Templates) RenderIndex(w io.Writer, data IndexData) error {
	return t.index.Execute(w, data)
}

func (t *Templates) RenderError(w io.Writer, data ErrorData) error {
	return t.error.Execute(w, data)
}
