package listing

// Entry describes one immediate child of a listed directory.
//
// Size is the raw stat size; for directories that is whatever the OS
// reports for the directory itself, not the recursive content size.
// Datetime is the last-modified time in Unix epoch seconds. Href is an
// absolute URL path and carries a trailing slash iff the entry is a
// directory.
type Entry struct {
	Name     string `json:"name"`
	IsDir    bool   `json:"is_dir"`
	Size     int64  `json:"size"`
	Href     string `json:"href"`
	Datetime int64  `json:"datetime"`
}

// Result is the outcome of scanning one directory. Entries is an
// unordered collection: the order is whatever the filesystem yielded,
// and callers must not rely on it. MaybeTruncated is true iff the
// directory held strictly more entries than the scan limit.
type Result struct {
	Entries        []Entry `json:"entries"`
	MaybeTruncated bool    `json:"maybe_truncated"`
}

// Request is the input of a listing call, as received from a URL path
// or a JSON body field.
type Request struct {
	Path string `json:"path"`
}
