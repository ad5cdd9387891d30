package tracking

import (
	"maps"
	"slices"
	"strings"
	"time"

	"atelier/internal/pkg/errs"
)

// FileRef points at an uploaded photo or document. Only the URL is stored.
type FileRef struct {
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	Kind       string    `json:"kind"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// WorkData is the department form: free form fields plus file references.
type WorkData struct {
	Fields map[string]any `json:"fields"`
	Files  []FileRef      `json:"files"`
}

func EmptyWorkData() WorkData {
	return WorkData{Fields: map[string]any{}, Files: []FileRef{}}
}

// Clone returns a copy that shares no maps or slices with w.
func (w WorkData) Clone() WorkData {
	out := WorkData{Fields: maps.Clone(w.Fields), Files: slices.Clone(w.Files)}
	if out.Fields == nil {
		out.Fields = map[string]any{}
	}
	if out.Files == nil {
		out.Files = []FileRef{}
	}
	return out
}

// Merge overwrites fields key by key, drops keys set to nil and appends files.
func (w WorkData) Merge(fields map[string]any, files []FileRef) (WorkData, error) {
	out := w.Clone()
	for k, v := range fields {
		key := strings.TrimSpace(k)
		if key == "" {
			return WorkData{}, errs.NewValueIsRequiredError("work data field name")
		}
		if v == nil {
			delete(out.Fields, key)
			continue
		}
		out.Fields[key] = v
	}
	for _, f := range files {
		if strings.TrimSpace(f.URL) == "" {
			return WorkData{}, errs.NewValueIsRequiredError("file url")
		}
		out.Files = append(out.Files, f)
	}
	return out, nil
}

// HasValue reports whether field holds a non-empty value or a file of that kind exists.
func (w WorkData) HasValue(field string) bool {
	if v, ok := w.Fields[field]; ok && v != nil {
		if s, isString := v.(string); isString {
			return strings.TrimSpace(s) != ""
		}
		return true
	}
	for _, f := range w.Files {
		if f.Kind == field {
			return true
		}
	}
	return false
}
