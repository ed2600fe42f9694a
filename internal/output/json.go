package output

import (
	"encoding/json"
	"io"
)

// JSONFormatter outputs the listing as a JSON array.
type JSONFormatter struct{}

type jsonRepo struct {
	Slug   string `json:"slug"`
	Status string `json:"status"`
}

// Format writes rows as a pretty-printed JSON array.
// An empty listing produces [].
func (f *JSONFormatter) Format(w io.Writer, rows []RepoStatus) error {
	items := make([]jsonRepo, 0, len(rows))
	for _, r := range rows {
		items = append(items, jsonRepo{Slug: r.Slug, Status: r.Status})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}
