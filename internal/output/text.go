package output

import (
	"fmt"
	"io"
)

// TextFormatter writes one tab-separated "slug<TAB>status" line per row.
// When Color is true, the status is printed in green, yellow or cyan.
type TextFormatter struct {
	Color bool
}

var statusColors = map[string]string{
	"sample":   "\033[32m",
	"missing":  "\033[33m",
	"unlisted": "\033[36m",
}

// Format writes rows in listing order.
func (f *TextFormatter) Format(w io.Writer, rows []RepoStatus) error {
	for _, r := range rows {
		var err error
		if code, ok := statusColors[r.Status]; ok && f.Color {
			_, err = fmt.Fprintf(w, "%s\t%s%s\033[0m\n", r.Slug, code, r.Status)
		} else {
			_, err = fmt.Fprintf(w, "%s\t%s\n", r.Slug, r.Status)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
