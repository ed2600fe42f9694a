package output

import (
	"fmt"
	"io"
)

// RepoStatus is one row of the repository listing.
type RepoStatus struct {
	Slug   string
	Status string
}

// Formatter defines the interface for writing repository listings.
type Formatter interface {
	Format(w io.Writer, rows []RepoStatus) error
}

// New returns the formatter registered under name ("text" or "json").
func New(name string, color bool) (Formatter, error) {
	switch name {
	case "", "text":
		return &TextFormatter{Color: color}, nil
	case "json":
		return &JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown format %q (want text or json)", name)
	}
}
