// Package report provides a hierarchical memory usage report for a
// component tree.
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// MemReport is one component's usage with its children nested below.
type MemReport struct {
	Name       string      `json:"name"`
	TotalBytes int         `json:"total_bytes"`
	Children   []MemReport `json:"children,omitempty"`
}

// Sum builds a parent node whose total is the children's sum.
func Sum(name string, children ...MemReport) MemReport {
	total := 0
	for _, c := range children {
		total += c.TotalBytes
	}
	return MemReport{Name: name, TotalBytes: total, Children: children}
}

// Print formats and prints the MemReport as a tree.
func (r MemReport) Print(indent int) {
	fmt.Print(r.render(indent))
}

// JSON returns a JSON string representation of the MemReport.
func (r MemReport) JSON() string {
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Sprintf(`{"error": %q}`, err.Error())
	}
	return string(b)
}

// String returns a string representation of the MemReport as a tree.
func (r MemReport) String() string {
	return r.render(0)
}

func (r MemReport) render(indent int) string {
	var sb strings.Builder
	r.buildString(&sb, indent)
	return sb.String()
}

func (r MemReport) buildString(sb *strings.Builder, indent int) {
	prefix := strings.Repeat("  ", indent)
	fmt.Fprintf(sb, "%s- %s: %s (%d bytes)\n",
		prefix, r.Name, humanize.Bytes(uint64(r.TotalBytes)), r.TotalBytes)
	for _, child := range r.Children {
		child.buildString(sb, indent+1)
	}
}
