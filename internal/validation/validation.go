// Package validation checks labeled documents after the fact: it parses
// the document as XML and verifies that every marker span carries a
// well-formed, unique, sequential identifier.
//
// The core never parses the document it edits; this package is the
// independent cross-check used by operators once labeling is done.
package validation

import (
	"bytes"
	"fmt"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"github.com/dlclark/regexp2"

	"github.com/FocuswithJustin/ProseMark/core/errors"
)

// markerQuery selects every span element carrying an id attribute.
const markerQuery = `//span[@id]`

var (
	// idShape is the required marker id format: "s" plus exactly five digits.
	idShape = regexp2.MustCompile(`^s\d{5}$`, regexp2.None)
)

func init() {
	// Compile the query up front so a typo fails at startup, not mid-run.
	xpath.MustCompile(markerQuery)
}

// Report contains the result of verifying a labeled document.
type Report struct {
	MarkerCount int       // Number of marker spans found
	Sequential  bool      // True when ids run s00001..sNNNNN in document order
	Problems    []Problem // One entry per violation found
}

// Problem describes a single marker violation.
type Problem struct {
	ID      string // Marker id involved, if any
	Message string // Human-readable description
}

// Ok reports whether the document passed every check.
func (r *Report) Ok() bool {
	return len(r.Problems) == 0
}

// VerifyDocument parses data and checks every marker span in it. A parse
// failure is returned as an error; marker violations are collected in the
// report instead, so one bad id does not hide the rest.
func VerifyDocument(data []byte) (*Report, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "parsing labeled document")
	}

	nodes, err := xmlquery.QueryAll(doc, markerQuery)
	if err != nil {
		return nil, errors.Wrap(err, "querying markers")
	}

	report := &Report{MarkerCount: len(nodes), Sequential: true}
	seen := make(map[string]bool, len(nodes))

	for i, n := range nodes {
		id := n.SelectAttr("id")

		if ok, _ := idShape.MatchString(id); !ok {
			report.Sequential = false
			report.Problems = append(report.Problems, Problem{
				ID:      id,
				Message: "id does not match sNNNNN",
			})
			continue
		}

		if seen[id] {
			report.Sequential = false
			report.Problems = append(report.Problems, Problem{
				ID:      id,
				Message: "duplicate id",
			})
		}
		seen[id] = true

		if want := fmt.Sprintf("s%05d", i+1); id != want {
			report.Sequential = false
			report.Problems = append(report.Problems, Problem{
				ID:      id,
				Message: fmt.Sprintf("out of sequence: want %s", want),
			})
		}
	}

	return report, nil
}
