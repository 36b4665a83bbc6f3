// Package combobox implements autocomplete over a fixed candidate
// vocabulary with an escape-hatch entry for adding an unknown value.
package combobox

import (
	"fmt"
	"strings"

	"quotedesk/internal/filter"
)

// DefaultLimit caps the number of matching candidates returned.
const DefaultLimit = 10

// DefaultAddNewLabel is the text of the add-new entry.
const DefaultAddNewLabel = "Add New"

// Options tune Suggest. Zero values select the defaults.
type Options struct {
	Limit       int
	AddNewLabel string
}

func (o Options) withDefaults() Options {
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	if o.AddNewLabel == "" {
		o.AddNewLabel = DefaultAddNewLabel
	}
	return o
}

// Suggestion is one entry of the dropdown.
type Suggestion struct {
	Label  string // what the list shows
	Value  string // what selecting it puts in the field
	AddNew bool
}

// AddNewText formats the label of the add-new entry for input.
func AddNewText(label, input string) string {
	return fmt.Sprintf("+ %s: \"%s\"", label, input)
}

// Suggest returns up to opts.Limit candidates whose lowercase form contains
// the lowercase input, in candidate order. An add-new entry is appended when
// input is non-empty and equals no candidate case-insensitively.
func Suggest(candidates []string, input string, opts Options) []Suggestion {
	opts = opts.withDefaults()
	needle := strings.ToLower(input)

	out := make([]Suggestion, 0, opts.Limit+1)
	for _, c := range candidates {
		if len(out) == opts.Limit {
			break
		}
		if filter.ContainsFold(c, needle) {
			out = append(out, Suggestion{Label: c, Value: c})
		}
	}

	if input != "" {
		if _, exact := ExactMatch(candidates, input); !exact {
			out = append(out, Suggestion{
				Label:  AddNewText(opts.AddNewLabel, input),
				Value:  input,
				AddNew: true,
			})
		}
	}
	return out
}

// Labels returns the label of each suggestion.
func Labels(s []Suggestion) []string {
	out := make([]string, len(s))
	for i := range s {
		out[i] = s[i].Label
	}
	return out
}

// ExactMatch returns the candidate equal to input ignoring case.
func ExactMatch(candidates []string, input string) (string, bool) {
	needle := strings.ToLower(input)
	for _, c := range candidates {
		if strings.ToLower(c) == needle {
			return c, true
		}
	}
	return "", false
}
