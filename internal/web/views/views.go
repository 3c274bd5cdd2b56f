// Package views renders the HTML fragments returned to HTMX clients.
package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/costdraft/internal/tabular"
)

// ErrorAlert renders an inline error box.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<div class="alert alert-error" role="alert"><p class="alert-message">%s</p>`,
			templ.EscapeString(message))
		if err != nil {
			return err
		}
		if action != "" {
			if _, err := fmt.Fprintf(w, `<p class="alert-action">%s</p>`, templ.EscapeString(action)); err != nil {
				return err
			}
		}
		_, err = fmt.Fprintf(w, `<p class="alert-code">Code: %s</p></div>`, templ.EscapeString(code))
		return err
	})
}

// ImportSummary renders the outcome of a cost table import. presetID is
// empty when the table was not saved.
func ImportSummary(s tabular.Summary, presetID string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		ew := &errWriter{w: w}

		ew.printf(`<div class="import-summary">`)
		ew.printf(`<h3>%s</h3>`, templ.EscapeString(s.Name))
		ew.printf(`<ul class="import-counts">`)
		ew.printf(`<li>Characters updated: %d</li>`, s.CharactersUpdated)
		ew.printf(`<li>Light cones updated: %d</li>`, s.EquipmentUpdated)
		if s.IgnoredRows > 0 {
			ew.printf(`<li>Rows ignored: %d</li>`, s.IgnoredRows)
		}
		ew.printf(`</ul>`)

		unresolvedList(ew, "Unknown characters", s.UnresolvedCharacters, s.MoreCharacters)
		unresolvedList(ew, "Unknown light cones", s.UnresolvedEquipment, s.MoreEquipment)

		if presetID != "" {
			ew.printf(`<p class="import-saved" data-preset-id="%s">Saved as preset.</p>`, templ.EscapeString(presetID))
		}
		ew.printf(`</div>`)
		return ew.err
	})
}

func unresolvedList(ew *errWriter, title string, warnings []tabular.Warning, more int) {
	if len(warnings) == 0 {
		return
	}
	ew.printf(`<div class="import-warnings"><h4>%s</h4><ul>`, templ.EscapeString(title))
	for _, w := range warnings {
		ew.printf(`<li>%s <span class="row">row %d</span></li>`, templ.EscapeString(w.Label), w.Row)
	}
	if more > 0 {
		ew.printf(`<li class="more">and %d more</li>`, more)
	}
	ew.printf(`</ul></div>`)
}

// errWriter keeps the first write error so fragments can be written without
// checking every call.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
