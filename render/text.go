package render

import (
	"fmt"
	"io"
	"strings"
)

// Text renders v as plain text for terminals
func Text(w io.Writer, v *View) error {
	var b strings.Builder

	if v.Problem != nil {
		fmt.Fprintf(&b, "%s\n%s\n", v.Problem.Title, v.Problem.Message)
		_, err := io.WriteString(w, b.String())
		return err
	}

	fmt.Fprintf(&b, "%s\n%s\n", v.Title, v.Subtitle)
	fmt.Fprintf(&b, "%s: %s\n", v.WeightLabel, v.Weight)
	if v.RouteBadge != "" {
		fmt.Fprintf(&b, "[%s]\n", v.RouteBadge)
	}

	if len(v.Facts) > 0 {
		b.WriteString("\n")
		for _, f := range v.Facts {
			fmt.Fprintf(&b, "%s: %s", f.Label, f.Value)
			if f.Note != "" {
				fmt.Fprintf(&b, " (%s)", f.Note)
			}
			b.WriteString("\n")
		}
	}

	fmt.Fprintf(&b, "\n%s\n", v.PlanHeading)
	if v.Selection != "" {
		fmt.Fprintf(&b, "%s\n", v.Selection)
	}
	for _, l := range v.Lines {
		fmt.Fprintf(&b, "  - %s", l.Name)
		if l.Detail != "" {
			fmt.Fprintf(&b, " %s", l.Detail)
		}
		fmt.Fprintf(&b, ": %s\n", l.Badge)
		for _, extra := range l.Extra {
			fmt.Fprintf(&b, "      %s\n", extra)
		}
	}

	if len(v.Notes) > 0 {
		fmt.Fprintf(&b, "\n%s\n", v.NotesHeading)
		for _, n := range v.Notes {
			fmt.Fprintf(&b, "  * %s\n", n)
		}
	}

	fmt.Fprintf(&b, "\n%s %s\n", v.InstructionsLabel, v.Instructions)

	_, err := io.WriteString(w, b.String())
	return err
}
