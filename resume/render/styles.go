package render

import (
	"fmt"
	"strings"
)

// RunStyle captures the text formatting of one resume element.
type RunStyle struct {
	Bold   bool
	Italic bool
	Size   int
	Color  string
}

const (
	HeadingColor = "1F2937"
	NameColor    = "111111"
	BodyColor    = "222222"
	HeadingSize  = 14
	NameSize     = 24
	BodySize     = 10
)

// StyleMap centralizes the formatting for key resume elements, keyed by CSS selector.
var StyleMap = map[string]RunStyle{
	"h1": {
		Bold:  true,
		Size:  NameSize,
		Color: NameColor,
	},
	"h2": {
		Bold:  true,
		Size:  HeadingSize,
		Color: HeadingColor,
	},
	".contact": {
		Italic: true,
		Size:   BodySize,
	},
	"body": {
		Size:  BodySize,
		Color: BodyColor,
	},
}

var styleOrder = []string{"body", "h1", "h2", ".contact"}

// css renders StyleMap into a stylesheet in a fixed selector order.
func css() string {
	var b strings.Builder
	b.WriteString("@page { size: A4; margin: 18mm 16mm; }\n")
	for _, sel := range styleOrder {
		st := StyleMap[sel]
		fmt.Fprintf(&b, "%s {", sel)
		if st.Bold {
			b.WriteString(" font-weight: bold;")
		}
		if st.Italic {
			b.WriteString(" font-style: italic;")
		}
		if st.Size > 0 {
			fmt.Fprintf(&b, " font-size: %dpt;", st.Size)
		}
		if st.Color != "" {
			fmt.Fprintf(&b, " color: #%s;", st.Color)
		}
		b.WriteString(" }\n")
	}
	b.WriteString("body { font-family: Helvetica, Arial, sans-serif; line-height: 1.35; }\n")
	b.WriteString("h2 { border-bottom: 1px solid #" + HeadingColor + "; margin: 14pt 0 4pt; }\n")
	b.WriteString("ul { margin: 2pt 0 6pt 14pt; padding: 0; }\np { margin: 2pt 0; }\n")
	return b.String()
}
