package templates

import (
	"bytes"
	"context"
	"io"

	"github.com/a-h/templ"
)

// Message is the single layout every transactional email uses: a greeting, body
// paragraphs, an optional call to action and a signature.
type Message struct {
	Title       string
	Greeting    string
	Paragraphs  []string
	ActionURL   string
	ActionLabel string
	Details     []Detail
	Footnotes   []string
	Signature   string
}

// Detail is a labelled value rendered as a list item, e.g. "Budget: 500.00".
type Detail struct {
	Label string
	Value string
}

// Layout returns m as a templ component. All text is escaped; ActionURL is passed through
// templ.URL sanitization.
func Layout(m Message) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}

		p.raw(`<!DOCTYPE html><html><head><meta charset="utf-8"><title>`)
		p.text(m.Title)
		p.raw(`</title></head><body style="font-family:Arial,sans-serif;line-height:1.5">`)

		if m.Greeting != "" {
			p.raw(`<p>`)
			p.text(m.Greeting)
			p.raw(`</p>`)
		}
		for _, para := range m.Paragraphs {
			p.raw(`<p>`)
			p.text(para)
			p.raw(`</p>`)
		}
		if len(m.Details) > 0 {
			p.raw(`<ul>`)
			for _, d := range m.Details {
				p.raw(`<li>`)
				p.text(d.Label)
				p.raw(`: <b>`)
				p.text(d.Value)
				p.raw(`</b></li>`)
			}
			p.raw(`</ul>`)
		}
		if m.ActionURL != "" {
			href := string(templ.URL(m.ActionURL))
			p.raw(`<p><a href="`)
			p.text(href)
			p.raw(`" style="background:#4f46e5;color:#fff;padding:10px 16px;border-radius:6px;text-decoration:none">`)
			p.text(m.ActionLabel)
			p.raw(`</a></p><p>Or open this link: `)
			p.text(href)
			p.raw(`</p>`)
		}
		for _, note := range m.Footnotes {
			p.raw(`<p style="color:#6b7280">`)
			p.text(note)
			p.raw(`</p>`)
		}
		if m.Signature != "" {
			p.raw(`<p>`)
			p.text(m.Signature)
			p.raw(`</p>`)
		}
		p.raw(`</body></html>`)

		return p.err
	})
}

// printer keeps the first write error so Layout reads top to bottom.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) raw(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

func (p *printer) text(s string) {
	p.raw(templ.EscapeString(s))
}

// Render returns the HTML produced by c.
func Render(ctx context.Context, c templ.Component) (string, error) {
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
