package formatter

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"text/template"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"
)

// DefaultTemplate renders a title followed by its emoji translation.
const DefaultTemplate = "{{.Title}} {{.Emoji}}"

// ItemView is the data available to feed line templates.
type ItemView struct {
	Title     string
	Link      string
	Author    string
	Published *time.Time
	Emoji     string
}

// FeedFormatter renders translated feed items as text lines.
type FeedFormatter struct {
	tmpl   *template.Template
	policy *bluemonday.Policy
}

// NewFeedFormatter parses tmplStr, falling back to DefaultTemplate when it is
// empty.
func NewFeedFormatter(tmplStr string) (*FeedFormatter, error) {
	if strings.TrimSpace(tmplStr) == "" {
		tmplStr = DefaultTemplate
	}
	tmpl, err := template.New("item").Funcs(template.FuncMap{
		"summarize": func(s string, length int) string {
			runes := []rune(s)
			if len(runes) < length {
				return s
			}
			return string(runes[:length]) + "..."
		},
		"escapeHTML": html.EscapeString,
	}).Parse(tmplStr)
	if err != nil {
		return nil, fmt.Errorf("parsing feed template: %w", err)
	}
	return &FeedFormatter{tmpl: tmpl, policy: bluemonday.StrictPolicy()}, nil
}

// PlainText strips all markup from s and decodes entities.
func (f *FeedFormatter) PlainText(s string) string {
	stripped := f.policy.Sanitize(s)
	return strings.Join(strings.Fields(html.UnescapeString(stripped)), " ")
}

// View builds the template data for item. The title is reduced to plain text.
func (f *FeedFormatter) View(item *gofeed.Item, emoji string) ItemView {
	v := ItemView{
		Title:     f.PlainText(item.Title),
		Link:      item.Link,
		Published: item.PublishedParsed,
		Emoji:     emoji,
	}
	if item.Author != nil {
		v.Author = item.Author.Name
	}
	return v
}

// Render executes the template for v.
func (f *FeedFormatter) Render(v ItemView) (string, error) {
	var buf bytes.Buffer
	if err := f.tmpl.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("executing feed template: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}
