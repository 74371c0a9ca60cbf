// Package export renders stories into downloadable documents.
// Formatters are pure: same story in, same bytes out.
package export

import (
	"fmt"
	"html"
	"strings"

	"kothaboli/internal/model/story"
)

// Format a download format
type Format string

const (
	FormatText Format = "text"
	FormatHTML Format = "html"
	FormatDoc  Format = "doc"
)

// IsValid checks whether f is a supported format
func (f Format) IsValid() bool {
	switch f {
	case FormatText, FormatHTML, FormatDoc:
		return true
	}
	return false
}

// ContentType returns the MIME type served for the format
func (f Format) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatDoc:
		return "application/msword"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Extension returns the file extension for the format, without the dot
func (f Format) Extension() string {
	switch f {
	case FormatHTML:
		return "html"
	case FormatDoc:
		return "doc"
	default:
		return "txt"
	}
}

// Render serializes the story in the requested format
func Render(s *story.Story, f Format) ([]byte, error) {
	switch f {
	case FormatText:
		return renderText(s), nil
	case FormatHTML:
		return renderHTML(s), nil
	case FormatDoc:
		return renderDoc(s), nil
	}
	return nil, fmt.Errorf("unsupported export format: %q", f)
}

// Filename derives a download filename from the story title.
// Bengali titles survive unchanged; only path-hostile runes are replaced.
func Filename(title string, f Format) string {
	name := strings.TrimSpace(title)
	if name == "" {
		name = story.DefaultTitle
	}
	var b strings.Builder
	for _, r := range name {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	return b.String() + "." + f.Extension()
}

func renderText(s *story.Story) []byte {
	var b strings.Builder
	b.WriteString(s.Title)
	b.WriteString("\n")
	if s.Author != "" {
		b.WriteString(s.Author)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(s.Content)
	if !strings.HasSuffix(s.Content, "\n") {
		b.WriteString("\n")
	}
	return []byte(b.String())
}

const htmlStylesheet = `body { font-family: "Noto Serif Bengali", serif; max-width: 42em; margin: 2em auto; line-height: 1.8; color: #222; }
h1 { text-align: center; }
.author { text-align: center; font-style: italic; color: #555; }
p { text-indent: 1.5em; margin: 0 0 0.5em; }`

func renderHTML(s *story.Story) []byte {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"bn\">\n<head>\n<meta charset=\"utf-8\">\n")
	b.WriteString("<title>" + html.EscapeString(s.Title) + "</title>\n")
	b.WriteString("<style>\n" + htmlStylesheet + "\n</style>\n</head>\n<body>\n")
	writeBody(&b, s)
	b.WriteString("</body>\n</html>\n")
	return []byte(b.String())
}

// renderDoc emits Word-compatible HTML; Word opens it as a .doc document
func renderDoc(s *story.Story) []byte {
	var b strings.Builder
	b.WriteString("<html xmlns:o=\"urn:schemas-microsoft-com:office:office\" xmlns:w=\"urn:schemas-microsoft-com:office:word\">\n")
	b.WriteString("<head>\n<meta charset=\"utf-8\">\n")
	b.WriteString("<title>" + html.EscapeString(s.Title) + "</title>\n</head>\n<body>\n")
	writeBody(&b, s)
	b.WriteString("</body>\n</html>\n")
	return []byte(b.String())
}

// writeBody renders the shared title/author/paragraph body.
// Blank-line separated blocks become paragraphs; line breaks inside a
// block become <br>, which keeps dialogue lines on their own rows.
func writeBody(b *strings.Builder, s *story.Story) {
	b.WriteString("<h1>" + html.EscapeString(s.Title) + "</h1>\n")
	if s.Author != "" {
		b.WriteString("<p class=\"author\">" + html.EscapeString(s.Author) + "</p>\n")
	}
	for _, block := range strings.Split(s.Content, "\n\n") {
		block = strings.TrimRight(block, "\n")
		if strings.TrimSpace(block) == "" {
			continue
		}
		lines := strings.Split(block, "\n")
		for i, line := range lines {
			lines[i] = html.EscapeString(line)
		}
		b.WriteString("<p>" + strings.Join(lines, "<br>") + "</p>\n")
	}
}
