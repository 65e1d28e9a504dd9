package render

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// HTML renders the bubble for the web page: the message with newlines kept
// as line breaks, details as a list and the link as an anchor. Content is
// escaped first, so sheet text renders literally and raw HTML shows as text.
func HTML(b Bubble) (string, error) {
	var src strings.Builder
	src.WriteString(escapeMarkdown(b.Message))
	if len(b.Details) > 0 {
		src.WriteString("\n\n")
		for _, d := range b.Details {
			src.WriteString("- ")
			src.WriteString(escapeMarkdown(strings.ReplaceAll(d, "\n", " ")))
			src.WriteString("\n")
		}
	}
	if b.Link != nil {
		fmt.Fprintf(&src, "\n\n[%s](<%s>)\n", escapeInline(b.Link.Label), b.Link.URL)
	}

	var buf bytes.Buffer
	if err := md.Convert([]byte(src.String()), &buf); err != nil {
		return "", fmt.Errorf("converting bubble: %w", err)
	}
	return buf.String(), nil
}

var (
	urlRE         = regexp.MustCompile("https?://[^\\s<>`]+")
	listMarker    = regexp.MustCompile(`^([-+=])`)
	orderedMarker = regexp.MustCompile(`^(\d+)([.)])`)

	inlineEscaper = strings.NewReplacer(
		`\`, `\\`, "*", `\*`, "_", `\_`, "[", `\[`, "]", `\]`,
		"<", `\<`, ">", `\>`, "`", "\\`", "~", `\~`, "#", `\#`, "&", `\&`,
	)
)

// escapeMarkdown makes every line of s render as plain text. Leading
// indentation is dropped so no line becomes a code block.
func escapeMarkdown(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		line = escapeInline(strings.TrimLeft(line, " \t"))
		line = listMarker.ReplaceAllString(line, `\$1`)
		lines[i] = orderedMarker.ReplaceAllString(line, `$1\$2`)
	}
	return strings.Join(lines, "\n")
}

// escapeInline escapes inline markup outside URLs, which stay intact for
// linkify.
func escapeInline(s string) string {
	var b strings.Builder
	last := 0
	for _, m := range urlRE.FindAllStringIndex(s, -1) {
		b.WriteString(inlineEscaper.Replace(s[last:m[0]]))
		b.WriteString(s[m[0]:m[1]])
		last = m[1]
	}
	b.WriteString(inlineEscaper.Replace(s[last:]))
	return b.String()
}
