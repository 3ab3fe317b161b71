package report

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// RenderHTML converts the markdown report into a standalone HTML page.
func RenderHTML(md []byte) ([]byte, error) {
	engine := goldmark.New(goldmark.WithExtensions(extension.Table))

	var body bytes.Buffer
	if err := engine.Convert(md, &body); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!doctype html>\n<html>\n<head>\n")
	page.WriteString("<meta charset=\"utf-8\">\n<title>texbuild report</title>\n")
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}
