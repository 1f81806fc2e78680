package extract

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"
	"github.com/okian/cvrole/internal/domain/model"
	"golang.org/x/net/html"
)

func (e *Extractor) extractDOCX(ctx context.Context, data []byte) (text string, err error) {
	const op = "extract.DOCX"
	defer recoverExtraction(op, &err)

	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", model.WrapKind(op, model.ErrExtraction, err)
	}
	defer doc.Close()

	if err := ctx.Err(); err != nil {
		return "", model.WrapKind(op, model.ErrExtraction, err)
	}
	return documentXMLText(doc.Editable().GetContent())
}

// documentXMLText reduces WordprocessingML to the text of its runs. Paragraphs
// and breaks become newlines, tabs become spaces.
func documentXMLText(content string) (string, error) {
	z := html.NewTokenizer(strings.NewReader(content))

	var b strings.Builder
	inText := false
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return "", model.WrapKind("extract.DOCX", model.ErrExtraction, err)
			}
			return strings.TrimRight(b.String(), "\n"), nil
		case html.StartTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "w:t":
				inText = true
			case "w:tab":
				b.WriteByte(' ')
			case "w:br", "w:cr":
				b.WriteByte('\n')
			}
		case html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "w:tab":
				b.WriteByte(' ')
			case "w:br", "w:cr", "w:p":
				b.WriteByte('\n')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "w:t":
				inText = false
			case "w:p":
				b.WriteByte('\n')
			}
		case html.TextToken:
			if inText {
				b.Write(z.Text())
			}
		}
	}
}
