package extract

import (
	"bytes"
	"context"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/okian/cvrole/internal/domain/model"
	"github.com/okian/cvrole/pkg/logger"
)

func (e *Extractor) extractPDF(ctx context.Context, data []byte) (text string, err error) {
	const op = "extract.PDF"
	defer recoverExtraction(op, &err)

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", model.WrapKind(op, model.ErrExtraction, err)
	}

	pages := reader.NumPage()
	if e.maxPages > 0 && pages > e.maxPages {
		pages = e.maxPages
	}

	var b strings.Builder
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return "", model.WrapKind(op, model.ErrExtraction, err)
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			e.logger.Debug(ctx, "pdf page has no extractable text",
				logger.Int("page", i),
				logger.Error(err))
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(pageText)
	}
	return b.String(), nil
}
