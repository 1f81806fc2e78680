package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/okian/cvrole/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// buildPDF writes a minimal single-page PDF showing each line in Helvetica.
func buildPDF(lines ...string) []byte {
	return buildPagedPDF(lines)
}

// buildPagedPDF writes a minimal PDF with one page per entry in pages.
func buildPagedPDF(pages ...[]string) []byte {
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"", // page tree, filled in once the page objects are numbered
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	}

	kids := make([]string, 0, len(pages))
	for _, lines := range pages {
		var content strings.Builder
		content.WriteString("BT /F1 12 Tf 72 720 Td 14 TL\n")
		for _, l := range lines {
			fmt.Fprintf(&content, "(%s) Tj T*\n", l)
		}
		content.WriteString("ET")

		pageNum := len(objects) + 1
		kids = append(kids, fmt.Sprintf("%d 0 R", pageNum))
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents %d 0 R /Resources << /Font << /F1 3 0 R >> >> >>", pageNum+1),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", content.Len(), content.String()),
		)
	}
	objects[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages))

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

// buildDOCX writes the smallest archive the docx reader accepts.
func buildDOCX(body string) []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?>` +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			body + `</w:body></w:document>`,
	}
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			panic(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			panic(err)
		}
	}
	if err := zw.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func TestResolveType(t *testing.T) {
	Convey("Given declared types and file names", t, func() {
		Convey("Parameters should be dropped", func() {
			So(ResolveType("cv.txt", "text/plain; charset=utf-8"), ShouldEqual, model.TypePlainText)
			So(ResolveType("", "Application/PDF"), ShouldEqual, model.TypePDF)
		})

		Convey("An empty type should be inferred from the extension", func() {
			So(ResolveType("cv.TXT", ""), ShouldEqual, model.TypePlainText)
			So(ResolveType("cv.pdf", ""), ShouldEqual, model.TypePDF)
			So(ResolveType("cv.docx", model.TypeUnknown), ShouldEqual, model.TypeDOCX)
			So(ResolveType("cv.htm", ""), ShouldEqual, model.TypeHTML)
		})

		Convey("A declared type should win over the extension", func() {
			So(ResolveType("cv.pdf", "text/plain"), ShouldEqual, model.TypePlainText)
		})

		Convey("No type and no extension should be read as a PDF", func() {
			So(ResolveType("resume", ""), ShouldEqual, model.TypePDF)
		})

		Convey("Any other declared type should collapse to PDF", func() {
			So(ResolveType("cv.pdf", "application/x-a1"), ShouldEqual, model.TypePDF)
			So(ResolveType("cv.pdf", "application/x-a2"), ShouldEqual, model.TypePDF)
			So(ResolveType("scan.png", "image/png"), ShouldEqual, model.TypePDF)
			So(ResolveType("photo.png", ""), ShouldEqual, model.TypePDF)
		})
	})
}

func TestExtractor_EmptyDocument(t *testing.T) {
	Convey("Given an extractor and zero-byte uploads", t, func() {
		e := New()
		docs := []model.Document{
			{Name: "cv.txt", Type: model.TypePlainText},
			{Name: "cv.pdf", Type: model.TypePDF},
			{Name: "cv.docx"},
			{Name: "cv.html", Type: model.TypeHTML},
			{},
		}

		Convey("Every type should yield empty text without error", func() {
			for _, doc := range docs {
				text, err := e.Extract(context.Background(), doc)
				So(err, ShouldBeNil)
				So(text, ShouldBeEmpty)
			}
		})
	})
}

func TestExtractor_PlainText(t *testing.T) {
	Convey("Given an extractor", t, func() {
		e := New()
		ctx := context.Background()

		Convey("Valid UTF-8 should come back unchanged", func() {
			raw := "Jane Doe\n\tSenior Engineer · Go, Python & SQL\r\n"
			text, err := e.Extract(ctx, model.Document{Name: "cv.txt", Type: model.TypePlainText, Data: []byte(raw)})
			So(err, ShouldBeNil)
			So(text, ShouldEqual, raw)
		})

		Convey("An empty file should yield empty text", func() {
			text, err := e.Extract(ctx, model.Document{Type: model.TypePlainText})
			So(err, ShouldBeNil)
			So(text, ShouldBeEmpty)
		})

		Convey("Invalid UTF-8 should be a decode error", func() {
			_, err := e.Extract(ctx, model.Document{Type: model.TypePlainText, Data: []byte{0xff, 0xfe, 'a'}})
			So(errors.Is(err, model.ErrDecode), ShouldBeTrue)
			So(model.KindOf(err), ShouldEqual, model.KindDecode)
		})
	})
}

func TestExtractor_PDF(t *testing.T) {
	Convey("Given an extractor", t, func() {
		e := New()
		ctx := context.Background()

		Convey("A text-based PDF should yield its text", func() {
			data := buildPDF("Experienced Python developer", "React and SQL")
			text, err := e.Extract(ctx, model.Document{Name: "cv.pdf", Type: model.TypePDF, Data: data})
			So(err, ShouldBeNil)
			So(text, ShouldContainSubstring, "Python")
			So(text, ShouldContainSubstring, "SQL")
		})

		Convey("Text on consecutive pages should not run together", func() {
			data := buildPagedPDF([]string{"Senior", "Python"}, []string{"React", "engineer"})
			text, err := e.Extract(ctx, model.Document{Name: "cv.pdf", Type: model.TypePDF, Data: data})
			So(err, ShouldBeNil)
			So(text, ShouldContainSubstring, "Python")
			So(text, ShouldContainSubstring, "React")
			So(text, ShouldNotContainSubstring, "PythonReact")
			So(strings.Index(text, "Python"), ShouldBeLessThan, strings.Index(text, "React"))
		})

		Convey("Garbage bytes should be an extraction error", func() {
			_, err := e.Extract(ctx, model.Document{Type: model.TypePDF, Data: []byte("not a pdf at all")})
			So(errors.Is(err, model.ErrExtraction), ShouldBeTrue)
		})

		Convey("An unknown declared type should be read as a PDF", func() {
			_, err := e.Extract(ctx, model.Document{Name: "cv.bin", Type: "application/x-foo", Data: []byte("hello")})
			So(errors.Is(err, model.ErrExtraction), ShouldBeTrue)
		})

		Convey("Truncated PDF bytes should never panic", func() {
			data := buildPDF("Python")
			So(func() {
				_, _ = e.Extract(ctx, model.Document{Type: model.TypePDF, Data: data[:len(data)/2]})
			}, ShouldNotPanic)
		})
	})
}

func TestExtractor_DOCX(t *testing.T) {
	Convey("Given an extractor", t, func() {
		e := New()
		ctx := context.Background()

		Convey("Text runs should be joined and paragraphs split by newlines", func() {
			body := `<w:p><w:r><w:t>Go &amp; Python</w:t></w:r><w:r><w:tab/><w:t xml:space="preserve">developer</w:t></w:r></w:p>` +
				`<w:p><w:r><w:t>Kubernetes</w:t></w:r></w:p>`
			text, err := e.Extract(ctx, model.Document{Name: "cv.docx", Type: model.TypeDOCX, Data: buildDOCX(body)})
			So(err, ShouldBeNil)
			So(text, ShouldEqual, "Go & Python developer\nKubernetes")
		})

		Convey("A non-zip payload should be an extraction error", func() {
			_, err := e.Extract(ctx, model.Document{Type: model.TypeDOCX, Data: []byte("plain words")})
			So(errors.Is(err, model.ErrExtraction), ShouldBeTrue)
		})
	})
}

func TestExtractor_HTML(t *testing.T) {
	Convey("Given an extractor", t, func() {
		e := New()

		Convey("Body text should be kept and scripts dropped", func() {
			page := `<html><head><title>CV</title><style>p{}</style></head>` +
				`<body><h1>Jane</h1><p>Docker and AWS</p><script>var python = 1;</script></body></html>`
			text, err := e.Extract(context.Background(), model.Document{Name: "cv.html", Data: []byte(page)})
			So(err, ShouldBeNil)
			So(text, ShouldContainSubstring, "Jane")
			So(text, ShouldContainSubstring, "Docker and AWS")
			So(text, ShouldNotContainSubstring, "python")
			So(text, ShouldNotContainSubstring, "CV")
		})
	})
}
