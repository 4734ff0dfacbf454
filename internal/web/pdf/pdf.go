// Package pdf exports rendered pages as PDF through wkhtmltopdf.
package pdf

import (
	"strings"

	wkhtmltopdf "github.com/SebastiaanKlippert/go-wkhtmltopdf"
)

// Generator turns an HTML document into a PDF byte stream. CSS, when
// set, is the path of a stylesheet applied to every exported page.
type Generator struct {
	CSS string
}

// FromHTML renders the document as an A4 PDF with no margins.
func (g *Generator) FromHTML(document string) ([]byte, error) {
	gen, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, err
	}
	gen.PageSize.Set(wkhtmltopdf.PageSizeA4)
	gen.MarginTop.Set(0)
	gen.MarginRight.Set(0)
	gen.MarginBottom.Set(0)
	gen.MarginLeft.Set(0)

	page := wkhtmltopdf.NewPageReader(strings.NewReader(document))
	page.Encoding.Set("UTF-8")
	if g.CSS != "" {
		page.UserStyleSheet.Set(g.CSS)
	}
	gen.AddPage(page)

	if err := gen.Create(); err != nil {
		return nil, err
	}
	return gen.Bytes(), nil
}
