package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// pdfSurface draws on an fpdf document using the core Helvetica font
type pdfSurface struct {
	pdf        *fpdf.Fpdf
	tr         func(string) string
	registered map[string]bool
}

func newPDFSurface(l Layout) *pdfSurface {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: l.PageWidth, Ht: l.PageHeight},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont("Helvetica", "", l.FontSize)

	return &pdfSurface{
		pdf:        pdf,
		tr:         pdf.UnicodeTranslatorFromDescriptor(""),
		registered: make(map[string]bool),
	}
}

func (s *pdfSurface) AddPage() {
	s.pdf.AddPage()
}

func (s *pdfSurface) Text(x, y float64, text string) {
	s.pdf.Text(x, y, s.tr(text))
}

func (s *pdfSurface) TextWidth(text string) float64 {
	return s.pdf.GetStringWidth(s.tr(text))
}

func (s *pdfSurface) Image(img Image, x, y, w, h float64) error {
	opts := fpdf.ImageOptions{ImageType: img.Format}
	if !s.registered[img.Name] {
		s.pdf.RegisterImageOptionsReader(img.Name, opts, bytes.NewReader(img.Data))
		if err := s.pdf.Error(); err != nil {
			s.pdf.ClearError()
			return fmt.Errorf("register %s: %w", img.Name, err)
		}
		s.registered[img.Name] = true
	}
	s.pdf.ImageOptions(img.Name, x, y, w, h, false, opts, 0, "")
	if err := s.pdf.Error(); err != nil {
		s.pdf.ClearError()
		return err
	}
	return nil
}

// Save writes the document to path
func (s *pdfSurface) Save(path string) error {
	return s.pdf.OutputFileAndClose(path)
}
