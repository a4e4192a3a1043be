package service

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFInfo is what the preflight learned about a statement PDF
type PDFInfo struct {
	Pages        int
	HasTextLayer bool
}

type PDFProcessor interface {
	Decrypt(pdfData []byte, password string) ([]byte, error)
	Validate(pdfData []byte) error
	Inspect(pdfData []byte) (PDFInfo, error)
}

type pdfProcessor struct{}

func NewPDFProcessor() PDFProcessor {
	api.DisableConfigDir()
	return &pdfProcessor{}
}

func newPDFConfig(password string) *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if password != "" {
		conf.UserPW = password
		conf.OwnerPW = password
	}
	return conf
}

// Decrypt removes the password protection of a statement
func (p *pdfProcessor) Decrypt(pdfData []byte, password string) ([]byte, error) {
	var out bytes.Buffer
	if err := api.Decrypt(bytes.NewReader(pdfData), &out, newPDFConfig(password)); err != nil {
		return nil, fmt.Errorf("failed to decrypt pdf: %w", err)
	}
	return out.Bytes(), nil
}

func (p *pdfProcessor) Validate(pdfData []byte) error {
	if err := api.Validate(bytes.NewReader(pdfData), newPDFConfig("")); err != nil {
		return fmt.Errorf("invalid pdf: %w", err)
	}
	return nil
}

// Inspect counts pages and checks whether any page carries extractable text.
// Scanned statements have no text layer and are worth flagging.
func (p *pdfProcessor) Inspect(pdfData []byte) (PDFInfo, error) {
	r, err := pdf.NewReader(bytes.NewReader(pdfData), int64(len(pdfData)))
	if err != nil {
		return PDFInfo{}, fmt.Errorf("failed to open pdf: %w", err)
	}

	info := PDFInfo{Pages: r.NumPage()}
	for pageIndex := 1; pageIndex <= info.Pages && !info.HasTextLayer; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		for _, row := range rows {
			for _, word := range row.Content {
				if strings.TrimSpace(word.S) != "" {
					info.HasTextLayer = true
					break
				}
			}
			if info.HasTextLayer {
				break
			}
		}
	}
	return info, nil
}
