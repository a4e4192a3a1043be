package service

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Aashish23092/taxwise-dashboard/dto"
)

// OCR extracts text and a 0-100 confidence from an image
type OCR interface {
	ExtractTextFromBytes(data []byte) (string, float64, error)
}

var acceptedKinds = map[string]dto.DocumentKind{
	".pdf":  dto.DocKindPDF,
	".csv":  dto.DocKindSheet,
	".xlsx": dto.DocKindSheet,
	".xls":  dto.DocKindSheet,
	".txt":  dto.DocKindText,
	".png":  dto.DocKindImage,
	".jpg":  dto.DocKindImage,
	".jpeg": dto.DocKindImage,
}

// lowOCRConfidence flags image statements the backend will likely misread
const lowOCRConfidence = 60.0

// StatementPreprocessor prepares uploaded statements for the analysis API:
// password-protected PDFs are decrypted and images are converted to text.
type StatementPreprocessor struct {
	pdfProcessor PDFProcessor
	ocr          OCR
}

func NewStatementPreprocessor(pdfProcessor PDFProcessor, ocr OCR) *StatementPreprocessor {
	return &StatementPreprocessor{
		pdfProcessor: pdfProcessor,
		ocr:          ocr,
	}
}

// KindOf returns the document kind for a file name, or false if unsupported
func KindOf(f dto.StatementFile) (dto.DocumentKind, bool) {
	kind, ok := acceptedKinds[f.Ext()]
	return kind, ok
}

// PrepareAll processes files concurrently. Output order matches input order.
// The first failure (in input order) is returned.
func (sp *StatementPreprocessor) PrepareAll(files []dto.StatementFile, password string) ([]dto.StatementFile, []dto.DocumentReport, error) {
	for _, f := range files {
		if _, ok := KindOf(f); !ok {
			return nil, nil, fmt.Errorf("%w: %s", dto.ErrUnsupportedFile, f.Filename)
		}
	}

	prepared := make([]dto.StatementFile, len(files))
	reports := make([]dto.DocumentReport, len(files))
	errs := make([]error, len(files))

	var mu sync.Mutex
	var wg sync.WaitGroup

	for i, f := range files {
		wg.Add(1)
		go func(i int, f dto.StatementFile) {
			defer wg.Done()

			out, report, err := sp.Prepare(f, password)

			mu.Lock()
			prepared[i] = out
			reports[i] = report
			errs[i] = err
			mu.Unlock()
		}(i, f)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, nil, err
		}
	}
	return prepared, reports, nil
}

// Prepare handles a single statement
func (sp *StatementPreprocessor) Prepare(f dto.StatementFile, password string) (dto.StatementFile, dto.DocumentReport, error) {
	kind, ok := KindOf(f)
	if !ok {
		return dto.StatementFile{}, dto.DocumentReport{}, fmt.Errorf("%w: %s", dto.ErrUnsupportedFile, f.Filename)
	}

	report := dto.DocumentReport{
		Filename:    f.Filename,
		ForwardedAs: f.Filename,
		Kind:        kind,
	}

	switch kind {
	case dto.DocKindPDF:
		return sp.preparePDF(f, password, report)
	case dto.DocKindImage:
		return sp.prepareImage(f, report)
	}
	return f, report, nil
}

func (sp *StatementPreprocessor) preparePDF(f dto.StatementFile, password string, report dto.DocumentReport) (dto.StatementFile, dto.DocumentReport, error) {
	data := f.Data

	if password != "" {
		decrypted, err := sp.pdfProcessor.Decrypt(data, password)
		switch {
		case err == nil:
			data = decrypted
			report.Decrypted = true
		case sp.pdfProcessor.Validate(data) == nil:
			// Not encrypted; the password was meant for another statement
			log.Printf("Statement %s is not encrypted, forwarding as is", f.Filename)
		default:
			return dto.StatementFile{}, report, invalidStatement("failed to unlock %s: %w", f.Filename, err)
		}
	}

	if err := sp.pdfProcessor.Validate(data); err != nil {
		return dto.StatementFile{}, report, invalidStatement("%s: %w", f.Filename, err)
	}

	info, err := sp.pdfProcessor.Inspect(data)
	if err != nil {
		return dto.StatementFile{}, report, invalidStatement("%s: %w", f.Filename, err)
	}
	if info.Pages == 0 {
		return dto.StatementFile{}, report, invalidStatement("%s has no pages", f.Filename)
	}

	report.Pages = info.Pages
	report.HasTextLayer = info.HasTextLayer
	if !info.HasTextLayer {
		report.Issues = append(report.Issues, "no text layer found; statement looks scanned")
	}

	return dto.StatementFile{
		Filename:    f.Filename,
		ContentType: "application/pdf",
		Data:        data,
	}, report, nil
}

func (sp *StatementPreprocessor) prepareImage(f dto.StatementFile, report dto.DocumentReport) (dto.StatementFile, dto.DocumentReport, error) {
	if sp.ocr == nil {
		return dto.StatementFile{}, report, fmt.Errorf("statement %s: image statements need OCR, which is not configured", f.Filename)
	}

	text, confidence, err := sp.ocr.ExtractTextFromBytes(f.Data)
	if err != nil {
		return dto.StatementFile{}, report, invalidStatement("OCR failed for %s: %w", f.Filename, err)
	}
	if strings.TrimSpace(text) == "" {
		return dto.StatementFile{}, report, invalidStatement("no text found in %s", f.Filename)
	}

	name := strings.TrimSuffix(f.Filename, filepath.Ext(f.Filename)) + ".txt"
	report.ForwardedAs = name
	report.OcrConfidence = confidence
	if confidence < lowOCRConfidence {
		report.Issues = append(report.Issues, fmt.Sprintf("low OCR confidence (%.0f%%)", confidence))
	}

	return dto.StatementFile{
		Filename:    name,
		ContentType: "text/plain",
		Data:        []byte(text),
	}, report, nil
}

// invalidStatement marks a failure caused by the uploaded file itself
func invalidStatement(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %w", dto.ErrInvalidStatement, fmt.Errorf(format, args...))
}
