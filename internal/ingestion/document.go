// Package ingestion turns uploaded resume files and pasted job descriptions into clean plain text.
package ingestion

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyenthenguyen/docx"
	"github.com/unidoc/unipdf/v3/common/license"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
)

// Supported resume MIME types
const (
	MIMEPDF    = "application/pdf"
	MIMEDOCX   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEMSWord = "application/msword"
	MIMEText   = "text/plain"
)

// ErrUnsupportedFileType is returned for uploads that are not PDF or Word documents
var ErrUnsupportedFileType = errors.New("unsupported file type")

// ErrNoText is returned when a document contains no extractable text
var ErrNoText = errors.New("no text could be extracted from the document")

// SetPDFLicense registers the unidoc metered license key. Without one, PDF
// extraction runs unlicensed and may watermark or refuse some documents.
func SetPDFLicense(key string) error {
	if key == "" {
		return nil
	}
	if err := license.SetMeteredKey(key); err != nil {
		return fmt.Errorf("failed to set PDF license: %w", err)
	}
	return nil
}

// ExtractResumeText extracts normalized text from an uploaded resume
func ExtractResumeText(data []byte, mimeType string) (string, error) {
	var (
		text string
		err  error
	)

	switch mimeType {
	case MIMEPDF:
		text, err = ExtractPDFText(data)
	case MIMEDOCX, MIMEMSWord:
		text, err = ExtractDOCXText(data)
	case MIMEText:
		text = string(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFileType, mimeType)
	}
	if err != nil {
		return "", err
	}

	text = CleanText(text)
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

// ExtractPDFText concatenates the text of every page. Pages that fail to
// extract are skipped; the call fails only if no page yields text.
func ExtractPDFText(data []byte) (string, error) {
	reader, err := model.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to read PDF: %w", err)
	}

	numPages, err := reader.GetNumPages()
	if err != nil {
		return "", fmt.Errorf("failed to get page count: %w", err)
	}

	var sb strings.Builder
	var lastErr error
	for i := 1; i <= numPages; i++ {
		page, err := reader.GetPage(i)
		if err != nil {
			lastErr = err
			continue
		}
		ex, err := extractor.New(page)
		if err != nil {
			lastErr = err
			continue
		}
		pageText, err := ex.ExtractText()
		if err != nil {
			lastErr = err
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(pageText)
	}

	if strings.TrimSpace(sb.String()) == "" {
		if lastErr != nil {
			return "", fmt.Errorf("failed to extract PDF text: %w", lastErr)
		}
		return "", ErrNoText
	}
	return sb.String(), nil
}

// ExtractDOCXText returns the paragraph text of a Word document, one paragraph per line
func ExtractDOCXText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read DOCX: %w", err)
	}
	defer func() { _ = doc.Close() }()

	return DocumentXMLText(doc.Editable().GetContent())
}

// DocumentXMLText walks WordprocessingML and returns its text with paragraphs
// on separate lines. Tabs and breaks are kept.
func DocumentXMLText(documentXML string) (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(documentXML))

	var sb strings.Builder
	inText := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse document XML: %w", err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte('\t')
			case "br", "cr":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(el)
			}
		}
	}
	return sb.String(), nil
}

// DetectMIMEType maps a resume file name to its MIME type by extension
func DetectMIMEType(fileName string) (string, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return MIMEPDF, nil
	case ".docx":
		return MIMEDOCX, nil
	case ".doc":
		return MIMEMSWord, nil
	case ".txt", ".md":
		return MIMEText, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFileType, filepath.Ext(fileName))
}

// ReadResumeFile reads a resume from disk and extracts its text
func ReadResumeFile(path string) (string, error) {
	mimeType, err := DetectMIMEType(path)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %w", err)
		}
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	return ExtractResumeText(data, mimeType)
}
