package extract

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// ErrUnreadableDocument is returned when a recognized format fails to parse.
var ErrUnreadableDocument = errors.New("unreadable document")

// DocumentKind is the format inferred from a file name.
type DocumentKind string

const (
	KindPDF     DocumentKind = "pdf"
	KindDOCX    DocumentKind = "docx"
	KindUnknown DocumentKind = "unknown"
)

// Kind infers the document format from the file name suffix.
func Kind(fileName string) DocumentKind {
	switch strings.ToLower(filepath.Ext(strings.TrimSpace(fileName))) {
	case ".pdf":
		return KindPDF
	case ".docx":
		return KindDOCX
	default:
		return KindUnknown
	}
}

// ExtractText converts document bytes into plain text.
// Unknown formats yield an empty string and no error.
// Libraries used: github.com/ledongthuc/pdf (PDF) and github.com/nguyenthenguyen/docx (DOCX).
func ExtractText(ctx context.Context, data []byte, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	kind := Kind(fileName)
	var (
		text string
		err  error
	)
	switch kind {
	case KindPDF:
		text, err = extractPDF(data)
	case KindDOCX:
		text, err = extractDOCX(data)
	default:
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s %s: %v", ErrUnreadableDocument, kind, fileName, err)
	}
	return text, nil
}

// The pdf reader panics on some malformed cross-reference tables.
func extractPDF(data []byte) (text string, err error) {
	if len(data) == 0 {
		return "", errors.New("empty pdf data")
	}
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("pdf reader panic: %v", r)
		}
	}()
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	defer doc.Close()

	paragraphs, err := docxParagraphs(doc.Editable().GetContent())
	if err != nil {
		return "", err
	}
	return strings.Join(paragraphs, "\n"), nil
}

// docxParagraphs walks word/document.xml and returns the text of each w:p in order.
func docxParagraphs(raw string) ([]string, error) {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var (
		paragraphs []string
		current    strings.Builder
		inPara     int
		inText     bool
	)
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				if inPara == 0 {
					current.Reset()
				}
				inPara++
			case "t":
				inText = true
			case "tab":
				if inPara > 0 {
					current.WriteByte('\t')
				}
			case "br", "cr":
				if inPara > 0 {
					current.WriteByte('\n')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if inPara == 0 {
					continue
				}
				inPara--
				if inPara == 0 {
					paragraphs = append(paragraphs, current.String())
				}
			}
		case xml.CharData:
			if inText && inPara > 0 {
				current.Write(t)
			}
		}
	}
	return paragraphs, nil
}
