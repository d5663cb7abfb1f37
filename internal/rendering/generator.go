package rendering

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/storage"
	"github.com/jonathan/resume-tailor/internal/templates"
	"github.com/jonathan/resume-tailor/internal/types"
)

// MIME types of generated documents
const (
	MIMEPDF  = "application/pdf"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Document kinds, used in keys and metrics
const (
	KindResume      = "resume"
	KindCoverLetter = "cover_letter"
)

const maxFilenamePart = 50

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// FilesInput is everything needed to render the four documents of a customization
type FilesInput struct {
	Resume      *types.CustomizedResume
	CoverLetter string
	Company     string
	Role        string
	TemplateID  string
	// PhotoKey is loaded from the store when set
	PhotoKey string
}

// Generator renders resumes and cover letters and stores the results
type Generator struct {
	converter Converter
	store     storage.Store
	logger    *zap.Logger
	now       func() time.Time
}

// NewGenerator creates a Generator. A nil logger discards output.
func NewGenerator(converter Converter, store storage.Store, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		converter: converter,
		store:     store,
		logger:    logger,
		now:       time.Now,
	}
}

// GenerateAll renders the resume and cover letter as PDF and DOCX concurrently,
// stores each one and returns their URLs. A photo that cannot be loaded is skipped.
func (g *Generator) GenerateAll(ctx context.Context, in FilesInput) (*types.GeneratedFiles, error) {
	if in.Resume == nil {
		return nil, &RenderError{Message: "resume is required"}
	}

	tpl := templates.Resolve(in.TemplateID)
	photo := g.loadPhoto(ctx, in)
	ts := g.now().UnixMilli()

	var files types.GeneratedFiles
	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		html, err := ResumeHTML(in.Resume, tpl, photo)
		if err != nil {
			return err
		}
		pdf, err := g.converter.ConvertHTMLToPDF(egCtx, html)
		if err != nil {
			return err
		}
		files.ResumePDFURL, err = g.put(egCtx, KindResume, "pdf", in, ts, pdf)
		return err
	})

	eg.Go(func() error {
		doc, err := ResumeDOCX(in.Resume, tpl, photo)
		if err != nil {
			return err
		}
		files.ResumeDOCXURL, err = g.put(egCtx, KindResume, "docx", in, ts, doc)
		return err
	})

	eg.Go(func() error {
		html, err := CoverLetterHTML(in.CoverLetter, in.Company, in.Role)
		if err != nil {
			return err
		}
		pdf, err := g.converter.ConvertHTMLToPDF(egCtx, html)
		if err != nil {
			return err
		}
		files.CoverLetterPDFURL, err = g.put(egCtx, KindCoverLetter, "pdf", in, ts, pdf)
		return err
	})

	eg.Go(func() error {
		doc, err := CoverLetterDOCX(in.CoverLetter, in.Company, in.Role)
		if err != nil {
			return err
		}
		files.CoverLetterDOCXURL, err = g.put(egCtx, KindCoverLetter, "docx", in, ts, doc)
		return err
	})

	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("failed to generate files: %w", err)
	}
	return &files, nil
}

func (g *Generator) put(ctx context.Context, kind, format string, in FilesInput, ts int64, data []byte) (string, error) {
	key := DocumentKey(kind, in.Company, in.Role, ts, format)
	mimeType := MIMEPDF
	if format == "docx" {
		mimeType = MIMEDOCX
	}

	obj, err := g.store.Put(ctx, key, data, mimeType)
	if err != nil {
		return "", err
	}

	observability.DocumentsGenerated.WithLabelValues(kind, format).Inc()
	g.logger.Debug("stored document", zap.String("key", key), zap.Int("bytes", len(data)))
	return obj.URL, nil
}

// loadPhoto reads the photo from the store. Failures are logged and yield nil.
func (g *Generator) loadPhoto(ctx context.Context, in FilesInput) *Photo {
	if in.PhotoKey == "" {
		return nil
	}
	data, mimeType, err := g.store.Get(ctx, in.PhotoKey)
	if err != nil {
		g.logger.Warn("failed to load photo", zap.String("key", in.PhotoKey), zap.Error(err))
		return nil
	}
	return &Photo{Data: data, MIMEType: photoMIME(mimeType, in.PhotoKey)}
}

// photoMIME normalizes a content type, guessing from the name when it is missing
func photoMIME(contentType, name string) string {
	contentType = strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	switch contentType {
	case "image/png", "image/jpeg":
		return contentType
	case "image/jpg":
		return "image/jpeg"
	}
	if strings.HasSuffix(strings.ToLower(name), ".png") {
		return "image/png"
	}
	return "image/jpeg"
}

// SanitizeFilename replaces every non-alphanumeric character with '_' and
// truncates to 50 characters
func SanitizeFilename(s string) string {
	s = unsafeFilenameChars.ReplaceAllString(s, "_")
	if len(s) > maxFilenamePart {
		s = s[:maxFilenamePart]
	}
	return s
}

// DocumentKey builds resumes/{Resume|CoverLetter}_{company}_{role}_{ts}.{ext}
func DocumentKey(kind, company, role string, ts int64, ext string) string {
	prefix := "Resume"
	if kind == KindCoverLetter {
		prefix = "CoverLetter"
	}
	return fmt.Sprintf("resumes/%s_%s_%s_%d.%s", prefix, SanitizeFilename(company), SanitizeFilename(role), ts, ext)
}
