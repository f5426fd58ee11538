package pdf

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go-jobhunter/internal/browser"
	"go-jobhunter/internal/filter"
	"go-jobhunter/internal/models"

	"github.com/playwright-community/playwright-go"
)

//go:embed templates/approved.html
var templatesFS embed.FS

// Report is the data handed to the HTML template.
type Report struct {
	Title       string
	Profile     models.Profile
	GeneratedAt time.Time
	Items       []models.Opportunity
}

// Generator converts approved opportunities into a PDF report.
type Generator struct {
	templatePath string
}

// NewGenerator uses the template at templatePath, or the embedded one when empty.
func NewGenerator(templatePath string) *Generator {
	return &Generator{templatePath: templatePath}
}

func (g *Generator) parse() (*template.Template, error) {
	funcMap := template.FuncMap{
		"join":  strings.Join,
		"label": filter.CategoryLabel,
		"date": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.Format("2006-01-02")
		},
	}

	if g.templatePath != "" {
		return template.New(filepath.Base(g.templatePath)).Funcs(funcMap).ParseFiles(g.templatePath)
	}
	return template.New("approved.html").Funcs(funcMap).ParseFS(templatesFS, "templates/approved.html")
}

// RenderHTML executes the template without a browser.
func (g *Generator) RenderHTML(report Report) ([]byte, error) {
	tmpl, err := g.parse()
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, report); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}

// Generate renders the report HTML and prints it to PDF with Chromium.
func (g *Generator) Generate(ctx context.Context, report Report) ([]byte, error) {
	html, err := g.RenderHTML(report)
	if err != nil {
		return nil, err
	}

	pm, err := browser.NewPlaywright(ctx)
	if err != nil {
		return nil, err
	}
	defer pm.Close()

	page, err := pm.NewPage()
	if err != nil {
		return nil, err
	}
	defer page.Close()

	if err := page.SetContent(string(html), playwright.PageSetContentOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
	}); err != nil {
		return nil, fmt.Errorf("could not set page content: %w", err)
	}

	pdfBytes, err := page.PDF(playwright.PagePdfOptions{
		Format:          playwright.String("A4"),
		PrintBackground: playwright.Bool(true),
		Margin: &playwright.Margin{
			Top:    playwright.String("12mm"),
			Bottom: playwright.String("12mm"),
			Left:   playwright.String("10mm"),
			Right:  playwright.String("10mm"),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("could not generate PDF: %w", err)
	}
	return pdfBytes, nil
}

// SaveToFile writes a generated PDF, creating parent directories.
func SaveToFile(pdfBytes []byte, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("could not create directory: %w", err)
	}
	return os.WriteFile(outputPath, pdfBytes, 0644)
}
