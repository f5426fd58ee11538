// Package export writes the opportunity stores to an XLSX workbook.
package export

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"go-jobhunter/internal/filter"
	"go-jobhunter/internal/models"
	"go-jobhunter/internal/store"
)

const (
	SheetFound    = "Found"
	SheetApproved = "Approved"
	SheetRefused  = "Refused"
	SheetSent     = "Sent"
)

var opportunityHeaders = []string{
	"Title", "Company", "Location", "Score", "Category", "Recommendation",
	"Success Chance", "Source", "URL", "Found At", "Decided At",
}

var sentHeaders = []string{"Title", "Company", "URL", "Email", "Sent At"}

// Workbook builds one sheet per store and returns the XLSX bytes.
func Workbook(s *store.Store) ([]byte, error) {
	start := time.Now()
	f := excelize.NewFile()
	defer f.Close()

	found := s.LoadFound()
	approved := s.LoadApproved()
	refused := s.LoadRefused()
	sent := s.LoadSent()

	sheets := []struct {
		name string
		opps []models.Opportunity
		at   func(models.Opportunity) *time.Time
	}{
		{SheetFound, found, func(models.Opportunity) *time.Time { return nil }},
		{SheetApproved, approved, func(o models.Opportunity) *time.Time { return o.ApprovedAt }},
		{SheetRefused, refused, func(o models.Opportunity) *time.Time { return o.RefusedAt }},
	}
	for _, sh := range sheets {
		if err := writeOpportunities(f, sh.name, sh.opps, sh.at); err != nil {
			return nil, err
		}
	}
	if err := writeSent(f, sent); err != nil {
		return nil, err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}
	if idx, err := f.GetSheetIndex(SheetFound); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	log.Printf("📊 Exported %d found, %d approved, %d refused, %d sent (%s)",
		len(found), len(approved), len(refused), len(sent), time.Since(start).Round(time.Millisecond))
	return buf.Bytes(), nil
}

// WriteFile writes the workbook to path, creating parent directories.
func WriteFile(s *store.Store, path string) error {
	data, err := Workbook(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("could not create directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func writeOpportunities(f *excelize.File, sheet string, opps []models.Opportunity, decidedAt func(models.Opportunity) *time.Time) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("new sheet %s: %w", sheet, err)
	}
	if err := writeRow(f, sheet, 1, toAny(opportunityHeaders)); err != nil {
		return err
	}

	for i, o := range opps {
		recommendation, chance := "", ""
		if o.Analysis != nil {
			recommendation = o.Analysis.Recommendation
			chance = fmt.Sprintf("%d%%", o.Analysis.SuccessChance)
		}
		row := []any{
			o.Title, o.Company, o.Location, o.Score, filter.CategoryLabel(o.Category),
			recommendation, chance, o.Source, o.URL,
			formatTime(o.FoundAt), formatTime(decidedAt(o)),
		}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 40)
	_ = f.SetColWidth(sheet, "B", "C", 22)
	_ = f.SetColWidth(sheet, "E", "F", 26)
	_ = f.SetColWidth(sheet, "I", "I", 60)
	_ = f.SetColWidth(sheet, "J", "K", 18)
	return nil
}

func writeSent(f *excelize.File, sent []models.SentEmail) error {
	if _, err := f.NewSheet(SheetSent); err != nil {
		return fmt.Errorf("new sheet %s: %w", SheetSent, err)
	}
	if err := writeRow(f, SheetSent, 1, toAny(sentHeaders)); err != nil {
		return err
	}
	for i, s := range sent {
		row := []any{s.Job.Title, s.Job.Company, s.Job.URL, s.Email, formatTime(&s.SentAt)}
		if err := writeRow(f, SheetSent, i+2, row); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(SheetSent, "A", "A", 40)
	_ = f.SetColWidth(SheetSent, "C", "D", 48)
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04")
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
