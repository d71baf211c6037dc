// Package documents renders the final timesheet PDF for a completed
// submission and stores it on disk.
package documents

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/jung-kurt/gofpdf"

	"dienstplan/internal/domain/shifts"
	"dienstplan/internal/domain/submissions"
	"dienstplan/internal/domain/timeclock"
	"dienstplan/internal/domain/workers"
)

type Service struct {
	subs    submissions.StoreAPI
	shifts  shifts.StoreAPI
	workers *workers.Store
	dir     string
}

func NewService(subs submissions.StoreAPI, shiftStore shifts.StoreAPI, workerStore *workers.Store, dir string) *Service {
	return &Service{subs: subs, shifts: shiftStore, workers: workerStore, dir: dir}
}

// Generate renders the timesheet for the submission and returns the
// stored file's path.
func (s *Service) Generate(ctx context.Context, submissionID string) (string, error) {
	sub, err := s.subs.GetByID(ctx, submissionID)
	if err != nil {
		return "", err
	}
	team, err := s.workers.GetTeam(ctx, sub.SheetKey)
	if err != nil {
		return "", err
	}
	monthShifts, err := s.shifts.ListSheetMonth(ctx, sub.SheetKey, sub.Month, sub.Year)
	if err != nil {
		return "", err
	}
	signatures, err := s.subs.ListSignatures(ctx, submissionID)
	if err != nil {
		return "", err
	}
	teamWorkers, err := s.workers.List(ctx, sub.SheetKey)
	if err != nil {
		return "", err
	}
	names := make(map[string]string, len(teamWorkers))
	for _, w := range teamWorkers {
		names[w.ID] = w.FirstName + " " + w.LastName
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}
	filePath := filepath.Join(s.dir, sub.ID+".pdf")

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Timesheet")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Team: %s", team.Name))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Recipient: %s", team.RecipientName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s", sub.PeriodLabel()))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(25, 7, "Date", "1", 0, "", false, 0, "")
	pdf.CellFormat(55, 7, "Worker", "1", 0, "", false, 0, "")
	pdf.CellFormat(40, 7, "Time", "1", 0, "", false, 0, "")
	pdf.CellFormat(20, 7, "Break", "1", 0, "", false, 0, "")
	pdf.CellFormat(30, 7, "Absence", "1", 1, "", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)

	for _, sh := range monthShifts {
		start, end := shifts.EffectiveTimes(sh)
		timeLabel := ""
		if start != "" && end != "" {
			timeLabel = timeclock.FormatRange(start, end)
		}
		pdf.CellFormat(25, 7, sh.Date.Format("02.01.2006"), "1", 0, "", false, 0, "")
		pdf.CellFormat(55, 7, names[sh.WorkerID], "1", 0, "", false, 0, "")
		pdf.CellFormat(40, 7, timeLabel, "1", 0, "", false, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprintf("%d min", sh.BreakMinutes), "1", 0, "", false, 0, "")
		pdf.CellFormat(30, 7, sh.AbsenceKind, "1", 1, "", false, 0, "")
	}

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Signatures")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)

	sort.Slice(signatures, func(i, j int) bool {
		return signatures[i].SignedAt.Before(signatures[j].SignedAt)
	})
	for _, sig := range signatures {
		pdf.Cell(0, 6, fmt.Sprintf("%s signed %s", names[sig.WorkerID], sig.SignedAt.Format("02.01.2006 15:04")))
		pdf.Ln(6)
	}
	if sub.RecipientSignedAt != nil {
		pdf.Cell(0, 6, fmt.Sprintf("%s (recipient) signed %s", team.RecipientName, sub.RecipientSignedAt.Format("02.01.2006 15:04")))
		pdf.Ln(6)
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", err
	}
	return filePath, nil
}
