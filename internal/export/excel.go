// Package export writes archived interviews to an Excel workbook.
package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/hanuman1123/interviewAIAgent/internal/archive"
	"github.com/hanuman1123/interviewAIAgent/internal/session"
)

const (
	summarySheet = "Summary"
	rankedSheet  = "Ranked Candidates"
	answersSheet = "Answers"
)

var border = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
}

// band colours a ranked row by final score.
type band struct {
	label string
	min   int
	color string
}

var bands = []band{
	{"Excellent (90-100)", 90, "C6EFCE"},
	{"Good (70-89)", 70, "FFEB9C"},
	{"Fair (50-69)", 50, "FFC7CE"},
	{"Poor (<50)", 0, "FF9999"},
}

func bandFor(score int) int {
	for i, b := range bands {
		if score >= b.min {
			return i
		}
	}
	return len(bands) - 1
}

// ToExcel writes entries ranked by score to path and returns the path
// actually written, which always ends in .xlsx.
func ToExcel(entries []session.ArchivedSession, path string, now time.Time) (string, error) {
	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		path += ".xlsx"
	}
	path = filepath.Clean(path)

	ranked := make([]session.ArchivedSession, len(entries))
	copy(ranked, entries)
	archive.SortByScore(ranked)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return "", fmt.Errorf("export: rename sheet: %w", err)
	}
	for _, name := range []string{rankedSheet, answersSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return "", fmt.Errorf("export: create sheet %q: %w", name, err)
		}
	}

	if err := writeSummary(f, ranked, now); err != nil {
		return "", fmt.Errorf("export: summary sheet: %w", err)
	}
	if err := writeRanked(f, ranked); err != nil {
		return "", fmt.Errorf("export: ranked sheet: %w", err)
	}
	if err := writeAnswers(f, ranked); err != nil {
		return "", fmt.Errorf("export: answers sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("export: save %s: %w", path, err)
	}
	return path, nil
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func headerStyle(f *excelize.File, size float64) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: size, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
		Border:    border,
	})
}

func writeSummary(f *excelize.File, ranked []session.ArchivedSession, now time.Time) error {
	sh := summarySheet
	_ = f.SetColWidth(sh, "A", "A", 28)
	_ = f.SetColWidth(sh, "B", "B", 40)

	title, err := headerStyle(f, 14)
	if err != nil {
		return err
	}
	label, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	row := 1
	_ = f.SetCellValue(sh, cell("A", row), "Interview Report")
	_ = f.SetCellStyle(sh, cell("A", row), cell("B", row), title)
	_ = f.MergeCell(sh, cell("A", row), cell("B", row))
	row += 2

	put := func(k string, v any) {
		_ = f.SetCellValue(sh, cell("A", row), k)
		_ = f.SetCellStyle(sh, cell("A", row), cell("A", row), label)
		_ = f.SetCellValue(sh, cell("B", row), v)
		row++
	}

	put("Generated:", now.Format("2006-01-02 15:04:05"))
	put("Interviews:", len(ranked))
	if len(ranked) == 0 {
		return nil
	}
	row++

	counts := make([]int, len(bands))
	total, lo, hi := 0, ranked[0].ScoreOrZero(), ranked[0].ScoreOrZero()
	for _, e := range ranked {
		s := e.ScoreOrZero()
		counts[bandFor(s)]++
		total += s
		lo = min(lo, s)
		hi = max(hi, s)
	}
	for i, b := range bands {
		put(b.label+":", counts[i])
	}
	row++
	put("Average Score:", fmt.Sprintf("%.2f", float64(total)/float64(len(ranked))))
	put("Highest Score:", hi)
	put("Lowest Score:", lo)
	return nil
}

func writeRanked(f *excelize.File, ranked []session.ArchivedSession) error {
	sh := rankedSheet
	widths := map[string]float64{"A": 8, "B": 25, "C": 30, "D": 16, "E": 10, "F": 20, "G": 60}
	for col, w := range widths {
		_ = f.SetColWidth(sh, col, col, w)
	}

	head, err := headerStyle(f, 11)
	if err != nil {
		return err
	}
	rowStyles := make([]int, len(bands))
	for i, b := range bands {
		st, err := f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Color: []string{b.color}, Pattern: 1},
			Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
			Border:    border,
		})
		if err != nil {
			return err
		}
		rowStyles[i] = st
	}

	headers := []string{"Rank", "Candidate", "Email", "Phone", "Score", "Date", "Summary"}
	for col, h := range headers {
		c := cell(string(rune('A'+col)), 1)
		_ = f.SetCellValue(sh, c, h)
		_ = f.SetCellStyle(sh, c, c, head)
	}

	for i, e := range ranked {
		row := i + 2
		_ = f.SetCellValue(sh, cell("A", row), i+1)
		_ = f.SetCellValue(sh, cell("B", row), e.CandidateInfo.Name)
		_ = f.SetCellValue(sh, cell("C", row), e.CandidateInfo.Email)
		_ = f.SetCellValue(sh, cell("D", row), e.CandidateInfo.Phone)
		if e.FinalScore != nil {
			_ = f.SetCellValue(sh, cell("E", row), *e.FinalScore)
		}
		_ = f.SetCellValue(sh, cell("F", row), e.Date.Format("2006-01-02 15:04"))
		_ = f.SetCellValue(sh, cell("G", row), e.Summary)
		_ = f.SetCellStyle(sh, cell("A", row), cell("G", row), rowStyles[bandFor(e.ScoreOrZero())])
	}

	if len(ranked) > 0 {
		_ = f.AutoFilter(sh, fmt.Sprintf("A1:G%d", len(ranked)+1), []excelize.AutoFilterOptions{})
	}
	return freezeHeader(f, sh)
}

func writeAnswers(f *excelize.File, ranked []session.ArchivedSession) error {
	sh := answersSheet
	widths := map[string]float64{"A": 8, "B": 25, "C": 6, "D": 10, "E": 50, "F": 50, "G": 8, "H": 40}
	for col, w := range widths {
		_ = f.SetColWidth(sh, col, col, w)
	}

	head, err := headerStyle(f, 11)
	if err != nil {
		return err
	}
	wrap, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
		Border:    border,
	})
	if err != nil {
		return err
	}

	headers := []string{"Rank", "Candidate", "Q", "Difficulty", "Question", "Answer", "Score", "Feedback"}
	for col, h := range headers {
		c := cell(string(rune('A'+col)), 1)
		_ = f.SetCellValue(sh, c, h)
		_ = f.SetCellStyle(sh, c, c, head)
	}

	row := 2
	for rank, e := range ranked {
		for qi, q := range e.Questions {
			answer := e.AnswerAt(qi)
			if answer == "" {
				answer = session.NoAnswer
			}
			_ = f.SetCellValue(sh, cell("A", row), rank+1)
			_ = f.SetCellValue(sh, cell("B", row), e.CandidateInfo.Name)
			_ = f.SetCellValue(sh, cell("C", row), qi+1)
			_ = f.SetCellValue(sh, cell("D", row), string(q.Difficulty))
			_ = f.SetCellValue(sh, cell("E", row), q.Text)
			_ = f.SetCellValue(sh, cell("F", row), answer)
			if q.Score != nil {
				_ = f.SetCellValue(sh, cell("G", row), *q.Score)
			}
			if q.Feedback != nil {
				_ = f.SetCellValue(sh, cell("H", row), *q.Feedback)
			}
			_ = f.SetCellStyle(sh, cell("A", row), cell("H", row), wrap)
			row++
		}
	}
	return freezeHeader(f, sh)
}

func freezeHeader(f *excelize.File, sh string) error {
	return f.SetPanes(sh, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
