package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nisshin-gakuen/admission-portal/pkg/logger"
	"gorm.io/gorm"
)

// ImportRow is one student parsed from an uploaded CSV.
type ImportRow struct {
	ExamNo         string `json:"exam_no"`
	Name           string `json:"name"`
	Kana           string `json:"kana"`
	Phone          string `json:"phone"`
	AcceptedCourse string `json:"accepted_course"`
	TotalScore     *int   `json:"total_score,omitempty"`
}

// ImportTask is the queued payload of one import run.
type ImportTask struct {
	Rows       []ImportRow `json:"rows"`
	UploadedBy uint        `json:"uploaded_by"`
}

// ImportService parses student CSVs and applies them row by row. Each row
// upserts keyed by exam_no, so re-running the same file is idempotent.
type ImportService struct {
	students *StudentService
}

func NewImportService(db *gorm.DB) *ImportService {
	return &ImportService{students: NewStudentService(db)}
}

// Expected CSV header: exam_no,name,kana,phone,accepted_course,total_score
// (total_score optional, accepted_course empty for not-accepted).
func (s *ImportService) ParseCSV(r io.Reader) ([]ImportRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, NewValidationError("file", "malformed CSV: "+err.Error())
	}
	if len(records) < 2 {
		return nil, NewValidationError("file", "CSV has no data rows")
	}

	// Column positions from the header row.
	header := records[0]
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range []string{"exam_no", "name", "phone"} {
		if _, ok := col[required]; !ok {
			return nil, NewValidationError("file", "missing column: "+required)
		}
	}

	cell := func(record []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var rows []ImportRow
	for i, record := range records[1:] {
		row := ImportRow{
			ExamNo:         cell(record, "exam_no"),
			Name:           cell(record, "name"),
			Kana:           cell(record, "kana"),
			Phone:          cell(record, "phone"),
			AcceptedCourse: cell(record, "accepted_course"),
		}
		if row.ExamNo == "" {
			return nil, NewValidationError("file", fmt.Sprintf("row %d: exam_no is empty", i+2))
		}
		if v := cell(record, "total_score"); v != "" {
			score, err := strconv.Atoi(v)
			if err != nil {
				return nil, NewValidationError("file", fmt.Sprintf("row %d: total_score is not a number", i+2))
			}
			row.TotalScore = &score
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Process applies an import task. Row failures are logged and counted, not
// fatal to the rest of the file.
func (s *ImportService) Process(ctx context.Context, task *ImportTask) error {
	var created, updated, failed int
	for _, row := range task.Rows {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		req := &CreateStudentRequest{
			ExamNo:         row.ExamNo,
			Name:           row.Name,
			Kana:           row.Kana,
			Phone:          row.Phone,
			AcceptedCourse: row.AcceptedCourse,
			TotalScore:     row.TotalScore,
		}
		_, isNew, err := s.students.UpsertByExamNo(req)
		if err != nil {
			failed++
			logger.Warn().Err(err).Str("exam_no", row.ExamNo).Msg("import row failed")
			continue
		}
		if isNew {
			created++
		} else {
			updated++
		}
	}

	logger.Info().
		Int("created", created).
		Int("updated", updated).
		Int("failed", failed).
		Uint("uploaded_by", task.UploadedBy).
		Msg("student import finished")

	LogInfo("students", "import", fmt.Sprintf("imported %d students (%d new, %d updated, %d failed)",
		created+updated, created, updated, failed), &task.UploadedBy, "", "", nil)
	return nil
}
