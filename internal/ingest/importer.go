package ingest

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/urjaconsultants/lead-pipeline/internal/apperrors"
	"github.com/urjaconsultants/lead-pipeline/internal/model"
	"github.com/urjaconsultants/lead-pipeline/internal/observer"
	"github.com/urjaconsultants/lead-pipeline/pkg/logger"
	"github.com/urjaconsultants/lead-pipeline/pkg/utils"
)

// LeadAppender is the narrow persistence surface the importer needs.
// Admitted leads are appended in one call so a failed or structurally
// broken stream never leaves a partial batch behind.
type LeadAppender interface {
	AppendLeads(ctx context.Context, leads []model.Lead) error
}

// Importer streams a tabular source row by row, classifies the header,
// normalizes and assembles each data row, and appends the admitted leads
// in a single batch.
type Importer struct {
	repo    LeadAppender
	maxRows int
}

func NewImporter(repo LeadAppender, maxRows int) *Importer {
	return &Importer{repo: repo, maxRows: maxRows}
}

// Import consumes the source until io.EOF. It returns the number of leads
// admitted. A source with no header row, no data rows, or a mid-stream
// read failure is rejected as structural and admits nothing.
func (im *Importer) Import(ctx context.Context, src TableSource) (int, error) {
	log := logger.FromContext(ctx)
	start := time.Now()

	header, err := src.Next()
	if err != nil {
		if err == io.EOF {
			return 0, apperrors.NewFatal(apperrors.ErrStructural, "source has no header row")
		}
		return 0, apperrors.NewFatal(apperrors.ErrStructural, "failed to read header row: %v", err)
	}

	columns := MapColumns(headerTexts(header))
	log.Debug("Classified import header",
		zap.Int("raw_columns", len(header)),
		zap.Int("recognized_columns", len(columns)))

	var (
		admitted []model.Lead
		skipped  int
		dataRows int
		now      = utils.Now()
	)
	for {
		if err := ctx.Err(); err != nil {
			return 0, apperrors.NewFatal(err, "import canceled after %d rows", dataRows)
		}

		row, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			observer.IncImportRejected()
			return 0, apperrors.NewFatal(apperrors.ErrStructural, "failed to read row %d: %v", dataRows+2, err)
		}
		dataRows++

		if im.maxRows > 0 && dataRows > im.maxRows {
			observer.IncImportRejected()
			return 0, apperrors.NewFatal(apperrors.ErrBadRequest, "source exceeds row limit of %d", im.maxRows)
		}

		if row.IsBlank() {
			skipped++
			observer.IncImportRowSkipped()
			continue
		}

		lead := assembleRow(columns, row, now)
		if lead.KVA == "" || lead.ConsumerNumber == "" {
			skipped++
			observer.IncImportRowSkipped()
			continue
		}

		admitted = append(admitted, lead)
		observer.IncImportRowAdmitted()
	}

	if dataRows == 0 {
		observer.IncImportRejected()
		return 0, apperrors.NewFatal(apperrors.ErrStructural, "source has no data rows")
	}

	if len(admitted) > 0 {
		if err := im.repo.AppendLeads(ctx, admitted); err != nil {
			return 0, err
		}
	}

	observer.ObserveImportDuration(time.Since(start))
	log.Info("Import completed",
		zap.Int("admitted", len(admitted)),
		zap.Int("skipped", skipped),
		zap.Duration("duration", time.Since(start)))
	return len(admitted), nil
}

func assembleRow(columns map[int]CanonicalField, row Row, now time.Time) model.Lead {
	var partial PartialLead
	for idx, field := range columns {
		if idx >= len(row) {
			continue
		}
		cell := row[idx]
		if cell.IsBlank() {
			continue
		}
		partial.Set(field, cell)
	}
	return partial.Assemble(now)
}

func headerTexts(row Row) []string {
	texts := make([]string, len(row))
	for i, cell := range row {
		texts[i] = cell.Text()
	}
	return texts
}
