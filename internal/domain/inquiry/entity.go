package inquiry

import (
	"time"

	"github.com/inmohub/realty-api/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// MarkContacted is a one-way transition: the first call stamps
// contacted_at; repeated calls never clear or move the stamp.
func MarkContacted(inq *models.Inquiry, now time.Time) {
	if !inq.IsContacted {
		inq.IsContacted = true
		inq.ContactedAt = &now
	}
	if inq.Status == string(StatusNew) {
		inq.Status = string(StatusContacted)
	}
}

// AppendNote accumulates internal notes; prior content is never
// overwritten, each entry lands on its own line.
func AppendNote(inq *models.Inquiry, note string) {
	if note == "" {
		return
	}
	if inq.Notes == "" {
		inq.Notes = note
		return
	}
	inq.Notes = inq.Notes + "\n" + note
}
