package audit

import (
	"time"

	"github.com/google/uuid"
)

type (
	Repository interface {
		AppendEntry(entry Entry) (Entry, error)
		// QueryEntries returns entries newest-first, optionally filtered by
		// subject student.
		QueryEntries(studentID string) ([]Entry, error)
	}

	Service struct {
		repo Repository

		NowFunc func() time.Time // mockable
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo, NowFunc: time.Now}
}

// Record appends one entry to the activity log. Every mutating operation in
// the portal produces exactly one call to Record.
func (svc *Service) Record(action, description, adminName, details, studentID string) error {
	_, err := svc.repo.AppendEntry(Entry{
		ID:          uuid.New().String(),
		Action:      action,
		Description: description,
		AdminName:   adminName,
		Timestamp:   svc.NowFunc().UTC(),
		Details:     details,
		StudentID:   studentID,
	})
	return err
}

func (svc *Service) Query(studentID string) ([]Entry, error) {
	return svc.repo.QueryEntries(studentID)
}
