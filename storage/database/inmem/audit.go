package inmemdb

import (
	"github.com/hesedu/shikshya/core/audit"
)

type auditRepository struct {
	db *auditTable
}

func NewAuditRepository(db *DB) audit.Repository {
	return &auditRepository{db: db.audit}
}

func (repo *auditRepository) AppendEntry(entry audit.Entry) (audit.Entry, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.rows = append([]*audit.Entry{&entry}, repo.db.rows...)
	return entry, nil
}

func (repo *auditRepository) QueryEntries(studentID string) ([]audit.Entry, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	entries := make([]audit.Entry, 0, len(repo.db.rows))
	for _, entry := range repo.db.rows {
		if studentID != "" && entry.StudentID != studentID {
			continue
		}
		entries = append(entries, *entry)
	}
	return entries, nil
}
