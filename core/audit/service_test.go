package audit_test

import (
	"testing"

	"github.com/hesedu/shikshya/core/audit"
	"github.com/hesedu/shikshya/storage/database/inmem"
)

func Test_service_Record(t *testing.T) {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("Open() failed, %v", err)
	}
	svc := audit.NewService(inmemdb.NewAuditRepository(db))

	records := []struct {
		action, desc, studentID string
	}{
		{action: audit.ActionLogin, desc: "User Accounts Officer logged in"},
		{action: audit.ActionFeeAssign, desc: "Assigned fee: Exam Fee", studentID: "u1"},
		{action: audit.ActionPaymentRecord, desc: "Recorded payment of Rs. 500 via Cash", studentID: "u1"},
		{action: audit.ActionStudentUpdate, desc: "Updated profile for Bina Tamang", studentID: "u2"},
	}
	for _, r := range records {
		if err := svc.Record(r.action, r.desc, "Accounts Officer", "", r.studentID); err != nil {
			t.Fatalf("Record() failed, %v", err)
		}
	}

	entries, err := svc.Query("")
	if err != nil {
		t.Fatalf("Query() failed, %v", err)
	}
	if len(entries) != len(records) {
		t.Fatalf("got %d entries, want %d", len(entries), len(records))
	}
	// newest first
	if entries[0].Action != audit.ActionStudentUpdate {
		t.Errorf("entries[0].Action = %v, want %v", entries[0].Action, audit.ActionStudentUpdate)
	}
	if entries[0].ID == "" || entries[0].Timestamp.IsZero() {
		t.Error("entry is missing an id or a timestamp")
	}

	scoped, err := svc.Query("u1")
	if err != nil {
		t.Fatalf("Query() failed, %v", err)
	}
	if len(scoped) != 2 {
		t.Fatalf("got %d entries for u1, want 2", len(scoped))
	}
	for _, e := range scoped {
		if e.StudentID != "u1" {
			t.Errorf("e.StudentID = %v, want u1", e.StudentID)
		}
	}
}
