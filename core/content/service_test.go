package content_test

import (
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/hesedu/shikshya/core"
	"github.com/hesedu/shikshya/core/audit"
	"github.com/hesedu/shikshya/core/content"
	"github.com/hesedu/shikshya/core/user"
	"github.com/hesedu/shikshya/storage/database/inmem"
)

var staff = user.User{UID: "admin1", Name: "Accounts Officer", Role: user.RoleAdmin}

func setup(t *testing.T) *content.Service {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("Open() failed, %v", err)
	}
	if err = inmemdb.Seed(db); err != nil {
		t.Fatalf("Seed() failed, %v", err)
	}

	auditSvc := audit.NewService(inmemdb.NewAuditRepository(db))
	return content.NewService(inmemdb.NewContentRepository(db), auditSvc)
}

func Test_service_assignments(t *testing.T) {
	svc := setup(t)

	if _, err := svc.CreateAssignment(user.User{Role: user.RoleStudent}, content.NewAssignment{}); errors.Cause(err) != core.ErrPermissionDenied {
		t.Fatalf("CreateAssignment() error = %v, want %v", err, core.ErrPermissionDenied)
	}

	a, err := svc.CreateAssignment(staff, content.NewAssignment{
		Title:       "Essay: My Village",
		Description: "500 words, due next week.",
		Subject:     "English",
		ClassTarget: "9",
		DueDate:     "2024-06-01",
	})
	if err != nil {
		t.Fatalf("CreateAssignment() failed, %v", err)
	}
	if a.CreatedBy != staff.Name {
		t.Errorf("a.CreatedBy = %v, want %v", a.CreatedBy, staff.Name)
	}
	if a.CompletedBy == nil || len(a.CompletedBy) != 0 {
		t.Errorf("a.CompletedBy = %v, want an empty list", a.CompletedBy)
	}

	if err = svc.DeleteAssignment(staff, a.ID); err != nil {
		t.Fatalf("DeleteAssignment() failed, %v", err)
	}
	if err = svc.DeleteAssignment(staff, a.ID); errors.Cause(err) != content.ErrAssignmentNotFound {
		t.Errorf("DeleteAssignment() error = %v, want %v", err, content.ErrAssignmentNotFound)
	}
}

func Test_service_ToggleAssignmentCompletion(t *testing.T) {
	svc := setup(t)

	// seeded a1 is already completed by u1
	a, err := svc.ToggleAssignmentCompletion("a1", "u2")
	if err != nil {
		t.Fatalf("ToggleAssignmentCompletion() failed, %v", err)
	}
	if len(a.CompletedBy) != 2 {
		t.Fatalf("a.CompletedBy = %v, want [u1 u2]", a.CompletedBy)
	}

	a, err = svc.ToggleAssignmentCompletion("a1", "u1")
	if err != nil {
		t.Fatalf("ToggleAssignmentCompletion() failed, %v", err)
	}
	if len(a.CompletedBy) != 1 || a.CompletedBy[0] != "u2" {
		t.Errorf("a.CompletedBy = %v, want [u2]", a.CompletedBy)
	}

	if _, err = svc.ToggleAssignmentCompletion("lol", "u1"); errors.Cause(err) != content.ErrAssignmentNotFound {
		t.Errorf("ToggleAssignmentCompletion() error = %v, want %v", err, content.ErrAssignmentNotFound)
	}
}

func Test_service_news(t *testing.T) {
	svc := setup(t)
	svc.NowFunc = func() time.Time { return time.Date(2024, time.May, 15, 10, 0, 0, 0, time.UTC) }

	n, err := svc.PostNews(staff, content.NewNewsItem{
		Title: "Parents' Day",
		Body:  "Parents' day falls on the last Friday of the month.",
		Type:  content.NewsEvent,
	})
	if err != nil {
		t.Fatalf("PostNews() failed, %v", err)
	}
	if n.PostedAt != "2024-05-15" {
		t.Errorf("n.PostedAt = %v, want 2024-05-15", n.PostedAt)
	}
	if n.PostedBy != staff.Name {
		t.Errorf("n.PostedBy = %v, want %v", n.PostedBy, staff.Name)
	}

	items, err := svc.QueryNews()
	if err != nil {
		t.Fatalf("QueryNews() failed, %v", err)
	}
	if len(items) != 3 { // 2 seeded + 1
		t.Errorf("got %d news items, want 3", len(items))
	}

	if err = svc.DeleteNews(staff, n.ID); err != nil {
		t.Fatalf("DeleteNews() failed, %v", err)
	}
	if err = svc.DeleteNews(staff, "lol"); errors.Cause(err) != content.ErrNewsNotFound {
		t.Errorf("DeleteNews() error = %v, want %v", err, content.ErrNewsNotFound)
	}
}
