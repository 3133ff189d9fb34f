package billing_test

import (
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/hesedu/shikshya/core"
	"github.com/hesedu/shikshya/core/audit"
	"github.com/hesedu/shikshya/core/billing"
	"github.com/hesedu/shikshya/core/user"
	"github.com/hesedu/shikshya/services/email"
	"github.com/hesedu/shikshya/storage/database/inmem"
)

var (
	staff   = user.User{UID: "admin1", Name: "Accounts Officer", Role: user.RoleAdmin}
	student = user.User{UID: "u1", Name: "Aarav Sharma", Role: user.RoleStudent}
)

func setup(t *testing.T) (*billing.Service, *audit.Service) {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("Open() failed, %v", err)
	}
	if err = inmemdb.Seed(db); err != nil {
		t.Fatalf("Seed() failed, %v", err)
	}

	mailSvc := emailsvc.NewConsoleServiceMock()
	auditSvc := audit.NewService(inmemdb.NewAuditRepository(db))
	usrSvc := user.NewService(inmemdb.NewUserRepository(db), auditSvc, mailSvc)
	svc := billing.NewService(inmemdb.NewBillingRepository(db), usrSvc, auditSvc, mailSvc)
	svc.NowFunc = func() time.Time { return time.Date(2024, time.April, 20, 10, 0, 0, 0, time.UTC) }
	return svc, auditSvc
}

func countAction(t *testing.T, auditSvc *audit.Service, action string) int {
	entries, err := auditSvc.Query("")
	if err != nil {
		t.Fatalf("audit.Query() failed, %v", err)
	}
	var n int
	for _, e := range entries {
		if e.Action == action {
			n++
		}
	}
	return n
}

func Test_service_AddFee(t *testing.T) {
	svc, auditSvc := setup(t)

	tests := []struct {
		name       string
		actor      user.User
		new        billing.NewFeeRecord
		wantErr    error
		wantStatus billing.Status
		wantPaid   float64
	}{
		{
			name: "students cannot assign fees", actor: student,
			new:     billing.NewFeeRecord{StudentID: "u2", Title: "Exam Fee", Type: billing.FeeExam, TotalAmount: 500, DueDate: "2024-05-05"},
			wantErr: core.ErrPermissionDenied,
		},
		{
			name: "future due date is pending", actor: staff,
			new:        billing.NewFeeRecord{StudentID: "u2", Title: "Exam Fee", Type: billing.FeeExam, TotalAmount: 500, DueDate: "2024-05-05"},
			wantStatus: billing.StatusPending,
		},
		{
			name: "backdated fee is overdue", actor: staff,
			new:        billing.NewFeeRecord{StudentID: "u2", Title: "Old Lab Fee", Type: billing.FeeOther, TotalAmount: 800, DueDate: "2024-03-01"},
			wantStatus: billing.StatusOverdue,
		},
		{
			name: "mark paid settles at creation", actor: staff,
			new:        billing.NewFeeRecord{StudentID: "u2", Title: "Stationery", Type: billing.FeeOther, TotalAmount: 300, DueDate: "2024-03-01", MarkPaid: true},
			wantStatus: billing.StatusPaid,
			wantPaid:   300,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee, err := svc.AddFee(tt.actor, tt.new)
			if tt.wantErr != nil {
				if errors.Cause(err) != tt.wantErr {
					t.Fatalf("AddFee() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("AddFee() failed, %v", err)
			}
			if fee.Status != tt.wantStatus {
				t.Errorf("fee.Status = %v, want %v", fee.Status, tt.wantStatus)
			}
			if fee.PaidAmount != tt.wantPaid {
				t.Errorf("fee.PaidAmount = %v, want %v", fee.PaidAmount, tt.wantPaid)
			}
			if fee.IssuedDate != "2024-04-20" {
				t.Errorf("fee.IssuedDate = %v, want 2024-04-20", fee.IssuedDate)
			}
		})
	}

	if got := countAction(t, auditSvc, audit.ActionFeeAssign); got != 3 {
		t.Errorf("got %d fee assignment logs, want 3", got)
	}
}

func Test_service_RecordPayment(t *testing.T) {
	svc, auditSvc := setup(t)

	t.Run("students cannot record payments", func(t *testing.T) {
		_, err := svc.RecordPayment(student, billing.NewPayment{FeeID: "f3", Amount: 100, Method: billing.MethodCash})
		if errors.Cause(err) != core.ErrPermissionDenied {
			t.Errorf("RecordPayment() error = %v, want %v", err, core.ErrPermissionDenied)
		}
	})

	t.Run("amount must be positive", func(t *testing.T) {
		_, err := svc.RecordPayment(staff, billing.NewPayment{FeeID: "f3", Amount: -50, Method: billing.MethodCash})
		if _, ok := errors.Cause(err).(*core.ValidationError); !ok {
			t.Errorf("RecordPayment() error = %v, want a validation error", err)
		}
	})

	t.Run("unknown fee", func(t *testing.T) {
		_, err := svc.RecordPayment(staff, billing.NewPayment{FeeID: "lol", Amount: 100, Method: billing.MethodCash})
		if errors.Cause(err) != billing.ErrFeeNotFound {
			t.Errorf("RecordPayment() error = %v, want %v", err, billing.ErrFeeNotFound)
		}
	})

	t.Run("partial payment", func(t *testing.T) {
		// f3: 15000 total, 10000 paid, due 2024-04-15; still short past due
		fee, err := svc.RecordPayment(staff, billing.NewPayment{FeeID: "f3", Amount: 2000, Method: billing.MethodCash})
		if err != nil {
			t.Fatalf("RecordPayment() failed, %v", err)
		}
		if fee.PaidAmount != 12000 {
			t.Errorf("fee.PaidAmount = %v, want 12000", fee.PaidAmount)
		}
		if fee.Status != billing.StatusOverdue {
			t.Errorf("fee.Status = %v, want %v", fee.Status, billing.StatusOverdue)
		}
	})

	t.Run("settling payment", func(t *testing.T) {
		fee, err := svc.RecordPayment(staff, billing.NewPayment{FeeID: "f3", Amount: 3000, Method: billing.MethodOnline})
		if err != nil {
			t.Fatalf("RecordPayment() failed, %v", err)
		}
		if fee.Status != billing.StatusPaid {
			t.Errorf("fee.Status = %v, want %v", fee.Status, billing.StatusPaid)
		}
		if fee.Balance() != 0 {
			t.Errorf("fee.Balance() = %v, want 0", fee.Balance())
		}
	})

	t.Run("overpayment is clamped", func(t *testing.T) {
		// f2: 3000 total, nothing paid
		fee, err := svc.RecordPayment(staff, billing.NewPayment{FeeID: "f2", Amount: 999999, Method: billing.MethodBank})
		if err != nil {
			t.Fatalf("RecordPayment() failed, %v", err)
		}
		if fee.PaidAmount != fee.TotalAmount {
			t.Errorf("fee.PaidAmount = %v, want %v", fee.PaidAmount, fee.TotalAmount)
		}
		if fee.Status != billing.StatusPaid {
			t.Errorf("fee.Status = %v, want %v", fee.Status, billing.StatusPaid)
		}
	})

	payments, err := svc.QueryPayments()
	if err != nil {
		t.Fatalf("QueryPayments() failed, %v", err)
	}
	if len(payments) != 7 { // 4 seeded + 3 recorded
		t.Errorf("got %d payments, want 7", len(payments))
	}
	if payments[0].RecordedBy != staff.Name {
		t.Errorf("payments[0].RecordedBy = %v, want %v", payments[0].RecordedBy, staff.Name)
	}

	if got := countAction(t, auditSvc, audit.ActionPaymentRecord); got != 3 {
		t.Errorf("got %d payment logs, want 3", got)
	}
}

func Test_service_GenerateMonthlyFees(t *testing.T) {
	svc, auditSvc := setup(t)

	t.Run("students cannot run the cycle", func(t *testing.T) {
		if _, err := svc.GenerateMonthlyFees(student, 2081, time.May); errors.Cause(err) != core.ErrPermissionDenied {
			t.Errorf("GenerateMonthlyFees() error = %v, want %v", err, core.ErrPermissionDenied)
		}
	})

	// Eligible pairs in the seed data:
	//   u1 (class 10, bus, school tiffin) -> tuition 10, bus, lunch
	//   u2 (class 10)                     -> tuition 10
	//   u3 (class 9, bus, school tiffin)  -> tuition 9, bus, lunch
	//   u4 (unassigned)                   -> none
	count, err := svc.GenerateMonthlyFees(staff, 2081, time.May)
	if err != nil {
		t.Fatalf("GenerateMonthlyFees() failed, %v", err)
	}
	if count != 7 {
		t.Errorf("count = %d, want 7", count)
	}

	t.Run("rerun creates no duplicates", func(t *testing.T) {
		count, err := svc.GenerateMonthlyFees(staff, 2081, time.May)
		if err != nil {
			t.Fatalf("GenerateMonthlyFees() failed, %v", err)
		}
		if count != 0 {
			t.Errorf("count = %d, want 0", count)
		}
	})

	fees, err := svc.QueryFees()
	if err != nil {
		t.Fatalf("QueryFees() failed, %v", err)
	}
	byStudent := make(map[string][]billing.FeeRecord)
	for _, f := range fees {
		if f.Period == billing.Period(2081, time.May) {
			byStudent[f.StudentID] = append(byStudent[f.StudentID], f)
		}
	}

	if got := len(byStudent["u2"]); got != 1 {
		t.Errorf("u2 got %d generated fees, want 1 (no bus, no school tiffin)", got)
	}
	for _, f := range byStudent["u2"] {
		if f.Type == billing.FeeBus {
			t.Error("billed bus fee to a non-rider")
		}
	}
	if got := len(byStudent["u4"]); got != 0 {
		t.Errorf("u4 got %d generated fees, want 0 (unassigned class)", got)
	}

	for _, f := range byStudent["u1"] {
		// due on the 5th of the following month
		if f.DueDate != "2081-06-05" {
			t.Errorf("f.DueDate = %v, want 2081-06-05", f.DueDate)
		}
		if !strings.HasSuffix(f.Title, "- May 2081") {
			t.Errorf("f.Title = %q, want a 'May 2081' suffix", f.Title)
		}
	}

	t.Run("december rolls the due date into next year", func(t *testing.T) {
		if _, err := svc.GenerateMonthlyFees(staff, 2081, time.December); err != nil {
			t.Fatalf("GenerateMonthlyFees() failed, %v", err)
		}
		fees, err := svc.QueryFees()
		if err != nil {
			t.Fatalf("QueryFees() failed, %v", err)
		}
		for _, f := range fees {
			if f.Period == billing.Period(2081, time.December) && f.DueDate != "2082-01-05" {
				t.Errorf("f.DueDate = %v, want 2082-01-05", f.DueDate)
			}
		}
	})

	// one batch log per productive run
	if got := countAction(t, auditSvc, audit.ActionBatchProcess); got != 2 {
		t.Errorf("got %d batch logs, want 2", got)
	}
}

func Test_service_QueryFees_refreshesStatuses(t *testing.T) {
	svc, _ := setup(t)

	fee, err := svc.AddFee(staff, billing.NewFeeRecord{
		StudentID: "u1", Title: "Library Fee", Type: billing.FeeOther, TotalAmount: 400, DueDate: "2024-04-25",
	})
	if err != nil {
		t.Fatalf("AddFee() failed, %v", err)
	}
	if fee.Status != billing.StatusPending {
		t.Fatalf("fee.Status = %v, want %v", fee.Status, billing.StatusPending)
	}

	// a week later the fee has lapsed
	svc.NowFunc = func() time.Time { return time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC) }
	if _, err = svc.QueryFees(); err != nil {
		t.Fatalf("QueryFees() failed, %v", err)
	}

	refreshed, err := svc.GetFee(fee.ID)
	if err != nil {
		t.Fatalf("GetFee() failed, %v", err)
	}
	if refreshed.Status != billing.StatusOverdue {
		t.Errorf("refreshed.Status = %v, want %v", refreshed.Status, billing.StatusOverdue)
	}
	if refreshed.Version != fee.Version+1 {
		t.Errorf("refreshed.Version = %d, want %d", refreshed.Version, fee.Version+1)
	}
}

func Test_service_Summaries(t *testing.T) {
	svc, _ := setup(t)

	summaries, err := svc.Summaries()
	if err != nil {
		t.Fatalf("Summaries() failed, %v", err)
	}

	want := map[string][3]float64{ // fees, paid, due
		"u1": {18000, 15000, 3000},
		"u2": {15000, 10000, 5000},
		"u3": {25000, 25000, 0},
		"u4": {0, 0, 0},
	}
	if len(summaries) != len(want) {
		t.Fatalf("got %d summaries, want %d", len(summaries), len(want))
	}
	for _, s := range summaries {
		w, ok := want[s.Student.UID]
		if !ok {
			t.Errorf("unexpected summary for %s", s.Student.UID)
			continue
		}
		if s.TotalFees != w[0] || s.TotalPaid != w[1] || s.TotalDue != w[2] {
			t.Errorf("%s: got (%v, %v, %v), want (%v, %v, %v)",
				s.Student.UID, s.TotalFees, s.TotalPaid, s.TotalDue, w[0], w[1], w[2])
		}
	}
}

func Test_service_ExportLedgerCSV(t *testing.T) {
	svc, _ := setup(t)

	t.Run("single student", func(t *testing.T) {
		data, err := svc.ExportLedgerCSV("u2")
		if err != nil {
			t.Fatalf("ExportLedgerCSV() failed, %v", err)
		}
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 2 { // header + f3
			t.Fatalf("got %d lines, want 2", len(lines))
		}
		if lines[0] != "Invoice ID,Student Name,Student ID,Class,Fee Title,Type,Total Amount,Paid Amount,Balance Due,Status,Issued Date,Due Date" {
			t.Errorf("unexpected header: %s", lines[0])
		}
		// f3 is past due on 2024-04-20, so the export reflects the refreshed status
		if lines[1] != "f3,Bina Tamang,HES-2023-002,10,Term 1 Tuition,Tuition,15000,10000,5000,Overdue,2024-03-15,2024-04-15" {
			t.Errorf("unexpected row: %s", lines[1])
		}
	})

	t.Run("lapsed fees are refreshed on the single-student path", func(t *testing.T) {
		fee, err := svc.AddFee(staff, billing.NewFeeRecord{
			StudentID: "u1", Title: "Sports Fee", Type: billing.FeeOther, TotalAmount: 400, DueDate: "2024-04-25",
		})
		if err != nil {
			t.Fatalf("AddFee() failed, %v", err)
		}
		if fee.Status != billing.StatusPending {
			t.Fatalf("Status = %s, want %s", fee.Status, billing.StatusPending)
		}

		svc.NowFunc = func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }
		data, err := svc.ExportLedgerCSV("u1")
		if err != nil {
			t.Fatalf("ExportLedgerCSV() failed, %v", err)
		}
		want := fee.ID + ",Aarav Sharma,HES-2023-001,10,Sports Fee,Other,400,0,400,Overdue,2024-04-20,2024-04-25"
		if !strings.Contains(string(data), want) {
			t.Errorf("lapsed fee not refreshed:\n%s", data)
		}
	})

	t.Run("titles with commas and quotes are escaped", func(t *testing.T) {
		if _, err := svc.AddFee(staff, billing.NewFeeRecord{
			StudentID: "u1", Title: `Lab Fee, "Advanced"`, Type: billing.FeeOther, TotalAmount: 250, DueDate: "2024-05-05",
		}); err != nil {
			t.Fatalf("AddFee() failed, %v", err)
		}

		data, err := svc.ExportLedgerCSV("")
		if err != nil {
			t.Fatalf("ExportLedgerCSV() failed, %v", err)
		}
		if !strings.Contains(string(data), `"Lab Fee, ""Advanced"""`) {
			t.Errorf("title not escaped:\n%s", data)
		}
	})
}
