package billing

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/hesedu/shikshya/core"
	"github.com/hesedu/shikshya/core/audit"
	"github.com/hesedu/shikshya/core/user"
)

var (
	ErrFeeNotFound       = errors.New("fee record not found")
	ErrStructureNotFound = errors.New("fee structure not found")
	// ErrVersionConflict is returned when a fee write races another update.
	ErrVersionConflict = errors.New("fee record was modified concurrently")
)

type (
	Repository interface {
		CreateFee(fee FeeRecord) (FeeRecord, error)
		GetFeeByID(id string) (FeeRecord, error)
		// QueryAllFees returns fee records newest-first.
		QueryAllFees() ([]FeeRecord, error)
		QueryFeesByStudent(studentID string) ([]FeeRecord, error)
		// FeeExists checks the (student, structure, period) duplicate key.
		FeeExists(studentID, structureID, period string) (bool, error)
		// UpdateFee persists fee iff the stored record holds Version-1;
		// otherwise it returns ErrVersionConflict.
		UpdateFee(fee FeeRecord) (FeeRecord, error)

		CreateStructure(structure FeeStructure) (FeeStructure, error)
		QueryAllStructures() ([]FeeStructure, error)

		AppendPayment(payment PaymentTransaction) (PaymentTransaction, error)
		// QueryAllPayments returns transactions newest-first.
		QueryAllPayments() ([]PaymentTransaction, error)
	}

	// Directory resolves students for generation, summaries and exports.
	Directory interface {
		GetByUID(uid string) (user.User, error)
		QueryStudents() ([]user.User, error)
	}

	Service struct {
		repo    Repository
		dir     Directory
		audit   *audit.Service
		mailSvc core.EmailService

		NowFunc func() time.Time // mockable
	}
)

func NewService(repo Repository, dir Directory, auditSvc *audit.Service, mailSvc core.EmailService) *Service {
	return &Service{
		repo:    repo,
		dir:     dir,
		audit:   auditSvc,
		mailSvc: mailSvc,
		NowFunc: time.Now,
	}
}

func (svc *Service) today() string {
	return core.FormatDate(svc.NowFunc())
}

// QueryFees returns all fee records with statuses refreshed against today;
// records whose derived status changed (e.g. Pending fees past their due
// date) are persisted back.
func (svc *Service) QueryFees() ([]FeeRecord, error) {
	fees, err := svc.repo.QueryAllFees()
	if err != nil {
		return nil, err
	}
	return svc.refreshStatuses(fees)
}

// QueryFeesByStudent returns one student's fee records, statuses refreshed
// the same way QueryFees does.
func (svc *Service) QueryFeesByStudent(studentID string) ([]FeeRecord, error) {
	fees, err := svc.repo.QueryFeesByStudent(studentID)
	if err != nil {
		return nil, err
	}
	return svc.refreshStatuses(fees)
}

func (svc *Service) refreshStatuses(fees []FeeRecord) ([]FeeRecord, error) {
	today := svc.today()
	for i, f := range fees {
		status := CalculateStatus(f.TotalAmount, f.PaidAmount, f.DueDate, today)
		if f.Status == status {
			continue
		}
		f.Status = status
		f.Version++
		var err error
		if fees[i], err = svc.repo.UpdateFee(f); err != nil {
			return nil, errors.Wrap(err, "refreshing fee status")
		}
	}
	return fees, nil
}

func (svc *Service) GetFee(id string) (FeeRecord, error) {
	return svc.repo.GetFeeByID(id)
}

// AddFee creates a manual fee entry. The status rule is applied at creation
// so backdated fees come out Overdue.
func (svc *Service) AddFee(actor user.User, nf NewFeeRecord) (FeeRecord, error) {
	if !actor.IsStaff() {
		return FeeRecord{}, core.ErrPermissionDenied
	}

	var paid float64
	if nf.MarkPaid {
		paid = nf.TotalAmount
	}
	fee := FeeRecord{
		ID:          uuid.New().String(),
		StudentID:   nf.StudentID,
		Title:       nf.Title,
		Type:        nf.Type,
		TotalAmount: nf.TotalAmount,
		PaidAmount:  paid,
		DueDate:     nf.DueDate,
		IssuedDate:  svc.today(),
		Status:      CalculateStatus(nf.TotalAmount, paid, nf.DueDate, svc.today()),
	}
	fee, err := svc.repo.CreateFee(fee)
	if err != nil {
		return FeeRecord{}, err
	}

	studentName := "Unknown Student"
	if student, err := svc.dir.GetByUID(fee.StudentID); err == nil {
		studentName = student.Name
	}
	details := fmt.Sprintf("Student: %s, Amount: Rs. %.0f", studentName, fee.TotalAmount)
	if err = svc.audit.Record(audit.ActionFeeAssign, "Assigned fee: "+fee.Title, actor.Name, details, fee.StudentID); err != nil {
		return FeeRecord{}, errors.Wrap(err, "recording fee assignment")
	}
	return fee, nil
}

// Period formats a billing cycle key, e.g. "2026-04".
func Period(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// GenerateMonthlyFees expands every eligible (student, structure) pair into a
// fee record for the given billing cycle. Reruns for the same cycle create no
// duplicates: records carry a (student, structure, period) key. Returns the
// number of records created.
func (svc *Service) GenerateMonthlyFees(actor user.User, year int, month time.Month) (int, error) {
	if !actor.IsStaff() {
		return 0, core.ErrPermissionDenied
	}

	students, err := svc.dir.QueryStudents()
	if err != nil {
		return 0, errors.Wrap(err, "querying students")
	}
	structures, err := svc.repo.QueryAllStructures()
	if err != nil {
		return 0, errors.Wrap(err, "querying fee structures")
	}

	period := Period(year, month)
	monthName := fmt.Sprintf("%s %d", month, year)
	// due on the 5th of the following month
	dueDate := core.FormatDate(time.Date(year, month+1, 5, 0, 0, 0, 0, time.UTC))
	today := svc.today()

	var count int
	for _, student := range students {
		for _, structure := range structures {
			if structure.TargetClass != TargetAllClasses && structure.TargetClass != student.Class {
				continue
			}
			if structure.TargetService == ServiceBus && !student.IsBusStudent {
				continue
			}
			if structure.TargetService == ServiceTiffin && student.TiffinType != user.TiffinSchool {
				continue
			}

			exists, err := svc.repo.FeeExists(student.UID, structure.ID, period)
			if err != nil {
				return count, errors.Wrap(err, "checking for duplicate fee")
			}
			if exists {
				continue
			}

			fee := FeeRecord{
				ID:          uuid.New().String(),
				StudentID:   student.UID,
				StructureID: structure.ID,
				Period:      period,
				Title:       fmt.Sprintf("%s - %s", structure.Title, monthName),
				Type:        structure.Type,
				TotalAmount: structure.Amount,
				PaidAmount:  0,
				DueDate:     dueDate,
				IssuedDate:  today,
				Status:      CalculateStatus(structure.Amount, 0, dueDate, today),
			}
			if _, err = svc.repo.CreateFee(fee); err != nil {
				return count, errors.Wrap(err, "creating generated fee")
			}
			count++
		}
	}

	if count > 0 {
		desc := fmt.Sprintf("Generated %d fees for %s", count, monthName)
		if err = svc.audit.Record(audit.ActionBatchProcess, desc, actor.Name, "Automatic Calculation", ""); err != nil {
			return count, errors.Wrap(err, "recording batch run")
		}
	}
	return count, nil
}

// RecordPayment applies a payment to a fee record and appends an immutable
// transaction. The paid amount is clamped to the fee's total as a second
// line of defense behind caller-side validation.
func (svc *Service) RecordPayment(actor user.User, np NewPayment) (FeeRecord, error) {
	if !actor.IsStaff() {
		return FeeRecord{}, core.ErrPermissionDenied
	}
	if np.Amount <= 0 {
		return FeeRecord{}, core.NewValidationError(nil, core.FieldError{Field: "amount", Error: "amount must be positive"})
	}

	fee, err := svc.repo.GetFeeByID(np.FeeID)
	if err != nil {
		return FeeRecord{}, err
	}

	newPaid := fee.PaidAmount + np.Amount
	if newPaid > fee.TotalAmount {
		newPaid = fee.TotalAmount
	}
	fee.PaidAmount = newPaid
	fee.Status = CalculateStatus(fee.TotalAmount, newPaid, fee.DueDate, svc.today())
	fee.Version++
	if fee, err = svc.repo.UpdateFee(fee); err != nil {
		return FeeRecord{}, errors.Wrap(err, "applying payment")
	}

	payment := PaymentTransaction{
		ID:         uuid.New().String(),
		FeeID:      fee.ID,
		StudentID:  fee.StudentID,
		Amount:     np.Amount,
		Date:       svc.today(),
		Method:     np.Method,
		RecordedBy: actor.Name,
	}
	if _, err = svc.repo.AppendPayment(payment); err != nil {
		return FeeRecord{}, errors.Wrap(err, "appending transaction")
	}

	student, dirErr := svc.dir.GetByUID(fee.StudentID)
	studentName := "Unknown Student"
	if dirErr == nil {
		studentName = student.Name
	}
	desc := fmt.Sprintf("Recorded payment of Rs. %.0f via %s", np.Amount, np.Method)
	details := fmt.Sprintf("Fee: %s, Student: %s", fee.Title, studentName)
	if err = svc.audit.Record(audit.ActionPaymentRecord, desc, actor.Name, details, fee.StudentID); err != nil {
		return FeeRecord{}, errors.Wrap(err, "recording payment log")
	}

	if dirErr == nil && student.Email != "" {
		svc.mailSvc.SendMessages(&core.EmailMessage{
			To:           []mail.Address{{Name: student.Name, Address: student.Email}},
			Subject:      "Payment receipt: " + fee.Title,
			TemplateName: "payment_receipt",
			TemplateData: receiptData{
				StudentName: student.Name,
				FeeTitle:    fee.Title,
				Amount:      np.Amount,
				Method:      np.Method,
				Date:        payment.Date,
				PaidAmount:  fee.PaidAmount,
				TotalAmount: fee.TotalAmount,
				Balance:     fee.Balance(),
				Status:      string(fee.Status),
			},
		})
	}
	return fee, nil
}

type receiptData struct {
	StudentName string
	FeeTitle    string
	Amount      float64
	Method      string
	Date        string
	PaidAmount  float64
	TotalAmount float64
	Balance     float64
	Status      string
}

func (svc *Service) QueryPayments() ([]PaymentTransaction, error) {
	return svc.repo.QueryAllPayments()
}

func (svc *Service) QueryStructures() ([]FeeStructure, error) {
	return svc.repo.QueryAllStructures()
}

// AddStructure creates a new recurring billing rule.
func (svc *Service) AddStructure(actor user.User, ns NewFeeStructure) (FeeStructure, error) {
	if !actor.IsStaff() {
		return FeeStructure{}, core.ErrPermissionDenied
	}

	targetService := ns.TargetService
	if targetService == "" {
		targetService = ServiceNone
	}
	structure := FeeStructure{
		ID:            uuid.New().String(),
		Title:         ns.Title,
		Amount:        ns.Amount,
		Type:          ns.Type,
		Frequency:     ns.Frequency,
		TargetClass:   ns.TargetClass,
		TargetService: targetService,
	}
	structure, err := svc.repo.CreateStructure(structure)
	if err != nil {
		return FeeStructure{}, err
	}

	details := fmt.Sprintf("Amount: %.0f", structure.Amount)
	if err = svc.audit.Record(audit.ActionConfigUpdate, "Added new Fee Structure: "+structure.Title, actor.Name, details, ""); err != nil {
		return FeeStructure{}, errors.Wrap(err, "recording structure creation")
	}
	return structure, nil
}

// Summaries aggregates every student's ledger, refreshing statuses first.
func (svc *Service) Summaries() ([]StudentFinancialSummary, error) {
	fees, err := svc.QueryFees()
	if err != nil {
		return nil, err
	}
	students, err := svc.dir.QueryStudents()
	if err != nil {
		return nil, err
	}

	totals := make(map[string]*StudentFinancialSummary, len(students))
	summaries := make([]StudentFinancialSummary, len(students))
	for i, student := range students {
		summaries[i] = StudentFinancialSummary{Student: student}
		totals[student.UID] = &summaries[i]
	}
	for _, f := range fees {
		s, ok := totals[f.StudentID]
		if !ok {
			continue
		}
		s.TotalFees += f.TotalAmount
		s.TotalPaid += f.PaidAmount
		s.TotalDue += f.Balance()
	}
	return summaries, nil
}
