package billing

import (
	"github.com/hesedu/shikshya/core"
	"github.com/hesedu/shikshya/core/user"
)

// Fee types
const (
	FeeTuition   = "Tuition"
	FeeBus       = "Bus Fee"
	FeePackage   = "School Package"
	FeeExam      = "Exam Fee"
	FeeAdmission = "Admission"
	FeeOther     = "Other"
)

// Billing frequencies
const (
	FrequencyMonthly = "Monthly"
	FrequencyYearly  = "Yearly"
	FrequencyOneTime = "OneTime"
)

// Target services for fee structure eligibility
const (
	ServiceNone   = "None"
	ServiceBus    = "Bus"
	ServiceTiffin = "SchoolTiffin"
)

// TargetAllClasses makes a fee structure apply to every class.
const TargetAllClasses = "All"

// Payment methods
const (
	MethodCash   = "Cash"
	MethodBank   = "Bank Transfer"
	MethodCheque = "Cheque"
	MethodOnline = "Online"
)

// FeeStructure is a recurring billing rule: the source of truth for batch
// generation. It does not itself represent money owed.
type FeeStructure struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Amount    float64 `json:"amount"`
	Type      string  `json:"type"`
	Frequency string  `json:"frequency"`

	// Eligibility criteria
	TargetClass   string `json:"target_class"`   // specific class or TargetAllClasses
	TargetService string `json:"target_service"` // only applies if student has this service
}

// FeeRecord is one billable invoice owed by a student. Created by manual
// entry or by the monthly generator; mutated only by payment application;
// never deleted in normal flow.
type FeeRecord struct {
	ID        string `json:"id"`
	StudentID string `json:"student_id"`

	// StructureID and Period identify a generated record; together with
	// StudentID they form the duplicate-suppression key for batch runs.
	// Both are empty for manual entries.
	StructureID string `json:"structure_id,omitempty"`
	Period      string `json:"period,omitempty"` // billing cycle, "YYYY-MM"

	Title       string  `json:"title"`
	Type        string  `json:"type"`
	TotalAmount float64 `json:"total_amount"`
	PaidAmount  float64 `json:"paid_amount"` // 0 <= PaidAmount <= TotalAmount
	DueDate     string  `json:"due_date"`
	IssuedDate  string  `json:"issued_date"`
	Status      Status  `json:"status"`

	// Version guards concurrent payment application; the repository rejects
	// writes against a stale version.
	Version int `json:"version"`
}

// Balance is the amount still due.
func (f *FeeRecord) Balance() float64 {
	return f.TotalAmount - f.PaidAmount
}

// PaymentTransaction is an immutable record of money applied to exactly one
// FeeRecord. Append-only.
type PaymentTransaction struct {
	ID         string  `json:"id"`
	FeeID      string  `json:"fee_id"`
	StudentID  string  `json:"student_id"`
	Amount     float64 `json:"amount"`
	Date       string  `json:"date"` // calendar-date granularity
	Method     string  `json:"method"`
	RecordedBy string  `json:"recorded_by"`
}

// StudentFinancialSummary aggregates a student's ledger.
type StudentFinancialSummary struct {
	Student   user.User `json:"student"`
	TotalFees float64   `json:"total_fees"`
	TotalPaid float64   `json:"total_paid"`
	TotalDue  float64   `json:"total_due"`
}

// NewFeeStructure contains information needed to create a billing rule.
type NewFeeStructure struct {
	Title         string  `json:"title" validate:"required"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	Type          string  `json:"type" validate:"required,oneof=Tuition 'Bus Fee' 'School Package' 'Exam Fee' Admission Other"`
	Frequency     string  `json:"frequency" validate:"required,oneof=Monthly Yearly OneTime"`
	TargetClass   string  `json:"target_class" validate:"required"`
	TargetService string  `json:"target_service" validate:"omitempty,oneof=None Bus SchoolTiffin"`
}

func (ns *NewFeeStructure) Validate() error {
	ns.Title = core.CleanString(ns.Title)
	ns.TargetClass = core.CleanString(ns.TargetClass)
	return core.Validate.Struct(ns)
}

// NewFeeRecord contains information needed for a manual fee entry.
type NewFeeRecord struct {
	StudentID   string  `json:"student_id" validate:"required"`
	Title       string  `json:"title" validate:"required"`
	Type        string  `json:"type" validate:"required,oneof=Tuition 'Bus Fee' 'School Package' 'Exam Fee' Admission Other"`
	TotalAmount float64 `json:"total_amount" validate:"required,gt=0"`
	DueDate     string  `json:"due_date" validate:"required,date"`

	// MarkPaid records the fee as settled at creation: PaidAmount is forced
	// to TotalAmount so the status rule still holds.
	MarkPaid bool `json:"mark_paid"`
}

func (nf *NewFeeRecord) Validate() error {
	nf.Title = core.CleanString(nf.Title)
	return core.Validate.Struct(nf)
}

// NewPayment contains information needed to apply a payment to a fee.
type NewPayment struct {
	FeeID  string  `json:"fee_id" validate:"required"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Method string  `json:"method" validate:"required,oneof=Cash 'Bank Transfer' Cheque Online"`
}

func (np *NewPayment) Validate() error {
	return core.Validate.Struct(np)
}
