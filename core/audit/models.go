package audit

import "time"

// Common action tags. The field is free-form; these cover the portal's
// built-in mutations.
const (
	ActionLogin            = "LOGIN"
	ActionStudentCreate    = "STUDENT_CREATE"
	ActionStudentUpdate    = "STUDENT_UPDATE"
	ActionProfileUpdate    = "PROFILE_UPDATE"
	ActionUserCreate       = "USER_CREATE"
	ActionUserDelete       = "USER_DELETE"
	ActionFeeAssign        = "FEE_ASSIGN"
	ActionPaymentRecord    = "PAYMENT_RECORD"
	ActionBatchProcess     = "BATCH_PROCESS"
	ActionConfigUpdate     = "CONFIG_UPDATE"
	ActionAssignmentCreate = "ASSIGNMENT_CREATE"
	ActionAssignmentDelete = "ASSIGNMENT_DELETE"
	ActionNewsPost         = "NEWS_POST"
	ActionNewsDelete       = "NEWS_DELETE"
	ActionSettingsUpdate   = "SETTINGS_UPDATE"
)

// Entry is one append-only audit record. Entries are never updated or deleted.
type Entry struct {
	ID          string    `json:"id"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
	AdminName   string    `json:"admin_name"`
	Timestamp   time.Time `json:"timestamp"` // UTC
	Details     string    `json:"details,omitempty"`
	StudentID   string    `json:"student_id,omitempty"` // subject student, for filtering
}
