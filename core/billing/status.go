package billing

// Status is the lifecycle state of a FeeRecord. It is always derived from
// (totalAmount, paidAmount, dueDate, today); it is never stored
// independently of that rule.
type Status string

const (
	StatusPaid    Status = "Paid"
	StatusPartial Status = "Partial"
	StatusOverdue Status = "Overdue"
	StatusPending Status = "Pending"
)

// CalculateStatus derives a fee's status. Rules apply in priority order:
// paid in full wins over overdue, overdue wins over partial. Dates are
// calendar-date strings (core.DateFormat), compared lexicographically.
func CalculateStatus(total, paid float64, dueDate, today string) Status {
	if paid >= total {
		return StatusPaid
	}
	if today > dueDate {
		return StatusOverdue
	}
	if paid > 0 {
		return StatusPartial
	}
	return StatusPending
}
