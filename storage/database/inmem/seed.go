package inmemdb

import (
	"time"

	"github.com/pkg/errors"

	"github.com/hesedu/shikshya/core/audit"
	"github.com/hesedu/shikshya/core/billing"
	"github.com/hesedu/shikshya/core/content"
	"github.com/hesedu/shikshya/core/settings"
	"github.com/hesedu/shikshya/core/user"
)

// seedPassword is the password of every seeded account.
const seedPassword = "password123"

// Seed loads the demo dataset: staff and students of Himalayan English
// School, fee structures, an opening ledger and system settings.
func Seed(db *DB) error {
	now := time.Now().UTC()

	db.settings.row = settings.SystemSettings{
		SchoolName:          "Himalayan English School",
		Address:             "Pokhara-5, Nepal",
		Phone:               "061-520000",
		CurrentSession:      "2081",
		IsDeviceLockEnabled: true,
		AllowTeacherLogin:   true,
		MaintenanceMode:     false,
	}

	users := []user.User{
		{
			UID:         "admin1",
			Name:        "Accounts Officer",
			Email:       "accounts@hes.edu.np",
			Role:        user.RoleAdmin,
			Designation: "Finance Dept",
			PhotoURL:    user.AvatarURL("Accounts Officer"),
		},
		{
			UID:         "superadmin1",
			Name:        "School Administrator",
			Email:       "admin@hes.edu.np",
			Role:        user.RoleSuperAdmin,
			Designation: "Principal Office",
			PhotoURL:    user.AvatarURL("School Administrator"),
		},
		{
			UID:                "u1",
			Name:               "Aarav Sharma",
			Role:               user.RoleStudent,
			Class:              "10",
			Section:            "A",
			StudentID:          "HES-2023-001",
			RegistrationNumber: "REG-88291",
			JoinedYear:         "2075",
			DOB:                "2008-05-12",
			Address:            "Lakeside, Pokhara-6",
			ParentName:         "Hari Sharma",
			ParentPhone:        "9841000001",
			EmergencyContact:   "9800000001",
			IsBusStudent:       true,
			BusRoute:           "Route 5 (Lakeside)",
			TiffinType:         user.TiffinSchool,
			AdmissionDate:      "2075-01-15",
			PhotoURL:           user.AvatarURL("Aarav Sharma"),
		},
		{
			UID:                "u2",
			Name:               "Bina Tamang",
			Role:               user.RoleStudent,
			Class:              "10",
			Section:            "B",
			StudentID:          "HES-2023-002",
			RegistrationNumber: "REG-88292",
			JoinedYear:         "2076",
			DOB:                "2008-08-22",
			Address:            "Matepani, Pokhara-12",
			ParentName:         "Ram Tamang",
			ParentPhone:        "9841000002",
			EmergencyContact:   "9800000002",
			IsBusStudent:       false,
			TiffinType:         user.TiffinHome,
			AdmissionDate:      "2076-02-10",
			PhotoURL:           user.AvatarURL("Bina Tamang"),
		},
		{
			UID:                "u3",
			Name:               "Charlie Gurung",
			Role:               user.RoleStudent,
			Class:              "9",
			Section:            "A",
			StudentID:          "HES-2023-003",
			RegistrationNumber: "REG-99100",
			JoinedYear:         "2078",
			DOB:                "2009-01-10",
			Address:            "Chipledhunga, Pokhara-4",
			ParentName:         "Sita Gurung",
			ParentPhone:        "9841000003",
			EmergencyContact:   "9800000003",
			IsBusStudent:       true,
			BusRoute:           "Route 2 (Chipledhunga)",
			TiffinType:         user.TiffinSchool,
			AdmissionDate:      "2078-01-20",
			PhotoURL:           user.AvatarURL("Charlie Gurung"),
		},
		{
			UID:                "u4",
			Name:               "Deepa Magar",
			Role:               user.RoleStudent,
			Class:              "Unassigned",
			StudentID:          "HES-2023-004",
			RegistrationNumber: "REG-NEW-001",
			JoinedYear:         "2081",
			DOB:                "2009-11-05",
			Address:            "Parsyang, Pokhara-5",
			ParentName:         "Bishnu Magar",
			ParentPhone:        "9841000004",
			EmergencyContact:   "9800000004",
			IsBusStudent:       false,
			TiffinType:         user.TiffinHome,
			AdmissionDate:      "2081-01-05",
			PhotoURL:           user.AvatarURL("Deepa Magar"),
		},
	}
	for i := range users {
		usr := users[i]
		usr.CreatedAt = now
		usr.UpdatedAt = now
		if err := usr.SetPassword(seedPassword); err != nil {
			return errors.Wrap(err, "hashing seed password")
		}
		db.users.rows = append(db.users.rows, &usr)
	}

	structures := []billing.FeeStructure{
		{
			ID:            "fs1",
			Title:         "Secondary Tuition (Grade 10)",
			Amount:        5000,
			Type:          billing.FeeTuition,
			Frequency:     billing.FrequencyMonthly,
			TargetClass:   "10",
			TargetService: billing.ServiceNone,
		},
		{
			ID:            "fs2",
			Title:         "Secondary Tuition (Grade 9)",
			Amount:        4500,
			Type:          billing.FeeTuition,
			Frequency:     billing.FrequencyMonthly,
			TargetClass:   "9",
			TargetService: billing.ServiceNone,
		},
		{
			ID:            "fs3",
			Title:         "Bus Service Fee",
			Amount:        1500,
			Type:          billing.FeeBus,
			Frequency:     billing.FrequencyMonthly,
			TargetClass:   billing.TargetAllClasses,
			TargetService: billing.ServiceBus,
		},
		{
			ID:            "fs4",
			Title:         "School Lunch Package",
			Amount:        2000,
			Type:          billing.FeePackage,
			Frequency:     billing.FrequencyMonthly,
			TargetClass:   billing.TargetAllClasses,
			TargetService: billing.ServiceTiffin,
		},
	}
	for i := range structures {
		db.billing.structures = append(db.billing.structures, &structures[i])
	}

	fees := []billing.FeeRecord{
		{
			ID: "f1", StudentID: "u1", Title: "Term 1 Tuition", Type: billing.FeeTuition,
			TotalAmount: 15000, PaidAmount: 15000, DueDate: "2024-04-15",
			Status: billing.StatusPaid, IssuedDate: "2024-03-15",
		},
		{
			ID: "f2", StudentID: "u1", Title: "Bus Service (Month 1)", Type: billing.FeeBus,
			TotalAmount: 3000, PaidAmount: 0, DueDate: "2024-05-01",
			Status: billing.StatusOverdue, IssuedDate: "2024-04-01",
		},
		{
			ID: "f3", StudentID: "u2", Title: "Term 1 Tuition", Type: billing.FeeTuition,
			TotalAmount: 15000, PaidAmount: 10000, DueDate: "2024-04-15",
			Status: billing.StatusPartial, IssuedDate: "2024-03-15",
		},
		{
			ID: "f4", StudentID: "u3", Title: "Admission Fee", Type: billing.FeeAdmission,
			TotalAmount: 25000, PaidAmount: 25000, DueDate: "2024-01-15",
			Status: billing.StatusPaid, IssuedDate: "2024-01-01",
		},
	}
	for i := range fees {
		db.billing.fees = append(db.billing.fees, &fees[i])
	}

	payments := []billing.PaymentTransaction{
		{ID: "p1", FeeID: "f1", StudentID: "u1", Amount: 15000, Date: "2024-04-10", Method: billing.MethodBank, RecordedBy: "Accounts Officer"},
		{ID: "p2", FeeID: "f3", StudentID: "u2", Amount: 5000, Date: "2024-04-01", Method: billing.MethodCash, RecordedBy: "Accounts Officer"},
		{ID: "p3", FeeID: "f3", StudentID: "u2", Amount: 5000, Date: "2024-04-15", Method: billing.MethodOnline, RecordedBy: "Accounts Officer"},
		{ID: "p4", FeeID: "f4", StudentID: "u3", Amount: 25000, Date: "2024-01-10", Method: billing.MethodCheque, RecordedBy: "Accounts Officer"},
	}
	for i := range payments {
		db.billing.payments = append(db.billing.payments, &payments[i])
	}

	assignments := []content.Assignment{
		{
			ID: "a1", Title: "Algebra: Chapter 5 Exercises",
			Description: "Complete exercises 5.1 to 5.3 from the textbook.",
			Subject:     "Mathematics", ClassTarget: "10", DueDate: "2024-05-20",
			CreatedBy: "Teacher Math", CompletedBy: []string{"u1"},
		},
		{
			ID: "a2", Title: "Physics Lab Report: Optics",
			Description: "Submit the lab report for the lens experiment.",
			Subject:     "Science", ClassTarget: "10", DueDate: "2024-05-22",
			CreatedBy: "Teacher Physics", CompletedBy: []string{},
		},
	}
	for i := range assignments {
		db.content.assignments = append(db.content.assignments, &assignments[i])
	}

	news := []content.NewsItem{
		{
			ID: "n1", Title: "Annual Sports Day",
			Body:     "The annual sports day will be held on Friday. All students must wear house uniforms.",
			ImageURL: "https://picsum.photos/800/400?random=10",
			Type:     content.NewsEvent, PostedAt: "2024-05-10", PostedBy: "Principal",
		},
		{
			ID: "n2", Title: "Exam Schedule Released",
			Body:     "The final term examination schedule has been published on the notice board.",
			ImageURL: "https://picsum.photos/800/400?random=11",
			Type:     content.NewsNotice, PostedAt: "2024-05-12", PostedBy: "Admin",
		},
	}
	for i := range news {
		db.content.news = append(db.content.news, &news[i])
	}

	db.audit.rows = append(db.audit.rows, &audit.Entry{
		ID:          "l1",
		Action:      "SYSTEM_START",
		Description: "System initialized successfully",
		AdminName:   "System",
		Timestamp:   now,
		Details:     "Seed dataset loaded",
	})
	return nil
}
