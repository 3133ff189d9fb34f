package user

import (
	"fmt"
	"net/url"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hesedu/shikshya/core"
)

// Roles
const (
	RoleStudent    = "student"
	RoleAdmin      = "admin" // school officer
	RoleSuperAdmin = "superadmin"
)

var StaffRoles = []string{RoleAdmin, RoleSuperAdmin}

// Tiffin types
const (
	TiffinSchool = "SCHOOL"
	TiffinHome   = "HOME"
)

type User struct {
	UID   string `json:"uid"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`

	// Student details
	Class            string `json:"class,omitempty"`
	Section          string `json:"section,omitempty"`
	StudentID        string `json:"student_id,omitempty"`
	ParentName       string `json:"parent_name,omitempty"`
	ParentPhone      string `json:"parent_phone,omitempty"`
	EmergencyContact string `json:"emergency_contact,omitempty"`
	DOB              string `json:"dob,omitempty"`
	Address          string `json:"address,omitempty"`

	// Academic & admin details
	RegistrationNumber string `json:"registration_number,omitempty"`
	AdmissionDate      string `json:"admission_date,omitempty"`
	JoinedYear         string `json:"joined_year,omitempty"`

	// Services
	IsBusStudent bool   `json:"is_bus_student"`
	BusRoute     string `json:"bus_route,omitempty"`
	TiffinType   string `json:"tiffin_type,omitempty"`

	// Staff details
	Designation string `json:"designation,omitempty"`

	PhotoURL     string `json:"photo_url,omitempty"`
	PasswordHash []byte `json:"-"`
	DeviceID     string `json:"-"` // last-issued session device

	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
	LastLogin time.Time `json:"last_login"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsStudent() bool { return u.Role == RoleStudent }

// IsStaff reports whether the user may perform administrative mutations.
func (u *User) IsStaff() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

// AvatarURL builds the default profile image for a user without a photo.
func AvatarURL(name string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=random"
}

// NewStudentID builds a student ID token, e.g. "HES-2026-042".
func NewStudentID(year, seq int) string {
	return fmt.Sprintf("HES-%d-%03d", year, seq)
}

// NewStudent contains information needed to admit a new student.
type NewStudent struct {
	Name               string `json:"name" validate:"required"`
	Email              string `json:"email" validate:"omitempty,email"`
	Class              string `json:"class"`
	Section            string `json:"section"`
	StudentID          string `json:"student_id"`
	ParentName         string `json:"parent_name"`
	ParentPhone        string `json:"parent_phone"`
	EmergencyContact   string `json:"emergency_contact"`
	DOB                string `json:"dob" validate:"omitempty,date"`
	Address            string `json:"address"`
	RegistrationNumber string `json:"registration_number"`
	JoinedYear         string `json:"joined_year"`
	IsBusStudent       bool   `json:"is_bus_student"`
	BusRoute           string `json:"bus_route"`
	TiffinType         string `json:"tiffin_type" validate:"omitempty,oneof=SCHOOL HOME"`
}

func (ns *NewStudent) Validate() error {
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.Class = core.CleanString(ns.Class)
	return core.Validate.Struct(ns)
}

// NewAdmin contains information needed to create a new staff account.
type NewAdmin struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Role        string `json:"role" validate:"omitempty,oneof=admin superadmin"`
	Designation string `json:"designation"`
	Password    string `json:"password" validate:"required"`
}

func (na *NewAdmin) Validate(svc *Service) error {
	na.Name = core.CleanString(na.Name)
	na.Email = core.CleanString(na.Email, true /* lower */)
	if err := core.Validate.Struct(na); err != nil {
		return err
	}
	return svc.checkEmailUniqueness(na.Email)
}

// UpdateStudent defines what information may be provided to modify an
// existing student. Empty fields keep their current values.
type UpdateStudent struct {
	Name             string  `json:"name"`
	Email            string  `json:"email" validate:"omitempty,email"`
	Class            string  `json:"class"`
	Section          string  `json:"section"`
	ParentName       string  `json:"parent_name"`
	ParentPhone      string  `json:"parent_phone"`
	EmergencyContact string  `json:"emergency_contact"`
	DOB              string  `json:"dob" validate:"omitempty,date"`
	Address          string  `json:"address"`
	IsBusStudent     *bool   `json:"is_bus_student"`
	BusRoute         *string `json:"bus_route"`
	TiffinType       string  `json:"tiffin_type" validate:"omitempty,oneof=SCHOOL HOME"`
}

func (us *UpdateStudent) Validate() error {
	us.Name = core.CleanString(us.Name)
	us.Email = core.CleanString(us.Email, true /* lower */)
	us.Class = core.CleanString(us.Class)
	return core.Validate.Struct(us)
}

// UpdateProfile defines the self-service profile fields any signed-in user
// may change on their own account.
type UpdateProfile struct {
	Name     string `json:"name"`
	PhotoURL string `json:"photo_url" validate:"omitempty,url"`
}

func (up *UpdateProfile) Validate() error {
	up.Name = core.CleanString(up.Name)
	return core.Validate.Struct(up)
}
