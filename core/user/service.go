package user

import (
	"fmt"
	"math/rand"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/hesedu/shikshya/core"
	"github.com/hesedu/shikshya/core/audit"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailExists        = errors.New("a user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPortalDisabled     = errors.New("student portal is currently disabled")
)

type (
	Repository interface {
		CreateUser(usr User) (User, error)
		GetUserByUID(uid string) (User, error)
		GetUserByEmail(email string) (User, error)
		// QueryUsersByRole returns users holding any of the given roles,
		// ordered by creation time (newest first).
		QueryUsersByRole(roles ...string) ([]User, error)
		UpdateUser(usr User) (User, error)
		DeleteUser(uid string) error
	}

	Service struct {
		repo    Repository
		audit   *audit.Service
		mailSvc core.EmailService

		NowFunc func() time.Time // mockable
	}
)

func NewService(repo Repository, auditSvc *audit.Service, mailSvc core.EmailService) *Service {
	return &Service{
		repo:    repo,
		audit:   auditSvc,
		mailSvc: mailSvc,
		NowFunc: time.Now,
	}
}

func (svc *Service) checkEmailUniqueness(email string) error {
	if _, err := svc.repo.GetUserByEmail(email); err == nil {
		return core.NewValidationError(ErrEmailExists, core.FieldError{Field: "email", Error: ErrEmailExists.Error()})
	} else if errors.Cause(err) != ErrNotFound {
		return err
	}
	return nil
}

// Login authenticates a staff member and issues a fresh device id for the
// session. Any previously issued device id for the same account is
// invalidated: the portal enforces a single active session per user.
func (svc *Service) Login(email, pwd string) (User, string, error) {
	usr, err := svc.repo.GetUserByEmail(core.CleanString(email, true /* lower */))
	if err != nil {
		return User{}, "", err
	}
	if err = usr.CheckPassword(pwd); err != nil {
		return User{}, "", ErrInvalidCredentials
	}
	if usr.IsStudent() {
		return User{}, "", ErrPortalDisabled
	}

	deviceID := uuid.New().String()
	usr.DeviceID = deviceID
	usr.LastLogin = svc.NowFunc().UTC()
	if usr, err = svc.repo.UpdateUser(usr); err != nil {
		return User{}, "", errors.Wrap(err, "saving session device")
	}

	details := fmt.Sprintf("Role: %s, Device: %s", usr.Role, deviceID)
	if err = svc.audit.Record(audit.ActionLogin, "User "+usr.Name+" logged in", usr.Name, details, ""); err != nil {
		return User{}, "", errors.Wrap(err, "recording login")
	}
	return usr, deviceID, nil
}

// ValidateSession reports whether deviceID is the last-issued device id for
// the user. A later login from another client invalidates earlier sessions.
func (svc *Service) ValidateSession(uid, deviceID string) bool {
	usr, err := svc.repo.GetUserByUID(uid)
	if err != nil {
		return false
	}
	return deviceID != "" && usr.DeviceID == deviceID
}

func (svc *Service) GetByUID(uid string) (User, error) {
	return svc.repo.GetUserByUID(uid)
}

func (svc *Service) GetByEmail(email string) (User, error) {
	return svc.repo.GetUserByEmail(core.CleanString(email, true /* lower */))
}

func (svc *Service) QueryStudents() ([]User, error) {
	return svc.repo.QueryUsersByRole(RoleStudent)
}

func (svc *Service) QueryAdmins() ([]User, error) {
	return svc.repo.QueryUsersByRole(StaffRoles...)
}

// CreateStudent admits a new student. Students have no credentials; the
// student portal is disabled.
func (svc *Service) CreateStudent(actor User, ns NewStudent) (User, error) {
	if !actor.IsStaff() {
		return User{}, core.ErrPermissionDenied
	}

	now := svc.NowFunc().UTC()
	studentID := ns.StudentID
	if studentID == "" {
		studentID = NewStudentID(now.Year(), rand.Intn(1000))
	}
	class := ns.Class
	if class == "" {
		class = "Unassigned"
	}
	usr := User{
		UID:                uuid.New().String(),
		Name:               ns.Name,
		Email:              ns.Email,
		Role:               RoleStudent,
		Class:              class,
		Section:            ns.Section,
		StudentID:          studentID,
		ParentName:         ns.ParentName,
		ParentPhone:        ns.ParentPhone,
		EmergencyContact:   ns.EmergencyContact,
		DOB:                ns.DOB,
		Address:            ns.Address,
		RegistrationNumber: ns.RegistrationNumber,
		AdmissionDate:      core.FormatDate(now),
		JoinedYear:         ns.JoinedYear,
		IsBusStudent:       ns.IsBusStudent,
		BusRoute:           ns.BusRoute,
		TiffinType:         ns.TiffinType,
		PhotoURL:           AvatarURL(ns.Name),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	usr, err := svc.repo.CreateUser(usr)
	if err != nil {
		return User{}, err
	}

	if err = svc.audit.Record(audit.ActionStudentCreate, "Admitted new student: "+usr.Name, actor.Name, "Class: "+usr.Class, usr.UID); err != nil {
		return User{}, errors.Wrap(err, "recording admission")
	}
	return usr, nil
}

// CreateAdmin creates a new staff account and sends a welcome email.
func (svc *Service) CreateAdmin(actor User, na NewAdmin) (User, error) {
	if !actor.IsStaff() {
		return User{}, core.ErrPermissionDenied
	}

	now := svc.NowFunc().UTC()
	role := na.Role
	if role == "" {
		role = RoleAdmin
	}
	designation := na.Designation
	if designation == "" {
		designation = "Staff"
	}
	usr := User{
		UID:         uuid.New().String(),
		Name:        na.Name,
		Email:       na.Email,
		Role:        role,
		Designation: designation,
		PhotoURL:    AvatarURL(na.Name),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := usr.SetPassword(na.Password); err != nil {
		return User{}, err
	}
	usr, err := svc.repo.CreateUser(usr)
	if err != nil {
		return User{}, err
	}

	if err = svc.audit.Record(audit.ActionUserCreate, "Created new admin user: "+usr.Name, actor.Name, "Role: "+usr.Role, ""); err != nil {
		return User{}, errors.Wrap(err, "recording admin creation")
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:      "Your portal account",
		TemplateName: "welcome",
		TemplateData: struct{ Name, Role string }{usr.Name, usr.Role},
	})
	return usr, nil
}

// UpdateStudent applies a partial update to a student record.
func (svc *Service) UpdateStudent(actor User, uid string, us UpdateStudent) (User, error) {
	if !actor.IsStaff() {
		return User{}, core.ErrPermissionDenied
	}

	usr, err := svc.repo.GetUserByUID(uid)
	if err != nil {
		return User{}, err
	}

	var changeDesc string
	if us.Class != "" && us.Class != usr.Class {
		changeDesc += fmt.Sprintf("Class: %s -> %s. ", usr.Class, us.Class)
	}
	if us.IsBusStudent != nil && *us.IsBusStudent != usr.IsBusStudent {
		if *us.IsBusStudent {
			changeDesc += "Bus: Enabled. "
		} else {
			changeDesc += "Bus: Disabled. "
		}
	}
	if changeDesc == "" {
		changeDesc = "General details update"
	}

	if us.Name != "" {
		usr.Name = us.Name
	}
	if us.Email != "" {
		usr.Email = us.Email
	}
	if us.Class != "" {
		usr.Class = us.Class
	}
	if us.Section != "" {
		usr.Section = us.Section
	}
	if us.ParentName != "" {
		usr.ParentName = us.ParentName
	}
	if us.ParentPhone != "" {
		usr.ParentPhone = us.ParentPhone
	}
	if us.EmergencyContact != "" {
		usr.EmergencyContact = us.EmergencyContact
	}
	if us.DOB != "" {
		usr.DOB = us.DOB
	}
	if us.Address != "" {
		usr.Address = us.Address
	}
	if us.IsBusStudent != nil {
		usr.IsBusStudent = *us.IsBusStudent
	}
	if us.BusRoute != nil {
		usr.BusRoute = *us.BusRoute
	}
	if us.TiffinType != "" {
		usr.TiffinType = us.TiffinType
	}
	usr.UpdatedAt = svc.NowFunc().UTC()

	if usr, err = svc.repo.UpdateUser(usr); err != nil {
		return User{}, err
	}
	if err = svc.audit.Record(audit.ActionStudentUpdate, "Updated profile for "+usr.Name, actor.Name, changeDesc, usr.UID); err != nil {
		return User{}, errors.Wrap(err, "recording student update")
	}
	return usr, nil
}

// UpdateProfile lets a signed-in user change their own display details.
func (svc *Service) UpdateProfile(actor User, up UpdateProfile) (User, error) {
	usr, err := svc.repo.GetUserByUID(actor.UID)
	if err != nil {
		return User{}, err
	}
	if up.Name != "" {
		usr.Name = up.Name
	}
	if up.PhotoURL != "" {
		usr.PhotoURL = up.PhotoURL
	}
	usr.UpdatedAt = svc.NowFunc().UTC()

	if usr, err = svc.repo.UpdateUser(usr); err != nil {
		return User{}, err
	}
	if err = svc.audit.Record(audit.ActionProfileUpdate, "User updated own profile: "+usr.Name, usr.Name, "", ""); err != nil {
		return User{}, errors.Wrap(err, "recording profile update")
	}
	return usr, nil
}

// Delete removes a user account. The activity log keeps its entries for the
// deleted account.
func (svc *Service) Delete(actor User, uid string) error {
	if !actor.IsStaff() {
		return core.ErrPermissionDenied
	}

	usr, err := svc.repo.GetUserByUID(uid)
	if err != nil {
		return err
	}
	if err = svc.repo.DeleteUser(uid); err != nil {
		return err
	}
	return svc.audit.Record(audit.ActionUserDelete, "Deleted user account: "+usr.Name, actor.Name, "Role: "+usr.Role, "")
}
