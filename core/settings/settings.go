// Package settings holds the portal's singleton configuration record.
package settings

import (
	"fmt"

	"github.com/hesedu/shikshya/core"
	"github.com/hesedu/shikshya/core/audit"
	"github.com/hesedu/shikshya/core/user"
)

// SystemSettings is wholesale-replaced on every save.
type SystemSettings struct {
	SchoolName          string `json:"school_name" validate:"required"`
	Address             string `json:"address"`
	Phone               string `json:"phone"`
	CurrentSession      string `json:"current_session" validate:"required"` // e.g. "2081"
	IsDeviceLockEnabled bool   `json:"is_device_lock_enabled"`
	AllowTeacherLogin   bool   `json:"allow_teacher_login"`
	MaintenanceMode     bool   `json:"maintenance_mode"`
}

func (s *SystemSettings) Validate() error {
	s.SchoolName = core.CleanString(s.SchoolName)
	s.CurrentSession = core.CleanString(s.CurrentSession)
	return core.Validate.Struct(s)
}

type (
	Repository interface {
		GetSettings() (SystemSettings, error)
		SaveSettings(s SystemSettings) (SystemSettings, error)
	}

	Service struct {
		repo  Repository
		audit *audit.Service
	}
)

func NewService(repo Repository, auditSvc *audit.Service) *Service {
	return &Service{repo: repo, audit: auditSvc}
}

func (svc *Service) Get() (SystemSettings, error) {
	return svc.repo.GetSettings()
}

// Update replaces the settings record wholesale.
func (svc *Service) Update(actor user.User, s SystemSettings) (SystemSettings, error) {
	if !actor.IsStaff() {
		return SystemSettings{}, core.ErrPermissionDenied
	}

	s, err := svc.repo.SaveSettings(s)
	if err != nil {
		return SystemSettings{}, err
	}
	details := fmt.Sprintf("Session: %s, Lock: %t", s.CurrentSession, s.IsDeviceLockEnabled)
	if err = svc.audit.Record(audit.ActionSettingsUpdate, "System configuration updated", actor.Name, details, ""); err != nil {
		return SystemSettings{}, err
	}
	return s, nil
}
