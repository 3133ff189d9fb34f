package content

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/hesedu/shikshya/core"
	"github.com/hesedu/shikshya/core/audit"
	"github.com/hesedu/shikshya/core/user"
)

var (
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrNewsNotFound       = errors.New("news item not found")
)

type (
	Repository interface {
		CreateAssignment(a Assignment) (Assignment, error)
		GetAssignmentByID(id string) (Assignment, error)
		QueryAllAssignments() ([]Assignment, error)
		UpdateAssignment(a Assignment) (Assignment, error)
		DeleteAssignment(id string) error

		CreateNewsItem(n NewsItem) (NewsItem, error)
		GetNewsItemByID(id string) (NewsItem, error)
		QueryAllNews() ([]NewsItem, error)
		DeleteNewsItem(id string) error
	}

	Service struct {
		repo  Repository
		audit *audit.Service

		NowFunc func() time.Time // mockable
	}
)

func NewService(repo Repository, auditSvc *audit.Service) *Service {
	return &Service{repo: repo, audit: auditSvc, NowFunc: time.Now}
}

func (svc *Service) QueryAssignments() ([]Assignment, error) {
	return svc.repo.QueryAllAssignments()
}

func (svc *Service) CreateAssignment(actor user.User, na NewAssignment) (Assignment, error) {
	if !actor.IsStaff() {
		return Assignment{}, core.ErrPermissionDenied
	}

	a := Assignment{
		ID:          uuid.New().String(),
		Title:       na.Title,
		Description: na.Description,
		Subject:     na.Subject,
		ClassTarget: na.ClassTarget,
		DueDate:     na.DueDate,
		CreatedBy:   actor.Name,
		CompletedBy: []string{},
	}
	a, err := svc.repo.CreateAssignment(a)
	if err != nil {
		return Assignment{}, err
	}

	if err = svc.audit.Record(audit.ActionAssignmentCreate, "Created assignment: "+a.Title, actor.Name, "Subject: "+a.Subject, ""); err != nil {
		return Assignment{}, errors.Wrap(err, "recording assignment creation")
	}
	return a, nil
}

func (svc *Service) DeleteAssignment(actor user.User, id string) error {
	if !actor.IsStaff() {
		return core.ErrPermissionDenied
	}

	a, err := svc.repo.GetAssignmentByID(id)
	if err != nil {
		return err
	}
	if err = svc.repo.DeleteAssignment(id); err != nil {
		return err
	}
	return svc.audit.Record(audit.ActionAssignmentDelete, "Deleted assignment: "+a.Title, actor.Name, "ID: "+id, "")
}

// ToggleAssignmentCompletion flips a student's completion mark. Not audited:
// it is student-facing progress state, not an administrative change.
func (svc *Service) ToggleAssignmentCompletion(id, uid string) (Assignment, error) {
	a, err := svc.repo.GetAssignmentByID(id)
	if err != nil {
		return Assignment{}, err
	}

	completed := false
	for i, u := range a.CompletedBy {
		if u == uid {
			a.CompletedBy = append(a.CompletedBy[:i], a.CompletedBy[i+1:]...)
			completed = true
			break
		}
	}
	if !completed {
		a.CompletedBy = append(a.CompletedBy, uid)
	}
	return svc.repo.UpdateAssignment(a)
}

func (svc *Service) QueryNews() ([]NewsItem, error) {
	return svc.repo.QueryAllNews()
}

func (svc *Service) PostNews(actor user.User, nn NewNewsItem) (NewsItem, error) {
	if !actor.IsStaff() {
		return NewsItem{}, core.ErrPermissionDenied
	}

	n := NewsItem{
		ID:       uuid.New().String(),
		Title:    nn.Title,
		Body:     nn.Body,
		ImageURL: nn.ImageURL,
		Type:     nn.Type,
		PostedAt: core.FormatDate(svc.NowFunc()),
		PostedBy: actor.Name,
	}
	n, err := svc.repo.CreateNewsItem(n)
	if err != nil {
		return NewsItem{}, err
	}

	if err = svc.audit.Record(audit.ActionNewsPost, "Posted news: "+n.Title, actor.Name, "Type: "+n.Type, ""); err != nil {
		return NewsItem{}, errors.Wrap(err, "recording news post")
	}
	return n, nil
}

func (svc *Service) DeleteNews(actor user.User, id string) error {
	if !actor.IsStaff() {
		return core.ErrPermissionDenied
	}

	n, err := svc.repo.GetNewsItemByID(id)
	if err != nil {
		return err
	}
	if err = svc.repo.DeleteNewsItem(id); err != nil {
		return err
	}
	return svc.audit.Record(audit.ActionNewsDelete, "Deleted news: "+n.Title, actor.Name, "ID: "+id, "")
}
