package inmemdb

import (
	"github.com/hesedu/shikshya/core/content"
)

type contentRepository struct {
	db *contentTable
}

func NewContentRepository(db *DB) content.Repository {
	return &contentRepository{db: db.content}
}

func (repo *contentRepository) CreateAssignment(a content.Assignment) (content.Assignment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.assignments = append([]*content.Assignment{&a}, repo.db.assignments...)
	return a, nil
}

func (repo *contentRepository) GetAssignmentByID(id string) (content.Assignment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, a := range repo.db.assignments {
		if a.ID == id {
			return *a, nil
		}
	}
	return content.Assignment{}, content.ErrAssignmentNotFound
}

func (repo *contentRepository) QueryAllAssignments() ([]content.Assignment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	assignments := make([]content.Assignment, 0, len(repo.db.assignments))
	for _, a := range repo.db.assignments {
		assignments = append(assignments, *a)
	}
	return assignments, nil
}

func (repo *contentRepository) UpdateAssignment(a content.Assignment) (content.Assignment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for i, orig := range repo.db.assignments {
		if orig.ID == a.ID {
			repo.db.assignments[i] = &a
			return a, nil
		}
	}
	return content.Assignment{}, content.ErrAssignmentNotFound
}

func (repo *contentRepository) DeleteAssignment(id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for i, a := range repo.db.assignments {
		if a.ID == id {
			repo.db.assignments = append(repo.db.assignments[:i], repo.db.assignments[i+1:]...)
			return nil
		}
	}
	return content.ErrAssignmentNotFound
}

func (repo *contentRepository) CreateNewsItem(n content.NewsItem) (content.NewsItem, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.news = append([]*content.NewsItem{&n}, repo.db.news...)
	return n, nil
}

func (repo *contentRepository) GetNewsItemByID(id string) (content.NewsItem, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, n := range repo.db.news {
		if n.ID == id {
			return *n, nil
		}
	}
	return content.NewsItem{}, content.ErrNewsNotFound
}

func (repo *contentRepository) QueryAllNews() ([]content.NewsItem, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	news := make([]content.NewsItem, 0, len(repo.db.news))
	for _, n := range repo.db.news {
		news = append(news, *n)
	}
	return news, nil
}

func (repo *contentRepository) DeleteNewsItem(id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for i, n := range repo.db.news {
		if n.ID == id {
			repo.db.news = append(repo.db.news[:i], repo.db.news[i+1:]...)
			return nil
		}
	}
	return content.ErrNewsNotFound
}
