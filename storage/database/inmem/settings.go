package inmemdb

import (
	"github.com/hesedu/shikshya/core/settings"
)

type settingsRepository struct {
	db *settingsTable
}

func NewSettingsRepository(db *DB) settings.Repository {
	return &settingsRepository{db: db.settings}
}

func (repo *settingsRepository) GetSettings() (settings.SystemSettings, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.db.row, nil
}

func (repo *settingsRepository) SaveSettings(s settings.SystemSettings) (settings.SystemSettings, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.row = s
	return s, nil
}
