// Package inmemdb is the portal's data layer: slice/map-backed tables
// guarded by per-table RWMutexes, exposed only through the domain
// repository interfaces. Construct one DB per process and inject it.
package inmemdb

import (
	"sync"

	"github.com/hesedu/shikshya/core/audit"
	"github.com/hesedu/shikshya/core/billing"
	"github.com/hesedu/shikshya/core/content"
	"github.com/hesedu/shikshya/core/settings"
	"github.com/hesedu/shikshya/core/user"
)

type (
	DB struct {
		users    *userTable
		billing  *billingTable
		content  *contentTable
		audit    *auditTable
		settings *settingsTable
	}

	// users are kept newest-first, as the portal lists them.
	userTable struct {
		mutex sync.RWMutex
		rows  []*user.User
	}

	// fees and payments are kept newest-first; structures in creation order.
	billingTable struct {
		mutex      sync.RWMutex
		fees       []*billing.FeeRecord
		structures []*billing.FeeStructure
		payments   []*billing.PaymentTransaction
	}

	contentTable struct {
		mutex       sync.RWMutex
		assignments []*content.Assignment
		news        []*content.NewsItem
	}

	// log entries are kept newest-first.
	auditTable struct {
		mutex sync.RWMutex
		rows  []*audit.Entry
	}

	settingsTable struct {
		mutex sync.RWMutex
		row   settings.SystemSettings
	}
)

func Open() (*DB, error) {
	db := &DB{
		users:    &userTable{},
		billing:  &billingTable{},
		content:  &contentTable{},
		audit:    &auditTable{},
		settings: &settingsTable{},
	}
	return db, nil
}
