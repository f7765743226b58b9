package dummydb

import (
	"sync"

	"github.com/tathmini/tathmini/core/criteria"
	"github.com/tathmini/tathmini/core/evaluation"
	"github.com/tathmini/tathmini/core/notification"
	"github.com/tathmini/tathmini/core/presentation"
	"github.com/tathmini/tathmini/core/user"
)

// DB is an in-memory database for tests and demo mode. Each table guards its
// map with its own RWMutex; mutations happen under the write lock so concurrent
// callers never observe torn writes. Rows carry an insertion sequence number so
// queries come back in creation order, like a serial-keyed SQL table.
type (
	DB struct {
		user         *userTable
		criteria     *criteriaTable
		presentation *presentationTable
		evaluation   *evaluationTable
		notification *notificationTable
	}

	userTable struct {
		sync.RWMutex
		seq   int
		table map[int]*user.User
	}

	criteriaRow struct {
		seq  int
		crit criteria.Criterion
	}

	criteriaTable struct {
		sync.RWMutex
		seq   int
		table map[string]*criteriaRow
	}

	presentationRow struct {
		seq  int
		pres presentation.Presentation
	}

	presentationTable struct {
		sync.RWMutex
		seq   int
		table map[string]*presentationRow
	}

	evaluationRow struct {
		seq  int
		eval evaluation.Evaluation
	}

	evaluationTable struct {
		sync.RWMutex
		seq   int
		table map[string]*evaluationRow
	}

	notificationRow struct {
		seq   int
		notif notification.Notification
	}

	notificationTable struct {
		sync.RWMutex
		seq   int
		table map[string]*notificationRow
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:         &userTable{table: make(map[int]*user.User)},
		criteria:     &criteriaTable{table: make(map[string]*criteriaRow)},
		presentation: &presentationTable{table: make(map[string]*presentationRow)},
		evaluation:   &evaluationTable{table: make(map[string]*evaluationRow)},
		notification: &notificationTable{table: make(map[string]*notificationRow)},
	}
	return db, nil
}
