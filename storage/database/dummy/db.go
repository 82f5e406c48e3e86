// Package dummydb provides in-memory repository implementations
// backing unit tests and local hacking without a Postgres instance.
package dummydb

import (
	"sync"

	"github.com/trezcool/shindano/core/event"
	"github.com/trezcool/shindano/core/judging"
	"github.com/trezcool/shindano/core/leaderboard"
	"github.com/trezcool/shindano/core/team"
	"github.com/trezcool/shindano/core/user"
)

type DB struct {
	sync.RWMutex

	users    map[string]*user.User
	events   map[string]*event.Event
	criteria map[string]*event.Criterion
	teams    map[string]*team.Team
	members  map[string]map[string]bool // teamID -> userIDs

	assignments map[string]*judging.Assignment // teamID|judgeID
	scores      map[string]*judging.Score      // teamID|judgeID|criterionID

	entries map[string][]leaderboard.Entry // eventID -> snapshot
}

func Open() (*DB, error) {
	return &DB{
		users:       make(map[string]*user.User),
		events:      make(map[string]*event.Event),
		criteria:    make(map[string]*event.Criterion),
		teams:       make(map[string]*team.Team),
		members:     make(map[string]map[string]bool),
		assignments: make(map[string]*judging.Assignment),
		scores:      make(map[string]*judging.Score),
		entries:     make(map[string][]leaderboard.Entry),
	}, nil
}

// Reset empties all tables; for tests.
func (db *DB) Reset() {
	db.Lock()
	defer db.Unlock()

	db.users = make(map[string]*user.User)
	db.events = make(map[string]*event.Event)
	db.criteria = make(map[string]*event.Criterion)
	db.teams = make(map[string]*team.Team)
	db.members = make(map[string]map[string]bool)
	db.assignments = make(map[string]*judging.Assignment)
	db.scores = make(map[string]*judging.Score)
	db.entries = make(map[string][]leaderboard.Entry)
}

func key(parts ...string) string {
	k := parts[0]
	for _, p := range parts[1:] {
		k += "|" + p
	}
	return k
}
