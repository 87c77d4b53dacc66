package inmemdb

import (
	"sync"

	"github.com/jbkamdem/ophtalmopro/core/user"
)

// DB is an in-memory stand-in for the credential store, used in tests.
type DB struct {
	user *userTable
}

type userTable struct {
	sync.RWMutex
	table   map[int]*user.User
	pkCount int
}

func NewDB() *DB {
	return &DB{
		user: &userTable{table: make(map[int]*user.User)},
	}
}
