package dummydb

import (
	"sync"

	"github.com/trezcool/mazoezi/core/practice"
)

type (
	DB struct {
		practice *practiceTable
	}

	practiceTable struct {
		sync.RWMutex
		table map[string]*practice.Practice
	}
)

func Open() (*DB, error) {
	db := &DB{
		practice: &practiceTable{table: make(map[string]*practice.Practice)},
	}
	return db, nil
}
