// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"fmt"
	"reflect"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"
	ldb_storage "github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/bitmark-inc/elysiumd/fault"
	"github.com/bitmark-inc/logger"
)

// exported storage pools
//
// note all must be exported (i.e. initial capital) or initialisation will panic
type pools struct {
	Balances      *PoolHandle `prefix:"B"`
	Properties    *PoolHandle `prefix:"P"`
	NextProperty  *PoolHandle `prefix:"N"`
	Contributions *PoolHandle `prefix:"Q"`
	Crowdsales    *PoolHandle `prefix:"C"`
	Offers        *PoolHandle `prefix:"O"`
	Accepts       *PoolHandle `prefix:"A"`
	Orders        *PoolHandle `prefix:"M"`
	Features      *PoolHandle `prefix:"F"`
	Alerts        *PoolHandle `prefix:"L"`
	FreezeEnabled *PoolHandle `prefix:"E"`
	Frozen        *PoolHandle `prefix:"R"`
	Denominations *PoolHandle `prefix:"D"`
	MintGroups    *PoolHandle `prefix:"G"`
	MintKeys      *PoolHandle `prefix:"K"`
	Serials       *PoolHandle `prefix:"S"`
	History       *PoolHandle `prefix:"H"`
	Journal       *PoolHandle `prefix:"J"`
}

// Pool - the set of exported pools
var Pool pools

// for database version
var versionKey = []byte{0x00, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

const currentDBVersion = 0x100

// pool access modes
const (
	ReadOnly  = true
	ReadWrite = false
)

func init() {
	if err := setupPools(); nil != err {
		panic(err)
	}
}

// fill in the pool handles from the struct tags
func setupPools() error {

	// this will be a struct type
	poolType := reflect.TypeOf(Pool)

	// get write access by using pointer + Elem()
	poolValue := reflect.ValueOf(&Pool).Elem()

	seen := make(map[byte]string)

	// scan each field
	for i := 0; i < poolType.NumField(); i += 1 {

		fieldInfo := poolType.Field(i)

		prefixTag := fieldInfo.Tag.Get("prefix")
		if 1 != len(prefixTag) {
			return fmt.Errorf("pool: %v has invalid prefix: %q", fieldInfo, prefixTag)
		}

		prefix := prefixTag[0]
		if other, ok := seen[prefix]; ok {
			return fmt.Errorf("pool: %s reuses prefix: %q of pool: %s", fieldInfo.Name, prefixTag, other)
		}
		seen[prefix] = fieldInfo.Name

		limit := []byte(nil)
		if prefix < 255 {
			limit = []byte{prefix + 1}
		}

		p := &PoolHandle{
			name:   fieldInfo.Name,
			prefix: prefix,
			limit:  limit,
		}
		poolValue.Field(i).Set(reflect.ValueOf(p))
	}
	return nil
}

// Database - an open ledger database
type Database struct {
	access

	writer   sync.Mutex
	log      *logger.L
	db       *leveldb.DB
	readOnly bool
}

// Open - open up a database file
func Open(name string, readOnly bool) (*Database, error) {
	opt := &ldb_opt.Options{
		ErrorIfExist:   false,
		ErrorIfMissing: readOnly,
		ReadOnly:       readOnly,
	}

	db, err := leveldb.OpenFile(name, opt)
	if nil != err {
		return nil, err
	}
	return newDatabase(db, readOnly)
}

// OpenMemory - open an empty database that lives in memory only
func OpenMemory() (*Database, error) {
	db, err := leveldb.Open(ldb_storage.NewMemStorage(), nil)
	if nil != err {
		return nil, err
	}
	return newDatabase(db, ReadWrite)
}

func newDatabase(db *leveldb.DB, readOnly bool) (*Database, error) {
	log := logger.New("storage")

	version, err := getVersion(db)
	if nil != err {
		db.Close()
		return nil, err
	}

	// ensure no database downgrade
	if version > currentDBVersion {
		log.Criticalf("database version: %d > current version: %d", version, currentDBVersion)
		db.Close()
		return nil, fmt.Errorf("database version: %d > current version: %d", version, currentDBVersion)
	}

	if 0 == version {
		if readOnly {
			db.Close()
			return nil, fault.ErrNotInitialised
		}

		// database was empty so tag as current version
		err = putVersion(db, currentDBVersion)
		if nil != err {
			db.Close()
			return nil, err
		}
	}

	log.Infof("opened database version: %d  read only: %t", currentDBVersion, readOnly)

	return &Database{
		access:   access{source: levelSource{db}},
		log:      log,
		db:       db,
		readOnly: readOnly,
	}, nil
}

// Close - close the database
func (d *Database) Close() {
	d.writer.Lock()
	defer d.writer.Unlock()
	if nil != d.db {
		d.db.Close()
		d.db = nil
	}
}

func getVersion(db *leveldb.DB) (int, error) {
	versionValue, err := db.Get(versionKey, nil)
	if leveldb.ErrNotFound == err {
		return 0, nil
	} else if nil != err {
		return 0, err
	}

	if 4 != len(versionValue) {
		return 0, fmt.Errorf("incompatible database version length: expected: %d  actual: %d", 4, len(versionValue))
	}
	return int(binary.BigEndian.Uint32(versionValue)), nil
}

func putVersion(db *leveldb.DB, version int) error {
	currentVersion := make([]byte, 4)
	binary.BigEndian.PutUint32(currentVersion, uint32(version))

	return db.Put(versionKey, currentVersion, nil)
}

// Begin - start the single write transaction
//
// the writes are tagged with the position of the base chain
// transaction that caused them so they can be undone on a
// reorganisation; a negative block writes without an undo journal
func (d *Database) Begin(block int, index uint32) (Transaction, error) {
	if d.readOnly {
		return nil, fault.ErrDatabaseIsReadOnly
	}
	if !d.writer.TryLock() {
		return nil, fault.ErrTransactionInUse
	}
	if nil == d.db {
		d.writer.Unlock()
		return nil, fault.ErrNotInitialised
	}

	t := newTransaction(levelSource{d.db})
	t.commit = func(o *overlay) error {
		return d.write(block, index, o)
	}
	t.release = d.writer.Unlock
	return t, nil
}

// apply the transaction overlay as one batch
func (d *Database) write(block int, index uint32, o *overlay) error {
	batch := new(leveldb.Batch)
	base := levelSource{d.db}

	var undo []undoRecord
	for _, item := range o.sorted(nil) {
		old, found := base.get(item.key)
		undo = append(undo, undoRecord{
			key:   item.key,
			found: found,
			value: old,
		})
		if opDelete == item.op {
			batch.Delete(item.key)
		} else {
			batch.Put(item.key, item.value)
		}
	}

	if 0 == batch.Len() {
		return nil
	}

	if block >= 0 {
		key := Pool.Journal.prefixKey(journalKey(block, index))

		// several commits at one position undo newest first
		previous, _ := base.get(key)
		batch.Put(key, append(packUndo(undo), previous...))
	}

	err := d.db.Write(batch, nil)
	if nil != err {
		d.log.Errorf("write block: %d  index: %d  error: %s", block, index, err)
	}
	return err
}
