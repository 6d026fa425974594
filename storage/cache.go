// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"sort"

	cache "github.com/patrickmn/go-cache"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"
)

const (
	opPut = iota
	opDelete
)

type cacheData struct {
	op    int
	value []byte
}

type cacheItem struct {
	key []byte
	cacheData
}

// overlay - uncommitted writes on top of a parent source
type overlay struct {
	parent source
	cache  *cache.Cache
}

func newOverlay(parent source) *overlay {
	return &overlay{
		parent: parent,
		cache:  cache.New(cache.NoExpiration, 0),
	}
}

func (o *overlay) put(key []byte, value []byte) {
	v := make([]byte, len(value))
	copy(v, value)
	o.cache.Set(string(key), cacheData{op: opPut, value: v}, cache.NoExpiration)
}

func (o *overlay) delete(key []byte) {
	o.cache.Set(string(key), cacheData{op: opDelete}, cache.NoExpiration)
}

func (o *overlay) count() int {
	return o.cache.ItemCount()
}

func (o *overlay) clear() {
	o.cache.Flush()
}

// a deleted key hides the parent's value
func (o *overlay) get(key []byte) ([]byte, bool) {
	obj, found := o.cache.Get(string(key))
	if found {
		data := obj.(cacheData)
		if opDelete == data.op {
			return nil, false
		}
		return data.value, true
	}
	return o.parent.get(key)
}

// the overlay items within a range in ascending key order
func (o *overlay) sorted(r *ldb_util.Range) []cacheItem {
	items := o.cache.Items()
	result := make([]cacheItem, 0, len(items))
	for k, item := range items {
		key := []byte(k)
		if nil != r && !inRange(r, key) {
			continue
		}
		result = append(result, cacheItem{
			key:       key,
			cacheData: item.Object.(cacheData),
		})
	}
	sort.Slice(result, func(i, j int) bool {
		return string(result[i].key) < string(result[j].key)
	})
	return result
}

// merge the overlay items with the parent's in key order
func (o *overlay) each(r *ldb_util.Range, f func(key []byte, value []byte) error) error {
	items := o.sorted(r)
	i := 0

	err := o.parent.each(r, func(key []byte, value []byte) error {
		k := string(key)
		for i < len(items) && string(items[i].key) < k {
			if opPut == items[i].op {
				if err := f(items[i].key, items[i].value); nil != err {
					return err
				}
			}
			i += 1
		}
		if i < len(items) && string(items[i].key) == k {
			item := items[i]
			i += 1
			if opPut == item.op {
				return f(item.key, item.value)
			}
			return nil
		}
		return f(key, value)
	})
	if nil != err {
		return err
	}

	for ; i < len(items); i += 1 {
		if opPut == items[i].op {
			if err := f(items[i].key, items[i].value); nil != err {
				return err
			}
		}
	}
	return nil
}

// move all items into another overlay
func (o *overlay) mergeInto(dst *overlay) {
	for _, item := range o.sorted(nil) {
		if opDelete == item.op {
			dst.delete(item.key)
		} else {
			dst.put(item.key, item.value)
		}
	}
}
