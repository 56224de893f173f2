// internal/render/lru.go
//
// Tiny LRU for parsed per-tenant shell templates.  No external deps;
// sized for at most a few hundred tenants per process.
package render

import (
	"container/list"
	"html/template"
	"sync"
)

type lru struct {
	mu   sync.Mutex
	cap  int
	ll   *list.List
	dict map[string]*list.Element
}

type lruPair struct {
	key string
	val *template.Template
}

func newLRU(capacity int) *lru {
	if capacity < 1 {
		capacity = 1
	}
	return &lru{
		cap:  capacity,
		ll:   list.New(),
		dict: make(map[string]*list.Element, capacity),
	}
}

// get retrieves a template and marks it MRU.
func (c *lru) get(key string) (*template.Template, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ele, hit := c.dict[key]; hit {
		c.ll.MoveToFront(ele)
		return ele.Value.(lruPair).val, true
	}
	return nil, false
}

// add inserts or updates a template, evicting the LRU entry on overflow.
func (c *lru) add(key string, val *template.Template) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ele, hit := c.dict[key]; hit {
		ele.Value = lruPair{key, val}
		c.ll.MoveToFront(ele)
		return
	}
	ele := c.ll.PushFront(lruPair{key, val})
	c.dict[key] = ele
	if c.ll.Len() > c.cap {
		last := c.ll.Back()
		c.ll.Remove(last)
		delete(c.dict, last.Value.(lruPair).key)
	}
}
