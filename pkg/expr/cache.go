package expr

import (
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "symbolic_power_cache_lookups_total",
	Help: "Construction cache lookups by table and result.",
}, []string{"table", "result"})

var (
	internHits   = cacheLookups.WithLabelValues("intern", "hit")
	internMisses = cacheLookups.WithLabelValues("intern", "miss")
	memoHits     = cacheLookups.WithLabelValues("memo", "hit")
	memoMisses   = cacheLookups.WithLabelValues("memo", "miss")
)

// internTable maps a structural key to its unique node. Keys are hashed
// with xxhash; a bucket holds every node whose key collides.
type internTable struct {
	mu      sync.Mutex
	buckets map[uint64][]Expr
	size    int
	nextID  uint64
}

var interned = &internTable{buckets: make(map[uint64][]Expr)}

// intern returns the canonical pointer for n's key, registering n if the
// key is new. n's header must have key and args set.
func intern(n Expr) Expr {
	h := n.hdr()
	sum := xxhash.Sum64String(h.key)

	interned.mu.Lock()
	defer interned.mu.Unlock()
	for _, c := range interned.buckets[sum] {
		if c.hdr().key == h.key {
			internHits.Inc()
			return c
		}
	}
	internMisses.Inc()
	interned.nextID++
	h.id = interned.nextID
	h.self = n
	h.free = anyFree(h.args)
	if _, ok := n.(*Symbol); ok {
		h.free = true
	}
	h.str = render(n)
	interned.buckets[sum] = append(interned.buckets[sum], n)
	interned.size++
	return n
}

// memoTable remembers the canonical result of a constructor call keyed by
// (operation, argument ids).
type memoTable struct {
	mu sync.Mutex
	m  map[string]Expr
}

var memo = &memoTable{m: make(map[string]Expr)}

// memoized returns the cached result for key or builds it. build runs
// without the lock held, so it may construct other nodes; when two
// goroutines race on the same key the first stored result wins.
func memoized(key string, build func() Expr) Expr {
	memo.mu.Lock()
	if v, ok := memo.m[key]; ok {
		memo.mu.Unlock()
		memoHits.Inc()
		return v
	}
	memo.mu.Unlock()
	memoMisses.Inc()

	v := build()

	memo.mu.Lock()
	defer memo.mu.Unlock()
	if prev, ok := memo.m[key]; ok {
		return prev
	}
	memo.m[key] = v
	return v
}

// opKey builds a key from an operation tag and node ids.
func opKey(op string, args ...Expr) string {
	b := make([]byte, 0, len(op)+8*len(args))
	b = append(b, op...)
	for _, a := range args {
		b = append(b, '|')
		b = strconv.AppendUint(b, a.hdr().id, 36)
	}
	return string(b)
}

// CacheSize reports the number of interned nodes and memoized
// constructor calls.
func CacheSize() (nodes, calls int) {
	interned.mu.Lock()
	nodes = interned.size
	interned.mu.Unlock()
	memo.mu.Lock()
	calls = len(memo.m)
	memo.mu.Unlock()
	return nodes, calls
}
