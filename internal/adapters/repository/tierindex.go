package repository

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/HagAli22/LLM-Dynamic-routing/internal/domain/model"
	"github.com/HagAli22/LLM-Dynamic-routing/pkg/metrics"
)

// Treap-based per-tier ordering.
//
// Ordering: score DESC, then lastUpdated ASC, then modelID ASC. The
// lastUpdated tiebreak means the longest-standing score wins a tie,
// which keeps ranks from flapping under near-simultaneous equal
// updates. In-order traversal yields the leaderboard best to worst.

// rankKey is the composite sort key stored per node.
type rankKey struct {
	score   int
	updated int64 // unix nanos of lastUpdated
	id      string
}

// less reports whether a ranks strictly earlier than b.
func less(a, b rankKey) bool {
	if a.score != b.score {
		return a.score > b.score
	}
	if a.updated != b.updated {
		return a.updated < b.updated
	}
	return a.id < b.id
}

type node struct {
	key   rankKey
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

func insert(n *node, key rankKey) *node {
	if n == nil {
		return &node{key: key, prio: rand.Uint64(), size: 1} //nolint:gosec // priority only balances the treap
	}
	if less(key, n.key) {
		n.left = insert(n.left, key)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, key)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, key rankKey) *node {
	if n == nil {
		return nil
	}
	if key == n.key {
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, key)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, key)
		}
	} else if less(key, n.key) {
		n.left = deleteNode(n.left, key)
	} else {
		n.right = deleteNode(n.right, key)
	}
	fix(n)
	return n
}

// collect appends up to limit keys in rank order. limit < 0 means all.
func collect(n *node, limit int, out *[]rankKey) {
	if n == nil || (limit >= 0 && len(*out) >= limit) {
		return
	}
	collect(n.left, limit, out)
	if limit < 0 || len(*out) < limit {
		*out = append(*out, n.key)
	}
	collect(n.right, limit, out)
}

// positionOf returns the 0-based in-order position of key, using
// subtree sizes for an O(log n) walk.
func positionOf(n *node, key rankKey) (int, bool) {
	pos := 0
	for n != nil {
		switch {
		case key == n.key:
			return pos + nsize(n.left), true
		case less(key, n.key):
			n = n.left
		default:
			pos += nsize(n.left) + 1
			n = n.right
		}
	}
	return 0, false
}

// tierTreap is one tier's ordering; its RWMutex serializes
// re-insertions for the tier while keeping reads concurrent.
type tierTreap struct {
	mu   sync.RWMutex
	root *node
	byID map[string]rankKey
}

// TierIndex implements Index: one treap per tier, created lazily.
type TierIndex struct {
	mu    sync.RWMutex
	tiers map[model.Tier]*tierTreap
}

// NewTierIndex constructs an empty index.
func NewTierIndex() *TierIndex {
	return &TierIndex{tiers: make(map[model.Tier]*tierTreap)}
}

func (x *TierIndex) tier(t model.Tier, create bool) *tierTreap {
	x.mu.RLock()
	tt := x.tiers[t]
	x.mu.RUnlock()
	if tt != nil || !create {
		return tt
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	if tt = x.tiers[t]; tt == nil {
		tt = &tierTreap{byID: make(map[string]rankKey)}
		x.tiers[t] = tt
	}
	return tt
}

// Upsert re-inserts the model at its position for (score, updated).
// One delete plus one insert under the tier lock: reads never wait
// longer than a single re-insertion.
func (x *TierIndex) Upsert(ctx context.Context, tier model.Tier, id string, score int, updated time.Time) {
	start := time.Now()
	defer func() {
		metrics.RecordRankingUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	tt := x.tier(tier, true)
	key := rankKey{score: score, updated: updated.UnixNano(), id: id}

	tt.mu.Lock()
	defer tt.mu.Unlock()
	if old, ok := tt.byID[id]; ok {
		if old == key {
			return
		}
		// lastUpdated only moves forward per model, so an older key is
		// a late re-insertion that already lost to a newer one.
		if key.updated < old.updated {
			return
		}
		tt.root = deleteNode(tt.root, old)
	}
	tt.byID[id] = key
	tt.root = insert(tt.root, key)
	metrics.UpdateRankedModels(string(tier), len(tt.byID))
}

// Remove drops the model from its tier ordering.
func (x *TierIndex) Remove(ctx context.Context, tier model.Tier, id string) {
	tt := x.tier(tier, false)
	if tt == nil {
		return
	}
	tt.mu.Lock()
	defer tt.mu.Unlock()
	key, ok := tt.byID[id]
	if !ok {
		return
	}
	delete(tt.byID, id)
	tt.root = deleteNode(tt.root, key)
	metrics.UpdateRankedModels(string(tier), len(tt.byID))
}

// TopN returns up to n entries in rank order.
func (x *TierIndex) TopN(ctx context.Context, tier model.Tier, n int) ([]Entry, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}
	return x.read(tier, n), nil
}

// All returns the full ordering of a tier.
func (x *TierIndex) All(ctx context.Context, tier model.Tier) []Entry {
	return x.read(tier, -1)
}

func (x *TierIndex) read(tier model.Tier, limit int) []Entry {
	start := time.Now()
	defer func() {
		metrics.RecordRankingQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	tt := x.tier(tier, false)
	if tt == nil {
		return []Entry{}
	}

	tt.mu.RLock()
	defer tt.mu.RUnlock()
	capHint := limit
	if capHint < 0 || capHint > len(tt.byID) {
		capHint = len(tt.byID)
	}
	keys := make([]rankKey, 0, capHint)
	collect(tt.root, limit, &keys)

	out := make([]Entry, len(keys))
	for i, k := range keys {
		out[i] = Entry{
			Rank:        i + 1,
			ModelID:     k.id,
			Score:       k.score,
			LastUpdated: time.Unix(0, k.updated),
		}
	}
	return out
}

// RankOf returns the current entry for one model.
func (x *TierIndex) RankOf(ctx context.Context, tier model.Tier, id string) (Entry, error) {
	tt := x.tier(tier, false)
	if tt == nil {
		return Entry{}, ErrNotRanked
	}
	tt.mu.RLock()
	defer tt.mu.RUnlock()
	key, ok := tt.byID[id]
	if !ok {
		return Entry{}, ErrNotRanked
	}
	pos, ok := positionOf(tt.root, key)
	if !ok {
		return Entry{}, ErrNotRanked
	}
	return Entry{
		Rank:        pos + 1,
		ModelID:     id,
		Score:       key.score,
		LastUpdated: time.Unix(0, key.updated),
	}, nil
}

// Count returns the number of ranked models in a tier.
func (x *TierIndex) Count(ctx context.Context, tier model.Tier) int {
	tt := x.tier(tier, false)
	if tt == nil {
		return 0
	}
	tt.mu.RLock()
	defer tt.mu.RUnlock()
	return len(tt.byID)
}

// Tiers lists tiers that currently have ranked models.
func (x *TierIndex) Tiers(ctx context.Context) []model.Tier {
	x.mu.RLock()
	defer x.mu.RUnlock()
	out := make([]model.Tier, 0, len(x.tiers))
	for t, tt := range x.tiers {
		tt.mu.RLock()
		n := len(tt.byID)
		tt.mu.RUnlock()
		if n > 0 {
			out = append(out, t)
		}
	}
	return out
}
