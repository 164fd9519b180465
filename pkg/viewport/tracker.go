// Package viewport maintains the live set of DOM nodes considered visible.
//
// The tracker is deliberately decoupled from any rendering engine: it
// consumes Observation values from whatever source the host has (a browser
// bridge, a test, or the static layout estimator in this package) and keeps
// only the membership bookkeeping the extraction tiers need.
package viewport

import (
	"sort"
	"sync"

	"golang.org/x/net/html"
)

// Intersection thresholds for the two tracker classes. Generic text elements
// count as visible earlier than cards, which must be substantially on screen.
const (
	TextThreshold = 0.1
	CardThreshold = 0.3
)

// Rect is an element's box in viewport coordinates.
type Rect struct {
	Top    float64
	Left   float64
	Width  float64
	Height float64
}

// Area returns the rendered area, used as the salience tie-breaker.
func (r Rect) Area() float64 {
	return r.Width * r.Height
}

// Observation reports the latest intersection state for one element.
type Observation struct {
	Node  *html.Node
	Ratio float64
	Box   Rect
}

// Member pairs a visible node with its last observed geometry.
type Member struct {
	Node *html.Node
	Box  Rect
}

// Provider is the read surface the extraction tiers depend on.
type Provider interface {
	Snapshot() []Member
	Subscribe(fn func(Observation)) (unsubscribe func())
}

type entry struct {
	box Rect
	seq int
}

// Tracker maintains the set of nodes whose last observed intersection ratio
// meets its threshold. Membership is updated by observations, never
// recomputed per query. One Tracker exists per threshold class.
type Tracker struct {
	threshold float64
	selectors []string

	mu           sync.Mutex
	members      map[*html.Node]entry
	subs         map[int]func(Observation)
	nextSub      int
	nextSeq      int
	disconnected bool
}

// NewTracker creates a tracker observing elements matched by the given
// selector classes once they intersect the viewport by at least threshold.
func NewTracker(threshold float64, selectors []string) *Tracker {
	return &Tracker{
		threshold: threshold,
		selectors: selectors,
		members:   make(map[*html.Node]entry),
		subs:      make(map[int]func(Observation)),
	}
}

// NewTextTracker creates the tracker for generic text elements.
func NewTextTracker() *Tracker {
	return NewTracker(TextThreshold, DefaultTextSelectors())
}

// NewCardTracker creates the tracker for card-shaped elements.
func NewCardTracker() *Tracker {
	return NewTracker(CardThreshold, DefaultCardSelectors())
}

// Selectors returns the selector classes this tracker observes.
func (t *Tracker) Selectors() []string {
	return t.selectors
}

// Observe records one intersection event. Ratios at or above the threshold
// add or refresh membership; lower ratios remove it. A negative observation
// for an unknown node is a silent no-op, which is how concurrently detached
// elements drop out.
func (t *Tracker) Observe(obs Observation) {
	if obs.Node == nil {
		return
	}

	t.mu.Lock()
	if t.disconnected {
		t.mu.Unlock()
		return
	}
	if obs.Ratio >= t.threshold {
		e, ok := t.members[obs.Node]
		if !ok {
			e = entry{seq: t.nextSeq}
			t.nextSeq++
		}
		e.box = obs.Box
		t.members[obs.Node] = e
	} else {
		delete(t.members, obs.Node)
	}
	subs := make([]func(Observation), 0, len(t.subs))
	for _, fn := range t.subs {
		subs = append(subs, fn)
	}
	t.mu.Unlock()

	for _, fn := range subs {
		fn(obs)
	}
}

// Snapshot returns the current members ordered by ascending top position,
// ties broken by descending area. This approximates reading order and
// salience for the extraction tiers.
func (t *Tracker) Snapshot() []Member {
	t.mu.Lock()
	type item struct {
		Member
		seq int
	}
	items := make([]item, 0, len(t.members))
	for node, e := range t.members {
		items = append(items, item{Member{Node: node, Box: e.box}, e.seq})
	}
	t.mu.Unlock()

	sort.Slice(items, func(i, j int) bool {
		if items[i].Box.Top != items[j].Box.Top {
			return items[i].Box.Top < items[j].Box.Top
		}
		if items[i].Box.Area() != items[j].Box.Area() {
			return items[i].Box.Area() > items[j].Box.Area()
		}
		return items[i].seq < items[j].seq
	})

	members := make([]Member, len(items))
	for i, it := range items {
		members[i] = it.Member
	}
	return members
}

// Len returns the current membership count.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.members)
}

// Contains reports whether n is currently a member.
func (t *Tracker) Contains(n *html.Node) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.members[n]
	return ok
}

// Subscribe registers fn to receive every observation. The returned func
// removes the subscription.
func (t *Tracker) Subscribe(fn func(Observation)) func() {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.nextSub
	t.nextSub++
	t.subs[id] = fn
	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		delete(t.subs, id)
	}
}

// Reset drops all members but keeps subscribers, for hosts where each cycle
// re-parses the document and node identities do not survive.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.members = make(map[*html.Node]entry)
	t.nextSeq = 0
}

// Disconnect releases the tracker: membership and subscribers are dropped
// and further observations are ignored. Must be called on teardown so
// observation does not outlive the page.
func (t *Tracker) Disconnect() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.members = make(map[*html.Node]entry)
	t.subs = make(map[int]func(Observation))
	t.disconnected = true
}

// DefaultTextSelectors returns the pre-enumerated selector classes observed
// for generic text extraction.
func DefaultTextSelectors() []string {
	return []string{
		"h1", "h2", "h3",
		"p",
		"[class*=caption]", "[class*=description]", "[class*=summary]",
		"[class*=comment]", "[class*=reply]",
		"[class*=text]", "[class*=content]", "[class*=body]",
		"[data-testid*=caption]", "[data-testid*=text]",
	}
}

// DefaultCardSelectors returns the pre-enumerated selector classes that
// identify card-shaped feed items.
func DefaultCardSelectors() []string {
	return []string{
		"article",
		"[role=article]",
		"[class*=post]",
		"[class*=card]",
		"[class*=feed-item]",
		"[class*=tile]",
		"[data-testid*=post]",
		"[data-testid*=card]",
		"li[class*=item]",
	}
}
