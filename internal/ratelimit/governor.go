// Package ratelimit implements the per-identity request budget enforced in
// front of mutating endpoints.
//
// Counters are process-local and are not shared across horizontally scaled
// instances. That is a documented limitation at small scale, not a bug; the
// per-call contract (Allow -> allowed/retry-after) would be unchanged by a
// centralized counter store.
package ratelimit

import (
	"fmt"
	"math"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Class identifies an operation class with its own independent budget.
type Class string

const (
	ClassRegistration  Class = "registration"
	ClassLogin         Class = "login"
	ClassContentCreate Class = "content-create"
	ClassContentUpdate Class = "content-update"
	ClassContentDelete Class = "content-delete"
	ClassVote          Class = "vote"
	ClassSave          Class = "save"
	ClassReport        Class = "report"
)

// Limit is the budget for one operation class: Cap requests per Window.
type Limit struct {
	Cap    int
	Window time.Duration
}

// DefaultLimits returns the built-in per-class budgets.
func DefaultLimits() map[Class]Limit {
	return map[Class]Limit{
		ClassRegistration:  {Cap: 3, Window: 10 * time.Minute},
		ClassLogin:         {Cap: 10, Window: 5 * time.Minute},
		ClassContentCreate: {Cap: 10, Window: 5 * time.Minute},
		ClassContentUpdate: {Cap: 30, Window: 5 * time.Minute},
		ClassContentDelete: {Cap: 30, Window: 5 * time.Minute},
		ClassVote:          {Cap: 60, Window: time.Minute},
		ClassSave:          {Cap: 60, Window: time.Minute},
		ClassReport:        {Cap: 10, Window: 10 * time.Minute},
	}
}

// ParseLimits parses override budgets from a comma-separated config string,
// e.g. "vote=30/1m,report=5/10m", merged over the defaults. Malformed
// entries are skipped.
func ParseLimits(raw string) map[Class]Limit {
	limits := DefaultLimits()
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			continue
		}
		budget := strings.SplitN(parts[1], "/", 2)
		if len(budget) != 2 {
			continue
		}
		cap, err := strconv.Atoi(strings.TrimSpace(budget[0]))
		if err != nil || cap <= 0 {
			continue
		}
		window, err := time.ParseDuration(strings.TrimSpace(budget[1]))
		if err != nil || window <= 0 {
			continue
		}
		limits[Class(strings.TrimSpace(parts[0]))] = Limit{Cap: cap, Window: window}
	}
	return limits
}

type windowKey struct {
	identity string
	class    Class
}

// window is a fixed counting window; it resets lazily once ResetAt passes.
type window struct {
	count   int
	resetAt time.Time
}

// Governor tracks fixed-window request counters per (identity, class).
type Governor struct {
	mu      sync.Mutex
	limits  map[Class]Limit
	windows map[windowKey]*window
	now     func() time.Time
}

// NewGovernor creates a Governor with the given per-class budgets.
func NewGovernor(limits map[Class]Limit) *Governor {
	return &Governor{
		limits:  limits,
		windows: make(map[windowKey]*window),
		now:     time.Now,
	}
}

// Allow reports whether the identity still has budget for the class. It does
// not consume budget: callers must Record after the wrapped operation
// succeeds, so failed requests never count against the caller.
// On denial the returned seconds are the time until the window resets,
// always at least 1.
func (g *Governor) Allow(identity string, class Class) (bool, int) {
	limit, ok := g.limits[class]
	if !ok {
		return true, 0
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	key := windowKey{identity: identity, class: class}
	w, ok := g.windows[key]
	if !ok || !now.Before(w.resetAt) {
		return true, 0
	}
	if w.count < limit.Cap {
		return true, 0
	}

	retry := int(math.Ceil(w.resetAt.Sub(now).Seconds()))
	if retry < 1 {
		retry = 1
	}
	return false, retry
}

// Record consumes one unit of budget for the identity and class. Call it
// only after the wrapped operation completed successfully.
func (g *Governor) Record(identity string, class Class) {
	limit, ok := g.limits[class]
	if !ok {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	key := windowKey{identity: identity, class: class}
	w, ok := g.windows[key]
	if !ok || !now.Before(w.resetAt) {
		g.windows[key] = &window{count: 1, resetAt: now.Add(limit.Window)}
		return
	}
	w.count++
}

// Sweep drops elapsed windows so idle identities do not accumulate memory.
// Intended for a periodic background ticker.
func (g *Governor) Sweep() {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	for key, w := range g.windows {
		if !now.Before(w.resetAt) {
			delete(g.windows, key)
		}
	}
}

// IdentityKey derives the budget key for a caller: the authenticated user ID
// when present, otherwise the normalized remote address.
func IdentityKey(userID uint, ip string) string {
	if userID != 0 {
		return fmt.Sprintf("user:%d", userID)
	}
	return "ip:" + NormalizeIP(ip)
}

// NormalizeIP collapses IPv6 addresses to their /64 routing prefix so a
// caller rotating interface suffixes cannot sidestep the budget. IPv4 and
// 4-in-6 addresses pass through unchanged.
func NormalizeIP(ip string) string {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return ip
	}
	if addr.Is4() || addr.Is4In6() {
		return addr.Unmap().String()
	}
	prefix, err := addr.Prefix(64)
	if err != nil {
		return addr.String()
	}
	return prefix.String()
}
