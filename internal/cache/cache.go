// Package cache memoizes owner and group name lookups for long listings.
// A directory usually holds files from a handful of owners, so each id is
// resolved against the system databases once per run.
package cache

import (
	"log/slog"
	"os/user"
	"strconv"
	"sync"
)

// NameResolver maps numeric ids to account names.
type NameResolver interface {
	// UserName returns the login name for uid, or ok=false if unknown.
	UserName(uid uint32) (name string, ok bool)

	// GroupName returns the group name for gid, or ok=false if unknown.
	GroupName(gid uint32) (name string, ok bool)
}

type entry struct {
	name string
	ok   bool
}

// NameCache is a NameResolver backed by os/user with an in-memory cache.
// Misses are cached too, so an unknown id is looked up only once.
type NameCache struct {
	logger *slog.Logger

	lookupUser  func(uid string) (*user.User, error)
	lookupGroup func(gid string) (*user.Group, error)

	mu     sync.Mutex
	users  map[uint32]entry
	groups map[uint32]entry
}

// NewNameCache creates a NameCache that resolves through os/user.
func NewNameCache(logger *slog.Logger) *NameCache {
	return &NameCache{
		logger:      logger,
		lookupUser:  user.LookupId,
		lookupGroup: user.LookupGroupId,
		users:       make(map[uint32]entry),
		groups:      make(map[uint32]entry),
	}
}

// UserName implements NameResolver.
func (c *NameCache) UserName(uid uint32) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, found := c.users[uid]; found {
		return e.name, e.ok
	}
	var e entry
	u, err := c.lookupUser(strconv.FormatUint(uint64(uid), 10))
	if err != nil {
		c.logger.Debug("Owner lookup failed", "uid", uid, "error", err)
	} else {
		e = entry{name: u.Username, ok: true}
	}
	c.users[uid] = e
	return e.name, e.ok
}

// GroupName implements NameResolver.
func (c *NameCache) GroupName(gid uint32) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, found := c.groups[gid]; found {
		return e.name, e.ok
	}
	var e entry
	g, err := c.lookupGroup(strconv.FormatUint(uint64(gid), 10))
	if err != nil {
		c.logger.Debug("Group lookup failed", "gid", gid, "error", err)
	} else {
		e = entry{name: g.Name, ok: true}
	}
	c.groups[gid] = e
	return e.name, e.ok
}
