package relay

import (
	"context"
	"sync"

	"github.com/collabtext-lab/backend/pkg/xcontext"

	"github.com/puzpuzpuz/xsync"
)

type presenceEntry struct {
	email  string
	index  int
	length int
}

// documentGroup holds the live connections viewing one document. All access to
// entries goes through mutex; dead marks a group that has been removed from
// the outer map so a racing Join can retry instead of resurrecting it.
type documentGroup struct {
	mutex   sync.RWMutex
	dead    bool
	entries map[string]presenceEntry
}

func newDocumentGroup() *documentGroup {
	return &documentGroup{entries: make(map[string]presenceEntry)}
}

// Registry tracks which connections are viewing which document and their last
// known cursor position. It is safe for concurrent use without external
// locking; groups are locked individually so traffic on different documents
// never contends.
type Registry struct {
	groups *xsync.MapOf[string, *documentGroup]
}

func NewRegistry() *Registry {
	return &Registry{groups: xsync.NewMapOf[*documentGroup]()}
}

// Join adds the connection to the document group, creating the group if
// needed. Joining twice overwrites the previous entry, the cursor resets to
// the document head.
func (r *Registry) Join(ctx context.Context, documentID, connectionID, email string) {
	for {
		group, _ := r.groups.LoadOrStore(documentID, newDocumentGroup())

		group.mutex.Lock()
		if group.dead {
			group.mutex.Unlock()
			continue
		}

		group.entries[connectionID] = presenceEntry{email: email}
		group.mutex.Unlock()
		return
	}
}

// Leave removes the connection from the document group. The group itself is
// removed once its last member leaves. No-op if the connection never joined.
func (r *Registry) Leave(ctx context.Context, documentID, connectionID string) {
	group, ok := r.groups.Load(documentID)
	if !ok {
		return
	}

	r.removeFromGroup(documentID, group, connectionID)
}

// removeFromGroup drops the connection from group, removing the group from
// the outer map when it empties. It reports whether the connection was a
// member. A group that died after the caller loaded it is left untouched:
// the document id may already map to a fresh group which must not be
// deleted.
func (r *Registry) removeFromGroup(documentID string, group *documentGroup, connectionID string) bool {
	group.mutex.Lock()
	defer group.mutex.Unlock()

	if group.dead {
		return false
	}

	if _, ok := group.entries[connectionID]; !ok {
		return false
	}

	delete(group.entries, connectionID)
	if len(group.entries) == 0 {
		group.dead = true
		r.groups.Delete(documentID)
	}

	return true
}

// UpdateCursor records the connection's cursor. A cursor update arriving after
// leave or disconnect is an expected race and is dropped silently.
func (r *Registry) UpdateCursor(
	ctx context.Context, documentID, connectionID string, index, length int,
) bool {
	group, ok := r.groups.Load(documentID)
	if !ok {
		xcontext.Logger(ctx).Debugf(
			"Dropped cursor update for unknown document %s", documentID)
		return false
	}

	group.mutex.Lock()
	defer group.mutex.Unlock()

	entry, ok := group.entries[connectionID]
	if !ok {
		xcontext.Logger(ctx).Debugf(
			"Dropped cursor update of gone connection %s on document %s",
			connectionID, documentID)
		return false
	}

	entry.index = index
	entry.length = length
	group.entries[connectionID] = entry
	return true
}

// Disconnect removes the connection from every group it belongs to and
// returns the ids of the documents whose presence actually changed.
func (r *Registry) Disconnect(ctx context.Context, connectionID string) []string {
	var affected []string

	r.groups.Range(func(documentID string, group *documentGroup) bool {
		if r.removeFromGroup(documentID, group, connectionID) {
			affected = append(affected, documentID)
		}
		return true
	})

	return affected
}

// Emails returns the distinct set of emails currently viewing the document.
// Multiple tabs of the same user count once.
func (r *Registry) Emails(documentID string) []string {
	group, ok := r.groups.Load(documentID)
	if !ok {
		return []string{}
	}

	group.mutex.RLock()
	defer group.mutex.RUnlock()

	seen := make(map[string]bool, len(group.entries))
	emails := make([]string, 0, len(group.entries))
	for _, entry := range group.entries {
		if !seen[entry.email] {
			seen[entry.email] = true
			emails = append(emails, entry.email)
		}
	}

	return emails
}

// Connections returns the connection ids currently in the document group.
func (r *Registry) Connections(documentID string) []string {
	group, ok := r.groups.Load(documentID)
	if !ok {
		return nil
	}

	group.mutex.RLock()
	defer group.mutex.RUnlock()

	ids := make([]string, 0, len(group.entries))
	for id := range group.entries {
		ids = append(ids, id)
	}

	return ids
}

// ConnectionsOfEmail returns the connection ids of one user's presence in the
// document group. A user with several tabs has several connections.
func (r *Registry) ConnectionsOfEmail(documentID, email string) []string {
	group, ok := r.groups.Load(documentID)
	if !ok {
		return nil
	}

	group.mutex.RLock()
	defer group.mutex.RUnlock()

	var ids []string
	for id, entry := range group.entries {
		if entry.email == email {
			ids = append(ids, id)
		}
	}

	return ids
}

// Cursor returns the last known cursor of a connection on a document.
func (r *Registry) Cursor(documentID, connectionID string) (index, length int, ok bool) {
	group, found := r.groups.Load(documentID)
	if !found {
		return 0, 0, false
	}

	group.mutex.RLock()
	defer group.mutex.RUnlock()

	entry, found := group.entries[connectionID]
	if !found {
		return 0, 0, false
	}

	return entry.index, entry.length, true
}
