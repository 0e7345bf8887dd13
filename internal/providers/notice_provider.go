package providers

import (
	"sync"

	"dtrplay/internal/structures"

	"github.com/coocood/freecache"
	json "github.com/goccy/go-json"
)

// noticeCacheSize is fixed: notices are a few short strings per session.
const noticeCacheSize = 1024 * 1024

// NoticeProviderInterface stores transient per-session messages that
// expire on their own ("Changes Saved Successfully!", "Schedules cleared.").
type NoticeProviderInterface interface {
	Push(session, message string)
	List(session string) []string
	Dismiss(session string)
}

type NoticeProvider struct {
	mu    sync.Mutex
	cache *freecache.Cache
	ttl   int
}

func NewNoticeProvider(conf *structures.Config) NoticeProviderInterface {
	return &NoticeProvider{
		cache: freecache.NewCache(noticeCacheSize),
		ttl:   ttlSeconds(conf.Notice.TTL),
	}
}

func noticeKey(session string) []byte {
	return []byte("notice:" + session)
}

// Push appends a message and restarts the expiry of the whole list.
func (n *NoticeProvider) Push(session, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	messages := n.list(session)
	messages = append(messages, message)
	data, err := json.Marshal(messages)
	if err != nil {
		return
	}
	_ = n.cache.Set(noticeKey(session), data, n.ttl)
}

func (n *NoticeProvider) List(session string) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.list(session)
}

func (n *NoticeProvider) list(session string) []string {
	data, err := n.cache.Get(noticeKey(session))
	if err != nil {
		return nil
	}
	var messages []string
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil
	}
	return messages
}

func (n *NoticeProvider) Dismiss(session string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cache.Del(noticeKey(session))
}
