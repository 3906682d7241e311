package app

import "sync"

// ChatLimiter сериализует отправку в один чат: два быстрых переключения урока
// не должны прийти учителю вперемешку. Запись о чате живёт, пока есть ждущие.
type ChatLimiter struct {
	mu    sync.Mutex
	chats map[int64]*chatLock
}

type chatLock struct {
	sync.Mutex
	refs int
}

func NewChatLimiter() *ChatLimiter {
	return &ChatLimiter{chats: make(map[int64]*chatLock)}
}

func (l *ChatLimiter) lock(chatID int64) (unlock func()) {
	l.mu.Lock()
	c := l.chats[chatID]
	if c == nil {
		c = &chatLock{}
		l.chats[chatID] = c
	}
	c.refs++
	l.mu.Unlock()

	c.Lock()
	return func() {
		c.Unlock()
		l.mu.Lock()
		if c.refs--; c.refs == 0 {
			delete(l.chats, chatID)
		}
		l.mu.Unlock()
	}
}

func (l *ChatLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.chats)
}
