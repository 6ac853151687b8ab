// Aspeti - Local Offers Marketplace
// Copyright 2026 Aspeti
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aspeti/aspeti

package models

import "time"

// MessageAuthor identifies which side of a thread wrote a message.
type MessageAuthor string

// Message authors.
const (
	AuthorProvider MessageAuthor = "provider"
	AuthorClient   MessageAuthor = "client"
)

// ThreadStatus is the open/closed state of a message thread.
type ThreadStatus string

// Thread states.
const (
	ThreadOpen   ThreadStatus = "open"
	ThreadClosed ThreadStatus = "closed"
)

// MessageItem is a single message inside a thread.
type MessageItem struct {
	ID        string        `json:"id"`
	Author    MessageAuthor `json:"author"`
	Text      string        `json:"text"`
	CreatedAt time.Time     `json:"createdAt"`
	Read      bool          `json:"read"`
}

// MessageThread is a conversation between the provider and one client.
//
// Invariant: UnreadForProvider always equals the number of client-authored
// messages in Messages with Read == false. Mutations go through the
// messaging service, which maintains the invariant.
type MessageThread struct {
	ID                string        `json:"id"`
	ClientID          string        `json:"clientId"`
	Subject           string        `json:"subject"`
	Status            ThreadStatus  `json:"status,omitempty"`
	Messages          []MessageItem `json:"messages,omitempty"`
	UnreadForProvider int           `json:"unreadForProvider"`
	LastUpdatedAt     time.Time     `json:"lastUpdatedAt"`
}

// RecountUnread recomputes UnreadForProvider from the message list. Stores
// call it at load time so the invariant survives hand-edited data files.
func (t *MessageThread) RecountUnread() {
	n := 0
	for _, m := range t.Messages {
		if m.Author == AuthorClient && !m.Read {
			n++
		}
	}
	t.UnreadForProvider = n
}
