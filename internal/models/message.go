package models

import "time"

// Message is a chat message, either a DM or a group-hub post. Group messages
// use the group id as receiver.
type Message struct {
	ID         string    `db:"id" json:"id"`
	SenderID   string    `db:"sender_id" json:"sender_id"`
	ReceiverID string    `db:"receiver_id" json:"receiver_id"`
	Content    string    `db:"content" json:"content"`
	IsGroupMsg bool      `db:"is_group_msg" json:"is_group_msg"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
