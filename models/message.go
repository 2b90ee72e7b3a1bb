package models

import (
	"strconv"
	"time"

	"stayhub-backend/utils"
)

type Message struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"sent_at"`
	UpdatedAt time.Time `json:"-"`

	SenderID   uint   `gorm:"index;column:sender_id" json:"sender_id"`
	ReceiverID uint   `gorm:"index;column:receiver_id" json:"receiver_id"`
	Subject    string `gorm:"column:subject;size:128" json:"subject"`
	Content    string `gorm:"column:content;type:text" json:"content"`
	Read       bool   `gorm:"column:is_read;default:false" json:"read"`
}

const messageRecordFields = 7

// ToRecord encodes the message as one flat-file line.
func (m *Message) ToRecord() string {
	return utils.JoinFields(
		strconv.FormatUint(uint64(m.ID), 10),
		strconv.FormatUint(uint64(m.SenderID), 10),
		strconv.FormatUint(uint64(m.ReceiverID), 10),
		m.Subject,
		m.Content,
		m.CreatedAt.UTC().Format(time.RFC3339),
		strconv.FormatBool(m.Read),
	)
}

// MessageFromRecord decodes one flat-file line back into a message.
func MessageFromRecord(line string) (Message, error) {
	parts, err := utils.SplitFields(line, messageRecordFields)
	if err != nil {
		return Message{}, err
	}
	id, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return Message{}, err
	}
	senderID, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return Message{}, err
	}
	receiverID, err := strconv.ParseUint(parts[2], 10, 64)
	if err != nil {
		return Message{}, err
	}
	sentAt, err := time.Parse(time.RFC3339, parts[5])
	if err != nil {
		return Message{}, err
	}
	read, err := strconv.ParseBool(parts[6])
	if err != nil {
		return Message{}, err
	}
	return Message{
		ID:         uint(id),
		SenderID:   uint(senderID),
		ReceiverID: uint(receiverID),
		Subject:    parts[3],
		Content:    parts[4],
		CreatedAt:  sentAt,
		Read:       read,
	}, nil
}
