// services/message_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"stayhub-backend/models"
)

type MessageService struct {
	DB *gorm.DB
}

func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{DB: db}
}

// Send records a message between two users.
func (s *MessageService) Send(senderID, receiverID uint, subject, content string) (*models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errors.New("empty_message")
	}
	if senderID == receiverID {
		return nil, errors.New("self_message")
	}
	msg := models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Subject:    strings.TrimSpace(subject),
		Content:    content,
	}
	if err := s.DB.Create(&msg).Error; err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	return &msg, nil
}

// ForUser lists everything the user sent or received, newest first.
func (s *MessageService) ForUser(userID uint) ([]models.Message, error) {
	var list []models.Message
	if err := s.DB.
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return list, nil
}

// Conversation lists the exchange between two users, oldest first.
func (s *MessageService) Conversation(userID, otherID uint) ([]models.Message, error) {
	var list []models.Message
	if err := s.DB.
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, otherID, otherID, userID).
		Order("created_at ASC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}
	return list, nil
}

// MarkRead flags a message as read; only the receiver may do so.
func (s *MessageService) MarkRead(messageID, userID uint) error {
	res := s.DB.Model(&models.Message{}).
		Where("id = ? AND receiver_id = ?", messageID, userID).
		Update("is_read", true)
	if res.Error != nil {
		return fmt.Errorf("failed to mark message read: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.New("message_not_found")
	}
	return nil
}

// UnreadCount counts the user's unread messages.
func (s *MessageService) UnreadCount(userID uint) (int64, error) {
	var count int64
	if err := s.DB.Model(&models.Message{}).
		Where("receiver_id = ? AND is_read = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return count, nil
}
