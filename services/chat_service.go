package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"vitatrack/ai"
	"vitatrack/models"
	"vitatrack/store"
	"vitatrack/utils"
)

const (
	maxChatMessages = 100
	chatContextSize = 10
)

// ChatService keeps a capped per-user transcript and answers through the
// AI resolver. The assistant reply records which provider produced it.
type ChatService struct {
	store    *store.Store
	messages store.Collection[models.ChatMessage]
	resolver *ai.Resolver
	settings *SettingsService
	users    *UserService
	log      *zap.Logger
}

func NewChatService(s *store.Store, resolver *ai.Resolver, settings *SettingsService, users *UserService, log *zap.Logger) *ChatService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ChatService{
		store:    s,
		messages: store.NewCollection[models.ChatMessage](s),
		resolver: resolver,
		settings: settings,
		users:    users,
		log:      log,
	}
}

// Send stores the user message, generates a reply, and stores that too.
func (s *ChatService) Send(ctx context.Context, userID uint, content string) (*models.ChatMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.New("empty message")
	}

	user, err := s.users.GetByID(userID)
	if err != nil || user == nil {
		return nil, firstErr(err, errors.New("user not found"))
	}

	if _, err := s.messages.Put(&models.ChatMessage{
		UserID:    userID,
		Role:      "user",
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		return nil, err
	}

	req := ai.Request{
		Kind:        ai.KindChat,
		System:      chatSystemPrompt(user),
		Prompt:      s.promptWithContext(userID, content),
		Temperature: 0.7,
	}
	providers := ai.Chain(s.settings.AIOptions(), profileOf(user))
	res, err := s.resolver.Generate(ctx, providers, req)
	if err != nil {
		return nil, err
	}
	utils.AIGenerations.WithLabelValues(res.Source, string(req.Kind)).Inc()

	reply := &models.ChatMessage{
		UserID:    userID,
		Role:      "assistant",
		Content:   strings.TrimSpace(res.Text),
		Source:    res.Source,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.messages.Put(reply); err != nil {
		return nil, err
	}
	if err := s.trim(userID); err != nil {
		s.log.Warn("chat_trim_failed", zap.Uint("user_id", userID), zap.Error(err))
	}
	return reply, nil
}

// History returns the transcript oldest first.
func (s *ChatService) History(userID uint, limit int) ([]models.ChatMessage, error) {
	if limit <= 0 || limit > maxChatMessages {
		limit = maxChatMessages
	}
	var msgs []models.ChatMessage
	err := s.store.DB().
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&msgs).Error
	return msgs, err
}

// Clear drops the user's transcript.
func (s *ChatService) Clear(userID uint) error {
	return s.store.DB().Where("user_id = ?", userID).Delete(&models.ChatMessage{}).Error
}

// promptWithContext prefixes the question with the last few exchanges so
// local and remote models see the same short context window.
func (s *ChatService) promptWithContext(userID uint, content string) string {
	var recent []models.ChatMessage
	err := s.store.DB().
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(chatContextSize).
		Find(&recent).Error
	if err != nil || len(recent) <= 1 {
		return content
	}

	var b strings.Builder
	b.WriteString("Conversation so far:\n")
	for i := len(recent) - 1; i >= 1; i-- {
		fmt.Fprintf(&b, "%s: %s\n", recent[i].Role, recent[i].Content)
	}
	b.WriteString("\nUser question: ")
	b.WriteString(content)
	return b.String()
}

func (s *ChatService) trim(userID uint) error {
	return s.store.DB().Exec(
		`DELETE FROM chat_messages WHERE user_id = ? AND id NOT IN (
			SELECT id FROM chat_messages WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ?
		)`, userID, userID, maxChatMessages,
	).Error
}

func chatSystemPrompt(u *models.User) string {
	return fmt.Sprintf(
		"You are a friendly nutrition and fitness assistant. The user is %d years old, weighs %.1f kg, is %.1f cm tall and their goal is %s. Keep answers short and practical.",
		u.Age, u.WeightKg, u.HeightCm, u.Goal,
	)
}
