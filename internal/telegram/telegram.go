package telegram

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"loftonrealty/server/internal/models"
)

// Config holds the bot credentials for the agent alert channel.
type Config struct {
	IsEnabled bool
	BotToken  string
	ChatID    string
}

// Service pushes lead alerts to the brokerage's agent chat.
type Service struct {
	logger *logrus.Logger
	client *http.Client
	config *Config
}

func NewService(logger *logrus.Logger) *Service {
	return &Service{
		logger: logger,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		config: &Config{},
	}
}

func (s *Service) UpdateConfig(config *Config) {
	s.config = config
}

// SendMessage sends a message to the configured Telegram chat
func (s *Service) SendMessage(message string) error {
	if !s.config.IsEnabled {
		return nil
	}

	if s.config.BotToken == "" {
		return errors.New("Telegram bot token is not configured")
	}

	if s.config.ChatID == "" {
		return errors.New("Telegram chat ID is not configured")
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.config.BotToken)
	payload := map[string]interface{}{
		"chat_id":    s.config.ChatID,
		"text":       message,
		"parse_mode": "HTML",
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message payload: %v", err)
	}

	resp, err := s.client.Post(url, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to send message to Telegram API: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return errors.New("invalid bot token - please check your token from @BotFather")
		case http.StatusBadRequest:
			return fmt.Errorf("invalid chat ID or message format: %s", string(body))
		case http.StatusForbidden:
			return errors.New("bot was blocked by the user or chat")
		case http.StatusNotFound:
			return errors.New("bot not found - please check your token from @BotFather")
		default:
			return fmt.Errorf("Telegram API error (status %d): %s", resp.StatusCode, string(body))
		}
	}

	return nil
}

// NotifyNewLead sends an alert about a fresh contact-form submission.
// The listing is optional and only adds context when the lead came from
// a property detail page.
func (s *Service) NotifyNewLead(lead *models.Lead, listing *models.Listing) error {
	if !s.config.IsEnabled {
		return nil
	}

	return s.SendMessage(formatLeadMessage(lead, listing))
}

func formatLeadMessage(lead *models.Lead, listing *models.Listing) string {
	interest := lead.Interest
	if interest == "" {
		interest = "General inquiry"
	}

	message := fmt.Sprintf(
		"<b>New Lead!</b>\n\n"+
			"👤 %s\n"+
			"✉️ %s\n",
		lead.Name,
		lead.Email,
	)

	if lead.Phone != "" {
		message += fmt.Sprintf("📞 %s\n", lead.Phone)
	}
	if lead.Location != "" {
		message += fmt.Sprintf("📍 %s\n", lead.Location)
	}
	message += fmt.Sprintf("🎯 %s\n", interest)

	if lead.Message != "" {
		message += fmt.Sprintf("\n💬 %s\n", lead.Message)
	}

	if listing != nil {
		message += fmt.Sprintf(
			"\n🏠 %s\n📍 %s, %s\n💰 $%d\n",
			listing.Title,
			listing.City,
			listing.State,
			listing.Price,
		)
	}

	return message
}
