package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Credentials are the platform secrets read from the environment.
// A missing value is not an error here; each platform client reports
// its own configuration problem at publish time.
type Credentials struct {
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`

	Twitter   TwitterCredentials   `envPrefix:"TWITTER_"`
	LinkedIn  LinkedInCredentials  `envPrefix:"LINKEDIN_"`
	Facebook  FacebookCredentials  `envPrefix:"FACEBOOK_"`
	Instagram InstagramCredentials `envPrefix:"INSTAGRAM_"`
	YouTube   YouTubeCredentials   `envPrefix:"YOUTUBE_"`
	Telegram  TelegramCredentials  `envPrefix:"TELEGRAM_"`
	WhatsApp  WhatsAppCredentials  `envPrefix:"WHATSAPP_"`
}

type TwitterCredentials struct {
	APIKey            string `env:"API_KEY"`
	APISecret         string `env:"API_SECRET"`
	AccessToken       string `env:"ACCESS_TOKEN"`
	AccessTokenSecret string `env:"ACCESS_TOKEN_SECRET"`
}

type LinkedInCredentials struct {
	AccessToken string `env:"ACCESS_TOKEN"`
	PersonID    string `env:"PERSON_ID"`
}

type FacebookCredentials struct {
	AccessToken string `env:"ACCESS_TOKEN"`
	PageID      string `env:"PAGE_ID"`
}

type InstagramCredentials struct {
	AccessToken string `env:"ACCESS_TOKEN"`
	AccountID   string `env:"ACCOUNT_ID"`
}

type YouTubeCredentials struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RefreshToken string `env:"REFRESH_TOKEN"`
}

type TelegramCredentials struct {
	BotToken string `env:"BOT_TOKEN"`
	ChatID   string `env:"CHAT_ID"`
}

type WhatsAppCredentials struct {
	AccessToken     string `env:"ACCESS_TOKEN"`
	PhoneNumberID   string `env:"PHONE_NUMBER_ID"`
	RecipientNumber string `env:"RECIPIENT_NUMBER"`
}

// LoadCredentials reads platform credentials from the process environment
func LoadCredentials() (*Credentials, error) {
	return parseCredentials(env.Options{})
}

// LoadCredentialsFrom reads platform credentials from the given variables
func LoadCredentialsFrom(vars map[string]string) (*Credentials, error) {
	return parseCredentials(env.Options{Environment: vars})
}

func parseCredentials(opts env.Options) (*Credentials, error) {
	var creds Credentials
	if err := env.ParseWithOptions(&creds, opts); err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}
	return &creds, nil
}

// HasOpenAIKey mirrors the length check used to decide whether the key is real
func (c *Credentials) HasOpenAIKey() bool {
	return len(c.OpenAIAPIKey) > 20
}
