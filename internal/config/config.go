package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

//go:embed messages.yaml
var defaultMessages []byte

// Config holds runtime configuration loaded from the environment.
type Config struct {
	GroupToken    string
	UserToken     string
	GroupID       int64
	APIURL        string
	APIVersion    string
	UserRPS       float64
	GroupRPS      float64
	FavoritesFile string
	DBConnString  string
	SQLitePath    string
	MessagesFile  string
	// ReferenceYear is used to compute ages. Zero means the current year.
	ReferenceYear int
	// SkipShown makes "next" pass over candidates already presented.
	SkipShown bool
	LogFile       string
	HTTPAddr      string

	Messages map[string]string
}

// FromEnv loads configuration from environment variables, reading a .env file
// first when one exists. VK_GROUP_TOKEN and VK_USER_TOKEN are required: the
// first sends messages as the community, the second reads the directory as a
// real user. DATABASE_URL selects Postgres storage for favorites, SQLITE_PATH
// selects an embedded database, otherwise FAVORITES_FILE (default
// "favorites.json") is used.
func FromEnv() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	c := &Config{
		GroupToken:    os.Getenv("VK_GROUP_TOKEN"),
		UserToken:     os.Getenv("VK_USER_TOKEN"),
		APIURL:        os.Getenv("VK_API_URL"),
		APIVersion:    os.Getenv("VK_API_VERSION"),
		FavoritesFile: os.Getenv("FAVORITES_FILE"),
		DBConnString:  os.Getenv("DATABASE_URL"),
		SQLitePath:    os.Getenv("SQLITE_PATH"),
		MessagesFile:  os.Getenv("MESSAGES_FILE"),
		LogFile:       os.Getenv("LOG_FILE"),
		HTTPAddr:      os.Getenv("HTTP_ADDR"),
	}
	if c.GroupToken == "" || c.UserToken == "" {
		return nil, errors.New("VK_GROUP_TOKEN and VK_USER_TOKEN must both be set")
	}
	if c.APIURL == "" {
		c.APIURL = "https://api.vk.com/method"
	}
	if c.APIVersion == "" {
		c.APIVersion = "5.199"
	}
	if c.FavoritesFile == "" {
		c.FavoritesFile = "favorites.json"
	}
	var err error
	if c.GroupID, err = envInt64("VK_GROUP_ID"); err != nil {
		return nil, err
	}
	year, err := envInt64("REFERENCE_YEAR")
	if err != nil {
		return nil, err
	}
	c.ReferenceYear = int(year)
	if c.SkipShown, err = envBool("SKIP_SHOWN"); err != nil {
		return nil, err
	}
	if c.UserRPS, err = envFloat("VK_USER_RPS", 3); err != nil {
		return nil, err
	}
	if c.GroupRPS, err = envFloat("VK_GROUP_RPS", 20); err != nil {
		return nil, err
	}
	if err := c.loadMessages(); err != nil {
		return nil, err
	}
	return c, nil
}

// loadMessages reads the embedded reply texts and applies overrides from
// MessagesFile when it is set.
func (c *Config) loadMessages() error {
	c.Messages = map[string]string{}
	if err := yaml.Unmarshal(defaultMessages, &c.Messages); err != nil {
		return fmt.Errorf("default messages: %w", err)
	}
	if c.MessagesFile == "" {
		return nil
	}
	data, err := os.ReadFile(c.MessagesFile)
	if err != nil {
		return err
	}
	overrides := map[string]string{}
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return fmt.Errorf("%s: %w", c.MessagesFile, err)
	}
	for k, v := range overrides {
		c.Messages[k] = v
	}
	return nil
}

func envInt64(key string) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func envBool(key string) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
