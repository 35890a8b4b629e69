// Package provider constructs the chat-completions client pointed at the
// Gemini OpenAI-compatibility endpoint and handles API-key acquisition.
package provider

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"golang.org/x/term"
)

// DefaultBaseURL is the Gemini endpoint speaking the OpenAI chat-completions
// protocol; override with RA_GEMINI_BASE_URL.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

// DefaultModel is used unless RA_MODEL is set.
const DefaultModel = openai.ChatModel("gemini-2.5-flash")

// LoadEnvFiles loads .env.local then .env into the process environment.
// Missing files are fine; unreadable ones are not.
func LoadEnvFiles() error {
	for _, file := range []string{".env.local", ".env"} {
		if err := godotenv.Load(file); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to load %s: %w", file, err)
		}
	}
	return nil
}

// EnsureAPIKey makes sure GEMINI_API_KEY is set for the rest of the process.
// It loads env files first; if the key is still missing and stdin is a
// terminal, it prompts with echo disabled and stores the entered key.
func EnsureAPIKey() error {
	if err := LoadEnvFiles(); err != nil {
		return err
	}
	if os.Getenv("GEMINI_API_KEY") != "" {
		return nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("GEMINI_API_KEY is not set; export it or add it to .env")
	}

	fmt.Fprint(os.Stderr, "GEMINI_API_KEY: ")
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("read API key: %w", err)
	}
	key := strings.TrimSpace(string(b))
	if key == "" {
		return errors.New("no API key entered")
	}
	return os.Setenv("GEMINI_API_KEY", key)
}

// NewGeminiClient returns a chat-completions client for the Gemini
// OpenAI-compatibility endpoint, keyed from the environment.
func NewGeminiClient() *openai.Client {
	base := os.Getenv("RA_GEMINI_BASE_URL")
	if base == "" {
		base = DefaultBaseURL
	}
	c := openai.NewClient(
		option.WithAPIKey(os.Getenv("GEMINI_API_KEY")),
		option.WithBaseURL(base),
	)
	return &c
}

// Model returns the configured chat model.
func Model() openai.ChatModel {
	if v := os.Getenv("RA_MODEL"); v != "" {
		return openai.ChatModel(v)
	}
	return DefaultModel
}
