package cmd

import (
	"os"

	"github.com/spf13/viper"

	"github.com/joescharf/focus/internal/llm"
)

// newLLMClient creates an LLM client from config, falling back to
// ANTHROPIC_API_KEY.
func newLLMClient() (*llm.Client, error) {
	apiKey := viper.GetString("anthropic.api_key")
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	return llm.NewClient(apiKey, viper.GetString("anthropic.model"))
}
