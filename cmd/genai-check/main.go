// Command genai-check verifies GEMINI_API_KEY against the native Gemini API
// with a single one-shot generation, independent of the agent stack.
package main

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"

	"github.com/marketlens/research-agent/internal/provider"
)

func main() {
	if err := provider.EnsureAPIKey(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  os.Getenv("GEMINI_API_KEY"),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "create client: %v\n", err)
		os.Exit(1)
	}

	resp, err := client.Models.GenerateContent(
		ctx,
		string(provider.Model()),
		genai.Text("Explain how AI works in a few words"),
		nil,
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(resp.Text())
}
