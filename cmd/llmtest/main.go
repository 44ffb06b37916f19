package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/velocityautos/concierge-ai/internal/conversation"
)

// Smoke-tests the configured providers with a short car hire exchange.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	messages := []conversation.ChatMessage{
		{Role: "user", Content: "Hi, I'm looking to hire a car for a week. What do you have available?"},
		{Role: "assistant", Content: "We have a wide range of vehicles, from economy hatchbacks to luxury saloons and SUVs. Weekly rates start from 45 GBP per day. Do you have a vehicle type in mind?"},
		{Role: "user", Content: "Something comfortable for a family of four, what would you suggest?"},
	}

	req := conversation.LLMRequest{
		System:      []string{"You are a friendly car hire assistant for Prestige Car Hire. Keep responses brief and helpful."},
		Messages:    messages,
		MaxTokens:   200,
		Temperature: 0.7,
	}

	fmt.Println("LLM Provider Test")
	fmt.Println("=================")

	geminiKey := os.Getenv("GEMINI_API_KEY")
	if geminiKey == "" {
		fmt.Println("\n[1] Skipping Gemini test (GEMINI_API_KEY not set)")
	} else {
		fmt.Println("\n[1] Testing Gemini directly...")
		client, err := conversation.NewGeminiLLMClient(ctx, geminiKey, os.Getenv("GEMINI_MODEL_ID"))
		if err != nil {
			fmt.Printf("    failed to create Gemini client: %v\n", err)
		} else {
			start := time.Now()
			resp, err := client.Complete(ctx, req)
			elapsed := time.Since(start)
			if err != nil {
				fmt.Printf("    Gemini error: %v\n", err)
			} else {
				fmt.Printf("    Gemini response (%v):\n", elapsed.Round(time.Millisecond))
				fmt.Printf("    %s\n", resp.Text)
				fmt.Printf("    Tokens: in=%d, out=%d\n", resp.Usage.InputTokens, resp.Usage.OutputTokens)
			}
		}
	}

	fmt.Println("\n[2] Bedrock is exercised through the fallback cascade in the full app.")
	fmt.Println("    Run the API with BEDROCK_MODEL_ID set and watch for 'primary provider failed, trying fallback'.")
}
