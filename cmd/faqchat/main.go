package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/JianiWang2024/faqchat/internal/adapters/api"
	"github.com/JianiWang2024/faqchat/internal/adapters/memory"
	"github.com/JianiWang2024/faqchat/internal/app/chat"
	"github.com/JianiWang2024/faqchat/internal/config"
	"github.com/JianiWang2024/faqchat/internal/domain"
	"github.com/JianiWang2024/faqchat/internal/observability"
	"github.com/JianiWang2024/faqchat/internal/ui"
)

func main() {
	cfg := config.Load()
	observability.SetLevel(cfg.LogLevel)

	ctx := context.Background()

	var (
		auth domain.AuthClient
		deps chat.Deps
	)

	if cfg.Offline {
		log.Println("[BACKEND] Using in-memory offline backend")
		backend := memory.NewBackend()
		backend.SetTopQuestions([]domain.QuickQuestion{
			{Question: "What is the FAQ assistant?", Count: 12},
			{Question: "How do I start a continuous chat?", Count: 9},
			{Question: "How do I rate a conversation?", Count: 5},
		})
		auth = backend
		deps = chat.Deps{Search: backend, Sessions: backend, Feedback: backend, Suggestions: backend}
	} else {
		log.Printf("[BACKEND] Using FAQ service at %s", cfg.BaseURL)
		client, err := api.NewClient(&api.Config{
			BaseURL:         cfg.BaseURL,
			Timeout:         cfg.Timeout(),
			WithCredentials: cfg.WithCredentials,
		})
		if err != nil {
			log.Fatalf("error initializing API client: %v", err)
		}
		auth = client
		deps = chat.Deps{Search: client, Sessions: client, Feedback: client, Suggestions: client}
	}

	user, err := auth.CurrentUser(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			fmt.Fprintln(os.Stderr, "You are not logged in. Sign in through the web app first, then run faqchat again.")
			os.Exit(1)
		}
		log.Fatalf("error checking current user: %v", err)
	}

	svc := chat.NewService(ctx, *user, deps)

	program := tea.NewProgram(ui.New(svc, auth), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		log.Fatal(err)
	}
}
