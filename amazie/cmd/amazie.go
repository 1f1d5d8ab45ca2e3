// Terminal client for the Amazie shopping assistant
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/iamham/amazie/amazie/catalog"
	"github.com/iamham/amazie/amazie/config"
	"github.com/iamham/amazie/amazie/recipes"
	"github.com/iamham/amazie/amazie/services/assistant"
	"github.com/iamham/amazie/amazie/utils/logging"
)

func main() {
	logging.InitLogger()
	cfg := config.LoadConfig()
	ctx := context.Background()

	args := os.Args[1:]
	if len(args) < 1 || args[0] != "connect" {
		fmt.Println("Amazie CLI usage:")
		fmt.Println("  amazie connect   # Chat with the shopping assistant in this terminal")
		os.Exit(1)
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		fmt.Println("catalog load error:", err)
		os.Exit(1)
	}
	book, err := recipes.Load(cfg.RecipesPath)
	if err != nil {
		book = recipes.New(nil)
	}

	ai, err := assistant.New(ctx, cfg, cat, book)
	if err != nil {
		fmt.Println("Set GEMINI_API_KEY to chat with Amazie:", err)
		os.Exit(1)
	}
	session, err := ai.StartSession(ctx)
	if err != nil {
		logging.ErrorLogger.Error("session start error", zap.Error(err))
		fmt.Println("could not start a chat session:", err)
		os.Exit(1)
	}

	fmt.Printf("\nAmazie is ready. %d products in the catalog.\n\n", cat.Len())
	fmt.Println("Ask for recommendations ('show me red dresses under 1500'),")
	fmt.Println("or for a recipe ('how do I make green curry?').")
	fmt.Println("Type your message or 'exit' to quit.")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("you> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "exit" || line == "quit" {
			fmt.Println("Goodbye!")
			break
		}
		if line == "" {
			continue
		}

		result, err := ai.SendTurn(ctx, session, line, nil)
		if err != nil {
			fmt.Println("error:", err)
			continue
		}
		fmt.Printf("\namazie> %s\n", result.Text)
		for _, p := range result.Products {
			fmt.Printf("  - %s (%.0f %s) [sku %d]\n", p.Name, p.Price, p.Currency, p.SKU)
		}
		fmt.Println()
	}
}
