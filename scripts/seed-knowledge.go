// Seeds or updates context sections from a JSON file, replacing the
// defaults installed by the migrations.
//
// Usage: go run scripts/seed-knowledge.go <sections-file.json>
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type SectionsFile struct {
	Sections []Section `json:"sections"`
}

type Section struct {
	Section      string `json:"section"`
	Title        string `json:"title"`
	Content      string `json:"content"`
	DisplayOrder int    `json:"display_order"`
	IsActive     *bool  `json:"is_active,omitempty"`
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run scripts/seed-knowledge.go <sections-file.json>")
		os.Exit(1)
	}

	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if databaseURL == "" {
		fmt.Println("DATABASE_URL is required")
		os.Exit(1)
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Printf("read file: %v\n", err)
		os.Exit(1)
	}

	var file SectionsFile
	if err := json.Unmarshal(data, &file); err != nil {
		fmt.Printf("parse JSON: %v\n", err)
		os.Exit(1)
	}
	if len(file.Sections) == 0 {
		fmt.Println("no sections in file, nothing to do")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		fmt.Printf("connect: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	for _, sec := range file.Sections {
		active := true
		if sec.IsActive != nil {
			active = *sec.IsActive
		}
		_, err := pool.Exec(ctx, `
			INSERT INTO context_sections (section, title, content, display_order, is_active, updated_at)
			VALUES ($1, $2, $3, $4, $5, now())
			ON CONFLICT (section) DO UPDATE
			SET title = EXCLUDED.title, content = EXCLUDED.content,
			    display_order = EXCLUDED.display_order, is_active = EXCLUDED.is_active,
			    updated_at = now()`,
			sec.Section, sec.Title, sec.Content, sec.DisplayOrder, active)
		if err != nil {
			fmt.Printf("upsert %s: %v\n", sec.Section, err)
			os.Exit(1)
		}
		fmt.Printf("seeded section %s (%s)\n", sec.Section, sec.Title)
	}

	fmt.Printf("done, %d sections seeded\n", len(file.Sections))
}
