package main

import (
	"encoding/json"
	"log"
	"os"

	"ai-digest-be/internal/model"
	"ai-digest-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"gorm.io/datatypes"
)

type seedItem struct {
	Title       string
	URL         string
	Summary     string
	Insights    []map[string]string
	ContentType string
	Platform    string
}

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Seeding sample content items...")

	items := []seedItem{
		{
			Title:   "The State of Vector Databases in 2026",
			URL:     "https://example.com/articles/vector-databases-2026",
			Summary: "A survey of the vector database landscape: dedicated engines versus Postgres extensions, and when each wins.",
			Insights: []map[string]string{
				{"text": "pgvector covers most workloads under ten million vectors"},
				{"text": "Hybrid retrieval beats pure semantic search on short queries"},
			},
			ContentType: "article",
			Platform:    "web",
		},
		{
			Title:   "Lex Fridman #412: AI Infrastructure Deep Dive",
			URL:     "https://example.com/podcasts/lex-412",
			Summary: "Discussion of embedding pipelines, retrieval quality, and the operational cost of running LLM features in production.",
			Insights: []map[string]string{
				{"text": "Retrieval quality matters more than model size", "timestamp": "00:42:10"},
				{"text": "Cache query embeddings, they repeat constantly", "timestamp": "01:15:33"},
			},
			ContentType: "podcast",
			Platform:    "youtube",
		},
		{
			Title:   "Why RAG Systems Fail Quietly",
			URL:     "https://example.com/videos/rag-failures",
			Summary: "Common RAG failure modes: stale embeddings, threshold misconfiguration, and context windows stuffed with noise.",
			Insights: []map[string]string{
				{"text": "Fewer, better context records beat more, worse ones"},
			},
			ContentType: "video",
			Platform:    "youtube",
		},
	}

	for _, s := range items {
		var existing model.ContentItem
		if err := db.Where("url = ?", s.URL).First(&existing).Error; err == nil {
			log.Printf("Item '%s' already exists, skipping...", s.Title)
			continue
		}

		insightsJSON, err := json.Marshal(s.Insights)
		if err != nil {
			color.Red("Error marshaling insights for '%s': %v", s.Title, err)
			continue
		}

		row := model.ContentItem{
			Title:       s.Title,
			URL:         s.URL,
			Summary:     s.Summary,
			Insights:    datatypes.JSON(insightsJSON),
			ContentType: s.ContentType,
			Platform:    s.Platform,
		}
		if err := db.Create(&row).Error; err != nil {
			color.Red("Error creating '%s': %v", s.Title, err)
		} else {
			color.Green("Created: %s", s.Title)
		}
	}

	color.Cyan("Seeding completed! Run the embed worker or POST items through the API to generate embeddings.")
}
