package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"courseta/config"
	"courseta/db"
	"courseta/services/chunker"
	pineconeservice "courseta/services/pinecone"

	"github.com/pinecone-io/go-pinecone/v3/pinecone"
)

// Reindexes every stored material from its extracted text. Run after
// changing the chunking strategy or pointing at a fresh Pinecone index.
func main() {
	log.Printf("[INFO] Starting material indexing process")

	cfg := config.Load()

	if cfg.DatabaseURL == "" {
		log.Fatal("[ERROR] DB_URL environment variable is required")
	}
	if cfg.PineconeAPIKey == "" {
		log.Fatal("[ERROR] PINECONE_API_KEY environment variable is required")
	}
	if cfg.OpenAIAPIKey == "" {
		log.Fatal("[ERROR] OPENAI_API_KEY environment variable is required")
	}

	materialRepo, err := db.NewPostgresMaterialRepository(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[ERROR] Failed to initialize material database: %v", err)
	}
	defer materialRepo.Close()

	courseRepo, err := db.NewPostgresCourseRepository(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[ERROR] Failed to initialize course database: %v", err)
	}
	defer courseRepo.Close()

	pc, err := pinecone.NewClient(pinecone.NewClientParams{
		ApiKey: cfg.PineconeAPIKey,
	})
	if err != nil {
		log.Fatalf("[ERROR] Failed to create Pinecone client: %v", err)
	}

	if err := ensurePineconeIndex(pc, cfg.PineconeIndexName); err != nil {
		log.Fatalf("[ERROR] Failed to ensure Pinecone index: %v", err)
	}

	indexService, err := pineconeservice.NewService(cfg.PineconeAPIKey, cfg.OpenAIAPIKey, cfg.PineconeIndexName)
	if err != nil {
		log.Fatalf("[ERROR] Failed to initialize Pinecone service: %v", err)
	}

	courses, err := courseRepo.GetAllCourses()
	if err != nil {
		log.Fatalf("[ERROR] Failed to retrieve courses: %v", err)
	}

	for _, course := range courses {
		materials, err := materialRepo.GetMaterialsByCourse(course.ID)
		if err != nil {
			log.Printf("[ERROR] Failed to retrieve materials for course %s: %v", course.ID, err)
			continue
		}

		log.Printf("[INFO] Processing %d materials for course %s (%s)", len(materials), course.Code, course.ID)

		for i, material := range materials {
			log.Printf("[INFO] Processing material %d/%d (ID: %s, file: %s)", i+1, len(materials), material.ID, material.FileName)

			if material.ExtractedText == "" {
				log.Printf("[WARN] Material %s has no extracted text, skipping", material.ID)
				continue
			}

			chunks := chunker.ChunkText(material.ExtractedText, material.FileType)
			if len(chunks) == 0 {
				log.Printf("[INFO] No chunks created for material %s", material.ID)
				continue
			}

			if err := materialRepo.ReplaceChunks(material.ID, material.CourseID, chunks); err != nil {
				log.Printf("[ERROR] Failed to store chunks for material %s: %v", material.ID, err)
				continue
			}

			if err := indexService.IndexMaterialChunks(material.ID, material.CourseID, chunks); err != nil {
				log.Printf("[ERROR] Failed to index material %s: %v", material.ID, err)
				continue
			}

			log.Printf("[INFO] Successfully indexed material %s (%d chunks)", material.ID, len(chunks))
		}
	}

	log.Printf("[INFO] Material indexing process completed successfully")
}

func ensurePineconeIndex(pc *pinecone.Client, indexName string) error {
	ctx := context.Background()

	indexes, err := pc.ListIndexes(ctx)
	if err != nil {
		return fmt.Errorf("failed to list indexes: %w", err)
	}

	for _, idx := range indexes {
		if idx.Name == indexName {
			log.Printf("[INFO] Index %s already exists", indexName)
			return nil
		}
	}

	log.Printf("[INFO] Creating Pinecone index: %s", indexName)
	dimension := int32(1536) // OpenAI ada-002 embedding dimension
	deletionProtection := pinecone.DeletionProtectionDisabled
	metric := pinecone.Cosine

	_, err = pc.CreateServerlessIndex(ctx, &pinecone.CreateServerlessIndexRequest{
		Name:               indexName,
		Dimension:          &dimension,
		Metric:             &metric,
		Cloud:              pinecone.Aws,
		Region:             "us-east-1",
		DeletionProtection: &deletionProtection,
		Tags:               &pinecone.IndexTags{"environment": "development", "project": "courseta-indexing"},
	})
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	for {
		idx, err := pc.DescribeIndex(ctx, indexName)
		if err != nil {
			return fmt.Errorf("failed to describe index: %w", err)
		}
		if idx.Status.Ready {
			log.Printf("[INFO] Index %s is ready", indexName)
			break
		}
		log.Printf("[INFO] Waiting for index %s to be ready...", indexName)
		time.Sleep(10 * time.Second)
	}

	return nil
}
