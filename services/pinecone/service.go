package pinecone

import (
	"context"
	"fmt"
	"log"
	"strings"

	"courseta/models"

	"github.com/pinecone-io/go-pinecone/v3/pinecone"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
	"google.golang.org/protobuf/types/known/structpb"
)

const materialsNamespace = "courseta-materials"

type Service struct {
	client    *pinecone.Client
	embedder  embeddings.Embedder
	indexName string
}

func NewService(apiKey, openaiAPIKey, indexName string) (*Service, error) {
	log.Printf("[INFO] Initializing Pinecone service")

	pc, err := pinecone.NewClient(pinecone.NewClientParams{
		ApiKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Pinecone client: %w", err)
	}

	llm, err := openai.New(
		openai.WithModel("gpt-4o-mini"),
		openai.WithToken(openaiAPIKey),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	service := &Service{
		client:    pc,
		embedder:  embedder,
		indexName: indexName,
	}

	log.Printf("[INFO] Pinecone service initialized successfully")
	return service, nil
}

// IndexMaterialChunks replaces all vectors for a material with fresh
// embeddings of the given chunks. Vector IDs are prefixed with the
// material ID so reindexing can find and remove stale entries.
func (s *Service) IndexMaterialChunks(materialID, courseID string, chunks []models.ParsedChunk) error {
	log.Printf("[INFO] Indexing %d chunks for material %s", len(chunks), materialID)

	ctx := context.Background()

	idxConn, err := s.indexConnection(ctx)
	if err != nil {
		return err
	}

	if err := s.deleteMaterialVectors(ctx, idxConn, materialID); err != nil {
		return fmt.Errorf("failed to delete existing vectors: %w", err)
	}

	for i, chunk := range chunks {
		vectors, err := s.embedder.EmbedDocuments(ctx, []string{chunk.Content})
		if err != nil {
			return fmt.Errorf("failed to generate embedding for chunk %d: %w", i, err)
		}

		metadata, err := structpb.NewStruct(map[string]any{
			"material_id":  materialID,
			"course_id":    courseID,
			"chunk_index":  i,
			"source_label": chunk.SourceLabel,
			"content":      chunk.Content,
		})
		if err != nil {
			return fmt.Errorf("failed to create metadata struct for chunk %d: %w", i, err)
		}

		vector := &pinecone.Vector{
			Id:       fmt.Sprintf("material_%s_chunk_%d", materialID, i),
			Values:   &vectors[0],
			Metadata: metadata,
		}

		if _, err := idxConn.UpsertVectors(ctx, []*pinecone.Vector{vector}); err != nil {
			return fmt.Errorf("failed to upsert chunk %d: %w", i, err)
		}
	}

	log.Printf("[INFO] Successfully indexed %d chunks for material %s", len(chunks), materialID)
	return nil
}

// QueryCourseChunks retrieves the most relevant material chunks for a
// query, scoped to a single course.
func (s *Service) QueryCourseChunks(courseID, query string, limit int) ([]string, error) {
	log.Printf("[INFO] Querying material chunks for course %s with limit %d", courseID, limit)

	ctx := context.Background()

	idxConn, err := s.indexConnection(ctx)
	if err != nil {
		return nil, err
	}

	queryEmbeddings, err := s.embedder.EmbedDocuments(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to generate query embedding: %w", err)
	}

	filter, err := structpb.NewStruct(map[string]any{
		"course_id": courseID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metadata filter: %w", err)
	}

	result, err := idxConn.QueryByVectorValues(ctx, &pinecone.QueryByVectorValuesRequest{
		Vector:          queryEmbeddings[0],
		TopK:            uint32(limit),
		MetadataFilter:  filter,
		IncludeValues:   false,
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query vectors: %w", err)
	}

	chunks := make([]string, 0, len(result.Matches))
	for _, match := range result.Matches {
		if match.Vector.Metadata == nil {
			continue
		}
		metadata := match.Vector.Metadata.AsMap()

		content, ok := metadata["content"].(string)
		if !ok || content == "" {
			continue
		}

		if label, ok := metadata["source_label"].(string); ok && label != "" {
			content = fmt.Sprintf("[%s]\n%s", label, content)
		}
		chunks = append(chunks, content)
	}

	if len(chunks) == 0 {
		log.Printf("[WARN] No chunks found for course %s", courseID)
		return []string{}, nil
	}

	log.Printf("[INFO] Retrieved %d chunks for course %s", len(chunks), courseID)
	return chunks, nil
}

// DeleteMaterialVectors removes all vectors belonging to a material,
// used when the material itself is deleted.
func (s *Service) DeleteMaterialVectors(materialID string) error {
	ctx := context.Background()

	idxConn, err := s.indexConnection(ctx)
	if err != nil {
		return err
	}

	return s.deleteMaterialVectors(ctx, idxConn, materialID)
}

func (s *Service) indexConnection(ctx context.Context) (*pinecone.IndexConnection, error) {
	idxDesc, err := s.client.DescribeIndex(ctx, s.indexName)
	if err != nil {
		return nil, fmt.Errorf("failed to describe index: %w", err)
	}

	idxConn, err := s.client.Index(pinecone.NewIndexConnParams{
		Host:      idxDesc.Host,
		Namespace: materialsNamespace,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create index connection: %w", err)
	}

	return idxConn, nil
}

func (s *Service) deleteMaterialVectors(ctx context.Context, idxConn *pinecone.IndexConnection, materialID string) error {
	prefix := fmt.Sprintf("material_%s_", materialID)
	limit := uint32(100)

	listResp, err := idxConn.ListVectors(ctx, &pinecone.ListVectorsRequest{
		Prefix: &prefix,
		Limit:  &limit,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Namespace not found") {
			return nil
		}
		return fmt.Errorf("failed to list vectors: %w", err)
	}

	for len(listResp.VectorIds) > 0 {
		vectorIDs := make([]string, 0, len(listResp.VectorIds))
		for _, vectorID := range listResp.VectorIds {
			if vectorID != nil {
				vectorIDs = append(vectorIDs, *vectorID)
			}
		}

		if len(vectorIDs) > 0 {
			if err := idxConn.DeleteVectorsById(ctx, vectorIDs); err != nil {
				return fmt.Errorf("failed to delete vector batch: %w", err)
			}
			log.Printf("[INFO] Deleted %d vectors for material %s", len(vectorIDs), materialID)
		}

		if listResp.NextPaginationToken == nil {
			break
		}
		listResp, err = idxConn.ListVectors(ctx, &pinecone.ListVectorsRequest{
			Prefix:          &prefix,
			Limit:           &limit,
			PaginationToken: listResp.NextPaginationToken,
		})
		if err != nil {
			return fmt.Errorf("failed to list next batch of vectors: %w", err)
		}
	}

	return nil
}
