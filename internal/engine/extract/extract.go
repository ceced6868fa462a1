package extract

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/akolanti/DocGateway/internal/domain/docModel"
	"github.com/google/uuid"
)

type Page struct {
	Number  int
	Content string
}

// Chunk is the unit upserted into the vector index. The payload fields let
// retrieval attribute a passage back to its source document.
type Chunk struct {
	ChunkId      string
	DocumentId   string
	DocumentName string
	StorageKey   string
	Content      string
	PageNum      int
	PageOrder    int
}

// File extracts pages from a local file based on its extension.
func File(path string) ([]Page, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return extractPDF(path)
	case ".docx", ".doc", ".txt", ".md", ".csv", ".json", ".rtf":
		return extractPlainish(path)
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", filepath.Ext(path))
	}
}

func BuildChunks(doc docModel.Document, pages []Page) []Chunk {
	var allChunks []Chunk

	// Limits for the splitter
	const maxChunkSize = 1000 // characters
	const overlap = 150       // generous overlap helps semantic continuity

	for _, page := range pages {
		stringChunks := splitTextIntoChunks(page.Content, maxChunkSize, overlap)

		for i, text := range stringChunks {
			allChunks = append(allChunks, Chunk{
				ChunkId:      uuid.New().String(),
				DocumentId:   doc.Id,
				DocumentName: doc.OriginalFilename,
				StorageKey:   doc.StorageKey,
				Content:      text,
				PageNum:      page.Number,
				PageOrder:    i,
			})
		}
	}

	return allChunks
}

func splitTextIntoChunks(text string, limit int, overlap int) []string {
	var chunks []string

	if len(text) <= limit {
		return []string{text}
	}

	// Separators ordered from "best" to "worst" for semantic meaning
	separators := []string{"\n\n", "\n", ". ", " ", ""}

	var splitChar string
	found := false
	for _, s := range separators {
		if strings.Contains(text, s) {
			splitChar = s
			found = true
			break
		}
	}

	if !found {
		// Hard cut if no separator found (rare)
		return []string{text[:limit]}
	}

	parts := strings.Split(text, splitChar)
	var currentChunk strings.Builder

	for _, part := range parts {
		if currentChunk.Len()+len(part)+len(splitChar) > limit {
			if currentChunk.Len() > 0 {
				chunks = append(chunks, currentChunk.String())
			}

			// Start the next chunk with the tail of the previous one
			overlapContent := ""
			if currentChunk.Len() > overlap {
				overlapContent = currentChunk.String()[currentChunk.Len()-overlap:]
			}

			currentChunk.Reset()
			currentChunk.WriteString(overlapContent)
		}

		if currentChunk.Len() > 0 && splitChar != "" {
			currentChunk.WriteString(splitChar)
		}
		currentChunk.WriteString(part)
	}

	if currentChunk.Len() > 0 {
		chunks = append(chunks, currentChunk.String())
	}

	return chunks
}
