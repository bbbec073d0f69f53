package chunker

import (
	"fmt"
	"log"
	"regexp"
	"strings"

	"courseta/models"
)

const (
	// MaxChunkChars bounds a chunk's content size. A chunk may exceed
	// it by at most OverlapChars when it carries an overlap seed from
	// the previous chunk.
	MaxChunkChars = 3200
	OverlapChars  = 100
)

var (
	blankLineRegex    = regexp.MustCompile(`\n\s*\n`)
	latexSectionRegex = regexp.MustCompile(`\\(?:chapter|section|subsection|subsubsection)\*?\{([^}]*)\}`)
)

// Chunk turns a raw document into an ordered sequence of labeled,
// size-bounded chunks. Unknown or corrupt input yields an empty
// sequence rather than an error; the caller decides whether "no
// extractable text" is fatal.
func Chunk(data []byte, formatHint string) []models.ParsedChunk {
	text, err := ExtractText(data, formatHint)
	if err != nil {
		log.Printf("[WARN] Text extraction failed for format %q: %v", formatHint, err)
		return []models.ParsedChunk{}
	}

	return ChunkText(text, formatHint)
}

// ChunkText chunks already-extracted text. Sanitization runs before
// any length-based splitting so offsets match what gets persisted.
func ChunkText(text, formatHint string) []models.ParsedChunk {
	text = SanitizeText(text)
	if strings.TrimSpace(text) == "" {
		return []models.ParsedChunk{}
	}

	switch formatHint {
	case "pdf":
		return chunkPaginated(text)
	case "tex":
		return chunkLatex(text)
	default:
		return chunkParagraphs(text)
	}
}

// SanitizeText strips null bytes and lone UTF-16 surrogate code
// points, which cannot round-trip through JSON or text storage.
func SanitizeText(text string) string {
	return strings.Map(func(r rune) rune {
		if r == 0 {
			return -1
		}
		if r >= 0xD800 && r <= 0xDFFF {
			return -1
		}
		return r
	}, text)
}

// chunkPaginated splits page-marked text (form feeds, as emitted by
// pdftotext) into one chunk per page, sub-splitting oversized pages.
// Text with no page markers at all falls back to whole-document
// overlap windows.
func chunkPaginated(text string) []models.ParsedChunk {
	if !strings.Contains(text, "\f") {
		var chunks []models.ParsedChunk
		for k, window := range splitWithOverlap(text) {
			chunks = append(chunks, models.ParsedChunk{
				Content:     window,
				SourceLabel: fmt.Sprintf("Part %d", k+1),
				Metadata:    map[string]any{"format": "pdf", "part": k + 1},
			})
		}
		return chunks
	}

	var chunks []models.ParsedChunk
	for i, page := range strings.Split(text, "\f") {
		pageNum := i + 1
		page = strings.TrimSpace(page)
		if page == "" {
			continue
		}

		if len(page) <= MaxChunkChars {
			chunks = append(chunks, models.ParsedChunk{
				Content:     page,
				SourceLabel: fmt.Sprintf("Page %d", pageNum),
				Metadata:    map[string]any{"format": "pdf", "page": pageNum},
			})
			continue
		}

		for k, window := range splitWithOverlap(page) {
			chunks = append(chunks, models.ParsedChunk{
				Content:     window,
				SourceLabel: fmt.Sprintf("Page %d (part %d)", pageNum, k+1),
				Metadata:    map[string]any{"format": "pdf", "page": pageNum, "part": k + 1},
			})
		}
	}

	return chunks
}

// chunkLatex splits on sectioning-command boundaries, keeping the
// heading text as the label. Content before the first heading gets an
// empty heading. Files with no sectioning commands fall back to the
// paragraph strategy.
func chunkLatex(text string) []models.ParsedChunk {
	matches := latexSectionRegex.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return chunkParagraphs(text)
	}

	type section struct {
		heading string
		content string
	}

	var sections []section
	if preamble := text[:matches[0][0]]; strings.TrimSpace(preamble) != "" {
		sections = append(sections, section{heading: "", content: preamble})
	}
	for i, m := range matches {
		heading := text[m[2]:m[3]]
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		sections = append(sections, section{heading: heading, content: text[m[0]:end]})
	}

	seen := make(map[string]int)
	var chunks []models.ParsedChunk
	for _, sec := range sections {
		content := strings.TrimSpace(sec.content)
		if content == "" {
			continue
		}

		base := "Section: " + sec.heading
		if len(content) <= MaxChunkChars {
			chunks = append(chunks, models.ParsedChunk{
				Content:     content,
				SourceLabel: uniqueLabel(seen, base),
				Metadata:    map[string]any{"format": "tex", "heading": sec.heading},
			})
			continue
		}

		for k, window := range splitWithOverlap(content) {
			chunks = append(chunks, models.ParsedChunk{
				Content:     window,
				SourceLabel: uniqueLabel(seen, fmt.Sprintf("%s (part %d)", base, k+1)),
				Metadata:    map[string]any{"format": "tex", "heading": sec.heading, "part": k + 1},
			})
		}
	}

	return chunks
}

// chunkParagraphs accumulates blank-line-separated paragraphs into a
// running buffer. When the next paragraph would push the buffer past
// MaxChunkChars the buffer is emitted and its last OverlapChars
// characters seed the next chunk, so retrieval never loses context at
// a chunk boundary. The seed is excluded from the size budget, which
// is where the MaxChunkChars+OverlapChars bound comes from.
func chunkParagraphs(text string) []models.ParsedChunk {
	paragraphs := blankLineRegex.Split(text, -1)

	var chunks []models.ParsedChunk
	var current strings.Builder
	seedLen := 0

	emit := func() {
		content := current.String()
		if strings.TrimSpace(content) == "" {
			current.Reset()
			seedLen = 0
			return
		}
		chunks = append(chunks, models.ParsedChunk{
			Content:     content,
			SourceLabel: fmt.Sprintf("Part %d", len(chunks)+1),
			Metadata:    map[string]any{"format": "text", "part": len(chunks) + 1},
		})

		seed := content
		if len(seed) > OverlapChars {
			seed = seed[len(seed)-OverlapChars:]
		}
		current.Reset()
		current.WriteString(seed)
		seedLen = len(seed)
	}

	for _, para := range paragraphs {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		// A single paragraph over the limit gets window-split on its
		// own; the buffer is flushed first to keep ordering.
		if len(para) > MaxChunkChars {
			if current.Len() > seedLen {
				emit()
			}
			current.Reset()
			seedLen = 0
			for _, window := range splitWithOverlap(para) {
				chunks = append(chunks, models.ParsedChunk{
					Content:     window,
					SourceLabel: fmt.Sprintf("Part %d", len(chunks)+1),
					Metadata:    map[string]any{"format": "text", "part": len(chunks) + 1},
				})
			}
			continue
		}

		// The seed glues directly onto the next paragraph; separators
		// only join paragraphs within the same chunk. That keeps every
		// chunk within MaxChunkChars+OverlapChars.
		sep := ""
		if current.Len() > seedLen {
			sep = "\n\n"
		}

		budget := current.Len() - seedLen
		if budget > 0 && budget+len(sep)+len(para) > MaxChunkChars {
			emit()
			sep = ""
		}

		current.WriteString(sep)
		current.WriteString(para)
	}

	if current.Len() > seedLen {
		emit()
	}

	return chunks
}

// splitWithOverlap cuts text into fixed windows of at most
// MaxChunkChars, with each window starting OverlapChars before the
// previous one ended.
func splitWithOverlap(text string) []string {
	if text == "" {
		return nil
	}

	var windows []string
	start := 0
	for {
		end := start + MaxChunkChars
		if end >= len(text) {
			windows = append(windows, text[start:])
			return windows
		}
		windows = append(windows, text[start:end])
		start = end - OverlapChars
	}
}

func uniqueLabel(seen map[string]int, label string) string {
	seen[label]++
	if seen[label] == 1 {
		return label
	}
	return fmt.Sprintf("%s (%d)", label, seen[label])
}
