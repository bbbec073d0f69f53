package chunker

import (
	"fmt"
	"strings"
	"testing"
)

func paragraph(i, length int) string {
	prefix := fmt.Sprintf("%04d ", i)
	return prefix + strings.Repeat("x", length-len(prefix))
}

func TestChunkTextEmpty(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "empty string", text: ""},
		{name: "whitespace only", text: "  \n\n\t  "},
		{name: "null bytes only", text: "\x00\x00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := ChunkText(tt.text, "txt")
			if len(chunks) != 0 {
				t.Errorf("expected no chunks, got %d", len(chunks))
			}
		})
	}
}

func TestChunkTextSingleParagraph(t *testing.T) {
	chunks := ChunkText("A short note about recursion.", "txt")

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Content != "A short note about recursion." {
		t.Errorf("unexpected content: %q", chunks[0].Content)
	}
	if chunks[0].SourceLabel != "Part 1" {
		t.Errorf("unexpected label: %q", chunks[0].SourceLabel)
	}
}

func TestChunkParagraphsSizeBound(t *testing.T) {
	var paragraphs []string
	for i := 0; i < 40; i++ {
		paragraphs = append(paragraphs, paragraph(i, 950))
	}
	text := strings.Join(paragraphs, "\n\n")

	chunks := ChunkText(text, "txt")

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk.Content) > MaxChunkChars+OverlapChars {
			t.Errorf("chunk %d exceeds bound: %d > %d", i, len(chunk.Content), MaxChunkChars+OverlapChars)
		}
	}
}

func TestChunkParagraphsOverlap(t *testing.T) {
	var paragraphs []string
	for i := 0; i < 12; i++ {
		paragraphs = append(paragraphs, paragraph(i, 1000))
	}
	text := strings.Join(paragraphs, "\n\n")

	chunks := ChunkText(text, "txt")

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1].Content
		seed := prev
		if len(seed) > OverlapChars {
			seed = seed[len(seed)-OverlapChars:]
		}
		if !strings.HasPrefix(chunks[i].Content, seed) {
			t.Errorf("chunk %d does not start with the previous chunk's tail", i)
		}
	}
}

func TestChunkParagraphsReconstruction(t *testing.T) {
	var paragraphs []string
	for i := 0; i < 12; i++ {
		paragraphs = append(paragraphs, paragraph(i, 1000))
	}
	text := strings.Join(paragraphs, "\n\n")

	chunks := ChunkText(text, "txt")

	var parts []string
	for i, chunk := range chunks {
		content := chunk.Content
		if i > 0 {
			prev := chunks[i-1].Content
			seedLen := OverlapChars
			if len(prev) < seedLen {
				seedLen = len(prev)
			}
			content = content[seedLen:]
		}
		parts = append(parts, content)
	}

	if got := strings.Join(parts, "\n\n"); got != text {
		t.Errorf("concatenation of de-overlapped chunks does not reproduce input (got %d chars, want %d)", len(got), len(text))
	}
}

func TestChunkParagraphsOversizedParagraph(t *testing.T) {
	big := strings.Repeat("y", 3*MaxChunkChars)
	text := "intro paragraph\n\n" + big + "\n\noutro paragraph"

	chunks := ChunkText(text, "txt")

	if len(chunks) < 4 {
		t.Fatalf("expected the oversized paragraph to be window-split, got %d chunks", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk.Content) > MaxChunkChars+OverlapChars {
			t.Errorf("chunk %d exceeds bound: %d", i, len(chunk.Content))
		}
	}
	if chunks[0].Content != "intro paragraph" {
		t.Errorf("expected the buffer flushed before the oversized paragraph, got %q", chunks[0].Content)
	}
}

func TestChunkPdfPages(t *testing.T) {
	text := "First page content.\fSecond page content.\f\fFourth page content."

	chunks := ChunkText(text, "pdf")

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks (empty page skipped), got %d", len(chunks))
	}

	expectedLabels := []string{"Page 1", "Page 2", "Page 4"}
	for i, label := range expectedLabels {
		if chunks[i].SourceLabel != label {
			t.Errorf("chunk %d: expected label %q, got %q", i, label, chunks[i].SourceLabel)
		}
	}
	if chunks[0].Content != "First page content." {
		t.Errorf("unexpected page content: %q", chunks[0].Content)
	}
}

func TestChunkPdfOversizedPage(t *testing.T) {
	text := "small page\f" + strings.Repeat("z", 2*MaxChunkChars)

	chunks := ChunkText(text, "pdf")

	if len(chunks) < 3 {
		t.Fatalf("expected oversized page sub-split, got %d chunks", len(chunks))
	}
	if chunks[0].SourceLabel != "Page 1" {
		t.Errorf("unexpected label: %q", chunks[0].SourceLabel)
	}
	if chunks[1].SourceLabel != "Page 2 (part 1)" {
		t.Errorf("unexpected label: %q", chunks[1].SourceLabel)
	}
	if chunks[2].SourceLabel != "Page 2 (part 2)" {
		t.Errorf("unexpected label: %q", chunks[2].SourceLabel)
	}
	for i, chunk := range chunks {
		if len(chunk.Content) > MaxChunkChars+OverlapChars {
			t.Errorf("chunk %d exceeds bound: %d", i, len(chunk.Content))
		}
	}
}

func TestChunkPdfNoPageMarkers(t *testing.T) {
	chunks := ChunkText("just one block of text without form feeds", "pdf")

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].SourceLabel != "Part 1" {
		t.Errorf("unexpected label: %q", chunks[0].SourceLabel)
	}
}

func TestChunkLatexSections(t *testing.T) {
	text := `\documentclass{article}
\begin{document}
\section{Introduction}
Welcome to the course.
\subsection{Prerequisites}
You should know basic algebra.
\section{Sorting}
Sorting orders a sequence.
\end{document}`

	chunks := ChunkText(text, "tex")

	if len(chunks) != 4 {
		t.Fatalf("expected 4 chunks (preamble + 3 sections), got %d", len(chunks))
	}

	expectedLabels := []string{
		"Section: ",
		"Section: Introduction",
		"Section: Prerequisites",
		"Section: Sorting",
	}
	for i, label := range expectedLabels {
		if chunks[i].SourceLabel != label {
			t.Errorf("chunk %d: expected label %q, got %q", i, label, chunks[i].SourceLabel)
		}
	}

	if !strings.Contains(chunks[1].Content, "Welcome to the course.") {
		t.Errorf("section content missing: %q", chunks[1].Content)
	}
	if !strings.HasPrefix(chunks[1].Content, `\section{Introduction}`) {
		t.Errorf("section should start at its heading command: %q", chunks[1].Content)
	}
}

func TestChunkLatexDuplicateHeadings(t *testing.T) {
	text := `\section{Review}
First review block.
\section{Review}
Second review block.`

	chunks := ChunkText(text, "tex")

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].SourceLabel != "Section: Review" {
		t.Errorf("unexpected label: %q", chunks[0].SourceLabel)
	}
	if chunks[1].SourceLabel != "Section: Review (2)" {
		t.Errorf("expected deduplicated label, got %q", chunks[1].SourceLabel)
	}
}

func TestChunkLatexNoSections(t *testing.T) {
	chunks := ChunkText("Plain prose without any sectioning commands.", "tex")

	if len(chunks) != 1 {
		t.Fatalf("expected paragraph fallback with 1 chunk, got %d", len(chunks))
	}
	if chunks[0].SourceLabel != "Part 1" {
		t.Errorf("unexpected label: %q", chunks[0].SourceLabel)
	}
}

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "null bytes stripped", input: "abc\x00def\x00", expected: "abcdef"},
		{name: "clean text untouched", input: "hello, wörld", expected: "hello, wörld"},
		{name: "newlines preserved", input: "a\n\nb", expected: "a\n\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeText(tt.input); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestGetFileType(t *testing.T) {
	tests := []struct {
		fileName string
		expected string
	}{
		{fileName: "syllabus.pdf", expected: "pdf"},
		{fileName: "Notes.DOCX", expected: "docx"},
		{fileName: "slides.pptx", expected: "pptx"},
		{fileName: "readme.txt", expected: "txt"},
		{fileName: "notes.md", expected: "md"},
		{fileName: "homework.tex", expected: "tex"},
		{fileName: "archive.zip", expected: ""},
		{fileName: "noextension", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.fileName, func(t *testing.T) {
			if got := GetFileType(tt.fileName); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestSplitWithOverlapWindows(t *testing.T) {
	text := strings.Repeat("a", MaxChunkChars+500)

	windows := splitWithOverlap(text)

	if len(windows) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(windows))
	}
	if len(windows[0]) != MaxChunkChars {
		t.Errorf("expected first window of %d chars, got %d", MaxChunkChars, len(windows[0]))
	}
	if len(windows[1]) != 500+OverlapChars {
		t.Errorf("expected second window of %d chars, got %d", 500+OverlapChars, len(windows[1]))
	}
}

func BenchmarkChunkParagraphs(b *testing.B) {
	var paragraphs []string
	for i := 0; i < 100; i++ {
		paragraphs = append(paragraphs, paragraph(i, 800))
	}
	text := strings.Join(paragraphs, "\n\n")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ChunkText(text, "txt")
	}
}
