package chunker

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	slideNameRegex = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)
	slideTextRegex = regexp.MustCompile(`(?s)<a:t>(.*?)</a:t>`)
	docxTextRegex  = regexp.MustCompile(`(?s)<w:t[^>]*>(.*?)</w:t>`)
	docxParaRegex  = regexp.MustCompile(`</w:p>`)
	xmlTagRegex    = regexp.MustCompile(`<[^>]+>`)
)

// ExtractText pulls raw text out of an uploaded file buffer. Plain
// text formats pass through; unrecognized format tags are treated as
// plain text.
func ExtractText(data []byte, fileType string) (string, error) {
	switch fileType {
	case "pdf":
		return extractPdf(data)
	case "docx":
		return extractDocx(data)
	case "pptx":
		return extractPptx(data)
	default:
		return string(data), nil
	}
}

// GetFileType maps a file name to a supported format tag, or "" when
// the extension is unsupported.
func GetFileType(fileName string) string {
	idx := strings.LastIndex(fileName, ".")
	if idx < 0 {
		return ""
	}
	ext := strings.ToLower(fileName[idx+1:])
	switch ext {
	case "pdf", "docx", "pptx", "txt", "md", "tex":
		return ext
	}
	return ""
}

// extractPdf shells out to pdftotext, which separates pages with form
// feeds. Those markers are exactly what the paginated chunking
// strategy splits on.
func extractPdf(data []byte) (string, error) {
	cmd := exec.Command("pdftotext", "-layout", "-", "-")
	cmd.Stdin = bytes.NewReader(data)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("pdftotext failed: %v: %s", err, stderr.String())
	}

	return stdout.String(), nil
}

func extractDocx(data []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open docx archive: %w", err)
	}

	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}
		content, err := readZipFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read document.xml: %w", err)
		}

		content = docxParaRegex.ReplaceAllString(content, "\n")
		var text strings.Builder
		for _, match := range docxTextRegex.FindAllStringSubmatch(content, -1) {
			text.WriteString(xmlTagRegex.ReplaceAllString(match[1], ""))
			text.WriteString(" ")
		}
		return strings.TrimSpace(text.String()), nil
	}

	return "", fmt.Errorf("docx archive has no word/document.xml")
}

// extractPptx reads the slide XML files inside the pptx zip in slide
// order and joins the <a:t> text runs.
func extractPptx(data []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pptx archive: %w", err)
	}

	type slide struct {
		num  int
		file *zip.File
	}

	var slides []slide
	for _, file := range reader.File {
		match := slideNameRegex.FindStringSubmatch(file.Name)
		if match == nil {
			continue
		}
		num, _ := strconv.Atoi(match[1])
		slides = append(slides, slide{num: num, file: file})
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].num < slides[j].num })

	var texts []string
	for _, s := range slides {
		content, err := readZipFile(s.file)
		if err != nil {
			return "", fmt.Errorf("failed to read slide %d: %w", s.num, err)
		}

		var runs []string
		for _, match := range slideTextRegex.FindAllStringSubmatch(content, -1) {
			runs = append(runs, match[1])
		}
		if len(runs) > 0 {
			texts = append(texts, strings.Join(runs, " "))
		}
	}

	return strings.Join(texts, "\n\n"), nil
}

func readZipFile(file *zip.File) (string, error) {
	rc, err := file.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return string(content), nil
}
