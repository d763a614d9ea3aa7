// Package markdown extracts display names, metadata and process steps
// from Parasol Markdown files.
package markdown

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Corpus files that carry their name in the parent directory.
const (
	UseCaseFile   = "usecase.md"
	PageFile      = "page.md"
	OperationFile = "operation.md"
	APIUsageFile  = "api-usage.md"
)

var (
	// Terminal colour codes left behind when files were captured from a shell.
	ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*m`)

	// Bilingual "kind:" prefixes in headings, full-width or ASCII colon.
	titlePrefixJA = regexp.MustCompile(`^(?:ユースケース|ページ定義|ページ)\s*[：:]\s*`)
	titlePrefixEN = regexp.MustCompile(`(?i)^(?:use\s?case|page\s+definition|page)\s*[：:]\s*`)

	headingLine  = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*#*\s*$`)
	boldKeyValue = regexp.MustCompile(`^\s*(?:[-*+]\s+)?\*\*(.+?)\*\*\s*[:：]\s*(.*)$`)
	plainKeyVal  = regexp.MustCompile(`^\s*(?:[-*+]\s+)?([^:：*#|\[\]()]{1,30}?)\s*[:：]\s*(.+)$`)
	numberedItem = regexp.MustCompile(`^\s*\d+\s*[.)．）]\s*(.+)$`)
	inlineLinks  = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	inlineCode   = regexp.MustCompile("`([^`]+)`")
)

// metadataAliases maps the key spellings found in the corpus to canonical keys.
var metadataAliases = map[string]string{
	"パターン":            "pattern",
	"pattern":         "pattern",
	"カテゴリ":            "category",
	"カテゴリー":           "category",
	"category":        "category",
	"ロール":             "roles",
	"役割":              "roles",
	"roles":           "roles",
	"role":            "roles",
	"業務状態":            "business_states",
	"business states": "business_states",
	"business_states": "business_states",
	"states":          "business_states",
	"説明":              "description",
	"description":     "description",
}

// flowHeadingKeywords mark the section holding an operation's process flow.
var flowHeadingKeywords = []string{"フロー", "プロセス", "手順", "flow", "process", "steps"}

// Normalised is a corpus file after cleaning and extraction.
type Normalised struct {
	Raw         string
	Clean       string
	DisplayName string

	// Degraded is true when the file had no heading and
	// DisplayName was derived from its path.
	Degraded bool

	Metadata map[string]string
}

// Normaliser handles Markdown documents.
type Normaliser struct{}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Normalise strips escape codes and extracts the display name and metadata.
// It never fails: a file without heading falls back to its path name.
func (n *Normaliser) Normalise(path string, raw []byte) Normalised {
	rawContent := string(raw)
	clean := StripANSI(rawContent)

	name, ok := ExtractDisplayName(clean)
	if !ok {
		name = FallbackName(path)
	}

	return Normalised{
		Raw:         rawContent,
		Clean:       clean,
		DisplayName: name,
		Degraded:    !ok,
		Metadata:    ExtractMetadata(clean),
	}
}

// StripANSI removes terminal colour escape sequences.
func StripANSI(s string) string {
	if !strings.Contains(s, "\x1b") {
		return s
	}
	return ansiEscape.ReplaceAllString(s, "")
}

// ExtractDisplayName returns the first "# " heading with known kind
// prefixes removed. The boolean is false when there is no usable heading.
func ExtractDisplayName(content string) (string, bool) {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "# ") {
			continue
		}
		title := strings.TrimSpace(strings.TrimPrefix(line, "#"))
		title = StripTitlePrefix(title)
		if title == "" {
			return "", false
		}
		return title, true
	}
	return "", false
}

// StripTitlePrefix removes "ユースケース：", "ページ定義：" and their
// ASCII-colon and English variants from a title.
func StripTitlePrefix(title string) string {
	title = titlePrefixJA.ReplaceAllString(title, "")
	title = titlePrefixEN.ReplaceAllString(title, "")
	return strings.TrimSpace(title)
}

// FallbackName derives a display name from a path. Files named after
// their role (usecase.md, page.md, operation.md) take the parent
// directory name instead.
func FallbackName(path string) string {
	filename := filepath.Base(path)
	switch filename {
	case UseCaseFile, PageFile, OperationFile, APIUsageFile, "service.md", "capability.md":
		if dir := filepath.Base(filepath.Dir(path)); dir != "." && dir != string(filepath.Separator) {
			filename = dir
		}
	}
	ext := filepath.Ext(filename)
	if ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}
	return filename
}

// ExtractMetadata collects key-value lines. Bold keys ("**Key**: value")
// are always taken; plain "Key: value" lines only for known keys.
// The first occurrence of a key wins.
func ExtractMetadata(content string) map[string]string {
	meta := make(map[string]string)
	inFence := false
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}

		if m := boldKeyValue.FindStringSubmatch(line); m != nil {
			key := canonicalKey(m[1])
			value := strings.TrimSpace(m[2])
			if key != "" && value != "" {
				if _, seen := meta[key]; !seen {
					meta[key] = value
				}
			}
			continue
		}

		if m := plainKeyVal.FindStringSubmatch(line); m != nil {
			alias, known := metadataAliases[strings.ToLower(strings.TrimSpace(m[1]))]
			if !known {
				continue
			}
			if _, seen := meta[alias]; !seen {
				meta[alias] = strings.TrimSpace(m[2])
			}
		}
	}
	return meta
}

// ExtractProcessSteps returns the numbered items of the process-flow
// section(s), as plain text.
func ExtractProcessSteps(content string) []string {
	var steps []string
	inFlow := false
	for _, line := range strings.Split(content, "\n") {
		if m := headingLine.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			inFlow = isFlowHeading(m[2])
			continue
		}
		if !inFlow {
			continue
		}
		if m := numberedItem.FindStringSubmatch(line); m != nil {
			if step := InlinePlain(m[1]); step != "" {
				steps = append(steps, step)
			}
		}
	}
	return steps
}

// SplitList splits a metadata value on the separators used in the corpus.
func SplitList(value string) []string {
	fields := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == '、' || r == '，' || r == '/' || r == '・'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// InlinePlain removes inline Markdown (links, code, emphasis) from one line.
func InlinePlain(s string) string {
	s = inlineLinks.ReplaceAllString(s, "$1")
	s = inlineCode.ReplaceAllString(s, "$1")
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	return strings.TrimSpace(s)
}

func isFlowHeading(title string) bool {
	lower := strings.ToLower(title)
	for _, kw := range flowHeadingKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func canonicalKey(key string) string {
	key = strings.TrimSpace(InlinePlain(key))
	lower := strings.ToLower(key)
	if alias, ok := metadataAliases[lower]; ok {
		return alias
	}
	return strings.ReplaceAll(lower, " ", "_")
}
