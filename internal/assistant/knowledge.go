// Package assistant provides the chat model client and the static knowledge
// base backing the support assistant.
package assistant

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// KnowledgeEntry is one topic of the static knowledge base.
type KnowledgeEntry struct {
	Topic   string `yaml:"topic"`
	Content string `yaml:"content"`
}

// KnowledgeBase is the curated platform knowledge injected into every
// assistant prompt.
type KnowledgeBase struct {
	Entries []KnowledgeEntry `yaml:"entries"`
}

// LoadKnowledgeBase reads the knowledge base yaml file.
func LoadKnowledgeBase(path string) (*KnowledgeBase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge base: %w", err)
	}
	var kb KnowledgeBase
	if err := yaml.Unmarshal(data, &kb); err != nil {
		return nil, fmt.Errorf("failed to parse knowledge base: %w", err)
	}
	return &kb, nil
}

// Render flattens the knowledge base into prompt text.
func (kb *KnowledgeBase) Render() string {
	var b strings.Builder
	for _, e := range kb.Entries {
		b.WriteString("## ")
		b.WriteString(e.Topic)
		b.WriteString("\n")
		b.WriteString(e.Content)
		b.WriteString("\n\n")
	}
	return b.String()
}
