package models

import "fmt"

// RAGMode selects which backend retrieval pipeline answers a query
type RAGMode string

const (
	ModeNormalRAG RAGMode = "Normal-RAG" // Adaptive retrieval with category and rerank options
	ModeSelfRAG   RAGMode = "Self-RAG"   // Self-reflective retrieval, no extra options
)

// QueryCategory is the query classification hint sent in Normal-RAG mode
type QueryCategory string

const (
	CategoryAuto       QueryCategory = "Auto"
	CategoryFactual    QueryCategory = "Factual"
	CategoryAnalytical QueryCategory = "Analytical"
)

var RAGModes = []RAGMode{ModeNormalRAG, ModeSelfRAG}

var QueryCategories = []QueryCategory{CategoryAuto, CategoryFactual, CategoryAnalytical}

// ParseRAGMode accepts the wire names used by the web client
func ParseRAGMode(s string) (RAGMode, error) {
	for _, m := range RAGModes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown RAG mode %q", s)
}

func ParseQueryCategory(s string) (QueryCategory, error) {
	for _, c := range QueryCategories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown query category %q", s)
}

// Sender tags a chat turn with who produced it
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

type Turn struct {
	Key    string
	Text   string
	Sender Sender
}

// Resource is a supporting citation returned alongside an answer
type Resource struct {
	Topic     string `json:"topic"`
	Title     string `json:"title"`
	Principle string `json:"principle"`
}

// SearchResult is the decoded backend response. ResourcesValid is false
// when ResourceCollection was missing or not array-shaped.
type SearchResult struct {
	Text           string
	Resources      []Resource
	ResourcesValid bool
}

// ModeOption describes a RAG mode for the selector modal
type ModeOption struct {
	Mode        RAGMode
	Name        string
	Description string
}
