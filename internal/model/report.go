package model

import "time"

// Report is the rendered view of one loaded dataset
type Report struct {
	Source      string      `json:"source"`       // Where the dataset was loaded from
	GeneratedAt time.Time   `json:"generated_at"` // When the report was built
	Summary     Summary     `json:"summary"`
	Causes      []CauseStat `json:"causes"`
	Columns     []string    `json:"columns,omitempty"` // Header columns as read from the source

	Narrative *Narrative `json:"narrative,omitempty"` // Optional LLM narrative, never affects numbers
}

// Narrative contains an optional LLM-generated description of the statistics
type Narrative struct {
	Enabled  bool     `json:"enabled"`
	Provider string   `json:"provider,omitempty"`
	Model    string   `json:"model,omitempty"`
	Text     string   `json:"text,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}
