package agent

import (
	"fmt"
	"strings"

	"BizEdu-Agent/internal/knowledge"
)

const tutorSystemPrompt = "You are an experienced business school instructor. " +
	"Explain business ideas precisely, ground them in practice, and adapt depth to the student's level."

const digestInstruction = `Respond with a single JSON object of the form
{"title": "<short title>", "summary": "<three to five sentence summary>", "keywords": ["<keyword>", "..."]}.`

const artifactInstruction = `Respond with a single JSON object of the form
{"files": {"<relative file name>": "<complete file content>"}}. Include every file needed to run the result.`

func conceptPrompt(content, category string, learning LearningContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Study the following %s material and prepare a learning digest.\n", category)
	writeLearningContext(&b, learning)
	b.WriteString("\nMaterial:\n")
	b.WriteString(content)
	b.WriteString("\n\n")
	b.WriteString(digestInstruction)
	return b.String()
}

func caseStudyPrompt(content string, opts CaseStudyOptions) string {
	var b strings.Builder
	b.WriteString("Analyse the following business case study and prepare a learning digest.\n")
	if opts.Company != "" {
		fmt.Fprintf(&b, "Company: %s\n", opts.Company)
	}
	if opts.Industry != "" {
		fmt.Fprintf(&b, "Industry: %s\n", opts.Industry)
	}
	if len(opts.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n", strings.Join(opts.Tags, ", "))
	}
	b.WriteString("\nCase:\n")
	b.WriteString(content)
	b.WriteString("\n\n")
	b.WriteString(digestInstruction)
	return b.String()
}

func summaryPrompt(query string, sources []knowledge.Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a concise study summary answering: %s\n", query)
	b.WriteString("Use only the numbered sources below and cite them as [n].\n")
	for i, item := range sources {
		text := item.Summary
		if text == "" {
			text = item.Content
		}
		fmt.Fprintf(&b, "\n[%d] %s (%s)\n%s\n", i+1, item.Title, item.Category, text)
	}
	return b.String()
}

func toolPrompt(req ToolRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Build a business tool named %q.\n", req.Name)
	if req.Description != "" {
		fmt.Fprintf(&b, "Purpose: %s\n", req.Description)
	}
	if req.Category != "" {
		fmt.Fprintf(&b, "Domain: %s\n", req.Category)
	}
	language := req.Language
	if language == "" {
		language = "Python"
	}
	fmt.Fprintf(&b, "Language: %s\n", language)
	writeList(&b, "Requirements", req.Requirements)
	b.WriteString("\n")
	b.WriteString(artifactInstruction)
	return b.String()
}

func simulationPrompt(req SimulationRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Design an interactive business simulation for the scenario %q.\n", req.Scenario)
	if req.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", req.Description)
	}
	if req.Difficulty != "" {
		fmt.Fprintf(&b, "Difficulty: %s\n", req.Difficulty)
	}
	writeList(&b, "Learning objectives", req.Objectives)
	writeList(&b, "Decision variables", req.Variables)
	b.WriteString("\n")
	b.WriteString(artifactInstruction)
	return b.String()
}

func writeLearningContext(b *strings.Builder, learning LearningContext) {
	if learning.StudentLevel != "" {
		fmt.Fprintf(b, "Student level: %s\n", learning.StudentLevel)
	}
	if learning.FocusArea != "" {
		fmt.Fprintf(b, "Focus area: %s\n", learning.FocusArea)
	}
	writeList(b, "Learning objectives", learning.LearningObjectives)
	fmt.Fprintf(b, "Current progress: %d%%\n", learning.CurrentProgress)
}

func writeList(b *strings.Builder, title string, values []string) {
	if len(values) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n", title)
	for _, value := range values {
		fmt.Fprintf(b, "- %s\n", value)
	}
}
