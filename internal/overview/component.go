package overview

// Component 描述概览页上的一张组件卡片，Output 之后的字段均为可选。
type Component struct {
	Name        string   `json:"name" yaml:"name"`
	Icon        string   `json:"icon" yaml:"icon"`
	Description string   `json:"description" yaml:"description"`
	Example     string   `json:"example" yaml:"example"`
	Output      string   `json:"output,omitempty" yaml:"output,omitempty"`
	Features    []string `json:"features,omitempty" yaml:"features,omitempty"`
	Integration string   `json:"integration,omitempty" yaml:"integration,omitempty"`
	UseCases    []string `json:"use_cases,omitempty" yaml:"use_cases,omitempty"`
}

// DefaultComponents 返回商业教育智能体的六个组件。
func DefaultComponents() []Component {
	return []Component{
		{
			Name:        "Business Education Agent",
			Icon:        "🎓",
			Description: "Coordinates the language model, the knowledge base and learning events behind one capability interface.",
			Example: `ag := agent.New(client, repo, agent.WithPublisher(pub))
item, err := ag.LearnConcept(ctx, content, "finance", agent.LearningContext{
	StudentLevel: agent.LevelIntermediate,
	FocusArea:    "corporate finance",
})`,
			Output:      "A stored knowledge item with its generated title, summary and keywords.",
			Features:    []string{"Seven business education capabilities", "Per-call model timeout", "Prometheus metrics for every capability"},
			Integration: "OpenAI-compatible chat completions endpoint",
		},
		{
			Name:        "Knowledge Base",
			Icon:        "📚",
			Description: "Persists business concepts and case studies and retrieves them by relevance.",
			Example: `repo, err := knowledge.NewSQLRepository(ctx, knowledge.SQLConfig{DSN: dsn})
items, err := repo.Search(ctx, "net present value", 5)`,
			Output:      "Items ranked by keyword relevance, newest first on ties.",
			Features:    []string{"In-memory store with JSON Lines persistence", "MySQL store with embedded migrations", "YAML seed files"},
			Integration: "MySQL 8",
			UseCases:    []string{"Course material library", "Case study archive"},
		},
		{
			Name:        "Knowledge Summarizer",
			Icon:        "📝",
			Description: "Writes study summaries grounded in the most relevant stored items.",
			Example:     `result, err := ag.Summarize(ctx, "capital budgeting", agent.SummaryOptions{MaxSources: 5})`,
			Output:      "Summary text plus the identifiers of the cited sources in retrieval order.",
			Features:    []string{"Numbered source citations", "Configurable source count"},
			UseCases:    []string{"Exam revision notes", "Weekly learning digests"},
		},
		{
			Name:        "Business Tool Generator",
			Icon:        "🛠️",
			Description: "Generates small runnable business tools such as valuation calculators.",
			Example: `files, err := ag.GenerateTool(ctx, agent.ToolRequest{
	Name:     "DCF Valuation Calculator",
	Language: "Python",
})`,
			Output:   "A mapping of file names to file contents.",
			Features: []string{"Multi-file output", "Requirement lists", "Tolerant JSON parsing"},
			UseCases: []string{"Financial modelling exercises", "Spreadsheet replacements"},
		},
		{
			Name:        "Simulation Generator",
			Icon:        "🎮",
			Description: "Builds interactive business simulations with decision variables and objectives.",
			Example: `files, err := ag.GenerateSimulation(ctx, agent.SimulationRequest{
	Scenario:   "Market Entry Strategy",
	Difficulty: agent.LevelIntermediate,
})`,
			Output:      "A mapping of file names to file contents for the simulation.",
			Integration: "Any static web host",
			UseCases:    []string{"Classroom role plays", "Strategy workshops"},
		},
		{
			Name:        "Learning Analytics",
			Icon:        "📊",
			Description: "Summarises what has been learned and recommends the next steps.",
			Example: `snapshot, err := ag.Analytics(ctx)
export, err := ag.ExportProgress(ctx)`,
			Output:      "Item counts per category and kind, total user actions, focus areas and recommendations.",
			Features:    []string{"Rule-based recommendations", "Timestamped progress export"},
			Integration: "Redis or RabbitMQ learning event stream",
		},
	}
}
