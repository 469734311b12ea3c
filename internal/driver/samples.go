package driver

import "BizEdu-Agent/internal/agent"

// 演示阶段使用的固定输入。
const (
	sampleConceptCategory = "finance"
	sampleConcept         = `Net Present Value (NPV) measures the value a project creates today.
It discounts every expected future cash flow at the firm's cost of capital and subtracts the
initial investment. A positive NPV means the project is expected to earn more than its
cost of capital and should be accepted in capital budgeting decisions; a negative NPV
destroys shareholder value.`

	sampleCaseStudy = `In 2007 a DVD rental company with a profitable mail-order business began
streaming films over the internet. Management accepted years of cannibalised DVD revenue,
invested heavily in licensing and later in original content, and moved every subscriber to a
monthly plan. The pivot turned a logistics business into a global media platform.`

	sampleSummaryQuery = "net present value and capital budgeting decisions"
)

var (
	sampleLearningContext = agent.LearningContext{
		StudentLevel:       agent.LevelIntermediate,
		FocusArea:          "corporate finance",
		LearningObjectives: []string{"Explain the time value of money", "Evaluate projects with NPV"},
		CurrentProgress:    35,
	}

	sampleCaseStudyOptions = agent.CaseStudyOptions{
		Company:  "Netflix",
		Industry: "media & entertainment",
		Category: "strategy",
		Tags:     []string{"business model pivot", "digital transformation"},
	}

	sampleToolRequest = agent.ToolRequest{
		Name:        "DCF Valuation Calculator",
		Description: "Estimate enterprise value from projected free cash flows",
		Category:    "finance",
		Language:    "Python",
		Requirements: []string{
			"Accept five years of free cash flow projections",
			"Apply a terminal growth rate and a discount rate",
			"Print the present value of each year and the total",
		},
	}

	sampleSimulationRequest = agent.SimulationRequest{
		Scenario:    "Market Entry Strategy",
		Description: "Decide how a mid-sized coffee chain should enter a new country",
		Difficulty:  agent.LevelIntermediate,
		Objectives:  []string{"Compare entry modes", "Balance risk against expected return"},
		Variables:   []string{"entry mode", "pricing", "marketing budget"},
	}
)
