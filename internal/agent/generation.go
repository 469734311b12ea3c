package agent

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	xerrors "BizEdu-Agent/internal/errors"
	"BizEdu-Agent/internal/events"
	"BizEdu-Agent/internal/llm"
)

// GenerateTool 让大模型生成一个商业工具的全部文件。
func (a *Agent) GenerateTool(ctx context.Context, req ToolRequest) (_ GeneratedArtifact, err error) {
	defer observe(CapabilityGenerateTool, time.Now(), &err)

	if err := a.ready(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, xerrors.New(xerrors.CodeInvalidArgument, "工具名称不能为空")
	}

	artifact, err := a.generate(ctx, toolPrompt(req))
	if err != nil {
		return nil, err
	}
	a.recordAction(ctx, CapabilityGenerateTool, req.Category, "")
	a.publish(ctx, events.Event{Type: events.TypeToolGenerated, Category: req.Category})
	return artifact, nil
}

// GenerateSimulation 让大模型生成一个商业模拟的全部文件。
func (a *Agent) GenerateSimulation(ctx context.Context, req SimulationRequest) (_ GeneratedArtifact, err error) {
	defer observe(CapabilityGenerateSimulation, time.Now(), &err)

	if err := a.ready(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Scenario) == "" {
		return nil, xerrors.New(xerrors.CodeInvalidArgument, "模拟场景不能为空")
	}
	switch req.Difficulty {
	case "", LevelBeginner, LevelIntermediate, LevelAdvanced:
	default:
		return nil, xerrors.New(xerrors.CodeInvalidArgument, "未知的模拟难度: "+string(req.Difficulty))
	}

	artifact, err := a.generate(ctx, simulationPrompt(req))
	if err != nil {
		return nil, err
	}
	a.recordAction(ctx, CapabilityGenerateSimulation, "", "")
	a.publish(ctx, events.Event{Type: events.TypeSimulationBuilt})
	return artifact, nil
}

func (a *Agent) generate(ctx context.Context, prompt string) (GeneratedArtifact, error) {
	reply, err := a.complete(ctx, llm.Request{
		System:      tutorSystemPrompt,
		Prompt:      prompt,
		Temperature: 0.2,
		JSON:        true,
	})
	if err != nil {
		return nil, err
	}
	return parseArtifact(reply)
}

// parseArtifact 解析 {"files": {...}}，忽略空文件名与空内容。
func parseArtifact(reply string) (GeneratedArtifact, error) {
	var payload struct {
		Files map[string]string `json:"files"`
	}
	if err := json.Unmarshal([]byte(extractJSON(reply)), &payload); err != nil {
		return nil, xerrors.Wrap(xerrors.CodeMalformedResponse, err, "无法解析生成的文件列表")
	}

	artifact := make(GeneratedArtifact, len(payload.Files))
	for name, content := range payload.Files {
		name = strings.TrimSpace(name)
		if name == "" || strings.TrimSpace(content) == "" {
			continue
		}
		artifact[name] = content
	}
	if len(artifact) == 0 {
		return nil, xerrors.New(xerrors.CodeMalformedResponse, "大模型未生成任何文件")
	}
	return artifact, nil
}

// extractJSON 截取回复中最外层的 JSON 对象，兼容 ```json 代码块包裹。
func extractJSON(reply string) string {
	start := strings.IndexByte(reply, '{')
	end := strings.LastIndexByte(reply, '}')
	if start < 0 || end <= start {
		return strings.TrimSpace(reply)
	}
	return reply[start : end+1]
}
