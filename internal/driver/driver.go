package driver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"BizEdu-Agent/internal/agent"
	xerrors "BizEdu-Agent/internal/errors"
	"BizEdu-Agent/internal/observability/alerting"
	"BizEdu-Agent/pkg/logger"
)

// Version 是演示驱动报告的系统版本。
const Version = "1.0.0"

const (
	defaultIntegrationDelay = time.Second
	defaultHeartbeat        = 15 * time.Second
)

// IntegrationPoints 是集成阶段依次模拟握手的外部系统。
var IntegrationPoints = []string{
	"Learning Management System",
	"Student Information System",
	"Assessment Platform",
	"Analytics Dashboard",
	"Content Repository",
}

// 关闭时输出的固定提示。
var shutdownLines = []string{
	"🛑 Shutting down Business Education Agent...",
	"💾 Saving learning progress...",
	"🔌 Closing integrations...",
	"👋 Goodbye!",
}

// Factory 构造演示使用的智能体。
type Factory func(ctx context.Context) (agent.Capabilities, error)

// SystemStatus 是演示结束后报告的静态状态。
type SystemStatus struct {
	AgentInitialized  bool     `json:"agent_initialized"`
	Capabilities      []string `json:"capabilities"`
	IntegrationPoints []string `json:"integration_points"`
	Model             string   `json:"model"`
	Version           string   `json:"version"`
}

// state 是驱动独占的运行状态，只在驱动所在的 goroutine 中读写。
type state struct {
	agent       agent.Capabilities
	initialized bool
}

// Driver 依次执行初始化、能力演示、集成与学习循环。
type Driver struct {
	factory          Factory
	out              io.Writer
	log              *slog.Logger
	alerts           alerting.Dispatcher
	model            string
	integrationDelay time.Duration
	heartbeat        time.Duration
	sleep            func(ctx context.Context, d time.Duration) error
	state            state
}

// Option 定义可选的 Driver 配置。
type Option func(*Driver)

// WithOutput 设置控制台叙述的输出位置，默认 stdout。
func WithOutput(w io.Writer) Option {
	return func(d *Driver) {
		if w != nil {
			d.out = w
		}
	}
}

// WithModel 设置状态报告中的模型名称。
func WithModel(model string) Option {
	return func(d *Driver) {
		d.model = model
	}
}

// WithIntegrationDelay 设置每个集成点之前的等待时间。
func WithIntegrationDelay(delay time.Duration) Option {
	return func(d *Driver) {
		if delay >= 0 {
			d.integrationDelay = delay
		}
	}
}

// WithHeartbeat 设置学习循环的间隔。
func WithHeartbeat(interval time.Duration) Option {
	return func(d *Driver) {
		if interval > 0 {
			d.heartbeat = interval
		}
	}
}

// WithAlerts 配置失败告警的分发器。
func WithAlerts(dispatcher alerting.Dispatcher) Option {
	return func(d *Driver) {
		d.alerts = dispatcher
	}
}

// New 创建演示驱动。
func New(factory Factory, opts ...Option) *Driver {
	d := &Driver{
		factory:          factory,
		out:              os.Stdout,
		log:              logger.Named("driver"),
		integrationDelay: defaultIntegrationDelay,
		heartbeat:        defaultHeartbeat,
		sleep:            sleepContext,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Run 执行完整的演示流程并返回进程退出码。
func (d *Driver) Run(ctx context.Context) int {
	if err := d.Initialize(ctx); err != nil {
		if ctx.Err() != nil {
			d.Shutdown()
			return 0
		}
		return d.fail(ctx, alerting.StageInitialization, err)
	}

	_ = d.Demonstrate(ctx)
	if ctx.Err() != nil {
		d.Shutdown()
		return 0
	}

	if err := d.Integrate(ctx); err != nil {
		if ctx.Err() != nil {
			d.Shutdown()
			return 0
		}
		return d.fail(ctx, alerting.StageIntegration, err)
	}

	d.PrintStatus()
	_ = d.LearningCycle(ctx)
	d.Shutdown()
	return 0
}

// Initialize 构造智能体，成功后状态中的 initialized 才为 true。
func (d *Driver) Initialize(ctx context.Context) error {
	d.say("🚀 Initializing Business Education Agent...")
	if d.factory == nil {
		return xerrors.New(xerrors.CodeInitializationFailure, "未配置智能体构造函数")
	}
	ag, err := d.factory(ctx)
	if err != nil {
		return xerrors.Wrap(xerrors.CodeInitializationFailure, err, "初始化智能体失败")
	}
	if ag == nil {
		return xerrors.New(xerrors.CodeInitializationFailure, "智能体构造函数返回空实例")
	}
	d.state = state{agent: ag, initialized: true}
	d.say("✅ Business Education Agent initialized")
	d.log.Info("智能体初始化完成", slog.String("model", d.model))
	return nil
}

// step 是一个演示步骤。
type step struct {
	header string
	run    func(ctx context.Context, ag agent.Capabilities) error
}

// Demonstrate 按固定顺序调用全部能力；任一步失败会记录错误并跳过剩余步骤。
func (d *Driver) Demonstrate(ctx context.Context) error {
	if !d.state.initialized {
		return xerrors.New(xerrors.CodeInitializationFailure, "智能体尚未初始化")
	}

	d.say("")
	d.say("🎓 Demonstrating Business Education Agent capabilities")
	for _, s := range d.steps() {
		d.say("")
		d.say(s.header)
		if err := s.run(ctx, d.state.agent); err != nil {
			d.say("❌ Demonstration failed: %s", err.Error())
			d.log.Error("能力演示失败",
				slog.String("step", s.header),
				slog.String("code", string(xerrors.CodeOf(err))),
				slog.Bool("retryable", xerrors.RetryableError(err)),
				slog.String("error", err.Error()))
			d.alert(ctx, alerting.StageDemonstration, err)
			return err
		}
	}
	d.log.Info("能力演示完成")
	return nil
}

func (d *Driver) steps() []step {
	return []step{
		{header: "📚 Learning business concept...", run: d.learnConcept},
		{header: "📖 Adding case study...", run: d.addCaseStudy},
		{header: "📝 Generating knowledge summary...", run: d.summarize},
		{header: "🛠️  Generating business tool...", run: d.generateTool},
		{header: "🎮 Generating business simulation...", run: d.generateSimulation},
		{header: "📊 Fetching learning analytics...", run: d.analytics},
		{header: "💾 Exporting learning progress...", run: d.exportProgress},
	}
}

func (d *Driver) learnConcept(ctx context.Context, ag agent.Capabilities) error {
	item, err := ag.LearnConcept(ctx, sampleConcept, sampleConceptCategory, sampleLearningContext)
	if err != nil {
		return err
	}
	if item == nil {
		return emptyResult(agent.CapabilityLearnConcept)
	}
	d.say("   Learned concept %q (id: %s)", item.Title, item.ID)
	return nil
}

func (d *Driver) addCaseStudy(ctx context.Context, ag agent.Capabilities) error {
	item, err := ag.AddCaseStudy(ctx, sampleCaseStudy, sampleCaseStudyOptions)
	if err != nil {
		return err
	}
	if item == nil {
		return emptyResult(agent.CapabilityAddCaseStudy)
	}
	d.say("   Added case study %q (id: %s)", item.Title, item.ID)
	return nil
}

func (d *Driver) summarize(ctx context.Context, ag agent.Capabilities) error {
	result, err := ag.Summarize(ctx, sampleSummaryQuery, agent.SummaryOptions{})
	if err != nil {
		return err
	}
	if result == nil {
		return emptyResult(agent.CapabilitySummarize)
	}
	d.say("   Summary: %s", result.Summary)
	d.say("   Sources: %d (%s)", len(result.Sources), strings.Join(result.Sources, ", "))
	return nil
}

func (d *Driver) generateTool(ctx context.Context, ag agent.Capabilities) error {
	artifact, err := ag.GenerateTool(ctx, sampleToolRequest)
	if err != nil {
		return err
	}
	if len(artifact) == 0 {
		return emptyResult(agent.CapabilityGenerateTool)
	}
	d.sayArtifact(sampleToolRequest.Name, artifact)
	return nil
}

func (d *Driver) generateSimulation(ctx context.Context, ag agent.Capabilities) error {
	artifact, err := ag.GenerateSimulation(ctx, sampleSimulationRequest)
	if err != nil {
		return err
	}
	if len(artifact) == 0 {
		return emptyResult(agent.CapabilityGenerateSimulation)
	}
	d.sayArtifact(sampleSimulationRequest.Scenario, artifact)
	return nil
}

func (d *Driver) analytics(ctx context.Context, ag agent.Capabilities) error {
	snapshot, err := ag.Analytics(ctx)
	if err != nil {
		return err
	}
	if snapshot == nil {
		return emptyResult(agent.CapabilityAnalytics)
	}
	d.saySnapshot(snapshot)
	return nil
}

func (d *Driver) exportProgress(ctx context.Context, ag agent.Capabilities) error {
	export, err := ag.ExportProgress(ctx)
	if err != nil {
		return err
	}
	if export == nil {
		return emptyResult(agent.CapabilityExportProgress)
	}
	d.say("   Exported %d items at %s", export.Snapshot.TotalItems, export.ExportedAt.Format(time.RFC3339))
	return nil
}

// emptyResult 描述能力提供方返回了空结果且没有错误的情况。
func emptyResult(capability string) error {
	return xerrors.New(xerrors.CodeMalformedResponse, "能力提供方返回了空结果",
		xerrors.WithMetadata("capability", capability))
}

// Integrate 依次模拟五个外部系统的握手，不发起任何网络调用。
func (d *Driver) Integrate(ctx context.Context) error {
	d.say("")
	d.say("🔗 Integrating with external systems...")
	for _, name := range IntegrationPoints {
		if err := d.sleep(ctx, d.integrationDelay); err != nil {
			return err
		}
		d.say("✅ %s integrated successfully", name)
	}
	return nil
}

// Status 返回当前的系统状态。
func (d *Driver) Status() SystemStatus {
	return SystemStatus{
		AgentInitialized:  d.state.initialized,
		Capabilities:      agent.CapabilityNames(),
		IntegrationPoints: append([]string(nil), IntegrationPoints...),
		Model:             d.model,
		Version:           Version,
	}
}

// PrintStatus 将系统状态以 JSON 形式输出到控制台。
func (d *Driver) PrintStatus() {
	encoded, err := json.MarshalIndent(d.Status(), "", "  ")
	if err != nil {
		d.log.Error("序列化系统状态失败", slog.String("error", err.Error()))
		return
	}
	d.say("")
	d.say("📋 System status:")
	d.say("%s", encoded)
}

// LearningCycle 每隔 heartbeat 输出一次心跳，直到 ctx 被取消。
func (d *Driver) LearningCycle(ctx context.Context) error {
	d.say("")
	d.say("🔄 Starting continuous learning cycle (every %s, press Ctrl+C to stop)", d.heartbeat)
	ticker := time.NewTicker(d.heartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			d.say("🔄 Learning cycle: agent is ready for new material")
		}
	}
}

// Shutdown 输出固定的关闭提示。
func (d *Driver) Shutdown() {
	d.say("")
	for _, line := range shutdownLines {
		d.say("%s", line)
	}
}

func (d *Driver) fail(ctx context.Context, stage alerting.Stage, err error) int {
	d.say("❌ Fatal error during %s: %s", stage, err.Error())
	d.log.Error("演示驱动异常退出",
		slog.String("stage", string(stage)),
		slog.String("code", string(xerrors.CodeOf(err))),
		slog.Bool("retryable", xerrors.RetryableError(err)),
		slog.String("error", err.Error()))
	d.alert(ctx, stage, err)
	return 1
}

func (d *Driver) alert(ctx context.Context, stage alerting.Stage, err error) {
	if d.alerts == nil || !xerrors.ShouldAlert(err) {
		return
	}
	if notifyErr := d.alerts.Notify(context.WithoutCancel(ctx), alerting.FromError(stage, err)); notifyErr != nil {
		d.log.Warn("发送告警失败", slog.String("error", notifyErr.Error()))
	}
}

func (d *Driver) say(format string, args ...any) {
	fmt.Fprintf(d.out, format+"\n", args...)
}

func (d *Driver) sayArtifact(name string, artifact agent.GeneratedArtifact) {
	files := make([]string, 0, len(artifact))
	for file := range artifact {
		files = append(files, file)
	}
	sort.Strings(files)
	d.say("   Generated %q with %d files: %s", name, len(files), strings.Join(files, ", "))
}

func (d *Driver) saySnapshot(snapshot *agent.AnalyticsSnapshot) {
	d.say("   Total knowledge items: %d", snapshot.TotalItems)
	categories := make([]string, 0, len(snapshot.ItemsByCategory))
	for category, count := range snapshot.ItemsByCategory {
		categories = append(categories, fmt.Sprintf("%s=%d", category, count))
	}
	sort.Strings(categories)
	d.say("   Items by category: %s", strings.Join(categories, ", "))
	d.say("   Total user actions: %d", snapshot.TotalUserActions)
	d.say("   Focus areas: %s", strings.Join(snapshot.FocusAreas, ", "))
	for _, rec := range snapshot.Recommendations {
		d.say("   💡 %s", rec)
	}
}

func sleepContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
