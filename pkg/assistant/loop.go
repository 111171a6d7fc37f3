package assistant

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/droidmind/droidmind/pkg/bus"
	"github.com/droidmind/droidmind/pkg/crawler"
	"github.com/droidmind/droidmind/pkg/logger"
	"github.com/droidmind/droidmind/pkg/memory"
	"github.com/droidmind/droidmind/pkg/providers"
	"github.com/droidmind/droidmind/pkg/skills"
	"github.com/droidmind/droidmind/pkg/speech"
)

const component = "assistant"

// User-visible fallback strings. External failures always resolve to one of
// these; they are never allowed to crash an interaction.
const (
	msgLLMFailure   = "核心链路连接超时，请检查网络或密钥状态。"
	msgNoAPIKey     = "未检测到系统密钥 (API_KEY)"
	msgEmptyLLM     = "内核无响应"
	msgSkillDone    = "指令已执行"
	msgSessionBusy  = "当前会话执行中，请稍候。"
	msgSyncComplete = "同步完成。画像特征已更新。"
	msgOrderDone    = "操作完成。"
	msgCleanupDone  = "加速完成。"
)

// Interaction is the outcome of one processed input: the spoken/displayed
// text plus the structured skill result, when a skill produced one.
type Interaction struct {
	Text   string
	Result *skills.Result
}

// Options wires the loop's collaborators. Provider and Synth are optional:
// a nil provider degrades the fallback to the missing-key message, a nil
// synthesizer disables audio.
type Options struct {
	Bus        *bus.MessageBus
	Memory     *memory.Service
	Registry   *skills.Registry
	Crawler    *crawler.Crawler
	Provider   providers.LLMProvider
	Synth      speech.Synthesizer
	LLMTimeout time.Duration
}

// Loop is the single logical thread of control per user interaction: it
// routes utterances to skills or the LLM fallback, applies renderer
// commands, and drives the speech step.
type Loop struct {
	bus        *bus.MessageBus
	memory     *memory.Service
	registry   *skills.Registry
	crawler    *crawler.Crawler
	provider   providers.LLMProvider
	synth      speech.Synthesizer
	llmTimeout time.Duration

	sm *stateMachine

	mu         sync.Mutex
	lastResult *skills.Result
}

func NewLoop(opts Options) (*Loop, error) {
	if opts.Bus == nil {
		return nil, fmt.Errorf("message bus is required")
	}
	if opts.Memory == nil {
		return nil, fmt.Errorf("memory service is required")
	}
	if opts.Registry == nil {
		opts.Registry = skills.Builtin()
	}
	if opts.Crawler == nil {
		opts.Crawler = crawler.New(0)
	}
	if opts.Synth == nil {
		opts.Synth = speech.NullSynthesizer{}
	}
	if opts.LLMTimeout <= 0 {
		opts.LLMTimeout = 30 * time.Second
	}

	return &Loop{
		bus:        opts.Bus,
		memory:     opts.Memory,
		registry:   opts.Registry,
		crawler:    opts.Crawler,
		provider:   opts.Provider,
		synth:      opts.Synth,
		llmTimeout: opts.LLMTimeout,
		sm:         newStateMachine(),
	}, nil
}

// State reports the current interaction state.
func (l *Loop) State() State {
	return l.sm.Current()
}

// BeginListening marks the start of an explicit voice trigger. Rejected
// while another interaction is in flight.
func (l *Loop) BeginListening() error {
	return l.sm.beginListening()
}

// AbortListening handles explicit stop and recognition errors: both return
// straight to idle without entering processing.
func (l *Loop) AbortListening() {
	l.sm.abortListening()
}

// Run consumes inbound messages until the context is canceled.
func (l *Loop) Run(ctx context.Context) error {
	logger.InfoCF(component, "Interaction loop started", map[string]interface{}{
		"skills": l.registry.Count(),
	})

	for {
		msg, ok := l.bus.ConsumeInbound(ctx)
		if !ok {
			return nil
		}

		interaction, err := l.Process(ctx, msg.Content)
		content := interaction.Text
		if err != nil {
			content = fmt.Sprintf("Error processing input: %v", err)
		}
		out := bus.OutboundMessage{
			Channel: msg.Channel,
			ChatID:  msg.ChatID,
			Content: content,
		}
		if interaction.Result != nil {
			out.Step = interaction.Result.Step
		}
		l.bus.PublishOutbound(out)
	}
}

// Process runs one full interaction cycle for a recognized utterance or a
// slash directive. Overlapping triggers are rejected with a busy notice
// rather than queued.
func (l *Loop) Process(ctx context.Context, input string) (Interaction, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Interaction{Text: msgSkillDone}, nil
	}

	if err := l.sm.acquire(); err != nil {
		return Interaction{Text: msgSessionBusy}, nil
	}
	defer l.sm.release()

	if text, handled := l.localQuery(ctx, input); handled {
		return Interaction{Text: text}, nil
	}

	if cmd, ok := l.parseDirective(input); ok {
		return l.applyCommand(ctx, cmd)
	}

	if _, err := l.memory.LogAction(ctx, memory.ActionUser, input, nil); err != nil {
		logger.WarnCF(component, "User action not persisted", map[string]interface{}{
			"error": err.Error(),
		})
	}

	interaction := l.route(ctx, input)
	l.speak(ctx, interaction.Text)
	return interaction, nil
}

// OnAction applies a renderer callback outside the utterance path (panel
// buttons, Discord reactions). Unrecognized commands are no-ops.
func (l *Loop) OnAction(ctx context.Context, cmd Command) (Interaction, error) {
	if err := l.sm.acquire(); err != nil {
		return Interaction{Text: msgSessionBusy}, nil
	}
	defer l.sm.release()
	return l.applyCommand(ctx, cmd)
}

func (l *Loop) route(ctx context.Context, input string) Interaction {
	if skill, ok := l.registry.Match(input); ok {
		manifest := skill.Manifest()
		logger.InfoCF(component, "Skill matched", map[string]interface{}{
			"skill": manifest.ID,
		})

		result, err := skill.Execute(ctx, input, skills.ExecContext{Profile: l.memory.Profile(ctx)})
		if err != nil || result == nil {
			if err != nil {
				logger.ErrorCF(component, "Skill execution failed", map[string]interface{}{
					"skill": manifest.ID,
					"error": err.Error(),
				})
			}
			return Interaction{Text: msgSkillDone}
		}

		l.rememberResult(result)
		text := result.Message
		if text == "" {
			text = msgSkillDone
		}
		return Interaction{Text: text, Result: result}
	}

	return Interaction{Text: l.fallback(ctx, input)}
}

// fallback defers to the external language model. The call carries an
// explicit timeout; the original shell had none, which left interactions
// hanging on a dead link.
func (l *Loop) fallback(ctx context.Context, input string) string {
	if l.provider == nil {
		return msgNoAPIKey
	}

	callCtx, cancel := context.WithTimeout(ctx, l.llmTimeout)
	defer cancel()

	text, err := l.provider.Complete(callCtx, input)
	if err != nil {
		logger.ErrorCF(component, "LLM fallback failed", map[string]interface{}{
			"provider": l.provider.Name(),
			"error":    err.Error(),
		})
		return msgLLMFailure
	}
	if text == "" {
		return msgEmptyLLM
	}
	return text
}

func (l *Loop) applyCommand(ctx context.Context, cmd Command) (Interaction, error) {
	switch c := cmd.(type) {
	case CrawlSyncCommand:
		return l.crawlSync(ctx, c)
	case PlaceOrderCommand:
		return l.placeOrder(ctx, c)
	case CleanupCommand:
		return l.cleanup(ctx, c)
	case RefreshCommand:
		return l.refresh(ctx)
	default:
		// Unrecognized callback types are deliberate no-ops.
		return Interaction{}, nil
	}
}

func (l *Loop) crawlSync(ctx context.Context, cmd CrawlSyncCommand) (Interaction, error) {
	batch, err := l.crawler.Crawl(ctx, cmd.Platform)
	if err != nil {
		return Interaction{}, fmt.Errorf("crawl %s: %w", cmd.Platform, err)
	}

	profile, err := l.memory.IngestOrders(ctx, batch.Addresses, batch.Orders)
	if err != nil {
		return Interaction{}, err
	}

	// Replay the food skill against the fresh profile so the renderer can
	// move straight from the sync guide to recommendations.
	var result *skills.Result
	if skill, ok := l.registry.Get("food_delivery"); ok {
		result, err = skill.Execute(ctx, "同步完成", skills.ExecContext{Profile: profile})
		if err != nil {
			logger.WarnCF(component, "Post-sync skill replay failed", map[string]interface{}{
				"error": err.Error(),
			})
			result = nil
		}
		l.rememberResult(result)
	}

	l.speak(ctx, msgSyncComplete)
	return Interaction{Text: msgSyncComplete, Result: result}, nil
}

func (l *Loop) placeOrder(ctx context.Context, cmd PlaceOrderCommand) (Interaction, error) {
	_, err := l.memory.LogAction(ctx, memory.ActionPlugin,
		fmt.Sprintf("订餐完成: %s", cmd.Name),
		&memory.ActionMetadata{SkillID: "food_delivery", Cuisine: cmd.Cuisine, Platform: cmd.Platform})
	if err != nil {
		return Interaction{}, err
	}

	result := &skills.Result{
		Step:    skills.StepSuccess,
		Message: fmt.Sprintf("指令下达。平台节点：%s。", cmd.Platform),
	}
	l.rememberResult(result)
	l.speak(ctx, msgOrderDone)
	return Interaction{Text: result.Message, Result: result}, nil
}

func (l *Loop) cleanup(ctx context.Context, cmd CleanupCommand) (Interaction, error) {
	_, err := l.memory.LogAction(ctx, memory.ActionPlugin,
		fmt.Sprintf("重塑资源: %s", cmd.Size),
		&memory.ActionMetadata{SkillID: "system_control", CleanupSize: cmd.Size})
	if err != nil {
		return Interaction{}, err
	}

	result := &skills.Result{
		Step:    skills.StepSuccess,
		Message: fmt.Sprintf("已清理 %s 冗余节点。", cmd.Size),
	}
	l.rememberResult(result)
	l.speak(ctx, msgCleanupDone)
	return Interaction{Text: result.Message, Result: result}, nil
}

func (l *Loop) refresh(ctx context.Context) (Interaction, error) {
	skill, ok := l.registry.Get("device_info")
	if !ok {
		return Interaction{}, nil
	}
	result, err := skill.Execute(ctx, "手动触发", skills.ExecContext{Profile: l.memory.Profile(ctx)})
	if err != nil || result == nil {
		return Interaction{Text: msgSkillDone}, nil
	}
	l.rememberResult(result)
	l.speak(ctx, result.Message)
	return Interaction{Text: result.Message, Result: result}, nil
}

// RunMaintenance is the heartbeat entry point: optionally replays a crawl
// sync, then re-runs the aggregation pass over whatever history exists.
func (l *Loop) RunMaintenance(ctx context.Context, withCrawl bool) error {
	if withCrawl {
		batch, err := l.crawler.Crawl(ctx, memory.PlatformMeituan)
		if err != nil {
			return err
		}
		if _, err := l.memory.IngestOrders(ctx, batch.Addresses, batch.Orders); err != nil {
			return err
		}
		return nil
	}

	profile := l.memory.Profile(ctx)
	memory.Reaggregate(profile)
	return l.memory.SaveProfile(ctx, profile)
}

// speak drives the speech step. Synthesis failure degrades to text-only;
// the speaking state always returns to idle via the caller's release.
func (l *Loop) speak(ctx context.Context, text string) {
	if text == "" {
		return
	}
	l.sm.speaking()

	audio, err := l.synth.Synthesize(ctx, text)
	if err != nil {
		logger.WarnCF(component, "Speech synthesis failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if len(audio) > 0 {
		logger.DebugCF(component, "Speech synthesized", map[string]interface{}{
			"bytes": len(audio),
		})
	}
}

func (l *Loop) rememberResult(result *skills.Result) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastResult = result
}

func (l *Loop) recommendationAt(index int) (skills.Recommendation, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.lastResult == nil || index < 1 || index > len(l.lastResult.Recommendations) {
		return skills.Recommendation{}, false
	}
	return l.lastResult.Recommendations[index-1], true
}

// localQuery answers renderer read-only directives without touching the
// routing path.
func (l *Loop) localQuery(ctx context.Context, input string) (string, bool) {
	switch input {
	case "/profile":
		return formatProfile(l.memory.Profile(ctx)), true
	case "/log":
		return formatActions(l.memory.Actions(ctx, 5)), true
	case "/skills":
		var b strings.Builder
		for _, m := range l.registry.Manifests() {
			fmt.Fprintf(&b, "%s (%s) - %s\n", m.Name, m.ID, m.Description)
		}
		return strings.TrimRight(b.String(), "\n"), true
	default:
		return "", false
	}
}

func formatProfile(p *memory.UserProfile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "平均消费: ¥%d\n", p.Preferences.AvgPrice)
	if len(p.Preferences.FavoriteCuisines) > 0 {
		fmt.Fprintf(&b, "偏好菜系: %s\n", strings.Join(p.Preferences.FavoriteCuisines, ", "))
	}
	for _, tag := range p.Tags {
		fmt.Fprintf(&b, "标签: %s (权重 %d, %s)\n", tag.Name, tag.Weight, tag.Trend)
	}
	for _, addr := range p.Addresses {
		fmt.Fprintf(&b, "地址: %s (%s)\n", addr.Name, addr.Address)
	}
	fmt.Fprintf(&b, "历史订单: %d", len(p.OrderHistory))
	return b.String()
}

func formatActions(actions []memory.ActionRecord) string {
	if len(actions) == 0 {
		return "暂无交互记录。"
	}
	var b strings.Builder
	for _, action := range actions {
		ts := time.UnixMilli(action.Timestamp).Format("01-02 15:04")
		fmt.Fprintf(&b, "[%s] %s: %s\n", ts, action.Kind, action.Content)
	}
	return strings.TrimRight(b.String(), "\n")
}
