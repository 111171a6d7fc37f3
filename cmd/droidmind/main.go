package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/droidmind/droidmind/pkg/assistant"
	"github.com/droidmind/droidmind/pkg/bus"
	"github.com/droidmind/droidmind/pkg/channels"
	"github.com/droidmind/droidmind/pkg/config"
	"github.com/droidmind/droidmind/pkg/crawler"
	"github.com/droidmind/droidmind/pkg/heartbeat"
	"github.com/droidmind/droidmind/pkg/logger"
	"github.com/droidmind/droidmind/pkg/memory"
	"github.com/droidmind/droidmind/pkg/providers"
	"github.com/droidmind/droidmind/pkg/speech"
)

var (
	version   = "dev"
	gitCommit string
	buildTime string
	goVersion string
)

const appName = "droidmind"

func formatVersion() string {
	v := version
	if gitCommit != "" {
		v += fmt.Sprintf(" (git: %s)", gitCommit)
	}
	return v
}

func formatBuildInfo() (build string, goVer string) {
	if buildTime != "" {
		build = buildTime
	}
	goVer = goVersion
	if goVer == "" {
		goVer = runtime.Version()
	}
	return
}

func printVersion() {
	fmt.Printf("%s %s\n", appName, formatVersion())
	build, goVer := formatBuildInfo()
	if build != "" {
		fmt.Printf("  Build: %s\n", build)
	}
	if goVer != "" {
		fmt.Printf("  Go: %s\n", goVer)
	}
}

func main() {
	if err := executeCLI(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func getConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".droidmind", "config.json")
}

func loadConfig() (*config.Config, error) {
	return config.LoadConfig(getConfigPath())
}

func memoryDBPath(cfg *config.Config) string {
	return filepath.Join(cfg.WorkspacePath(), "state", "memory.db")
}

// runtime bundles everything one interactive or gateway session needs.
type appRuntime struct {
	cfg    *config.Config
	bus    *bus.MessageBus
	memory *memory.Service
	loop   *assistant.Loop
}

// buildRuntime assembles the memory service and interaction loop. A missing
// or broken provider is not fatal: the loop degrades to its no-key message
// and skills keep working offline.
func buildRuntime(cfg *config.Config) (*appRuntime, error) {
	store, err := memory.NewSQLiteStore(memoryDBPath(cfg))
	if err != nil {
		return nil, fmt.Errorf("open memory store: %w", err)
	}

	memService := memory.NewService(store, memory.Config{
		MaxActionHistory:    cfg.Memory.MaxActionHistory,
		MaxOrderHistory:     cfg.Memory.MaxOrderHistory,
		MaxFavoriteCuisines: cfg.Memory.MaxFavoriteCuisines,
	})

	var provider providers.LLMProvider
	if p, err := providers.CreateProvider(cfg); err != nil {
		logger.WarnCF("main", "LLM provider unavailable", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		provider = p
	}

	var synth speech.Synthesizer
	if cfg.Speech.Enabled {
		tts, err := speech.NewGeminiTTS(cfg.Providers.Gemini, cfg.Speech)
		if err != nil {
			logger.WarnCF("main", "Speech synthesis unavailable", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			synth = tts
		}
	}

	msgBus := bus.NewMessageBus()
	loop, err := assistant.NewLoop(assistant.Options{
		Bus:        msgBus,
		Memory:     memService,
		Crawler:    crawler.New(time.Duration(cfg.Memory.CrawlDelayMS) * time.Millisecond),
		Provider:   provider,
		Synth:      synth,
		LLMTimeout: time.Duration(cfg.Assistant.LLMTimeoutSeconds) * time.Second,
	})
	if err != nil {
		store.Close()
		return nil, err
	}

	return &appRuntime{cfg: cfg, bus: msgBus, memory: memService, loop: loop}, nil
}

func (rt *appRuntime) close() {
	rt.bus.Close()
	if err := rt.memory.Close(); err != nil {
		logger.WarnCF("main", "Memory store close failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func onboard() error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("Config already exists at %s\n", configPath)
		fmt.Print("Overwrite? (y/n): ")
		reader := bufio.NewReader(os.Stdin)
		response, readErr := reader.ReadString('\n')
		if readErr != nil {
			fmt.Println("Aborted.")
			return nil
		}
		response = strings.ToLower(strings.TrimSpace(response))
		if response != "y" && response != "yes" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	if err := config.SaveConfig(configPath, cfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	stateDir := filepath.Join(cfg.WorkspacePath(), "state")
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return fmt.Errorf("create workspace: %w", err)
	}

	fmt.Printf("%s is ready!\n", appName)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Add your Gemini API key to", configPath)
	fmt.Println("  2. (Gateway mode) Add your Discord bot token to channels.discord.token")
	fmt.Println("  3. Chat locally: droidmind assistant -m \"想吃火锅\"")
	fmt.Println("  4. Seed the profile: droidmind sync meituan")
	fmt.Println("  5. Run gateway: droidmind gateway")
	return nil
}

func assistantRun(message string, debug bool) error {
	if debug {
		logger.SetLevel(logger.DEBUG)
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	rt, err := buildRuntime(cfg)
	if err != nil {
		return err
	}
	defer rt.close()

	if message != "" {
		interaction, err := rt.loop.Process(context.Background(), message)
		if err != nil {
			return err
		}
		fmt.Printf("\n%s %s\n", appName, interaction.Text)
		return nil
	}

	fmt.Printf("%s Interactive mode (Ctrl+C to exit)\n\n", appName)
	interactiveMode(rt.loop)
	return nil
}

func interactiveMode(loop *assistant.Loop) {
	prompt := fmt.Sprintf("%s You: ", appName)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     filepath.Join(os.TempDir(), ".droidmind_history"),
		HistoryLimit:    100,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Printf("Error initializing readline: %v\n", err)
		fmt.Println("Falling back to simple input mode...")
		simpleInteractiveMode(loop)
		return
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt || err == io.EOF {
				fmt.Println("\nGoodbye!")
				return
			}
			fmt.Printf("Error reading input: %v\n", err)
			continue
		}

		if !handleInteractiveLine(loop, line) {
			return
		}
	}
}

func simpleInteractiveMode(loop *assistant.Loop) {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Printf("%s You: ", appName)
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				fmt.Println("\nGoodbye!")
				return
			}
			fmt.Printf("Error reading input: %v\n", err)
			continue
		}

		if !handleInteractiveLine(loop, line) {
			return
		}
	}
}

func handleInteractiveLine(loop *assistant.Loop, line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return true
	}
	if input == "exit" || input == "quit" {
		fmt.Println("Goodbye!")
		return false
	}

	interaction, err := loop.Process(context.Background(), input)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return true
	}

	fmt.Printf("\n%s %s\n\n", appName, interaction.Text)
	return true
}

func gatewayRun(debug bool) error {
	if debug {
		logger.SetLevel(logger.DEBUG)
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if strings.TrimSpace(cfg.Channels.Discord.Token) == "" {
		return fmt.Errorf("channels.discord.token is required in %s or DROIDMIND_CHANNELS_DISCORD_TOKEN", getConfigPath())
	}

	rt, err := buildRuntime(cfg)
	if err != nil {
		return err
	}
	defer rt.close()

	channelManager, err := channels.NewManager(cfg, rt.bus)
	if err != nil {
		return fmt.Errorf("create channel manager: %w", err)
	}

	heartbeatService, err := heartbeat.NewService(cfg.Heartbeat, rt.loop.RunMaintenance)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := heartbeatService.Start(); err != nil {
		return fmt.Errorf("start heartbeat: %w", err)
	}

	if err := channelManager.StartAll(ctx); err != nil {
		heartbeatService.Stop()
		return fmt.Errorf("start channels: %w", err)
	}

	go func() {
		if err := rt.loop.Run(ctx); err != nil {
			logger.ErrorCF("main", "Interaction loop exited", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	fmt.Printf("✓ Channels enabled: %s\n", strings.Join(channelManager.EnabledChannels(), ", "))
	fmt.Println("✓ Gateway started")
	fmt.Println("Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	<-sigChan

	fmt.Println("\nShutting down...")
	cancel()
	heartbeatService.Stop()
	channelManager.StopAll(context.Background())
	fmt.Println("✓ Gateway stopped")
	return nil
}

func statusRun() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	configPath := getConfigPath()

	fmt.Printf("%s Status\n", appName)
	fmt.Printf("Version: %s\n", formatVersion())
	fmt.Println()

	if _, err := os.Stat(configPath); err == nil {
		fmt.Println("Config:", configPath, "✓")
	} else {
		fmt.Println("Config:", configPath, "✗")
	}

	workspace := cfg.WorkspacePath()
	if _, err := os.Stat(workspace); err == nil {
		fmt.Println("Workspace:", workspace, "✓")
	} else {
		fmt.Println("Workspace:", workspace, "✗")
	}

	memoryDB := memoryDBPath(cfg)
	if _, err := os.Stat(memoryDB); err == nil {
		fmt.Println("Memory DB:", memoryDB, "✓")
	} else {
		fmt.Println("Memory DB:", memoryDB, "not initialized")
	}

	status := func(ready bool) string {
		if ready {
			return "✓"
		}
		return "not set"
	}

	fmt.Printf("Provider: %s (%s)\n", cfg.Assistant.Provider, cfg.Assistant.Model)
	apiReady := strings.TrimSpace(cfg.ProviderFor(cfg.Assistant.Provider).APIKey) != ""
	discordReady := strings.TrimSpace(cfg.Channels.Discord.Token) != ""

	fmt.Println("API key:", status(apiReady))
	fmt.Println("Discord token:", status(discordReady))
	fmt.Println("Speech:", status(cfg.Speech.Enabled))
	fmt.Println("Heartbeat:", status(cfg.Heartbeat.Enabled))
	fmt.Println("Assistant ready:", status(apiReady))
	fmt.Println("Gateway ready:", status(discordReady))
	return nil
}

func profileShow() error {
	return withMemory(func(svc *memory.Service) error {
		profile := svc.Profile(context.Background())
		fmt.Printf("平均消费: ¥%d\n", profile.Preferences.AvgPrice)
		if len(profile.Preferences.FavoriteCuisines) > 0 {
			fmt.Printf("偏好菜系: %s\n", strings.Join(profile.Preferences.FavoriteCuisines, ", "))
		}
		fmt.Printf("活跃时段: %s\n", profile.Preferences.ActiveTimeRange)
		for _, tag := range profile.Tags {
			fmt.Printf("标签: %s (权重 %d, %s)\n", tag.Name, tag.Weight, tag.Trend)
		}
		for _, addr := range profile.Addresses {
			fmt.Printf("地址: %s (%.3f, %.3f) %s\n", addr.Name, addr.Lat, addr.Lng, addr.Address)
		}
		fmt.Printf("历史订单: %d\n", len(profile.OrderHistory))
		return nil
	})
}

func profileReset() error {
	return withMemory(func(svc *memory.Service) error {
		if err := svc.ResetProfile(context.Background()); err != nil {
			return err
		}
		fmt.Println("✓ Profile reset")
		return nil
	})
}

func logList(limit int) error {
	return withMemory(func(svc *memory.Service) error {
		actions := svc.Actions(context.Background(), limit)
		if len(actions) == 0 {
			fmt.Println("No actions recorded.")
			return nil
		}
		for _, action := range actions {
			ts := time.UnixMilli(action.Timestamp).Format("2006-01-02 15:04:05")
			fmt.Printf("[%s] %-6s %s\n", ts, action.Kind, action.Content)
		}
		return nil
	})
}

func syncRun(platform string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	rt, err := buildRuntime(cfg)
	if err != nil {
		return err
	}
	defer rt.close()

	fmt.Printf("Syncing %s order history...\n", platform)
	interaction, err := rt.loop.OnAction(context.Background(), assistant.CrawlSyncCommand{
		Platform: memory.Platform(platform),
	})
	if err != nil {
		return err
	}

	fmt.Println(interaction.Text)
	if interaction.Result != nil {
		for _, rec := range interaction.Result.Recommendations {
			marker := " "
			if rec.IsBest {
				marker = "*"
			}
			fmt.Printf("  %s %s %s (%s) %s\n", marker, rec.Name, rec.Price, rec.Cuisine, rec.Reason)
		}
	}
	return nil
}

func withMemory(fn func(svc *memory.Service) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store, err := memory.NewSQLiteStore(memoryDBPath(cfg))
	if err != nil {
		return fmt.Errorf("open memory store: %w", err)
	}
	svc := memory.NewService(store, memory.Config{
		MaxActionHistory:    cfg.Memory.MaxActionHistory,
		MaxOrderHistory:     cfg.Memory.MaxOrderHistory,
		MaxFavoriteCuisines: cfg.Memory.MaxFavoriteCuisines,
	})
	defer svc.Close()

	return fn(svc)
}
