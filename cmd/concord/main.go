package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"concord/internal/capability"
	"concord/internal/config"
	"concord/internal/debate"
	"concord/internal/engine"
	"concord/internal/facts"
	"concord/internal/llm"
	"concord/internal/llmclient"
)

func main() {
	question := flag.String("question", "", "analytical question to deliberate")
	factsPath := flag.String("facts", "", "path to a JSON fact set")
	deadline := flag.Duration("deadline", 5*time.Minute, "total wall-clock budget")
	configPath := flag.String("config", "", "optional YAML config file")
	model := flag.String("model", "", "override the configured model id")
	fake := flag.Bool("fake", false, "use the deterministic fake LLM (no API key needed)")
	outPath := flag.String("out", "", "write the report JSON here instead of stdout")
	flag.Parse()
	if *question == "" {
		log.Fatal("--question is required")
	}

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *model != "" {
		cfg.Model = *model
	}

	ctx := context.Background()

	var base llmclient.LLMClient
	switch {
	case *fake:
		base = llm.NewFakeClient()
	case os.Getenv("GROQ_API_KEY") != "":
		base, err = llmclient.NewGroqClient(os.Getenv("GROQ_API_KEY"), cfg.Model)
		if err != nil {
			log.Fatal(err)
		}
	case os.Getenv("GEMINI_API_KEY") != "":
		base, err = llmclient.NewGeminiClient(ctx, cfg.Model)
		if err != nil {
			log.Fatal(err)
		}
	default:
		log.Fatal("GEMINI_API_KEY or GROQ_API_KEY is not set (use --fake for a dry run)")
	}
	zl, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer zl.Sync()

	cli := llm.Wrap(base,
		llm.Retry(cfg.RetryAttempts, cfg.RetryBaseDelay),
		llm.RateLimit(cfg.RPS, cfg.Burst),
		llm.WithHooks(&callLogger{log: zl, count: base.CountTokens}),
	)
	defer cli.Close()

	set, err := loadFacts(*factsPath, *fake)
	if err != nil {
		log.Fatal(err)
	}
	provider, err := facts.NewCached(facts.Static{Set: set}, cfg.FactCacheSize)
	if err != nil {
		log.Fatal(err)
	}

	eng := &engine.Engine{
		Agents: []capability.Agent{
			&capability.LLMAgent{AgentID: "quantitative", Perspective: "data-first statistical analysis", LLM: cli},
			&capability.LLMAgent{AgentID: "contextual", Perspective: "historical and institutional context", LLM: cli},
			&capability.LLMAgent{AgentID: "skeptical", Perspective: "methodological skepticism", LLM: cli},
		},
		Arbiter: &capability.LLMArbiter{LLM: cli},
		Critic:  &capability.LLMCritic{LLM: cli},
		Facts:   provider,
		Config:  cfg,
		Log:     zl,
	}

	events := make(chan debate.Event, 64)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for ev := range events {
			switch ev.Type {
			case debate.EventTypePhase:
				log.Printf("phase %d/%d: %s", phaseIndex(ev.Phase), len(debate.Order), ev.Phase)
			case debate.EventTypeTurn:
				log.Printf("  turn %d [%s] %s", ev.Turn.Seq, ev.Turn.Speaker, head(ev.Turn.Content, 80))
			case debate.EventTypeLog:
				log.Printf("  %s", ev.Message)
			case debate.EventTypeError:
				log.Printf("  error: %s", ev.Message)
			case debate.EventTypeComplete:
				log.Printf("deliberation complete (%s)", ev.Message)
			}
		}
	}()

	rep, err := eng.Deliberate(
		debate.WithEmitter(ctx, &debate.ChannelEmitter{Ch: events}),
		engine.Request{Question: *question, Deadline: *deadline},
	)
	close(events)
	wg.Wait()
	if err != nil {
		log.Fatal(err)
	}

	b, _ := json.MarshalIndent(rep, "", "  ")
	if *outPath != "" {
		if err := os.WriteFile(*outPath, b, 0o644); err != nil {
			log.Fatal(err)
		}
		log.Println("report written →", *outPath)
		return
	}
	os.Stdout.Write(append(b, '\n'))
}

func loadFacts(path string, fake bool) (facts.FactSet, error) {
	if path != "" {
		return facts.LoadFile(path)
	}
	if !fake {
		return facts.FactSet{}, errors.New("--facts is required (or pass --fake for the built-in demo set)")
	}
	// demo fact set for fake runs
	return facts.FactSet{
		Topic: "unemployment",
		Facts: []facts.Fact{
			{ID: "bls-2025-q4", Metric: "unemployment_rate", Value: 0.10, Source: "BLS", Period: "2025-Q4"},
			{ID: "oecd-2025-q4", Metric: "unemployment_rate", Value: 0.12, Source: "OECD", Period: "2025-Q4"},
		},
	}, nil
}

// callLogger traces every model call so individual attempts show up in the
// structured log alongside the engine's own records.
type callLogger struct {
	log   *zap.Logger
	count func(string) int
}

func (h *callLogger) Before(_ context.Context, role, prompt string, _ any) {
	h.log.Debug("model call",
		zap.String("role", role),
		zap.Int("prompt_tokens", h.count(prompt)))
}

func (h *callLogger) After(_ context.Context, role string, raw json.RawMessage, err error) {
	if err != nil {
		h.log.Warn("model call failed", zap.String("role", role), zap.Error(err))
		return
	}
	h.log.Debug("model call done", zap.String("role", role), zap.Int("response_bytes", len(raw)))
}

// phaseIndex positions a phase within the fixed execution order, 1-based.
func phaseIndex(p debate.Phase) int {
	for i, q := range debate.Order {
		if q == p {
			return i + 1
		}
	}
	return 0
}

func head(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
