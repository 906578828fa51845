// Command calltriage runs the emergency contact analysis pipeline as an
// interactive prompt: one message per line, "exit" to quit.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/sirupsen/logrus"

	"github.com/firstline-systems/calltriage/analysis"
	"github.com/firstline-systems/calltriage/analysis/provider"
	"github.com/firstline-systems/calltriage/audio"
	"github.com/firstline-systems/calltriage/metrics"
	"github.com/firstline-systems/calltriage/store"
	"github.com/firstline-systems/calltriage/workflow"
)

const exitToken = "exit"

func main() {
	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	if cfg.EnvFile != "" {
		if err := godotenv.Load(cfg.EnvFile); err != nil {
			fmt.Fprintln(os.Stderr, fmt.Errorf("load env file: %w", err).Error())
			os.Exit(2)
		}
	} else {
		_ = godotenv.Load()
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "missing OPENAI_API_KEY (or pass -api-key)")
		os.Exit(2)
	}

	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("parse log level: %w", err).Error())
		os.Exit(2)
	}
	logger.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics.Init(logger)
	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				logger.WithError(err).Error("metrics listener stopped")
			}
		}()
	}

	lexicon := analysis.DefaultLexicon()
	if cfg.LexiconPath != "" {
		lexicon, err = analysis.LoadLexicon(cfg.LexiconPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(2)
		}
	}

	var sessions store.Store
	if cfg.Ephemeral {
		sessions = store.NewMemoryStore()
	} else {
		sessions, err = store.NewFileStore(cfg.StoreDir, cfg.Pretty, logger)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(2)
		}
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))
	judgments := provider.New(&client, cfg.Model, logger)
	audioCap := audio.NewAdapter(audio.SidecarExtractor{}, logger)

	orc := workflow.New(workflow.Config{
		AgreementThreshold: cfg.AgreementThreshold,
		TrendWindow:        cfg.TrendWindow,
		CapabilityTimeout:  cfg.Timeout,
	}, sessions, judgments, audioCap, lexicon, logger)

	sessionID := cfg.SessionID
	if sessionID == "" {
		sessionID = "call-" + uuid.NewString()
	}

	fmt.Printf("calltriage - session %s\n", sessionID)
	fmt.Printf("Enter emergency messages (prefix with audio=<path> to attach a clip, %q to quit):\n", exitToken)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\nmessage> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.EqualFold(line, exitToken) {
			break
		}

		message, audioRef := splitAudioRef(line)
		if message == "" {
			fmt.Fprintln(os.Stderr, "error: audio= lines need message text after the clip path")
			continue
		}
		result, err := orc.RunWorkflow(ctx, workflow.Request{
			SessionID: sessionID,
			Message:   message,
			AudioRef:  audioRef,
		})
		if err != nil && result == nil {
			// Hard failure: nothing was analyzed and nothing was stored.
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			if ctx.Err() != nil {
				break
			}
			continue
		}

		printResult(result)
		if err != nil {
			// Degraded persistence: the analysis above is valid, but the
			// stored history is not authoritative until a run succeeds.
			fmt.Fprintf(os.Stderr, "warning: result NOT saved (%v); retry this message\n", err)
		}
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("read input: %w", err).Error())
		os.Exit(1)
	}
}

// splitAudioRef peels an optional leading "audio=<path>" token off a line,
// returning the message and the clip reference. A line carrying only the
// audio token yields an empty message, which the loop rejects rather than
// analyzing the file path as the emergency text.
func splitAudioRef(line string) (message, audioRef string) {
	if !strings.HasPrefix(line, "audio=") {
		return line, ""
	}
	rest := strings.TrimPrefix(line, "audio=")
	parts := strings.SplitN(rest, " ", 2)
	if len(parts) != 2 {
		return "", rest
	}
	return strings.TrimSpace(parts[1]), parts[0]
}

func printResult(r *analysis.AnalysisResult) {
	fmt.Println("\n=== ANALYSIS RESULT ===")

	fmt.Println("\nEmotion:")
	fmt.Printf("  primary:    %s\n", r.Emotion.PrimaryEmotion)
	if r.Emotion.SecondaryEmotion != "" {
		fmt.Printf("  secondary:  %s\n", r.Emotion.SecondaryEmotion)
	}
	fmt.Printf("  intensity:  %s\n", r.Emotion.Intensity)
	fmt.Printf("  confidence: %.2f\n", r.Emotion.Confidence)
	fmt.Printf("  urgent:     %t\n", r.Emotion.IsUrgent)
	fmt.Printf("  modality:   %s\n", r.Emotion.SourceModality)
	if r.Emotion.Reasoning != "" {
		fmt.Printf("  reasoning:  %s\n", r.Emotion.Reasoning)
	}
	if r.Emotion.Degraded {
		fmt.Println("  [degraded: lexicon fallback]")
	}

	fmt.Println("\nSituation:")
	fmt.Printf("  category: %s\n", r.Situation.Category)
	fmt.Printf("  severity: %s\n", r.Situation.Severity)
	printList("  key details", r.Situation.KeyDetails)
	printList("  recommended actions", r.Situation.RecommendedActions)
	printList("  required resources", r.Situation.RequiredResources)
	fmt.Printf("  confidence: %.2f\n", r.Situation.Confidence)
	if r.Situation.Degraded {
		fmt.Println("  [degraded: severity derived from emotion intensity]")
	}

	fmt.Printf("\nTrend: %s (over %d entries)\n", r.Trend.Direction, r.Trend.Window)

	if r.CrossModal != nil {
		fmt.Printf("\nCross-modal: agreement %.2f, consistent=%t\n",
			r.CrossModal.AgreementScore, r.CrossModal.IsConsistent)
	}

	for _, w := range r.Warnings {
		fmt.Printf("\nwarning: %s\n", w)
	}
}

func printList(label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Printf("%s:\n", label)
	for _, item := range items {
		fmt.Printf("    - %s\n", item)
	}
}
