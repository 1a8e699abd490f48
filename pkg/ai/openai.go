package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	aiDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mindlift",
		Subsystem: "ai",
		Name:      "generation_duration_seconds",
		Help:      "Duration of AI workout generation requests",
	}, []string{"model"})

	aiFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mindlift",
		Subsystem: "ai",
		Name:      "generation_failures_total",
		Help:      "Number of AI workout generation failures",
	}, []string{"model"})
)

// OpenAIConfig defines configuration options for the OpenAI workout generator.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// OpenAIGenerator implements WorkoutGenerator against the OpenAI chat completion API.
type OpenAIGenerator struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIGenerator builds a new generator using the provided configuration.
func NewOpenAIGenerator(cfg OpenAIConfig) (*OpenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}

	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}

	tracer := otel.Tracer("github.com/mindlift/mindlift-api/pkg/ai/openai")
	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	config := openai.DefaultConfig(cfg.APIKey)
	client := openai.NewClientWithConfig(config)

	return &OpenAIGenerator{
		client: client,
		cfg:    cfg,
		tracer: tracer,
		logger: logger,
	}, nil
}

// Generate sends the workout request to OpenAI and parses the exercise list.
func (g *OpenAIGenerator) Generate(parent context.Context, input GenerationInput) ([]Exercise, error) {
	ctx, span := g.tracer.Start(parent, "openai.generate_workout", trace.WithAttributes(
		attribute.String("model", g.cfg.Model),
		attribute.String("section", input.Section),
	))
	defer span.End()

	start := time.Now()
	request := openai.ChatCompletionRequest{
		Model:       g.cfg.Model,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: generatorSystemPrompt(),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildUserPrompt(input),
			},
		},
	}

	resp, err := g.client.CreateChatCompletion(ctx, request)
	duration := time.Since(start)
	aiDuration.WithLabelValues(g.cfg.Model).Observe(duration.Seconds())
	if err != nil {
		aiFailures.WithLabelValues(g.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("openai generate workout: %w", err)
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no choices returned from openai")
		aiFailures.WithLabelValues(g.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	exercises, err := parseExerciseResponse(content)
	if err != nil {
		aiFailures.WithLabelValues(g.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return exercises, nil
}

// Respond answers a freeform fitness question with a short prose reply.
func (g *OpenAIGenerator) Respond(parent context.Context, prompt string) (string, error) {
	ctx, span := g.tracer.Start(parent, "openai.fitness_chat", trace.WithAttributes(
		attribute.String("model", g.cfg.Model),
	))
	defer span.End()

	start := time.Now()
	request := openai.ChatCompletionRequest{
		Model:       g.cfg.Model,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: coachSystemPrompt(),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	}

	resp, err := g.client.CreateChatCompletion(ctx, request)
	aiDuration.WithLabelValues(g.cfg.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		aiFailures.WithLabelValues(g.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("openai fitness chat: %w", err)
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no choices returned from openai")
		aiFailures.WithLabelValues(g.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	if reply == "" {
		err := fmt.Errorf("model returned empty reply")
		aiFailures.WithLabelValues(g.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	return reply, nil
}

func coachSystemPrompt() string {
	return "You are a supportive, certified fitness and wellness coach. Answer the member's question in plain prose, keep advice" +
		" practical and safety-conscious, and recommend consulting a medical professional for anything involving pain or injury." +
		" Keep replies under 200 words."
}

func generatorSystemPrompt() string {
	return "You are a certified fitness coach. Respond ONLY with a JSON array of exercise objects. Each object has the keys name" +
		" (string), sets (number), reps (string), description (string), modifications (array of strings), and tips (array of s" +
		"trings). Keep descriptions actionable and safety-conscious."
}

func buildUserPrompt(input GenerationInput) string {
	count := input.ExerciseCount
	if count <= 0 {
		count = 4
	}

	builder := strings.Builder{}
	builder.WriteString(fmt.Sprintf("Generate %d exercises for the %s section of a workout.\n", count, input.Section))
	builder.WriteString("\n## Fitness Level\n")
	builder.WriteString(input.FitnessLevel)
	builder.WriteString("\n\n## Workout Type\n")
	builder.WriteString(input.WorkoutType)
	builder.WriteString("\n\n## Session Duration\n")
	builder.WriteString(input.Duration)
	builder.WriteString("\n\n## Available Equipment\n")
	builder.WriteString(input.Equipment)
	builder.WriteString("\nReturn a JSON array only.")
	return builder.String()
}

// parseExerciseResponse tolerates prose or code fences around the JSON array.
func parseExerciseResponse(content string) ([]Exercise, error) {
	startIdx := strings.Index(content, "[")
	endIdx := strings.LastIndex(content, "]")
	if startIdx == -1 || endIdx == -1 || endIdx < startIdx {
		return nil, fmt.Errorf("no json array found in model response")
	}

	var exercises []Exercise
	if err := json.Unmarshal([]byte(content[startIdx:endIdx+1]), &exercises); err != nil {
		return nil, fmt.Errorf("parse exercise json: %w", err)
	}

	if len(exercises) == 0 {
		return nil, fmt.Errorf("model returned empty exercise list")
	}

	return exercises, nil
}
