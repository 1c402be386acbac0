package plan

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// tipGenerator produces short coaching tips for a generated plan.
type tipGenerator interface {
	GenerateTips(ctx context.Context, req PlanRequest, targets Targets) []string
}

// staticTipGenerator serves curated tips keyed by goal. It is the fallback
// when no LLM is configured and when the LLM call fails.
type staticTipGenerator struct{}

//nolint:gochecknoglobals // fixed lookup table.
var goalTips = map[Goal][]string{
	GoalFatLoss: {
		"Weigh in at the same time each morning and judge the weekly average, not single days.",
		"Protein first at every meal keeps you full in a deficit.",
		"Keep daily steps up; training alone rarely covers the calorie gap.",
	},
	GoalLeanMass: {
		"Gain slowly: roughly a quarter kilo per week keeps most of it lean.",
		"Log your lifts and push to add a rep or 2.5kg most weeks.",
		"Eat the carb side of each meal around training for better sessions.",
	},
	GoalHypertrophy: {
		"Leave the prescribed reps in reserve; grinding every set hurts recovery more than it helps growth.",
		"Full range of motion with control beats heavier partials.",
		"Sleep is the cheapest recovery tool you have. Protect it.",
	},
	GoalStrength: {
		"Treat the first work set as information: cut the session short on a bad day.",
		"Warm up to your work weight in small jumps, not one big one.",
		"Film your heaviest set each week to keep technique honest.",
	},
	GoalRecomp: {
		"Recomposition is slow by nature. Judge progress monthly with photos and measurements, not the scale.",
		"Hit the protein target every day; it is the one number that matters most here.",
		"Keep training intensity high even though calories are at maintenance.",
	},
}

func (staticTipGenerator) GenerateTips(_ context.Context, req PlanRequest, _ Targets) []string {
	tips, ok := goalTips[req.Goal]
	if !ok {
		tips = goalTips[GoalRecomp]
	}
	return append([]string(nil), tips...)
}

// openaiTipGenerator asks an OpenAI model for tips tailored to the whole
// request, falling back to the static tips on any failure.
type openaiTipGenerator struct {
	client   openai.Client
	logger   *slog.Logger
	fallback staticTipGenerator
}

func newOpenAITipGenerator(apiKey string, logger *slog.Logger) *openaiTipGenerator {
	return &openaiTipGenerator{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		logger: logger,
	}
}

const tipSystemPrompt = `You are a pragmatic strength and nutrition coach. Given a short description of a training plan, reply with exactly three practical tips, one per line, no numbering, no markdown, each under 140 characters. Be specific to the goal, experience level, and equipment. Never give medical advice.`

func (g *openaiTipGenerator) GenerateTips(ctx context.Context, req PlanRequest, targets Targets) []string {
	prompt := fmt.Sprintf(
		"Goal: %s. Experience: %s. Equipment: %s. Training days per week: %d. Daily targets: %d kcal, %dg protein, %dg carbs, %dg fat.",
		req.Goal, req.Experience, req.Equipment, req.ScheduleDays,
		targets.Kcal, targets.ProteinG, targets.CarbsG, targets.FatG)

	completion, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModelGPT4o,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(tipSystemPrompt),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		g.logger.WarnContext(ctx, "tip generation failed, using static tips", slog.String("error", err.Error()))
		return g.fallback.GenerateTips(ctx, req, targets)
	}
	if len(completion.Choices) == 0 {
		return g.fallback.GenerateTips(ctx, req, targets)
	}

	tips := parseTips(completion.Choices[0].Message.Content)
	if len(tips) == 0 {
		return g.fallback.GenerateTips(ctx, req, targets)
	}
	return tips
}

func parseTips(content string) []string {
	var tips []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "-"))
		if line == "" {
			continue
		}
		tips = append(tips, line)
		if len(tips) == 3 {
			break
		}
	}
	return tips
}
