package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/okian/hireflow/internal/domain/model"
)

// Default remote scorer configuration constants.
const (
	defaultOpenAIModel   = openai.GPT4oMini
	defaultOpenAITimeout = 30 * time.Second
)

// OpenAIScorer implements Scorer against a remote chat-completion
// model. Any transport failure, timeout, or malformed model output
// surfaces as ErrUnavailable; the pipeline never records a
// fabricated score.
type OpenAIScorer struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// OpenAIOption applies a configuration option to the OpenAIScorer.
type OpenAIOption func(*OpenAIScorer)

// WithModel overrides the completion model.
func WithModel(m string) OpenAIOption {
	return func(s *OpenAIScorer) {
		if m != "" {
			s.model = m
		}
	}
}

// WithTimeout bounds each scoring call.
func WithTimeout(d time.Duration) OpenAIOption {
	return func(s *OpenAIScorer) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewOpenAIScorer creates a remote scorer with configuration options.
func NewOpenAIScorer(apiKey string, opts ...OpenAIOption) *OpenAIScorer {
	s := &OpenAIScorer{
		client:  openai.NewClient(apiKey),
		model:   defaultOpenAIModel,
		timeout: defaultOpenAITimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// remoteScores mirrors the strict JSON shape the prompt demands.
type remoteScores struct {
	Readability        remoteDimension `json:"readability"`
	WritingQuality     remoteDimension `json:"writing_quality"`
	SEO                remoteDimension `json:"seo"`
	EnglishProficiency remoteDimension `json:"english_proficiency"`
	AIDetection        remoteDimension `json:"ai_detection"`
}

type remoteDimension struct {
	Score    float64  `json:"score"`
	Feedback []string `json:"feedback"`
}

// Score sends the assessment to the model and parses its structured
// verdict. The composite is recomputed locally with the fixed
// weights so the invariant holds regardless of what the model says.
func (s *OpenAIScorer) Score(ctx context.Context, in Input) (model.AIScoreRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(in)},
		},
	})
	if err != nil {
		return model.AIScoreRecord{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return model.AIScoreRecord{}, fmt.Errorf("%w: empty completion", ErrUnavailable)
	}

	var parsed remoteScores
	cleaned := stripCodeFence(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return model.AIScoreRecord{}, fmt.Errorf("%w: malformed verdict: %v", ErrUnavailable, err)
	}

	rec := model.AIScoreRecord{
		Readability:        toDim(parsed.Readability),
		WritingQuality:     toDim(parsed.WritingQuality),
		SEO:                toDim(parsed.SEO),
		EnglishProficiency: toDim(parsed.EnglishProficiency),
		AIDetection:        toDim(parsed.AIDetection),
	}
	rec.CompositeScore = Composite(rec)
	return rec, nil
}

func toDim(d remoteDimension) model.DimensionFeedback {
	return model.DimensionFeedback{Score: round2(clamp(d.Score)), Feedback: d.Feedback}
}

func buildPrompt(in Input) string {
	var sb strings.Builder
	sb.WriteString("You are an editorial reviewer scoring a candidate's writing assessment.\n")
	sb.WriteString("Score each dimension from 0 to 100 and give short feedback strings.\n\n")
	if kws := keywordList(in.Settings); len(kws) > 0 {
		sb.WriteString("Target keywords for the SEO dimension: ")
		sb.WriteString(strings.Join(kws, ", "))
		sb.WriteString("\n\n")
	}
	sb.WriteString("Assessment text:\n")
	sb.WriteString(in.Content)
	sb.WriteString("\n\nReturn ONLY raw JSON, no markdown, with this exact structure:\n")
	sb.WriteString(`{"readability":{"score":0,"feedback":[]},` +
		`"writing_quality":{"score":0,"feedback":[]},` +
		`"seo":{"score":0,"feedback":[]},` +
		`"english_proficiency":{"score":0,"feedback":[]},` +
		`"ai_detection":{"score":0,"feedback":[]}}`)
	return sb.String()
}

func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	if start, end := strings.Index(content, "{"), strings.LastIndex(content, "}"); start != -1 && end > start {
		content = content[start : end+1]
	}
	return strings.TrimSpace(content)
}
