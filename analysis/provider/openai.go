// Package provider implements the language-judgment capability on the
// OpenAI Responses API with strict structured outputs.
package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/responses"
	"github.com/sirupsen/logrus"

	"github.com/firstline-systems/calltriage/analysis"
	"github.com/firstline-systems/calltriage/fileutils"
)

// emotionJudgmentResponse is the wire shape the emotion judgment is
// constrained to. Fields map 1:1 onto analysis.EmotionAssessment; anything
// outside the enums fails validation downstream and degrades the run.
type emotionJudgmentResponse struct {
	PrimaryEmotion   string  `json:"primary_emotion"`
	SecondaryEmotion string  `json:"secondary_emotion"`
	Intensity        string  `json:"intensity"`
	Confidence       float64 `json:"confidence"`
	Reasoning        string  `json:"reasoning"`
}

// situationJudgmentResponse is the wire shape the situation judgment is
// constrained to.
type situationJudgmentResponse struct {
	Category           string   `json:"category"`
	Severity           string   `json:"severity"`
	KeyDetails         []string `json:"key_details"`
	RecommendedActions []string `json:"recommended_actions"`
	RequiredResources  []string `json:"required_resources"`
	Confidence         float64  `json:"confidence"`
	Reasoning          string   `json:"reasoning"`
}

var emotionSchema = generateSchema[emotionJudgmentResponse]()
var situationSchema = generateSchema[situationJudgmentResponse]()

// Client implements analysis.JudgmentProvider against OpenAI.
type Client struct {
	client *openai.Client
	model  string
	logger *logrus.Entry
}

var _ analysis.JudgmentProvider = (*Client)(nil)

// New wraps an OpenAI client for the given model.
func New(client *openai.Client, model string, logger *logrus.Logger) *Client {
	if logger == nil {
		logger = logrus.New()
	}
	return &Client{
		client: client,
		model:  model,
		logger: logger.WithField("component", "judgment_provider"),
	}
}

func (c *Client) TextEmotionJudgment(ctx context.Context, req analysis.TextJudgmentRequest) (analysis.EmotionAssessment, error) {
	if c.client == nil {
		return analysis.EmotionAssessment{}, errors.New("provider: client is nil")
	}
	if c.model == "" {
		return analysis.EmotionAssessment{}, errors.New("provider: model is empty")
	}

	input := buildEmotionInput(req)
	resp, err := c.call(ctx, emotionAnalysisPrompt, "EmotionJudgment", "Emotion judgment JSON", emotionSchema, input)
	if err != nil {
		return analysis.EmotionAssessment{}, err
	}

	var out emotionJudgmentResponse
	if err := fileutils.DecodeModelJSON(resp.OutputText(), &out); err != nil {
		return analysis.EmotionAssessment{}, fmt.Errorf("provider: unmarshal emotion judgment: %w", err)
	}

	return analysis.EmotionAssessment{
		PrimaryEmotion:   analysis.Emotion(normalizeLabel(out.PrimaryEmotion)),
		SecondaryEmotion: analysis.Emotion(normalizeLabel(out.SecondaryEmotion)),
		Intensity:        analysis.Intensity(normalizeLabel(out.Intensity)),
		Confidence:       out.Confidence,
		SourceModality:   analysis.ModalityText,
		Reasoning:        strings.TrimSpace(out.Reasoning),
	}, nil
}

func (c *Client) SituationJudgment(ctx context.Context, req analysis.SituationJudgmentRequest) (analysis.EmergencyAssessment, error) {
	if c.client == nil {
		return analysis.EmergencyAssessment{}, errors.New("provider: client is nil")
	}
	if c.model == "" {
		return analysis.EmergencyAssessment{}, errors.New("provider: model is empty")
	}

	input := buildSituationInput(req)
	resp, err := c.call(ctx, situationAnalysisPrompt, "SituationJudgment", "Situation judgment JSON", situationSchema, input)
	if err != nil {
		return analysis.EmergencyAssessment{}, err
	}

	var out situationJudgmentResponse
	if err := fileutils.DecodeModelJSON(resp.OutputText(), &out); err != nil {
		return analysis.EmergencyAssessment{}, fmt.Errorf("provider: unmarshal situation judgment: %w", err)
	}

	return analysis.EmergencyAssessment{
		Category:           analysis.Category(normalizeLabel(out.Category)),
		Severity:           analysis.Severity(normalizeLabel(out.Severity)),
		KeyDetails:         trimAll(out.KeyDetails),
		RecommendedActions: trimAll(out.RecommendedActions),
		RequiredResources:  trimAll(out.RequiredResources),
		Confidence:         out.Confidence,
		Reasoning:          strings.TrimSpace(out.Reasoning),
	}, nil
}

func (c *Client) call(ctx context.Context, instructions, schemaName, schemaDesc string, schema map[string]interface{}, input string) (*responses.Response, error) {
	format := responses.ResponseFormatTextConfigUnionParam{
		OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
			Name:        schemaName,
			Schema:      schema,
			Strict:      openai.Bool(true),
			Description: openai.String(schemaDesc),
			Type:        "json_schema",
		},
	}

	params := responses.ResponseNewParams{
		Model:           c.model,
		MaxOutputTokens: openai.Int(1200),
		Instructions:    openai.String(instructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(input, responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: format,
		},
	}

	start := time.Now()
	resp, err := callWithRetry(ctx, c.client, params)
	if err != nil {
		c.logger.WithError(err).WithField("schema", schemaName).Warn("judgment call failed")
		return nil, err
	}
	c.logger.WithFields(logrus.Fields{
		"schema":  schemaName,
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Debug("judgment call completed")
	return resp, nil
}

func normalizeLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "none" || s == "n/a" {
		return ""
	}
	return strings.ReplaceAll(s, " ", "_")
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
