package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/shared"

	"reelscript/internal/core/domain"
)

// scriptAnalysis is the structured reply requested from the model.
type scriptAnalysis struct {
	Analysis originalAnalysis `json:"analysis" jsonschema_description:"Breakdown of the original video's script."`
	Rewrite  brandedScript    `json:"rewrite" jsonschema_description:"The brand version, ready to shoot."`
}

type originalAnalysis struct {
	Hook       string `json:"hook" jsonschema_description:"The hook used in the first seconds and why it grabs attention."`
	Structure  string `json:"structure" jsonschema_description:"How the script is organised from hook to ending."`
	Pacing     string `json:"pacing" jsonschema_description:"Pacing and rhythm of the delivery."`
	WhyItWorks string `json:"why_it_works" jsonschema_description:"Why the video works, or why it doesn't."`
}

type brandedScript struct {
	Hook           string   `json:"hook" jsonschema_description:"The main hook line."`
	HookVariations []string `json:"hook_variations" jsonschema_description:"Two or three alternative hooks."`
	Body           string   `json:"body" jsonschema_description:"The body of the script."`
	CTA            string   `json:"cta" jsonschema_description:"The call to action."`
}

// GenerateSchema reflects T into a JSON schema usable with strict structured
// outputs.
func GenerateSchema[T any]() interface{} {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

var scriptAnalysisSchema = GenerateSchema[scriptAnalysis]()

// AnalyzeAndRewrite asks the model for an analysis of the transcript and a
// brand-voiced rewrite, returned as one document.
func (c *Client) AnalyzeAndRewrite(ctx context.Context, transcript string, platform domain.Platform) (domain.ScriptDocument, error) {
	c.logger.Info("analyzing script", slog.String("platform", platform.String()), slog.Int("transcript_chars", len(transcript)))

	format := &openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
			JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
				Name:        "script_analysis",
				Description: openai.String("Analysis of the original script and the brand rewrite"),
				Schema:      scriptAnalysisSchema,
				Strict:      openai.Bool(true),
			},
		},
	}

	raw, err := c.complete(ctx, completion{
		model:  c.cfg.Model,
		system: rewriteSystemPrompt(c.profile),
		user:   rewriteUser(c.profile, transcript, platform),
		format: format,
	})
	if err != nil {
		return "", &domain.RewriteError{Err: err}
	}
	if raw == "" {
		return "", &domain.RewriteError{Err: errors.New("model returned an empty response")}
	}

	var parsed scriptAnalysis
	if err := json.Unmarshal([]byte(stripFences(raw)), &parsed); err != nil {
		c.logger.Warn("structured reply not parseable, using raw text", slog.Any("error", err))
		return domain.ScriptDocument(raw), nil
	}
	return domain.ScriptDocument(render(c.profile.Product.Name, parsed)), nil
}

// stripFences removes markdown code fences from model output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func render(product string, a scriptAnalysis) string {
	var sb strings.Builder
	sb.WriteString("ANALYSIS OF THE ORIGINAL\n\n")
	fmt.Fprintf(&sb, "Hook: %s\n\n", a.Analysis.Hook)
	fmt.Fprintf(&sb, "Structure: %s\n\n", a.Analysis.Structure)
	fmt.Fprintf(&sb, "Pacing: %s\n\n", a.Analysis.Pacing)
	fmt.Fprintf(&sb, "Why it works: %s\n\n", a.Analysis.WhyItWorks)

	fmt.Fprintf(&sb, "%s VERSION\n\n", strings.ToUpper(product))
	fmt.Fprintf(&sb, "HOOK\n%s\n\n", a.Rewrite.Hook)
	if len(a.Rewrite.HookVariations) > 0 {
		sb.WriteString("Hook variations:\n")
		for i, h := range a.Rewrite.HookVariations {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, h)
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "BODY\n%s\n\n", a.Rewrite.Body)
	fmt.Fprintf(&sb, "CTA\n%s", a.Rewrite.CTA)
	return sb.String()
}
