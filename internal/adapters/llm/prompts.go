package llm

import (
	"fmt"
	"strings"

	"reelscript/internal/brand"
	"reelscript/internal/core/domain"
)

const rewriteUserPrompt = `The team sent you a video from %s.

1. Analyse the original script:
   - the hook: what did they use?
   - structure and pacing
   - why the video works (or doesn't)

2. Write the %s version:
   - keep the structure that works
   - in our brand voice
   - ready to shoot
   - split into HOOK | BODY | CTA
   - suggest 2-3 hook variations

Transcript:

---
%s
---`

const searchUserPrompt = "Search the web for: %s"

func productBlock(p *brand.Profile) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Product:\n%s - %s\n", p.Product.Name, p.Product.Type)
	if len(p.Product.Features) > 0 {
		fmt.Fprintf(&sb, "Features: %s\n", strings.Join(p.Product.Features, ", "))
	}
	if p.Product.USP != "" {
		fmt.Fprintf(&sb, "USP: %s\n", p.Product.USP)
	}
	fmt.Fprintf(&sb, "\nBrand voice:\n- Tone: %s\n- Personality: %s\n",
		p.Voice.Tone, strings.Join(p.Voice.Personality, ", "))
	return sb.String()
}

// chatSystemPrompt frames the conversational fallback.
func chatSystemPrompt(p *brand.Profile) string {
	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(p.Role))
	sb.WriteString("\n\n")
	sb.WriteString(productBlock(p))
	if p.Language != "" {
		fmt.Fprintf(&sb, "\nLanguage: %s\n", p.Language)
	}
	if p.Behavior != "" {
		sb.WriteString("\n")
		sb.WriteString(strings.TrimSpace(p.Behavior))
	}
	return sb.String()
}

// rewriteSystemPrompt frames the script analysis with the full brand brief.
func rewriteSystemPrompt(p *brand.Profile) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are the creative director of the %s marketing team.\n\n", p.Product.Name)
	sb.WriteString(productBlock(p))
	if len(p.Voice.Examples) > 0 {
		fmt.Fprintf(&sb, "- Examples: %s\n", strings.Join(p.Voice.Examples, " | "))
	}
	if len(p.Pillars) > 0 {
		sb.WriteString("\nContent pillars:\n")
		for _, pl := range p.Pillars {
			fmt.Fprintf(&sb, "- %s: %s (Goal: %s)\n", pl.Name, pl.Description, pl.Goal)
		}
	}
	fmt.Fprintf(&sb, "\nScript structure:\n- Hook: %s\n- Body: %s\n- CTA: %s\n- Length: %s\n",
		p.Structure.Hook, p.Structure.Body, p.Structure.CTA, p.Structure.Length)
	if len(p.Avoid) > 0 {
		fmt.Fprintf(&sb, "\nAvoid:\n%s\n", strings.Join(p.Avoid, ", "))
	}
	if p.Language != "" {
		fmt.Fprintf(&sb, "\nWrite in: %s\n", p.Language)
	}
	return sb.String()
}

func rewriteUser(p *brand.Profile, transcript string, platform domain.Platform) string {
	return fmt.Sprintf(rewriteUserPrompt, platform, p.Product.Name, transcript)
}
