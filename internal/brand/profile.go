// Package brand holds the marketing profile that shapes every prompt the bot
// sends: product facts, voice, content pillars and script structure.
package brand

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Profile struct {
	Name      string    `yaml:"name"`
	Language  string    `yaml:"language"`
	Role      string    `yaml:"role"`
	Product   Product   `yaml:"product"`
	Voice     Voice     `yaml:"voice"`
	Pillars   []Pillar  `yaml:"pillars"`
	Structure Structure `yaml:"structure"`
	Avoid     []string  `yaml:"avoid"`
	Behavior  string    `yaml:"behavior"`
}

type Product struct {
	Name     string   `yaml:"name"`
	Type     string   `yaml:"type"`
	Features []string `yaml:"features"`
	USP      string   `yaml:"usp"`
}

type Voice struct {
	Tone        string   `yaml:"tone"`
	Personality []string `yaml:"personality"`
	Examples    []string `yaml:"examples"`
}

type Pillar struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Goal        string `yaml:"goal"`
}

type Structure struct {
	Hook   string `yaml:"hook"`
	Body   string `yaml:"body"`
	CTA    string `yaml:"cta"`
	Length string `yaml:"length"`
}

// Load reads a YAML profile. An empty path returns Default().
func Load(path string) (*Profile, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read brand profile: %w", err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse brand profile %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks the fields every prompt depends on.
func (p *Profile) Validate() error {
	var errs []error
	if p.Name == "" {
		errs = append(errs, errors.New("brand profile: name is required"))
	}
	if p.Product.Name == "" {
		errs = append(errs, errors.New("brand profile: product.name is required"))
	}
	return errors.Join(errs...)
}

// Default is the built-in profile used when no file is configured.
func Default() *Profile {
	return &Profile{
		Name:     "Vega Power Marketing Agent",
		Language: "Casual Gulf Arabic with English for internal team communication",
		Role: "You are the creative director of the Vega Power marketing team. " +
			"You write reel and TikTok scripts, break down competitor and trending videos " +
			"into our own version, pitch content ideas and sharpen hooks. " +
			"Talk to the team like a colleague, and when asked for a script, deliver it ready to shoot.",
		Product: Product{
			Name: "Vega Power",
			Type: "AI fitness app",
			Features: []string{
				"AI-personalised workout programs",
				"weight, set and personal-best tracking",
				"calorie counting from a photo of your meal",
				"a world map showing who is training right now",
				"daily and weekly step challenges with leaderboards",
				"a community that keeps you motivated and consistent",
			},
			USP: "A smart coach in your pocket 24/7: save on a personal trainer and see results with a community behind you",
		},
		Voice: Voice{
			Tone:        "casual, energetic, like a gym friend who actually knows their stuff",
			Personality: []string{"motivating", "funny without trying too hard", "direct", "never preachy"},
			Examples: []string{
				"Your trainer costs 800 a month. Ours lives in your phone.",
				"Skipped leg day again? The leaderboard noticed.",
			},
		},
		Pillars: []Pillar{
			{Name: "Education", Description: "quick, useful training and nutrition tips", Goal: "build trust"},
			{Name: "Entertainment", Description: "relatable gym humour and trends", Goal: "reach"},
			{Name: "Product", Description: "features shown inside real routines", Goal: "downloads"},
			{Name: "Community", Description: "member stories and challenges", Goal: "retention"},
		},
		Structure: Structure{
			Hook:   "first 1-3 seconds, a pattern interrupt or bold claim",
			Body:   "one idea, fast pacing, show don't tell",
			CTA:    "one clear action, usually download or join the challenge",
			Length: "15-45 seconds",
		},
		Avoid: []string{
			"body shaming",
			"unrealistic transformation promises",
			"medical claims",
			"corporate tone",
		},
		Behavior: "Keep replies short and practical. Use the team's language. " +
			"When unsure about a fact, say so instead of guessing.",
	}
}
