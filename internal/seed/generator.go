// ABOUTME: AI-powered generator for realistic agricultural seed data.
// ABOUTME: Uses OpenAI when a key is present, otherwise falls back to static fixtures.

package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sashabaranov/go-openai"
)

// Generator creates fake cuartel data using OpenAI or static fixtures.
type Generator struct {
	client *openai.Client
	useAI  bool
	model  string
}

// NewGenerator creates a generator, loading the API key from .env if
// available.
func NewGenerator() *Generator {
	g := &Generator{}

	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if err := godotenv.Load(p); err == nil {
			break
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		godotenv.Load(filepath.Join(home, ".env"))
	}

	g.model = os.Getenv("OPENAI_MODEL")
	if g.model == "" {
		g.model = "gpt-5-mini"
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey != "" {
		g.client = openai.NewClient(apiKey)
		g.useAI = true
		log.Printf("OpenAI API key found, using AI-generated data with model: %s", g.model)
	} else {
		log.Println("No OPENAI_API_KEY found, using static fallback data")
	}

	return g
}

// GeneratedData holds all the generated records.
type GeneratedData struct {
	Barracks []BarracksData `json:"barracks"`
	Plots    []PlotData     `json:"plots"`
}

// BarracksData is a generated cuartel summary record.
type BarracksData struct {
	Barracks          string `json:"barracks"`
	Species           string `json:"species"`
	Variety           string `json:"variety"`
	PhenologicalState string `json:"phenologicalState"`
}

// PlotData is a generated wide agronomy record.
type PlotData struct {
	ClassificationZone  string  `json:"classificationZone"`
	BarracksPaddockName string  `json:"barracksPaddockName"`
	Organic             bool    `json:"organic"`
	VarietySpecies      string  `json:"varietySpecies"`
	Variety             string  `json:"variety"`
	QualityType         string  `json:"qualityType"`
	TotalHa             float64 `json:"totalHa"`
	TotalPlants         int     `json:"totalPlants"`
	SoilType            string  `json:"soilType"`
	Texture             string  `json:"texture"`
	SoilPh              float64 `json:"soilPh"`
	Pattern             string  `json:"pattern"`
	PlantationYear      int     `json:"plantationYear"`
	IrrigationType      string  `json:"irrigationType"`
	IrrigationZone      string  `json:"irrigationZone"`
}

// Generate creates the full seed set, in parallel when AI is enabled. Any
// AI failure falls back to the static fixtures.
func (g *Generator) Generate(ctx context.Context, numBarracks, numPlots int) (*GeneratedData, error) {
	if !g.useAI {
		return g.generateStatic(numBarracks, numPlots), nil
	}

	data := &GeneratedData{}

	type result struct {
		name string
		err  error
	}
	resultCh := make(chan result, 2)

	log.Printf("Generating %d barracks and %d plot records via AI...", numBarracks, numPlots)

	go func() {
		barracks, err := g.generateBarracks(ctx, numBarracks)
		if err != nil {
			resultCh <- result{"barracks", err}
			return
		}
		data.Barracks = barracks
		log.Printf("  Generated %d barracks", len(barracks))
		resultCh <- result{"barracks", nil}
	}()

	go func() {
		plots, err := g.generatePlots(ctx, numPlots)
		if err != nil {
			resultCh <- result{"plots", err}
			return
		}
		data.Plots = plots
		log.Printf("  Generated %d plot records", len(plots))
		resultCh <- result{"plots", nil}
	}()

	var errs []error
	for i := 0; i < 2; i++ {
		r := <-resultCh
		if r.err != nil {
			log.Printf("  Failed to generate %s: %v", r.name, r.err)
			errs = append(errs, fmt.Errorf("%s: %w", r.name, r.err))
		}
	}

	if len(errs) > 0 {
		log.Print("AI generation incomplete, falling back to static data...")
		return g.generateStatic(numBarracks, numPlots), nil
	}

	log.Print("AI generation complete!")
	return data, nil
}

func (g *Generator) generateBarracks(ctx context.Context, count int) ([]BarracksData, error) {
	prompt := fmt.Sprintf(`Generate %d realistic records for orchard blocks ("cuarteles") on a Chilean fruit farm.
Each record has: barracks (block name like "Cuartel Norte 3"), species (Spanish common name: Vid, Palto, Cerezo, Nogal, Manzano, Olivo),
variety (a real variety of that species), phenologicalState (Spanish: Brotación, Floración, Cuaja, Pinta, Cosecha, Receso).
Return as a JSON array of objects with keys: barracks, species, variety, phenologicalState.`, count)

	return callOpenAI[[]BarracksData](ctx, g.client, g.model, prompt)
}

func (g *Generator) generatePlots(ctx context.Context, count int) ([]PlotData, error) {
	prompt := fmt.Sprintf(`Generate %d realistic agronomy plot records for a Chilean fruit farm.
Each record has: classificationZone ("Zona A".."Zona D"), barracksPaddockName ("Potrero N"), organic (boolean),
varietySpecies and variety (real fruit species and variety), qualityType (Premium, Exportación, Mercado interno),
totalHa (1-40, one decimal), totalPlants (500-20000), soilType (Franco, Arcilloso, Arenoso, Franco arcilloso),
texture, soilPh (5.5-8.0), pattern (rootstock name), plantationYear (1995-2023),
irrigationType (Goteo, Aspersión, Surco), irrigationZone ("Sector riego N").
Return as a JSON array of objects with exactly those keys.`, count)

	return callOpenAI[[]PlotData](ctx, g.client, g.model, prompt)
}

func callOpenAI[T any](ctx context.Context, client *openai.Client, model, prompt string) (T, error) {
	var result T

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a data generator. Always respond with valid JSON only, no markdown or explanation.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return result, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return result, fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return result, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	return result, nil
}
