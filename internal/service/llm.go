package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/himanshu-anonymous/CookMate/internal/logger"
	"github.com/himanshu-anonymous/CookMate/internal/metrics"
	"github.com/himanshu-anonymous/CookMate/internal/models"
	"github.com/himanshu-anonymous/CookMate/internal/pantry"
	"github.com/himanshu-anonymous/CookMate/internal/types"
)

// Message represents a message in the chat. Content is either a string or a
// list of content parts for vision requests.
type Message struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

// Request represents a chat completions request
type Request struct {
	Model          string            `json:"model"`
	Messages       []Message         `json:"messages"`
	ResponseFormat map[string]string `json:"response_format"`
	Temperature    float64           `json:"temperature,omitempty"`
	MaxTokens      int               `json:"max_tokens,omitempty"`
}

// ChefConfig configures the chat completions client
type ChefConfig struct {
	APIURL            string
	APIKey            string
	Model             string
	Timeout           time.Duration
	RequestsPerSecond float64
}

// ChefService talks to an OpenAI compatible chat completions endpoint
type ChefService struct {
	apiKey  string
	apiURL  string
	model   string
	timeout time.Duration
	client  *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
	metrics *metrics.Collector
}

// NewChefService creates a ChefService. Without an API key every call fails
// fast with ErrExternalService.
func NewChefService(cfg ChefConfig, log *zap.Logger, m *metrics.Collector) *ChefService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}

	return &ChefService{
		apiKey:  cfg.APIKey,
		apiURL:  cfg.APIURL,
		model:   cfg.Model,
		timeout: timeout,
		client:  &http.Client{},
		limiter: rate.NewLimiter(rate.Limit(rps), int(math.Max(1, math.Ceil(rps)))),
		logger:  logger.OrNop(log).Named("chef"),
		metrics: m,
	}
}

var personaPrompts = map[models.Persona]string{
	models.PersonaHosteler:   "ROLE: Broke Student. PRIORITIES: Speed, Cheap, Microwave.",
	models.PersonaIndianMom:  "ROLE: Indian Mom. PRIORITIES: Nutrition, Freshness, Tradition.",
	models.PersonaGymBro:     "ROLE: Fitness Coach. PRIORITIES: High Protein, Macros.",
	models.PersonaMasterChef: "ROLE: Michelin Chef. PRIORITIES: Technique, Flavor.",
}

func personaPrompt(p models.Persona) string {
	if prompt, ok := personaPrompts[p]; ok {
		return prompt
	}
	return "ROLE: Helpful Chef."
}

// GenerateRecipe asks for one structured recipe
func (s *ChefService) GenerateRecipe(ctx context.Context, p RecipePrompt) (*types.Recipe, error) {
	var b strings.Builder
	mealType := p.MealType
	if mealType == "" {
		mealType = "meal"
	}
	fmt.Fprintf(&b, "Generate a %s recipe.\n", mealType)
	fmt.Fprintf(&b, "- Inventory: %s\n", strings.Join(p.Pantry, ", "))
	if len(p.Expiring) > 0 {
		fmt.Fprintf(&b, "- PRIORITY, use first (expiring soon): %s\n", strings.Join(p.Expiring, ", "))
	}
	if p.Craving != "" {
		fmt.Fprintf(&b, "- Craving: %s\n", p.Craving)
	}
	fmt.Fprintf(&b, "- Goal: %s\n", p.HealthGoal)
	if len(p.DietaryPreferences) > 0 {
		fmt.Fprintf(&b, "- Diet: %s\n", strings.Join(p.DietaryPreferences, ", "))
	}
	if len(p.Allergies) > 0 {
		fmt.Fprintf(&b, "- NEVER use (allergies): %s\n", strings.Join(p.Allergies, ", "))
	}
	if len(p.MedicalConditions) > 0 {
		fmt.Fprintf(&b, "- Medical conditions: %s\n", strings.Join(p.MedicalConditions, ", "))
	}
	fmt.Fprintf(&b, "- Scale: %.2fx portion.\n", p.PortionMultiplier)
	fmt.Fprintf(&b, "- Effort: %s\n", p.EffortLevel)
	b.WriteString(`
RETURN JSON EXACTLY LIKE THIS:
{
  "dish_name": "Dish Name",
  "description": "One line intro",
  "ingredients": ["200g rice", "1 onion"],
  "steps": [
    {"step_number": 1, "instruction": "Do X", "duration_seconds": 60, "requires_visual_check": false}
  ],
  "total_time_minutes": 20,
  "effort_score": 3.5
}`)

	messages := []Message{
		{Role: "system", Content: personaPrompt(p.Persona) + " You output ONLY valid JSON."},
		{Role: "user", Content: b.String()},
	}

	var raw chefRecipe
	if err := s.complete(ctx, "recipe", messages, 0.7, &raw); err != nil {
		return nil, err
	}
	recipe, err := raw.toRecipe()
	if err != nil {
		return nil, fmt.Errorf("%w: recipe: %v", ErrExternalService, err)
	}
	return recipe, nil
}

type deductionInventoryView struct {
	ID   uint    `json:"id"`
	Name string  `json:"name"`
	Qty  float64 `json:"qty"`
}

// ProposeDeductions asks how much of each inventory row the consumed phrases used up
func (s *ChefService) ProposeDeductions(ctx context.Context, consumed []string, inventory []models.InventoryItem) ([]pantry.Deduction, error) {
	view := make([]deductionInventoryView, len(inventory))
	for i, item := range inventory {
		view[i] = deductionInventoryView{ID: item.ID, Name: item.Name, Qty: item.Quantity}
	}
	payload, err := json.Marshal(map[string]interface{}{
		"consumed":  consumed,
		"inventory": view,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal deduction request: %w", err)
	}

	messages := []Message{
		{Role: "system", Content: "You are a Supply Chain Algorithm. JSON Output."},
		{Role: "user", Content: "Match the consumed ingredients to inventory rows and calculate how much to SUBTRACT from each.\n" +
			string(payload) +
			"\nReturn JSON: {\"deductions\": [{\"inventory_id\": 12, \"decrement_amount\": 2}]}"},
	}

	var out struct {
		Deductions []pantry.Deduction `json:"deductions"`
	}
	if err := s.complete(ctx, "deductions", messages, 0, &out); err != nil {
		return nil, err
	}
	return out.Deductions, nil
}

// ParseBill extracts line items from a photo of a grocery bill
func (s *ChefService) ParseBill(ctx context.Context, imageBase64 string) ([]types.ScannedItem, error) {
	messages := []Message{
		{Role: "system", Content: "You are an Inventory Clerk. Extract grocery items from this receipt image."},
		visionMessage(`Analyze this bill. Return a JSON list of items.
For each item, ESTIMATE a shelf life (expiry_days).
RETURN JSON FORMAT:
{"items": [{"name": "Milk", "quantity": 1, "unit": "Litre", "price": 45.0, "expiry_days": 3, "category": "Dairy"}]}`, imageBase64),
	}

	var out struct {
		Items []types.ScannedItem `json:"items"`
	}
	if err := s.complete(ctx, "bill", messages, 0, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// SuggestSubstitute proposes a replacement for a missing ingredient
func (s *ChefService) SuggestSubstitute(ctx context.Context, ingredient, dish string, allergies []string) (*types.Substitution, error) {
	prompt := fmt.Sprintf("Substitute for %s in %s?", ingredient, dish)
	if len(allergies) > 0 {
		prompt += " Do not suggest: " + strings.Join(allergies, ", ") + "."
	}
	prompt += ` Return JSON {"substitute": "...", "advice": "..."}`

	var out types.Substitution
	if err := s.complete(ctx, "substitute", []Message{{Role: "user", Content: prompt}}, 0.5, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.Substitute) == "" {
		return nil, fmt.Errorf("%w: substitute: empty suggestion", ErrExternalService)
	}
	return &out, nil
}

// PlanMeal names one dish for a meal slot
func (s *ChefService) PlanMeal(ctx context.Context, slot string, pantryNames, preferences []string, goal string) (string, error) {
	prompt := fmt.Sprintf("Suggest one %s dish.\n- Inventory: %s\n- Preferences: %s\n- Goal: %s\nReturn JSON {\"dish\": \"...\"}",
		slot, strings.Join(pantryNames, ", "), strings.Join(preferences, ", "), goal)

	var out struct {
		Dish string `json:"dish"`
	}
	if err := s.complete(ctx, "plan_"+slot, []Message{{Role: "user", Content: prompt}}, 0.8, &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.Dish) == "" {
		return "", fmt.Errorf("%w: plan: empty dish for %s", ErrExternalService, slot)
	}
	return out.Dish, nil
}

// SearchRecipes suggests dishes for a free-text query ranked by pantry fit
func (s *ChefService) SearchRecipes(ctx context.Context, query string, pantryNames []string) ([]types.SearchResult, error) {
	prompt := fmt.Sprintf("Suggest up to 5 dishes matching %q that can be cooked from: %s.\n"+
		"Score each 0-100 by how much of it the inventory covers.\n"+
		"Return JSON {\"results\": [{\"title\": \"...\", \"match_score\": 90}]}",
		query, strings.Join(pantryNames, ", "))

	var out struct {
		Results []types.SearchResult `json:"results"`
	}
	if err := s.complete(ctx, "search", []Message{{Role: "user", Content: prompt}}, 0.5, &out); err != nil {
		return nil, err
	}
	for i := range out.Results {
		out.Results[i].Source = "ai"
		out.Results[i].SavedRecipeID = nil
	}
	return out.Results, nil
}

// CheckCookingProgress judges a photo of the pot against the current instruction
func (s *ChefService) CheckCookingProgress(ctx context.Context, instruction, imageBase64 string) (*types.ProgressCheck, error) {
	messages := []Message{
		{Role: "system", Content: "You are a Realtime Cooking Safety Assistant. Analyze the visual state of the food."},
		visionMessage(fmt.Sprintf(`CONTEXT: The user is currently executing this instruction: %q.
TASK: Compare the visual state (color, texture, steam) to what is expected for this step,
identify any risks (burning, boiling over, dry pan) and decide if the step is complete.
Return JSON {"status": "on_track" | "risk" | "done" | "undercooked", "message": "...", "correction": "..."}`, instruction), imageBase64),
	}

	var out types.ProgressCheck
	if err := s.complete(ctx, "progress", messages, 0, &out); err != nil {
		return nil, err
	}
	if out.Status == "" {
		return nil, fmt.Errorf("%w: progress: missing status", ErrExternalService)
	}
	return &out, nil
}

func visionMessage(text, imageBase64 string) Message {
	return Message{
		Role: "user",
		Content: []contentPart{
			{Type: "text", Text: text},
			{Type: "image_url", ImageURL: &imageURL{URL: "data:image/jpeg;base64," + imageBase64}},
		},
	}
}

// complete sends one request and decodes the JSON content of the first choice into out
func (s *ChefService) complete(ctx context.Context, operation string, messages []Message, temperature float64, out interface{}) error {
	if s.apiKey == "" || s.apiURL == "" {
		s.metrics.ObserveAI(operation, 0, ErrExternalService)
		return fmt.Errorf("%w: AI API is not configured", ErrExternalService)
	}

	start := time.Now()
	err := s.do(ctx, messages, temperature, out)
	s.metrics.ObserveAI(operation, time.Since(start), err)
	if err != nil {
		s.logger.Warn("chef call failed", zap.String("operation", operation), zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return fmt.Errorf("%w: %s: %v", ErrExternalService, operation, err)
	}
	return nil
}

func (s *ChefService) do(ctx context.Context, messages []Message, temperature float64, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	reqBody := Request{
		Model:    s.model,
		Messages: messages,
		ResponseFormat: map[string]string{
			"type": "json_object",
		},
		Temperature: temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, truncate(string(body), 300))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return fmt.Errorf("no response from API")
	}

	content := extractJSONObject(result.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), out); err != nil {
		return fmt.Errorf("failed to parse content: %w", err)
	}
	return nil
}

// extractJSONObject strips markdown fences and prose around the outermost object
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return s
	}
	return s[start : end+1]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
