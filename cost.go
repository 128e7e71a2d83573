package careermentor

// Usage counts the tokens consumed by a completion.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

func (u *Usage) Add(other Usage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
}

type TokenRates struct {
	Input  float64
	Output float64
}

// Pricing constants in dollars per million tokens
const (
	Gemini20FlashInputRate      = 0.10
	Gemini20FlashOutputRate     = 0.40
	Gemini20FlashLiteInputRate  = 0.075
	Gemini20FlashLiteOutputRate = 0.30
	GPT4oInputRate              = 2.5
	GPT4oOutputRate             = 10.0
	GPT4oMiniInputRate          = 0.15
	GPT4oMiniOutputRate         = 0.60
)

// ModelPricings is a map of model names to their pricing information
var ModelPricings = map[string]TokenRates{
	"gemini-2.0-flash": {
		Input:  Gemini20FlashInputRate,
		Output: Gemini20FlashOutputRate,
	},
	"gemini-2.0-flash-lite": {
		Input:  Gemini20FlashLiteInputRate,
		Output: Gemini20FlashLiteOutputRate,
	},
	"gpt-4o": {
		Input:  GPT4oInputRate,
		Output: GPT4oOutputRate,
	},
	"gpt-4o-mini": {
		Input:  GPT4oMiniInputRate,
		Output: GPT4oMiniOutputRate,
	},
}

// CostDetails represents detailed cost information for a session
type CostDetails struct {
	InputTokens  int64
	OutputTokens int64
	TotalCost    float64
}

// Price computes the cost of the usage for a model. It reports false when the
// model has no known pricing.
func Price(model string, usage Usage) (float64, bool) {
	pricing, exists := ModelPricings[model]
	if !exists {
		return 0, false
	}
	inputCost := float64(usage.InputTokens) * pricing.Input / 1000000
	outputCost := float64(usage.OutputTokens) * pricing.Output / 1000000
	return inputCost + outputCost, true
}

// Cost returns the accumulated cost of the session.
// It calculates the cost based on the total input and output tokens and the pricing for the session's model.
func (s *Session) Cost() (*CostDetails, bool) {
	s.mu.Lock()
	usage := s.usage
	s.mu.Unlock()

	totalCost, ok := Price(s.model, usage)
	if !ok {
		return nil, false
	}
	return &CostDetails{
		InputTokens:  usage.InputTokens,
		OutputTokens: usage.OutputTokens,
		TotalCost:    totalCost,
	}, true
}
