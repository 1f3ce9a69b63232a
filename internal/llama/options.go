package llama

const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 1000
)

// Options configures one completion. Nil pointer fields fall back to the
// gateway defaults; set fields always win, including an explicit zero
// temperature.
type Options struct {
	Model       string
	Temperature *float64
	MaxTokens   *int

	// Pass-through sampling overrides, sent only when set.
	TopP *float64
	Stop []string
	Seed *int
}

// Merge returns o with every field set in over replacing the one in o.
func (o Options) Merge(over Options) Options {
	if over.Model != "" {
		o.Model = over.Model
	}
	if over.Temperature != nil {
		o.Temperature = over.Temperature
	}
	if over.MaxTokens != nil {
		o.MaxTokens = over.MaxTokens
	}
	if over.TopP != nil {
		o.TopP = over.TopP
	}
	if over.Stop != nil {
		o.Stop = over.Stop
	}
	if over.Seed != nil {
		o.Seed = over.Seed
	}
	return o
}

// Sampling is shorthand for Options carrying only temperature and token budget.
func Sampling(temperature float64, maxTokens int) Options {
	return Options{Temperature: Float(temperature), MaxTokens: Int(maxTokens)}
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }
