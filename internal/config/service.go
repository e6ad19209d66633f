package config

type ServiceConfig struct {
	Name         string             `yaml:"name"`
	Environment  string             `yaml:"environment"`
	Version      string             `yaml:"version"`
	ClientURL    string             `yaml:"client_url"`
	LemonSqueezy LemonSqueezyConfig `yaml:"lemonsqueezy"`
	Gemini       GeminiConfig       `yaml:"gemini"`
	Supabase     SupabaseConfig     `yaml:"supabase"`
}

// LemonSqueezyConfig configures the hosted checkout and the signed webhook
// feed. The webhook secret is the HMAC key shared with Lemon Squeezy.
type LemonSqueezyConfig struct {
	WebhookSecret    string `yaml:"webhook_secret"`
	StoreURL         string `yaml:"store_url"`
	StarterVariantID string `yaml:"starter_variant_id"`
	CreatorVariantID string `yaml:"creator_variant_id"`
}

type GeminiConfig struct {
	APIKey  string   `yaml:"api_key"`
	Model   string   `yaml:"model"`
	Timeout Duration `yaml:"timeout"`
}

type SupabaseConfig struct {
	JWTSecret  string `yaml:"jwt_secret"`
	ProjectURL string `yaml:"project_url"`
}
