package quota

// Auth entry types reported by the management API.
const (
	AuthTypeAntigravity = "antigravity"
	AuthTypeGeminiCLI   = "gemini-cli"

	// AuthTypeAll disables auth-type filtering.
	AuthTypeAll = "all"
)

// AuthEntry is one credential record enumerated by the management
// API's auth-files endpoint. Read-only from this side.
type AuthEntry struct {
	Type      string `json:"type"`
	AuthIndex string `json:"auth_index"`
	Label     string `json:"label,omitempty"`
	Name      string `json:"name,omitempty"`
	Disabled  bool   `json:"disabled,omitempty"`
}

// ModelQuota is one remaining-quota reading for one (auth entry,
// model) pair. RemainingFraction is nominally in [0,1]; it is clamped
// at formatting time, not at creation.
type ModelQuota struct {
	ModelID           string  `json:"model_id"`
	DisplayName       string  `json:"display_name"`
	RemainingFraction float64 `json:"remaining_fraction"`
	AuthType          string  `json:"auth_type"`
}

// Tracked reports which tracked model this reading belongs to.
func (q ModelQuota) Tracked() (TrackedModel, bool) {
	return Classify(q.ModelID, q.DisplayName)
}
