package quota

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/ccline/ccline/internal/logging"
)

const (
	authFilesPath = "/v0/management/auth-files"
	apiCallPath   = "/v0/management/api-call"

	antigravityModelsURL = "https://daily-cloudcode-pa.googleapis.com/v1internal:fetchAvailableModels"
	geminiUserQuotaURL   = "https://cloudcode-pa.googleapis.com/v1internal:retrieveUserQuota"

	antigravityUserAgent = "antigravity/1.11.5 windows/amd64"

	authFilesTimeout = 5 * time.Second
	apiCallTimeout   = 10 * time.Second
)

// Fetcher collects remaining-quota readings for every enabled auth
// entry known to the management API. Every network or parse failure
// degrades to an empty contribution; FetchAll never reports an error.
type Fetcher struct {
	host   string
	key    string
	logger *logging.Logger

	authClient  *http.Client
	proxyClient *http.Client
}

// NewFetcher creates a fetcher against the given management host.
func NewFetcher(host, key string, logger *logging.Logger) *Fetcher {
	if logger == nil {
		logger = logging.NewLogger()
	}
	return &Fetcher{
		host:        strings.TrimRight(host, "/"),
		key:         key,
		logger:      logger,
		authClient:  &http.Client{Timeout: authFilesTimeout},
		proxyClient: &http.Client{Timeout: apiCallTimeout},
	}
}

// FetchAll enumerates auth entries and collects per-model quotas for
// each one, preserving entry discovery order. Disabled entries and
// entries excluded by typeFilter contribute nothing. A failed
// enumeration yields an empty result.
func (f *Fetcher) FetchAll(ctx context.Context, typeFilter string) []ModelQuota {
	entries, err := f.ListAuthEntries(ctx)
	if err != nil {
		f.logger.DebugWithContext(ctx, "auth entry listing failed", "error", err.Error())
		return nil
	}

	var all []ModelQuota
	for _, entry := range entries {
		if entry.Disabled {
			continue
		}
		if typeFilter != AuthTypeAll && entry.Type != typeFilter {
			continue
		}

		switch entry.Type {
		case AuthTypeAntigravity:
			all = append(all, f.fetchAntigravity(ctx, entry.AuthIndex)...)
		case AuthTypeGeminiCLI:
			project, ok := ExtractProject(entry.Name)
			if !ok {
				f.logger.DebugWithContext(ctx, "no project in gemini auth entry name", "name", entry.Name)
				continue
			}
			all = append(all, f.fetchGeminiCLI(ctx, entry.AuthIndex, project)...)
		default:
			// Unknown provider types contribute nothing.
		}
	}
	return all
}

type authFilesResponse struct {
	Files []AuthEntry `json:"files"`
}

// ListAuthEntries enumerates the credential records known to the
// management API.
func (f *Fetcher) ListAuthEntries(ctx context.Context) ([]AuthEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.host+authFilesPath, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+f.key)

	resp, err := f.authClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth-files status %d", resp.StatusCode)
	}

	var parsed authFilesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	return parsed.Files, nil
}

// ---------------- Generic proxy call ----------------

type apiCallRequest struct {
	AuthIndex string            `json:"authIndex"`
	Method    string            `json:"method"`
	URL       string            `json:"url"`
	Header    map[string]string `json:"header"`
	Data      string            `json:"data"`
}

type apiCallResponse struct {
	Body  string `json:"body,omitempty"`
	Error string `json:"error,omitempty"`
}

// apiCall dispatches one provider request through the management
// proxy. The $TOKEN$ placeholder is substituted server-side with the
// entry's real bearer token.
func (f *Fetcher) apiCall(ctx context.Context, authIndex, method, targetURL, data string, extraHeaders map[string]string) (*apiCallResponse, error) {
	headers := map[string]string{
		"Authorization": "Bearer $TOKEN$",
		"Content-Type":  "application/json",
	}
	for k, v := range extraHeaders {
		headers[k] = v
	}

	payload, err := json.Marshal(apiCallRequest{
		AuthIndex: authIndex,
		Method:    method,
		URL:       targetURL,
		Header:    headers,
		Data:      data,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.host+apiCallPath, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+f.key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.proxyClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("api-call status %d", resp.StatusCode)
	}

	var parsed apiCallResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}

// ---------------- Antigravity ----------------

type antigravityQuotaInfo struct {
	RemainingFraction *float64 `json:"remainingFraction"`
}

type antigravityModelInfo struct {
	DisplayName string                `json:"displayName"`
	QuotaInfo   *antigravityQuotaInfo `json:"quotaInfo"`
}

type antigravityModelsResponse struct {
	Models map[string]antigravityModelInfo `json:"models"`
}

func (f *Fetcher) fetchAntigravity(ctx context.Context, authIndex string) []ModelQuota {
	resp, err := f.apiCall(ctx, authIndex, http.MethodPost, antigravityModelsURL, "{}", map[string]string{
		"User-Agent": antigravityUserAgent,
	})
	if err != nil {
		f.logger.DebugWithContext(ctx, "antigravity models call failed", "error", err.Error())
		return nil
	}
	if resp.Body == "" {
		return nil
	}

	var parsed antigravityModelsResponse
	if err := json.Unmarshal([]byte(resp.Body), &parsed); err != nil {
		f.logger.DebugWithContext(ctx, "antigravity models body unparsable", "error", err.Error())
		return nil
	}

	// Sort for a deterministic reading order; the upstream map has none.
	modelIDs := make([]string, 0, len(parsed.Models))
	for id := range parsed.Models {
		modelIDs = append(modelIDs, id)
	}
	sort.Strings(modelIDs)

	var quotas []ModelQuota
	for _, modelID := range modelIDs {
		info := parsed.Models[modelID]
		if info.QuotaInfo == nil || info.QuotaInfo.RemainingFraction == nil {
			continue
		}
		displayName := info.DisplayName
		if displayName == "" {
			displayName = modelID
		}
		if _, ok := Classify(modelID, displayName); !ok {
			continue
		}
		quotas = append(quotas, ModelQuota{
			ModelID:           modelID,
			DisplayName:       displayName,
			RemainingFraction: *info.QuotaInfo.RemainingFraction,
			AuthType:          AuthTypeAntigravity,
		})
	}
	return quotas
}

// ---------------- Gemini CLI ----------------

type geminiBucket struct {
	ModelID           string   `json:"modelId"`
	RemainingFraction *float64 `json:"remainingFraction"`
}

type geminiQuotaResponse struct {
	Buckets []geminiBucket `json:"buckets"`
}

// ExtractProject derives the Google Cloud project identifier from a
// gemini auth entry's file-style name, e.g.
// "gemini-user@gmail.com-airy-lodge-481706-r3.json" -> "airy-lodge-481706-r3".
// Names with fewer than four "-"-separated segments or without an
// "@"-bearing segment carry no project.
func ExtractProject(name string) (string, bool) {
	name = strings.TrimSuffix(name, ".json")
	parts := strings.Split(name, "-")
	if len(parts) < 4 {
		return "", false
	}
	for i, part := range parts {
		if strings.Contains(part, "@") {
			return strings.Join(parts[i+1:], "-"), true
		}
	}
	return "", false
}

func (f *Fetcher) fetchGeminiCLI(ctx context.Context, authIndex, project string) []ModelQuota {
	data, err := json.Marshal(map[string]string{"project": project})
	if err != nil {
		return nil
	}

	resp, err := f.apiCall(ctx, authIndex, http.MethodPost, geminiUserQuotaURL, string(data), nil)
	if err != nil {
		f.logger.DebugWithContext(ctx, "gemini quota call failed", "error", err.Error())
		return nil
	}
	if resp.Body == "" {
		return nil
	}

	var parsed geminiQuotaResponse
	if err := json.Unmarshal([]byte(resp.Body), &parsed); err != nil {
		f.logger.DebugWithContext(ctx, "gemini quota body unparsable", "error", err.Error())
		return nil
	}

	var quotas []ModelQuota
	for _, bucket := range parsed.Buckets {
		if bucket.ModelID == "" || bucket.RemainingFraction == nil {
			continue
		}
		if _, ok := Classify(bucket.ModelID, bucket.ModelID); !ok {
			continue
		}
		quotas = append(quotas, ModelQuota{
			ModelID:           bucket.ModelID,
			DisplayName:       bucket.ModelID,
			RemainingFraction: *bucket.RemainingFraction,
			AuthType:          AuthTypeGeminiCLI,
		})
	}
	return quotas
}
