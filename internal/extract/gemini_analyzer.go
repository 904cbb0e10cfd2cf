package extract

import (
	"context"
	"fmt"
	"sync"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/option"

	"github.com/slimreset/slimcoach/internal/config"
)

// GeminiAnalyzer runs the extraction prompt against Vertex AI. The client is
// created lazily on the first call so the server can boot without Google
// credentials being reachable.
type GeminiAnalyzer struct {
	projectID       string
	location        string
	credentialsFile string
	modelName       string

	mu     sync.Mutex
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiAnalyzer(cfg *config.Config) *GeminiAnalyzer {
	return &GeminiAnalyzer{
		projectID:       cfg.GoogleProjectID,
		location:        cfg.GoogleLocation,
		credentialsFile: cfg.GoogleCredentialsFile,
		modelName:       cfg.GeminiModel,
	}
}

func (a *GeminiAnalyzer) ensureModel(ctx context.Context) (*genai.GenerativeModel, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.model != nil {
		return a.model, nil
	}

	opts := []option.ClientOption{}
	if a.credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(a.credentialsFile))
	}

	client, err := genai.NewClient(ctx, a.projectID, a.location, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex client: %w", err)
	}

	a.client = client
	a.model = client.GenerativeModel(a.modelName)
	return a.model, nil
}

func (a *GeminiAnalyzer) Analyze(ctx context.Context, userInput string) (*Analysis, error) {
	model, err := a.ensureModel(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := model.GenerateContent(ctx, genai.Text(extractionPrompt+"\n\n"+userInput))
	if err != nil {
		return nil, fmt.Errorf("failed to call gemini: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("no response generated")
	}
	candidate := resp.Candidates[0]
	if len(candidate.Content.Parts) == 0 {
		return nil, fmt.Errorf("no content in response")
	}

	textContent := fmt.Sprintf("%v", candidate.Content.Parts[0])
	return decodeAnalysis(textContent, userInput), nil
}

// Close releases the underlying client.
func (a *GeminiAnalyzer) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		err := a.client.Close()
		a.client = nil
		a.model = nil
		return err
	}
	return nil
}
