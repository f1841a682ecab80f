// Package downloader fetches model files from HuggingFace Hub so they can be
// audited locally.
package downloader

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Overridable for testing.
var (
	huggingFaceAPI = "https://huggingface.co/api/models/"
	huggingFaceCDN = "https://huggingface.co/"
)

func init() {
	if apiURL := os.Getenv("HUGGINGFACE_API_URL"); apiURL != "" {
		huggingFaceAPI = apiURL
	}
	if cdnURL := os.Getenv("HUGGINGFACE_CDN_URL"); cdnURL != "" {
		huggingFaceCDN = cdnURL
	}
}

// modelExtensions are the file suffixes worth downloading for analysis: the
// formats the analyzer has normalizers for.
var modelExtensions = []string{".onnx", ".tflite", ".keras", ".h5", ".pt", ".pth"}

// ModelSource is a remote source of model files.
type ModelSource interface {
	// DownloadModel downloads the model's files into destination and returns
	// the local paths.
	DownloadModel(modelID string, destination string) (*DownloadResult, error)
}

// DownloadResult lists the downloaded files.
type DownloadResult struct {
	// ModelPaths are the analyzable model files, in repository order.
	ModelPaths []string
	// ExtraPaths are auxiliary files (configs, tokenizer data).
	ExtraPaths []string
}

// Downloader drives a ModelSource.
type Downloader struct {
	source ModelSource
}

// NewDownloader creates a Downloader backed by the given source.
func NewDownloader(source ModelSource) *Downloader {
	return &Downloader{source: source}
}

// Download fetches a model and its auxiliary files.
func (d *Downloader) Download(modelID string, destination string) (*DownloadResult, error) {
	return d.source.DownloadModel(modelID, destination)
}

// HuggingFaceSource downloads from HuggingFace Hub, optionally authenticated.
type HuggingFaceSource struct {
	client *http.Client
	apiKey string
}

// NewHuggingFaceSource creates a HuggingFace source; apiKey may be empty for
// public repositories.
func NewHuggingFaceSource(apiKey string) *HuggingFaceSource {
	return &HuggingFaceSource{
		client: &http.Client{},
		apiKey: apiKey,
	}
}

type hubModelInfo struct {
	ModelID  string `json:"modelId"`
	Siblings []struct {
		RPath string `json:"rfilename"`
	} `json:"siblings"`
}

// DownloadModel fetches every analyzable model file of the repository plus its
// JSON config sidecars.
func (h *HuggingFaceSource) DownloadModel(modelID string, destination string) (*DownloadResult, error) {
	info, err := h.fetchModelInfo(modelID)
	if err != nil {
		return nil, err
	}

	result := &DownloadResult{}
	for _, sibling := range info.Siblings {
		rPath := sibling.RPath
		local := filepath.Join(destination, filepath.Base(rPath))
		url := huggingFaceCDN + modelID + "/resolve/main/" + rPath

		switch {
		case isModelFile(rPath):
			if err := h.downloadFile(url, local); err != nil {
				return nil, fmt.Errorf("failed to download model file %s: %w", rPath, err)
			}
			result.ModelPaths = append(result.ModelPaths, local)
		case strings.HasSuffix(rPath, ".json"):
			if err := h.downloadFile(url, local); err != nil {
				return nil, fmt.Errorf("failed to download config file %s: %w", rPath, err)
			}
			result.ExtraPaths = append(result.ExtraPaths, local)
		}
	}

	if len(result.ModelPaths) == 0 {
		return nil, fmt.Errorf("no analyzable model files found for model ID: %s", modelID)
	}
	return result, nil
}

func (h *HuggingFaceSource) fetchModelInfo(modelID string) (*hubModelInfo, error) {
	req, err := http.NewRequest(http.MethodGet, huggingFaceAPI+modelID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build model info request: %w", err)
	}
	h.authorize(req)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch model info from HuggingFace API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HuggingFace API returned non-OK status: %s", resp.Status)
	}

	var info hubModelInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode HuggingFace API response: %w", err)
	}
	return &info, nil
}

func (h *HuggingFaceSource) downloadFile(url, filePath string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", filePath, err)
	}

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build download request: %w", err)
	}
	h.authorize(req)

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download %s: status %s", url, resp.Status)
	}

	out, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filePath, err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to write %s: %w", filePath, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", filePath, err)
	}
	return nil
}

func (h *HuggingFaceSource) authorize(req *http.Request) {
	if h.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.apiKey)
	}
}

func isModelFile(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range modelExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
