package media

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"google.golang.org/genai"
)

// OpenAIImages calls an OpenAI-compatible images/generations endpoint.
type OpenAIImages struct {
	client *resty.Client
	model  string
}

// NewOpenAIImages returns a DALL-E backend. model defaults to dall-e-3.
func NewOpenAIImages(baseURL, apiKey, model string) *OpenAIImages {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if model == "" {
		model = "dall-e-3"
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetAuthToken(apiKey).
		SetTimeout(2 * time.Minute)
	return &OpenAIImages{client: client, model: model}
}

func (o *OpenAIImages) Name() string { return "openai:" + o.model }

type imageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	Quality        string `json:"quality"`
	Style          string `json:"style"`
	ResponseFormat string `json:"response_format"`
}

type imageResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (o *OpenAIImages) Image(ctx context.Context, prompt string, aspect AspectRatio) ([]byte, string, error) {
	var out imageResponse
	resp, err := o.client.R().
		SetContext(ctx).
		SetBody(imageRequest{
			Model:          o.model,
			Prompt:         prompt,
			N:              1,
			Size:           aspect.openAISize(),
			Quality:        "standard",
			Style:          "natural",
			ResponseFormat: "b64_json",
		}).
		SetResult(&out).
		SetError(&out).
		Post("/images/generations")
	if err != nil {
		return nil, "", fmt.Errorf("request: %w", err)
	}
	if resp.IsError() {
		if out.Error != nil {
			return nil, "", fmt.Errorf("%s: %s", resp.Status(), out.Error.Message)
		}
		return nil, "", fmt.Errorf("%s", resp.Status())
	}
	if len(out.Data) == 0 || out.Data[0].B64JSON == "" {
		return nil, "", errors.New("no image data returned")
	}
	data, err := base64.StdEncoding.DecodeString(out.Data[0].B64JSON)
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return data, "image/png", nil
}

// Imagen generates images through the Gemini API.
type Imagen struct {
	client *genai.Client
	model  string
}

// NewImagen returns an Imagen backend. model defaults to imagen-4.0-generate-001.
func NewImagen(client *genai.Client, model string) *Imagen {
	if model == "" {
		model = "imagen-4.0-generate-001"
	}
	return &Imagen{client: client, model: model}
}

func (m *Imagen) Name() string { return "imagen:" + m.model }

func (m *Imagen) Image(ctx context.Context, prompt string, aspect AspectRatio) ([]byte, string, error) {
	resp, err := m.client.Models.GenerateImages(ctx, m.model, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		AspectRatio:    aspect.ratio(),
		OutputMIMEType: "image/png",
	})
	if err != nil {
		return nil, "", err
	}
	for _, img := range resp.GeneratedImages {
		if img != nil && img.Image != nil && len(img.Image.ImageBytes) > 0 {
			ct := img.Image.MIMEType
			if ct == "" {
				ct = "image/png"
			}
			return img.Image.ImageBytes, ct, nil
		}
	}
	return nil, "", errors.New("no image returned")
}

// Veo generates short videos through the Gemini API. Generation is a
// long-running operation that is polled until done.
type Veo struct {
	client   *genai.Client
	model    string
	poll     time.Duration
	deadline time.Duration
}

// NewVeo returns a Veo backend. model defaults to veo-3.0-generate-001.
func NewVeo(client *genai.Client, model string) *Veo {
	if model == "" {
		model = "veo-3.0-generate-001"
	}
	return &Veo{client: client, model: model, poll: 10 * time.Second, deadline: 6 * time.Minute}
}

func (v *Veo) Name() string { return "veo:" + v.model }

func (v *Veo) Video(ctx context.Context, prompt string, aspect AspectRatio) ([]byte, string, error) {
	ctx, cancel := context.WithTimeout(ctx, v.deadline)
	defer cancel()

	ratio := aspect.ratio()
	if aspect == Square {
		// Veo only renders landscape and portrait.
		ratio = Horizontal.ratio()
	}
	op, err := v.client.Models.GenerateVideos(ctx, v.model, prompt, nil, &genai.GenerateVideosConfig{
		NumberOfVideos: 1,
		AspectRatio:    ratio,
	})
	if err != nil {
		return nil, "", err
	}

	ticker := time.NewTicker(v.poll)
	defer ticker.Stop()
	for !op.Done {
		select {
		case <-ctx.Done():
			return nil, "", fmt.Errorf("waiting for video: %w", ctx.Err())
		case <-ticker.C:
		}
		op, err = v.client.Operations.GetVideosOperation(ctx, op, nil)
		if err != nil {
			return nil, "", fmt.Errorf("poll operation: %w", err)
		}
	}
	if op.Error != nil {
		return nil, "", fmt.Errorf("operation failed: %v", op.Error["message"])
	}
	if op.Response == nil || len(op.Response.GeneratedVideos) == 0 || op.Response.GeneratedVideos[0].Video == nil {
		return nil, "", errors.New("no video returned")
	}
	video := op.Response.GeneratedVideos[0].Video
	if len(video.VideoBytes) == 0 {
		data, err := v.client.Files.Download(ctx, genai.NewDownloadURIFromVideo(video), nil)
		if err != nil {
			return nil, "", fmt.Errorf("download video: %w", err)
		}
		video.VideoBytes = data
	}
	ct := video.MIMEType
	if ct == "" {
		ct = "video/mp4"
	}
	return video.VideoBytes, ct, nil
}
