// Package vision extracts a raw field dictionary from a race flyer image
// using the Anthropic messages API. The model call is a black box to the
// flyer pipeline: an image in, a flat string dictionary out, empty on
// failure.
package vision

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultModel = "claude-haiku-4-5-20251001"

// Option configures the client.
type Option func(*Client)

// WithModel overrides the default model.
func WithModel(m string) Option {
	return func(c *Client) {
		c.model = m
	}
}

// WithRateLimit caps extraction requests per second.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithSDKOptions appends raw SDK options (base URL overrides in tests).
func WithSDKOptions(opts ...option.RequestOption) Option {
	return func(c *Client) {
		c.sdkOpts = append(c.sdkOpts, opts...)
	}
}

// Client calls the vision model for flyer extraction.
type Client struct {
	model   string
	limiter *rate.Limiter
	sdkOpts []option.RequestOption
	client  sdk.Client
}

// NewClient creates a vision extraction client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		model:   defaultModel,
		limiter: rate.NewLimiter(rate.Limit(1), 1),
		sdkOpts: []option.RequestOption{option.WithAPIKey(apiKey)},
	}
	for _, o := range opts {
		o(c)
	}
	c.client = sdk.NewClient(c.sdkOpts...)
	return c
}

const extractionPrompt = `You are a data extraction assistant. Read the race flyer image and
return ONLY a flat JSON object mapping schema field names (event,
festivalName, type, date, city, organiser, startTime, registrationCost,
ageLimitation, distances, and any other fields visible) to the literal
text on the flyer. Use "" for anything not shown. No commentary.`

var mediaTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

// Extract reads the image at path and returns the raw field dictionary
// the model saw on the flyer.
func (c *Client) Extract(ctx context.Context, imagePath string) (map[string]string, error) {
	mediaType, ok := mediaTypes[strings.ToLower(filepath.Ext(imagePath))]
	if !ok {
		return nil, eris.Errorf("vision: unsupported image type %s", filepath.Ext(imagePath))
	}

	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, eris.Wrapf(err, "vision: read image %s", imagePath)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "vision: rate limit wait")
	}

	msg, err := c.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(c.model),
		MaxTokens: 2048,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(
				sdk.NewImageBlockBase64(mediaType, base64.StdEncoding.EncodeToString(data)),
				sdk.NewTextBlock(extractionPrompt),
			),
		},
	})
	if err != nil {
		return nil, eris.Wrapf(err, "vision: extract %s", filepath.Base(imagePath))
	}

	var text strings.Builder
	for _, b := range msg.Content {
		text.WriteString(b.Text)
	}

	fields, err := decodeFields(text.String())
	if err != nil {
		return nil, eris.Wrapf(err, "vision: decode fields for %s", filepath.Base(imagePath))
	}
	return fields, nil
}

// decodeFields parses the model output into a flat string dictionary,
// tolerating code fences and non-string scalar values.
func decodeFields(raw string) (map[string]string, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var loose map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &loose); err != nil {
		return nil, err
	}

	fields := make(map[string]string, len(loose))
	for k, v := range loose {
		switch val := v.(type) {
		case nil:
			fields[k] = ""
		case string:
			fields[k] = val
		default:
			b, err := json.Marshal(val)
			if err != nil {
				continue
			}
			fields[k] = string(b)
		}
	}
	return fields, nil
}
