package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/entrhq/webpilot/pkg/tools"
)

func (t *Toolset) extractDataDescriptor() tools.Descriptor {
	return tools.Descriptor{
		Name:        "extract_data",
		Description: "Extract structured data matching a pattern. Known patterns (product prices, article headlines, navigation links, form fields) use tuned queries; anything else falls back to a generic text match. At most 20 results.",
		Params: []tools.Param{
			sessionIDParam(),
			{
				Name:        "pattern",
				Description: "What to extract, e.g. \"product prices\" or any free-form keyword",
				Type:        tools.TypeString,
				Required:    true,
			},
		},
	}
}

func (t *Toolset) extractData(ctx context.Context, args tools.Args) (string, error) {
	sess, err := t.session(args)
	if err != nil {
		return "", err
	}
	pattern := args.String("pattern")
	if pattern == "" {
		return "", tools.InvalidArgumentf("extraction pattern is required")
	}

	var extracted interface{}
	if script, ok := extractionStrategies[strings.ToLower(pattern)]; ok {
		extracted, err = sess.Page.Evaluate(script)
	} else {
		extracted, err = sess.Page.Evaluate(genericExtractionScript, pattern)
	}
	if err != nil {
		return "", fmt.Errorf("data extraction failed: %w", err)
	}

	encoded, err := json.MarshalIndent(extracted, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode extracted data: %w", err)
	}

	t.logger.Infof("session %s extracted data for pattern %q", sess.ID, pattern)
	return string(encoded), nil
}
