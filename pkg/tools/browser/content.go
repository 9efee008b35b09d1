package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/entrhq/webpilot/pkg/tools"
)

func (t *Toolset) pageContentDescriptor() tools.Descriptor {
	return tools.Descriptor{
		Name:        "get_page_content",
		Description: "Extract the page content as rendered text or as Markdown converted from the page HTML.",
		Params: []tools.Param{
			sessionIDParam(),
			{
				Name:        "format",
				Description: "Output format",
				Type:        tools.TypeString,
				Enum:        []string{"text", "markdown"},
				Default:     "text",
			},
		},
	}
}

func (t *Toolset) pageContent(ctx context.Context, args tools.Args) (string, error) {
	sess, err := t.session(args)
	if err != nil {
		return "", err
	}

	var content string
	switch args.String("format") {
	case "markdown":
		html, err := sess.Page.Content()
		if err != nil {
			return "", fmt.Errorf("failed to get page content: %w", err)
		}
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			return "", fmt.Errorf("failed to parse page content: %w", err)
		}
		// Script and style bodies would otherwise leak into the markdown.
		doc.Find("script, style, noscript").Remove()
		content = t.markdown.Convert(doc.Selection)
	default:
		result, err := sess.Page.Evaluate(pageTextScript)
		if err != nil {
			return "", fmt.Errorf("failed to get page content: %w", err)
		}
		text, ok := result.(string)
		if !ok {
			return "", fmt.Errorf("unexpected page text result of type %T", result)
		}
		content = text
	}

	t.logger.Infof("session %s extracted %d characters", sess.ID, len(content))
	return content, nil
}

func (t *Toolset) domStructureDescriptor() tools.Descriptor {
	min, max := tools.IntRange(1, 10)
	return tools.Descriptor{
		Name:        "get_dom_structure",
		Description: "Return a depth-limited JSON outline of the DOM: tags, ids, classes and key attributes.",
		Params: []tools.Param{
			sessionIDParam(),
			{
				Name:        "max_depth",
				Description: "How many levels of the tree to include, between 1 and 10",
				Type:        tools.TypeInteger,
				Default:     3,
				Min:         min,
				Max:         max,
			},
		},
	}
}

func (t *Toolset) domStructure(ctx context.Context, args tools.Args) (string, error) {
	sess, err := t.session(args)
	if err != nil {
		return "", err
	}
	maxDepth := args.Int("max_depth")

	outline, err := sess.Page.Evaluate(domOutlineScript, maxDepth)
	if err != nil {
		return "", fmt.Errorf("failed to get DOM structure: %w", err)
	}

	encoded, err := json.MarshalIndent(outline, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode DOM structure: %w", err)
	}

	t.logger.Infof("session %s extracted DOM structure to depth %d", sess.ID, maxDepth)
	return string(encoded), nil
}

func (t *Toolset) screenshotDescriptor() tools.Descriptor {
	return tools.Descriptor{
		Name:        "take_screenshot",
		Description: "Capture a screenshot of the current viewport. The image is processed in memory and discarded.",
		Params: []tools.Param{
			sessionIDParam(),
		},
	}
}

func (t *Toolset) screenshot(ctx context.Context, args tools.Args) (string, error) {
	sess, err := t.session(args)
	if err != nil {
		return "", err
	}

	img, err := sess.Page.Screenshot()
	if err != nil {
		return "", fmt.Errorf("screenshot operation failed: %w", err)
	}

	t.logger.Infof("session %s captured screenshot (%d bytes)", sess.ID, len(img))
	return fmt.Sprintf("Screenshot captured (%d bytes). File processed and cleaned up for security.", len(img)), nil
}
