package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/entrhq/webpilot/pkg/tools"
)

func (t *Toolset) clearHighlightsDescriptor() tools.Descriptor {
	return tools.Descriptor{
		Name:        "clear_highlights",
		Description: "Remove all highlight boxes and selector debug overlays from the page.",
		Params: []tools.Param{
			sessionIDParam(),
		},
	}
}

func (t *Toolset) clearHighlights(ctx context.Context, args tools.Args) (string, error) {
	sess, err := t.session(args)
	if err != nil {
		return "", err
	}

	if _, err := sess.Page.Evaluate(clearHighlightsScript); err != nil {
		return "", fmt.Errorf("failed to clear highlights: %w", err)
	}

	t.logger.Infof("session %s cleared highlights", sess.ID)
	return "All highlight boxes cleared from page", nil
}

// selectorQueries maps the element_types argument to the CSS query used
// to collect candidates.
var selectorQueries = map[string]string{
	"buttons":     "button, input[type='button'], input[type='submit'], [role='button']",
	"inputs":      "input, textarea, select",
	"links":       "a[href]",
	"interactive": "button, input, textarea, select, a[href], [onclick], [role='button'], [tabindex]:not([tabindex='-1'])",
	"all":         "button, input, textarea, select, a, [onclick], [role='button'], [role='link'], [tabindex]:not([tabindex='-1'])",
}

// selectorInfo is one visible element reported by the collection script.
type selectorInfo struct {
	Selector string  `json:"selector"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Color    string  `json:"color"`
	Tag      string  `json:"tag"`
	Text     string  `json:"text"`
}

func (t *Toolset) showSelectorsDescriptor() tools.Descriptor {
	return tools.Descriptor{
		Name:        "show_selectors",
		Description: "Overlay numbered debug dots on visible elements and report a usable CSS selector for each. Colors encode the element kind.",
		Params: []tools.Param{
			sessionIDParam(),
			{
				Name:        "element_types",
				Description: "Which elements to annotate",
				Type:        tools.TypeString,
				Enum:        []string{"buttons", "inputs", "links", "interactive", "all"},
				Default:     "interactive",
			},
		},
	}
}

func (t *Toolset) showSelectors(ctx context.Context, args tools.Args) (string, error) {
	sess, err := t.session(args)
	if err != nil {
		return "", err
	}
	elementTypes := args.String("element_types")
	query := selectorQueries[elementTypes]

	raw, err := sess.Page.Evaluate(collectSelectorsScript, query)
	if err != nil {
		return "", fmt.Errorf("failed to show selectors: %w", err)
	}

	infos, err := decodeSelectorInfos(raw)
	if err != nil {
		return "", fmt.Errorf("failed to show selectors: %w", err)
	}

	for i, info := range infos {
		dotArgs := map[string]interface{}{
			"index":    i,
			"selector": info.Selector,
			"x":        info.X,
			"y":        info.Y,
			"width":    info.Width,
			"height":   info.Height,
			"color":    info.Color,
			"tag":      info.Tag,
			"text":     info.Text,
		}
		if _, err := sess.Page.Evaluate(drawSelectorDotScript, dotArgs); err != nil {
			return "", fmt.Errorf("failed to show selectors: %w", err)
		}
	}

	if _, err := sess.Page.Evaluate(hideTooltipScript); err != nil {
		return "", fmt.Errorf("failed to show selectors: %w", err)
	}
	if _, err := sess.Page.Evaluate(drawSelectorLegendScript, len(infos)); err != nil {
		return "", fmt.Errorf("failed to show selectors: %w", err)
	}

	var summary strings.Builder
	fmt.Fprintf(&summary, "Added %d clickable debug dots (%s elements):\n", len(infos), elementTypes)
	summary.WriteString("Blue = Buttons | Green = Inputs | Orange = Links | Purple = Other\n")
	summary.WriteString("Click numbered dots to see selector details in a centered tooltip.\n\n")
	for i, info := range infos {
		if i >= 10 {
			fmt.Fprintf(&summary, "... and %d more\n", len(infos)-10)
			break
		}
		fmt.Fprintf(&summary, "%d. %s (%s)\n", i+1, info.Selector, info.Tag)
	}

	t.logger.Infof("session %s displayed %d selector debug dots", sess.ID, len(infos))
	return summary.String(), nil
}

// decodeSelectorInfos converts the script's result through JSON into
// typed records.
func decodeSelectorInfos(raw interface{}) ([]selectorInfo, error) {
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var infos []selectorInfo
	if err := json.Unmarshal(encoded, &infos); err != nil {
		return nil, err
	}
	return infos, nil
}
