package browser

import (
	"context"
	"fmt"

	"github.com/entrhq/webpilot/pkg/tools"
)

// maxTypedTextLength caps a single type_text payload.
const maxTypedTextLength = 10000

func (t *Toolset) typeTextDescriptor() tools.Descriptor {
	return tools.Descriptor{
		Name:        "type_text",
		Description: "Type text into the currently focused element using keyboard input.",
		Params: []tools.Param{
			sessionIDParam(),
			{
				Name:        "text",
				Description: "Text to type, at most 10000 characters",
				Type:        tools.TypeString,
				Required:    true,
				MaxLen:      maxTypedTextLength,
			},
		},
	}
}

func (t *Toolset) typeText(ctx context.Context, args tools.Args) (string, error) {
	sess, err := t.session(args)
	if err != nil {
		return "", err
	}
	text := args.String("text")

	if err := sess.Page.Type(text); err != nil {
		return "", fmt.Errorf("failed to type text: %w", err)
	}

	t.logger.Infof("session %s typed %d characters", sess.ID, len(text))

	preview := text
	suffix := ""
	if runes := []rune(text); len(runes) > 50 {
		preview = string(runes[:50])
		suffix = "..."
	}
	return fmt.Sprintf("Typed text: %s%s", preview, suffix), nil
}

func (t *Toolset) scrollDescriptor() tools.Descriptor {
	return tools.Descriptor{
		Name:        "scroll_page",
		Description: "Scroll the page one viewport height up or down.",
		Params: []tools.Param{
			sessionIDParam(),
			{
				Name:        "direction",
				Description: "Scroll direction",
				Type:        tools.TypeString,
				Enum:        []string{"up", "down"},
				Default:     "down",
			},
		},
	}
}

func (t *Toolset) scroll(ctx context.Context, args tools.Args) (string, error) {
	sess, err := t.session(args)
	if err != nil {
		return "", err
	}
	direction := args.String("direction")

	script := scrollDownScript
	if direction == "up" {
		script = scrollUpScript
	}
	if _, err := sess.Page.Evaluate(script); err != nil {
		return "", fmt.Errorf("scroll operation failed: %w", err)
	}

	t.logger.Infof("session %s scrolled %s", sess.ID, direction)
	return fmt.Sprintf("Scrolled %s", direction), nil
}
