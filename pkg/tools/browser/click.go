package browser

import (
	"context"
	"errors"
	"fmt"

	"github.com/entrhq/webpilot/pkg/browser"
	"github.com/entrhq/webpilot/pkg/session"
	"github.com/entrhq/webpilot/pkg/tools"
)

func coordinateParam(name, axis string) tools.Param {
	min, max := tools.IntRange(0, 10000)
	return tools.Param{
		Name:        name,
		Description: fmt.Sprintf("%s coordinate in viewport pixels", axis),
		Type:        tools.TypeInteger,
		Required:    true,
		Min:         min,
		Max:         max,
	}
}

func (t *Toolset) clickDescriptor() tools.Descriptor {
	return tools.Descriptor{
		Name:        "click_element",
		Description: "Click at viewport coordinates. Draws a numbered highlight box and fires the DOM events frameworks listen for.",
		Params: []tools.Param{
			sessionIDParam(),
			coordinateParam("x", "Horizontal"),
			coordinateParam("y", "Vertical"),
		},
	}
}

func (t *Toolset) click(ctx context.Context, args tools.Args) (string, error) {
	sess, err := t.session(args)
	if err != nil {
		return "", err
	}
	x := args.Int("x")
	y := args.Int("y")

	t.highlight(sess, float64(x), float64(y))

	if err := sess.Page.Click(float64(x), float64(y)); err != nil {
		return "", fmt.Errorf("click operation failed: %w", err)
	}

	// Synthetic events for pages that only react to listeners, not to
	// real pointer input.
	if _, err := sess.Page.Evaluate(clickEventsScript, map[string]interface{}{"x": x, "y": y}); err != nil {
		return "", fmt.Errorf("click event dispatch failed: %w", err)
	}

	t.logger.Infof("session %s clicked at (%d, %d)", sess.ID, x, y)
	return fmt.Sprintf("Clicked at coordinates (%d, %d) with JavaScript events", x, y), nil
}

func (t *Toolset) clickSelectorDescriptor() tools.Descriptor {
	return tools.Descriptor{
		Name:        "click_selector",
		Description: "Click the first element matching a CSS selector, waiting briefly for it to appear.",
		Params: []tools.Param{
			sessionIDParam(),
			{
				Name:        "selector",
				Description: "CSS selector of the element to click",
				Type:        tools.TypeString,
				Required:    true,
			},
		},
	}
}

func (t *Toolset) clickSelector(ctx context.Context, args tools.Args) (string, error) {
	sess, err := t.session(args)
	if err != nil {
		return "", err
	}
	selector := args.String("selector")
	if selector == "" {
		return "", tools.InvalidArgumentf("CSS selector is required")
	}

	el, err := sess.Page.WaitForSelector(selector, selectorWaitTimeout)
	if err != nil {
		if errors.Is(err, browser.ErrNoSuchElement) {
			return "", tools.NotFoundf("element with selector %q not found", selector)
		}
		return "", fmt.Errorf("failed to click element: %w", err)
	}

	// Highlight at the element center when it has a layout box.
	if box, err := el.BoundingBox(); err == nil && box != nil {
		t.highlight(sess, box.X+box.Width/2, box.Y+box.Height/2)
	}

	if err := el.Click(); err != nil {
		return "", fmt.Errorf("failed to click element: %w", err)
	}

	t.logger.Infof("session %s clicked selector %q", sess.ID, selector)
	return fmt.Sprintf("Clicked element with selector: %s", selector), nil
}

// highlight draws the next numbered overlay box centered on the point.
// Drawing is best-effort; a failed overlay never fails the click.
func (t *Toolset) highlight(sess *session.Session, x, y float64) {
	n := sess.NextHighlight()
	_, err := sess.Page.Evaluate(highlightScript, map[string]interface{}{
		"x":      x - 15,
		"y":      y - 15,
		"number": n,
		"color":  "red",
	})
	if err != nil {
		t.logger.Warnf("session %s: highlight %d failed: %v", sess.ID, n, err)
	}
}
