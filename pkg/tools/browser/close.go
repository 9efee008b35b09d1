package browser

import (
	"context"
	"fmt"

	"github.com/entrhq/webpilot/pkg/tools"
)

func (t *Toolset) closeDescriptor() tools.Descriptor {
	return tools.Descriptor{
		Name:        "close_browser",
		Description: "Close a browser session and release its resources.",
		Params: []tools.Param{
			sessionIDParam(),
		},
	}
}

func (t *Toolset) close(ctx context.Context, args tools.Args) (string, error) {
	id := args.String("session_id")
	if err := t.store.Close(id); err != nil {
		return "", err
	}
	return fmt.Sprintf("Browser session %s closed successfully", id), nil
}
