// Package browser implements the browser automation tools: session
// lifecycle, pointer and keyboard input, page inspection and data
// extraction. Tools validate their arguments through the dispatch
// schema, so handlers here only deal with session lookup and driver
// calls.
package browser

import (
	"fmt"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/gobwas/glob"

	"github.com/entrhq/webpilot/pkg/browser"
	"github.com/entrhq/webpilot/pkg/logging"
	"github.com/entrhq/webpilot/pkg/session"
	"github.com/entrhq/webpilot/pkg/tools"
)

// selectorWaitTimeout bounds how long click_selector waits for its
// element to appear.
const selectorWaitTimeout = 5 * time.Second

// Toolset binds the browser tools to a session store and a driver.
type Toolset struct {
	store    *session.Store
	driver   browser.Driver
	allowed  []glob.Glob
	logger   *logging.Logger
	markdown *md.Converter
}

// NewToolset creates the toolset. allowed is an optional list of URL
// patterns; when non-empty, launch_browser rejects URLs matching none
// of them.
func NewToolset(store *session.Store, driver browser.Driver, allowed []glob.Glob, logger *logging.Logger) *Toolset {
	return &Toolset{
		store:    store,
		driver:   driver,
		allowed:  allowed,
		logger:   logger,
		markdown: md.NewConverter("", true, nil),
	}
}

// Register adds every browser tool to the registry.
func (t *Toolset) Register(r *tools.Registry) error {
	regs := []struct {
		desc    tools.Descriptor
		handler tools.Handler
	}{
		{t.launchDescriptor(), t.launch},
		{t.clickDescriptor(), t.click},
		{t.clickSelectorDescriptor(), t.clickSelector},
		{t.typeTextDescriptor(), t.typeText},
		{t.scrollDescriptor(), t.scroll},
		{t.pageContentDescriptor(), t.pageContent},
		{t.domStructureDescriptor(), t.domStructure},
		{t.screenshotDescriptor(), t.screenshot},
		{t.extractDataDescriptor(), t.extractData},
		{t.clearHighlightsDescriptor(), t.clearHighlights},
		{t.showSelectorsDescriptor(), t.showSelectors},
		{t.closeDescriptor(), t.close},
	}
	for _, reg := range regs {
		if err := r.Register(reg.desc, reg.handler); err != nil {
			return fmt.Errorf("failed to register %s: %w", reg.desc.Name, err)
		}
	}
	return nil
}

// sessionIDParam is shared by every tool that operates on a live session.
func sessionIDParam() tools.Param {
	return tools.Param{
		Name:        "session_id",
		Description: "Identifier of the browser session to operate on",
		Type:        tools.TypeString,
		Required:    true,
	}
}

// session resolves the session_id argument against the store.
func (t *Toolset) session(args tools.Args) (*session.Session, error) {
	return t.store.Get(args.String("session_id"))
}
