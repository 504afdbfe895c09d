// ABOUTME: Icon system with Nerd Font detection and Unicode fallback
// ABOUTME: Provides consistent iconography across different terminal capabilities

package icons

import (
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// nerdFontTerminals usually run with a patched font
var nerdFontTerminals = []string{"iterm", "alacritty", "wezterm", "kitty", "ghostty"}

// HasNerdFonts reports whether Nerd Font glyphs should be drawn. It is decided once per process.
var HasNerdFonts = sync.OnceValue(detectNerdFonts)

// detectNerdFonts honors OPTIFUSE_NERD_FONTS, then guesses from the terminal
func detectNerdFonts() bool {
	if v := os.Getenv("OPTIFUSE_NERD_FONTS"); v != "" {
		on, err := strconv.ParseBool(v)
		return err == nil && on
	}

	hint := strings.ToLower(os.Getenv("TERM_PROGRAM") + " " + os.Getenv("TERM"))
	return slices.ContainsFunc(nerdFontTerminals, func(t string) bool {
		return strings.Contains(hint, t)
	})
}

// Icon represents an icon with Nerd Font and Unicode fallback variants
type Icon struct {
	NerdFont string
	Fallback string
}

// String returns the appropriate icon based on font availability
func (i Icon) String() string {
	if HasNerdFonts() {
		return i.NerdFont
	}
	return i.Fallback
}

// Icon definitions - Nerd Font codepoints with Unicode fallbacks
var (
	// Domain objects
	Repo     = Icon{"", "▣"} // nf-oct-repo
	Function = Icon{"󰡱", "λ"} // nf-md-lambda
	File     = Icon{"", "□"} // nf-oct-file_code
	Cloud    = Icon{"", "☁"} // nf-oct-cloud
	Key      = Icon{"", "⚿"} // nf-oct-key
	Star     = Icon{"", "★"} // nf-oct-star

	// Status indicators
	CheckOK  = Icon{"", "✓"} // nf-oct-check_circle
	Warning  = Icon{"", "⚠"} // nf-oct-alert
	Critical = Icon{"", "✗"} // nf-oct-x_circle
	Info     = Icon{"", "ℹ"} // nf-oct-info

	// Actions
	Optimize = Icon{"󰂓", "✦"} // nf-md-auto_fix
	Simulate = Icon{"󰓅", "◐"} // nf-md-gauge
	Refresh  = Icon{"󰑓", "↻"} // nf-md-refresh
	Copy     = Icon{"", "⧉"} // nf-oct-copy
	Back     = Icon{"󰁍", "←"} // nf-md-arrow_left
	Quit     = Icon{"󰗼", "×"} // nf-md-exit_to_app

	// Application
	App      = Icon{"󱐋", "◈"} // nf-md-lightning_bolt
	Settings = Icon{"󰒓", "⚙"} // nf-md-cog
)
