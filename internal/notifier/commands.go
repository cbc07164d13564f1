package notifier

import (
	"strings"

	"MarketPulse/internal/model"
)

// BoardReader returns the latest published snapshot of a page.
type BoardReader interface {
	Get(page model.Page) (model.Snapshot, bool)
}

const helpText = "可用命令:\n• /market\n• /sentiment\n• /bias\n• /composite\n• /macro"

// Commands answers chat commands from the latest boards.
type Commands struct {
	Boards BoardReader
}

// Handle returns the reply to command.
func (c *Commands) Handle(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	cmd := strings.ToLower(fields[0])
	if i := strings.IndexByte(cmd, '@'); i > 0 {
		cmd = cmd[:i]
	}
	var page model.Page
	switch cmd {
	case "/market":
		page = model.PageMarket
	case "/sentiment":
		page = model.PageSentiment
	case "/bias":
		page = model.PageBias
	case "/composite":
		page = model.PageComposite
	case "/macro":
		page = model.PageMacro
	default:
		return helpText
	}

	snap, ok := c.Boards.Get(page)
	if !ok {
		return "資料尚未產生，請稍後再試"
	}
	return Format(snap)
}

// Format renders any board that has a chat layout.
func Format(snap model.Snapshot) string {
	switch b := snap.(type) {
	case *model.MarketBoard:
		return FormatMarket(b)
	case *model.SentimentBoard:
		return FormatSentiment(b)
	case *model.BiasBoard:
		return FormatBias(b)
	case *model.CompositeBoard:
		return FormatComposite(b)
	case *model.MacroBoard:
		return FormatMacro(b)
	default:
		return ""
	}
}
