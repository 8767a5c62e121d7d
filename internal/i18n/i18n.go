// Package i18n renders notification events into user-facing strings. It is
// the translation half of the transport collaborator: the core only emits
// {kind, chat, params} events and never concerns itself with wording.
package i18n

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"golang.org/x/text/language"

	"github.com/yeldir/leetbot/internal/events"
)

// Renderer maps notification events to text in a resolved locale. Line pools
// (insults, timing callouts) are sampled from the injected random source so
// tests can pin the choice.
type Renderer struct {
	matcher  language.Matcher
	codes    []string
	catalogs map[string]*catalog

	mu  sync.Mutex
	rnd *rand.Rand
}

// New creates a renderer over the built-in catalogs. rnd must not be nil.
func New(rnd *rand.Rand) *Renderer {
	codes := []string{"de", "en"}
	tags := []language.Tag{language.German, language.English}
	return &Renderer{
		matcher:  language.NewMatcher(tags),
		codes:    codes,
		catalogs: map[string]*catalog{"de": catalogDE, "en": catalogEN},
		rnd:      rnd,
	}
}

// Resolve maps an arbitrary language code onto a supported one. Unknown or
// malformed codes fall back to the first supported language (German, like
// the catalogs' origin).
func (r *Renderer) Resolve(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return r.codes[0]
	}
	_, idx, _ := r.matcher.Match(tag)
	return r.codes[idx]
}

func (r *Renderer) sample(lines []string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return lines[r.rnd.Intn(len(lines))]
}

// Render produces the chat text for a notification in the given language.
func (r *Renderer) Render(lang string, n events.Notification) string {
	cat := r.catalogs[r.Resolve(lang)]

	switch n.Kind {
	case events.KindStart:
		return cat.start
	case events.KindEnabled:
		return cat.enabled
	case events.KindAlreadyEnabled:
		return cat.alreadyEnabled
	case events.KindDisabled:
		return cat.disabled
	case events.KindAlreadyDisabled:
		return cat.alreadyDisabled
	case events.KindReminder:
		return cat.reminder
	case events.KindCountdown:
		return cat.countdown
	case events.KindViolationOffender:
		return fmt.Sprintf(r.sample(cat.offenderLines), paramString(n, "offender"))
	case events.KindViolationTiming:
		return r.sample(cat.timingLines)
	case events.KindReportSummary:
		return r.renderReport(cat, n)
	case events.KindLanguageChanged:
		return cat.languageChanged
	case events.KindLanguageUnknown:
		return fmt.Sprintf(cat.languageUnknown, paramString(n, "language"))
	case events.KindInfoSummary:
		return r.renderInfo(cat, n)
	case events.KindDebugDump:
		return paramString(n, "dump")
	case events.KindStateReset:
		return cat.stateReset
	}
	return ""
}

func (r *Renderer) renderReport(cat *catalog, n events.Notification) string {
	count := paramInt(n, "count")

	var b strings.Builder
	if count == 0 {
		b.WriteString(cat.reportNoone)
	} else {
		fmt.Fprintf(&b, cat.reportCount, count)
		if paramBool(n, "new_record") {
			b.WriteString("\n")
			fmt.Fprintf(&b, cat.reportNewRecord, paramInt(n, "delta"))
		}
		participants := paramStrings(n, "participants")
		b.WriteString("\n")
		if count == 1 {
			fmt.Fprintf(&b, cat.reportParticipant, strings.Join(participants, ", "))
		} else {
			fmt.Fprintf(&b, cat.reportParticipants, strings.Join(participants, ", "))
		}
		b.WriteString("\n")
		fmt.Fprintf(&b, cat.reportWinner, paramString(n, "winner"))
		b.WriteString("\n")
		b.WriteString(cat.reportCongrats)
	}
	if paramBool(n, "aborted") {
		b.WriteString("\n")
		b.WriteString(cat.reportAborted)
	}
	return b.String()
}

func (r *Renderer) renderInfo(cat *catalog, n events.Notification) string {
	var b strings.Builder
	fmt.Fprintf(&b, cat.infoLanguage, paramString(n, "language"))
	b.WriteString("\n")
	if paramBool(n, "active") {
		b.WriteString(cat.infoActive)
		b.WriteString("\n")
		fmt.Fprintf(&b, cat.infoRecord, paramInt(n, "record"))
	} else {
		b.WriteString(cat.infoInactive)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, cat.infoLeetTime,
		paramInt(n, "hour"), paramInt(n, "minute"), paramString(n, "timezone"))
	b.WriteString("\n")
	fmt.Fprintf(&b, cat.infoVersion, paramString(n, "version"))
	return b.String()
}

func paramString(n events.Notification, key string) string {
	if v, ok := n.Params[key].(string); ok {
		return v
	}
	return ""
}

func paramInt(n events.Notification, key string) int {
	if v, ok := n.Params[key].(int); ok {
		return v
	}
	return 0
}

func paramBool(n events.Notification, key string) bool {
	if v, ok := n.Params[key].(bool); ok {
		return v
	}
	return false
}

func paramStrings(n events.Notification, key string) []string {
	if v, ok := n.Params[key].([]string); ok {
		return v
	}
	return nil
}
