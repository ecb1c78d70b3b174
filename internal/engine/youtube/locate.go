package youtube

import (
	"log/slog"
	"strings"
)

// MaxRecommendations caps the recommendation list.
const MaxRecommendations = 3

type extractFunc func(map[string]any) (VideoRecord, bool)

// historyTiers is the dispatch order for history items.
var historyTiers = []struct {
	kind    Kind
	extract extractFunc
}{
	{KindLockupVideo, ExtractLockup},
	{KindVideoRenderer, ExtractVideoRenderer},
	{KindReelShelf, firstShort},
}

// LocateHistory returns the most recently watched video of a /feed/history document.
func LocateHistory(doc Document) (VideoRecord, bool) {
	raw, ok := historyItems(doc)
	if !ok {
		slog.Warn("history: no item list found")
		return VideoRecord{}, false
	}
	items := classifyAll(raw)

	for _, it := range items {
		if it.Kind == KindUnknown {
			continue
		}
		if it.Kind == KindMessage {
			slog.Warn("history: youtube message", slog.String("text", joinedText(it.Fragment["text"])))
			return VideoRecord{}, false
		}
		break
	}

	for _, tier := range historyTiers {
		for _, it := range items {
			if it.Kind != tier.kind {
				continue
			}
			if rec, ok := tier.extract(it.Fragment); ok {
				slog.Debug("history: located", slog.String("kind", tier.kind.String()), slog.String("video_id", rec.VideoID))
				return rec, true
			}
		}
	}
	slog.Warn("history: no video found", slog.Int("items", len(items)))
	return VideoRecord{}, false
}

// historyItems tries the fixed first-tab/first-section path, then every tab and
// section for the first non-empty item list.
func historyItems(doc Document) ([]any, bool) {
	tabs := doc.browseTabs()
	items, ok := digSlice(tabs, 0, "tabRenderer", "content", "sectionListRenderer", "contents", 0, "itemSectionRenderer", "contents")
	if ok && len(items) > 0 {
		return items, true
	}
	slog.Debug("history: primary path missed, scanning sections", slog.Int("tabs", len(tabs)))
	for ti, tab := range tabs {
		sections, _ := digSlice(tab, "tabRenderer", "content", "sectionListRenderer", "contents")
		for si, sec := range sections {
			if items, ok := digSlice(sec, "itemSectionRenderer", "contents"); ok && len(items) > 0 {
				slog.Debug("history: found items", slog.Int("tab", ti), slog.Int("section", si))
				return items, true
			}
		}
	}
	return nil, false
}

// firstShort extracts the first eligible entry of a reelShelfRenderer.
func firstShort(shelf map[string]any) (VideoRecord, bool) {
	entries, _ := digSlice(shelf, "items")
	for _, e := range entries {
		vm, ok := digMap(e, "shortsLockupViewModel")
		if !ok {
			continue
		}
		if rec, ok := ExtractShorts(vm); ok {
			return rec, true
		}
	}
	return VideoRecord{}, false
}

// LocateRecommendations returns up to MaxRecommendations videos from the selected
// home tab's grid, in page order.
func LocateRecommendations(doc Document) []VideoRecord {
	for _, tab := range doc.browseTabs() {
		if selected, _ := dig(tab, "tabRenderer", "selected"); selected != true {
			continue
		}
		contents, _ := digSlice(tab, "tabRenderer", "content", "richGridRenderer", "contents")
		slog.Debug("recommended: grid found", slog.Int("items", len(contents)))

		recs := make([]VideoRecord, 0, MaxRecommendations)
		for _, raw := range contents {
			var (
				rec VideoRecord
				ok  bool
			)
			switch it := Classify(raw); it.Kind {
			case KindLockupVideo:
				rec, ok = ExtractLockup(it.Fragment)
			case KindVideoRenderer:
				rec, ok = ExtractVideoRenderer(it.Fragment)
			}
			if !ok {
				continue
			}
			recs = append(recs, rec)
			if len(recs) >= MaxRecommendations {
				break
			}
		}
		return recs
	}
	slog.Warn("recommended: no selected tab")
	return nil
}

// LocateSubscriptions reads channel names from the first expanded shelf in a
// /feed/channels document. A document without a shelf is an empty subscription list.
func LocateSubscriptions(doc Document) SubscriptionSnapshot {
	items := channelShelfItems(doc)
	if items == nil {
		slog.Warn("subscriptions: no channel list found")
		return NewSubscriptionSnapshot(nil)
	}
	channels := make([]ChannelRecord, 0, len(items))
	for _, it := range items {
		name, _ := digString(it, "channelRenderer", "title", "simpleText")
		if strings.TrimSpace(name) == "" {
			continue
		}
		channels = append(channels, ChannelRecord{Name: name})
	}
	return NewSubscriptionSnapshot(channels)
}

func channelShelfItems(doc Document) []any {
	for _, tab := range doc.browseTabs() {
		sections, _ := digSlice(tab, "tabRenderer", "content", "sectionListRenderer", "contents")
		for _, sec := range sections {
			entries, _ := digSlice(sec, "itemSectionRenderer", "contents")
			for _, e := range entries {
				items, ok := digSlice(e, "shelfRenderer", "content", "expandedShelfContentsRenderer", "items")
				if ok && len(items) > 0 {
					return items
				}
			}
		}
	}
	return nil
}
