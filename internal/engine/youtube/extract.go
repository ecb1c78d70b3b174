package youtube

import (
	"log/slog"
	"regexp"
	"strings"
)

// Three render-format families, one extractor each. Every extractor reports
// absence with ok == false; structural surprises never escape as errors.

const (
	badgeStyleLive      = "THUMBNAIL_OVERLAY_BADGE_STYLE_LIVE"
	shortsPlaceholderID = "item"
)

// liveBadgeTexts are the badge captions YouTube uses for live streams.
var liveBadgeTexts = map[string]bool{
	"LIVE": true,
	"라이브":  true,
}

var (
	clockPrefixRe = regexp.MustCompile(`^\d{1,2}:\d{2}`)
	clockStrictRe = regexp.MustCompile(`^\d{1,2}:\d{2}(?::\d{2})?$`)
)

// bylineKeys are tried in order for the legacy channel name.
var bylineKeys = []string{"longBylineText", "shortBylineText", "ownerText"}

// ExtractLockup normalizes a lockupViewModel fragment.
func ExtractLockup(lockup map[string]any) (VideoRecord, bool) {
	id, _ := digString(lockup, "contentId")
	if id == "" {
		return VideoRecord{}, false
	}
	rec := newVideoRecord(id)

	meta, _ := digMap(lockup, "metadata", "lockupMetadataViewModel")
	rec.Title = textField(meta, "title", "content")

	rows, _ := digSlice(meta, "metadata", "contentMetadataViewModel", "metadataRows")
	rec.Channel = textField(rows, 0, "metadataParts", 0, "text", "content")

	overlays, _ := digSlice(lockup, "contentImage", "thumbnailViewModel", "overlays")
	rec.Duration = overlayDuration(overlays)
	if rec.Duration == NotAvailable {
		rec.Duration = metadataDuration(rows)
	}
	if rec.Duration == NotAvailable {
		slog.Debug("lockup: duration not found",
			slog.String("video_id", id), slog.String("title", rec.Title))
	}
	return rec, true
}

// overlayDuration returns the duration from the first overlay entry that yields one.
func overlayDuration(overlays []any) string {
	for _, o := range overlays {
		if d := overlayEntryDuration(o); d != NotAvailable {
			return d
		}
	}
	return NotAvailable
}

func overlayEntryDuration(o any) string {
	if badges, ok := digSlice(o, "thumbnailOverlayBadgeViewModel", "thumbnailBadges"); ok {
		return badgeDuration(badges)
	}
	if text, ok := digMap(o, "thumbnailOverlayTimeStatusRenderer", "text"); ok {
		if d := textField(text, "simpleText"); d != NotAvailable {
			return d
		}
		return textField(text, "accessibility", "accessibilityData", "label")
	}
	if badges, ok := digSlice(o, "thumbnailBottomOverlayViewModel", "badges"); ok {
		for _, b := range badges {
			if vm, ok := digMap(b, "thumbnailBadgeViewModel"); ok {
				return textField(vm, "text")
			}
		}
	}
	return NotAvailable
}

// badgeDuration checks every badge for a live marker before any clock text.
func badgeDuration(badges []any) string {
	texts := make([]string, 0, len(badges))
	for _, b := range badges {
		vm, ok := digMap(b, "thumbnailBadgeViewModel")
		if !ok {
			continue
		}
		text, _ := digString(vm, "text")
		style, _ := digString(vm, "badgeStyle")
		if style == badgeStyleLive || liveBadgeTexts[strings.TrimSpace(text)] {
			return DurationLive
		}
		texts = append(texts, strings.TrimSpace(text))
	}
	for _, t := range texts {
		if clockPrefixRe.MatchString(t) {
			return t
		}
	}
	return NotAvailable
}

// metadataDuration scans metadata rows for a part that is exactly a clock value.
func metadataDuration(rows []any) string {
	for _, row := range rows {
		parts, _ := digSlice(row, "metadataParts")
		for _, p := range parts {
			text, _ := digString(p, "text", "content")
			if clockStrictRe.MatchString(text) {
				return text
			}
		}
	}
	return NotAvailable
}

// ExtractVideoRenderer normalizes a videoRenderer fragment.
func ExtractVideoRenderer(vr map[string]any) (VideoRecord, bool) {
	if vr == nil {
		return VideoRecord{}, false
	}
	id, _ := digString(vr, "videoId")
	if strings.TrimSpace(id) == "" {
		id = NotAvailable
	}
	rec := newVideoRecord(id)

	if title, ok := runsOrSimpleText(vr["title"]); ok {
		rec.Title = title
	}
	for _, key := range bylineKeys {
		if channel, ok := runsOrSimpleText(vr[key]); ok {
			rec.Channel = channel
			break
		}
	}
	rec.Duration = textField(vr, "lengthText", "simpleText")
	return rec, true
}

// ExtractShorts normalizes a shortsLockupViewModel fragment.
func ExtractShorts(s map[string]any) (VideoRecord, bool) {
	var id string
	if entity, _ := digString(s, "entityId"); entity != "" {
		parts := strings.Split(entity, "-")
		id = parts[len(parts)-1]
	}
	if id == "" || id == shortsPlaceholderID {
		id, _ = digString(s, "onTap", "innertubeCommand", "reelWatchEndpoint", "videoId")
	}
	if strings.TrimSpace(id) == "" {
		return VideoRecord{}, false
	}

	title := textField(s, "overlayMetadata", "primaryText", "content")
	if title == NotAvailable {
		title = ShortsChannel
	}
	return VideoRecord{
		Channel:      ShortsChannel,
		Title:        title,
		VideoID:      id,
		Duration:     DurationShorts,
		ThumbnailURL: NotAvailable,
		WatchURL:     ShortsURL(id),
	}, true
}
