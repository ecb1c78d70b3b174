package youtube

// Builders for ytInitialData fragments shaped like the live site.

type obj = map[string]any
type arr = []any

func lockup(id, title, channel string, overlays ...any) obj {
	return obj{
		"contentId":   id,
		"contentType": lockupContentTypeVideo,
		"metadata": obj{"lockupMetadataViewModel": obj{
			"title": obj{"content": title},
			"metadata": obj{"contentMetadataViewModel": obj{
				"metadataRows": arr{obj{"metadataParts": arr{obj{"text": obj{"content": channel}}}}},
			}},
		}},
		"contentImage": obj{"thumbnailViewModel": obj{"overlays": arr(overlays)}},
	}
}

func timeStatus(text string) obj {
	return obj{"thumbnailOverlayTimeStatusRenderer": obj{"text": obj{"simpleText": text}}}
}

func badgeOverlay(badges ...obj) obj {
	list := make(arr, 0, len(badges))
	for _, b := range badges {
		list = append(list, obj{"thumbnailBadgeViewModel": b})
	}
	return obj{"thumbnailOverlayBadgeViewModel": obj{"thumbnailBadges": list}}
}

func videoRenderer(id, title, channel, length string) obj {
	vr := obj{
		"videoId":        id,
		"title":          obj{"runs": arr{obj{"text": title}}},
		"longBylineText": obj{"runs": arr{obj{"text": channel}}},
	}
	if length != "" {
		vr["lengthText"] = obj{"simpleText": length}
	}
	return vr
}

func shorts(entityID, title string) obj {
	s := obj{"entityId": entityID}
	if title != "" {
		s["overlayMetadata"] = obj{"primaryText": obj{"content": title}}
	}
	return s
}

func message(text string) obj {
	return obj{"messageRenderer": obj{"text": obj{"runs": arr{obj{"text": text}}}}}
}

func section(items ...any) obj {
	return obj{"itemSectionRenderer": obj{"contents": arr(items)}}
}

func tab(selected bool, content obj) obj {
	return obj{"tabRenderer": obj{"selected": selected, "content": content}}
}

func sectionList(sections ...any) obj {
	return obj{"sectionListRenderer": obj{"contents": arr(sections)}}
}

func grid(items ...any) obj {
	return obj{"richGridRenderer": obj{"contents": arr(items)}}
}

func richItem(content obj) obj {
	return obj{"richItemRenderer": obj{"content": content}}
}

func channelShelf(names ...string) obj {
	items := make(arr, 0, len(names))
	for _, n := range names {
		items = append(items, obj{"channelRenderer": obj{"title": obj{"simpleText": n}}})
	}
	return obj{"shelfRenderer": obj{"content": obj{"expandedShelfContentsRenderer": obj{"items": items}}}}
}

func browseDoc(tabs ...any) Document {
	return Document{"contents": obj{"twoColumnBrowseResultsRenderer": obj{"tabs": arr(tabs)}}}
}

func historyDoc(items ...any) Document {
	return browseDoc(tab(true, sectionList(section(items...))))
}
