package youtube

// Kind tags a raw item by the renderer key it carries.
type Kind int

const (
	KindUnknown Kind = iota
	KindLockupVideo
	KindLockupOther
	KindVideoRenderer
	KindReelShelf
	KindMessage
)

func (k Kind) String() string {
	switch k {
	case KindLockupVideo:
		return "lockup_video"
	case KindLockupOther:
		return "lockup_other"
	case KindVideoRenderer:
		return "video_renderer"
	case KindReelShelf:
		return "reel_shelf"
	case KindMessage:
		return "message"
	}
	return "unknown"
}

const lockupContentTypeVideo = "LOCKUP_CONTENT_TYPE_VIDEO"

// Item is a classified fragment. Fragment is the renderer body, not the wrapper.
type Item struct {
	Kind     Kind
	Fragment map[string]any
}

// Classify tags one raw list entry. A richItemRenderer wrapper is unwrapped first.
// When an entry carries several renderer keys the modern lockup wins, then the
// legacy renderer, then the Shorts shelf, then the message card.
func Classify(raw any) Item {
	m, ok := raw.(map[string]any)
	if !ok {
		return Item{}
	}
	if inner, ok := digMap(m, "richItemRenderer", "content"); ok {
		m = inner
	}
	if lockup, ok := digMap(m, "lockupViewModel"); ok {
		if ct, _ := digString(lockup, "contentType"); ct == lockupContentTypeVideo {
			return Item{Kind: KindLockupVideo, Fragment: lockup}
		}
		return Item{Kind: KindLockupOther, Fragment: lockup}
	}
	if vr, ok := digMap(m, "videoRenderer"); ok {
		return Item{Kind: KindVideoRenderer, Fragment: vr}
	}
	if shelf, ok := digMap(m, "reelShelfRenderer"); ok {
		return Item{Kind: KindReelShelf, Fragment: shelf}
	}
	if msg, ok := digMap(m, "messageRenderer"); ok {
		return Item{Kind: KindMessage, Fragment: msg}
	}
	return Item{}
}

func classifyAll(raw []any) []Item {
	items := make([]Item, 0, len(raw))
	for _, r := range raw {
		items = append(items, Classify(r))
	}
	return items
}
