package feedstate

// LikeMergeable is implemented by items carrying a like counter and the
// viewer's liked flag.
type LikeMergeable[T any] interface {
	LikeTargetID() string
	LikeState() (count int64, liked bool)
	WithLikeState(count int64, liked bool) T
}

// ReplyCountable is implemented by items carrying a reply counter.
type ReplyCountable[T any] interface {
	LikeTargetID() string
	ReplyState() int64
	WithReplyCount(count int64) T
}

// MergeLikeResult applies a completed like toggle to a fetched list. The
// matching item's count moves by one in the toggle's direction, never below
// zero, and its liked flag takes the result. Other items and the order are
// kept. items is not modified.
func MergeLikeResult[T LikeMergeable[T]](items []T, targetID string, liked bool) []T {
	out := make([]T, len(items))
	for i, item := range items {
		if item.LikeTargetID() != targetID {
			out[i] = item
			continue
		}
		count, _ := item.LikeState()
		if liked {
			count++
		} else if count > 0 {
			count--
		}
		out[i] = item.WithLikeState(count, liked)
	}
	return out
}

// MergeLikeResultGrouped applies MergeLikeResult to every group, such as the
// reply lists keyed by parent comment.
func MergeLikeResultGrouped[T LikeMergeable[T]](groups map[string][]T, targetID string, liked bool) map[string][]T {
	out := make(map[string][]T, len(groups))
	for key, items := range groups {
		out[key] = MergeLikeResult(items, targetID, liked)
	}
	return out
}

// MergeReplyAdded bumps the reply counter of parentID in a fetched list.
func MergeReplyAdded[T ReplyCountable[T]](items []T, parentID string) []T {
	out := make([]T, len(items))
	for i, item := range items {
		if item.LikeTargetID() == parentID {
			item = item.WithReplyCount(item.ReplyState() + 1)
		}
		out[i] = item
	}
	return out
}

// AppendReply returns groups with reply added to the end of parentID's list.
func AppendReply[T any](groups map[string][]T, parentID string, reply T) map[string][]T {
	out := make(map[string][]T, len(groups)+1)
	for key, items := range groups {
		out[key] = items
	}
	existing := groups[parentID]
	replies := make([]T, 0, len(existing)+1)
	replies = append(replies, existing...)
	out[parentID] = append(replies, reply)
	return out
}
