package story

// MergeByKey reconciles two collections of partial records by their
// join key. The result starts from primary in insertion order; each
// secondary record with a matching key is overlaid field by field, so
// a field present in the secondary record wins while primary fields
// absent from it survive. Secondary records with new keys are appended
// in their own order.
//
// A primary record without a key cannot be matched and passes through
// unchanged. A secondary record without a key is skipped: overlaying
// it anywhere would be a guess, and skipping keeps the merge
// idempotent (merging the same secondary twice changes nothing).
//
// Every key appearing in either input appears exactly once in the
// output, so the result's length is between max(len(primary),
// len(secondary)) and len(primary)+len(secondary). Listing pages do
// repeat articles (a featured tile plus the regular list), so a
// duplicate key within one input collapses onto its first occurrence,
// with the later record overlaid field by field.
func MergeByKey(primary, secondary []Partial) []Partial {
	merged := make([]Partial, 0, len(primary))
	byKey := make(map[string]int, len(primary))

	for _, rec := range primary {
		key := rec.Key()
		if key == "" {
			merged = append(merged, rec)
			continue
		}
		if i, ok := byKey[key]; ok {
			overlay(&merged[i], rec)
			continue
		}
		merged = append(merged, rec)
		byKey[key] = len(merged) - 1
	}

	for _, rec := range secondary {
		key := rec.Key()
		if key == "" {
			continue
		}
		if i, ok := byKey[key]; ok {
			overlay(&merged[i], rec)
			continue
		}
		merged = append(merged, rec)
		byKey[key] = len(merged) - 1
	}

	return merged
}

// overlay copies every populated field of src onto dst. Nil fields of
// src leave dst untouched.
func overlay(dst *Partial, src Partial) {
	if src.Title != nil {
		dst.Title = src.Title
	}
	if src.URL != nil {
		dst.URL = src.URL
	}
	if src.Author != nil {
		dst.Author = src.Author
	}
	if src.AuthorURL != nil {
		dst.AuthorURL = src.AuthorURL
	}
	if src.Published != nil {
		dst.Published = src.Published
	}
	if src.Categories != nil {
		dst.Categories = src.Categories
	}
	if src.Thumbnail != nil {
		dst.Thumbnail = src.Thumbnail
	}
	if src.Banner != nil {
		dst.Banner = src.Banner
	}
	if src.Content != nil {
		dst.Content = src.Content
	}
}
