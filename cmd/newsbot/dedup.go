// cmd/newsbot/dedup.go
package main

import (
    "strings"
    "unicode"
)

// titleFingerprint normalizes a title for duplicate detection: lowercase,
// strip punctuation, collapse whitespace.
func titleFingerprint(title string) string {
    lowered := strings.ToLower(title)
    cleaned := strings.Map(func(r rune) rune {
        if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
            return r
        }
        return -1
    }, lowered)
    return strings.Join(strings.Fields(cleaned), " ")
}

// jaccardSimilarity computes token-set overlap between two fingerprints.
func jaccardSimilarity(a, b string) float64 {
    setA := makeWordSet(strings.Fields(a))
    setB := makeWordSet(strings.Fields(b))

    if len(setA) == 0 && len(setB) == 0 {
        return 1
    }

    intersection := 0
    for w := range setA {
        if _, ok := setB[w]; ok {
            intersection++
        }
    }
    union := len(setA) + len(setB) - intersection
    if union == 0 {
        return 0
    }
    return float64(intersection) / float64(union)
}

// FilterDuplicates drops near-identical items across the whole batch.
// Two items are duplicates when their fingerprints match exactly or their
// Jaccard similarity exceeds the threshold; the first-seen item wins.
// Quadratic in batch size, which is fine for the small batches a fetch
// cycle produces.
func FilterDuplicates(items []ProcessedItem) []ProcessedItem {
    unique := make([]ProcessedItem, 0, len(items))
    fingerprints := make([]string, 0, len(items))
    exact := make(map[string]struct{}, len(items))

    for _, item := range items {
        fp := titleFingerprint(item.Title)

        if _, dup := exact[fp]; dup {
            GetLogger().Debug("Dropping duplicate title: %s", item.Title)
            continue
        }

        similar := false
        for _, seen := range fingerprints {
            if jaccardSimilarity(fp, seen) > DedupJaccardWindow {
                similar = true
                break
            }
        }
        if similar {
            GetLogger().Debug("Dropping near-duplicate title: %s", item.Title)
            continue
        }

        exact[fp] = struct{}{}
        fingerprints = append(fingerprints, fp)
        unique = append(unique, item)
    }

    return unique
}
