package birthdays

import (
	"errors"
	"strconv"
	"strings"
)

var ErrKeepNotInGroup = errors.New("record to keep is not part of the group")

// duplicateKey joins every data field. Two records with equal keys differ
// only in id and timestamps.
func duplicateKey(b *Birthday) string {
	return strings.Join([]string{
		NameKey(b.FullName),
		strconv.Itoa(b.Day),
		strconv.Itoa(b.Month),
		strconv.Itoa(b.YearOrZero()),
		strings.ToLower(strings.TrimSpace(b.Address)),
		strings.TrimSpace(b.Phone),
		strings.ToLower(strings.TrimSpace(b.Ward)),
		strings.TrimSpace(b.ReminderTime),
	}, "\x1f")
}

// FindDuplicates groups records with identical data. Only groups of two or
// more are returned, ordered by first appearance in list.
func FindDuplicates(list []Birthday) [][]Birthday {
	index := make(map[string]int)
	var groups [][]Birthday
	for _, b := range list {
		key := duplicateKey(&b)
		if i, ok := index[key]; ok {
			groups[i] = append(groups[i], b)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, []Birthday{b})
	}

	out := make([][]Birthday, 0)
	for _, g := range groups {
		if len(g) > 1 {
			out = append(out, g)
		}
	}
	return out
}

// KeepOne returns the ids in group other than keepID.
func KeepOne(group []Birthday, keepID string) ([]string, error) {
	found := false
	drop := make([]string, 0, len(group))
	for _, b := range group {
		if b.ID == keepID {
			found = true
			continue
		}
		drop = append(drop, b.ID)
	}
	if !found {
		return nil, ErrKeepNotInGroup
	}
	return drop, nil
}
