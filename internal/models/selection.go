package models

import (
	"net/url"
	"slices"
	"strings"
)

const (
	RegionParam   = "region"
	CategoryParam = "category"
)

// Selection holds the chosen Region and Category values. A nil slice means
// "every value in the dataset"; a non-nil empty slice selects nothing.
type Selection struct {
	Regions    []string `json:"regions"`
	Categories []string `json:"categories"`
}

// SelectionFromValues reads repeated or comma separated region/category
// parameters. An absent parameter leaves the dimension unrestricted, a
// present but blank one selects nothing.
func SelectionFromValues(values url.Values) Selection {
	return Selection{
		Regions:    listParam(values, RegionParam),
		Categories: listParam(values, CategoryParam),
	}
}

func listParam(values url.Values, key string) []string {
	raw, ok := values[key]
	if !ok {
		return nil
	}

	out := make([]string, 0, len(raw))
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// Values is the inverse of SelectionFromValues.
func (s Selection) Values() url.Values {
	values := url.Values{}
	encodeParam(values, RegionParam, s.Regions)
	encodeParam(values, CategoryParam, s.Categories)
	return values
}

func encodeParam(values url.Values, key string, list []string) {
	if list == nil {
		return
	}
	if len(list) == 0 {
		values.Set(key, "")
		return
	}
	for _, v := range list {
		values.Add(key, v)
	}
}

// Normalized returns a copy with each list sorted and de-duplicated,
// preserving the nil/empty distinction.
func (s Selection) Normalized() Selection {
	return Selection{
		Regions:    normalizeList(s.Regions),
		Categories: normalizeList(s.Categories),
	}
}

func normalizeList(list []string) []string {
	if list == nil {
		return nil
	}
	out := slices.Clone(list)
	slices.Sort(out)
	return slices.Compact(out)
}

// Key identifies a normalized selection.
func (s Selection) Key() string {
	return s.Values().Encode()
}
