package models

import (
	"sort"
	"strings"

	json "github.com/goccy/go-json"
)

// Field names the store interprets. Everything else a combo carries
// (slogan, flavor_description, host_reaction, ...) is opaque and kept
// in Extra so a read/write cycle never drops data.
const (
	keyID          = "id"
	keyName        = "name"
	keyVotes       = "votes"
	keyCreatedAt   = "created_at"
	keyLastVotedAt = "last_voted_at"
)

type Combo struct {
	ID          string
	Name        string
	Votes       int
	CreatedAt   string
	LastVotedAt string
	Extra       map[string]json.RawMessage
}

func (c *Combo) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*c = Combo{}
	for k, v := range raw {
		switch k {
		case keyID:
			_ = json.Unmarshal(v, &c.ID)
		case keyName:
			_ = json.Unmarshal(v, &c.Name)
		case keyVotes:
			// Missing or unreadable votes stay at 0 so every record
			// has a comparable vote count.
			_ = json.Unmarshal(v, &c.Votes)
		case keyCreatedAt:
			_ = json.Unmarshal(v, &c.CreatedAt)
		case keyLastVotedAt:
			_ = json.Unmarshal(v, &c.LastVotedAt)
		default:
			if c.Extra == nil {
				c.Extra = make(map[string]json.RawMessage)
			}
			c.Extra[k] = v
		}
	}
	return nil
}

func (c Combo) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(c.Extra)+5)
	for k, v := range c.Extra {
		out[k] = v
	}

	var err error
	if out[keyID], err = json.Marshal(c.ID); err != nil {
		return nil, err
	}
	if out[keyName], err = json.Marshal(c.Name); err != nil {
		return nil, err
	}
	if out[keyVotes], err = json.Marshal(c.Votes); err != nil {
		return nil, err
	}
	if out[keyCreatedAt], err = json.Marshal(c.CreatedAt); err != nil {
		return nil, err
	}
	if c.LastVotedAt != "" {
		if out[keyLastVotedAt], err = json.Marshal(c.LastVotedAt); err != nil {
			return nil, err
		}
	}
	return json.Marshal(out)
}

// NormalizeKey prepares a vote key for case-insensitive, whitespace-trimmed
// matching.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Matches reports whether key (already normalized) equals this combo's id
// or display name.
func (c *Combo) Matches(key string) bool {
	return NormalizeKey(c.ID) == key || NormalizeKey(c.Name) == key
}

// SortByRank orders combos by votes descending, ties broken by earlier
// created_at (ISO-8601 strings compare lexicographically). The sort is
// stable so records equal on both keys keep file order.
func SortByRank(combos []Combo) {
	sort.SliceStable(combos, func(i, j int) bool {
		if combos[i].Votes != combos[j].Votes {
			return combos[i].Votes > combos[j].Votes
		}
		return combos[i].CreatedAt < combos[j].CreatedAt
	})
}
