package services

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gookit/validate"

	"mixd/internal/leaderboard"
	"mixd/internal/models"
	"mixd/internal/providers"
)

// ErrInvalidInput marks generation failures the caller should report as a
// bad request rather than a server error.
var ErrInvalidInput = errors.New("invalid input")

const generalCategory = "general"

var brandCatalog = map[string][]string{
	"food":       {"McDonald's", "Burger King", "KFC", "Subway", "Pizza Hut", "Domino's", "Taco Bell"},
	"beverages":  {"Coca-Cola", "Pepsi", "Starbucks", "Red Bull", "Monster", "Dr Pepper"},
	"tech":       {"Apple", "Samsung", "Google", "Microsoft", "Amazon", "Netflix", "Spotify"},
	"fashion":    {"Nike", "Adidas", "Gucci", "Louis Vuitton", "H&M", "Zara", "Supreme"},
	"automotive": {"Tesla", "BMW", "Mercedes", "Toyota", "Ford", "Ferrari", "Lamborghini"},
}

type comboTemplate struct {
	adjectives []string
	nouns      []string
	slogans    []string
}

var comboTemplates = map[string]comboTemplate{
	"competitive": {
		adjectives: []string{"Ultimate", "Supreme", "Elite", "Champion", "Legendary", "Epic", "Dominant"},
		nouns:      []string{"Clash", "Battle", "Showdown", "Duel", "Championship", "Arena", "Combat"},
		slogans: []string{
			"Where %[1]s meets its match with %[2]s",
			"The ultimate showdown: %[1]s vs %[2]s",
			"When %[1]s challenges %[2]s to greatness",
		},
	},
	"collaborative": {
		adjectives: []string{"Unified", "Harmonious", "Synergistic", "Blended", "United", "Fused", "Allied"},
		nouns:      []string{"Alliance", "Partnership", "Unity", "Harmony", "Fusion", "Bond", "Collaboration"},
		slogans: []string{
			"Where %[1]s and %[2]s unite for greatness",
			"The perfect partnership of %[1]s and %[2]s",
			"When %[1]s joins forces with %[2]s",
		},
	},
	"fusion": {
		adjectives: []string{"Hybrid", "Merged", "Blended", "Integrated", "Combined", "Synthesized", "Evolved"},
		nouns:      []string{"Fusion", "Hybrid", "Evolution", "Synthesis", "Metamorphosis", "Transformation", "Revolution"},
		slogans: []string{
			"The revolutionary fusion of %[1]s and %[2]s",
			"Where %[1]s and %[2]s become one",
			"The next evolution: %[1]s meets %[2]s",
		},
	},
}

var hostReactions = []string{
	"This %[1]s is absolutely revolutionary! The way %[2]s and %[3]s complement each other is genius!",
	"I've never seen anything like this %[1]s before. %[2]s and %[3]s create pure magic together!",
	"The %[1]s represents the future of brand collaboration. %[2]s and %[3]s are a match made in heaven!",
	"Incredible! This %[1]s shows how %[2]s and %[3]s can push boundaries together!",
}

type ComboServiceInterface interface {
	Generate(product1, product2, mode string) (*models.Combo, error)
	Brands(category string) ([]string, bool)
	Categories() []string
	Modes() []string
}

type ComboService struct {
	store  leaderboard.StoreInterface
	logger providers.Logger
}

func NewComboService(store leaderboard.StoreInterface, logger providers.Logger) ComboServiceInterface {
	return &ComboService{store: store, logger: logger}
}

type generateInput struct {
	Product1 string `validate:"required|maxLen:50"`
	Product2 string `validate:"required|maxLen:50"`
	Mode     string `validate:"required|in:competitive,collaborative,fusion"`
}

// Generate invents a marketing fusion of two brands, persists it with zero
// votes and returns it. Validation failures come back wrapped in
// ErrInvalidInput.
func (cs *ComboService) Generate(product1, product2, mode string) (*models.Combo, error) {
	product1 = strings.TrimSpace(product1)
	product2 = strings.TrimSpace(product2)
	if mode == "" {
		mode = "competitive"
	}

	in := &generateInput{Product1: product1, Product2: product2, Mode: mode}
	if v := validate.Struct(in); !v.Validate() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, v.Errors.OneError())
	}
	if strings.EqualFold(product1, product2) {
		return nil, fmt.Errorf("%w: please select two different brands", ErrInvalidInput)
	}

	combo := buildCombo(product1, product2, mode)
	if !cs.store.Append(*combo) {
		return nil, errors.New("failed to persist combo")
	}

	cs.logger.Infof(providers.TypeApp, "Generated combo: %s (ID: %s)", combo.Name, combo.ID)
	return combo, nil
}

func (cs *ComboService) Brands(category string) ([]string, bool) {
	if category == "" || category == "all" {
		var all []string
		for _, cat := range cs.Categories() {
			all = append(all, brandCatalog[cat]...)
		}
		return all, true
	}
	brands, ok := brandCatalog[category]
	return brands, ok
}

func (cs *ComboService) Categories() []string {
	cats := make([]string, 0, len(brandCatalog))
	for cat := range brandCatalog {
		cats = append(cats, cat)
	}
	sort.Strings(cats)
	return cats
}

func (cs *ComboService) Modes() []string {
	return []string{"competitive", "collaborative", "fusion"}
}

func buildCombo(product1, product2, mode string) *models.Combo {
	cat1 := brandCategory(product1)
	cat2 := brandCategory(product2)
	tpl := comboTemplates[mode]

	name := pick(tpl.adjectives) + " " + pick(tpl.nouns)
	slogan := fmt.Sprintf(pick(tpl.slogans), product1, product2)

	var description string
	if cat1 == cat2 {
		description = fmt.Sprintf("A groundbreaking %s experience that combines the best of %s's heritage with %s's innovation.", cat1, product1, product2)
	} else {
		description = fmt.Sprintf("An unprecedented cross-industry collaboration bringing together %s's %s expertise with %s's %s mastery.", product1, cat1, product2, cat2)
	}

	reaction := fmt.Sprintf("Brand Mixologist: '"+pick(hostReactions)+"'", name, product1, product2)

	return &models.Combo{
		ID:        uuid.NewString(),
		Name:      name,
		Votes:     0,
		CreatedAt: time.Now().UTC().Format("2006-01-02T15:04:05.000000Z"),
		Extra: map[string]json.RawMessage{
			"slogan":              mustRaw(slogan),
			"flavor_description":  mustRaw(description),
			"host_reaction":       mustRaw(reaction),
			"components":          mustRaw(map[string]string{"a": product1, "b": product2}),
			"mode":                mustRaw(mode),
			"categories":          mustRaw(map[string]string{"a": cat1, "b": cat2}),
			"compatibility_score": mustRaw(75 + rand.Intn(24)),
		},
	}
}

// brandCategory does a fuzzy catalog lookup: a brand belongs to a category
// when it contains or is contained by a known brand name.
func brandCategory(brand string) string {
	lower := strings.ToLower(brand)
	for category, brands := range brandCatalog {
		for _, b := range brands {
			bl := strings.ToLower(b)
			if strings.Contains(lower, bl) || strings.Contains(bl, lower) {
				return category
			}
		}
	}
	return generalCategory
}

func pick(values []string) string {
	return values[rand.Intn(len(values))]
}

func mustRaw(v interface{}) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}
