// Package plans maps Stripe price ids to the token grants they buy.
//
// Plan definitions are embedded; the price id behind each plan is deployment
// configuration and is bound when the catalog is loaded.
package plans

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed plans.yaml
var plansFile []byte

// Kind tells the webhook handler what a completed checkout grants
type Kind string

const (
	KindTokenPack    Kind = "token_pack"
	KindSubscription Kind = "subscription"
)

// Plan IDs present in plans.yaml
const (
	TokenPack100K       = "token_pack_100k"
	MonthlySubscription = "monthly_subscription"
)

// Plan is one purchasable product
type Plan struct {
	ID      string `yaml:"-" json:"id"`
	Name    string `yaml:"name" json:"name"`
	Kind    Kind   `yaml:"kind" json:"kind"`
	Mode    string `yaml:"mode" json:"mode"`
	Tokens  int64  `yaml:"tokens" json:"tokens"`
	PriceID string `yaml:"-" json:"price_id"`
}

// Catalog resolves plans by Stripe price id
type Catalog struct {
	byPrice map[string]Plan
	byID    map[string]Plan
}

// Load reads the embedded plans and binds priceIDs (plan id -> Stripe price id).
// Plans without a configured price stay listed but cannot be resolved by price.
func Load(priceIDs map[string]string) (*Catalog, error) {
	return Parse(plansFile, priceIDs)
}

// Parse builds a catalog from a file in the plans.yaml layout
func Parse(data []byte, priceIDs map[string]string) (*Catalog, error) {
	var f struct {
		Plans map[string]Plan `yaml:"plans"`
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("unmarshal plans: %w", err)
	}

	c := &Catalog{byPrice: make(map[string]Plan), byID: make(map[string]Plan)}
	for id, p := range f.Plans {
		if p.Kind != KindTokenPack && p.Kind != KindSubscription {
			return nil, fmt.Errorf("plan %s: unknown kind %q", id, p.Kind)
		}
		if p.Tokens <= 0 {
			return nil, fmt.Errorf("plan %s: tokens must be positive", id)
		}
		p.ID = id
		p.PriceID = priceIDs[id]
		c.byID[id] = p
		if p.PriceID == "" {
			continue
		}
		if other, dup := c.byPrice[p.PriceID]; dup {
			return nil, fmt.Errorf("price %s bound to both %s and %s", p.PriceID, other.ID, id)
		}
		c.byPrice[p.PriceID] = p
	}
	return c, nil
}

// ByPrice resolves the plan bought with a Stripe price id
func (c *Catalog) ByPrice(priceID string) (Plan, bool) {
	p, ok := c.byPrice[priceID]
	return p, ok
}

// ByID returns a plan by its catalog id
func (c *Catalog) ByID(id string) (Plan, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// List returns every plan ordered by id
func (c *Catalog) List() []Plan {
	out := make([]Plan, 0, len(c.byID))
	for _, p := range c.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
