package footballdata

import (
	"strings"

	"github.com/samvad-hq/soccer-hub/internal/domain"
)

// clubLogos is the bundled logo catalog for Premier League clubs.
var clubLogos = []domain.TeamLogo{
	{ID: 57, Name: "Arsenal FC", Logo: "https://cdn.logoeye.net/club/fb/57.png"},
	{ID: 65, Name: "Manchester City FC", Logo: "https://cdn.logoeye.net/club/fb/65.png"},
	{ID: 64, Name: "Liverpool FC", Logo: "https://cdn.logoeye.net/club/fb/64.png"},
	{ID: 58, Name: "Aston Villa FC", Logo: "https://cdn.logoeye.net/club/fb/58.png"},
	{ID: 73, Name: "Tottenham Hotspur FC", Logo: "https://cdn.logoeye.net/club/fb/73.svg"},
	{ID: 67, Name: "Newcastle United FC", Logo: "https://cdn.logoeye.net/club/fb/67.png"},
	{ID: 61, Name: "Chelsea FC", Logo: "https://cdn.logoeye.net/club/fb/61.png"},
	{ID: 66, Name: "Manchester United FC", Logo: "https://cdn.logoeye.net/club/fb/66.png"},
	{ID: 563, Name: "West Ham United FC", Logo: "https://cdn.logoeye.net/club/fb/563.png"},
	{ID: 1044, Name: "AFC Bournemouth", Logo: "https://cdn.logoeye.net/club/fb/1044.png"},
	{ID: 397, Name: "Brighton & Hove Albion FC", Logo: "https://cdn.logoeye.net/club/fb/397.svg"},
	{ID: 76, Name: "Wolverhampton Wanderers FC", Logo: "https://cdn.logoeye.net/club/fb/76.svg"},
	{ID: 62, Name: "Everton FC", Logo: "https://cdn.logoeye.net/club/fb/62.png"},
	{ID: 63, Name: "Fulham FC", Logo: "https://cdn.logoeye.net/club/fb/63.svg"},
	{ID: 354, Name: "Crystal Palace FC", Logo: "https://cdn.logoeye.net/club/fb/354.png"},
	{ID: 402, Name: "Brentford FC", Logo: "https://cdn.logoeye.net/club/fb/402.png"},
	{ID: 351, Name: "Nottingham Forest FC", Logo: "https://cdn.logoeye.net/club/fb/351.png"},
	{ID: 389, Name: "Luton Town FC", Logo: "https://cdn.logoeye.net/club/fb/389.png"},
	{ID: 328, Name: "Burnley FC", Logo: "https://cdn.logoeye.net/club/fb/328.png"},
	{ID: 356, Name: "Sheffield United FC", Logo: "https://cdn.logoeye.net/club/fb/356.svg"},
	{ID: 338, Name: "Leicester City FC", Logo: "https://cdn.logoeye.net/club/fb/338.png"},
	{ID: 340, Name: "Southampton FC", Logo: "https://cdn.logoeye.net/club/fb/340.png"},
	{ID: 349, Name: "Ipswich Town FC", Logo: "https://cdn.logoeye.net/club/fb/349.png"},
}

// Logos indexes team logos by club id and by lower-cased name.
type Logos struct {
	byID   map[int]string
	byName map[string]string
}

// DefaultLogos returns the bundled logo catalog.
func DefaultLogos() *Logos { return NewLogos(clubLogos) }

// NewLogos builds a lookup over the given logos; entries without a logo are ignored.
func NewLogos(logos []domain.TeamLogo) *Logos {
	l := &Logos{
		byID:   make(map[int]string, len(logos)),
		byName: make(map[string]string, len(logos)),
	}
	for _, lg := range logos {
		if strings.TrimSpace(lg.Logo) == "" {
			continue
		}
		if lg.ID != 0 {
			l.byID[lg.ID] = lg.Logo
		}
		if name := strings.ToLower(strings.TrimSpace(lg.Name)); name != "" {
			l.byName[name] = lg.Logo
		}
	}
	return l
}

// Decorate sets t.Logo from the catalog, falling back to the API crest.
func (l *Logos) Decorate(t domain.Team) domain.Team {
	if l != nil {
		if logo, ok := l.byID[t.ID]; ok {
			t.Logo = logo
			return t
		}
		if logo, ok := l.byName[strings.ToLower(strings.TrimSpace(t.Name))]; ok {
			t.Logo = logo
			return t
		}
	}
	if t.Logo == "" {
		t.Logo = t.Crest
	}
	return t
}
