package storefront

import "finitefield.org/hanko-storefront/internal/menu"

// Static is the offline stand-in for the content API. A nil FooterMenu makes the
// footer query resolve to nil.
type Static struct {
	ShopName         string
	PrimaryDomainURL string
	FooterMenu       *menu.Menu
}

func (s Static) header() HeaderQuery {
	h := HeaderQuery{Shop: Shop{Name: s.ShopName}}
	if s.PrimaryDomainURL != "" {
		h.Shop.PrimaryDomain = &PrimaryDomain{URL: s.PrimaryDomainURL}
	}
	return h
}

func (s Static) footer() *FooterQuery {
	if s.FooterMenu == nil {
		return nil
	}
	m := menu.New(s.FooterMenu.ID, s.FooterMenu.Items...)
	return &FooterQuery{Menu: &m}
}
