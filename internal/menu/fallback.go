package menu

const fallbackMenuID = "gid://shopify/Menu/199655620664"

// fallbackItems is the static footer used when no CMS menu is in play. The last
// entry repeats the id of the one before it; FallbackMenu drops it.
var fallbackItems = []Item{
	{
		ID:         "gid://shopify/MenuItem/461633060920",
		ResourceID: "gid://shopify/ShopPolicy/23358046264",
		Tags:       []string{},
		Title:      "High Quality Ingredients",
		Type:       "SHOP_POLICY",
		URL:        "/policies/privacy-policy",
		Items:      []Item{},
	},
	{
		ID:         "gid://shopify/MenuItem/461633093688",
		ResourceID: "gid://shopify/ShopPolicy/23358013496",
		Tags:       []string{},
		Title:      "Independently Certified",
		Type:       "SHOP_POLICY",
		URL:        "/policies/refund-policy",
		Items:      []Item{},
	},
	{
		ID:         "gid://shopify/MenuItem/461633126456",
		ResourceID: "gid://shopify/ShopPolicy/23358111800",
		Tags:       []string{},
		Title:      "Expert Driven",
		Type:       "SHOP_POLICY",
		URL:        "/policies/shipping-policy",
		Items:      []Item{},
	},
	{
		ID:         "gid://shopify/MenuItem/461633159224",
		ResourceID: "gid://shopify/ShopPolicy/23358079032",
		Tags:       []string{},
		Title:      "Shipped Internationally",
		Type:       "SHOP_POLICY",
		URL:        "/policies/terms-of-service",
		Items:      []Item{},
	},
	{
		ID:         "gid://shopify/MenuItem/461633159224",
		ResourceID: "gid://shopify/ShopPolicy/23358079032",
		Tags:       []string{},
		Title:      "High Quality Ingredients",
		Type:       "SHOP_POLICY",
		URL:        "/policies/terms-of-service",
		Items:      []Item{},
	},
}

var fallback = New(fallbackMenuID, fallbackItems...)

// FallbackMenu returns the static footer menu with duplicate ids removed.
// The returned value is a copy; callers may not mutate the shared definition.
func FallbackMenu() Menu {
	items := make([]Item, len(fallback.Items))
	copy(items, fallback.Items)
	return Menu{ID: fallback.ID, Items: items}
}

// FallbackSource returns the fallback entries exactly as authored, duplicates included.
func FallbackSource() []Item {
	items := make([]Item, len(fallbackItems))
	copy(items, fallbackItems)
	return items
}
