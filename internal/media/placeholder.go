package media

// Inline SVG fallbacks used when a resolved image fails to load in the browser.
var fallbackSVG = map[Kind]string{
	KindAvatar:    `data:image/svg+xml,%3Csvg xmlns='http://www.w3.org/2000/svg' width='100' height='100'%3E%3Crect fill='%23e2e8f0' width='100' height='100'/%3E%3Ctext x='50%25' y='50%25' dominant-baseline='middle' text-anchor='middle' font-family='Arial' font-size='40' fill='%2394a3b8'%3E?%3C/text%3E%3C/svg%3E`,
	KindPost:      `data:image/svg+xml,%3Csvg xmlns='http://www.w3.org/2000/svg' width='400' height='250'%3E%3Crect fill='%23f1f5f9' width='400' height='250'/%3E%3Cg transform='translate(200 125)'%3E%3Ccircle r='30' fill='%23cbd5e1'/%3E%3C/g%3E%3C/svg%3E`,
	KindRSS:       `data:image/svg+xml,%3Csvg xmlns='http://www.w3.org/2000/svg' width='100' height='100'%3E%3Crect fill='%23fee2e2' width='100' height='100'/%3E%3Ctext x='50' y='58' text-anchor='middle' font-family='Arial' font-size='30' font-weight='bold' fill='%23fff'%3ERSS%3C/text%3E%3C/svg%3E`,
	KindCommunity: `data:image/svg+xml,%3Csvg xmlns='http://www.w3.org/2000/svg' width='100' height='100'%3E%3Crect fill='%23dbeafe' width='100' height='100'/%3E%3Ccircle cx='40' cy='45' r='8' fill='%2393c5fd'/%3E%3Ccircle cx='60' cy='45' r='8' fill='%2393c5fd'/%3E%3Ccircle cx='50' cy='55' r='10' fill='%2360a5fa'/%3E%3C/svg%3E`,
	KindDefault:   `data:image/svg+xml,%3Csvg xmlns='http://www.w3.org/2000/svg' width='200' height='200'%3E%3Crect fill='%23f8fafc' width='200' height='200'/%3E%3Ctext x='50%25' y='50%25' dominant-baseline='middle' text-anchor='middle' font-family='Arial' font-size='16' fill='%23cbd5e1'%3ENo Image%3C/text%3E%3C/svg%3E`,
}

// FallbackSVG returns an inline SVG data URI for kind. Covers share the post art.
func FallbackSVG(kind Kind) string {
	if kind == KindCover {
		kind = KindPost
	}
	if svg, ok := fallbackSVG[kind]; ok {
		return svg
	}
	return fallbackSVG[KindDefault]
}
