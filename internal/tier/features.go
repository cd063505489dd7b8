package tier

// featureAliases maps legacy and alternate feature names to their canonical
// form. The table encodes historical naming drift across API clients; keep
// entries exactly as-is, additions only.
var featureAliases = map[string]string{
	"store_hours":        "business_hours",
	"storeHours":         "business_hours",
	"specialHours":       "special_hours",
	"holiday_hours":      "special_hours",
	"reviews_management": "reviews",
	"customer_reviews":   "reviews",
	"square":             "square_integration",
	"squareSync":         "square_integration",
	"pos_integration":    "square_integration",
	"multi_location":     "locations",
	"advancedReports":    "advanced_reports",
	"analytics":          "advanced_reports",
	"api":                "api_access",
	"inventory":          "items",
}

// CanonicalFeature normalizes a feature name through the alias table.
// Names with no alias entry are already canonical.
func CanonicalFeature(name string) string {
	if canonical, ok := featureAliases[name]; ok {
		return canonical
	}
	return name
}

// HasFeature reports whether the tier grants a feature. The name is
// normalized through the alias table first. The sentinel feature "all"
// grants everything.
func HasFeature(t Info, name string) bool {
	want := CanonicalFeature(name)
	for _, f := range t.Features {
		if f == "all" || f == want {
			return true
		}
	}
	return false
}
