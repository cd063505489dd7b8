// Package tier resolves subscription tiers for tenants and organizations
// and answers feature and limit queries used to gate API operations.
//
// The resolver is pure: it takes snapshots of already-loaded tier data and
// never performs I/O. Missing or malformed data degrades to "no access"
// rather than returning an error.
package tier

// Unlimited marks a limit with no cap.
const Unlimited int64 = -1

// Level orders tiers by privilege. Higher values grant strictly more access.
type Level int

const (
	LevelStarter Level = iota
	LevelPro
	LevelEnterprise
)

// Tier key constants as stored on tenants and organizations.
const (
	KeyStarter    = "starter"
	KeyPro        = "pro"
	KeyEnterprise = "enterprise"
)

// Limit keys understood by the resolver.
const (
	LimitProducts  = "products"
	LimitLocations = "locations"
	LimitUsers     = "users"
	LimitAPICalls  = "api_calls"
	LimitStorageGB = "storage_gb"
)

// String returns the tier key for a level.
func (l Level) String() string {
	switch l {
	case LevelEnterprise:
		return KeyEnterprise
	case LevelPro:
		return KeyPro
	default:
		return KeyStarter
	}
}

// ParseLevel maps a tier key to its level. Unknown keys resolve to starter,
// the least-privileged level.
func ParseLevel(key string) Level {
	switch key {
	case KeyEnterprise:
		return LevelEnterprise
	case KeyPro:
		return LevelPro
	default:
		return LevelStarter
	}
}

// Info is an immutable snapshot of a single tier: its feature set and
// numeric limits. Limits use Unlimited (-1) for "no cap".
type Info struct {
	ID       string
	Level    Level
	Features []string
	Limits   map[string]int64
}

// Resolved is the outcome of resolving a tenant tier against its
// organization tier.
type Resolved struct {
	Effective        Info
	TenantTier       *Info
	OrganizationTier *Info
	IsChain          bool
}

// Catalog of built-in tiers. Unknown tier keys fall back to Starter.
var (
	Starter = Info{
		ID:    KeyStarter,
		Level: LevelStarter,
		Features: []string{
			"business_hours",
			"items",
		},
		Limits: map[string]int64{
			LimitProducts:  25,
			LimitLocations: 1,
			LimitUsers:     2,
			LimitAPICalls:  1000,
			LimitStorageGB: 1,
		},
	}

	Pro = Info{
		ID:    KeyPro,
		Level: LevelPro,
		Features: []string{
			"business_hours",
			"items",
			"special_hours",
			"reviews",
			"square_integration",
			"advanced_reports",
			"api_access",
		},
		Limits: map[string]int64{
			LimitProducts:  1000,
			LimitLocations: 5,
			LimitUsers:     15,
			LimitAPICalls:  50000,
			LimitStorageGB: 25,
		},
	}

	Enterprise = Info{
		ID:    KeyEnterprise,
		Level: LevelEnterprise,
		Features: []string{
			"all",
		},
		Limits: map[string]int64{
			LimitProducts:  Unlimited,
			LimitLocations: Unlimited,
			LimitUsers:     Unlimited,
			LimitAPICalls:  Unlimited,
			LimitStorageGB: Unlimited,
		},
	}

	catalog = map[string]Info{
		KeyStarter:    Starter,
		KeyPro:        Pro,
		KeyEnterprise: Enterprise,
	}
)

// Get returns the tier for a key. Unknown keys return Starter as a safe
// default so callers always get a usable tier.
func Get(key string) Info {
	t, ok := catalog[key]
	if !ok {
		return Starter
	}
	return t
}

// Resolve computes the effective tier for a tenant.
//
// When the tenant does not belong to a chain (or the organization tier is
// absent), the tenant tier applies as-is. When it does, the
// higher-privilege of the two tiers wins; ties resolve to the tenant tier.
// A nil tenant tier falls back to Starter so the result is always usable.
func Resolve(org, tenant *Info, isChain bool) Resolved {
	r := Resolved{
		TenantTier:       tenant,
		OrganizationTier: org,
		IsChain:          isChain,
	}

	effective := Starter
	if tenant != nil {
		effective = *tenant
	}
	if isChain && org != nil && org.Level > effective.Level {
		effective = *org
	}
	r.Effective = effective
	return r
}

// IsUnlimited reports whether a limit value represents unlimited quota.
func IsUnlimited(limit int64) bool {
	return limit < 0
}

// IsLimitReached reports whether current usage has reached the tier's limit
// for the given key. A missing limit key means the tier does not grant the
// resource at all, so any usage counts as reached.
func IsLimitReached(t Info, key string, current int64) bool {
	limit, ok := t.Limits[key]
	if !ok {
		return true
	}
	if IsUnlimited(limit) {
		return false
	}
	return current >= limit
}

// UsagePercentage returns the percentage of a limit consumed, clamped to
// [0, 100]. Unlimited limits always report 100 to signal "no meter".
func UsagePercentage(t Info, key string, current int64) float64 {
	limit, ok := t.Limits[key]
	if !ok || limit == 0 {
		return 100
	}
	if IsUnlimited(limit) {
		return 100
	}
	pct := float64(current) / float64(limit) * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// UsageSnapshot is a point-in-time view of a tenant's resource consumption.
type UsageSnapshot struct {
	Products  int64   `json:"products"`
	Locations int64   `json:"locations"`
	Users     int64   `json:"users"`
	APICalls  int64   `json:"apiCalls"`
	StorageGB float64 `json:"storageGB"`
}

// For returns the snapshot value for a limit key. StorageGB is truncated to
// whole gigabytes for limit comparison.
func (u UsageSnapshot) For(key string) int64 {
	switch key {
	case LimitProducts:
		return u.Products
	case LimitLocations:
		return u.Locations
	case LimitUsers:
		return u.Users
	case LimitAPICalls:
		return u.APICalls
	case LimitStorageGB:
		return int64(u.StorageGB)
	default:
		return 0
	}
}
