package classifier

// Category name constants. CategoryGeneral is the fallback when no
// keyword category scores.
const (
	CategoryElectrician        = "electrician"
	CategoryPlumber            = "plumber"
	CategoryCarpenter          = "carpenter"
	CategoryGroundskeeper      = "groundskeeper"
	CategoryGeneralMaintenance = "general_service_maintenance"
	CategoryGeneral            = "general"
)

type category struct {
	Name     string
	Keywords []string
}

// categories is deliberately a slice, not a map: ties between equally
// scored categories resolve to the earliest declared entry, so iteration
// order has to be stable.
var categories = []category{
	{
		Name: CategoryElectrician,
		Keywords: []string{
			"electric", "electrical", "electrician", "wiring", "wires",
			"outlet", "socket", "breaker", "fuse", "voltage", "lighting",
			"lights", "bulb", "fluorescent", "switch", "aircon",
			"airconditioning", "ventilation", "generator", "extension",
			"grounding", "circuit", "panel",
		},
	},
	{
		Name: CategoryPlumber,
		Keywords: []string{
			"plumbing", "plumber", "faucet", "pipe", "pipes", "leak",
			"leaking", "drainage", "drain", "clogged", "toilet", "flush",
			"sink", "lavatory", "urinal", "septic", "water", "valve",
			"shower", "hose", "gutter",
		},
	},
	{
		Name: CategoryCarpenter,
		Keywords: []string{
			"carpentry", "carpenter", "wood", "wooden", "cabinet",
			"shelf", "shelves", "table", "chair", "door", "doorknob",
			"hinge", "drawer", "partition", "ceiling", "plywood",
			"varnish", "furniture", "frame", "lock", "window", "repaint",
			"painting",
		},
	},
	{
		Name: CategoryGroundskeeper,
		Keywords: []string{
			"grass", "lawn", "garden", "gardening", "plants", "trees",
			"trimming", "pruning", "landscaping", "weeds", "mowing",
			"grounds", "field", "soil", "hedge", "shrub",
		},
	},
	{
		Name: CategoryGeneralMaintenance,
		Keywords: []string{
			"cleaning", "janitorial", "maintenance", "repair", "hauling",
			"garbage", "trash", "disposal", "pest", "fumigation",
			"sanitation", "disinfection", "relocation", "transfer",
			"setup", "installation", "mounting", "signage",
		},
	},
}

const prefixLength = 4

// fuzzyIndex buckets every keyword of a category under its first four
// characters so Classify only runs edit-distance checks against
// candidates that share the token's prefix.
var fuzzyIndex = buildFuzzyIndex()

func buildFuzzyIndex() map[string]map[string][]string {
	index := make(map[string]map[string][]string, len(categories))
	for _, cat := range categories {
		buckets := make(map[string][]string)
		for _, kw := range cat.Keywords {
			prefix := kw
			if len(prefix) > prefixLength {
				prefix = prefix[:prefixLength]
			}
			buckets[prefix] = append(buckets[prefix], kw)
		}
		index[cat.Name] = buckets
	}
	return index
}
