package triage

import "github.com/propos/maintenance-engine/internal/domain"

// Keyword tables are the single source of truth for text classification and
// severity triage. They are data, not logic; matching is case-insensitive
// substring search over the combined title+description.

// categoryKeywords maps each non-GENERAL category to the terms that vote for it.
var categoryKeywords = map[domain.Category][]string{
	domain.CategoryPlumbing: {
		"leak", "pipe", "drain", "faucet", "tap", "toilet", "flush",
		"water heater", "sewage", "clog", "drip", "sink", "shower",
	},
	domain.CategoryElectrical: {
		"electric", "socket", "outlet", "wiring", "breaker", "short circuit",
		"power", "light", "switch", "spark", "fuse",
	},
	domain.CategoryHVAC: {
		"ac", "a/c", "air conditioning", "air conditioner", "hvac", "cooling",
		"heating", "thermostat", "ventilation", "compressor", "condenser",
	},
	domain.CategoryStructural: {
		"crack", "wall", "ceiling", "floor", "foundation", "roof", "window",
		"door frame", "balcony", "tile", "collapse",
	},
	domain.CategoryPestControl: {
		"cockroach", "pest", "rodent", "rat", "mice", "mouse", "ant",
		"termite", "bedbug", "bed bug", "insect", "infestation",
	},
	domain.CategoryPainting: {
		"paint", "repaint", "peeling", "stain", "discolor", "varnish",
	},
	domain.CategoryAppliance: {
		"fridge", "refrigerator", "oven", "stove", "dishwasher", "washer",
		"dryer", "washing machine", "microwave", "appliance",
	},
}

// emergencyKeywords force EMERGENCY priority regardless of other matches.
var emergencyKeywords = []string{
	"flood", "fire", "burst", "electric", "smoke", "gas",
	"explosion", "sparking", "collapse",
}

// urgentKeywords raise priority to HIGH when no emergency term is present.
var urgentKeywords = []string{
	"leak", "broken lock", "ac not working", "ac failure", "no water",
	"no electricity", "sewage", "no power", "not working",
}
