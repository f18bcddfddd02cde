package provider

import "sort"

// DefaultModel is used when neither the request nor configuration names one.
const DefaultModel = "gemini-2.5-flash"

// supportedModels is the set of model identifiers this adapter is certified
// against. Requests naming anything else are rejected before the network
// call, so obsolete or misspelled names never reach the provider.
var supportedModels = map[string]struct{}{
	"gemini-2.5-flash":       {},
	"gemini-2.5-pro":         {},
	"gemini-3-flash-preview": {},
	"gemini-3-pro-preview":   {},
}

// SupportsModel reports whether the adapter supports the given identifier.
func SupportsModel(id string) bool {
	_, ok := supportedModels[id]
	return ok
}

// SupportedModels returns the catalog, sorted.
func SupportedModels() []string {
	out := make([]string, 0, len(supportedModels))
	for id := range supportedModels {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
