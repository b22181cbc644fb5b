// Package catalog holds the static table of model definitions. The
// canonical loader resolves architecture by name, so acquisition always
// supplies the full catalog.
package catalog

import "classifid/pkg/types"

// baseLabels is the shared label set for the bundled ImageNet-subset
// classifiers. Individual definitions may override it.
var baseLabels = []string{
	"tabby cat", "golden retriever", "goldfish", "great white shark",
	"ostrich", "ladybug", "monarch butterfly", "red fox",
	"container ship", "sports car", "mountain bike", "espresso",
	"park bench", "street sign", "umbrella", "acoustic guitar",
}

// builtIn is the canonical per-model configuration: expected input size and
// serialization format, keyed by model name.
var builtIn = []types.Model{
	{
		Name:        "MobileNetV2",
		DisplayName: "MobileNet V2 (ImageNet subset)",
		InputSize:   224,
		Format:      "graph-model",
		Labels:      baseLabels,
	},
	{
		Name:        "SqueezeNet",
		DisplayName: "SqueezeNet 1.1 (ImageNet subset)",
		InputSize:   227,
		Format:      "layers-model",
		Labels:      baseLabels,
	},
	{
		Name:        "ResNet50",
		DisplayName: "ResNet-50 (ImageNet subset)",
		InputSize:   224,
		Format:      "graph-model",
		Labels:      baseLabels,
	},
}

// BuiltIn returns a copy of the built-in model definitions.
func BuiltIn() []types.Model {
	out := make([]types.Model, len(builtIn))
	copy(out, builtIn)
	return out
}

// ByName looks up a definition in the given catalog.
func ByName(catalog []types.Model, name string) (types.Model, bool) {
	for _, m := range catalog {
		if m.Name == name {
			return m, true
		}
	}
	return types.Model{}, false
}
