package types

// Model describes one classification model definition in the catalog.
type Model struct {
	// Stable name used by load requests and cache keys.
	// example: MobileNetV2
	Name string `json:"name" example:"MobileNetV2"`
	// Human-friendly description.
	// example: MobileNet V2 (ImageNet subset)
	DisplayName string `json:"display_name,omitempty" example:"MobileNet V2 (ImageNet subset)"`
	// Square input edge the model expects, in pixels.
	// example: 224
	InputSize int `json:"input_size" example:"224"`
	// Serialization format of the canonical weights.
	// example: graph-model
	Format string `json:"format" example:"graph-model"`
	// Class labels emitted by this model, in output order.
	Labels []string `json:"labels,omitempty"`
	// Optional canonical source for the weights (URL or bundled path).
	SourceURI string `json:"source_uri,omitempty"`
}

// Prediction is a single classification result.
type Prediction struct {
	// Predicted class label.
	// example: tabby cat
	ClassName string `json:"className" example:"tabby cat"`
	// Probability in [0,1]; all predictions for one image sum to 1.
	// example: 0.83
	Probability float64 `json:"probability" example:"0.83"`
}
