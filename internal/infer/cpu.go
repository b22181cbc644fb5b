package infer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"math"

	"classifid/internal/catalog"
	"classifid/internal/imaging"
	"classifid/pkg/types"
)

// Backend names understood by the CPU reference runtime. "cpu" is always
// available; anything else fails activation (non-fatally).
const BackendCPU = "cpu"

// CPURuntime is the in-process reference runtime. It is ready as soon as a
// process exists, so AwaitReady never blocks.
type CPURuntime struct {
	active string
}

func NewCPURuntime() *CPURuntime { return &CPURuntime{} }

func (r *CPURuntime) ActivateBackend(name string) bool {
	if name != BackendCPU {
		return false
	}
	r.active = name
	return true
}

func (r *CPURuntime) AwaitReady(ctx context.Context) error {
	return ctx.Err()
}

// artifact is the serialized cache form of a CPU model. Restore rejects
// anything that does not carry the expected envelope.
type artifact struct {
	Magic   string      `json:"magic"`
	Version int         `json:"version"`
	Def     types.Model `json:"def"`
}

const (
	artifactMagic   = "classifid-model"
	artifactVersion = 1
)

// CPULoader constructs CPU reference models from catalog definitions or
// serialized artifacts.
type CPULoader struct{}

func NewCPULoader() *CPULoader { return &CPULoader{} }

func (l *CPULoader) Construct(ctx context.Context, name string, cat []types.Model) (ModelHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	def, ok := catalog.ByName(cat, name)
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", name)
	}
	if def.InputSize <= 0 || len(def.Labels) == 0 {
		return nil, fmt.Errorf("invalid definition for model %s", name)
	}
	return &cpuModel{def: def}, nil
}

func (l *CPULoader) Restore(ctx context.Context, blob []byte) (ModelHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var a artifact
	if err := json.Unmarshal(blob, &a); err != nil {
		return nil, fmt.Errorf("restore model: %w", err)
	}
	if a.Magic != artifactMagic || a.Version != artifactVersion {
		return nil, errors.New("restore model: unrecognized artifact")
	}
	if a.Def.Name == "" || a.Def.InputSize <= 0 || len(a.Def.Labels) == 0 {
		return nil, errors.New("restore model: incomplete definition")
	}
	return &cpuModel{def: a.Def}, nil
}

// cpuModel is a deterministic reference classifier: it projects coarse
// channel statistics of the input through per-label weights derived from
// the label names, then normalizes with a softmax. Output probabilities
// always sum to 1.
type cpuModel struct {
	def types.Model
}

func (m *cpuModel) Name() string { return m.def.Name }

func (m *cpuModel) Serialize() ([]byte, error) {
	return json.Marshal(artifact{Magic: artifactMagic, Version: artifactVersion, Def: m.def})
}

func (m *cpuModel) Classify(ctx context.Context, px *imaging.PixelBuffer) ([]types.Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if px == nil || px.Width <= 0 || px.Height <= 0 || len(px.Pix) < 4 {
		return nil, errors.New("classify: empty pixel buffer")
	}
	feat := features(px)
	scores := make([]float64, len(m.def.Labels))
	for i, label := range m.def.Labels {
		scores[i] = dotWithLabel(feat, label)
	}
	probs := softmax(scores)

	out := make([]types.Prediction, len(probs))
	for i := range probs {
		out[i] = types.Prediction{ClassName: m.def.Labels[i], Probability: probs[i]}
	}
	return out, nil
}

// features reduces the RGBA buffer to mean channel intensities plus a
// coarse luminance split, all in [0,1].
func features(px *imaging.PixelBuffer) [6]float64 {
	var sum [3]float64
	var topLum, botLum float64
	rows := px.Height
	stride := px.Width * 4
	for y := 0; y < rows; y++ {
		row := px.Pix[y*stride : (y+1)*stride]
		var lum float64
		for x := 0; x+3 < len(row); x += 4 {
			r, g, b := float64(row[x]), float64(row[x+1]), float64(row[x+2])
			sum[0] += r
			sum[1] += g
			sum[2] += b
			lum += 0.299*r + 0.587*g + 0.114*b
		}
		if y < rows/2 {
			topLum += lum
		} else {
			botLum += lum
		}
	}
	n := float64(px.Width*px.Height) * 255
	half := n / 2
	if half == 0 {
		half = 1
	}
	return [6]float64{
		sum[0] / n, sum[1] / n, sum[2] / n,
		topLum / half, botLum / half,
		float64(px.Width) / float64(px.Width+px.Height),
	}
}

// dotWithLabel derives a stable weight vector from the label name and dots
// it with the feature vector. Deterministic across runs and platforms.
func dotWithLabel(feat [6]float64, label string) float64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(label))
	seed := h.Sum64()
	var score float64
	for i := range feat {
		// Splitmix-style scramble per component.
		seed += 0x9e3779b97f4a7c15
		z := seed
		z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
		z = (z ^ (z >> 27)) * 0x94d049bb133111eb
		z ^= z >> 31
		w := float64(z%2000)/1000 - 1 // [-1, 1)
		score += w * feat[i]
	}
	return score
}

func softmax(scores []float64) []float64 {
	max := math.Inf(-1)
	for _, s := range scores {
		if s > max {
			max = s
		}
	}
	var denom float64
	exps := make([]float64, len(scores))
	for i, s := range scores {
		exps[i] = math.Exp(s - max)
		denom += exps[i]
	}
	for i := range exps {
		exps[i] /= denom
	}
	return exps
}
