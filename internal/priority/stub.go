package priority

// StubPredictor is a deterministic Predictor for tests: it reports a fixed
// node count and returns FixedPrediction as the success estimate for every
// path, so test fixtures can produce a known tdError without a real SHGAT
// graph.
type StubPredictor struct {
	Nodes           int
	FixedPrediction float64
}

func (p StubPredictor) NodeCount() int { return p.Nodes }

func (p StubPredictor) PredictSuccess(intentEmbedding []float64, executedPath []string) float64 {
	return p.FixedPrediction
}

// StubEmbedder returns a fixed-dimension zero vector regardless of input,
// since this package never interprets embedding contents.
type StubEmbedder struct {
	Dimension int
}

func (e StubEmbedder) Embed(text string) ([]float64, error) {
	return make([]float64, e.Dimension), nil
}
