package telemetry

import (
	"context"

	"github.com/marketlens/research-agent/internal/metrics"
)

// EmitQueryFeatures records local text features of a user query during
// calibration runs. Used to relate query shape to observed token usage.
func EmitQueryFeatures(ctx context.Context, query string) {
	if !(CalibrationModeEnabled() && ObserveEnabled()) {
		return
	}
	turnID, _ := TurnIDFromContext(ctx)
	f := metrics.CountFeatures(query)
	Emit("query_features", map[string]any{
		"turn_id":          turnID,
		"features_version": "1",
		"query": map[string]any{
			"bytes": f.Bytes,
			"runes": f.Runes,
			"words": f.Words,
			"lines": f.Lines,
		},
	})
}
