package swanepoel

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/RyanBlaney/swanepoel/algorithms/envelope"
	"github.com/RyanBlaney/swanepoel/spectrum"
	"github.com/RyanBlaney/swanepoel/swanepoel/config"
)

func generateID(s spectrum.Spectrum) string {
	hasher := sha256.New()
	fmt.Fprintf(hasher, "%d_%s_%d", time.Now().UnixNano(), s.Source, s.Len())
	return hex.EncodeToString(hasher.Sum(nil))[:16]
}

func addMetadata(res *Result, cfg *config.AnalysisConfig) {
	res.Metadata = map[string]any{
		"config":          cfg,
		"substrate":       res.Substrate.String(),
		"upper_method":    string(res.Envelope.UpperMethod),
		"lower_method":    string(res.Envelope.LowerMethod),
		"warning_count":   len(res.Warnings),
		"generation_time": time.Now(),
	}

	if res.Envelope.UpperMethod == envelope.MethodPolynomial && res.Envelope.LowerMethod == envelope.MethodPolynomial {
		res.Metadata["envelope_quality"] = "cubic"
	} else {
		res.Metadata["envelope_quality"] = "degraded"
	}

	counts := make(map[string]int)
	for _, w := range res.Warnings {
		counts[string(w.Kind)]++
	}
	res.Metadata["warnings_by_kind"] = counts
}
