package loader

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/openlettings/biddocs/internal/pipeline"
)

// WriteJSONL writes one JSON record per outcome, every outcome included.
// The file is replaced wholesale each run.
func WriteJSONL(path string, outcomes []pipeline.Outcome) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	enc := json.NewEncoder(f)
	for _, o := range outcomes {
		if err := enc.Encode(o); err != nil {
			_ = f.Close()
			return fmt.Errorf("encode outcome for %s: %w", o.FilePath, err)
		}
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
