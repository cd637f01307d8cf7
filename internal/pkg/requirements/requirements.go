package requirements

import (
	"os"

	jobsmodel "github.com/hitesh22rana/ftpworker/internal/model/jobs"
)

// Meets reports whether every required local path exists.
// Nil or empty requirements are always met.
func Meets(req *jobsmodel.Requirements) bool {
	return len(Missing(req)) == 0
}

// Missing returns the required local paths that do not exist.
func Missing(req *jobsmodel.Requirements) []string {
	if req == nil {
		return nil
	}

	var missing []string
	for _, path := range req.Paths {
		if _, err := os.Stat(path); err != nil {
			missing = append(missing, path)
		}
	}

	return missing
}
