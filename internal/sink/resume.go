package sink

import (
	"bufio"
	"encoding/json"
	"os"

	"github.com/NagyLevin/Redditscrape/internal/models"
)

// Lines longer than this are treated as malformed.
const maxProbeLineBytes = 4 << 20

// OldestSubmission scans an existing line-delimited submissions file and
// returns the minimum creation timestamp across all parseable lines, or
// nil when the file is absent, empty or unparseable throughout. Malformed
// individual lines are skipped, never fatal. The value is advisory: it is
// reported as a resume hint but never applied automatically.
func OldestSubmission(path string) *int64 {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var oldest *int64

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxProbeLineBytes)

	for scanner.Scan() {
		var rec models.RawRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue
		}

		epoch := models.CreatedUTC(rec)
		if oldest == nil || epoch < *oldest {
			v := epoch
			oldest = &v
		}
	}

	return oldest
}
