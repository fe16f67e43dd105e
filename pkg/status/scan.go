package status

import (
	"bufio"
	"io"
	"strings"
)

// errorKeywords are the tokens that flag a log line as a finding.
var errorKeywords = []string{"error", "warning", "fatal", "critical"}

// maxScanHits caps the number of reported lines; a crash-looping service
// would otherwise flood the report.
const maxScanHits = 20

// ScanForErrors reads log lines and returns those containing an error
// keyword, case-insensitively. Findings are reported, never acted upon.
func ScanForErrors(r io.Reader) ([]string, error) {
	var hits []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		lower := strings.ToLower(line)
		for _, kw := range errorKeywords {
			if strings.Contains(lower, kw) {
				if len(hits) < maxScanHits {
					hits = append(hits, strings.TrimSpace(line))
				}
				break
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return hits, err
	}

	return hits, nil
}
