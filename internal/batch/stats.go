package batch

import "time"

// ItemResult records the outcome for one input file.
type ItemResult struct {
	Index         int
	Input         string
	Stem          string
	Output        string
	AudioDuration time.Duration
	Elapsed       time.Duration
	Err           error
}

func (r ItemResult) OK() bool {
	return r.Err == nil
}

// Stats tracks a run in memory; nothing here is persisted.
type Stats struct {
	Total       int
	Current     int
	Succeeded   int
	Failed      int
	Interrupted bool
	Items       []ItemResult
}

// AudioDuration sums the known durations of successfully transcribed inputs.
func (s *Stats) AudioDuration() time.Duration {
	var total time.Duration
	for _, item := range s.Items {
		if item.OK() {
			total += item.AudioDuration
		}
	}
	return total
}

// Elapsed sums per-item processing time.
func (s *Stats) Elapsed() time.Duration {
	var total time.Duration
	for _, item := range s.Items {
		total += item.Elapsed
	}
	return total
}
