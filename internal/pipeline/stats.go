package pipeline

// RunStats tracks counters across one pass over the fragment tree. Fragment
// exit codes are deliberately not aggregated; Failed only feeds the debug
// summary.
type RunStats struct {
	Visited     int
	Matched     int
	SkippedTag  int
	Isolated    int
	Shared      int
	Failed      int
	Interrupted bool
}

// Executed returns the number of fragments handed to an interpreter.
func (s *RunStats) Executed() int {
	return s.Isolated + s.Shared
}
