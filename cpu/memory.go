package cpu

const (
	MEMORY_SIZE = 65536 // Number of memory cells.
	STEP_LIMIT  = 1000  // Default maximum instructions per run.
	WINDOW_SIZE = 6     // Bytes fetched per decode attempt.
)
