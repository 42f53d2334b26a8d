package gsmath

var (
	Debug  = false // set to true for verbose debug output
	Serial = false // set to true to run launches on a single worker
)
