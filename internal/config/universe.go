package config

// DefaultBenchmark is the Nifty 50 index on Yahoo Finance.
const DefaultBenchmark = "^NSEI"

// DefaultUniverse returns the built-in test universe: a 15-stock slice
// of the Nifty 50. The full index would work but screens slower.
func DefaultUniverse() []string {
	return []string{
		"RELIANCE.NS",   // Energy
		"TCS.NS",        // IT services
		"INFY.NS",       // IT services
		"HDFCBANK.NS",   // Banking
		"ICICIBANK.NS",  // Banking
		"AXISBANK.NS",   // Banking
		"KOTAKBANK.NS",  // Banking
		"LT.NS",         // Engineering, construction
		"WIPRO.NS",      // IT services
		"HCLTECH.NS",    // IT services
		"BAJAJFINSV.NS", // Financial services
		"MARUTI.NS",     // Automobiles
		"BHARTIARTL.NS", // Telecom
		"SUNPHARMA.NS",  // Pharma
		"DRREDDY.NS",    // Pharma
	}
}
