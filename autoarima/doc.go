// Package autoarima implements automatic ARIMA order selection.
//
// The search fixes the differencing order d with unit-root tests, then
// explores (p,q) combinations and keeps the model minimizing an information
// criterion.
//
// # Basic Usage
//
//	config := autoarima.DefaultConfig()
//	result, err := autoarima.Search(series, config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("Best model: ARIMA(%d,%d,%d)\n",
//	    result.P, result.D, result.Q)
//	fmt.Printf("AICc: %.2f, Models evaluated: %d\n",
//	    result.AICc, result.ModelsEvaluated)
//
//	forecasts, _ := result.Predict(16)
//
// # Configuration Options
//
//	config := &autoarima.Config{
//	    MaxP:        3,        // Maximum AR order
//	    MaxD:        2,        // Maximum differencing order
//	    MaxQ:        3,        // Maximum MA order
//	    Criterion:   "aicc",   // "aic", "aicc", or "bic"
//	    Stepwise:    true,     // Use stepwise search
//	    StationTest: "kpss",   // "adf" or "kpss"
//	}
//
// # Search Methods
//
// Two search methods are available:
//   - Stepwise (default): Hyndman-Khandakar style neighborhood walk
//   - Grid: Exhaustive search over all (p,q) pairs (set Stepwise=false)
//
// Stepwise search is recommended for most use cases as it's faster while
// typically finding a good model.
//
// Seasonal series are handled separately by the sarimax package with a fixed
// seasonal order rather than searched here.
package autoarima
