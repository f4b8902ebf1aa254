package forceconn

// Aggregate returns results unchanged when every item succeeded. Otherwise
// it returns an *Error of the given kind carrying message and the complete
// results, in their original order.
func Aggregate(results []Result, message string, kind error) ([]Result, error) {
	for _, r := range results {
		if !r.Success {
			return nil, &Error{
				Kind:    kind,
				Message: message,
				Results: results,
			}
		}
	}
	return results, nil
}
