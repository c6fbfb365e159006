package filter

// Shader is the coarse pre-filter run by the backend for every new candidate pair,
// before any callback. It returns the filter flags and sets the initial pair flags.
type Shader func(attributes0 ObjectAttributes, filterData0 Data, attributes1 ObjectAttributes, filterData1 Data, pairFlags *PairFlags) FilterFlags

// DefaultShader suppresses pairs of two static objects, since neither of them can move into
// contact during the step, and hands every other pair to the callback with loss notification.
func DefaultShader(attributes0 ObjectAttributes, filterData0 Data, attributes1 ObjectAttributes, filterData1 Data, pairFlags *PairFlags) FilterFlags {
	if attributes0.IsStatic() && attributes1.IsStatic() {
		return FilterSuppress
	}

	if pairFlags != nil {
		*pairFlags = PairContactDefault
	}

	return FilterCallback | FilterNotify
}
